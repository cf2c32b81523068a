package resource

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpoolLifecycle(t *testing.T) {
	now := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	rm := NewResourceManager(map[string]interface{}{"spool_ttl": "10m"})
	rm.now = func() time.Time { return now }
	assert.Equal(t, 10*time.Minute, rm.TTL())

	first := rm.AddResource(&Artifact{Owner: "alice", FileName: "a_Payment_Due_Report.xlsx", Data: []byte("a")})
	now = now.Add(6 * time.Minute)
	second := rm.AddResource(&Artifact{Owner: "alice", FileName: "b_Payment_Due_Report.xlsx", Data: []byte("b")})
	rm.AddResource(&Artifact{Owner: "bob", Data: []byte("c")})

	require.NotEmpty(t, first)
	assert.Equal(t, []string{first, second}, rm.ListResources("alice"))
	assert.Len(t, rm.ListResources(""), 3)

	a, ok := rm.GetResource(first)
	require.True(t, ok)
	assert.Equal(t, "alice", a.Owner)

	now = now.Add(5 * time.Minute)
	_, ok = rm.GetResource(first)
	assert.False(t, ok)
	assert.Equal(t, 1, rm.Sweep())
	assert.Equal(t, 2, rm.Len())

	rm.RemoveResource(second)
	_, ok = rm.GetResource(second)
	assert.False(t, ok)
}

func TestSpoolStartStop(t *testing.T) {
	rm := NewResourceManager(map[string]interface{}{"heartbeat_interval": "5ms"})
	require.NoError(t, rm.Start())
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, rm.Stop())
	assert.Equal(t, "resourcemanager", rm.Name())
}
