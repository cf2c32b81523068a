package jobs

import (
	"testing"
	"time"

	"DueReportSaas/internal/resource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCleaner struct{ calls int }

func (c *countingCleaner) CleanupExpired() int {
	c.calls++
	return 2
}

func TestCronServiceSchedulesJobs(t *testing.T) {
	spool := resource.NewResourceManager(map[string]interface{}{"spool_ttl": "1ms"})
	cleaner := &countingCleaner{}
	svc := NewCronService(map[string]interface{}{"time_zone": "UTC"}, spool, cleaner)

	require.NoError(t, svc.Start())
	defer svc.Stop()
	assert.Equal(t, 2, svc.Entries())
	assert.Equal(t, "cron", svc.Name())
}

func TestCronServiceRejectsBadSchedule(t *testing.T) {
	svc := NewCronService(map[string]interface{}{"spool_sweep_schedule": "every tuesday"},
		resource.NewResourceManager(nil), nil)
	assert.Error(t, svc.Start())
	assert.NoError(t, svc.Stop())
}

func TestSweepJobs(t *testing.T) {
	spool := resource.NewResourceManager(map[string]interface{}{"spool_ttl": "1ms"})
	spool.AddResource(&resource.Artifact{Owner: "u-1", FileName: "a.xlsx", CreatedAt: time.Now().Add(-time.Minute)})
	cleaner := &countingCleaner{}
	svc := NewCronService(nil, spool, cleaner)

	svc.SweepSpool()
	assert.Zero(t, spool.Len())

	svc.CleanupSessions()
	assert.Equal(t, 1, cleaner.calls)
}
