package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerLifecycle(t *testing.T) {
	now := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	m := NewManager()
	m.SetClock(func() time.Time { return now })

	short := m.CreateSession("alice", time.Minute)
	long := m.CreateSession("bob", time.Hour)
	require.NotEqual(t, short.ID, long.ID)
	_, err := uuid.Parse(short.ID)
	assert.NoError(t, err)

	got, ok := m.GetSession(short.ID)
	require.True(t, ok)
	assert.Equal(t, "alice", got.UserID)

	now = now.Add(2 * time.Minute)
	_, ok = m.GetSession(short.ID)
	assert.False(t, ok, "expired session must not be returned")
	_, ok = m.FindByUser("alice")
	assert.False(t, ok)
	assert.Len(t, m.Active(), 1)

	removed := m.CleanupExpiredSessions()
	assert.Equal(t, []string{short.ID}, removed)

	m.DeleteSession(long.ID)
	assert.Empty(t, m.Active())
}

func TestFindByUserReturnsNewest(t *testing.T) {
	now := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	m := NewManager()
	m.SetClock(func() time.Time { return now })

	m.CreateSession("alice", time.Hour)
	now = now.Add(time.Second)
	newest := m.CreateSession("alice", time.Hour)

	got, ok := m.FindByUser("alice")
	require.True(t, ok)
	assert.Equal(t, newest.ID, got.ID)
}
