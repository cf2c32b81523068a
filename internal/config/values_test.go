package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValuesFromYAML(t *testing.T) {
	var cfg map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(`
port: 6143
max_files: "12"
ratio: 2.0
allow_missing_payments: true
strict: "false"
spool_ttl: 45m
heartbeat_interval: 30
name: "  report  "
`), &cfg))

	assert.Equal(t, 6143, Int(cfg, "port", 0))
	assert.Equal(t, 12, Int(cfg, "max_files", 0))
	assert.Equal(t, 2, Int(cfg, "ratio", 0))
	assert.Equal(t, 7, Int(cfg, "missing", 7))

	assert.True(t, Bool(cfg, "allow_missing_payments", false))
	assert.False(t, Bool(cfg, "strict", true))
	assert.True(t, Bool(cfg, "missing", true))

	assert.Equal(t, 45*time.Minute, Duration(cfg, "spool_ttl", 0))
	assert.Equal(t, 30*time.Second, Duration(cfg, "heartbeat_interval", 0))
	assert.Equal(t, time.Hour, Duration(cfg, "missing", time.Hour))

	assert.Equal(t, "report", String(cfg, "name", ""))
	assert.Equal(t, "x", String(cfg, "missing", "x"))
	assert.Equal(t, "x", String(nil, "missing", "x"))
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "UTC", Location(map[string]interface{}{"time_zone": "UTC"}).String())
	assert.Equal(t, time.UTC, Location(map[string]interface{}{"time_zone": "Nowhere/Invalid"}))
}

func TestResolveAsOf(t *testing.T) {
	now := time.Date(2024, time.March, 1, 20, 0, 0, 0, time.UTC)
	plus5 := time.FixedZone("+05", 5*3600)

	got, err := ResolveAsOf("", now, plus5)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC), got)

	got, err = ResolveAsOf("2024-01-31", now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC), got)

	_, err = ResolveAsOf("31/01/2024", now, time.UTC)
	assert.Error(t, err)
}
