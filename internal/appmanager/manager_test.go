package appmanager

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"DueReportSaas/api/auth"
	"DueReportSaas/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sequenceYAML = `
services:
  - name: gateway
    start_order: 6
    config:
      port: 0
      report_url: http://localhost:6143
  - name: logger
    start_order: 1
    config:
      folder_path: %s
  - name: resourcemanager
    start_order: 2
    config:
      spool_ttl: 10m
  - name: auth
    start_order: 4
    config:
      max_users: 5
      session_timeout: 1h
  - name: report
    start_order: 5
    config:
      port: 0
      max_files: 3
  - name: mystery
    start_order: 8
  - name: cron
    start_order: 7
    config:
      time_zone: UTC
`

func writeSequence(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "services.yaml")
	body := fmt.Sprintf(sequenceYAML, filepath.Join(dir, "logs"))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadServiceSequenceSortsByStartOrder(t *testing.T) {
	configs, err := LoadServiceSequence(writeSequence(t))
	require.NoError(t, err)

	names := make([]string, len(configs))
	for i, c := range configs {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"logger", "resourcemanager", "auth", "report", "gateway", "cron", "mystery"}, names)
	assert.Equal(t, 3, configs[3].Config["max_files"])

	_, err = LoadServiceSequence(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestAutoRegisterServices(t *testing.T) {
	t.Cleanup(func() {
		logger.SetGlobalLogger(nil)
		auth.SetGlobalAuthService(nil)
	})

	configs, err := LoadServiceSequence(writeSequence(t))
	require.NoError(t, err)

	am := NewAppManager()
	am.AutoRegisterServices(configs)

	for _, name := range []string{"logger", "resourcemanager", "auth", "report", "gateway", "cron"} {
		assert.NotNil(t, am.GetServiceByName(name), name)
	}
	assert.Nil(t, am.GetServiceByName("mystery"))
	assert.NotNil(t, logger.GlobalLogger)
	assert.Same(t, authSvc, am.GetServiceByName("auth"))
	assert.Same(t, spool, am.GetServiceByName("resourcemanager"))
}

func TestStartAndStopAll(t *testing.T) {
	t.Cleanup(func() { auth.SetGlobalAuthService(nil) })

	am := NewAppManager()
	am.AutoRegisterServices([]ServiceConfig{
		{Name: "resourcemanager", StartOrder: 1},
		{Name: "notification", StartOrder: 2},
		{Name: "auth", StartOrder: 3},
		{Name: "report", StartOrder: 4, Config: map[string]interface{}{"port": 0}},
		{Name: "cron", StartOrder: 5, Config: map[string]interface{}{"time_zone": "UTC"}},
	})

	require.NoError(t, am.StartAll())
	assert.NoError(t, am.StopAll())
}
