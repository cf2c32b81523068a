package config

import "time"

const (
	DefaultTimeZone     = "Asia/Kolkata"
	DefaultServicesFile = "services.yaml"
	DefaultEnvFile      = ".env"

	DefaultGatewayPort = 8081
	DefaultReportPort  = 6143
	DefaultReportURL   = "http://localhost:6143"

	// Upload limits
	MaxUploadFiles     = 10
	MaxUploadBytes     = 32 << 20
	MaxRowsPerFile     = 100000
	DefaultParallelism = 4

	// Download spool
	DefaultSpoolTTL           = 30 * time.Minute
	DefaultSpoolSweepSchedule = "*/5 * * * *"
	DefaultHeartbeatInterval  = time.Minute

	// Sessions
	DefaultSessionTimeout       = 8 * time.Hour
	DefaultSessionSweepSchedule = "*/10 * * * *"
	DefaultMaxUsers             = 100

	NotificationsPerUser = 50

	// AsOfEnv pins the report date, mostly for reproducible runs.
	AsOfEnv = "REPORT_AS_OF"
)
