package appmanager

import (
	"database/sql"
	"fmt"
	"os"
	"sort"
	"sync"

	"DueReportSaas/api"
	"DueReportSaas/api/auth"
	"DueReportSaas/api/report"
	"DueReportSaas/internal/config"
	"DueReportSaas/internal/jobs"
	"DueReportSaas/internal/logger"
	"DueReportSaas/internal/notification"
	"DueReportSaas/internal/resource"
	"DueReportSaas/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/yaml.v3"
)

var AuthDB *sql.DB
var db *sql.DB
var pgxPool *pgxpool.Pool

// Shared instances handed to the services that depend on them.
var (
	spool   *resource.ResourceManager
	notes   *notification.NotificationService
	authSvc *auth.AuthService
)

func SetDB(database *sql.DB) {
	db = database
	AuthDB = database
}

func SetPgxPool(pool *pgxpool.Pool) {
	pgxPool = pool
}

// GetDB returns the database connection
func GetDB() *sql.DB {
	return db
}

// GetPgxPool returns the pgx pool connection
func GetPgxPool() *pgxpool.Pool {
	return pgxPool
}

func sharedSpool() *resource.ResourceManager {
	if spool == nil {
		spool = resource.NewResourceManager(nil)
	}
	return spool
}

func sharedNotes() *notification.NotificationService {
	if notes == nil {
		notes = notification.NewNotificationService(config.NotificationsPerUser)
	}
	return notes
}

var serviceConstructors = map[string]func(map[string]interface{}) serviceiface.Service{
	"logger": func(cfg map[string]interface{}) serviceiface.Service {
		return logger.NewLoggerService(cfg)
	},
	"resourcemanager": func(cfg map[string]interface{}) serviceiface.Service {
		spool = resource.NewResourceManager(cfg)
		return spool
	},
	"notification": func(cfg map[string]interface{}) serviceiface.Service {
		notes = notification.NewNotificationService(config.Int(cfg, "per_user", config.NotificationsPerUser))
		return notes
	},
	"auth": func(cfg map[string]interface{}) serviceiface.Service {
		authSvc = auth.NewAuthService(AuthDB,
			config.Int(cfg, "max_users", config.DefaultMaxUsers),
			config.Duration(cfg, "session_timeout", config.DefaultSessionTimeout),
		)
		return authSvc
	},
	"report": func(cfg map[string]interface{}) serviceiface.Service {
		return report.NewReportService(cfg, sharedSpool(), sharedNotes(), pgxPool)
	},
	"gateway": func(cfg map[string]interface{}) serviceiface.Service {
		return api.NewGatewayService(cfg)
	},
	"cron": func(cfg map[string]interface{}) serviceiface.Service {
		var sessions jobs.SessionCleaner
		if authSvc != nil {
			sessions = authSvc
		}
		return jobs.NewCronService(cfg, sharedSpool(), sessions)
	},
}

// ------------------- MANAGER -------------------

type AppManager struct {
	services []serviceiface.Service
	mu       sync.Mutex
}

func NewAppManager() *AppManager {
	return &AppManager{
		services: make([]serviceiface.Service, 0),
	}
}

func (am *AppManager) RegisterService(s serviceiface.Service) {
	am.mu.Lock()
	defer am.mu.Unlock()
	am.services = append(am.services, s)
}

func (am *AppManager) StartAll() error {
	am.mu.Lock()
	defer am.mu.Unlock()

	// First pass: start all except resourcemanager
	for _, service := range am.services {
		if service.Name() == "resourcemanager" {
			continue
		}
		logger.Default().Infof("Starting service: %s", service.Name())
		if err := service.Start(); err != nil {
			return fmt.Errorf("failed to start service %s: %w", service.Name(), err)
		}
	}

	// The spool heartbeat starts once everything that writes to it is up
	for _, service := range am.services {
		if service.Name() == "resourcemanager" {
			logger.Default().Infof("Starting service: %s", service.Name())
			if err := service.Start(); err != nil {
				return fmt.Errorf("failed to start service %s: %w", service.Name(), err)
			}
		}
	}
	return nil
}

func (am *AppManager) StopAll() error {
	am.mu.Lock()
	defer am.mu.Unlock()
	for i := len(am.services) - 1; i >= 0; i-- {
		svc := am.services[i]
		if err := svc.Stop(); err != nil {
			return fmt.Errorf("failed to stop service %s: %w", svc.Name(), err)
		}
	}
	return nil
}

// ------------------- YAML CONFIG -------------------

type ServiceSequencer struct {
	Services []ServiceConfig `yaml:"services"`
}

type ServiceConfig struct {
	Name       string                 `yaml:"name"`
	StartOrder int                    `yaml:"start_order"`
	Config     map[string]interface{} `yaml:"config"`
}

func LoadServiceSequence(path string) ([]ServiceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seq ServiceSequencer
	if err := yaml.Unmarshal(data, &seq); err != nil {
		return nil, err
	}

	// sort by start_order
	sort.SliceStable(seq.Services, func(i, j int) bool {
		return seq.Services[i].StartOrder < seq.Services[j].StartOrder
	})

	return seq.Services, nil
}

// AutoRegisterServices builds every known service in start order. Unknown
// names are logged and skipped.
func (am *AppManager) AutoRegisterServices(configs []ServiceConfig) {
	for _, svc := range configs {
		constructor, ok := serviceConstructors[svc.Name]
		if !ok {
			logger.Default().Warnf("unknown service %q in sequence, skipping", svc.Name)
			continue
		}
		service := constructor(svc.Config)
		am.RegisterService(service)
		if svc.Name == "auth" {
			if realAuthSvc, ok := service.(*auth.AuthService); ok {
				api.SetAuthService(realAuthSvc)
				auth.SetGlobalAuthService(realAuthSvc)
			}
		}
		if l, ok := service.(*logger.LoggerService); ok {
			logger.SetGlobalLogger(l)
		}
	}
}

func (am *AppManager) GetServiceByName(name string) serviceiface.Service {
	am.mu.Lock()
	defer am.mu.Unlock()
	for _, svc := range am.services {
		if svc.Name() == name {
			return svc
		}
	}
	return nil
}
