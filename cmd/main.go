package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"DueReportSaas/internal/appmanager"
	"DueReportSaas/internal/config"
	"DueReportSaas/internal/logger"
)

func connString() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"), os.Getenv("DB_NAME"),
	)
}

// InitDB loads DB config from env vars
func InitDB() (*sql.DB, error) {
	return sql.Open("postgres", connString())
}

func InitPgxPool(ctx context.Context) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, connString())
}

func main() {
	// Load .env for local dev
	_ = godotenv.Load(config.DefaultEnvFile)

	log := logger.Default()

	// Without DB_HOST the service runs with in-memory sessions only
	if os.Getenv("DB_HOST") != "" {
		db, err := InitDB()
		if err != nil {
			log.Fatalf("failed to connect to DB: %v", err)
		}
		defer db.Close()
		appmanager.SetDB(db)

		pool, err := InitPgxPool(context.Background())
		if err != nil {
			log.Fatalf("failed to create pgx pool: %v", err)
		}
		defer pool.Close()
		appmanager.SetPgxPool(pool)
	} else {
		log.Warn("DB_HOST not set, login and user pre-validation are disabled")
	}

	servicesFile := os.Getenv("SERVICES_FILE")
	if servicesFile == "" {
		servicesFile = config.DefaultServicesFile
	}
	servicesCfg, err := appmanager.LoadServiceSequence(servicesFile)
	if err != nil {
		log.Fatalf("failed to load service sequence: %v", err)
	}

	manager := appmanager.NewAppManager()
	manager.AutoRegisterServices(servicesCfg)

	if err := manager.StartAll(); err != nil {
		logger.Default().Fatalf("failed to start: %v", err)
	}

	// Graceful shutdown handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	if err := manager.StopAll(); err != nil {
		logger.Default().Fatalf("failed to stop: %v", err)
	}
}
