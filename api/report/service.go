package report

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"DueReportSaas/api"
	"DueReportSaas/internal/batch"
	"DueReportSaas/internal/config"
	"DueReportSaas/internal/notification"
	"DueReportSaas/internal/resource"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReportService struct {
	config  map[string]interface{}
	port    int
	handler *Handler
	pool    *pgxpool.Pool
	server  *http.Server
}

// NewReportService builds the report HTTP service. pool may be nil, in which
// case uploads are gated on the in-memory session only.
func NewReportService(cfg map[string]interface{}, spool *resource.ResourceManager, notes *notification.NotificationService, pool *pgxpool.Pool) *ReportService {
	p := batch.NewProcessor()
	p.MaxFiles = config.Int(cfg, "max_files", config.MaxUploadFiles)
	p.Parallel = config.Int(cfg, "max_parallel_files", config.DefaultParallelism)
	p.MaxRows = config.Int(cfg, "max_rows_per_file", config.MaxRowsPerFile)
	p.AllowMissingPayments = config.Bool(cfg, "allow_missing_payments", false)

	return &ReportService{
		config:  cfg,
		port:    config.Int(cfg, "port", config.DefaultReportPort),
		handler: NewHandler(p, spool, notes, config.Location(cfg)),
		pool:    pool,
	}
}

func (s *ReportService) Name() string {
	return "report"
}

func (s *ReportService) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           NewRouter(s.handler, s.pool),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		api.LogInfo("Report Service started on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			api.LogError("Report Service failed: %v", err)
		}
	}()
	return nil
}

func (s *ReportService) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
