package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"DueReportSaas/internal/config"
	"DueReportSaas/internal/logger"
)

type GatewayService struct {
	config     map[string]interface{}
	port       int
	reportURLs []string
	server     *http.Server
}

func NewGatewayService(cfg map[string]interface{}) *GatewayService {
	return &GatewayService{
		config:     cfg,
		port:       config.Int(cfg, "port", config.DefaultGatewayPort),
		reportURLs: strings.Split(config.String(cfg, "report_url", config.DefaultReportURL), ","),
	}
}

func (s *GatewayService) Name() string {
	return "gateway"
}

func (s *GatewayService) Start() error {
	mux, err := NewGatewayMux(s.reportURLs...)
	if err != nil {
		return err
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		LogInfo("API Gateway started on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Default().WithError(err).Error("Gateway server failed")
		}
	}()
	return nil
}

func (s *GatewayService) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
