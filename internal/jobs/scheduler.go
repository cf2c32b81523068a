package jobs

import (
	"fmt"
	"time"

	"DueReportSaas/internal/config"
	"DueReportSaas/internal/logger"

	"github.com/robfig/cron/v3"
)

// Sweeper drops expired report artifacts.
type Sweeper interface {
	Sweep() int
}

// SessionCleaner drops expired login sessions.
type SessionCleaner interface {
	CleanupExpired() int
}

type CronService struct {
	config   map[string]interface{}
	spool    Sweeper
	sessions SessionCleaner
	cron     *cron.Cron
}

func NewCronService(cfg map[string]interface{}, spool Sweeper, sessions SessionCleaner) *CronService {
	return &CronService{
		config:   cfg,
		spool:    spool,
		sessions: sessions,
	}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) Start() error {
	loc := config.Location(s.config)
	c := cron.New(cron.WithLocation(loc))

	if s.spool != nil {
		schedule := config.String(s.config, "spool_sweep_schedule", config.DefaultSpoolSweepSchedule)
		if _, err := c.AddFunc(schedule, s.SweepSpool); err != nil {
			return fmt.Errorf("invalid spool sweep schedule %q: %w", schedule, err)
		}
		logger.Audit(fmt.Sprintf("Spool sweep scheduled: %s", schedule))
	}
	if s.sessions != nil {
		schedule := config.String(s.config, "session_sweep_schedule", config.DefaultSessionSweepSchedule)
		if _, err := c.AddFunc(schedule, s.CleanupSessions); err != nil {
			return fmt.Errorf("invalid session sweep schedule %q: %w", schedule, err)
		}
		logger.Audit(fmt.Sprintf("Session cleanup scheduled: %s", schedule))
	}

	s.cron = c
	c.Start()
	logger.Audit(fmt.Sprintf("Cron service started with %d jobs (%s)", len(c.Entries()), loc))
	return nil
}

// Stop halts the scheduler and waits briefly for running jobs.
func (s *CronService) Stop() error {
	if s.cron == nil {
		return nil
	}
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(10 * time.Second):
		logger.Default().Warn("cron jobs still running at shutdown")
	}
	logger.Audit("Cron service stopped")
	return nil
}

// Entries reports how many jobs are scheduled.
func (s *CronService) Entries() int {
	if s.cron == nil {
		return 0
	}
	return len(s.cron.Entries())
}

func (s *CronService) SweepSpool() {
	if n := s.spool.Sweep(); n > 0 {
		logger.Audit(fmt.Sprintf("Spool sweep removed %d expired reports", n))
	}
}

func (s *CronService) CleanupSessions() {
	if n := s.sessions.CleanupExpired(); n > 0 {
		logger.Audit(fmt.Sprintf("Session cleanup removed %d expired sessions", n))
	}
}
