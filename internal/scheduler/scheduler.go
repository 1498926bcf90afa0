// Package scheduler runs the periodic payment reconciliation jobs.
package scheduler

import (
	"context"
	"time"

	"learnhub-be/internal/pkg/logger"
	"learnhub-be/internal/service"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 2 * time.Minute

type Scheduler struct {
	cron      *cron.Cron
	reconcile service.IReconciliationService
	logger    logger.ILogger
}

// New registers the reconciliation job under spec, a standard five field cron expression.
func New(spec string, reconcile service.IReconciliationService, log logger.ILogger) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger))),
		reconcile: reconcile,
		logger:    log,
	}
	if _, err := s.cron.AddFunc(spec, s.RunReconcile); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("SCHEDULER", "Scheduler started", map[string]interface{}{"jobs": len(s.cron.Entries())})
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) RunReconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	expired, err := s.reconcile.ExpireStalePayments(ctx)
	if err != nil {
		s.logger.Error("SCHEDULER", "Failed to expire stale payments", map[string]interface{}{"error": err.Error()})
	}

	orphans, err := s.reconcile.DetectMissingEnrollments(ctx)
	if err != nil {
		s.logger.Error("SCHEDULER", "Failed to scan for missing enrollments", map[string]interface{}{"error": err.Error()})
	}

	s.logger.Debug("SCHEDULER", "Reconciliation finished", map[string]interface{}{
		"expired": expired,
		"orphans": orphans,
	})
}
