// Package jobs runs the background settlement tasks on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"sync"

	"github.com/ArowuTest/lotto-backend/internal/metrics"
	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/services"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// ReconcileJob is the job label used in logs and metrics
const ReconcileJob = "reconcile"

// Scheduler reconciles every locked draw on a cron schedule
type Scheduler struct {
	cron       *cron.Cron
	schedule   string
	draws      services.DrawService
	settlement services.SettlementService

	// running guards against overlapping runs
	running sync.Mutex
}

// NewScheduler creates a scheduler; an empty schedule yields a scheduler that never fires
func NewScheduler(schedule string, draws services.DrawService, settlement services.SettlementService) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		schedule:   schedule,
		draws:      draws,
		settlement: settlement,
	}
}

// Start registers the reconciliation job and starts the cron loop
func (s *Scheduler) Start(ctx context.Context) error {
	if s.schedule == "" {
		log.Info("[CRON] reconciliation disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			log.WithError(err).Error("[CRON] reconciliation failed")
		}
	}); err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	log.WithField("schedule", s.schedule).Info("[CRON] scheduler started")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("[CRON] scheduler stopped")
}

// RunOnce reconciles every LOCKED draw and returns the number of orders matched.
// A run that overlaps a previous one is skipped.
func (s *Scheduler) RunOnce(ctx context.Context) (int64, error) {
	if !s.running.TryLock() {
		log.Debug("[CRON] previous reconciliation still running, skipping")
		return 0, nil
	}
	defer s.running.Unlock()

	draws, err := s.draws.ListDraws(ctx)
	if err != nil {
		metrics.RecordJobRun(ReconcileJob, false)
		return 0, err
	}

	var matched int64
	var firstErr error
	for _, draw := range draws {
		if draw.Status != models.DrawStatusLocked {
			continue
		}
		result, err := s.settlement.Reconcile(ctx, draw.ID)
		if err != nil {
			log.WithError(err).WithField("drawId", draw.ID).Error("[CRON] draw reconciliation failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		matched += result.Total
	}

	metrics.RecordJobRun(ReconcileJob, firstErr == nil)
	log.WithFields(log.Fields{"draws": len(draws), "matched": matched}).Debug("[CRON] reconciliation finished")
	return matched, firstErr
}
