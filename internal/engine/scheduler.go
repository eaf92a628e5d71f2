package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/corvid-labs/moirai/internal/logger"
)

// Scheduler drives the engine's three independent timers: the fast decision
// cycle, the slower trend analysis, and the slowest optimization pass.
type Scheduler struct {
	cron *cron.Cron
}

// SchedulerIntervals holds the cadence of each timer.
type SchedulerIntervals struct {
	Cycle    time.Duration
	Trend    time.Duration
	Optimize time.Duration
}

// NewScheduler registers the three jobs but does not start them.
func NewScheduler(e *Engine, intervals SchedulerIntervals) (*Scheduler, error) {
	c := cron.New()

	if _, err := c.AddFunc(fmt.Sprintf("@every %s", intervals.Cycle), func() {
		if err := e.RunCycle(context.Background()); err != nil {
			logger.Log().WithError(err).Error("decision cycle failed")
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule decision cycle: %w", err)
	}

	if _, err := c.AddFunc(fmt.Sprintf("@every %s", intervals.Trend), func() {
		e.AnalyzeTrends()
	}); err != nil {
		return nil, fmt.Errorf("schedule trend analysis: %w", err)
	}

	if _, err := c.AddFunc(fmt.Sprintf("@every %s", intervals.Optimize), func() {
		if err := e.Optimize(); err != nil {
			logger.Log().WithError(err).Error("optimization pass failed")
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule optimization: %w", err)
	}

	return &Scheduler{cron: c}, nil
}

// Start begins firing the timers.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Log().Info("engine scheduler started")
}

// Stop halts new ticks and waits for in-flight jobs to finish, bounded by
// the context deadline. An in-progress cycle is never aborted mid-dispatch.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		logger.Log().Info("engine scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler shutdown: %w", ctx.Err())
	}
}
