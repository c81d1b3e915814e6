// Package scheduler runs the daily pipeline on a cron schedule for
// long-lived deployments.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"StockVault/internal/pipeline"
)

// Scheduler triggers pipeline runs from cron ticks. Each tick is an
// independent invocation; no mutual exclusion is provided across overlapping
// runs (the atomic store keeps racing writes safe, last promote wins).
type Scheduler struct {
	cron    *cron.Cron
	runner  *pipeline.Runner
	symbols []string
	ctx     context.Context
	log     zerolog.Logger
}

// NewScheduler creates a scheduler bound to the given runner and symbol list.
func NewScheduler(ctx context.Context, runner *pipeline.Runner, symbols []string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		runner:  runner,
		symbols: symbols,
		ctx:     ctx,
		log:     log.With().Str("component", "scheduler").Logger(),
	}
}

// Register adds the daily fetch task.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron loop.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron loop gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow executes the daily task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.dailyTask()
}

func (s *Scheduler) dailyTask() {
	s.log.Info().Msg("running scheduled daily fetch")
	summary := s.runner.Run(s.ctx, s.symbols, pipeline.ModeDaily)
	if summary.Failed() {
		s.log.Error().Msg("scheduled daily fetch completed with failures")
	}
}
