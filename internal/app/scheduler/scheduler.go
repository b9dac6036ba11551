// Package scheduler runs the reminder sweeps on a fixed interval.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"taskbot/internal/core/ports"
)

const DefaultInterval = time.Minute

type Config struct {
	Interval time.Duration
	// RunOnStart sweeps immediately instead of waiting for the first tick.
	RunOnStart bool
}

type Scheduler struct {
	reminders ports.ReminderService
	cfg       Config
}

func New(reminders ports.ReminderService, cfg Config) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Scheduler{reminders: reminders, cfg: cfg}
}

// Run blocks until ctx is canceled. Sweep errors are logged and retried on
// the next tick.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	zap.L().Info("reminder scheduler started", zap.Duration("interval", s.cfg.Interval))

	if s.cfg.RunOnStart {
		s.RunOnce(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("reminder scheduler stopping", zap.Error(ctx.Err()))
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce runs the near-due sweep, then the overdue sweep.
func (s *Scheduler) RunOnce(ctx context.Context) (due, overdue ports.SweepResult) {
	due, err := s.reminders.SendDueReminders(ctx)
	logSweep("due", due, err)

	if ctx.Err() != nil {
		return due, overdue
	}

	overdue, err = s.reminders.SendOverdueReminders(ctx)
	logSweep("overdue", overdue, err)
	return due, overdue
}

func logSweep(name string, result ports.SweepResult, err error) {
	if err != nil {
		zap.L().Error("reminder sweep failed", zap.String("sweep", name), zap.Error(err))
		return
	}
	if result.Sent == 0 && result.Failed == 0 {
		return
	}
	zap.L().Info("reminder sweep finished",
		zap.String("sweep", name),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
	)
}
