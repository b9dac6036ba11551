package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"taskbot/internal/core/domain"
	"taskbot/internal/core/ports"
)

const (
	SweepDue     = "due"
	SweepOverdue = "overdue"
)

// ReminderService sends handoff reminder DMs. A handoff is only marked as
// reminded after the notifier succeeded, so failed sends are retried on the
// next sweep.
type ReminderService struct {
	handoffRepository ports.HandoffRepository
	notifier          ports.Notifier
	formatter         *Formatter
	metrics           ports.CommandMetrics
	now               func() time.Time
}

func NewReminderService(
	handoffRepository ports.HandoffRepository,
	notifier ports.Notifier,
	formatter *Formatter,
	metrics ports.CommandMetrics,
	now func() time.Time,
) *ReminderService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if now == nil {
		now = time.Now
	}
	return &ReminderService{
		handoffRepository: handoffRepository,
		notifier:          notifier,
		formatter:         formatter,
		metrics:           metrics,
		now:               now,
	}
}

// SendDueReminders notifies recipients of handoffs scheduled within the next
// domain.ReminderWindow.
func (s *ReminderService) SendDueReminders(ctx context.Context) (ports.SweepResult, error) {
	now := s.now()
	candidates, err := s.handoffRepository.FindReminderCandidates(ctx, now.Add(domain.ReminderWindow))
	if err != nil {
		return ports.SweepResult{}, fmt.Errorf("find reminder candidates: %w", err)
	}
	return s.sweep(ctx, SweepDue, candidates, now,
		func(h *domain.Handoff) bool { return h.IsReminderNeeded(now) },
		s.formatter.HandoffReminder,
	)
}

// SendOverdueReminders notifies recipients of handoffs whose time has passed
// without any reminder.
func (s *ReminderService) SendOverdueReminders(ctx context.Context) (ports.SweepResult, error) {
	now := s.now()
	candidates, err := s.handoffRepository.FindOverdueWithoutReminder(ctx, now)
	if err != nil {
		return ports.SweepResult{}, fmt.Errorf("find overdue handoffs: %w", err)
	}
	return s.sweep(ctx, SweepOverdue, candidates, now,
		func(h *domain.Handoff) bool { return h.ShouldSendOverdueReminder(now) },
		s.formatter.HandoffOverdueReminder,
	)
}

func (s *ReminderService) sweep(
	ctx context.Context,
	name string,
	candidates []domain.Handoff,
	now time.Time,
	eligible func(*domain.Handoff) bool,
	format func(*domain.Handoff) string,
) (ports.SweepResult, error) {
	var result ports.SweepResult
	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		handoff := &candidates[i]
		if !eligible(handoff) {
			continue
		}

		ref, err := s.notifier.SendDirectMessage(ctx, handoff.ToUserID, format(handoff))
		if err != nil {
			zap.L().Warn("failed to send handoff reminder",
				zap.String("sweep", name),
				zap.String("handoff_id", handoff.ID.String()),
				zap.String("to_user", handoff.ToUserID),
				zap.Error(err),
			)
			result.Failed++
			s.metrics.ObserveReminder(name, "send_failed")
			continue
		}

		err = handoff.MarkReminded(now)
		if err == nil {
			err = s.handoffRepository.Save(ctx, handoff)
		}
		if err != nil {
			// the DM went out; the next sweep may send it again
			zap.L().Error("failed to record handoff reminder",
				zap.String("sweep", name),
				zap.String("handoff_id", handoff.ID.String()),
				zap.Error(err),
			)
			result.Failed++
			s.metrics.ObserveReminder(name, "save_failed")
			continue
		}

		zap.L().Info("handoff reminder sent",
			zap.String("sweep", name),
			zap.String("handoff_id", handoff.ID.String()),
			zap.String("message_ref", ref),
		)
		result.Sent++
		s.metrics.ObserveReminder(name, "sent")
	}
	return result, nil
}

var _ ports.ReminderService = (*ReminderService)(nil)
