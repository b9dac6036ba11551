package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskbot/internal/core/domain"
	"taskbot/internal/core/ports"
)

type HandoffService struct {
	handoffRepository ports.HandoffRepository
	taskRepository    ports.TaskRepository
	now               func() time.Time
}

func NewHandoffService(handoffRepository ports.HandoffRepository, taskRepository ports.TaskRepository, now func() time.Time) *HandoffService {
	if now == nil {
		now = time.Now
	}
	return &HandoffService{
		handoffRepository: handoffRepository,
		taskRepository:    taskRepository,
		now:               now,
	}
}

// RegisterHandoff requires a task id, a recipient and a handoff time; the
// parser accepts commands without them so each gap gets its own message.
func (s *HandoffService) RegisterHandoff(ctx context.Context, input domain.CreateHandoffInput) (*domain.Handoff, error) {
	if input.TaskID == nil {
		return nil, domain.NewValidationError("task_id", "Task id is required")
	}
	if input.ToUserID == "" {
		return nil, domain.NewValidationError("to_user", "Handoff to user is required")
	}
	if input.HandoffAt.IsZero() {
		return nil, domain.NewValidationError("handoff_at", "Handoff time is required")
	}
	if _, err := s.taskRepository.GetByID(ctx, *input.TaskID); err != nil {
		return nil, err
	}

	handoff, err := domain.NewHandoff(input, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.handoffRepository.Save(ctx, handoff); err != nil {
		return nil, fmt.Errorf("save handoff: %w", err)
	}
	return handoff, nil
}

func (s *HandoffService) ListPendingHandoffs(ctx context.Context, userID string) ([]domain.Handoff, error) {
	return s.handoffRepository.FindPendingByRecipient(ctx, userID)
}

func (s *HandoffService) AcceptHandoff(ctx context.Context, id uuid.UUID) (*domain.Handoff, error) {
	return s.mutate(ctx, id, func(handoff *domain.Handoff) error {
		return handoff.Accept()
	})
}

func (s *HandoffService) CompleteHandoff(ctx context.Context, id uuid.UUID) (*domain.Handoff, error) {
	return s.mutate(ctx, id, func(handoff *domain.Handoff) error {
		return handoff.Complete(s.now())
	})
}

func (s *HandoffService) mutate(ctx context.Context, id uuid.UUID, apply func(*domain.Handoff) error) (*domain.Handoff, error) {
	handoff, err := s.handoffRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(handoff); err != nil {
		return nil, err
	}
	if err := s.handoffRepository.Save(ctx, handoff); err != nil {
		return nil, fmt.Errorf("save handoff %s: %w", id, err)
	}
	return handoff, nil
}

var _ ports.HandoffService = (*HandoffService)(nil)
