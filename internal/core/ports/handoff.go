package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskbot/internal/core/domain"
)

// HandoffRepository follows the same Save contract as TaskRepository.
type HandoffRepository interface {
	Save(ctx context.Context, handoff *domain.Handoff) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Handoff, error)
	FindPendingByRecipient(ctx context.Context, userID string) ([]domain.Handoff, error)
	// FindReminderCandidates returns open, never-reminded handoffs scheduled
	// at or before until.
	FindReminderCandidates(ctx context.Context, until time.Time) ([]domain.Handoff, error)
	FindOverdueWithoutReminder(ctx context.Context, now time.Time) ([]domain.Handoff, error)
}

// Notifier delivers reminder DMs and returns a platform message reference.
type Notifier interface {
	SendDirectMessage(ctx context.Context, userID, text string) (string, error)
}

type HandoffService interface {
	RegisterHandoff(ctx context.Context, input domain.CreateHandoffInput) (*domain.Handoff, error)
	ListPendingHandoffs(ctx context.Context, userID string) ([]domain.Handoff, error)
	AcceptHandoff(ctx context.Context, id uuid.UUID) (*domain.Handoff, error)
	CompleteHandoff(ctx context.Context, id uuid.UUID) (*domain.Handoff, error)
}

type SweepResult struct {
	Sent   int
	Failed int
}

type ReminderService interface {
	SendDueReminders(ctx context.Context) (SweepResult, error)
	SendOverdueReminders(ctx context.Context) (SweepResult, error)
}
