package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskbot/internal/core/domain"
)

// TaskRepository persists tasks. Save inserts when Version is 0 and
// otherwise updates only if the stored version still matches, returning
// domain.ErrVersionConflict on a stale write. GetByID returns
// domain.ErrTaskNotFound when the id does not resolve.
type TaskRepository interface {
	Save(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListByUser(ctx context.Context, userID string, status *domain.TaskStatus) ([]domain.Task, error)
	ListDueToday(ctx context.Context, userID string, now time.Time) ([]domain.Task, error)
	ListOverdue(ctx context.Context, userID string, now time.Time) ([]domain.Task, error)
}

type TaskService interface {
	RegisterTask(ctx context.Context, input domain.CreateTaskInput) (*domain.Task, error)
	ListTasks(ctx context.Context, userID string, filter domain.TaskFilter) ([]domain.Task, error)
	CompleteTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	CancelTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	StartTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, input domain.UpdateTaskInput) (*domain.Task, error)
}
