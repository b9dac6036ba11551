package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskbot/internal/core/domain"
	"taskbot/internal/core/ports"
)

type TaskService struct {
	taskRepository ports.TaskRepository
	now            func() time.Time
}

func NewTaskService(taskRepository ports.TaskRepository, now func() time.Time) *TaskService {
	if now == nil {
		now = time.Now
	}
	return &TaskService{taskRepository: taskRepository, now: now}
}

func (s *TaskService) RegisterTask(ctx context.Context, input domain.CreateTaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(input, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.taskRepository.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	return task, nil
}

// ListTasks applies the scope first and the optional status filter second.
func (s *TaskService) ListTasks(ctx context.Context, userID string, filter domain.TaskFilter) ([]domain.Task, error) {
	var (
		tasks []domain.Task
		err   error
	)
	switch filter.Scope {
	case domain.TaskScopeToday:
		tasks, err = s.taskRepository.ListDueToday(ctx, userID, s.now())
	case domain.TaskScopeOverdue:
		tasks, err = s.taskRepository.ListOverdue(ctx, userID, s.now())
	default:
		return s.taskRepository.ListByUser(ctx, userID, filter.Status)
	}
	if err != nil {
		return nil, err
	}
	if filter.Status == nil {
		return tasks, nil
	}

	filtered := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Status == *filter.Status {
			filtered = append(filtered, task)
		}
	}
	return filtered, nil
}

func (s *TaskService) CompleteTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.mutate(ctx, id, func(task *domain.Task, now time.Time) error {
		return task.Complete(now)
	})
}

func (s *TaskService) CancelTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.mutate(ctx, id, func(task *domain.Task, now time.Time) error {
		return task.Cancel(now)
	})
}

func (s *TaskService) StartTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.mutate(ctx, id, func(task *domain.Task, now time.Time) error {
		return task.Start(now)
	})
}

func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, input domain.UpdateTaskInput) (*domain.Task, error) {
	return s.mutate(ctx, id, func(task *domain.Task, now time.Time) error {
		return task.Update(input, now)
	})
}

// mutate is a read-modify-write; a concurrent writer surfaces as
// domain.ErrVersionConflict from the repository.
func (s *TaskService) mutate(ctx context.Context, id uuid.UUID, apply func(*domain.Task, time.Time) error) (*domain.Task, error) {
	task, err := s.taskRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(task, s.now()); err != nil {
		return nil, err
	}
	if err := s.taskRepository.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task %s: %w", id, err)
	}
	return task, nil
}

var _ ports.TaskService = (*TaskService)(nil)
