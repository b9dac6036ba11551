package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

const (
	MaxTaskTitleLength = 200
	DefaultPriority    = 5
	MinPriority        = 1
	MaxPriority        = 10
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// Task is the personal task aggregate. It is mutated in place by its own
// methods; CompletedAt is non-nil iff Status is completed.
type Task struct {
	ID              uuid.UUID
	Title           string
	Description     *string
	AssigneeID      string
	CreatorID       string
	Status          TaskStatus
	DueAt           *time.Time
	CompletedAt     *time.Time
	Priority        int
	ProgressPercent int
	EstimatedHours  *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	// Version is the optimistic-lock counter; 0 means not persisted yet.
	Version int
}

type CreateTaskInput struct {
	Title          string
	Description    *string
	AssigneeID     string
	CreatorID      string
	DueAt          *time.Time
	Priority       *int
	EstimatedHours *float64
}

type UpdateTaskInput struct {
	Title           *string
	Description     *string
	DescriptionSet  bool
	DueAt           *time.Time
	DueAtSet        bool
	Priority        *int
	ProgressPercent *int
	EstimatedHours  *float64
}

// NewTask validates the input and returns a pending task with a fresh id.
func NewTask(input CreateTaskInput, now time.Time) (*Task, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.AssigneeID) == "" {
		return nil, NewValidationError("assignee", "Task assignee cannot be empty")
	}
	if strings.TrimSpace(input.CreatorID) == "" {
		return nil, NewValidationError("creator", "Task creator cannot be empty")
	}

	priority := DefaultPriority
	if input.Priority != nil {
		priority = *input.Priority
	}
	if err := validatePriority(priority); err != nil {
		return nil, err
	}
	if err := validateEstimatedHours(input.EstimatedHours); err != nil {
		return nil, err
	}

	return &Task{
		ID:             uuid.New(),
		Title:          title,
		Description:    input.Description,
		AssigneeID:     input.AssigneeID,
		CreatorID:      input.CreatorID,
		Status:         TaskStatusPending,
		DueAt:          input.DueAt,
		Priority:       priority,
		EstimatedHours: input.EstimatedHours,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Start moves a pending task to in_progress.
func (t *Task) Start(now time.Time) error {
	if t.Status != TaskStatusPending {
		return &StateError{Entity: "task", Op: "start", Status: string(t.Status)}
	}
	t.Status = TaskStatusInProgress
	t.touch(now)
	return nil
}

// Complete is strict: completing an already completed task fails.
func (t *Task) Complete(now time.Time) error {
	if t.Status.Terminal() {
		return &StateError{Entity: "task", Op: "complete", Status: string(t.Status)}
	}
	t.Status = TaskStatusCompleted
	t.touch(now)
	completedAt := t.UpdatedAt
	t.CompletedAt = &completedAt
	return nil
}

func (t *Task) Cancel(now time.Time) error {
	if t.Status.Terminal() {
		return &StateError{Entity: "task", Op: "cancel", Status: string(t.Status)}
	}
	t.Status = TaskStatusCancelled
	t.touch(now)
	return nil
}

// Update applies a partial update. Nothing is changed when any field is invalid.
func (t *Task) Update(input UpdateTaskInput, now time.Time) error {
	var title string
	if input.Title != nil {
		value, err := validateTitle(*input.Title)
		if err != nil {
			return err
		}
		title = value
	}
	if input.Priority != nil {
		if err := validatePriority(*input.Priority); err != nil {
			return err
		}
	}
	if input.ProgressPercent != nil {
		if err := validateProgress(*input.ProgressPercent); err != nil {
			return err
		}
	}
	if err := validateEstimatedHours(input.EstimatedHours); err != nil {
		return err
	}

	if input.Title != nil {
		t.Title = title
	}
	if input.DescriptionSet || input.Description != nil {
		t.Description = input.Description
	}
	if input.DueAtSet || input.DueAt != nil {
		t.DueAt = input.DueAt
	}
	if input.Priority != nil {
		t.Priority = *input.Priority
	}
	if input.ProgressPercent != nil {
		t.ProgressPercent = *input.ProgressPercent
	}
	if input.EstimatedHours != nil {
		t.EstimatedHours = input.EstimatedHours
	}
	t.touch(now)
	return nil
}

func (t *Task) UpdateProgress(progress int, now time.Time) error {
	return t.Update(UpdateTaskInput{ProgressPercent: &progress}, now)
}

// IsOverdue is true when the due date has passed on an open task.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueAt == nil || t.Status.Terminal() {
		return false
	}
	return now.After(*t.DueAt)
}

// touch advances UpdatedAt, even when the clock has not moved.
func (t *Task) touch(now time.Time) {
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Microsecond)
	}
	t.UpdatedAt = now
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", NewValidationError("title", "Task title cannot be empty")
	}
	if utf8.RuneCountInString(title) > MaxTaskTitleLength {
		return "", NewValidationError("title", "Task title must be 200 characters or less")
	}
	return title, nil
}

func validatePriority(priority int) error {
	if priority < MinPriority || priority > MaxPriority {
		return NewValidationError("priority", "Task priority must be between 1 and 10")
	}
	return nil
}

func validateProgress(progress int) error {
	if progress < 0 || progress > 100 {
		return NewValidationError("progress_percent", "Progress percent must be between 0 and 100")
	}
	return nil
}

func validateEstimatedHours(hours *float64) error {
	if hours != nil && *hours < 0 {
		return NewValidationError("estimated_hours", "Estimated hours cannot be negative")
	}
	return nil
}

// TaskScope narrows a task listing.
type TaskScope string

const (
	TaskScopeAll     TaskScope = "all"
	TaskScopeToday   TaskScope = "today"
	TaskScopeOverdue TaskScope = "overdue"
)

type TaskFilter struct {
	Status *TaskStatus
	Scope  TaskScope
}
