package mapper

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskbot/internal/adapter/http/dto"
	"taskbot/internal/core/domain"
)

// TimeLayout keeps sub-second precision so items map back to the same task.
const TimeLayout = time.RFC3339Nano

func ToTaskItems(tasks []domain.Task) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskItem(task))
	}
	return items
}

func ToTaskItem(task domain.Task) dto.TaskItem {
	item := dto.TaskItem{
		ID:              task.ID.String(),
		Title:           task.Title,
		AssigneeID:      task.AssigneeID,
		CreatorID:       task.CreatorID,
		Status:          string(task.Status),
		Priority:        task.Priority,
		ProgressPercent: task.ProgressPercent,
		CreatedAt:       task.CreatedAt.Format(TimeLayout),
		UpdatedAt:       task.UpdatedAt.Format(TimeLayout),
		Version:         task.Version,
	}

	if task.Description != nil {
		value := *task.Description
		item.Description = &value
	}

	item.DueAt = formatTime(task.DueAt)
	item.CompletedAt = formatTime(task.CompletedAt)

	if task.EstimatedHours != nil {
		value := *task.EstimatedHours
		item.EstimatedHours = &value
	}

	return item
}

// ToDomainTask is the inverse of ToTaskItem.
func ToDomainTask(item dto.TaskItem) (domain.Task, error) {
	id, err := uuid.Parse(item.ID)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task id: %w", err)
	}
	createdAt, err := time.Parse(TimeLayout, item.CreatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("created_at: %w", err)
	}
	updatedAt, err := time.Parse(TimeLayout, item.UpdatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("updated_at: %w", err)
	}
	dueAt, err := parseTime(item.DueAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("due_at: %w", err)
	}
	completedAt, err := parseTime(item.CompletedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("completed_at: %w", err)
	}

	task := domain.Task{
		ID:              id,
		Title:           item.Title,
		AssigneeID:      item.AssigneeID,
		CreatorID:       item.CreatorID,
		Status:          domain.TaskStatus(item.Status),
		DueAt:           dueAt,
		CompletedAt:     completedAt,
		Priority:        item.Priority,
		ProgressPercent: item.ProgressPercent,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
		Version:         item.Version,
	}

	if item.Description != nil {
		value := *item.Description
		task.Description = &value
	}

	if item.EstimatedHours != nil {
		value := *item.EstimatedHours
		task.EstimatedHours = &value
	}

	return task, nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	value := t.Format(TimeLayout)
	return &value
}

func parseTime(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := time.Parse(TimeLayout, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
