package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"taskbot/internal/adapter/http/dto"
	"taskbot/internal/core/domain"
)

var (
	ErrInvalidTaskPayload = errors.New("invalid task payload")
	ErrInvalidTaskFilter  = errors.New("invalid task filter")
)

// BuildUpdateTaskInput turns a PATCH body into a partial update. raw is the
// same body decoded as a map so explicit nulls can be told apart from
// absent fields: only description and due_at may be cleared with null.
func BuildUpdateTaskInput(req dto.UpdateTaskRequest, raw map[string]json.RawMessage) (domain.UpdateTaskInput, error) {
	if !hasTaskUpdateFields(raw) {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	var title *string
	if hasJSONField(raw, "title") && req.Title == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}
	if req.Title != nil {
		value := strings.TrimSpace(*req.Title)
		if value == "" {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		title = &value
	}

	for _, field := range []string{"priority", "progress_percent", "estimated_hours"} {
		if hasJSONField(raw, field) && isJSONNull(raw[field]) {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
	}

	descriptionSet := hasJSONField(raw, "description")
	if descriptionSet && !isJSONNull(raw["description"]) && req.Description == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	var dueAt *time.Time
	dueAtSet := hasJSONField(raw, "due_at")
	if dueAtSet && !isJSONNull(raw["due_at"]) {
		if req.DueAt == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		parsed, err := time.Parse(time.RFC3339, *req.DueAt)
		if err != nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		dueAt = &parsed
	}

	return domain.UpdateTaskInput{
		Title:           title,
		Description:     req.Description,
		DescriptionSet:  descriptionSet,
		DueAt:           dueAt,
		DueAtSet:        dueAtSet,
		Priority:        req.Priority,
		ProgressPercent: req.ProgressPercent,
		EstimatedHours:  req.EstimatedHours,
	}, nil
}

// BuildTaskFilter reads the status and scope query parameters. Empty values
// mean "any status" and the "all" scope.
func BuildTaskFilter(status, scope string) (domain.TaskFilter, error) {
	filter := domain.TaskFilter{Scope: domain.TaskScopeAll}

	if status != "" {
		value := domain.TaskStatus(status)
		if !value.Valid() {
			return domain.TaskFilter{}, ErrInvalidTaskFilter
		}
		filter.Status = &value
	}

	switch domain.TaskScope(scope) {
	case "", domain.TaskScopeAll:
	case domain.TaskScopeToday, domain.TaskScopeOverdue:
		filter.Scope = domain.TaskScope(scope)
	default:
		return domain.TaskFilter{}, ErrInvalidTaskFilter
	}

	return filter, nil
}

func hasTaskUpdateFields(raw map[string]json.RawMessage) bool {
	return hasJSONField(raw, "title") ||
		hasJSONField(raw, "description") ||
		hasJSONField(raw, "due_at") ||
		hasJSONField(raw, "priority") ||
		hasJSONField(raw, "progress_percent") ||
		hasJSONField(raw, "estimated_hours")
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
