package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

type HandoffStatus string

const (
	HandoffStatusPending   HandoffStatus = "pending"
	HandoffStatusAccepted  HandoffStatus = "accepted"
	HandoffStatusCompleted HandoffStatus = "completed"
)

const (
	MaxHandoffContentLength = 5000
	// ReminderWindow is how long before the scheduled time the one-shot
	// reminder becomes due.
	ReminderWindow = 10 * time.Minute
)

func (s HandoffStatus) Valid() bool {
	switch s {
	case HandoffStatusPending, HandoffStatusAccepted, HandoffStatusCompleted:
		return true
	}
	return false
}

type HandoffContent struct {
	ProgressNote string
	NextSteps    string
}

func NewHandoffContent(progressNote, nextSteps string) (HandoffContent, error) {
	if strings.TrimSpace(progressNote) == "" {
		return HandoffContent{}, NewValidationError("progress_note", "Progress note cannot be empty")
	}
	if strings.TrimSpace(nextSteps) == "" {
		return HandoffContent{}, NewValidationError("next_steps", "Next steps cannot be empty")
	}
	if utf8.RuneCountInString(progressNote) > MaxHandoffContentLength {
		return HandoffContent{}, NewValidationError("progress_note", "Progress note is too long (max 5000 characters)")
	}
	if utf8.RuneCountInString(nextSteps) > MaxHandoffContentLength {
		return HandoffContent{}, NewValidationError("next_steps", "Next steps is too long (max 5000 characters)")
	}
	return HandoffContent{ProgressNote: progressNote, NextSteps: nextSteps}, nil
}

// Handoff is a scheduled transfer of work context between two users.
// RemindedAt can only be set while not completed; CompletedAt is non-nil iff
// Status is completed.
type Handoff struct {
	ID          uuid.UUID
	TaskID      *uuid.UUID
	FromUserID  string
	ToUserID    string
	Content     HandoffContent
	HandoffAt   time.Time
	Status      HandoffStatus
	RemindedAt  *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	Version     int
}

type CreateHandoffInput struct {
	TaskID       *uuid.UUID
	FromUserID   string
	ToUserID     string
	ProgressNote string
	NextSteps    string
	HandoffAt    time.Time
}

// NewHandoff validates the input and returns a pending handoff. The
// scheduled time must be strictly after now.
func NewHandoff(input CreateHandoffInput, now time.Time) (*Handoff, error) {
	if strings.TrimSpace(input.FromUserID) == "" {
		return nil, NewValidationError("from_user", "Handoff from user cannot be empty")
	}
	if strings.TrimSpace(input.ToUserID) == "" {
		return nil, NewValidationError("to_user", "Handoff to user cannot be empty")
	}
	if input.FromUserID == input.ToUserID {
		return nil, NewValidationError("to_user", "Cannot handoff to the same user")
	}
	content, err := NewHandoffContent(input.ProgressNote, input.NextSteps)
	if err != nil {
		return nil, err
	}
	if !input.HandoffAt.After(now) {
		return nil, NewValidationError("handoff_at", "Handoff time must be in the future")
	}

	return &Handoff{
		ID:         uuid.New(),
		TaskID:     input.TaskID,
		FromUserID: input.FromUserID,
		ToUserID:   input.ToUserID,
		Content:    content,
		HandoffAt:  input.HandoffAt,
		Status:     HandoffStatusPending,
		CreatedAt:  now,
	}, nil
}

func (h *Handoff) Accept() error {
	if h.Status != HandoffStatusPending {
		return &StateError{Entity: "handoff", Op: "accept", Status: string(h.Status)}
	}
	h.Status = HandoffStatusAccepted
	return nil
}

// Complete works from both pending and accepted.
func (h *Handoff) Complete(at time.Time) error {
	if h.Status == HandoffStatusCompleted {
		return &StateError{Entity: "handoff", Op: "complete", Status: string(h.Status)}
	}
	h.Status = HandoffStatusCompleted
	h.CompletedAt = &at
	return nil
}

// MarkReminded records the reminder without touching the status.
func (h *Handoff) MarkReminded(at time.Time) error {
	if h.Status == HandoffStatusCompleted {
		return &StateError{Entity: "handoff", Op: "remind", Status: string(h.Status)}
	}
	h.RemindedAt = &at
	return nil
}

func (h *Handoff) IsPending() bool {
	return h.Status == HandoffStatusPending
}

func (h *Handoff) IsCompleted() bool {
	return h.Status == HandoffStatusCompleted
}

// IsOverdue is true once the scheduled time has passed on an open handoff.
func (h *Handoff) IsOverdue(now time.Time) bool {
	return !h.IsCompleted() && h.HandoffAt.Before(now)
}

// IsReminderNeeded is true while the scheduled time lies within
// [now, now+ReminderWindow] and no reminder has been sent.
func (h *Handoff) IsReminderNeeded(now time.Time) bool {
	if h.IsCompleted() || h.RemindedAt != nil {
		return false
	}
	if h.HandoffAt.Before(now) {
		return false
	}
	return !h.HandoffAt.After(now.Add(ReminderWindow))
}

// ShouldSendOverdueReminder drives the overdue sweep, which is separate from
// the near-due reminder.
func (h *Handoff) ShouldSendOverdueReminder(now time.Time) bool {
	return h.IsOverdue(now) && h.RemindedAt == nil
}
