package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"taskbot/internal/core/domain"
	"taskbot/internal/core/parser"
	"taskbot/internal/core/ports"
)

// Command outcomes reported to CommandMetrics.
const (
	OutcomeOK           = "ok"
	OutcomeInvalid      = "invalid"
	OutcomeInvalidState = "invalid_state"
	OutcomeNotFound     = "not_found"
	OutcomeConflict     = "conflict"
	OutcomeError        = "error"
)

// Dispatcher turns chat text into use case calls and replies. It is the
// only entry point chat transports need.
type Dispatcher struct {
	parser         *parser.Parser
	taskService    ports.TaskService
	handoffService ports.HandoffService
	formatter      *Formatter
	metrics        ports.CommandMetrics
}

func NewDispatcher(
	p *parser.Parser,
	taskService ports.TaskService,
	handoffService ports.HandoffService,
	formatter *Formatter,
	metrics ports.CommandMetrics,
) *Dispatcher {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Dispatcher{
		parser:         p,
		taskService:    taskService,
		handoffService: handoffService,
		formatter:      formatter,
		metrics:        metrics,
	}
}

// ParseAndDispatch never fails: errors become reply text. handled is false
// only when the text is not a command.
func (d *Dispatcher) ParseAndDispatch(ctx context.Context, text, userID string) (string, bool) {
	cmd, ok := d.parser.Parse(text, userID)
	if !ok {
		d.metrics.ObserveParseMiss()
		return "", false
	}

	reply, err := d.dispatch(ctx, cmd)
	outcome := OutcomeOK
	if err != nil {
		reply, outcome = d.replyForError(cmd, err)
	}
	d.metrics.ObserveCommand(string(cmd.Kind()), outcome)
	return reply, true
}

func (d *Dispatcher) dispatch(ctx context.Context, cmd domain.ParsedCommand) (string, error) {
	switch p := cmd.Payload.(type) {
	case domain.TaskRegisterPayload:
		task, err := d.taskService.RegisterTask(ctx, domain.CreateTaskInput{
			Title:      p.Title,
			AssigneeID: cmd.UserID,
			CreatorID:  cmd.UserID,
			DueAt:      p.DueAt,
		})
		if err != nil {
			return "", err
		}
		return d.formatter.TaskCreated(task), nil

	case domain.TaskListPayload:
		tasks, err := d.taskService.ListTasks(ctx, cmd.UserID, domain.TaskFilter{Status: p.Status, Scope: p.Scope})
		if err != nil {
			return "", err
		}
		return d.formatter.TaskList(tasks), nil

	case domain.TaskCompletePayload:
		task, err := d.taskService.CompleteTask(ctx, p.TaskID)
		if err != nil {
			return "", err
		}
		return d.formatter.TaskCompleted(task), nil

	case domain.TaskCancelPayload:
		task, err := d.taskService.CancelTask(ctx, p.TaskID)
		if err != nil {
			return "", err
		}
		return d.formatter.TaskCancelled(task), nil

	case domain.TaskStartPayload:
		task, err := d.taskService.StartTask(ctx, p.TaskID)
		if err != nil {
			return "", err
		}
		return d.formatter.TaskStarted(task), nil

	case domain.HandoffRegisterPayload:
		input := domain.CreateHandoffInput{
			TaskID:       p.TaskID,
			FromUserID:   cmd.UserID,
			ProgressNote: p.ProgressNote,
			NextSteps:    p.NextSteps,
		}
		if p.ToUserID != nil {
			input.ToUserID = *p.ToUserID
		}
		if p.HandoffAt != nil {
			input.HandoffAt = *p.HandoffAt
		}
		if strings.TrimSpace(input.NextSteps) == "" {
			input.NextSteps = d.formatter.Message("handoffDefaultNextSteps")
		}
		handoff, err := d.handoffService.RegisterHandoff(ctx, input)
		if err != nil {
			return "", err
		}
		return d.formatter.HandoffCreated(handoff), nil

	case domain.HandoffListPayload:
		handoffs, err := d.handoffService.ListPendingHandoffs(ctx, cmd.UserID)
		if err != nil {
			return "", err
		}
		return d.formatter.HandoffList(handoffs), nil

	case domain.HandoffAcceptPayload:
		handoff, err := d.handoffService.AcceptHandoff(ctx, p.HandoffID)
		if err != nil {
			return "", err
		}
		return d.formatter.HandoffAccepted(handoff), nil

	case domain.HandoffCompletePayload:
		handoff, err := d.handoffService.CompleteHandoff(ctx, p.HandoffID)
		if err != nil {
			return "", err
		}
		return d.formatter.HandoffCompleted(handoff), nil
	}
	return "", fmt.Errorf("unsupported command %q", cmd.Kind())
}

func (d *Dispatcher) replyForError(cmd domain.ParsedCommand, err error) (string, string) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return d.formatter.Validation(validationErr.Field), OutcomeInvalid
	case errors.Is(err, domain.ErrInvalidState):
		return d.formatter.Message("errAlreadyDone"), OutcomeInvalidState
	case errors.Is(err, domain.ErrTaskNotFound):
		return d.formatter.Message("errTaskNotFound"), OutcomeNotFound
	case errors.Is(err, domain.ErrHandoffNotFound):
		return d.formatter.Message("errHandoffNotFound"), OutcomeNotFound
	case errors.Is(err, domain.ErrVersionConflict):
		return d.formatter.Message("errConflict"), OutcomeConflict
	}

	zap.L().Error("failed to dispatch command",
		zap.String("kind", string(cmd.Kind())),
		zap.String("user_id", cmd.UserID),
		zap.Error(err),
	)
	return d.formatter.Message("errGeneric"), OutcomeError
}

type nopMetrics struct{}

func (nopMetrics) ObserveCommand(string, string)  {}
func (nopMetrics) ObserveParseMiss()              {}
func (nopMetrics) ObserveReminder(string, string) {}

var _ ports.ChatService = (*Dispatcher)(nil)
