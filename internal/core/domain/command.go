package domain

import (
	"time"

	"github.com/google/uuid"
)

type CommandKind string

const (
	CommandTaskRegister    CommandKind = "task.register"
	CommandTaskList        CommandKind = "task.list"
	CommandTaskComplete    CommandKind = "task.complete"
	CommandTaskCancel      CommandKind = "task.cancel"
	CommandTaskStart       CommandKind = "task.start"
	CommandHandoffRegister CommandKind = "handoff.register"
	CommandHandoffList     CommandKind = "handoff.list"
	CommandHandoffComplete CommandKind = "handoff.complete"
	CommandHandoffAccept   CommandKind = "handoff.accept"
)

// CommandPayload is implemented only by the payload types below, so a type
// switch over it is exhaustive.
type CommandPayload interface {
	Kind() CommandKind
	isCommandPayload()
}

// ParsedCommand is the parser output. It lives only for one dispatch.
type ParsedCommand struct {
	UserID  string
	Payload CommandPayload
}

func NewParsedCommand(userID string, payload CommandPayload) ParsedCommand {
	return ParsedCommand{UserID: userID, Payload: payload}
}

func (c ParsedCommand) Kind() CommandKind {
	if c.Payload == nil {
		return ""
	}
	return c.Payload.Kind()
}

type TaskRegisterPayload struct {
	Title string
	DueAt *time.Time
}

type TaskListPayload struct {
	Status *TaskStatus
	Scope  TaskScope
}

type TaskCompletePayload struct {
	TaskID uuid.UUID
}

type TaskCancelPayload struct {
	TaskID uuid.UUID
}

type TaskStartPayload struct {
	TaskID uuid.UUID
}

// HandoffRegisterPayload may be incomplete; missing fields are reported by
// the use case, not by the parser.
type HandoffRegisterPayload struct {
	ToUserID     *string
	TaskID       *uuid.UUID
	ProgressNote string
	NextSteps    string
	HandoffAt    *time.Time
}

type HandoffListPayload struct{}

type HandoffCompletePayload struct {
	HandoffID uuid.UUID
}

type HandoffAcceptPayload struct {
	HandoffID uuid.UUID
}

func (TaskRegisterPayload) Kind() CommandKind    { return CommandTaskRegister }
func (TaskListPayload) Kind() CommandKind        { return CommandTaskList }
func (TaskCompletePayload) Kind() CommandKind    { return CommandTaskComplete }
func (TaskCancelPayload) Kind() CommandKind      { return CommandTaskCancel }
func (TaskStartPayload) Kind() CommandKind       { return CommandTaskStart }
func (HandoffRegisterPayload) Kind() CommandKind { return CommandHandoffRegister }
func (HandoffListPayload) Kind() CommandKind     { return CommandHandoffList }
func (HandoffCompletePayload) Kind() CommandKind { return CommandHandoffComplete }
func (HandoffAcceptPayload) Kind() CommandKind   { return CommandHandoffAccept }

func (TaskRegisterPayload) isCommandPayload()    {}
func (TaskListPayload) isCommandPayload()        {}
func (TaskCompletePayload) isCommandPayload()    {}
func (TaskCancelPayload) isCommandPayload()      {}
func (TaskStartPayload) isCommandPayload()       {}
func (HandoffRegisterPayload) isCommandPayload() {}
func (HandoffListPayload) isCommandPayload()     {}
func (HandoffCompletePayload) isCommandPayload() {}
func (HandoffAcceptPayload) isCommandPayload()   {}
