// Package parser turns free-text Japanese chat messages into typed commands.
// Everything here is pure: no I/O and no shared mutable state, so a Parser
// can be used from many goroutines at once.
package parser

import (
	"time"

	"taskbot/internal/core/domain"
)

type Parser struct {
	tasks    *TaskCommandParser
	handoffs *HandoffCommandParser
}

// New builds a parser whose relative dates are resolved against now().
func New(now func() time.Time) *Parser {
	return &Parser{
		tasks:    NewTaskCommandParser(now),
		handoffs: NewHandoffCommandParser(now),
	}
}

// Parse tries the task rules, then the handoff rules. The second return
// value is false on a parse miss, which is not an error.
func (p *Parser) Parse(text, userID string) (domain.ParsedCommand, bool) {
	if cmd, ok := p.tasks.Parse(text, userID); ok {
		return cmd, true
	}
	return p.handoffs.Parse(text, userID)
}
