package parser

import (
	"regexp"
	"time"

	"taskbot/internal/core/domain"
)

var (
	reTaskList     = regexp.MustCompile(`タスク.*?(?:一覧|リスト)|今日のタスク|のタスクは|タスクを(?:見せて|教えて)|タスクは[?？]`)
	reTaskComplete = regexp.MustCompile(`完了|終わった|終えた`)
	reTaskCancel   = regexp.MustCompile(`キャンセル|中止|取り消`)
	reTaskStart    = regexp.MustCompile(`開始|着手|始め`)
	reScopeToday   = regexp.MustCompile(`今日`)
	reScopeOverdue = regexp.MustCompile(`期限切れ|遅れ|超過`)
)

// TaskCommandParser classifies task utterances. Text with a handoff keyword
// outside its quoted parts is left to HandoffCommandParser.
type TaskCommandParser struct {
	now func() time.Time
}

func NewTaskCommandParser(now func() time.Time) *TaskCommandParser {
	if now == nil {
		now = time.Now
	}
	return &TaskCommandParser{now: now}
}

// Parse returns false when the text is not a task command.
func (p *TaskCommandParser) Parse(text, userID string) (domain.ParsedCommand, bool) {
	text = normalize(text)
	bare := unquoted(text)
	if text == "" || reHandoffKeyword.MatchString(bare) {
		return domain.ParsedCommand{}, false
	}

	id, _, hasID := findUUID(text)
	isComplete := hasID && reTaskComplete.MatchString(bare)
	isCancel := hasID && reTaskCancel.MatchString(bare)
	isStart := hasID && reTaskStart.MatchString(bare)
	isList := reTaskList.MatchString(bare)

	if title, ok := ExtractQuoted(text); ok && !isList && !isComplete && !isCancel && !isStart {
		payload := domain.TaskRegisterPayload{Title: title}
		if due, _, found := resolveDateTime(text, p.now()); found {
			payload.DueAt = &due
		}
		return domain.NewParsedCommand(userID, payload), true
	}

	switch {
	case isComplete:
		return domain.NewParsedCommand(userID, domain.TaskCompletePayload{TaskID: id}), true
	case isCancel:
		return domain.NewParsedCommand(userID, domain.TaskCancelPayload{TaskID: id}), true
	case isStart:
		return domain.NewParsedCommand(userID, domain.TaskStartPayload{TaskID: id}), true
	case isList:
		return domain.NewParsedCommand(userID, parseTaskList(bare)), true
	}
	return domain.ParsedCommand{}, false
}

func parseTaskList(text string) domain.TaskListPayload {
	payload := domain.TaskListPayload{Scope: domain.TaskScopeAll}
	if status, ok := ExtractStatus(text); ok {
		payload.Status = &status
	}
	switch {
	case reScopeOverdue.MatchString(text):
		payload.Scope = domain.TaskScopeOverdue
	case reScopeToday.MatchString(text):
		payload.Scope = domain.TaskScopeToday
	}
	return payload
}
