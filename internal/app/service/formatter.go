package service

import (
	"strings"
	"time"

	"taskbot/internal/core/domain"
	"taskbot/pkg/translator"
)

const (
	dateTimeLayout = "01/02 15:04"
	clockLayout    = "15:04"
)

var statusEmoji = map[domain.TaskStatus]string{
	domain.TaskStatusPending:    "⏳",
	domain.TaskStatusInProgress: "🔄",
	domain.TaskStatusCompleted:  "✅",
	domain.TaskStatusCancelled:  "❌",
}

// validationMessages maps ValidationError.Field to a catalog message.
var validationMessages = map[string]string{
	"task_id":          "validationTaskID",
	"title":            "validationTitle",
	"assignee":         "validationAssignee",
	"creator":          "validationCreator",
	"priority":         "validationPriority",
	"progress_percent": "validationProgressPercent",
	"estimated_hours":  "validationEstimatedHours",
	"from_user":        "validationFromUser",
	"to_user":          "validationToUser",
	"progress_note":    "validationProgressNote",
	"next_steps":       "validationNextSteps",
	"handoff_at":       "validationHandoffAt",
}

// Formatter renders chat replies in one language. Times are shown in loc.
type Formatter struct {
	lang string
	loc  *time.Location
}

func NewFormatter(lang string, loc *time.Location) *Formatter {
	if lang == "" {
		lang = translator.DefaultLanguage()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{lang: lang, loc: loc}
}

func (f *Formatter) Message(messageID string) string {
	return translator.Localize(f.lang, messageID, nil)
}

func (f *Formatter) Validation(field string) string {
	messageID, ok := validationMessages[field]
	if !ok {
		messageID = "validationUnknown"
	}
	return f.Message(messageID)
}

func (f *Formatter) TaskCreated(task *domain.Task) string {
	msg := f.localize("taskCreated", taskData(task))
	if task.DueAt != nil {
		msg += "\n" + f.localize("taskDue", map[string]any{"Due": f.dateTime(*task.DueAt)})
	}
	return msg
}

func (f *Formatter) TaskList(tasks []domain.Task) string {
	if len(tasks) == 0 {
		return f.Message("taskListEmpty")
	}

	var b strings.Builder
	b.WriteString(f.localize("taskListHeader", map[string]any{"Count": len(tasks)}))
	for _, task := range tasks {
		b.WriteString("\n\n")
		b.WriteString(f.localize("taskListItem", map[string]any{
			"Emoji": statusEmoji[task.Status],
			"Title": task.Title,
		}))
		if task.DueAt != nil {
			b.WriteString(f.localize("taskListItemDue", map[string]any{"Due": f.dateTime(*task.DueAt)}))
		}
		b.WriteString("\nID: `" + task.ID.String() + "`")
	}
	return b.String()
}

func (f *Formatter) TaskCompleted(task *domain.Task) string {
	return f.localize("taskCompleted", taskData(task))
}

func (f *Formatter) TaskCancelled(task *domain.Task) string {
	return f.localize("taskCancelled", taskData(task))
}

func (f *Formatter) TaskStarted(task *domain.Task) string {
	return f.localize("taskStarted", taskData(task))
}

// taskData echoes what a user needs to refer back to the task.
func taskData(task *domain.Task) map[string]any {
	return map[string]any{
		"Title":      task.Title,
		"ID":         task.ID.String(),
		"AssigneeID": task.AssigneeID,
	}
}

func (f *Formatter) HandoffCreated(handoff *domain.Handoff) string {
	return f.localize("handoffCreated", f.handoffData(handoff, dateTimeLayout))
}

func (f *Formatter) HandoffList(handoffs []domain.Handoff) string {
	if len(handoffs) == 0 {
		return f.Message("handoffListEmpty")
	}

	var b strings.Builder
	b.WriteString(f.localize("handoffListHeader", map[string]any{"Count": len(handoffs)}))
	for i := range handoffs {
		b.WriteString("\n\n")
		b.WriteString(f.localize("handoffListItem", f.handoffData(&handoffs[i], dateTimeLayout)))
	}
	return b.String()
}

func (f *Formatter) HandoffAccepted(handoff *domain.Handoff) string {
	return f.localize("handoffAccepted", f.handoffData(handoff, dateTimeLayout))
}

func (f *Formatter) HandoffCompleted(handoff *domain.Handoff) string {
	return f.localize("handoffCompleted", f.handoffData(handoff, dateTimeLayout))
}

func (f *Formatter) HandoffReminder(handoff *domain.Handoff) string {
	return f.localize("handoffReminder", f.handoffData(handoff, clockLayout))
}

func (f *Formatter) HandoffOverdueReminder(handoff *domain.Handoff) string {
	return f.localize("handoffOverdueReminder", f.handoffData(handoff, dateTimeLayout))
}

func (f *Formatter) handoffData(handoff *domain.Handoff, layout string) map[string]any {
	taskID := f.Message("noTaskID")
	if handoff.TaskID != nil {
		taskID = handoff.TaskID.String()
	}
	return map[string]any{
		"ID":           handoff.ID.String(),
		"TaskID":       taskID,
		"FromUserID":   handoff.FromUserID,
		"ToUserID":     handoff.ToUserID,
		"HandoffAt":    handoff.HandoffAt.In(f.loc).Format(layout),
		"ProgressNote": handoff.Content.ProgressNote,
		"NextSteps":    handoff.Content.NextSteps,
	}
}

func (f *Formatter) dateTime(t time.Time) string {
	return t.In(f.loc).Format(dateTimeLayout)
}

func (f *Formatter) localize(messageID string, data map[string]any) string {
	return translator.Localize(f.lang, messageID, data)
}
