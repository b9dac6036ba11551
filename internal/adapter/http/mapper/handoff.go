package mapper

import (
	"taskbot/internal/adapter/http/dto"
	"taskbot/internal/core/domain"
)

func ToHandoffItems(handoffs []domain.Handoff) []dto.HandoffItem {
	items := make([]dto.HandoffItem, 0, len(handoffs))
	for _, handoff := range handoffs {
		items = append(items, ToHandoffItem(handoff))
	}
	return items
}

func ToHandoffItem(handoff domain.Handoff) dto.HandoffItem {
	item := dto.HandoffItem{
		ID:           handoff.ID.String(),
		FromUserID:   handoff.FromUserID,
		ToUserID:     handoff.ToUserID,
		ProgressNote: handoff.Content.ProgressNote,
		NextSteps:    handoff.Content.NextSteps,
		HandoffAt:    handoff.HandoffAt.Format(TimeLayout),
		Status:       string(handoff.Status),
		RemindedAt:   formatTime(handoff.RemindedAt),
		CompletedAt:  formatTime(handoff.CompletedAt),
		CreatedAt:    handoff.CreatedAt.Format(TimeLayout),
	}

	if handoff.TaskID != nil {
		value := handoff.TaskID.String()
		item.TaskID = &value
	}

	return item
}
