package dto

type HandoffItem struct {
	ID           string  `json:"id"`
	TaskID       *string `json:"task_id,omitempty"`
	FromUserID   string  `json:"from_user_id"`
	ToUserID     string  `json:"to_user_id"`
	ProgressNote string  `json:"progress_note"`
	NextSteps    string  `json:"next_steps"`
	HandoffAt    string  `json:"handoff_at"`
	Status       string  `json:"status"`
	RemindedAt   *string `json:"reminded_at,omitempty"`
	CompletedAt  *string `json:"completed_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
}
