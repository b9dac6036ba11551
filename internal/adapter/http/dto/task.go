package dto

type TaskItem struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     *string  `json:"description,omitempty"`
	AssigneeID      string   `json:"assignee_id"`
	CreatorID       string   `json:"creator_id"`
	Status          string   `json:"status"`
	DueAt           *string  `json:"due_at,omitempty"`
	CompletedAt     *string  `json:"completed_at,omitempty"`
	Priority        int      `json:"priority"`
	ProgressPercent int      `json:"progress_percent"`
	EstimatedHours  *float64 `json:"estimated_hours,omitempty"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
	Version         int      `json:"version"`
}

type UpdateTaskRequest struct {
	Title           *string  `json:"title" binding:"omitempty,max=200"`
	Description     *string  `json:"description" binding:"omitempty,max=65535"`
	DueAt           *string  `json:"due_at"`
	Priority        *int     `json:"priority" binding:"omitempty,gte=1,lte=10"`
	ProgressPercent *int     `json:"progress_percent" binding:"omitempty,gte=0,lte=100"`
	EstimatedHours  *float64 `json:"estimated_hours" binding:"omitempty,gte=0"`
}
