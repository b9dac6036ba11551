package dto

type MessageRequest struct {
	UserID string `json:"user_id" binding:"required,max=64"`
	Text   string `json:"text" binding:"required"`
}

// MessageResponse carries handled=false when the text was not a command.
type MessageResponse struct {
	Handled  bool   `json:"handled"`
	Response string `json:"response,omitempty"`
}
