package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskbot/internal/adapter/http/dto"
	"taskbot/internal/adapter/http/middleware"
	"taskbot/internal/core/ports"
	"taskbot/pkg/apierrors"
)

type MessageHandler struct {
	chat ports.ChatService
}

func NewMessageHandler(chat ports.ChatService) *MessageHandler {
	return &MessageHandler{chat: chat}
}

// PostMessage runs one chat message through the command pipeline. It
// answers 200 even for non-commands so callers can route those elsewhere.
func (h *MessageHandler) PostMessage(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.UserID) == "" {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidMessagePayload, lang),
		)
		return
	}

	reply, handled := h.chat.ParseAndDispatch(c.Request.Context(), req.Text, strings.TrimSpace(req.UserID))
	c.JSON(http.StatusOK, dto.MessageResponse{Handled: handled, Response: reply})
}
