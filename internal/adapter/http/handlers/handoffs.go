package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskbot/internal/adapter/http/mapper"
	"taskbot/internal/adapter/http/middleware"
	"taskbot/internal/core/ports"
	"taskbot/pkg/apierrors"
)

type HandoffHandler struct {
	handoffService ports.HandoffService
}

func NewHandoffHandler(handoffService ports.HandoffService) *HandoffHandler {
	return &HandoffHandler{handoffService: handoffService}
}

// ListPendingHandoffs returns the handoffs still waiting on the recipient.
func (h *HandoffHandler) ListPendingHandoffs(c *gin.Context) {
	lang := middleware.GetLang(c)

	userID := strings.TrimSpace(c.Param("user_id"))
	if userID == "" {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidUserID, lang),
		)
		return
	}

	handoffs, err := h.handoffService.ListPendingHandoffs(c.Request.Context(), userID)
	if err != nil {
		zap.L().Error("failed to list pending handoffs", zap.String("user_id", userID), zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailListHandoffs, lang),
		)
		return
	}

	c.JSON(http.StatusOK, mapper.ToHandoffItems(handoffs))
}
