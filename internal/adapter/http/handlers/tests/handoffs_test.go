package tests

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskbot/internal/adapter/http/dto"
	"taskbot/internal/adapter/http/handlers"
	"taskbot/internal/adapter/http/middleware"
	"taskbot/internal/core/domain"
	"taskbot/pkg/apierrors"
	"taskbot/pkg/translator"
)

func newHandoffRouter(serviceMock *handoffServiceMock) *gin.Engine {
	handler := handlers.NewHandoffHandler(serviceMock)

	router := gin.New()
	router.GET("/api/users/:user_id/handoffs", middleware.LanguageMiddleware(), handler.ListPendingHandoffs)
	return router
}

func TestHandoffHandler_ListPendingHandoffs_Success(t *testing.T) {
	id := uuid.New()
	taskID := uuid.New()
	at := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)

	serviceMock := new(handoffServiceMock)
	serviceMock.On("ListPendingHandoffs", mock.Anything, "U2").Return([]domain.Handoff{
		{
			ID:         id,
			TaskID:     &taskID,
			FromUserID: "U1",
			ToUserID:   "U2",
			Content:    domain.HandoffContent{ProgressNote: "認証まで完成", NextSteps: "テストを書く"},
			HandoffAt:  at,
			Status:     domain.HandoffStatusPending,
			CreatedAt:  at.Add(-time.Hour),
		},
		{
			ID:         uuid.New(),
			FromUserID: "U3",
			ToUserID:   "U2",
			Content:    domain.HandoffContent{ProgressNote: "調査中", NextSteps: "続き"},
			HandoffAt:  at.Add(time.Hour),
			Status:     domain.HandoffStatusPending,
			CreatedAt:  at,
		},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/users/U2/handoffs", nil)
	rec := httptest.NewRecorder()

	newHandoffRouter(serviceMock).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []dto.HandoffItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	require.Equal(t, id.String(), got[0].ID)
	require.Equal(t, taskID.String(), *got[0].TaskID)
	require.Equal(t, "U1", got[0].FromUserID)
	require.Equal(t, "認証まで完成", got[0].ProgressNote)
	require.Equal(t, "テストを書く", got[0].NextSteps)
	require.Equal(t, "2026-02-14T00:00:00Z", got[0].HandoffAt)
	require.Equal(t, "pending", got[0].Status)
	require.Nil(t, got[0].RemindedAt)
	require.Nil(t, got[1].TaskID)
	serviceMock.AssertExpectations(t)
}

func TestHandoffHandler_ListPendingHandoffs_Error(t *testing.T) {
	serviceMock := new(handoffServiceMock)
	serviceMock.On("ListPendingHandoffs", mock.Anything, "U2").Return(nil, errors.New("db is down")).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/users/U2/handoffs", nil)
	req.Header.Set("Accept-Language", translator.LanguageEn)
	rec := httptest.NewRecorder()

	newHandoffRouter(serviceMock).ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "Could not retrieve handoffs.", got.ErrDetails.Message)
	serviceMock.AssertExpectations(t)
}
