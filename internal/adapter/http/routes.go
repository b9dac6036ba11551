package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskbot/internal/adapter/http/handlers"
	"taskbot/internal/adapter/http/middleware"
)

// Handlers groups what RegisterRoutes mounts. Slack and Metrics are
// optional and their routes are skipped when nil.
type Handlers struct {
	Health   *handlers.HealthHandler
	Tasks    *handlers.TaskHandler
	Handoffs *handlers.HandoffHandler
	Messages *handlers.MessageHandler
	Slack    *handlers.SlackEventsHandler
	Metrics  http.Handler
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", h.Health.CheckHealth)
		api.GET("/health/report", h.Health.CheckHealthReport)
		api.POST("/messages", h.Messages.PostMessage)
		api.GET("/users/:user_id/tasks", h.Tasks.ListUserTasks)
		api.GET("/users/:user_id/handoffs", h.Handoffs.ListPendingHandoffs)
		api.PATCH("/tasks/:id", h.Tasks.UpdateTask)
	}

	if h.Slack != nil {
		r.POST("/slack/events", middleware.LanguageMiddleware(), h.Slack.HandleEvent)
	}

	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}
}
