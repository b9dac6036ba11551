package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/slack-go/slack"
	"go.uber.org/zap"

	dbadapter "taskbot/internal/adapter/db"
	httpadapter "taskbot/internal/adapter/http"
	"taskbot/internal/adapter/http/handlers"
	"taskbot/internal/adapter/metrics"
	slackadapter "taskbot/internal/adapter/slack"
	"taskbot/internal/app/service"
	"taskbot/internal/config"
	"taskbot/internal/core/parser"
	"taskbot/internal/core/ports"
	"taskbot/pkg/translator"
)

// application holds the wired object graph shared by serve and sweep.
type application struct {
	cfg        *config.Config
	db         *sqlx.DB
	registry   *prometheus.Registry
	tasks      *service.TaskService
	handoffs   *service.HandoffService
	dispatcher *service.Dispatcher
	reminders  *service.ReminderService
	slack      *handlers.SlackEventsHandler
}

func initTranslator(cfg *config.Config) {
	translator.InitTranslator(translator.Config{
		TranslationFolder:  cfg.TranslationFolder,
		DefaultLanguage:    cfg.DefaultLanguage,
		SupportedLanguages: []string{translator.LanguageJa, translator.LanguageEn},
	})
}

// clock reads the wall clock in the bot's timezone so that day words like
// 今日 resolve against local days.
func clock(cfg *config.Config) func() time.Time {
	return func() time.Time {
		return time.Now().In(cfg.Location)
	}
}

func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	initTranslator(cfg)

	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.DbDriver, err)
	}
	if err := dbadapter.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	now := clock(cfg)
	formatter := service.NewFormatter(cfg.DefaultLanguage, cfg.Location)
	taskRepository := dbadapter.NewTaskRepository(db)
	handoffRepository := dbadapter.NewHandoffRepository(db)

	app := &application{
		cfg:      cfg,
		db:       db,
		registry: registry,
		tasks:    service.NewTaskService(taskRepository, now),
		handoffs: service.NewHandoffService(handoffRepository, taskRepository, now),
	}
	app.dispatcher = service.NewDispatcher(parser.New(now), app.tasks, app.handoffs, formatter, m)

	var notifier ports.Notifier = logNotifier{}
	if cfg.SlackBotToken != "" {
		client := slackadapter.NewClient(cfg.SlackBotToken, cfg.SlackAPIURL)
		notifier = slackadapter.NewNotifier(client)
		if cfg.SlackSigningSecret != "" {
			app.slack = handlers.NewSlackEventsHandler(app.dispatcher, client, cfg.SlackSigningSecret, botUserID(ctx, client))
		}
	} else {
		zap.L().Warn("SLACK_BOT_TOKEN is not set, reminders are only logged")
	}
	app.reminders = service.NewReminderService(handoffRepository, notifier, formatter, m, now)

	return app, nil
}

func (a *application) handlers() httpadapter.Handlers {
	return httpadapter.Handlers{
		Health:   handlers.NewHealthHandler(a.db, a.cfg.Location),
		Tasks:    handlers.NewTaskHandler(a.tasks),
		Handoffs: handlers.NewHandoffHandler(a.handoffs),
		Messages: handlers.NewMessageHandler(a.dispatcher),
		Slack:    a.slack,
		Metrics:  metrics.Handler(a.registry),
	}
}

func (a *application) Close() {
	if err := a.db.Close(); err != nil {
		zap.L().Warn("failed to close database connection", zap.Error(err))
	}
}

// botUserID asks Slack who the token belongs to. Without it the events
// handler falls back to treating a leading mention as the bot's.
func botUserID(ctx context.Context, client *slack.Client) string {
	auth, err := client.AuthTestContext(ctx)
	if err != nil {
		zap.L().Warn("slack auth.test failed, bot user id unknown", zap.Error(err))
		return ""
	}
	return auth.UserID
}

type logNotifier struct{}

func (logNotifier) SendDirectMessage(_ context.Context, userID, text string) (string, error) {
	zap.L().Info("reminder not delivered, slack is disabled", zap.String("user_id", userID), zap.String("text", text))
	return "log", nil
}
