package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpadapter "taskbot/internal/adapter/http"
	httpmiddleware "taskbot/internal/adapter/http/middleware"
	"taskbot/internal/app/scheduler"
	"taskbot/internal/config"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var noScheduler bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API, Slack endpoint and reminder scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), !noScheduler)
		},
	}

	cmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "do not run reminder sweeps in this process")

	return cmd
}

func runServe(ctx context.Context, withScheduler bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app, err := newApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if withScheduler {
		go scheduler.New(app.reminders, scheduler.Config{
			Interval:   cfg.ReminderInterval,
			RunOnStart: true,
		}).Run(ctx)
	}

	r := gin.New()
	r.Use(gin.Recovery(), httpmiddleware.GinZapMiddleware(zap.L(), "/api/health", "/metrics"))
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return err
	}
	httpadapter.RegisterRoutes(r, app.handlers())

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("starting server", zap.String("addr", srv.Addr), zap.String("db_driver", cfg.DbDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
