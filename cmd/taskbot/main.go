package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "time/tzdata"
)

var Version = "dev"

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)

	rootCmd := &cobra.Command{
		Use:          "taskbot",
		Short:        "Chat bot for personal tasks and scheduled handoffs",
		Version:      Version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(sweepCmd())
	rootCmd.AddCommand(parseCmd())

	err = rootCmd.ExecuteContext(context.Background())
	if syncErr := logger.Sync(); syncErr != nil {
		zap.L().Debug("failed to sync logger", zap.Error(syncErr))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
