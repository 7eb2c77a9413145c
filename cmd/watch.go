package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/assertnarrow/internal/report"
	"github.com/gnolang/assertnarrow/internal/scenario"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Re-check scenario files whenever they change",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			args = []string{"."}
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		runner, err := newRunner(cfgFile, logger)
		if err != nil {
			logger.Fatal("Failed to initialize scenario runner", zap.Error(err))
		}
		w, err := scenario.NewWatcher(runner, args, reportChange)
		if err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		fmt.Printf("watching %v, press Ctrl+C to stop\n", args)
		if err := w.Run(ctx); err != nil {
			logger.Error("Watcher stopped", zap.Error(err))
		}
	},
}

func reportChange(path string, issues []scenario.Issue, err error) {
	if err != nil {
		logger.Error("Error checking file", zap.String("file", path), zap.Error(err))
		return
	}
	if err := report.Issues(os.Stdout, issues); err != nil {
		logger.Error("Error printing issues", zap.Error(err))
	}
}
