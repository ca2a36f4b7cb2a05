package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/rxgen"
	"github.com/gnolang/rxgen/internal"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the fixtures whenever the configuration file changes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := runWatch(ctx, logger, cmd.OutOrStdout(), cfgFile, timeout); err != nil {
			logger.Error("Error watching configuration", zap.String("path", cfgFile), zap.Error(err))
			os.Exit(1)
		}
	},
}

// runWatch generates the fixtures once, then again on every change of path,
// until ctx is done. Each run is bounded by perRun.
func runWatch(ctx context.Context, logger *zap.Logger, w io.Writer, path string, perRun time.Duration) error {
	regenerate := func(path string) {
		config, err := rxgen.LoadConfig(path)
		if err != nil {
			logger.Error("Failed to reload configuration", zap.String("path", path), zap.Error(err))
			return
		}

		runCtx, cancel := context.WithTimeout(ctx, perRun)
		defer cancel()

		fmt.Fprintf(w, "--- %s (%s)\n", path, time.Now().Format(time.TimeOnly))
		if err := runFixtures(runCtx, logger, w, config, false, ""); err != nil {
			logger.Error("Error processing fixtures", zap.Error(err))
		}
	}

	watcher, err := internal.NewWatcher(path, logger, regenerate)
	if err != nil {
		return err
	}

	regenerate(path)

	if err := watcher.StartWatching(); err != nil {
		return err
	}
	logger.Info("Watching configuration", zap.String("path", path))

	<-ctx.Done()
	return watcher.StopWatching()
}
