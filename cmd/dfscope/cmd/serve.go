package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/f3rmion/dfscope/internal/history"
	"github.com/f3rmion/dfscope/internal/refresh"
	"github.com/f3rmion/dfscope/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Keep a live snapshot and serve it over HTTP",
	Long: `Attach to the game, rebuild the fortress snapshot on an interval and
serve it over HTTP.

Endpoints:
  GET  /dwarves          all dwarves (?q= to search by name)
  GET  /dwarves/{id}     one dwarf
  GET  /squads           squads
  GET  /snapshot         the whole snapshot
  GET  /status           process liveness and refresh state
  GET  /data             the catalog the snapshot was resolved with
  POST /refresh          refresh now
  GET  /ws               websocket pushing every new snapshot

With --history, every snapshot is also recorded to a SQLite database
that 'dfscope history' reads.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":3000", "listen address")
	serveCmd.Flags().Bool("history", false, "record snapshots to the history database")

	bindFlags(serveCmd.Flags(), map[string]string{
		"serve.addr":      "addr",
		"history.enabled": "history",
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := newBuilder(logger)
	if err != nil {
		return err
	}

	store := refresh.NewStore()
	if cfg.History.Enabled {
		hist, err := history.Open(ctx, cfg.History.Path, logger)
		if err != nil {
			return err
		}
		defer hist.Close()
		store.OnSwap(hist.Observe)
		logger.Info("recording history", "path", cfg.History.Path)
	}

	sched := refresh.New(refresh.AttachByName(cfg.Process.Name), b, store, refresh.Options{
		Interval: cfg.Refresh.Interval,
		Retry:    cfg.Refresh.Retry,
		Logger:   logger,
	})
	srv := server.New(cfg.Serve.Addr, store, b.Catalog(), server.Options{
		Logger:  logger,
		Refresh: sched.Refresh,
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		sched.Run(ctx)
	}()

	logger.Info("watching process", "name", cfg.Process.Name, "interval", cfg.Refresh.Interval)
	err = srv.Run(ctx)
	stop()
	<-done
	if err != nil {
		return fmt.Errorf("serving: %w", err)
	}
	logger.Info("stopped")
	return nil
}
