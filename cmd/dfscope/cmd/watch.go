package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/dfscope/internal/client"
	"github.com/f3rmion/dfscope/internal/clipboard"
	"github.com/f3rmion/dfscope/internal/gamedata"
	"github.com/f3rmion/dfscope/internal/refresh"
	"github.com/f3rmion/dfscope/internal/tui"
	"github.com/spf13/cobra"
)

const logFileName = "dfscope.log"

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"ui", "i"},
	Short:   "Launch the interactive TUI",
	Long: `Launch the interactive terminal UI.

By default the TUI attaches to the game itself and refreshes on the
configured interval. With --remote it reads from a running 'dfscope serve'
instead.

Logs go to dfscope.log in the config directory while the TUI is open.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("remote", "", "read from a dfscope server at this URL, e.g. http://localhost:3000")
}

func runWatch(cmd *cobra.Command, args []string) error {
	remote, _ := cmd.Flags().GetString("remote")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	logFile, err := tea.LogToFile(filepath.Join(cfg.Dir, logFileName), "dfscope")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	log := newLogger(logFile, cfg)

	var (
		source  refresh.Source
		catalog *gamedata.Catalog
		name    string
		done    = make(chan struct{})
	)
	if remote != "" {
		c, err := client.New(remote)
		if err != nil {
			return err
		}
		source, name = c, remote
		catalog, err = c.Catalog(ctx)
		if err != nil {
			log.Warn("fetching remote catalog failed, using local catalog", "err", err)
			if catalog, err = loadCatalog(); err != nil {
				return err
			}
		}
		close(done)
	} else {
		b, err := newBuilder(log)
		if err != nil {
			return err
		}
		sched := refresh.New(refresh.AttachByName(cfg.Process.Name), b, refresh.NewStore(), refresh.Options{
			Interval: cfg.Refresh.Interval,
			Retry:    cfg.Refresh.Retry,
			Logger:   log,
		})
		go func() {
			defer close(done)
			sched.Run(ctx)
		}()
		source, catalog, name = sched.Source(), b.Catalog(), cfg.Process.Name
	}

	p := tea.NewProgram(
		tui.NewApp(source, tui.Options{
			Catalog:    catalog,
			Copier:     clipboard.New(),
			SourceName: name,
		}),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err = p.Run()
	interrupted := ctx.Err() != nil
	stop()
	<-done
	if err != nil && !interrupted {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
