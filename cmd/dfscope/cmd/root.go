// Package cmd contains all CLI commands for dfscope.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/f3rmion/dfscope/internal/config"
	"github.com/f3rmion/dfscope/internal/df"
	"github.com/f3rmion/dfscope/internal/gamedata"
	"github.com/f3rmion/dfscope/internal/layout"
	"github.com/f3rmion/dfscope/internal/memory"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgDir string
	cfg    *config.Config
	logger = slog.New(slog.DiscardHandler)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dfscope",
	Short: "Read live fortress state out of a running Dwarf Fortress",
	Long: `dfscope attaches to a running Dwarf Fortress process and decodes its
memory into a snapshot of the fortress: dwarves, their personalities,
skills, moods and squads.

Struct offsets come from an offset schema (addresses.toml) matching the
game build, and display names from the catalog files in the config
directory. Run 'dfscope init' to create both.

Running 'dfscope' without arguments launches the interactive TUI.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runWatch,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "", "config directory (default is $HOME/.config/dfscope)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")

	bindFlags(rootCmd.PersistentFlags(), map[string]string{
		"verbose":    "verbose",
		"log.format": "log-format",
	})
}

// bindFlags lets flags override the viper keys they are mapped to.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		viper.BindPFlag(key, fs.Lookup(name))
	}
}

// initConfig registers defaults and environment overrides.
func initConfig() {
	// A missing .env is the common case.
	_ = godotenv.Load()

	dir := cfgDir
	if dir == "" {
		var err error
		dir, err = config.DefaultDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}
	} else {
		viper.Set("config_dir", dir)
	}
	config.SetDefaults(viper.GetViper(), dir)
}

// loadConfig decodes the settings and builds the logger.
func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	cfg = c
	logger = newLogger(os.Stderr, cfg)
	return nil
}

func newLogger(w io.Writer, c *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if c.Verbose {
		opts.Level = slog.LevelDebug
	}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// loadSchema reads the offset schema and checks it defines every field the
// decoders request.
func loadSchema() (*layout.Schema, error) {
	schema, err := layout.Load(cfg.Schema.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w\nRun 'dfscope init' to create a schema template", err)
		}
		return nil, err
	}
	if err := schema.Validate(df.RequiredFields()); err != nil {
		logger.Error("offset schema is incomplete", "path", cfg.Schema.Path, "error", err)
		return nil, fmt.Errorf("offset schema %s is incomplete:\n%w", cfg.Schema.Path, err)
	}
	return schema, nil
}

// loadCatalog reads the catalog from the config directory, falling back to
// the bundled tables.
func loadCatalog() (*gamedata.Catalog, error) {
	if _, err := os.Stat(cfg.Catalog.Dir); err == nil {
		c, err := gamedata.Load(cfg.Catalog.Dir)
		if err != nil {
			return nil, fmt.Errorf("loading catalog: %w", err)
		}
		return c, nil
	}
	logger.Debug("catalog dir not found, using bundled catalog", "dir", cfg.Catalog.Dir)
	c, err := gamedata.Default()
	if err != nil {
		return nil, fmt.Errorf("loading bundled catalog: %w", err)
	}
	return c, nil
}

func newBuilder(log *slog.Logger) (*df.Builder, error) {
	schema, err := loadSchema()
	if err != nil {
		return nil, err
	}
	catalog, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	return df.NewBuilder(schema, catalog, df.Options{
		NameCacheSize: cfg.Names.CacheSize,
		Logger:        log,
	})
}

// rebuildOnce attaches to the game, decodes one full snapshot and detaches.
func rebuildOnce(ctx context.Context) (*df.Snapshot, *df.Builder, error) {
	b, err := newBuilder(logger)
	if err != nil {
		return nil, nil, err
	}
	p, err := memory.Attach(cfg.Process.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("attaching to %s: %w", cfg.Process.Name, err)
	}
	defer p.Close()

	snap, err := b.Rebuild(ctx, p)
	if err != nil {
		return nil, nil, fmt.Errorf("reading fortress: %w", err)
	}
	return snap, b, nil
}
