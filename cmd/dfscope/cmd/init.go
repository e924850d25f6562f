package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/f3rmion/dfscope/internal/config"
	"github.com/f3rmion/dfscope/internal/df"
	"github.com/f3rmion/dfscope/internal/gamedata"
	"github.com/f3rmion/dfscope/internal/layout"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize dfscope configuration",
	Long: `Initialize dfscope configuration files in your config directory.

This creates:
  - dfscope.yaml     settings (process name, refresh interval, ...)
  - addresses.toml   offset schema template listing every field dfscope reads
  - gamedata/        catalog of skill, labor, need and thought names

The offset schema must be filled in with the offsets of your game build
before dfscope can read it. 'dfscope schema convert' imports an existing
INI offset file.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	fmt.Printf("Initializing dfscope configuration in %s\n\n", cfg.Dir)

	cfgPath := filepath.Join(cfg.Dir, config.FileName)
	if writable(cfgPath, force) {
		if err := cfg.Save(cfgPath); err != nil {
			return err
		}
		fmt.Printf("  Created %s\n", cfgPath)
	} else {
		fmt.Printf("  Kept    %s\n", cfgPath)
	}

	if writable(cfg.Schema.Path, force) {
		if err := os.MkdirAll(filepath.Dir(cfg.Schema.Path), 0o755); err != nil {
			return fmt.Errorf("creating schema directory: %w", err)
		}
		if err := os.WriteFile(cfg.Schema.Path, layout.Template(df.RequiredFields()), 0o644); err != nil {
			return fmt.Errorf("writing schema template: %w", err)
		}
		fmt.Printf("  Created %s\n", cfg.Schema.Path)
	} else {
		fmt.Printf("  Kept    %s\n", cfg.Schema.Path)
	}

	written, err := gamedata.WriteBundled(cfg.Catalog.Dir, force)
	if err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	for _, path := range written {
		fmt.Printf("  Created %s\n", path)
	}

	fmt.Println()
	fmt.Println("Configuration initialized!")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  1. Fill in the offsets in %s for your game build\n", cfg.Schema.Path)
	fmt.Println("  2. Run 'dfscope schema check' to verify the schema")
	fmt.Println("  3. Start the game, load a fortress and run 'dfscope'")

	return nil
}

// writable reports whether path may be written: it is absent or force is set.
func writable(path string, force bool) bool {
	if force {
		return true
	}
	_, err := os.Stat(path)
	return os.IsNotExist(err)
}
