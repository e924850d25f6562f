package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/f3rmion/dfscope/internal/report"
	"github.com/spf13/cobra"
)

var dwarfCmd = &cobra.Command{
	Use:   "dwarf <name>",
	Short: "Print the character sheet of a dwarf",
	Long: `Attach to the game, decode one snapshot and print the character sheet
of every dwarf whose first, nick or full name is close to <name>.

Examples:
  dfscope dwarf urist
  dfscope dwarf "kogan ustuth" --limit 1`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDwarf,
}

func init() {
	rootCmd.AddCommand(dwarfCmd)
	dwarfCmd.Flags().IntP("limit", "n", 3, "maximum number of dwarves to print")
}

func runDwarf(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	snap, b, err := rebuildOnce(cmd.Context())
	if err != nil {
		return err
	}
	matches := snap.FindDwarves(query)
	if len(matches) == 0 {
		return fmt.Errorf("no dwarf matches %q", query)
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	for i, d := range matches {
		if i > 0 {
			fmt.Println()
			fmt.Println(strings.Repeat("-", 40))
			fmt.Println()
		}
		if err := report.Dwarf(os.Stdout, d, b.Catalog()); err != nil {
			return err
		}
	}
	return nil
}
