package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/f3rmion/dfscope/internal/history"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history <dwarf-id>",
	Short: "Show recorded stress and mood samples for a dwarf",
	Long: `Show the samples 'dfscope serve --history' recorded for one dwarf,
newest first.

The dwarf id is the unit id shown by 'dfscope dump' and the /dwarves
endpoint.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "maximum number of samples (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	id, err := strconv.ParseInt(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid dwarf id %q", args[0])
	}

	if _, err := os.Stat(cfg.History.Path); err != nil {
		return fmt.Errorf("no history at %s\nRun 'dfscope serve --history' to record some", cfg.History.Path)
	}
	store, err := history.Open(cmd.Context(), cfg.History.Path, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	samples, err := store.List(cmd.Context(), int32(id), limit)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		fmt.Printf("No samples for dwarf %d\n", id)
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Recorded", "Gen", "Stress", "Happiness", "Mood", "Curse")
	for _, s := range samples {
		t.Row(
			s.RecordedAt.Local().Format(time.DateTime),
			strconv.FormatUint(s.Generation, 10),
			strconv.Itoa(int(s.Stress)),
			s.Happiness,
			s.Mood,
			s.Curse,
		)
	}
	fmt.Println(samples[0].Name)
	fmt.Println(t)
	return nil
}
