package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print one snapshot as JSON or YAML",
	Long: `Attach to the game, decode one full snapshot and print it.

Use --dwarf to print only the dwarves whose names match.`,
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().StringP("format", "f", "json", "output format: json or yaml")
	dumpCmd.Flags().String("dwarf", "", "only print dwarves matching this name")
}

func runDump(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	name, _ := cmd.Flags().GetString("dwarf")
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unknown format %q, want json or yaml", format)
	}

	snap, _, err := rebuildOnce(cmd.Context())
	if err != nil {
		return err
	}

	var out any = snap
	if name != "" {
		matches := snap.FindDwarves(name)
		if len(matches) == 0 {
			return fmt.Errorf("no dwarf matches %q", name)
		}
		out = matches
	}

	if format == "yaml" {
		return encodeYAML(os.Stdout, out)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// encodeYAML writes v as YAML using its JSON field names and enum names.
func encodeYAML(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	// JSON is YAML; decoding into a node keeps the key order.
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("converting snapshot: %w", err)
	}
	blockStyle(&doc)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("writing yaml: %w", err)
	}
	return enc.Close()
}

// blockStyle clears the flow and quoting styles carried over from JSON.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
