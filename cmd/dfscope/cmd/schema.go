package cmd

import (
	"fmt"
	"os"

	"github.com/f3rmion/dfscope/internal/df"
	"github.com/f3rmion/dfscope/internal/layout"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect and import offset schemas",
}

var schemaCheckCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Verify that the offset schema defines every field dfscope reads",
	Long: `Load the offset schema and check that every field the decoders read
resolves. Missing fields are listed and the command exits non-zero.

The path defaults to the configured schema.path.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSchemaCheck,
}

var schemaConvertCmd = &cobra.Command{
	Use:   "convert <file.ini>",
	Short: "Convert an INI offset file to the TOML schema format",
	Long: `Convert an INI offset file, as published for other fortress tools, into
the TOML schema format dfscope reads. The result is written to stdout
unless --out is given.

Example:
  dfscope schema convert v0.47.05_linux64.ini --out ~/.config/dfscope/addresses.toml`,
	Args: cobra.ExactArgs(1),
	RunE: runSchemaConvert,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.AddCommand(schemaCheckCmd)
	schemaCmd.AddCommand(schemaConvertCmd)
	schemaConvertCmd.Flags().StringP("out", "o", "", "write the schema to this file")
}

func runSchemaCheck(cmd *cobra.Command, args []string) error {
	path := cfg.Schema.Path
	if len(args) == 1 {
		path = args[0]
	}
	schema, err := layout.Load(path)
	if err != nil {
		return err
	}

	fields := df.RequiredFields()
	if err := schema.Validate(fields); err != nil {
		fmt.Fprintf(os.Stderr, "%s is missing fields:\n%v\n", path, err)
		return fmt.Errorf("offset schema is incomplete")
	}

	info := schema.Info()
	version := info.Version
	if version == "" {
		version = "unknown build"
	}
	fmt.Printf("%s: ok (%s, %d fields defined, %d required)\n", path, version, schema.Len(), len(fields))
	return nil
}

func runSchemaConvert(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading INI file: %w", err)
	}
	converted, err := layout.ConvertINI(data)
	if err != nil {
		return fmt.Errorf("converting %s: %w", args[0], err)
	}

	if out == "" {
		_, err := os.Stdout.Write(converted)
		return err
	}
	if err := os.WriteFile(out, converted, 0o644); err != nil {
		return fmt.Errorf("writing schema: %w", err)
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}
