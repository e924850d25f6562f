// Package main is the entry point for the dfscope CLI.
package main

import (
	"os"

	"github.com/f3rmion/dfscope/cmd/dfscope/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
