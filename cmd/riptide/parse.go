package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"riptide/internal/diagfmt"
	"riptide/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.ts",
	Short: "Parse a source file and dump its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	flags, err := readRootFlags(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Parse(filePath, flags.MaxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color: flags.Color,
		})
	}

	diagfmt.DumpAST(os.Stdout, result.Builder, result.FileSet, result.File)

	if result.Bag.HasErrors() {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}
