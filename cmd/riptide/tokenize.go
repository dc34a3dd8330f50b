package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"riptide/internal/diagfmt"
	"riptide/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.ts",
	Short: "Tokenize a source file",
	Long:  `Tokenize breaks down a source file into its constituent tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	flags, err := readRootFlags(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(filePath, flags.MaxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Диагностика в stderr, токены в stdout
	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color: flags.Color,
		})
	}

	switch format {
	case "pretty":
		diagfmt.FormatTokensPretty(os.Stdout, result.FileSet, result.Tokens)
		return nil
	case "json":
		return diagfmt.FormatTokensJSON(os.Stdout, result.FileSet, result.FileID, result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
