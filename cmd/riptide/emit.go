package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"riptide/internal/driver"
	"riptide/internal/emit"
)

var emitCmd = &cobra.Command{
	Use:   "emit [flags] [path]",
	Short: "Strip type annotations and emit JavaScript",
	Long:  "Check a file or project and write the annotation-stripped JavaScript output.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  emitExecution,
}

func init() {
	emitCmd.Flags().String("out", "", "output directory (default: [build].out_dir or dist)")
	emitCmd.Flags().String("target", "", "emission dialect (es5|es2017|esnext)")
	emitCmd.Flags().Bool("sourcemap", false, "write version-3 source maps alongside output")
	emitCmd.Flags().Bool("emit-on-error", false, "emit output even when modules have type errors")
	emitCmd.Flags().Bool("strict", false, "enable strict mode (implicit any is an error)")
	emitCmd.Flags().String("format", "pretty", "diagnostic output format (pretty|json)")
	emitCmd.Flags().Int("jobs", 0, "number of parallel workers (0 = GOMAXPROCS)")
	emitCmd.Flags().Bool("no-cache", false, "disable the on-disk export cache")
}

func emitExecution(cmd *cobra.Command, args []string) error {
	flags, err := readRootFlags(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	strict, err := cmd.Flags().GetBool("strict")
	if err != nil {
		return fmt.Errorf("failed to get strict flag: %w", err)
	}
	sourceMap, err := cmd.Flags().GetBool("sourcemap")
	if err != nil {
		return fmt.Errorf("failed to get sourcemap flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}

	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	if strings.HasSuffix(target, ".ts") {
		return emitSingleFile(cmd, target, format, strict, sourceMap, flags)
	}

	cfg, err := loadProjectConfig(target)
	if err != nil {
		return err
	}
	if flags.MaxDiagnostics > 0 {
		cfg.Build.MaxDiagnostics = flags.MaxDiagnostics
	}
	if err := overrideInt(cmd, "jobs", &cfg.Build.Jobs); err != nil {
		return err
	}
	if err := overrideString(cmd, "target", &cfg.Build.Target); err != nil {
		return err
	}
	if cmd.Flags().Changed("strict") {
		cfg.Build.Strictness = "permissive"
		if strict {
			cfg.Build.Strictness = "strict"
		}
	}
	emitOnError := cfg.Build.EmitOnErrorValue()
	if cmd.Flags().Changed("emit-on-error") {
		emitOnError, err = cmd.Flags().GetBool("emit-on-error")
		if err != nil {
			return fmt.Errorf("failed to get emit-on-error flag: %w", err)
		}
	}

	dialect, ok := emit.ParseDialect(cfg.Build.Target)
	if !ok {
		return fmt.Errorf("unsupported target: %s (supported: es5, es2017, esnext)", cfg.Build.Target)
	}

	outDir := cfg.Build.OutDir
	if err := overrideString(cmd, "out", &outDir); err != nil {
		return err
	}
	if outDir == "" {
		outDir = "dist"
	}

	opts := driver.ProjectOptions{
		Root:           cfg.Root,
		Manifest:       cfg.Manifest,
		MaxDiagnostics: cfg.Build.MaxDiagnostics,
		Strict:         cfg.Build.Strictness == "strict",
		Jobs:           cfg.Build.Jobs,
		CollectTimings: flags.Timings,
	}
	if !noCache {
		cache, cacheErr := driver.OpenDiskCache("riptide")
		if cacheErr == nil {
			opts.Cache = cache
		}
	}

	res, err := driver.CheckProject(cmd.Context(), opts)
	if err != nil {
		return err
	}

	outcome, emitErr := driver.EmitProject(res, driver.EmitOptions{
		OutDir:      outDir,
		Target:      dialect,
		SourceMap:   sourceMap,
		EmitOnError: emitOnError,
	})

	hasErrors, printErr := printDiagnostics(res.MergedBag(cfg.Build.MaxDiagnostics), res.FileSet, format, flags)
	if printErr != nil {
		return printErr
	}
	if emitErr != nil {
		return emitErr
	}
	if flags.Timings && res.Timing != nil {
		printTimingReport(os.Stdout, *res.Timing)
	}
	if !flags.Quiet && outcome != nil {
		fmt.Fprintf(os.Stdout, "emitted %d file(s), skipped %d module(s)\n", len(outcome.Written), outcome.Skipped)
	}
	if hasErrors {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}

// emitSingleFile checks one file and prints its JavaScript to stdout.
func emitSingleFile(cmd *cobra.Command, path, format string, strict, sourceMap bool, flags rootFlags) error {
	targetValue, err := cmd.Flags().GetString("target")
	if err != nil {
		return fmt.Errorf("failed to get target flag: %w", err)
	}
	if targetValue == "" {
		targetValue = "esnext"
	}
	dialect, ok := emit.ParseDialect(targetValue)
	if !ok {
		return fmt.Errorf("unsupported target: %s (supported: es5, es2017, esnext)", targetValue)
	}

	res, err := driver.CheckFile(path, driver.CheckOptions{
		MaxDiagnostics: flags.MaxDiagnostics,
		Strict:         strict,
	})
	if err != nil {
		return err
	}

	hasErrors, err := printDiagnostics(res.Bag, res.FileSet, format, flags)
	if err != nil {
		return err
	}

	emitOnError, err := cmd.Flags().GetBool("emit-on-error")
	if err != nil {
		return fmt.Errorf("failed to get emit-on-error flag: %w", err)
	}
	if hasErrors && !emitOnError {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}

	out, err := driver.EmitSingle(res, driver.EmitOptions{
		Target:    dialect,
		SourceMap: sourceMap,
	})
	if err != nil {
		return err
	}
	if _, err := os.Stdout.Write(out.JS); err != nil {
		return err
	}
	if hasErrors {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}
