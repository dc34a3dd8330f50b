package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"riptide/internal/driver"
	"riptide/internal/observ"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [path]",
	Short: "Type-check a file or a riptide project",
	Long:  "Type-check a single .ts file or a whole project rooted at riptide.toml.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  checkExecution,
}

func init() {
	checkCmd.Flags().Bool("strict", false, "enable strict mode (implicit any is an error)")
	checkCmd.Flags().String("format", "pretty", "diagnostic output format (pretty|json)")
	checkCmd.Flags().Int("jobs", 0, "number of parallel workers (0 = GOMAXPROCS)")
	checkCmd.Flags().String("progress", "auto", "progress UI (auto|on|off)")
	checkCmd.Flags().Bool("no-cache", false, "disable the on-disk export cache")
}

func checkExecution(cmd *cobra.Command, args []string) error {
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
	progressValue, err := cmd.Flags().GetString("progress")
	if err != nil {
		return fmt.Errorf("failed to get progress flag: %w", err)
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
		return checkSingleFile(cmd, target, format, strict, flags)
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
	if cmd.Flags().Changed("strict") {
		cfg.Build.Strictness = "permissive"
		if strict {
			cfg.Build.Strictness = "strict"
		}
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

	progressMode, err := readProgressMode(progressValue)
	if err != nil {
		return err
	}

	var res *driver.ProjectResult
	if shouldUseProgressUI(progressMode) && format == "pretty" {
		res, err = runCheckWithUI(cmd.Context(), "riptide check", opts)
	} else {
		res, err = driver.CheckProject(cmd.Context(), opts)
	}
	if err != nil {
		return err
	}

	hasErrors, err := printDiagnostics(res.MergedBag(cfg.Build.MaxDiagnostics), res.FileSet, format, flags)
	if err != nil {
		return err
	}
	if flags.Timings && res.Timing != nil {
		printTimingReport(os.Stdout, *res.Timing)
	}
	if hasErrors {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("") // диагностики уже напечатаны
	}
	return nil
}

func checkSingleFile(cmd *cobra.Command, path, format string, strict bool, flags rootFlags) error {
	res, err := driver.CheckFile(path, driver.CheckOptions{
		MaxDiagnostics: flags.MaxDiagnostics,
		Strict:         strict,
		CollectTimings: flags.Timings,
	})
	if err != nil {
		return err
	}
	hasErrors, err := printDiagnostics(res.Bag, res.FileSet, format, flags)
	if err != nil {
		return err
	}
	if flags.Timings && res.Timing != nil {
		printTimingReport(os.Stdout, *res.Timing)
	}
	if hasErrors {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}

func printTimingReport(out *os.File, report observ.Report) {
	if len(report.Phases) == 0 {
		return
	}
	fmt.Fprintln(out, "timings:")
	for _, phase := range report.Phases {
		note := ""
		if phase.Note != "" {
			note = "  " + phase.Note
		}
		fmt.Fprintf(out, "  %-20s %7.2f ms%s\n", phase.Name, phase.DurationMS, note)
	}
	fmt.Fprintf(out, "  %-20s %7.2f ms\n", "total", report.TotalMS)
}
