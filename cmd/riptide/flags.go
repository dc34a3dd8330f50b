package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"riptide/internal/diag"
	"riptide/internal/diagfmt"
	"riptide/internal/project"
	"riptide/internal/source"
)

// rootFlags are the resolved persistent flags of the root command.
type rootFlags struct {
	Color          bool
	Quiet          bool
	Timings        bool
	MaxDiagnostics int
}

func readRootFlags(cmd *cobra.Command) (rootFlags, error) {
	var out rootFlags

	colorValue, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return out, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorValue {
	case "on":
		out.Color = true
	case "off":
		out.Color = false
	case "auto":
		out.Color = isTerminal(os.Stderr)
	default:
		return out, fmt.Errorf("unsupported color value %q (must be auto, on or off)", colorValue)
	}

	out.Quiet, err = cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return out, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	out.Timings, err = cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return out, fmt.Errorf("failed to get timings flag: %w", err)
	}
	out.MaxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return out, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return out, nil
}

// projectConfig is the effective build configuration after the
// manifest and the command flags are merged; flags win.
type projectConfig struct {
	Root     string
	Manifest *project.Manifest
	Build    project.BuildConfig
}

// loadProjectConfig resolves the project root from the argument path
// and merges riptide.toml into the defaults. Absent manifests are not
// an error; the defaults apply.
func loadProjectConfig(arg string) (projectConfig, error) {
	root := arg
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return projectConfig{}, fmt.Errorf("failed to resolve path %q: %w", root, err)
	}

	cfg := projectConfig{Root: abs, Build: project.DefaultBuildConfig()}

	manifestPath, found, err := project.FindRiptideToml(abs)
	if err != nil {
		return cfg, err
	}
	if !found {
		return cfg, nil
	}

	manifest, err := project.LoadManifest(manifestPath)
	if err != nil {
		return cfg, err
	}
	cfg.Manifest = manifest
	cfg.Root = filepath.Dir(manifestPath)
	cfg.Build = manifest.Build
	return cfg, nil
}

// overrideInt applies a changed integer flag over the manifest value.
func overrideInt(cmd *cobra.Command, name string, dst *int) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	*dst = v
	return nil
}

func overrideString(cmd *cobra.Command, name string, dst *string) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	*dst = v
	return nil
}

// printDiagnostics renders a merged bag to stderr in the requested
// format and reports whether errors were present.
func printDiagnostics(bag *diag.Bag, fs *source.FileSet, format string, flags rootFlags) (bool, error) {
	bag.Sort()
	if flags.Quiet {
		filtered := diag.NewBag(bag.Len())
		for _, d := range bag.Items() {
			if d.Severity == diag.SevError {
				filtered.Add(d)
			}
		}
		bag = filtered
	}

	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
			Color:     flags.Color,
			ShowNotes: true,
			ShowFixes: true,
		})
	case "json":
		if err := diagfmt.JSON(os.Stdout, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			IncludeFixes:     true,
		}); err != nil {
			return bag.HasErrors(), err
		}
	default:
		return bag.HasErrors(), fmt.Errorf("unknown format: %s", format)
	}
	return bag.HasErrors(), nil
}
