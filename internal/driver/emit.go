package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"riptide/internal/diag"
	"riptide/internal/emit"
	"riptide/internal/project"
	"riptide/internal/sema"
	"riptide/internal/source"
)

// EmitOptions configure JavaScript output for a checked project.
type EmitOptions struct {
	OutDir    string
	Target    emit.Dialect
	SourceMap bool
	// EmitOnError keeps emitting modules whose check produced type
	// errors; syntax errors always suppress emission for that module.
	EmitOnError bool
}

// EmitOutcome summarizes one emission pass.
type EmitOutcome struct {
	Written []string
	Skipped int
}

// EmitProject writes the JavaScript (and source maps) of every module
// that is emittable. Skips are recorded as info diagnostics on the
// module's bag; write failures abort with a wrapped error.
func EmitProject(res *ProjectResult, opts EmitOptions) (*EmitOutcome, error) {
	outcome := &EmitOutcome{}
	typeOnly := typeOnlyImportFunc(res)

	for i := range res.Modules {
		mod := &res.Modules[i]
		if mod.Builder == nil || !mod.File.IsValid() {
			outcome.Skipped++
			continue
		}
		if emit.HasPlaceholders(mod.Builder) {
			mod.Bag.Add(diag.New(
				diag.SevInfo,
				diag.EmitSkippedSyntaxError,
				mod.Meta.Span,
				fmt.Sprintf("emission skipped for module %q: file has syntax errors", mod.Meta.Path),
			))
			outcome.Skipped++
			continue
		}
		if !opts.EmitOnError && mod.Bag.HasErrors() {
			mod.Bag.Add(diag.New(
				diag.SevInfo,
				diag.EmitSkippedOnErrors,
				mod.Meta.Span,
				fmt.Sprintf("emission skipped for module %q: module has errors", mod.Meta.Path),
			))
			outcome.Skipped++
			continue
		}

		outPath := filepath.Join(opts.OutDir, filepath.FromSlash(mod.Meta.Path)+".js")
		mapFile := filepath.Base(outPath)

		result, err := emit.File(res.FileSet.Get(mod.FileID), mod.Builder, mod.File, emit.Options{
			Target:         opts.Target,
			SourceMap:      opts.SourceMap,
			MapFile:        mapFile,
			TypeOnlyImport: typeOnly,
		})
		if err != nil {
			return outcome, fmt.Errorf("emit %s: %w", mod.Meta.Path, err)
		}

		if err := writeOutput(outPath, result.JS); err != nil {
			mod.Bag.Add(diag.NewError(diag.IOWriteFileError, source.Span{}, err.Error()))
			return outcome, err
		}
		outcome.Written = append(outcome.Written, outPath)

		if opts.SourceMap && len(result.Map) > 0 {
			mapPath := outPath + ".map"
			if err := writeOutput(mapPath, result.Map); err != nil {
				mod.Bag.Add(diag.NewError(diag.IOWriteFileError, source.Span{}, err.Error()))
				return outcome, err
			}
			outcome.Written = append(outcome.Written, mapPath)
		}
	}
	return outcome, nil
}

// EmitSingle strips one checked file to JavaScript without touching
// the filesystem.
func EmitSingle(res *CheckResult, opts EmitOptions) (emit.Result, error) {
	if emit.HasPlaceholders(res.Builder) {
		return emit.Result{}, fmt.Errorf("file has syntax errors, nothing to emit")
	}
	return emit.File(res.FileSet.Get(res.FileID), res.Builder, res.File, emit.Options{
		Target:    opts.Target,
		SourceMap: opts.SourceMap,
	})
}

func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// typeOnlyImportFunc reports whether a dependency exports name only in
// the type namespace, in which case the emitter drops the specifier.
func typeOnlyImportFunc(res *ProjectResult) func(module, name string) bool {
	surfaces := make(map[string]*sema.PortableExports, len(res.Modules))
	for _, mod := range res.Modules {
		if mod.Exports != nil {
			surfaces[mod.Meta.Path] = mod.Exports
		}
	}
	return func(module, name string) bool {
		canon, ok := project.CanonicalSpecifier(module)
		if !ok {
			return false
		}
		exp := surfaces[canon]
		if exp == nil {
			return false
		}
		for _, entry := range exp.Entries {
			if entry.Name == name {
				return entry.IsType
			}
		}
		return false
	}
}
