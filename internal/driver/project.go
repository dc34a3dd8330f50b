package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/lexer"
	"riptide/internal/parser"
	"riptide/internal/project"
	"riptide/internal/source"
	"riptide/internal/symbols"
)

// moduleArtifact carries one module's state across the project
// pipeline: discovery fills everything up to the bind result, the
// scheduler adds the check.
type moduleArtifact struct {
	Meta    project.ModuleMeta
	Rel     string
	FileID  source.FileID
	Builder *ast.Builder
	File    ast.FileID
	Symbols *symbols.Result
	Bag     *diag.Bag
	Broken  bool // load failed, nothing to parse
}

// listTSFiles returns the sorted relative paths of every *.ts file
// under root. Hidden directories, node_modules and the output
// directory are skipped.
func listTSFiles(root, outDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || name == "node_modules") {
				return filepath.SkipDir
			}
			if outDir != "" && path == filepath.Join(root, outDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".ts") {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// moduleSource names one module before loading: its manifest name (or
// derived identity) and the source path relative to the project root.
type moduleSource struct {
	Name string
	Rel  string
}

// resolveModuleSources lists the project's modules. Manifest [[modules]]
// entries win; without them every *.ts under root is a module named by
// its relative path minus the extension.
func resolveModuleSources(root string, manifest *project.Manifest) ([]moduleSource, error) {
	if manifest != nil && len(manifest.Modules) > 0 {
		sources := make([]moduleSource, 0, len(manifest.Modules))
		for _, entry := range manifest.Modules {
			name := entry.Name
			if name == "" {
				norm, err := project.NormalizeModulePath(entry.Path)
				if err != nil {
					return nil, fmt.Errorf("invalid module path %q: %w", entry.Path, err)
				}
				name = norm
			}
			sources = append(sources, moduleSource{Name: name, Rel: entry.Path})
		}
		return sources, nil
	}

	outDir := ""
	if manifest != nil {
		outDir = manifest.Build.OutDir
	}
	files, err := listTSFiles(root, outDir)
	if err != nil {
		return nil, err
	}
	sources := make([]moduleSource, 0, len(files))
	for _, rel := range files {
		norm, err := project.NormalizeModulePath(filepath.ToSlash(rel))
		if err != nil {
			continue
		}
		sources = append(sources, moduleSource{Name: norm, Rel: rel})
	}
	return sources, nil
}

// ListModuleFiles returns the relative source paths of the project's
// modules, in the order CheckProject will report them. The progress UI
// uses this to lay out its file list before the pipeline starts.
func ListModuleFiles(root string, manifest *project.Manifest) ([]string, error) {
	sources, err := resolveModuleSources(root, manifest)
	if err != nil {
		return nil, err
	}
	files := make([]string, len(sources))
	for i, src := range sources {
		files[i] = src.Rel
	}
	return files, nil
}

// discoverModules loads, parses and binds every module in parallel and
// extracts the import edges for the graph. The returned artifacts are
// in source order; load failures produce a broken artifact with an I/O
// diagnostic instead of aborting the whole project.
func discoverModules(ctx context.Context, fileSet *source.FileSet, root string, sources []moduleSource, maxDiagnostics, jobs int) ([]moduleArtifact, error) {
	arts := make([]moduleArtifact, len(sources))

	// FileSet mutation is not concurrency-safe; load up front.
	fileIDs := make([]source.FileID, len(sources))
	loadErrs := make([]error, len(sources))
	for i, src := range sources {
		fileIDs[i], loadErrs[i] = fileSet.Load(filepath.Join(root, src.Rel))
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(sources), 1)))

	for i, src := range sources {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(maxDiagnostics)
			art := moduleArtifact{Bag: bag, Rel: src.Rel}
			art.Meta.Name = src.Name
			art.Meta.Path = src.Name
			art.Meta.Dir = project.DirOf(src.Name)
			art.Meta.File = filepath.Join(root, src.Rel)

			if loadErrs[i] != nil {
				bag.Add(diag.NewError(
					diag.IOLoadFileError,
					source.Span{},
					"failed to load file: "+loadErrs[i].Error(),
				))
				art.Broken = true
				arts[i] = art
				return nil
			}

			fileID := fileIDs[i]
			file := fileSet.Get(fileID)
			art.FileID = fileID
			art.Meta.ContentHash = project.Digest(file.Hash)

			rep := diag.BagReporter{Bag: bag}
			builder := ast.NewBuilder(ast.DefaultHints(), nil)
			lx := lexer.New(file, lexer.Options{Reporter: rep})
			parsed := parser.ParseFile(lx, builder, parser.Options{
				Reporter:  rep,
				MaxErrors: maxErrorsFor(maxDiagnostics),
			})
			art.Builder = builder
			art.File = parsed.File
			if f := builder.Files.Get(parsed.File); f != nil {
				art.Meta.Span = f.Span
			}

			bound := symbols.BindFile(builder, parsed.File, symbols.BindOptions{
				Reporter:   rep,
				Prelude:    symbols.DefaultPrelude(),
				ModulePath: src.Name,
			})
			art.Symbols = &bound

			for _, imp := range bound.Imports {
				canon, ok := project.CanonicalSpecifier(imp.Module)
				if !ok {
					bag.Add(diag.NewError(
						diag.ProjMissingModule,
						imp.Span,
						fmt.Sprintf("invalid import specifier %q", imp.Module),
					))
					continue
				}
				art.Meta.Imports = append(art.Meta.Imports, project.ImportMeta{
					Path: canon,
					Span: imp.Span,
				})
			}

			arts[i] = art
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return arts, err
	}
	return arts, nil
}
