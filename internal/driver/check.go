package driver

import (
	"time"

	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/lexer"
	"riptide/internal/observ"
	"riptide/internal/parser"
	"riptide/internal/sema"
	"riptide/internal/source"
	"riptide/internal/symbols"
)

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events during checking.
type PhaseObserver func(PhaseEvent)

// CheckOptions configure a single-file check.
type CheckOptions struct {
	MaxDiagnostics int
	Strict         bool
	// Deps hands the checker the typed export surface of each import
	// specifier; single-file checks usually leave it nil, which types
	// every import member as error after the graph diagnostic.
	Deps map[string]*sema.ModuleTypes
	// CollectTimings adds phase durations to the result.
	CollectTimings bool
	Observer       PhaseObserver
}

// CheckResult holds every artefact of a single-file pipeline run.
type CheckResult struct {
	FileSet *source.FileSet
	FileID  source.FileID
	Builder *ast.Builder
	File    ast.FileID
	Symbols *symbols.Result
	Sema    *sema.Result
	Bag     *diag.Bag
	Timing  *observ.Report
}

// CheckFile runs lex, parse, bind and check over one file from disk.
// All source-level findings are diagnostics in the bag; the error
// return covers I/O and internal invariant failures.
func CheckFile(path string, opts CheckOptions) (*CheckResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return checkLoaded(fs, fileID, "", opts)
}

// CheckSource runs the same pipeline over in-memory content.
func CheckSource(name string, content []byte, opts CheckOptions) (*CheckResult, error) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, content)
	return checkLoaded(fs, fileID, "", opts)
}

func checkLoaded(fs *source.FileSet, fileID source.FileID, module string, opts CheckOptions) (res *CheckResult, err error) {
	defer recoverInvariant(module, &err)

	bag := diag.NewBag(opts.MaxDiagnostics)
	rep := diag.BagReporter{Bag: bag}
	timer := observ.NewTimer()

	observe := func(name string, fn func()) {
		if opts.Observer != nil {
			opts.Observer(PhaseEvent{Name: name, Status: PhaseStart})
		}
		idx := timer.Begin(name)
		start := time.Now()
		fn()
		timer.End(idx, "")
		if opts.Observer != nil {
			opts.Observer(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: time.Since(start)})
		}
	}

	builder := ast.NewBuilder(ast.DefaultHints(), nil)
	var parsed parser.Result
	observe("parse", func() {
		lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: rep})
		parsed = parser.ParseFile(lx, builder, parser.Options{
			Reporter:  rep,
			MaxErrors: maxErrorsFor(opts.MaxDiagnostics),
		})
	})

	var bound symbols.Result
	observe("bind", func() {
		bound = symbols.BindFile(builder, parsed.File, symbols.BindOptions{
			Reporter:   rep,
			Prelude:    symbols.DefaultPrelude(),
			ModulePath: module,
		})
	})

	var checked sema.Result
	observe("check", func() {
		checked = sema.Check(builder, parsed.File, sema.Options{
			Reporter: rep,
			Symbols:  &bound,
			Strict:   opts.Strict,
			Deps:     opts.Deps,
		})
	})

	res = &CheckResult{
		FileSet: fs,
		FileID:  fileID,
		Builder: builder,
		File:    parsed.File,
		Symbols: &bound,
		Sema:    &checked,
		Bag:     bag,
	}
	if opts.CollectTimings {
		report := timer.Report()
		res.Timing = &report
		appendTimingDiagnostic(bag, timingPayload{
			Kind:    "file",
			Path:    fs.Get(fileID).Path,
			TotalMS: report.TotalMS,
			Phases:  report.Phases,
		})
	}
	return res, nil
}
