package driver

import (
	"fmt"

	"fortio.org/safecast"

	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/lexer"
	"riptide/internal/parser"
	"riptide/internal/source"
)

// ParseResult holds the syntax tree of one file together with its
// diagnostics.
type ParseResult struct {
	FileSet *source.FileSet
	FileID  source.FileID
	Builder *ast.Builder
	File    ast.FileID
	Bag     *diag.Bag
}

// Parse lexes and parses a single file from disk. Syntax problems are
// diagnostics; recovery always produces a complete tree with Bad
// nodes. The error return covers I/O only.
func Parse(path string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(maxDiagnostics)
	rep := diag.BagReporter{Bag: bag}

	builder := ast.NewBuilder(ast.DefaultHints(), nil)
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: rep})
	res := parser.ParseFile(lx, builder, parser.Options{
		Reporter:  rep,
		MaxErrors: maxErrorsFor(maxDiagnostics),
	})

	return &ParseResult{
		FileSet: fs,
		FileID:  fileID,
		Builder: builder,
		File:    res.File,
		Bag:     bag,
	}, nil
}

func maxErrorsFor(maxDiagnostics int) uint {
	if maxDiagnostics <= 0 {
		return 0
	}
	n, err := safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		panic(fmt.Errorf("maxDiagnostics overflow: %w", err))
	}
	return n
}
