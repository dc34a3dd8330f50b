// Package emit turns parsed source back into plain JavaScript.
//
// The emitter walks the tree in source order and copies every byte it
// does not need to touch, so output keeps the author's spacing and
// comments. Three kinds of rewriting happen on the way out: annotation
// ranges recorded by the parser are skipped, type-only declarations
// and import pieces are dropped, and an es5 target lowers the newer
// constructs of the grammar.
package emit

import (
	"errors"

	"riptide/internal/ast"
	"riptide/internal/source"
)

// Dialect selects the JavaScript surface of the output.
type Dialect uint8

const (
	// DialectESNext keeps every construct and only strips annotations.
	DialectESNext Dialect = iota
	// DialectES2017 matches ESNext for the constructs of this grammar.
	DialectES2017
	// DialectES5 additionally lowers let/const bindings, arrows and
	// template literals.
	DialectES5
)

func (d Dialect) String() string {
	switch d {
	case DialectES5:
		return "es5"
	case DialectES2017:
		return "es2017"
	default:
		return "esnext"
	}
}

// ParseDialect maps a manifest or flag value to a dialect. The empty
// string selects esnext.
func ParseDialect(s string) (Dialect, bool) {
	switch s {
	case "es5":
		return DialectES5, true
	case "es2017":
		return DialectES2017, true
	case "esnext", "":
		return DialectESNext, true
	default:
		return DialectESNext, false
	}
}

// lowers reports whether the target needs structural rewriting.
func (d Dialect) lowers() bool { return d == DialectES5 }

// Options configure one emission.
type Options struct {
	Target Dialect

	// SourceMap adds a version-3 map to the result.
	SourceMap bool
	// MapSource overrides the path recorded in the map's sources list;
	// empty records the source file path.
	MapSource string
	// MapFile names the generated file inside the map.
	MapFile string

	// TypeOnlyImport reports whether module exports name only as a
	// type, in which case its import specifier is dropped. Nil keeps
	// every specifier.
	TypeOnlyImport func(module, name string) bool
}

func (o Options) mapSourceName(sf *source.File) string {
	if o.MapSource != "" {
		return o.MapSource
	}
	return sf.Path
}

// Result is the output of emitting one file.
type Result struct {
	JS  []byte
	Map []byte
}

// File emits the JavaScript for one parsed file.
func File(sf *source.File, b *ast.Builder, fid ast.FileID, opt Options) (Result, error) {
	if sf == nil {
		return Result{}, errors.New("emit: nil source file")
	}
	if b == nil {
		return Result{}, errors.New("emit: nil builder")
	}
	if !fid.IsValid() {
		return Result{}, errors.New("emit: invalid file id")
	}
	file := b.Files.Get(fid)
	if file == nil {
		return Result{}, errors.New("emit: missing ast file")
	}

	w := newWriter(sf, opt.SourceMap)
	em := emitter{builder: b, file: file, sf: sf, w: w, opt: opt}
	em.emitFile()

	res := Result{JS: w.bytes()}
	if opt.SourceMap {
		m, err := w.sourceMap(opt.mapSourceName(sf), opt.MapFile)
		if err != nil {
			return Result{}, err
		}
		res.Map = m
	}
	return res, nil
}

// HasPlaceholders reports whether error recovery left bad nodes in the
// builder, which makes the emitted ranges syntactically unusable. Bad
// type annotations do not count: their ranges are stripped from the
// output anyway.
func HasPlaceholders(b *ast.Builder) bool {
	for i := 1; i <= b.Items.Len(); i++ {
		if item := b.Items.Get(ast.ItemID(i)); item != nil && item.Kind == ast.ItemBad {
			return true
		}
	}
	for i := 1; i <= b.Stmts.Len(); i++ {
		if st := b.Stmts.Get(ast.StmtID(i)); st != nil && st.Kind == ast.StmtBad {
			return true
		}
	}
	for i := 1; i <= b.Exprs.Len(); i++ {
		if ex := b.Exprs.Get(ast.ExprID(i)); ex != nil && ex.Kind == ast.ExprBad {
			return true
		}
	}
	return false
}
