package emit

import (
	"slices"

	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/lexer"
	"riptide/internal/parser"
	"riptide/internal/source"
)

// CheckRoundTrip emits the file and parses the output again, verifying
// the result is annotation-free and keeps the executable item
// structure of the original.
func CheckRoundTrip(sf *source.File, opt Options, maxDiag int) (ok bool, msg string) {
	origBag := diag.NewBag(maxDiag)
	origBuilder, origFile := parseOnce(sf, origBag)
	if origBuilder == nil || origBuilder.Files.Get(origFile) == nil {
		return false, "emit-check: initial parse failed"
	}
	if origBag.HasErrors() {
		return false, "emit-check: initial parse has errors"
	}

	out, err := File(sf, origBuilder, origFile, opt)
	if err != nil {
		return false, "emit-check: emitter failed: " + err.Error()
	}

	fs := source.NewFileSet()
	fid := fs.AddVirtual(sf.Path, out.JS)
	emittedBag := diag.NewBag(maxDiag)
	emittedBuilder, emittedFile := parseOnce(fs.Get(fid), emittedBag)
	if emittedBuilder == nil || emittedBuilder.Files.Get(emittedFile) == nil || emittedBag.HasErrors() {
		return false, "emit-check: output does not parse"
	}

	if kind, found := findAnnotation(emittedBuilder, emittedFile); found {
		return false, "emit-check: output still carries a " + kind
	}

	want := survivingItemKinds(origBuilder, origBuilder.Files.Get(origFile), opt)
	got := survivingItemKinds(emittedBuilder, emittedBuilder.Files.Get(emittedFile), opt)
	if !slices.Equal(want, got) {
		return false, "emit-check: item structure changed after round-trip"
	}
	return true, "emit-check: OK"
}

func parseOnce(sf *source.File, bag *diag.Bag) (*ast.Builder, ast.FileID) {
	lx := lexer.New(sf, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	b := ast.NewBuilder(ast.DefaultHints(), nil)
	res := parser.ParseFile(lx, b, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	return b, res.File
}

// findAnnotation scans a parsed tree for any type syntax the emitter
// should have removed.
func findAnnotation(b *ast.Builder, fid ast.FileID) (string, bool) {
	file := b.Files.Get(fid)
	if file == nil {
		return "", false
	}
	for _, itemID := range file.Items {
		item := b.Items.Get(itemID)
		if item == nil {
			continue
		}
		if item.Kind == ast.ItemTypeAlias || item.Kind == ast.ItemInterface {
			return "type declaration", true
		}
	}
	for i := 1; i <= b.Items.Len(); i++ {
		if decl, ok := b.Items.Var(ast.ItemID(i)); ok && decl.Type.IsValid() {
			return "variable annotation", true
		}
	}
	for i := 1; i <= b.Stmts.Len(); i++ {
		if decl, ok := b.Stmts.Var(ast.StmtID(i)); ok && decl.Type.IsValid() {
			return "variable annotation", true
		}
	}
	for i := 1; i <= b.Funcs.Len(); i++ {
		fn := b.Funcs.Get(ast.FuncID(i))
		if fn == nil {
			continue
		}
		if len(fn.TypeParams) > 0 {
			return "type parameter list", true
		}
		if fn.Return.IsValid() {
			return "return annotation", true
		}
		for _, pid := range fn.Params {
			if p := b.Funcs.Param(pid); p != nil && (p.Type.IsValid() || p.Optional) {
				return "parameter annotation", true
			}
		}
	}
	for i := 1; i <= b.Exprs.Len(); i++ {
		if call, ok := b.Exprs.Call(ast.ExprID(i)); ok && len(call.TypeArgs) > 0 {
			return "call type argument list", true
		}
	}
	return "", false
}

// survivingItemKinds lists, in order, the kinds of items the emitter
// keeps for the given options.
func survivingItemKinds(b *ast.Builder, file *ast.File, opt Options) []ast.ItemKind {
	em := emitter{builder: b, file: file, opt: opt}
	kinds := make([]ast.ItemKind, 0, len(file.Items))
	for _, id := range file.Items {
		item := b.Items.Get(id)
		if item == nil {
			continue
		}
		if em.keepItem(id, item) {
			kinds = append(kinds, item.Kind)
		}
	}
	return kinds
}
