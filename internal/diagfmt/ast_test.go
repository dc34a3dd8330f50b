package diagfmt

import (
	"strings"
	"testing"

	"riptide/internal/ast"
	"riptide/internal/lexer"
	"riptide/internal/parser"
	"riptide/internal/source"
)

func TestDumpAST(t *testing.T) {
	src := "export function add(a: number, b: number): number {\n" +
		"  return a + b;\n" +
		"}\n" +
		"const total = add(1, 2);\n"

	fs := source.NewFileSet()
	fileID := fs.AddVirtual("add.ts", []byte(src))

	builder := ast.NewBuilder(ast.DefaultHints(), nil)
	lx := lexer.New(fs.Get(fileID), lexer.Options{})
	res := parser.ParseFile(lx, builder, parser.Options{})
	if res.ErrCount != 0 {
		t.Fatalf("parse errors: %d", res.ErrCount)
	}

	var sb strings.Builder
	DumpAST(&sb, builder, fs, res.File)
	got := sb.String()

	for _, want := range []string{
		"file",
		"function export add",
		"param a",
		"type number",
		"return-type",
		"binary +",
		"const total",
		"call",
		"literal number 1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("dump missing %q:\n%s", want, got)
		}
	}
}
