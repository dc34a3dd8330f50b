package parser_test

import (
	"testing"

	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/lexer"
	"riptide/internal/parser"
	"riptide/internal/source"
	"riptide/internal/testkit"
)

func TestParsedSpansStayInBounds(t *testing.T) {
	sources := []struct {
		name string
		src  string
	}{
		{"declarations", "let a: number = 1;\nconst b = \"two\";\n"},
		{"function", "export function add(a: number, b: number): number { return a + b; }\n"},
		{"interface", "interface Shape { area(): number; name: string; }\n"},
		{"generics", "function first<T>(xs: T[]): T { return xs[0]; }\n"},
		{"imports", "import { helper } from \"./util\";\nexport const v = helper(1);\n"},
		{"control flow", "function f(n: number) { for (let i = 0; i < n; i = i + 1) { if (i > 2) { return i; } } return 0; }\n"},
	}

	for _, tc := range sources {
		t.Run(tc.name, func(t *testing.T) {
			fs := source.NewFileSet()
			id := fs.AddVirtual("spans.ts", []byte(tc.src))
			sf := fs.Get(id)

			bag := diag.NewBag(128)
			rep := diag.BagReporter{Bag: bag}
			lx := lexer.New(sf, lexer.Options{Reporter: rep})
			b := ast.NewBuilder(ast.DefaultHints(), nil)
			res := parser.ParseFile(lx, b, parser.Options{Reporter: rep})

			if bag.HasErrors() {
				t.Fatalf("unexpected parse errors: %+v", bag.Items())
			}
			if err := testkit.CheckSpanInvariants(b, res.File, sf); err != nil {
				t.Fatalf("span invariants: %v", err)
			}
		})
	}
}
