package parser_test

import (
	"testing"

	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/lexer"
	"riptide/internal/parser"
	"riptide/internal/source"
	"riptide/internal/token"
)

func parse(t *testing.T, src string) (*ast.Builder, ast.FileID, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rt", []byte(src))
	bag := diag.NewBag(128)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	b := ast.NewBuilder(ast.DefaultHints(), nil)
	res := parser.ParseFile(lx, b, parser.Options{Reporter: rep})
	return b, res.File, bag
}

func parseClean(t *testing.T, src string) (*ast.Builder, *ast.File) {
	t.Helper()
	b, fileID, bag := parse(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %+v", bag.Items())
	}
	return b, b.Files.Get(fileID)
}

func itemKinds(b *ast.Builder, f *ast.File) []ast.ItemKind {
	kinds := make([]ast.ItemKind, 0, len(f.Items))
	for _, id := range f.Items {
		kinds = append(kinds, b.Items.Get(id).Kind)
	}
	return kinds
}

func TestParseItems(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []ast.ItemKind
	}{
		{
			"declarations",
			`let a: number = 1;
const b = "two";
var c;
function id<T>(x: T): T { return x; }
type Pair = { a: number; b: number };
interface Shape { area(): number; }
`,
			[]ast.ItemKind{ast.ItemVar, ast.ItemVar, ast.ItemVar, ast.ItemFunction, ast.ItemTypeAlias, ast.ItemInterface},
		},
		{
			"imports and exports",
			`import { one, two as second } from "./nums";
import * as util from "./util";
import "./effects";
export const x = 1;
export { one, second as two };
`,
			[]ast.ItemKind{ast.ItemImport, ast.ItemImport, ast.ItemImport, ast.ItemVar, ast.ItemExport},
		},
		{
			"top level statements",
			`let total = 0;
total = total + 1;
if (total > 0) { total = 0; }
`,
			[]ast.ItemKind{ast.ItemVar, ast.ItemStmt, ast.ItemStmt},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, file := parseClean(t, tt.src)
			got := itemKinds(b, file)
			if len(got) != len(tt.want) {
				t.Fatalf("items = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("items = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestParseRecoversFromMissingName(t *testing.T) {
	b, fileID, bag := parse(t, "let = 5;\nlet ok = 1;\n")
	if !bag.HasErrors() {
		t.Fatal("expected a syntax error")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SynExpectVariableName {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SynExpectVariableName, got %v", bag.Items())
	}

	file := b.Files.Get(fileID)
	kinds := itemKinds(b, file)
	if len(kinds) != 2 || kinds[0] != ast.ItemBad || kinds[1] != ast.ItemVar {
		t.Fatalf("items = %v, want [bad var]", kinds)
	}
	decl, _ := b.Items.Var(file.Items[1])
	if b.Text(decl.Name) != "ok" {
		t.Fatalf("second item name = %q, want ok", b.Text(decl.Name))
	}
}

func TestParseAlwaysCoversInput(t *testing.T) {
	srcs := []string{
		"let = ;",
		"function (",
		"interface {{{",
		"let x = [1, 2",
		"if (a",
		"@@@",
	}
	for _, src := range srcs {
		b, fileID, _ := parse(t, src)
		file := b.Files.Get(fileID)
		if file == nil {
			t.Fatalf("no file node for %q", src)
		}
		if len(file.Items) == 0 {
			t.Fatalf("no items for %q", src)
		}
		if int(file.Span.End) < len(src) {
			t.Fatalf("file span %v does not cover input %q", file.Span, src)
		}
	}
}

func firstExpr(t *testing.T, b *ast.Builder, f *ast.File) ast.ExprID {
	t.Helper()
	for _, itemID := range f.Items {
		item := b.Items.Get(itemID)
		switch item.Kind {
		case ast.ItemVar:
			decl, _ := b.Items.Var(itemID)
			if decl.Init.IsValid() {
				return decl.Init
			}
		case ast.ItemStmt:
			stmtID, _ := b.Items.Stmt(itemID)
			if es, ok := b.Stmts.Expr(stmtID); ok {
				return es.Expr
			}
		}
	}
	t.Fatal("no expression found")
	return ast.NoExprID
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		name string
		src  string
		// check walks the root expression.
		check func(t *testing.T, b *ast.Builder, root ast.ExprID)
	}{
		{
			"multiplication binds tighter",
			"let x = 1 + 2 * 3;",
			func(t *testing.T, b *ast.Builder, root ast.ExprID) {
				bin, ok := b.Exprs.Binary(root)
				if !ok || bin.Op != ast.BinAdd {
					t.Fatalf("root is not +")
				}
				right, ok := b.Exprs.Binary(bin.Right)
				if !ok || right.Op != ast.BinMul {
					t.Fatalf("right of + is not *")
				}
			},
		},
		{
			"exponent is right associative",
			"let x = 2 ** 3 ** 4;",
			func(t *testing.T, b *ast.Builder, root ast.ExprID) {
				bin, ok := b.Exprs.Binary(root)
				if !ok || bin.Op != ast.BinPow {
					t.Fatalf("root is not **")
				}
				if _, ok := b.Exprs.Binary(bin.Right); !ok {
					t.Fatal("right operand of ** is not nested **")
				}
				if _, ok := b.Exprs.Lit(bin.Left); !ok {
					t.Fatal("left operand of ** is not the literal 2")
				}
			},
		},
		{
			"assignment is right associative",
			"a = b = 1;",
			func(t *testing.T, b *ast.Builder, root ast.ExprID) {
				outer, ok := b.Exprs.Assign(root)
				if !ok {
					t.Fatal("root is not assignment")
				}
				if _, ok := b.Exprs.Assign(outer.Value); !ok {
					t.Fatal("value is not nested assignment")
				}
			},
		},
		{
			"nullish with comparison",
			"let x = a ?? b === c;",
			func(t *testing.T, b *ast.Builder, root ast.ExprID) {
				bin, ok := b.Exprs.Binary(root)
				if !ok || bin.Op != ast.BinNullish {
					t.Fatalf("root is not ??")
				}
				right, ok := b.Exprs.Binary(bin.Right)
				if !ok || right.Op != ast.BinStrictEq {
					t.Fatal("right of ?? is not ===")
				}
			},
		},
		{
			"conditional",
			"let x = a ? 1 : 2;",
			func(t *testing.T, b *ast.Builder, root ast.ExprID) {
				if _, ok := b.Exprs.Cond(root); !ok {
					t.Fatal("root is not a conditional")
				}
			},
		},
		{
			"unary typeof",
			"let x = typeof a === \"string\";",
			func(t *testing.T, b *ast.Builder, root ast.ExprID) {
				bin, ok := b.Exprs.Binary(root)
				if !ok || bin.Op != ast.BinStrictEq {
					t.Fatal("root is not ===")
				}
				un, ok := b.Exprs.Unary(bin.Left)
				if !ok || un.Op != ast.UnaryTypeof {
					t.Fatal("left is not typeof")
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, file := parseClean(t, tt.src)
			tt.check(t, b, firstExpr(t, b, file))
		})
	}
}

func TestPostfixChain(t *testing.T) {
	b, file := parseClean(t, "let x = obj.items[0]?.next(1, 2);")
	root := firstExpr(t, b, file)
	call, ok := b.Exprs.Call(root)
	if !ok {
		t.Fatal("root is not a call")
	}
	if len(call.Args) != 2 {
		t.Fatalf("call args = %d, want 2", len(call.Args))
	}
	member, ok := b.Exprs.Member(call.Callee)
	if !ok || !member.Optional || b.Text(member.Name) != "next" {
		t.Fatal("callee is not ?.next")
	}
	index, ok := b.Exprs.Index(member.Object)
	if !ok {
		t.Fatal("?.next receiver is not an index access")
	}
	inner, ok := b.Exprs.Member(index.Object)
	if !ok || b.Text(inner.Name) != "items" {
		t.Fatal("index receiver is not obj.items")
	}
}

func TestArrowForms(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantParams int
		exprBody   bool
	}{
		{"single ident param", "let f = x => x + 1;", 1, true},
		{"empty parens", "let f = () => 1;", 0, true},
		{"annotated params", "let f = (a: number, b?: string) => a;", 2, true},
		{"block body", "let f = (a) => { return a; };", 1, false},
		{"return annotation", "let f = (a): number => a;", 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, file := parseClean(t, tt.src)
			root := firstExpr(t, b, file)
			fnID, ok := b.Exprs.Func(root)
			if !ok {
				t.Fatal("initializer is not an arrow")
			}
			fn := b.Funcs.Get(fnID)
			if !fn.IsArrow {
				t.Fatal("function is not marked as arrow")
			}
			if len(fn.Params) != tt.wantParams {
				t.Fatalf("params = %d, want %d", len(fn.Params), tt.wantParams)
			}
			if tt.exprBody && !fn.ExprBody.IsValid() {
				t.Fatal("expected expression body")
			}
			if !tt.exprBody && !fn.Body.IsValid() {
				t.Fatal("expected block body")
			}
		})
	}
}

func TestParenIsNotArrow(t *testing.T) {
	b, file := parseClean(t, "let x = (a + b) * c;")
	root := firstExpr(t, b, file)
	bin, ok := b.Exprs.Binary(root)
	if !ok || bin.Op != ast.BinMul {
		t.Fatal("root is not *")
	}
	if _, ok := b.Exprs.Group(bin.Left); !ok {
		t.Fatal("left operand is not a parenthesized group")
	}
}

func TestTemplateExpression(t *testing.T) {
	b, file := parseClean(t, "let s = `a ${x} b ${y} c`;")
	root := firstExpr(t, b, file)
	tpl, ok := b.Exprs.Template(root)
	if !ok {
		t.Fatal("initializer is not a template")
	}
	if len(tpl.Parts) != 3 || len(tpl.Exprs) != 2 {
		t.Fatalf("parts=%d exprs=%d, want 3 and 2", len(tpl.Parts), len(tpl.Exprs))
	}
	wantCooked := []string{"a ", " b ", " c"}
	for i, part := range tpl.Parts {
		if b.Text(part.Cooked) != wantCooked[i] {
			t.Fatalf("part %d cooked = %q, want %q", i, b.Text(part.Cooked), wantCooked[i])
		}
	}
}

func TestExplicitTypeArgsCall(t *testing.T) {
	b, file := parseClean(t, "let x = first<number>(xs);")
	root := firstExpr(t, b, file)
	call, ok := b.Exprs.Call(root)
	if !ok {
		t.Fatal("root is not a call")
	}
	if len(call.TypeArgs) != 1 {
		t.Fatalf("type args = %d, want 1", len(call.TypeArgs))
	}
	if call.TypeArgsSpan.Empty() {
		t.Fatal("type args span is empty")
	}
}

func TestLessThanStaysComparison(t *testing.T) {
	b, file := parseClean(t, "let x = a < b;")
	root := firstExpr(t, b, file)
	bin, ok := b.Exprs.Binary(root)
	if !ok || bin.Op != ast.BinLess {
		t.Fatalf("root is not <")
	}
}

func TestNestedGenericTypeAnnotation(t *testing.T) {
	b, file := parseClean(t, "let x: Box<Box<number>> = y;")
	decl, _ := b.Items.Var(file.Items[0])
	if !decl.Type.IsValid() {
		t.Fatal("annotation missing")
	}
	name, ok := b.Types.Name(decl.Type)
	if !ok || b.Text(name.Name) != "Box" || len(name.Args) != 1 {
		t.Fatal("outer annotation is not Box<...>")
	}
	inner, ok := b.Types.Name(name.Args[0])
	if !ok || b.Text(inner.Name) != "Box" || len(inner.Args) != 1 {
		t.Fatal("inner annotation is not Box<...>")
	}
}

func TestTypeAnnotationShapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind ast.TypeSynKind
	}{
		{"union", "let x: string | null = null;", ast.TypeSynUnion},
		{"intersection", "let x: A & B = y;", ast.TypeSynIntersection},
		{"array", "let x: number[] = [];", ast.TypeSynArray},
		{"object", "let x: { a: number; b?: string } = y;", ast.TypeSynObject},
		{"function", "let x: (a: number) => string = y;", ast.TypeSynFunc},
		{"string literal", `let x: "up" = "up";`, ast.TypeSynLit},
		{"group", "let x: (string | null)[] = [];", ast.TypeSynArray},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, file := parseClean(t, tt.src)
			decl, _ := b.Items.Var(file.Items[0])
			got := b.Types.Get(decl.Type).Kind
			if got != tt.kind {
				t.Fatalf("annotation kind = %v, want %v", got, tt.kind)
			}
		})
	}
}

func TestAnnotationSpansCoverColon(t *testing.T) {
	src := "let x: number = 1;"
	b, file := parseClean(t, src)
	decl, _ := b.Items.Var(file.Items[0])
	if got := src[decl.TypeSpan.Start:decl.TypeSpan.End]; got != ": number" {
		t.Fatalf("TypeSpan covers %q, want %q", got, ": number")
	}
}

func TestFunctionSpans(t *testing.T) {
	src := "function pick<T>(a: T, b?: T): T { return a; }"
	b, file := parseClean(t, src)
	fnID, _ := b.Items.Function(file.Items[0])
	fn := b.Funcs.Get(fnID)

	if got := src[fn.TypeParamsSpan.Start:fn.TypeParamsSpan.End]; got != "<T>" {
		t.Fatalf("TypeParamsSpan covers %q, want <T>", got)
	}
	if got := src[fn.ReturnSpan.Start:fn.ReturnSpan.End]; got != ": T" {
		t.Fatalf("ReturnSpan covers %q, want : T", got)
	}

	first := b.Funcs.Param(fn.Params[0])
	if got := src[first.TypeSpan.Start:first.TypeSpan.End]; got != ": T" {
		t.Fatalf("param TypeSpan covers %q, want : T", got)
	}
	second := b.Funcs.Param(fn.Params[1])
	if got := src[second.TypeSpan.Start:second.TypeSpan.End]; got != "?: T" {
		t.Fatalf("optional param TypeSpan covers %q, want ?: T", got)
	}
	if !second.Optional {
		t.Fatal("second param not optional")
	}
}

func TestForStatements(t *testing.T) {
	b, file := parseClean(t, `
function f(xs: number[]) {
	for (let i = 0; i < 10; i = i + 1) { }
	for (x of xs) { }
	for (const v of xs) { }
	for (;;) { break; }
}
`)
	fnID, _ := b.Items.Function(file.Items[0])
	fn := b.Funcs.Get(fnID)
	block, _ := b.Stmts.Block(fn.Body)
	if len(block.Stmts) != 4 {
		t.Fatalf("statements = %d, want 4", len(block.Stmts))
	}
	kinds := []ast.StmtKind{
		b.Stmts.Get(block.Stmts[0]).Kind,
		b.Stmts.Get(block.Stmts[1]).Kind,
		b.Stmts.Get(block.Stmts[2]).Kind,
		b.Stmts.Get(block.Stmts[3]).Kind,
	}
	want := []ast.StmtKind{ast.StmtForClassic, ast.StmtForOf, ast.StmtForOf, ast.StmtForClassic}
	for i := range kinds {
		if kinds[i] != want[i] {
			t.Fatalf("stmt kinds = %v, want %v", kinds, want)
		}
	}
	forOf, _ := b.Stmts.ForOf(block.Stmts[2])
	if forOf.Decl != ast.DeclConst || !forOf.Declared || b.Text(forOf.Name) != "v" {
		t.Fatal("for-of did not record const v")
	}
	bare, _ := b.Stmts.ForOf(block.Stmts[1])
	if bare.Declared {
		t.Fatal("bare for-of header marked as declaration")
	}
}

func TestNestedFunctionDeclaration(t *testing.T) {
	b, file := parseClean(t, `function outer() {
	function inner(x: number): number { return x; }
	return inner(1);
}`)
	fnID, _ := b.Items.Function(file.Items[0])
	fn := b.Funcs.Get(fnID)
	block, _ := b.Stmts.Block(fn.Body)
	if len(block.Stmts) != 2 {
		t.Fatalf("statements = %d, want 2", len(block.Stmts))
	}
	decl, ok := b.Stmts.FuncDecl(block.Stmts[0])
	if !ok {
		t.Fatalf("first statement kind = %v, want func-decl", b.Stmts.Get(block.Stmts[0]).Kind)
	}
	inner := b.Funcs.Get(decl.Fn)
	if b.Text(inner.Name) != "inner" || len(inner.Params) != 1 {
		t.Fatal("inner function mis-parsed")
	}
	if inner.IsArrow || !inner.Body.IsValid() {
		t.Fatal("inner function shape wrong")
	}
}

func TestConstRequiresInitializer(t *testing.T) {
	_, _, bag := parse(t, "const x: number;")
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SynConstWithoutInit {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SynConstWithoutInit, got %v", bag.Items())
	}
}

func TestBadAssignTarget(t *testing.T) {
	_, _, bag := parse(t, "1 = 2;")
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SynBadAssignTarget {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SynBadAssignTarget, got %v", bag.Items())
	}
}

func TestImportForms(t *testing.T) {
	b, file := parseClean(t, `import { a, b as c } from "./m";
import * as ns from "./n";
import d from "./o";
import "./p";
`)
	named, _ := b.Items.Import(file.Items[0])
	if len(named.Specs) != 2 || named.HasNamespace() {
		t.Fatal("named import clause mis-parsed")
	}
	if b.Text(named.Specs[1].Imported) != "b" || b.Text(named.Specs[1].Local) != "c" {
		t.Fatal("alias spec mis-parsed")
	}
	if b.Text(named.Module) != "./m" {
		t.Fatalf("module = %q, want ./m", b.Text(named.Module))
	}

	star, _ := b.Items.Import(file.Items[1])
	if !star.HasNamespace() || b.Text(star.Namespace) != "ns" {
		t.Fatal("namespace import mis-parsed")
	}

	def, _ := b.Items.Import(file.Items[2])
	if !def.HasNamespace() || b.Text(def.Namespace) != "d" {
		t.Fatal("default import should bind like a namespace")
	}

	bare, _ := b.Items.Import(file.Items[3])
	if !bare.IsBare() {
		t.Fatal("bare import mis-parsed")
	}
}

func TestInterfaceMembers(t *testing.T) {
	b, file := parseClean(t, `interface Counter<T> extends Base {
	count: number;
	label?: string;
	bump(by: number): T;
}`)
	decl, _ := b.Items.Interface(file.Items[0])
	if b.Text(decl.Name) != "Counter" || len(decl.TypeParams) != 1 || len(decl.Extends) != 1 {
		t.Fatal("interface header mis-parsed")
	}
	if len(decl.Members) != 3 {
		t.Fatalf("members = %d, want 3", len(decl.Members))
	}
	if !decl.Members[1].Optional {
		t.Fatal("label not optional")
	}
	if b.Types.Get(decl.Members[2].Type).Kind != ast.TypeSynFunc {
		t.Fatal("method shorthand did not become a function type")
	}
}

func TestKeywordAsMemberName(t *testing.T) {
	b, file := parseClean(t, "let x = obj.type;")
	root := firstExpr(t, b, file)
	member, ok := b.Exprs.Member(root)
	if !ok || b.Text(member.Name) != "type" {
		t.Fatal("keyword property name rejected")
	}
}

func TestErrorBudgetStopsReporting(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rt", []byte("let = ; let = ; let = ; let = ;"))
	bag := diag.NewBag(128)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	b := ast.NewBuilder(ast.DefaultHints(), nil)
	res := parser.ParseFile(lx, b, parser.Options{Reporter: rep, MaxErrors: 2})
	if res.ErrCount < 2 {
		t.Fatalf("ErrCount = %d, want at least 2", res.ErrCount)
	}
	if bag.Len() > 2 {
		t.Fatalf("reported %d diagnostics, budget was 2", bag.Len())
	}
	if file := b.Files.Get(res.File); len(file.Items) == 0 {
		t.Fatal("parsing stopped with the budget")
	}
}

func TestShorthandObjectLiteral(t *testing.T) {
	b, file := parseClean(t, "let o = { a: 1, b };")
	root := firstExpr(t, b, file)
	obj, ok := b.Exprs.Object(root)
	if !ok || len(obj.Fields) != 2 {
		t.Fatal("object literal mis-parsed")
	}
	if obj.Fields[0].Shorthand || !obj.Fields[1].Shorthand {
		t.Fatal("shorthand flags wrong")
	}
	if !obj.Fields[1].Value.IsValid() {
		t.Fatal("shorthand value not synthesized")
	}
}

func TestNewExpression(t *testing.T) {
	b, file := parseClean(t, "let x = new ns.Thing(1).size;")
	root := firstExpr(t, b, file)
	member, ok := b.Exprs.Member(root)
	if !ok || b.Text(member.Name) != "size" {
		t.Fatal("root is not .size")
	}
	n, ok := b.Exprs.New(member.Object)
	if !ok || len(n.Args) != 1 {
		t.Fatal("receiver is not new ns.Thing(1)")
	}
	if _, ok := b.Exprs.Member(n.Callee); !ok {
		t.Fatal("new callee is not a member chain")
	}
}

func TestStmtSpansNested(t *testing.T) {
	src := "function f() { if (a) { return 1; } else { return 2; } }"
	b, file := parseClean(t, src)
	fnID, _ := b.Items.Function(file.Items[0])
	fn := b.Funcs.Get(fnID)
	block, _ := b.Stmts.Block(fn.Body)
	ifStmt, ok := b.Stmts.If(block.Stmts[0])
	if !ok {
		t.Fatal("first statement is not if")
	}
	if !ifStmt.Else.IsValid() {
		t.Fatal("else branch lost")
	}
	ifSpan := b.Stmts.Get(block.Stmts[0]).Span
	if src[ifSpan.Start:ifSpan.Start+2] != "if" {
		t.Fatalf("if span starts at %q", src[ifSpan.Start:ifSpan.Start+2])
	}
	if int(ifSpan.End) < len(src)-2 {
		t.Fatalf("if span %v does not cover else branch", ifSpan)
	}
}

func TestEOFTokenAfterParse(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rt", []byte("let x = 1;"))
	lx := lexer.New(fs.Get(id), lexer.Options{})
	b := ast.NewBuilder(ast.DefaultHints(), nil)
	parser.ParseFile(lx, b, parser.Options{})
	if lx.Next().Kind != token.EOF {
		t.Fatal("parser did not consume the whole stream")
	}
}
