package symbols_test

import (
	"testing"

	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/lexer"
	"riptide/internal/parser"
	"riptide/internal/source"
	"riptide/internal/symbols"
)

func bindSrc(t *testing.T, src string) (*ast.Builder, symbols.Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rt", []byte(src))
	bag := diag.NewBag(128)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	b := ast.NewBuilder(ast.DefaultHints(), nil)
	res := parser.ParseFile(lx, b, parser.Options{Reporter: rep})
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %+v", bag.Items())
	}
	bound := symbols.BindFile(b, res.File, symbols.BindOptions{
		Reporter:   rep,
		Prelude:    symbols.DefaultPrelude(),
		ModulePath: "test",
		Validate:   true,
	})
	return b, bound, bag
}

func bindClean(t *testing.T, src string) (*ast.Builder, symbols.Result) {
	t.Helper()
	b, bound, bag := bindSrc(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected bind errors: %+v", bag.Items())
	}
	return b, bound
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func countCode(bag *diag.Bag, code diag.Code) int {
	n := 0
	for _, d := range bag.Items() {
		if d.Code == code {
			n++
		}
	}
	return n
}

func TestBindResolvesLocalUse(t *testing.T) {
	b, bound := bindClean(t, "let a = 1;\nlet b = a + 1;\n")
	file := b.Files.Get(bound.File)

	aSyms := bound.ItemSymbols[file.Items[0]]
	if len(aSyms) != 1 {
		t.Fatalf("first declaration introduced %d symbols, want 1", len(aSyms))
	}
	decl, _ := b.Items.Var(file.Items[1])
	bin, ok := b.Exprs.Binary(decl.Init)
	if !ok {
		t.Fatal("second initializer is not a binary expression")
	}
	got, ok := bound.ExprSymbols[bin.Left]
	if !ok {
		t.Fatal("use of a did not bind")
	}
	if got != aSyms[0] {
		t.Fatalf("use of a bound to symbol %d, want %d", got, aSyms[0])
	}
	sym := bound.Table.Symbols.Get(got)
	if sym.Kind != symbols.SymbolLet || sym.IsPending() {
		t.Fatalf("symbol kind=%v pending=%v after binding", sym.Kind, sym.IsPending())
	}
}

func TestBindDuplicateInSameScope(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"let let", "let x = 1;\nlet x = 2;\n"},
		{"function let", "function f() {}\nlet f = 1;\n"},
		{"param param", "function g(a: number, a: string) {}\n"},
		{"param and body let", "function h(x: number) { let x = 1; }\n"},
		{"type alias twice", "type T = number;\ntype T = string;\n"},
		{"import collides", `import { a } from "./m";` + "\nlet a = 1;\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, bag := bindSrc(t, tt.src)
			if !hasCode(bag, diag.SemaDuplicateDecl) {
				t.Fatalf("expected SemaDuplicateDecl, got %+v", bag.Items())
			}
		})
	}
}

func TestBindDistinctScopesAllowReuse(t *testing.T) {
	bindClean(t, `
let x = 1;
{
	var y = 0;
}
function f(a: number) { let b = a; }
function g(a: string) { let b = a; }
`)
}

func TestBindUnresolvedName(t *testing.T) {
	b, bound, bag := bindSrc(t, "let x = missing;\n")
	if !hasCode(bag, diag.SemaUnresolvedName) {
		t.Fatalf("expected SemaUnresolvedName, got %+v", bag.Items())
	}
	// The bad use still binds, to the shared error symbol.
	file := b.Files.Get(bound.File)
	decl, _ := b.Items.Var(file.Items[0])
	sym, ok := bound.ExprSymbols[decl.Init]
	if !ok || sym != bound.Table.ErrorSymbol() {
		t.Fatal("unresolved use did not bind to the error symbol")
	}
}

func TestBindHoisting(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"function before decl", "f();\nfunction f() {}\n"},
		{"var assigned before decl", "function f() { x = 1; var x; }\nf();\n"},
		{"var hoists out of if", "function f(c: boolean) { if (c) { var v = 1; } v = 2; }\n"},
		{"var hoists out of for-of", "function f(xs: number[]) { for (var x of xs) {} x = 0; }\n"},
		{"nested function hoists in block", "function outer() { inner(); function inner() {} }\n"},
		{"type used before decl", "let x: Late = 1;\ntype Late = number;\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bindClean(t, tt.src)
		})
	}
}

func TestBindUseBeforeDecl(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"read before let", "let y = x;\nlet x = 1;\n"},
		{"self reference", "let a = a;\n"},
		{"const in own initializer", "const c = c + 1;\n"},
		{"block scoped read", "{ let q = p; let p = 1; }\n"},
		{"for-of iterates own binding", "for (const v of v) {}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, bag := bindSrc(t, tt.src)
			if !hasCode(bag, diag.SemaUseBeforeDecl) {
				t.Fatalf("expected SemaUseBeforeDecl, got %+v", bag.Items())
			}
		})
	}
}

func TestBindDeferredReadIsNotUseBeforeDecl(t *testing.T) {
	// A read inside a nested function may run after the declaration.
	_, _, bag := bindSrc(t, `
function f() { return later; }
let later = 1;
const g = () => later2;
const later2 = 2;
`)
	if hasCode(bag, diag.SemaUseBeforeDecl) {
		t.Fatalf("deferred reads flagged: %+v", bag.Items())
	}
}

func TestBindBlockScopeDoesNotLeak(t *testing.T) {
	_, _, bag := bindSrc(t, "{ let inner = 1; }\nlet x = inner;\n")
	if !hasCode(bag, diag.SemaUnresolvedName) {
		t.Fatalf("expected SemaUnresolvedName, got %+v", bag.Items())
	}
}

func TestBindForHeaderScope(t *testing.T) {
	_, _, bag := bindSrc(t, `
function f(xs: number[]) {
	for (let i = 0; i < 2; i = i + 1) {}
	i = 3;
}
`)
	if !hasCode(bag, diag.SemaUnresolvedName) {
		t.Fatalf("loop variable leaked: %+v", bag.Items())
	}
}

func TestBindAssignToConst(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"plain assign", "const c = 1;\nc = 2;\n"},
		{"compound assign", "const c = 1;\nc += 2;\n"},
		{"parenthesized target", "const c = 1;\n(c) = 2;\n"},
		{"for-of target", "const c = 1;\nfor (c of [1, 2]) {}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, bag := bindSrc(t, tt.src)
			if !hasCode(bag, diag.SemaAssignToConst) {
				t.Fatalf("expected SemaAssignToConst, got %+v", bag.Items())
			}
		})
	}
}

func TestBindConstMemberWriteAllowed(t *testing.T) {
	// Only the binding is frozen, not the object behind it.
	_, _, bag := bindSrc(t, "const o = { a: 1 };\no.a = 2;\n")
	if hasCode(bag, diag.SemaAssignToConst) {
		t.Fatalf("member write through const flagged: %+v", bag.Items())
	}
}

func TestBindImports(t *testing.T) {
	b, bound := bindClean(t, `import { a, b as c } from "./m";
import * as ns from "./n";
import "./effects";
let x = a + c;
let y = ns;
`)
	if len(bound.Imports) != 3 {
		t.Fatalf("imports = %d, want 3", len(bound.Imports))
	}
	if bound.Imports[0].Module != "./m" || bound.Imports[1].Module != "./n" || bound.Imports[2].Module != "./effects" {
		t.Fatalf("import modules = %+v", bound.Imports)
	}

	file := b.Files.Get(bound.File)
	named := bound.ItemSymbols[file.Items[0]]
	if len(named) != 2 {
		t.Fatalf("named import bound %d symbols, want 2", len(named))
	}
	sym := bound.Table.Symbols.Get(named[1])
	if sym.Kind != symbols.SymbolImport {
		t.Fatalf("import symbol kind = %v", sym.Kind)
	}
	if bound.Table.Strings.MustLookup(sym.Name) != "c" || bound.Table.Strings.MustLookup(sym.Imported) != "b" {
		t.Fatal("alias import kept wrong names")
	}
	if bound.Table.Strings.MustLookup(sym.Module) != "./m" {
		t.Fatal("import symbol lost its module")
	}

	star := bound.ItemSymbols[file.Items[1]]
	if len(star) != 1 {
		t.Fatalf("namespace import bound %d symbols, want 1", len(star))
	}
	nsSym := bound.Table.Symbols.Get(star[0])
	if nsSym.Flags&symbols.SymbolFlagNamespace == 0 {
		t.Fatal("namespace import not flagged")
	}
	if nsSym.Imported != source.NoStringID {
		t.Fatal("namespace import should not record a member name")
	}
}

func TestBindAssignToImport(t *testing.T) {
	_, _, bag := bindSrc(t, `import { a } from "./m";`+"\na = 1;\n")
	if !hasCode(bag, diag.SemaAssignToImport) {
		t.Fatalf("expected SemaAssignToImport, got %+v", bag.Items())
	}
}

func TestBindExportSurface(t *testing.T) {
	_, bound := bindClean(t, `export const x = 1;
const y = 2;
function helper() {}
export { y, helper as run };
export type Pair = { a: number; b: number };
`)
	ex := bound.Exports
	if ex.Len() != 4 {
		t.Fatalf("exports = %d, want 4", ex.Len())
	}
	wantOrder := []string{"x", "y", "run", "Pair"}
	for i, name := range wantOrder {
		if ex.Order[i] != name {
			t.Fatalf("export order = %v, want %v", ex.Order, wantOrder)
		}
	}
	run, ok := ex.Lookup("run")
	if !ok || run.Kind != symbols.SymbolFunction {
		t.Fatal("aliased export lost its symbol kind")
	}
	pair, ok := ex.Lookup("Pair")
	if !ok || pair.Kind != symbols.SymbolTypeAlias {
		t.Fatal("type export missing")
	}
	if _, ok := ex.Lookup("helper"); ok {
		t.Fatal("alias leaked the local name")
	}
	sym := bound.Table.Symbols.Get(run.Sym)
	if !sym.IsExported() {
		t.Fatal("export list did not mark the symbol exported")
	}
}

func TestBindExportListBeforeDecl(t *testing.T) {
	_, bound := bindClean(t, "export { late };\nconst late = 1;\n")
	if _, ok := bound.Exports.Lookup("late"); !ok {
		t.Fatal("forward export list entry missing")
	}
}

func TestBindUnknownExport(t *testing.T) {
	_, _, bag := bindSrc(t, "export { ghost };\n")
	if !hasCode(bag, diag.SemaUnknownExport) {
		t.Fatalf("expected SemaUnknownExport, got %+v", bag.Items())
	}
}

func TestBindDuplicateExport(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"modifier then list", "export const d = 1;\nexport { d };\n"},
		{"two lists", "const d = 1;\nexport { d };\nexport { d };\n"},
		{"alias collision", "const a = 1;\nexport const b = 2;\nexport { a as b };\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, bag := bindSrc(t, tt.src)
			if !hasCode(bag, diag.SemaDuplicateExport) {
				t.Fatalf("expected SemaDuplicateExport, got %+v", bag.Items())
			}
		})
	}
}

func TestBindTypeReferences(t *testing.T) {
	b, bound := bindClean(t, `type ID = number;
interface Shape { area(): number; }
let x: ID = 1;
let s: Shape | null = null;
let xs: Array<ID> = [];
`)
	file := b.Files.Get(bound.File)
	idSym := bound.ItemSymbols[file.Items[0]][0]

	decl, _ := b.Items.Var(file.Items[2])
	got, ok := bound.TypeSymbols[decl.Type]
	if !ok || got != idSym {
		t.Fatal("annotation did not bind to the alias symbol")
	}

	// Builtins like Array and number resolve by spelling and stay
	// unbound.
	xsDecl, _ := b.Items.Var(file.Items[4])
	if _, ok := bound.TypeSymbols[xsDecl.Type]; ok {
		t.Fatal("builtin Array should not bind to a symbol")
	}
	ref, _ := b.Types.Name(xsDecl.Type)
	if arg, ok := bound.TypeSymbols[ref.Args[0]]; !ok || arg != idSym {
		t.Fatal("type argument did not bind to the alias symbol")
	}
}

func TestBindUnknownTypeName(t *testing.T) {
	_, _, bag := bindSrc(t, "let x: Missing = 1;\n")
	if !hasCode(bag, diag.SemaUnknownTypeName) {
		t.Fatalf("expected SemaUnknownTypeName, got %+v", bag.Items())
	}
}

func TestBindValueUsedAsType(t *testing.T) {
	_, _, bag := bindSrc(t, "const v = 1;\nlet x: v = 2;\n")
	if !hasCode(bag, diag.SemaValueUsedAsType) {
		t.Fatalf("expected SemaValueUsedAsType, got %+v", bag.Items())
	}
}

func TestBindTypeUsedAsValue(t *testing.T) {
	_, _, bag := bindSrc(t, "type T = number;\nlet x = T;\n")
	if !hasCode(bag, diag.SemaTypeUsedAsValue) {
		t.Fatalf("expected SemaTypeUsedAsValue, got %+v", bag.Items())
	}
}

func TestBindTypeParams(t *testing.T) {
	b, bound := bindClean(t, `interface Base { size: number; }
function pick<T extends Base, U extends T>(a: T, b: U): T { return a; }
type Box<T> = { value: T };
interface Pairing<A, B> extends Base { first: A; second: B; }
`)
	if len(bound.TypeParamSymbols) != 5 {
		t.Fatalf("type param symbols = %d, want 5", len(bound.TypeParamSymbols))
	}
	file := b.Files.Get(bound.File)
	fnID, _ := b.Items.Function(file.Items[1])
	fn := b.Funcs.Get(fnID)
	tSym := bound.TypeParamSymbols[fn.TypeParams[0]]
	ret, ok := bound.TypeSymbols[fn.Return]
	if !ok || ret != tSym {
		t.Fatal("return annotation did not bind to the type parameter")
	}
	u := b.Funcs.TypeParam(fn.TypeParams[1])
	if cons, ok := bound.TypeSymbols[u.Constraint]; !ok || cons != tSym {
		t.Fatal("constraint of U did not bind to T")
	}
}

func TestBindTypeParamDoesNotLeak(t *testing.T) {
	_, _, bag := bindSrc(t, "function id<T>(x: T): T { return x; }\nlet y: T = 1;\n")
	if !hasCode(bag, diag.SemaUnknownTypeName) {
		t.Fatalf("expected SemaUnknownTypeName for escaped T, got %+v", bag.Items())
	}
}

func TestBindShadowWarning(t *testing.T) {
	_, _, bag := bindSrc(t, "function f() { let x = 1; { let x = 2; } }\n")
	if bag.HasErrors() {
		t.Fatalf("shadowing should only warn: %+v", bag.Items())
	}
	if countCode(bag, diag.SemaShadowedDecl) != 1 {
		t.Fatalf("expected one SemaShadowedDecl, got %+v", bag.Items())
	}
}

func TestBindNoShadowWarningAcrossFunctions(t *testing.T) {
	_, _, bag := bindSrc(t, "let x = 1;\nfunction f() { let x = 2; return x; }\n")
	if hasCode(bag, diag.SemaShadowedDecl) {
		t.Fatalf("cross-function shadowing flagged: %+v", bag.Items())
	}
}

func TestBindPrelude(t *testing.T) {
	_, bound := bindClean(t, `console.log("hi");
let n = Math.floor(1.5);
let big = parseInt("42");
`)
	if len(bound.ExprSymbols) == 0 {
		t.Fatal("no uses bound")
	}
	// Redeclaring a global at module scope is allowed; the local wins.
	_, _, bag := bindSrc(t, "let console = 1;\nlet x = console + 1;\n")
	if bag.HasErrors() {
		t.Fatalf("module-level redeclaration of a global flagged: %+v", bag.Items())
	}
}

func TestBindFunctionExpressionName(t *testing.T) {
	_, _, bag := bindSrc(t, "const f = function rec(n: number): number { return rec(n); };\nrec(1);\n")
	// The inner use resolves, the outer one does not.
	if countCode(bag, diag.SemaUnresolvedName) != 1 {
		t.Fatalf("expected exactly one SemaUnresolvedName, got %+v", bag.Items())
	}
}

func TestBindArrowParams(t *testing.T) {
	b, bound := bindClean(t, "const add = (a: number, b: number) => a + b;\n")
	file := b.Files.Get(bound.File)
	decl, _ := b.Items.Var(file.Items[0])
	fnID, _ := b.Exprs.Func(decl.Init)
	fn := b.Funcs.Get(fnID)
	for _, p := range fn.Params {
		if _, ok := bound.ParamSymbols[p]; !ok {
			t.Fatal("arrow parameter did not bind")
		}
	}
	bin, _ := b.Exprs.Binary(fn.ExprBody)
	if bound.ExprSymbols[bin.Left] != bound.ParamSymbols[fn.Params[0]] {
		t.Fatal("arrow body use did not bind to its parameter")
	}
}

func TestBindModuleRootRecorded(t *testing.T) {
	b, bound := bindClean(t, "let x = 1;\n")
	file := b.Files.Get(bound.File)
	root := bound.Table.ModuleRoot(file.Span.File)
	if root != bound.ModuleScope || !root.IsValid() {
		t.Fatal("module root not recorded in the table")
	}
	scope := bound.Table.Scopes.Get(root)
	if scope.Kind != symbols.ScopeModule {
		t.Fatalf("module root kind = %v", scope.Kind)
	}
	parent := bound.Table.Scopes.Get(scope.Parent)
	if parent == nil || parent.Kind != symbols.ScopeGlobal {
		t.Fatal("module scope does not chain to the global root")
	}
}
