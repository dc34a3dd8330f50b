package sema_test

import (
	"strings"
	"testing"

	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/lexer"
	"riptide/internal/parser"
	"riptide/internal/sema"
	"riptide/internal/source"
	"riptide/internal/symbols"
	"riptide/internal/types"
)

// checkSrc runs lexing, parsing, binding, and type checking over one
// virtual file. Parse and bind errors abort the test; check errors stay
// in the bag for the caller to inspect.
func checkSrc(t *testing.T, src string, strict bool) (*ast.Builder, symbols.Result, sema.Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.ts", []byte(src))
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
	if bag.HasErrors() {
		t.Fatalf("unexpected bind errors: %+v", bag.Items())
	}
	out := sema.Check(b, res.File, sema.Options{
		Reporter: rep,
		Symbols:  &bound,
		Strict:   strict,
	})
	return b, bound, out, bag
}

func checkClean(t *testing.T, src string, strict bool) (*ast.Builder, symbols.Result, sema.Result) {
	t.Helper()
	b, bound, out, bag := checkSrc(t, src, strict)
	if bag.HasErrors() {
		t.Fatalf("unexpected check errors: %+v", bag.Items())
	}
	return b, bound, out
}

// symbolNamed finds the symbol for a source-declared name. Prelude
// symbols bind first, so the last match is the one the test declared.
func symbolNamed(t *testing.T, b *ast.Builder, bound *symbols.Result, name string) symbols.SymbolID {
	t.Helper()
	found := symbols.NoSymbolID
	for i, sym := range bound.Table.Symbols.Data() {
		if b.Text(sym.Name) == name {
			found = symbols.SymbolID(i + 1)
		}
	}
	if !found.IsValid() {
		t.Fatalf("no symbol named %q", name)
	}
	return found
}

func bindingLabel(t *testing.T, b *ast.Builder, bound *symbols.Result, out *sema.Result, name string) string {
	t.Helper()
	symID := symbolNamed(t, b, bound, name)
	typ, ok := out.Bindings[symID]
	if !ok {
		t.Fatalf("no inferred type recorded for %q", name)
	}
	return types.Label(out.Types, typ)
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

func firstMessage(bag *diag.Bag, code diag.Code) string {
	for _, d := range bag.Items() {
		if d.Code == code {
			return d.Message
		}
	}
	return ""
}

func TestCheckInfersBindingTypes(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		binding string
		want    string
	}{
		{"let number widens", "let n = 1;\n", "n", "number"},
		{"const keeps number literal", "const n = 1;\n", "n", "1"},
		{"let string widens", `let s = "hi";` + "\n", "s", "string"},
		{"const keeps string literal", `const s = "hi";` + "\n", "s", `"hi"`},
		{"let boolean widens", "let ok = true;\n", "ok", "boolean"},
		{"const keeps true", "const ok = true;\n", "ok", "true"},
		{"array literal", "let xs = [1, 2, 3];\n", "xs", "number[]"},
		{"empty array", "let xs = [];\n", "xs", "any[]"},
		{"object literal widens fields", `let p = {a: 1, b: "x"};` + "\n", "p", "{ a: number; b: string }"},
		{"template is string", "const msg = `v${1}`;\n", "msg", "string"},
		{"annotated union", "let u: number | null = null;\n", "u", "null | number"},
		{"conditional keeps arms", "const r = true ? 1 : 2;\n", "r", "1 | 2"},
		{"nullish strips left", `let s: string | null = null;` + "\nconst t = s ?? \"d\";\n", "t", "string"},
		{"function value", `function f(a: number): string { return ""; }` + "\nconst g = f;\n", "g", "(a: number) => string"},
		{"arrow call result", "const f = (a: number) => a + 1;\nconst r = f(2);\n", "r", "number"},
		{"uninitialized is any", "let x;\n", "x", "any"},
		{"annotation beats init literal", "let n: number = 1;\n", "n", "number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, bound, out := checkClean(t, tt.src, false)
			got := bindingLabel(t, b, &bound, &out, tt.binding)
			if got != tt.want {
				t.Fatalf("%s: inferred %q, want %q", tt.binding, got, tt.want)
			}
		})
	}
}

func TestCheckObjectMismatchReportsOnce(t *testing.T) {
	_, _, _, bag := checkSrc(t, `let x: { x: number } = { x: "s" };`+"\n", false)
	if got := countCode(bag, diag.SemaTypeMismatch); got != 1 {
		t.Fatalf("object mismatch reported %d times, want 1: %+v", got, bag.Items())
	}
	msg := firstMessage(bag, diag.SemaTypeMismatch)
	if !strings.Contains(msg, "types of property 'x' are incompatible") {
		t.Fatalf("mismatch message %q does not name the culprit property", msg)
	}
}

func TestCheckMissingPropertyDetail(t *testing.T) {
	_, _, _, bag := checkSrc(t, "let p: { a: number; b: string } = { a: 1 };\n", false)
	msg := firstMessage(bag, diag.SemaTypeMismatch)
	if !strings.Contains(msg, "property 'b' is missing in type '{ a: number }'") {
		t.Fatalf("mismatch message %q does not name the missing property", msg)
	}
}

func TestCheckUnknownPropertyReportsAtAccess(t *testing.T) {
	src := "let p = {a: 1};\nlet q = p.b;\n"
	b, bound, out, bag := checkSrc(t, src, false)
	if got := countCode(bag, diag.SemaUnknownProperty); got != 1 {
		t.Fatalf("unknown property reported %d times, want 1: %+v", got, bag.Items())
	}
	var d diag.Diagnostic
	for _, it := range bag.Items() {
		if it.Code == diag.SemaUnknownProperty {
			d = it
			break
		}
	}
	if !strings.Contains(d.Message, "property 'b' does not exist on type '{ a: number }'") {
		t.Fatalf("unexpected message %q", d.Message)
	}
	wantStart := uint32(strings.Index(src, ".b") + 1)
	if d.Primary.Start != wantStart {
		t.Fatalf("diagnostic at offset %d, want %d (the property name)", d.Primary.Start, wantStart)
	}
	// The bad access poisons q with the error type instead of cascading.
	symID := symbolNamed(t, b, &bound, "q")
	if typ, ok := out.Bindings[symID]; !ok || !out.Types.IsError(typ) {
		t.Fatalf("q bound to %v, want the error type", typ)
	}
}

func TestCheckErrorTypeStopsCascades(t *testing.T) {
	src := "let p = {a: 1};\nlet q = p.b;\nlet r = q + 1;\nlet s = q.c;\n"
	_, _, _, bag := checkSrc(t, src, false)
	if got := len(bag.Items()); got != 1 {
		t.Fatalf("one mistake produced %d diagnostics: %+v", got, bag.Items())
	}
}

func TestCheckCircularInference(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
	}{
		{
			"type alias cycle",
			"type A = B;\ntype B = A;\nlet x: A = 1;\n",
			"circularly references itself",
		},
		{
			"initializer cycle",
			"var a = a + 1;\n",
			"'a' is referenced directly or indirectly in its own initializer",
		},
		{
			"unannotated recursion",
			"function f() { return f(); }\n",
			"'f' needs an explicit return type annotation because it references itself",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, bag := checkSrc(t, tt.src, false)
			if got := countCode(bag, diag.SemaCircularInference); got != 1 {
				t.Fatalf("cycle reported %d times, want 1: %+v", got, bag.Items())
			}
			msg := firstMessage(bag, diag.SemaCircularInference)
			if !strings.Contains(msg, tt.message) {
				t.Fatalf("cycle message %q missing %q", msg, tt.message)
			}
		})
	}
}

func TestCheckMutualRecursionNeedsAnnotation(t *testing.T) {
	_, _, _, bag := checkSrc(t, "function a() { return b(); }\nfunction b() { return a(); }\n", false)
	if !hasCode(bag, diag.SemaCircularInference) {
		t.Fatalf("expected SemaCircularInference, got %+v", bag.Items())
	}
}

func TestCheckAnnotatedRecursionIsFine(t *testing.T) {
	b, bound, out := checkClean(t, `
function g(n: number): number {
	if (n <= 0) {
		return 0;
	}
	return g(n - 1);
}
const r = g(3);
`, false)
	if got := bindingLabel(t, b, &bound, &out, "r"); got != "number" {
		t.Fatalf("recursive call typed %q, want number", got)
	}
}

func TestCheckCallDiagnostics(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		code    diag.Code
		message string
	}{
		{
			"too few arguments",
			"function f(a: number) {}\nf();\n",
			diag.SemaWrongArgCount,
			"expected 1 argument(s), got 0",
		},
		{
			"too many with optional",
			"function g(a: number, b?: number) {}\ng(1, 2, 3);\n",
			diag.SemaWrongArgCount,
			"expected between 1 and 2 arguments, got 3",
		},
		{
			"not callable",
			"let n = 1;\nn();\n",
			diag.SemaNotCallable,
			"type 'number' is not callable",
		},
		{
			"argument mismatch",
			`function h(a: number) {}` + "\n" + `h("s");` + "\n",
			diag.SemaTypeMismatch,
			`type '"s"' is not assignable to type 'number'`,
		},
		{
			"not constructable",
			"const n = 1;\nconst x = new n();\n",
			diag.SemaNotCallable,
			"type '1' is not constructable",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, bag := checkSrc(t, tt.src, false)
			if !hasCode(bag, tt.code) {
				t.Fatalf("expected code %v, got %+v", tt.code, bag.Items())
			}
			msg := firstMessage(bag, tt.code)
			if !strings.Contains(msg, tt.message) {
				t.Fatalf("message %q missing %q", msg, tt.message)
			}
		})
	}
}

func TestCheckOperators(t *testing.T) {
	clean := []struct {
		name    string
		src     string
		binding string
		want    string
	}{
		{"number addition", "let a = 1 + 2;\n", "a", "number"},
		{"string concat", `let s = "a" + 1;` + "\n", "s", "string"},
		{"equality crosses types", `let e = 1 === "s";` + "\n", "e", "boolean"},
		{"logical not", "let n = !0;\n", "n", "boolean"},
		{"typeof yields string", "let t = typeof {};\n", "t", "string"},
		{"comparison", "let c = 1 < 2;\n", "c", "boolean"},
	}
	for _, tt := range clean {
		t.Run(tt.name, func(t *testing.T) {
			b, bound, out := checkClean(t, tt.src, false)
			if got := bindingLabel(t, b, &bound, &out, tt.binding); got != tt.want {
				t.Fatalf("%s typed %q, want %q", tt.binding, got, tt.want)
			}
		})
	}

	bad := []struct {
		name    string
		src     string
		code    diag.Code
		message string
	}{
		{
			"arithmetic on string",
			`let c = 1 - "s";` + "\n",
			diag.SemaInvalidBinaryOperands,
			`operator '-' cannot be applied to types 'number' and '"s"'`,
		},
		{
			"relational across families",
			`let r = 1 < "s";` + "\n",
			diag.SemaInvalidBinaryOperands,
			"operator '<' cannot be applied to types",
		},
		{
			"negating a boolean",
			"let m = -true;\n",
			diag.SemaInvalidUnaryOperand,
			"operator '-' cannot be applied to type 'true'",
		},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, bag := checkSrc(t, tt.src, false)
			if !hasCode(bag, tt.code) {
				t.Fatalf("expected code %v, got %+v", tt.code, bag.Items())
			}
			msg := firstMessage(bag, tt.code)
			if !strings.Contains(msg, tt.message) {
				t.Fatalf("message %q missing %q", msg, tt.message)
			}
		})
	}
}

func TestCheckStrictNullAssignment(t *testing.T) {
	src := "let x: number = null;\n"
	_, _, _, bag := checkSrc(t, src, true)
	if !hasCode(bag, diag.SemaNullNotAllowed) {
		t.Fatalf("strict mode allowed a null assignment: %+v", bag.Items())
	}
	msg := firstMessage(bag, diag.SemaNullNotAllowed)
	if !strings.Contains(msg, "type 'null' is not assignable to type 'number'") {
		t.Fatalf("unexpected message %q", msg)
	}
	checkClean(t, src, false)
}

func TestCheckStrictImplicitAny(t *testing.T) {
	src := "function f(a) { return a; }\n"
	_, _, _, bag := checkSrc(t, src, true)
	if got := countCode(bag, diag.SemaImplicitAny); got != 1 {
		t.Fatalf("implicit any reported %d times, want 1: %+v", got, bag.Items())
	}
	msg := firstMessage(bag, diag.SemaImplicitAny)
	if !strings.Contains(msg, "parameter 'a' implicitly has an 'any' type") {
		t.Fatalf("unexpected message %q", msg)
	}
	checkClean(t, src, false)
}

func TestCheckStrictContextualParamIsNotImplicitAny(t *testing.T) {
	checkClean(t, "const g: (a: number) => number = (x) => x + 1;\n", true)
}

func TestCheckStrictNullableMemberAccess(t *testing.T) {
	src := "let o: { a: number } | null = null;\nconst x = o.a;\n"
	_, _, _, bag := checkSrc(t, src, true)
	if !hasCode(bag, diag.SemaNullNotAllowed) {
		t.Fatalf("strict mode allowed member access on a nullable: %+v", bag.Items())
	}
	msg := firstMessage(bag, diag.SemaNullNotAllowed)
	if !strings.Contains(msg, "object is possibly 'null'") {
		t.Fatalf("unexpected message %q", msg)
	}

	// Permissive mode looks the member up past the null.
	b, bound, out := checkClean(t, src, false)
	if got := bindingLabel(t, b, &bound, &out, "x"); got != "number" {
		t.Fatalf("permissive access typed %q, want number", got)
	}
}

func TestCheckOptionalChainStripsNullish(t *testing.T) {
	b, bound, out := checkClean(t, "let o: { name: string } | null = null;\nconst n = o?.name;\n", true)
	if got := bindingLabel(t, b, &bound, &out, "n"); got != "undefined | string" {
		t.Fatalf("optional chain typed %q, want undefined | string", got)
	}
}

func TestCheckReturnTypes(t *testing.T) {
	t.Run("inferred from body", func(t *testing.T) {
		b, bound, out := checkClean(t, "function add(a: number, b: number) { return a + b; }\nconst r = add(1, 2);\n", false)
		if got := bindingLabel(t, b, &bound, &out, "r"); got != "number" {
			t.Fatalf("inferred call typed %q, want number", got)
		}
	})
	t.Run("declared mismatch", func(t *testing.T) {
		_, _, _, bag := checkSrc(t, "function f(): string { return 1; }\n", false)
		msg := firstMessage(bag, diag.SemaTypeMismatch)
		if !strings.Contains(msg, "type '1' is not assignable to type 'string'") {
			t.Fatalf("unexpected message %q", msg)
		}
	})
	t.Run("bare return needs a value in strict", func(t *testing.T) {
		src := "function f(): number { return; }\n"
		_, _, _, bag := checkSrc(t, src, true)
		msg := firstMessage(bag, diag.SemaTypeMismatch)
		if !strings.Contains(msg, "a function whose declared return type is 'number' must return a value") {
			t.Fatalf("unexpected message %q", msg)
		}
		checkClean(t, src, false)
	})
	t.Run("void allows bare return", func(t *testing.T) {
		checkClean(t, "function g(): void { return; }\n", true)
	})
	t.Run("optional param flows into return", func(t *testing.T) {
		b, bound, out := checkClean(t, "function f(a: number, b?: number) { return b; }\nconst r = f(1);\n", false)
		if got := bindingLabel(t, b, &bound, &out, "r"); got != "undefined | number" {
			t.Fatalf("optional param return typed %q, want undefined | number", got)
		}
	})
}

func TestCheckForOf(t *testing.T) {
	t.Run("array element", func(t *testing.T) {
		checkClean(t, "let total = 0;\nfor (const n of [1, 2, 3]) { total = total + n; }\n", false)
	})
	t.Run("string element", func(t *testing.T) {
		checkClean(t, `for (const ch of "abc") { let s = ch + "!"; }`+"\n", false)
	})
	t.Run("number is not iterable", func(t *testing.T) {
		_, _, _, bag := checkSrc(t, "for (const x of 1) {}\n", false)
		if !hasCode(bag, diag.SemaNotIterable) {
			t.Fatalf("expected SemaNotIterable, got %+v", bag.Items())
		}
		msg := firstMessage(bag, diag.SemaNotIterable)
		if !strings.Contains(msg, "type '1' is not iterable") {
			t.Fatalf("unexpected message %q", msg)
		}
	})
}

func TestCheckPrelude(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		binding string
		want    string
	}{
		{"Math.floor", "const f = Math.floor(1.5);\n", "f", "number"},
		{"Math.PI", "const p = Math.PI;\n", "p", "number"},
		{"Math.max spread", "const m = Math.max(1, 2, 3);\n", "m", "number"},
		{"JSON.parse", `const j = JSON.parse("1");` + "\n", "j", "any"},
		{"JSON.stringify", "const s = JSON.stringify({a: 1});\n", "s", "string"},
		{"parseInt", `const i = parseInt("42");` + "\n", "i", "number"},
		{"parseInt with radix", `const i = parseInt("2a", 16);` + "\n", "i", "number"},
		{"Array.isArray", "const a = Array.isArray([]);\n", "a", "boolean"},
		{"Object.keys", "const k = Object.keys({a: 1});\n", "k", "string[]"},
		{"String conversion", "const s = String(1);\n", "s", "string"},
		{"NaN", "const n = NaN;\n", "n", "number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, bound, out := checkClean(t, tt.src, true)
			if got := bindingLabel(t, b, &bound, &out, tt.binding); got != tt.want {
				t.Fatalf("%s typed %q, want %q", tt.binding, got, tt.want)
			}
		})
	}
	t.Run("console.log takes anything", func(t *testing.T) {
		checkClean(t, `console.log("a", 1, true);`+"\n", true)
	})
}

func TestCheckIndexing(t *testing.T) {
	clean := []struct {
		name    string
		src     string
		binding string
		want    string
	}{
		{"array by number", "const xs = [1, 2];\nconst i = xs[0];\n", "i", "number"},
		{"string by number", `const s = "ab";` + "\nconst c = s[0];\n", "c", "string"},
		{"object by string literal", "const o = {a: 1};\nconst v = o[\"a\"];\n", "v", "number"},
	}
	for _, tt := range clean {
		t.Run(tt.name, func(t *testing.T) {
			b, bound, out := checkClean(t, tt.src, false)
			if got := bindingLabel(t, b, &bound, &out, tt.binding); got != tt.want {
				t.Fatalf("%s typed %q, want %q", tt.binding, got, tt.want)
			}
		})
	}

	bad := []struct {
		name    string
		src     string
		code    diag.Code
		message string
	}{
		{
			"object by variable",
			"const o = {a: 1};\nlet k = \"a\";\nconst v = o[k];\n",
			diag.SemaNotIndexable,
			"can only be indexed with a string literal",
		},
		{
			"array by string",
			`const xs = [1];` + "\nconst v = xs[\"0\"];\n",
			diag.SemaTypeMismatch,
			`type '"0"' is not assignable to type 'number'`,
		},
		{
			"number not indexable",
			"const n = 1;\nconst v = n[0];\n",
			diag.SemaNotIndexable,
			"type '1' is not indexable",
		},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, bag := checkSrc(t, tt.src, false)
			if !hasCode(bag, tt.code) {
				t.Fatalf("expected code %v, got %+v", tt.code, bag.Items())
			}
			msg := firstMessage(bag, tt.code)
			if !strings.Contains(msg, tt.message) {
				t.Fatalf("message %q missing %q", msg, tt.message)
			}
		})
	}
}

func TestCheckNamedTypes(t *testing.T) {
	t.Run("alias names its object", func(t *testing.T) {
		b, bound, out := checkClean(t, `
type Point = { x: number; y: number };
let p: Point = { x: 1, y: 2 };
const d = p.x;
`, false)
		if got := bindingLabel(t, b, &bound, &out, "p"); got != "Point" {
			t.Fatalf("alias binding typed %q, want Point", got)
		}
		if got := bindingLabel(t, b, &bound, &out, "d"); got != "number" {
			t.Fatalf("member read typed %q, want number", got)
		}
	})
	t.Run("interface extends", func(t *testing.T) {
		b, bound, out := checkClean(t, `
interface Base { a: number }
interface Derived extends Base { b: string }
let v: Derived = { a: 1, b: "s" };
const q = v.a;
`, false)
		if got := bindingLabel(t, b, &bound, &out, "q"); got != "number" {
			t.Fatalf("inherited member typed %q, want number", got)
		}
	})
	t.Run("interface extends non-object", func(t *testing.T) {
		_, _, _, bag := checkSrc(t, "type N = number;\ninterface D extends N { a: number }\n", false)
		msg := firstMessage(bag, diag.SemaTypeMismatch)
		if !strings.Contains(msg, "interface 'D' can only extend object types, not 'number'") {
			t.Fatalf("unexpected message %q", msg)
		}
	})
	t.Run("optional member reads with undefined", func(t *testing.T) {
		b, bound, out := checkClean(t, "type O = { a?: number };\nlet o: O = {};\nconst v = o.a;\n", false)
		if got := bindingLabel(t, b, &bound, &out, "v"); got != "undefined | number" {
			t.Fatalf("optional member typed %q, want undefined | number", got)
		}
	})
}

func TestCheckAssignments(t *testing.T) {
	t.Run("compatible", func(t *testing.T) {
		checkClean(t, "let n = 1;\nn = 2;\n", true)
	})
	t.Run("incompatible", func(t *testing.T) {
		_, _, _, bag := checkSrc(t, "let n = 1;\nn = \"s\";\n", false)
		if !hasCode(bag, diag.SemaTypeMismatch) {
			t.Fatalf("expected SemaTypeMismatch, got %+v", bag.Items())
		}
	})
	t.Run("compound string append", func(t *testing.T) {
		b, bound, out := checkClean(t, `let s = "a";`+"\ns += \"b\";\n", true)
		if got := bindingLabel(t, b, &bound, &out, "s"); got != "string" {
			t.Fatalf("s typed %q, want string", got)
		}
	})
	t.Run("compound result must flow back", func(t *testing.T) {
		_, _, _, bag := checkSrc(t, "let m = 1;\nm += \"x\";\n", false)
		if !hasCode(bag, diag.SemaTypeMismatch) {
			t.Fatalf("expected SemaTypeMismatch, got %+v", bag.Items())
		}
	})
}

func TestCheckNewOnFunction(t *testing.T) {
	b, bound, out := checkClean(t, `
function Box(): { id: number } { return { id: 1 }; }
const made = new Box();
const id = made.id;
`, false)
	if got := bindingLabel(t, b, &bound, &out, "made"); got != "{ id: number }" {
		t.Fatalf("constructed value typed %q, want the return object", got)
	}
	if got := bindingLabel(t, b, &bound, &out, "id"); got != "number" {
		t.Fatalf("member of constructed value typed %q, want number", got)
	}
}

func TestCheckExprTypesRecorded(t *testing.T) {
	b, bound, out := checkClean(t, "let a = 1 + 2;\n", false)
	file := b.Files.Get(bound.File)
	decl, ok := b.Items.Var(file.Items[0])
	if !ok {
		t.Fatal("first item is not a var declaration")
	}
	typ, ok := out.ExprTypes[decl.Init]
	if !ok {
		t.Fatal("initializer expression has no recorded type")
	}
	if got := types.Label(out.Types, typ); got != "number" {
		t.Fatalf("initializer typed %q, want number", got)
	}
}
