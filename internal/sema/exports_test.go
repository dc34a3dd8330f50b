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

// checkModule is checkSrc with a dependency surface, for multi-module
// scenarios. Each call owns a fresh interner, the way the driver runs
// one checker per file.
func checkModule(t *testing.T, src string, strict bool, deps map[string]*sema.ModuleTypes) (*ast.Builder, symbols.Result, sema.Result, *diag.Bag) {
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
		Deps:     deps,
	})
	return b, bound, out, bag
}

// exportedModule checks src on its own and packages its export surface
// the way the driver hands finished dependencies to importers.
func exportedModule(t *testing.T, src string) *sema.ModuleTypes {
	t.Helper()
	_, _, out, bag := checkModule(t, src, false, nil)
	if bag.HasErrors() {
		t.Fatalf("dependency module failed to check: %+v", bag.Items())
	}
	return sema.NewModuleTypes(out.Exports.Portable(out.Types))
}

const libSrc = `
export const version = 1;
export function greet(name: string): string { return "hi " + name; }
export type Point = { x: number; y: number };
`

func TestExportSurface(t *testing.T) {
	_, _, out, bag := checkModule(t, libSrc+"const hidden = 2;\n", false, nil)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	wantOrder := []string{"version", "greet", "Point"}
	if len(out.Exports.Order) != len(wantOrder) {
		t.Fatalf("export order %v, want %v", out.Exports.Order, wantOrder)
	}
	for i, name := range wantOrder {
		if out.Exports.Order[i] != name {
			t.Fatalf("export order %v, want %v", out.Exports.Order, wantOrder)
		}
	}

	tests := []struct {
		name   string
		isType bool
		label  string
	}{
		{"version", false, "1"},
		{"greet", false, "(name: string) => string"},
		{"Point", true, "Point"},
	}
	for _, tt := range tests {
		entry, ok := out.Exports.Lookup(tt.name)
		if !ok {
			t.Fatalf("export %q missing", tt.name)
		}
		if entry.IsType != tt.isType {
			t.Fatalf("export %q IsType=%v, want %v", tt.name, entry.IsType, tt.isType)
		}
		if got := types.Label(out.Types, entry.Type); got != tt.label {
			t.Fatalf("export %q typed %q, want %q", tt.name, got, tt.label)
		}
	}
	if _, ok := out.Exports.Lookup("hidden"); ok {
		t.Fatal("unexported binding leaked into the export surface")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	deps := map[string]*sema.ModuleTypes{"./lib": exportedModule(t, libSrc)}
	b, bound, out, bag := checkModule(t, `
import { version, greet, Point } from "./lib";
const v = version;
const g = greet("reader");
let p: Point = { x: 1, y: 2 };
const n = p.x;
`, true, deps)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	for name, want := range map[string]string{
		"v": "1",
		"g": "string",
		"p": "Point",
		"n": "number",
	} {
		if got := bindingLabel(t, b, &bound, &out, name); got != want {
			t.Fatalf("%s typed %q, want %q", name, got, want)
		}
	}
}

func TestExportGenericRoundTrip(t *testing.T) {
	pairSrc := "export type Pair<T> = { first: T; second: T };\n"

	t.Run("instantiates across modules", func(t *testing.T) {
		deps := map[string]*sema.ModuleTypes{"./pair": exportedModule(t, pairSrc)}
		b, bound, out, bag := checkModule(t, `
import { Pair } from "./pair";
let p: Pair<number> = { first: 1, second: 2 };
const f = p.first;
`, false, deps)
		if bag.HasErrors() {
			t.Fatalf("unexpected errors: %+v", bag.Items())
		}
		if got := bindingLabel(t, b, &bound, &out, "f"); got != "number" {
			t.Fatalf("imported generic member typed %q, want number", got)
		}
	})

	t.Run("checks the argument count", func(t *testing.T) {
		deps := map[string]*sema.ModuleTypes{"./pair": exportedModule(t, pairSrc)}
		_, _, _, bag := checkModule(t, `
import { Pair } from "./pair";
let p: Pair = { first: 1, second: 2 };
`, false, deps)
		msg := firstMessage(bag, diag.SemaWrongTypeArgCount)
		if !strings.Contains(msg, "generic type 'Pair' requires 1 type argument(s), got 0") {
			t.Fatalf("unexpected message %q", msg)
		}
	})

	t.Run("checks the instantiated shape", func(t *testing.T) {
		deps := map[string]*sema.ModuleTypes{"./pair": exportedModule(t, pairSrc)}
		_, _, _, bag := checkModule(t, `
import { Pair } from "./pair";
let p: Pair<number> = { first: 1, second: "s" };
`, false, deps)
		msg := firstMessage(bag, diag.SemaTypeMismatch)
		if !strings.Contains(msg, "types of property 'second' are incompatible") {
			t.Fatalf("unexpected message %q", msg)
		}
	})
}

func TestImportUnknownMemberReportsOnce(t *testing.T) {
	deps := map[string]*sema.ModuleTypes{"./lib": exportedModule(t, libSrc)}
	_, _, _, bag := checkModule(t, `
import { nope } from "./lib";
const x = nope;
const y = nope;
`, false, deps)
	if got := countCode(bag, diag.SemaUnknownModuleMember); got != 1 {
		t.Fatalf("unknown member reported %d times, want 1: %+v", got, bag.Items())
	}
	msg := firstMessage(bag, diag.SemaUnknownModuleMember)
	if !strings.Contains(msg, "module './lib' has no exported member 'nope'") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestImportNamespaceMix(t *testing.T) {
	t.Run("type used as value", func(t *testing.T) {
		deps := map[string]*sema.ModuleTypes{"./lib": exportedModule(t, libSrc)}
		_, _, _, bag := checkModule(t, `
import { Point } from "./lib";
const x = Point;
`, false, deps)
		msg := firstMessage(bag, diag.SemaTypeUsedAsValue)
		if !strings.Contains(msg, "'Point' is a type and cannot be used as a value") {
			t.Fatalf("unexpected message %q", msg)
		}
	})
	t.Run("value used as type", func(t *testing.T) {
		deps := map[string]*sema.ModuleTypes{"./lib": exportedModule(t, libSrc)}
		_, _, _, bag := checkModule(t, `
import { version } from "./lib";
let x: version = 1;
`, false, deps)
		msg := firstMessage(bag, diag.SemaValueUsedAsType)
		if !strings.Contains(msg, "'version' refers to a value but is being used as a type") {
			t.Fatalf("unexpected message %q", msg)
		}
	})
}

func TestImportModuleObject(t *testing.T) {
	t.Run("star import", func(t *testing.T) {
		deps := map[string]*sema.ModuleTypes{"./lib": exportedModule(t, libSrc)}
		b, bound, out, bag := checkModule(t, `
import * as lib from "./lib";
const v = lib.version;
const g = lib.greet("x");
`, false, deps)
		if bag.HasErrors() {
			t.Fatalf("unexpected errors: %+v", bag.Items())
		}
		if got := bindingLabel(t, b, &bound, &out, "v"); got != "1" {
			t.Fatalf("namespace member typed %q, want 1", got)
		}
		if got := bindingLabel(t, b, &bound, &out, "g"); got != "string" {
			t.Fatalf("namespace call typed %q, want string", got)
		}
	})
	t.Run("default import binds the module object", func(t *testing.T) {
		deps := map[string]*sema.ModuleTypes{"./lib": exportedModule(t, libSrc)}
		b, bound, out, bag := checkModule(t, `
import lib from "./lib";
const v = lib.version;
`, false, deps)
		if bag.HasErrors() {
			t.Fatalf("unexpected errors: %+v", bag.Items())
		}
		if got := bindingLabel(t, b, &bound, &out, "v"); got != "1" {
			t.Fatalf("default import member typed %q, want 1", got)
		}
	})
	t.Run("unknown member on the module object", func(t *testing.T) {
		deps := map[string]*sema.ModuleTypes{"./lib": exportedModule(t, libSrc)}
		_, _, _, bag := checkModule(t, `
import * as lib from "./lib";
const x = lib.missing;
`, false, deps)
		msg := firstMessage(bag, diag.SemaUnknownProperty)
		if !strings.Contains(msg, "property 'missing' does not exist on type './lib'") {
			t.Fatalf("unexpected message %q", msg)
		}
	})
}

func TestImportDeferredModuleIsAny(t *testing.T) {
	deps := map[string]*sema.ModuleTypes{"./cycle": sema.DeferredModuleTypes("./cycle")}
	b, bound, out, bag := checkModule(t, `
import { anything } from "./cycle";
const x = anything;
const y = anything.deep.chain;
const z = anything(1, 2);
`, true, deps)
	// A deferred dependency types as any, so cyclic imports check
	// without noise and settle on a later pass.
	if bag.HasErrors() {
		t.Fatalf("deferred dependency produced diagnostics: %+v", bag.Items())
	}
	for _, name := range []string{"x", "y", "z"} {
		if got := bindingLabel(t, b, &bound, &out, name); got != "any" {
			t.Fatalf("%s typed %q, want any", name, got)
		}
	}
}

func TestImportMissingModuleStaysQuiet(t *testing.T) {
	// Unresolvable specifiers are the project loader's diagnostic; the
	// checker only contains the damage.
	b, bound, out, bag := checkModule(t, `
import { ghost } from "./ghost";
const x = ghost;
`, false, nil)
	if bag.HasErrors() {
		t.Fatalf("missing module produced checker diagnostics: %+v", bag.Items())
	}
	symID := symbolNamed(t, b, &bound, "x")
	if typ, ok := out.Bindings[symID]; !ok || !out.Types.IsError(typ) {
		t.Fatalf("x bound to %v, want the error type", typ)
	}
}

func TestReExportMirrorsTheImport(t *testing.T) {
	deps := map[string]*sema.ModuleTypes{"./lib": exportedModule(t, libSrc)}
	_, _, out, bag := checkModule(t, `
import { version, Point } from "./lib";
export { version, Point };
`, false, deps)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	entry, ok := out.Exports.Lookup("version")
	if !ok || entry.IsType {
		t.Fatalf("re-exported value entry %+v", entry)
	}
	if got := types.Label(out.Types, entry.Type); got != "1" {
		t.Fatalf("re-exported value typed %q, want 1", got)
	}
	typeEntry, ok := out.Exports.Lookup("Point")
	if !ok || !typeEntry.IsType {
		t.Fatalf("re-exported type entry %+v", typeEntry)
	}
}

func TestPortableRoundTripPreservesStructure(t *testing.T) {
	// Interner identities do not survive module boundaries; structure
	// and assignability must.
	deps := map[string]*sema.ModuleTypes{"./lib": exportedModule(t, libSrc)}
	_, _, _, bag := checkModule(t, `
import { greet } from "./lib";
greet(1);
`, false, deps)
	msg := firstMessage(bag, diag.SemaTypeMismatch)
	if !strings.Contains(msg, "type '1' is not assignable to type 'string'") {
		t.Fatalf("unexpected message %q", msg)
	}
}
