package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"riptide/internal/diag"
	"riptide/internal/emit"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestCheckSourceCleanFile(t *testing.T) {
	res, err := CheckSource("main.ts", []byte("let x: number = 1;\nlet y = x + 2;\n"), CheckOptions{MaxDiagnostics: 64})
	if err != nil {
		t.Fatal(err)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", res.Bag.Items())
	}
	if len(res.Sema.ExprTypes) == 0 {
		t.Fatal("checker recorded no expression types")
	}
}

func TestCheckSourceReportsTypeError(t *testing.T) {
	res, err := CheckSource("main.ts", []byte("let x: number = \"s\";\n"), CheckOptions{MaxDiagnostics: 64})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Bag.HasErrors() {
		t.Fatal("expected an assignability diagnostic")
	}
}

func TestCheckProjectDependencyOrder(t *testing.T) {
	root := writeProject(t, map[string]string{
		"util.ts": "export function double(n: number): number { return n * 2; }\n",
		"app.ts":  "import { double } from \"./util\";\nlet bad: string = double(2);\n",
	})

	res, err := CheckProject(context.Background(), ProjectOptions{Root: root, MaxDiagnostics: 64})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Modules) != 2 {
		t.Fatalf("got %d modules, want 2", len(res.Modules))
	}

	byPath := map[string]ModuleResult{}
	for _, mod := range res.Modules {
		byPath[mod.Meta.Path] = mod
	}
	if byPath["util"].Bag.HasErrors() {
		t.Errorf("util should be clean: %+v", byPath["util"].Bag.Items())
	}
	// the imported signature flowed across the module boundary
	app := byPath["app"]
	if !app.Bag.HasErrors() {
		t.Fatal("app should report assigning number to string")
	}
	found := false
	for _, d := range app.Bag.Items() {
		if d.Severity == diag.SevError && strings.Contains(d.Message, "string") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a mismatch naming string: %+v", app.Bag.Items())
	}
}

func TestCheckProjectCycleWithoutTypeDependenceIsClean(t *testing.T) {
	root := writeProject(t, map[string]string{
		"a.ts": "import { fb } from \"./b\";\nexport function fa(): number { return 1; }\nlet ua = fb;\n",
		"b.ts": "import { fa } from \"./a\";\nexport function fb(): number { return 2; }\nlet ub = fa;\n",
	})

	res, err := CheckProject(context.Background(), ProjectOptions{Root: root, MaxDiagnostics: 64})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Cyclic {
		t.Fatal("cycle was not detected by the scheduler")
	}
	for _, mod := range res.Modules {
		if mod.Bag.HasErrors() {
			t.Errorf("module %s should check cleanly: %+v", mod.Meta.Path, mod.Bag.Items())
		}
		if !mod.Deferred {
			t.Errorf("module %s should be scheduled through the cycle batch", mod.Meta.Path)
		}
	}
}

func TestCheckProjectMissingImport(t *testing.T) {
	root := writeProject(t, map[string]string{
		"app.ts": "import { x } from \"./nowhere\";\nlet y = 1;\n",
	})

	res, err := CheckProject(context.Background(), ProjectOptions{Root: root, MaxDiagnostics: 64})
	if err != nil {
		t.Fatal(err)
	}
	bag := res.Modules[0].Bag
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.ProjMissingModule {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a missing-module diagnostic: %+v", bag.Items())
	}
}

func TestDiskCacheHitSkipsRecheck(t *testing.T) {
	root := writeProject(t, map[string]string{
		"util.ts": "export const answer: number = 42;\n",
	})
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}

	opts := ProjectOptions{Root: root, MaxDiagnostics: 64, Cache: cache}
	first, err := CheckProject(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Modules[0].CacheHit {
		t.Fatal("first run must not hit the cache")
	}

	second, err := CheckProject(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Modules[0].CacheHit {
		t.Fatal("second run should hit the cache")
	}
	exp := second.Modules[0].Exports
	if exp == nil || len(exp.Entries) != 1 || exp.Entries[0].Name != "answer" {
		t.Fatalf("cached exports lost: %+v", exp)
	}
}

func TestEmitProjectWritesOutput(t *testing.T) {
	root := writeProject(t, map[string]string{
		"lib/math.ts": "export function id(x: number): number { return x; }\n",
	})

	res, err := CheckProject(context.Background(), ProjectOptions{Root: root, MaxDiagnostics: 64})
	if err != nil {
		t.Fatal(err)
	}

	outDir := filepath.Join(root, "dist")
	outcome, err := EmitProject(res, EmitOptions{
		OutDir:      outDir,
		Target:      emit.DialectESNext,
		SourceMap:   true,
		EmitOnError: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(outcome.Written) != 2 {
		t.Fatalf("written=%v, want js and map", outcome.Written)
	}

	js, err := os.ReadFile(filepath.Join(outDir, "lib", "math.js"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(js), ": number") {
		t.Errorf("annotations survived emission:\n%s", js)
	}
}

func TestEmitProjectSkipsSyntaxErrors(t *testing.T) {
	root := writeProject(t, map[string]string{
		"bad.ts": "let = ;\n",
	})

	res, err := CheckProject(context.Background(), ProjectOptions{Root: root, MaxDiagnostics: 64})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Modules[0].Bag.HasErrors() {
		t.Fatal("expected syntax diagnostics")
	}

	outcome, err := EmitProject(res, EmitOptions{
		OutDir:      filepath.Join(root, "dist"),
		EmitOnError: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(outcome.Written) != 0 || outcome.Skipped != 1 {
		t.Fatalf("outcome=%+v, want only a skip", outcome)
	}
	found := false
	for _, d := range res.Modules[0].Bag.Items() {
		if d.Code == diag.EmitSkippedSyntaxError {
			found = true
		}
	}
	if !found {
		t.Error("missing emit-skipped diagnostic")
	}
}

func TestTokenizeAndParseEntryPoints(t *testing.T) {
	root := writeProject(t, map[string]string{
		"one.ts": "let n: number = 3;\n",
	})
	path := filepath.Join(root, "one.ts")

	toks, err := Tokenize(path, 64)
	if err != nil {
		t.Fatal(err)
	}
	if len(toks.Tokens) == 0 || toks.Bag.HasErrors() {
		t.Fatalf("tokens=%d errors=%v", len(toks.Tokens), toks.Bag.Items())
	}

	parsed, err := Parse(path, 64)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %+v", parsed.Bag.Items())
	}
	file := parsed.Builder.Files.Get(parsed.File)
	if file == nil || len(file.Items) != 1 {
		t.Fatal("parse produced no items")
	}
}
