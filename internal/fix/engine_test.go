package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"riptide/internal/diag"
	"riptide/internal/source"
)

func writeTempSource(t *testing.T, content string) (*source.FileSet, source.FileID, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.ts")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	fs := source.NewFileSet()
	fs.SetBaseDir(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load temp file: %v", err)
	}
	return fs, id, path
}

func diagWithFix(file source.FileID, start, end uint32, f diag.Fix) diag.Diagnostic {
	d := diag.NewError(diag.SynExpectSemicolon, source.Span{File: file, Start: start, End: end}, "expected ;")
	d.Fixes = append(d.Fixes, f)
	return d
}

func TestApplyInsertsText(t *testing.T) {
	fs, id, path := writeTempSource(t, "let x = 1")

	d := diagWithFix(id, 9, 9, InsertText("insert ';'", id, 9, ";"))
	res, err := Apply(fs, []diag.Diagnostic{d}, ApplyOptions{Mode: ApplyModeOnce})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 {
		t.Fatalf("applied = %d, want 1", len(res.Applied))
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "let x = 1;" {
		t.Fatalf("content = %q, want %q", got, "let x = 1;")
	}
}

func TestApplyModeAllAppliesEveryFix(t *testing.T) {
	fs, id, path := writeTempSource(t, "let a = 1\nlet b = 2\n")

	fixes := []diag.Diagnostic{
		diagWithFix(id, 9, 9, InsertText("insert ';'", id, 9, ";")),
		diagWithFix(id, 19, 19, InsertText("insert ';'", id, 19, ";")),
	}
	res, err := Apply(fs, fixes, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 2 {
		t.Fatalf("applied = %d, want 2", len(res.Applied))
	}
	got, _ := os.ReadFile(path)
	if string(got) != "let a = 1;\nlet b = 2;\n" {
		t.Fatalf("content = %q", got)
	}
}

func TestApplyModeOnceAppliesFirstOnly(t *testing.T) {
	fs, id, path := writeTempSource(t, "let a = 1\nlet b = 2\n")

	fixes := []diag.Diagnostic{
		diagWithFix(id, 19, 19, InsertText("insert ';'", id, 19, ";")),
		diagWithFix(id, 9, 9, InsertText("insert ';'", id, 9, ";")),
	}
	res, err := Apply(fs, fixes, ApplyOptions{Mode: ApplyModeOnce})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 {
		t.Fatalf("applied = %d, want 1", len(res.Applied))
	}
	// candidates are ordered by span, so the earlier edit wins
	got, _ := os.ReadFile(path)
	if string(got) != "let a = 1;\nlet b = 2\n" {
		t.Fatalf("content = %q", got)
	}
}

func TestApplyGuardMismatchSkips(t *testing.T) {
	fs, id, path := writeTempSource(t, "let a = 1;")

	d := diagWithFix(id, 4, 5, ReplaceSpan("rename", source.Span{File: id, Start: 4, End: 5}, "b", "c"))
	res, err := Apply(fs, []diag.Diagnostic{d}, ApplyOptions{Mode: ApplyModeOnce})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
	if len(res.Skipped) != 1 {
		t.Fatalf("skipped = %d, want 1", len(res.Skipped))
	}
	got, _ := os.ReadFile(path)
	if string(got) != "let a = 1;" {
		t.Fatalf("file modified despite guard mismatch: %q", got)
	}
}

func TestApplyDryRunLeavesFileUntouched(t *testing.T) {
	fs, id, path := writeTempSource(t, "let x = 1")

	d := diagWithFix(id, 9, 9, InsertText("insert ';'", id, 9, ";"))
	res, err := Apply(fs, []diag.Diagnostic{d}, ApplyOptions{Mode: ApplyModeOnce, DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || len(res.FileChanges) != 1 {
		t.Fatalf("applied = %d, changes = %d", len(res.Applied), len(res.FileChanges))
	}
	got, _ := os.ReadFile(path)
	if string(got) != "let x = 1" {
		t.Fatalf("dry run modified the file: %q", got)
	}
}

func TestApplyRejectsVirtualFiles(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("virtual.ts", []byte("let x = 1"))

	d := diagWithFix(id, 9, 9, InsertText("insert ';'", id, 9, ";"))
	res, err := Apply(fs, []diag.Diagnostic{d}, ApplyOptions{Mode: ApplyModeOnce})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "target file is virtual" {
		t.Fatalf("skipped = %+v", res.Skipped)
	}
}

func TestApplyByID(t *testing.T) {
	fs, id, path := writeTempSource(t, "let a = 1\nlet b = 2\n")

	first := diagWithFix(id, 9, 9, InsertText("insert ';'", id, 9, ";"))
	second := diagWithFix(id, 19, 19, InsertText("insert ';'", id, 19, ";"))

	res, err := Apply(fs, []diag.Diagnostic{first, second}, ApplyOptions{
		Mode:     ApplyModeID,
		TargetID: FixID(second, 0),
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || res.Applied[0].ID != FixID(second, 0) {
		t.Fatalf("applied = %+v", res.Applied)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "let a = 1\nlet b = 2;\n" {
		t.Fatalf("content = %q", got)
	}
}

func TestApplyUnknownIDReported(t *testing.T) {
	fs, id, _ := writeTempSource(t, "let a = 1")

	d := diagWithFix(id, 9, 9, InsertText("insert ';'", id, 9, ";"))
	res, err := Apply(fs, []diag.Diagnostic{d}, ApplyOptions{Mode: ApplyModeID, TargetID: "nope"})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "fix id not found" {
		t.Fatalf("skipped = %+v", res.Skipped)
	}
}

func TestApplyConflictingFixesSkipSecond(t *testing.T) {
	fs, id, _ := writeTempSource(t, "let abc = 1;")

	span := source.Span{File: id, Start: 4, End: 7}
	first := diagWithFix(id, 4, 7, ReplaceSpan("rename to x", span, "abc", "x"))
	second := diagWithFix(id, 4, 7, ReplaceSpan("rename to y", span, "abc", "y"))

	res, err := Apply(fs, []diag.Diagnostic{first, second}, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 {
		t.Fatalf("applied = %d, want 1", len(res.Applied))
	}
	if len(res.Skipped) != 1 {
		t.Fatalf("skipped = %d, want 1", len(res.Skipped))
	}
}

func TestWrapWithProducesTwoEdits(t *testing.T) {
	span := source.Span{File: 0, Start: 4, End: 7}
	f := WrapWith("parenthesize", span, "(", ")")
	if len(f.Edits) != 2 {
		t.Fatalf("edits = %d, want 2", len(f.Edits))
	}
	if f.Edits[0].Span.Start != 4 || f.Edits[0].Span.End != 4 || f.Edits[0].NewText != "(" {
		t.Fatalf("prefix edit = %+v", f.Edits[0])
	}
	if f.Edits[1].Span.Start != 7 || f.Edits[1].Span.End != 7 || f.Edits[1].NewText != ")" {
		t.Fatalf("suffix edit = %+v", f.Edits[1])
	}
}
