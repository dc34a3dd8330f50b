package diagfmt

import (
	"strings"
	"testing"

	"riptide/internal/diag"
	"riptide/internal/source"
)

func sampleBag(fs *source.FileSet) *diag.Bag {
	file := fs.AddVirtual("sample.ts", []byte("let x: number = \"hi\";\nx = 2;\n"))

	bag := diag.NewBag(16)
	bag.Add(diag.NewError(
		diag.SemaTypeMismatch,
		source.Span{File: file, Start: 16, End: 20},
		"type 'string' is not assignable to type 'number'",
	).WithNote(source.Span{File: file, Start: 7, End: 13}, "declared type here"))
	return bag
}

func TestPrettyRendersCaretContext(t *testing.T) {
	fs := source.NewFileSet()
	bag := sampleBag(fs)

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{ShowNotes: true})
	got := sb.String()

	for _, want := range []string{
		"sample.ts:1:17",
		"ERROR",
		"SEM",
		"not assignable",
		"^~~~",
		"declared type here",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("pretty output missing %q:\n%s", want, got)
		}
	}
}

func TestPrettyWidthTruncation(t *testing.T) {
	fs := source.NewFileSet()
	bag := sampleBag(fs)

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{Width: 30})

	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		if len(line) > 30 {
			t.Errorf("line exceeds width 30: %q", line)
		}
	}
}

func TestJSONOutput(t *testing.T) {
	fs := source.NewFileSet()
	bag := sampleBag(fs)

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true})

	if out.Errors != 1 || out.Warnings != 0 {
		t.Fatalf("errors=%d warnings=%d, want 1/0", out.Errors, out.Warnings)
	}
	if len(out.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(out.Diagnostics))
	}
	d := out.Diagnostics[0]
	if d.Severity != "ERROR" || d.Category != "type" {
		t.Errorf("severity=%q category=%q", d.Severity, d.Category)
	}
	if d.Location == nil || d.Location.Line != 1 || d.Location.Col != 17 {
		t.Errorf("unexpected location: %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "declared type here" {
		t.Errorf("unexpected notes: %+v", d.Notes)
	}
}

func TestJSONMaxTruncates(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("many.ts", []byte("x;\n"))

	bag := diag.NewBag(16)
	for range 5 {
		bag.Add(diag.NewError(diag.SynUnexpectedToken, source.Span{File: file, Start: 0, End: 1}, "boom"))
	}

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if len(out.Diagnostics) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(out.Diagnostics))
	}
	if out.Dropped != 3 {
		t.Fatalf("dropped=%d, want 3", out.Dropped)
	}
}

func TestPathModeFormat(t *testing.T) {
	cases := []struct {
		mode PathMode
		want string
	}{
		{PathModeAuto, "auto"},
		{PathModeAbsolute, "absolute"},
		{PathModeRelative, "relative"},
		{PathModeBasename, "basename"},
	}
	for _, tc := range cases {
		if got := tc.mode.formatMode(); got != tc.want {
			t.Errorf("formatMode(%d) = %q, want %q", tc.mode, got, tc.want)
		}
	}
}
