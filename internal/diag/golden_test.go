package diag

import (
	"testing"

	"riptide/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/src/sample.ts", []byte("a\nb\n"), 0)
	vendored := fs.Add("/workspace/node_modules/dep/index.ts", []byte("x\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: vendored, Start: 0, End: 0}, Msg: "skip me"},
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     SemaShadowedDecl,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
	}

	expected := "error SYN2001 src/sample.ts:1:1 first line second\n" +
		"note SYN2001 src/sample.ts:2:1 note line\n" +
		"warning SEM3005 src/sample.ts:2:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatShortDiagnosticsKeepsVendoredPaths(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")
	vendored := fs.Add("/workspace/node_modules/dep/index.ts", []byte("x\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     SemaTypeMismatch,
			Message:  "bad",
			Primary:  source.Span{File: vendored, Start: 0, End: 1},
		},
	}

	got := FormatShortDiagnostics(diags, fs, false)
	if got == "" {
		t.Fatalf("short format should include vendored paths")
	}
}

func TestFormatGoldenDiagnosticsEmpty(t *testing.T) {
	fs := source.NewFileSet()
	if got := FormatGoldenDiagnostics(nil, fs, true); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}
