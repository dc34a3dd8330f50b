package source

import (
	"testing"
)

func TestAddVirtualComputesLineIndexAndHash(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.ts", []byte("let a = 1;\nlet b = 2;\n"))

	f := fs.Get(id)
	if f.Path != "test.ts" {
		t.Fatalf("path: got %q", f.Path)
	}
	if f.Flags&FileVirtual == 0 {
		t.Fatalf("expected FileVirtual flag")
	}
	if len(f.LineIdx) != 2 {
		t.Fatalf("line index: got %d entries, want 2", len(f.LineIdx))
	}
	var zero [32]byte
	if f.Hash == zero {
		t.Fatalf("expected non-zero content hash")
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.ts", []byte("ab\ncd\nef"))

	tests := []struct {
		name string
		off  uint32
		want LineCol
	}{
		{"first byte", 0, LineCol{Line: 1, Col: 1}},
		{"before first newline", 1, LineCol{Line: 1, Col: 2}},
		{"on first newline", 2, LineCol{Line: 1, Col: 3}},
		{"start of second line", 3, LineCol{Line: 2, Col: 1}},
		{"start of third line", 6, LineCol{Line: 3, Col: 1}},
		{"last byte", 7, LineCol{Line: 3, Col: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
			if start != tt.want {
				t.Fatalf("offset %d: got %+v, want %+v", tt.off, start, tt.want)
			}
		})
	}
}

func TestResolveSingleLineFile(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("one.ts", []byte("let x = 1;"))
	start, end := fs.Resolve(Span{File: id, Start: 4, End: 5})
	if start.Line != 1 || start.Col != 5 {
		t.Fatalf("start: got %+v", start)
	}
	if end.Line != 1 || end.Col != 6 {
		t.Fatalf("end: got %+v", end)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.ts", []byte("first\nsecond\nthird"))
	f := fs.Get(id)

	tests := []struct {
		line uint32
		want string
	}{
		{0, ""},
		{1, "first"},
		{2, "second"},
		{3, "third"},
		{4, ""},
	}
	for _, tt := range tests {
		if got := f.GetLine(tt.line); got != tt.want {
			t.Errorf("GetLine(%d): got %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestNormalizeCRLF(t *testing.T) {
	got, changed := normalizeCRLF([]byte("a\r\nb\rc\r\n"))
	if !changed {
		t.Fatalf("expected change flag")
	}
	if string(got) != "a\nb\rc\n" {
		t.Fatalf("got %q", got)
	}

	same, changed := normalizeCRLF([]byte("plain"))
	if changed {
		t.Fatalf("unexpected change flag")
	}
	if string(same) != "plain" {
		t.Fatalf("got %q", same)
	}
}

func TestRemoveBOM(t *testing.T) {
	got, had := removeBOM([]byte{0xEF, 0xBB, 0xBF, 'x'})
	if !had || string(got) != "x" {
		t.Fatalf("got %q, had=%v", got, had)
	}
	got, had = removeBOM([]byte("xy"))
	if had || string(got) != "xy" {
		t.Fatalf("got %q, had=%v", got, had)
	}
}

func TestGetLatestTracksNewestVersion(t *testing.T) {
	fs := NewFileSet()
	fs.AddVirtual("mod.ts", []byte("old"))
	second := fs.AddVirtual("mod.ts", []byte("new"))

	id, ok := fs.GetLatest("mod.ts")
	if !ok || id != second {
		t.Fatalf("got id=%d ok=%v, want id=%d", id, ok, second)
	}
	f, ok := fs.GetByPath("mod.ts")
	if !ok || string(f.Content) != "new" {
		t.Fatalf("GetByPath returned stale content")
	}
}
