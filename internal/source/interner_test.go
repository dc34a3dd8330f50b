package source

import "testing"

func TestInternerDeduplicates(t *testing.T) {
	in := NewInterner()

	a := in.Intern("foo")
	b := in.Intern("foo")
	c := in.Intern("bar")

	if a != b {
		t.Fatalf("same text interned to different IDs: %d vs %d", a, b)
	}
	if a == c {
		t.Fatalf("different text interned to same ID")
	}
	if a == NoStringID || c == NoStringID {
		t.Fatalf("real strings must not get the zero ID")
	}
}

func TestInternerEmptyStringIsZero(t *testing.T) {
	in := NewInterner()
	if got := in.Intern(""); got != NoStringID {
		t.Fatalf("empty string: got %d, want %d", got, NoStringID)
	}
	if in.Len() != 1 {
		t.Fatalf("fresh interner length: got %d, want 1", in.Len())
	}
}

func TestInternerLookup(t *testing.T) {
	in := NewInterner()
	id := in.InternBytes([]byte("ident"))

	got, ok := in.Lookup(id)
	if !ok || got != "ident" {
		t.Fatalf("lookup: got %q ok=%v", got, ok)
	}
	if _, ok := in.Lookup(StringID(999)); ok {
		t.Fatalf("out-of-range lookup must fail")
	}
	if in.MustLookup(id) != "ident" {
		t.Fatalf("MustLookup mismatch")
	}
}

func TestInternerSnapshot(t *testing.T) {
	in := NewInterner()
	in.Intern("x")
	in.Intern("y")

	snap := in.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("snapshot length: got %d, want 3", len(snap))
	}
	if snap[0] != "" || snap[1] != "x" || snap[2] != "y" {
		t.Fatalf("snapshot contents: %v", snap)
	}
}
