package sema_test

import (
	"strings"
	"testing"

	"riptide/internal/diag"
)

func TestStrictImplicitAnySuggestsAnnotation(t *testing.T) {
	_, _, _, bag := checkSrc(t, "function f(a) { return a; }\n", true)

	var found diag.Diagnostic
	ok := false
	for _, d := range bag.Items() {
		if d.Code == diag.SemaImplicitAny {
			found = d
			ok = true
			break
		}
	}
	if !ok {
		t.Fatalf("expected SemaImplicitAny, got %v", bag.Items())
	}
	if len(found.Fixes) != 1 {
		t.Fatalf("fixes = %d, want 1: %+v", len(found.Fixes), found.Fixes)
	}
	f := found.Fixes[0]
	if !strings.Contains(f.Title, ": any") {
		t.Fatalf("fix title = %q", f.Title)
	}
	if len(f.Edits) != 1 || f.Edits[0].NewText != ": any" {
		t.Fatalf("edit = %+v, want insert \": any\"", f.Edits)
	}
	// insertion right after the parameter name
	if f.Edits[0].Span.Start != found.Primary.End || !f.Edits[0].Span.Empty() {
		t.Fatalf("edit span = %v, want zero-width at %d", f.Edits[0].Span, found.Primary.End)
	}
}

func TestStrictOptionalImplicitAnyHasNoFix(t *testing.T) {
	_, _, _, bag := checkSrc(t, "function f(a?) { return a; }\n", true)

	for _, d := range bag.Items() {
		if d.Code == diag.SemaImplicitAny && len(d.Fixes) != 0 {
			t.Fatalf("optional parameter should not get the annotation fix: %+v", d.Fixes)
		}
	}
}
