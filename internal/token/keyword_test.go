package token_test

import (
	"testing"

	"riptide/internal/token"
)

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		text string
		kind token.Kind
		ok   bool
	}{
		{"let", token.KwLet, true},
		{"const", token.KwConst, true},
		{"function", token.KwFunction, true},
		{"typeof", token.KwTypeof, true},
		{"undefined", token.KwUndefined, true},
		{"Let", token.Invalid, false},
		{"number", token.Invalid, false},
		{"string", token.Invalid, false},
		{"foo", token.Invalid, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			k, ok := token.LookupKeyword(tt.text)
			if ok != tt.ok {
				t.Fatalf("ok: got %v, want %v", ok, tt.ok)
			}
			if ok && k != tt.kind {
				t.Fatalf("kind: got %v, want %v", k, tt.kind)
			}
		})
	}
}
