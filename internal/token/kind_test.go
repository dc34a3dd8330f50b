package token_test

import (
	"testing"

	"riptide/internal/source"
	"riptide/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{
		token.NumberLit, token.StringLit, token.TemplateLit,
		token.KwTrue, token.KwFalse, token.KwNull, token.KwUndefined,
	}
	for _, k := range lits {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwLet, token.Plus, token.LParen}
	for _, k := range non {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestIsKeyword(t *testing.T) {
	kws := []token.Kind{
		token.KwLet, token.KwConst, token.KwVar, token.KwFunction,
		token.KwInterface, token.KwType, token.KwImport, token.KwExport,
		token.KwTypeof, token.KwOf,
	}
	for _, k := range kws {
		if !tok(k).IsKeyword() {
			t.Fatalf("%v should be keyword", k)
		}
	}
	if tok(token.Ident).IsKeyword() {
		t.Fatalf("identifier must not be keyword")
	}
}

func TestIsAssignOp(t *testing.T) {
	ops := []token.Kind{
		token.Assign, token.PlusAssign, token.MinusAssign,
		token.StarAssign, token.SlashAssign, token.PercentAssign,
	}
	for _, k := range ops {
		if !tok(k).IsAssignOp() {
			t.Fatalf("%v should be assignment operator", k)
		}
	}
	if tok(token.EqEq).IsAssignOp() || tok(token.FatArrow).IsAssignOp() {
		t.Fatalf("comparison and arrow are not assignments")
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind token.Kind
		want string
	}{
		{token.FatArrow, "=>"},
		{token.EqEqEq, "==="},
		{token.KwInterface, "interface"},
		{token.Ident, "identifier"},
		{token.EOF, "EOF"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String(%d): got %q, want %q", tt.kind, got, tt.want)
		}
	}
}
