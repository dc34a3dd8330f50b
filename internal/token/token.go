package token

import (
	"riptide/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, string, boolean, null,
// undefined, or template literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case NumberLit, StringLit, TemplateLit, TemplateHead, KwTrue, KwFalse, KwNull, KwUndefined:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	switch t.Kind {
	case Plus, Minus, Star, StarStar, Slash, Percent,
		Assign, PlusAssign, MinusAssign, StarAssign, SlashAssign, PercentAssign,
		EqEq, EqEqEq, Bang, BangEq, BangEqEq, Lt, LtEq, Gt, GtEq,
		Shl, Shr, UShr, Amp, Pipe, Caret, Tilde, AndAnd, OrOr,
		QuestionQuestion, Question, QuestionDot, Colon, Semicolon, Comma,
		Dot, DotDotDot, FatArrow, LParen, RParen, LBrace, RBrace, LBracket, RBracket:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwAs, KwBreak, KwConst, KwContinue, KwElse, KwExport, KwExtends,
		KwFalse, KwFor, KwFrom, KwFunction, KwIf, KwImport, KwIn, KwInterface,
		KwLet, KwNew, KwNull, KwOf, KwReturn, KwTrue, KwType, KwTypeof,
		KwUndefined, KwVar, KwWhile:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsAssignOp reports whether the token is a simple or compound assignment
// operator.
func (t Token) IsAssignOp() bool {
	switch t.Kind {
	case Assign, PlusAssign, MinusAssign, StarAssign, SlashAssign, PercentAssign:
		return true
	default:
		return false
	}
}
