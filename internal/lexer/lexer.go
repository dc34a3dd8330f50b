// Package lexer turns source bytes into tokens. Trivia (spaces,
// newlines, comments) is collected onto the following token, so the
// stream stays lossless for tooling while the parser sees only
// significant tokens.
package lexer

import (
	"riptide/internal/source"
	"riptide/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token
	hold   []token.Trivia
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next returns the next significant token with its leading trivia
// attached. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	var tok token.Token
	switch {
	case isIdentStartByte(ch):
		tok = lx.scanIdentOrKeyword()
	case ch >= utf8RuneSelf:
		tok = lx.scanIdentOrKeyword()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '.' && lx.isNumberAfterDot():
		tok = lx.scanNumber()
	case ch == '"' || ch == '\'':
		tok = lx.scanString()
	case ch == '`':
		tok = lx.scanTemplateStart()
	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.Leading = lx.hold
	lx.hold = nil
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Clone returns an independent lexer at the same position with
// reporting disabled. The parser probes ambiguous constructs (arrow
// parameter lists, explicit type arguments) on a clone and commits on
// the original, so probe tokens never double-report.
func (lx *Lexer) Clone() *Lexer {
	cp := *lx
	cp.opts.Reporter = nil
	if lx.look != nil {
		look := *lx.look
		cp.look = &look
	}
	cp.hold = nil
	return &cp
}

// SplitGt splits a buffered >>, >>> or >= into a single > plus the
// remainder, consuming and returning the >. Nested generic closers
// like Box<Box<T>> lex as >> and the type parser undoes that here.
// A plain buffered > is consumed as-is.
func (lx *Lexer) SplitGt() (token.Token, bool) {
	if lx.look == nil {
		t := lx.Peek()
		_ = t
	}
	if lx.look == nil {
		return token.Token{}, false
	}
	cur := *lx.look
	switch cur.Kind {
	case token.Gt:
		lx.look = nil
		return cur, true
	case token.Shr, token.UShr, token.GtEq:
		gt := token.Token{
			Kind:    token.Gt,
			Span:    source.Span{File: cur.Span.File, Start: cur.Span.Start, End: cur.Span.Start + 1},
			Text:    ">",
			Leading: cur.Leading,
		}
		rest := cur
		rest.Span.Start++
		rest.Text = cur.Text[1:]
		rest.Leading = nil
		switch cur.Kind {
		case token.Shr:
			rest.Kind = token.Gt
		case token.UShr:
			rest.Kind = token.Shr
		case token.GtEq:
			rest.Kind = token.Assign
		}
		lx.look = &rest
		return gt, true
	default:
		return token.Token{}, false
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}
