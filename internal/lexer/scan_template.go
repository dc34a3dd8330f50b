package lexer

import (
	"riptide/internal/diag"
	"riptide/internal/source"
	"riptide/internal/token"
)

// scanTemplateStart scans from an opening backtick to the first ${
// hole or the closing backtick. Templates may span lines.
func (lx *Lexer) scanTemplateStart() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening backtick
	return lx.scanTemplatePart(start, true)
}

// ScanTemplateContinue resumes a template literal after an
// interpolation hole. The parser calls this instead of consuming the
// closing brace of the hole: the buffered } is rescanned as the start
// of a TemplateMiddle or TemplateTail part. Returns false when the
// next token is not }, which means the hole was never closed.
func (lx *Lexer) ScanTemplateContinue() (token.Token, bool) {
	t := lx.Peek()
	if t.Kind != token.RBrace {
		return token.Token{}, false
	}
	lx.look = nil
	lx.cursor.Reset(Mark(t.Span.Start))
	start := lx.cursor.Mark()
	lx.cursor.Bump() // closing } of the hole
	part := lx.scanTemplatePart(start, false)
	part.Leading = t.Leading
	return part, true
}

func (lx *Lexer) scanTemplatePart(start Mark, first bool) token.Token {
	emit := func(kind token.Kind, sp source.Span) token.Token {
		return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '`':
			lx.cursor.Bump()
			if first {
				return emit(token.TemplateLit, lx.cursor.SpanFrom(start))
			}
			return emit(token.TemplateTail, lx.cursor.SpanFrom(start))
		case '$':
			if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '$' && b1 == '{' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				if first {
					return emit(token.TemplateHead, lx.cursor.SpanFrom(start))
				}
				return emit(token.TemplateMiddle, lx.cursor.SpanFrom(start))
			}
			lx.cursor.Bump()
		case '\\':
			lx.scanEscape()
		default:
			lx.bumpRune()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedTemplate, sp, "unterminated template literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
