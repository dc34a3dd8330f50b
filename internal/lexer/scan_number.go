package lexer

import (
	"riptide/internal/diag"
	"riptide/internal/token"
)

// scanNumber handles 0, 123, 0b..., 0o..., 0x..., 1.5, .5, 1., 1e-3
// and numeric separators. Malformed forms report and produce an
// Invalid token covering what was consumed.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	// ".digits" form; the caller checked a digit follows.
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
		return lx.finishNumberExponent(start)
	}

	if lx.cursor.Peek() == '0' {
		lx.cursor.Bump()
		switch lx.cursor.Peek() {
		case 'b', 'B':
			lx.cursor.Bump()
			if !lx.scanDigits(func(b byte) bool { return b == '0' || b == '1' }) {
				return lx.badNumber(start, "expected binary digits after 0b")
			}
			return lx.emitNumber(start)
		case 'o', 'O':
			lx.cursor.Bump()
			if !lx.scanDigits(func(b byte) bool { return b >= '0' && b <= '7' }) {
				return lx.badNumber(start, "expected octal digits after 0o")
			}
			return lx.emitNumber(start)
		case 'x', 'X':
			lx.cursor.Bump()
			if !lx.scanDigits(isHex) {
				return lx.badNumber(start, "expected hex digits after 0x")
			}
			return lx.emitNumber(start)
		}
	}

	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}

	// Fraction. "1." with no digits after the dot is still a number.
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && b1 == '.' {
		// "1..." is a number followed by a spread.
		return lx.finishNumberExponent(start)
	}
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	}

	return lx.finishNumberExponent(start)
}

func (lx *Lexer) finishNumberExponent(start Mark) token.Token {
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			return lx.badNumber(start, "expected digits in exponent")
		}
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	}
	return lx.emitNumber(start)
}

func (lx *Lexer) scanDigits(valid func(byte) bool) bool {
	seen := false
	for {
		b := lx.cursor.Peek()
		if valid(b) {
			seen = true
			lx.cursor.Bump()
			continue
		}
		if b == '_' {
			lx.cursor.Bump()
			continue
		}
		break
	}
	return seen
}

func (lx *Lexer) emitNumber(start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.NumberLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) badNumber(start Mark, msg string) token.Token {
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexBadNumber, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
