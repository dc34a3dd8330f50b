package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"riptide/internal/diag"
	"riptide/internal/token"
)

// scanString handles single- and double-quoted literals. Escape
// sequences are validated here so downstream code can cook the text
// without re-checking; a bad escape reports but the token stays a
// usable StringLit. A raw newline ends the literal with an error.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	quote := lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == quote {
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		if b == '\\' {
			lx.scanEscape()
			continue
		}
		if isLineBreak(b) {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		lx.bumpRune()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// scanEscape consumes a backslash sequence inside a string or template
// chunk. A backslash before a line break is a line continuation.
// Unknown or truncated sequences report LexBadEscape and scanning
// continues.
func (lx *Lexer) scanEscape() {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // backslash
	if lx.cursor.EOF() {
		lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), "escape at end of file")
		return
	}
	switch lx.cursor.Peek() {
	case 'n', 't', 'r', 'b', 'f', 'v', '0', '\\', '\'', '"', '`', '$':
		lx.cursor.Bump()
	case '\r':
		lx.cursor.Bump()
		lx.cursor.Eat('\n')
	case '\n':
		lx.cursor.Bump()
	case 'x':
		lx.cursor.Bump()
		for range 2 {
			if !isHex(lx.cursor.Peek()) {
				lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), "\\x needs two hex digits")
				return
			}
			lx.cursor.Bump()
		}
	case 'u':
		lx.cursor.Bump()
		if lx.cursor.Eat('{') {
			seen := false
			for isHex(lx.cursor.Peek()) {
				lx.cursor.Bump()
				seen = true
			}
			if !seen || !lx.cursor.Eat('}') {
				lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), "\\u{...} needs hex digits and a closing brace")
			}
		} else {
			for range 4 {
				if !isHex(lx.cursor.Peek()) {
					lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), "\\u needs four hex digits")
					return
				}
				lx.cursor.Bump()
			}
		}
	default:
		r, _ := lx.peekRune()
		lx.bumpRune()
		lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), fmt.Sprintf("unknown escape \\%c", r))
	}
}

// Unescape decodes the escape sequences of a string or template chunk
// body; the input excludes the delimiters. Malformed sequences were
// already reported during scanning and decode to their literal
// characters, so callers always get a value.
func Unescape(body string) string {
	if !strings.ContainsRune(body, '\\') {
		return body
	}
	var sb strings.Builder
	sb.Grow(len(body))
	for i := 0; i < len(body); {
		b := body[i]
		if b != '\\' || i+1 >= len(body) {
			sb.WriteByte(b)
			i++
			continue
		}
		i++
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
			i++
		case 't':
			sb.WriteByte('\t')
			i++
		case 'r':
			sb.WriteByte('\r')
			i++
		case 'b':
			sb.WriteByte('\b')
			i++
		case 'f':
			sb.WriteByte('\f')
			i++
		case 'v':
			sb.WriteByte('\v')
			i++
		case '0':
			sb.WriteByte(0)
			i++
		case '\r':
			i++
			if i < len(body) && body[i] == '\n' {
				i++
			}
		case '\n':
			i++
		case 'x':
			if i+2 < len(body) {
				if v, err := strconv.ParseUint(body[i+1:i+3], 16, 32); err == nil {
					sb.WriteRune(rune(v))
					i += 3
					continue
				}
			}
			sb.WriteByte('x')
			i++
		case 'u':
			if n, r, ok := decodeUnicodeEscape(body[i+1:]); ok {
				sb.WriteRune(r)
				i += 1 + n
				continue
			}
			sb.WriteByte('u')
			i++
		default:
			sb.WriteByte(body[i])
			i++
		}
	}
	return sb.String()
}

// decodeUnicodeEscape parses the part after \u: either exactly four
// hex digits or a braced {hex...} form. Returns the consumed length.
func decodeUnicodeEscape(s string) (n int, r rune, ok bool) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, 0, false
		}
		v, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil || v > 0x10FFFF {
			return 0, 0, false
		}
		return end + 1, rune(v), true
	}
	if len(s) < 4 {
		return 0, 0, false
	}
	v, err := strconv.ParseUint(s[:4], 16, 32)
	if err != nil {
		return 0, 0, false
	}
	return 4, rune(v), true
}
