package parser

import (
	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/lexer"
	"riptide/internal/token"
)

func (p *Parser) parsePrimaryExpr() (ast.ExprID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Ident:
		if p.atSingleParamArrow() {
			return p.parseArrowFromIdent()
		}
		p.advance()
		return p.arenas.Exprs.NewIdent(tok.Span, p.intern(tok.Text)), true

	case token.NumberLit:
		p.advance()
		return p.arenas.Exprs.NewLit(tok.Span, ast.LitNumber, p.intern(tok.Text)), true

	case token.StringLit:
		p.advance()
		return p.arenas.Exprs.NewLit(tok.Span, ast.LitString, p.intern(tok.Text)), true

	case token.KwTrue:
		p.advance()
		return p.arenas.Exprs.NewLit(tok.Span, ast.LitTrue, p.intern(tok.Text)), true

	case token.KwFalse:
		p.advance()
		return p.arenas.Exprs.NewLit(tok.Span, ast.LitFalse, p.intern(tok.Text)), true

	case token.KwNull:
		p.advance()
		return p.arenas.Exprs.NewLit(tok.Span, ast.LitNull, p.intern(tok.Text)), true

	case token.KwUndefined:
		p.advance()
		return p.arenas.Exprs.NewLit(tok.Span, ast.LitUndefined, p.intern(tok.Text)), true

	case token.TemplateLit, token.TemplateHead:
		return p.parseTemplateExpr()

	case token.LBracket:
		return p.parseArrayLiteral()

	case token.LBrace:
		return p.parseObjectLiteral()

	case token.LParen:
		if p.atParenArrow() {
			return p.parseArrowFromParen()
		}
		return p.parseGroupExpr()

	case token.KwFunction:
		return p.parseFunctionExpr()

	case token.KwNew:
		return p.parseNewExpr()

	default:
		p.err(diag.SynExpectExpression, "expected expression, found "+tok.Kind.String())
		return ast.NoExprID, false
	}
}

func (p *Parser) parseGroupExpr() (ast.ExprID, bool) {
	open := p.advance()
	inner, ok := p.parseExpr()
	if !ok {
		p.err(diag.SynExpectExpression, "expected expression after (")
		inner = p.arenas.Exprs.NewBad(p.getDiagnosticSpan())
	}
	closeTok, closed := p.expect(token.RParen, diag.SynUnclosedParen, "expected )")
	span := open.Span.Cover(p.exprSpan(inner))
	if closed {
		span = span.Cover(closeTok.Span)
	}
	return p.arenas.Exprs.NewGroup(span, inner), true
}

func (p *Parser) parseArrayLiteral() (ast.ExprID, bool) {
	open := p.advance()
	var elems []ast.ExprID
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		elem, ok := p.parseExpr()
		if !ok {
			p.err(diag.SynExpectExpression, "expected array element")
			break
		}
		elems = append(elems, elem)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	closeTok, closed := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ] to close array literal")
	span := open.Span
	if closed {
		span = span.Cover(closeTok.Span)
	} else if len(elems) > 0 {
		span = span.Cover(p.exprSpan(elems[len(elems)-1]))
	}
	return p.arenas.Exprs.NewArray(span, elems), true
}

// parseObjectLiteral handles `{ a: 1, b, "key": 2 }`. Shorthand
// properties synthesize an identifier expression for the value.
func (p *Parser) parseObjectLiteral() (ast.ExprID, bool) {
	open := p.advance()
	var fields []ast.ObjectField
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		field, ok := p.parseObjectField()
		if !ok {
			break
		}
		fields = append(fields, field)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	closeTok, closed := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected } to close object literal")
	span := open.Span
	if closed {
		span = span.Cover(closeTok.Span)
	} else if len(fields) > 0 {
		span = span.Cover(fields[len(fields)-1].Span)
	}
	return p.arenas.Exprs.NewObject(span, fields), true
}

func (p *Parser) parseObjectField() (ast.ObjectField, bool) {
	nameTok := p.lx.Peek()
	var name string
	switch {
	case nameTok.Kind == token.Ident || nameTok.IsKeyword():
		name = nameTok.Text
	case nameTok.Kind == token.StringLit:
		name = lexer.Unescape(trimQuotes(nameTok.Text))
	case nameTok.Kind == token.NumberLit:
		name = nameTok.Text
	default:
		p.err(diag.SynExpectPropertyName, "expected property name")
		return ast.ObjectField{}, false
	}
	p.advance()
	nameID := p.intern(name)

	if _, ok := p.eat(token.Colon); ok {
		value, ok := p.parseExpr()
		if !ok {
			p.err(diag.SynExpectExpression, "expected property value")
			value = p.arenas.Exprs.NewBad(p.getDiagnosticSpan())
		}
		return ast.ObjectField{
			Span:     nameTok.Span.Cover(p.exprSpan(value)),
			Name:     nameID,
			NameSpan: nameTok.Span,
			Value:    value,
		}, true
	}

	// Shorthand `{ x }`; only a plain identifier can elide its value.
	if nameTok.Kind != token.Ident {
		p.err(diag.SynExpectColon, "expected : after property name")
		return ast.ObjectField{}, false
	}
	value := p.arenas.Exprs.NewIdent(nameTok.Span, nameID)
	return ast.ObjectField{
		Span:      nameTok.Span,
		Name:      nameID,
		NameSpan:  nameTok.Span,
		Value:     value,
		Shorthand: true,
	}, true
}

// parseTemplateExpr builds a template literal. A TemplateLit token is
// the whole literal; a TemplateHead opens a head(expr middle)*tail
// sequence driven by the lexer's continuation scan.
func (p *Parser) parseTemplateExpr() (ast.ExprID, bool) {
	head := p.advance()
	if head.Kind == token.TemplateLit {
		part := ast.TemplatePart{Cooked: p.intern(cookTemplate(head)), Span: head.Span}
		return p.arenas.Exprs.NewTemplate(head.Span, ast.TemplateExpr{
			Parts: []ast.TemplatePart{part},
		}), true
	}

	parts := []ast.TemplatePart{{Cooked: p.intern(cookTemplate(head)), Span: head.Span}}
	var exprs []ast.ExprID
	span := head.Span
	for {
		hole, ok := p.parseExpr()
		if !ok {
			p.err(diag.SynExpectExpression, "expected expression in template hole")
			hole = p.arenas.Exprs.NewBad(p.getDiagnosticSpan())
		}
		exprs = append(exprs, hole)

		part, ok := p.lx.ScanTemplateContinue()
		if !ok {
			p.err(diag.SynUnclosedBrace, "expected } to close template expression")
			span = span.Cover(p.exprSpan(hole))
			return p.arenas.Exprs.NewBad(span), true
		}
		if part.Kind == token.Invalid {
			// Unterminated template; the lexer already reported.
			span = span.Cover(part.Span)
			return p.arenas.Exprs.NewBad(span), true
		}
		parts = append(parts, ast.TemplatePart{Cooked: p.intern(cookTemplate(part)), Span: part.Span})
		span = span.Cover(part.Span)
		if part.Kind == token.TemplateTail {
			return p.arenas.Exprs.NewTemplate(span, ast.TemplateExpr{
				Parts: parts,
				Exprs: exprs,
			}), true
		}
	}
}

// cookTemplate strips the delimiters off one template part token and
// decodes its escapes. Heads and middles end in ${, lits and tails in
// a backtick; middles and tails open with }.
func cookTemplate(tok token.Token) string {
	body := tok.Text
	switch tok.Kind {
	case token.TemplateLit:
		body = trimN(body, 1, 1)
	case token.TemplateHead:
		body = trimN(body, 1, 2)
	case token.TemplateMiddle:
		body = trimN(body, 1, 2)
	case token.TemplateTail:
		body = trimN(body, 1, 1)
	}
	return lexer.Unescape(body)
}

func trimN(s string, head, tail int) string {
	if len(s) < head+tail {
		return ""
	}
	return s[head : len(s)-tail]
}

func trimQuotes(s string) string {
	return trimN(s, 1, 1)
}

func (p *Parser) parseNewExpr() (ast.ExprID, bool) {
	kw := p.advance()
	callee, ok := p.parseMemberChain()
	if !ok {
		p.err(diag.SynExpectExpression, "expected constructor expression after new")
		return p.arenas.Exprs.NewBad(kw.Span), true
	}

	span := kw.Span.Cover(p.exprSpan(callee))
	var args []ast.ExprID
	if p.at(token.LParen) {
		open := p.advance()
		for !p.at(token.RParen) && !p.at(token.EOF) {
			arg, ok := p.parseExpr()
			if !ok {
				p.err(diag.SynExpectExpression, "expected constructor argument")
				break
			}
			args = append(args, arg)
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
		closeTok, closed := p.expect(token.RParen, diag.SynUnclosedParen, "expected ) to close constructor call")
		span = span.Cover(open.Span)
		if closed {
			span = span.Cover(closeTok.Span)
		}
	}
	return p.arenas.Exprs.NewNew(span, callee, args), true
}

// parseMemberChain parses a primary followed by plain member accesses
// only. `new a.b.C(x)` calls C, so the argument list must not be
// swallowed by the callee.
func (p *Parser) parseMemberChain() (ast.ExprID, bool) {
	expr, ok := p.parsePrimaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	for p.at(token.Dot) {
		p.advance()
		name, ok := p.memberName()
		if !ok {
			p.err(diag.SynExpectPropertyName, "expected property name after .")
			return expr, true
		}
		span := p.exprSpan(expr).Cover(name.Span)
		expr = p.arenas.Exprs.NewMember(span, ast.MemberExpr{
			Object:   expr,
			Name:     p.intern(name.Text),
			NameSpan: name.Span,
		})
	}
	return expr, true
}
