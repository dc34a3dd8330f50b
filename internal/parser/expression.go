package parser

import (
	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/source"
	"riptide/internal/token"
)

// parseExpr is the entry point for expressions: assignment level,
// right associative.
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	left, ok := p.parseCondExpr()
	if !ok {
		return ast.NoExprID, false
	}

	opTok := p.lx.Peek()
	op, isAssign := assignOpFor(opTok.Kind)
	if !isAssign {
		return left, true
	}

	if !p.isAssignTarget(left) {
		p.report(diag.SynBadAssignTarget, diag.SevError, p.exprSpan(left),
			"invalid assignment target")
	}
	p.advance()
	value, ok := p.parseExpr()
	if !ok {
		p.err(diag.SynExpectExpression, "expected expression after "+opTok.Kind.String())
		value = p.arenas.Exprs.NewBad(p.getDiagnosticSpan())
	}
	span := p.exprSpan(left).Cover(p.exprSpan(value))
	return p.arenas.Exprs.NewAssign(span, op, left, value), true
}

// isAssignTarget reports whether an expression may stand on the left
// of an assignment: a name, member access or index access, possibly
// parenthesized. Optional chains are not targets.
func (p *Parser) isAssignTarget(id ast.ExprID) bool {
	id = p.arenas.Exprs.Unwrap(id)
	ex := p.arenas.Exprs.Get(id)
	if ex == nil {
		return false
	}
	switch ex.Kind {
	case ast.ExprIdent, ast.ExprIndex:
		return true
	case ast.ExprMember:
		m, _ := p.arenas.Exprs.Member(id)
		return m != nil && !m.Optional
	default:
		return false
	}
}

// parseCondExpr handles `cond ? then : else` above the binary core.
func (p *Parser) parseCondExpr() (ast.ExprID, bool) {
	cond, ok := p.parseBinaryExpr(0)
	if !ok {
		return ast.NoExprID, false
	}
	if _, isQ := p.eat(token.Question); !isQ {
		return cond, true
	}

	then, ok := p.parseExpr()
	if !ok {
		then = p.arenas.Exprs.NewBad(p.getDiagnosticSpan())
	}
	p.expect(token.Colon, diag.SynExpectColon, "expected : in conditional expression")
	els, ok := p.parseExpr()
	if !ok {
		els = p.arenas.Exprs.NewBad(p.getDiagnosticSpan())
	}
	span := p.exprSpan(cond).Cover(p.exprSpan(els))
	return p.arenas.Exprs.NewCond(span, cond, then, els), true
}

// parseBinaryExpr is the Pratt loop. minPrec is the lowest precedence
// this level may consume.
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}

	for {
		tok := p.lx.Peek()
		prec, rightAssoc := binaryPrec(tok.Kind)
		if prec < minPrec || prec < 0 {
			break
		}

		opTok := p.advance()
		nextMin := prec + 1
		if rightAssoc {
			nextMin = prec
		}

		right, ok := p.parseBinaryExpr(nextMin)
		if !ok {
			p.err(diag.SynExpectExpression, "expected expression after "+opTok.Kind.String())
			right = p.arenas.Exprs.NewBad(p.getDiagnosticSpan())
		}

		op := binaryOpFor(opTok.Kind)
		span := p.exprSpan(left).Cover(p.exprSpan(right))
		left = p.arenas.Exprs.NewBinary(span, op, left, right)
	}

	return left, true
}

// parseUnaryExpr collects prefix operators, parses the postfix core,
// then applies the prefixes innermost-last.
func (p *Parser) parseUnaryExpr() (ast.ExprID, bool) {
	type prefix struct {
		op   ast.UnaryOp
		span source.Span
	}
	var prefixes []prefix

	for {
		op, ok := unaryOpFor(p.lx.Peek().Kind)
		if !ok {
			break
		}
		tok := p.advance()
		prefixes = append(prefixes, prefix{op: op, span: tok.Span})
	}

	expr, ok := p.parsePostfixExpr()
	if !ok {
		if len(prefixes) == 0 {
			return ast.NoExprID, false
		}
		expr = p.arenas.Exprs.NewBad(p.getDiagnosticSpan())
	}

	for i := len(prefixes) - 1; i >= 0; i-- {
		span := prefixes[i].span.Cover(p.exprSpan(expr))
		expr = p.arenas.Exprs.NewUnary(span, prefixes[i].op, expr)
	}
	return expr, true
}

// parsePostfixExpr parses a primary expression and then loops over
// call, member, optional member and index suffixes. An explicit
// type-argument call `f<T>(x)` is disambiguated from a comparison with
// a token-level probe before committing.
func (p *Parser) parsePostfixExpr() (ast.ExprID, bool) {
	expr, ok := p.parsePrimaryExpr()
	if !ok {
		return ast.NoExprID, false
	}

	for {
		switch p.lx.Peek().Kind {
		case token.LParen:
			expr = p.parseCallSuffix(expr, nil, source.Span{})

		case token.Lt:
			if !p.atTypeArgCall() {
				return expr, true
			}
			args, argsSpan, ok := p.parseTypeArgs()
			if !ok {
				return expr, true
			}
			if !p.at(token.LParen) {
				p.err(diag.SynUnexpectedToken, "expected ( after type arguments")
				return expr, true
			}
			expr = p.parseCallSuffix(expr, args, argsSpan)

		case token.Dot:
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
				Optional: false,
			})

		case token.QuestionDot:
			p.advance()
			name, ok := p.memberName()
			if !ok {
				p.err(diag.SynExpectPropertyName, "expected property name after ?.")
				return expr, true
			}
			span := p.exprSpan(expr).Cover(name.Span)
			expr = p.arenas.Exprs.NewMember(span, ast.MemberExpr{
				Object:   expr,
				Name:     p.intern(name.Text),
				NameSpan: name.Span,
				Optional: true,
			})

		case token.LBracket:
			p.advance()
			index, ok := p.parseExpr()
			if !ok {
				p.err(diag.SynExpectExpression, "expected index expression")
				index = p.arenas.Exprs.NewBad(p.getDiagnosticSpan())
			}
			closeTok, closed := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ]")
			span := p.exprSpan(expr)
			if closed {
				span = span.Cover(closeTok.Span)
			} else {
				span = span.Cover(p.exprSpan(index))
			}
			expr = p.arenas.Exprs.NewIndex(span, expr, index)

		default:
			return expr, true
		}
	}
}

// parseCallSuffix parses `(args)` onto a callee. Type arguments, if
// the caller already parsed them, ride along with their span.
func (p *Parser) parseCallSuffix(callee ast.ExprID, typeArgs []ast.TypeID, typeArgsSpan source.Span) ast.ExprID {
	open := p.advance()
	var args []ast.ExprID
	for !p.at(token.RParen) && !p.at(token.EOF) {
		arg, ok := p.parseExpr()
		if !ok {
			p.err(diag.SynExpectExpression, "expected call argument")
			break
		}
		args = append(args, arg)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	closeTok, closed := p.expect(token.RParen, diag.SynUnclosedParen, "expected ) to close call")
	span := p.exprSpan(callee).Cover(open.Span)
	if closed {
		span = span.Cover(closeTok.Span)
	} else if len(args) > 0 {
		span = span.Cover(p.exprSpan(args[len(args)-1]))
	}
	return p.arenas.Exprs.NewCall(span, ast.CallExpr{
		Callee:       callee,
		TypeArgs:     typeArgs,
		TypeArgsSpan: typeArgsSpan,
		Args:         args,
	})
}
