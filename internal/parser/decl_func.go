package parser

import (
	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/lexer"
	"riptide/internal/source"
	"riptide/internal/token"
)

// probeCap bounds lookahead probes so pathological input cannot turn
// disambiguation quadratic.
const probeCap = 256

// atSingleParamArrow reports whether the stream sits at `x =>`.
func (p *Parser) atSingleParamArrow() bool {
	probe := p.lx.Clone()
	if probe.Next().Kind != token.Ident {
		return false
	}
	return probe.Peek().Kind == token.FatArrow
}

// atParenArrow reports whether a ( opens an arrow parameter list
// rather than a parenthesized expression. The probe skips to the
// matching ) and accepts on `=>`, or on `: Type =>` for an annotated
// return.
func (p *Parser) atParenArrow() bool {
	probe := p.lx.Clone()
	if probe.Next().Kind != token.LParen {
		return false
	}
	depth := 1
	for i := 0; i < probeCap; i++ {
		switch probe.Next().Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
			if depth == 0 {
				switch probe.Peek().Kind {
				case token.FatArrow:
					return true
				case token.Colon:
					probe.Next()
					return probeScansToArrow(probe)
				default:
					return false
				}
			}
		case token.EOF:
			return false
		}
	}
	return false
}

// probeScansToArrow skips an annotation and reports whether `=>`
// follows at bracket depth zero. Statement terminators end the probe.
func probeScansToArrow(probe *lexer.Lexer) bool {
	depth := 0
	for i := 0; i < probeCap; i++ {
		switch probe.Next().Kind {
		case token.FatArrow:
			if depth == 0 {
				return true
			}
		case token.LParen, token.LBrace, token.LBracket:
			depth++
		case token.RParen, token.RBrace, token.RBracket:
			depth--
			if depth < 0 {
				return false
			}
		case token.Semicolon, token.EOF:
			return false
		}
	}
	return false
}

func (p *Parser) parseArrowFromIdent() (ast.ExprID, bool) {
	nameTok := p.advance()
	param := p.arenas.Funcs.NewParam(ast.Param{
		Span:     nameTok.Span,
		Name:     p.intern(nameTok.Text),
		NameSpan: nameTok.Span,
	})
	p.expect(token.FatArrow, diag.SynExpectArrow, "expected =>")
	return p.finishArrow(nameTok.Span, []ast.ParamID{param}, ast.NoTypeID, source.Span{})
}

func (p *Parser) parseArrowFromParen() (ast.ExprID, bool) {
	open := p.advance()
	params := p.parseParamList()
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ) to close parameter list")

	ret, retSpan := p.parseReturnAnnotation()
	p.expect(token.FatArrow, diag.SynExpectArrow, "expected =>")
	return p.finishArrow(open.Span, params, ret, retSpan)
}

// finishArrow parses the body (block or bare expression) and builds
// the arrow node.
func (p *Parser) finishArrow(start source.Span, params []ast.ParamID, ret ast.TypeID, retSpan source.Span) (ast.ExprID, bool) {
	fn := ast.Func{
		Params:     params,
		Return:     ret,
		ReturnSpan: retSpan,
		IsArrow:    true,
	}

	var end source.Span
	if p.at(token.LBrace) {
		body, _ := p.parseBlockStmt()
		fn.Body = body
		end = p.stmtSpan(body)
	} else {
		expr, ok := p.parseExpr()
		if !ok {
			p.err(diag.SynExpectExpression, "expected arrow function body")
			expr = p.arenas.Exprs.NewBad(p.getDiagnosticSpan())
		}
		fn.ExprBody = expr
		end = p.exprSpan(expr)
	}

	fn.Span = start.Cover(end)
	id := p.arenas.Funcs.New(fn)
	return p.arenas.Exprs.NewArrow(fn.Span, id), true
}

// parseFunctionItem parses a function declaration.
func (p *Parser) parseFunctionItem(exported bool) (ast.ItemID, bool) {
	fn, ok := p.parseFunctionCommon(true)
	if !ok {
		return ast.NoItemID, false
	}
	id := p.arenas.Funcs.New(fn)
	return p.arenas.Items.NewFunction(fn.Span, exported, id), true
}

// parseFunctionExpr parses a function expression, whose name is
// optional.
func (p *Parser) parseFunctionExpr() (ast.ExprID, bool) {
	fn, ok := p.parseFunctionCommon(false)
	if !ok {
		return ast.NoExprID, false
	}
	id := p.arenas.Funcs.New(fn)
	return p.arenas.Exprs.NewFunction(fn.Span, id), true
}

func (p *Parser) parseFunctionCommon(nameRequired bool) (ast.Func, bool) {
	kw := p.advance() // function
	fn := ast.Func{Span: kw.Span}

	if nameTok, ok := p.eat(token.Ident); ok {
		fn.Name = p.intern(nameTok.Text)
		fn.NameSpan = nameTok.Span
	} else if nameRequired {
		p.err(diag.SynExpectIdentifier, "expected function name")
		return ast.Func{}, false
	}

	if p.at(token.Lt) {
		fn.TypeParams, fn.TypeParamsSpan = p.parseTypeParams()
	}

	if _, ok := p.expect(token.LParen, diag.SynExpectParameter, "expected ( to start parameter list"); !ok {
		return ast.Func{}, false
	}
	fn.Params = p.parseParamList()
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ) to close parameter list")

	fn.Return, fn.ReturnSpan = p.parseReturnAnnotation()

	if !p.at(token.LBrace) {
		p.err(diag.SynUnclosedBrace, "expected { to start function body")
		fn.Body = p.arenas.Stmts.NewBad(p.getDiagnosticSpan())
		fn.Span = kw.Span.Cover(p.stmtSpan(fn.Body))
		return fn, true
	}
	body, _ := p.parseBlockStmt()
	fn.Body = body
	fn.Span = kw.Span.Cover(p.stmtSpan(body))
	return fn, true
}

// parseReturnAnnotation parses an optional `: Type`. The returned span
// covers the colon and the annotation, the range the emitter strips.
func (p *Parser) parseReturnAnnotation() (ast.TypeID, source.Span) {
	colon, ok := p.eat(token.Colon)
	if !ok {
		return ast.NoTypeID, source.Span{}
	}
	ty, ok := p.parseType()
	if !ok {
		p.err(diag.SynExpectType, "expected return type after :")
		ty = p.arenas.Types.NewBad(p.getDiagnosticSpan())
	}
	return ty, colon.Span.Cover(p.typeSpan(ty))
}

func (p *Parser) parseParamList() []ast.ParamID {
	var params []ast.ParamID
	for !p.at(token.RParen) && !p.at(token.EOF) {
		param, ok := p.parseParam()
		if !ok {
			break
		}
		params = append(params, param)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	return params
}

func (p *Parser) parseParam() (ast.ParamID, bool) {
	nameTok, ok := p.expect(token.Ident, diag.SynExpectParameter, "expected parameter name")
	if !ok {
		return ast.NoParamID, false
	}
	param := ast.Param{
		Span:     nameTok.Span,
		Name:     p.intern(nameTok.Text),
		NameSpan: nameTok.Span,
	}

	// TypeSpan covers `?: T`, `?` or `: T`, whichever is present.
	if q, ok := p.eat(token.Question); ok {
		param.Optional = true
		param.TypeSpan = q.Span
	}
	if colon, ok := p.eat(token.Colon); ok {
		ty, ok := p.parseType()
		if !ok {
			p.err(diag.SynExpectType, "expected parameter type after :")
			ty = p.arenas.Types.NewBad(p.getDiagnosticSpan())
		}
		param.Type = ty
		annot := colon.Span.Cover(p.typeSpan(ty))
		if param.TypeSpan.Empty() {
			param.TypeSpan = annot
		} else {
			param.TypeSpan = param.TypeSpan.Cover(annot)
		}
	}

	param.Span = param.Span.Cover(param.TypeSpan)
	return p.arenas.Funcs.NewParam(param), true
}

// parseTypeParams parses `<T, U extends V>`. The returned span covers
// the angle brackets.
func (p *Parser) parseTypeParams() ([]ast.TypeParamID, source.Span) {
	open := p.advance() // <
	span := open.Span
	var params []ast.TypeParamID
	for !p.at(token.EOF) {
		nameTok, ok := p.expect(token.Ident, diag.SynExpectTypeParam, "expected type parameter name")
		if !ok {
			break
		}
		tp := ast.TypeParam{
			Span:     nameTok.Span,
			Name:     p.intern(nameTok.Text),
			NameSpan: nameTok.Span,
		}
		if _, ok := p.eat(token.KwExtends); ok {
			constraint, ok := p.parseType()
			if !ok {
				p.err(diag.SynExpectType, "expected constraint type after extends")
				constraint = p.arenas.Types.NewBad(p.getDiagnosticSpan())
			}
			tp.Constraint = constraint
			tp.Span = tp.Span.Cover(p.typeSpan(constraint))
		}
		params = append(params, p.arenas.Funcs.NewTypeParam(tp))
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if gt, ok := p.lx.SplitGt(); ok {
		span = span.Cover(gt.Span)
	} else {
		p.err(diag.SynUnclosedTypeArgs, "expected > to close type parameter list")
		span = span.Cover(p.lastSpan)
	}
	return params, span
}
