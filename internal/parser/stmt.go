package parser

import (
	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/source"
	"riptide/internal/token"
)

// parseStmt parses one statement. Declarations that are legal in
// statement position (let/const/var, function) dispatch from here too.
func (p *Parser) parseStmt() (ast.StmtID, bool) {
	switch p.lx.Peek().Kind {
	case token.LBrace:
		return p.parseBlockStmt()
	case token.KwLet, token.KwConst, token.KwVar:
		return p.parseVarStmt()
	case token.KwFunction:
		return p.parseFunctionStmt()
	case token.KwIf:
		return p.parseIfStmt()
	case token.KwWhile:
		return p.parseWhileStmt()
	case token.KwFor:
		return p.parseForStmt()
	case token.KwReturn:
		return p.parseReturnStmt()
	case token.KwBreak:
		kw := p.advance()
		end := p.expectSemi()
		return p.arenas.Stmts.NewBreak(kw.Span.Cover(end)), true
	case token.KwContinue:
		kw := p.advance()
		end := p.expectSemi()
		return p.arenas.Stmts.NewContinue(kw.Span.Cover(end)), true
	case token.Semicolon:
		// Empty statement; keep a node so spans stay gapless.
		tok := p.advance()
		return p.arenas.Stmts.NewBlock(tok.Span, nil), true
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseBlockStmt() (ast.StmtID, bool) {
	open := p.advance() // {
	var stmts []ast.StmtID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.lx.Peek().Span
		stmt, ok := p.parseStmt()
		if !ok {
			stmts = append(stmts, p.resyncStmt(before))
			continue
		}
		stmts = append(stmts, stmt)
	}
	closeTok, closed := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected } to close block")
	span := open.Span
	if closed {
		span = span.Cover(closeTok.Span)
	} else if len(stmts) > 0 {
		span = span.Cover(p.stmtSpan(stmts[len(stmts)-1]))
	}
	return p.arenas.Stmts.NewBlock(span, stmts), true
}

// resyncStmt consumes at least one token and skips to the next
// statement boundary inside a block, returning a Bad statement over
// the skipped range.
func (p *Parser) resyncStmt(from source.Span) ast.StmtID {
	span := from
	if !p.at(token.EOF) && !p.at(token.RBrace) {
		tok := p.advance()
		span = span.Cover(tok.Span)
		if tok.Kind == token.Semicolon {
			return p.arenas.Stmts.NewBad(span)
		}
	}
	for !p.at(token.EOF) && !p.at(token.RBrace) && !p.atItemStart() {
		tok := p.advance()
		span = span.Cover(tok.Span)
		if tok.Kind == token.Semicolon {
			break
		}
	}
	return p.arenas.Stmts.NewBad(span)
}

func (p *Parser) parseIfStmt() (ast.StmtID, bool) {
	kw := p.advance()
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected ( after if")
	cond, ok := p.parseExpr()
	if !ok {
		p.err(diag.SynExpectExpression, "expected condition")
		cond = p.arenas.Exprs.NewBad(p.getDiagnosticSpan())
	}
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ) after condition")

	then, ok := p.parseStmt()
	if !ok {
		then = p.resyncStmt(p.lx.Peek().Span)
	}
	span := kw.Span.Cover(p.stmtSpan(then))

	els := ast.NoStmtID
	if _, ok := p.eat(token.KwElse); ok {
		els, ok = p.parseStmt()
		if !ok {
			els = p.resyncStmt(p.lx.Peek().Span)
		}
		span = span.Cover(p.stmtSpan(els))
	}
	return p.arenas.Stmts.NewIf(span, cond, then, els), true
}

func (p *Parser) parseWhileStmt() (ast.StmtID, bool) {
	kw := p.advance()
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected ( after while")
	cond, ok := p.parseExpr()
	if !ok {
		p.err(diag.SynExpectExpression, "expected condition")
		cond = p.arenas.Exprs.NewBad(p.getDiagnosticSpan())
	}
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ) after condition")

	body, ok := p.parseStmt()
	if !ok {
		body = p.resyncStmt(p.lx.Peek().Span)
	}
	span := kw.Span.Cover(p.stmtSpan(body))
	return p.arenas.Stmts.NewWhile(span, cond, body), true
}

// parseForStmt handles both the classic three-slot header and for-of.
func (p *Parser) parseForStmt() (ast.StmtID, bool) {
	kw := p.advance()
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected ( after for")

	if stmt, ok := p.tryParseForOf(kw.Span); ok {
		return stmt, true
	}

	// Classic header; all three slots may be empty.
	init := ast.NoStmtID
	if !p.at(token.Semicolon) {
		switch p.lx.Peek().Kind {
		case token.KwLet, token.KwConst, token.KwVar:
			decl, declSpan, ok := p.parseVarDecl()
			if !ok {
				p.err(diag.SynBadForHeader, "bad for-loop initializer")
			} else {
				init = p.arenas.Stmts.NewVar(declSpan, decl)
			}
		default:
			expr, ok := p.parseExpr()
			if ok {
				init = p.arenas.Stmts.NewExpr(p.exprSpan(expr), expr)
			} else {
				p.err(diag.SynBadForHeader, "bad for-loop initializer")
			}
		}
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ; after for-loop initializer")

	cond := ast.NoExprID
	if !p.at(token.Semicolon) {
		if expr, ok := p.parseExpr(); ok {
			cond = expr
		} else {
			p.err(diag.SynBadForHeader, "bad for-loop condition")
		}
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ; after for-loop condition")

	post := ast.NoExprID
	if !p.at(token.RParen) {
		if expr, ok := p.parseExpr(); ok {
			post = expr
		} else {
			p.err(diag.SynBadForHeader, "bad for-loop update")
		}
	}
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ) to close for-loop header")

	body, ok := p.parseStmt()
	if !ok {
		body = p.resyncStmt(p.lx.Peek().Span)
	}
	span := kw.Span.Cover(p.stmtSpan(body))
	return p.arenas.Stmts.NewForClassic(span, init, cond, post, body), true
}

// tryParseForOf commits to a for-of when the header shape matches
// `[let|const|var] name of`; otherwise the stream is untouched.
func (p *Parser) tryParseForOf(kwSpan source.Span) (ast.StmtID, bool) {
	probe := p.lx.Clone()
	first := probe.Next()
	declared := first.Kind == token.KwLet || first.Kind == token.KwConst || first.Kind == token.KwVar
	if declared {
		if probe.Next().Kind != token.Ident {
			return ast.NoStmtID, false
		}
	} else if first.Kind != token.Ident {
		return ast.NoStmtID, false
	}
	if probe.Peek().Kind != token.KwOf {
		return ast.NoStmtID, false
	}

	decl := ast.DeclLet
	if declared {
		switch p.advance().Kind {
		case token.KwConst:
			decl = ast.DeclConst
		case token.KwVar:
			decl = ast.DeclVar
		}
	}
	nameTok := p.advance()
	p.advance() // of

	iterable, ok := p.parseExpr()
	if !ok {
		p.err(diag.SynExpectExpression, "expected iterable expression after of")
		iterable = p.arenas.Exprs.NewBad(p.getDiagnosticSpan())
	}
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ) to close for-of header")

	body, ok := p.parseStmt()
	if !ok {
		body = p.resyncStmt(p.lx.Peek().Span)
	}
	span := kwSpan.Cover(p.stmtSpan(body))
	return p.arenas.Stmts.NewForOf(span, ast.ForOfStmt{
		Decl:     decl,
		Declared: declared,
		Name:     p.intern(nameTok.Text),
		NameSpan: nameTok.Span,
		Iterable: iterable,
		Body:     body,
	}), true
}

func (p *Parser) parseReturnStmt() (ast.StmtID, bool) {
	kw := p.advance()
	if _, ok := p.eat(token.Semicolon); ok {
		return p.arenas.Stmts.NewReturn(kw.Span, ast.NoExprID), true
	}
	// `return }` also means a bare return in practice; recover without
	// consuming the brace.
	if p.at(token.RBrace) || p.at(token.EOF) {
		p.expectSemi()
		return p.arenas.Stmts.NewReturn(kw.Span, ast.NoExprID), true
	}
	value, ok := p.parseExpr()
	if !ok {
		p.err(diag.SynExpectExpression, "expected expression after return")
		return ast.NoStmtID, false
	}
	end := p.expectSemi()
	span := kw.Span.Cover(p.exprSpan(value)).Cover(end)
	return p.arenas.Stmts.NewReturn(span, value), true
}

func (p *Parser) parseExprStmt() (ast.StmtID, bool) {
	expr, ok := p.parseExpr()
	if !ok {
		p.err(diag.SynExpectExpression, "expected statement")
		return ast.NoStmtID, false
	}
	end := p.expectSemi()
	span := p.exprSpan(expr).Cover(end)
	return p.arenas.Stmts.NewExpr(span, expr), true
}

// parseVarStmt parses a declaration statement.
func (p *Parser) parseVarStmt() (ast.StmtID, bool) {
	decl, span, ok := p.parseVarDecl()
	if !ok {
		return ast.NoStmtID, false
	}
	end := p.expectSemi()
	return p.arenas.Stmts.NewVar(span.Cover(end), decl), true
}

// parseFunctionStmt parses a block-level function declaration. A
// statement starting with the function keyword is always a
// declaration, never an expression, so the name is mandatory.
func (p *Parser) parseFunctionStmt() (ast.StmtID, bool) {
	fn, ok := p.parseFunctionCommon(true)
	if !ok {
		return ast.NoStmtID, false
	}
	id := p.arenas.Funcs.New(fn)
	return p.arenas.Stmts.NewFuncDecl(fn.Span, id), true
}
