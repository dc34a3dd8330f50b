package parser

import (
	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/source"
	"riptide/internal/token"
)

// parseVarItem parses a top-level let/const/var declaration.
func (p *Parser) parseVarItem(exported bool) (ast.ItemID, bool) {
	decl, span, ok := p.parseVarDecl()
	if !ok {
		return ast.NoItemID, false
	}
	end := p.expectSemi()
	return p.arenas.Items.NewVar(span.Cover(end), exported, decl), true
}

// parseVarDecl parses `let name[: Type] [= expr]` without the
// terminator; items, statements and for-headers each finish it their
// own way.
func (p *Parser) parseVarDecl() (ast.VarDecl, source.Span, bool) {
	kw := p.advance()
	var kind ast.DeclKind
	switch kw.Kind {
	case token.KwConst:
		kind = ast.DeclConst
	case token.KwVar:
		kind = ast.DeclVar
	default:
		kind = ast.DeclLet
	}

	nameTok, ok := p.expect(token.Ident, diag.SynExpectVariableName,
		"expected variable name after "+kw.Kind.String())
	if !ok {
		return ast.VarDecl{}, kw.Span, false
	}

	decl := ast.VarDecl{
		Kind:     kind,
		Name:     p.intern(nameTok.Text),
		NameSpan: nameTok.Span,
	}
	span := kw.Span.Cover(nameTok.Span)

	if colon, ok := p.eat(token.Colon); ok {
		ty, ok := p.parseType()
		if !ok {
			p.err(diag.SynExpectType, "expected type after :")
			ty = p.arenas.Types.NewBad(p.getDiagnosticSpan())
		}
		decl.Type = ty
		decl.TypeSpan = colon.Span.Cover(p.typeSpan(ty))
		span = span.Cover(decl.TypeSpan)
	}

	if _, ok := p.eat(token.Assign); ok {
		init, ok := p.parseExpr()
		if !ok {
			p.err(diag.SynExpectExpression, "expected initializer expression")
			init = p.arenas.Exprs.NewBad(p.getDiagnosticSpan())
		}
		decl.Init = init
		span = span.Cover(p.exprSpan(init))
	} else if kind == ast.DeclConst {
		p.report(diag.SynConstWithoutInit, diag.SevError, span,
			"const declaration requires an initializer")
	}

	return decl, span, true
}
