package parser

import (
	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/token"
)

// parseTypeAliasItem parses `type Name[<T,...>] = Type;`.
func (p *Parser) parseTypeAliasItem(exported bool) (ast.ItemID, bool) {
	kw := p.advance()
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected type alias name")
	if !ok {
		return ast.NoItemID, false
	}

	decl := ast.TypeAliasDecl{
		Name:     p.intern(nameTok.Text),
		NameSpan: nameTok.Span,
	}
	span := kw.Span.Cover(nameTok.Span)

	if p.at(token.Lt) {
		tps, tpSpan := p.parseTypeParams()
		decl.TypeParams = tps
		span = span.Cover(tpSpan)
	}

	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected = in type alias"); !ok {
		return ast.NoItemID, false
	}
	aliased, ok := p.parseType()
	if !ok {
		p.err(diag.SynExpectType, "expected type after =")
		aliased = p.arenas.Types.NewBad(p.getDiagnosticSpan())
	}
	decl.Aliased = aliased
	span = span.Cover(p.typeSpan(aliased))
	end := p.expectSemi()
	return p.arenas.Items.NewTypeAlias(span.Cover(end), exported, decl), true
}

// parseInterfaceItem parses an interface declaration. Method shorthand
// members become function type annotations, so every member is a name
// plus a type.
func (p *Parser) parseInterfaceItem(exported bool) (ast.ItemID, bool) {
	kw := p.advance()
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected interface name")
	if !ok {
		return ast.NoItemID, false
	}

	decl := ast.InterfaceDecl{
		Name:     p.intern(nameTok.Text),
		NameSpan: nameTok.Span,
	}
	span := kw.Span.Cover(nameTok.Span)

	if p.at(token.Lt) {
		tps, tpSpan := p.parseTypeParams()
		decl.TypeParams = tps
		span = span.Cover(tpSpan)
	}

	if _, ok := p.eat(token.KwExtends); ok {
		for {
			if !p.at(token.Ident) {
				p.err(diag.SynExpectType, "expected interface reference after extends")
				break
			}
			ref, _ := p.parseTypeName()
			decl.Extends = append(decl.Extends, ref)
			span = span.Cover(p.typeSpan(ref))
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
	}

	if _, ok := p.expect(token.LBrace, diag.SynUnclosedBrace, "expected { to start interface body"); !ok {
		return p.arenas.Items.NewInterface(span, exported, decl), true
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		member, ok := p.parseInterfaceMember()
		if !ok {
			break
		}
		decl.Members = append(decl.Members, member)
		if _, ok := p.eat(token.Semicolon); ok {
			continue
		}
		if _, ok := p.eat(token.Comma); ok {
			continue
		}
		break
	}
	closeTok, closed := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected } to close interface body")
	if closed {
		span = span.Cover(closeTok.Span)
	} else if n := len(decl.Members); n > 0 {
		span = span.Cover(decl.Members[n-1].Span)
	}
	return p.arenas.Items.NewInterface(span, exported, decl), true
}

func (p *Parser) parseInterfaceMember() (ast.InterfaceMember, bool) {
	nameTok := p.lx.Peek()
	if nameTok.Kind != token.Ident && !nameTok.IsKeyword() {
		p.err(diag.SynExpectInterfaceMember, "expected interface member name")
		return ast.InterfaceMember{}, false
	}
	p.advance()
	member := ast.InterfaceMember{
		Span:     nameTok.Span,
		Name:     p.intern(nameTok.Text),
		NameSpan: nameTok.Span,
	}
	if _, ok := p.eat(token.Question); ok {
		member.Optional = true
	}

	if p.at(token.LParen) {
		ty, ok := p.parseMethodSignature()
		if !ok {
			return ast.InterfaceMember{}, false
		}
		member.Type = ty
		member.Span = member.Span.Cover(p.typeSpan(ty))
		return member, true
	}

	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected : or ( after member name"); !ok {
		member.Type = p.arenas.Types.NewBad(p.getDiagnosticSpan())
		return member, true
	}
	ty, ok := p.parseType()
	if !ok {
		p.err(diag.SynExpectType, "expected member type")
		ty = p.arenas.Types.NewBad(p.getDiagnosticSpan())
	}
	member.Type = ty
	member.Span = member.Span.Cover(p.typeSpan(ty))
	return member, true
}

// parseMethodSignature parses `(params): R` after a method name and
// packages it as a function type.
func (p *Parser) parseMethodSignature() (ast.TypeID, bool) {
	open := p.advance() // (
	var params []ast.FuncTypeParam
	for !p.at(token.RParen) && !p.at(token.EOF) {
		pname, ok := p.expect(token.Ident, diag.SynExpectParameter, "expected parameter name")
		if !ok {
			break
		}
		param := ast.FuncTypeParam{
			Name:     p.intern(pname.Text),
			NameSpan: pname.Span,
		}
		p.eat(token.Question)
		if _, ok := p.eat(token.Colon); ok {
			ty, ok := p.parseType()
			if !ok {
				p.err(diag.SynExpectType, "expected parameter type")
				ty = p.arenas.Types.NewBad(p.getDiagnosticSpan())
			}
			param.Type = ty
		}
		params = append(params, param)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	closeTok, closed := p.expect(token.RParen, diag.SynUnclosedParen, "expected ) in method signature")
	span := open.Span
	if closed {
		span = span.Cover(closeTok.Span)
	}

	ret := ast.NoTypeID
	if _, ok := p.eat(token.Colon); ok {
		ty, ok := p.parseType()
		if !ok {
			p.err(diag.SynExpectType, "expected return type")
			ty = p.arenas.Types.NewBad(p.getDiagnosticSpan())
		}
		ret = ty
		span = span.Cover(p.typeSpan(ty))
	}
	return p.arenas.Types.NewFunc(span, ast.FuncType{Params: params, Return: ret}), true
}
