package parser

import (
	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/source"
	"riptide/internal/token"
)

// parseType parses a full type annotation: unions of intersections of
// postfix array types over primaries. A leading | is tolerated.
func (p *Parser) parseType() (ast.TypeID, bool) {
	p.eat(token.Pipe)
	first, ok := p.parseIntersectionType()
	if !ok {
		return ast.NoTypeID, false
	}
	if !p.at(token.Pipe) {
		return first, true
	}

	members := []ast.TypeID{first}
	span := p.typeSpan(first)
	for {
		if _, ok := p.eat(token.Pipe); !ok {
			break
		}
		member, ok := p.parseIntersectionType()
		if !ok {
			p.err(diag.SynExpectType, "expected type after |")
			break
		}
		members = append(members, member)
		span = span.Cover(p.typeSpan(member))
	}
	return p.arenas.Types.NewUnion(span, members), true
}

func (p *Parser) parseIntersectionType() (ast.TypeID, bool) {
	first, ok := p.parsePostfixType()
	if !ok {
		return ast.NoTypeID, false
	}
	if !p.at(token.Amp) {
		return first, true
	}

	members := []ast.TypeID{first}
	span := p.typeSpan(first)
	for {
		if _, ok := p.eat(token.Amp); !ok {
			break
		}
		member, ok := p.parsePostfixType()
		if !ok {
			p.err(diag.SynExpectType, "expected type after &")
			break
		}
		members = append(members, member)
		span = span.Cover(p.typeSpan(member))
	}
	return p.arenas.Types.NewIntersection(span, members), true
}

// parsePostfixType wraps a primary in one ArrayType per trailing [].
func (p *Parser) parsePostfixType() (ast.TypeID, bool) {
	ty, ok := p.parsePrimaryType()
	if !ok {
		return ast.NoTypeID, false
	}
	for p.at(token.LBracket) {
		open := p.advance()
		closeTok, closed := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ] in array type")
		span := p.typeSpan(ty).Cover(open.Span)
		if closed {
			span = span.Cover(closeTok.Span)
		}
		ty = p.arenas.Types.NewArray(span, ty)
	}
	return ty, true
}

func (p *Parser) parsePrimaryType() (ast.TypeID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Ident:
		return p.parseTypeName()

	// null and undefined are keywords in value position but type
	// names here; the checker resolves them like the builtins.
	case token.KwNull, token.KwUndefined:
		p.advance()
		return p.arenas.Types.NewName(tok.Span, ast.NameType{
			Name:     p.intern(tok.Text),
			NameSpan: tok.Span,
		}), true

	case token.StringLit:
		p.advance()
		return p.arenas.Types.NewLit(tok.Span, ast.LitString, p.intern(tok.Text)), true

	case token.NumberLit:
		p.advance()
		return p.arenas.Types.NewLit(tok.Span, ast.LitNumber, p.intern(tok.Text)), true

	case token.KwTrue:
		p.advance()
		return p.arenas.Types.NewLit(tok.Span, ast.LitTrue, p.intern(tok.Text)), true

	case token.KwFalse:
		p.advance()
		return p.arenas.Types.NewLit(tok.Span, ast.LitFalse, p.intern(tok.Text)), true

	case token.LBrace:
		return p.parseObjectType()

	case token.LParen:
		if p.atFunctionType() {
			return p.parseFunctionType()
		}
		open := p.advance()
		inner, ok := p.parseType()
		if !ok {
			p.err(diag.SynExpectType, "expected type after (")
			inner = p.arenas.Types.NewBad(p.getDiagnosticSpan())
		}
		closeTok, closed := p.expect(token.RParen, diag.SynUnclosedParen, "expected ) in type")
		span := open.Span.Cover(p.typeSpan(inner))
		if closed {
			span = span.Cover(closeTok.Span)
		}
		return p.arenas.Types.NewGroup(span, inner), true

	default:
		return ast.NoTypeID, false
	}
}

// parseTypeName parses `Name` or `Name<Args>`. In type position a <
// after a name is always an argument list.
func (p *Parser) parseTypeName() (ast.TypeID, bool) {
	nameTok := p.advance()
	name := ast.NameType{
		Name:     p.intern(nameTok.Text),
		NameSpan: nameTok.Span,
	}
	span := nameTok.Span
	if p.at(token.Lt) {
		args, argsSpan, ok := p.parseTypeArgs()
		if !ok {
			return p.arenas.Types.NewBad(span.Cover(p.lastSpan)), true
		}
		name.Args = args
		span = span.Cover(argsSpan)
	}
	return p.arenas.Types.NewName(span, name), true
}

// parseTypeArgs parses `<T, U>`. Nested generic closers lex as >> or
// >>>, so the closing bracket goes through the lexer's SplitGt.
func (p *Parser) parseTypeArgs() ([]ast.TypeID, source.Span, bool) {
	open := p.advance() // <
	span := open.Span
	var args []ast.TypeID
	for !p.at(token.EOF) {
		arg, ok := p.parseType()
		if !ok {
			p.err(diag.SynExpectType, "expected type argument")
			return args, span.Cover(p.lastSpan), false
		}
		args = append(args, arg)
		span = span.Cover(p.typeSpan(arg))
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	gt, ok := p.lx.SplitGt()
	if !ok {
		p.err(diag.SynUnclosedTypeArgs, "expected > to close type arguments")
		return args, span, false
	}
	return args, span.Cover(gt.Span), true
}

// parseObjectType parses `{ a: T; b?: U }`. Members may be separated
// by ; or , and a trailing separator is fine.
func (p *Parser) parseObjectType() (ast.TypeID, bool) {
	open := p.advance()
	var fields []ast.TypeField
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		field, ok := p.parseTypeField()
		if !ok {
			break
		}
		fields = append(fields, field)
		if _, ok := p.eat(token.Semicolon); ok {
			continue
		}
		if _, ok := p.eat(token.Comma); ok {
			continue
		}
		break
	}
	closeTok, closed := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected } to close object type")
	span := open.Span
	if closed {
		span = span.Cover(closeTok.Span)
	} else if len(fields) > 0 {
		span = span.Cover(fields[len(fields)-1].Span)
	}
	return p.arenas.Types.NewObject(span, fields), true
}

func (p *Parser) parseTypeField() (ast.TypeField, bool) {
	nameTok := p.lx.Peek()
	if nameTok.Kind != token.Ident && !nameTok.IsKeyword() {
		p.err(diag.SynExpectPropertyName, "expected property name in object type")
		return ast.TypeField{}, false
	}
	p.advance()
	field := ast.TypeField{
		Span:     nameTok.Span,
		Name:     p.intern(nameTok.Text),
		NameSpan: nameTok.Span,
	}
	if _, ok := p.eat(token.Question); ok {
		field.Optional = true
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected : after property name"); !ok {
		field.Type = p.arenas.Types.NewBad(p.getDiagnosticSpan())
		return field, true
	}
	ty, ok := p.parseType()
	if !ok {
		p.err(diag.SynExpectType, "expected property type")
		ty = p.arenas.Types.NewBad(p.getDiagnosticSpan())
	}
	field.Type = ty
	field.Span = field.Span.Cover(p.typeSpan(ty))
	return field, true
}

// parseFunctionType parses `(a: T, b) => R`.
func (p *Parser) parseFunctionType() (ast.TypeID, bool) {
	open := p.advance()
	var params []ast.FuncTypeParam
	for !p.at(token.RParen) && !p.at(token.EOF) {
		nameTok, ok := p.expect(token.Ident, diag.SynExpectParameter, "expected parameter name in function type")
		if !ok {
			break
		}
		param := ast.FuncTypeParam{
			Name:     p.intern(nameTok.Text),
			NameSpan: nameTok.Span,
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
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ) in function type")
	p.expect(token.FatArrow, diag.SynExpectArrow, "expected => in function type")
	ret, ok := p.parseType()
	if !ok {
		p.err(diag.SynExpectType, "expected return type in function type")
		ret = p.arenas.Types.NewBad(p.getDiagnosticSpan())
	}
	span := open.Span.Cover(p.typeSpan(ret))
	return p.arenas.Types.NewFunc(span, ast.FuncType{Params: params, Return: ret}), true
}

// atFunctionType disambiguates `(a: T) => R` from a parenthesized
// type at a ( in type position.
func (p *Parser) atFunctionType() bool {
	probe := p.lx.Clone()
	probe.Next() // (
	switch probe.Peek().Kind {
	case token.RParen:
		return true
	case token.Ident:
		probe.Next()
		switch probe.Peek().Kind {
		case token.Colon, token.Comma, token.Question:
			return true
		case token.RParen:
			probe.Next()
			return probe.Peek().Kind == token.FatArrow
		default:
			return false
		}
	default:
		return false
	}
}

// atTypeArgCall probes whether a < after a call target opens an
// explicit type-argument list followed by (, as opposed to a
// comparison. Only tokens that can appear inside a type keep the probe
// alive.
func (p *Parser) atTypeArgCall() bool {
	probe := p.lx.Clone()
	probe.Next() // <
	depth := 1
	for i := 0; i < probeCap; i++ {
		switch probe.Next().Kind {
		case token.Lt:
			depth++
		case token.Gt:
			depth--
			if depth == 0 {
				return probe.Peek().Kind == token.LParen
			}
		case token.Shr:
			depth -= 2
			if depth == 0 {
				return probe.Peek().Kind == token.LParen
			}
		case token.UShr:
			depth -= 3
			if depth == 0 {
				return probe.Peek().Kind == token.LParen
			}
		case token.Ident, token.KwNull, token.KwUndefined,
			token.KwTrue, token.KwFalse,
			token.StringLit, token.NumberLit,
			token.Comma, token.Pipe, token.Amp, token.Question,
			token.Colon, token.Semicolon, token.Dot, token.FatArrow,
			token.LBracket, token.RBracket,
			token.LParen, token.RParen,
			token.LBrace, token.RBrace:
			// still plausible type syntax
		default:
			return false
		}
		if depth < 0 {
			return false
		}
	}
	return false
}
