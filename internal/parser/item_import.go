package parser

import (
	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/lexer"
	"riptide/internal/source"
	"riptide/internal/token"
)

// parseImportItem parses the clause forms
//
//	import { a, b as c } from "./mod";
//	import * as ns from "./mod";
//	import def from "./mod";
//	import "./mod";
//
// A default import binds the whole module object, same as a namespace
// import; the dialect has no default exports.
func (p *Parser) parseImportItem() (ast.ItemID, bool) {
	kw := p.advance()
	var decl ast.ImportDecl

	switch p.lx.Peek().Kind {
	case token.StringLit:
		// Bare import for side effects.
		mod := p.advance()
		decl.Module = p.intern(lexer.Unescape(trimQuotes(mod.Text)))
		decl.ModuleSpan = mod.Span
		end := p.expectSemi()
		return p.arenas.Items.NewImport(kw.Span.Cover(mod.Span).Cover(end), decl), true

	case token.LBrace:
		p.advance()
		for !p.at(token.RBrace) && !p.at(token.EOF) {
			spec, ok := p.parseImportSpec()
			if !ok {
				break
			}
			decl.Specs = append(decl.Specs, spec)
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
		p.expect(token.RBrace, diag.SynUnclosedBrace, "expected } to close import clause")

	case token.Star:
		p.advance()
		p.expect(token.KwAs, diag.SynUnexpectedToken, "expected as after *")
		ns, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected namespace name")
		if ok {
			decl.Namespace = p.intern(ns.Text)
			decl.NamespaceSpan = ns.Span
		}

	case token.Ident:
		def := p.advance()
		decl.Namespace = p.intern(def.Text)
		decl.NamespaceSpan = def.Span

	default:
		p.err(diag.SynUnexpectedToken, "expected import clause or module specifier")
		return ast.NoItemID, false
	}

	p.expect(token.KwFrom, diag.SynExpectFrom, "expected from")
	mod, ok := p.expect(token.StringLit, diag.SynExpectModuleSpecifier, "expected module specifier string")
	if ok {
		decl.Module = p.intern(lexer.Unescape(trimQuotes(mod.Text)))
		decl.ModuleSpan = mod.Span
	}
	end := p.expectSemi()

	span := kw.Span.Cover(mod.Span).Cover(end)
	return p.arenas.Items.NewImport(span, decl), true
}

func (p *Parser) parseImportSpec() (ast.ImportSpec, bool) {
	imported, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected imported name")
	if !ok {
		return ast.ImportSpec{}, false
	}
	spec := ast.ImportSpec{
		Imported:     p.intern(imported.Text),
		ImportedSpan: imported.Span,
		Local:        p.intern(imported.Text),
		LocalSpan:    imported.Span,
	}
	if _, ok := p.eat(token.KwAs); ok {
		local, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected local name after as")
		if !ok {
			return spec, true
		}
		spec.Local = p.intern(local.Text)
		spec.LocalSpan = local.Span
	}
	return spec, true
}

// parseExportList parses `export { a, b as c };`; the export keyword
// is already consumed.
func (p *Parser) parseExportList(kwSpan source.Span) (ast.ItemID, bool) {
	p.advance() // {
	var list ast.ExportList
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		local, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected exported name")
		if !ok {
			break
		}
		spec := ast.ExportSpec{
			Local:        p.intern(local.Text),
			LocalSpan:    local.Span,
			Exported:     p.intern(local.Text),
			ExportedSpan: local.Span,
		}
		if _, ok := p.eat(token.KwAs); ok {
			alias, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected export alias after as")
			if ok {
				spec.Exported = p.intern(alias.Text)
				spec.ExportedSpan = alias.Span
			}
		}
		list.Specs = append(list.Specs, spec)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	closeTok, closed := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected } to close export list")
	end := p.expectSemi()

	span := kwSpan
	if closed {
		span = span.Cover(closeTok.Span)
	}
	span = span.Cover(end)
	return p.arenas.Items.NewExport(span, list), true
}
