// Package parser builds the arena AST from a token stream. It is a
// recursive-descent parser with a Pratt expression core. Parse errors
// report through the diagnostics reporter, the parser resyncs at the
// next statement or declaration boundary, and the offending range is
// covered by a Bad placeholder node, so a parse always yields a
// complete tree over the whole input.
package parser

import (
	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/lexer"
	"riptide/internal/source"
	"riptide/internal/token"
)

// Options configure one parse.
type Options struct {
	// MaxErrors stops reporting (not parsing) once reached. Zero means
	// unlimited.
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error budget is used up.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Result is the outcome of parsing one file.
type Result struct {
	File     ast.FileID
	ErrCount uint
}

// Parser holds the state for parsing a single file.
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	opts     Options
	lastSpan source.Span
}

// ParseFile parses one file through an already constructed lexer into
// the builder's arenas.
func ParseFile(lx *lexer.Lexer, arenas *ast.Builder, opts Options) Result {
	p := Parser{
		lx:     lx,
		arenas: arenas,
		opts:   opts,
	}
	start := lx.Peek().Span
	items := p.parseItems()
	span := start.Cover(p.lx.Peek().Span)
	file := arenas.Files.New(span, items)
	return Result{File: file, ErrCount: p.opts.CurrentErrors}
}

func (p *Parser) parseItems() []ast.ItemID {
	var items []ast.ItemID
	for !p.at(token.EOF) {
		before := p.lx.Peek().Span
		item, ok := p.parseItem()
		if ok {
			items = append(items, item)
			continue
		}
		bad := p.resyncTop(before)
		items = append(items, bad)
	}
	return items
}

// parseItem dispatches on the leading token. Anything that does not
// start a declaration parses as a top-level statement.
func (p *Parser) parseItem() (ast.ItemID, bool) {
	switch p.lx.Peek().Kind {
	case token.KwImport:
		return p.parseImportItem()
	case token.KwExport:
		return p.parseExportedItem()
	case token.KwLet, token.KwConst, token.KwVar:
		return p.parseVarItem(false)
	case token.KwFunction:
		return p.parseFunctionItem(false)
	case token.KwType:
		return p.parseTypeAliasItem(false)
	case token.KwInterface:
		return p.parseInterfaceItem(false)
	default:
		stmt, ok := p.parseStmt()
		if !ok {
			return ast.NoItemID, false
		}
		span := p.arenas.Stmts.Get(stmt).Span
		return p.arenas.Items.NewStmt(span, stmt), true
	}
}

// parseExportedItem handles both `export { ... };` lists and the
// `export` modifier on declarations.
func (p *Parser) parseExportedItem() (ast.ItemID, bool) {
	kw := p.advance()
	switch p.lx.Peek().Kind {
	case token.LBrace:
		return p.parseExportList(kw.Span)
	case token.KwLet, token.KwConst, token.KwVar:
		return p.widenItem(kw.Span)(p.parseVarItem(true))
	case token.KwFunction:
		return p.widenItem(kw.Span)(p.parseFunctionItem(true))
	case token.KwType:
		return p.widenItem(kw.Span)(p.parseTypeAliasItem(true))
	case token.KwInterface:
		return p.widenItem(kw.Span)(p.parseInterfaceItem(true))
	default:
		p.err(diag.SynExpectDeclaration, "expected a declaration or { after export")
		return ast.NoItemID, false
	}
}

// widenItem stretches a parsed item's span to include the export
// keyword.
func (p *Parser) widenItem(kw source.Span) func(ast.ItemID, bool) (ast.ItemID, bool) {
	return func(id ast.ItemID, ok bool) (ast.ItemID, bool) {
		if ok {
			item := p.arenas.Items.Get(id)
			item.Span = kw.Cover(item.Span)
		}
		return id, ok
	}
}

// resyncTop skips to the next plausible declaration or statement start
// and returns a Bad item covering everything skipped. The first token
// is consumed unconditionally so recovery always makes progress.
func (p *Parser) resyncTop(from source.Span) ast.ItemID {
	span := from
	if !p.at(token.EOF) {
		tok := p.advance()
		span = span.Cover(tok.Span)
		if tok.Kind == token.Semicolon {
			return p.arenas.Items.NewBad(span)
		}
	}
	for !p.at(token.EOF) && !p.atItemStart() {
		tok := p.advance()
		span = span.Cover(tok.Span)
		if tok.Kind == token.Semicolon {
			break
		}
	}
	return p.arenas.Items.NewBad(span)
}

func (p *Parser) atItemStart() bool {
	switch p.lx.Peek().Kind {
	case token.KwImport, token.KwExport, token.KwLet, token.KwConst,
		token.KwVar, token.KwFunction, token.KwType, token.KwInterface,
		token.KwIf, token.KwWhile, token.KwFor, token.KwReturn,
		token.KwBreak, token.KwContinue, token.LBrace:
		return true
	default:
		return false
	}
}
