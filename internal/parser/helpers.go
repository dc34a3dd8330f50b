package parser

import (
	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/fix"
	"riptide/internal/source"
	"riptide/internal/token"
)

// advance consumes the next token and remembers its span for
// diagnostics at EOF.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

// eat consumes the next token when it matches k.
func (p *Parser) eat(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// getDiagnosticSpan picks the span diagnostics should point at. At EOF
// the peeked span is empty, so point just past the last consumed token
// instead.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect consumes a token of kind k or reports and returns false. The
// stream does not advance on mismatch so the caller's resync sees the
// offending token.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.getDiagnosticSpan()
	p.report(code, diag.SevError, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

// expectSemi consumes the statement terminator. A missing semicolon
// reports but does not fail the construct, so one forgotten terminator
// costs one diagnostic instead of a cascade.
func (p *Parser) expectSemi() source.Span {
	if tok, ok := p.eat(token.Semicolon); ok {
		return tok.Span
	}
	sp := p.getDiagnosticSpan()
	suggestion := fix.InsertText("insert ';'", p.lastSpan.File, p.lastSpan.End, ";")
	p.reportFixes(diag.SynExpectSemicolon, diag.SevError, sp, "expected ;", []diag.Fix{suggestion})
	return p.lastSpan
}

func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	p.reportFixes(code, sev, sp, msg, nil)
}

func (p *Parser) reportFixes(code diag.Code, sev diag.Severity, sp source.Span, msg string, fixes []diag.Fix) {
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if p.opts.Reporter == nil || p.opts.Enough() {
		return
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil, fixes)
}

func (p *Parser) intern(s string) source.StringID {
	return p.arenas.Intern(s)
}

func (p *Parser) exprSpan(id ast.ExprID) source.Span {
	if ex := p.arenas.Exprs.Get(id); ex != nil {
		return ex.Span
	}
	return p.getDiagnosticSpan()
}

func (p *Parser) stmtSpan(id ast.StmtID) source.Span {
	if st := p.arenas.Stmts.Get(id); st != nil {
		return st.Span
	}
	return p.getDiagnosticSpan()
}

func (p *Parser) typeSpan(id ast.TypeID) source.Span {
	if tn := p.arenas.Types.Get(id); tn != nil {
		return tn.Span
	}
	return p.getDiagnosticSpan()
}

// memberName accepts an identifier or a keyword used as a property
// name; `obj.type` is legal.
func (p *Parser) memberName() (token.Token, bool) {
	tok := p.lx.Peek()
	if tok.Kind == token.Ident || tok.IsKeyword() {
		return p.advance(), true
	}
	return token.Token{}, false
}
