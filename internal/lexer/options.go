package lexer

import (
	"riptide/internal/diag"
	"riptide/internal/source"
)

// Options configure one lexing pass.
type Options struct {
	// Reporter receives lexical diagnostics. May be nil; scanning
	// continues either way.
	Reporter diag.Reporter
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter == nil {
		return
	}
	diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
}
