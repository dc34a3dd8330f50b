package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"riptide/internal/source"
	"riptide/internal/token"
)

// FormatTokensPretty dumps a token stream one token per line:
//
//	<line>:<col>  <Kind>  <text>
//
// Trivia is not printed; the stream already carries it attached to tokens.
func FormatTokensPretty(w io.Writer, fs *source.FileSet, toks []token.Token) {
	for _, tok := range toks {
		start, _ := fs.Resolve(tok.Span)
		if tok.Text != "" {
			fmt.Fprintf(w, "%4d:%-3d %-16s %q\n", start.Line, start.Col, tok.Kind.String(), tok.Text)
		} else {
			fmt.Fprintf(w, "%4d:%-3d %s\n", start.Line, start.Col, tok.Kind.String())
		}
	}
}

type tokenJSON struct {
	Kind   string `json:"kind"`
	Text   string `json:"text,omitempty"`
	Offset uint32 `json:"offset"`
	End    uint32 `json:"end"`
	Line   uint32 `json:"line"`
	Col    uint32 `json:"col"`
}

type tokensOutput struct {
	File   string      `json:"file"`
	Tokens []tokenJSON `json:"tokens"`
}

// FormatTokensJSON dumps a token stream as an indented JSON document.
func FormatTokensJSON(w io.Writer, fs *source.FileSet, fileID source.FileID, toks []token.Token) error {
	out := tokensOutput{Tokens: make([]tokenJSON, 0, len(toks))}
	if int(fileID) < fs.Len() {
		out.File = fs.Get(fileID).FormatPath("auto", fs.BaseDir())
	}
	for _, tok := range toks {
		start, _ := fs.Resolve(tok.Span)
		out.Tokens = append(out.Tokens, tokenJSON{
			Kind:   tok.Kind.String(),
			Text:   tok.Text,
			Offset: tok.Span.Start,
			End:    tok.Span.End,
			Line:   start.Line,
			Col:    start.Col,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
