package driver

import (
	"riptide/internal/diag"
	"riptide/internal/lexer"
	"riptide/internal/source"
	"riptide/internal/token"
)

// TokenizeResult holds the token stream of one file together with its
// diagnostics.
type TokenizeResult struct {
	FileSet *source.FileSet
	FileID  source.FileID
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes a single file from disk. Lexical problems land in the
// bag; the error return covers I/O only.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(maxDiagnostics)
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	return &TokenizeResult{
		FileSet: fs,
		FileID:  fileID,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}
