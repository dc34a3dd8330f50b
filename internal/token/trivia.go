package token

import "riptide/internal/source"

// TriviaKind classifies non-token source text.
type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	// TriviaDocBlock is a /** ... */ comment; kept distinct so tooling can
	// surface documentation.
	TriviaDocBlock
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "space"
	case TriviaNewline:
		return "newline"
	case TriviaLineComment:
		return "line comment"
	case TriviaBlockComment:
		return "block comment"
	case TriviaDocBlock:
		return "doc comment"
	default:
		return "unknown"
	}
}

// Trivia is a run of whitespace or a comment attached to the token that
// follows it.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
