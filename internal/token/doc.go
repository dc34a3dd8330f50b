// Package token defines lexical token kinds and trivia for the riptide
// front end.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Comments and whitespace never appear in the main token stream; they are
//     carried as leading Trivia on the following token.
//   - Template literals with interpolation are lexed as Head/Middle/Tail
//     parts; the expressions between them come from the regular token stream.
//   - Built-in type names (number, string, boolean, any, unknown, never,
//     void) are identifiers. They are recognized by the semantic layer, not
//     the lexer.
package token
