package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident

	// KwAs represents the 'as' keyword.
	KwAs // as
	// KwBreak represents the 'break' keyword.
	KwBreak // break
	// KwConst represents the 'const' keyword.
	KwConst // const
	// KwContinue represents the 'continue' keyword.
	KwContinue // continue
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwExport represents the 'export' keyword.
	KwExport // export
	// KwExtends represents the 'extends' keyword.
	KwExtends // extends
	// KwFalse represents the 'false' keyword.
	KwFalse // false
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwFrom represents the 'from' keyword.
	KwFrom // from
	// KwFunction represents the 'function' keyword.
	KwFunction // function
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwImport represents the 'import' keyword.
	KwImport // import
	// KwIn represents the 'in' keyword.
	KwIn // in
	// KwInterface represents the 'interface' keyword.
	KwInterface // interface
	// KwLet represents the 'let' keyword.
	KwLet // let
	// KwNew represents the 'new' keyword.
	KwNew // new
	// KwNull represents the 'null' keyword.
	KwNull // null
	// KwOf represents the 'of' keyword.
	KwOf // of
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwTrue represents the 'true' keyword.
	KwTrue // true
	// KwType represents the 'type' keyword.
	KwType // type
	// KwTypeof represents the 'typeof' keyword.
	KwTypeof // typeof
	// KwUndefined represents the 'undefined' keyword.
	KwUndefined // undefined
	// KwVar represents the 'var' keyword.
	KwVar // var
	// KwWhile represents the 'while' keyword.
	KwWhile // while

	// NumberLit represents a numeric literal token.
	NumberLit
	// StringLit represents a single- or double-quoted string literal.
	StringLit
	// TemplateLit represents a template literal without interpolation holes.
	TemplateLit
	// TemplateHead represents the `...${ opening part of a template literal.
	TemplateHead
	// TemplateMiddle represents a }...${ middle part of a template literal.
	TemplateMiddle
	// TemplateTail represents the }...` closing part of a template literal.
	TemplateTail

	// Plus represents the plus operator token.
	Plus // +
	// Minus represents the minus operator token.
	Minus // -
	// Star represents the star operator token.
	Star // *
	// StarStar represents the exponentiation operator token.
	StarStar // **
	// Slash represents the slash operator token.
	Slash // /
	// Percent represents the percent operator token.
	Percent // %
	// Assign represents the assign operator token.
	Assign // =
	// PlusAssign represents the plus assign operator token.
	PlusAssign // +=
	// MinusAssign represents the minus assign operator token.
	MinusAssign // -=
	// StarAssign represents the star assign operator token.
	StarAssign // *=
	// SlashAssign represents the slash assign operator token.
	SlashAssign // /=
	// PercentAssign represents the percent assign operator token.
	PercentAssign // %=
	// EqEq represents the loose equality operator token.
	EqEq // ==
	// EqEqEq represents the strict equality operator token.
	EqEqEq // ===
	// Bang represents the logical not operator token.
	Bang // !
	// BangEq represents the loose inequality operator token.
	BangEq // !=
	// BangEqEq represents the strict inequality operator token.
	BangEqEq // !==
	// Lt represents the less-than operator token.
	Lt // <
	// LtEq represents the less-or-equal operator token.
	LtEq // <=
	// Gt represents the greater-than operator token.
	Gt // >
	// GtEq represents the greater-or-equal operator token.
	GtEq // >=
	// Shl represents the left shift operator token.
	Shl // <<
	// Shr represents the sign-propagating right shift operator token.
	Shr // >>
	// UShr represents the zero-fill right shift operator token.
	UShr // >>>
	// Amp represents the bitwise and operator token.
	Amp // &
	// Pipe represents the bitwise or operator token.
	Pipe // |
	// Caret represents the bitwise xor operator token.
	Caret // ^
	// Tilde represents the bitwise not operator token.
	Tilde // ~
	// AndAnd represents the logical and operator token.
	AndAnd // &&
	// OrOr represents the logical or operator token.
	OrOr // ||
	// QuestionQuestion represents the nullish coalescing operator token.
	QuestionQuestion // ??
	// Question represents the question mark token.
	Question // ?
	// QuestionDot represents the optional chaining token.
	QuestionDot // ?.
	// Colon represents the colon token.
	Colon // :
	// Semicolon represents the semicolon token.
	Semicolon // ;
	// Comma represents the comma token.
	Comma // ,
	// Dot represents the dot token.
	Dot // .
	// DotDotDot represents the spread/rest token.
	DotDotDot // ...
	// FatArrow represents the arrow token.
	FatArrow // =>
	// LParen represents the left parenthesis token.
	LParen // (
	// RParen represents the right parenthesis token.
	RParen // )
	// LBrace represents the left brace token.
	LBrace // {
	// RBrace represents the right brace token.
	RBrace // }
	// LBracket represents the left bracket token.
	LBracket // [
	// RBracket represents the right bracket token.
	RBracket // ]
)

var kindNames = map[Kind]string{
	Invalid:          "invalid",
	EOF:              "EOF",
	Ident:            "identifier",
	KwAs:             "as",
	KwBreak:          "break",
	KwConst:          "const",
	KwContinue:       "continue",
	KwElse:           "else",
	KwExport:         "export",
	KwExtends:        "extends",
	KwFalse:          "false",
	KwFor:            "for",
	KwFrom:           "from",
	KwFunction:       "function",
	KwIf:             "if",
	KwImport:         "import",
	KwIn:             "in",
	KwInterface:      "interface",
	KwLet:            "let",
	KwNew:            "new",
	KwNull:           "null",
	KwOf:             "of",
	KwReturn:         "return",
	KwTrue:           "true",
	KwType:           "type",
	KwTypeof:         "typeof",
	KwUndefined:      "undefined",
	KwVar:            "var",
	KwWhile:          "while",
	NumberLit:        "number literal",
	StringLit:        "string literal",
	TemplateLit:      "template literal",
	TemplateHead:     "template head",
	TemplateMiddle:   "template middle",
	TemplateTail:     "template tail",
	Plus:             "+",
	Minus:            "-",
	Star:             "*",
	StarStar:         "**",
	Slash:            "/",
	Percent:          "%",
	Assign:           "=",
	PlusAssign:       "+=",
	MinusAssign:      "-=",
	StarAssign:       "*=",
	SlashAssign:      "/=",
	PercentAssign:    "%=",
	EqEq:             "==",
	EqEqEq:           "===",
	Bang:             "!",
	BangEq:           "!=",
	BangEqEq:         "!==",
	Lt:               "<",
	LtEq:             "<=",
	Gt:               ">",
	GtEq:             ">=",
	Shl:              "<<",
	Shr:              ">>",
	UShr:             ">>>",
	Amp:              "&",
	Pipe:             "|",
	Caret:            "^",
	Tilde:            "~",
	AndAnd:           "&&",
	OrOr:             "||",
	QuestionQuestion: "??",
	Question:         "?",
	QuestionDot:      "?.",
	Colon:            ":",
	Semicolon:        ";",
	Comma:            ",",
	Dot:              ".",
	DotDotDot:        "...",
	FatArrow:         "=>",
	LParen:           "(",
	RParen:           ")",
	LBrace:           "{",
	RBrace:           "}",
	LBracket:         "[",
	RBracket:         "]",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}
