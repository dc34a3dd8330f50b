package token

var keywords = map[string]Kind{
	"as":        KwAs,
	"break":     KwBreak,
	"const":     KwConst,
	"continue":  KwContinue,
	"else":      KwElse,
	"export":    KwExport,
	"extends":   KwExtends,
	"false":     KwFalse,
	"for":       KwFor,
	"from":      KwFrom,
	"function":  KwFunction,
	"if":        KwIf,
	"import":    KwImport,
	"in":        KwIn,
	"interface": KwInterface,
	"let":       KwLet,
	"new":       KwNew,
	"null":      KwNull,
	"of":        KwOf,
	"return":    KwReturn,
	"true":      KwTrue,
	"type":      KwType,
	"typeof":    KwTypeof,
	"undefined": KwUndefined,
	"var":       KwVar,
	"while":     KwWhile,
}

// LookupKeyword maps identifier text to its keyword kind. Keywords are
// case-sensitive; only lowercase forms are recognized.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
