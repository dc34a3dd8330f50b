package lexer_test

import (
	"testing"

	"riptide/internal/diag"
	"riptide/internal/lexer"
	"riptide/internal/source"
	"riptide/internal/token"
)

func makeLexer(t *testing.T, input string) (*lexer.Lexer, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rt", []byte(input))
	bag := diag.NewBag(64)
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx, bag
}

func collectKinds(lx *lexer.Lexer) []token.Kind {
	var kinds []token.Kind
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return kinds
		}
		kinds = append(kinds, tok.Kind)
	}
}

func TestTokenKinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Kind
	}{
		{
			"declaration",
			"let x: number = 1;",
			[]token.Kind{token.KwLet, token.Ident, token.Colon, token.Ident, token.Assign, token.NumberLit, token.Semicolon},
		},
		{
			"keywords vs identifiers",
			"const interface2 = typeof undefined",
			[]token.Kind{token.KwConst, token.Ident, token.Assign, token.KwTypeof, token.KwUndefined},
		},
		{
			"builtin type names stay identifiers",
			"number string boolean any unknown never void",
			[]token.Kind{token.Ident, token.Ident, token.Ident, token.Ident, token.Ident, token.Ident, token.Ident},
		},
		{
			"three byte operators",
			"a === b !== c >>> d",
			[]token.Kind{token.Ident, token.EqEqEq, token.Ident, token.BangEqEq, token.Ident, token.UShr, token.Ident},
		},
		{
			"spread and arrow",
			"(...xs) => xs",
			[]token.Kind{token.LParen, token.DotDotDot, token.Ident, token.RParen, token.FatArrow, token.Ident},
		},
		{
			"optional chaining and coalescing",
			"a?.b ?? c",
			[]token.Kind{token.Ident, token.QuestionDot, token.Ident, token.QuestionQuestion, token.Ident},
		},
		{
			"conditional keeps dot with number",
			"x ?.3: y",
			[]token.Kind{token.Ident, token.Question, token.NumberLit, token.Colon, token.Ident},
		},
		{
			"exponent and compound assign",
			"a **= b",
			[]token.Kind{token.Ident, token.StarStar, token.Assign, token.Ident},
		},
		{
			"compound assigns",
			"a += b -= c *= d /= e %= f",
			[]token.Kind{token.Ident, token.PlusAssign, token.Ident, token.MinusAssign, token.Ident, token.StarAssign, token.Ident, token.SlashAssign, token.Ident, token.PercentAssign, token.Ident},
		},
		{
			"shifts and relational",
			"a << b >> c < d > e",
			[]token.Kind{token.Ident, token.Shl, token.Ident, token.Shr, token.Ident, token.Lt, token.Ident, token.Gt, token.Ident},
		},
		{
			"numbers",
			"0 42 1.5 .5 1. 0b10 0o17 0xFF 1_000 1e-3",
			[]token.Kind{token.NumberLit, token.NumberLit, token.NumberLit, token.NumberLit, token.NumberLit, token.NumberLit, token.NumberLit, token.NumberLit, token.NumberLit, token.NumberLit},
		},
		{
			"number then spread",
			"[1...xs]",
			[]token.Kind{token.LBracket, token.NumberLit, token.DotDotDot, token.Ident, token.RBracket},
		},
		{
			"strings",
			`"hi" 'there'`,
			[]token.Kind{token.StringLit, token.StringLit},
		},
		{
			"template without holes",
			"`plain`",
			[]token.Kind{token.TemplateLit},
		},
		{
			"template head stops at hole",
			"`a${x",
			[]token.Kind{token.TemplateHead, token.Ident},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx, bag := makeLexer(t, tt.input)
			got := collectKinds(lx)
			if len(got) != len(tt.want) {
				t.Fatalf("token count = %d, want %d\n got: %v\nwant: %v\nerrs: %v",
					len(got), len(tt.want), got, tt.want, bag.Items())
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("token %d = %v, want %v (input %q)", i, got[i], tt.want[i], tt.input)
				}
			}
			if bag.HasErrors() {
				t.Fatalf("unexpected errors: %v", bag.Items())
			}
		})
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
	}{
		{"unterminated string", `"abc`, diag.LexUnterminatedString},
		{"newline in string", "\"ab\ncd\"", diag.LexUnterminatedString},
		{"bad escape", `"a\qb"`, diag.LexBadEscape},
		{"short hex escape", `"\x1"`, diag.LexBadEscape},
		{"short unicode escape", `"\u12"`, diag.LexBadEscape},
		{"empty braced unicode", `"\u{}"`, diag.LexBadEscape},
		{"unterminated template", "`abc", diag.LexUnterminatedTemplate},
		{"unterminated block comment", "/* abc", diag.LexUnterminatedBlockComment},
		{"bad binary number", "0b2", diag.LexBadNumber},
		{"bad exponent", "1e+", diag.LexBadNumber},
		{"unknown character", "let #x", diag.LexUnknownChar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx, bag := makeLexer(t, tt.input)
			collectKinds(lx)
			found := false
			for _, d := range bag.Items() {
				if d.Code == tt.code {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected %s for %q, got %v", tt.code.ID(), tt.input, bag.Items())
			}
		})
	}
}

func TestStringTokenText(t *testing.T) {
	lx, _ := makeLexer(t, `'it\'s'`)
	tok := lx.Next()
	if tok.Kind != token.StringLit {
		t.Fatalf("kind = %v, want string literal", tok.Kind)
	}
	if tok.Text != `'it\'s'` {
		t.Fatalf("text = %q, want the raw source slice", tok.Text)
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, "plain"},
		{`a\nb`, "a\nb"},
		{`tab\there`, "tab\there"},
		{`quote\"q`, `quote"q`},
		{`back\\slash`, `back\slash`},
		{`\x41B`, "AB"},
		{`A`, "A"},
		{`\u{1F600}`, "\U0001F600"},
		{"line\\\ncont", "linecont"},
		{`dollar\$x`, "dollar$x"},
	}
	for _, tt := range tests {
		if got := lexer.Unescape(tt.in); got != tt.want {
			t.Errorf("Unescape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTemplateContinuation(t *testing.T) {
	lx, bag := makeLexer(t, "`a ${x} b ${y} c`")

	head := lx.Next()
	if head.Kind != token.TemplateHead || head.Text != "`a ${" {
		t.Fatalf("head = %v %q", head.Kind, head.Text)
	}
	if x := lx.Next(); x.Kind != token.Ident || x.Text != "x" {
		t.Fatalf("first hole = %v %q", x.Kind, x.Text)
	}

	mid, ok := lx.ScanTemplateContinue()
	if !ok || mid.Kind != token.TemplateMiddle || mid.Text != "} b ${" {
		t.Fatalf("middle = %v %q ok=%v", mid.Kind, mid.Text, ok)
	}
	if y := lx.Next(); y.Kind != token.Ident || y.Text != "y" {
		t.Fatalf("second hole = %v %q", y.Kind, y.Text)
	}

	tail, ok := lx.ScanTemplateContinue()
	if !ok || tail.Kind != token.TemplateTail || tail.Text != "} c`" {
		t.Fatalf("tail = %v %q ok=%v", tail.Kind, tail.Text, ok)
	}
	if tok := lx.Next(); tok.Kind != token.EOF {
		t.Fatalf("after tail = %v, want EOF", tok.Kind)
	}
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
}

func TestTemplateContinueRefusesNonBrace(t *testing.T) {
	lx, _ := makeLexer(t, "`a ${x` ")
	lx.Next() // head
	lx.Next() // x
	if _, ok := lx.ScanTemplateContinue(); ok {
		t.Fatal("continuation accepted a token that is not }")
	}
}

func TestSplitGt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		// kinds produced by SplitGt followed by draining Next.
		want []token.Kind
	}{
		{"plain gt", "> x", []token.Kind{token.Gt, token.Ident}},
		{"shift splits", ">> x", []token.Kind{token.Gt, token.Gt, token.Ident}},
		{"unsigned shift splits", ">>> x", []token.Kind{token.Gt, token.Shr, token.Ident}},
		{"gteq splits", ">= x", []token.Kind{token.Gt, token.Assign, token.Ident}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx, _ := makeLexer(t, tt.input)
			gt, ok := lx.SplitGt()
			if !ok {
				t.Fatal("SplitGt refused")
			}
			got := []token.Kind{gt.Kind}
			got = append(got, collectKinds(lx)...)
			if len(got) != len(tt.want) {
				t.Fatalf("kinds = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("kinds = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSplitGtPreservesSpans(t *testing.T) {
	lx, _ := makeLexer(t, "Box<Box<T>>")
	for range 5 {
		lx.Next() // Box < Box < T
	}
	first, ok := lx.SplitGt()
	if !ok || first.Kind != token.Gt {
		t.Fatalf("first split = %v ok=%v", first.Kind, ok)
	}
	second, ok := lx.SplitGt()
	if !ok || second.Kind != token.Gt {
		t.Fatalf("second split = %v ok=%v", second.Kind, ok)
	}
	if first.Span.End != second.Span.Start {
		t.Fatalf("split spans not adjacent: %v then %v", first.Span, second.Span)
	}
}

func TestLeadingTrivia(t *testing.T) {
	lx, _ := makeLexer(t, "  // note\nlet x")
	tok := lx.Next()
	if tok.Kind != token.KwLet {
		t.Fatalf("kind = %v, want let", tok.Kind)
	}
	var kinds []token.TriviaKind
	for _, tr := range tok.Leading {
		kinds = append(kinds, tr.Kind)
	}
	want := []token.TriviaKind{token.TriviaSpace, token.TriviaLineComment, token.TriviaNewline}
	if len(kinds) != len(want) {
		t.Fatalf("trivia = %v, want %v", kinds, want)
	}
	for i := range kinds {
		if kinds[i] != want[i] {
			t.Fatalf("trivia = %v, want %v", kinds, want)
		}
	}
}

func TestUnicodeIdentifierNormalization(t *testing.T) {
	// U+00E9 precomposed vs e + U+0301 combining acute.
	lx1, _ := makeLexer(t, "café")
	lx2, _ := makeLexer(t, "café")
	a, b := lx1.Next(), lx2.Next()
	if a.Kind != token.Ident || b.Kind != token.Ident {
		t.Fatalf("kinds = %v, %v, want identifiers", a.Kind, b.Kind)
	}
	if a.Text != b.Text {
		t.Fatalf("normalized texts differ: %q vs %q", a.Text, b.Text)
	}
}

func TestEOFIsSticky(t *testing.T) {
	lx, _ := makeLexer(t, "x")
	lx.Next()
	for range 3 {
		if tok := lx.Next(); tok.Kind != token.EOF {
			t.Fatalf("kind = %v, want EOF", tok.Kind)
		}
	}
}

func TestErrorRecoveryContinuesScanning(t *testing.T) {
	lx, bag := makeLexer(t, "let # x = 1")
	kinds := collectKinds(lx)
	want := []token.Kind{token.KwLet, token.Invalid, token.Ident, token.Assign, token.NumberLit}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range kinds {
		if kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}
	if !bag.HasErrors() {
		t.Fatal("expected an unknown character error")
	}
}
