package ast

import "riptide/internal/source"

// ExprKind discriminates expressions.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprIdent
	ExprLit
	ExprTemplate
	ExprArray
	ExprObject
	ExprArrow
	ExprFunction
	ExprCall
	ExprNew
	ExprMember
	ExprIndex
	ExprUnary
	ExprBinary
	ExprAssign
	ExprCond
	ExprGroup
	// ExprBad is a placeholder produced by error recovery.
	ExprBad
)

var exprKindNames = map[ExprKind]string{
	ExprInvalid:  "invalid",
	ExprIdent:    "ident",
	ExprLit:      "literal",
	ExprTemplate: "template",
	ExprArray:    "array",
	ExprObject:   "object",
	ExprArrow:    "arrow",
	ExprFunction: "function",
	ExprCall:     "call",
	ExprNew:      "new",
	ExprMember:   "member",
	ExprIndex:    "index",
	ExprUnary:    "unary",
	ExprBinary:   "binary",
	ExprAssign:   "assign",
	ExprCond:     "conditional",
	ExprGroup:    "group",
	ExprBad:      "bad",
}

func (k ExprKind) String() string {
	if s, ok := exprKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Expr is one expression. Payload indexes the arena matching Kind; bad
// expressions carry no payload.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

// LitKind discriminates literal expressions.
type LitKind uint8

const (
	LitNumber LitKind = iota
	LitString
	LitTrue
	LitFalse
	LitNull
	LitUndefined
)

func (k LitKind) String() string {
	switch k {
	case LitNumber:
		return "number"
	case LitString:
		return "string"
	case LitTrue:
		return "true"
	case LitFalse:
		return "false"
	case LitNull:
		return "null"
	case LitUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// UnaryOp is a prefix operator.
type UnaryOp uint8

const (
	UnaryNeg UnaryOp = iota
	UnaryPlus
	UnaryNot
	UnaryBitNot
	UnaryTypeof
)

var unaryOpNames = map[UnaryOp]string{
	UnaryNeg:    "-",
	UnaryPlus:   "+",
	UnaryNot:    "!",
	UnaryBitNot: "~",
	UnaryTypeof: "typeof",
}

func (op UnaryOp) String() string {
	if s, ok := unaryOpNames[op]; ok {
		return s
	}
	return "unknown"
}

// BinaryOp is an infix operator. Assignment is a separate node kind.
type BinaryOp uint8

const (
	// Arithmetic.
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinPow

	// Bitwise.
	BinBitAnd
	BinBitOr
	BinBitXor
	BinShl
	BinShr
	BinUShr

	// Logical.
	BinLogicalAnd
	BinLogicalOr
	BinNullish

	// Comparison.
	BinEq
	BinNotEq
	BinStrictEq
	BinStrictNotEq
	BinLess
	BinLessEq
	BinGreater
	BinGreaterEq
)

var binaryOpNames = map[BinaryOp]string{
	BinAdd:         "+",
	BinSub:         "-",
	BinMul:         "*",
	BinDiv:         "/",
	BinMod:         "%",
	BinPow:         "**",
	BinBitAnd:      "&",
	BinBitOr:       "|",
	BinBitXor:      "^",
	BinShl:         "<<",
	BinShr:         ">>",
	BinUShr:        ">>>",
	BinLogicalAnd:  "&&",
	BinLogicalOr:   "||",
	BinNullish:     "??",
	BinEq:          "==",
	BinNotEq:       "!=",
	BinStrictEq:    "===",
	BinStrictNotEq: "!==",
	BinLess:        "<",
	BinLessEq:      "<=",
	BinGreater:     ">",
	BinGreaterEq:   ">=",
}

func (op BinaryOp) String() string {
	if s, ok := binaryOpNames[op]; ok {
		return s
	}
	return "unknown"
}

// IsComparison reports whether op yields boolean.
func (op BinaryOp) IsComparison() bool {
	return op >= BinEq && op <= BinGreaterEq
}

// IsEquality reports whether op is one of == != === !==.
func (op BinaryOp) IsEquality() bool {
	return op >= BinEq && op <= BinStrictNotEq
}

// IsLogical reports whether op short-circuits.
func (op BinaryOp) IsLogical() bool {
	return op == BinLogicalAnd || op == BinLogicalOr || op == BinNullish
}

// AssignOp is an assignment operator.
type AssignOp uint8

const (
	AssignSimple AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
)

var assignOpNames = map[AssignOp]string{
	AssignSimple: "=",
	AssignAdd:    "+=",
	AssignSub:    "-=",
	AssignMul:    "*=",
	AssignDiv:    "/=",
	AssignMod:    "%=",
}

func (op AssignOp) String() string {
	if s, ok := assignOpNames[op]; ok {
		return s
	}
	return "unknown"
}

// BinaryBase returns the arithmetic operator a compound assignment
// desugars to, and false for simple assignment.
func (op AssignOp) BinaryBase() (BinaryOp, bool) {
	switch op {
	case AssignAdd:
		return BinAdd, true
	case AssignSub:
		return BinSub, true
	case AssignMul:
		return BinMul, true
	case AssignDiv:
		return BinDiv, true
	case AssignMod:
		return BinMod, true
	default:
		return BinAdd, false
	}
}

// IdentExpr is the payload of an identifier reference.
type IdentExpr struct {
	Name source.StringID
}

// LitExpr is the payload of a literal. Text holds the raw source
// spelling; for strings it keeps the quotes.
type LitExpr struct {
	Kind LitKind
	Text source.StringID
}

// TemplatePart is one cooked text chunk of a template literal. Span
// covers the chunk including its backtick or brace delimiters.
type TemplatePart struct {
	Cooked source.StringID
	Span   source.Span
}

// TemplateExpr is the payload of a template literal. Parts always has
// len(Exprs)+1 entries; a template with no substitutions has one part
// and no exprs.
type TemplateExpr struct {
	Parts []TemplatePart
	Exprs []ExprID
}

// ArrayExpr is the payload of an array literal.
type ArrayExpr struct {
	Elems []ExprID
}

// ObjectField is one property of an object literal. Shorthand `{ x }`
// keeps Value pointing at the synthesized identifier expression.
type ObjectField struct {
	Span      source.Span
	Name      source.StringID
	NameSpan  source.Span
	Value     ExprID
	Shorthand bool
}

// ObjectExpr is the payload of an object literal.
type ObjectExpr struct {
	Fields []ObjectField
}

// FuncExpr is the payload of arrow and function expressions; the
// signature and body live in the Funcs aggregate.
type FuncExpr struct {
	Fn FuncID
}

// CallExpr is the payload of a call. TypeArgsSpan covers the explicit
// `<...>` argument list for stripping and is empty when absent.
type CallExpr struct {
	Callee       ExprID
	TypeArgs     []TypeID
	TypeArgsSpan source.Span
	Args         []ExprID
}

// NewExpr is the payload of `new Callee(args)`.
type NewExpr struct {
	Callee ExprID
	Args   []ExprID
}

// MemberExpr is the payload of `obj.name` and `obj?.name`.
type MemberExpr struct {
	Object   ExprID
	Name     source.StringID
	NameSpan source.Span
	Optional bool
}

// IndexExpr is the payload of `obj[index]`.
type IndexExpr struct {
	Object ExprID
	Index  ExprID
}

// UnaryExpr is the payload of a prefix operation.
type UnaryExpr struct {
	Op      UnaryOp
	Operand ExprID
}

// BinaryExpr is the payload of an infix operation.
type BinaryExpr struct {
	Op    BinaryOp
	Left  ExprID
	Right ExprID
}

// AssignExpr is the payload of an assignment.
type AssignExpr struct {
	Op     AssignOp
	Target ExprID
	Value  ExprID
}

// CondExpr is the payload of `cond ? then : else`.
type CondExpr struct {
	Cond ExprID
	Then ExprID
	Else ExprID
}

// GroupExpr is the payload of a parenthesized expression. The span of
// the header includes the parens; Inner does not.
type GroupExpr struct {
	Inner ExprID
}
