package ast

import "riptide/internal/source"

// DeclKind is the binding flavor of a variable declaration.
type DeclKind uint8

const (
	DeclLet DeclKind = iota
	DeclConst
	DeclVar
)

func (k DeclKind) String() string {
	switch k {
	case DeclLet:
		return "let"
	case DeclConst:
		return "const"
	case DeclVar:
		return "var"
	default:
		return "unknown"
	}
}

// VarDecl is the payload of a variable declaration, either a top-level
// item or a statement.
//
// TypeSpan covers the annotation including the leading colon
// (`: number`), which is exactly the range the emitter drops. It is
// empty when Type is NoTypeID.
type VarDecl struct {
	Kind     DeclKind
	Name     source.StringID
	NameSpan source.Span
	Type     TypeID
	TypeSpan source.Span
	Init     ExprID
}

// NewVar allocates a top-level variable declaration item.
func (it *Items) NewVar(span source.Span, exported bool, decl VarDecl) ItemID {
	payload := PayloadID(it.vars.Allocate(decl))
	return it.new(ItemVar, span, exported, payload)
}

// Var returns the payload of a variable declaration item.
func (it *Items) Var(id ItemID) (*VarDecl, bool) {
	item := it.Get(id)
	if item == nil || item.Kind != ItemVar {
		return nil, false
	}
	return it.vars.Get(uint32(item.Payload)), true
}
