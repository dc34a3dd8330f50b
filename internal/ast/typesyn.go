package ast

import "riptide/internal/source"

// TypeSynKind discriminates type annotation syntax. These nodes are
// pure syntax; the checked type model lives in internal/types.
type TypeSynKind uint8

const (
	TypeSynInvalid TypeSynKind = iota
	// TypeSynName is a type reference, optionally with arguments:
	// `number`, `User`, `Box<string>`. Builtins are resolved by name
	// during checking, not during parsing.
	TypeSynName
	// TypeSynLit is a literal type: `"up"`, `42`, `true`.
	TypeSynLit
	// TypeSynObject is `{ a: T; b?: U }`.
	TypeSynObject
	// TypeSynArray is `T[]`.
	TypeSynArray
	// TypeSynFunc is `(x: T) => R`.
	TypeSynFunc
	// TypeSynUnion is `A | B`.
	TypeSynUnion
	// TypeSynIntersection is `A & B`.
	TypeSynIntersection
	// TypeSynGroup is `(T)`.
	TypeSynGroup
	// TypeSynBad is a placeholder produced by error recovery.
	TypeSynBad
)

var typeSynKindNames = map[TypeSynKind]string{
	TypeSynInvalid:      "invalid",
	TypeSynName:         "name",
	TypeSynLit:          "literal",
	TypeSynObject:       "object",
	TypeSynArray:        "array",
	TypeSynFunc:         "function",
	TypeSynUnion:        "union",
	TypeSynIntersection: "intersection",
	TypeSynGroup:        "group",
	TypeSynBad:          "bad",
}

func (k TypeSynKind) String() string {
	if s, ok := typeSynKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// TypeNode is one type annotation node.
type TypeNode struct {
	Kind    TypeSynKind
	Span    source.Span
	Payload PayloadID
}

// NameType is the payload of a type reference.
type NameType struct {
	Name     source.StringID
	NameSpan source.Span
	Args     []TypeID
}

// LitType is the payload of a literal type. Text keeps the raw
// spelling, quotes included for strings.
type LitType struct {
	Kind LitKind
	Text source.StringID
}

// TypeField is one property of an object type annotation.
type TypeField struct {
	Span     source.Span
	Name     source.StringID
	NameSpan source.Span
	Optional bool
	Type     TypeID
}

// ObjectType is the payload of an object type annotation.
type ObjectType struct {
	Fields []TypeField
}

// ArrayType is the payload of `T[]`.
type ArrayType struct {
	Elem TypeID
}

// FuncTypeParam is one parameter of a function type annotation.
type FuncTypeParam struct {
	Name     source.StringID
	NameSpan source.Span
	Type     TypeID
}

// FuncType is the payload of `(x: T) => R`.
type FuncType struct {
	Params []FuncTypeParam
	Return TypeID
}

// UnionType is the payload of `A | B | C`, members in source order.
type UnionType struct {
	Members []TypeID
}

// IntersectionType is the payload of `A & B`, members in source order.
type IntersectionType struct {
	Members []TypeID
}

// GroupType is the payload of a parenthesized type.
type GroupType struct {
	Inner TypeID
}

// Types stores type annotation nodes and their per-kind payloads.
type Types struct {
	arena         Arena[TypeNode]
	names         Arena[NameType]
	lits          Arena[LitType]
	objects       Arena[ObjectType]
	arrays        Arena[ArrayType]
	funcs         Arena[FuncType]
	unions        Arena[UnionType]
	intersections Arena[IntersectionType]
	groups        Arena[GroupType]
}

func (t *Types) new(kind TypeSynKind, span source.Span, payload PayloadID) TypeID {
	return TypeID(t.arena.Allocate(TypeNode{Kind: kind, Span: span, Payload: payload}))
}

// Get returns the annotation header for id, or nil when id is
// NoTypeID.
func (t *Types) Get(id TypeID) *TypeNode {
	return t.arena.Get(uint32(id))
}

// Len reports the number of stored annotation nodes.
func (t *Types) Len() int { return t.arena.Len() }

// NewName allocates a type reference.
func (t *Types) NewName(span source.Span, name NameType) TypeID {
	payload := PayloadID(t.names.Allocate(name))
	return t.new(TypeSynName, span, payload)
}

// Name returns the payload of a type reference.
func (t *Types) Name(id TypeID) (*NameType, bool) {
	n := t.Get(id)
	if n == nil || n.Kind != TypeSynName {
		return nil, false
	}
	return t.names.Get(uint32(n.Payload)), true
}

// NewLit allocates a literal type.
func (t *Types) NewLit(span source.Span, kind LitKind, text source.StringID) TypeID {
	payload := PayloadID(t.lits.Allocate(LitType{Kind: kind, Text: text}))
	return t.new(TypeSynLit, span, payload)
}

// Lit returns the payload of a literal type.
func (t *Types) Lit(id TypeID) (*LitType, bool) {
	n := t.Get(id)
	if n == nil || n.Kind != TypeSynLit {
		return nil, false
	}
	return t.lits.Get(uint32(n.Payload)), true
}

// NewObject allocates an object type annotation.
func (t *Types) NewObject(span source.Span, fields []TypeField) TypeID {
	payload := PayloadID(t.objects.Allocate(ObjectType{Fields: fields}))
	return t.new(TypeSynObject, span, payload)
}

// Object returns the payload of an object type annotation.
func (t *Types) Object(id TypeID) (*ObjectType, bool) {
	n := t.Get(id)
	if n == nil || n.Kind != TypeSynObject {
		return nil, false
	}
	return t.objects.Get(uint32(n.Payload)), true
}

// NewArray allocates an array type annotation.
func (t *Types) NewArray(span source.Span, elem TypeID) TypeID {
	payload := PayloadID(t.arrays.Allocate(ArrayType{Elem: elem}))
	return t.new(TypeSynArray, span, payload)
}

// Array returns the payload of an array type annotation.
func (t *Types) Array(id TypeID) (*ArrayType, bool) {
	n := t.Get(id)
	if n == nil || n.Kind != TypeSynArray {
		return nil, false
	}
	return t.arrays.Get(uint32(n.Payload)), true
}

// NewFunc allocates a function type annotation.
func (t *Types) NewFunc(span source.Span, fn FuncType) TypeID {
	payload := PayloadID(t.funcs.Allocate(fn))
	return t.new(TypeSynFunc, span, payload)
}

// Func returns the payload of a function type annotation.
func (t *Types) Func(id TypeID) (*FuncType, bool) {
	n := t.Get(id)
	if n == nil || n.Kind != TypeSynFunc {
		return nil, false
	}
	return t.funcs.Get(uint32(n.Payload)), true
}

// NewUnion allocates a union annotation.
func (t *Types) NewUnion(span source.Span, members []TypeID) TypeID {
	payload := PayloadID(t.unions.Allocate(UnionType{Members: members}))
	return t.new(TypeSynUnion, span, payload)
}

// Union returns the payload of a union annotation.
func (t *Types) Union(id TypeID) (*UnionType, bool) {
	n := t.Get(id)
	if n == nil || n.Kind != TypeSynUnion {
		return nil, false
	}
	return t.unions.Get(uint32(n.Payload)), true
}

// NewIntersection allocates an intersection annotation.
func (t *Types) NewIntersection(span source.Span, members []TypeID) TypeID {
	payload := PayloadID(t.intersections.Allocate(IntersectionType{Members: members}))
	return t.new(TypeSynIntersection, span, payload)
}

// Intersection returns the payload of an intersection annotation.
func (t *Types) Intersection(id TypeID) (*IntersectionType, bool) {
	n := t.Get(id)
	if n == nil || n.Kind != TypeSynIntersection {
		return nil, false
	}
	return t.intersections.Get(uint32(n.Payload)), true
}

// NewGroup allocates a parenthesized type annotation.
func (t *Types) NewGroup(span source.Span, inner TypeID) TypeID {
	payload := PayloadID(t.groups.Allocate(GroupType{Inner: inner}))
	return t.new(TypeSynGroup, span, payload)
}

// Group returns the payload of a parenthesized type annotation.
func (t *Types) Group(id TypeID) (*GroupType, bool) {
	n := t.Get(id)
	if n == nil || n.Kind != TypeSynGroup {
		return nil, false
	}
	return t.groups.Get(uint32(n.Payload)), true
}

// NewBad allocates a recovery placeholder covering span.
func (t *Types) NewBad(span source.Span) TypeID {
	return t.new(TypeSynBad, span, NoPayloadID)
}

// UnwrapGroup strips grouping from an annotation.
func (t *Types) UnwrapGroup(id TypeID) TypeID {
	for {
		n := t.Get(id)
		if n == nil || n.Kind != TypeSynGroup {
			return id
		}
		g := t.groups.Get(uint32(n.Payload))
		if g == nil || !g.Inner.IsValid() {
			return id
		}
		id = g.Inner
	}
}
