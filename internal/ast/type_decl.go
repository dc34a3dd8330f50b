package ast

import "riptide/internal/source"

// TypeAliasDecl is the payload of `type Name<T> = ...;`.
type TypeAliasDecl struct {
	Name       source.StringID
	NameSpan   source.Span
	TypeParams []TypeParamID
	Aliased    TypeID
}

// InterfaceMember is one property of an interface body. Method
// shorthand `m(x: T): R;` is parsed into a function type annotation,
// so every member is name plus annotation.
type InterfaceMember struct {
	Span     source.Span
	Name     source.StringID
	NameSpan source.Span
	Optional bool
	Type     TypeID
}

// InterfaceDecl is the payload of an interface declaration.
type InterfaceDecl struct {
	Name       source.StringID
	NameSpan   source.Span
	TypeParams []TypeParamID
	Extends    []TypeID
	Members    []InterfaceMember
}

// NewTypeAlias allocates a type alias item.
func (it *Items) NewTypeAlias(span source.Span, exported bool, decl TypeAliasDecl) ItemID {
	payload := PayloadID(it.aliases.Allocate(decl))
	return it.new(ItemTypeAlias, span, exported, payload)
}

// TypeAlias returns the payload of a type alias item.
func (it *Items) TypeAlias(id ItemID) (*TypeAliasDecl, bool) {
	item := it.Get(id)
	if item == nil || item.Kind != ItemTypeAlias {
		return nil, false
	}
	return it.aliases.Get(uint32(item.Payload)), true
}

// NewInterface allocates an interface item.
func (it *Items) NewInterface(span source.Span, exported bool, decl InterfaceDecl) ItemID {
	payload := PayloadID(it.interfaces.Allocate(decl))
	return it.new(ItemInterface, span, exported, payload)
}

// Interface returns the payload of an interface item.
func (it *Items) Interface(id ItemID) (*InterfaceDecl, bool) {
	item := it.Get(id)
	if item == nil || item.Kind != ItemInterface {
		return nil, false
	}
	return it.interfaces.Get(uint32(item.Payload)), true
}
