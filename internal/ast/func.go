package ast

import "riptide/internal/source"

// Param is one function parameter.
//
// TypeSpan covers the optional marker and the annotation
// (`?: number`), the exact range the emitter drops. Empty when the
// parameter carries neither.
type Param struct {
	Span     source.Span
	Name     source.StringID
	NameSpan source.Span
	Optional bool
	Type     TypeID
	TypeSpan source.Span
}

// TypeParam is one generic type parameter, with an optional
// `extends` constraint.
type TypeParam struct {
	Span       source.Span
	Name       source.StringID
	NameSpan   source.Span
	Constraint TypeID
}

// Func is the shared payload of function declarations, function
// expressions and arrows.
//
// Exactly one of Body and ExprBody is set for arrows; declarations and
// function expressions always use Body. TypeParamsSpan and ReturnSpan
// cover the `<...>` list and the `: R` annotation for stripping and
// are empty when absent.
type Func struct {
	Span           source.Span
	Name           source.StringID
	NameSpan       source.Span
	TypeParams     []TypeParamID
	TypeParamsSpan source.Span
	Params         []ParamID
	Return         TypeID
	ReturnSpan     source.Span
	Body           StmtID
	ExprBody       ExprID
	IsArrow        bool
}

// IsAnonymous reports whether the function has no declared name.
func (f *Func) IsAnonymous() bool { return f.Name == source.NoStringID }

// Funcs stores function payloads together with the parameter and
// type-parameter payloads used by every declaration form.
type Funcs struct {
	arena      Arena[Func]
	params     Arena[Param]
	typeParams Arena[TypeParam]
}

// New allocates a function payload.
func (f *Funcs) New(fn Func) FuncID {
	return FuncID(f.arena.Allocate(fn))
}

// Get returns the function payload for id, or nil when id is NoFuncID.
func (f *Funcs) Get(id FuncID) *Func {
	return f.arena.Get(uint32(id))
}

// Len reports the number of stored functions.
func (f *Funcs) Len() int { return f.arena.Len() }

// NewParam allocates a parameter payload.
func (f *Funcs) NewParam(p Param) ParamID {
	return ParamID(f.params.Allocate(p))
}

// Param returns the parameter for id, or nil when id is NoParamID.
func (f *Funcs) Param(id ParamID) *Param {
	return f.params.Get(uint32(id))
}

// NewTypeParam allocates a type-parameter payload.
func (f *Funcs) NewTypeParam(tp TypeParam) TypeParamID {
	return TypeParamID(f.typeParams.Allocate(tp))
}

// TypeParam returns the type parameter for id, or nil when id is
// NoTypeParamID.
func (f *Funcs) TypeParam(id TypeParamID) *TypeParam {
	return f.typeParams.Get(uint32(id))
}
