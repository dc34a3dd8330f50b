package types

import "riptide/internal/source"

// TypeParamInfo stores metadata for a generic parameter. Constraint is
// NoTypeID when the declaration has no extends clause, which checks as
// an unknown upper bound.
type TypeParamInfo struct {
	Name       source.StringID
	Constraint TypeID
}

// RegisterTypeParam allocates a fresh type parameter. Each declaration
// site gets its own identity even when names collide.
func (in *Interner) RegisterTypeParam(name source.StringID, constraint TypeID) TypeID {
	slot := in.appendTypeParamInfo(TypeParamInfo{Name: name, Constraint: constraint})
	return in.internRaw(Type{Kind: KindTypeParam, Payload: slot})
}

// SetTypeParamConstraint fills a constraint after registration, for
// bounds that mention the parameter itself.
func (in *Interner) SetTypeParamConstraint(id, constraint TypeID) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTypeParam {
		return
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.typeParams) {
		return
	}
	in.typeParams[tt.Payload].Constraint = constraint
}

// TypeParamInfo retrieves type parameter metadata by TypeID.
func (in *Interner) TypeParamInfo(id TypeID) (*TypeParamInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTypeParam {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.typeParams) {
		return nil, false
	}
	return &in.typeParams[tt.Payload], true
}

func (in *Interner) appendTypeParamInfo(info TypeParamInfo) uint32 {
	in.typeParams = append(in.typeParams, info)
	return sideTableSlot(len(in.typeParams))
}
