package types

import (
	"fmt"
	"strings"

	"riptide/internal/source"
)

// FnParam is one parameter of a function type.
type FnParam struct {
	Name     source.StringID
	Type     TypeID
	Optional bool
}

// FnInfo stores metadata for function types. TypeParams is non-empty
// for generic signatures that have not been instantiated yet.
type FnInfo struct {
	Params     []FnParam
	Return     TypeID
	TypeParams []TypeID
}

// MinArity reports the number of required parameters.
func (info *FnInfo) MinArity() int {
	n := 0
	for _, p := range info.Params {
		if !p.Optional {
			n++
		}
	}
	return n
}

// IsGeneric reports whether the signature still carries unbound type
// parameters.
func (info *FnInfo) IsGeneric() bool { return len(info.TypeParams) > 0 }

// RegisterFn creates or finds a function type.
func (in *Interner) RegisterFn(info FnInfo) TypeID {
	key := fnKey(info)
	if id, ok := in.fnIndex[key]; ok {
		return id
	}
	slot := in.appendFnInfo(info)
	id := in.internRaw(Type{Kind: KindFunction, Payload: slot})
	in.fnIndex[key] = id
	return id
}

// FnInfo retrieves function type metadata by TypeID.
func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFunction {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}

func (in *Interner) appendFnInfo(info FnInfo) uint32 {
	in.fns = append(in.fns, FnInfo{
		Params:     cloneFnParams(info.Params),
		Return:     info.Return,
		TypeParams: cloneTypeIDs(info.TypeParams),
	})
	return sideTableSlot(len(in.fns))
}

func fnKey(info FnInfo) string {
	var b strings.Builder
	for _, p := range info.Params {
		fmt.Fprintf(&b, "%d:%t,", p.Type, p.Optional)
	}
	fmt.Fprintf(&b, "->%d", info.Return)
	for _, tp := range info.TypeParams {
		fmt.Fprintf(&b, "<%d", tp)
	}
	return b.String()
}

func cloneFnParams(params []FnParam) []FnParam {
	if len(params) == 0 {
		return nil
	}
	out := make([]FnParam, len(params))
	copy(out, params)
	return out
}

func cloneTypeIDs(ids []TypeID) []TypeID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]TypeID, len(ids))
	copy(out, ids)
	return out
}
