package types

import (
	"fmt"
	"sort"
	"strings"
)

// UnionInfo stores the members of a union type, sorted by TypeID.
type UnionInfo struct {
	Members []TypeID
}

// MakeUnion normalizes members and returns the union's TypeID:
// nested unions are flattened, never is dropped, duplicates and
// literals subsumed by their base primitive collapse, and the pair
// true | false folds to boolean. A single survivor is returned as-is;
// zero survivors yield never. error, any and unknown absorb the whole
// union, in that order.
func (in *Interner) MakeUnion(members []TypeID) TypeID {
	flat := make([]TypeID, 0, len(members))
	flat = in.flattenUnion(flat, members)

	hasAny, hasUnknown := false, false
	for _, m := range flat {
		switch in.Kind(m) {
		case KindError:
			return in.builtins.Error
		case KindAny:
			hasAny = true
		case KindUnknown:
			hasUnknown = true
		}
	}
	if hasAny {
		return in.builtins.Any
	}
	if hasUnknown {
		return in.builtins.Unknown
	}

	present := make(map[TypeID]bool, len(flat))
	kept := flat[:0]
	for _, m := range flat {
		if in.Kind(m) == KindNever || present[m] {
			continue
		}
		present[m] = true
		kept = append(kept, m)
	}

	kept = in.dropSubsumedLiterals(kept, present)
	kept = in.foldBooleanLiterals(kept)

	switch len(kept) {
	case 0:
		return in.builtins.Never
	case 1:
		return kept[0]
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i] < kept[j] })
	key := unionKey(kept)
	if id, ok := in.unionIndex[key]; ok {
		return id
	}
	slot := in.appendUnionInfo(UnionInfo{Members: cloneTypeIDs(kept)})
	id := in.internRaw(Type{Kind: KindUnion, Payload: slot})
	in.unionIndex[key] = id
	return id
}

func (in *Interner) flattenUnion(dst, members []TypeID) []TypeID {
	for _, m := range members {
		if m == NoTypeID {
			continue
		}
		if info, ok := in.UnionInfo(m); ok {
			dst = in.flattenUnion(dst, info.Members)
			continue
		}
		dst = append(dst, m)
	}
	return dst
}

// dropSubsumedLiterals removes literal members whose base primitive is
// also present, so "a" | string reduces to string.
func (in *Interner) dropSubsumedLiterals(members []TypeID, present map[TypeID]bool) []TypeID {
	out := members[:0]
	for _, m := range members {
		if base := in.LiteralBase(m); base != NoTypeID && present[base] {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (in *Interner) foldBooleanLiterals(members []TypeID) []TypeID {
	trueID := in.BooleanLiteral(true)
	falseID := in.BooleanLiteral(false)
	hasTrue, hasFalse := false, false
	for _, m := range members {
		if m == trueID {
			hasTrue = true
		}
		if m == falseID {
			hasFalse = true
		}
	}
	if !hasTrue || !hasFalse {
		return members
	}
	out := members[:0]
	folded := false
	for _, m := range members {
		if m == trueID || m == falseID {
			if !folded {
				out = append(out, in.builtins.Boolean)
				folded = true
			}
			continue
		}
		if m == in.builtins.Boolean && folded {
			continue
		}
		out = append(out, m)
	}
	return out
}

// UnionInfo returns metadata for the provided union TypeID.
func (in *Interner) UnionInfo(id TypeID) (*UnionInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindUnion {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.unions) {
		return nil, false
	}
	return &in.unions[tt.Payload], true
}

// UnionMembers returns the member list of a union, or the type itself
// as a single-element view for non-unions. The result must not be
// mutated.
func (in *Interner) UnionMembers(id TypeID) []TypeID {
	if info, ok := in.UnionInfo(id); ok {
		return info.Members
	}
	return []TypeID{id}
}

// FilterUnion rebuilds id keeping only the members keep accepts.
// Non-union inputs are treated as a single-member union. An empty
// result is never.
func (in *Interner) FilterUnion(id TypeID, keep func(TypeID) bool) TypeID {
	members := in.UnionMembers(id)
	kept := make([]TypeID, 0, len(members))
	for _, m := range members {
		if keep(m) {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(members) {
		return id
	}
	return in.MakeUnion(kept)
}

// RemoveNullish strips null and undefined members.
func (in *Interner) RemoveNullish(id TypeID) TypeID {
	return in.FilterUnion(id, func(m TypeID) bool { return !in.IsNullish(m) })
}

// ContainsNullish reports whether null or undefined inhabit id.
func (in *Interner) ContainsNullish(id TypeID) bool {
	for _, m := range in.UnionMembers(id) {
		if in.IsNullish(m) {
			return true
		}
	}
	return false
}

func (in *Interner) appendUnionInfo(info UnionInfo) uint32 {
	in.unions = append(in.unions, info)
	return sideTableSlot(len(in.unions))
}

func unionKey(members []TypeID) string {
	var b strings.Builder
	for _, m := range members {
		fmt.Fprintf(&b, "%d|", m)
	}
	return b.String()
}
