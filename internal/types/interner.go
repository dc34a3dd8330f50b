package types

import (
	"fmt"

	"fortio.org/safecast"

	"riptide/internal/source"
)

// Builtins stores TypeIDs for the primitive types every check needs.
type Builtins struct {
	Invalid   TypeID
	Error     TypeID
	Any       TypeID
	Unknown   TypeID
	Never     TypeID
	Void      TypeID
	Null      TypeID
	Undefined TypeID
	Number    TypeID
	String    TypeID
	Boolean   TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Composite kinds are deduplicated by canonical keys where their shape
// is complete at registration; named object types registered for
// deferred filling keep nominal slots and rely on structural
// comparison instead.
type Interner struct {
	// Strings resolves names for display. May be nil in tests that
	// never print types.
	Strings *source.Interner

	types    []Type
	index    map[Type]TypeID
	builtins Builtins

	literals   []LiteralInfo
	objects    []ObjectInfo
	fns        []FnInfo
	unions     []UnionInfo
	typeParams []TypeParamInfo

	literalIndex map[literalKey]TypeID
	objectIndex  map[string]TypeID
	fnIndex      map[string]TypeID
	unionIndex   map[string]TypeID
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner(strings *source.Interner) *Interner {
	in := &Interner{
		Strings:      strings,
		index:        make(map[Type]TypeID, 64),
		literalIndex: make(map[literalKey]TypeID, 16),
		objectIndex:  make(map[string]TypeID, 16),
		fnIndex:      make(map[string]TypeID, 16),
		unionIndex:   make(map[string]TypeID, 16),
	}
	// Reserve slot 0 of every side table as an invalid sentinel.
	in.literals = append(in.literals, LiteralInfo{})
	in.objects = append(in.objects, ObjectInfo{})
	in.fns = append(in.fns, FnInfo{})
	in.unions = append(in.unions, UnionInfo{})
	in.typeParams = append(in.typeParams, TypeParamInfo{})

	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Error = in.Intern(Type{Kind: KindError})
	in.builtins.Any = in.Intern(Type{Kind: KindAny})
	in.builtins.Unknown = in.Intern(Type{Kind: KindUnknown})
	in.builtins.Never = in.Intern(Type{Kind: KindNever})
	in.builtins.Void = in.Intern(Type{Kind: KindVoid})
	in.builtins.Null = in.Intern(Type{Kind: KindNull})
	in.builtins.Undefined = in.Intern(Type{Kind: KindUndefined})
	in.builtins.Number = in.Intern(Type{Kind: KindNumber})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.Boolean = in.Intern(Type{Kind: KindBoolean})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the
// map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Kind returns the kind behind id, KindInvalid for NoTypeID.
func (in *Interner) Kind(id TypeID) Kind {
	tt, ok := in.Lookup(id)
	if !ok {
		return KindInvalid
	}
	return tt.Kind
}

// IsError reports whether id is the containment type.
func (in *Interner) IsError(id TypeID) bool {
	return in.Kind(id) == KindError
}

// IsAny reports whether id is any.
func (in *Interner) IsAny(id TypeID) bool {
	return in.Kind(id) == KindAny
}

// IsNullish reports whether id is null or undefined.
func (in *Interner) IsNullish(id TypeID) bool {
	k := in.Kind(id)
	return k == KindNull || k == KindUndefined
}

// Len reports the number of interned types including the reserved
// invalid entry.
func (in *Interner) Len() int {
	return len(in.types)
}
