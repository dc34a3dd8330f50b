package types

// Assigner answers "is src assignable to dst" with memoization. Object
// cycles are handled coinductively: a pair already being decided is
// assumed to hold, so recursive interfaces terminate.
//
// An Assigner is owned by one checker and is not safe for concurrent
// use.
type Assigner struct {
	In *Interner
	// Strict switches null handling. Permissive lets null and
	// undefined flow into any type; strict confines them to
	// themselves, unions that include them, any and unknown.
	Strict bool

	cache  map[assignPair]bool
	active map[assignPair]bool
}

type assignPair struct {
	src TypeID
	dst TypeID
}

// NewAssigner creates an assigner over in.
func NewAssigner(in *Interner, strict bool) *Assigner {
	return &Assigner{
		In:     in,
		Strict: strict,
		cache:  make(map[assignPair]bool, 64),
		active: make(map[assignPair]bool, 16),
	}
}

// Assignable reports whether a value of type src can be used where dst
// is expected.
func (a *Assigner) Assignable(src, dst TypeID) bool {
	if src == dst {
		return true
	}
	in := a.In

	srcT, srcOK := in.Lookup(src)
	dstT, dstOK := in.Lookup(dst)
	// Missing types mean checking already failed somewhere else.
	if !srcOK || !dstOK {
		return true
	}
	if srcT.Kind == KindError || dstT.Kind == KindError {
		return true
	}
	if srcT.Kind == KindAny || dstT.Kind == KindAny {
		return true
	}
	if dstT.Kind == KindUnknown {
		return true
	}
	if srcT.Kind == KindNever {
		return true
	}
	if srcT.Kind == KindUnknown || dstT.Kind == KindNever {
		return false
	}
	if !a.Strict && (srcT.Kind == KindNull || srcT.Kind == KindUndefined) {
		return true
	}
	if srcT.Kind == KindUndefined && dstT.Kind == KindVoid {
		return true
	}

	pair := assignPair{src: src, dst: dst}
	if res, ok := a.cache[pair]; ok {
		return res
	}
	if a.active[pair] {
		return true
	}
	a.active[pair] = true
	res := a.assignableSlow(src, srcT, dst, dstT)
	delete(a.active, pair)
	a.cache[pair] = res
	return res
}

func (a *Assigner) assignableSlow(src TypeID, srcT Type, dst TypeID, dstT Type) bool {
	in := a.In

	// A union source needs every member accepted; a union target needs
	// one member to accept.
	if srcT.Kind == KindUnion {
		for _, m := range in.UnionMembers(src) {
			if !a.Assignable(m, dst) {
				return false
			}
		}
		return true
	}
	if dstT.Kind == KindUnion {
		for _, m := range in.UnionMembers(dst) {
			if a.Assignable(src, m) {
				return true
			}
		}
		return false
	}

	switch dstT.Kind {
	case KindNumber, KindString, KindBoolean:
		if srcT.Kind == dstT.Kind {
			return true
		}
		if info, ok := in.LiteralInfo(src); ok {
			return info.Base == dstT.Kind
		}
		return a.typeParamSource(src, srcT, dst)
	case KindVoid, KindNull, KindUndefined, KindLiteral:
		// Identity was checked up front; only a constrained type
		// parameter can still get here.
		return a.typeParamSource(src, srcT, dst)
	case KindArray:
		if srcT.Kind == KindArray {
			return a.Assignable(srcT.Elem, dstT.Elem)
		}
		return a.typeParamSource(src, srcT, dst)
	case KindObject:
		if srcT.Kind == KindObject {
			return a.objectAssignable(src, dst)
		}
		return a.typeParamSource(src, srcT, dst)
	case KindFunction:
		if srcT.Kind == KindFunction {
			return a.fnAssignable(src, dst)
		}
		return a.typeParamSource(src, srcT, dst)
	case KindTypeParam:
		// Distinct parameters never unify by assignability alone.
		return a.typeParamSource(src, srcT, dst)
	default:
		return false
	}
}

// typeParamSource lets a constrained parameter flow wherever its bound
// flows.
func (a *Assigner) typeParamSource(src TypeID, srcT Type, dst TypeID) bool {
	if srcT.Kind != KindTypeParam {
		return false
	}
	info, ok := a.In.TypeParamInfo(src)
	if !ok || info.Constraint == NoTypeID {
		return false
	}
	return a.Assignable(info.Constraint, dst)
}

// objectAssignable implements width subtyping: the source must supply
// every required target field at an assignable type; extra source
// fields are fine.
func (a *Assigner) objectAssignable(src, dst TypeID) bool {
	srcInfo, ok := a.In.ObjectInfo(src)
	if !ok {
		return false
	}
	dstInfo, ok := a.In.ObjectInfo(dst)
	if !ok {
		return false
	}
	for i := range dstInfo.Fields {
		want := &dstInfo.Fields[i]
		have, found := srcInfo.FieldByName(want.Name)
		if !found {
			if want.Optional {
				continue
			}
			return false
		}
		if have.Optional && !want.Optional {
			return false
		}
		if !a.Assignable(have.Type, want.Type) {
			return false
		}
	}
	return true
}

// fnAssignable: parameters compare contravariantly, the return
// covariantly. A source may declare fewer parameters than the target
// supplies, and any return is accepted when the target returns void.
func (a *Assigner) fnAssignable(src, dst TypeID) bool {
	srcInfo, ok := a.In.FnInfo(src)
	if !ok {
		return false
	}
	dstInfo, ok := a.In.FnInfo(dst)
	if !ok {
		return false
	}
	if srcInfo.MinArity() > len(dstInfo.Params) {
		return false
	}
	n := len(srcInfo.Params)
	if len(dstInfo.Params) < n {
		n = len(dstInfo.Params)
	}
	for i := 0; i < n; i++ {
		if !a.Assignable(dstInfo.Params[i].Type, srcInfo.Params[i].Type) {
			return false
		}
	}
	if a.In.Kind(dstInfo.Return) == KindVoid {
		return true
	}
	return a.Assignable(srcInfo.Return, dstInfo.Return)
}
