package types

// Widen maps literal types to their base primitives. Mutable bindings
// infer widened types so `let d = "up"` stays reassignable; const
// bindings keep the literal.
func (in *Interner) Widen(id TypeID) TypeID {
	if base := in.LiteralBase(id); base != NoTypeID {
		return base
	}
	info, ok := in.UnionInfo(id)
	if !ok {
		return id
	}
	changed := false
	widened := make([]TypeID, len(info.Members))
	for i, m := range info.Members {
		widened[i] = in.Widen(m)
		if widened[i] != m {
			changed = true
		}
	}
	if !changed {
		return id
	}
	return in.MakeUnion(widened)
}
