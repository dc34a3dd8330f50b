package types

// Substitute replaces type parameters inside id according to subst and
// returns the instantiated type. Types that mention no substituted
// parameter are returned unchanged, including their identity.
func (in *Interner) Substitute(id TypeID, subst map[TypeID]TypeID) TypeID {
	if len(subst) == 0 || id == NoTypeID {
		return id
	}
	s := &substituter{in: in, subst: subst, done: make(map[TypeID]TypeID)}
	if !s.mentions(id, make(map[TypeID]bool)) {
		return id
	}
	return s.apply(id)
}

type substituter struct {
	in    *Interner
	subst map[TypeID]TypeID
	done  map[TypeID]TypeID
}

// mentions walks the structure looking for any substituted parameter.
// The seen set keeps recursive interfaces from looping.
func (s *substituter) mentions(id TypeID, seen map[TypeID]bool) bool {
	if id == NoTypeID || seen[id] {
		return false
	}
	seen[id] = true
	if _, ok := s.subst[id]; ok {
		return true
	}
	tt, ok := s.in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindArray:
		return s.mentions(tt.Elem, seen)
	case KindObject:
		info, ok := s.in.ObjectInfo(id)
		if !ok {
			return false
		}
		for i := range info.Fields {
			if s.mentions(info.Fields[i].Type, seen) {
				return true
			}
		}
		return false
	case KindFunction:
		info, ok := s.in.FnInfo(id)
		if !ok {
			return false
		}
		for i := range info.Params {
			if s.mentions(info.Params[i].Type, seen) {
				return true
			}
		}
		return s.mentions(info.Return, seen)
	case KindUnion:
		for _, m := range s.in.UnionMembers(id) {
			if s.mentions(m, seen) {
				return true
			}
		}
		return false
	case KindTypeParam:
		info, ok := s.in.TypeParamInfo(id)
		if !ok {
			return false
		}
		return s.mentions(info.Constraint, seen)
	default:
		return false
	}
}

func (s *substituter) apply(id TypeID) TypeID {
	if id == NoTypeID {
		return id
	}
	if rep, ok := s.subst[id]; ok {
		return rep
	}
	if memo, ok := s.done[id]; ok {
		return memo
	}
	tt, ok := s.in.Lookup(id)
	if !ok {
		return id
	}
	switch tt.Kind {
	case KindArray:
		elem := s.apply(tt.Elem)
		if elem == tt.Elem {
			s.done[id] = id
			return id
		}
		out := s.in.Intern(MakeArray(elem))
		s.done[id] = out
		return out
	case KindObject:
		info, ok := s.in.ObjectInfo(id)
		if !ok {
			return id
		}
		// Memoize the fresh slot before filling fields so recursive
		// references land on the instantiation, not the generic.
		fresh := s.in.RegisterNamedObject(info.Name)
		s.done[id] = fresh
		fields := make([]Field, len(info.Fields))
		for i, f := range info.Fields {
			fields[i] = Field{Name: f.Name, Type: s.apply(f.Type), Optional: f.Optional}
		}
		s.in.SetObjectFields(fresh, fields)
		return fresh
	case KindFunction:
		info, ok := s.in.FnInfo(id)
		if !ok {
			return id
		}
		params := make([]FnParam, len(info.Params))
		for i, p := range info.Params {
			params[i] = FnParam{Name: p.Name, Type: s.apply(p.Type), Optional: p.Optional}
		}
		// Bound parameters disappear from the signature.
		var remaining []TypeID
		for _, tp := range info.TypeParams {
			if _, bound := s.subst[tp]; !bound {
				remaining = append(remaining, tp)
			}
		}
		out := s.in.RegisterFn(FnInfo{Params: params, Return: s.apply(info.Return), TypeParams: remaining})
		s.done[id] = out
		return out
	case KindUnion:
		members := s.in.UnionMembers(id)
		applied := make([]TypeID, len(members))
		for i, m := range members {
			applied[i] = s.apply(m)
		}
		out := s.in.MakeUnion(applied)
		s.done[id] = out
		return out
	default:
		s.done[id] = id
		return id
	}
}
