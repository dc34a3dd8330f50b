package sema

import (
	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/source"
	"riptide/internal/types"
)

func (tc *typeChecker) memberType(id ast.ExprID) types.TypeID {
	m, ok := tc.builder.Exprs.Member(id)
	if !ok {
		return tc.errType()
	}
	objT := tc.typeExpr(m.Object)
	b := tc.types.Builtins()

	lookupT := objT
	addUndefined := false
	nullish := tc.types.IsNullish(objT) || tc.types.ContainsNullish(objT)
	switch {
	case m.Optional && nullish:
		lookupT = tc.types.RemoveNullish(objT)
		addUndefined = true
	case !m.Optional && tc.strict && nullish && !tc.types.IsError(objT):
		tc.reportPossiblyNullish(tc.exprSpan(m.Object), objT)
		// Keep checking the non-nullish part so the member name still
		// validates.
		lookupT = tc.types.RemoveNullish(objT)
	}

	result := tc.memberOn(lookupT, m.Name, m.NameSpan)
	if addUndefined && !tc.types.IsError(result) {
		result = tc.types.MakeUnion([]types.TypeID{result, b.Undefined})
	}
	return result
}

func (tc *typeChecker) reportPossiblyNullish(span source.Span, t types.TypeID) {
	hasNull, hasUndefined := false, false
	for _, m := range tc.types.UnionMembers(t) {
		switch tc.types.Kind(m) {
		case types.KindNull:
			hasNull = true
		case types.KindUndefined, types.KindVoid:
			hasUndefined = true
		}
	}
	switch {
	case hasNull && hasUndefined:
		tc.report(diag.SemaNullNotAllowed, span, "object is possibly 'null' or 'undefined'")
	case hasUndefined:
		tc.report(diag.SemaNullNotAllowed, span, "object is possibly 'undefined'")
	default:
		tc.report(diag.SemaNullNotAllowed, span, "object is possibly 'null'")
	}
}

// memberOn resolves one property access, reporting once at the name
// when it fails and containing the failure as the error type.
func (tc *typeChecker) memberOn(t types.TypeID, name source.StringID, nameSpan source.Span) types.TypeID {
	if tc.types.IsError(t) {
		return tc.errType()
	}
	if tc.types.IsAny(t) {
		return tc.types.Builtins().Any
	}
	if result, ok := tc.lookupMember(t, name); ok {
		return result
	}
	tc.report(diag.SemaUnknownProperty, nameSpan,
		"property '%s' does not exist on type '%s'", tc.lookupText(name), tc.typeLabel(t))
	return tc.errType()
}

func (tc *typeChecker) lookupMember(t types.TypeID, name source.StringID) (types.TypeID, bool) {
	tt, ok := tc.types.Lookup(t)
	if !ok {
		return types.NoTypeID, false
	}
	b := tc.types.Builtins()
	switch tt.Kind {
	case types.KindError:
		return b.Error, true
	case types.KindAny:
		return b.Any, true
	case types.KindObject:
		info, ok := tc.types.ObjectInfo(t)
		if !ok {
			return types.NoTypeID, false
		}
		f, ok := info.FieldByName(name)
		if !ok {
			return types.NoTypeID, false
		}
		if f.Optional {
			return tc.types.MakeUnion([]types.TypeID{f.Type, b.Undefined}), true
		}
		return f.Type, true
	case types.KindArray:
		return tc.arrayMember(tt.Elem, tc.lookupText(name))
	case types.KindString:
		return tc.stringMember(tc.lookupText(name))
	case types.KindNumber:
		return tc.numberMember(tc.lookupText(name))
	case types.KindLiteral:
		base := tc.types.LiteralBase(t)
		if base == types.NoTypeID {
			return types.NoTypeID, false
		}
		return tc.lookupMember(base, name)
	case types.KindUnion:
		members := tc.types.UnionMembers(t)
		results := make([]types.TypeID, 0, len(members))
		for _, m := range members {
			r, ok := tc.lookupMember(m, name)
			if !ok {
				return types.NoTypeID, false
			}
			results = append(results, r)
		}
		return tc.types.MakeUnion(results), true
	case types.KindTypeParam:
		info, ok := tc.types.TypeParamInfo(t)
		if !ok || info.Constraint == types.NoTypeID {
			return types.NoTypeID, false
		}
		return tc.lookupMember(info.Constraint, name)
	default:
		return types.NoTypeID, false
	}
}

func (tc *typeChecker) stringMember(name string) (types.TypeID, bool) {
	b := tc.types.Builtins()
	switch name {
	case "length":
		return b.Number, true
	case "charAt":
		return tc.fnType([]types.TypeID{b.Number}, 0, b.String), true
	case "charCodeAt":
		return tc.fnType([]types.TypeID{b.Number}, 0, b.Number), true
	case "indexOf", "lastIndexOf":
		return tc.fnType([]types.TypeID{b.String}, 0, b.Number), true
	case "includes", "startsWith", "endsWith":
		return tc.fnType([]types.TypeID{b.String}, 0, b.Boolean), true
	case "slice", "substring":
		return tc.fnType([]types.TypeID{b.Number, b.Number}, 2, b.String), true
	case "toUpperCase", "toLowerCase", "trim":
		return tc.fnType(nil, 0, b.String), true
	case "split":
		return tc.fnType([]types.TypeID{b.String}, 0, tc.types.Intern(types.MakeArray(b.String))), true
	case "repeat":
		return tc.fnType([]types.TypeID{b.Number}, 0, b.String), true
	case "replace":
		return tc.fnType([]types.TypeID{b.String, b.String}, 0, b.String), true
	case "concat":
		return tc.fnType([]types.TypeID{b.String}, 0, b.String), true
	default:
		return types.NoTypeID, false
	}
}

func (tc *typeChecker) numberMember(name string) (types.TypeID, bool) {
	b := tc.types.Builtins()
	switch name {
	case "toFixed":
		return tc.fnType([]types.TypeID{b.Number}, 1, b.String), true
	case "toString":
		return tc.fnType([]types.TypeID{b.Number}, 1, b.String), true
	default:
		return types.NoTypeID, false
	}
}

func (tc *typeChecker) arrayMember(elem types.TypeID, name string) (types.TypeID, bool) {
	b := tc.types.Builtins()
	list := tc.types.Intern(types.MakeArray(elem))
	switch name {
	case "length":
		return b.Number, true
	case "push":
		return tc.fnType([]types.TypeID{elem}, 0, b.Number), true
	case "pop":
		return tc.fnType(nil, 0, tc.types.MakeUnion([]types.TypeID{elem, b.Undefined})), true
	case "indexOf", "lastIndexOf":
		return tc.fnType([]types.TypeID{elem}, 0, b.Number), true
	case "includes":
		return tc.fnType([]types.TypeID{elem}, 0, b.Boolean), true
	case "join":
		return tc.fnType([]types.TypeID{b.String}, 1, b.String), true
	case "slice":
		return tc.fnType([]types.TypeID{b.Number, b.Number}, 2, list), true
	case "concat":
		return tc.fnType([]types.TypeID{list}, 0, list), true
	case "reverse":
		return tc.fnType(nil, 0, list), true
	case "map":
		u := tc.listCallbackResult()
		callback := tc.fnType([]types.TypeID{elem, b.Number}, 1, u)
		sig := types.FnInfo{
			Params:     []types.FnParam{{Name: tc.internText("callback"), Type: callback}},
			Return:     tc.types.Intern(types.MakeArray(u)),
			TypeParams: []types.TypeID{u},
		}
		return tc.types.RegisterFn(sig), true
	case "filter":
		callback := tc.fnType([]types.TypeID{elem, b.Number}, 1, b.Boolean)
		return tc.fnType([]types.TypeID{callback}, 0, list), true
	case "forEach":
		callback := tc.fnType([]types.TypeID{elem, b.Number}, 1, b.Void)
		return tc.fnType([]types.TypeID{callback}, 0, b.Void), true
	case "find":
		callback := tc.fnType([]types.TypeID{elem, b.Number}, 1, b.Boolean)
		return tc.fnType([]types.TypeID{callback}, 0, tc.types.MakeUnion([]types.TypeID{elem, b.Undefined})), true
	case "some", "every":
		callback := tc.fnType([]types.TypeID{elem, b.Number}, 1, b.Boolean)
		return tc.fnType([]types.TypeID{callback}, 0, b.Boolean), true
	default:
		return types.NoTypeID, false
	}
}

// fnType builds a plain signature; the last optionalTail parameters
// are optional.
func (tc *typeChecker) fnType(params []types.TypeID, optionalTail int, ret types.TypeID) types.TypeID {
	fnParams := make([]types.FnParam, len(params))
	for i, p := range params {
		fnParams[i] = types.FnParam{Type: p, Optional: i >= len(params)-optionalTail}
	}
	return tc.types.RegisterFn(types.FnInfo{Params: fnParams, Return: ret})
}

// listCallbackResult is the shared result parameter for map-style
// callbacks. One identity is safe: every call site owns its own
// substitution map.
func (tc *typeChecker) listCallbackResult() types.TypeID {
	if tc.mapResult == types.NoTypeID {
		tc.mapResult = tc.types.RegisterTypeParam(tc.internText("U"), types.NoTypeID)
	}
	return tc.mapResult
}

func (tc *typeChecker) indexType(id ast.ExprID, span source.Span) types.TypeID {
	ix, ok := tc.builder.Exprs.Index(id)
	if !ok {
		return tc.errType()
	}
	objT := tc.typeExpr(ix.Object)
	idxT := tc.typeExpr(ix.Index)
	b := tc.types.Builtins()
	if tc.types.IsError(objT) {
		return tc.errType()
	}
	if tc.types.IsAny(objT) {
		return b.Any
	}
	return tc.indexOn(objT, idxT, ix.Index, span)
}

func (tc *typeChecker) indexOn(objT, idxT types.TypeID, idxExpr ast.ExprID, span source.Span) types.TypeID {
	b := tc.types.Builtins()
	tt, ok := tc.types.Lookup(objT)
	if !ok {
		return tc.errType()
	}
	switch tt.Kind {
	case types.KindArray:
		tc.checkNumberIndex(idxT, idxExpr)
		return tt.Elem
	case types.KindString:
		tc.checkNumberIndex(idxT, idxExpr)
		return b.String
	case types.KindLiteral:
		if tc.types.LiteralBase(objT) == b.String {
			tc.checkNumberIndex(idxT, idxExpr)
			return b.String
		}
	case types.KindObject:
		// Objects index only with a known string literal, which is a
		// property access in disguise.
		if info, ok := tc.types.LiteralInfo(idxT); ok && info.Base == types.KindString {
			if f, ok := tc.lookupMemberOnObject(objT, info.Text); ok {
				return f
			}
			tc.report(diag.SemaUnknownProperty, tc.exprSpan(idxExpr),
				"property '%s' does not exist on type '%s'", tc.lookupText(info.Text), tc.typeLabel(objT))
			return tc.errType()
		}
		tc.report(diag.SemaNotIndexable, span,
			"type '%s' can only be indexed with a string literal", tc.typeLabel(objT))
		return tc.errType()
	case types.KindUnion:
		members := tc.types.UnionMembers(objT)
		results := make([]types.TypeID, 0, len(members))
		for _, m := range members {
			mt, ok := tc.types.Lookup(m)
			if !ok || (mt.Kind != types.KindArray && mt.Kind != types.KindString &&
				!(mt.Kind == types.KindLiteral && tc.types.LiteralBase(m) == b.String)) {
				tc.report(diag.SemaNotIndexable, span, "type '%s' is not indexable", tc.typeLabel(objT))
				return tc.errType()
			}
			if mt.Kind == types.KindArray {
				results = append(results, mt.Elem)
			} else {
				results = append(results, b.String)
			}
		}
		tc.checkNumberIndex(idxT, idxExpr)
		return tc.types.MakeUnion(results)
	}
	tc.report(diag.SemaNotIndexable, span, "type '%s' is not indexable", tc.typeLabel(objT))
	return tc.errType()
}

func (tc *typeChecker) lookupMemberOnObject(objT types.TypeID, name source.StringID) (types.TypeID, bool) {
	info, ok := tc.types.ObjectInfo(objT)
	if !ok {
		return types.NoTypeID, false
	}
	f, ok := info.FieldByName(name)
	if !ok {
		return types.NoTypeID, false
	}
	if f.Optional {
		return tc.types.MakeUnion([]types.TypeID{f.Type, tc.types.Builtins().Undefined}), true
	}
	return f.Type, true
}

func (tc *typeChecker) checkNumberIndex(idxT types.TypeID, idxExpr ast.ExprID) {
	if tc.types.IsError(idxT) {
		return
	}
	if types.FamilyAccepts(types.FamilyNumber, types.FamilyOf(tc.types, idxT)) {
		return
	}
	tc.report(diag.SemaTypeMismatch, tc.exprSpan(idxExpr),
		"type '%s' is not assignable to type 'number'", tc.typeLabel(idxT))
}
