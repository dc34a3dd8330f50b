package sema

import (
	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/source"
	"riptide/internal/types"
)

func (tc *typeChecker) callType(id ast.ExprID, span source.Span) types.TypeID {
	call, ok := tc.builder.Exprs.Call(id)
	if !ok {
		return tc.errType()
	}
	calleeT := tc.typeExpr(call.Callee)

	b := tc.types.Builtins()
	switch {
	case tc.types.IsError(calleeT):
		tc.typeArgList(call.Args)
		return tc.errType()
	case tc.types.IsAny(calleeT):
		tc.typeArgList(call.Args)
		return b.Any
	}
	info, ok := tc.types.FnInfo(calleeT)
	if !ok {
		tc.typeArgList(call.Args)
		tc.report(diag.SemaNotCallable, span, "type '%s' is not callable", tc.typeLabel(calleeT))
		return tc.errType()
	}
	return tc.checkInvocation(info, call.Args, call.TypeArgs, call.TypeArgsSpan, span)
}

func (tc *typeChecker) newExprType(id ast.ExprID, span source.Span) types.TypeID {
	payload, ok := tc.builder.Exprs.New(id)
	if !ok {
		return tc.errType()
	}
	calleeT := tc.typeExpr(payload.Callee)

	b := tc.types.Builtins()
	switch {
	case tc.types.IsError(calleeT):
		tc.typeArgList(payload.Args)
		return tc.errType()
	case tc.types.IsAny(calleeT):
		tc.typeArgList(payload.Args)
		return b.Any
	}
	info, ok := tc.types.FnInfo(calleeT)
	if !ok {
		tc.typeArgList(payload.Args)
		tc.report(diag.SemaNotCallable, span, "type '%s' is not constructable", tc.typeLabel(calleeT))
		return tc.errType()
	}
	// The dialect has no classes; `new` on a function signature yields
	// its return type.
	return tc.checkInvocation(info, payload.Args, nil, source.Span{}, span)
}

func (tc *typeChecker) typeArgList(args []ast.ExprID) {
	for _, arg := range args {
		tc.typeExpr(arg)
	}
}

// checkInvocation checks arity, infers or applies type arguments and
// checks every argument against its (instantiated) parameter type.
func (tc *typeChecker) checkInvocation(info *types.FnInfo, args []ast.ExprID, typeArgs []ast.TypeID, typeArgsSpan, span source.Span) types.TypeID {
	tc.checkArity(info, len(args), span)

	if !info.IsGeneric() {
		if len(typeArgs) > 0 {
			for _, ta := range typeArgs {
				tc.resolveType(ta)
			}
			tc.report(diag.SemaTypeArgsOnNonGeneric, typeArgsSpan,
				"type arguments cannot be used on a non-generic call")
		}
		for i, arg := range args {
			want := types.NoTypeID
			if i < len(info.Params) {
				want = info.Params[i].Type
			}
			got := tc.typeExprExpecting(arg, want)
			if want != types.NoTypeID {
				tc.checkAssignable(tc.exprSpan(arg), got, want)
			}
		}
		return info.Return
	}

	subst := tc.inferTypeArgs(info, args, typeArgs, typeArgsSpan, span)

	for i, arg := range args {
		want := types.NoTypeID
		if i < len(info.Params) {
			want = tc.types.Substitute(info.Params[i].Type, subst)
		}
		got := tc.typeExprExpecting(arg, want)
		if want != types.NoTypeID {
			tc.checkAssignable(tc.exprSpan(arg), got, want)
		}
	}
	return tc.types.Substitute(info.Return, subst)
}

func (tc *typeChecker) checkArity(info *types.FnInfo, got int, span source.Span) {
	min := info.MinArity()
	max := len(info.Params)
	if got >= min && got <= max {
		return
	}
	if min == max {
		tc.report(diag.SemaWrongArgCount, span, "expected %d argument(s), got %d", min, got)
		return
	}
	tc.report(diag.SemaWrongArgCount, span, "expected between %d and %d arguments, got %d", min, max, got)
}

// inferTypeArgs produces the substitution map for a generic call.
// Explicit type arguments win; otherwise arguments unify against
// declared parameter types in two phases, so a callback's parameter
// types can come from the other arguments before its body is typed.
func (tc *typeChecker) inferTypeArgs(info *types.FnInfo, args []ast.ExprID, typeArgs []ast.TypeID, typeArgsSpan, span source.Span) map[types.TypeID]types.TypeID {
	subst := make(map[types.TypeID]types.TypeID, len(info.TypeParams))

	if len(typeArgs) > 0 {
		if len(typeArgs) != len(info.TypeParams) {
			for _, ta := range typeArgs {
				tc.resolveType(ta)
			}
			tc.report(diag.SemaWrongTypeArgCount, typeArgsSpan,
				"expected %d type argument(s), got %d", len(info.TypeParams), len(typeArgs))
			for _, tp := range info.TypeParams {
				subst[tp] = tc.errType()
			}
			return subst
		}
		for i, ta := range typeArgs {
			subst[info.TypeParams[i]] = tc.resolveType(ta)
		}
		tc.checkTypeParamConstraints(info, subst, typeArgsSpan)
		return subst
	}

	owned := make(map[types.TypeID]bool, len(info.TypeParams))
	for _, tp := range info.TypeParams {
		owned[tp] = true
	}

	// Phase one: plain arguments bind whatever they can.
	deferred := make([]int, 0, len(args))
	for i, arg := range args {
		if i >= len(info.Params) {
			break
		}
		if tc.isFunctionLiteral(arg) {
			deferred = append(deferred, i)
			continue
		}
		got := tc.typeExpr(arg)
		tc.unify(info.Params[i].Type, got, subst, owned)
	}

	// Phase two: function literals type under the substitution built so
	// far, then their return types bind the remaining parameters.
	for _, i := range deferred {
		want := tc.types.Substitute(info.Params[i].Type, subst)
		got := tc.typeExprExpecting(args[i], want)
		tc.unify(info.Params[i].Type, got, subst, owned)
	}

	for _, tp := range info.TypeParams {
		if _, ok := subst[tp]; ok {
			continue
		}
		name := ""
		if tpInfo, ok := tc.types.TypeParamInfo(tp); ok {
			name = tc.lookupText(tpInfo.Name)
		}
		tc.report(diag.SemaCannotInferTypeArg, span,
			"cannot infer type argument for type parameter '%s'", name)
		subst[tp] = tc.errType()
	}

	tc.checkTypeParamConstraints(info, subst, span)
	return subst
}

func (tc *typeChecker) checkTypeParamConstraints(info *types.FnInfo, subst map[types.TypeID]types.TypeID, span source.Span) {
	for _, tp := range info.TypeParams {
		tpInfo, ok := tc.types.TypeParamInfo(tp)
		if !ok || tpInfo.Constraint == types.NoTypeID {
			continue
		}
		bound := subst[tp]
		if bound == types.NoTypeID || tc.types.IsError(bound) {
			continue
		}
		constraint := tc.types.Substitute(tpInfo.Constraint, subst)
		if tc.assign.Assignable(bound, constraint) {
			continue
		}
		tc.report(diag.SemaConstraintViolation, span,
			"type '%s' does not satisfy the constraint '%s' of type parameter '%s'",
			tc.typeLabel(bound), tc.typeLabel(constraint), tc.lookupText(tpInfo.Name))
	}
}

func (tc *typeChecker) isFunctionLiteral(id ast.ExprID) bool {
	ex := tc.builder.Exprs.Get(tc.builder.Exprs.Unwrap(id))
	return ex != nil && (ex.Kind == ast.ExprArrow || ex.Kind == ast.ExprFunction)
}

// unify matches a declared parameter type against an argument type,
// binding the call's own type parameters. Conflicting candidates for
// one parameter join as a union.
func (tc *typeChecker) unify(decl, arg types.TypeID, subst map[types.TypeID]types.TypeID, owned map[types.TypeID]bool) {
	if decl == types.NoTypeID || arg == types.NoTypeID || decl == arg {
		return
	}
	dt, ok := tc.types.Lookup(decl)
	if !ok {
		return
	}
	switch dt.Kind {
	case types.KindTypeParam:
		if !owned[decl] || tc.types.IsError(arg) {
			return
		}
		if prev, ok := subst[decl]; ok {
			if prev != arg {
				subst[decl] = tc.types.MakeUnion([]types.TypeID{prev, arg})
			}
			return
		}
		subst[decl] = arg
	case types.KindArray:
		at, ok := tc.types.Lookup(arg)
		if ok && at.Kind == types.KindArray {
			tc.unify(dt.Elem, at.Elem, subst, owned)
		}
	case types.KindObject:
		declInfo, okDecl := tc.types.ObjectInfo(decl)
		argInfo, okArg := tc.types.ObjectInfo(arg)
		if !okDecl || !okArg {
			return
		}
		for i := range declInfo.Fields {
			df := &declInfo.Fields[i]
			if af, ok := argInfo.FieldByName(df.Name); ok {
				tc.unify(df.Type, af.Type, subst, owned)
			}
		}
	case types.KindFunction:
		declFn, okDecl := tc.types.FnInfo(decl)
		argFn, okArg := tc.types.FnInfo(arg)
		if !okDecl || !okArg {
			return
		}
		for i := range declFn.Params {
			if i < len(argFn.Params) {
				tc.unify(declFn.Params[i].Type, argFn.Params[i].Type, subst, owned)
			}
		}
		tc.unify(declFn.Return, argFn.Return, subst, owned)
	case types.KindUnion:
		// `T | undefined` against `string | undefined` binds T=string:
		// with exactly one open member, the closed ones prune out of
		// the argument before matching.
		members := tc.types.UnionMembers(decl)
		var open types.TypeID
		openCount := 0
		closed := make(map[types.TypeID]bool, len(members))
		for _, m := range members {
			if tc.mentionsOwnedParam(m, owned, nil) {
				open = m
				openCount++
				continue
			}
			closed[m] = true
		}
		if openCount != 1 {
			return
		}
		pruned := tc.types.FilterUnion(arg, func(m types.TypeID) bool { return !closed[m] })
		if pruned == tc.types.Builtins().Never {
			return
		}
		tc.unify(open, pruned, subst, owned)
	}
}

// mentionsOwnedParam reports whether t structurally contains one of
// the call's type parameters. Recursive shapes terminate through seen.
func (tc *typeChecker) mentionsOwnedParam(t types.TypeID, owned map[types.TypeID]bool, seen map[types.TypeID]bool) bool {
	if t == types.NoTypeID || seen[t] {
		return false
	}
	if owned[t] {
		return true
	}
	tt, ok := tc.types.Lookup(t)
	if !ok {
		return false
	}
	if seen == nil {
		seen = make(map[types.TypeID]bool)
	}
	seen[t] = true
	switch tt.Kind {
	case types.KindArray:
		return tc.mentionsOwnedParam(tt.Elem, owned, seen)
	case types.KindObject:
		info, ok := tc.types.ObjectInfo(t)
		if !ok {
			return false
		}
		for i := range info.Fields {
			if tc.mentionsOwnedParam(info.Fields[i].Type, owned, seen) {
				return true
			}
		}
	case types.KindFunction:
		info, ok := tc.types.FnInfo(t)
		if !ok {
			return false
		}
		for i := range info.Params {
			if tc.mentionsOwnedParam(info.Params[i].Type, owned, seen) {
				return true
			}
		}
		return tc.mentionsOwnedParam(info.Return, owned, seen)
	case types.KindUnion:
		for _, m := range tc.types.UnionMembers(t) {
			if tc.mentionsOwnedParam(m, owned, seen) {
				return true
			}
		}
	}
	return false
}
