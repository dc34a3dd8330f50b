package sema

import (
	"riptide/internal/ast"
	"riptide/internal/source"
	"riptide/internal/symbols"
	"riptide/internal/types"
)

// flowMap carries the narrowed type per binding along one control
// path. Facts attach to plain bindings only; member paths stay at
// their declared types.
type flowMap map[symbols.SymbolID]types.TypeID

func (tc *typeChecker) cloneFlow(f flowMap) flowMap {
	out := make(flowMap, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// joinFlow merges facts arriving from two paths: facts on both sides
// union, facts on one side only drop.
func (tc *typeChecker) joinFlow(a, b flowMap) flowMap {
	out := make(flowMap)
	for k, va := range a {
		vb, ok := b[k]
		if !ok {
			continue
		}
		if va == vb {
			out[k] = va
			continue
		}
		out[k] = tc.types.MakeUnion([]types.TypeID{va, vb})
	}
	return out
}

func (tc *typeChecker) dropFacts(set map[symbols.SymbolID]bool) {
	for sym := range set {
		delete(tc.flow, sym)
	}
}

// narrowCond derives the flow maps for the paths where cond held and
// where it failed. Both start as copies, so branch walks can mutate
// them freely.
func (tc *typeChecker) narrowCond(cond ast.ExprID) (pos, neg flowMap) {
	pos = tc.cloneFlow(tc.flow)
	neg = tc.cloneFlow(tc.flow)
	tc.applyCond(cond, pos, neg)
	return pos, neg
}

// applyCond records the facts implied by cond being true into pos and
// by cond being false into neg.
func (tc *typeChecker) applyCond(cond ast.ExprID, pos, neg flowMap) {
	cond = tc.builder.Exprs.Unwrap(cond)
	ex := tc.builder.Exprs.Get(cond)
	if ex == nil {
		return
	}
	switch ex.Kind {
	case ast.ExprUnary:
		un, ok := tc.builder.Exprs.Unary(cond)
		if ok && un.Op == ast.UnaryNot {
			tc.applyCond(un.Operand, neg, pos)
		}
	case ast.ExprBinary:
		bin, ok := tc.builder.Exprs.Binary(cond)
		if !ok {
			return
		}
		switch {
		case bin.Op == ast.BinLogicalAnd:
			// Both conjuncts hold on the true path; the false path
			// learns nothing definite.
			discard := make(flowMap)
			tc.applyCond(bin.Left, pos, discard)
			tc.applyCond(bin.Right, pos, discard)
		case bin.Op == ast.BinLogicalOr:
			discard := make(flowMap)
			tc.applyCond(bin.Left, discard, neg)
			tc.applyCond(bin.Right, discard, neg)
		case bin.Op.IsEquality():
			tc.applyEquality(bin, pos, neg)
		}
	case ast.ExprIdent:
		tc.applyTruthiness(cond, pos, neg)
	}
}

func (tc *typeChecker) applyEquality(bin *ast.BinaryExpr, pos, neg flowMap) {
	p, n := pos, neg
	if bin.Op == ast.BinNotEq || bin.Op == ast.BinStrictNotEq {
		p, n = neg, pos
	}
	strict := bin.Op == ast.BinStrictEq || bin.Op == ast.BinStrictNotEq

	if tc.applyTypeofTest(bin.Left, bin.Right, p, n) {
		return
	}
	if tc.applyTypeofTest(bin.Right, bin.Left, p, n) {
		return
	}
	if tc.applyLiteralTest(bin.Left, bin.Right, strict, p, n) {
		return
	}
	tc.applyLiteralTest(bin.Right, bin.Left, strict, p, n)
}

// condSymbol resolves a condition operand to a narrowable binding.
func (tc *typeChecker) condSymbol(id ast.ExprID) (symbols.SymbolID, bool) {
	id = tc.builder.Exprs.Unwrap(id)
	ex := tc.builder.Exprs.Get(id)
	if ex == nil || ex.Kind != ast.ExprIdent {
		return symbols.NoSymbolID, false
	}
	symID, ok := tc.symbols.ExprSymbols[id]
	if !ok || !symID.IsValid() {
		return symbols.NoSymbolID, false
	}
	if sym := tc.symbolFromID(symID); sym == nil || sym.Kind == symbols.SymbolError {
		return symbols.NoSymbolID, false
	}
	return symID, true
}

// effectiveType is the type a binding currently has on this path.
func (tc *typeChecker) effectiveType(symID symbols.SymbolID) types.TypeID {
	if t, ok := tc.flow[symID]; ok {
		return t
	}
	return tc.ensureSymbolType(symID, source.Span{})
}

// applyTypeofTest narrows `typeof x === "string"` and friends. The
// loose operators narrow the same way.
func (tc *typeChecker) applyTypeofTest(typeofSide, litSide ast.ExprID, p, n flowMap) bool {
	typeofSide = tc.builder.Exprs.Unwrap(typeofSide)
	un, ok := tc.builder.Exprs.Unary(typeofSide)
	if !ok || un.Op != ast.UnaryTypeof {
		return false
	}
	symID, ok := tc.condSymbol(un.Operand)
	if !ok {
		return false
	}
	lit, ok := tc.builder.Exprs.Lit(tc.builder.Exprs.Unwrap(litSide))
	if !ok || lit.Kind != ast.LitString {
		return false
	}
	name := unquoteLiteral(tc.lookupText(lit.Text))
	match, base, known := tc.typeofCase(name)
	if !known {
		return false
	}

	cur := tc.effectiveType(symID)
	if tc.types.IsError(cur) {
		return true
	}
	if tc.types.IsAny(cur) || tc.types.Kind(cur) == types.KindUnknown {
		// any and unknown narrow down to the named primitive; the
		// complement stays as it was.
		if base != types.NoTypeID {
			p[symID] = base
		}
		return true
	}
	p[symID] = tc.types.FilterUnion(cur, match)
	n[symID] = tc.types.FilterUnion(cur, func(m types.TypeID) bool { return !match(m) })
	return true
}

// typeofCase maps a typeof result string to a member predicate and
// the primitive an any/unknown operand narrows to.
func (tc *typeChecker) typeofCase(name string) (func(types.TypeID) bool, types.TypeID, bool) {
	b := tc.types.Builtins()
	switch name {
	case "string":
		return func(m types.TypeID) bool {
			return tc.types.Kind(m) == types.KindString || tc.types.LiteralBase(m) == b.String
		}, b.String, true
	case "number":
		return func(m types.TypeID) bool {
			return tc.types.Kind(m) == types.KindNumber || tc.types.LiteralBase(m) == b.Number
		}, b.Number, true
	case "boolean":
		return func(m types.TypeID) bool {
			return tc.types.Kind(m) == types.KindBoolean || tc.types.LiteralBase(m) == b.Boolean
		}, b.Boolean, true
	case "undefined":
		return func(m types.TypeID) bool {
			k := tc.types.Kind(m)
			return k == types.KindUndefined || k == types.KindVoid
		}, b.Undefined, true
	case "object":
		// typeof null is "object", a gift that keeps on giving.
		return func(m types.TypeID) bool {
			k := tc.types.Kind(m)
			return k == types.KindObject || k == types.KindArray || k == types.KindNull
		}, types.NoTypeID, true
	case "function":
		return func(m types.TypeID) bool {
			return tc.types.Kind(m) == types.KindFunction
		}, types.NoTypeID, true
	default:
		return nil, types.NoTypeID, false
	}
}

// applyLiteralTest narrows `x === null`, `x === undefined` and
// literal equality like `x === "up"`.
func (tc *typeChecker) applyLiteralTest(identSide, litSide ast.ExprID, strict bool, p, n flowMap) bool {
	symID, ok := tc.condSymbol(identSide)
	if !ok {
		return false
	}
	lit, ok := tc.builder.Exprs.Lit(tc.builder.Exprs.Unwrap(litSide))
	if !ok {
		return false
	}
	cur := tc.effectiveType(symID)
	if tc.types.IsError(cur) {
		return true
	}
	b := tc.types.Builtins()

	switch lit.Kind {
	case ast.LitNull, ast.LitUndefined:
		if !strict {
			// Loose comparison to either null or undefined covers both.
			p[symID] = tc.keepNullish(cur)
			n[symID] = tc.types.RemoveNullish(cur)
			return true
		}
		match := types.KindNull
		single := b.Null
		if lit.Kind == ast.LitUndefined {
			match = types.KindUndefined
			single = b.Undefined
		}
		if tc.types.IsAny(cur) || tc.types.Kind(cur) == types.KindUnknown {
			p[symID] = single
			return true
		}
		p[symID] = tc.types.FilterUnion(cur, func(m types.TypeID) bool { return tc.types.Kind(m) == match })
		n[symID] = tc.types.FilterUnion(cur, func(m types.TypeID) bool { return tc.types.Kind(m) != match })
		return true
	default:
		litT := tc.literalTypeOf(lit.Kind, lit.Text)
		if tc.types.IsAny(cur) || tc.types.Kind(cur) == types.KindUnknown {
			p[symID] = litT
			return true
		}
		if tc.assign.Assignable(litT, cur) {
			p[symID] = litT
		} else {
			p[symID] = b.Never
		}
		n[symID] = tc.types.FilterUnion(cur, func(m types.TypeID) bool { return m != litT })
		return true
	}
}

func (tc *typeChecker) keepNullish(cur types.TypeID) types.TypeID {
	if tc.types.IsAny(cur) || tc.types.Kind(cur) == types.KindUnknown {
		return tc.types.MakeUnion([]types.TypeID{tc.types.Builtins().Null, tc.types.Builtins().Undefined})
	}
	return tc.types.FilterUnion(cur, func(m types.TypeID) bool {
		k := tc.types.Kind(m)
		return k == types.KindNull || k == types.KindUndefined || k == types.KindVoid
	})
}

// applyTruthiness narrows a bare binding used as a condition: the true
// path drops members that are always falsy, the false path drops the
// always-truthy ones.
func (tc *typeChecker) applyTruthiness(id ast.ExprID, pos, neg flowMap) {
	symID, ok := tc.condSymbol(id)
	if !ok {
		return
	}
	cur := tc.effectiveType(symID)
	if tc.types.IsError(cur) || tc.types.IsAny(cur) || tc.types.Kind(cur) == types.KindUnknown {
		return
	}
	pos[symID] = tc.types.FilterUnion(cur, func(m types.TypeID) bool { return !tc.alwaysFalsy(m) })
	neg[symID] = tc.types.FilterUnion(cur, func(m types.TypeID) bool { return !tc.alwaysTruthy(m) })
}

func (tc *typeChecker) alwaysFalsy(m types.TypeID) bool {
	switch tc.types.Kind(m) {
	case types.KindNull, types.KindUndefined, types.KindVoid:
		return true
	case types.KindLiteral:
		info, ok := tc.types.LiteralInfo(m)
		if !ok {
			return false
		}
		text := tc.lookupText(info.Text)
		switch info.Base {
		case types.KindBoolean:
			return text == "false"
		case types.KindString:
			return text == ""
		case types.KindNumber:
			return text == "0"
		}
	}
	return false
}

func (tc *typeChecker) alwaysTruthy(m types.TypeID) bool {
	switch tc.types.Kind(m) {
	case types.KindObject, types.KindArray, types.KindFunction:
		return true
	case types.KindLiteral:
		info, ok := tc.types.LiteralInfo(m)
		if !ok {
			return false
		}
		text := tc.lookupText(info.Text)
		switch info.Base {
		case types.KindBoolean:
			return text == "true"
		case types.KindString:
			return text != ""
		case types.KindNumber:
			return text != "0"
		}
	}
	return false
}

// assignedInStmt collects bindings the statement may write, feeding
// the loop back-edge reset. Nested function bodies count too: they can
// run between iterations.
func (tc *typeChecker) assignedInStmt(id ast.StmtID, out map[symbols.SymbolID]bool) {
	if !id.IsValid() {
		return
	}
	st := tc.builder.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtBlock:
		if block, ok := tc.builder.Stmts.Block(id); ok {
			for _, s := range block.Stmts {
				tc.assignedInStmt(s, out)
			}
		}
	case ast.StmtVar:
		if decl, ok := tc.builder.Stmts.Var(id); ok {
			tc.assignedInExpr(decl.Init, out)
		}
	case ast.StmtExpr:
		if payload, ok := tc.builder.Stmts.Expr(id); ok {
			tc.assignedInExpr(payload.Expr, out)
		}
	case ast.StmtReturn:
		if payload, ok := tc.builder.Stmts.Return(id); ok {
			tc.assignedInExpr(payload.Value, out)
		}
	case ast.StmtIf:
		if payload, ok := tc.builder.Stmts.If(id); ok {
			tc.assignedInExpr(payload.Cond, out)
			tc.assignedInStmt(payload.Then, out)
			tc.assignedInStmt(payload.Else, out)
		}
	case ast.StmtWhile:
		if payload, ok := tc.builder.Stmts.While(id); ok {
			tc.assignedInExpr(payload.Cond, out)
			tc.assignedInStmt(payload.Body, out)
		}
	case ast.StmtForClassic:
		if payload, ok := tc.builder.Stmts.ForClassic(id); ok {
			tc.assignedInStmt(payload.Init, out)
			tc.assignedInExpr(payload.Cond, out)
			tc.assignedInExpr(payload.Post, out)
			tc.assignedInStmt(payload.Body, out)
		}
	case ast.StmtForOf:
		if loop, ok := tc.builder.Stmts.ForOf(id); ok {
			if !loop.Declared {
				if symID := tc.stmtSymbol(id); symID.IsValid() {
					out[symID] = true
				}
			}
			tc.assignedInExpr(loop.Iterable, out)
			tc.assignedInStmt(loop.Body, out)
		}
	case ast.StmtFunc:
		if payload, ok := tc.builder.Stmts.FuncDecl(id); ok {
			if fn := tc.builder.Funcs.Get(payload.Fn); fn != nil {
				tc.assignedInStmt(fn.Body, out)
				tc.assignedInExpr(fn.ExprBody, out)
			}
		}
	}
}

func (tc *typeChecker) assignedInExpr(id ast.ExprID, out map[symbols.SymbolID]bool) {
	if !id.IsValid() {
		return
	}
	ex := tc.builder.Exprs.Get(id)
	if ex == nil {
		return
	}
	switch ex.Kind {
	case ast.ExprAssign:
		payload, ok := tc.builder.Exprs.Assign(id)
		if !ok {
			return
		}
		target := tc.builder.Exprs.Unwrap(payload.Target)
		if tex := tc.builder.Exprs.Get(target); tex != nil && tex.Kind == ast.ExprIdent {
			if symID, ok := tc.symbols.ExprSymbols[target]; ok && symID.IsValid() {
				out[symID] = true
			}
		}
		tc.assignedInExpr(payload.Target, out)
		tc.assignedInExpr(payload.Value, out)
	case ast.ExprTemplate:
		if payload, ok := tc.builder.Exprs.Template(id); ok {
			for _, sub := range payload.Exprs {
				tc.assignedInExpr(sub, out)
			}
		}
	case ast.ExprArray:
		if payload, ok := tc.builder.Exprs.Array(id); ok {
			for _, sub := range payload.Elems {
				tc.assignedInExpr(sub, out)
			}
		}
	case ast.ExprObject:
		if payload, ok := tc.builder.Exprs.Object(id); ok {
			for i := range payload.Fields {
				tc.assignedInExpr(payload.Fields[i].Value, out)
			}
		}
	case ast.ExprArrow, ast.ExprFunction:
		if fnID, ok := tc.builder.Exprs.Func(id); ok {
			if fn := tc.builder.Funcs.Get(fnID); fn != nil {
				tc.assignedInStmt(fn.Body, out)
				tc.assignedInExpr(fn.ExprBody, out)
			}
		}
	case ast.ExprCall:
		if payload, ok := tc.builder.Exprs.Call(id); ok {
			tc.assignedInExpr(payload.Callee, out)
			for _, arg := range payload.Args {
				tc.assignedInExpr(arg, out)
			}
		}
	case ast.ExprNew:
		if payload, ok := tc.builder.Exprs.New(id); ok {
			tc.assignedInExpr(payload.Callee, out)
			for _, arg := range payload.Args {
				tc.assignedInExpr(arg, out)
			}
		}
	case ast.ExprMember:
		if payload, ok := tc.builder.Exprs.Member(id); ok {
			tc.assignedInExpr(payload.Object, out)
		}
	case ast.ExprIndex:
		if payload, ok := tc.builder.Exprs.Index(id); ok {
			tc.assignedInExpr(payload.Object, out)
			tc.assignedInExpr(payload.Index, out)
		}
	case ast.ExprUnary:
		if payload, ok := tc.builder.Exprs.Unary(id); ok {
			tc.assignedInExpr(payload.Operand, out)
		}
	case ast.ExprBinary:
		if payload, ok := tc.builder.Exprs.Binary(id); ok {
			tc.assignedInExpr(payload.Left, out)
			tc.assignedInExpr(payload.Right, out)
		}
	case ast.ExprCond:
		if payload, ok := tc.builder.Exprs.Cond(id); ok {
			tc.assignedInExpr(payload.Cond, out)
			tc.assignedInExpr(payload.Then, out)
			tc.assignedInExpr(payload.Else, out)
		}
	case ast.ExprGroup:
		if payload, ok := tc.builder.Exprs.Group(id); ok {
			tc.assignedInExpr(payload.Inner, out)
		}
	}
}
