package sema

import (
	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/source"
	"riptide/internal/symbols"
	"riptide/internal/types"
)

func (tc *typeChecker) checkStmt(id ast.StmtID) {
	if !id.IsValid() {
		return
	}
	st := tc.builder.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtBlock:
		block, ok := tc.builder.Stmts.Block(id)
		if !ok {
			return
		}
		for _, s := range block.Stmts {
			tc.checkStmt(s)
		}
	case ast.StmtVar:
		decl, ok := tc.builder.Stmts.Var(id)
		if !ok {
			return
		}
		tc.checkVarDecl(decl, tc.stmtSymbol(id))
	case ast.StmtExpr:
		payload, ok := tc.builder.Stmts.Expr(id)
		if ok {
			tc.typeExpr(payload.Expr)
		}
	case ast.StmtReturn:
		tc.checkReturn(id, st.Span)
	case ast.StmtIf:
		tc.checkIf(id)
	case ast.StmtWhile:
		tc.checkWhile(id)
	case ast.StmtForClassic:
		tc.checkForClassic(id)
	case ast.StmtForOf:
		tc.checkForOf(id)
	case ast.StmtFunc:
		payload, ok := tc.builder.Stmts.FuncDecl(id)
		if !ok {
			return
		}
		sym := tc.stmtSymbol(id)
		tc.ensureSymbolType(sym, st.Span)
		tc.checkFunctionBody(payload.Fn, sym)
	case ast.StmtBreak, ast.StmtContinue, ast.StmtBad:
		// Loop structure handles the first two; bad already reported.
	}
}

func (tc *typeChecker) stmtSymbol(id ast.StmtID) symbols.SymbolID {
	if tc.symbols == nil {
		return symbols.NoSymbolID
	}
	return tc.symbols.StmtSymbols[id]
}

func (tc *typeChecker) checkReturn(id ast.StmtID, span source.Span) {
	ret, ok := tc.builder.Stmts.Return(id)
	if !ok {
		return
	}
	b := tc.types.Builtins()
	if len(tc.returnStack) == 0 {
		// Module-level return; the parser tolerates it, the emitter
		// passes it through.
		if ret.Value.IsValid() {
			tc.typeExpr(ret.Value)
		}
		return
	}
	ctx := &tc.returnStack[len(tc.returnStack)-1]
	if ctx.collect != nil {
		if ret.Value.IsValid() {
			*ctx.collect = append(*ctx.collect, tc.typeExpr(ret.Value))
		} else {
			*ctx.collect = append(*ctx.collect, b.Undefined)
		}
		return
	}
	if ret.Value.IsValid() {
		got := tc.typeExprExpecting(ret.Value, ctx.expected)
		if ctx.expected != types.NoTypeID {
			tc.checkAssignable(tc.exprSpan(ret.Value), got, ctx.expected)
		}
		return
	}
	if ctx.expected == types.NoTypeID || ctx.expected == b.Void ||
		tc.types.IsError(ctx.expected) || tc.types.IsAny(ctx.expected) {
		return
	}
	if !tc.assign.Assignable(b.Undefined, ctx.expected) {
		tc.report(diag.SemaTypeMismatch, span,
			"a function whose declared return type is '%s' must return a value", tc.typeLabel(ctx.expected))
	}
}

func (tc *typeChecker) checkIf(id ast.StmtID) {
	payload, ok := tc.builder.Stmts.If(id)
	if !ok {
		return
	}
	tc.typeExpr(payload.Cond)
	pos, neg := tc.narrowCond(payload.Cond)
	saved := tc.flow

	tc.flow = pos
	tc.checkStmt(payload.Then)
	thenOut := tc.flow
	thenTerm := tc.stmtTerminates(payload.Then)

	tc.flow = neg
	elseTerm := false
	if payload.Else.IsValid() {
		tc.checkStmt(payload.Else)
		elseTerm = tc.stmtTerminates(payload.Else)
	}
	elseOut := tc.flow

	// A branch that cannot fall through contributes nothing to the
	// state after the statement; `if (x === null) return` leaves the
	// complement in force.
	switch {
	case thenTerm && elseTerm:
		tc.flow = saved
	case thenTerm:
		tc.flow = elseOut
	case elseTerm:
		tc.flow = thenOut
	default:
		tc.flow = tc.joinFlow(thenOut, elseOut)
	}
}

// stmtTerminates reports whether control cannot fall out of the
// statement. Only returns count; break and continue redirect inside
// the loop machinery instead.
func (tc *typeChecker) stmtTerminates(id ast.StmtID) bool {
	st := tc.builder.Stmts.Get(id)
	if st == nil {
		return false
	}
	switch st.Kind {
	case ast.StmtReturn:
		return true
	case ast.StmtBlock:
		block, ok := tc.builder.Stmts.Block(id)
		if !ok {
			return false
		}
		for _, s := range block.Stmts {
			if tc.stmtTerminates(s) {
				return true
			}
		}
		return false
	case ast.StmtIf:
		payload, ok := tc.builder.Stmts.If(id)
		if !ok || !payload.Else.IsValid() {
			return false
		}
		return tc.stmtTerminates(payload.Then) && tc.stmtTerminates(payload.Else)
	default:
		return false
	}
}

func (tc *typeChecker) checkWhile(id ast.StmtID) {
	payload, ok := tc.builder.Stmts.While(id)
	if !ok {
		return
	}
	// The back edge re-runs the condition with whatever the body
	// assigned; facts for those bindings reset before anything narrows.
	assigned := make(map[symbols.SymbolID]bool)
	tc.assignedInStmt(payload.Body, assigned)
	tc.dropFacts(assigned)

	tc.typeExpr(payload.Cond)
	pos, neg := tc.narrowCond(payload.Cond)

	tc.flow = pos
	tc.checkStmt(payload.Body)

	if tc.loopBreaks(payload.Body) {
		// A break can exit with the condition still true; only the
		// assignment resets survive.
		tc.flow = neg
		tc.dropFacts(assigned)
		return
	}
	tc.flow = neg
}

func (tc *typeChecker) checkForClassic(id ast.StmtID) {
	payload, ok := tc.builder.Stmts.ForClassic(id)
	if !ok {
		return
	}
	if payload.Init.IsValid() {
		tc.checkStmt(payload.Init)
	}
	assigned := make(map[symbols.SymbolID]bool)
	tc.assignedInStmt(payload.Body, assigned)
	tc.assignedInExpr(payload.Post, assigned)
	tc.dropFacts(assigned)

	var pos, neg flowMap
	if payload.Cond.IsValid() {
		tc.typeExpr(payload.Cond)
		pos, neg = tc.narrowCond(payload.Cond)
	} else {
		pos = tc.cloneFlow(tc.flow)
		neg = tc.cloneFlow(tc.flow)
	}

	tc.flow = pos
	tc.checkStmt(payload.Body)
	if payload.Post.IsValid() {
		tc.typeExpr(payload.Post)
	}

	tc.flow = neg
	if tc.loopBreaks(payload.Body) {
		tc.dropFacts(assigned)
	}
}

func (tc *typeChecker) checkForOf(id ast.StmtID) {
	loop, ok := tc.builder.Stmts.ForOf(id)
	if !ok {
		return
	}
	iterT := tc.typeExpr(loop.Iterable)
	elem, iterable := tc.elementOfIterable(iterT)
	if !iterable {
		tc.report(diag.SemaNotIterable, tc.exprSpan(loop.Iterable),
			"type '%s' is not iterable", tc.typeLabel(iterT))
	}

	symID := tc.stmtSymbol(id)
	if loop.Declared {
		if symID.IsValid() {
			if _, ok := tc.decls[symID]; !ok {
				tc.publishBinding(symID, elem)
			}
		}
	} else if symID.IsValid() {
		declared := tc.ensureSymbolType(symID, loop.NameSpan)
		tc.checkAssignable(loop.NameSpan, elem, declared)
	}

	assigned := make(map[symbols.SymbolID]bool)
	tc.assignedInStmt(loop.Body, assigned)
	if symID.IsValid() {
		assigned[symID] = true
	}
	tc.dropFacts(assigned)

	tc.checkStmt(loop.Body)
	tc.dropFacts(assigned)
}

// elementOfIterable reports the element type a for-of loop sees.
// Error and any stay themselves so contained failures keep quiet.
func (tc *typeChecker) elementOfIterable(t types.TypeID) (types.TypeID, bool) {
	b := tc.types.Builtins()
	if tc.types.IsError(t) {
		return b.Error, true
	}
	if tc.types.IsAny(t) {
		return b.Any, true
	}
	tt, ok := tc.types.Lookup(t)
	if !ok {
		return b.Error, false
	}
	switch tt.Kind {
	case types.KindArray:
		return tt.Elem, true
	case types.KindString:
		return b.String, true
	case types.KindLiteral:
		if tc.types.LiteralBase(t) == b.String {
			return b.String, true
		}
	case types.KindUnion:
		members := tc.types.UnionMembers(t)
		elems := make([]types.TypeID, 0, len(members))
		for _, m := range members {
			elem, ok := tc.elementOfIterable(m)
			if !ok {
				return b.Error, false
			}
			elems = append(elems, elem)
		}
		return tc.types.MakeUnion(elems), true
	}
	return b.Error, false
}

// loopBreaks reports whether a break in the statement targets the
// enclosing loop. Nested loops own their breaks.
func (tc *typeChecker) loopBreaks(id ast.StmtID) bool {
	st := tc.builder.Stmts.Get(id)
	if st == nil {
		return false
	}
	switch st.Kind {
	case ast.StmtBreak:
		return true
	case ast.StmtBlock:
		block, ok := tc.builder.Stmts.Block(id)
		if !ok {
			return false
		}
		for _, s := range block.Stmts {
			if tc.loopBreaks(s) {
				return true
			}
		}
	case ast.StmtIf:
		payload, ok := tc.builder.Stmts.If(id)
		if !ok {
			return false
		}
		if tc.loopBreaks(payload.Then) {
			return true
		}
		return payload.Else.IsValid() && tc.loopBreaks(payload.Else)
	}
	return false
}
