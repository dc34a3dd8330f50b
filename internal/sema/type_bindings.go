package sema

import (
	"fmt"

	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/fix"
	"riptide/internal/source"
	"riptide/internal/symbols"
	"riptide/internal/types"
)

// ensureSymbolType returns the type of a symbol in value position,
// running declaration inference on first use. Re-entry while a
// declaration is still inferring is a cycle: it reports once and the
// symbol resolves to the error type, so checking always terminates.
func (tc *typeChecker) ensureSymbolType(symID symbols.SymbolID, useSpan source.Span) types.TypeID {
	sym := tc.symbolFromID(symID)
	if sym == nil {
		return tc.errType()
	}
	if info, ok := tc.decls[symID]; ok {
		if info.state == declInferring {
			tc.reportValueCycle(sym, useSpan)
			info.state = declErrored
			info.typ = tc.errType()
			tc.result.Bindings[symID] = info.typ
		}
		return info.typ
	}

	switch sym.Kind {
	case symbols.SymbolError:
		return tc.errType()
	case symbols.SymbolGlobal:
		t := tc.preludeType(tc.lookupText(sym.Name))
		tc.publishBinding(symID, t)
		return t
	case symbols.SymbolVar, symbols.SymbolLet, symbols.SymbolConst:
		return tc.inferVarSymbol(symID, sym)
	case symbols.SymbolFunction:
		return tc.fnSignatureFor(sym.Decl.Func, symID, nil, types.NoTypeID)
	case symbols.SymbolParam:
		// Parameters are typed when their signature is; this path only
		// runs for malformed trees, falling back to the annotation.
		t := tc.types.Builtins().Any
		if p := tc.builder.Funcs.Param(sym.Decl.Param); p != nil && p.Type.IsValid() {
			t = tc.resolveType(p.Type)
		}
		tc.publishBinding(symID, t)
		return t
	case symbols.SymbolImport:
		return tc.importedValueType(symID, sym)
	default:
		invariantf("value use of %s symbol reached the checker", sym.Kind)
		return tc.errType()
	}
}

func (tc *typeChecker) reportValueCycle(sym *symbols.Symbol, useSpan source.Span) {
	span := sym.Span
	if span.Empty() {
		span = useSpan
	}
	name := tc.lookupText(sym.Name)
	if sym.Kind == symbols.SymbolFunction {
		tc.report(diag.SemaCircularInference, span,
			"'%s' needs an explicit return type annotation because it references itself", name)
		return
	}
	tc.report(diag.SemaCircularInference, span,
		"'%s' is referenced directly or indirectly in its own initializer", name)
}

func (tc *typeChecker) publishBinding(symID symbols.SymbolID, t types.TypeID) {
	tc.decls[symID] = &declInfo{state: declResolved, typ: t}
	tc.result.Bindings[symID] = t
}

// markInferring installs the in-progress state and returns the entry
// so the inference body can resolve it in place.
func (tc *typeChecker) markInferring(symID symbols.SymbolID) *declInfo {
	info := &declInfo{state: declInferring}
	tc.decls[symID] = info
	return info
}

func (tc *typeChecker) resolveBinding(symID symbols.SymbolID, info *declInfo, t types.TypeID) types.TypeID {
	// A cycle report may have errored the entry while the initializer
	// walk was still running; the error type wins then.
	if info.state == declErrored {
		return info.typ
	}
	info.state = declResolved
	info.typ = t
	tc.result.Bindings[symID] = t
	return t
}

func (tc *typeChecker) inferVarSymbol(symID symbols.SymbolID, sym *symbols.Symbol) types.TypeID {
	info := tc.markInferring(symID)

	var decl *ast.VarDecl
	if sym.Decl.Item.IsValid() {
		decl, _ = tc.builder.Items.Var(sym.Decl.Item)
	} else if sym.Decl.Stmt.IsValid() {
		if d, ok := tc.builder.Stmts.Var(sym.Decl.Stmt); ok {
			decl = d
		} else if loop, ok := tc.builder.Stmts.ForOf(sym.Decl.Stmt); ok {
			// A closure can reach the loop binding before the loop
			// statement runs; the element type is derivable either way.
			elem, _ := tc.elementOfIterable(tc.typeExpr(loop.Iterable))
			return tc.resolveBinding(symID, info, elem)
		}
	}
	if decl == nil {
		return tc.resolveBinding(symID, info, tc.errType())
	}

	if decl.Type.IsValid() {
		declared := tc.resolveType(decl.Type)
		// Publish before walking the initializer so self-references
		// type against the annotation instead of cycling.
		t := tc.resolveBinding(symID, info, declared)
		if decl.Init.IsValid() {
			actual := tc.typeExprExpecting(decl.Init, declared)
			tc.checkAssignable(tc.exprSpan(decl.Init), actual, declared)
		}
		return t
	}

	if decl.Init.IsValid() {
		actual := tc.typeExpr(decl.Init)
		if decl.Kind != ast.DeclConst {
			actual = tc.types.Widen(actual)
		}
		return tc.resolveBinding(symID, info, actual)
	}

	// `let x;` starts as any and stays so; the dialect has no
	// definite-assignment analysis.
	return tc.resolveBinding(symID, info, tc.types.Builtins().Any)
}

// fnSignatureFor computes a function's signature type, walking the
// body early only when the return type needs inferring. Signatures
// memoize per function node, so a named function expression reached
// both through its outer binding and its inner name computes once.
// Contextual parameter and return types flow in when an unannotated
// function expression sits in a typed position.
func (tc *typeChecker) fnSignatureFor(fnID ast.FuncID, symID symbols.SymbolID, ctxParams []types.FnParam, ctxReturn types.TypeID) types.TypeID {
	fn := tc.builder.Funcs.Get(fnID)
	if fn == nil {
		return tc.errType()
	}
	if sig, ok := tc.fnSigs[fnID]; ok {
		if sig.state == declInferring {
			tc.reportFnCycle(fn)
			sig.state = declErrored
			sig.typ = tc.errType()
		}
		if symID.IsValid() {
			tc.publishBinding(symID, sig.typ)
		}
		return sig.typ
	}
	sig := &declInfo{state: declInferring}
	tc.fnSigs[fnID] = sig
	var info *declInfo
	if symID.IsValid() {
		info = tc.markInferring(symID)
	}

	tps := tc.declareEntityTypeParams(fn.TypeParams)
	params := tc.typeParams(fn, ctxParams)

	var t types.TypeID
	if fn.Return.IsValid() {
		ret := tc.resolveType(fn.Return)
		t = tc.types.RegisterFn(types.FnInfo{Params: params, Return: ret, TypeParams: tps})
	} else {
		// No annotation: the body decides. Collect every return type
		// now; recursion lands back on one of the inferring states.
		tc.bodiesChecked[fnID] = true
		var collected []types.TypeID
		tc.returnStack = append(tc.returnStack, returnContext{collect: &collected})
		savedFlow := tc.flow
		tc.flow = nil

		switch {
		case fn.Body.IsValid():
			tc.checkStmt(fn.Body)
		case fn.ExprBody.IsValid():
			collected = append(collected, tc.typeExprExpecting(fn.ExprBody, ctxReturn))
		}

		tc.flow = savedFlow
		tc.returnStack = tc.returnStack[:len(tc.returnStack)-1]

		ret := tc.types.Builtins().Void
		if len(collected) > 0 {
			ret = tc.types.MakeUnion(collected)
		}
		t = tc.types.RegisterFn(types.FnInfo{Params: params, Return: ret, TypeParams: tps})
	}

	// A cycle report may have errored either state entry while the
	// body walk was in flight; the error result wins then.
	if info != nil && info.state == declErrored {
		sig.state = declErrored
		sig.typ = info.typ
		return info.typ
	}
	if sig.state == declErrored {
		if info != nil {
			info.state = declErrored
			info.typ = sig.typ
			tc.result.Bindings[symID] = sig.typ
		}
		return sig.typ
	}
	sig.state = declResolved
	sig.typ = t
	if info != nil {
		return tc.resolveBinding(symID, info, t)
	}
	return t
}

func (tc *typeChecker) reportFnCycle(fn *ast.Func) {
	span := fn.NameSpan
	if span.Empty() {
		span = fn.Span
	}
	tc.report(diag.SemaCircularInference, span,
		"'%s' needs an explicit return type annotation because it references itself", tc.lookupText(fn.Name))
}

// typeParams types a signature's parameters and publishes their
// bindings for the body walk. Optional parameters stay as declared in
// the signature but read as possibly undefined inside the body.
func (tc *typeChecker) typeParams(fn *ast.Func, ctxParams []types.FnParam) []types.FnParam {
	b := tc.types.Builtins()
	params := make([]types.FnParam, 0, len(fn.Params))
	for i, pid := range fn.Params {
		p := tc.builder.Funcs.Param(pid)
		if p == nil {
			params = append(params, types.FnParam{Type: b.Error})
			continue
		}
		var t types.TypeID
		switch {
		case p.Type.IsValid():
			t = tc.resolveType(p.Type)
		case i < len(ctxParams) && ctxParams[i].Type != types.NoTypeID:
			t = ctxParams[i].Type
		default:
			t = b.Any
			if tc.strict {
				rb := diag.ReportError(tc.reporter, diag.SemaImplicitAny, p.NameSpan,
					fmt.Sprintf("parameter '%s' implicitly has an 'any' type", tc.lookupText(p.Name)))
				if !p.Optional && !p.NameSpan.Empty() {
					annotation := fix.InsertText("add ': any' annotation", p.NameSpan.File, p.NameSpan.End, ": any")
					rb.WithFix(annotation.Title, annotation.Edits...)
				}
				rb.Emit()
			}
		}
		params = append(params, types.FnParam{Name: p.Name, Type: t, Optional: p.Optional})

		bodyT := t
		if p.Optional {
			bodyT = tc.types.MakeUnion([]types.TypeID{t, b.Undefined})
		}
		if tc.symbols != nil {
			if psym, ok := tc.symbols.ParamSymbols[pid]; ok && psym.IsValid() {
				tc.publishBinding(psym, bodyT)
			}
		}
	}
	return params
}

// checkFunctionBody walks a declared function's body against its
// signature. Bodies already walked during return inference are not
// repeated.
func (tc *typeChecker) checkFunctionBody(fnID ast.FuncID, symID symbols.SymbolID) {
	if fnID == ast.NoFuncID || tc.bodiesChecked[fnID] {
		return
	}
	tc.bodiesChecked[fnID] = true
	fn := tc.builder.Funcs.Get(fnID)
	if fn == nil {
		return
	}

	expected := types.NoTypeID
	if symID.IsValid() {
		if info, ok := tc.decls[symID]; ok {
			if fnInfo, ok := tc.types.FnInfo(info.typ); ok {
				expected = fnInfo.Return
			}
		}
	}

	tc.returnStack = append(tc.returnStack, returnContext{expected: expected, span: fn.ReturnSpan})
	savedFlow := tc.flow
	tc.flow = nil

	switch {
	case fn.Body.IsValid():
		tc.checkStmt(fn.Body)
	case fn.ExprBody.IsValid():
		t := tc.typeExprExpecting(fn.ExprBody, expected)
		if expected != types.NoTypeID && expected != tc.types.Builtins().Void {
			tc.checkAssignable(tc.exprSpan(fn.ExprBody), t, expected)
		}
	}

	tc.flow = savedFlow
	tc.returnStack = tc.returnStack[:len(tc.returnStack)-1]
}

// checkVarDecl types one variable declaration. Inference may already
// have run through a forward use; the memoized entry keeps the
// diagnostics single-shot.
func (tc *typeChecker) checkVarDecl(decl *ast.VarDecl, symID symbols.SymbolID) {
	if decl == nil {
		return
	}
	if !symID.IsValid() {
		// The name failed to bind; still type the pieces for coverage.
		if decl.Type.IsValid() {
			tc.resolveType(decl.Type)
		}
		if decl.Init.IsValid() {
			tc.typeExpr(decl.Init)
		}
		return
	}
	tc.ensureSymbolType(symID, decl.NameSpan)
}

// checkAssignable reports when src does not flow into dst. Error types
// pass silently in both directions so one mistake reports once.
func (tc *typeChecker) checkAssignable(span source.Span, src, dst types.TypeID) bool {
	if src == types.NoTypeID || dst == types.NoTypeID {
		return true
	}
	if tc.assign.Assignable(src, dst) {
		return true
	}
	tc.reportAssignMismatch(span, src, dst)
	return false
}

func (tc *typeChecker) reportAssignMismatch(span source.Span, src, dst types.TypeID) {
	if tc.types.IsError(src) || tc.types.IsError(dst) {
		return
	}
	if tc.strict && tc.nullishCaused(src, dst) {
		tc.report(diag.SemaNullNotAllowed, span,
			"type '%s' is not assignable to type '%s'", tc.typeLabel(src), tc.typeLabel(dst))
		return
	}
	msg := fmt.Sprintf("type '%s' is not assignable to type '%s'", tc.typeLabel(src), tc.typeLabel(dst))
	if detail := tc.assignDetail(src, dst); detail != "" {
		msg += "; " + detail
	}
	tc.report(diag.SemaTypeMismatch, span, "%s", msg)
}

// nullishCaused reports whether stripping null and undefined from the
// source would make the assignment legal, meaning strict null checking
// is the only thing in the way.
func (tc *typeChecker) nullishCaused(src, dst types.TypeID) bool {
	if tc.types.IsNullish(src) {
		return true
	}
	if !tc.types.ContainsNullish(src) {
		return false
	}
	return tc.assign.Assignable(tc.types.RemoveNullish(src), dst)
}

// assignDetail names the first property that breaks an object
// assignment, so the main diagnostic points at the culprit.
func (tc *typeChecker) assignDetail(src, dst types.TypeID) string {
	srcInfo, okSrc := tc.types.ObjectInfo(src)
	dstInfo, okDst := tc.types.ObjectInfo(dst)
	if okSrc && okDst {
		for i := range dstInfo.Fields {
			df := &dstInfo.Fields[i]
			sf, ok := srcInfo.FieldByName(df.Name)
			if !ok {
				if df.Optional {
					continue
				}
				return fmt.Sprintf("property '%s' is missing in type '%s'",
					tc.lookupText(df.Name), tc.typeLabel(src))
			}
			if !tc.assign.Assignable(sf.Type, df.Type) {
				return fmt.Sprintf("types of property '%s' are incompatible", tc.lookupText(df.Name))
			}
		}
		return ""
	}
	srcT, okS := tc.types.Lookup(src)
	dstT, okD := tc.types.Lookup(dst)
	if okS && okD && srcT.Kind == types.KindArray && dstT.Kind == types.KindArray {
		return tc.assignDetail(srcT.Elem, dstT.Elem)
	}
	return ""
}
