package sema

import (
	"riptide/internal/ast"
	"riptide/internal/symbols"
	"riptide/internal/types"
)

// typeExpr types an expression with no contextual expectation.
func (tc *typeChecker) typeExpr(id ast.ExprID) types.TypeID {
	return tc.typeExprExpecting(id, types.NoTypeID)
}

// typeExprExpecting types an expression, letting the expected type
// flow into literal positions: array elements, object fields and the
// parameters of unannotated function expressions. Results memoize per
// node, so forward uses and declaration walks never double-report.
func (tc *typeChecker) typeExprExpecting(id ast.ExprID, want types.TypeID) types.TypeID {
	if !id.IsValid() {
		return tc.errType()
	}
	if t, ok := tc.result.ExprTypes[id]; ok {
		return t
	}
	t := tc.exprType(id, want)
	if t == types.NoTypeID {
		t = tc.errType()
	}
	tc.result.ExprTypes[id] = t
	return t
}

func (tc *typeChecker) exprType(id ast.ExprID, want types.TypeID) types.TypeID {
	ex := tc.builder.Exprs.Get(id)
	if ex == nil {
		return tc.errType()
	}
	switch ex.Kind {
	case ast.ExprBad:
		// The parser reported already.
		return tc.errType()
	case ast.ExprIdent:
		return tc.identType(id, ex)
	case ast.ExprLit:
		lit, ok := tc.builder.Exprs.Lit(id)
		if !ok {
			return tc.errType()
		}
		return tc.literalTypeOf(lit.Kind, lit.Text)
	case ast.ExprTemplate:
		return tc.templateType(id)
	case ast.ExprArray:
		return tc.arrayLitType(id, want)
	case ast.ExprObject:
		return tc.objectLitType(id, want)
	case ast.ExprArrow, ast.ExprFunction:
		return tc.funcExprType(id, want)
	case ast.ExprCall:
		return tc.callType(id, ex.Span)
	case ast.ExprNew:
		return tc.newExprType(id, ex.Span)
	case ast.ExprMember:
		return tc.memberType(id)
	case ast.ExprIndex:
		return tc.indexType(id, ex.Span)
	case ast.ExprUnary:
		return tc.unaryType(id, ex.Span)
	case ast.ExprBinary:
		return tc.binaryType(id, ex.Span)
	case ast.ExprAssign:
		return tc.assignExprType(id, ex.Span)
	case ast.ExprCond:
		return tc.condType(id, want)
	case ast.ExprGroup:
		g, ok := tc.builder.Exprs.Group(id)
		if !ok {
			return tc.errType()
		}
		return tc.typeExprExpecting(g.Inner, want)
	default:
		invariantf("unhandled expression kind %d", ex.Kind)
		return tc.errType()
	}
}

// identType resolves a name use through its symbol, applying any
// narrowing fact active on the current control path.
func (tc *typeChecker) identType(id ast.ExprID, ex *ast.Expr) types.TypeID {
	symID, ok := tc.symbols.ExprSymbols[id]
	if !ok || !symID.IsValid() {
		return tc.errType()
	}
	t := tc.ensureSymbolType(symID, ex.Span)
	if narrowed, ok := tc.flow[symID]; ok {
		return narrowed
	}
	return t
}

func (tc *typeChecker) templateType(id ast.ExprID) types.TypeID {
	tpl, ok := tc.builder.Exprs.Template(id)
	if ok {
		// Any interpolated value stringifies; the parts only need
		// visiting so their own mistakes surface.
		for _, sub := range tpl.Exprs {
			tc.typeExpr(sub)
		}
	}
	return tc.types.Builtins().String
}

func (tc *typeChecker) arrayLitType(id ast.ExprID, want types.TypeID) types.TypeID {
	arr, ok := tc.builder.Exprs.Array(id)
	if !ok {
		return tc.errType()
	}
	wantElem := types.NoTypeID
	if want != types.NoTypeID {
		if wt, ok := tc.types.Lookup(want); ok && wt.Kind == types.KindArray {
			wantElem = wt.Elem
		}
	}
	if len(arr.Elems) == 0 {
		if wantElem != types.NoTypeID {
			return tc.types.Intern(types.MakeArray(wantElem))
		}
		return tc.types.Intern(types.MakeArray(tc.types.Builtins().Any))
	}
	elems := make([]types.TypeID, 0, len(arr.Elems))
	for _, sub := range arr.Elems {
		elems = append(elems, tc.typeExprExpecting(sub, wantElem))
	}
	elem := tc.types.MakeUnion(elems)
	if wantElem == types.NoTypeID {
		// Fresh array literals widen their element type; a context that
		// expects literal elements keeps them.
		elem = tc.types.Widen(elem)
	}
	return tc.types.Intern(types.MakeArray(elem))
}

func (tc *typeChecker) objectLitType(id ast.ExprID, want types.TypeID) types.TypeID {
	obj, ok := tc.builder.Exprs.Object(id)
	if !ok {
		return tc.errType()
	}
	var wantInfo *types.ObjectInfo
	if want != types.NoTypeID {
		if info, ok := tc.types.ObjectInfo(want); ok {
			wantInfo = info
		}
	}
	fields := make([]types.Field, 0, len(obj.Fields))
	for i := range obj.Fields {
		f := &obj.Fields[i]
		wantField := types.NoTypeID
		if wantInfo != nil {
			if wf, ok := wantInfo.FieldByName(f.Name); ok {
				wantField = wf.Type
			}
		}
		vt := tc.typeExprExpecting(f.Value, wantField)
		if wantField == types.NoTypeID {
			// Properties are mutable, so fresh literal fields widen
			// unless the context pins them.
			vt = tc.types.Widen(vt)
		}
		fields = append(fields, types.Field{Name: f.Name, Type: vt})
	}
	return tc.types.RegisterObject(fields)
}

// funcExprType types an arrow or function expression. A non-generic
// function type in the expected position contributes parameter and
// return context.
func (tc *typeChecker) funcExprType(id ast.ExprID, want types.TypeID) types.TypeID {
	fnID, ok := tc.builder.Exprs.Func(id)
	if !ok {
		return tc.errType()
	}
	var ctxParams []types.FnParam
	ctxReturn := types.NoTypeID
	if want != types.NoTypeID {
		if info, ok := tc.types.FnInfo(want); ok && !info.IsGeneric() {
			ctxParams = info.Params
			ctxReturn = info.Return
		}
	}
	t := tc.fnSignatureFor(fnID, symbols.NoSymbolID, ctxParams, ctxReturn)
	// Annotated returns still need their body walked.
	tc.checkFuncExprBody(fnID, t)
	return t
}

func (tc *typeChecker) checkFuncExprBody(fnID ast.FuncID, sig types.TypeID) {
	if tc.bodiesChecked[fnID] {
		return
	}
	tc.bodiesChecked[fnID] = true
	fn := tc.builder.Funcs.Get(fnID)
	if fn == nil {
		return
	}
	expected := types.NoTypeID
	if info, ok := tc.types.FnInfo(sig); ok {
		expected = info.Return
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

func (tc *typeChecker) condType(id ast.ExprID, want types.TypeID) types.TypeID {
	cond, ok := tc.builder.Exprs.Cond(id)
	if !ok {
		return tc.errType()
	}
	tc.typeExpr(cond.Cond)
	pos, neg := tc.narrowCond(cond.Cond)
	saved := tc.flow

	tc.flow = pos
	thenT := tc.typeExprExpecting(cond.Then, want)
	tc.flow = neg
	elseT := tc.typeExprExpecting(cond.Else, want)

	tc.flow = saved
	return tc.types.MakeUnion([]types.TypeID{thenT, elseT})
}
