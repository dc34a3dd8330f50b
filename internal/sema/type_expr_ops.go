package sema

import (
	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/source"
	"riptide/internal/types"
)

func (tc *typeChecker) unaryType(id ast.ExprID, span source.Span) types.TypeID {
	un, ok := tc.builder.Exprs.Unary(id)
	if !ok {
		return tc.errType()
	}
	operand := tc.typeExpr(un.Operand)
	spec, ok := types.UnarySpecFor(un.Op)
	if !ok {
		invariantf("no unary spec for operator %s", un.Op)
		return tc.errType()
	}
	if !tc.types.IsError(operand) &&
		!types.FamilyAccepts(spec.Operand, types.FamilyOf(tc.types, operand)) {
		tc.report(diag.SemaInvalidUnaryOperand, span,
			"operator '%s' cannot be applied to type '%s'", un.Op, tc.typeLabel(operand))
	}
	b := tc.types.Builtins()
	switch spec.Result {
	case types.UnaryResultNumber:
		return b.Number
	case types.UnaryResultBoolean:
		return b.Boolean
	case types.UnaryResultString:
		return b.String
	default:
		return tc.errType()
	}
}

func (tc *typeChecker) binaryType(id ast.ExprID, span source.Span) types.TypeID {
	bin, ok := tc.builder.Exprs.Binary(id)
	if !ok {
		return tc.errType()
	}
	if bin.Op.IsLogical() {
		return tc.logicalType(bin)
	}
	left := tc.typeExpr(bin.Left)
	right := tc.typeExpr(bin.Right)
	return tc.applyBinary(bin.Op, left, right, span)
}

// applyBinary checks operand families against the operator table and
// derives the result type. Compound assignment shares it.
func (tc *typeChecker) applyBinary(op ast.BinaryOp, left, right types.TypeID, span source.Span) types.TypeID {
	spec, ok := types.BinarySpecFor(op)
	if !ok {
		invariantf("no binary spec for operator %s", op)
		return tc.errType()
	}
	b := tc.types.Builtins()
	lf := types.FamilyOf(tc.types, left)
	rf := types.FamilyOf(tc.types, right)
	switch {
	case tc.types.IsError(left) || tc.types.IsError(right):
		// Contained upstream.
	case !types.FamilyAccepts(spec.Left, lf) || !types.FamilyAccepts(spec.Right, rf):
		tc.report(diag.SemaInvalidBinaryOperands, span,
			"operator '%s' cannot be applied to types '%s' and '%s'",
			op, tc.typeLabel(left), tc.typeLabel(right))
	case op.IsComparison() && !op.IsEquality() &&
		lf&rf&(types.FamilyNumber|types.FamilyString) == 0 &&
		(lf|rf)&types.FamilyAny == 0:
		// Relational order compares numbers with numbers and strings
		// with strings, never across.
		tc.report(diag.SemaInvalidBinaryOperands, span,
			"operator '%s' cannot be applied to types '%s' and '%s'",
			op, tc.typeLabel(left), tc.typeLabel(right))
	}
	switch spec.Result {
	case types.BinaryResultNumber:
		return b.Number
	case types.BinaryResultBoolean:
		return b.Boolean
	case types.BinaryResultPlus:
		if (lf|rf)&types.FamilyString != 0 {
			return b.String
		}
		return b.Number
	default:
		invariantf("binary operator %s has no result rule", op)
		return tc.errType()
	}
}

// logicalType types the short-circuit operators. The right side sees
// the narrowing implied by the left: `&&` takes the truthy facts,
// `||` the falsy complement. `??` drops null and undefined from the
// left side of the result, which is the operator's entire point.
func (tc *typeChecker) logicalType(bin *ast.BinaryExpr) types.TypeID {
	left := tc.typeExpr(bin.Left)
	saved := tc.flow
	if bin.Op != ast.BinNullish {
		pos, neg := tc.narrowCond(bin.Left)
		if bin.Op == ast.BinLogicalAnd {
			tc.flow = pos
		} else {
			tc.flow = neg
		}
	}
	right := tc.typeExpr(bin.Right)
	tc.flow = saved

	if tc.types.IsError(left) || tc.types.IsError(right) {
		return tc.errType()
	}
	if bin.Op == ast.BinNullish {
		return tc.types.MakeUnion([]types.TypeID{tc.types.RemoveNullish(left), right})
	}
	return tc.types.MakeUnion([]types.TypeID{left, right})
}

func (tc *typeChecker) assignExprType(id ast.ExprID, span source.Span) types.TypeID {
	as, ok := tc.builder.Exprs.Assign(id)
	if !ok {
		return tc.errType()
	}
	readT := tc.typeExpr(as.Target)
	writeT := readT
	if declared, ok := tc.declaredTargetType(as.Target); ok {
		// Narrowing constrains reads; the declaration decides what may
		// be written.
		writeT = declared
	}
	var result types.TypeID
	if base, compound := as.Op.BinaryBase(); compound {
		valueT := tc.typeExpr(as.Value)
		result = tc.applyBinary(base, readT, valueT, span)
		tc.checkAssignable(span, result, writeT)
	} else {
		valueT := tc.typeExprExpecting(as.Value, writeT)
		tc.checkAssignable(tc.exprSpan(as.Value), valueT, writeT)
		result = valueT
	}
	tc.killNarrowing(as.Target)
	return result
}

// declaredTargetType recovers the declared binding type of an
// identifier target. ensureSymbolType already ran through the target
// read, so the binding is published by the time this looks it up.
func (tc *typeChecker) declaredTargetType(target ast.ExprID) (types.TypeID, bool) {
	target = tc.builder.Exprs.Unwrap(target)
	ex := tc.builder.Exprs.Get(target)
	if ex == nil || ex.Kind != ast.ExprIdent {
		return types.NoTypeID, false
	}
	symID, ok := tc.symbols.ExprSymbols[target]
	if !ok || !symID.IsValid() {
		return types.NoTypeID, false
	}
	t, ok := tc.result.Bindings[symID]
	return t, ok
}

// killNarrowing drops flow facts for a binding that was just written.
func (tc *typeChecker) killNarrowing(target ast.ExprID) {
	target = tc.builder.Exprs.Unwrap(target)
	ex := tc.builder.Exprs.Get(target)
	if ex == nil || ex.Kind != ast.ExprIdent {
		return
	}
	if symID, ok := tc.symbols.ExprSymbols[target]; ok && symID.IsValid() {
		delete(tc.flow, symID)
	}
}
