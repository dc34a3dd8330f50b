package symbols

import (
	"fmt"

	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/source"
)

func (fb *fileBinder) bindExpr(id ast.ExprID) {
	if !id.IsValid() {
		return
	}
	ex := fb.builder.Exprs.Get(id)
	if ex == nil {
		return
	}
	switch ex.Kind {
	case ast.ExprIdent:
		ident, ok := fb.builder.Exprs.Ident(id)
		if !ok {
			return
		}
		if sym := fb.resolveValueName(ident.Name, ex.Span); sym.IsValid() {
			fb.result.ExprSymbols[id] = sym
		}
	case ast.ExprLit, ast.ExprBad:
	case ast.ExprTemplate:
		tpl, ok := fb.builder.Exprs.Template(id)
		if !ok {
			return
		}
		for _, sub := range tpl.Exprs {
			fb.bindExpr(sub)
		}
	case ast.ExprArray:
		arr, ok := fb.builder.Exprs.Array(id)
		if !ok {
			return
		}
		for _, elem := range arr.Elems {
			fb.bindExpr(elem)
		}
	case ast.ExprObject:
		obj, ok := fb.builder.Exprs.Object(id)
		if !ok {
			return
		}
		for _, field := range obj.Fields {
			fb.bindExpr(field.Value)
		}
	case ast.ExprArrow, ast.ExprFunction:
		fnID, ok := fb.builder.Exprs.Func(id)
		if !ok {
			return
		}
		owner := ScopeOwner{Kind: ScopeOwnerExpr, SourceFile: fb.sourceFile, ASTFile: fb.fileID, Expr: id}
		fb.bindFunction(fnID, owner, ex.Kind == ast.ExprFunction)
	case ast.ExprCall:
		call, ok := fb.builder.Exprs.Call(id)
		if !ok {
			return
		}
		fb.bindExpr(call.Callee)
		for _, arg := range call.TypeArgs {
			fb.bindType(arg)
		}
		for _, arg := range call.Args {
			fb.bindExpr(arg)
		}
	case ast.ExprNew:
		payload, ok := fb.builder.Exprs.New(id)
		if !ok {
			return
		}
		fb.bindExpr(payload.Callee)
		for _, arg := range payload.Args {
			fb.bindExpr(arg)
		}
	case ast.ExprMember:
		// Property names resolve against types during checking; only
		// the receiver binds here.
		m, ok := fb.builder.Exprs.Member(id)
		if !ok {
			return
		}
		fb.bindExpr(m.Object)
	case ast.ExprIndex:
		payload, ok := fb.builder.Exprs.Index(id)
		if !ok {
			return
		}
		fb.bindExpr(payload.Object)
		fb.bindExpr(payload.Index)
	case ast.ExprUnary:
		payload, ok := fb.builder.Exprs.Unary(id)
		if !ok {
			return
		}
		fb.bindExpr(payload.Operand)
	case ast.ExprBinary:
		payload, ok := fb.builder.Exprs.Binary(id)
		if !ok {
			return
		}
		fb.bindExpr(payload.Left)
		fb.bindExpr(payload.Right)
	case ast.ExprAssign:
		payload, ok := fb.builder.Exprs.Assign(id)
		if !ok {
			return
		}
		fb.bindExpr(payload.Target)
		fb.bindExpr(payload.Value)
		fb.checkAssignTarget(payload.Target)
	case ast.ExprCond:
		payload, ok := fb.builder.Exprs.Cond(id)
		if !ok {
			return
		}
		fb.bindExpr(payload.Cond)
		fb.bindExpr(payload.Then)
		fb.bindExpr(payload.Else)
	case ast.ExprGroup:
		payload, ok := fb.builder.Exprs.Group(id)
		if !ok {
			return
		}
		fb.bindExpr(payload.Inner)
	}
}

// resolveValueName binds one identifier use in value position.
// Unresolved names report once here and map to the error symbol so the
// checker stays quiet about them.
func (fb *fileBinder) resolveValueName(name source.StringID, span source.Span) SymbolID {
	if name == source.NoStringID {
		return NoSymbolID
	}
	if symID, ok := fb.resolver.LookupOne(name, ValueKinds); ok {
		fb.checkDeadZone(symID, name, span)
		return symID
	}
	nameStr := fb.builder.Text(name)
	if _, ok := fb.resolver.LookupOne(name, TypeKinds); ok {
		msg := fmt.Sprintf("'%s' only refers to a type, but is being used as a value here", nameStr)
		diag.ReportError(fb.reporter, diag.SemaTypeUsedAsValue, span, msg).Emit()
		return fb.result.Table.ErrorSymbol()
	}
	msg := fmt.Sprintf("cannot find name '%s'", nameStr)
	diag.ReportError(fb.reporter, diag.SemaUnresolvedName, span, msg).Emit()
	return fb.result.Table.ErrorSymbol()
}

// checkDeadZone reports reads of a block-scoped binding before its
// declaration statement has run. Reads from inside a nested function
// are exempt: the function may well be called after the declaration.
func (fb *fileBinder) checkDeadZone(symID SymbolID, name source.StringID, span source.Span) {
	sym := fb.result.Table.Symbols.Get(symID)
	if sym == nil || !sym.IsPending() {
		return
	}
	if fb.resolver.crossesFunction(sym.Scope) {
		return
	}
	nameStr := fb.builder.Text(name)
	msg := fmt.Sprintf("block-scoped variable '%s' used before its declaration", nameStr)
	diag.ReportError(fb.reporter, diag.SemaUseBeforeDecl, span, msg).
		WithNote(sym.Span, "declared here").Emit()
}

// checkAssignTarget rejects writes through const and import bindings.
// Member and index writes are checked against types later; malformed
// targets were already rejected by the parser.
func (fb *fileBinder) checkAssignTarget(target ast.ExprID) {
	target = fb.builder.Exprs.Unwrap(target)
	ex := fb.builder.Exprs.Get(target)
	if ex == nil || ex.Kind != ast.ExprIdent {
		return
	}
	ident, ok := fb.builder.Exprs.Ident(target)
	if !ok {
		return
	}
	symID, ok := fb.result.ExprSymbols[target]
	if !ok {
		return
	}
	fb.checkAssignableSymbol(symID, ident.Name, ex.Span)
}

func (fb *fileBinder) checkAssignableSymbol(symID SymbolID, name source.StringID, span source.Span) {
	sym := fb.result.Table.Symbols.Get(symID)
	if sym == nil {
		return
	}
	nameStr := fb.builder.Text(name)
	switch sym.Kind {
	case SymbolConst:
		msg := fmt.Sprintf("cannot assign to '%s' because it is a constant", nameStr)
		diag.ReportError(fb.reporter, diag.SemaAssignToConst, span, msg).
			WithNote(sym.Span, "declared const here").Emit()
	case SymbolImport:
		msg := fmt.Sprintf("cannot assign to '%s' because it is an import", nameStr)
		diag.ReportError(fb.reporter, diag.SemaAssignToImport, span, msg).
			WithNote(sym.Span, "imported here").Emit()
	}
}
