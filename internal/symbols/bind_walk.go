package symbols

import (
	"riptide/internal/ast"
	"riptide/internal/source"
)

func (fb *fileBinder) bindItem(id ast.ItemID) {
	item := fb.builder.Items.Get(id)
	if item == nil {
		return
	}
	switch item.Kind {
	case ast.ItemVar:
		decl, ok := fb.builder.Items.Var(id)
		if !ok {
			return
		}
		var sym SymbolID
		if syms := fb.result.ItemSymbols[id]; len(syms) > 0 {
			sym = syms[0]
		}
		fb.bindVarDecl(decl, sym)
	case ast.ItemFunction:
		fnID, ok := fb.builder.Items.Function(id)
		if !ok {
			return
		}
		owner := ScopeOwner{Kind: ScopeOwnerItem, SourceFile: fb.sourceFile, ASTFile: fb.fileID, Item: id}
		fb.bindFunction(fnID, owner, false)
	case ast.ItemTypeAlias:
		fb.bindTypeAlias(id, item.Span)
	case ast.ItemInterface:
		fb.bindInterface(id, item.Span)
	case ast.ItemImport:
		fb.bindImport(id, item.Span)
	case ast.ItemExport:
		// Export lists resolve after the whole module is bound; see
		// collectExports.
	case ast.ItemStmt:
		stmtID, ok := fb.builder.Items.Stmt(id)
		if ok {
			fb.bindStmt(stmtID)
		}
	}
}

// bindVarDecl resolves the annotation and binds the initializer while
// the binding is still in its dead zone, so `let x = x` reports, then
// lifts the dead zone.
func (fb *fileBinder) bindVarDecl(decl *ast.VarDecl, sym SymbolID) {
	if decl.Type.IsValid() {
		fb.bindType(decl.Type)
	}
	if decl.Init.IsValid() {
		fb.bindExpr(decl.Init)
	}
	if s := fb.result.Table.Symbols.Get(sym); s != nil {
		s.Flags &^= SymbolFlagPending
	}
}

// bindFunction binds a signature and body. Declared names were already
// installed in the enclosing scope by the hoisting prepass; function
// expressions bind their own name inside the body scope so recursion
// works without leaking the name outward.
func (fb *fileBinder) bindFunction(fnID ast.FuncID, owner ScopeOwner, expression bool) {
	fn := fb.builder.Funcs.Get(fnID)
	if fn == nil {
		return
	}
	r := fb.resolver

	typeParamScope := NoScopeID
	if len(fn.TypeParams) > 0 {
		typeParamScope = r.Enter(ScopeTypeParams, owner, fn.Span)
		fb.declareTypeParams(fn.TypeParams, owner)
	}

	fnScope := r.Enter(ScopeFunction, owner, fn.Span)
	for _, paramID := range fn.Params {
		fb.bindParam(paramID, owner)
	}
	if expression && fn.Name != source.NoStringID {
		// The name of a function expression is visible only inside its
		// own body, and a parameter with the same name wins silently.
		scope := fb.result.Table.Scopes.Get(fnScope)
		if scope != nil && len(scope.NameIndex[fn.Name]) == 0 {
			d := SymbolDecl{SourceFile: fb.sourceFile, ASTFile: fb.fileID, Expr: owner.Expr, Func: fnID}
			r.declareWithoutChecks(fn.Name, fn.NameSpan, SymbolFunction, 0, d)
		}
	}
	if fn.Return.IsValid() {
		fb.bindType(fn.Return)
	}

	switch {
	case fn.Body.IsValid():
		fb.bindFunctionBody(fn.Body)
	case fn.ExprBody.IsValid():
		fb.bindExpr(fn.ExprBody)
	}

	r.Leave(fnScope)
	if typeParamScope.IsValid() {
		r.Leave(typeParamScope)
	}
}

// bindFunctionBody walks a body block in the function scope itself, so
// parameters and body-level declarations collide the way the runtime
// sees them.
func (fb *fileBinder) bindFunctionBody(body ast.StmtID) {
	block, ok := fb.builder.Stmts.Block(body)
	if !ok {
		fb.bindStmt(body)
		return
	}
	for _, s := range block.Stmts {
		fb.hoistStmt(s)
	}
	for _, s := range block.Stmts {
		fb.bindStmt(s)
	}
}

// declareTypeParams installs every parameter before binding any
// constraint, so `<T, U extends T>` resolves.
func (fb *fileBinder) declareTypeParams(tps []ast.TypeParamID, owner ScopeOwner) {
	for _, tpID := range tps {
		tp := fb.builder.Funcs.TypeParam(tpID)
		if tp == nil || tp.Name == source.NoStringID {
			continue
		}
		d := SymbolDecl{
			SourceFile: fb.sourceFile,
			ASTFile:    fb.fileID,
			Item:       owner.Item,
			Stmt:       owner.Stmt,
			Expr:       owner.Expr,
			TypeParam:  tpID,
		}
		sym, _ := fb.resolver.Declare(tp.Name, tp.NameSpan, SymbolTypeParam, 0, d)
		if sym.IsValid() {
			fb.result.TypeParamSymbols[tpID] = sym
		}
	}
	for _, tpID := range tps {
		tp := fb.builder.Funcs.TypeParam(tpID)
		if tp == nil || !tp.Constraint.IsValid() {
			continue
		}
		fb.bindType(tp.Constraint)
	}
}

func (fb *fileBinder) bindParam(paramID ast.ParamID, owner ScopeOwner) {
	param := fb.builder.Funcs.Param(paramID)
	if param == nil {
		return
	}
	if param.Name != source.NoStringID {
		d := SymbolDecl{
			SourceFile: fb.sourceFile,
			ASTFile:    fb.fileID,
			Item:       owner.Item,
			Stmt:       owner.Stmt,
			Expr:       owner.Expr,
			Param:      paramID,
		}
		sym, _ := fb.resolver.Declare(param.Name, param.NameSpan, SymbolParam, 0, d)
		if sym.IsValid() {
			fb.result.ParamSymbols[paramID] = sym
		}
	}
	if param.Type.IsValid() {
		fb.bindType(param.Type)
	}
}

func (fb *fileBinder) bindTypeAlias(id ast.ItemID, span source.Span) {
	decl, ok := fb.builder.Items.TypeAlias(id)
	if !ok {
		return
	}
	owner := ScopeOwner{Kind: ScopeOwnerItem, SourceFile: fb.sourceFile, ASTFile: fb.fileID, Item: id}
	tpScope := NoScopeID
	if len(decl.TypeParams) > 0 {
		tpScope = fb.resolver.Enter(ScopeTypeParams, owner, span)
		fb.declareTypeParams(decl.TypeParams, owner)
	}
	if decl.Aliased.IsValid() {
		fb.bindType(decl.Aliased)
	}
	if tpScope.IsValid() {
		fb.resolver.Leave(tpScope)
	}
}

func (fb *fileBinder) bindInterface(id ast.ItemID, span source.Span) {
	decl, ok := fb.builder.Items.Interface(id)
	if !ok {
		return
	}
	owner := ScopeOwner{Kind: ScopeOwnerItem, SourceFile: fb.sourceFile, ASTFile: fb.fileID, Item: id}
	tpScope := NoScopeID
	if len(decl.TypeParams) > 0 {
		tpScope = fb.resolver.Enter(ScopeTypeParams, owner, span)
		fb.declareTypeParams(decl.TypeParams, owner)
	}
	for _, ext := range decl.Extends {
		fb.bindType(ext)
	}
	for _, member := range decl.Members {
		if member.Type.IsValid() {
			fb.bindType(member.Type)
		}
	}
	if tpScope.IsValid() {
		fb.resolver.Leave(tpScope)
	}
}

func (fb *fileBinder) bindImport(id ast.ItemID, span source.Span) {
	decl, ok := fb.builder.Items.Import(id)
	if !ok {
		return
	}
	refSpan := decl.ModuleSpan
	if refSpan == (source.Span{}) {
		refSpan = span
	}
	fb.result.Imports = append(fb.result.Imports, ImportRef{
		Item:   id,
		Module: fb.builder.Text(decl.Module),
		Span:   refSpan,
	})
}

func (fb *fileBinder) bindStmt(id ast.StmtID) {
	st := fb.builder.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtBlock:
		block, ok := fb.builder.Stmts.Block(id)
		if !ok {
			return
		}
		scope := fb.resolver.Enter(ScopeBlock, fb.stmtOwner(id), st.Span)
		fb.prepassStmts(block.Stmts)
		for _, s := range block.Stmts {
			fb.bindStmt(s)
		}
		fb.resolver.Leave(scope)
	case ast.StmtVar:
		decl, ok := fb.builder.Stmts.Var(id)
		if !ok {
			return
		}
		fb.bindVarDecl(decl, fb.result.StmtSymbols[id])
	case ast.StmtExpr:
		payload, ok := fb.builder.Stmts.Expr(id)
		if ok && payload.Expr.IsValid() {
			fb.bindExpr(payload.Expr)
		}
	case ast.StmtReturn:
		payload, ok := fb.builder.Stmts.Return(id)
		if ok && payload.Value.IsValid() {
			fb.bindExpr(payload.Value)
		}
	case ast.StmtIf:
		payload, ok := fb.builder.Stmts.If(id)
		if !ok {
			return
		}
		if payload.Cond.IsValid() {
			fb.bindExpr(payload.Cond)
		}
		fb.bindStmt(payload.Then)
		if payload.Else.IsValid() {
			fb.bindStmt(payload.Else)
		}
	case ast.StmtWhile:
		payload, ok := fb.builder.Stmts.While(id)
		if !ok {
			return
		}
		if payload.Cond.IsValid() {
			fb.bindExpr(payload.Cond)
		}
		fb.bindStmt(payload.Body)
	case ast.StmtForClassic:
		fb.bindForClassic(id, st.Span)
	case ast.StmtForOf:
		fb.bindForOf(id, st.Span)
	case ast.StmtFunc:
		payload, ok := fb.builder.Stmts.FuncDecl(id)
		if !ok {
			return
		}
		fb.bindFunction(payload.Fn, fb.stmtOwner(id), false)
	case ast.StmtBreak, ast.StmtContinue, ast.StmtBad:
	}
}

// bindForClassic opens a header scope so an init declaration is local
// to the loop, then binds the header expressions and body inside it.
func (fb *fileBinder) bindForClassic(id ast.StmtID, span source.Span) {
	payload, ok := fb.builder.Stmts.ForClassic(id)
	if !ok {
		return
	}
	scope := fb.resolver.Enter(ScopeBlock, fb.stmtOwner(id), span)
	if payload.Init.IsValid() {
		fb.prepassStmts([]ast.StmtID{payload.Init})
		fb.bindStmt(payload.Init)
	}
	if payload.Cond.IsValid() {
		fb.bindExpr(payload.Cond)
	}
	if payload.Post.IsValid() {
		fb.bindExpr(payload.Post)
	}
	fb.bindStmt(payload.Body)
	fb.resolver.Leave(scope)
}

// bindForOf opens the loop-header scope, binds the iteration name and
// the iterable, then the body. A declared let or const stays in its
// dead zone while the iterable is bound, so `for (const x of x)`
// reports; the bare form assigns to an existing binding and must hit
// something assignable.
func (fb *fileBinder) bindForOf(id ast.StmtID, span source.Span) {
	loop, ok := fb.builder.Stmts.ForOf(id)
	if !ok {
		return
	}
	scope := fb.resolver.Enter(ScopeBlock, fb.stmtOwner(id), span)
	switch {
	case loop.Declared && loop.Decl == ast.DeclVar:
		// Hoisted by the enclosing function prepass; nothing pending.
		if loop.Iterable.IsValid() {
			fb.bindExpr(loop.Iterable)
		}
	case loop.Declared:
		kind := SymbolLet
		if loop.Decl == ast.DeclConst {
			kind = SymbolConst
		}
		sym, _ := fb.resolver.Declare(loop.Name, loop.NameSpan, kind, SymbolFlagPending, fb.stmtDecl(id))
		if sym.IsValid() {
			fb.result.StmtSymbols[id] = sym
		}
		if loop.Iterable.IsValid() {
			fb.bindExpr(loop.Iterable)
		}
		if s := fb.result.Table.Symbols.Get(sym); s != nil {
			s.Flags &^= SymbolFlagPending
		}
	default:
		sym := fb.resolveValueName(loop.Name, loop.NameSpan)
		if sym.IsValid() {
			fb.result.StmtSymbols[id] = sym
			fb.checkAssignableSymbol(sym, loop.Name, loop.NameSpan)
		}
		if loop.Iterable.IsValid() {
			fb.bindExpr(loop.Iterable)
		}
	}
	if loop.Body.IsValid() {
		fb.bindStmt(loop.Body)
	}
	fb.resolver.Leave(scope)
}
