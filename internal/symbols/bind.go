package symbols

import (
	"fmt"

	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/source"
)

// BindOptions controls a bind pass for a single AST file.
type BindOptions struct {
	Table      *Table
	Hints      Hints
	Prelude    []PreludeEntry
	Reporter   diag.Reporter
	ModulePath string
	Validate   bool
}

// ImportRef is one import declaration the module depends on. Span
// points at the module specifier for graph diagnostics.
type ImportRef struct {
	Item   ast.ItemID
	Module string
	Span   source.Span
}

// Result captures bind artefacts for one file.
type Result struct {
	Table       *Table
	File        ast.FileID
	ModuleScope ScopeID

	// ExprSymbols maps identifier expressions to the symbol they
	// resolve to; unresolved names map to the table's error symbol.
	ExprSymbols map[ast.ExprID]SymbolID
	// TypeSymbols maps type references to declared type symbols.
	// Builtin type names have no entry.
	TypeSymbols map[ast.TypeID]SymbolID
	// ItemSymbols maps declarations to the symbols they introduce.
	ItemSymbols map[ast.ItemID][]SymbolID
	// StmtSymbols maps declaration statements (variable statements,
	// declared for-of headers, block-level functions) to their binding.
	// Bare for-of headers record the existing binding they assign to.
	StmtSymbols map[ast.StmtID]SymbolID
	// ParamSymbols and TypeParamSymbols map signature entries to their
	// bindings.
	ParamSymbols     map[ast.ParamID]SymbolID
	TypeParamSymbols map[ast.TypeParamID]SymbolID

	Imports []ImportRef
	Exports *ModuleExports
}

// BindFile resolves every name in one parsed file: it builds the scope
// tree, applies hoisting, binds identifier uses and type references to
// symbols, and collects the module's export surface. Diagnostics go to
// the reporter; the walk itself never fails.
func BindFile(builder *ast.Builder, fileID ast.FileID, opts BindOptions) Result {
	table := opts.Table
	if table == nil {
		table = NewTable(opts.Hints, builder.StringsInterner)
	}

	result := Result{
		Table:            table,
		File:             fileID,
		ExprSymbols:      make(map[ast.ExprID]SymbolID),
		TypeSymbols:      make(map[ast.TypeID]SymbolID),
		ItemSymbols:      make(map[ast.ItemID][]SymbolID),
		StmtSymbols:      make(map[ast.StmtID]SymbolID),
		ParamSymbols:     make(map[ast.ParamID]SymbolID),
		TypeParamSymbols: make(map[ast.TypeParamID]SymbolID),
		Exports:          NewModuleExports(opts.ModulePath),
	}

	file := builder.Files.Get(fileID)
	if file == nil {
		return result
	}
	sourceFile := file.Span.File

	resolver := NewResolver(table, table.GlobalRoot(), ResolverOptions{
		Reporter: opts.Reporter,
		Prelude:  opts.Prelude,
	})

	fb := fileBinder{
		builder:       builder,
		result:        &result,
		resolver:      resolver,
		fileID:        fileID,
		sourceFile:    sourceFile,
		reporter:      opts.Reporter,
		exportedNames: make(map[string]source.Span),
	}

	moduleScope := resolver.Enter(ScopeModule, ScopeOwner{
		Kind:       ScopeOwnerFile,
		SourceFile: sourceFile,
		ASTFile:    fileID,
	}, file.Span)
	result.ModuleScope = moduleScope
	table.noteModuleRoot(sourceFile, moduleScope)

	for _, itemID := range file.Items {
		fb.hoistItem(itemID)
	}
	for _, itemID := range file.Items {
		fb.bindItem(itemID)
	}
	fb.collectExports(file, moduleScope)

	resolver.Leave(moduleScope)

	if opts.Validate {
		if err := table.Validate(); err != nil {
			if opts.Reporter != nil {
				msg := fmt.Sprintf("symbol table invariant violation: %v", err)
				diag.ReportError(opts.Reporter, diag.SemaInfo, file.Span, msg).Emit()
			} else {
				panic(err)
			}
		}
	}

	return result
}

type fileBinder struct {
	builder    *ast.Builder
	result     *Result
	resolver   *Resolver
	fileID     ast.FileID
	sourceFile source.FileID
	reporter   diag.Reporter

	exportedNames map[string]source.Span
}

func (fb *fileBinder) itemDecl(id ast.ItemID) SymbolDecl {
	return SymbolDecl{SourceFile: fb.sourceFile, ASTFile: fb.fileID, Item: id}
}

func (fb *fileBinder) stmtDecl(id ast.StmtID) SymbolDecl {
	return SymbolDecl{SourceFile: fb.sourceFile, ASTFile: fb.fileID, Stmt: id}
}

func (fb *fileBinder) stmtOwner(id ast.StmtID) ScopeOwner {
	return ScopeOwner{Kind: ScopeOwnerStmt, SourceFile: fb.sourceFile, ASTFile: fb.fileID, Stmt: id}
}

// hoistItem predeclares the bindings a top-level item introduces, so
// hoisted names resolve before their declaration in source order.
// Functions, type declarations and imports become usable immediately;
// let and const start in their dead zone.
func (fb *fileBinder) hoistItem(id ast.ItemID) {
	item := fb.builder.Items.Get(id)
	if item == nil {
		return
	}
	exported := SymbolFlags(0)
	if item.Exported {
		exported = SymbolFlagExported
	}
	switch item.Kind {
	case ast.ItemVar:
		decl, ok := fb.builder.Items.Var(id)
		if !ok {
			return
		}
		if sym := fb.declareVar(decl, exported, fb.itemDecl(id)); sym.IsValid() {
			fb.result.ItemSymbols[id] = append(fb.result.ItemSymbols[id], sym)
		}
	case ast.ItemFunction:
		fnID, ok := fb.builder.Items.Function(id)
		if !ok {
			return
		}
		fn := fb.builder.Funcs.Get(fnID)
		if fn == nil || fn.Name == source.NoStringID {
			return
		}
		d := fb.itemDecl(id)
		d.Func = fnID
		sym, _ := fb.resolver.Declare(fn.Name, fn.NameSpan, SymbolFunction, exported|SymbolFlagHoisted, d)
		if sym.IsValid() {
			fb.result.ItemSymbols[id] = append(fb.result.ItemSymbols[id], sym)
		}
	case ast.ItemTypeAlias:
		decl, ok := fb.builder.Items.TypeAlias(id)
		if !ok || decl.Name == source.NoStringID {
			return
		}
		sym, _ := fb.resolver.Declare(decl.Name, decl.NameSpan, SymbolTypeAlias, exported|SymbolFlagHoisted, fb.itemDecl(id))
		if sym.IsValid() {
			fb.result.ItemSymbols[id] = append(fb.result.ItemSymbols[id], sym)
		}
	case ast.ItemInterface:
		decl, ok := fb.builder.Items.Interface(id)
		if !ok || decl.Name == source.NoStringID {
			return
		}
		sym, _ := fb.resolver.Declare(decl.Name, decl.NameSpan, SymbolInterface, exported|SymbolFlagHoisted, fb.itemDecl(id))
		if sym.IsValid() {
			fb.result.ItemSymbols[id] = append(fb.result.ItemSymbols[id], sym)
		}
	case ast.ItemImport:
		fb.hoistImport(id)
	case ast.ItemStmt:
		stmtID, ok := fb.builder.Items.Stmt(id)
		if ok {
			fb.hoistStmt(stmtID)
		}
	}
}

func (fb *fileBinder) hoistImport(id ast.ItemID) {
	decl, ok := fb.builder.Items.Import(id)
	if !ok {
		return
	}
	d := fb.itemDecl(id)
	if decl.HasNamespace() {
		sym, fresh := fb.resolver.Declare(decl.Namespace, decl.NamespaceSpan, SymbolImport, SymbolFlagNamespace|SymbolFlagHoisted, d)
		if sym.IsValid() {
			if fresh {
				if s := fb.result.Table.Symbols.Get(sym); s != nil {
					s.Module = decl.Module
				}
			}
			fb.result.ItemSymbols[id] = append(fb.result.ItemSymbols[id], sym)
		}
	}
	for _, spec := range decl.Specs {
		if spec.Local == source.NoStringID {
			continue
		}
		sym, fresh := fb.resolver.Declare(spec.Local, spec.LocalSpan, SymbolImport, SymbolFlagHoisted, d)
		if !sym.IsValid() {
			continue
		}
		if fresh {
			if s := fb.result.Table.Symbols.Get(sym); s != nil {
				s.Module = decl.Module
				s.Imported = spec.Imported
			}
		}
		fb.result.ItemSymbols[id] = append(fb.result.ItemSymbols[id], sym)
	}
}

// hoistStmt predeclares the bindings of one statement at the current
// function or module scope. Immediate declarations of every flavor
// land here; nested statements only contribute their hoisted vars.
func (fb *fileBinder) hoistStmt(id ast.StmtID) {
	st := fb.builder.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtVar:
		decl, ok := fb.builder.Stmts.Var(id)
		if !ok {
			return
		}
		if sym := fb.declareVar(decl, 0, fb.stmtDecl(id)); sym.IsValid() {
			fb.result.StmtSymbols[id] = sym
		}
	case ast.StmtFunc:
		fb.declareFuncStmt(id)
	default:
		fb.hoistVars(id)
	}
}

// hoistVars walks nested statement structure collecting var bindings
// into the current function or module scope. Block-scoped declarations
// are skipped: the block that owns them predeclares them on entry.
// Nested functions are a new hoisting region and are not entered.
func (fb *fileBinder) hoistVars(id ast.StmtID) {
	st := fb.builder.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtVar:
		decl, ok := fb.builder.Stmts.Var(id)
		if !ok || decl.Kind != ast.DeclVar {
			return
		}
		if sym := fb.declareVar(decl, 0, fb.stmtDecl(id)); sym.IsValid() {
			fb.result.StmtSymbols[id] = sym
		}
	case ast.StmtBlock:
		block, ok := fb.builder.Stmts.Block(id)
		if !ok {
			return
		}
		for _, s := range block.Stmts {
			fb.hoistVars(s)
		}
	case ast.StmtIf:
		payload, ok := fb.builder.Stmts.If(id)
		if !ok {
			return
		}
		fb.hoistVars(payload.Then)
		if payload.Else.IsValid() {
			fb.hoistVars(payload.Else)
		}
	case ast.StmtWhile:
		payload, ok := fb.builder.Stmts.While(id)
		if !ok {
			return
		}
		fb.hoistVars(payload.Body)
	case ast.StmtForClassic:
		payload, ok := fb.builder.Stmts.ForClassic(id)
		if !ok {
			return
		}
		if payload.Init.IsValid() {
			fb.hoistVars(payload.Init)
		}
		fb.hoistVars(payload.Body)
	case ast.StmtForOf:
		loop, ok := fb.builder.Stmts.ForOf(id)
		if !ok {
			return
		}
		if loop.Declared && loop.Decl == ast.DeclVar && loop.Name != source.NoStringID {
			sym, _ := fb.resolver.Declare(loop.Name, loop.NameSpan, SymbolVar, SymbolFlagHoisted, fb.stmtDecl(id))
			if sym.IsValid() {
				fb.result.StmtSymbols[id] = sym
			}
		}
		fb.hoistVars(loop.Body)
	}
}

// prepassStmts predeclares the block-scoped bindings of one statement
// list: let and const enter their dead zone, block-level functions
// become callable before their declaration. Vars were already hoisted
// by the enclosing function prepass.
func (fb *fileBinder) prepassStmts(stmts []ast.StmtID) {
	for _, id := range stmts {
		st := fb.builder.Stmts.Get(id)
		if st == nil {
			continue
		}
		switch st.Kind {
		case ast.StmtVar:
			decl, ok := fb.builder.Stmts.Var(id)
			if !ok || decl.Kind == ast.DeclVar {
				continue
			}
			if sym := fb.declareVar(decl, 0, fb.stmtDecl(id)); sym.IsValid() {
				fb.result.StmtSymbols[id] = sym
			}
		case ast.StmtFunc:
			fb.declareFuncStmt(id)
		}
	}
}

func (fb *fileBinder) declareFuncStmt(id ast.StmtID) {
	payload, ok := fb.builder.Stmts.FuncDecl(id)
	if !ok {
		return
	}
	fn := fb.builder.Funcs.Get(payload.Fn)
	if fn == nil || fn.Name == source.NoStringID {
		return
	}
	d := fb.stmtDecl(id)
	d.Func = payload.Fn
	sym, _ := fb.resolver.Declare(fn.Name, fn.NameSpan, SymbolFunction, SymbolFlagHoisted, d)
	if sym.IsValid() {
		fb.result.StmtSymbols[id] = sym
	}
}

// declareVar predeclares one variable binding according to its flavor:
// var joins the enclosing function or module scope ready to use, let
// and const start in their dead zone.
func (fb *fileBinder) declareVar(decl *ast.VarDecl, flags SymbolFlags, origin SymbolDecl) SymbolID {
	if decl.Name == source.NoStringID {
		return NoSymbolID
	}
	kind := SymbolLet
	switch decl.Kind {
	case ast.DeclConst:
		kind = SymbolConst
		flags |= SymbolFlagPending
	case ast.DeclVar:
		kind = SymbolVar
		flags |= SymbolFlagHoisted
	default:
		flags |= SymbolFlagPending
	}
	sym, _ := fb.resolver.Declare(decl.Name, decl.NameSpan, kind, flags, origin)
	return sym
}

// collectExports builds the module's export surface in source order:
// declarations carrying the export modifier first-come, then export
// lists, which may legally precede the declarations they name.
func (fb *fileBinder) collectExports(file *ast.File, moduleScope ScopeID) {
	for _, itemID := range file.Items {
		item := fb.builder.Items.Get(itemID)
		if item == nil {
			continue
		}
		if item.Exported {
			for _, symID := range fb.result.ItemSymbols[itemID] {
				fb.registerExport(symID, source.NoStringID, source.Span{})
			}
			continue
		}
		if item.Kind != ast.ItemExport {
			continue
		}
		list, ok := fb.builder.Items.Export(itemID)
		if !ok {
			continue
		}
		for _, spec := range list.Specs {
			fb.resolveExportSpec(spec, moduleScope)
		}
	}
}

func (fb *fileBinder) resolveExportSpec(spec ast.ExportSpec, moduleScope ScopeID) {
	if spec.Local == source.NoStringID {
		return
	}
	scope := fb.result.Table.Scopes.Get(moduleScope)
	if scope == nil {
		return
	}
	ids := scope.NameIndex[spec.Local]
	if len(ids) == 0 {
		nameStr := fb.builder.Text(spec.Local)
		msg := fmt.Sprintf("exported name '%s' is not declared in this module", nameStr)
		diag.ReportError(fb.reporter, diag.SemaUnknownExport, spec.LocalSpan, msg).Emit()
		return
	}
	symID := ids[len(ids)-1]
	if sym := fb.result.Table.Symbols.Get(symID); sym != nil {
		sym.Flags |= SymbolFlagExported
	}
	fb.registerExport(symID, spec.Exported, spec.ExportedSpan)
}

// registerExport surfaces one symbol under an exported name, reporting
// collisions between export modifiers and export lists.
func (fb *fileBinder) registerExport(symID SymbolID, exportedAs source.StringID, span source.Span) {
	sym := fb.result.Table.Symbols.Get(symID)
	if sym == nil {
		return
	}
	nameID := exportedAs
	if nameID == source.NoStringID {
		nameID = sym.Name
	}
	if nameID == source.NoStringID {
		return
	}
	name := fb.builder.Text(nameID)
	if span == (source.Span{}) {
		span = sym.Span
	}
	if prev, ok := fb.exportedNames[name]; ok {
		msg := fmt.Sprintf("duplicate export of '%s'", name)
		diag.ReportError(fb.reporter, diag.SemaDuplicateExport, span, msg).
			WithNote(prev, "first exported here").Emit()
		return
	}
	fb.exportedNames[name] = span
	fb.result.Exports.Add(ExportedSymbol{
		Name:   name,
		NameID: nameID,
		Kind:   sym.Kind,
		Flags:  sym.Flags,
		Span:   sym.Span,
		Sym:    symID,
	})
}
