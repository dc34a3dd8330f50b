package sema

import (
	"fmt"

	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/source"
	"riptide/internal/symbols"
	"riptide/internal/types"
)

// Options configure a semantic pass over one bound file.
type Options struct {
	Reporter diag.Reporter
	Symbols  *symbols.Result
	Types    *types.Interner

	// Strict enables the stricter dialect: implicit-any parameters are
	// reported and null/undefined stop being assignable to other types.
	Strict bool

	// Deps maps import specifiers as written in source to the typed
	// export surface of the dependency. Modules missing from the map
	// were already reported by the project graph; their members type as
	// error without further noise.
	Deps map[string]*ModuleTypes
}

// Result stores semantic artefacts produced by the checker.
type Result struct {
	Types *types.Interner

	// ExprTypes records the checked type of every visited expression.
	ExprTypes map[ast.ExprID]types.TypeID
	// Bindings records the declared or inferred type of every value
	// symbol the walk reached.
	Bindings map[symbols.SymbolID]types.TypeID

	// Exports is the typed export surface, aligned with the binder's
	// export table.
	Exports *ExportTypes
}

// Check performs type inference and checking over one bound file.
// Diagnostics go to the reporter; the pass itself never fails, and
// every reachable expression lands in ExprTypes even on error paths.
func Check(builder *ast.Builder, fileID ast.FileID, opts Options) Result {
	res := Result{
		ExprTypes: make(map[ast.ExprID]types.TypeID),
		Bindings:  make(map[symbols.SymbolID]types.TypeID),
	}
	if opts.Types != nil {
		res.Types = opts.Types
	} else {
		var strs *source.Interner
		if builder != nil {
			strs = builder.StringsInterner
		}
		res.Types = types.NewInterner(strs)
	}
	if builder == nil || fileID == ast.NoFileID {
		return res
	}

	tc := typeChecker{
		builder:  builder,
		fileID:   fileID,
		reporter: opts.Reporter,
		symbols:  opts.Symbols,
		strict:   opts.Strict,
		deps:     opts.Deps,
		result:   &res,
		types:    res.Types,
	}
	tc.run()
	return res
}

// declState tracks where a declaration sits in the inference walk.
// Re-entering a declaration that is still inferring is a cycle; it
// reports once and resolves to the error type so checking terminates.
type declState uint8

const (
	declUnvisited declState = iota
	declInferring
	declResolved
	declErrored
)

type declInfo struct {
	state declState
	typ   types.TypeID
}

// typeEntity is the checked form of a type alias or interface: its
// declared parameters and the uninstantiated body.
type typeEntity struct {
	state  declState
	params []types.TypeID
	typ    types.TypeID
}

type returnContext struct {
	expected types.TypeID
	span     source.Span
	collect  *[]types.TypeID
}

type typeChecker struct {
	builder  *ast.Builder
	fileID   ast.FileID
	reporter diag.Reporter
	symbols  *symbols.Result
	strict   bool
	deps     map[string]*ModuleTypes
	result   *Result
	types    *types.Interner

	assign *types.Assigner

	decls map[symbols.SymbolID]*declInfo
	// fnSigs memoizes signatures per function node, so a named function
	// expression reached through both its binding and its inner name
	// computes once.
	fnSigs       map[ast.FuncID]*declInfo
	typeEntities map[symbols.SymbolID]*typeEntity
	// typeParamTypes maps declared type parameters to their registered
	// KindTypeParam identities.
	typeParamTypes map[ast.TypeParamID]types.TypeID
	preludeTypes   map[string]types.TypeID
	// importEntities caches resolved import symbols so unknown-member
	// diagnostics fire once per import.
	importEntities map[symbols.SymbolID]*importEntity
	// depModules holds dependency surfaces re-interned on first touch.
	depModules map[string]*decodedModule
	// mapResult is the lazily registered result parameter shared by
	// map-style list callbacks.
	mapResult types.TypeID

	// bodiesChecked guards against walking a hoisted function body
	// twice when a use precedes the declaration.
	bodiesChecked map[ast.FuncID]bool

	returnStack []returnContext
	// flow carries the active narrowing facts for the current control
	// path. Function bodies start with a fresh map.
	flow flowMap
}

func (tc *typeChecker) run() {
	file := tc.builder.Files.Get(tc.fileID)
	if file == nil {
		return
	}

	tc.assign = types.NewAssigner(tc.types, tc.strict)
	tc.decls = make(map[symbols.SymbolID]*declInfo)
	tc.fnSigs = make(map[ast.FuncID]*declInfo)
	tc.typeEntities = make(map[symbols.SymbolID]*typeEntity)
	tc.typeParamTypes = make(map[ast.TypeParamID]types.TypeID)
	tc.preludeTypes = make(map[string]types.TypeID)
	tc.importEntities = make(map[symbols.SymbolID]*importEntity)
	tc.depModules = make(map[string]*decodedModule)
	tc.bodiesChecked = make(map[ast.FuncID]bool)
	tc.flow = nil

	for _, itemID := range file.Items {
		tc.checkItem(itemID)
	}

	tc.result.Exports = tc.collectExportTypes()
}

func (tc *typeChecker) checkItem(id ast.ItemID) {
	item := tc.builder.Items.Get(id)
	if item == nil {
		return
	}
	switch item.Kind {
	case ast.ItemVar:
		decl, ok := tc.builder.Items.Var(id)
		if !ok || decl == nil {
			return
		}
		tc.checkVarDecl(decl, tc.itemSymbol(id))
	case ast.ItemFunction:
		fnID, ok := tc.builder.Items.Function(id)
		if !ok {
			return
		}
		sym := tc.itemSymbol(id)
		tc.ensureSymbolType(sym, item.Span)
		tc.checkFunctionBody(fnID, sym)
	case ast.ItemTypeAlias, ast.ItemInterface:
		// Forces cycle diagnostics for otherwise unused declarations.
		tc.ensureTypeEntity(tc.itemSymbol(id), item.Span)
	case ast.ItemImport:
		for _, sym := range tc.itemSymbols(id) {
			tc.ensureSymbolType(sym, item.Span)
		}
	case ast.ItemStmt:
		stmtID, ok := tc.builder.Items.Stmt(id)
		if !ok {
			return
		}
		tc.checkStmt(stmtID)
	case ast.ItemExport, ast.ItemBad:
		// Export lists carry no expressions; bad items stay quiet.
	}
}

// itemSymbol returns the first symbol an item declared, which is the
// only one for everything except import clauses.
func (tc *typeChecker) itemSymbol(id ast.ItemID) symbols.SymbolID {
	syms := tc.itemSymbols(id)
	if len(syms) == 0 {
		return symbols.NoSymbolID
	}
	return syms[0]
}

func (tc *typeChecker) itemSymbols(id ast.ItemID) []symbols.SymbolID {
	if tc.symbols == nil {
		return nil
	}
	return tc.symbols.ItemSymbols[id]
}

func (tc *typeChecker) symbolFromID(id symbols.SymbolID) *symbols.Symbol {
	if tc.symbols == nil || tc.symbols.Table == nil {
		return nil
	}
	return tc.symbols.Table.Symbols.Get(id)
}

func (tc *typeChecker) lookupText(id source.StringID) string {
	if tc.builder == nil || tc.builder.StringsInterner == nil {
		return ""
	}
	s, ok := tc.builder.StringsInterner.Lookup(id)
	if !ok {
		return ""
	}
	return s
}

func (tc *typeChecker) internText(s string) source.StringID {
	if tc.builder == nil || tc.builder.StringsInterner == nil {
		return source.NoStringID
	}
	return tc.builder.StringsInterner.Intern(s)
}

func (tc *typeChecker) typeLabel(id types.TypeID) string {
	return types.Label(tc.types, id)
}

func (tc *typeChecker) errType() types.TypeID { return tc.types.Builtins().Error }

func (tc *typeChecker) report(code diag.Code, span source.Span, format string, args ...any) {
	diag.ReportError(tc.reporter, code, span, fmt.Sprintf(format, args...)).Emit()
}

func (tc *typeChecker) exprSpan(id ast.ExprID) source.Span {
	if expr := tc.builder.Exprs.Get(id); expr != nil {
		return expr.Span
	}
	return source.Span{}
}
