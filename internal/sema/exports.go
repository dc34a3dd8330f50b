package sema

import (
	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/source"
	"riptide/internal/symbols"
	"riptide/internal/types"
)

// ExportEntry is one checked export of a module.
type ExportEntry struct {
	Name string
	Type types.TypeID
	// Params carries the declared type parameters of a generic alias or
	// interface so importers can instantiate it.
	Params []types.TypeID
	// IsType marks aliases and interfaces, which live in the type
	// namespace only.
	IsType bool
}

// ExportTypes is the typed export surface of one module, expressed in
// that module's own interner. Order follows declaration order.
type ExportTypes struct {
	Module  string
	Order   []string
	Entries map[string]ExportEntry
}

// Lookup returns the entry exported under name.
func (e *ExportTypes) Lookup(name string) (ExportEntry, bool) {
	if e == nil {
		return ExportEntry{}, false
	}
	entry, ok := e.Entries[name]
	return entry, ok
}

// PortableExports is the interner-independent form of an export
// surface: what the driver's export cache holds in memory and what the
// disk cache serializes.
type PortableExports struct {
	Module  string                `msgpack:"module"`
	Entries []PortableExportEntry `msgpack:"entries"`
	Set     *types.PortableSet    `msgpack:"set"`
}

// PortableExportEntry names one export. Its type is the next unclaimed
// root of Set, followed by TypeParams roots for generic entities.
type PortableExportEntry struct {
	Name       string `msgpack:"name"`
	IsType     bool   `msgpack:"istype,omitempty"`
	TypeParams int    `msgpack:"tparams,omitempty"`
}

// Portable flattens the surface for hand-off to importing modules.
// The interner must be the one the types were checked in.
func (e *ExportTypes) Portable(in *types.Interner) *PortableExports {
	if e == nil {
		return &PortableExports{}
	}
	out := &PortableExports{Module: e.Module}
	var roots []types.TypeID
	for _, name := range e.Order {
		entry := e.Entries[name]
		out.Entries = append(out.Entries, PortableExportEntry{
			Name:       name,
			IsType:     entry.IsType,
			TypeParams: len(entry.Params),
		})
		roots = append(roots, entry.Type)
		roots = append(roots, entry.Params...)
	}
	out.Set = in.ExportPortable(roots)
	return out
}

// ModuleTypes is the dependency surface the driver hands the checker
// for one import specifier.
type ModuleTypes struct {
	Module string
	// Deferred marks an import-cycle member scheduled after the
	// importing module. Its members all read as any, so cycles without
	// top-level type dependence check cleanly.
	Deferred bool
	Exports  *PortableExports
}

// NewModuleTypes wraps a published export surface.
func NewModuleTypes(exports *PortableExports) *ModuleTypes {
	if exports == nil {
		return &ModuleTypes{Deferred: true}
	}
	return &ModuleTypes{Module: exports.Module, Exports: exports}
}

// DeferredModuleTypes stands in for a cycle member that has not been
// checked yet.
func DeferredModuleTypes(name string) *ModuleTypes {
	return &ModuleTypes{Module: name, Deferred: true}
}

// decodedModule is a dependency surface re-interned into this
// checker's interner, decoded once per specifier.
type decodedModule struct {
	deferred bool
	missing  bool
	order    []string
	entries  map[string]ExportEntry
}

func (tc *typeChecker) depModule(name string) *decodedModule {
	if m, ok := tc.depModules[name]; ok {
		return m
	}
	m := &decodedModule{}
	tc.depModules[name] = m

	dep := tc.deps[name]
	if dep == nil {
		// The project graph reported the unresolved module already.
		m.missing = true
		return m
	}
	if dep.Deferred || dep.Exports == nil {
		m.deferred = true
		return m
	}

	pe := dep.Exports
	roots := tc.types.ImportPortable(pe.Set)
	m.entries = make(map[string]ExportEntry, len(pe.Entries))
	cursor := 0
	for _, entry := range pe.Entries {
		e := ExportEntry{Name: entry.Name, IsType: entry.IsType, Type: tc.errType()}
		if cursor < len(roots) {
			e.Type = roots[cursor]
		}
		cursor++
		for i := 0; i < entry.TypeParams && cursor < len(roots); i++ {
			e.Params = append(e.Params, roots[cursor])
			cursor++
		}
		m.order = append(m.order, entry.Name)
		m.entries[entry.Name] = e
	}
	return m
}

// importEntity caches what one import symbol resolved to, so the
// unknown-member diagnostic fires once however many times the name is
// used.
type importEntity struct {
	entry    ExportEntry
	deferred bool
	missing  bool
}

func (tc *typeChecker) resolveImport(symID symbols.SymbolID, sym *symbols.Symbol) *importEntity {
	if ent, ok := tc.importEntities[symID]; ok {
		return ent
	}
	ent := &importEntity{}
	tc.importEntities[symID] = ent

	moduleName := tc.lookupText(sym.Module)
	mod := tc.depModule(moduleName)
	switch {
	case mod.missing:
		ent.missing = true
	case mod.deferred:
		ent.deferred = true
	case sym.Flags&symbols.SymbolFlagNamespace != 0:
		ent.entry = ExportEntry{
			Name: tc.lookupText(sym.Name),
			Type: tc.namespaceObject(moduleName, mod),
		}
	default:
		name := tc.lookupText(sym.Imported)
		entry, ok := mod.entries[name]
		if !ok {
			tc.report(diag.SemaUnknownModuleMember, sym.Span,
				"module '%s' has no exported member '%s'", moduleName, name)
			ent.missing = true
			return ent
		}
		ent.entry = entry
	}
	return ent
}

// namespaceObject models `import * as ns` (and default imports, which
// the dialect folds into the same shape) as an object of the module's
// value exports.
func (tc *typeChecker) namespaceObject(moduleName string, mod *decodedModule) types.TypeID {
	var fields []types.Field
	for _, name := range mod.order {
		entry := mod.entries[name]
		if entry.IsType {
			continue
		}
		fields = append(fields, types.Field{Name: tc.internText(name), Type: entry.Type})
	}
	id := tc.types.RegisterNamedObject(tc.internText(moduleName))
	tc.types.SetObjectFields(id, fields)
	return id
}

func (tc *typeChecker) importedValueType(symID symbols.SymbolID, sym *symbols.Symbol) types.TypeID {
	ent := tc.resolveImport(symID, sym)
	var t types.TypeID
	switch {
	case ent.missing:
		t = tc.errType()
	case ent.deferred:
		t = tc.types.Builtins().Any
	case ent.entry.IsType:
		tc.report(diag.SemaTypeUsedAsValue, sym.Span,
			"'%s' is a type and cannot be used as a value", tc.lookupText(sym.Name))
		t = tc.errType()
	default:
		t = ent.entry.Type
		if t == types.NoTypeID {
			t = tc.errType()
		}
	}
	tc.publishBinding(symID, t)
	return t
}

// importedTypeNamed resolves a type reference that binds to an import.
func (tc *typeChecker) importedTypeNamed(symID symbols.SymbolID, sym *symbols.Symbol, name string, args []ast.TypeID, span source.Span) types.TypeID {
	ent := tc.resolveImport(symID, sym)
	switch {
	case ent.missing:
		return tc.errType()
	case ent.deferred:
		return tc.types.Builtins().Any
	case !ent.entry.IsType:
		tc.report(diag.SemaValueUsedAsType, span,
			"'%s' refers to a value but is being used as a type", name)
		return tc.errType()
	}
	imported := &typeEntity{state: declResolved, params: ent.entry.Params, typ: ent.entry.Type}
	return tc.instantiateEntity(name, imported, args, span)
}

// collectExportTypes types the binder's export surface. Value exports
// run through symbol inference; type exports capture the entity body
// with its parameters so importers can instantiate generics.
func (tc *typeChecker) collectExportTypes() *ExportTypes {
	out := &ExportTypes{Entries: make(map[string]ExportEntry)}
	if tc.symbols == nil || tc.symbols.Exports == nil {
		return out
	}
	exp := tc.symbols.Exports
	out.Module = exp.Path
	for _, name := range exp.Order {
		es, ok := exp.Lookup(name)
		if !ok {
			continue
		}
		out.Order = append(out.Order, name)
		out.Entries[name] = tc.exportEntry(name, es)
	}
	return out
}

func (tc *typeChecker) exportEntry(name string, es symbols.ExportedSymbol) ExportEntry {
	switch es.Kind {
	case symbols.SymbolTypeAlias, symbols.SymbolInterface:
		ent := tc.ensureTypeEntity(es.Sym, es.Span)
		if ent == nil {
			return ExportEntry{Name: name, Type: tc.errType(), IsType: true}
		}
		return ExportEntry{Name: name, Type: ent.typ, Params: ent.params, IsType: true}
	case symbols.SymbolImport:
		// Re-exported import: surface whatever the origin module said.
		sym := tc.symbolFromID(es.Sym)
		if sym == nil {
			return ExportEntry{Name: name, Type: tc.errType()}
		}
		ent := tc.resolveImport(es.Sym, sym)
		switch {
		case ent.missing:
			return ExportEntry{Name: name, Type: tc.errType()}
		case ent.deferred:
			return ExportEntry{Name: name, Type: tc.types.Builtins().Any}
		default:
			return ExportEntry{Name: name, Type: ent.entry.Type, Params: ent.entry.Params, IsType: ent.entry.IsType}
		}
	default:
		return ExportEntry{Name: name, Type: tc.ensureSymbolType(es.Sym, es.Span)}
	}
}
