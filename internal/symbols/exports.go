package symbols

import (
	"sort"

	"riptide/internal/source"
)

// ExportedSymbol captures metadata about one name a module exports.
// Exported names are unique per module; aliased re-exports keep the
// local symbol but surface under the alias.
type ExportedSymbol struct {
	Name   string
	NameID source.StringID
	Kind   SymbolKind
	Flags  SymbolFlags
	Span   source.Span
	Sym    SymbolID
}

// ModuleExports aggregates the export surface of one module. The
// binder fills it while walking export modifiers and export lists; the
// checker later attaches portable types keyed by the same names.
type ModuleExports struct {
	Path    string
	Order   []string
	Symbols map[string]ExportedSymbol
}

// NewModuleExports creates an exports container for the given module path.
func NewModuleExports(path string) *ModuleExports {
	return &ModuleExports{
		Path:    path,
		Symbols: make(map[string]ExportedSymbol),
	}
}

// Add registers an exported symbol under its surfaced name. The first
// registration wins; the binder reports the duplicate before calling.
func (m *ModuleExports) Add(sym ExportedSymbol) {
	if m == nil || sym.Name == "" {
		return
	}
	if _, ok := m.Symbols[sym.Name]; ok {
		return
	}
	m.Order = append(m.Order, sym.Name)
	m.Symbols[sym.Name] = sym
}

// Lookup returns the export registered under name.
func (m *ModuleExports) Lookup(name string) (ExportedSymbol, bool) {
	if m == nil {
		return ExportedSymbol{}, false
	}
	sym, ok := m.Symbols[name]
	return sym, ok
}

// Has reports whether the module surfaces name.
func (m *ModuleExports) Has(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.Symbols[name]
	return ok
}

// Len reports the number of exported names.
func (m *ModuleExports) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Symbols)
}

// Names returns the exported names sorted for stable output.
func (m *ModuleExports) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.Symbols))
	for name := range m.Symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
