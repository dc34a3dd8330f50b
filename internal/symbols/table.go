package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"riptide/internal/source"
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// Table aggregates symbol-related arenas and shared resources. A table
// usually holds one module, but the arenas are shared-safe for a whole
// program when a single binder owns it.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Strings *source.Interner

	globalRoot ScopeID
	modRoot    map[source.FileID]ScopeID
	errSym     SymbolID
}

// NewTable builds a fresh table with optional capacity hints.
// If strings is nil, a fresh interner is allocated.
func NewTable(h Hints, strings *source.Interner) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Table{
		Scopes:  NewScopes(scopeCap),
		Symbols: NewSymbols(symCap),
		Strings: strings,
		modRoot: make(map[source.FileID]ScopeID),
	}
}

// GlobalRoot returns (and creates on first use) the host scope that
// prelude symbols live in. Every module scope chains up to it.
func (t *Table) GlobalRoot() ScopeID {
	if t.globalRoot.IsValid() {
		return t.globalRoot
	}
	t.globalRoot = t.Scopes.New(ScopeGlobal, NoScopeID, ScopeOwner{}, source.Span{})
	return t.globalRoot
}

// ModuleRoot returns the module scope bound for file, or NoScopeID when
// the file has not been bound through this table.
func (t *Table) ModuleRoot(file source.FileID) ScopeID {
	return t.modRoot[file]
}

func (t *Table) noteModuleRoot(file source.FileID, scope ScopeID) {
	t.modRoot[file] = scope
}

// ErrorSymbol returns the shared containment symbol, allocating it on
// first use. It lives outside every scope so lookups never surface it.
func (t *Table) ErrorSymbol() SymbolID {
	if t.errSym.IsValid() {
		return t.errSym
	}
	t.errSym = t.Symbols.New(&Symbol{Kind: SymbolError})
	return t.errSym
}
