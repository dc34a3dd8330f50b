package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"riptide/internal/source"
)

func toScopeID(i int) ScopeID {
	v, err := safecast.Conv[uint32](i)
	if err != nil {
		panic(fmt.Sprintf("symbols: scope index overflow: %v", err))
	}
	return ScopeID(v)
}

func toSymbolID(i int) SymbolID {
	v, err := safecast.Conv[uint32](i)
	if err != nil {
		panic(fmt.Sprintf("symbols: symbol index overflow: %v", err))
	}
	return SymbolID(v)
}

// Validate checks the structural invariants of the table: parent and
// child links agree, every symbol sits in the scope that lists it, and
// the per-scope name index points at symbols that really carry that
// name. Intended for tests and debug builds; a populated table that
// fails here indicates a binder bug.
func (t *Table) Validate() error {
	scopes := t.Scopes.Data()
	symbols := t.Symbols.Data()

	// Data omits the sentinel, so slot i holds ID i+1.
	for i := range scopes {
		id := toScopeID(i + 1)
		scope := &scopes[i]
		if scope.Kind == ScopeInvalid {
			return fmt.Errorf("scope %d has invalid kind", id)
		}
		if scope.Parent != NoScopeID {
			parent := t.Scopes.Get(scope.Parent)
			if parent == nil {
				return fmt.Errorf("scope %d references missing parent %d", id, scope.Parent)
			}
			if !containsScope(parent.Children, id) {
				return fmt.Errorf("scope %d missing from children of parent %d", id, scope.Parent)
			}
		}
		for _, child := range scope.Children {
			c := t.Scopes.Get(child)
			if c == nil {
				return fmt.Errorf("scope %d references missing child %d", id, child)
			}
			if c.Parent != id {
				return fmt.Errorf("child scope %d does not point back at parent %d", child, id)
			}
		}
		for _, symID := range scope.Symbols {
			sym := t.Symbols.Get(symID)
			if sym == nil {
				return fmt.Errorf("scope %d lists missing symbol %d", id, symID)
			}
			if sym.Scope != id {
				return fmt.Errorf("symbol %d listed in scope %d but declared in scope %d", symID, id, sym.Scope)
			}
		}
		for name, ids := range scope.NameIndex {
			if len(ids) == 0 {
				return fmt.Errorf("scope %d has empty name index entry", id)
			}
			for _, symID := range ids {
				sym := t.Symbols.Get(symID)
				if sym == nil {
					return fmt.Errorf("scope %d name index references missing symbol %d", id, symID)
				}
				if sym.Name != name {
					return fmt.Errorf("scope %d name index entry points at symbol %d with a different name", id, symID)
				}
				if !containsSymbol(scope.Symbols, symID) {
					return fmt.Errorf("scope %d name index references symbol %d not listed in the scope", id, symID)
				}
			}
		}
	}

	for i := range symbols {
		id := toSymbolID(i + 1)
		sym := &symbols[i]
		if sym.Kind == SymbolInvalid {
			return fmt.Errorf("symbol %d has invalid kind", id)
		}
		if sym.Scope == NoScopeID {
			// Only the shared error symbol lives outside the tree.
			if sym.Kind != SymbolError {
				return fmt.Errorf("symbol %d has no scope", id)
			}
			continue
		}
		scope := t.Scopes.Get(sym.Scope)
		if scope == nil {
			return fmt.Errorf("symbol %d declared in missing scope %d", id, sym.Scope)
		}
		if !containsSymbol(scope.Symbols, id) {
			return fmt.Errorf("symbol %d not listed in its scope %d", id, sym.Scope)
		}
		if sym.Name == source.NoStringID && sym.Kind != SymbolError {
			return fmt.Errorf("symbol %d has no name", id)
		}
	}

	return nil
}

func containsScope(ids []ScopeID, id ScopeID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func containsSymbol(ids []SymbolID, id SymbolID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
