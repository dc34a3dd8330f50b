package symbols

// PreludeEntry describes a host symbol injected before source traversal.
type PreludeEntry struct {
	Name  string
	Kind  SymbolKind
	Flags SymbolFlags
}

// DefaultPrelude returns the host globals every module can reference.
// Their types are supplied by the checker; the binder only needs the
// names so realistic programs resolve.
func DefaultPrelude() []PreludeEntry {
	return []PreludeEntry{
		{Name: "console", Kind: SymbolGlobal},
		{Name: "Math", Kind: SymbolGlobal},
		{Name: "JSON", Kind: SymbolGlobal},
		{Name: "Array", Kind: SymbolGlobal},
		{Name: "Object", Kind: SymbolGlobal},
		{Name: "String", Kind: SymbolGlobal},
		{Name: "Number", Kind: SymbolGlobal},
		{Name: "Boolean", Kind: SymbolGlobal},
		{Name: "NaN", Kind: SymbolGlobal},
		{Name: "Infinity", Kind: SymbolGlobal},
		{Name: "parseInt", Kind: SymbolGlobal},
		{Name: "parseFloat", Kind: SymbolGlobal},
		{Name: "isNaN", Kind: SymbolGlobal},
		{Name: "isFinite", Kind: SymbolGlobal},
		{Name: "globalThis", Kind: SymbolGlobal},
	}
}
