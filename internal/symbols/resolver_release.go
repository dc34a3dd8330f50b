//go:build !riptide_debug

package symbols

// debugScopeMismatch is a no-op outside debug builds; Leave falls back
// to a warning diagnostic.
func debugScopeMismatch(expected, actual ScopeID) {}
