package symbols

import (
	"riptide/internal/ast"
	"riptide/internal/source"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolVar
	SymbolLet
	SymbolConst
	SymbolFunction
	SymbolTypeAlias
	SymbolInterface
	SymbolImport
	SymbolParam
	SymbolTypeParam
	SymbolGlobal
	// SymbolError is the containment symbol unresolved names bind to so
	// later phases stay quiet about the same identifier.
	SymbolError
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVar:
		return "var"
	case SymbolLet:
		return "let"
	case SymbolConst:
		return "const"
	case SymbolFunction:
		return "function"
	case SymbolTypeAlias:
		return "type-alias"
	case SymbolInterface:
		return "interface"
	case SymbolImport:
		return "import"
	case SymbolParam:
		return "param"
	case SymbolTypeParam:
		return "type-param"
	case SymbolGlobal:
		return "global"
	case SymbolError:
		return "error"
	default:
		return "invalid"
	}
}

// IsValue reports whether the kind denotes something usable in
// expression position. Imports count for both namespaces until the
// checker resolves what they point at.
func (k SymbolKind) IsValue() bool {
	switch k {
	case SymbolVar, SymbolLet, SymbolConst, SymbolFunction, SymbolImport, SymbolParam, SymbolGlobal:
		return true
	default:
		return false
	}
}

// IsType reports whether the kind denotes something usable in type
// position.
func (k SymbolKind) IsType() bool {
	switch k {
	case SymbolTypeAlias, SymbolInterface, SymbolTypeParam, SymbolImport:
		return true
	default:
		return false
	}
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint16

const (
	// SymbolFlagExported marks symbols visible to importing modules.
	SymbolFlagExported SymbolFlags = 1 << iota
	// SymbolFlagHoisted marks var and function bindings lifted to the
	// enclosing function or module scope.
	SymbolFlagHoisted
	// SymbolFlagPending marks a block-scoped binding whose declaration
	// statement the walk has not reached yet; reads report
	// use-before-declaration. Cleared in place once the initializer is
	// bound.
	SymbolFlagPending
	// SymbolFlagNamespace marks an import that binds the whole module
	// object rather than a single export.
	SymbolFlagNamespace
	// SymbolFlagBuiltin marks prelude symbols with no source location.
	SymbolFlagBuiltin
)

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 5)
	if f&SymbolFlagExported != 0 {
		labels = append(labels, "exported")
	}
	if f&SymbolFlagHoisted != 0 {
		labels = append(labels, "hoisted")
	}
	if f&SymbolFlagPending != 0 {
		labels = append(labels, "pending")
	}
	if f&SymbolFlagNamespace != 0 {
		labels = append(labels, "namespace")
	}
	if f&SymbolFlagBuiltin != 0 {
		labels = append(labels, "builtin")
	}
	return labels
}

// SymbolDecl records the AST origin for diagnostics and for the
// checker to find the declaring node again.
type SymbolDecl struct {
	SourceFile source.FileID
	ASTFile    ast.FileID
	Item       ast.ItemID
	Stmt       ast.StmtID
	Expr       ast.ExprID
	Func       ast.FuncID
	Param      ast.ParamID
	TypeParam  ast.TypeParamID
}

// Symbol describes a named entity available in a scope.
type Symbol struct {
	Name  source.StringID
	Kind  SymbolKind
	Scope ScopeID
	Span  source.Span
	Flags SymbolFlags
	Decl  SymbolDecl

	// Module and Imported carry the specifier and the original exported
	// name for import symbols. Imported is NoStringID for namespace
	// imports.
	Module   source.StringID
	Imported source.StringID
}

// IsPending reports whether the binding is still in its dead zone.
func (s *Symbol) IsPending() bool { return s.Flags&SymbolFlagPending != 0 }

// IsExported reports whether the symbol is part of the module surface.
func (s *Symbol) IsExported() bool { return s.Flags&SymbolFlagExported != 0 }
