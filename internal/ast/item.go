package ast

import "riptide/internal/source"

// ItemKind discriminates top-level declarations.
type ItemKind uint8

const (
	ItemInvalid ItemKind = iota
	// ItemVar is a top-level let/const/var declaration.
	ItemVar
	// ItemFunction is a function declaration.
	ItemFunction
	// ItemTypeAlias is `type Name = T;`.
	ItemTypeAlias
	// ItemInterface is an interface declaration.
	ItemInterface
	// ItemImport is an import declaration.
	ItemImport
	// ItemExport is an `export { ... };` list. Declarations carrying an
	// `export` modifier stay their own kind with Exported set.
	ItemExport
	// ItemStmt is a statement at module top level.
	ItemStmt
	// ItemBad is a placeholder produced by error recovery.
	ItemBad
)

var itemKindNames = map[ItemKind]string{
	ItemInvalid:   "invalid",
	ItemVar:       "var",
	ItemFunction:  "function",
	ItemTypeAlias: "type-alias",
	ItemInterface: "interface",
	ItemImport:    "import",
	ItemExport:    "export",
	ItemStmt:      "stmt",
	ItemBad:       "bad",
}

func (k ItemKind) String() string {
	if s, ok := itemKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Item is one top-level declaration. Payload indexes the arena that
// matches Kind.
type Item struct {
	Kind     ItemKind
	Span     source.Span
	Exported bool
	Payload  PayloadID
}

// Items stores top-level declarations and their per-kind payloads.
type Items struct {
	arena      Arena[Item]
	vars       Arena[VarDecl]
	aliases    Arena[TypeAliasDecl]
	interfaces Arena[InterfaceDecl]
	imports    Arena[ImportDecl]
	exports    Arena[ExportList]
}

func (it *Items) new(kind ItemKind, span source.Span, exported bool, payload PayloadID) ItemID {
	return ItemID(it.arena.Allocate(Item{Kind: kind, Span: span, Exported: exported, Payload: payload}))
}

// Get returns the item header for id, or nil when id is NoItemID.
func (it *Items) Get(id ItemID) *Item {
	return it.arena.Get(uint32(id))
}

// Len reports the number of stored items.
func (it *Items) Len() int { return it.arena.Len() }

// NewFunction allocates a function declaration item. The signature and
// body live in the Funcs aggregate.
func (it *Items) NewFunction(span source.Span, exported bool, fn FuncID) ItemID {
	return it.new(ItemFunction, span, exported, PayloadID(fn))
}

// Function returns the FuncID of a function declaration item.
func (it *Items) Function(id ItemID) (FuncID, bool) {
	item := it.Get(id)
	if item == nil || item.Kind != ItemFunction {
		return NoFuncID, false
	}
	return FuncID(item.Payload), true
}

// NewStmt allocates a top-level statement item. The statement lives in
// the Stmts aggregate.
func (it *Items) NewStmt(span source.Span, stmt StmtID) ItemID {
	return it.new(ItemStmt, span, false, PayloadID(stmt))
}

// Stmt returns the StmtID of a top-level statement item.
func (it *Items) Stmt(id ItemID) (StmtID, bool) {
	item := it.Get(id)
	if item == nil || item.Kind != ItemStmt {
		return NoStmtID, false
	}
	return StmtID(item.Payload), true
}

// NewBad allocates a recovery placeholder covering span.
func (it *Items) NewBad(span source.Span) ItemID {
	return it.new(ItemBad, span, false, NoPayloadID)
}
