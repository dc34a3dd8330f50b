package ast

// Typed 1-based arena indices. The zero value of every ID type is the
// corresponding No* constant and never addresses a node.

// FileID indexes Files.
type FileID uint32

// ItemID indexes Items (top-level declarations).
type ItemID uint32

// StmtID indexes Stmts.
type StmtID uint32

// ExprID indexes Exprs.
type ExprID uint32

// TypeID indexes Types (type annotation syntax, not checked types).
type TypeID uint32

// FuncID indexes Funcs (shared by function items, function
// expressions and arrows).
type FuncID uint32

// ParamID indexes function parameters.
type ParamID uint32

// TypeParamID indexes generic type parameters.
type TypeParamID uint32

// PayloadID indexes a per-kind payload arena. Which arena is meant is
// determined by the node kind stored next to it.
type PayloadID uint32

const (
	NoFileID      FileID      = 0
	NoItemID      ItemID      = 0
	NoStmtID      StmtID      = 0
	NoExprID      ExprID      = 0
	NoTypeID      TypeID      = 0
	NoFuncID      FuncID      = 0
	NoParamID     ParamID     = 0
	NoTypeParamID TypeParamID = 0
	NoPayloadID   PayloadID   = 0
)

func (id FileID) IsValid() bool      { return id != NoFileID }
func (id ItemID) IsValid() bool      { return id != NoItemID }
func (id StmtID) IsValid() bool      { return id != NoStmtID }
func (id ExprID) IsValid() bool      { return id != NoExprID }
func (id TypeID) IsValid() bool      { return id != NoTypeID }
func (id FuncID) IsValid() bool      { return id != NoFuncID }
func (id ParamID) IsValid() bool     { return id != NoParamID }
func (id TypeParamID) IsValid() bool { return id != NoTypeParamID }
func (id PayloadID) IsValid() bool   { return id != NoPayloadID }
