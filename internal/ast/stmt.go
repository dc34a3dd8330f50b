package ast

import "riptide/internal/source"

// StmtKind discriminates statements.
type StmtKind uint8

const (
	StmtInvalid StmtKind = iota
	StmtBlock
	StmtVar
	StmtExpr
	StmtReturn
	StmtIf
	StmtWhile
	StmtForClassic
	StmtForOf
	StmtBreak
	StmtContinue
	StmtFunc
	// StmtBad is a placeholder produced by error recovery.
	StmtBad
)

var stmtKindNames = map[StmtKind]string{
	StmtInvalid:    "invalid",
	StmtBlock:      "block",
	StmtVar:        "var",
	StmtExpr:       "expr",
	StmtReturn:     "return",
	StmtIf:         "if",
	StmtWhile:      "while",
	StmtForClassic: "for",
	StmtForOf:      "for-of",
	StmtBreak:      "break",
	StmtContinue:   "continue",
	StmtFunc:       "func-decl",
	StmtBad:        "bad",
}

func (k StmtKind) String() string {
	if s, ok := stmtKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Stmt is one statement. Payload indexes the arena matching Kind;
// break, continue and bad statements carry no payload.
type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

// BlockStmt is the payload of `{ ... }`.
type BlockStmt struct {
	Stmts []StmtID
}

// ExprStmt is the payload of an expression statement.
type ExprStmt struct {
	Expr ExprID
}

// ReturnStmt is the payload of `return [expr];`. Value is NoExprID for
// a bare return.
type ReturnStmt struct {
	Value ExprID
}

// IfStmt is the payload of an if statement. Else is NoStmtID when no
// else branch is present.
type IfStmt struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

// WhileStmt is the payload of a while loop.
type WhileStmt struct {
	Cond ExprID
	Body StmtID
}

// ForClassicStmt is the payload of `for (init; cond; post) body`. Any
// of the three header slots may be absent.
type ForClassicStmt struct {
	Init StmtID
	Cond ExprID
	Post ExprID
	Body StmtID
}

// ForOfStmt is the payload of `for (let x of xs) body`. Declared is
// false for the bare form `for (x of xs)`, which assigns to an
// existing binding instead of introducing one.
type ForOfStmt struct {
	Decl     DeclKind
	Declared bool
	Name     source.StringID
	NameSpan source.Span
	Iterable ExprID
	Body     StmtID
}

// FuncDeclStmt is a named function declared inside a block. Unlike a
// function expression it introduces a binding in the enclosing scope.
type FuncDeclStmt struct {
	Fn FuncID
}

// Stmts stores statements and their per-kind payloads.
type Stmts struct {
	arena       Arena[Stmt]
	blocks      Arena[BlockStmt]
	vars        Arena[VarDecl]
	exprs       Arena[ExprStmt]
	returns     Arena[ReturnStmt]
	ifs         Arena[IfStmt]
	whiles      Arena[WhileStmt]
	forClassics Arena[ForClassicStmt]
	forOfs      Arena[ForOfStmt]
	funcs       Arena[FuncDeclStmt]
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return StmtID(s.arena.Allocate(Stmt{Kind: kind, Span: span, Payload: payload}))
}

// Get returns the statement header for id, or nil when id is NoStmtID.
func (s *Stmts) Get(id StmtID) *Stmt {
	return s.arena.Get(uint32(id))
}

// Len reports the number of stored statements.
func (s *Stmts) Len() int { return s.arena.Len() }

// NewBlock allocates a block statement.
func (s *Stmts) NewBlock(span source.Span, stmts []StmtID) StmtID {
	payload := PayloadID(s.blocks.Allocate(BlockStmt{Stmts: stmts}))
	return s.new(StmtBlock, span, payload)
}

// Block returns the payload of a block statement.
func (s *Stmts) Block(id StmtID) (*BlockStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtBlock {
		return nil, false
	}
	return s.blocks.Get(uint32(st.Payload)), true
}

// NewVar allocates a local variable declaration statement.
func (s *Stmts) NewVar(span source.Span, decl VarDecl) StmtID {
	payload := PayloadID(s.vars.Allocate(decl))
	return s.new(StmtVar, span, payload)
}

// Var returns the payload of a variable declaration statement.
func (s *Stmts) Var(id StmtID) (*VarDecl, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtVar {
		return nil, false
	}
	return s.vars.Get(uint32(st.Payload)), true
}

// NewExpr allocates an expression statement.
func (s *Stmts) NewExpr(span source.Span, expr ExprID) StmtID {
	payload := PayloadID(s.exprs.Allocate(ExprStmt{Expr: expr}))
	return s.new(StmtExpr, span, payload)
}

// Expr returns the payload of an expression statement.
func (s *Stmts) Expr(id StmtID) (*ExprStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtExpr {
		return nil, false
	}
	return s.exprs.Get(uint32(st.Payload)), true
}

// NewReturn allocates a return statement.
func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	payload := PayloadID(s.returns.Allocate(ReturnStmt{Value: value}))
	return s.new(StmtReturn, span, payload)
}

// Return returns the payload of a return statement.
func (s *Stmts) Return(id StmtID) (*ReturnStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtReturn {
		return nil, false
	}
	return s.returns.Get(uint32(st.Payload)), true
}

// NewIf allocates an if statement.
func (s *Stmts) NewIf(span source.Span, cond ExprID, then, els StmtID) StmtID {
	payload := PayloadID(s.ifs.Allocate(IfStmt{Cond: cond, Then: then, Else: els}))
	return s.new(StmtIf, span, payload)
}

// If returns the payload of an if statement.
func (s *Stmts) If(id StmtID) (*IfStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtIf {
		return nil, false
	}
	return s.ifs.Get(uint32(st.Payload)), true
}

// NewWhile allocates a while statement.
func (s *Stmts) NewWhile(span source.Span, cond ExprID, body StmtID) StmtID {
	payload := PayloadID(s.whiles.Allocate(WhileStmt{Cond: cond, Body: body}))
	return s.new(StmtWhile, span, payload)
}

// While returns the payload of a while statement.
func (s *Stmts) While(id StmtID) (*WhileStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtWhile {
		return nil, false
	}
	return s.whiles.Get(uint32(st.Payload)), true
}

// NewForClassic allocates a classic three-clause for loop.
func (s *Stmts) NewForClassic(span source.Span, init StmtID, cond, post ExprID, body StmtID) StmtID {
	payload := PayloadID(s.forClassics.Allocate(ForClassicStmt{Init: init, Cond: cond, Post: post, Body: body}))
	return s.new(StmtForClassic, span, payload)
}

// ForClassic returns the payload of a classic for loop.
func (s *Stmts) ForClassic(id StmtID) (*ForClassicStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtForClassic {
		return nil, false
	}
	return s.forClassics.Get(uint32(st.Payload)), true
}

// NewForOf allocates a for-of loop.
func (s *Stmts) NewForOf(span source.Span, loop ForOfStmt) StmtID {
	payload := PayloadID(s.forOfs.Allocate(loop))
	return s.new(StmtForOf, span, payload)
}

// ForOf returns the payload of a for-of loop.
func (s *Stmts) ForOf(id StmtID) (*ForOfStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtForOf {
		return nil, false
	}
	return s.forOfs.Get(uint32(st.Payload)), true
}

// NewFuncDecl allocates a block-level function declaration.
func (s *Stmts) NewFuncDecl(span source.Span, fn FuncID) StmtID {
	payload := PayloadID(s.funcs.Allocate(FuncDeclStmt{Fn: fn}))
	return s.new(StmtFunc, span, payload)
}

// FuncDecl returns the payload of a block-level function declaration.
func (s *Stmts) FuncDecl(id StmtID) (*FuncDeclStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtFunc {
		return nil, false
	}
	return s.funcs.Get(uint32(st.Payload)), true
}

// NewBreak allocates a break statement.
func (s *Stmts) NewBreak(span source.Span) StmtID {
	return s.new(StmtBreak, span, NoPayloadID)
}

// NewContinue allocates a continue statement.
func (s *Stmts) NewContinue(span source.Span) StmtID {
	return s.new(StmtContinue, span, NoPayloadID)
}

// NewBad allocates a recovery placeholder covering span.
func (s *Stmts) NewBad(span source.Span) StmtID {
	return s.new(StmtBad, span, NoPayloadID)
}
