package ast

import "riptide/internal/source"

// Exprs stores expressions and their per-kind payloads.
type Exprs struct {
	arena     Arena[Expr]
	idents    Arena[IdentExpr]
	lits      Arena[LitExpr]
	templates Arena[TemplateExpr]
	arrays    Arena[ArrayExpr]
	objects   Arena[ObjectExpr]
	funcs     Arena[FuncExpr]
	calls     Arena[CallExpr]
	news      Arena[NewExpr]
	members   Arena[MemberExpr]
	indexes   Arena[IndexExpr]
	unaries   Arena[UnaryExpr]
	binaries  Arena[BinaryExpr]
	assigns   Arena[AssignExpr]
	conds     Arena[CondExpr]
	groups    Arena[GroupExpr]
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.arena.Allocate(Expr{Kind: kind, Span: span, Payload: payload}))
}

// Get returns the expression header for id, or nil when id is
// NoExprID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.arena.Get(uint32(id))
}

// Len reports the number of stored expressions.
func (e *Exprs) Len() int { return e.arena.Len() }

// NewIdent allocates an identifier reference.
func (e *Exprs) NewIdent(span source.Span, name source.StringID) ExprID {
	payload := PayloadID(e.idents.Allocate(IdentExpr{Name: name}))
	return e.new(ExprIdent, span, payload)
}

// Ident returns the payload of an identifier expression.
func (e *Exprs) Ident(id ExprID) (*IdentExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprIdent {
		return nil, false
	}
	return e.idents.Get(uint32(ex.Payload)), true
}

// NewLit allocates a literal expression.
func (e *Exprs) NewLit(span source.Span, kind LitKind, text source.StringID) ExprID {
	payload := PayloadID(e.lits.Allocate(LitExpr{Kind: kind, Text: text}))
	return e.new(ExprLit, span, payload)
}

// Lit returns the payload of a literal expression.
func (e *Exprs) Lit(id ExprID) (*LitExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprLit {
		return nil, false
	}
	return e.lits.Get(uint32(ex.Payload)), true
}

// NewTemplate allocates a template literal.
func (e *Exprs) NewTemplate(span source.Span, tpl TemplateExpr) ExprID {
	payload := PayloadID(e.templates.Allocate(tpl))
	return e.new(ExprTemplate, span, payload)
}

// Template returns the payload of a template literal.
func (e *Exprs) Template(id ExprID) (*TemplateExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprTemplate {
		return nil, false
	}
	return e.templates.Get(uint32(ex.Payload)), true
}

// NewArray allocates an array literal.
func (e *Exprs) NewArray(span source.Span, elems []ExprID) ExprID {
	payload := PayloadID(e.arrays.Allocate(ArrayExpr{Elems: elems}))
	return e.new(ExprArray, span, payload)
}

// Array returns the payload of an array literal.
func (e *Exprs) Array(id ExprID) (*ArrayExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprArray {
		return nil, false
	}
	return e.arrays.Get(uint32(ex.Payload)), true
}

// NewObject allocates an object literal.
func (e *Exprs) NewObject(span source.Span, fields []ObjectField) ExprID {
	payload := PayloadID(e.objects.Allocate(ObjectExpr{Fields: fields}))
	return e.new(ExprObject, span, payload)
}

// Object returns the payload of an object literal.
func (e *Exprs) Object(id ExprID) (*ObjectExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprObject {
		return nil, false
	}
	return e.objects.Get(uint32(ex.Payload)), true
}

// NewArrow allocates an arrow expression pointing at a Funcs payload.
func (e *Exprs) NewArrow(span source.Span, fn FuncID) ExprID {
	payload := PayloadID(e.funcs.Allocate(FuncExpr{Fn: fn}))
	return e.new(ExprArrow, span, payload)
}

// NewFunction allocates a function expression pointing at a Funcs
// payload.
func (e *Exprs) NewFunction(span source.Span, fn FuncID) ExprID {
	payload := PayloadID(e.funcs.Allocate(FuncExpr{Fn: fn}))
	return e.new(ExprFunction, span, payload)
}

// Func returns the FuncID behind an arrow or function expression.
func (e *Exprs) Func(id ExprID) (FuncID, bool) {
	ex := e.Get(id)
	if ex == nil || (ex.Kind != ExprArrow && ex.Kind != ExprFunction) {
		return NoFuncID, false
	}
	fe := e.funcs.Get(uint32(ex.Payload))
	if fe == nil {
		return NoFuncID, false
	}
	return fe.Fn, true
}

// NewCall allocates a call expression.
func (e *Exprs) NewCall(span source.Span, call CallExpr) ExprID {
	payload := PayloadID(e.calls.Allocate(call))
	return e.new(ExprCall, span, payload)
}

// Call returns the payload of a call expression.
func (e *Exprs) Call(id ExprID) (*CallExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprCall {
		return nil, false
	}
	return e.calls.Get(uint32(ex.Payload)), true
}

// NewNew allocates a new-expression.
func (e *Exprs) NewNew(span source.Span, callee ExprID, args []ExprID) ExprID {
	payload := PayloadID(e.news.Allocate(NewExpr{Callee: callee, Args: args}))
	return e.new(ExprNew, span, payload)
}

// New returns the payload of a new-expression.
func (e *Exprs) New(id ExprID) (*NewExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprNew {
		return nil, false
	}
	return e.news.Get(uint32(ex.Payload)), true
}

// NewMember allocates a member access.
func (e *Exprs) NewMember(span source.Span, m MemberExpr) ExprID {
	payload := PayloadID(e.members.Allocate(m))
	return e.new(ExprMember, span, payload)
}

// Member returns the payload of a member access.
func (e *Exprs) Member(id ExprID) (*MemberExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprMember {
		return nil, false
	}
	return e.members.Get(uint32(ex.Payload)), true
}

// NewIndex allocates an index access.
func (e *Exprs) NewIndex(span source.Span, object, index ExprID) ExprID {
	payload := PayloadID(e.indexes.Allocate(IndexExpr{Object: object, Index: index}))
	return e.new(ExprIndex, span, payload)
}

// Index returns the payload of an index access.
func (e *Exprs) Index(id ExprID) (*IndexExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprIndex {
		return nil, false
	}
	return e.indexes.Get(uint32(ex.Payload)), true
}

// NewUnary allocates a prefix operation.
func (e *Exprs) NewUnary(span source.Span, op UnaryOp, operand ExprID) ExprID {
	payload := PayloadID(e.unaries.Allocate(UnaryExpr{Op: op, Operand: operand}))
	return e.new(ExprUnary, span, payload)
}

// Unary returns the payload of a prefix operation.
func (e *Exprs) Unary(id ExprID) (*UnaryExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprUnary {
		return nil, false
	}
	return e.unaries.Get(uint32(ex.Payload)), true
}

// NewBinary allocates an infix operation.
func (e *Exprs) NewBinary(span source.Span, op BinaryOp, left, right ExprID) ExprID {
	payload := PayloadID(e.binaries.Allocate(BinaryExpr{Op: op, Left: left, Right: right}))
	return e.new(ExprBinary, span, payload)
}

// Binary returns the payload of an infix operation.
func (e *Exprs) Binary(id ExprID) (*BinaryExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprBinary {
		return nil, false
	}
	return e.binaries.Get(uint32(ex.Payload)), true
}

// NewAssign allocates an assignment.
func (e *Exprs) NewAssign(span source.Span, op AssignOp, target, value ExprID) ExprID {
	payload := PayloadID(e.assigns.Allocate(AssignExpr{Op: op, Target: target, Value: value}))
	return e.new(ExprAssign, span, payload)
}

// Assign returns the payload of an assignment.
func (e *Exprs) Assign(id ExprID) (*AssignExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprAssign {
		return nil, false
	}
	return e.assigns.Get(uint32(ex.Payload)), true
}

// NewCond allocates a conditional expression.
func (e *Exprs) NewCond(span source.Span, cond, then, els ExprID) ExprID {
	payload := PayloadID(e.conds.Allocate(CondExpr{Cond: cond, Then: then, Else: els}))
	return e.new(ExprCond, span, payload)
}

// Cond returns the payload of a conditional expression.
func (e *Exprs) Cond(id ExprID) (*CondExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprCond {
		return nil, false
	}
	return e.conds.Get(uint32(ex.Payload)), true
}

// NewGroup allocates a parenthesized expression.
func (e *Exprs) NewGroup(span source.Span, inner ExprID) ExprID {
	payload := PayloadID(e.groups.Allocate(GroupExpr{Inner: inner}))
	return e.new(ExprGroup, span, payload)
}

// Group returns the payload of a parenthesized expression.
func (e *Exprs) Group(id ExprID) (*GroupExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprGroup {
		return nil, false
	}
	return e.groups.Get(uint32(ex.Payload)), true
}

// NewBad allocates a recovery placeholder covering span.
func (e *Exprs) NewBad(span source.Span) ExprID {
	return e.new(ExprBad, span, NoPayloadID)
}

// Unwrap strips grouping so callers see through parens; narrowing and
// lvalue checks treat `(x)` as x.
func (e *Exprs) Unwrap(id ExprID) ExprID {
	for {
		ex := e.Get(id)
		if ex == nil || ex.Kind != ExprGroup {
			return id
		}
		g := e.groups.Get(uint32(ex.Payload))
		if g == nil || !g.Inner.IsValid() {
			return id
		}
		id = g.Inner
	}
}
