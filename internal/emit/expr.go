package emit

import (
	"fmt"
	"strings"

	"riptide/internal/ast"
	"riptide/internal/source"
)

func (em *emitter) emitExpr(id ast.ExprID) {
	ex := em.builder.Exprs.Get(id)
	if ex == nil {
		return
	}
	em.w.mark(ex.Span.Start)
	switch ex.Kind {
	case ast.ExprTemplate:
		if tpl, ok := em.builder.Exprs.Template(id); ok {
			em.emitTemplate(ex.Span, tpl)
			return
		}
	case ast.ExprArray:
		if arr, ok := em.builder.Exprs.Array(id); ok {
			em.emitChildren(ex.Span, arr.Elems...)
			return
		}
	case ast.ExprObject:
		if obj, ok := em.builder.Exprs.Object(id); ok {
			cur := ex.Span.Start
			for _, f := range obj.Fields {
				cur = em.emitExprFrom(cur, f.Value)
			}
			em.w.copyRange(int(cur), int(ex.Span.End))
			return
		}
	case ast.ExprArrow:
		if fid, ok := em.builder.Exprs.Func(id); ok {
			if em.opt.Target.lowers() {
				em.lowerArrow(ex.Span, fid)
			} else {
				em.emitFuncRange(ex.Span, fid)
			}
			return
		}
	case ast.ExprFunction:
		if fid, ok := em.builder.Exprs.Func(id); ok {
			em.emitFuncRange(ex.Span, fid)
			return
		}
	case ast.ExprCall:
		if call, ok := em.builder.Exprs.Call(id); ok {
			cur := em.emitExprFrom(ex.Span.Start, call.Callee)
			cur = em.skipAnnotation(cur, call.TypeArgsSpan)
			for _, a := range call.Args {
				cur = em.emitExprFrom(cur, a)
			}
			em.w.copyRange(int(cur), int(ex.Span.End))
			return
		}
	case ast.ExprNew:
		if ne, ok := em.builder.Exprs.New(id); ok {
			cur := em.emitExprFrom(ex.Span.Start, ne.Callee)
			for _, a := range ne.Args {
				cur = em.emitExprFrom(cur, a)
			}
			em.w.copyRange(int(cur), int(ex.Span.End))
			return
		}
	case ast.ExprMember:
		if m, ok := em.builder.Exprs.Member(id); ok {
			em.emitChildren(ex.Span, m.Object)
			return
		}
	case ast.ExprIndex:
		if ix, ok := em.builder.Exprs.Index(id); ok {
			em.emitChildren(ex.Span, ix.Object, ix.Index)
			return
		}
	case ast.ExprUnary:
		if u, ok := em.builder.Exprs.Unary(id); ok {
			em.emitChildren(ex.Span, u.Operand)
			return
		}
	case ast.ExprBinary:
		if bin, ok := em.builder.Exprs.Binary(id); ok {
			em.emitChildren(ex.Span, bin.Left, bin.Right)
			return
		}
	case ast.ExprAssign:
		if as, ok := em.builder.Exprs.Assign(id); ok {
			em.emitChildren(ex.Span, as.Target, as.Value)
			return
		}
	case ast.ExprCond:
		if c, ok := em.builder.Exprs.Cond(id); ok {
			em.emitChildren(ex.Span, c.Cond, c.Then, c.Else)
			return
		}
	case ast.ExprGroup:
		if g, ok := em.builder.Exprs.Group(id); ok {
			em.emitChildren(ex.Span, g.Inner)
			return
		}
	}
	// Identifiers, literals and placeholders copy through.
	em.w.copySpan(ex.Span)
}

// emitChildren copies span while recursing into each child expression
// in source order.
func (em *emitter) emitChildren(span source.Span, kids ...ast.ExprID) {
	cur := span.Start
	for _, kid := range kids {
		if !kid.IsValid() {
			continue
		}
		cur = em.emitExprFrom(cur, kid)
	}
	em.w.copyRange(int(cur), int(span.End))
}

// emitTemplate copies a template, recursing into the holes; an es5
// target lowers the whole literal to string concatenation.
func (em *emitter) emitTemplate(span source.Span, tpl *ast.TemplateExpr) {
	if em.opt.Target.lowers() {
		em.lowerTemplate(tpl)
		return
	}
	em.emitChildren(span, tpl.Exprs...)
}

// lowerTemplate renders `a${x}b` as "a" + (x) + "b". The head chunk
// always stays so concatenation starts in string context; later empty
// chunks add nothing and are dropped.
func (em *emitter) lowerTemplate(tpl *ast.TemplateExpr) {
	if len(tpl.Parts) == 0 {
		em.w.writeString(`""`)
		return
	}
	em.w.writeString(jsQuote(em.builder.Text(tpl.Parts[0].Cooked)))
	for i, hole := range tpl.Exprs {
		em.w.writeString(" + (")
		em.emitExpr(hole)
		em.w.writeByte(')')
		if i+1 < len(tpl.Parts) {
			if text := em.builder.Text(tpl.Parts[i+1].Cooked); text != "" {
				em.w.writeString(" + ")
				em.w.writeString(jsQuote(text))
			}
		}
	}
}

// lowerArrow rewrites an arrow into a function expression. Parameters
// and the body keep their source text, minus annotations.
func (em *emitter) lowerArrow(span source.Span, fid ast.FuncID) {
	fn := em.builder.Funcs.Get(fid)
	if fn == nil {
		em.w.copySpan(span)
		return
	}
	em.w.writeString("function (")
	if len(fn.Params) > 0 {
		if first := em.builder.Funcs.Param(fn.Params[0]); first != nil {
			cur := first.Span.Start
			for _, pid := range fn.Params {
				cur = em.emitParamFrom(cur, pid)
			}
		}
	}
	em.w.writeString(") ")
	switch {
	case fn.Body.IsValid():
		em.emitStmt(fn.Body)
	case fn.ExprBody.IsValid():
		em.w.writeString("{ return ")
		em.emitExpr(fn.ExprBody)
		em.w.writeString("; }")
	default:
		em.w.writeString("{}")
	}
}

// jsQuote renders s as a double-quoted JavaScript string literal.
func jsQuote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
