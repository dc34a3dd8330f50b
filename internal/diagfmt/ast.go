package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"riptide/internal/ast"
	"riptide/internal/source"
)

// DumpAST prints an indented tree of a parsed file for the parse
// debug command. The dump names nodes by kind and shows identifiers,
// literal texts and operators; spans are reduced to the start
// position.
func DumpAST(w io.Writer, b *ast.Builder, fs *source.FileSet, fileID ast.FileID) {
	d := astDumper{w: w, b: b, fs: fs}
	file := b.Files.Get(fileID)
	if file == nil {
		fmt.Fprintln(w, "<no file>")
		return
	}
	d.line(0, file.Span, "file")
	for _, item := range file.Items {
		d.item(1, item)
	}
}

type astDumper struct {
	w  io.Writer
	b  *ast.Builder
	fs *source.FileSet
}

func (d *astDumper) line(depth int, sp source.Span, format string, args ...any) {
	pos := ""
	if d.fs != nil {
		start, _ := d.fs.Resolve(sp)
		pos = fmt.Sprintf(" @%d:%d", start.Line, start.Col)
	}
	fmt.Fprintf(d.w, "%s%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...), pos)
}

func (d *astDumper) text(id source.StringID) string {
	return d.b.Text(id)
}

func (d *astDumper) item(depth int, id ast.ItemID) {
	item := d.b.Items.Get(id)
	if item == nil {
		return
	}
	exported := ""
	if item.Exported {
		exported = " export"
	}
	switch item.Kind {
	case ast.ItemVar:
		decl, _ := d.b.Items.Var(id)
		d.line(depth, item.Span, "%s%s %s", decl.Kind, exported, d.text(decl.Name))
		d.varDeclBody(depth+1, decl)
	case ast.ItemFunction:
		fn, _ := d.b.Items.Function(id)
		d.function(depth, item.Span, exported, fn)
	case ast.ItemTypeAlias:
		alias, _ := d.b.Items.TypeAlias(id)
		d.line(depth, item.Span, "type-alias%s %s", exported, d.text(alias.Name))
		d.typeParams(depth+1, alias.TypeParams)
		d.typ(depth+1, alias.Aliased)
	case ast.ItemInterface:
		iface, _ := d.b.Items.Interface(id)
		d.line(depth, item.Span, "interface%s %s", exported, d.text(iface.Name))
		d.typeParams(depth+1, iface.TypeParams)
		for _, ext := range iface.Extends {
			d.line(depth+1, d.typeSpan(ext), "extends")
			d.typ(depth+2, ext)
		}
		for _, m := range iface.Members {
			opt := ""
			if m.Optional {
				opt = "?"
			}
			d.line(depth+1, m.Span, "member %s%s", d.text(m.Name), opt)
			d.typ(depth+2, m.Type)
		}
	case ast.ItemImport:
		decl, _ := d.b.Items.Import(id)
		d.line(depth, item.Span, "import %s", d.text(decl.Module))
		if decl.HasNamespace() {
			d.line(depth+1, decl.NamespaceSpan, "namespace %s", d.text(decl.Namespace))
		}
		for _, spec := range decl.Specs {
			if spec.Imported == spec.Local {
				d.line(depth+1, spec.ImportedSpan, "name %s", d.text(spec.Imported))
			} else {
				d.line(depth+1, spec.ImportedSpan, "name %s as %s", d.text(spec.Imported), d.text(spec.Local))
			}
		}
	case ast.ItemExport:
		list, _ := d.b.Items.Export(id)
		d.line(depth, item.Span, "export-list")
		for _, spec := range list.Specs {
			if spec.Local == spec.Exported {
				d.line(depth+1, spec.LocalSpan, "name %s", d.text(spec.Local))
			} else {
				d.line(depth+1, spec.LocalSpan, "name %s as %s", d.text(spec.Local), d.text(spec.Exported))
			}
		}
	case ast.ItemStmt:
		stmt, _ := d.b.Items.Stmt(id)
		d.stmt(depth, stmt)
	default:
		d.line(depth, item.Span, "%s", item.Kind)
	}
}

func (d *astDumper) varDeclBody(depth int, decl *ast.VarDecl) {
	if decl.Type.IsValid() {
		d.typ(depth, decl.Type)
	}
	if decl.Init.IsValid() {
		d.expr(depth, decl.Init)
	}
}

func (d *astDumper) function(depth int, sp source.Span, exported string, id ast.FuncID) {
	fn := d.b.Funcs.Get(id)
	if fn == nil {
		return
	}
	name := "<anonymous>"
	if !fn.IsAnonymous() {
		name = d.text(fn.Name)
	}
	kind := "function"
	if fn.IsArrow {
		kind = "arrow"
	}
	d.line(depth, sp, "%s%s %s", kind, exported, name)
	d.typeParams(depth+1, fn.TypeParams)
	for _, pid := range fn.Params {
		p := d.b.Funcs.Param(pid)
		if p == nil {
			continue
		}
		opt := ""
		if p.Optional {
			opt = "?"
		}
		d.line(depth+1, p.Span, "param %s%s", d.text(p.Name), opt)
		if p.Type.IsValid() {
			d.typ(depth+2, p.Type)
		}
	}
	if fn.Return.IsValid() {
		d.line(depth+1, fn.ReturnSpan, "return-type")
		d.typ(depth+2, fn.Return)
	}
	if fn.Body.IsValid() {
		d.stmt(depth+1, fn.Body)
	}
	if fn.ExprBody.IsValid() {
		d.expr(depth+1, fn.ExprBody)
	}
}

func (d *astDumper) typeParams(depth int, params []ast.TypeParamID) {
	for _, tpid := range params {
		tp := d.b.Funcs.TypeParam(tpid)
		if tp == nil {
			continue
		}
		d.line(depth, tp.Span, "type-param %s", d.text(tp.Name))
		if tp.Constraint.IsValid() {
			d.typ(depth+1, tp.Constraint)
		}
	}
}

func (d *astDumper) stmt(depth int, id ast.StmtID) {
	st := d.b.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtBlock:
		block, _ := d.b.Stmts.Block(id)
		d.line(depth, st.Span, "block")
		for _, s := range block.Stmts {
			d.stmt(depth+1, s)
		}
	case ast.StmtVar:
		decl, _ := d.b.Stmts.Var(id)
		d.line(depth, st.Span, "%s %s", decl.Kind, d.text(decl.Name))
		d.varDeclBody(depth+1, decl)
	case ast.StmtExpr:
		es, _ := d.b.Stmts.Expr(id)
		d.line(depth, st.Span, "expr-stmt")
		d.expr(depth+1, es.Expr)
	case ast.StmtReturn:
		ret, _ := d.b.Stmts.Return(id)
		d.line(depth, st.Span, "return")
		if ret.Value.IsValid() {
			d.expr(depth+1, ret.Value)
		}
	case ast.StmtIf:
		ifs, _ := d.b.Stmts.If(id)
		d.line(depth, st.Span, "if")
		d.expr(depth+1, ifs.Cond)
		d.stmt(depth+1, ifs.Then)
		if ifs.Else.IsValid() {
			d.line(depth+1, d.stmtSpan(ifs.Else), "else")
			d.stmt(depth+2, ifs.Else)
		}
	case ast.StmtWhile:
		wh, _ := d.b.Stmts.While(id)
		d.line(depth, st.Span, "while")
		d.expr(depth+1, wh.Cond)
		d.stmt(depth+1, wh.Body)
	case ast.StmtForClassic:
		loop, _ := d.b.Stmts.ForClassic(id)
		d.line(depth, st.Span, "for")
		if loop.Init.IsValid() {
			d.stmt(depth+1, loop.Init)
		}
		if loop.Cond.IsValid() {
			d.expr(depth+1, loop.Cond)
		}
		if loop.Post.IsValid() {
			d.expr(depth+1, loop.Post)
		}
		d.stmt(depth+1, loop.Body)
	case ast.StmtForOf:
		loop, _ := d.b.Stmts.ForOf(id)
		binder := "assign"
		if loop.Declared {
			binder = loop.Decl.String()
		}
		d.line(depth, st.Span, "for-of %s %s", binder, d.text(loop.Name))
		d.expr(depth+1, loop.Iterable)
		d.stmt(depth+1, loop.Body)
	case ast.StmtFunc:
		decl, _ := d.b.Stmts.FuncDecl(id)
		d.function(depth, st.Span, "", decl.Fn)
	default:
		d.line(depth, st.Span, "%s", st.Kind)
	}
}

func (d *astDumper) expr(depth int, id ast.ExprID) {
	ex := d.b.Exprs.Get(id)
	if ex == nil {
		return
	}
	switch ex.Kind {
	case ast.ExprIdent:
		ident, _ := d.b.Exprs.Ident(id)
		d.line(depth, ex.Span, "ident %s", d.text(ident.Name))
	case ast.ExprLit:
		lit, _ := d.b.Exprs.Lit(id)
		d.line(depth, ex.Span, "literal %s %s", lit.Kind, d.text(lit.Text))
	case ast.ExprTemplate:
		tpl, _ := d.b.Exprs.Template(id)
		d.line(depth, ex.Span, "template (%d parts)", len(tpl.Parts))
		for _, sub := range tpl.Exprs {
			d.expr(depth+1, sub)
		}
	case ast.ExprArray:
		arr, _ := d.b.Exprs.Array(id)
		d.line(depth, ex.Span, "array (%d elems)", len(arr.Elems))
		for _, el := range arr.Elems {
			d.expr(depth+1, el)
		}
	case ast.ExprObject:
		obj, _ := d.b.Exprs.Object(id)
		d.line(depth, ex.Span, "object")
		for _, f := range obj.Fields {
			d.line(depth+1, f.Span, "field %s", d.text(f.Name))
			if !f.Shorthand {
				d.expr(depth+2, f.Value)
			}
		}
	case ast.ExprArrow, ast.ExprFunction:
		fn, _ := d.b.Exprs.Func(id)
		d.function(depth, ex.Span, "", fn)
	case ast.ExprCall:
		call, _ := d.b.Exprs.Call(id)
		d.line(depth, ex.Span, "call")
		d.expr(depth+1, call.Callee)
		for _, ta := range call.TypeArgs {
			d.typ(depth+1, ta)
		}
		for _, arg := range call.Args {
			d.expr(depth+1, arg)
		}
	case ast.ExprNew:
		ne, _ := d.b.Exprs.New(id)
		d.line(depth, ex.Span, "new")
		d.expr(depth+1, ne.Callee)
		for _, arg := range ne.Args {
			d.expr(depth+1, arg)
		}
	case ast.ExprMember:
		m, _ := d.b.Exprs.Member(id)
		op := "."
		if m.Optional {
			op = "?."
		}
		d.line(depth, ex.Span, "member %s%s", op, d.text(m.Name))
		d.expr(depth+1, m.Object)
	case ast.ExprIndex:
		idx, _ := d.b.Exprs.Index(id)
		d.line(depth, ex.Span, "index")
		d.expr(depth+1, idx.Object)
		d.expr(depth+1, idx.Index)
	case ast.ExprUnary:
		un, _ := d.b.Exprs.Unary(id)
		d.line(depth, ex.Span, "unary %s", un.Op)
		d.expr(depth+1, un.Operand)
	case ast.ExprBinary:
		bin, _ := d.b.Exprs.Binary(id)
		d.line(depth, ex.Span, "binary %s", bin.Op)
		d.expr(depth+1, bin.Left)
		d.expr(depth+1, bin.Right)
	case ast.ExprAssign:
		as, _ := d.b.Exprs.Assign(id)
		d.line(depth, ex.Span, "assign %s", as.Op)
		d.expr(depth+1, as.Target)
		d.expr(depth+1, as.Value)
	case ast.ExprCond:
		cond, _ := d.b.Exprs.Cond(id)
		d.line(depth, ex.Span, "conditional")
		d.expr(depth+1, cond.Cond)
		d.expr(depth+1, cond.Then)
		d.expr(depth+1, cond.Else)
	case ast.ExprGroup:
		grp, _ := d.b.Exprs.Group(id)
		d.line(depth, ex.Span, "group")
		d.expr(depth+1, grp.Inner)
	default:
		d.line(depth, ex.Span, "%s", ex.Kind)
	}
}

func (d *astDumper) typ(depth int, id ast.TypeID) {
	tn := d.b.Types.Get(id)
	if tn == nil {
		return
	}
	switch tn.Kind {
	case ast.TypeSynName:
		name, _ := d.b.Types.Name(id)
		d.line(depth, tn.Span, "type %s", d.text(name.Name))
		for _, arg := range name.Args {
			d.typ(depth+1, arg)
		}
	case ast.TypeSynLit:
		lit, _ := d.b.Types.Lit(id)
		d.line(depth, tn.Span, "type-literal %s %s", lit.Kind, d.text(lit.Text))
	case ast.TypeSynObject:
		obj, _ := d.b.Types.Object(id)
		d.line(depth, tn.Span, "type-object")
		for _, f := range obj.Fields {
			opt := ""
			if f.Optional {
				opt = "?"
			}
			d.line(depth+1, f.Span, "field %s%s", d.text(f.Name), opt)
			d.typ(depth+2, f.Type)
		}
	case ast.TypeSynArray:
		arr, _ := d.b.Types.Array(id)
		d.line(depth, tn.Span, "type-array")
		d.typ(depth+1, arr.Elem)
	case ast.TypeSynFunc:
		fn, _ := d.b.Types.Func(id)
		d.line(depth, tn.Span, "type-function")
		for _, p := range fn.Params {
			d.line(depth+1, p.NameSpan, "param %s", d.text(p.Name))
			d.typ(depth+2, p.Type)
		}
		d.typ(depth+1, fn.Return)
	case ast.TypeSynUnion:
		un, _ := d.b.Types.Union(id)
		d.line(depth, tn.Span, "type-union")
		for _, m := range un.Members {
			d.typ(depth+1, m)
		}
	case ast.TypeSynIntersection:
		in, _ := d.b.Types.Intersection(id)
		d.line(depth, tn.Span, "type-intersection")
		for _, m := range in.Members {
			d.typ(depth+1, m)
		}
	case ast.TypeSynGroup:
		grp, _ := d.b.Types.Group(id)
		d.line(depth, tn.Span, "type-group")
		d.typ(depth+1, grp.Inner)
	default:
		d.line(depth, tn.Span, "%s", tn.Kind)
	}
}

func (d *astDumper) stmtSpan(id ast.StmtID) source.Span {
	if st := d.b.Stmts.Get(id); st != nil {
		return st.Span
	}
	return source.Span{}
}

func (d *astDumper) typeSpan(id ast.TypeID) source.Span {
	if tn := d.b.Types.Get(id); tn != nil {
		return tn.Span
	}
	return source.Span{}
}
