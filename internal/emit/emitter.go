package emit

import (
	"bytes"

	"riptide/internal/ast"
	"riptide/internal/source"
)

// emitter walks one file in source order. Every construct copies its
// own bytes through a local cursor, skipping annotation ranges and
// recursing into children so nested rewrites are never missed.
type emitter struct {
	builder *ast.Builder
	file    *ast.File
	sf      *source.File
	w       *writer
	opt     Options

	typeNames map[string]bool
}

func (em *emitter) emitFile() {
	contentLen := len(em.sf.Content)
	prev := 0
	for _, itemID := range em.file.Items {
		item := em.builder.Items.Get(itemID)
		if item == nil {
			continue
		}
		start := clampToContent(int(item.Span.Start), contentLen)
		end := max(clampToContent(int(item.Span.End), contentLen), start)
		if em.keepItem(itemID, item) {
			if prev < start {
				em.w.copyRange(prev, start)
			}
			em.emitItem(itemID, item)
			prev = end
			continue
		}
		// Erase the line the item sat on: keep the gap minus the
		// item's indentation and swallow one trailing newline.
		if prev < start {
			em.w.copyRange(prev, em.trimLineStart(prev, start))
		}
		prev = em.consumeLineEnd(end)
	}
	if prev < contentLen {
		em.w.copyRange(prev, contentLen)
	}
}

// keepItem reports whether the item survives into JavaScript.
func (em *emitter) keepItem(id ast.ItemID, item *ast.Item) bool {
	switch item.Kind {
	case ast.ItemTypeAlias, ast.ItemInterface:
		return false
	case ast.ItemImport:
		imp, ok := em.builder.Items.Import(id)
		if !ok || imp.HasNamespace() || imp.IsBare() {
			return true
		}
		return len(em.keptImportSpecs(imp)) > 0
	case ast.ItemExport:
		list, ok := em.builder.Items.Export(id)
		if !ok {
			return true
		}
		return len(em.keptExportSpecs(list)) > 0
	default:
		return true
	}
}

func (em *emitter) emitItem(id ast.ItemID, item *ast.Item) {
	em.w.mark(item.Span.Start)
	switch item.Kind {
	case ast.ItemVar:
		if decl, ok := em.builder.Items.Var(id); ok {
			em.emitVarDecl(item.Span, decl)
			return
		}
	case ast.ItemFunction:
		if fid, ok := em.builder.Items.Function(id); ok {
			em.emitFuncRange(item.Span, fid)
			return
		}
	case ast.ItemImport:
		if imp, ok := em.builder.Items.Import(id); ok {
			em.emitImport(item, imp)
			return
		}
	case ast.ItemExport:
		if list, ok := em.builder.Items.Export(id); ok {
			em.emitExportList(item, list)
			return
		}
	case ast.ItemStmt:
		if stmtID, ok := em.builder.Items.Stmt(id); ok {
			em.emitStmt(stmtID)
			return
		}
	}
	em.w.copySpan(item.Span)
}

// emitVarDecl copies one declaration, dropping the annotation and, for
// an es5 target, spelling the binding keyword as var.
func (em *emitter) emitVarDecl(span source.Span, decl *ast.VarDecl) {
	cur := em.emitBindingKeyword(span.Start, decl.NameSpan.Start, decl.Kind)
	em.w.copyRange(int(cur), int(decl.NameSpan.End))
	cur = decl.NameSpan.End
	cur = em.skipAnnotation(cur, decl.TypeSpan)
	if decl.Init.IsValid() {
		cur = em.emitExprFrom(cur, decl.Init)
	}
	em.w.copyRange(int(cur), int(span.End))
}

// emitBindingKeyword rewrites let/const to var when the target asks
// for it and returns the cursor past the keyword.
func (em *emitter) emitBindingKeyword(cur, bound uint32, kind ast.DeclKind) uint32 {
	if !em.opt.Target.lowers() || kind == ast.DeclVar {
		return cur
	}
	kw := kind.String()
	at, ok := em.find(cur, bound, kw)
	if !ok {
		return cur
	}
	em.w.copyRange(int(cur), int(at))
	em.w.writeString("var")
	return at + uint32(len(kw))
}

// emitFuncRange copies a function, stripping the type parameter list,
// parameter annotations and the return annotation.
func (em *emitter) emitFuncRange(span source.Span, fid ast.FuncID) {
	fn := em.builder.Funcs.Get(fid)
	if fn == nil {
		em.w.copySpan(span)
		return
	}
	cur := span.Start
	cur = em.skipAnnotation(cur, fn.TypeParamsSpan)
	for _, pid := range fn.Params {
		cur = em.emitParamFrom(cur, pid)
	}
	cur = em.skipAnnotation(cur, fn.ReturnSpan)
	switch {
	case fn.Body.IsValid():
		cur = em.emitStmtFrom(cur, fn.Body)
	case fn.ExprBody.IsValid():
		cur = em.emitExprFrom(cur, fn.ExprBody)
	}
	em.w.copyRange(int(cur), int(span.End))
}

func (em *emitter) emitParamFrom(cur uint32, pid ast.ParamID) uint32 {
	p := em.builder.Funcs.Param(pid)
	if p == nil {
		return cur
	}
	em.w.copyRange(int(cur), int(p.Span.Start))
	if p.TypeSpan.Empty() {
		em.w.copySpan(p.Span)
	} else {
		em.w.copyRange(int(p.Span.Start), int(p.TypeSpan.Start))
	}
	return p.Span.End
}

// emitImport copies an import, dropping specifiers that only name
// types. A partially dropped clause is respelled.
func (em *emitter) emitImport(item *ast.Item, imp *ast.ImportDecl) {
	if imp.HasNamespace() || imp.IsBare() {
		em.w.copySpan(item.Span)
		return
	}
	kept := em.keptImportSpecs(imp)
	if len(kept) == len(imp.Specs) {
		em.w.copySpan(item.Span)
		return
	}
	em.w.writeString("import { ")
	for i, sp := range kept {
		if i > 0 {
			em.w.writeString(", ")
		}
		em.w.copyRange(int(sp.ImportedSpan.Start), int(sp.LocalSpan.End))
	}
	em.w.writeString(" } from ")
	em.w.copySpan(imp.ModuleSpan)
	em.w.writeByte(';')
}

func (em *emitter) emitExportList(item *ast.Item, list *ast.ExportList) {
	kept := em.keptExportSpecs(list)
	if len(kept) == len(list.Specs) {
		em.w.copySpan(item.Span)
		return
	}
	em.w.writeString("export { ")
	for i, sp := range kept {
		if i > 0 {
			em.w.writeString(", ")
		}
		em.w.copyRange(int(sp.LocalSpan.Start), int(sp.ExportedSpan.End))
	}
	em.w.writeString(" };")
}

func (em *emitter) keptImportSpecs(imp *ast.ImportDecl) []ast.ImportSpec {
	if em.opt.TypeOnlyImport == nil {
		return imp.Specs
	}
	module := em.builder.Text(imp.Module)
	var kept []ast.ImportSpec
	for _, sp := range imp.Specs {
		if !em.opt.TypeOnlyImport(module, em.builder.Text(sp.Imported)) {
			kept = append(kept, sp)
		}
	}
	return kept
}

func (em *emitter) keptExportSpecs(list *ast.ExportList) []ast.ExportSpec {
	types := em.localTypeOnly()
	if len(types) == 0 {
		return list.Specs
	}
	var kept []ast.ExportSpec
	for _, sp := range list.Specs {
		if !types[em.builder.Text(sp.Local)] {
			kept = append(kept, sp)
		}
	}
	return kept
}

// localTypeOnly collects the names this file binds purely as types:
// aliases, interfaces, and import specifiers that resolve to types.
func (em *emitter) localTypeOnly() map[string]bool {
	if em.typeNames != nil {
		return em.typeNames
	}
	names := make(map[string]bool)
	for _, itemID := range em.file.Items {
		item := em.builder.Items.Get(itemID)
		if item == nil {
			continue
		}
		switch item.Kind {
		case ast.ItemTypeAlias:
			if decl, ok := em.builder.Items.TypeAlias(itemID); ok {
				names[em.builder.Text(decl.Name)] = true
			}
		case ast.ItemInterface:
			if decl, ok := em.builder.Items.Interface(itemID); ok {
				names[em.builder.Text(decl.Name)] = true
			}
		case ast.ItemImport:
			if em.opt.TypeOnlyImport == nil {
				continue
			}
			imp, ok := em.builder.Items.Import(itemID)
			if !ok {
				continue
			}
			module := em.builder.Text(imp.Module)
			for _, sp := range imp.Specs {
				if em.opt.TypeOnlyImport(module, em.builder.Text(sp.Imported)) {
					names[em.builder.Text(sp.Local)] = true
				}
			}
		}
	}
	em.typeNames = names
	return names
}

func (em *emitter) emitStmt(id ast.StmtID) {
	st := em.builder.Stmts.Get(id)
	if st == nil {
		return
	}
	em.w.mark(st.Span.Start)
	switch st.Kind {
	case ast.StmtBlock:
		if blk, ok := em.builder.Stmts.Block(id); ok {
			cur := st.Span.Start
			for _, s := range blk.Stmts {
				cur = em.emitStmtFrom(cur, s)
			}
			em.w.copyRange(int(cur), int(st.Span.End))
			return
		}
	case ast.StmtVar:
		if decl, ok := em.builder.Stmts.Var(id); ok {
			em.emitVarDecl(st.Span, decl)
			return
		}
	case ast.StmtExpr:
		if es, ok := em.builder.Stmts.Expr(id); ok {
			cur := em.emitExprFrom(st.Span.Start, es.Expr)
			em.w.copyRange(int(cur), int(st.Span.End))
			return
		}
	case ast.StmtReturn:
		if ret, ok := em.builder.Stmts.Return(id); ok {
			cur := st.Span.Start
			if ret.Value.IsValid() {
				cur = em.emitExprFrom(cur, ret.Value)
			}
			em.w.copyRange(int(cur), int(st.Span.End))
			return
		}
	case ast.StmtIf:
		if ifs, ok := em.builder.Stmts.If(id); ok {
			cur := em.emitExprFrom(st.Span.Start, ifs.Cond)
			cur = em.emitStmtFrom(cur, ifs.Then)
			if ifs.Else.IsValid() {
				cur = em.emitStmtFrom(cur, ifs.Else)
			}
			em.w.copyRange(int(cur), int(st.Span.End))
			return
		}
	case ast.StmtWhile:
		if loop, ok := em.builder.Stmts.While(id); ok {
			cur := em.emitExprFrom(st.Span.Start, loop.Cond)
			cur = em.emitStmtFrom(cur, loop.Body)
			em.w.copyRange(int(cur), int(st.Span.End))
			return
		}
	case ast.StmtForClassic:
		if loop, ok := em.builder.Stmts.ForClassic(id); ok {
			cur := st.Span.Start
			if loop.Init.IsValid() {
				cur = em.emitStmtFrom(cur, loop.Init)
			}
			if loop.Cond.IsValid() {
				cur = em.emitExprFrom(cur, loop.Cond)
			}
			if loop.Post.IsValid() {
				cur = em.emitExprFrom(cur, loop.Post)
			}
			cur = em.emitStmtFrom(cur, loop.Body)
			em.w.copyRange(int(cur), int(st.Span.End))
			return
		}
	case ast.StmtForOf:
		if loop, ok := em.builder.Stmts.ForOf(id); ok {
			cur := st.Span.Start
			if loop.Declared {
				cur = em.emitBindingKeyword(cur, loop.NameSpan.Start, loop.Decl)
			}
			cur = em.emitExprFrom(cur, loop.Iterable)
			cur = em.emitStmtFrom(cur, loop.Body)
			em.w.copyRange(int(cur), int(st.Span.End))
			return
		}
	case ast.StmtFunc:
		if fd, ok := em.builder.Stmts.FuncDecl(id); ok {
			em.emitFuncRange(st.Span, fd.Fn)
			return
		}
	}
	em.w.copySpan(st.Span)
}

// emitStmtFrom copies the gap before a statement, emits it, and
// returns the cursor past it.
func (em *emitter) emitStmtFrom(cur uint32, id ast.StmtID) uint32 {
	st := em.builder.Stmts.Get(id)
	if st == nil {
		return cur
	}
	em.w.copyRange(int(cur), int(st.Span.Start))
	em.emitStmt(id)
	return st.Span.End
}

// emitExprFrom mirrors emitStmtFrom for expressions.
func (em *emitter) emitExprFrom(cur uint32, id ast.ExprID) uint32 {
	ex := em.builder.Exprs.Get(id)
	if ex == nil {
		return cur
	}
	em.w.copyRange(int(cur), int(ex.Span.Start))
	em.emitExpr(id)
	return ex.Span.End
}

// skipAnnotation copies up to an annotation range and resumes after it.
func (em *emitter) skipAnnotation(cur uint32, span source.Span) uint32 {
	if span.Empty() {
		return cur
	}
	em.w.copyRange(int(cur), int(span.Start))
	return span.End
}

func (em *emitter) find(start, end uint32, needle string) (uint32, bool) {
	content := em.sf.Content
	s, e := int(start), int(end)
	if e > len(content) {
		e = len(content)
	}
	if s >= e {
		return 0, false
	}
	idx := bytes.Index(content[s:e], []byte(needle))
	if idx < 0 {
		return 0, false
	}
	return start + uint32(idx), true
}

// trimLineStart shortens a gap that ends in indentation so a dropped
// item does not leave its leading whitespace behind.
func (em *emitter) trimLineStart(start, end int) int {
	content := em.sf.Content
	i := end
	for i > start && (content[i-1] == ' ' || content[i-1] == '\t') {
		i--
	}
	if i == start || content[i-1] == '\n' {
		return i
	}
	// The item shares its line with earlier code; keep the gap.
	return end
}

// consumeLineEnd advances past trailing blanks and one newline after a
// dropped item.
func (em *emitter) consumeLineEnd(end int) int {
	content := em.sf.Content
	i := end
	for i < len(content) && (content[i] == ' ' || content[i] == '\t') {
		i++
	}
	if i < len(content) && content[i] == '\n' {
		return i + 1
	}
	return end
}

func clampToContent(pos, length int) int {
	if pos < 0 {
		return 0
	}
	if pos > length {
		return length
	}
	return pos
}
