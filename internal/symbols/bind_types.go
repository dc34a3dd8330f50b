package symbols

import (
	"fmt"

	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/source"
)

// builtinTypeNames are the predeclared type names the checker maps by
// spelling; they resolve without a declaration and cannot be shadowed
// in type position.
var builtinTypeNames = map[string]struct{}{
	"number":    {},
	"string":    {},
	"boolean":   {},
	"any":       {},
	"unknown":   {},
	"never":     {},
	"void":      {},
	"null":      {},
	"undefined": {},
	"object":    {},
	"Array":     {},
}

// IsBuiltinTypeName reports whether name denotes a predeclared type.
func IsBuiltinTypeName(name string) bool {
	_, ok := builtinTypeNames[name]
	return ok
}

func (fb *fileBinder) bindType(id ast.TypeID) {
	if !id.IsValid() {
		return
	}
	node := fb.builder.Types.Get(id)
	if node == nil {
		return
	}
	switch node.Kind {
	case ast.TypeSynName:
		ref, ok := fb.builder.Types.Name(id)
		if !ok {
			return
		}
		fb.resolveTypeName(id, ref, node.Span)
		for _, arg := range ref.Args {
			fb.bindType(arg)
		}
	case ast.TypeSynLit, ast.TypeSynBad:
	case ast.TypeSynObject:
		obj, ok := fb.builder.Types.Object(id)
		if !ok {
			return
		}
		for _, field := range obj.Fields {
			if field.Type.IsValid() {
				fb.bindType(field.Type)
			}
		}
	case ast.TypeSynArray:
		arr, ok := fb.builder.Types.Array(id)
		if !ok {
			return
		}
		fb.bindType(arr.Elem)
	case ast.TypeSynFunc:
		fn, ok := fb.builder.Types.Func(id)
		if !ok {
			return
		}
		for _, param := range fn.Params {
			if param.Type.IsValid() {
				fb.bindType(param.Type)
			}
		}
		if fn.Return.IsValid() {
			fb.bindType(fn.Return)
		}
	case ast.TypeSynUnion:
		u, ok := fb.builder.Types.Union(id)
		if !ok {
			return
		}
		for _, member := range u.Members {
			fb.bindType(member)
		}
	case ast.TypeSynIntersection:
		in, ok := fb.builder.Types.Intersection(id)
		if !ok {
			return
		}
		for _, member := range in.Members {
			fb.bindType(member)
		}
	case ast.TypeSynGroup:
		g, ok := fb.builder.Types.Group(id)
		if !ok {
			return
		}
		fb.bindType(g.Inner)
	}
}

// resolveTypeName binds one type reference. Builtins stay unbound; the
// checker maps them by spelling.
func (fb *fileBinder) resolveTypeName(id ast.TypeID, ref *ast.NameType, span source.Span) {
	if ref.Name == source.NoStringID {
		return
	}
	nameStr := fb.builder.Text(ref.Name)
	if IsBuiltinTypeName(nameStr) {
		return
	}
	if symID, ok := fb.resolver.LookupOne(ref.Name, TypeKinds); ok {
		fb.result.TypeSymbols[id] = symID
		return
	}
	sp := ref.NameSpan
	if sp == (source.Span{}) {
		sp = span
	}
	if _, ok := fb.resolver.LookupOne(ref.Name, ValueKinds); ok {
		msg := fmt.Sprintf("'%s' refers to a value, but is being used as a type here", nameStr)
		diag.ReportError(fb.reporter, diag.SemaValueUsedAsType, sp, msg).Emit()
	} else {
		msg := fmt.Sprintf("cannot find type name '%s'", nameStr)
		diag.ReportError(fb.reporter, diag.SemaUnknownTypeName, sp, msg).Emit()
	}
	fb.result.TypeSymbols[id] = fb.result.Table.ErrorSymbol()
}
