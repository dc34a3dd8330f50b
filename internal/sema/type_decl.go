package sema

import (
	"strconv"

	"riptide/internal/ast"
	"riptide/internal/diag"
	"riptide/internal/source"
	"riptide/internal/symbols"
	"riptide/internal/types"
)

// ensureTypeEntity resolves a type alias or interface declaration to
// its checked form, memoized per symbol. Aliases and interfaces whose
// body is an object shape get their named slot registered before the
// fields resolve, so recursive shapes like `type T = { next: T }`
// close without a cycle report. Direct cycles through alias bodies
// (`type A = B; type B = A;`) report once and resolve to the error
// type.
func (tc *typeChecker) ensureTypeEntity(symID symbols.SymbolID, useSpan source.Span) *typeEntity {
	sym := tc.symbolFromID(symID)
	if sym == nil {
		return nil
	}
	if ent, ok := tc.typeEntities[symID]; ok {
		if ent.state == declInferring {
			tc.reportTypeCycle(sym, useSpan)
			ent.state = declErrored
			ent.typ = tc.errType()
		}
		return ent
	}

	ent := &typeEntity{state: declInferring}
	tc.typeEntities[symID] = ent

	switch sym.Kind {
	case symbols.SymbolTypeAlias:
		tc.resolveAliasEntity(sym, ent)
	case symbols.SymbolInterface:
		tc.resolveInterfaceEntity(sym, ent)
	default:
		invariantf("ensureTypeEntity on %s symbol", sym.Kind)
	}

	if ent.state == declInferring {
		ent.state = declResolved
	}
	if ent.typ == types.NoTypeID {
		ent.typ = tc.errType()
	}
	return ent
}

func (tc *typeChecker) reportTypeCycle(sym *symbols.Symbol, useSpan source.Span) {
	span := sym.Span
	if span.Empty() {
		span = useSpan
	}
	tc.report(diag.SemaCircularInference, span,
		"type '%s' circularly references itself", tc.lookupText(sym.Name))
}

func (tc *typeChecker) resolveAliasEntity(sym *symbols.Symbol, ent *typeEntity) {
	decl, ok := tc.builder.Items.TypeAlias(sym.Decl.Item)
	if !ok || decl == nil {
		ent.state = declErrored
		ent.typ = tc.errType()
		return
	}
	ent.params = tc.declareEntityTypeParams(decl.TypeParams)

	// An alias over an object shape keeps a named slot so the alias
	// name can appear inside its own fields.
	body := tc.builder.Types.UnwrapGroup(decl.Aliased)
	if node := tc.builder.Types.Get(body); node != nil && node.Kind == ast.TypeSynObject {
		slot := tc.types.RegisterNamedObject(decl.Name)
		ent.typ = slot
		ent.state = declResolved
		obj, _ := tc.builder.Types.Object(body)
		tc.types.SetObjectFields(slot, tc.resolveTypeFields(obj.Fields))
		return
	}

	ent.typ = tc.resolveType(decl.Aliased)
}

func (tc *typeChecker) resolveInterfaceEntity(sym *symbols.Symbol, ent *typeEntity) {
	decl, ok := tc.builder.Items.Interface(sym.Decl.Item)
	if !ok || decl == nil {
		ent.state = declErrored
		ent.typ = tc.errType()
		return
	}
	ent.params = tc.declareEntityTypeParams(decl.TypeParams)

	slot := tc.types.RegisterNamedObject(decl.Name)
	ent.typ = slot
	ent.state = declResolved

	// Base fields first, own members override.
	var fields []types.Field
	for _, ext := range decl.Extends {
		base := tc.resolveType(ext)
		if tc.types.IsError(base) {
			continue
		}
		info, ok := tc.types.ObjectInfo(base)
		if !ok {
			node := tc.builder.Types.Get(ext)
			span := sym.Span
			if node != nil {
				span = node.Span
			}
			tc.report(diag.SemaTypeMismatch, span,
				"interface '%s' can only extend object types, not '%s'",
				tc.lookupText(decl.Name), tc.typeLabel(base))
			continue
		}
		fields = mergeFields(fields, info.Fields)
	}
	var own []types.Field
	for _, m := range decl.Members {
		own = append(own, types.Field{
			Name:     m.Name,
			Type:     tc.resolveType(m.Type),
			Optional: m.Optional,
		})
	}
	fields = mergeFields(fields, own)
	tc.types.SetObjectFields(slot, fields)
}

// mergeFields overlays extra onto base; names in extra win.
func mergeFields(base, extra []types.Field) []types.Field {
	if len(base) == 0 {
		return extra
	}
	out := make([]types.Field, 0, len(base)+len(extra))
	replaced := make(map[source.StringID]bool, len(extra))
	for _, f := range extra {
		replaced[f.Name] = true
	}
	for _, f := range base {
		if !replaced[f.Name] {
			out = append(out, f)
		}
	}
	return append(out, extra...)
}

// declareEntityTypeParams registers every parameter before any
// constraint resolves, so later parameters can bound themselves by
// earlier ones.
func (tc *typeChecker) declareEntityTypeParams(params []ast.TypeParamID) []types.TypeID {
	if len(params) == 0 {
		return nil
	}
	out := make([]types.TypeID, 0, len(params))
	for _, tpID := range params {
		out = append(out, tc.declareTypeParam(tpID))
	}
	for i, tpID := range params {
		tp := tc.builder.Funcs.TypeParam(tpID)
		if tp == nil || !tp.Constraint.IsValid() {
			continue
		}
		tc.types.SetTypeParamConstraint(out[i], tc.resolveType(tp.Constraint))
	}
	return out
}

func (tc *typeChecker) declareTypeParam(tpID ast.TypeParamID) types.TypeID {
	if t, ok := tc.typeParamTypes[tpID]; ok {
		return t
	}
	tp := tc.builder.Funcs.TypeParam(tpID)
	if tp == nil {
		return tc.errType()
	}
	t := tc.types.RegisterTypeParam(tp.Name, types.NoTypeID)
	tc.typeParamTypes[tpID] = t
	return t
}

// resolveType lowers a type annotation to a checked type. Builtins
// resolve by spelling; everything else goes through the symbol the
// binder attached. Errors resolve to the error type and never cascade.
func (tc *typeChecker) resolveType(id ast.TypeID) types.TypeID {
	node := tc.builder.Types.Get(id)
	if node == nil {
		return tc.errType()
	}
	switch node.Kind {
	case ast.TypeSynName:
		ref, _ := tc.builder.Types.Name(id)
		if ref == nil {
			return tc.errType()
		}
		return tc.resolveTypeName(id, node.Span, ref)
	case ast.TypeSynLit:
		lit, _ := tc.builder.Types.Lit(id)
		if lit == nil {
			return tc.errType()
		}
		return tc.literalTypeOf(lit.Kind, lit.Text)
	case ast.TypeSynObject:
		obj, _ := tc.builder.Types.Object(id)
		if obj == nil {
			return tc.errType()
		}
		return tc.types.RegisterObject(tc.resolveTypeFields(obj.Fields))
	case ast.TypeSynArray:
		arr, _ := tc.builder.Types.Array(id)
		if arr == nil {
			return tc.errType()
		}
		return tc.types.Intern(types.MakeArray(tc.resolveType(arr.Elem)))
	case ast.TypeSynFunc:
		fn, _ := tc.builder.Types.Func(id)
		if fn == nil {
			return tc.errType()
		}
		params := make([]types.FnParam, 0, len(fn.Params))
		for _, p := range fn.Params {
			params = append(params, types.FnParam{Name: p.Name, Type: tc.resolveType(p.Type)})
		}
		ret := tc.types.Builtins().Void
		if fn.Return.IsValid() {
			ret = tc.resolveType(fn.Return)
		}
		return tc.types.RegisterFn(types.FnInfo{Params: params, Return: ret})
	case ast.TypeSynUnion:
		u, _ := tc.builder.Types.Union(id)
		if u == nil {
			return tc.errType()
		}
		members := make([]types.TypeID, 0, len(u.Members))
		for _, m := range u.Members {
			members = append(members, tc.resolveType(m))
		}
		return tc.types.MakeUnion(members)
	case ast.TypeSynIntersection:
		sect, _ := tc.builder.Types.Intersection(id)
		if sect == nil {
			return tc.errType()
		}
		return tc.resolveIntersection(node.Span, sect.Members)
	case ast.TypeSynGroup:
		g, _ := tc.builder.Types.Group(id)
		if g == nil {
			return tc.errType()
		}
		return tc.resolveType(g.Inner)
	case ast.TypeSynBad:
		// The parser already reported.
		return tc.errType()
	default:
		invariantf("resolveType on %s annotation", node.Kind)
		return tc.errType()
	}
}

func (tc *typeChecker) resolveTypeFields(fields []ast.TypeField) []types.Field {
	out := make([]types.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, types.Field{
			Name:     f.Name,
			Type:     tc.resolveType(f.Type),
			Optional: f.Optional,
		})
	}
	return out
}

// literalTypeOf interns the literal type for a spelled literal. Both
// annotations and expressions go through here so `"up"` in either
// position is the same TypeID: strings lose their quotes, numbers
// normalize so 1 and 1.0 agree.
func (tc *typeChecker) literalTypeOf(kind ast.LitKind, text source.StringID) types.TypeID {
	b := tc.types.Builtins()
	switch kind {
	case ast.LitNumber:
		canon := normalizeNumberText(tc.lookupText(text))
		return tc.types.RegisterLiteral(types.KindNumber, tc.internText(canon))
	case ast.LitString:
		canon := unquoteLiteral(tc.lookupText(text))
		return tc.types.RegisterLiteral(types.KindString, tc.internText(canon))
	case ast.LitTrue:
		return tc.types.BooleanLiteral(true)
	case ast.LitFalse:
		return tc.types.BooleanLiteral(false)
	case ast.LitNull:
		return b.Null
	case ast.LitUndefined:
		return b.Undefined
	default:
		return b.Error
	}
}

func (tc *typeChecker) resolveTypeName(id ast.TypeID, span source.Span, ref *ast.NameType) types.TypeID {
	name := tc.lookupText(ref.Name)
	b := tc.types.Builtins()

	if builtin, ok := tc.builtinNamed(name); ok {
		if name == "Array" {
			if len(ref.Args) != 1 {
				tc.report(diag.SemaWrongTypeArgCount, span,
					"generic type 'Array' requires 1 type argument, got %d", len(ref.Args))
				return b.Error
			}
			return tc.types.Intern(types.MakeArray(tc.resolveType(ref.Args[0])))
		}
		if len(ref.Args) > 0 {
			tc.report(diag.SemaTypeArgsOnNonGeneric, span, "type '%s' is not generic", name)
			return b.Error
		}
		return builtin
	}

	symID := symbols.NoSymbolID
	if tc.symbols != nil {
		symID = tc.symbols.TypeSymbols[id]
	}
	sym := tc.symbolFromID(symID)
	if sym == nil || sym.Kind == symbols.SymbolError {
		// The binder already reported the unknown name.
		return b.Error
	}

	switch sym.Kind {
	case symbols.SymbolTypeParam:
		if len(ref.Args) > 0 {
			tc.report(diag.SemaTypeArgsOnNonGeneric, span, "type parameter '%s' is not generic", name)
			return b.Error
		}
		return tc.ensureTypeParamType(sym)
	case symbols.SymbolTypeAlias, symbols.SymbolInterface:
		ent := tc.ensureTypeEntity(symID, span)
		if ent == nil {
			return b.Error
		}
		return tc.instantiateEntity(name, ent, ref.Args, span)
	case symbols.SymbolImport:
		return tc.importedTypeNamed(symID, sym, name, ref.Args, span)
	default:
		invariantf("type reference bound to %s symbol", sym.Kind)
		return b.Error
	}
}

// builtinNamed maps spelled builtin names to interned types. Array is
// included with a zero id; the caller handles its argument.
func (tc *typeChecker) builtinNamed(name string) (types.TypeID, bool) {
	b := tc.types.Builtins()
	switch name {
	case "number":
		return b.Number, true
	case "string":
		return b.String, true
	case "boolean":
		return b.Boolean, true
	case "any":
		return b.Any, true
	case "unknown":
		return b.Unknown, true
	case "never":
		return b.Never, true
	case "void":
		return b.Void, true
	case "null":
		return b.Null, true
	case "undefined":
		return b.Undefined, true
	case "object":
		return tc.types.RegisterObject(nil), true
	case "Array":
		return types.NoTypeID, true
	default:
		return types.NoTypeID, false
	}
}

func (tc *typeChecker) ensureTypeParamType(sym *symbols.Symbol) types.TypeID {
	if sym.Decl.TypeParam == ast.NoTypeParamID {
		return tc.errType()
	}
	return tc.declareTypeParam(sym.Decl.TypeParam)
}

func (tc *typeChecker) instantiateEntity(name string, ent *typeEntity, args []ast.TypeID, span source.Span) types.TypeID {
	if len(ent.params) == 0 {
		if len(args) > 0 {
			tc.report(diag.SemaTypeArgsOnNonGeneric, span, "type '%s' is not generic", name)
			return tc.errType()
		}
		return ent.typ
	}
	if len(args) != len(ent.params) {
		tc.report(diag.SemaWrongTypeArgCount, span,
			"generic type '%s' requires %d type argument(s), got %d", name, len(ent.params), len(args))
		return tc.errType()
	}
	subst := make(map[types.TypeID]types.TypeID, len(ent.params))
	for i, param := range ent.params {
		subst[param] = tc.resolveType(args[i])
	}
	// Constraints check against the full substitution so bounds may
	// reference sibling parameters.
	for _, param := range ent.params {
		info, ok := tc.types.TypeParamInfo(param)
		if !ok || info.Constraint == types.NoTypeID {
			continue
		}
		arg := subst[param]
		if tc.types.IsError(arg) {
			continue
		}
		bound := tc.types.Substitute(info.Constraint, subst)
		if !tc.assign.Assignable(arg, bound) {
			tc.report(diag.SemaConstraintViolation, span,
				"type '%s' does not satisfy the constraint '%s' of type parameter '%s'",
				tc.typeLabel(arg), tc.typeLabel(bound), tc.lookupText(info.Name))
		}
	}
	return tc.types.Substitute(ent.typ, subst)
}

// resolveIntersection merges `A & B` eagerly: object members merge
// field-wise with earlier members winning name conflicts, any absorbs,
// and mixing primitives collapses to never the way an uninhabited
// intersection should.
func (tc *typeChecker) resolveIntersection(span source.Span, members []ast.TypeID) types.TypeID {
	b := tc.types.Builtins()
	var fields []types.Field
	sawObject := false
	primitive := types.NoTypeID
	for _, m := range members {
		t := tc.resolveType(m)
		tt, ok := tc.types.Lookup(t)
		if !ok {
			continue
		}
		switch tt.Kind {
		case types.KindError:
			return b.Error
		case types.KindAny:
			return b.Any
		case types.KindUnknown:
			// unknown & T = T
			continue
		case types.KindNever:
			return b.Never
		case types.KindObject:
			info, ok := tc.types.ObjectInfo(t)
			if !ok {
				continue
			}
			sawObject = true
			fields = mergeIntersectionFields(fields, info.Fields)
		default:
			if primitive == types.NoTypeID || primitive == t {
				primitive = t
				continue
			}
			// string & number has no inhabitants.
			return b.Never
		}
	}
	switch {
	case sawObject && primitive != types.NoTypeID:
		return b.Never
	case sawObject:
		return tc.types.RegisterObject(fields)
	case primitive != types.NoTypeID:
		return primitive
	default:
		return b.Unknown
	}
}

// mergeIntersectionFields keeps the first occurrence of each name;
// required beats optional when both sides declare the same field.
func mergeIntersectionFields(base, extra []types.Field) []types.Field {
	if len(base) == 0 {
		out := make([]types.Field, len(extra))
		copy(out, extra)
		return out
	}
	seen := make(map[source.StringID]int, len(base))
	for i, f := range base {
		seen[f.Name] = i
	}
	for _, f := range extra {
		if i, ok := seen[f.Name]; ok {
			if base[i].Optional && !f.Optional {
				base[i].Optional = false
			}
			continue
		}
		base = append(base, f)
	}
	return base
}

// unquoteLiteral strips the surrounding quotes the lexer kept on
// string literal spellings.
func unquoteLiteral(text string) string {
	if len(text) >= 2 {
		switch text[0] {
		case '"', '\'':
			if text[len(text)-1] == text[0] {
				return text[1 : len(text)-1]
			}
		}
	}
	return text
}

// normalizeNumberText canonicalizes a numeric spelling so literal
// types compare by value: 1, 1.0 and 1e0 intern identically. Spellings
// the parser let through that fail to parse keep their raw text.
func normalizeNumberText(text string) string {
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	if len(text) > 2 && text[0] == '0' {
		if v, err := strconv.ParseUint(text, 0, 64); err == nil {
			return strconv.FormatUint(v, 10)
		}
	}
	return text
}
