package types

import (
	"strconv"
	"strings"

	"riptide/internal/source"
)

// Label returns the user-facing rendering of a type, in source syntax.
func Label(typesIn *Interner, id TypeID) string {
	return labelDepth(typesIn, id, 0)
}

func labelDepth(typesIn *Interner, id TypeID, depth int) string {
	if typesIn == nil || id == NoTypeID {
		return "?"
	}
	if depth > 6 {
		return "..."
	}
	tt, ok := typesIn.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindError:
		return "error"
	case KindAny:
		return "any"
	case KindUnknown:
		return "unknown"
	case KindNever:
		return "never"
	case KindVoid:
		return "void"
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindLiteral:
		return formatLiteralType(typesIn, id)
	case KindArray:
		elem := labelDepth(typesIn, tt.Elem, depth+1)
		if typesIn.Kind(tt.Elem) == KindUnion {
			return "(" + elem + ")[]"
		}
		return elem + "[]"
	case KindObject:
		return formatObjectType(typesIn, id, depth)
	case KindFunction:
		return formatFnType(typesIn, id, depth)
	case KindUnion:
		members := typesIn.UnionMembers(id)
		parts := make([]string, len(members))
		for i, m := range members {
			parts[i] = labelDepth(typesIn, m, depth+1)
		}
		return strings.Join(parts, " | ")
	case KindTypeParam:
		if info, ok := typesIn.TypeParamInfo(id); ok {
			if name, ok := lookupName(typesIn.Strings, info.Name); ok {
				return name
			}
		}
		return "T"
	default:
		return "?"
	}
}

func formatLiteralType(typesIn *Interner, id TypeID) string {
	info, ok := typesIn.LiteralInfo(id)
	if !ok {
		return "?"
	}
	text := lookupNameFallback(typesIn.Strings, info.Text)
	if info.Base == KindString {
		return "\"" + text + "\""
	}
	return text
}

func formatObjectType(typesIn *Interner, id TypeID, depth int) string {
	info, ok := typesIn.ObjectInfo(id)
	if !ok {
		return "?"
	}
	if name, ok := lookupName(typesIn.Strings, info.Name); ok {
		return name
	}
	if len(info.Fields) == 0 {
		return "{}"
	}
	parts := make([]string, len(info.Fields))
	for i, f := range info.Fields {
		name := lookupNameFallback(typesIn.Strings, f.Name)
		opt := ""
		if f.Optional {
			opt = "?"
		}
		parts[i] = name + opt + ": " + labelDepth(typesIn, f.Type, depth+1)
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

func formatFnType(typesIn *Interner, id TypeID, depth int) string {
	info, ok := typesIn.FnInfo(id)
	if !ok {
		return "?"
	}
	var b strings.Builder
	if len(info.TypeParams) > 0 {
		b.WriteByte('<')
		for i, tp := range info.TypeParams {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(labelDepth(typesIn, tp, depth+1))
		}
		b.WriteByte('>')
	}
	b.WriteByte('(')
	for i, p := range info.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		name, ok := lookupName(typesIn.Strings, p.Name)
		if !ok {
			name = "arg" + strconv.Itoa(i)
		}
		b.WriteString(name)
		if p.Optional {
			b.WriteByte('?')
		}
		b.WriteString(": ")
		b.WriteString(labelDepth(typesIn, p.Type, depth+1))
	}
	b.WriteString(") => ")
	b.WriteString(labelDepth(typesIn, info.Return, depth+1))
	return b.String()
}

func lookupName(stringsIn *source.Interner, id source.StringID) (string, bool) {
	if stringsIn == nil || id == source.NoStringID {
		return "", false
	}
	name, ok := stringsIn.Lookup(id)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

func lookupNameFallback(stringsIn *source.Interner, id source.StringID) string {
	if name, ok := lookupName(stringsIn, id); ok {
		return name
	}
	return "?"
}

