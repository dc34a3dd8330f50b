package types

import "riptide/internal/source"

// Portable is the interner-independent encoding of a type graph. Each
// file is checked with its own interner, so exported types cross file
// boundaries (and the on-disk export cache) in this form and are
// re-interned on the importing side.
//
// Nodes reference each other by 1-based index; 0 means absent. Cycles
// through interfaces are preserved because a node gets its index
// before its children are encoded.

// PortableRef is a 1-based index into PortableSet.Nodes; 0 is absent.
type PortableRef uint32

// PortableField carries one object field or function parameter.
type PortableField struct {
	Name     string      `msgpack:"n"`
	Type     PortableRef `msgpack:"t"`
	Optional bool        `msgpack:"o,omitempty"`
}

// PortableNode is one encoded type.
type PortableNode struct {
	Kind       uint8           `msgpack:"k"`
	Elem       PortableRef     `msgpack:"e,omitempty"`
	Name       string          `msgpack:"x,omitempty"`
	LitBase    uint8           `msgpack:"b,omitempty"`
	Fields     []PortableField `msgpack:"f,omitempty"`
	Params     []PortableField `msgpack:"p,omitempty"`
	Return     PortableRef     `msgpack:"r,omitempty"`
	Members    []PortableRef   `msgpack:"m,omitempty"`
	TypeParams []PortableRef   `msgpack:"g,omitempty"`
	Constraint PortableRef     `msgpack:"c,omitempty"`
}

// PortableSet is a self-contained bundle of types.
type PortableSet struct {
	Nodes []PortableNode `msgpack:"nodes"`
	Roots []PortableRef  `msgpack:"roots"`
}

// ExportPortable encodes the given roots and everything they reach.
func (in *Interner) ExportPortable(roots []TypeID) *PortableSet {
	e := &exporter{in: in, memo: make(map[TypeID]PortableRef)}
	set := &PortableSet{}
	for _, root := range roots {
		set.Roots = append(set.Roots, e.encode(set, root))
	}
	return set
}

type exporter struct {
	in   *Interner
	memo map[TypeID]PortableRef
}

func (e *exporter) encode(set *PortableSet, id TypeID) PortableRef {
	if id == NoTypeID {
		return 0
	}
	if ref, ok := e.memo[id]; ok {
		return ref
	}
	tt, ok := e.in.Lookup(id)
	if !ok {
		return 0
	}

	// Reserve the slot first so recursive references resolve to it.
	set.Nodes = append(set.Nodes, PortableNode{Kind: uint8(tt.Kind)})
	ref := PortableRef(len(set.Nodes))
	e.memo[id] = ref

	node := PortableNode{Kind: uint8(tt.Kind)}
	switch tt.Kind {
	case KindLiteral:
		if info, ok := e.in.LiteralInfo(id); ok {
			node.LitBase = uint8(info.Base)
			node.Name = e.text(info.Text)
		}
	case KindArray:
		node.Elem = e.encode(set, tt.Elem)
	case KindObject:
		if info, ok := e.in.ObjectInfo(id); ok {
			node.Name = e.text(info.Name)
			node.Fields = make([]PortableField, len(info.Fields))
			for i, f := range info.Fields {
				node.Fields[i] = PortableField{
					Name:     e.text(f.Name),
					Type:     e.encode(set, f.Type),
					Optional: f.Optional,
				}
			}
		}
	case KindFunction:
		if info, ok := e.in.FnInfo(id); ok {
			node.Params = make([]PortableField, len(info.Params))
			for i, p := range info.Params {
				node.Params[i] = PortableField{
					Name:     e.text(p.Name),
					Type:     e.encode(set, p.Type),
					Optional: p.Optional,
				}
			}
			node.Return = e.encode(set, info.Return)
			for _, tp := range info.TypeParams {
				node.TypeParams = append(node.TypeParams, e.encode(set, tp))
			}
		}
	case KindUnion:
		for _, m := range e.in.UnionMembers(id) {
			node.Members = append(node.Members, e.encode(set, m))
		}
	case KindTypeParam:
		if info, ok := e.in.TypeParamInfo(id); ok {
			node.Name = e.text(info.Name)
			node.Constraint = e.encode(set, info.Constraint)
		}
	}
	set.Nodes[ref-1] = node
	return ref
}

func (e *exporter) text(id source.StringID) string {
	if e.in.Strings == nil {
		return ""
	}
	s, _ := e.in.Strings.Lookup(id)
	return s
}

// ImportPortable re-interns the set and returns the TypeIDs matching
// set.Roots.
func (in *Interner) ImportPortable(set *PortableSet) []TypeID {
	if set == nil {
		return nil
	}
	im := &importer{in: in, set: set, memo: make(map[PortableRef]TypeID)}
	out := make([]TypeID, len(set.Roots))
	for i, root := range set.Roots {
		out[i] = im.decode(root)
	}
	return out
}

type importer struct {
	in   *Interner
	set  *PortableSet
	memo map[PortableRef]TypeID
}

func (im *importer) decode(ref PortableRef) TypeID {
	if ref == 0 || int(ref) > len(im.set.Nodes) {
		return NoTypeID
	}
	if id, ok := im.memo[ref]; ok {
		return id
	}
	node := &im.set.Nodes[ref-1]
	b := im.in.Builtins()
	switch Kind(node.Kind) {
	case KindError:
		im.memo[ref] = b.Error
		return b.Error
	case KindAny:
		im.memo[ref] = b.Any
		return b.Any
	case KindUnknown:
		im.memo[ref] = b.Unknown
		return b.Unknown
	case KindNever:
		im.memo[ref] = b.Never
		return b.Never
	case KindVoid:
		im.memo[ref] = b.Void
		return b.Void
	case KindNull:
		im.memo[ref] = b.Null
		return b.Null
	case KindUndefined:
		im.memo[ref] = b.Undefined
		return b.Undefined
	case KindNumber:
		im.memo[ref] = b.Number
		return b.Number
	case KindString:
		im.memo[ref] = b.String
		return b.String
	case KindBoolean:
		im.memo[ref] = b.Boolean
		return b.Boolean
	case KindLiteral:
		id := im.in.RegisterLiteral(Kind(node.LitBase), im.in.internString(node.Name))
		im.memo[ref] = id
		return id
	case KindArray:
		elem := im.decode(node.Elem)
		id := im.in.Intern(MakeArray(elem))
		im.memo[ref] = id
		return id
	case KindObject:
		// Slot first, fields after, so recursive interfaces close.
		id := im.in.RegisterNamedObject(im.in.internString(node.Name))
		im.memo[ref] = id
		fields := make([]Field, len(node.Fields))
		for i, f := range node.Fields {
			fields[i] = Field{
				Name:     im.in.internString(f.Name),
				Type:     im.decode(f.Type),
				Optional: f.Optional,
			}
		}
		im.in.SetObjectFields(id, fields)
		return id
	case KindFunction:
		params := make([]FnParam, len(node.Params))
		for i, p := range node.Params {
			params[i] = FnParam{
				Name:     im.in.internString(p.Name),
				Type:     im.decode(p.Type),
				Optional: p.Optional,
			}
		}
		var tps []TypeID
		for _, tp := range node.TypeParams {
			tps = append(tps, im.decode(tp))
		}
		id := im.in.RegisterFn(FnInfo{Params: params, Return: im.decode(node.Return), TypeParams: tps})
		im.memo[ref] = id
		return id
	case KindUnion:
		members := make([]TypeID, len(node.Members))
		for i, m := range node.Members {
			members[i] = im.decode(m)
		}
		id := im.in.MakeUnion(members)
		im.memo[ref] = id
		return id
	case KindTypeParam:
		id := im.in.RegisterTypeParam(im.in.internString(node.Name), NoTypeID)
		im.memo[ref] = id
		if node.Constraint != 0 {
			im.in.SetTypeParamConstraint(id, im.decode(node.Constraint))
		}
		return id
	default:
		im.memo[ref] = b.Error
		return b.Error
	}
}
