package types

import "riptide/internal/source"

// LiteralInfo stores the shape of a literal type. Base is the
// primitive the literal widens to; Text is the canonical spelling,
// without quotes for strings.
type LiteralInfo struct {
	Base Kind
	Text source.StringID
}

type literalKey struct {
	base Kind
	text source.StringID
}

// RegisterLiteral creates or finds the literal type with the given
// base and canonical text. Number texts should be normalized by the
// caller so 1 and 1.0 intern to the same type.
func (in *Interner) RegisterLiteral(base Kind, text source.StringID) TypeID {
	key := literalKey{base: base, text: text}
	if id, ok := in.literalIndex[key]; ok {
		return id
	}
	slot := in.appendLiteralInfo(LiteralInfo{Base: base, Text: text})
	id := in.internRaw(Type{Kind: KindLiteral, Payload: slot})
	in.literalIndex[key] = id
	return id
}

// LiteralInfo retrieves literal metadata by TypeID.
func (in *Interner) LiteralInfo(id TypeID) (*LiteralInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindLiteral {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.literals) {
		return nil, false
	}
	return &in.literals[tt.Payload], true
}

// LiteralBase returns the primitive a literal type widens to, and
// NoTypeID for non-literal types.
func (in *Interner) LiteralBase(id TypeID) TypeID {
	info, ok := in.LiteralInfo(id)
	if !ok {
		return NoTypeID
	}
	switch info.Base {
	case KindString:
		return in.builtins.String
	case KindNumber:
		return in.builtins.Number
	case KindBoolean:
		return in.builtins.Boolean
	default:
		return NoTypeID
	}
}

// BooleanLiteral returns the literal type for true or false.
func (in *Interner) BooleanLiteral(value bool) TypeID {
	text := "false"
	if value {
		text = "true"
	}
	return in.RegisterLiteral(KindBoolean, in.internString(text))
}

func (in *Interner) internString(s string) source.StringID {
	if in.Strings == nil {
		in.Strings = source.NewInterner()
	}
	return in.Strings.Intern(s)
}

func (in *Interner) appendLiteralInfo(info LiteralInfo) uint32 {
	in.literals = append(in.literals, info)
	return sideTableSlot(len(in.literals))
}
