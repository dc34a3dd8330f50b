// Package types defines the checked type model and the relations the
// checker runs on it: interning, assignability, widening, union
// algebra and substitution.
//
// Types are immutable descriptors referenced by TypeID. Composite
// kinds keep their variable-size payloads in side tables indexed by
// the descriptor's Payload slot, so the descriptor itself stays
// comparable and cheap to copy.
package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindError is the containment type produced where checking
	// already failed. It is assignable in both directions so one
	// mistake reports once instead of cascading.
	KindError
	KindAny
	KindUnknown
	KindNever
	KindVoid
	KindNull
	KindUndefined
	KindNumber
	KindString
	KindBoolean
	// KindLiteral is a literal type: "up", 42, true.
	KindLiteral
	KindArray
	KindObject
	KindFunction
	KindUnion
	// KindTypeParam is a generic parameter bound by a declaration.
	KindTypeParam
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
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
		return "literal"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindFunction:
		return "function"
	case KindUnion:
		return "union"
	case KindTypeParam:
		return "type-param"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any supported type. Elem is set for
// arrays; Payload indexes the side table matching Kind for literals,
// objects, functions, unions and type parameters.
type Type struct {
	Kind    Kind
	Elem    TypeID
	Payload uint32
}

// MakeArray describes T[].
func MakeArray(elem TypeID) Type {
	return Type{Kind: KindArray, Elem: elem}
}

// IsPrimitive reports whether the kind needs no side table.
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindAny, KindUnknown, KindNever, KindVoid, KindNull,
		KindUndefined, KindNumber, KindString, KindBoolean, KindError:
		return true
	default:
		return false
	}
}
