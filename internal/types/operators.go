package types

import "riptide/internal/ast"

// FamilyMask describes broad categories of types an operator accepts.
type FamilyMask uint32

const (
	FamilyNone FamilyMask = 0
	FamilyAny  FamilyMask = 1 << iota
	FamilyNumber
	FamilyString
	FamilyBoolean
	FamilyObjectLike
	FamilyNullish
)

// FamilyOf classifies a type for operator checking. Unions report the
// union of their members' families; literals report their base.
func FamilyOf(in *Interner, id TypeID) FamilyMask {
	tt, ok := in.Lookup(id)
	if !ok {
		return FamilyAny
	}
	switch tt.Kind {
	case KindError, KindAny, KindUnknown, KindNever:
		return FamilyAny
	case KindNumber:
		return FamilyNumber
	case KindString:
		return FamilyString
	case KindBoolean:
		return FamilyBoolean
	case KindNull, KindUndefined, KindVoid:
		return FamilyNullish
	case KindLiteral:
		info, ok := in.LiteralInfo(id)
		if !ok {
			return FamilyAny
		}
		switch info.Base {
		case KindNumber:
			return FamilyNumber
		case KindString:
			return FamilyString
		case KindBoolean:
			return FamilyBoolean
		}
		return FamilyAny
	case KindArray, KindObject, KindFunction:
		return FamilyObjectLike
	case KindUnion:
		var mask FamilyMask
		for _, m := range in.UnionMembers(id) {
			mask |= FamilyOf(in, m)
		}
		return mask
	case KindTypeParam:
		info, ok := in.TypeParamInfo(id)
		if !ok || info.Constraint == NoTypeID {
			return FamilyAny
		}
		return FamilyOf(in, info.Constraint)
	default:
		return FamilyNone
	}
}

// BinaryResult describes how to derive the result type for an
// operator.
type BinaryResult uint8

const (
	BinaryResultUnknown BinaryResult = iota
	// BinaryResultNumber always yields number.
	BinaryResultNumber
	// BinaryResultBoolean always yields boolean.
	BinaryResultBoolean
	// BinaryResultPlus yields string when either side is string-like,
	// number otherwise.
	BinaryResultPlus
	// BinaryResultJoin yields the union of both operand types, for
	// the short-circuit operators. The checker refines `??` by
	// dropping null and undefined from the left side first.
	BinaryResultJoin
)

// BinarySpec lists operand families and expected result for an
// operation.
type BinarySpec struct {
	Left   FamilyMask
	Right  FamilyMask
	Result BinaryResult
}

var binarySpecs = map[ast.BinaryOp]BinarySpec{
	ast.BinAdd: {Left: FamilyNumber | FamilyString, Right: FamilyNumber | FamilyString, Result: BinaryResultPlus},

	ast.BinSub: {Left: FamilyNumber, Right: FamilyNumber, Result: BinaryResultNumber},
	ast.BinMul: {Left: FamilyNumber, Right: FamilyNumber, Result: BinaryResultNumber},
	ast.BinDiv: {Left: FamilyNumber, Right: FamilyNumber, Result: BinaryResultNumber},
	ast.BinMod: {Left: FamilyNumber, Right: FamilyNumber, Result: BinaryResultNumber},
	ast.BinPow: {Left: FamilyNumber, Right: FamilyNumber, Result: BinaryResultNumber},

	ast.BinBitAnd: {Left: FamilyNumber, Right: FamilyNumber, Result: BinaryResultNumber},
	ast.BinBitOr:  {Left: FamilyNumber, Right: FamilyNumber, Result: BinaryResultNumber},
	ast.BinBitXor: {Left: FamilyNumber, Right: FamilyNumber, Result: BinaryResultNumber},
	ast.BinShl:    {Left: FamilyNumber, Right: FamilyNumber, Result: BinaryResultNumber},
	ast.BinShr:    {Left: FamilyNumber, Right: FamilyNumber, Result: BinaryResultNumber},
	ast.BinUShr:   {Left: FamilyNumber, Right: FamilyNumber, Result: BinaryResultNumber},

	// Equality accepts anything; relational order wants matching
	// number/string operands.
	ast.BinEq:          {Left: FamilyAny, Right: FamilyAny, Result: BinaryResultBoolean},
	ast.BinNotEq:       {Left: FamilyAny, Right: FamilyAny, Result: BinaryResultBoolean},
	ast.BinStrictEq:    {Left: FamilyAny, Right: FamilyAny, Result: BinaryResultBoolean},
	ast.BinStrictNotEq: {Left: FamilyAny, Right: FamilyAny, Result: BinaryResultBoolean},
	ast.BinLess:        {Left: FamilyNumber | FamilyString, Right: FamilyNumber | FamilyString, Result: BinaryResultBoolean},
	ast.BinLessEq:      {Left: FamilyNumber | FamilyString, Right: FamilyNumber | FamilyString, Result: BinaryResultBoolean},
	ast.BinGreater:     {Left: FamilyNumber | FamilyString, Right: FamilyNumber | FamilyString, Result: BinaryResultBoolean},
	ast.BinGreaterEq:   {Left: FamilyNumber | FamilyString, Right: FamilyNumber | FamilyString, Result: BinaryResultBoolean},

	ast.BinLogicalAnd: {Left: FamilyAny, Right: FamilyAny, Result: BinaryResultJoin},
	ast.BinLogicalOr:  {Left: FamilyAny, Right: FamilyAny, Result: BinaryResultJoin},
	ast.BinNullish:    {Left: FamilyAny, Right: FamilyAny, Result: BinaryResultJoin},
}

// BinarySpecFor returns the spec for a binary operator.
func BinarySpecFor(op ast.BinaryOp) (BinarySpec, bool) {
	spec, ok := binarySpecs[op]
	return spec, ok
}

// UnaryResult indicates how to derive the resulting type.
type UnaryResult uint8

const (
	UnaryResultUnknown UnaryResult = iota
	UnaryResultNumber
	UnaryResultBoolean
	UnaryResultString
)

// UnarySpec lists the operand family and result for a prefix operator.
type UnarySpec struct {
	Operand FamilyMask
	Result  UnaryResult
}

var unarySpecs = map[ast.UnaryOp]UnarySpec{
	ast.UnaryNeg:    {Operand: FamilyNumber, Result: UnaryResultNumber},
	ast.UnaryPlus:   {Operand: FamilyNumber, Result: UnaryResultNumber},
	ast.UnaryBitNot: {Operand: FamilyNumber, Result: UnaryResultNumber},
	ast.UnaryNot:    {Operand: FamilyAny, Result: UnaryResultBoolean},
	ast.UnaryTypeof: {Operand: FamilyAny, Result: UnaryResultString},
}

// UnarySpecFor returns the spec for a unary operator.
func UnarySpecFor(op ast.UnaryOp) (UnarySpec, bool) {
	spec, ok := unarySpecs[op]
	return spec, ok
}

// FamilyAccepts reports whether an operand family satisfies the mask.
// Operands classified FamilyAny pass every mask, and FamilyAny masks
// accept every operand.
func FamilyAccepts(mask, operand FamilyMask) bool {
	if mask&FamilyAny != 0 || operand&FamilyAny != 0 {
		return true
	}
	return mask&operand != 0
}
