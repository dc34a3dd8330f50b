package parser

import (
	"riptide/internal/ast"
	"riptide/internal/token"
)

// Binary precedence, higher binds tighter. Assignment and the
// conditional live above the Pratt core, not in this table.
const (
	precNullish        = 1  // ?? (kept apart from || for clarity in code)
	precLogicalOr      = 1  // ||
	precLogicalAnd     = 2  // &&
	precBitwiseOr      = 3  // |
	precBitwiseXor     = 4  // ^
	precBitwiseAnd     = 5  // &
	precEquality       = 6  // == != === !==
	precComparison     = 7  // < <= > >=
	precShift          = 8  // << >> >>>
	precAdditive       = 9  // + -
	precMultiplicative = 10 // * / %
	precExponent       = 11 // ** (right associative)
)

// binaryPrec returns the precedence and right-associativity for a
// binary operator token, or -1 for everything else.
func binaryPrec(kind token.Kind) (int, bool) {
	switch kind {
	case token.QuestionQuestion:
		return precNullish, false
	case token.OrOr:
		return precLogicalOr, false
	case token.AndAnd:
		return precLogicalAnd, false
	case token.Pipe:
		return precBitwiseOr, false
	case token.Caret:
		return precBitwiseXor, false
	case token.Amp:
		return precBitwiseAnd, false
	case token.EqEq, token.BangEq, token.EqEqEq, token.BangEqEq:
		return precEquality, false
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison, false
	case token.Shl, token.Shr, token.UShr:
		return precShift, false
	case token.Plus, token.Minus:
		return precAdditive, false
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative, false
	case token.StarStar:
		return precExponent, true
	default:
		return -1, false
	}
}

func binaryOpFor(kind token.Kind) ast.BinaryOp {
	switch kind {
	case token.Plus:
		return ast.BinAdd
	case token.Minus:
		return ast.BinSub
	case token.Star:
		return ast.BinMul
	case token.Slash:
		return ast.BinDiv
	case token.Percent:
		return ast.BinMod
	case token.StarStar:
		return ast.BinPow
	case token.Amp:
		return ast.BinBitAnd
	case token.Pipe:
		return ast.BinBitOr
	case token.Caret:
		return ast.BinBitXor
	case token.Shl:
		return ast.BinShl
	case token.Shr:
		return ast.BinShr
	case token.UShr:
		return ast.BinUShr
	case token.AndAnd:
		return ast.BinLogicalAnd
	case token.OrOr:
		return ast.BinLogicalOr
	case token.QuestionQuestion:
		return ast.BinNullish
	case token.EqEq:
		return ast.BinEq
	case token.BangEq:
		return ast.BinNotEq
	case token.EqEqEq:
		return ast.BinStrictEq
	case token.BangEqEq:
		return ast.BinStrictNotEq
	case token.Lt:
		return ast.BinLess
	case token.LtEq:
		return ast.BinLessEq
	case token.Gt:
		return ast.BinGreater
	case token.GtEq:
		return ast.BinGreaterEq
	default:
		return ast.BinAdd
	}
}

func assignOpFor(kind token.Kind) (ast.AssignOp, bool) {
	switch kind {
	case token.Assign:
		return ast.AssignSimple, true
	case token.PlusAssign:
		return ast.AssignAdd, true
	case token.MinusAssign:
		return ast.AssignSub, true
	case token.StarAssign:
		return ast.AssignMul, true
	case token.SlashAssign:
		return ast.AssignDiv, true
	case token.PercentAssign:
		return ast.AssignMod, true
	default:
		return ast.AssignSimple, false
	}
}

func unaryOpFor(kind token.Kind) (ast.UnaryOp, bool) {
	switch kind {
	case token.Minus:
		return ast.UnaryNeg, true
	case token.Plus:
		return ast.UnaryPlus, true
	case token.Bang:
		return ast.UnaryNot, true
	case token.Tilde:
		return ast.UnaryBitNot, true
	case token.KwTypeof:
		return ast.UnaryTypeof, true
	default:
		return ast.UnaryNeg, false
	}
}
