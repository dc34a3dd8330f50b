package types

import (
	"testing"

	"riptide/internal/ast"
)

func TestFamilyOf(t *testing.T) {
	in := newTestInterner()
	b := in.Builtins()
	str := in.Strings

	tests := []struct {
		name string
		id   TypeID
		want FamilyMask
	}{
		{"number", b.Number, FamilyNumber},
		{"string literal", in.RegisterLiteral(KindString, str.Intern("a")), FamilyString},
		{"boolean", b.Boolean, FamilyBoolean},
		{"null", b.Null, FamilyNullish},
		{"any", b.Any, FamilyAny},
		{"error", b.Error, FamilyAny},
		{"array", in.Intern(MakeArray(b.Number)), FamilyObjectLike},
		{"union", in.MakeUnion([]TypeID{b.Number, b.String}), FamilyNumber | FamilyString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FamilyOf(in, tt.id); got != tt.want {
				t.Fatalf("FamilyOf = %b, want %b", got, tt.want)
			}
		})
	}
}

func TestBinarySpecs(t *testing.T) {
	spec, ok := BinarySpecFor(ast.BinAdd)
	if !ok {
		t.Fatal("no spec for +")
	}
	if spec.Result != BinaryResultPlus {
		t.Fatalf("+ result = %v", spec.Result)
	}
	if !FamilyAccepts(spec.Left, FamilyString) || !FamilyAccepts(spec.Left, FamilyNumber) {
		t.Fatal("+ rejects string or number")
	}
	if FamilyAccepts(spec.Left, FamilyBoolean) {
		t.Fatal("+ accepts boolean")
	}

	sub, ok := BinarySpecFor(ast.BinSub)
	if !ok || sub.Result != BinaryResultNumber {
		t.Fatalf("- spec = %+v, ok=%v", sub, ok)
	}
	if FamilyAccepts(sub.Left, FamilyString) {
		t.Fatal("- accepts string")
	}

	eq, ok := BinarySpecFor(ast.BinStrictEq)
	if !ok || eq.Result != BinaryResultBoolean {
		t.Fatalf("=== spec = %+v, ok=%v", eq, ok)
	}
	if !FamilyAccepts(eq.Left, FamilyObjectLike) {
		t.Fatal("=== rejects objects")
	}

	nullish, ok := BinarySpecFor(ast.BinNullish)
	if !ok || nullish.Result != BinaryResultJoin {
		t.Fatalf("?? spec = %+v, ok=%v", nullish, ok)
	}

	for op := ast.BinAdd; op <= ast.BinGreaterEq; op++ {
		if _, ok := BinarySpecFor(op); !ok {
			t.Errorf("no spec for operator %s", op)
		}
	}
}

func TestUnarySpecs(t *testing.T) {
	neg, ok := UnarySpecFor(ast.UnaryNeg)
	if !ok || neg.Result != UnaryResultNumber {
		t.Fatalf("- spec = %+v, ok=%v", neg, ok)
	}
	if FamilyAccepts(neg.Operand, FamilyString) {
		t.Fatal("unary - accepts string")
	}

	not, ok := UnarySpecFor(ast.UnaryNot)
	if !ok || not.Result != UnaryResultBoolean {
		t.Fatalf("! spec = %+v, ok=%v", not, ok)
	}

	tf, ok := UnarySpecFor(ast.UnaryTypeof)
	if !ok || tf.Result != UnaryResultString {
		t.Fatalf("typeof spec = %+v, ok=%v", tf, ok)
	}
}
