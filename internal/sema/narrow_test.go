package sema_test

import (
	"testing"

	"riptide/internal/diag"
)

func TestNarrowTypeofBranches(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		thenWant string
		elseWant string
	}{
		{
			"number test",
			`
function f(v: number | string) {
	if (typeof v === "number") {
		const a = v;
	} else {
		const b = v;
	}
}
`,
			"number", "string",
		},
		{
			"negated test swaps branches",
			`
function f(v: number | string) {
	if (typeof v !== "number") {
		const a = v;
	} else {
		const b = v;
	}
}
`,
			"string", "number",
		},
		{
			"literal on the left",
			`
function f(v: number | string) {
	if ("number" === typeof v) {
		const a = v;
	} else {
		const b = v;
	}
}
`,
			"number", "string",
		},
		{
			"boolean test",
			`
function f(v: string | boolean) {
	if (typeof v === "boolean") {
		const a = v;
	} else {
		const b = v;
	}
}
`,
			"boolean", "string",
		},
		{
			"undefined test",
			`
function f(v: number | undefined) {
	if (typeof v === "undefined") {
		const a = v;
	} else {
		const b = v;
	}
}
`,
			"undefined", "number",
		},
		{
			"object test keeps null",
			`
function f(v: { a: number } | null | string) {
	if (typeof v === "object") {
		const a = v;
	} else {
		const b = v;
	}
}
`,
			"null | { a: number }", "string",
		},
		{
			"function test",
			`
function f(v: (() => void) | number) {
	if (typeof v === "function") {
		const a = v;
	} else {
		const b = v;
	}
}
`,
			"() => void", "number",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, bound, out := checkClean(t, tt.src, false)
			if got := bindingLabel(t, b, &bound, &out, "a"); got != tt.thenWant {
				t.Fatalf("then branch typed %q, want %q", got, tt.thenWant)
			}
			if got := bindingLabel(t, b, &bound, &out, "b"); got != tt.elseWant {
				t.Fatalf("else branch typed %q, want %q", got, tt.elseWant)
			}
		})
	}
}

func TestNarrowTypeofOnAny(t *testing.T) {
	b, bound, out := checkClean(t, `
function f(v: any) {
	if (typeof v === "string") {
		const a = v;
	}
}
`, false)
	if got := bindingLabel(t, b, &bound, &out, "a"); got != "string" {
		t.Fatalf("typeof pinned any to %q, want string", got)
	}
}

func TestNarrowNullEquality(t *testing.T) {
	t.Run("strict not-null", func(t *testing.T) {
		b, bound, out := checkClean(t, `
function g(v: string | null) {
	if (v !== null) {
		const a = v;
	} else {
		const b = v;
	}
}
`, true)
		if got := bindingLabel(t, b, &bound, &out, "a"); got != "string" {
			t.Fatalf("guarded branch typed %q, want string", got)
		}
		if got := bindingLabel(t, b, &bound, &out, "b"); got != "null" {
			t.Fatalf("null branch typed %q, want null", got)
		}
	})
	t.Run("loose null catches undefined", func(t *testing.T) {
		b, bound, out := checkClean(t, `
function g(v: string | null | undefined) {
	if (v != null) {
		const a = v;
	} else {
		const b = v;
	}
}
`, true)
		if got := bindingLabel(t, b, &bound, &out, "a"); got != "string" {
			t.Fatalf("guarded branch typed %q, want string", got)
		}
		if got := bindingLabel(t, b, &bound, &out, "b"); got != "null | undefined" {
			t.Fatalf("nullish branch typed %q, want null | undefined", got)
		}
	})
}

func TestNarrowLiteralEquality(t *testing.T) {
	b, bound, out := checkClean(t, `
function h(v: "a" | "b") {
	if (v === "a") {
		const x = v;
	} else {
		const y = v;
	}
}
`, false)
	if got := bindingLabel(t, b, &bound, &out, "x"); got != `"a"` {
		t.Fatalf("matched branch typed %q, want \"a\"", got)
	}
	if got := bindingLabel(t, b, &bound, &out, "y"); got != `"b"` {
		t.Fatalf("remainder branch typed %q, want \"b\"", got)
	}
}

func TestNarrowTruthiness(t *testing.T) {
	b, bound, out := checkClean(t, `
function f(v: string | null) {
	if (v) {
		const a = v;
	} else {
		const b = v;
	}
}
`, false)
	if got := bindingLabel(t, b, &bound, &out, "a"); got != "string" {
		t.Fatalf("truthy branch typed %q, want string", got)
	}
	// The empty string is falsy too, so string survives the else.
	if got := bindingLabel(t, b, &bound, &out, "b"); got != "null | string" {
		t.Fatalf("falsy branch typed %q, want null | string", got)
	}
}

func TestNarrowGuardAllowsMemberAccess(t *testing.T) {
	b, bound, out := checkClean(t, `
function f(o: { a: number } | null) {
	if (o !== null) {
		const x = o.a;
	}
}
`, true)
	if got := bindingLabel(t, b, &bound, &out, "x"); got != "number" {
		t.Fatalf("guarded member typed %q, want number", got)
	}
}

func TestNarrowRepeatedGuardIsStable(t *testing.T) {
	b, bound, out := checkClean(t, `
function f(v: number | string) {
	if (typeof v === "number") {
		if (typeof v === "number") {
			const a = v;
		} else {
			const dead = v;
		}
	}
}
`, false)
	if got := bindingLabel(t, b, &bound, &out, "a"); got != "number" {
		t.Fatalf("repeated guard typed %q, want number", got)
	}
	// The inner else is unreachable; the checker proves it.
	if got := bindingLabel(t, b, &bound, &out, "dead"); got != "never" {
		t.Fatalf("contradictory branch typed %q, want never", got)
	}
}

func TestNarrowAssignmentDropsFact(t *testing.T) {
	b, bound, out := checkClean(t, `
function f(v: number | string) {
	if (typeof v === "number") {
		v = "s";
		const a = v;
	}
}
`, false)
	if got := bindingLabel(t, b, &bound, &out, "a"); got != "number | string" {
		t.Fatalf("after assignment typed %q, want the declared union", got)
	}
}

func TestNarrowEarlyReturnKeepsComplement(t *testing.T) {
	b, bound, out := checkClean(t, `
function f(v: number | string) {
	if (typeof v === "string") {
		return v.length;
	}
	const a = v;
	return a;
}
`, false)
	if got := bindingLabel(t, b, &bound, &out, "a"); got != "number" {
		t.Fatalf("after early return typed %q, want number", got)
	}
}

func TestNarrowJoinUnionsBranches(t *testing.T) {
	b, bound, out := checkClean(t, `
function f(v: number | string | null) {
	if (typeof v === "number") {
		const a = v;
	} else if (typeof v === "string") {
		const b = v;
	} else {
		const c = v;
	}
	const after = v;
}
`, false)
	if got := bindingLabel(t, b, &bound, &out, "c"); got != "null" {
		t.Fatalf("final else typed %q, want null", got)
	}
	if got := bindingLabel(t, b, &bound, &out, "after"); got != "null | number | string" {
		t.Fatalf("joined type %q, want the declared union", got)
	}
}

func TestNarrowWhileLoop(t *testing.T) {
	b, bound, out := checkClean(t, `
function f(v: number | string) {
	while (typeof v === "number") {
		const a = v;
		v = "s";
	}
	const b = v;
}
`, false)
	if got := bindingLabel(t, b, &bound, &out, "a"); got != "number" {
		t.Fatalf("loop body typed %q, want number", got)
	}
	// The loop only exits once the guard fails.
	if got := bindingLabel(t, b, &bound, &out, "b"); got != "string" {
		t.Fatalf("after loop typed %q, want string", got)
	}
}

func TestNarrowLogicalAnd(t *testing.T) {
	b, bound, out := checkClean(t, `
function f(v: string | null, w: number | null) {
	if (v !== null && w !== null) {
		const a = v;
		const b = w;
	}
}
`, true)
	if got := bindingLabel(t, b, &bound, &out, "a"); got != "string" {
		t.Fatalf("left conjunct typed %q, want string", got)
	}
	if got := bindingLabel(t, b, &bound, &out, "b"); got != "number" {
		t.Fatalf("right conjunct typed %q, want number", got)
	}
}

func TestNarrowLogicalOrElse(t *testing.T) {
	b, bound, out := checkClean(t, `
function f(v: number | string | boolean) {
	if (typeof v === "number" || typeof v === "string") {
		const a = v;
	} else {
		const b = v;
	}
}
`, false)
	// Disjunctions only pin down the negative path.
	if got := bindingLabel(t, b, &bound, &out, "a"); got != "number | string | boolean" {
		t.Fatalf("or-guarded branch typed %q, want the declared union", got)
	}
	if got := bindingLabel(t, b, &bound, &out, "b"); got != "boolean" {
		t.Fatalf("else branch typed %q, want boolean", got)
	}
}

func TestNarrowNegatedGroup(t *testing.T) {
	b, bound, out := checkClean(t, `
function f(v: string | null) {
	if (!(v === null)) {
		const a = v;
	}
}
`, true)
	if got := bindingLabel(t, b, &bound, &out, "a"); got != "string" {
		t.Fatalf("negated guard typed %q, want string", got)
	}
}

func TestNarrowConditionalExprArms(t *testing.T) {
	b, bound, out := checkClean(t, `
function f(v: number | string) {
	const r = typeof v === "number" ? v + 1 : v.length;
	return r;
}
`, false)
	if got := bindingLabel(t, b, &bound, &out, "r"); got != "number" {
		t.Fatalf("conditional arms typed %q, want number", got)
	}
}

func TestNarrowGuardPreventsNullDiagnostics(t *testing.T) {
	src := `
function f(o: { a: number } | null) {
	const x = o.a;
}
`
	_, _, _, bag := checkSrc(t, src, true)
	if !hasCode(bag, diag.SemaNullNotAllowed) {
		t.Fatalf("unguarded access passed strict checking: %+v", bag.Items())
	}
}
