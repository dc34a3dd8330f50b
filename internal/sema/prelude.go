package sema

import (
	"riptide/internal/types"
)

// preludeType resolves a host global declared by the binder prelude.
// Shapes build lazily and cache per name, so every reference to Math
// in a module shares one identity.
func (tc *typeChecker) preludeType(name string) types.TypeID {
	if t, ok := tc.preludeTypes[name]; ok {
		return t
	}
	t := tc.buildPreludeType(name)
	tc.preludeTypes[name] = t
	return t
}

func (tc *typeChecker) buildPreludeType(name string) types.TypeID {
	b := tc.types.Builtins()
	switch name {
	case "console":
		log := tc.consoleMethod()
		return tc.hostObject("console", []types.Field{
			{Name: tc.internText("log"), Type: log},
			{Name: tc.internText("error"), Type: log},
			{Name: tc.internText("warn"), Type: log},
			{Name: tc.internText("info"), Type: log},
		})
	case "Math":
		return tc.mathObject()
	case "JSON":
		return tc.hostObject("JSON", []types.Field{
			{Name: tc.internText("stringify"), Type: tc.hostFn(
				[]hostParam{{"value", b.Any, false}, {"replacer", b.Any, true}, {"space", b.Any, true}},
				b.String,
			)},
			{Name: tc.internText("parse"), Type: tc.hostFn(
				[]hostParam{{"text", b.String, false}},
				b.Any,
			)},
		})
	case "Array":
		return tc.hostObject("Array", []types.Field{
			{Name: tc.internText("isArray"), Type: tc.hostFn(
				[]hostParam{{"value", b.Any, false}},
				b.Boolean,
			)},
		})
	case "Object":
		return tc.hostObject("Object", []types.Field{
			{Name: tc.internText("keys"), Type: tc.hostFn(
				[]hostParam{{"value", b.Any, false}},
				tc.types.Intern(types.MakeArray(b.String)),
			)},
		})
	case "String":
		return tc.hostFn([]hostParam{{"value", b.Any, true}}, b.String)
	case "Number":
		return tc.hostFn([]hostParam{{"value", b.Any, true}}, b.Number)
	case "Boolean":
		return tc.hostFn([]hostParam{{"value", b.Any, true}}, b.Boolean)
	case "NaN", "Infinity":
		return b.Number
	case "parseInt":
		return tc.hostFn([]hostParam{{"text", b.String, false}, {"radix", b.Number, true}}, b.Number)
	case "parseFloat":
		return tc.hostFn([]hostParam{{"text", b.String, false}}, b.Number)
	case "isNaN", "isFinite":
		return tc.hostFn([]hostParam{{"value", b.Number, false}}, b.Boolean)
	case "globalThis":
		return b.Any
	default:
		// A prelude entry the checker has no shape for stays permissive.
		return b.Any
	}
}

func (tc *typeChecker) mathObject() types.TypeID {
	b := tc.types.Builtins()
	unary := tc.hostFn([]hostParam{{"value", b.Number, false}}, b.Number)
	// No rest parameters in the dialect; min/max accept up to four
	// operands through optional slots.
	spread := tc.hostFn([]hostParam{
		{"a", b.Number, true},
		{"b", b.Number, true},
		{"c", b.Number, true},
		{"d", b.Number, true},
	}, b.Number)
	return tc.hostObject("Math", []types.Field{
		{Name: tc.internText("floor"), Type: unary},
		{Name: tc.internText("ceil"), Type: unary},
		{Name: tc.internText("round"), Type: unary},
		{Name: tc.internText("trunc"), Type: unary},
		{Name: tc.internText("abs"), Type: unary},
		{Name: tc.internText("sqrt"), Type: unary},
		{Name: tc.internText("max"), Type: spread},
		{Name: tc.internText("min"), Type: spread},
		{Name: tc.internText("pow"), Type: tc.hostFn(
			[]hostParam{{"base", b.Number, false}, {"exponent", b.Number, false}},
			b.Number,
		)},
		{Name: tc.internText("random"), Type: tc.hostFn(nil, b.Number)},
		{Name: tc.internText("PI"), Type: b.Number},
		{Name: tc.internText("E"), Type: b.Number},
	})
}

func (tc *typeChecker) consoleMethod() types.TypeID {
	b := tc.types.Builtins()
	return tc.hostFn([]hostParam{
		{"message", b.Any, true},
		{"a", b.Any, true},
		{"b", b.Any, true},
		{"c", b.Any, true},
	}, b.Void)
}

type hostParam struct {
	name     string
	typ      types.TypeID
	optional bool
}

func (tc *typeChecker) hostFn(params []hostParam, ret types.TypeID) types.TypeID {
	fnParams := make([]types.FnParam, len(params))
	for i, p := range params {
		fnParams[i] = types.FnParam{Name: tc.internText(p.name), Type: p.typ, Optional: p.optional}
	}
	return tc.types.RegisterFn(types.FnInfo{Params: fnParams, Return: ret})
}

func (tc *typeChecker) hostObject(name string, fields []types.Field) types.TypeID {
	id := tc.types.RegisterNamedObject(tc.internText(name))
	tc.types.SetObjectFields(id, fields)
	return id
}
