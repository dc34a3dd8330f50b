package diag

import (
	"fmt"
)

// Code is a compact, stable identifier for a diagnostic kind. Ranges are
// partitioned by pipeline phase: 1000s lexer, 2000s parser, 3000s semantic
// (binding below 3100, typing from 3100), 4000s IO, 5000s project/graph,
// 6000s observability, 7000s emitter.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedTemplate     Code = 1005
	LexBadEscape                Code = 1006

	// Syntactic
	SynInfo                   Code = 2000
	SynUnexpectedToken        Code = 2001
	SynExpectIdentifier       Code = 2002
	SynExpectSemicolon        Code = 2003
	SynExpectExpression       Code = 2004
	SynExpectType             Code = 2005
	SynExpectColon            Code = 2006
	SynExpectComma            Code = 2007
	SynUnclosedParen          Code = 2008
	SynUnclosedBrace          Code = 2009
	SynUnclosedBracket        Code = 2010
	SynExpectArrow            Code = 2011
	SynExpectFrom             Code = 2012
	SynExpectModuleSpecifier  Code = 2013
	SynConstWithoutInit       Code = 2014
	SynBadAssignTarget        Code = 2015
	SynExpectPropertyName     Code = 2016
	SynExpectTypeParam        Code = 2017
	SynExpectParameter        Code = 2018
	SynExpectDeclaration      Code = 2019
	SynExpectOf               Code = 2020
	SynBadForHeader           Code = 2021
	SynExpectInterfaceMember  Code = 2022
	SynUnclosedTypeArgs       Code = 2023
	SynExpectVariableName     Code = 2024

	// Semantic: name binding (3000-3099)
	SemaInfo            Code = 3000
	SemaDuplicateDecl   Code = 3001
	SemaUnresolvedName  Code = 3002
	SemaScopeMismatch   Code = 3003
	SemaUseBeforeDecl   Code = 3004
	SemaShadowedDecl    Code = 3005
	SemaAssignToConst   Code = 3006
	SemaUnknownExport   Code = 3007
	SemaDuplicateExport Code = 3008
	SemaUnknownModuleMember Code = 3009
	SemaAssignToImport  Code = 3010
	SemaUnknownTypeName Code = 3011
	SemaTypeUsedAsValue Code = 3012
	SemaValueUsedAsType Code = 3013

	// Semantic: type checking (3100+)
	SemaTypeMismatch         Code = 3100
	SemaUnknownProperty      Code = 3101
	SemaNotCallable          Code = 3102
	SemaWrongArgCount        Code = 3103
	SemaInvalidBinaryOperands Code = 3104
	SemaInvalidUnaryOperand  Code = 3105
	SemaCircularInference    Code = 3106
	SemaConstraintViolation  Code = 3107
	SemaCannotInferTypeArg   Code = 3108
	SemaWrongTypeArgCount    Code = 3110
	SemaNotIndexable         Code = 3111
	SemaImplicitAny          Code = 3112
	SemaNullNotAllowed       Code = 3113
	SemaNotIterable          Code = 3114
	SemaTypeArgsOnNonGeneric Code = 3115

	// IO
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002

	// Project / module graph
	ProjInfo               Code = 5000
	ProjDuplicateModule    Code = 5001
	ProjMissingModule      Code = 5002
	ProjSelfImport         Code = 5003
	ProjDependencyFailed   Code = 5004
	ProjInvalidManifest    Code = 5005
	ProjTooManyDiagnostics Code = 5006

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Emitter
	EmitInfo               Code = 7000
	EmitSkippedOnErrors    Code = 7001
	EmitSkippedSyntaxError Code = 7002
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number literal",
	LexUnterminatedTemplate:     "Unterminated template literal",
	LexBadEscape:                "Invalid escape sequence",

	SynInfo:                  "Syntax information",
	SynUnexpectedToken:       "Unexpected token",
	SynExpectIdentifier:      "Expected identifier",
	SynExpectSemicolon:       "Expected ';'",
	SynExpectExpression:      "Expected expression",
	SynExpectType:            "Expected type",
	SynExpectColon:           "Expected ':'",
	SynExpectComma:           "Expected ','",
	SynUnclosedParen:         "Unclosed '('",
	SynUnclosedBrace:         "Unclosed '{'",
	SynUnclosedBracket:       "Unclosed '['",
	SynExpectArrow:           "Expected '=>'",
	SynExpectFrom:            "Expected 'from'",
	SynExpectModuleSpecifier: "Expected module specifier string",
	SynConstWithoutInit:      "Const declaration requires an initializer",
	SynBadAssignTarget:       "Invalid assignment target",
	SynExpectPropertyName:    "Expected property name",
	SynExpectTypeParam:       "Expected type parameter",
	SynExpectParameter:       "Expected parameter",
	SynExpectDeclaration:     "Expected declaration after 'export'",
	SynExpectOf:              "Expected 'of' in for-of loop",
	SynBadForHeader:          "Malformed for-loop header",
	SynExpectInterfaceMember: "Expected interface member",
	SynUnclosedTypeArgs:      "Unclosed type argument list",
	SynExpectVariableName:    "Expected variable name",

	SemaInfo:                "Semantic information",
	SemaDuplicateDecl:       "Duplicate declaration",
	SemaUnresolvedName:      "Cannot find name",
	SemaScopeMismatch:       "Scope stack mismatch",
	SemaUseBeforeDecl:       "Used before its declaration",
	SemaShadowedDecl:        "Declaration shadows an outer binding",
	SemaAssignToConst:       "Cannot assign to a constant",
	SemaUnknownExport:       "Exported name is not declared",
	SemaDuplicateExport:     "Duplicate export",
	SemaUnknownModuleMember: "Module has no exported member",
	SemaAssignToImport:      "Cannot assign to an import",
	SemaUnknownTypeName:     "Cannot find type name",
	SemaTypeUsedAsValue:     "Type used as a value",
	SemaValueUsedAsType:     "Value used as a type",

	SemaTypeMismatch:          "Type mismatch",
	SemaUnknownProperty:       "Property does not exist",
	SemaNotCallable:           "Expression is not callable",
	SemaWrongArgCount:         "Wrong number of arguments",
	SemaInvalidBinaryOperands: "Invalid operands for binary operator",
	SemaInvalidUnaryOperand:   "Invalid operand for unary operator",
	SemaCircularInference:     "Circular type inference",
	SemaConstraintViolation:   "Type parameter constraint violated",
	SemaCannotInferTypeArg:    "Cannot infer type argument",
	SemaWrongTypeArgCount:     "Wrong number of type arguments",
	SemaNotIndexable:          "Expression is not indexable",
	SemaImplicitAny:           "Parameter implicitly has an 'any' type",
	SemaNullNotAllowed:        "Null or undefined is not assignable here",
	SemaNotIterable:           "Expression is not iterable",
	SemaTypeArgsOnNonGeneric:  "Type arguments on a non-generic",

	IOLoadFileError:  "Cannot read source file",
	IOWriteFileError: "Cannot write output file",

	ProjInfo:               "Project information",
	ProjDuplicateModule:    "Duplicate module definition",
	ProjMissingModule:      "Imported module not found",
	ProjSelfImport:         "Module imports itself",
	ProjDependencyFailed:   "Dependency module has errors",
	ProjInvalidManifest:    "Invalid project manifest",
	ProjTooManyDiagnostics: "Further diagnostics suppressed",

	ObsInfo:    "Observability information",
	ObsTimings: "Pipeline timings",

	EmitInfo:               "Emitter information",
	EmitSkippedOnErrors:    "Emission skipped because of errors",
	EmitSkippedSyntaxError: "Emission skipped for file with syntax errors",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("EMT%04d", ic)
	}
	return "E0000"
}

// Category names the error-taxonomy bucket a code belongs to: "syntax",
// "binding", "type", "io", "project", "observability", or "emit". Lexical
// codes count as syntax.
func (c Code) Category() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 3000:
		return "syntax"
	case ic >= 3000 && ic < 3100:
		return "binding"
	case ic >= 3100 && ic < 4000:
		return "type"
	case ic >= 4000 && ic < 5000:
		return "io"
	case ic >= 5000 && ic < 6000:
		return "project"
	case ic >= 6000 && ic < 7000:
		return "observability"
	case ic >= 7000 && ic < 8000:
		return "emit"
	}
	return "unknown"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
