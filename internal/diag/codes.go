package diag

import (
	"fmt"
)

// Code identifies a diagnostic kind. Ranges are partitioned per pipeline
// stage so a code alone tells which stage produced it.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical (1000-1999)
	LexUnknownChar         Code = 1001
	LexUnterminatedString  Code = 1002
	LexBadNumber           Code = 1003
	LexBadEscape           Code = 1004
	LexMixedIndent         Code = 1005
	LexBadDedent           Code = 1006
	LexEmptyFStringExpr    Code = 1007
	LexUnterminatedFString Code = 1008

	// Syntax (2000-2999)
	SynUnexpectedToken   Code = 2001
	SynExpectIdentifier  Code = 2002
	SynExpectColon       Code = 2003
	SynExpectNewline     Code = 2004
	SynExpectIndent      Code = 2005
	SynExpectType        Code = 2006
	SynExpectExpression  Code = 2007
	SynUnexpectedIndent  Code = 2008
	SynUnexpectedTop     Code = 2009
	SynUnclosedDelimiter Code = 2010
	SynBadDecorator      Code = 2011
	SynUnmatchedBrace    Code = 2012
	SynDuplicateField    Code = 2013
	SynDuplicateParam    Code = 2014

	// Semantic (3000-3999)
	SemaUnresolvedName     Code = 3001
	SemaDuplicateSymbol    Code = 3002
	SemaTypeMismatch       Code = 3003
	SemaNotCallable        Code = 3004
	SemaArgCount           Code = 3005
	SemaNoCapability       Code = 3006
	SemaBadTruthContext    Code = 3007
	SemaNotIterable        Code = 3008
	SemaNotIndexable       Code = 3009
	SemaConstIndexRange    Code = 3010
	SemaConstSliceStep     Code = 3011
	SemaUnknownType        Code = 3012
	SemaUnknownField       Code = 3013
	SemaMissingReturn      Code = 3014
	SemaConstNotConstant   Code = 3015
	SemaDivisionByZero     Code = 3016
	SemaMembershipMismatch Code = 3017
	SemaAssignImmutable    Code = 3018
	SemaBreakOutsideLoop   Code = 3019
	SemaSelfOutsideMethod  Code = 3020
	SemaNotAssignable      Code = 3021
	SemaConstOverflow      Code = 3022

	// Lowering (4000-4999)
	LowUnknownDerive      Code = 4001
	LowDeriveConflict     Code = 4002
	LowHookSignature      Code = 4003
	LowUnresolvedHook     Code = 4004
	LowUnsupportedDeco    Code = 4005
	LowDeriveNotOnModel   Code = 4006
	LowDuplicateDerive    Code = 4007
	LowImmutableContainer Code = 4008

	// Emission / build (5000-5999)
	EmitUnknownCrate Code = 5001
	EmitBuildFailed  Code = 5002
	EmitWriteFailed  Code = 5003

	// I/O (6000-6999)
	IOLoadFileError Code = 6001

	// Project (7000-7999)
	ProjDuplicateModule Code = 7001
	ProjMissingModule   Code = 7002
	ProjImportCycle     Code = 7003
	ProjSelfImport      Code = 7004
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	LexUnknownChar:         "Unknown character",
	LexUnterminatedString:  "Unterminated string",
	LexBadNumber:           "Bad numeric literal",
	LexBadEscape:           "Invalid escape sequence",
	LexMixedIndent:         "Mixed tabs and spaces in indentation",
	LexBadDedent:           "Dedent does not match any outer indentation level",
	LexEmptyFStringExpr:    "Empty expression in f-string",
	LexUnterminatedFString: "Unterminated f-string",
	SynUnexpectedToken:     "Unexpected token",
	SynExpectIdentifier:    "Expected identifier",
	SynExpectColon:         "Expected ':'",
	SynExpectNewline:       "Expected end of line",
	SynExpectIndent:        "Expected indented block",
	SynExpectType:          "Expected type",
	SynExpectExpression:    "Expected expression",
	SynUnexpectedIndent:    "Unexpected indentation",
	SynUnexpectedTop:       "Unexpected top-level construct",
	SynUnclosedDelimiter:   "Unclosed delimiter",
	SynBadDecorator:        "Malformed decorator",
	SynUnmatchedBrace:      "Unmatched brace in f-string",
	SynDuplicateField:      "Duplicate field",
	SynDuplicateParam:      "Duplicate parameter",
	SemaUnresolvedName:     "Unresolved name",
	SemaDuplicateSymbol:    "Duplicate symbol",
	SemaTypeMismatch:       "Type mismatch",
	SemaNotCallable:        "Value is not callable",
	SemaArgCount:           "Wrong number of arguments",
	SemaNoCapability:       "Type lacks required capability",
	SemaBadTruthContext:    "Type cannot be used in a boolean context",
	SemaNotIterable:        "Type is not iterable",
	SemaNotIndexable:       "Type is not indexable",
	SemaConstIndexRange:    "Constant index out of range",
	SemaConstSliceStep:     "Constant slice step is zero",
	SemaUnknownType:        "Unknown type",
	SemaUnknownField:       "Unknown field",
	SemaMissingReturn:      "Missing return in function",
	SemaConstNotConstant:   "Const initializer is not constant",
	SemaDivisionByZero:     "Division by zero in constant expression",
	SemaMembershipMismatch: "Invalid operand types for 'in'",
	SemaAssignImmutable:    "Assignment to immutable binding",
	SemaBreakOutsideLoop:   "Loop control statement outside loop",
	SemaSelfOutsideMethod:  "'self' used outside a method",
	SemaNotAssignable:      "Expression is not assignable",
	SemaConstOverflow:      "Constant arithmetic overflow",
	LowUnknownDerive:       "Unknown derive capability",
	LowDeriveConflict:      "Derive conflicts with manual implementation",
	LowHookSignature:       "Protocol hook signature mismatch",
	LowUnresolvedHook:      "Protocol hook has no resolved obligation",
	LowUnsupportedDeco:     "Unsupported decorator",
	LowDeriveNotOnModel:    "Derive is only valid on model declarations",
	LowDuplicateDerive:     "Capability derived more than once",
	LowImmutableContainer:  "Container does not support element assignment",
	EmitUnknownCrate:       "Native crate not in curated registry",
	EmitBuildFailed:        "External build tool failed",
	EmitWriteFailed:        "Failed to write generated output",
	IOLoadFileError:        "I/O load file error",
	ProjDuplicateModule:    "Duplicate module definition",
	ProjMissingModule:      "Missing module",
	ProjImportCycle:        "Import cycle detected",
	ProjSelfImport:         "Module imports itself",
}

// ID returns the stable textual identifier, e.g. "SYN2001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("EMT%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

// Title returns the short human description of the code.
func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
