package token

var keywords = map[string]Kind{
	"def":      KwDef,
	"model":    KwModel,
	"trait":    KwTrait,
	"import":   KwImport,
	"from":     KwFrom,
	"as":       KwAs,
	"const":    KwConst,
	"let":      KwLet,
	"mut":      KwMut,
	"return":   KwReturn,
	"if":       KwIf,
	"elif":     KwElif,
	"else":     KwElse,
	"while":    KwWhile,
	"for":      KwFor,
	"in":       KwIn,
	"break":    KwBreak,
	"continue": KwContinue,
	"pass":     KwPass,
	"and":      KwAnd,
	"or":       KwOr,
	"not":      KwNot,
	"is":       KwIs,
	"self":     KwSelf,
	"pub":      KwPub,
	"True":     BoolLit,
	"False":    BoolLit,
	"None":     NoneLit,
}

// LookupKeyword returns the keyword kind for ident, if it is one.
// Matching is case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
