package token

import "strconv"

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident

	// KwDef represents the 'def' keyword.
	KwDef // def
	// KwModel represents the 'model' keyword.
	KwModel // model
	// KwTrait represents the 'trait' keyword.
	KwTrait // trait
	// KwImport represents the 'import' keyword.
	KwImport // import
	// KwFrom represents the 'from' keyword.
	KwFrom // from
	// KwAs represents the 'as' keyword.
	KwAs // as
	// KwConst represents the 'const' keyword.
	KwConst // const
	// KwLet represents the 'let' keyword.
	KwLet // let
	// KwMut represents the 'mut' keyword.
	KwMut // mut
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwElif represents the 'elif' keyword.
	KwElif // elif
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwWhile represents the 'while' keyword.
	KwWhile // while
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwIn represents the 'in' keyword.
	KwIn // in
	// KwBreak represents the 'break' keyword.
	KwBreak // break
	// KwContinue represents the 'continue' keyword.
	KwContinue // continue
	// KwPass represents the 'pass' keyword.
	KwPass // pass
	// KwAnd represents the 'and' keyword.
	KwAnd // and
	// KwOr represents the 'or' keyword.
	KwOr // or
	// KwNot represents the 'not' keyword.
	KwNot // not
	// KwIs represents the 'is' keyword.
	KwIs // is
	// KwSelf represents the 'self' keyword.
	KwSelf // self
	// KwPub represents the 'pub' keyword.
	KwPub // pub

	// IntLit represents an integer literal token.
	IntLit
	// FloatLit represents a float literal token.
	FloatLit
	// BoolLit represents the 'True'/'False' literal token.
	BoolLit
	// NoneLit represents the 'None' literal token.
	NoneLit
	// StringLit represents a plain string literal token.
	StringLit
	// BytesLit represents a byte string literal token.
	BytesLit
	// FStringLit represents an interpolated string literal token.
	FStringLit

	// Plus represents the plus operator token.
	Plus // +
	// Minus represents the minus operator token.
	Minus // -
	// Star represents the star operator token.
	Star // *
	// StarStar represents the power operator token.
	StarStar // **
	// Slash represents the slash operator token.
	Slash // /
	// SlashSlash represents the floor-division operator token.
	SlashSlash // //
	// Percent represents the percent operator token.
	Percent // %
	// Assign represents the assign operator token.
	Assign // =
	// PlusAssign represents the plus assign operator token.
	PlusAssign // +=
	// MinusAssign represents the minus assign operator token.
	MinusAssign // -=
	// StarAssign represents the star assign operator token.
	StarAssign // *=
	// SlashAssign represents the slash assign operator token.
	SlashAssign // /=
	// SlashSlashAssign represents the floor-division assign operator token.
	SlashSlashAssign // //=
	// PercentAssign represents the percent assign operator token.
	PercentAssign // %=
	// EqEq represents the equality operator token.
	EqEq // ==
	// BangEq represents the inequality operator token.
	BangEq // !=
	// Lt represents the less-than operator token.
	Lt // <
	// LtEq represents the less-or-equal operator token.
	LtEq // <=
	// Gt represents the greater-than operator token.
	Gt // >
	// GtEq represents the greater-or-equal operator token.
	GtEq // >=
	// Arrow represents the return-annotation arrow token.
	Arrow // ->
	// Colon represents the colon token.
	Colon // :
	// ColonColon represents the double-colon token.
	ColonColon // ::
	// Comma represents the comma token.
	Comma // ,
	// Dot represents the dot token.
	Dot // .
	// At represents the decorator marker token.
	At // @
	// LParen represents the left parenthesis token.
	LParen // (
	// RParen represents the right parenthesis token.
	RParen // )
	// LBracket represents the left bracket token.
	LBracket // [
	// RBracket represents the right bracket token.
	RBracket // ]
	// LBrace represents the left brace token.
	LBrace // {
	// RBrace represents the right brace token.
	RBrace // }

	// Newline marks the end of a logical line.
	Newline
	// Indent marks the opening of an indented block.
	Indent
	// Dedent marks the closing of an indented block.
	Dedent
)

var kindNames = [...]string{
	Invalid: "Invalid",
	EOF:     "EOF",

	Ident: "Ident",

	KwDef:      "KwDef",
	KwModel:    "KwModel",
	KwTrait:    "KwTrait",
	KwImport:   "KwImport",
	KwFrom:     "KwFrom",
	KwAs:       "KwAs",
	KwConst:    "KwConst",
	KwLet:      "KwLet",
	KwMut:      "KwMut",
	KwReturn:   "KwReturn",
	KwIf:       "KwIf",
	KwElif:     "KwElif",
	KwElse:     "KwElse",
	KwWhile:    "KwWhile",
	KwFor:      "KwFor",
	KwIn:       "KwIn",
	KwBreak:    "KwBreak",
	KwContinue: "KwContinue",
	KwPass:     "KwPass",
	KwAnd:      "KwAnd",
	KwOr:       "KwOr",
	KwNot:      "KwNot",
	KwIs:       "KwIs",
	KwSelf:     "KwSelf",
	KwPub:      "KwPub",

	IntLit:     "IntLit",
	FloatLit:   "FloatLit",
	BoolLit:    "BoolLit",
	NoneLit:    "NoneLit",
	StringLit:  "StringLit",
	BytesLit:   "BytesLit",
	FStringLit: "FStringLit",

	Plus:             "Plus",
	Minus:            "Minus",
	Star:             "Star",
	StarStar:         "StarStar",
	Slash:            "Slash",
	SlashSlash:       "SlashSlash",
	Percent:          "Percent",
	Assign:           "Assign",
	PlusAssign:       "PlusAssign",
	MinusAssign:      "MinusAssign",
	StarAssign:       "StarAssign",
	SlashAssign:      "SlashAssign",
	SlashSlashAssign: "SlashSlashAssign",
	PercentAssign:    "PercentAssign",
	EqEq:             "EqEq",
	BangEq:           "BangEq",
	Lt:               "Lt",
	LtEq:             "LtEq",
	Gt:               "Gt",
	GtEq:             "GtEq",
	Arrow:            "Arrow",
	Colon:            "Colon",
	ColonColon:       "ColonColon",
	Comma:            "Comma",
	Dot:              "Dot",
	At:               "At",
	LParen:           "LParen",
	RParen:           "RParen",
	LBracket:         "LBracket",
	RBracket:         "RBracket",
	LBrace:           "LBrace",
	RBrace:           "RBrace",

	Newline: "Newline",
	Indent:  "Indent",
	Dedent:  "Dedent",
}

// String returns the kind's symbolic name.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}
