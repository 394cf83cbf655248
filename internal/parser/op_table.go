package parser

import (
	"incan/internal/ast"
	"incan/internal/token"
)

// Binary operator tiers, loosest first. 'not' sits between and and the
// comparisons as a prefix; '**' is right-associative and handled in
// parsePower.
const (
	precOr         = 1
	precAnd        = 2
	precComparison = 3
	precAdditive   = 4
	precTerm       = 5
)

// binPrec returns the climbing precedence for a binary operator token, or 0
// when the token is not a binary operator at these tiers.
func binPrec(k token.Kind) int {
	switch k {
	case token.KwOr:
		return precOr
	case token.KwAnd:
		return precAnd
	case token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq,
		token.KwIn, token.KwIs, token.KwNot:
		// KwNot only counts when followed by 'in'; checked at the call site.
		return precComparison
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.SlashSlash, token.Percent:
		return precTerm
	}
	return 0
}

// binOpFor maps an operator token to its AST operator.
func binOpFor(k token.Kind) ast.BinOp {
	switch k {
	case token.KwOr:
		return ast.OpOr
	case token.KwAnd:
		return ast.OpAnd
	case token.EqEq:
		return ast.OpEq
	case token.BangEq:
		return ast.OpNotEq
	case token.Lt:
		return ast.OpLt
	case token.LtEq:
		return ast.OpLtEq
	case token.Gt:
		return ast.OpGt
	case token.GtEq:
		return ast.OpGtEq
	case token.KwIn:
		return ast.OpIn
	case token.KwIs:
		return ast.OpIs
	case token.Plus:
		return ast.OpAdd
	case token.Minus:
		return ast.OpSub
	case token.Star:
		return ast.OpMul
	case token.Slash:
		return ast.OpDiv
	case token.SlashSlash:
		return ast.OpFloorDiv
	case token.Percent:
		return ast.OpMod
	}
	return ast.OpAdd
}
