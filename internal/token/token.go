package token

import (
	"incan/internal/source"
)

// Token represents a single source token with its location.
// Tokens are immutable once produced; Text is the raw source slice.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a numeric, boolean, None, or string
// literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, BoolLit, NoneLit, StringLit, BytesLit, FStringLit:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwDef, KwModel, KwTrait, KwImport, KwFrom, KwAs, KwConst, KwLet, KwMut,
		KwReturn, KwIf, KwElif, KwElse, KwWhile, KwFor, KwIn, KwBreak, KwContinue,
		KwPass, KwAnd, KwOr, KwNot, KwIs, KwSelf, KwPub:
		return true
	default:
		return false
	}
}

// IsLayout reports whether the token is a synthetic layout token.
func (t Token) IsLayout() bool {
	switch t.Kind {
	case Newline, Indent, Dedent:
		return true
	default:
		return false
	}
}
