package lexer

import (
	"fmt"

	"incan/internal/diag"
	"incan/internal/token"
)

// Greedy matching: 3-byte sequences first, then 2-byte, then single bytes.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: k, Span: sp, Text: lx.text(sp)}
	}

	switch {
	case lx.try3('/', '/', '='):
		return emit(token.SlashSlashAssign)
	case lx.try2('*', '*'):
		return emit(token.StarStar)
	case lx.try2('/', '/'):
		return emit(token.SlashSlash)
	case lx.try2('=', '='):
		return emit(token.EqEq)
	case lx.try2('!', '='):
		return emit(token.BangEq)
	case lx.try2('<', '='):
		return emit(token.LtEq)
	case lx.try2('>', '='):
		return emit(token.GtEq)
	case lx.try2('-', '>'):
		return emit(token.Arrow)
	case lx.try2(':', ':'):
		return emit(token.ColonColon)
	case lx.try2('+', '='):
		return emit(token.PlusAssign)
	case lx.try2('-', '='):
		return emit(token.MinusAssign)
	case lx.try2('*', '='):
		return emit(token.StarAssign)
	case lx.try2('/', '='):
		return emit(token.SlashAssign)
	case lx.try2('%', '='):
		return emit(token.PercentAssign)
	}

	ch := lx.cursor.Bump()
	switch ch {
	case '+':
		return emit(token.Plus)
	case '-':
		return emit(token.Minus)
	case '*':
		return emit(token.Star)
	case '/':
		return emit(token.Slash)
	case '%':
		return emit(token.Percent)
	case '=':
		return emit(token.Assign)
	case '<':
		return emit(token.Lt)
	case '>':
		return emit(token.Gt)
	case ':':
		return emit(token.Colon)
	case ',':
		return emit(token.Comma)
	case '.':
		return emit(token.Dot)
	case '@':
		return emit(token.At)
	case '(':
		lx.parenDepth++
		return emit(token.LParen)
	case ')':
		lx.closeBracket()
		return emit(token.RParen)
	case '[':
		lx.parenDepth++
		return emit(token.LBracket)
	case ']':
		lx.closeBracket()
		return emit(token.RBracket)
	case '{':
		lx.parenDepth++
		return emit(token.LBrace)
	case '}':
		lx.closeBracket()
		return emit(token.RBrace)
	}

	if ch >= utf8RuneSelf {
		// Consume the whole rune so one stray Unicode char is one error.
		lx.cursor.Reset(start)
		lx.bumpRune()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, fmt.Sprintf("unknown character %q", lx.text(sp)))
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) closeBracket() {
	if lx.parenDepth > 0 {
		lx.parenDepth--
	}
}
