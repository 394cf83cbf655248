package lexer

import (
	"incan/internal/diag"
	"incan/internal/source"
	"incan/internal/token"
)

// scanNumber handles 0, 123, 0b..., 0o..., 0x..., 1.5, .5, 1e-3, 1.5e+10.
// Underscores are allowed between digits. A dot with no digit after it is an
// error; the token is still produced as Invalid so parsing can continue.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	// Leading dot: ".digits" form, guaranteed by isNumberAfterDot.
	if lx.cursor.Peek() == '.' {
		kind = token.FloatLit
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
		return lx.finishNumber(start, kind)
	}

	// Based literals.
	if lx.cursor.Peek() == '0' {
		lx.cursor.Bump()
		switch lx.cursor.Peek() {
		case 'b', 'B':
			lx.cursor.Bump()
			return lx.scanDigits(start, func(b byte) bool { return b == '0' || b == '1' }, "binary")
		case 'o', 'O':
			lx.cursor.Bump()
			return lx.scanDigits(start, func(b byte) bool { return b >= '0' && b <= '7' }, "octal")
		case 'x', 'X':
			lx.cursor.Bump()
			return lx.scanDigits(start, isHex, "hexadecimal")
		}
	}

	// Decimal integer part.
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}

	// Fractional part. "1." without a digit after the dot is an error, but a
	// dot followed by an identifier stays a method call on the integer.
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && !isIdentStartByte(b1) {
		lx.cursor.Bump()
		if !isDec(lx.cursor.Peek()) {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexBadNumber, sp, "expected digit after '.'")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		kind = token.FloatLit
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	} else if lx.cursor.Peek() == '.' && !ok {
		// Dot at end of input.
		lx.cursor.Bump()
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, "expected digit after '.'")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}

	return lx.finishNumber(start, kind)
}

// finishNumber handles the optional exponent and emits the token.
func (lx *Lexer) finishNumber(start Mark, kind token.Kind) token.Token {
	if lx.cursor.Peek() == 'e' || lx.cursor.Peek() == 'E' {
		// Only an exponent if a digit (or sign and digit) actually follows;
		// otherwise "2em" would swallow the identifier.
		save := lx.cursor.Mark()
		lx.cursor.Bump()
		if lx.cursor.Peek() == '+' || lx.cursor.Peek() == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			lx.cursor.Reset(save)
		} else {
			kind = token.FloatLit
			for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
				lx.cursor.Bump()
			}
		}
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

// scanDigits consumes a based digit run after its 0b/0o/0x prefix.
func (lx *Lexer) scanDigits(start Mark, valid func(byte) bool, base string) token.Token {
	n := 0
	for {
		b := lx.cursor.Peek()
		if valid(b) {
			n++
			lx.cursor.Bump()
		} else if b == '_' {
			lx.cursor.Bump()
		} else {
			break
		}
	}
	sp := lx.cursor.SpanFrom(start)
	if n == 0 {
		lx.errLex(diag.LexBadNumber, sp, "missing digits in "+base+" literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	return token.Token{Kind: token.IntLit, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}
