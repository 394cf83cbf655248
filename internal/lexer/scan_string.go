package lexer

import (
	"incan/internal/diag"
	"incan/internal/token"
)

// scanString scans the three literal families sharing one escape syntax:
// "..." text, b"..." bytes, f"..." interpolated text. prefix is 0, 'b' or
// 'f'. The token text is the raw source slice including prefix and quotes;
// decoding happens later through DecodeEscapes and SplitFString.
func (lx *Lexer) scanString(prefix byte) token.Token {
	start := lx.cursor.Mark()
	kind := token.StringLit
	unterminated := diag.LexUnterminatedString
	what := "string literal"
	switch prefix {
	case 'b':
		kind = token.BytesLit
		lx.cursor.Bump()
		what = "bytes literal"
	case 'f':
		kind = token.FStringLit
		lx.cursor.Bump()
		unterminated = diag.LexUnterminatedFString
		what = "f-string"
	}
	lx.cursor.Bump() // opening '"'

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case '"':
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
		case '\\':
			lx.checkEscape(prefix == 'b')
		case '{':
			if prefix != 'f' {
				lx.cursor.Bump()
				continue
			}
			braceStart := lx.cursor.Mark()
			lx.cursor.Bump()
			switch lx.cursor.Peek() {
			case '{':
				lx.cursor.Bump() // literal brace
			case '}':
				lx.cursor.Bump()
				lx.errLex(diag.LexEmptyFStringExpr, lx.cursor.SpanFrom(braceStart),
					"f-string expression must not be empty")
			}
		case '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(unterminated, sp, "newline in "+what)
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		default:
			lx.cursor.Bump()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	lx.errLex(unterminated, sp, "unterminated "+what)
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// checkEscape validates one escape sequence in place, consuming it. Invalid
// escapes are reported with their exact span; scanning continues so one bad
// escape does not lose the rest of the literal.
func (lx *Lexer) checkEscape(bytesLit bool) {
	escStart := lx.cursor.Mark()
	lx.cursor.Bump() // backslash
	if lx.cursor.EOF() {
		return // unterminated literal is reported by the caller
	}
	switch b := lx.cursor.Bump(); b {
	case 'n', 't', 'r', '0', '\\', '"', '\'':
		// simple escapes, shared by all families
	case 'x':
		for range 2 {
			if !isHex(lx.cursor.Peek()) {
				sp := lx.cursor.SpanFrom(escStart)
				lx.errLex(diag.LexBadEscape, sp, "'\\x' escape needs two hex digits")
				return
			}
			lx.cursor.Bump()
		}
	case 'u':
		if bytesLit {
			sp := lx.cursor.SpanFrom(escStart)
			lx.errLex(diag.LexBadEscape, sp, "'\\u' escape is not allowed in bytes literals")
			return
		}
		if !lx.cursor.Eat('{') {
			sp := lx.cursor.SpanFrom(escStart)
			lx.errLex(diag.LexBadEscape, sp, "'\\u' escape needs '{...}' with hex digits")
			return
		}
		n := 0
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			n++
		}
		if n == 0 || n > 6 || !lx.cursor.Eat('}') {
			sp := lx.cursor.SpanFrom(escStart)
			lx.errLex(diag.LexBadEscape, sp, "'\\u' escape needs 1 to 6 hex digits in braces")
		}
	case '{', '}':
		// Allowed in f-strings to produce literal braces; harmless elsewhere.
	default:
		sp := lx.cursor.SpanFrom(escStart)
		lx.errLex(diag.LexBadEscape, sp, "unknown escape sequence")
	}
}
