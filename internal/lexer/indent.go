package lexer

import (
	"fmt"

	"incan/internal/diag"
	"incan/internal/token"
)

// scanLineStart measures the indentation of the line under the cursor and
// queues Indent/Dedent tokens against the indent stack. Blank lines and
// comment-only lines carry no layout and are skipped entirely.
func (lx *Lexer) scanLineStart() {
	start := lx.cursor.Mark()
	width, mixed := lx.measureIndent()

	// Blank or comment-only line: consume it without touching the stack.
	if lx.cursor.EOF() {
		lx.atLineStart = true
		lx.queueEOF()
		return
	}
	ch := lx.cursor.Peek()
	if ch == '\n' || ch == '#' {
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		lx.cursor.Eat('\n')
		return
	}

	lx.atLineStart = false
	sp := lx.cursor.SpanFrom(start)

	if mixed {
		lx.errLex(diag.LexMixedIndent, sp, "indentation mixes tabs and spaces")
		// Recover at the current level so one bad line does not cascade.
		return
	}

	top := uint32(0)
	if len(lx.indents) > 0 {
		top = lx.indents[len(lx.indents)-1]
	}

	switch {
	case width > top:
		lx.indents = append(lx.indents, width)
		lx.pending = append(lx.pending, token.Token{Kind: token.Indent, Span: sp})
	case width < top:
		for len(lx.indents) > 0 && lx.indents[len(lx.indents)-1] > width {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.pending = append(lx.pending, token.Token{Kind: token.Dedent, Span: sp})
		}
		rest := uint32(0)
		if len(lx.indents) > 0 {
			rest = lx.indents[len(lx.indents)-1]
		}
		if rest != width {
			lx.errLex(diag.LexBadDedent, sp,
				fmt.Sprintf("dedent to column %d does not match any enclosing block", width+1))
			// Recover by treating the line as being at the nearest level.
		}
	}
}

// measureIndent consumes the leading whitespace of a line and returns its
// width in units. A file commits to spaces or tabs on the first indented
// line; any later use of the other unit in indentation is reported once per
// offending line.
func (lx *Lexer) measureIndent() (width uint32, mixed bool) {
	var seen [2]bool // [0] spaces, [1] tabs
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ':
			seen[0] = true
			width++
			lx.cursor.Bump()
		case '\t':
			seen[1] = true
			width++
			lx.cursor.Bump()
		default:
			goto done
		}
	}
done:
	if width == 0 {
		return 0, false
	}
	if seen[0] && seen[1] {
		return width, true
	}
	unit := byte(' ')
	if seen[1] {
		unit = '\t'
	}
	if lx.indentByte == 0 {
		lx.indentByte = unit
		return width, false
	}
	return width, unit != lx.indentByte
}

// IndentDepth returns the current block nesting depth. Exposed for tests.
func (lx *Lexer) IndentDepth() int {
	return len(lx.indents)
}

// BalancedLayout reports whether a token stream carries as many dedents as
// indents. Useful as a sanity check over Tokenize output.
func BalancedLayout(toks []token.Token) bool {
	indents := 0
	dedents := 0
	for _, t := range toks {
		switch t.Kind {
		case token.Indent:
			indents++
		case token.Dedent:
			dedents++
		}
	}
	return indents == dedents
}
