package lexer

import (
	"incan/internal/source"
	"incan/internal/token"
)

// Lexer produces the token stream for one file, including the synthetic
// Newline, Indent and Dedent tokens derived from line layout.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options

	look    *token.Token  // 1-token lookahead buffer
	pending []token.Token // queued layout tokens (dedents come in runs)

	indents     []uint32 // indentation widths, stack; implicit 0 at the bottom
	indentByte  byte     // ' ' or '\t' once the file commits to a unit, 0 before
	parenDepth  int      // ( [ { nesting; layout is suppressed inside brackets
	atLineStart bool
	eofEmitted  bool

	// ranged disables layout handling entirely. Used when re-lexing an
	// expression fragment inside an f-string literal.
	ranged bool
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:        file,
		cursor:      NewCursor(file),
		opts:        opts,
		atLineStart: true,
	}
}

// NewRanged creates a lexer over the byte range [start, limit) of file.
// Layout tokens are never produced in this mode.
func NewRanged(file *source.File, start, limit uint32, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewRangedCursor(file, start, limit),
		opts:   opts,
		ranged: true,
	}
}

// Next returns the next token. After the final EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	for {
		if len(lx.pending) > 0 {
			tok := lx.pending[0]
			lx.pending = lx.pending[1:]
			return tok
		}

		if lx.ranged {
			lx.skipInlineTrivia()
			if lx.cursor.EOF() {
				return lx.eofToken()
			}
			return lx.scanToken()
		}

		if lx.atLineStart && lx.parenDepth == 0 {
			lx.scanLineStart()
			continue
		}

		lx.skipInlineTrivia()

		if lx.cursor.EOF() {
			lx.queueEOF()
			continue
		}

		ch := lx.cursor.Peek()
		if ch == '\n' {
			start := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.atLineStart = true
			if lx.parenDepth > 0 {
				continue // implicit line joining inside brackets
			}
			return token.Token{Kind: token.Newline, Span: lx.cursor.SpanFrom(start), Text: "\n"}
		}
		lx.atLineStart = false
		return lx.scanToken()
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Tokenize drains the lexer into a slice ending with EOF.
func (lx *Lexer) Tokenize() []token.Token {
	var toks []token.Token
	for {
		t := lx.Next()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			return toks
		}
	}
}

// scanToken dispatches on the current byte. Layout and trivia are already
// consumed by the caller.
func (lx *Lexer) scanToken() token.Token {
	ch := lx.cursor.Peek()

	switch {
	case (ch == 'f' || ch == 'b') && lx.isQuoteAfterPrefix():
		return lx.scanString(ch)
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '.' && lx.isNumberAfterDot():
		return lx.scanNumber()
	case ch == '"':
		return lx.scanString(0)
	default:
		return lx.scanOperatorOrPunct()
	}
}

// skipInlineTrivia consumes spaces, tabs and comments, but never newlines.
func (lx *Lexer) skipInlineTrivia() {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ', '\t':
			lx.cursor.Bump()
		case '#':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		default:
			return
		}
	}
}

// queueEOF closes the final line, unwinds the indent stack and queues EOF.
func (lx *Lexer) queueEOF() {
	if lx.eofEmitted {
		lx.pending = append(lx.pending, lx.eofToken())
		return
	}
	lx.eofEmitted = true
	sp := lx.emptySpan()
	if !lx.atLineStart {
		lx.pending = append(lx.pending, token.Token{Kind: token.Newline, Span: sp})
		lx.atLineStart = true
	}
	for range lx.indents {
		lx.pending = append(lx.pending, token.Token{Kind: token.Dedent, Span: sp})
	}
	lx.indents = lx.indents[:0]
	lx.pending = append(lx.pending, lx.eofToken())
}

func (lx *Lexer) eofToken() token.Token {
	return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}
