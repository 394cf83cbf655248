package parser

import (
	"incan/internal/ast"
	"incan/internal/diag"
	"incan/internal/source"
	"incan/internal/token"
)

// advance consumes the next token and remembers its span.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// diagSpan picks the best span for a diagnostic: the lookahead token, or the
// position right after the last consumed token when the lookahead is EOF.
func (p *Parser) diagSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{
			File:  p.lastSpan.File,
			Start: p.lastSpan.End,
			End:   p.lastSpan.End,
		}
	}
	return peek.Span
}

// expect consumes a token of kind k or reports and returns ok=false.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagSpan()
	p.report(code, diag.SevError, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: p.lx.Peek().Text}, false
}

func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, diag.SevError, p.diagSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if p.opts.Reporter == nil {
		return
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if p.opts.Enough() {
		return
	}
	p.opts.Reporter.Report(diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  sp,
	})
}

// parseIdent expects an identifier token.
func (p *Parser) parseIdent() (ast.Ident, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return ast.Ident{Name: tok.Text, Sp: tok.Span}, true
	}
	p.err(diag.SynExpectIdentifier, "expected identifier, got "+describe(p.lx.Peek()))
	return ast.Ident{Sp: p.diagSpan()}, false
}

// expectNewline ends a simple statement or declaration header line.
// Tolerates EOF and an upcoming Dedent so the last line of a block parses.
func (p *Parser) expectNewline() bool {
	switch p.lx.Peek().Kind {
	case token.Newline:
		p.advance()
		return true
	case token.EOF, token.Dedent:
		return true
	}
	p.err(diag.SynExpectNewline, "expected end of line, got "+describe(p.lx.Peek()))
	return false
}

// describe renders a token for an error message.
func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Newline:
		return "end of line"
	case token.Indent:
		return "indent"
	case token.Dedent:
		return "dedent"
	case token.Invalid:
		return "invalid token"
	}
	if tok.Text == "" {
		return "token"
	}
	return "'" + tok.Text + "'"
}
