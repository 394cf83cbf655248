package parser

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"incan/internal/ast"
	"incan/internal/diag"
	"incan/internal/lexer"
	"incan/internal/source"
	"incan/internal/token"
)

// parseFString decomposes an f"..." literal into alternating literal-text
// and expression parts. Each expression fragment keeps its exact source
// range and is re-parsed through a ranged sub-lexer, so spans inside the
// fragment point at the real source.
func (p *Parser) parseFString() (ast.Expr, bool) {
	tok := p.advance()
	if tok.Kind != token.FStringLit {
		p.err(diag.SynUnexpectedToken, "expected f-string literal")
		return nil, false
	}
	raw := tok.Text
	if len(raw) < 3 || raw[0] != 'f' || raw[1] != '"' || raw[len(raw)-1] != '"' {
		p.err(diag.SynUnexpectedToken, "invalid f-string literal")
		return nil, false
	}
	content := raw[2 : len(raw)-1]
	contentStart := tok.Span.Start + 2
	contentEnd := tok.Span.End - 1

	out := &ast.FStringExpr{Sp: tok.Span}
	var text strings.Builder

	flushText := func() {
		if text.Len() > 0 {
			out.Parts = append(out.Parts, ast.FStringPart{Text: lexer.DecodeEscapes(text.String())})
			text.Reset()
		}
	}
	offset := func(pos int) uint32 {
		off, err := safecast.Conv[uint32](pos)
		if err != nil {
			panic(fmt.Errorf("f-string offset overflow: %w", err))
		}
		return contentStart + off
	}

	for i := 0; i < len(content); {
		ch := content[i]
		switch {
		case ch == '\\' && i+1 < len(content):
			text.WriteByte(ch)
			text.WriteByte(content[i+1])
			i += 2
		case ch == '{' && i+1 < len(content) && content[i+1] == '{':
			text.WriteByte('{')
			i += 2
		case ch == '}' && i+1 < len(content) && content[i+1] == '}':
			text.WriteByte('}')
			i += 2
		case ch == '{':
			closeIdx := strings.IndexByte(content[i+1:], '}')
			if closeIdx < 0 {
				sp := source.Span{File: tok.Span.File, Start: offset(i), End: contentEnd}
				p.report(diag.SynUnmatchedBrace, diag.SevError, sp,
					"missing '}' to close f-string expression")
				return nil, false
			}
			flushText()
			exprStart := offset(i + 1)
			exprEnd := offset(i + 1 + closeIdx)
			expr, ok := p.parseFStringExpr(tok.Span.File, exprStart, exprEnd)
			if !ok {
				return nil, false
			}
			out.Parts = append(out.Parts, ast.FStringPart{Expr: expr})
			i += closeIdx + 2
		case ch == '}':
			sp := source.Span{File: tok.Span.File, Start: offset(i), End: offset(i + 1)}
			p.report(diag.SynUnmatchedBrace, diag.SevError, sp, "unmatched '}' in f-string")
			return nil, false
		default:
			text.WriteByte(ch)
			i++
		}
	}
	flushText()
	return out, true
}

// parseFStringExpr re-parses one embedded expression from its byte range.
func (p *Parser) parseFStringExpr(fileID source.FileID, start, limit uint32) (ast.Expr, bool) {
	file := p.fs.Get(fileID)
	if file == nil {
		return nil, false
	}
	if start >= limit {
		sp := source.Span{File: fileID, Start: start, End: limit}
		p.report(diag.SynExpectExpression, diag.SevError, sp,
			"expected expression in f-string")
		return nil, false
	}
	sub := Parser{
		lx:       lexer.NewRanged(file, start, limit, lexer.Options{Reporter: p.opts.Reporter}),
		fs:       p.fs,
		file:     file,
		opts:     p.opts,
		lastSpan: source.Span{File: fileID, Start: start, End: start},
	}
	expr, ok := sub.parseExpr()
	p.opts.CurrentErrors = sub.opts.CurrentErrors
	if !ok {
		return nil, false
	}
	if !sub.at(token.EOF) {
		sub.err(diag.SynUnexpectedToken, "unexpected token after f-string expression")
		p.opts.CurrentErrors = sub.opts.CurrentErrors
		return nil, false
	}
	return expr, true
}
