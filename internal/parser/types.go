package parser

import (
	"incan/internal/ast"
	"incan/internal/diag"
	"incan/internal/token"
)

// parseType parses a type annotation: a name, a generic application
// Name[T, ...], or Self inside traits.
func (p *Parser) parseType() (ast.TypeExpr, bool) {
	tok := p.lx.Peek()
	if tok.Kind != token.Ident {
		p.err(diag.SynExpectType, "expected type, got "+describe(tok))
		return nil, false
	}
	p.advance()

	if tok.Text == "Self" {
		return &ast.SelfType{Sp: tok.Span}, true
	}
	if !p.at(token.LBracket) {
		return &ast.NamedType{Name: tok.Text, Sp: tok.Span}, true
	}

	p.advance() // [
	gen := &ast.GenericType{Name: tok.Text, Sp: tok.Span}
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		if len(gen.Args) > 0 {
			if _, ok := p.expect(token.Comma, diag.SynExpectType,
				"expected ',' between type arguments"); !ok {
				return nil, false
			}
		}
		arg, ok := p.parseType()
		if !ok {
			return nil, false
		}
		gen.Args = append(gen.Args, arg)
	}
	closing, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter,
		"expected ']' to close type arguments")
	if !ok {
		return nil, false
	}
	if len(gen.Args) == 0 {
		p.report(diag.SynExpectType, diag.SevError, closing.Span,
			"generic type needs at least one argument")
		return &ast.BadType{Sp: tok.Span.Cover(closing.Span)}, true
	}
	gen.Sp = gen.Sp.Cover(closing.Span)
	return gen, true
}
