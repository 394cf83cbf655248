package parser

import (
	"incan/internal/ast"
	"incan/internal/diag"
	"incan/internal/token"
)

// parseDecorators collects the @name / @name(args) lines preceding a
// declaration. The parser records spelling and argument expressions only.
func (p *Parser) parseDecorators() ([]*ast.Decorator, bool) {
	var decorators []*ast.Decorator
	for p.at(token.At) {
		atTok := p.advance()
		name, ok := p.parseIdent()
		if !ok {
			return decorators, false
		}
		deco := &ast.Decorator{Name: name, Sp: atTok.Span.Cover(name.Sp)}
		if p.at(token.LParen) {
			p.advance()
			for !p.at(token.RParen) && !p.at(token.EOF) {
				arg, ok := p.parseExpr()
				if !ok {
					return decorators, false
				}
				deco.Args = append(deco.Args, arg)
				if !p.at(token.Comma) {
					break
				}
				p.advance()
			}
			closing, ok := p.expect(token.RParen, diag.SynBadDecorator,
				"expected ')' to close decorator arguments")
			if !ok {
				return decorators, false
			}
			deco.Sp = deco.Sp.Cover(closing.Span)
		}
		decorators = append(decorators, deco)
		if !p.expectNewline() {
			return decorators, false
		}
		// Blank lines between decorators and their declaration are fine.
		for p.at(token.Newline) {
			p.advance()
		}
	}
	return decorators, true
}

// parseFuncDecl parses `def name(params) [-> type]: suite`. Inside a model,
// method is true and a leading self parameter is accepted.
func (p *Parser) parseFuncDecl(decorators []*ast.Decorator, pub, method bool) (*ast.FuncDecl, bool) {
	defTok := p.advance() // def
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	fn := &ast.FuncDecl{
		Decorators: decorators,
		Pub:        pub,
		Name:       name,
		Sp:         defTok.Span,
	}
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name"); !ok {
		return nil, false
	}
	if !p.parseParams(fn, method) {
		return nil, false
	}
	if p.at(token.Arrow) {
		p.advance()
		ret, ok := p.parseType()
		if !ok {
			return nil, false
		}
		fn.Return = ret
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' before function body"); !ok {
		return nil, false
	}
	body, ok := p.parseSuite()
	if !ok {
		return nil, false
	}
	fn.Body = body
	fn.Sp = fn.Sp.Cover(body.Sp)
	return fn, true
}

// parseParams parses the parenthesized parameter list, consuming ')'.
func (p *Parser) parseParams(fn *ast.FuncDecl, method bool) bool {
	seen := make(map[string]bool)
	first := true
	for !p.at(token.RParen) && !p.at(token.EOF) {
		if !first {
			if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken, "expected ',' between parameters"); !ok {
				return false
			}
			if p.at(token.RParen) {
				break // trailing comma
			}
		}
		first = false

		if p.at(token.KwSelf) {
			selfTok := p.advance()
			if !method || fn.SelfParam != nil || len(fn.Params) > 0 {
				p.report(diag.SynUnexpectedToken, diag.SevError, selfTok.Span,
					"'self' must be the first parameter of a method")
				continue
			}
			fn.SelfParam = &ast.Param{
				Name: ast.Ident{Name: "self", Sp: selfTok.Span},
				Sp:   selfTok.Span,
			}
			continue
		}

		mut := false
		if p.at(token.KwMut) {
			mut = true
			p.advance()
		}
		name, ok := p.parseIdent()
		if !ok {
			return false
		}
		if seen[name.Name] {
			p.report(diag.SynDuplicateParam, diag.SevError, name.Sp,
				"duplicate parameter '"+name.Name+"'")
		}
		seen[name.Name] = true

		param := &ast.Param{Mut: mut, Name: name, Sp: name.Sp}
		if _, ok := p.expect(token.Colon, diag.SynExpectColon,
			"expected ':' and a type after parameter '"+name.Name+"'"); !ok {
			return false
		}
		ty, ok := p.parseType()
		if !ok {
			return false
		}
		param.Type = ty
		if p.at(token.Assign) {
			p.advance()
			def, ok := p.parseExpr()
			if !ok {
				return false
			}
			param.Default = def
		}
		param.Sp = param.Sp.Cover(p.lastSpan)
		fn.Params = append(fn.Params, param)
	}
	_, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close parameter list")
	return ok
}

// parseModelDecl parses a model: ordered typed fields, then methods.
func (p *Parser) parseModelDecl(decorators []*ast.Decorator, pub bool) (*ast.ModelDecl, bool) {
	modelTok := p.advance() // model
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	m := &ast.ModelDecl{
		Decorators: decorators,
		Pub:        pub,
		Name:       name,
		Sp:         modelTok.Span.Cover(name.Sp),
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after model name"); !ok {
		return nil, false
	}
	if !p.expectNewline() {
		return nil, false
	}
	if _, ok := p.expect(token.Indent, diag.SynExpectIndent, "expected indented model body"); !ok {
		return nil, false
	}

	seenFields := make(map[string]bool)
	for !p.at(token.Dedent) && !p.at(token.EOF) {
		switch p.lx.Peek().Kind {
		case token.Newline:
			p.advance()
		case token.KwPass:
			p.advance()
			p.expectNewline()
		case token.At, token.KwDef:
			methodDecos, ok := p.parseDecorators()
			if !ok {
				p.resyncStmt()
				continue
			}
			if !p.at(token.KwDef) {
				p.err(diag.SynUnexpectedToken, "expected 'def' after method decorators")
				p.resyncStmt()
				continue
			}
			method, ok := p.parseFuncDecl(methodDecos, false, true)
			if !ok {
				p.resyncStmt()
				continue
			}
			m.Methods = append(m.Methods, method)
		case token.Ident:
			field, ok := p.parseField()
			if !ok {
				p.resyncStmt()
				continue
			}
			if len(m.Methods) > 0 {
				p.report(diag.SynUnexpectedToken, diag.SevError, field.Sp,
					"fields must precede methods in a model body")
			}
			if seenFields[field.Name.Name] {
				p.report(diag.SynDuplicateField, diag.SevError, field.Name.Sp,
					"duplicate field '"+field.Name.Name+"'")
			}
			seenFields[field.Name.Name] = true
			m.Fields = append(m.Fields, field)
		default:
			p.err(diag.SynUnexpectedToken, "expected field or method in model body")
			p.resyncStmt()
		}
	}
	end, _ := p.expect(token.Dedent, diag.SynExpectIndent, "expected end of model body")
	m.Sp = m.Sp.Cover(end.Span)
	return m, true
}

// parseField parses `name: type [= default]` ending the line.
func (p *Parser) parseField() (*ast.Field, bool) {
	pub := false
	if p.at(token.KwPub) {
		pub = true
		p.advance()
	}
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectColon,
		"expected ':' and a type after field '"+name.Name+"'"); !ok {
		return nil, false
	}
	ty, ok := p.parseType()
	if !ok {
		return nil, false
	}
	f := &ast.Field{Pub: pub, Name: name, Type: ty, Sp: name.Sp.Cover(p.lastSpan)}
	if p.at(token.Assign) {
		p.advance()
		def, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		f.Default = def
		f.Sp = f.Sp.Cover(p.lastSpan)
	}
	if !p.expectNewline() {
		return nil, false
	}
	return f, true
}

// parseTraitDecl parses a trait: method signatures without bodies.
func (p *Parser) parseTraitDecl(decorators []*ast.Decorator, pub bool) (*ast.TraitDecl, bool) {
	traitTok := p.advance() // trait
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	t := &ast.TraitDecl{
		Decorators: decorators,
		Pub:        pub,
		Name:       name,
		Sp:         traitTok.Span.Cover(name.Sp),
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after trait name"); !ok {
		return nil, false
	}
	if !p.expectNewline() {
		return nil, false
	}
	if _, ok := p.expect(token.Indent, diag.SynExpectIndent, "expected indented trait body"); !ok {
		return nil, false
	}
	for !p.at(token.Dedent) && !p.at(token.EOF) {
		switch p.lx.Peek().Kind {
		case token.Newline:
			p.advance()
		case token.KwPass:
			p.advance()
			p.expectNewline()
		case token.KwDef:
			sig, ok := p.parseTraitMethod()
			if !ok {
				p.resyncStmt()
				continue
			}
			t.Methods = append(t.Methods, sig)
		default:
			p.err(diag.SynUnexpectedToken, "expected method signature in trait body")
			p.resyncStmt()
		}
	}
	end, _ := p.expect(token.Dedent, diag.SynExpectIndent, "expected end of trait body")
	t.Sp = t.Sp.Cover(end.Span)
	return t, true
}

// parseTraitMethod parses `def name(params) [-> type]` with no body.
func (p *Parser) parseTraitMethod() (*ast.FuncDecl, bool) {
	defTok := p.advance() // def
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	fn := &ast.FuncDecl{Name: name, Sp: defTok.Span}
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after method name"); !ok {
		return nil, false
	}
	if !p.parseParams(fn, true) {
		return nil, false
	}
	if p.at(token.Arrow) {
		p.advance()
		ret, ok := p.parseType()
		if !ok {
			return nil, false
		}
		fn.Return = ret
	}
	fn.Sp = fn.Sp.Cover(p.lastSpan)
	if !p.expectNewline() {
		return nil, false
	}
	return fn, true
}

// parseConstDecl parses `const NAME [: type] = expr`.
func (p *Parser) parseConstDecl(pub bool) (*ast.ConstDecl, bool) {
	constTok := p.advance() // const
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	c := &ast.ConstDecl{Pub: pub, Name: name, Sp: constTok.Span}
	if p.at(token.Colon) {
		p.advance()
		ty, ok := p.parseType()
		if !ok {
			return nil, false
		}
		c.Type = ty
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in const declaration"); !ok {
		return nil, false
	}
	value, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	c.Value = value
	c.Sp = c.Sp.Cover(p.lastSpan)
	if !p.expectNewline() {
		return nil, false
	}
	return c, true
}

// parseImportDecl parses both import forms:
//
//	import a::b [as c]
//	from a::b import x [as y], z
func (p *Parser) parseImportDecl() (*ast.ImportDecl, bool) {
	lead := p.advance() // import or from
	imp := &ast.ImportDecl{Sp: lead.Span}

	path, ok := p.parseImportPath()
	if !ok {
		return nil, false
	}
	imp.Path = path

	if lead.Kind == token.KwFrom {
		if _, ok := p.expect(token.KwImport, diag.SynUnexpectedToken,
			"expected 'import' after module path"); !ok {
			return nil, false
		}
		for {
			name, ok := p.parseIdent()
			if !ok {
				return nil, false
			}
			item := &ast.ImportItem{Name: name}
			if p.at(token.KwAs) {
				p.advance()
				alias, ok := p.parseIdent()
				if !ok {
					return nil, false
				}
				item.Alias = &alias
			}
			imp.Items = append(imp.Items, item)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	} else if p.at(token.KwAs) {
		p.advance()
		alias, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		imp.Alias = &alias
	}
	imp.Sp = imp.Sp.Cover(p.lastSpan)
	if !p.expectNewline() {
		return nil, false
	}
	return imp, true
}

// parseImportPath parses ident (:: ident)*.
func (p *Parser) parseImportPath() ([]ast.Ident, bool) {
	var path []ast.Ident
	for {
		seg, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		path = append(path, seg)
		if !p.at(token.ColonColon) {
			return path, true
		}
		p.advance()
	}
}
