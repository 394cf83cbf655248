package parser

import (
	"incan/internal/ast"
	"incan/internal/diag"
	"incan/internal/token"
)

// parseSuite parses a statement suite after ':'. Either an inline simple
// statement on the same line, or Newline Indent stmts Dedent.
func (p *Parser) parseSuite() (*ast.Block, bool) {
	if !p.at(token.Newline) {
		// Inline form: def f(x: int) -> int: return x + 1
		stmt, ok := p.parseSimpleStmt()
		if !ok {
			return nil, false
		}
		if !p.expectNewline() {
			return nil, false
		}
		return &ast.Block{Stmts: []ast.Stmt{stmt}, Sp: stmt.Span()}, true
	}
	p.advance() // newline
	indent, ok := p.expect(token.Indent, diag.SynExpectIndent, "expected indented block")
	if !ok {
		return nil, false
	}
	block := &ast.Block{Sp: indent.Span}
	for !p.at(token.Dedent) && !p.at(token.EOF) {
		if p.at(token.Newline) {
			p.advance()
			continue
		}
		stmt, ok := p.parseStmt()
		if !ok {
			p.resyncStmt()
			continue
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	end, _ := p.expect(token.Dedent, diag.SynExpectIndent, "expected end of block")
	block.Sp = block.Sp.Cover(end.Span)
	return block, true
}

// resyncStmt recovers after a statement error: skip to the next line at the
// current block depth, or stop at a Dedent/EOF for the enclosing suite.
func (p *Parser) resyncStmt() {
	depth := 0
	for {
		switch p.lx.Peek().Kind {
		case token.EOF:
			return
		case token.Newline:
			if depth == 0 {
				p.advance()
				return
			}
		case token.Indent:
			depth++
		case token.Dedent:
			if depth == 0 {
				return
			}
			depth--
		}
		p.advance()
	}
}

// parseStmt dispatches one statement, compound or simple.
func (p *Parser) parseStmt() (ast.Stmt, bool) {
	switch p.lx.Peek().Kind {
	case token.KwIf:
		return p.parseIfStmt()
	case token.KwWhile:
		return p.parseWhileStmt()
	case token.KwFor:
		return p.parseForStmt()
	default:
		stmt, ok := p.parseSimpleStmt()
		if !ok {
			return nil, false
		}
		if !p.expectNewline() {
			return nil, false
		}
		return stmt, true
	}
}

// parseSimpleStmt parses a one-line statement without its terminator.
func (p *Parser) parseSimpleStmt() (ast.Stmt, bool) {
	switch p.lx.Peek().Kind {
	case token.KwLet, token.KwMut:
		return p.parseLetStmt()
	case token.KwReturn:
		return p.parseReturnStmt()
	case token.KwBreak:
		tok := p.advance()
		return &ast.BreakStmt{Sp: tok.Span}, true
	case token.KwContinue:
		tok := p.advance()
		return &ast.ContinueStmt{Sp: tok.Span}, true
	case token.KwPass:
		tok := p.advance()
		return &ast.PassStmt{Sp: tok.Span}, true
	default:
		return p.parseExprOrAssign()
	}
}

// parseLetStmt parses `let x [: type] = expr` or `mut x [: type] = expr`.
func (p *Parser) parseLetStmt() (ast.Stmt, bool) {
	lead := p.advance()
	mut := lead.Kind == token.KwMut
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	s := &ast.LetStmt{Mut: mut, Name: name, Sp: lead.Span}
	if p.at(token.Colon) {
		p.advance()
		ty, ok := p.parseType()
		if !ok {
			return nil, false
		}
		s.Type = ty
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken,
		"expected '=' after binding name"); !ok {
		return nil, false
	}
	value, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	s.Value = value
	s.Sp = s.Sp.Cover(p.lastSpan)
	return s, true
}

func (p *Parser) parseReturnStmt() (ast.Stmt, bool) {
	tok := p.advance()
	s := &ast.ReturnStmt{Sp: tok.Span}
	if p.atAny(token.Newline, token.EOF, token.Dedent) {
		return s, true
	}
	value, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	s.Value = value
	s.Sp = s.Sp.Cover(p.lastSpan)
	return s, true
}

// parseExprOrAssign parses an expression statement or, when followed by an
// assignment operator, an assignment to the parsed expression as lvalue.
func (p *Parser) parseExprOrAssign() (ast.Stmt, bool) {
	target, ok := p.parseExpr()
	if !ok {
		return nil, false
	}

	if p.at(token.Assign) {
		p.advance()
		value, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if !isLValue(target) {
			p.report(diag.SynUnexpectedToken, diag.SevError, target.Span(),
				"cannot assign to this expression")
		}
		return &ast.AssignStmt{
			Target: target,
			Value:  value,
			Sp:     target.Span().Cover(p.lastSpan),
		}, true
	}

	if op, isCompound := compoundOp(p.lx.Peek().Kind); isCompound {
		p.advance()
		value, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if !isLValue(target) {
			p.report(diag.SynUnexpectedToken, diag.SevError, target.Span(),
				"cannot assign to this expression")
		}
		return &ast.CompoundAssignStmt{
			Target: target,
			Op:     op,
			Value:  value,
			Sp:     target.Span().Cover(p.lastSpan),
		}, true
	}

	return &ast.ExprStmt{X: target, Sp: target.Span()}, true
}

func compoundOp(k token.Kind) (ast.AssignOp, bool) {
	switch k {
	case token.PlusAssign:
		return ast.AssignAdd, true
	case token.MinusAssign:
		return ast.AssignSub, true
	case token.StarAssign:
		return ast.AssignMul, true
	case token.SlashAssign:
		return ast.AssignDiv, true
	case token.SlashSlashAssign:
		return ast.AssignFloorDiv, true
	case token.PercentAssign:
		return ast.AssignMod, true
	}
	return 0, false
}

// isLValue reports whether an expression may stand on the left of '='.
func isLValue(e ast.Expr) bool {
	switch x := e.(type) {
	case *ast.NameExpr, *ast.IndexExpr, *ast.FieldExpr:
		return true
	case *ast.ParenExpr:
		return isLValue(x.X)
	}
	return false
}

func (p *Parser) parseIfStmt() (ast.Stmt, bool) {
	ifTok := p.advance()
	cond, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after if condition"); !ok {
		return nil, false
	}
	then, ok := p.parseSuite()
	if !ok {
		return nil, false
	}
	s := &ast.IfStmt{Cond: cond, Then: then, Sp: ifTok.Span.Cover(then.Sp)}

	for p.at(token.KwElif) {
		p.advance()
		elifCond, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after elif condition"); !ok {
			return nil, false
		}
		body, ok := p.parseSuite()
		if !ok {
			return nil, false
		}
		s.Elif = append(s.Elif, ast.ElifBranch{Cond: elifCond, Body: body})
		s.Sp = s.Sp.Cover(body.Sp)
	}
	if p.at(token.KwElse) {
		p.advance()
		if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after else"); !ok {
			return nil, false
		}
		body, ok := p.parseSuite()
		if !ok {
			return nil, false
		}
		s.Else = body
		s.Sp = s.Sp.Cover(body.Sp)
	}
	return s, true
}

func (p *Parser) parseWhileStmt() (ast.Stmt, bool) {
	whileTok := p.advance()
	cond, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after while condition"); !ok {
		return nil, false
	}
	body, ok := p.parseSuite()
	if !ok {
		return nil, false
	}
	return &ast.WhileStmt{Cond: cond, Body: body, Sp: whileTok.Span.Cover(body.Sp)}, true
}

func (p *Parser) parseForStmt() (ast.Stmt, bool) {
	forTok := p.advance()
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.KwIn, diag.SynUnexpectedToken, "expected 'in' after loop variable"); !ok {
		return nil, false
	}
	iter, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after for clause"); !ok {
		return nil, false
	}
	body, ok := p.parseSuite()
	if !ok {
		return nil, false
	}
	return &ast.ForStmt{Var: name, Iter: iter, Body: body, Sp: forTok.Span.Cover(body.Sp)}, true
}
