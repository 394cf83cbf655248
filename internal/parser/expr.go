package parser

import (
	"strconv"
	"strings"

	"incan/internal/ast"
	"incan/internal/diag"
	"incan/internal/lexer"
	"incan/internal/token"
)

// parseExpr is the expression entry point: precedence climbing over the
// binary tiers, with 'not' handled as a prefix between and and comparison.
func (p *Parser) parseExpr() (ast.Expr, bool) {
	return p.parseBinary(precOr)
}

func (p *Parser) parseBinary(minPrec int) (ast.Expr, bool) {
	var lhs ast.Expr
	var ok bool

	// 'not' binds looser than comparisons but tighter than and/or.
	if p.at(token.KwNot) && minPrec <= precAnd+1 {
		notTok := p.advance()
		operand, ok := p.parseBinary(precComparison)
		if !ok {
			return nil, false
		}
		lhs = &ast.UnaryExpr{Op: ast.OpNot, X: operand, Sp: notTok.Span.Cover(operand.Span())}
	} else {
		lhs, ok = p.parseUnary()
		if !ok {
			return nil, false
		}
	}

	for {
		opTok := p.lx.Peek()
		prec := binPrec(opTok.Kind)
		if prec == 0 || prec < minPrec {
			return lhs, true
		}

		op := binOpFor(opTok.Kind)
		if opTok.Kind == token.KwNot {
			// Only valid as 'not in'.
			mark := p.advance()
			if !p.at(token.KwIn) {
				p.report(diag.SynExpectExpression, diag.SevError, mark.Span,
					"expected 'in' after 'not' in comparison")
				return nil, false
			}
			p.advance()
			op = ast.OpNotIn
		} else {
			p.advance()
		}

		rhs, ok := p.parseBinary(prec + 1)
		if !ok {
			return nil, false
		}
		lhs = &ast.BinaryExpr{
			Op:  op,
			LHS: lhs,
			RHS: rhs,
			Sp:  lhs.Span().Cover(rhs.Span()),
		}
	}
}

// parseUnary handles prefix minus; 'not' lives at its own tier above.
func (p *Parser) parseUnary() (ast.Expr, bool) {
	if p.at(token.Minus) {
		minusTok := p.advance()
		operand, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		return &ast.UnaryExpr{Op: ast.OpNeg, X: operand, Sp: minusTok.Span.Cover(operand.Span())}, true
	}
	return p.parsePower()
}

// parsePower handles '**', right-associative, with unary allowed in the
// exponent: 2 ** -3 parses, and -2 ** 3 is -(2 ** 3).
func (p *Parser) parsePower() (ast.Expr, bool) {
	base, ok := p.parsePostfix()
	if !ok {
		return nil, false
	}
	if !p.at(token.StarStar) {
		return base, true
	}
	p.advance()
	exp, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	return &ast.BinaryExpr{
		Op:  ast.OpPow,
		LHS: base,
		RHS: exp,
		Sp:  base.Span().Cover(exp.Span()),
	}, true
}

// parsePostfix applies call, index/slice and attribute suffixes greedily.
func (p *Parser) parsePostfix() (ast.Expr, bool) {
	x, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}
	for {
		switch p.lx.Peek().Kind {
		case token.LParen:
			x, ok = p.parseCall(x)
		case token.LBracket:
			x, ok = p.parseIndexOrSlice(x)
		case token.Dot:
			p.advance()
			field, fok := p.parseIdent()
			if !fok {
				return nil, false
			}
			x = &ast.FieldExpr{X: x, Field: field, Sp: x.Span().Cover(field.Sp)}
			ok = true
		default:
			return x, true
		}
		if !ok {
			return nil, false
		}
	}
}

// parseCall parses the argument list after '('; named arguments use
// name=value and must follow positional ones.
func (p *Parser) parseCall(callee ast.Expr) (ast.Expr, bool) {
	p.advance() // (
	call := &ast.CallExpr{Callee: callee}
	sawNamed := false
	for !p.at(token.RParen) && !p.at(token.EOF) {
		if len(call.Args) > 0 {
			if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken,
				"expected ',' between arguments"); !ok {
				return nil, false
			}
			if p.at(token.RParen) {
				break
			}
		}
		var arg ast.Arg
		if p.at(token.Ident) && p.peekIsNamedArg() {
			nameTok := p.advance()
			p.advance() // =
			name := ast.Ident{Name: nameTok.Text, Sp: nameTok.Span}
			arg.Name = &name
			sawNamed = true
		} else if sawNamed {
			p.err(diag.SynUnexpectedToken, "positional argument after named argument")
		}
		value, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		arg.Value = value
		call.Args = append(call.Args, arg)
	}
	closing, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter,
		"expected ')' to close argument list")
	if !ok {
		return nil, false
	}
	call.Sp = callee.Span().Cover(closing.Span)
	return call, true
}

// peekIsNamedArg checks for 'ident =' without consuming, using the one-token
// lookahead plus a cheap source probe for the '=' that must follow.
func (p *Parser) peekIsNamedArg() bool {
	identTok := p.lx.Peek()
	off := identTok.Span.End
	content := p.file.Content
	for int(off) < len(content) && (content[off] == ' ' || content[off] == '\t') {
		off++
	}
	if int(off) >= len(content) || content[off] != '=' {
		return false
	}
	// '==' would be a comparison, not a named argument.
	return int(off+1) >= len(content) || content[off+1] != '='
}

// parseIndexOrSlice parses x[i], x[a:b] and x[a:b:c] with optional parts.
// The lexer scans adjacent colons as one ColonColon token for import paths;
// inside brackets that token reads as both slice separators at once.
func (p *Parser) parseIndexOrSlice(x ast.Expr) (ast.Expr, bool) {
	p.advance() // [
	var start, end, step ast.Expr
	var ok bool

	if !p.at(token.Colon) && !p.at(token.ColonColon) {
		start, ok = p.parseExpr()
		if !ok {
			return nil, false
		}
	}
	if !p.at(token.Colon) && !p.at(token.ColonColon) {
		closing, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter,
			"expected ']' to close index")
		if !ok {
			return nil, false
		}
		if start == nil {
			p.report(diag.SynExpectExpression, diag.SevError, closing.Span, "expected index expression")
			return nil, false
		}
		return &ast.IndexExpr{X: x, Index: start, Sp: x.Span().Cover(closing.Span)}, true
	}

	doubled := p.at(token.ColonColon)
	p.advance() // ':' or '::'
	if !doubled && !p.at(token.Colon) && !p.at(token.RBracket) {
		end, ok = p.parseExpr()
		if !ok {
			return nil, false
		}
	}
	if doubled || p.at(token.Colon) {
		if !doubled {
			p.advance() // second ':'
		}
		if !p.at(token.RBracket) {
			step, ok = p.parseExpr()
			if !ok {
				return nil, false
			}
		}
	}
	closing, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter,
		"expected ']' to close slice")
	if !ok {
		return nil, false
	}
	return &ast.SliceExpr{
		X:     x,
		Start: start,
		End:   end,
		Step:  step,
		Sp:    x.Span().Cover(closing.Span),
	}, true
}

// parsePrimary parses atoms: literals, names, self, grouping, displays.
func (p *Parser) parsePrimary() (ast.Expr, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return &ast.NameExpr{Name: tok.Text, Sp: tok.Span}, true
	case token.KwSelf:
		p.advance()
		return &ast.SelfExpr{Sp: tok.Span}, true
	case token.IntLit:
		p.advance()
		return p.decodeIntLit(tok)
	case token.FloatLit:
		p.advance()
		return p.decodeFloatLit(tok)
	case token.BoolLit:
		p.advance()
		return &ast.BoolLit{Value: tok.Text == "True", Sp: tok.Span}, true
	case token.NoneLit:
		p.advance()
		return &ast.NoneLit{Sp: tok.Span}, true
	case token.StringLit:
		p.advance()
		return &ast.StringLit{
			Value: lexer.DecodeEscapes(lexer.LiteralInner(tok.Text)),
			Sp:    tok.Span,
		}, true
	case token.BytesLit:
		p.advance()
		return &ast.BytesLit{
			Value: []byte(lexer.DecodeEscapes(lexer.LiteralInner(tok.Text))),
			Sp:    tok.Span,
		}, true
	case token.FStringLit:
		return p.parseFString()
	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		closing, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter,
			"expected ')' to close grouping")
		if !ok {
			return nil, false
		}
		return &ast.ParenExpr{X: inner, Sp: tok.Span.Cover(closing.Span)}, true
	case token.LBracket:
		return p.parseListDisplay()
	case token.LBrace:
		return p.parseDictDisplay()
	default:
		p.err(diag.SynExpectExpression, "expected expression, got "+describe(tok))
		return nil, false
	}
}

func (p *Parser) decodeIntLit(tok token.Token) (ast.Expr, bool) {
	text := strings.ReplaceAll(tok.Text, "_", "")
	base := 10
	if len(text) > 2 && text[0] == '0' {
		switch text[1] {
		case 'b', 'B':
			base, text = 2, text[2:]
		case 'o', 'O':
			base, text = 8, text[2:]
		case 'x', 'X':
			base, text = 16, text[2:]
		}
	}
	v, err := strconv.ParseInt(text, base, 64)
	if err != nil {
		p.report(diag.LexBadNumber, diag.SevError, tok.Span, "integer literal out of range")
		return &ast.BadExpr{Sp: tok.Span}, true
	}
	return &ast.IntLit{Value: v, Sp: tok.Span}, true
}

func (p *Parser) decodeFloatLit(tok token.Token) (ast.Expr, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(tok.Text, "_", ""), 64)
	if err != nil {
		p.report(diag.LexBadNumber, diag.SevError, tok.Span, "float literal out of range")
		return &ast.BadExpr{Sp: tok.Span}, true
	}
	return &ast.FloatLit{Value: v, Sp: tok.Span}, true
}

func (p *Parser) parseListDisplay() (ast.Expr, bool) {
	open := p.advance() // [
	list := &ast.ListExpr{}
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		if len(list.Elems) == 1 && p.at(token.KwFor) {
			return p.parseListComp(open, list.Elems[0])
		}
		if len(list.Elems) > 0 {
			if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken,
				"expected ',' between list elements"); !ok {
				return nil, false
			}
			if p.at(token.RBracket) {
				break
			}
		}
		elem, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		list.Elems = append(list.Elems, elem)
	}
	closing, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter,
		"expected ']' to close list")
	if !ok {
		return nil, false
	}
	list.Sp = open.Span.Cover(closing.Span)
	return list, true
}

// parseListComp continues a list display after `[elem for`.
func (p *Parser) parseListComp(open token.Token, elem ast.Expr) (ast.Expr, bool) {
	p.advance() // for
	comp := &ast.ListCompExpr{Elem: elem}
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	comp.Var = name
	if _, ok := p.expect(token.KwIn, diag.SynUnexpectedToken,
		"expected 'in' after comprehension variable"); !ok {
		return nil, false
	}
	if comp.Iter, ok = p.parseExpr(); !ok {
		return nil, false
	}
	if p.at(token.KwIf) {
		p.advance()
		if comp.Cond, ok = p.parseExpr(); !ok {
			return nil, false
		}
	}
	closing, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter,
		"expected ']' to close comprehension")
	if !ok {
		return nil, false
	}
	comp.Sp = open.Span.Cover(closing.Span)
	return comp, true
}

func (p *Parser) parseDictDisplay() (ast.Expr, bool) {
	open := p.advance() // {
	dict := &ast.DictExpr{}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if len(dict.Entries) > 0 {
			if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken,
				"expected ',' between dict entries"); !ok {
				return nil, false
			}
			if p.at(token.RBrace) {
				break
			}
		}
		key, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Colon, diag.SynExpectColon,
			"expected ':' between dict key and value"); !ok {
			return nil, false
		}
		value, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		dict.Entries = append(dict.Entries, ast.DictEntry{Key: key, Value: value})
	}
	closing, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter,
		"expected '}' to close dict")
	if !ok {
		return nil, false
	}
	dict.Sp = open.Span.Cover(closing.Span)
	return dict, true
}
