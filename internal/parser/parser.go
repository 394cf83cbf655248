package parser

import (
	"slices"

	"incan/internal/ast"
	"incan/internal/diag"
	"incan/internal/lexer"
	"incan/internal/source"
	"incan/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error budget is spent.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser holds the state for parsing one file.
type Parser struct {
	lx       *lexer.Lexer
	fs       *source.FileSet
	file     *source.File
	opts     Options
	lastSpan source.Span // span of the last consumed token, for diagnostics at EOF
}

// ParseFile parses one file into an ast.File. A partial tree plus
// diagnostics comes back when the input is broken; callers decide based on
// the reporter's bag whether to continue the pipeline.
func ParseFile(fs *source.FileSet, file *source.File, opts Options) *ast.File {
	p := Parser{
		lx:   lexer.New(file, lexer.Options{Reporter: opts.Reporter}),
		fs:   fs,
		file: file,
		opts: opts,
	}
	out := &ast.File{
		FileID: file.ID,
		Module: moduleName(file.Path),
	}
	p.parseDecls(out)
	return out
}

// parseDecls is the top-level loop: declarations separated by layout.
func (p *Parser) parseDecls(out *ast.File) {
	for !p.at(token.EOF) {
		if p.at(token.Newline) {
			p.advance()
			continue
		}
		if p.at(token.Indent) {
			p.err(diag.SynUnexpectedIndent, "unexpected indentation at top level")
			p.skipBlock()
			continue
		}
		decl, ok := p.parseDecl()
		if !ok {
			p.resyncTop()
			continue
		}
		out.Decls = append(out.Decls, decl)
	}
}

// parseDecl dispatches on the leading token of a top-level declaration.
func (p *Parser) parseDecl() (ast.Decl, bool) {
	decorators, ok := p.parseDecorators()
	if !ok {
		return nil, false
	}

	pub := false
	var pubSpan source.Span
	if p.at(token.KwPub) {
		pub = true
		pubSpan = p.advance().Span
	}

	switch p.lx.Peek().Kind {
	case token.KwDef:
		return p.parseFuncDecl(decorators, pub, false)
	case token.KwModel:
		return p.parseModelDecl(decorators, pub)
	case token.KwTrait:
		return p.parseTraitDecl(decorators, pub)
	case token.KwConst:
		if len(decorators) > 0 {
			p.report(diag.SynBadDecorator, diag.SevError, decorators[0].Sp,
				"decorators are not allowed on const declarations")
		}
		return p.parseConstDecl(pub)
	case token.KwImport, token.KwFrom:
		if pub {
			p.report(diag.SynUnexpectedToken, diag.SevError, pubSpan,
				"'pub' is not allowed on imports")
		}
		if len(decorators) > 0 {
			p.report(diag.SynBadDecorator, diag.SevError, decorators[0].Sp,
				"decorators are not allowed on imports")
		}
		return p.parseImportDecl()
	default:
		p.err(diag.SynUnexpectedTop, "unexpected top-level construct")
		return nil, false
	}
}

// resyncTop skips to the next top-level declaration starter at block depth
// zero, so independent declarations keep parsing after an error.
func (p *Parser) resyncTop() {
	depth := 0
	for {
		switch k := p.lx.Peek().Kind; k {
		case token.EOF:
			return
		case token.Indent:
			depth++
		case token.Dedent:
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 && isTopLevelStarter(k) {
				return
			}
		}
		p.advance()
	}
}

// isTopLevelStarter reports whether k can begin a top-level declaration.
func isTopLevelStarter(k token.Kind) bool {
	switch k {
	case token.KwDef, token.KwModel, token.KwTrait, token.KwConst,
		token.KwImport, token.KwFrom, token.KwPub, token.At:
		return true
	default:
		return false
	}
}

// skipBlock consumes a balanced Indent..Dedent region.
func (p *Parser) skipBlock() {
	depth := 0
	for {
		switch p.lx.Peek().Kind {
		case token.EOF:
			return
		case token.Indent:
			depth++
		case token.Dedent:
			depth--
			if depth <= 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atAny(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// moduleName derives the module name from the file path: base name without
// the extension.
func moduleName(path string) string {
	base := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			base = path[i+1:]
			break
		}
	}
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			return base[:i]
		}
	}
	return base
}
