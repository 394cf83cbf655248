package lexer

import (
	"incan/internal/diag"
	"incan/internal/source"
)

type Options struct {
	// Reporter receives lexical diagnostics. May be nil; lexing continues
	// either way, emitting Invalid tokens for broken input.
	Reporter diag.Reporter
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter == nil {
		return
	}
	diag.Errorf(lx.opts.Reporter, code, sp, msg).Emit()
}
