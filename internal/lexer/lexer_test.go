package lexer

import (
	"testing"

	"incan/internal/diag"
	"incan/internal/source"
	"incan/internal/token"
)

func lexSource(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fset := source.NewFileSet()
	id := fset.AddVirtual("test.in", []byte(src))
	bag := diag.NewBag(50)
	lx := New(fset.Get(id), Options{Reporter: diag.NewBagReporter(bag)})
	return lx.Tokenize(), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func expectKinds(t *testing.T, got []token.Token, want []token.Kind) {
	t.Helper()
	gk := kinds(got)
	if len(gk) != len(want) {
		t.Fatalf("token count = %d, want %d\ngot: %v", len(gk), len(want), gk)
	}
	for i := range want {
		if gk[i] != want[i] {
			t.Fatalf("token %d = %v, want %v\ngot: %v", i, gk[i], want[i], gk)
		}
	}
}

func TestSimpleStatement(t *testing.T) {
	toks, bag := lexSource(t, "let x = 1 + 2\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	expectKinds(t, toks, []token.Kind{
		token.KwLet, token.Ident, token.Assign, token.IntLit,
		token.Plus, token.IntLit, token.Newline, token.EOF,
	})
}

func TestIndentDedent(t *testing.T) {
	src := "def f():\n    return 1\n"
	toks, bag := lexSource(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	expectKinds(t, toks, []token.Kind{
		token.KwDef, token.Ident, token.LParen, token.RParen, token.Colon, token.Newline,
		token.Indent, token.KwReturn, token.IntLit, token.Newline,
		token.Dedent, token.EOF,
	})
	if !BalancedLayout(toks) {
		t.Fatal("layout not balanced")
	}
}

func TestNestedDedentRun(t *testing.T) {
	src := "if a:\n    if b:\n        pass\nlet x = 1\n"
	toks, bag := lexSource(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	// Both blocks close before the final let, as two consecutive dedents.
	var run int
	maxRun := 0
	for _, tok := range toks {
		if tok.Kind == token.Dedent {
			run++
			if run > maxRun {
				maxRun = run
			}
		} else {
			run = 0
		}
	}
	if maxRun != 2 {
		t.Fatalf("max dedent run = %d, want 2", maxRun)
	}
	if !BalancedLayout(toks) {
		t.Fatal("layout not balanced")
	}
}

func TestBlankAndCommentLinesCarryNoLayout(t *testing.T) {
	src := "def f():\n\n    # comment only\n    pass\n"
	toks, bag := lexSource(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	newlines := 0
	for _, tok := range toks {
		if tok.Kind == token.Newline {
			newlines++
		}
	}
	if newlines != 2 {
		t.Fatalf("newlines = %d, want 2 (blank and comment lines emit none)", newlines)
	}
}

func TestBracketsSuppressLayout(t *testing.T) {
	src := "let xs = [\n    1,\n    2,\n]\n"
	toks, bag := lexSource(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	for _, tok := range toks {
		if tok.Kind == token.Indent || tok.Kind == token.Dedent {
			t.Fatalf("layout token inside brackets: %v", kinds(toks))
		}
	}
	newlines := 0
	for _, tok := range toks {
		if tok.Kind == token.Newline {
			newlines++
		}
	}
	if newlines != 1 {
		t.Fatalf("newlines = %d, want 1", newlines)
	}
}

func TestMissingTrailingNewline(t *testing.T) {
	toks, bag := lexSource(t, "pass")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	expectKinds(t, toks, []token.Kind{token.KwPass, token.Newline, token.EOF})
}

func TestMixedIndentReported(t *testing.T) {
	src := "if a:\n \tpass\n"
	_, bag := lexSource(t, src)
	if !hasCode(bag, diag.LexMixedIndent) {
		t.Fatalf("expected LexMixedIndent, got %v", bag.Items())
	}
}

func TestIndentUnitLockedPerFile(t *testing.T) {
	src := "if a:\n    pass\nif b:\n\tpass\n"
	_, bag := lexSource(t, src)
	if !hasCode(bag, diag.LexMixedIndent) {
		t.Fatalf("expected LexMixedIndent for unit switch, got %v", bag.Items())
	}
}

func TestBadDedentReported(t *testing.T) {
	src := "if a:\n        pass\n    pass\n"
	_, bag := lexSource(t, src)
	if !hasCode(bag, diag.LexBadDedent) {
		t.Fatalf("expected LexBadDedent, got %v", bag.Items())
	}
}

func TestOperatorGreediness(t *testing.T) {
	toks, bag := lexSource(t, "a //= b ** c // d\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	expectKinds(t, toks, []token.Kind{
		token.Ident, token.SlashSlashAssign, token.Ident, token.StarStar,
		token.Ident, token.SlashSlash, token.Ident, token.Newline, token.EOF,
	})
}

func TestUnknownCharReported(t *testing.T) {
	_, bag := lexSource(t, "let x = $\n")
	if !hasCode(bag, diag.LexUnknownChar) {
		t.Fatalf("expected LexUnknownChar, got %v", bag.Items())
	}
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}
