package lexer

import (
	"testing"

	"incan/internal/diag"
	"incan/internal/token"
)

func TestStringFamilies(t *testing.T) {
	toks, bag := lexSource(t, `let a = "hi"`+"\n"+`let b = b"\x00"`+"\n"+`let c = f"v={a}"`+"\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	var lits []token.Kind
	for _, tok := range toks {
		switch tok.Kind {
		case token.StringLit, token.BytesLit, token.FStringLit:
			lits = append(lits, tok.Kind)
		}
	}
	want := []token.Kind{token.StringLit, token.BytesLit, token.FStringLit}
	if len(lits) != len(want) {
		t.Fatalf("literal kinds = %v, want %v", lits, want)
	}
	for i := range want {
		if lits[i] != want[i] {
			t.Fatalf("literal kinds = %v, want %v", lits, want)
		}
	}
}

func TestStringTokenTextIsRawSlice(t *testing.T) {
	toks, _ := lexSource(t, `let s = "a\nb"`+"\n")
	for _, tok := range toks {
		if tok.Kind == token.StringLit {
			if tok.Text != `"a\nb"` {
				t.Fatalf("raw text = %q, want %q", tok.Text, `"a\nb"`)
			}
			return
		}
	}
	t.Fatal("no string literal found")
}

func TestUnterminatedString(t *testing.T) {
	_, bag := lexSource(t, `let s = "abc`+"\n")
	if !hasCode(bag, diag.LexUnterminatedString) {
		t.Fatalf("expected LexUnterminatedString, got %v", bag.Items())
	}
}

func TestUnterminatedFString(t *testing.T) {
	_, bag := lexSource(t, `let s = f"abc {x`+"\n")
	if !hasCode(bag, diag.LexUnterminatedFString) {
		t.Fatalf("expected LexUnterminatedFString, got %v", bag.Items())
	}
}

func TestBadEscapeReported(t *testing.T) {
	_, bag := lexSource(t, `let s = "a\qb"`+"\n")
	if !hasCode(bag, diag.LexBadEscape) {
		t.Fatalf("expected LexBadEscape, got %v", bag.Items())
	}
}

func TestBadEscapeDoesNotLoseLiteral(t *testing.T) {
	toks, _ := lexSource(t, `let s = "a\qb"`+"\n")
	for _, tok := range toks {
		if tok.Kind == token.StringLit {
			return // literal survived the bad escape
		}
	}
	t.Fatal("string literal lost after bad escape")
}

func TestUnicodeEscapeRejectedInBytes(t *testing.T) {
	_, bag := lexSource(t, `let s = b"\u{41}"`+"\n")
	if !hasCode(bag, diag.LexBadEscape) {
		t.Fatalf("expected LexBadEscape, got %v", bag.Items())
	}
}

func TestEmptyFStringExpr(t *testing.T) {
	_, bag := lexSource(t, `let s = f"x={}"`+"\n")
	if !hasCode(bag, diag.LexEmptyFStringExpr) {
		t.Fatalf("expected LexEmptyFStringExpr, got %v", bag.Items())
	}
}

func TestDoubledBracesAreLiteral(t *testing.T) {
	_, bag := lexSource(t, `let s = f"{{literal}}"`+"\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestDecodeEscapes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`plain`, "plain"},
		{`a\nb`, "a\nb"},
		{`a\tb`, "a\tb"},
		{`a\\b`, `a\b`},
		{`a\"b`, `a"b`},
		{`\x41`, "A"},
		{`\u{1F600}`, "\U0001F600"},
		{`\{and\}`, "{and}"},
	}
	for _, c := range cases {
		if got := DecodeEscapes(c.in); got != c.want {
			t.Errorf("DecodeEscapes(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestLiteralInner(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`"abc"`, "abc"},
		{`b"\x00"`, `\x00`},
		{`f"v={a}"`, "v={a}"},
		{`"unterminated`, "unterminated"},
	}
	for _, c := range cases {
		if got := LiteralInner(c.in); got != c.want {
			t.Errorf("LiteralInner(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNumberScanning(t *testing.T) {
	cases := []struct {
		src  string
		kind token.Kind
	}{
		{"0", token.IntLit},
		{"123", token.IntLit},
		{"1_000_000", token.IntLit},
		{"0b1010", token.IntLit},
		{"0o755", token.IntLit},
		{"0xFF_FF", token.IntLit},
		{"1.5", token.FloatLit},
		{".5", token.FloatLit},
		{"1e10", token.FloatLit},
		{"1.5e-3", token.FloatLit},
		{"2E+4", token.FloatLit},
	}
	for _, c := range cases {
		toks, bag := lexSource(t, "let x = "+c.src+"\n")
		if bag.HasErrors() {
			t.Errorf("%q: unexpected diagnostics: %v", c.src, bag.Items())
			continue
		}
		if toks[3].Kind != c.kind {
			t.Errorf("%q: kind = %v, want %v", c.src, toks[3].Kind, c.kind)
		}
		if toks[3].Text != c.src {
			t.Errorf("%q: text = %q", c.src, toks[3].Text)
		}
	}
}

func TestTrailingDotIsError(t *testing.T) {
	_, bag := lexSource(t, "let x = 1.\n")
	if !hasCode(bag, diag.LexBadNumber) {
		t.Fatalf("expected LexBadNumber, got %v", bag.Items())
	}
}

func TestEmptyBasedLiteralIsError(t *testing.T) {
	_, bag := lexSource(t, "let x = 0x\n")
	if !hasCode(bag, diag.LexBadNumber) {
		t.Fatalf("expected LexBadNumber, got %v", bag.Items())
	}
}

func TestMethodCallOnInt(t *testing.T) {
	toks, bag := lexSource(t, "let x = 1.str()\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	expectKinds(t, toks, []token.Kind{
		token.KwLet, token.Ident, token.Assign, token.IntLit, token.Dot,
		token.Ident, token.LParen, token.RParen, token.Newline, token.EOF,
	})
}
