package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	cases := []struct {
		ident string
		kind  Kind
		ok    bool
	}{
		{"def", KwDef, true},
		{"model", KwModel, true},
		{"trait", KwTrait, true},
		{"True", BoolLit, true},
		{"False", BoolLit, true},
		{"None", NoneLit, true},
		{"Def", Invalid, false}, // case-sensitive
		{"defx", Invalid, false},
		{"", Invalid, false},
	}
	for _, c := range cases {
		kind, ok := LookupKeyword(c.ident)
		if ok != c.ok {
			t.Errorf("LookupKeyword(%q): ok = %v, want %v", c.ident, ok, c.ok)
			continue
		}
		if ok && kind != c.kind {
			t.Errorf("LookupKeyword(%q) = %v, want %v", c.ident, kind, c.kind)
		}
	}
}

func TestKeywordTokensReportIsKeyword(t *testing.T) {
	for ident, kind := range keywords {
		tok := Token{Kind: kind, Text: ident}
		if tok.IsLiteral() && tok.IsKeyword() {
			t.Errorf("%q classified as both literal and keyword", ident)
		}
		if !tok.IsLiteral() && !tok.IsKeyword() {
			t.Errorf("%q classified as neither literal nor keyword", ident)
		}
	}
}
