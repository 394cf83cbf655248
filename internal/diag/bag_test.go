package diag

import (
	"strings"
	"testing"

	"incan/internal/source"
)

func span(file source.FileID, start, end uint32) source.Span {
	return source.Span{File: file, Start: start, End: end}
}

func TestBagCap(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(Diagnostic{Severity: SevError, Code: LexUnknownChar}) {
		t.Fatal("first Add dropped")
	}
	if !bag.Add(Diagnostic{Severity: SevError, Code: LexBadNumber}) {
		t.Fatal("second Add dropped")
	}
	if bag.Add(Diagnostic{Severity: SevError, Code: LexBadEscape}) {
		t.Fatal("Add above cap accepted")
	}
	if bag.Len() != 2 {
		t.Fatalf("Len = %d, want 2", bag.Len())
	}
}

func TestBagHasErrors(t *testing.T) {
	bag := NewBag(10)
	bag.Add(Diagnostic{Severity: SevWarning, Code: SynUnexpectedToken})
	if bag.HasErrors() {
		t.Fatal("warning-only bag reports errors")
	}
	bag.Add(Diagnostic{Severity: SevError, Code: SynExpectColon})
	if !bag.HasErrors() {
		t.Fatal("bag with an error reports none")
	}
	if bag.ErrorCount() != 1 {
		t.Fatalf("ErrorCount = %d, want 1", bag.ErrorCount())
	}
}

func TestBagSortOrder(t *testing.T) {
	bag := NewBag(10)
	bag.Add(Diagnostic{Severity: SevError, Code: SynExpectColon, Primary: span(1, 5, 6)})
	bag.Add(Diagnostic{Severity: SevError, Code: LexUnknownChar, Primary: span(0, 10, 11)})
	bag.Add(Diagnostic{Severity: SevWarning, Code: SemaTypeMismatch, Primary: span(0, 10, 11)})
	bag.Add(Diagnostic{Severity: SevError, Code: LexBadNumber, Primary: span(0, 2, 4)})
	bag.Sort()

	items := bag.Items()
	wantCodes := []Code{LexBadNumber, LexUnknownChar, SemaTypeMismatch, SynExpectColon}
	for i, want := range wantCodes {
		if items[i].Code != want {
			t.Errorf("item %d: code = %s, want %s", i, items[i].Code.ID(), want.ID())
		}
	}
	// Same span: errors sort before warnings.
	if items[1].Severity != SevError || items[2].Severity != SevWarning {
		t.Error("error did not sort before warning at equal span")
	}
}

func TestBagMergeGrowsCap(t *testing.T) {
	a := NewBag(1)
	a.Add(Diagnostic{Severity: SevError, Code: LexUnknownChar})
	b := NewBag(1)
	b.Add(Diagnostic{Severity: SevError, Code: LexBadNumber})
	a.Merge(b)
	if a.Len() != 2 {
		t.Fatalf("merged Len = %d, want 2", a.Len())
	}
}

func TestBagDedup(t *testing.T) {
	bag := NewBag(10)
	d := Diagnostic{Severity: SevError, Code: SemaUnresolvedName, Primary: span(0, 3, 7)}
	bag.Add(d)
	bag.Add(d)
	bag.Add(Diagnostic{Severity: SevError, Code: SemaUnresolvedName, Primary: span(0, 9, 12)})
	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("deduped Len = %d, want 2", bag.Len())
	}
}

func TestCodeID(t *testing.T) {
	cases := []struct {
		code Code
		want string
	}{
		{LexUnknownChar, "LEX1001"},
		{SynUnexpectedToken, "SYN2001"},
		{SemaTypeMismatch, "SEM3003"},
		{LowDeriveConflict, "LOW4002"},
		{EmitBuildFailed, "EMT5002"},
		{IOLoadFileError, "IO6001"},
		{ProjImportCycle, "PRJ7003"},
	}
	for _, c := range cases {
		if got := c.code.ID(); got != c.want {
			t.Errorf("ID(%d) = %q, want %q", c.code, got, c.want)
		}
	}
}

func TestFormatGolden(t *testing.T) {
	fset := source.NewFileSet()
	id := fset.AddVirtual("main.in", []byte("let x = $\nlet y = 2\n"))

	bag := NewBag(10)
	Errorf(NewBagReporter(bag), LexUnknownChar, span(id, 8, 9), "unknown character '$'").Emit()
	bag.Sort()

	got := FormatGolden(fset, bag)
	want := "error LEX1001 main.in:1:9 unknown character '$'\n"
	if got != want {
		t.Errorf("golden output:\n%q\nwant:\n%q", got, want)
	}
}

func TestFormatGoldenNotes(t *testing.T) {
	fset := source.NewFileSet()
	id := fset.AddVirtual("lib.in", []byte("def f():\n    pass\n"))

	bag := NewBag(10)
	Errorf(NewBagReporter(bag), SemaDuplicateSymbol, span(id, 4, 5), "duplicate symbol 'f'").
		Note(span(id, 4, 5), "first defined here").
		Emit()

	got := FormatGolden(fset, bag)
	if !strings.Contains(got, "    note lib.in:1:5 first defined here") {
		t.Errorf("missing note line in:\n%s", got)
	}
}
