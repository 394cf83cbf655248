package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/vmihailenco/msgpack/v5"

	"incan/internal/diag"
	"incan/internal/source"
)

func sampleBag(t *testing.T) (*source.FileSet, *diag.Bag) {
	t.Helper()
	fset := source.NewFileSet()
	id := fset.AddVirtual("main.in", []byte("let x = $\n"))
	bag := diag.NewBag(10)
	diag.Errorf(diag.NewBagReporter(bag), diag.LexUnknownChar,
		source.Span{File: id, Start: 8, End: 9}, "unknown character '$'").Emit()
	return fset, bag
}

func TestPrettyExcerpt(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	fset, bag := sampleBag(t)
	var buf bytes.Buffer
	WritePretty(&buf, fset, bag)
	out := buf.String()

	if !strings.Contains(out, "error[LEX1001]: unknown character '$'") {
		t.Fatalf("header missing:\n%s", out)
	}
	if !strings.Contains(out, "main.in:1:9") {
		t.Fatalf("position missing:\n%s", out)
	}
	if !strings.Contains(out, "let x = $") {
		t.Fatalf("excerpt missing:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("caret missing:\n%s", out)
	}
	if !strings.Contains(out, "1 error(s)") {
		t.Fatalf("summary missing:\n%s", out)
	}
}

func TestCaretUnderWideRunes(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	fset := source.NewFileSet()
	src := "let 名前 = $\n"
	id := fset.AddVirtual("wide.in", []byte(src))
	off := uint32(strings.Index(src, "$"))
	bag := diag.NewBag(10)
	diag.Errorf(diag.NewBagReporter(bag), diag.LexUnknownChar,
		source.Span{File: id, Start: off, End: off + 1}, "unknown character '$'").Emit()

	var buf bytes.Buffer
	WritePretty(&buf, fset, bag)
	lines := strings.Split(buf.String(), "\n")
	var srcLine, caretLine string
	for i, l := range lines {
		if strings.Contains(l, "名前") {
			srcLine = l
			caretLine = lines[i+1]
		}
	}
	if srcLine == "" || caretLine == "" {
		t.Fatalf("excerpt lines missing:\n%s", buf.String())
	}
	// "let 名前 = " occupies 11 display columns (each CJK rune is two), the
	// line-number gutter another 7, so the caret sits at column 18.
	want := strings.Repeat(" ", 18) + "^"
	if caretLine != want {
		t.Fatalf("caret misaligned:\nsrc:   %q\ngot:   %q\nwant:  %q", srcLine, caretLine, want)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	fset, bag := sampleBag(t)
	data, err := MarshalJSON(fset, bag)
	if err != nil {
		t.Fatal(err)
	}
	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("records = %d", len(recs))
	}
	r := recs[0]
	if r.Severity != "error" || r.Code != "LEX1001" || r.Line != 1 || r.Column != 9 {
		t.Fatalf("record = %+v", r)
	}
}

func TestMsgpackRoundTrip(t *testing.T) {
	fset, bag := sampleBag(t)
	data, err := MarshalMsgpack(fset, bag)
	if err != nil {
		t.Fatal(err)
	}
	var recs []Record
	if err := msgpack.Unmarshal(data, &recs); err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Message != "unknown character '$'" {
		t.Fatalf("records = %+v", recs)
	}
}
