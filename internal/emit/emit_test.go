package emit

import (
	"strings"
	"testing"

	"incan/internal/diag"
	"incan/internal/lower"
	"incan/internal/parser"
	"incan/internal/sema"
	"incan/internal/semcore"
	"incan/internal/source"
)

func lowerSource(t *testing.T, src string) *lower.Unit {
	t.Helper()
	fset := source.NewFileSet()
	id := fset.AddVirtual("test.in", []byte(src))
	bag := diag.NewBag(50)
	reporter := diag.NewBagReporter(bag)
	file := parser.ParseFile(fset, fset.Get(id), parser.Options{Reporter: reporter})
	res := sema.Check(file, sema.Options{Reporter: reporter})
	unit := lower.Lower(file, res, lower.Options{Reporter: reporter})
	if bag.HasErrors() {
		t.Fatalf("diagnostics before emission:\n%v", bag.Items())
	}
	return unit
}

func TestRenderDeterministic(t *testing.T) {
	src := strings.Join([]string{
		"const LIMIT: int = 3",
		"",
		"@derive(Eq, Hash)",
		"model Point:",
		"    x: int",
		"    y: int",
		"",
		"def dist(p: Point) -> int:",
		"    return p.x + p.y",
		"",
	}, "\n")
	unit := lowerSource(t, src)
	first := RenderModule(unit)
	for i := 0; i < 5; i++ {
		if got := RenderModule(unit); got != first {
			t.Fatalf("render %d differs from first render", i)
		}
	}
}

func TestSimpleFunctionRenders(t *testing.T) {
	unit := lowerSource(t, "def f(x: int) -> int:\n    return x + 1\n")
	out := RenderModule(unit)
	if !strings.Contains(out, "pub fn f(x: i64) -> i64 {") {
		t.Fatalf("missing signature in:\n%s", out)
	}
	if !strings.Contains(out, "return x + 1i64;") {
		t.Fatalf("missing body in:\n%s", out)
	}
}

func TestMainIsNotPub(t *testing.T) {
	unit := lowerSource(t, "def main():\n    print(\"hi\")\n")
	out := RenderModule(unit)
	if !strings.Contains(out, "\nfn main() {") {
		t.Fatalf("main must render unexported:\n%s", out)
	}
	if !strings.Contains(out, `println!("{}", "hi".to_string());`) {
		t.Fatalf("print lowering missing:\n%s", out)
	}
}

func TestReflectionFieldOrder(t *testing.T) {
	src := "@derive(Eq)\nmodel Pair:\n    first: int\n    second: str\n"
	unit := lowerSource(t, src)
	out := RenderModule(unit)
	if !strings.Contains(out, `vec!["first", "second"]`) {
		t.Fatalf("reflection must keep declaration order:\n%s", out)
	}
	if !strings.Contains(out, "impl FieldInfo for Pair {") {
		t.Fatalf("FieldInfo impl missing:\n%s", out)
	}
	if !strings.Contains(out, "self.first == other.first && self.second == other.second") {
		t.Fatalf("field-wise equality missing:\n%s", out)
	}
}

func TestDeriveAttribute(t *testing.T) {
	src := "@derive(Ord, Hash, Default)\nmodel M:\n    v: int\n"
	unit := lowerSource(t, src)
	out := RenderModule(unit)
	if !strings.Contains(out, "#[derive(Clone, Default, Hash, PartialOrd)]") {
		t.Fatalf("derive attribute wrong:\n%s", out)
	}
}

func TestManualEqDelegates(t *testing.T) {
	src := strings.Join([]string{
		"model M:",
		"    v: int",
		"",
		"    def __eq__(self, other: M) -> bool:",
		"        return self.v == other.v",
		"",
	}, "\n")
	unit := lowerSource(t, src)
	out := RenderModule(unit)
	if !strings.Contains(out, "self.__eq__(other.clone())") {
		t.Fatalf("manual eq must delegate:\n%s", out)
	}
	if !strings.Contains(out, "pub fn __eq__(&self, other: M) -> bool {") {
		t.Fatalf("inherent magic method missing:\n%s", out)
	}
}

func TestRuntimePanicsUseCanonicalMessages(t *testing.T) {
	unit := lowerSource(t, "def f(s: str, i: int) -> str:\n    return s[i]\n")
	out := RenderModule(unit)
	if !strings.Contains(out, "use incan_stdlib::str_index;") {
		t.Fatalf("str_index import missing:\n%s", out)
	}
	if !strings.Contains(out, "return str_index(&s, i);") {
		t.Fatalf("string indexing lowering wrong:\n%s", out)
	}
}

func TestParsePanicsQuotePolicyMessages(t *testing.T) {
	unit := lowerSource(t, "def f(s: str) -> int:\n    return int(s)\n")
	out := RenderModule(unit)
	if !strings.Contains(out, `.expect("`+semcore.MsgBadIntLiteral+`")`) {
		t.Fatalf("int() parse must panic with the canonical message:\n%s", out)
	}
	unit = lowerSource(t, "def g(s: str) -> float:\n    return float(s)\n")
	out = RenderModule(unit)
	if !strings.Contains(out, `.expect("`+semcore.MsgBadFloatLiteral+`")`) {
		t.Fatalf("float() parse must panic with the canonical message:\n%s", out)
	}
}

func TestComprehensionRenders(t *testing.T) {
	unit := lowerSource(t, "def f(xs: list[int]) -> list[int]:\n    return [x * 2 for x in xs if x > 0]\n")
	out := RenderModule(unit)
	if !strings.Contains(out, "let mut __items = Vec::new();") {
		t.Fatalf("comprehension block missing:\n%s", out)
	}
	if !strings.Contains(out, "for x in xs") {
		t.Fatalf("comprehension loop missing:\n%s", out)
	}
	if !strings.Contains(out, "if x > 0i64 { __items.push(x * 2i64); }") {
		t.Fatalf("filtered push missing:\n%s", out)
	}
}

func TestUseLinesSorted(t *testing.T) {
	src := "def f(a: int, b: int) -> float:\n    return a / b + a % b\n"
	unit := lowerSource(t, src)
	out := RenderModule(unit)
	div := strings.Index(out, "use incan_stdlib::py_div;")
	mod := strings.Index(out, "use incan_stdlib::py_mod_i64;")
	if div == -1 || mod == -1 || div > mod {
		t.Fatalf("imports missing or unsorted:\n%s", out)
	}
}

func TestManifestPinsRuntimePair(t *testing.T) {
	bag := diag.NewBag(10)
	out, ok := RenderManifest("demo", nil, diag.NewBagReporter(bag))
	if !ok {
		t.Fatalf("manifest failed:\n%v", bag.Items())
	}
	if !strings.Contains(out, "incan_stdlib") || !strings.Contains(out, "incan_derive") {
		t.Fatalf("runtime pair missing:\n%s", out)
	}
	if strings.Count(out, RuntimeVersion) != 2 {
		t.Fatalf("runtime versions not pinned together:\n%s", out)
	}
	if !strings.Contains(out, `name = "demo"`) {
		t.Fatalf("package name missing:\n%s", out)
	}
}

func TestManifestCuratedCrate(t *testing.T) {
	bag := diag.NewBag(10)
	out, ok := RenderManifest("demo", []string{"serde"}, diag.NewBagReporter(bag))
	if !ok {
		t.Fatalf("manifest failed:\n%v", bag.Items())
	}
	if !strings.Contains(out, "serde") || !strings.Contains(out, "derive") {
		t.Fatalf("serde dependency missing features:\n%s", out)
	}
}

func TestManifestRejectsUnknownCrate(t *testing.T) {
	bag := diag.NewBag(10)
	_, ok := RenderManifest("demo", []string{"leftpad"}, diag.NewBagReporter(bag))
	if ok {
		t.Fatal("unknown crate must fail")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.EmitUnknownCrate {
			found = true
		}
	}
	if !found {
		t.Fatalf("wrong diagnostics:\n%v", bag.Items())
	}
}
