package lower

import (
	"testing"

	"incan/internal/diag"
	"incan/internal/parser"
	"incan/internal/sema"
	"incan/internal/source"
)

func lowerSource(t *testing.T, src string) (*Unit, *diag.Bag) {
	t.Helper()
	fset := source.NewFileSet()
	id := fset.AddVirtual("test.in", []byte(src))
	bag := diag.NewBag(50)
	reporter := diag.NewBagReporter(bag)
	file := parser.ParseFile(fset, fset.Get(id), parser.Options{Reporter: reporter})
	if bag.HasErrors() {
		t.Fatalf("parse errors before lowering:\n%v", bag.Items())
	}
	res := sema.Check(file, sema.Options{Reporter: reporter})
	if bag.HasErrors() {
		t.Fatalf("check errors before lowering:\n%v", bag.Items())
	}
	unit := Lower(file, res, Options{Reporter: reporter})
	return unit, bag
}

func mustLower(t *testing.T, src string) *Unit {
	t.Helper()
	unit, bag := lowerSource(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics:\n%v", bag.Items())
	}
	return unit
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func findObligation(u *Unit, target, hook string) *Obligation {
	for i := range u.Obligations {
		if u.Obligations[i].Target == target && u.Obligations[i].Hook == hook {
			return &u.Obligations[i]
		}
	}
	return nil
}

func TestIntAddObligation(t *testing.T) {
	unit := mustLower(t, "def f(x: int) -> int:\n    return x + 1\n")
	ob := findObligation(unit, "int", "add")
	if ob == nil {
		t.Fatal("no add obligation for int")
	}
	if ob.Strategy != StrategyBuiltin {
		t.Fatalf("strategy = %d, want builtin", ob.Strategy)
	}
	if ob.Trait != "core::ops::Add" {
		t.Fatalf("trait = %s", ob.Trait)
	}
}

func TestObligationDeduped(t *testing.T) {
	unit := mustLower(t, "def f(x: int) -> int:\n    return x + 1 + 2 + 3\n")
	n := 0
	for _, ob := range unit.Obligations {
		if ob.Target == "int" && ob.Hook == "add" {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("add obligation recorded %d times", n)
	}
}

func TestDeriveEqObligation(t *testing.T) {
	src := "@derive(Eq)\nmodel Point:\n    x: int\n    y: int\n"
	unit := mustLower(t, src)
	ob := findObligation(unit, "Point", "eq")
	if ob == nil {
		t.Fatal("no eq obligation for Point")
	}
	if ob.Strategy != StrategyImpl {
		t.Fatalf("strategy = %d, want impl", ob.Strategy)
	}
	if len(ob.Fields) != 2 || ob.Fields[0] != "x" || ob.Fields[1] != "y" {
		t.Fatalf("fields = %v, want declaration order", ob.Fields)
	}
}

func TestCloneAlwaysDerived(t *testing.T) {
	unit := mustLower(t, "model Box:\n    v: int\n")
	if findObligation(unit, "Box", "clone") == nil {
		t.Fatal("clone obligation missing")
	}
	if len(unit.Models) != 1 {
		t.Fatalf("models = %d", len(unit.Models))
	}
	found := false
	for _, d := range unit.Models[0].Derives {
		if d == "Clone" {
			found = true
		}
	}
	if !found {
		t.Fatalf("derives = %v, want Clone", unit.Models[0].Derives)
	}
}

func TestOrdImpliesEq(t *testing.T) {
	src := "@derive(Ord)\nmodel P:\n    v: int\n"
	unit := mustLower(t, src)
	if findObligation(unit, "P", "ord") == nil {
		t.Fatal("ord obligation missing")
	}
	if findObligation(unit, "P", "eq") == nil {
		t.Fatal("ord must imply an eq obligation")
	}
}

func TestFieldsObligationUnconditional(t *testing.T) {
	unit := mustLower(t, "model M:\n    a: int\n    b: str\n")
	ob := findObligation(unit, "M", "fields")
	if ob == nil {
		t.Fatal("fields obligation missing")
	}
	if len(ob.Fields) != 2 || ob.Fields[0] != "a" || ob.Fields[1] != "b" {
		t.Fatalf("fields = %v", ob.Fields)
	}
	imports := unit.Imports()
	found := false
	for _, p := range imports {
		if p == "incan_stdlib::FieldInfo" {
			found = true
		}
	}
	if !found {
		t.Fatalf("imports = %v, want incan_stdlib::FieldInfo", imports)
	}
}

func TestUnknownDerive(t *testing.T) {
	src := "@derive(Frobnicate)\nmodel M:\n    v: int\n"
	_, bag := lowerSource(t, src)
	if !hasCode(bag, diag.LowUnknownDerive) {
		t.Fatal("unknown derive not reported")
	}
}

func TestDuplicateDerive(t *testing.T) {
	src := "@derive(Eq, Eq)\nmodel M:\n    v: int\n"
	_, bag := lowerSource(t, src)
	if !hasCode(bag, diag.LowDuplicateDerive) {
		t.Fatal("duplicate derive not reported")
	}
}

func TestDeriveConflictsWithMagicMethod(t *testing.T) {
	src := "@derive(Eq)\nmodel M:\n    v: int\n\n    def __eq__(self, other: M) -> bool:\n        return self.v == other.v\n"
	_, bag := lowerSource(t, src)
	if !hasCode(bag, diag.LowDeriveConflict) {
		t.Fatal("derive/manual conflict not reported")
	}
}

func TestManualEqObligation(t *testing.T) {
	src := "model M:\n    v: int\n\n    def __eq__(self, other: M) -> bool:\n        return self.v == other.v\n"
	unit := mustLower(t, src)
	ob := findObligation(unit, "M", "eq")
	if ob == nil {
		t.Fatal("manual eq obligation missing")
	}
	if ob.Strategy != StrategyManual {
		t.Fatalf("strategy = %d, want manual", ob.Strategy)
	}
	if ob.Method == nil {
		t.Fatal("manual obligation carries no method body")
	}
}

func TestDeriveOnFunctionRejected(t *testing.T) {
	src := "@derive(Eq)\ndef f() -> int:\n    return 1\n"
	_, bag := lowerSource(t, src)
	if !hasCode(bag, diag.LowDeriveNotOnModel) {
		t.Fatal("derive on function not reported")
	}
}

func TestDivLowersToRuntimeCall(t *testing.T) {
	unit := mustLower(t, "def f(a: int, b: int) -> float:\n    return a / b\n")
	imports := unit.Imports()
	found := false
	for _, p := range imports {
		if p == "incan_stdlib::py_div" {
			found = true
		}
	}
	if !found {
		t.Fatalf("imports = %v, want incan_stdlib::py_div", imports)
	}
}

func TestStringItemAssignmentRejected(t *testing.T) {
	_, bag := lowerSource(t, "def f(s: str):\n    s[0] = \"x\"\n")
	if !hasCode(bag, diag.LowImmutableContainer) {
		t.Fatalf("diagnostics = %v, want LOW4008", bag.Items())
	}
}

func TestStringIndexImport(t *testing.T) {
	unit := mustLower(t, "def f(s: str, i: int) -> str:\n    return s[i]\n")
	imports := unit.Imports()
	found := false
	for _, p := range imports {
		if p == "incan_stdlib::str_index" {
			found = true
		}
	}
	if !found {
		t.Fatalf("imports = %v, want incan_stdlib::str_index", imports)
	}
}

func TestSerdeCrateForSerialize(t *testing.T) {
	src := "@derive(Serialize, Deserialize)\nmodel M:\n    v: int\n"
	unit := mustLower(t, src)
	crates := unit.Crates()
	if len(crates) != 1 || crates[0] != "serde" {
		t.Fatalf("crates = %v, want serde", crates)
	}
}

func TestConstLowering(t *testing.T) {
	unit := mustLower(t, "const LIMIT: int = 7 * 2\nconst NAME: str = \"inca\"\n")
	if len(unit.Consts) != 2 {
		t.Fatalf("consts = %d", len(unit.Consts))
	}
	if unit.Consts[0].Value != "14" || unit.Consts[0].Type != "i64" {
		t.Fatalf("LIMIT lowered as %s %s", unit.Consts[0].Type, unit.Consts[0].Value)
	}
	if unit.Consts[1].Value != `"inca"` || unit.Consts[1].Type != "&str" {
		t.Fatalf("NAME lowered as %s %s", unit.Consts[1].Type, unit.Consts[1].Value)
	}
}

func TestObligationsSorted(t *testing.T) {
	src := "@derive(Ord, Hash)\nmodel Z:\n    v: int\n\n@derive(Eq)\nmodel A:\n    v: int\n"
	unit := mustLower(t, src)
	for i := 1; i < len(unit.Obligations); i++ {
		if unit.Obligations[i-1].Key() > unit.Obligations[i].Key() {
			t.Fatalf("obligations out of order at %d: %s > %s",
				i, unit.Obligations[i-1].Key(), unit.Obligations[i].Key())
		}
	}
}

func TestFloatLit(t *testing.T) {
	cases := map[float64]string{
		1.5: "1.5",
		2:   "2.0",
		0.1: "0.1",
	}
	for in, want := range cases {
		if got := floatLit(in); got != want {
			t.Errorf("floatLit(%v) = %s, want %s", in, got, want)
		}
	}
}

func TestRustStringLit(t *testing.T) {
	if got := RustStringLit("a\"b\\c\n"); got != `"a\"b\\c\n"` {
		t.Fatalf("got %s", got)
	}
}
