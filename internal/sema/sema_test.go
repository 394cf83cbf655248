package sema

import (
	"strings"
	"testing"

	"incan/internal/ast"
	"incan/internal/diag"
	"incan/internal/parser"
	"incan/internal/source"
)

func checkSource(t *testing.T, src string) (*Result, *diag.Bag) {
	t.Helper()
	fset := source.NewFileSet()
	id := fset.AddVirtual("test.in", []byte(src))
	bag := diag.NewBag(50)
	reporter := diag.NewBagReporter(bag)
	file := parser.ParseFile(fset, fset.Get(id), parser.Options{Reporter: reporter})
	if bag.HasErrors() {
		t.Fatalf("parse errors before checking:\n%v", bag.Items())
	}
	res := Check(file, Options{Reporter: reporter})
	return res, bag
}

func mustCheck(t *testing.T, src string) *Result {
	t.Helper()
	res, bag := checkSource(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics:\n%v", bag.Items())
	}
	return res
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestSimpleFunction(t *testing.T) {
	res := mustCheck(t, "def add(a: int, b: int) -> int:\n    return a + b\n")
	fi := res.Module.Funcs["add"]
	if fi == nil {
		t.Fatal("add not collected")
	}
	if fi.Result.String() != "int" {
		t.Fatalf("result = %s", fi.Result)
	}
}

func TestForwardReference(t *testing.T) {
	src := "def caller() -> int:\n    return callee()\n\ndef callee() -> int:\n    return 1\n"
	mustCheck(t, src)
}

func TestNumericPromotion(t *testing.T) {
	src := "def f(a: int, b: float) -> float:\n    return a / 2 + b\n"
	mustCheck(t, src)
}

func TestDivIsAlwaysFloat(t *testing.T) {
	src := "def f(a: int) -> int:\n    return a / 2\n"
	_, bag := checkSource(t, src)
	if !hasCode(bag, diag.SemaTypeMismatch) {
		t.Fatal("int return of float division must be rejected")
	}
}

func TestPowLiteralRule(t *testing.T) {
	mustCheck(t, "def f(a: int) -> int:\n    return a ** 2\n")

	_, bag := checkSource(t, "def f(a: int) -> int:\n    return a ** -1\n")
	if !hasCode(bag, diag.SemaTypeMismatch) {
		t.Fatal("negative literal exponent must yield float")
	}

	_, bag = checkSource(t, "def f(a: int, n: int) -> int:\n    return a ** n\n")
	if !hasCode(bag, diag.SemaTypeMismatch) {
		t.Fatal("variable exponent must yield float")
	}
}

func TestUnresolvedName(t *testing.T) {
	_, bag := checkSource(t, "def f() -> int:\n    return missing\n")
	if !hasCode(bag, diag.SemaUnresolvedName) {
		t.Fatal("expected unresolved name diagnostic")
	}
}

func TestImmutableAssignment(t *testing.T) {
	src := "def f():\n    let x = 1\n    x = 2\n"
	_, bag := checkSource(t, src)
	if !hasCode(bag, diag.SemaAssignImmutable) {
		t.Fatal("assignment to let binding must be rejected")
	}

	mustCheck(t, "def f():\n    mut x = 1\n    x = 2\n")
}

func TestModelConstructorAndFields(t *testing.T) {
	src := strings.Join([]string{
		"model Point:",
		"    x: float",
		"    y: float",
		"",
		"def origin() -> Point:",
		"    return Point(x=0.0, y=0.0)",
		"",
		"def norm(p: Point) -> float:",
		"    return p.x * p.x + p.y * p.y",
		"",
	}, "\n")
	res := mustCheck(t, src)
	m := res.Module.Models["Point"]
	if m == nil || len(m.Fields) != 2 {
		t.Fatalf("Point fields not collected: %+v", m)
	}
	if m.Fields[0].Name != "x" || m.Fields[1].Name != "y" {
		t.Fatal("field order not preserved")
	}
}

func TestUnknownFieldReported(t *testing.T) {
	src := "model P:\n    x: int\n\ndef f(p: P) -> int:\n    return p.z\n"
	_, bag := checkSource(t, src)
	if !hasCode(bag, diag.SemaUnknownField) {
		t.Fatal("expected unknown field diagnostic")
	}
}

func TestModelEqualityNeedsDerive(t *testing.T) {
	src := "model P:\n    x: int\n\ndef f(a: P, b: P) -> bool:\n    return a == b\n"
	_, bag := checkSource(t, src)
	if !hasCode(bag, diag.SemaNoCapability) {
		t.Fatal("undeclared equality must be rejected")
	}

	derived := "@derive(Eq)\nmodel P:\n    x: int\n\ndef f(a: P, b: P) -> bool:\n    return a == b\n"
	mustCheck(t, derived)
}

func TestMagicMethodGrantsCapability(t *testing.T) {
	src := strings.Join([]string{
		"model P:",
		"    x: int",
		"",
		"    def __eq__(self, other: Self) -> bool:",
		"        return self.x == other.x",
		"",
		"def f(a: P, b: P) -> bool:",
		"    return a == b",
		"",
	}, "\n")
	mustCheck(t, src)
}

func TestConstStringIndexParity(t *testing.T) {
	src := "const GREETING = \"hi\"\n\ndef f() -> str:\n    return GREETING[5]\n"
	_, bag := checkSource(t, src)
	if !hasCode(bag, diag.SemaConstIndexRange) {
		t.Fatal("constant out-of-range index must be reported")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SemaConstIndexRange && d.Message == "IndexError: string index out of range" {
			found = true
		}
	}
	if !found {
		t.Fatal("diagnostic must carry the canonical runtime message")
	}
}

func TestConstSliceStepZero(t *testing.T) {
	src := "def f(s: str) -> str:\n    return s[::0]\n"
	_, bag := checkSource(t, src)
	if !hasCode(bag, diag.SemaConstSliceStep) {
		t.Fatal("constant zero step must be reported")
	}
}

func TestNegativeConstIndexInRange(t *testing.T) {
	mustCheck(t, "const G = \"hello\"\n\ndef f() -> str:\n    return G[-1]\n")
}

func TestConstFolding(t *testing.T) {
	res := mustCheck(t, "const N = 2 + 3 * 4\nconst HALF = 7 // 2\n")
	if v := res.Module.Consts["N"].Value; v.Kind != ValInt || v.Int != 14 {
		t.Fatalf("N folded to %v", v)
	}
	if v := res.Module.Consts["HALF"].Value; v.Kind != ValInt || v.Int != 3 {
		t.Fatalf("HALF folded to %v", v)
	}
}

func TestConstIntOrderingStaysExact(t *testing.T) {
	// Both operands round to the same float64; the i64 comparison the
	// generated code performs can still tell them apart.
	src := "const BIG = 9007199254740993 > 9007199254740992\n"
	res := mustCheck(t, src)
	if v := res.Module.Consts["BIG"].Value; v.Kind != ValBool || !v.Bool {
		t.Fatalf("BIG folded to %v, want True", v)
	}
}

func TestConstPowOverflowReported(t *testing.T) {
	_, bag := checkSource(t, "const X = 2 ** 9223372036854775807\n")
	if !hasCode(bag, diag.SemaConstOverflow) {
		t.Fatal("overflowing constant power must be reported")
	}
	_, bag = checkSource(t, "const Y = 2 ** 64\n")
	if !hasCode(bag, diag.SemaConstOverflow) {
		t.Fatal("wrapping constant power must be reported")
	}
}

func TestConstPowLargeExponentDegenerateBases(t *testing.T) {
	res := mustCheck(t, "const A = 1 ** 9223372036854775807\nconst B = 0 ** 9223372036854775807\n")
	if v := res.Module.Consts["A"].Value; v.Kind != ValInt || v.Int != 1 {
		t.Fatalf("A folded to %v", v)
	}
	if v := res.Module.Consts["B"].Value; v.Kind != ValInt || v.Int != 0 {
		t.Fatalf("B folded to %v", v)
	}
}

func TestConstDivisionByZero(t *testing.T) {
	_, bag := checkSource(t, "const BAD = 1 // 0\n")
	if !hasCode(bag, diag.SemaDivisionByZero) {
		t.Fatal("constant division by zero must be reported")
	}
}

func TestThreeIndependentErrors(t *testing.T) {
	src := strings.Join([]string{
		"def a() -> int:",
		"    return missing_a",
		"",
		"def b() -> int:",
		"    return missing_b",
		"",
		"def c() -> int:",
		"    return missing_c",
		"",
	}, "\n")
	_, bag := checkSource(t, src)
	if bag.ErrorCount() != 3 {
		t.Fatalf("errors = %d, want 3:\n%v", bag.ErrorCount(), bag.Items())
	}
}

func TestMembership(t *testing.T) {
	mustCheck(t, "def f(s: str) -> bool:\n    return \"x\" in s\n")

	_, bag := checkSource(t, "def f(s: str) -> bool:\n    return 1 in s\n")
	if !hasCode(bag, diag.SemaMembershipMismatch) {
		t.Fatal("int in str must be rejected")
	}
}

func TestForIteration(t *testing.T) {
	src := "def f(xs: list[int]) -> int:\n    mut total = 0\n    for x in xs:\n        total += x\n    return total\n"
	mustCheck(t, src)

	_, bag := checkSource(t, "def f(n: int):\n    for x in n:\n        pass\n")
	if !hasCode(bag, diag.SemaNotIterable) {
		t.Fatal("iterating an int must be rejected")
	}
}

func TestListComprehensionTypes(t *testing.T) {
	res := mustCheck(t, "def f(xs: list[int]) -> list[int]:\n    return [x * 2 for x in xs if x > 0]\n")
	var found bool
	for e, ty := range res.ExprTypes {
		if _, ok := e.(*ast.ListCompExpr); ok {
			if ty.String() != "list[int]" {
				t.Fatalf("comprehension resolved to %s, want list[int]", ty)
			}
			found = true
		}
	}
	if !found {
		t.Fatal("comprehension type not recorded")
	}

	mustCheck(t, "def g(s: str) -> list[str]:\n    return [c for c in s]\n")
}

func TestListComprehensionErrors(t *testing.T) {
	_, bag := checkSource(t, "def f(n: int) -> list[int]:\n    return [x for x in n]\n")
	if !hasCode(bag, diag.SemaNotIterable) {
		t.Fatal("comprehension over an int must be rejected")
	}

	_, bag = checkSource(t, "def f(xs: list[int]) -> list[int]:\n    return [x for x in xs]\n\ndef g() -> int:\n    return x\n")
	if !hasCode(bag, diag.SemaUnresolvedName) {
		t.Fatal("comprehension variable must not leak out of the comprehension")
	}
}

func TestBreakOutsideLoop(t *testing.T) {
	_, bag := checkSource(t, "def f():\n    break\n")
	if !hasCode(bag, diag.SemaBreakOutsideLoop) {
		t.Fatal("break outside loop must be rejected")
	}
}

func TestMissingReturn(t *testing.T) {
	src := "def f(a: int) -> int:\n    if a > 0:\n        return 1\n"
	_, bag := checkSource(t, src)
	if !hasCode(bag, diag.SemaMissingReturn) {
		t.Fatal("missing return must be reported")
	}

	covered := "def f(a: int) -> int:\n    if a > 0:\n        return 1\n    else:\n        return 2\n"
	mustCheck(t, covered)
}

func TestFStringInterpolation(t *testing.T) {
	mustCheck(t, "def f(n: int) -> str:\n    return f\"n is {n}\"\n")

	src := "model P:\n    x: int\n\ndef f(p: P) -> str:\n    return f\"{p}\"\n"
	_, bag := checkSource(t, src)
	if !hasCode(bag, diag.SemaNoCapability) {
		t.Fatal("interpolating a model without Display must be rejected")
	}
}

func TestBuiltins(t *testing.T) {
	mustCheck(t, "def f(s: str) -> int:\n    print(s)\n    return len(s)\n")
	mustCheck(t, "def f() -> int:\n    mut total = 0\n    for i in range(10):\n        total += i\n    return total\n")
}

func TestExprTypesRecorded(t *testing.T) {
	res := mustCheck(t, "def f(a: int, b: float) -> float:\n    return a + b\n")
	var found bool
	for e, ty := range res.ExprTypes {
		if bin, ok := e.(*ast.BinaryExpr); ok && bin.Op == ast.OpAdd {
			if ty.String() != "float" {
				t.Fatalf("a + b resolved to %s, want float", ty)
			}
			found = true
		}
	}
	if !found {
		t.Fatal("binary expression type not recorded")
	}
}

func TestTraitSatisfaction(t *testing.T) {
	src := strings.Join([]string{
		"trait Greeter:",
		"    def greet(self) -> str",
		"",
		"model En:",
		"    name: str",
		"",
		"    def greet(self) -> str:",
		"        return self.name",
		"",
		"def hello(g: Greeter) -> str:",
		"    return g.greet()",
		"",
		"def main() -> str:",
		"    return hello(En(name=\"sam\"))",
		"",
	}, "\n")
	mustCheck(t, src)
}

func checkWithDeps(t *testing.T, src string, deps map[string]*ModuleInfo) (*Result, *diag.Bag) {
	t.Helper()
	fset := source.NewFileSet()
	id := fset.AddVirtual("test.in", []byte(src))
	bag := diag.NewBag(50)
	reporter := diag.NewBagReporter(bag)
	file := parser.ParseFile(fset, fset.Get(id), parser.Options{Reporter: reporter})
	if bag.HasErrors() {
		t.Fatalf("parse errors before checking:\n%v", bag.Items())
	}
	res := Collect(file, Options{Reporter: reporter, Deps: deps})
	CheckBodies(file, res, Options{Reporter: reporter, Deps: deps})
	return res, bag
}

func collectDep(t *testing.T, name, src string) *ModuleInfo {
	t.Helper()
	fset := source.NewFileSet()
	id := fset.AddVirtual(name+".in", []byte(src))
	bag := diag.NewBag(50)
	file := parser.ParseFile(fset, fset.Get(id), parser.Options{Reporter: diag.NewBagReporter(bag)})
	res := Check(file, Options{Reporter: diag.NewBagReporter(bag)})
	if bag.HasErrors() {
		t.Fatalf("dependency %s failed:\n%v", name, bag.Items())
	}
	return res.Module
}

func TestFromImportBindsSymbols(t *testing.T) {
	deps := map[string]*ModuleInfo{
		"util": collectDep(t, "util", "const LIMIT: int = 9\n\ndef twice(n: int) -> int:\n    return n * 2\n"),
	}
	src := "from util import twice, LIMIT\n\ndef f() -> int:\n    return twice(LIMIT)\n"
	res, bag := checkWithDeps(t, src, deps)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics:\n%v", bag.Items())
	}
	if res.Module.ImportedFuncs["twice"] == nil || res.Module.ImportedConsts["LIMIT"] == nil {
		t.Fatalf("bindings missing: %+v", res.Module)
	}
}

func TestImportAliasBindsModuleName(t *testing.T) {
	deps := map[string]*ModuleInfo{
		"util": collectDep(t, "util", "def twice(n: int) -> int:\n    return n * 2\n"),
	}
	src := "import util as u\n\ndef f() -> int:\n    return u.twice(3)\n"
	_, bag := checkWithDeps(t, src, deps)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics:\n%v", bag.Items())
	}

	_, bag = checkWithDeps(t, "import util as u\n\ndef f() -> int:\n    return u.ghost(3)\n", deps)
	if !hasCode(bag, diag.SemaUnresolvedName) {
		t.Fatal("unknown qualified symbol must be reported")
	}
}

func TestImportedModelUsableInAnnotations(t *testing.T) {
	deps := map[string]*ModuleInfo{
		"geom": collectDep(t, "geom", "@derive(Eq)\nmodel Point:\n    x: int\n    y: int\n"),
	}
	src := strings.Join([]string{
		"from geom import Point",
		"",
		"def shift(p: Point, dx: int) -> Point:",
		"    return Point(x=p.x + dx, y=p.y)",
		"",
	}, "\n")
	_, bag := checkWithDeps(t, src, deps)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics:\n%v", bag.Items())
	}
}

func TestMissingImportItemReported(t *testing.T) {
	deps := map[string]*ModuleInfo{
		"util": collectDep(t, "util", "def twice(n: int) -> int:\n    return n * 2\n"),
	}
	_, bag := checkWithDeps(t, "from util import ghost\n", deps)
	if !hasCode(bag, diag.SemaUnresolvedName) {
		t.Fatal("missing import item must be reported")
	}
}

func TestDuplicateTopLevel(t *testing.T) {
	_, bag := checkSource(t, "def f():\n    pass\n\ndef f():\n    pass\n")
	if !hasCode(bag, diag.SemaDuplicateSymbol) {
		t.Fatal("duplicate declaration must be reported")
	}
}
