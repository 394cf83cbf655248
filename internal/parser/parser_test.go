package parser

import (
	"testing"

	"incan/internal/ast"
	"incan/internal/diag"
	"incan/internal/source"
)

func parseSource(t *testing.T, src string) (*ast.File, *diag.Bag) {
	t.Helper()
	fset := source.NewFileSet()
	id := fset.AddVirtual("test.in", []byte(src))
	bag := diag.NewBag(50)
	file := ParseFile(fset, fset.Get(id), Options{Reporter: diag.NewBagReporter(bag)})
	return file, bag
}

func mustParse(t *testing.T, src string) *ast.File {
	t.Helper()
	file, bag := parseSource(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics:\n%v", bag.Items())
	}
	return file
}

func TestInlineFunction(t *testing.T) {
	file := mustParse(t, "def f(x: int) -> int: return x + 1\n")
	if len(file.Decls) != 1 {
		t.Fatalf("decls = %d, want 1", len(file.Decls))
	}
	fn, ok := file.Decls[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("decl is %T, want *ast.FuncDecl", file.Decls[0])
	}
	if fn.Name.Name != "f" || len(fn.Params) != 1 || fn.Params[0].Name.Name != "x" {
		t.Fatalf("bad signature: %+v", fn)
	}
	if ast.TypeString(fn.Return) != "int" {
		t.Fatalf("return type = %s", ast.TypeString(fn.Return))
	}
	ret, ok := fn.Body.Stmts[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("body stmt is %T", fn.Body.Stmts[0])
	}
	bin, ok := ret.Value.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.OpAdd {
		t.Fatalf("return value is %T", ret.Value)
	}
}

func TestBlockFunction(t *testing.T) {
	src := "def sum(a: int, b: int) -> int:\n    let total = a + b\n    return total\n"
	file := mustParse(t, src)
	fn := file.Decls[0].(*ast.FuncDecl)
	if len(fn.Body.Stmts) != 2 {
		t.Fatalf("body stmts = %d, want 2", len(fn.Body.Stmts))
	}
}

func TestModelFieldOrder(t *testing.T) {
	src := "model Point:\n    x: int\n    y: int\n    label: str = \"origin\"\n"
	file := mustParse(t, src)
	m := file.Decls[0].(*ast.ModelDecl)
	want := []string{"x", "y", "label"}
	if len(m.Fields) != len(want) {
		t.Fatalf("fields = %d, want %d", len(m.Fields), len(want))
	}
	for i, name := range want {
		if m.Fields[i].Name.Name != name {
			t.Errorf("field %d = %s, want %s", i, m.Fields[i].Name.Name, name)
		}
	}
	if m.Fields[2].Default == nil {
		t.Error("label default lost")
	}
}

func TestModelWithMethods(t *testing.T) {
	src := "model Counter:\n    n: int\n\n    def bump(self) -> int:\n        return self.n + 1\n"
	file := mustParse(t, src)
	m := file.Decls[0].(*ast.ModelDecl)
	if len(m.Fields) != 1 || len(m.Methods) != 1 {
		t.Fatalf("fields=%d methods=%d", len(m.Fields), len(m.Methods))
	}
	if m.Methods[0].SelfParam == nil {
		t.Fatal("method lost its self parameter")
	}
}

func TestDuplicateFieldReported(t *testing.T) {
	src := "model P:\n    x: int\n    x: int\n"
	_, bag := parseSource(t, src)
	if !hasCode(bag, diag.SynDuplicateField) {
		t.Fatalf("expected SynDuplicateField, got %v", bag.Items())
	}
}

func TestTraitSignatures(t *testing.T) {
	src := "trait Shape:\n    def area(self) -> float\n    def name(self) -> str\n"
	file := mustParse(t, src)
	tr := file.Decls[0].(*ast.TraitDecl)
	if len(tr.Methods) != 2 {
		t.Fatalf("methods = %d, want 2", len(tr.Methods))
	}
	if tr.Methods[0].Body != nil {
		t.Fatal("trait method must have no body")
	}
}

func TestImportForms(t *testing.T) {
	src := "import utils::math as m\nfrom geometry import area, perimeter as per\n"
	file := mustParse(t, src)
	if len(file.Decls) != 2 {
		t.Fatalf("decls = %d, want 2", len(file.Decls))
	}
	imp := file.Decls[0].(*ast.ImportDecl)
	if len(imp.Path) != 2 || imp.Alias == nil || imp.Alias.Name != "m" {
		t.Fatalf("bad import: %+v", imp)
	}
	from := file.Decls[1].(*ast.ImportDecl)
	if len(from.Items) != 2 || from.Items[1].Alias.Name != "per" {
		t.Fatalf("bad from-import: %+v", from)
	}
}

func TestConstDecl(t *testing.T) {
	file := mustParse(t, "pub const LIMIT: int = 100\n")
	c := file.Decls[0].(*ast.ConstDecl)
	if !c.Pub || c.Name.Name != "LIMIT" || ast.TypeString(c.Type) != "int" {
		t.Fatalf("bad const: %+v", c)
	}
}

func TestDecorators(t *testing.T) {
	src := "@derive(Eq, Hash)\nmodel Id:\n    value: int\n"
	file := mustParse(t, src)
	m := file.Decls[0].(*ast.ModelDecl)
	if len(m.Decorators) != 1 {
		t.Fatalf("decorators = %d, want 1", len(m.Decorators))
	}
	d := m.Decorators[0]
	if d.Name.Name != "derive" || len(d.Args) != 2 {
		t.Fatalf("bad decorator: %+v", d)
	}
}

func TestPrecedence(t *testing.T) {
	src := "def f() -> int: return 1 + 2 * 3 ** 2\n"
	file := mustParse(t, src)
	fn := file.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	add := ret.Value.(*ast.BinaryExpr)
	if add.Op != ast.OpAdd {
		t.Fatalf("root op = %v, want +", add.Op)
	}
	mul := add.RHS.(*ast.BinaryExpr)
	if mul.Op != ast.OpMul {
		t.Fatalf("rhs op = %v, want *", mul.Op)
	}
	pow := mul.RHS.(*ast.BinaryExpr)
	if pow.Op != ast.OpPow {
		t.Fatalf("inner op = %v, want **", pow.Op)
	}
}

func TestNotInAndComparisons(t *testing.T) {
	src := "def f(x: int, xs: List[int]) -> bool: return x not in xs\n"
	file := mustParse(t, src)
	fn := file.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	bin := ret.Value.(*ast.BinaryExpr)
	if bin.Op != ast.OpNotIn {
		t.Fatalf("op = %v, want not in", bin.Op)
	}
}

func TestUnaryAndPowerAssociativity(t *testing.T) {
	src := "def f() -> int: return -2 ** 2 ** 3\n"
	file := mustParse(t, src)
	fn := file.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	neg, ok := ret.Value.(*ast.UnaryExpr)
	if !ok || neg.Op != ast.OpNeg {
		t.Fatalf("-2 ** n must parse as -(2 ** n), got %T", ret.Value)
	}
	outer := neg.X.(*ast.BinaryExpr)
	if outer.Op != ast.OpPow {
		t.Fatalf("op = %v, want **", outer.Op)
	}
	// Right-associative: 2 ** (2 ** 3).
	if _, ok := outer.RHS.(*ast.BinaryExpr); !ok {
		t.Fatal("power must be right-associative")
	}
}

func TestSliceForms(t *testing.T) {
	src := "def f(s: str) -> str: return s[1:4:2]\n"
	file := mustParse(t, src)
	fn := file.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	sl := ret.Value.(*ast.SliceExpr)
	if sl.Start == nil || sl.End == nil || sl.Step == nil {
		t.Fatalf("slice parts lost: %+v", sl)
	}

	src = "def g(s: str) -> str: return s[:2]\n"
	file = mustParse(t, src)
	fn = file.Decls[0].(*ast.FuncDecl)
	sl = fn.Body.Stmts[0].(*ast.ReturnStmt).Value.(*ast.SliceExpr)
	if sl.Start != nil || sl.End == nil || sl.Step != nil {
		t.Fatalf("open slice parts wrong: %+v", sl)
	}
}

func TestSliceAdjacentColons(t *testing.T) {
	cases := []struct {
		src              string
		start, end, step bool
	}{
		{"def f(s: str) -> str: return s[::2]\n", false, false, true},
		{"def f(s: str) -> str: return s[::]\n", false, false, false},
		{"def f(s: str) -> str: return s[1::2]\n", true, false, true},
		{"def f(s: str) -> str: return s[1::]\n", true, false, false},
	}
	for _, c := range cases {
		file := mustParse(t, c.src)
		fn := file.Decls[0].(*ast.FuncDecl)
		sl := fn.Body.Stmts[0].(*ast.ReturnStmt).Value.(*ast.SliceExpr)
		if (sl.Start != nil) != c.start || (sl.End != nil) != c.end || (sl.Step != nil) != c.step {
			t.Fatalf("%s: slice parts wrong: %+v", c.src, sl)
		}
	}
}

func TestListComprehension(t *testing.T) {
	src := "def f(xs: list[int]) -> list[int]: return [x * 2 for x in xs if x > 0]\n"
	file := mustParse(t, src)
	fn := file.Decls[0].(*ast.FuncDecl)
	comp := fn.Body.Stmts[0].(*ast.ReturnStmt).Value.(*ast.ListCompExpr)
	if comp.Var.Name != "x" || comp.Cond == nil {
		t.Fatalf("comprehension parts lost: %+v", comp)
	}
	if _, ok := comp.Elem.(*ast.BinaryExpr); !ok {
		t.Fatalf("element = %T, want binary expression", comp.Elem)
	}

	src = "def g(xs: list[int]) -> list[int]: return [x for x in xs]\n"
	file = mustParse(t, src)
	fn = file.Decls[0].(*ast.FuncDecl)
	comp = fn.Body.Stmts[0].(*ast.ReturnStmt).Value.(*ast.ListCompExpr)
	if comp.Cond != nil {
		t.Fatalf("filterless comprehension must have nil cond: %+v", comp)
	}
}

func TestNamedCallArgs(t *testing.T) {
	src := "def f() -> int: return make(width=3, height=4)\n"
	file := mustParse(t, src)
	fn := file.Decls[0].(*ast.FuncDecl)
	call := fn.Body.Stmts[0].(*ast.ReturnStmt).Value.(*ast.CallExpr)
	if len(call.Args) != 2 || call.Args[0].Name == nil || call.Args[0].Name.Name != "width" {
		t.Fatalf("named args lost: %+v", call.Args)
	}
}

func TestFStringParts(t *testing.T) {
	src := "def f(name: str) -> str: return f\"hi {name}!\"\n"
	file := mustParse(t, src)
	fn := file.Decls[0].(*ast.FuncDecl)
	fs := fn.Body.Stmts[0].(*ast.ReturnStmt).Value.(*ast.FStringExpr)
	if len(fs.Parts) != 3 {
		t.Fatalf("parts = %d, want 3", len(fs.Parts))
	}
	if fs.Parts[0].Text != "hi " || fs.Parts[0].Expr != nil {
		t.Fatalf("part 0 wrong: %+v", fs.Parts[0])
	}
	name, ok := fs.Parts[1].Expr.(*ast.NameExpr)
	if !ok || name.Name != "name" {
		t.Fatalf("part 1 wrong: %+v", fs.Parts[1])
	}
	if fs.Parts[2].Text != "!" {
		t.Fatalf("part 2 wrong: %+v", fs.Parts[2])
	}
}

func TestFStringExprSpanPointsIntoSource(t *testing.T) {
	src := "def f(name: str) -> str: return f\"hi {name}\"\n"
	fset := source.NewFileSet()
	id := fset.AddVirtual("test.in", []byte(src))
	bag := diag.NewBag(50)
	file := ParseFile(fset, fset.Get(id), Options{Reporter: diag.NewBagReporter(bag)})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	fn := file.Decls[0].(*ast.FuncDecl)
	fs := fn.Body.Stmts[0].(*ast.ReturnStmt).Value.(*ast.FStringExpr)
	expr := fs.Parts[1].Expr
	sp := expr.Span()
	if got := src[sp.Start:sp.End]; got != "name" {
		t.Fatalf("embedded expr span covers %q, want %q", got, "name")
	}
}

func TestThreeIndependentErrors(t *testing.T) {
	src := "def f(: int) -> int: return 1\n" +
		"def g() -> int\n" +
		"model M:\n    : int\n"
	_, bag := parseSource(t, src)
	if got := bag.ErrorCount(); got != 3 {
		t.Fatalf("errors = %d, want 3:\n%v", got, bag.Items())
	}
}

func TestRecoveryKeepsLaterDecls(t *testing.T) {
	src := "def broken(: int) -> int: return 1\n\ndef ok() -> int: return 2\n"
	file, bag := parseSource(t, src)
	if !bag.HasErrors() {
		t.Fatal("expected a syntax error")
	}
	for _, d := range file.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok && fn.Name.Name == "ok" {
			return
		}
	}
	t.Fatal("later declaration lost after error recovery")
}

func TestCompoundAssign(t *testing.T) {
	src := "def f() -> int:\n    mut x = 0\n    x += 2\n    return x\n"
	file := mustParse(t, src)
	fn := file.Decls[0].(*ast.FuncDecl)
	ca, ok := fn.Body.Stmts[1].(*ast.CompoundAssignStmt)
	if !ok || ca.Op != ast.AssignAdd {
		t.Fatalf("stmt is %T", fn.Body.Stmts[1])
	}
}

func TestControlFlow(t *testing.T) {
	src := "def f(n: int) -> int:\n" +
		"    mut total = 0\n" +
		"    for i in range(n):\n" +
		"        if i % 2 == 0:\n" +
		"            total += i\n" +
		"        elif i == 3:\n" +
		"            continue\n" +
		"        else:\n" +
		"            pass\n" +
		"    while total > 100:\n" +
		"        total -= 1\n" +
		"    return total\n"
	file := mustParse(t, src)
	fn := file.Decls[0].(*ast.FuncDecl)
	if len(fn.Body.Stmts) != 4 {
		t.Fatalf("stmts = %d, want 4", len(fn.Body.Stmts))
	}
	forStmt := fn.Body.Stmts[1].(*ast.ForStmt)
	ifStmt := forStmt.Body.Stmts[0].(*ast.IfStmt)
	if len(ifStmt.Elif) != 1 || ifStmt.Else == nil {
		t.Fatalf("if arms wrong: %+v", ifStmt)
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
