package driver

import (
	"sort"
	"strings"
	"testing"

	"incan/internal/diag"
	"incan/internal/source"
)

func compileVirtual(t *testing.T, files map[string]string, opts Options) *Result {
	t.Helper()
	fset := source.NewFileSet()
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	// Stable file order keeps diagnostics reproducible across runs.
	sort.Strings(names)
	ids := make([]source.FileID, 0, len(names))
	for _, name := range names {
		ids = append(ids, fset.AddVirtual(name, []byte(files[name])))
	}
	return CompileFiles(fset, ids, opts)
}

func TestSingleModulePipeline(t *testing.T) {
	res := compileVirtual(t, map[string]string{
		"main.in": "def main():\n    print(\"ok\")\n",
	}, Options{})
	if res.Failed() {
		t.Fatalf("pipeline failed:\n%v", res.Bag.Items())
	}
	if len(res.Modules) != 1 || res.Modules[0].Rust == "" {
		t.Fatal("no rendered output")
	}
	if !strings.Contains(res.Modules[0].Rust, "fn main() {") {
		t.Fatalf("main missing:\n%s", res.Modules[0].Rust)
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	files := map[string]string{
		"main.in": "def main():\n    print(greet())\n\ndef greet() -> str:\n    return \"hi\"\n",
		"util.in": "def twice(n: int) -> int:\n    return n * 2\n",
		"geom.in": "@derive(Eq)\nmodel Point:\n    x: int\n    y: int\n",
	}
	serial := compileVirtual(t, files, Options{Jobs: 1})
	parallel := compileVirtual(t, files, Options{Jobs: 4})
	if serial.Failed() || parallel.Failed() {
		t.Fatalf("compile failed:\nserial %v\nparallel %v",
			serial.Bag.Items(), parallel.Bag.Items())
	}
	for i := range serial.Modules {
		if serial.Modules[i].Rust != parallel.Modules[i].Rust {
			t.Fatalf("module %s renders differently under parallel build",
				serial.Modules[i].Name)
		}
	}
}

func TestErrorsForceFailure(t *testing.T) {
	res := compileVirtual(t, map[string]string{
		"main.in": "def main():\n    let x: int = \"nope\"\n",
	}, Options{})
	if !res.Failed() {
		t.Fatal("type error must fail the build")
	}
}

func TestParseErrorSkipsLaterStages(t *testing.T) {
	res := compileVirtual(t, map[string]string{
		"main.in": "def broken(:\n    pass\n",
	}, Options{})
	if !res.Failed() {
		t.Fatal("parse error must fail the build")
	}
	if res.Modules[0].Unit != nil {
		t.Fatal("lowering must not run after parse errors")
	}
}

func TestGraphErrorsReported(t *testing.T) {
	res := compileVirtual(t, map[string]string{
		"main.in": "import ghost\n\ndef main():\n    pass\n",
	}, Options{})
	if !res.Failed() {
		t.Fatal("missing module import must fail")
	}
	found := false
	for _, d := range res.Bag.Items() {
		if d.Code == diag.ProjMissingModule {
			found = true
		}
	}
	if !found {
		t.Fatalf("wrong diagnostics:\n%v", res.Bag.Items())
	}
}

func TestFromImportResolves(t *testing.T) {
	res := compileVirtual(t, map[string]string{
		"main.in": "from util import twice\n\ndef main():\n    print(twice(2))\n",
		"util.in": "def twice(n: int) -> int:\n    return n * 2\n",
	}, Options{})
	if res.Failed() {
		t.Fatalf("compile failed:\n%v", res.Bag.Items())
	}
	for _, m := range res.Modules {
		if m.Name == "main" && !strings.Contains(m.Rust, "twice(2i64)") {
			t.Fatalf("imported call missing:\n%s", m.Rust)
		}
	}
}

func TestQualifiedCallResolves(t *testing.T) {
	res := compileVirtual(t, map[string]string{
		"main.in": "import util\n\ndef main():\n    print(util.twice(2))\n",
		"util.in": "def twice(n: int) -> int:\n    return n * 2\n",
	}, Options{})
	if res.Failed() {
		t.Fatalf("compile failed:\n%v", res.Bag.Items())
	}
	for _, m := range res.Modules {
		if m.Name == "main" && !strings.Contains(m.Rust, "twice(2i64)") {
			t.Fatalf("qualified call must drop the module prefix:\n%s", m.Rust)
		}
	}
}

func TestImportedModelAndAlias(t *testing.T) {
	res := compileVirtual(t, map[string]string{
		"main.in": strings.Join([]string{
			"from geom import Point as P, ORIGIN_X",
			"",
			"def main():",
			"    let p: P = P(x=1, y=2)",
			"    print(p.x + ORIGIN_X)",
			"",
		}, "\n"),
		"geom.in": strings.Join([]string{
			"const ORIGIN_X: int = 0",
			"",
			"@derive(Eq)",
			"model Point:",
			"    x: int",
			"    y: int",
			"",
		}, "\n"),
	}, Options{})
	if res.Failed() {
		t.Fatalf("compile failed:\n%v", res.Bag.Items())
	}
	for _, m := range res.Modules {
		if m.Name != "main" {
			continue
		}
		if !strings.Contains(m.Rust, "Point { x: 1i64, y: 2i64 }") {
			t.Fatalf("aliased constructor must render the exported name:\n%s", m.Rust)
		}
		if !strings.Contains(m.Rust, "ORIGIN_X") {
			t.Fatalf("imported const missing:\n%s", m.Rust)
		}
	}
}

func TestQualifiedConstResolves(t *testing.T) {
	res := compileVirtual(t, map[string]string{
		"main.in": "import cfg\n\ndef main():\n    print(cfg.LIMIT)\n",
		"cfg.in":  "const LIMIT: int = 10\n",
	}, Options{})
	if res.Failed() {
		t.Fatalf("compile failed:\n%v", res.Bag.Items())
	}
	for _, m := range res.Modules {
		if m.Name == "main" && !strings.Contains(m.Rust, "LIMIT") {
			t.Fatalf("qualified const missing:\n%s", m.Rust)
		}
	}
}

func TestMissingImportedSymbolReported(t *testing.T) {
	res := compileVirtual(t, map[string]string{
		"main.in": "from util import ghost\n\ndef main():\n    pass\n",
		"util.in": "def twice(n: int) -> int:\n    return n * 2\n",
	}, Options{})
	if !res.Failed() {
		t.Fatal("importing an absent symbol must fail")
	}
	found := false
	for _, d := range res.Bag.Items() {
		if d.Code == diag.SemaUnresolvedName {
			found = true
		}
	}
	if !found {
		t.Fatalf("wrong diagnostics:\n%v", res.Bag.Items())
	}
}

func TestAssemble(t *testing.T) {
	res := compileVirtual(t, map[string]string{
		"main.in": "import util\n\ndef main():\n    print(\"x\")\n",
		"util.in": "def helper() -> int:\n    return 1\n",
	}, Options{})
	if res.Failed() {
		t.Fatalf("compile failed:\n%v", res.Bag.Items())
	}
	bag := diag.NewBag(10)
	tree, ok := Assemble(res, "demo", "main", diag.NewBagReporter(bag))
	if !ok {
		t.Fatalf("assemble failed:\n%v", bag.Items())
	}
	if _, has := tree.Modules["util"]; !has {
		t.Fatal("util module missing from tree")
	}
	if !strings.Contains(tree.Main, "use crate::util::*;") {
		t.Fatalf("cross-module use missing:\n%s", tree.Main)
	}
	if !strings.Contains(tree.Manifest, "incan_stdlib") {
		t.Fatalf("manifest missing runtime dep:\n%s", tree.Manifest)
	}
}

func TestAssembleNoMain(t *testing.T) {
	res := compileVirtual(t, map[string]string{
		"util.in": "def helper() -> int:\n    return 1\n",
	}, Options{})
	bag := diag.NewBag(10)
	if _, ok := Assemble(res, "demo", "main", diag.NewBagReporter(bag)); ok {
		t.Fatal("assemble must fail without an entry module")
	}
}
