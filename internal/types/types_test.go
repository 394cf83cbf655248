package types

import "testing"

func TestPrimitiveSingletons(t *testing.T) {
	if Int() != Int() || Str() != Str() {
		t.Fatal("primitive descriptors must be shared")
	}
	if Int() == Float() {
		t.Fatal("distinct primitives must not alias")
	}
}

func TestEqualStructural(t *testing.T) {
	a := NewList(Int())
	b := NewList(Int())
	if !Equal(a, b) {
		t.Error("list[int] must equal list[int]")
	}
	if Equal(a, NewList(Str())) {
		t.Error("list[int] must not equal list[str]")
	}
	d1 := NewDict(Str(), Int())
	d2 := NewDict(Str(), Int())
	if !Equal(d1, d2) {
		t.Error("dict[str, int] must equal dict[str, int]")
	}
}

func TestModelIdentity(t *testing.T) {
	p := &ModelInfo{Name: "Point"}
	q := &ModelInfo{Name: "Point"}
	if !Equal(NewModel(p), NewModel(p)) {
		t.Error("same info record must compare equal")
	}
	if Equal(NewModel(p), NewModel(q)) {
		t.Error("distinct declarations must not compare equal")
	}
}

func TestTypeString(t *testing.T) {
	cases := []struct {
		ty   *Type
		want string
	}{
		{Int(), "int"},
		{Nothing(), "None"},
		{NewList(Float()), "list[float]"},
		{NewDict(Str(), NewList(Int())), "dict[str, list[int]]"},
		{NewModel(&ModelInfo{Name: "User"}), "User"},
	}
	for _, c := range cases {
		if got := c.ty.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestBuiltinCaps(t *testing.T) {
	if !Caps(Int()).Has(CapFloorDiv) {
		t.Error("int must support floordiv")
	}
	if Caps(Float()).Has(CapHash) {
		t.Error("float must not hash")
	}
	if !Caps(Str()).Has(CapIndex) || !Caps(Str()).Has(CapIter) {
		t.Error("str must support indexing and iteration")
	}
	if Caps(Str()).Has(CapSub) {
		t.Error("str must not support subtraction")
	}
	if Caps(NewDict(Str(), Int())).Has(CapOrd) {
		t.Error("dict must not be ordered")
	}
}

func TestModelCaps(t *testing.T) {
	info := &ModelInfo{Name: "Point", Caps: CapSet(CapEq | CapHash)}
	got := Caps(NewModel(info))
	if !got.Has(CapEq) || !got.Has(CapHash) {
		t.Error("derived capabilities must surface")
	}
	if !got.Has(CapFields) {
		t.Error("models always expose field reflection")
	}
	if got.Has(CapAdd) {
		t.Error("underived capability must be absent")
	}
}

func TestCapByName(t *testing.T) {
	c, ok := CapByName("floordiv")
	if !ok || c != CapFloorDiv {
		t.Fatalf("floordiv resolved to %v, %v", c, ok)
	}
	if _, ok := CapByName("bogus"); ok {
		t.Fatal("unknown name must not resolve")
	}
	if CapSerialize.Name() != "serialize" {
		t.Fatalf("serialize name = %q", CapSerialize.Name())
	}
}

func TestFuncInfoString(t *testing.T) {
	f := &FuncInfo{
		Name:   "dist",
		Params: []ParamInfo{{Name: "a", Type: Float()}, {Name: "b", Type: Float(), HasDefault: true}},
		Result: Float(),
	}
	want := "def dist(a: float, b: float) -> float"
	if got := f.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if f.MinArgs() != 1 {
		t.Errorf("MinArgs() = %d, want 1", f.MinArgs())
	}
}
