package lower

import "incan/internal/types"

// HookSpec describes one protocol hook: the Rust trait it maps to, the
// method contract, and how an obligation for it is discharged.
type HookSpec struct {
	Name     string
	Cap      types.Capability
	Trait    string
	Method   string // method signature documented for diagnostics
	Strategy Strategy
}

// hookTable is the static hook registry. Arithmetic, indexing, iteration
// and truthiness are runtime-backed for built-in types; the comparison,
// formatting and serialization hooks are derivable on models.
var hookTable = []HookSpec{
	{Name: "add", Cap: types.CapAdd, Trait: "core::ops::Add", Method: "fn add(self, rhs: Self) -> Self", Strategy: StrategyBuiltin},
	{Name: "sub", Cap: types.CapSub, Trait: "core::ops::Sub", Method: "fn sub(self, rhs: Self) -> Self", Strategy: StrategyBuiltin},
	{Name: "mul", Cap: types.CapMul, Trait: "core::ops::Mul", Method: "fn mul(self, rhs: Self) -> Self", Strategy: StrategyBuiltin},
	{Name: "div", Cap: types.CapDiv, Trait: "incan_stdlib::py_div", Method: "fn py_div(lhs, rhs) -> f64", Strategy: StrategyBuiltin},
	{Name: "floordiv", Cap: types.CapFloorDiv, Trait: "incan_stdlib::py_floor_div", Method: "fn py_floor_div(lhs, rhs)", Strategy: StrategyBuiltin},
	{Name: "mod", Cap: types.CapMod, Trait: "incan_stdlib::py_mod", Method: "fn py_mod(lhs, rhs)", Strategy: StrategyBuiltin},
	{Name: "pow", Cap: types.CapPow, Trait: "i64::pow", Method: "fn pow(self, exp: u32) -> Self", Strategy: StrategyBuiltin},
	{Name: "eq", Cap: types.CapEq, Trait: "std::cmp::PartialEq", Method: "fn eq(&self, other: &Self) -> bool", Strategy: StrategyImpl},
	{Name: "ord", Cap: types.CapOrd, Trait: "std::cmp::PartialOrd", Method: "fn partial_cmp(&self, other: &Self) -> Option<Ordering>", Strategy: StrategyDerive},
	{Name: "index", Cap: types.CapIndex, Trait: "incan_stdlib::list_get", Method: "fn list_get(&[T], i64) -> &T", Strategy: StrategyBuiltin},
	{Name: "iter", Cap: types.CapIter, Trait: "core::iter::IntoIterator", Method: "fn into_iter(self) -> Self::IntoIter", Strategy: StrategyBuiltin},
	{Name: "truth", Cap: types.CapTruth, Trait: "core::ops::Not", Method: "fn truth(&self) -> bool", Strategy: StrategyBuiltin},
	{Name: "str", Cap: types.CapStr, Trait: "std::fmt::Display", Method: "fn fmt(&self, f: &mut Formatter) -> fmt::Result", Strategy: StrategyImpl},
	{Name: "hash", Cap: types.CapHash, Trait: "std::hash::Hash", Method: "fn hash<H: Hasher>(&self, state: &mut H)", Strategy: StrategyDerive},
	{Name: "clone", Cap: types.CapClone, Trait: "std::clone::Clone", Method: "fn clone(&self) -> Self", Strategy: StrategyDerive},
	{Name: "default", Cap: types.CapDefault, Trait: "std::default::Default", Method: "fn default() -> Self", Strategy: StrategyDerive},
	{Name: "fields", Cap: types.CapFields, Trait: "incan_stdlib::FieldInfo", Method: "fn field_names() -> Vec<&'static str>", Strategy: StrategyImpl},
	{Name: "serialize", Cap: types.CapSerialize, Trait: "serde::Serialize", Method: "fn serialize<S: Serializer>(&self, s: S)", Strategy: StrategyDerive},
	{Name: "deserialize", Cap: types.CapDeserialize, Trait: "serde::Deserialize", Method: "fn deserialize<D: Deserializer<'de>>(d: D)", Strategy: StrategyDerive},
}

// HookByCap resolves a capability to its hook spec.
func HookByCap(c types.Capability) (HookSpec, bool) {
	for _, h := range hookTable {
		if h.Cap == c {
			return h, true
		}
	}
	return HookSpec{}, false
}

// HookByName resolves a hook name to its spec.
func HookByName(name string) (HookSpec, bool) {
	for _, h := range hookTable {
		if h.Name == name {
			return h, true
		}
	}
	return HookSpec{}, false
}

// deriveIdent maps derivable hooks to the ident that goes inside the
// struct's #[derive(...)] attribute.
var deriveIdent = map[string]string{
	"ord":         "PartialOrd",
	"hash":        "Hash",
	"clone":       "Clone",
	"default":     "Default",
	"serialize":   "serde::Serialize",
	"deserialize": "serde::Deserialize",
}

// magicMethodHook maps user magic methods to the hook they implement.
var magicMethodHook = map[string]string{
	"__eq__":  "eq",
	"__str__": "str",
}
