package types

import "strings"

// Capability is one protocol hook a type may support. Operators, indexing,
// iteration and truthiness positions all resolve to a capability; the checker
// rejects syntax whose operand type lacks the required bit.
type Capability uint32

const (
	CapAdd Capability = 1 << iota
	CapSub
	CapMul
	CapDiv
	CapFloorDiv
	CapMod
	CapPow
	CapEq
	CapOrd
	CapIndex
	CapIter
	CapTruth
	CapStr
	CapHash
	CapClone
	CapDefault
	CapFields
	CapSerialize
	CapDeserialize
)

// CapSet is a bitmask of capabilities.
type CapSet uint32

func (s CapSet) Has(c Capability) bool    { return s&CapSet(c) != 0 }
func (s CapSet) With(c Capability) CapSet { return s | CapSet(c) }

// capNames is ordered by bit position.
var capNames = []string{
	"add", "sub", "mul", "div", "floordiv", "mod", "pow",
	"eq", "ord", "index", "iter", "truth", "str", "hash",
	"clone", "default", "fields", "serialize", "deserialize",
}

// Name returns the hook name for a single capability.
func (c Capability) Name() string {
	for i, n := range capNames {
		if c == 1<<i {
			return n
		}
	}
	return "unknown"
}

// CapByName resolves a hook or derive spelling to its capability.
func CapByName(name string) (Capability, bool) {
	for i, n := range capNames {
		if n == name {
			return 1 << i, true
		}
	}
	return 0, false
}

func (s CapSet) String() string {
	var parts []string
	for i, n := range capNames {
		if s.Has(1 << i) {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, ",")
}

// deriveCaps maps @derive(...) spellings to the capability they establish.
// Spellings are case-sensitive, matching the Rust trait names they stand for.
var deriveCaps = map[string]Capability{
	"Eq":          CapEq,
	"Ord":         CapOrd,
	"Hash":        CapHash,
	"Clone":       CapClone,
	"Default":     CapDefault,
	"Display":     CapStr,
	"Serialize":   CapSerialize,
	"Deserialize": CapDeserialize,
}

// DeriveCap resolves a derive spelling to its capability.
func DeriveCap(name string) (Capability, bool) {
	c, ok := deriveCaps[name]
	return c, ok
}

// magicCaps maps dunder method spellings to the capability a manual
// implementation establishes.
var magicCaps = map[string]Capability{
	"__eq__":  CapEq,
	"__str__": CapStr,
}

// MagicMethodCap resolves a magic method name to its capability.
func MagicMethodCap(name string) (Capability, bool) {
	c, ok := magicCaps[name]
	return c, ok
}

const arithCaps = CapSet(CapAdd | CapSub | CapMul | CapDiv | CapFloorDiv | CapMod | CapPow)

// Caps returns the capability set of t. Built-in types carry fixed sets;
// models carry whatever their derives and magic methods established.
func Caps(t *Type) CapSet {
	if t == nil {
		return 0
	}
	switch t.Kind {
	case KindInt:
		return arithCaps | CapSet(CapEq|CapOrd|CapTruth|CapStr|CapHash|CapClone|CapDefault)
	case KindFloat:
		return arithCaps | CapSet(CapEq|CapOrd|CapTruth|CapStr|CapClone|CapDefault)
	case KindBool:
		return CapSet(CapEq | CapOrd | CapTruth | CapStr | CapHash | CapClone | CapDefault)
	case KindStr:
		return CapSet(CapAdd | CapEq | CapOrd | CapIndex | CapIter | CapTruth | CapStr | CapHash | CapClone | CapDefault)
	case KindBytes:
		return CapSet(CapEq | CapOrd | CapIndex | CapIter | CapTruth | CapHash | CapClone | CapDefault)
	case KindList:
		return CapSet(CapAdd | CapEq | CapIndex | CapIter | CapTruth | CapStr | CapClone | CapDefault)
	case KindDict:
		return CapSet(CapEq | CapIndex | CapIter | CapTruth | CapStr | CapClone | CapDefault)
	case KindNothing:
		return CapSet(CapEq | CapStr | CapClone)
	case KindModel:
		return t.Model.Caps | CapSet(CapFields)
	default:
		return 0
	}
}
