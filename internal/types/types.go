// Package types holds the type descriptors the checker resolves expressions
// to. Descriptors are plain owned values, built once per occurrence; nominal
// types (models, traits) compare by identity of their shared info record.
package types

import (
	"fmt"
	"strings"
)

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNothing
	KindBool
	KindInt
	KindFloat
	KindStr
	KindBytes
	KindList
	KindDict
	KindModel
	KindTrait
	KindFunc
	KindModule
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNothing:
		return "None"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	case KindBytes:
		return "bytes"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	case KindModel:
		return "model"
	case KindTrait:
		return "trait"
	case KindFunc:
		return "func"
	case KindModule:
		return "module"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type describes a resolved type. Exactly the fields relevant to Kind are
// set: Elem for lists, Key/Value for dicts, Model/Trait/Func for the
// corresponding nominal and callable kinds.
type Type struct {
	Kind   Kind
	Elem   *Type
	Key    *Type
	Value  *Type
	Model  *ModelInfo
	Trait  *TraitInfo
	Func   *FuncInfo
	Module string // binding name of an imported module reference
}

// Shared primitive descriptors. Primitives carry no payload, so one value
// per kind suffices.
var (
	invalidType = &Type{Kind: KindInvalid}
	nothingType = &Type{Kind: KindNothing}
	boolType    = &Type{Kind: KindBool}
	intType     = &Type{Kind: KindInt}
	floatType   = &Type{Kind: KindFloat}
	strType     = &Type{Kind: KindStr}
	bytesType   = &Type{Kind: KindBytes}
)

func Invalid() *Type { return invalidType }
func Nothing() *Type { return nothingType }
func Bool() *Type    { return boolType }
func Int() *Type     { return intType }
func Float() *Type   { return floatType }
func Str() *Type     { return strType }
func Bytes() *Type   { return bytesType }

// NewList describes list[elem].
func NewList(elem *Type) *Type {
	return &Type{Kind: KindList, Elem: elem}
}

// NewDict describes dict[key, value].
func NewDict(key, value *Type) *Type {
	return &Type{Kind: KindDict, Key: key, Value: value}
}

// NewModel wraps a model info record.
func NewModel(info *ModelInfo) *Type {
	return &Type{Kind: KindModel, Model: info}
}

// NewTrait wraps a trait info record.
func NewTrait(info *TraitInfo) *Type {
	return &Type{Kind: KindTrait, Trait: info}
}

// NewFunc wraps a callable signature.
func NewFunc(info *FuncInfo) *Type {
	return &Type{Kind: KindFunc, Func: info}
}

// NewModuleRef describes a bare imported module name used as a value.
func NewModuleRef(name string) *Type {
	return &Type{Kind: KindModule, Module: name}
}

// IsInvalid reports whether t is the error-recovery type. Checks against it
// stay silent so one bad expression does not cascade.
func (t *Type) IsInvalid() bool { return t == nil || t.Kind == KindInvalid }

// IsNumeric reports whether t is int or float.
func (t *Type) IsNumeric() bool {
	return t != nil && (t.Kind == KindInt || t.Kind == KindFloat)
}

// Equal compares structurally; models and traits compare by info identity.
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindList:
		return Equal(a.Elem, b.Elem)
	case KindDict:
		return Equal(a.Key, b.Key) && Equal(a.Value, b.Value)
	case KindModel:
		return a.Model == b.Model
	case KindTrait:
		return a.Trait == b.Trait
	case KindFunc:
		return a.Func == b.Func
	case KindModule:
		return a.Module == b.Module
	default:
		return true
	}
}

// String renders the type in surface syntax for diagnostics.
func (t *Type) String() string {
	if t == nil {
		return "invalid"
	}
	switch t.Kind {
	case KindList:
		return "list[" + t.Elem.String() + "]"
	case KindDict:
		return "dict[" + t.Key.String() + ", " + t.Value.String() + "]"
	case KindModel:
		return t.Model.Name
	case KindTrait:
		return t.Trait.Name
	case KindFunc:
		return t.Func.String()
	case KindModule:
		return "module '" + t.Module + "'"
	default:
		return t.Kind.String()
	}
}

// FuncInfo is a callable signature.
type FuncInfo struct {
	Name    string
	Params  []ParamInfo
	Result  *Type
	HasSelf bool
}

// ParamInfo is one declared parameter.
type ParamInfo struct {
	Name       string
	Type       *Type
	HasDefault bool
}

func (f *FuncInfo) String() string {
	var b strings.Builder
	b.WriteString("def ")
	b.WriteString(f.Name)
	b.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		b.WriteString(": ")
		b.WriteString(p.Type.String())
	}
	b.WriteByte(')')
	if f.Result != nil && f.Result.Kind != KindNothing {
		b.WriteString(" -> ")
		b.WriteString(f.Result.String())
	}
	return b.String()
}

// MinArgs returns the number of parameters without defaults.
func (f *FuncInfo) MinArgs() int {
	n := 0
	for _, p := range f.Params {
		if !p.HasDefault {
			n++
		}
	}
	return n
}
