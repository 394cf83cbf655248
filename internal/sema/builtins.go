package sema

import (
	"fmt"

	"incan/internal/ast"
	"incan/internal/diag"
	"incan/internal/types"
)

// builtinID identifies one built-in function. Builtins resolve after local
// bindings, so a user declaration may shadow them.
type builtinID uint8

const (
	builtinPrint builtinID = iota
	builtinLen
	builtinStr
	builtinInt
	builtinFloat
	builtinRange
)

var builtins = map[string]builtinID{
	"print": builtinPrint,
	"len":   builtinLen,
	"str":   builtinStr,
	"int":   builtinInt,
	"float": builtinFloat,
	"range": builtinRange,
}

func builtinByName(name string) (builtinID, bool) {
	b, ok := builtins[name]
	return b, ok
}

func (c *checker) checkBuiltinCall(e *ast.CallExpr, b builtinID) *types.Type {
	argTypes := make([]*types.Type, len(e.Args))
	for i, arg := range e.Args {
		if arg.Name != nil {
			c.report(diag.SemaArgCount, arg.Name.Sp, "built-in functions take positional arguments only")
		}
		argTypes[i] = c.checkExpr(arg.Value)
	}

	arity := func(name string, lo, hi int) bool {
		if len(e.Args) >= lo && len(e.Args) <= hi {
			return true
		}
		c.report(diag.SemaArgCount, e.Sp,
			fmt.Sprintf("%s() expects %d to %d arguments, got %d", name, lo, hi, len(e.Args)))
		return false
	}

	switch b {
	case builtinPrint:
		for i, t := range argTypes {
			if !t.IsInvalid() && !types.Caps(t).Has(types.CapStr) {
				c.report(diag.SemaNoCapability, e.Args[i].Value.Span(),
					fmt.Sprintf("%s cannot be printed; derive Display or implement __str__", t))
			}
		}
		return types.Nothing()
	case builtinLen:
		if !arity("len", 1, 1) {
			return types.Int()
		}
		switch t := argTypes[0]; t.Kind {
		case types.KindStr, types.KindBytes, types.KindList, types.KindDict, types.KindInvalid:
		default:
			c.report(diag.SemaNoCapability, e.Args[0].Value.Span(),
				fmt.Sprintf("len() is not supported for %s", t))
		}
		return types.Int()
	case builtinStr:
		if arity("str", 1, 1) {
			if t := argTypes[0]; !t.IsInvalid() && !types.Caps(t).Has(types.CapStr) {
				c.report(diag.SemaNoCapability, e.Args[0].Value.Span(),
					fmt.Sprintf("str() is not supported for %s", t))
			}
		}
		return types.Str()
	case builtinInt:
		if arity("int", 1, 1) {
			switch t := argTypes[0]; t.Kind {
			case types.KindInt, types.KindFloat, types.KindBool, types.KindStr, types.KindInvalid:
			default:
				c.report(diag.SemaTypeMismatch, e.Args[0].Value.Span(),
					fmt.Sprintf("int() cannot convert %s", t))
			}
		}
		return types.Int()
	case builtinFloat:
		if arity("float", 1, 1) {
			switch t := argTypes[0]; t.Kind {
			case types.KindInt, types.KindFloat, types.KindStr, types.KindInvalid:
			default:
				c.report(diag.SemaTypeMismatch, e.Args[0].Value.Span(),
					fmt.Sprintf("float() cannot convert %s", t))
			}
		}
		return types.Float()
	case builtinRange:
		if arity("range", 1, 3) {
			for i, t := range argTypes {
				c.requireInt(e.Args[i].Value, t, "range bound")
			}
		}
		return types.NewList(types.Int())
	default:
		return types.Invalid()
	}
}
