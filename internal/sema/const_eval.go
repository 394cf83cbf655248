package sema

import (
	"fmt"
	"math"
	"strconv"

	"incan/internal/ast"
	"incan/internal/diag"
	"incan/internal/semcore"
	"incan/internal/types"
)

// ValueKind tags a folded constant value.
type ValueKind uint8

const (
	ValInvalid ValueKind = iota
	ValInt
	ValFloat
	ValStr
	ValBool
	ValNone
)

// Value is a compile-time constant produced by folding literal expressions.
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Str   string
	Bool  bool
}

func intValue(v int64) Value     { return Value{Kind: ValInt, Int: v} }
func floatValue(v float64) Value { return Value{Kind: ValFloat, Float: v} }
func strValue(v string) Value    { return Value{Kind: ValStr, Str: v} }
func boolValue(v bool) Value     { return Value{Kind: ValBool, Bool: v} }

// IsValid reports whether folding produced a usable value.
func (v Value) IsValid() bool { return v.Kind != ValInvalid }

// Type returns the type descriptor matching the value kind.
func (v Value) Type() *types.Type {
	switch v.Kind {
	case ValInt:
		return types.Int()
	case ValFloat:
		return types.Float()
	case ValStr:
		return types.Str()
	case ValBool:
		return types.Bool()
	case ValNone:
		return types.Nothing()
	default:
		return types.Invalid()
	}
}

// String renders the value as it would appear in generated source.
func (v Value) String() string {
	switch v.Kind {
	case ValInt:
		return strconv.FormatInt(v.Int, 10)
	case ValFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case ValStr:
		return strconv.Quote(v.Str)
	case ValBool:
		if v.Bool {
			return "True"
		}
		return "False"
	case ValNone:
		return "None"
	default:
		return "<invalid>"
	}
}

func (v Value) asFloat() float64 {
	if v.Kind == ValInt {
		return float64(v.Int)
	}
	return v.Float
}

// fold evaluates a literal expression tree. Diagnostics are only reported
// when report is true; speculative folds stay silent so the same node never
// produces two errors.
func (c *checker) fold(e ast.Expr, report bool) Value {
	switch ee := e.(type) {
	case *ast.IntLit:
		return intValue(ee.Value)
	case *ast.FloatLit:
		return floatValue(ee.Value)
	case *ast.StringLit:
		return strValue(ee.Value)
	case *ast.BoolLit:
		return boolValue(ee.Value)
	case *ast.NoneLit:
		return Value{Kind: ValNone}
	case *ast.ParenExpr:
		return c.fold(ee.X, report)
	case *ast.NameExpr:
		if ci, ok := c.res.Module.Consts[ee.Name]; ok {
			return ci.Value
		}
		if ci, ok := c.res.Module.ImportedConsts[ee.Name]; ok {
			return ci.Value
		}
		return Value{}
	case *ast.UnaryExpr:
		return c.foldUnary(ee, report)
	case *ast.BinaryExpr:
		return c.foldBinary(ee, report)
	default:
		return Value{}
	}
}

func (c *checker) foldUnary(e *ast.UnaryExpr, report bool) Value {
	v := c.fold(e.X, report)
	switch e.Op {
	case ast.OpNeg:
		switch v.Kind {
		case ValInt:
			return intValue(-v.Int)
		case ValFloat:
			return floatValue(-v.Float)
		}
	case ast.OpNot:
		if v.Kind == ValBool {
			return boolValue(!v.Bool)
		}
	}
	return Value{}
}

func (c *checker) foldBinary(e *ast.BinaryExpr, report bool) Value {
	lhs := c.fold(e.LHS, report)
	rhs := c.fold(e.RHS, report)
	if !lhs.IsValid() || !rhs.IsValid() {
		return Value{}
	}

	switch e.Op {
	case ast.OpAnd:
		if lhs.Kind == ValBool && rhs.Kind == ValBool {
			return boolValue(lhs.Bool && rhs.Bool)
		}
	case ast.OpOr:
		if lhs.Kind == ValBool && rhs.Kind == ValBool {
			return boolValue(lhs.Bool || rhs.Bool)
		}
	case ast.OpEq, ast.OpNotEq:
		if eq, ok := constEqual(lhs, rhs); ok {
			return boolValue(eq == (e.Op == ast.OpEq))
		}
	case ast.OpAdd:
		if lhs.Kind == ValStr && rhs.Kind == ValStr {
			return strValue(lhs.Str + rhs.Str)
		}
	}

	lnum := lhs.Kind == ValInt || lhs.Kind == ValFloat
	rnum := rhs.Kind == ValInt || rhs.Kind == ValFloat
	if !lnum || !rnum {
		return Value{}
	}
	return c.foldNumeric(e, lhs, rhs, report)
}

func constEqual(a, b Value) (bool, bool) {
	switch {
	case a.Kind == ValInt && b.Kind == ValInt:
		return a.Int == b.Int, true
	case a.Kind == ValStr && b.Kind == ValStr:
		return a.Str == b.Str, true
	case a.Kind == ValBool && b.Kind == ValBool:
		return a.Bool == b.Bool, true
	case a.Kind == ValNone && b.Kind == ValNone:
		return true, true
	}
	return false, false
}

func (c *checker) foldNumeric(e *ast.BinaryExpr, lhs, rhs Value, report bool) Value {
	bothInt := lhs.Kind == ValInt && rhs.Kind == ValInt

	switch e.Op {
	case ast.OpLt, ast.OpLtEq, ast.OpGt, ast.OpGtEq:
		// Int orderings stay in int64: values above 2^53 collapse under a
		// float64 round-trip and would compare differently than the i64
		// comparison in the generated code.
		if bothInt {
			switch e.Op {
			case ast.OpLt:
				return boolValue(lhs.Int < rhs.Int)
			case ast.OpLtEq:
				return boolValue(lhs.Int <= rhs.Int)
			case ast.OpGt:
				return boolValue(lhs.Int > rhs.Int)
			default:
				return boolValue(lhs.Int >= rhs.Int)
			}
		}
		a, b := lhs.asFloat(), rhs.asFloat()
		switch e.Op {
		case ast.OpLt:
			return boolValue(a < b)
		case ast.OpLtEq:
			return boolValue(a <= b)
		case ast.OpGt:
			return boolValue(a > b)
		default:
			return boolValue(a >= b)
		}
	case ast.OpAdd:
		if bothInt {
			return intValue(lhs.Int + rhs.Int)
		}
		return floatValue(lhs.asFloat() + rhs.asFloat())
	case ast.OpSub:
		if bothInt {
			return intValue(lhs.Int - rhs.Int)
		}
		return floatValue(lhs.asFloat() - rhs.asFloat())
	case ast.OpMul:
		if bothInt {
			return intValue(lhs.Int * rhs.Int)
		}
		return floatValue(lhs.asFloat() * rhs.asFloat())
	case ast.OpDiv:
		if rhs.asFloat() == 0 {
			if report {
				c.report(diag.SemaDivisionByZero, e.Sp, semcore.MsgDivisionByZero)
			}
			return Value{}
		}
		return floatValue(lhs.asFloat() / rhs.asFloat())
	case ast.OpFloorDiv:
		if bothInt {
			if rhs.Int == 0 {
				if report {
					c.report(diag.SemaDivisionByZero, e.Sp, semcore.MsgDivisionByZero)
				}
				return Value{}
			}
			return intValue(floorDivInt(lhs.Int, rhs.Int))
		}
		if rhs.asFloat() == 0 {
			if report {
				c.report(diag.SemaDivisionByZero, e.Sp, semcore.MsgDivisionByZero)
			}
			return Value{}
		}
		return floatValue(math.Floor(lhs.asFloat() / rhs.asFloat()))
	case ast.OpMod:
		if bothInt {
			if rhs.Int == 0 {
				if report {
					c.report(diag.SemaDivisionByZero, e.Sp, semcore.MsgModuloByZero)
				}
				return Value{}
			}
			return intValue(pythonModInt(lhs.Int, rhs.Int))
		}
		if rhs.asFloat() == 0 {
			if report {
				c.report(diag.SemaDivisionByZero, e.Sp, semcore.MsgModuloByZero)
			}
			return Value{}
		}
		return floatValue(pythonModFloat(lhs.asFloat(), rhs.asFloat()))
	case ast.OpPow:
		if bothInt && rhs.Int >= 0 {
			v, ok := powInt(lhs.Int, rhs.Int)
			if !ok {
				if report {
					c.report(diag.SemaConstOverflow, e.Sp, "constant power overflows int")
				}
				return Value{}
			}
			return intValue(v)
		}
		return floatValue(math.Pow(lhs.asFloat(), rhs.asFloat()))
	}
	return Value{}
}

// floorDivInt rounds toward negative infinity, matching // semantics.
func floorDivInt(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// pythonModInt keeps the sign of the divisor.
func pythonModInt(a, b int64) int64 {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}

func pythonModFloat(a, b float64) float64 {
	m := math.Mod(a, b)
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}

// powInt folds base**exp, failing on int64 overflow. Bases of magnitude at
// most one are answered directly so arbitrarily large exponents terminate;
// any other base overflows within 63 squarings, bounding the loop.
func powInt(base, exp int64) (int64, bool) {
	switch base {
	case 0:
		if exp == 0 {
			return 1, true
		}
		return 0, true
	case 1:
		return 1, true
	case -1:
		if exp%2 == 0 {
			return 1, true
		}
		return -1, true
	}
	result := int64(1)
	for ; exp > 0; exp-- {
		next := result * base
		if next/base != result {
			return 0, false
		}
		result = next
	}
	return result, true
}

// checkConstDecl folds the initializer and records the constant.
func (c *checker) checkConstDecl(d *ast.ConstDecl) {
	info := c.res.Module.Consts[d.Name.Name]
	if info == nil {
		return
	}
	ty := c.checkExpr(d.Value)
	before := c.opts.CurrentErrors
	v := c.fold(d.Value, true)
	if !v.IsValid() {
		if !ty.IsInvalid() && c.opts.CurrentErrors == before {
			c.report(diag.SemaConstNotConstant, d.Value.Span(),
				fmt.Sprintf("initializer of const '%s' is not a constant expression", d.Name.Name))
		}
		info.Type = types.Invalid()
		return
	}
	info.Value = v
	if info.Type == nil || info.Type.IsInvalid() {
		info.Type = v.Type()
		return
	}
	if !c.assignable(info.Type, v.Type()) {
		c.report(diag.SemaTypeMismatch, d.Value.Span(),
			fmt.Sprintf("cannot initialize const of type %s with %s", info.Type, v.Type()))
	}
}

// intLiteralOf extracts a syntactic integer literal, including a negated
// one, for the power promotion rule.
func intLiteralOf(e ast.Expr) *int64 {
	switch ee := e.(type) {
	case *ast.IntLit:
		v := ee.Value
		return &v
	case *ast.ParenExpr:
		return intLiteralOf(ee.X)
	case *ast.UnaryExpr:
		if ee.Op == ast.OpNeg {
			if inner := intLiteralOf(ee.X); inner != nil {
				v := -*inner
				return &v
			}
		}
	}
	return nil
}
