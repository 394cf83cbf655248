// Package semcore is the semantic policy layer: the single source of truth
// for numeric promotion, string indexing/slicing over Unicode scalars, and
// the canonical diagnostic message texts. Both the compile-time constant
// evaluator and the code baked into emitted programs follow these rules, so
// the two can never diverge. Everything here is pure; the package imports
// nothing from the rest of the compiler.
package semcore

// NumericTy is the simplified numeric type used for policy decisions.
type NumericTy uint8

const (
	NumInt NumericTy = iota
	NumFloat
)

func (t NumericTy) String() string {
	if t == NumInt {
		return "int"
	}
	return "float"
}

// NumericOp enumerates the operators subject to promotion rules.
type NumericOp uint8

const (
	NumAdd NumericOp = iota
	NumSub
	NumMul
	NumDiv      // / always yields float
	NumFloorDiv // // yields int only for int // int
	NumMod
	NumPow
)

// PowExponentKind describes the right operand of '**' for the literal rule.
type PowExponentKind uint8

const (
	// PowNonNegIntLiteral is an exponent written as a non-negative int
	// literal, e.g. 2 or 0.
	PowNonNegIntLiteral PowExponentKind = iota
	// PowNegIntLiteral is a negative int literal exponent, e.g. -1.
	PowNegIntLiteral
	// PowVariable is a non-literal int exponent.
	PowVariable
	// PowFloat is a float exponent.
	PowFloat
)

// ClassifyPowExponent derives the exponent kind from literal information.
func ClassifyPowExponent(rhsIsFloat bool, intLiteral *int64) PowExponentKind {
	switch {
	case rhsIsFloat:
		return PowFloat
	case intLiteral == nil:
		return PowVariable
	case *intLiteral >= 0:
		return PowNonNegIntLiteral
	default:
		return PowNegIntLiteral
	}
}

// ResultNumericType determines the result type of a numeric binary
// operation:
//
//   - /: always float
//   - + - * // %: float if either side is float
//   - **: int only when both operands are int and the exponent is a
//     non-negative int literal
func ResultNumericType(op NumericOp, lhs, rhs NumericTy, powExp PowExponentKind) NumericTy {
	switch op {
	case NumDiv:
		return NumFloat
	case NumAdd, NumSub, NumMul, NumFloorDiv, NumMod:
		if lhs == NumFloat || rhs == NumFloat {
			return NumFloat
		}
		return NumInt
	case NumPow:
		if lhs == NumInt && rhs == NumInt && powExp == PowNonNegIntLiteral {
			return NumInt
		}
		return NumFloat
	}
	return NumInt
}
