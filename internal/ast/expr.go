package ast

import (
	"incan/internal/source"
)

// NameExpr is an identifier occurrence in expression position.
type NameExpr struct {
	Name string
	Sp   source.Span
}

func (e *NameExpr) Span() source.Span { return e.Sp }
func (e *NameExpr) exprNode()         {}

// SelfExpr is the receiver reference inside a method.
type SelfExpr struct {
	Sp source.Span
}

func (e *SelfExpr) Span() source.Span { return e.Sp }
func (e *SelfExpr) exprNode()         {}

// IntLit carries the decoded integer value.
type IntLit struct {
	Value int64
	Sp    source.Span
}

func (e *IntLit) Span() source.Span { return e.Sp }
func (e *IntLit) exprNode()         {}

// FloatLit carries the decoded floating value.
type FloatLit struct {
	Value float64
	Sp    source.Span
}

func (e *FloatLit) Span() source.Span { return e.Sp }
func (e *FloatLit) exprNode()         {}

// BoolLit is True or False.
type BoolLit struct {
	Value bool
	Sp    source.Span
}

func (e *BoolLit) Span() source.Span { return e.Sp }
func (e *BoolLit) exprNode()         {}

// NoneLit is the None literal.
type NoneLit struct {
	Sp source.Span
}

func (e *NoneLit) Span() source.Span { return e.Sp }
func (e *NoneLit) exprNode()         {}

// StringLit carries the escape-decoded text of a plain string literal.
type StringLit struct {
	Value string
	Sp    source.Span
}

func (e *StringLit) Span() source.Span { return e.Sp }
func (e *StringLit) exprNode()         {}

// BytesLit carries the escape-decoded bytes of a b"..." literal.
type BytesLit struct {
	Value []byte
	Sp    source.Span
}

func (e *BytesLit) Span() source.Span { return e.Sp }
func (e *BytesLit) exprNode()         {}

// FStringExpr is an interpolated literal decomposed into alternating
// literal-text and embedded-expression parts, in source order.
type FStringExpr struct {
	Parts []FStringPart
	Sp    source.Span
}

// FStringPart is either decoded literal text (Expr nil) or an embedded
// expression parsed from its exact source range.
type FStringPart struct {
	Text string
	Expr Expr
}

func (e *FStringExpr) Span() source.Span { return e.Sp }
func (e *FStringExpr) exprNode()         {}

// BinOp enumerates binary operators, including the keyword forms.
type BinOp uint8

const (
	OpAdd      BinOp = iota // +
	OpSub                   // -
	OpMul                   // *
	OpDiv                   // /
	OpFloorDiv              // //
	OpMod                   // %
	OpPow                   // **
	OpEq                    // ==
	OpNotEq                 // !=
	OpLt                    // <
	OpLtEq                  // <=
	OpGt                    // >
	OpGtEq                  // >=
	OpAnd                   // and
	OpOr                    // or
	OpIn                    // in
	OpNotIn                 // not in
	OpIs                    // is
)

func (op BinOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpFloorDiv:
		return "//"
	case OpMod:
		return "%"
	case OpPow:
		return "**"
	case OpEq:
		return "=="
	case OpNotEq:
		return "!="
	case OpLt:
		return "<"
	case OpLtEq:
		return "<="
	case OpGt:
		return ">"
	case OpGtEq:
		return ">="
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpIn:
		return "in"
	case OpNotIn:
		return "not in"
	case OpIs:
		return "is"
	}
	return "?"
}

// IsComparison reports whether the operator belongs to the comparison tier.
func (op BinOp) IsComparison() bool {
	switch op {
	case OpEq, OpNotEq, OpLt, OpLtEq, OpGt, OpGtEq, OpIn, OpNotIn, OpIs:
		return true
	}
	return false
}

// BinaryExpr is `lhs op rhs`.
type BinaryExpr struct {
	Op  BinOp
	LHS Expr
	RHS Expr
	Sp  source.Span
}

func (e *BinaryExpr) Span() source.Span { return e.Sp }
func (e *BinaryExpr) exprNode()         {}

// UnOp enumerates unary operators.
type UnOp uint8

const (
	OpNeg UnOp = iota // -
	OpNot             // not
)

func (op UnOp) String() string {
	if op == OpNeg {
		return "-"
	}
	return "not"
}

// UnaryExpr is `-x` or `not x`.
type UnaryExpr struct {
	Op UnOp
	X  Expr
	Sp source.Span
}

func (e *UnaryExpr) Span() source.Span { return e.Sp }
func (e *UnaryExpr) exprNode()         {}

// Arg is one call argument, positional or named.
type Arg struct {
	Name  *Ident // nil for positional
	Value Expr
}

// CallExpr is `callee(args)`.
type CallExpr struct {
	Callee Expr
	Args   []Arg
	Sp     source.Span
}

func (e *CallExpr) Span() source.Span { return e.Sp }
func (e *CallExpr) exprNode()         {}

// IndexExpr is `x[i]`.
type IndexExpr struct {
	X     Expr
	Index Expr
	Sp    source.Span
}

func (e *IndexExpr) Span() source.Span { return e.Sp }
func (e *IndexExpr) exprNode()         {}

// SliceExpr is `x[start:end]` or `x[start:end:step]`; each part may be nil.
type SliceExpr struct {
	X     Expr
	Start Expr
	End   Expr
	Step  Expr
	Sp    source.Span
}

func (e *SliceExpr) Span() source.Span { return e.Sp }
func (e *SliceExpr) exprNode()         {}

// FieldExpr is `x.field`.
type FieldExpr struct {
	X     Expr
	Field Ident
	Sp    source.Span
}

func (e *FieldExpr) Span() source.Span { return e.Sp }
func (e *FieldExpr) exprNode()         {}

// ListExpr is `[a, b, c]`.
type ListExpr struct {
	Elems []Expr
	Sp    source.Span
}

func (e *ListExpr) Span() source.Span { return e.Sp }
func (e *ListExpr) exprNode()         {}

// ListCompExpr is `[elem for var in iter if cond]`; Cond is nil when the
// filter clause is absent.
type ListCompExpr struct {
	Elem Expr
	Var  Ident
	Iter Expr
	Cond Expr
	Sp   source.Span
}

func (e *ListCompExpr) Span() source.Span { return e.Sp }
func (e *ListCompExpr) exprNode()         {}

// DictEntry is one `key: value` pair in a dict display.
type DictEntry struct {
	Key   Expr
	Value Expr
}

// DictExpr is `{k: v, ...}`.
type DictExpr struct {
	Entries []DictEntry
	Sp      source.Span
}

func (e *DictExpr) Span() source.Span { return e.Sp }
func (e *DictExpr) exprNode()         {}

// ParenExpr preserves explicit grouping for faithful spans.
type ParenExpr struct {
	X  Expr
	Sp source.Span
}

func (e *ParenExpr) Span() source.Span { return e.Sp }
func (e *ParenExpr) exprNode()         {}

// BadExpr marks an expression region skipped during error recovery.
type BadExpr struct {
	Sp source.Span
}

func (e *BadExpr) Span() source.Span { return e.Sp }
func (e *BadExpr) exprNode()         {}
