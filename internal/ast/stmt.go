package ast

import (
	"incan/internal/source"
)

// LetStmt is let/mut binding: `let x: T = e` or `mut x = e`.
type LetStmt struct {
	Mut   bool
	Name  Ident
	Type  TypeExpr // nil when inferred
	Value Expr
	Sp    source.Span
}

func (s *LetStmt) Span() source.Span { return s.Sp }
func (s *LetStmt) stmtNode()         {}

// AssignStmt assigns to an lvalue: name, field access or index expression.
type AssignStmt struct {
	Target Expr
	Value  Expr
	Sp     source.Span
}

func (s *AssignStmt) Span() source.Span { return s.Sp }
func (s *AssignStmt) stmtNode()         {}

// AssignOp enumerates the compound assignment operators.
type AssignOp uint8

const (
	AssignAdd      AssignOp = iota // +=
	AssignSub                      // -=
	AssignMul                      // *=
	AssignDiv                      // /=
	AssignFloorDiv                 // //=
	AssignMod                      // %=
)

func (op AssignOp) String() string {
	switch op {
	case AssignAdd:
		return "+="
	case AssignSub:
		return "-="
	case AssignMul:
		return "*="
	case AssignDiv:
		return "/="
	case AssignFloorDiv:
		return "//="
	case AssignMod:
		return "%="
	}
	return "?="
}

// CompoundAssignStmt is `target op= value`.
type CompoundAssignStmt struct {
	Target Expr
	Op     AssignOp
	Value  Expr
	Sp     source.Span
}

func (s *CompoundAssignStmt) Span() source.Span { return s.Sp }
func (s *CompoundAssignStmt) stmtNode()         {}

// ReturnStmt is `return` with an optional value.
type ReturnStmt struct {
	Value Expr // nil for bare return
	Sp    source.Span
}

func (s *ReturnStmt) Span() source.Span { return s.Sp }
func (s *ReturnStmt) stmtNode()         {}

// IfStmt is if/elif/else. Elif chains are recorded flat, in source order.
type IfStmt struct {
	Cond Expr
	Then *Block
	Elif []ElifBranch
	Else *Block // nil when absent
	Sp   source.Span
}

// ElifBranch is one `elif cond:` arm.
type ElifBranch struct {
	Cond Expr
	Body *Block
}

func (s *IfStmt) Span() source.Span { return s.Sp }
func (s *IfStmt) stmtNode()         {}

// WhileStmt is `while cond:` with a body.
type WhileStmt struct {
	Cond Expr
	Body *Block
	Sp   source.Span
}

func (s *WhileStmt) Span() source.Span { return s.Sp }
func (s *WhileStmt) stmtNode()         {}

// ForStmt is `for var in iter:` with a body.
type ForStmt struct {
	Var  Ident
	Iter Expr
	Body *Block
	Sp   source.Span
}

func (s *ForStmt) Span() source.Span { return s.Sp }
func (s *ForStmt) stmtNode()         {}

// BreakStmt exits the innermost loop.
type BreakStmt struct {
	Sp source.Span
}

func (s *BreakStmt) Span() source.Span { return s.Sp }
func (s *BreakStmt) stmtNode()         {}

// ContinueStmt skips to the next loop iteration.
type ContinueStmt struct {
	Sp source.Span
}

func (s *ContinueStmt) Span() source.Span { return s.Sp }
func (s *ContinueStmt) stmtNode()         {}

// PassStmt is the empty statement.
type PassStmt struct {
	Sp source.Span
}

func (s *PassStmt) Span() source.Span { return s.Sp }
func (s *PassStmt) stmtNode()         {}

// ExprStmt is an expression evaluated for its effect.
type ExprStmt struct {
	X  Expr
	Sp source.Span
}

func (s *ExprStmt) Span() source.Span { return s.Sp }
func (s *ExprStmt) stmtNode()         {}

// BadStmt marks a statement region skipped during error recovery.
type BadStmt struct {
	Sp source.Span
}

func (s *BadStmt) Span() source.Span { return s.Sp }
func (s *BadStmt) stmtNode()         {}
