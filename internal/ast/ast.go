// Package ast defines the syntax tree produced by the parser. Each node owns
// its children and carries its source span; parent context is passed
// explicitly during traversal, never stored on the node.
package ast

import (
	"incan/internal/source"
)

// Node is implemented by every syntax tree node.
type Node interface {
	Span() source.Span
}

// Decl is a top-level declaration.
type Decl interface {
	Node
	declNode()
}

// Stmt is a statement inside a block.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression.
type Expr interface {
	Node
	exprNode()
}

// TypeExpr is a type annotation as written in source.
type TypeExpr interface {
	Node
	typeNode()
}

// Ident is a resolved-later name occurrence.
type Ident struct {
	Name string
	Sp   source.Span
}

func (i Ident) Span() source.Span { return i.Sp }

// File is the parse result for one module.
type File struct {
	FileID source.FileID
	Module string // module name derived from the file path
	Decls  []Decl
}

// Block is an indented statement list.
type Block struct {
	Stmts []Stmt
	Sp    source.Span
}

func (b *Block) Span() source.Span { return b.Sp }
