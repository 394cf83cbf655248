package ast

import (
	"incan/internal/source"
	"strings"
)

// NamedType is a bare type name: int, str, MyModel.
type NamedType struct {
	Name string
	Sp   source.Span
}

func (t *NamedType) Span() source.Span { return t.Sp }
func (t *NamedType) typeNode()         {}

// GenericType is an applied type constructor: List[int], Dict[str, int].
type GenericType struct {
	Name string
	Args []TypeExpr
	Sp   source.Span
}

func (t *GenericType) Span() source.Span { return t.Sp }
func (t *GenericType) typeNode()         {}

// SelfType refers to the implementing type inside a trait.
type SelfType struct {
	Sp source.Span
}

func (t *SelfType) Span() source.Span { return t.Sp }
func (t *SelfType) typeNode()         {}

// BadType marks an unparseable annotation after recovery.
type BadType struct {
	Sp source.Span
}

func (t *BadType) Span() source.Span { return t.Sp }
func (t *BadType) typeNode()         {}

// TypeString renders a type annotation the way it is written in source.
// Used in diagnostics.
func TypeString(t TypeExpr) string {
	switch tt := t.(type) {
	case *NamedType:
		return tt.Name
	case *GenericType:
		var sb strings.Builder
		sb.WriteString(tt.Name)
		sb.WriteByte('[')
		for i, a := range tt.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(TypeString(a))
		}
		sb.WriteByte(']')
		return sb.String()
	case *SelfType:
		return "Self"
	case nil:
		return "<none>"
	default:
		return "<error>"
	}
}
