package ast

import (
	"incan/internal/source"
)

// Decorator is an @name or @name(args) annotation line. The parser records
// the spelling and argument expressions only; meaning is assigned during
// lowering.
type Decorator struct {
	Name Ident
	Args []Expr
	Sp   source.Span
}

func (d *Decorator) Span() source.Span { return d.Sp }

// Param is one function or method parameter.
type Param struct {
	Mut     bool
	Name    Ident
	Type    TypeExpr // nil only for self
	Default Expr     // nil when absent
	Sp      source.Span
}

func (p *Param) Span() source.Span { return p.Sp }

// FuncDecl is a def declaration. Methods inside a model reuse it with
// SelfParam set.
type FuncDecl struct {
	Decorators []*Decorator
	Pub        bool
	Name       Ident
	SelfParam  *Param // non-nil for methods taking self
	Params     []*Param
	Return     TypeExpr // nil means no annotation, i.e. no value
	Body       *Block   // nil for trait method signatures
	Sp         source.Span
}

func (d *FuncDecl) Span() source.Span { return d.Sp }
func (d *FuncDecl) declNode()         {}

// Field is one typed model field. Declaration order is significant and is
// preserved verbatim through lowering.
type Field struct {
	Pub     bool
	Name    Ident
	Type    TypeExpr
	Default Expr // nil when absent
	Sp      source.Span
}

func (f *Field) Span() source.Span { return f.Sp }

// ModelDecl is a model declaration: ordered typed fields plus methods.
type ModelDecl struct {
	Decorators []*Decorator
	Pub        bool
	Name       Ident
	Fields     []*Field
	Methods    []*FuncDecl
	Sp         source.Span
}

func (d *ModelDecl) Span() source.Span { return d.Sp }
func (d *ModelDecl) declNode()         {}

// TraitDecl is a trait declaration: method signatures without bodies.
type TraitDecl struct {
	Decorators []*Decorator
	Pub        bool
	Name       Ident
	Methods    []*FuncDecl
	Sp         source.Span
}

func (d *TraitDecl) Span() source.Span { return d.Sp }
func (d *TraitDecl) declNode()         {}

// ImportDecl covers both forms:
//
//	import a::b [as c]
//	from a::b import x [as y], z
type ImportDecl struct {
	Path  []Ident
	Alias *Ident        // import ... as alias
	Items []*ImportItem // nil for the plain import form
	Sp    source.Span
}

// ImportItem is one name in a from-import list.
type ImportItem struct {
	Name  Ident
	Alias *Ident
}

func (d *ImportDecl) Span() source.Span { return d.Sp }
func (d *ImportDecl) declNode()         {}

// ConstDecl is a module-level constant binding.
type ConstDecl struct {
	Pub   bool
	Name  Ident
	Type  TypeExpr // nil when inferred
	Value Expr
	Sp    source.Span
}

func (d *ConstDecl) Span() source.Span { return d.Sp }
func (d *ConstDecl) declNode()         {}

// BadDecl marks a declaration region the parser gave up on after reporting.
// It keeps sibling declarations parseable and is skipped by later stages.
type BadDecl struct {
	Sp source.Span
}

func (d *BadDecl) Span() source.Span { return d.Sp }
func (d *BadDecl) declNode()         {}
