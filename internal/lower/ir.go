// Package lower translates checked syntax trees into a Rust-level IR. Each
// module becomes one Unit: lowered declarations plus the capability
// obligations and support-library imports they require. Rendering the unit
// to text is the emit stage's job; everything here is order-preserving so
// the same input always produces the same unit.
package lower

import "sort"

// Unit is the lowered form of one module.
type Unit struct {
	Module      string
	Models      []*Model
	Funcs       []*Func
	Consts      []*Const
	Obligations []Obligation

	imports   map[string]struct{}
	crates    map[string]struct{}
	crateUses map[string]struct{}
}

// need records a support-library import path, e.g. "incan_stdlib::str_index".
func (u *Unit) need(path string) {
	if u.imports == nil {
		u.imports = make(map[string]struct{})
	}
	u.imports[path] = struct{}{}
}

// needCrate records a native crate dependency beyond the runtime pair.
func (u *Unit) needCrate(name string) {
	if u.crates == nil {
		u.crates = make(map[string]struct{})
	}
	u.crates[name] = struct{}{}
}

// needModule records a sibling module whose items this unit references.
func (u *Unit) needModule(name string) {
	if u.crateUses == nil {
		u.crateUses = make(map[string]struct{})
	}
	u.crateUses[name] = struct{}{}
}

// ModuleUses returns the referenced sibling modules sorted by name.
func (u *Unit) ModuleUses() []string {
	out := make([]string, 0, len(u.crateUses))
	for m := range u.crateUses {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Imports returns the required import paths sorted by path.
func (u *Unit) Imports() []string {
	out := make([]string, 0, len(u.imports))
	for p := range u.imports {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Crates returns the required native crates sorted by name.
func (u *Unit) Crates() []string {
	out := make([]string, 0, len(u.crates))
	for c := range u.crates {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Strategy says how an obligation is discharged in generated code.
type Strategy uint8

const (
	// StrategyDerive appends a Rust derive ident to the struct attribute.
	StrategyDerive Strategy = iota
	// StrategyImpl emits a synthetic impl block over the field list.
	StrategyImpl
	// StrategyManual wires a user magic method into the trait impl.
	StrategyManual
	// StrategyBuiltin is satisfied by the runtime library or the language
	// itself; nothing is emitted beyond imports.
	StrategyBuiltin
)

// Obligation is one capability a lowered type must satisfy.
type Obligation struct {
	Hook     string // hook name, e.g. "eq"
	Target   string // type the obligation applies to
	Trait    string // Rust trait path
	Strategy Strategy
	Fields   []string // declaration order, verbatim
	Method   *Func    // manual implementation body, when Strategy is StrategyManual
}

// Key orders obligations deterministically.
func (o Obligation) Key() string { return o.Target + "\x00" + o.Hook }

// Model is a lowered model declaration.
type Model struct {
	Name    string
	Fields  []Field
	Derives []string // Rust derive idents, already ordered
	Methods []*Func  // inherent methods
}

// Field is one struct field.
type Field struct {
	Name string
	Type string
	Pub  bool
}

// Func is a lowered function or method.
type Func struct {
	Name    string
	SelfRef bool // takes &self
	Params  []Param
	Ret     string // empty for unit
	Body    []Stmt
}

// Param is one lowered parameter.
type Param struct {
	Name string
	Type string
}

// Const is a lowered module constant.
type Const struct {
	Name  string
	Type  string
	Value string // rendered Rust literal
}

// Stmt is a Rust-level statement.
type Stmt interface{ stmtNode() }

type LetStmt struct {
	Name string
	Mut  bool
	Type string // empty to infer
	Init Expr
}

type AssignStmt struct {
	Target Expr
	Value  Expr
}

// InsertStmt is a dict element write: target.insert(key, value).
type InsertStmt struct {
	Target Expr
	Key    Expr
	Value  Expr
}

type ExprStmt struct{ X Expr }

type ReturnStmt struct{ X Expr } // X nil for bare return

type IfStmt struct {
	Cond Expr
	Then []Stmt
	Elif []ElifArm
	Else []Stmt // nil when absent
}

type ElifArm struct {
	Cond Expr
	Body []Stmt
}

type WhileStmt struct {
	Cond Expr
	Body []Stmt
}

type ForStmt struct {
	Var  string
	Iter Expr
	Body []Stmt
}

type BreakStmt struct{}
type ContinueStmt struct{}

func (*LetStmt) stmtNode()      {}
func (*AssignStmt) stmtNode()   {}
func (*InsertStmt) stmtNode()   {}
func (*ExprStmt) stmtNode()     {}
func (*ReturnStmt) stmtNode()   {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*ForStmt) stmtNode()      {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}

// Expr is a Rust-level expression.
type Expr interface{ exprNode() }

// Raw is pre-rendered Rust text: literals, names, cast chains.
type Raw struct{ Text string }

type Unary struct {
	Op string
	X  Expr
}

type Binary struct {
	Op   string
	L, R Expr
}

// Call is a free or path-qualified function call.
type Call struct {
	Fn   string
	Args []Expr
}

// Method is a method call on a receiver.
type Method struct {
	Recv Expr
	Name string
	Args []Expr
}

// Macro is a macro invocation: format!, println!, vec!.
type Macro struct {
	Name string
	Args []Expr
}

// StrLit renders as an escaped Rust string literal.
type StrLit struct{ Value string }

type FieldAccess struct {
	Recv Expr
	Name string
}

type StructLit struct {
	Name   string
	Fields []FieldInit
}

type FieldInit struct {
	Name  string
	Value Expr
}

// Tuple renders (a, b).
type Tuple struct{ Elems []Expr }

// Array renders [a, b].
type Array struct{ Elems []Expr }

// Ref renders &x.
type Ref struct{ X Expr }

// MutRef renders &mut x.
type MutRef struct{ X Expr }

// Cast renders (x as To).
type Cast struct {
	X  Expr
	To string
}

// Paren forces grouping.
type Paren struct{ X Expr }

// Comprehension renders as a block expression that fills a Vec from an
// iterator, optionally filtered. Cond is nil when no filter applies.
type Comprehension struct {
	Var  string
	Iter Expr
	Cond Expr
	Elem Expr
}

func (*Raw) exprNode()           {}
func (*Unary) exprNode()         {}
func (*Binary) exprNode()        {}
func (*Call) exprNode()          {}
func (*Method) exprNode()        {}
func (*Macro) exprNode()         {}
func (*StrLit) exprNode()        {}
func (*FieldAccess) exprNode()   {}
func (*StructLit) exprNode()     {}
func (*Tuple) exprNode()         {}
func (*Array) exprNode()         {}
func (*Ref) exprNode()           {}
func (*MutRef) exprNode()        {}
func (*Cast) exprNode()          {}
func (*Paren) exprNode()         {}
func (*Comprehension) exprNode() {}
