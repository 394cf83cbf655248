// Package emit renders lowered IR units to Rust source text and the Cargo
// manifest. Rendering is deterministic: the same unit always produces
// byte-identical output, so generated trees diff cleanly across runs.
package emit

import (
	"fmt"
	"strings"

	"incan/internal/lower"
)

// RenderModule renders one unit as a complete Rust source file.
func RenderModule(u *lower.Unit) string {
	r := &renderer{}
	r.line("// Generated by incan. Do not edit.")

	uses := useLines(u)
	mods := u.ModuleUses()
	if len(uses) > 0 || len(mods) > 0 {
		r.blank()
		for _, use := range uses {
			r.line("use " + use + ";")
		}
		for _, m := range mods {
			r.line("use crate::" + m + "::*;")
		}
	}

	for _, c := range u.Consts {
		r.blank()
		r.line(fmt.Sprintf("pub const %s: %s = %s;", c.Name, c.Type, c.Value))
	}

	for _, m := range u.Models {
		r.renderModel(m, u)
	}

	for _, f := range u.Funcs {
		r.blank()
		r.renderFunc(f, false)
	}

	return r.String()
}

// useLines returns the use declarations for the unit. Lowered call sites
// reference runtime helpers by short name, so every recorded import path
// becomes a use line and nothing else does.
func useLines(u *lower.Unit) []string {
	return u.Imports()
}

type renderer struct {
	b      strings.Builder
	indent int
}

func (r *renderer) line(s string) {
	for i := 0; i < r.indent; i++ {
		r.b.WriteString("    ")
	}
	r.b.WriteString(s)
	r.b.WriteByte('\n')
}

func (r *renderer) blank() { r.b.WriteByte('\n') }

func (r *renderer) String() string { return r.b.String() }

func (r *renderer) renderModel(m *lower.Model, u *lower.Unit) {
	r.blank()
	if len(m.Derives) > 0 {
		r.line("#[derive(" + strings.Join(m.Derives, ", ") + ")]")
	}
	r.line("pub struct " + m.Name + " {")
	r.indent++
	for _, f := range m.Fields {
		r.line(fmt.Sprintf("pub %s: %s,", f.Name, f.Type))
	}
	r.indent--
	r.line("}")

	if len(m.Methods) > 0 {
		r.blank()
		r.line("impl " + m.Name + " {")
		r.indent++
		for i, fn := range m.Methods {
			if i > 0 {
				r.blank()
			}
			r.renderFunc(fn, true)
		}
		r.indent--
		r.line("}")
	}

	for _, ob := range u.Obligations {
		if ob.Target != m.Name {
			continue
		}
		switch ob.Strategy {
		case lower.StrategyImpl:
			r.renderImplObligation(m, ob)
		case lower.StrategyManual:
			r.renderManualObligation(m, ob)
		}
	}
}

// renderImplObligation emits the synthetic trait impl for a derived hook
// that has no native Rust derive: field-wise equality, Display formatting
// and field-name reflection.
func (r *renderer) renderImplObligation(m *lower.Model, ob lower.Obligation) {
	switch ob.Hook {
	case "eq":
		r.blank()
		r.line("impl PartialEq for " + m.Name + " {")
		r.indent++
		r.line("fn eq(&self, other: &Self) -> bool {")
		r.indent++
		if len(ob.Fields) == 0 {
			r.line("true")
		} else {
			terms := make([]string, len(ob.Fields))
			for i, f := range ob.Fields {
				terms[i] = fmt.Sprintf("self.%s == other.%s", f, f)
			}
			r.line(strings.Join(terms, " && "))
		}
		r.indent--
		r.line("}")
		r.indent--
		r.line("}")
	case "str":
		r.blank()
		r.line("impl std::fmt::Display for " + m.Name + " {")
		r.indent++
		r.line("fn fmt(&self, f: &mut std::fmt::Formatter<'_>) -> std::fmt::Result {")
		r.indent++
		holes := make([]string, len(ob.Fields))
		args := make([]string, len(ob.Fields))
		for i, fd := range ob.Fields {
			holes[i] = fd + "={}"
			args[i] = "self." + fd
		}
		tmpl := fmt.Sprintf("%q", m.Name+"("+strings.Join(holes, ", ")+")")
		if len(args) > 0 {
			r.line(fmt.Sprintf("write!(f, %s, %s)", tmpl, strings.Join(args, ", ")))
		} else {
			r.line(fmt.Sprintf("write!(f, %s)", tmpl))
		}
		r.indent--
		r.line("}")
		r.indent--
		r.line("}")
	case "fields":
		r.blank()
		r.line("impl FieldInfo for " + m.Name + " {")
		r.indent++
		r.line("fn __fields__() -> Vec<&'static str> {")
		r.indent++
		quoted := make([]string, len(ob.Fields))
		for i, f := range ob.Fields {
			quoted[i] = fmt.Sprintf("%q", f)
		}
		r.line("vec![" + strings.Join(quoted, ", ") + "]")
		r.indent--
		r.line("}")
		r.indent--
		r.line("}")
	}
}

// renderManualObligation wires a user magic method into the trait it
// implements. The method itself is already an inherent method; the trait
// impl delegates to it.
func (r *renderer) renderManualObligation(m *lower.Model, ob lower.Obligation) {
	switch ob.Hook {
	case "eq":
		r.blank()
		r.line("impl PartialEq for " + m.Name + " {")
		r.indent++
		r.line("fn eq(&self, other: &Self) -> bool {")
		r.indent++
		r.line("self.__eq__(other.clone())")
		r.indent--
		r.line("}")
		r.indent--
		r.line("}")
	case "str":
		r.blank()
		r.line("impl std::fmt::Display for " + m.Name + " {")
		r.indent++
		r.line("fn fmt(&self, f: &mut std::fmt::Formatter<'_>) -> std::fmt::Result {")
		r.indent++
		r.line(`write!(f, "{}", self.__str__())`)
		r.indent--
		r.line("}")
		r.indent--
		r.line("}")
	}
}

func (r *renderer) renderFunc(f *lower.Func, method bool) {
	params := make([]string, 0, len(f.Params)+1)
	if f.SelfRef {
		params = append(params, "&self")
	}
	for _, p := range f.Params {
		params = append(params, p.Name+": "+p.Type)
	}

	sig := "pub fn "
	if f.Name == "main" && !method {
		sig = "fn "
	}
	sig += f.Name + "(" + strings.Join(params, ", ") + ")"
	if f.Ret != "" {
		sig += " -> " + f.Ret
	}
	r.line(sig + " {")
	r.indent++
	r.renderBlock(f.Body)
	r.indent--
	r.line("}")
}

func (r *renderer) renderBlock(stmts []lower.Stmt) {
	for _, s := range stmts {
		r.renderStmt(s)
	}
}

func (r *renderer) renderStmt(s lower.Stmt) {
	switch ss := s.(type) {
	case *lower.LetStmt:
		head := "let "
		if ss.Mut {
			head += "mut "
		}
		head += ss.Name
		if ss.Type != "" {
			head += ": " + ss.Type
		}
		r.line(head + " = " + renderExpr(ss.Init) + ";")
	case *lower.AssignStmt:
		r.line(renderExpr(ss.Target) + " = " + renderExpr(ss.Value) + ";")
	case *lower.InsertStmt:
		r.line(fmt.Sprintf("%s.insert(%s, %s);",
			renderExpr(ss.Target), renderExpr(ss.Key), renderExpr(ss.Value)))
	case *lower.ExprStmt:
		r.line(renderExpr(ss.X) + ";")
	case *lower.ReturnStmt:
		if ss.X == nil {
			r.line("return;")
		} else {
			r.line("return " + renderExpr(ss.X) + ";")
		}
	case *lower.IfStmt:
		r.line("if " + renderExpr(ss.Cond) + " {")
		r.indent++
		r.renderBlock(ss.Then)
		r.indent--
		for _, arm := range ss.Elif {
			r.line("} else if " + renderExpr(arm.Cond) + " {")
			r.indent++
			r.renderBlock(arm.Body)
			r.indent--
		}
		if ss.Else != nil {
			r.line("} else {")
			r.indent++
			r.renderBlock(ss.Else)
			r.indent--
		}
		r.line("}")
	case *lower.WhileStmt:
		r.line("while " + renderExpr(ss.Cond) + " {")
		r.indent++
		r.renderBlock(ss.Body)
		r.indent--
		r.line("}")
	case *lower.ForStmt:
		r.line("for " + ss.Var + " in " + renderExpr(ss.Iter) + " {")
		r.indent++
		r.renderBlock(ss.Body)
		r.indent--
		r.line("}")
	case *lower.BreakStmt:
		r.line("break;")
	case *lower.ContinueStmt:
		r.line("continue;")
	}
}

func renderExpr(e lower.Expr) string {
	switch ee := e.(type) {
	case *lower.Raw:
		return ee.Text
	case *lower.Unary:
		return ee.Op + operand(ee.X)
	case *lower.Binary:
		if ee.Op == ".." {
			return operand(ee.L) + ".." + operand(ee.R)
		}
		return operand(ee.L) + " " + ee.Op + " " + operand(ee.R)
	case *lower.Call:
		return ee.Fn + "(" + renderArgs(ee.Args) + ")"
	case *lower.Method:
		return operand(ee.Recv) + "." + ee.Name + "(" + renderArgs(ee.Args) + ")"
	case *lower.Macro:
		return ee.Name + "!(" + renderArgs(ee.Args) + ")"
	case *lower.StrLit:
		return lower.RustStringLit(ee.Value)
	case *lower.FieldAccess:
		return operand(ee.Recv) + "." + ee.Name
	case *lower.StructLit:
		if len(ee.Fields) == 0 {
			return ee.Name + " {}"
		}
		parts := make([]string, len(ee.Fields))
		for i, f := range ee.Fields {
			parts[i] = f.Name + ": " + renderExpr(f.Value)
		}
		return ee.Name + " { " + strings.Join(parts, ", ") + " }"
	case *lower.Tuple:
		return "(" + renderArgs(ee.Elems) + ")"
	case *lower.Array:
		return "[" + renderArgs(ee.Elems) + "]"
	case *lower.Ref:
		return "&" + operand(ee.X)
	case *lower.MutRef:
		return "&mut " + operand(ee.X)
	case *lower.Cast:
		return "(" + renderExpr(ee.X) + " as " + ee.To + ")"
	case *lower.Paren:
		return "(" + renderExpr(ee.X) + ")"
	case *lower.Comprehension:
		return renderComprehension(ee)
	default:
		return "()"
	}
}

// renderComprehension writes a block expression that fills a Vec from the
// shaped iterator, one push per accepted item.
func renderComprehension(e *lower.Comprehension) string {
	push := "__items.push(" + renderExpr(e.Elem) + ");"
	if e.Cond != nil {
		push = "if " + renderExpr(e.Cond) + " { " + push + " }"
	}
	return "{ let mut __items = Vec::new(); for " + e.Var + " in " +
		renderExpr(e.Iter) + " { " + push + " } __items }"
}

// operand parenthesizes compound subexpressions so operator precedence in
// the source text matches the IR structure.
func operand(e lower.Expr) string {
	switch e.(type) {
	case *lower.Binary, *lower.Unary:
		return "(" + renderExpr(e) + ")"
	default:
		return renderExpr(e)
	}
}

func renderArgs(args []lower.Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = renderExpr(a)
	}
	return strings.Join(parts, ", ")
}
