package lower

import (
	"fmt"
	"strings"

	"incan/internal/ast"
	"incan/internal/sema"
	"incan/internal/semcore"
	"incan/internal/types"
)

// lowerExpr produces an owned Rust value for the expression: non-Copy
// results are cloned so generated code never fights the borrow checker.
func (lo *lowerer) lowerExpr(e ast.Expr) Expr {
	switch ee := e.(type) {
	case *ast.IntLit:
		return &Raw{Text: fmt.Sprintf("%di64", ee.Value)}
	case *ast.FloatLit:
		return &Raw{Text: floatLit(ee.Value) + "f64"}
	case *ast.BoolLit:
		if ee.Value {
			return &Raw{Text: "true"}
		}
		return &Raw{Text: "false"}
	case *ast.NoneLit:
		return &Raw{Text: "()"}
	case *ast.StringLit:
		return &Method{Recv: &StrLit{Value: ee.Value}, Name: "to_string"}
	case *ast.BytesLit:
		return lo.lowerBytes(ee)
	case *ast.ParenExpr:
		return lo.lowerExpr(ee.X)
	case *ast.NameExpr:
		return lo.lowerName(ee)
	case *ast.SelfExpr:
		return lo.cloned(&Raw{Text: "self"}, lo.sem.TypeOf(e))
	case *ast.FStringExpr:
		return lo.lowerFString(ee)
	case *ast.UnaryExpr:
		if ee.Op == ast.OpNeg {
			return &Unary{Op: "-", X: lo.lowerExpr(ee.X)}
		}
		return &Unary{Op: "!", X: lo.truthExpr(ee.X)}
	case *ast.BinaryExpr:
		return lo.lowerBinary(ee)
	case *ast.CallExpr:
		return lo.lowerCall(ee)
	case *ast.IndexExpr:
		return lo.lowerIndex(ee)
	case *ast.SliceExpr:
		return lo.lowerSlice(ee)
	case *ast.FieldExpr:
		if lo.sem.TypeOf(ee.X).Kind == types.KindModule {
			return lo.lowerModuleConst(ee)
		}
		return lo.cloned(lo.lowerPlace(ee), lo.sem.TypeOf(e))
	case *ast.ListExpr:
		args := make([]Expr, len(ee.Elems))
		for i, el := range ee.Elems {
			args[i] = lo.lowerExpr(el)
		}
		return &Macro{Name: "vec", Args: args}
	case *ast.ListCompExpr:
		return lo.lowerListComp(ee)
	case *ast.DictExpr:
		return lo.lowerDict(ee)
	default:
		return &Raw{Text: "()"}
	}
}

// lowerPlace produces the expression without a trailing clone, for
// receivers, reference arguments and assignment targets.
func (lo *lowerer) lowerPlace(e ast.Expr) Expr {
	switch ee := e.(type) {
	case *ast.NameExpr:
		return &Raw{Text: ee.Name}
	case *ast.SelfExpr:
		return &Raw{Text: "self"}
	case *ast.FieldExpr:
		if lo.sem.TypeOf(ee.X).Kind == types.KindModule {
			return lo.lowerModuleConst(ee)
		}
		return &FieldAccess{Recv: lo.lowerPlace(ee.X), Name: ee.Field.Name}
	case *ast.ParenExpr:
		return lo.lowerPlace(ee.X)
	default:
		return lo.lowerExpr(e)
	}
}

func (lo *lowerer) cloned(x Expr, t *types.Type) Expr {
	if isCopyType(t) {
		return x
	}
	return &Method{Recv: x, Name: "clone"}
}

func (lo *lowerer) lowerName(e *ast.NameExpr) Expr {
	if ci, ok := lo.sem.Module.Consts[e.Name]; ok {
		return constRef(ci)
	}
	if ci, ok := lo.sem.Module.ImportedConsts[e.Name]; ok {
		return constRef(ci)
	}
	return lo.cloned(&Raw{Text: e.Name}, lo.sem.TypeOf(e))
}

// constRef reads a constant under its exported name. Str constants render as
// &str and turn into owned values at every use site.
func constRef(ci *sema.ConstInfo) Expr {
	if ci.Value.Kind == sema.ValStr {
		return &Method{Recv: &Raw{Text: ci.Name}, Name: "to_string"}
	}
	return &Raw{Text: ci.Name}
}

// lowerModuleConst resolves a module-qualified constant reference; the
// qualifier itself never reaches the output.
func (lo *lowerer) lowerModuleConst(e *ast.FieldExpr) Expr {
	name, ok := e.X.(*ast.NameExpr)
	if !ok {
		return &Raw{Text: "()"}
	}
	dep := lo.sem.Module.DepModules[name.Name]
	if dep == nil {
		return &Raw{Text: "()"}
	}
	if ci, ok := dep.Consts[e.Field.Name]; ok {
		return constRef(ci)
	}
	return &Raw{Text: "()"}
}

func (lo *lowerer) lowerBytes(e *ast.BytesLit) Expr {
	args := make([]Expr, len(e.Value))
	for i, b := range e.Value {
		args[i] = &Raw{Text: fmt.Sprintf("%du8", b)}
	}
	return &Macro{Name: "vec", Args: args}
}

// lowerFString renders interpolation through format!, with literal braces
// escaped the way the macro expects.
func (lo *lowerer) lowerFString(e *ast.FStringExpr) Expr {
	var tmpl strings.Builder
	args := []Expr{}
	for _, part := range e.Parts {
		if part.Expr != nil {
			tmpl.WriteString("{}")
			args = append(args, lo.lowerExpr(part.Expr))
			continue
		}
		escaped := strings.ReplaceAll(part.Text, "{", "{{")
		escaped = strings.ReplaceAll(escaped, "}", "}}")
		tmpl.WriteString(escaped)
	}
	return &Macro{Name: "format", Args: append([]Expr{&StrLit{Value: tmpl.String()}}, args...)}
}

// obligeBuiltin records a runtime-satisfied obligation once per
// (hook, target) pair.
func (lo *lowerer) obligeBuiltin(hook string, target *types.Type) {
	spec, ok := HookByName(hook)
	if !ok {
		return
	}
	key := target.String() + "\x00" + hook
	if lo.obliged == nil {
		lo.obliged = make(map[string]bool)
	}
	if lo.obliged[key] {
		return
	}
	lo.obliged[key] = true
	lo.unit.Obligations = append(lo.unit.Obligations, Obligation{
		Hook:     hook,
		Target:   target.String(),
		Trait:    spec.Trait,
		Strategy: StrategyBuiltin,
	})
}

func (lo *lowerer) lowerBinary(e *ast.BinaryExpr) Expr {
	lt := lo.sem.TypeOf(e.LHS)
	rt := lo.sem.TypeOf(e.RHS)

	switch e.Op {
	case ast.OpAnd:
		return &Binary{Op: "&&", L: lo.truthExpr(e.LHS), R: lo.truthExpr(e.RHS)}
	case ast.OpOr:
		return &Binary{Op: "||", L: lo.truthExpr(e.LHS), R: lo.truthExpr(e.RHS)}
	case ast.OpEq, ast.OpIs:
		lo.obligeBuiltin("eq", lt)
		return lo.numericAware("==", e, lt, rt)
	case ast.OpNotEq:
		lo.obligeBuiltin("eq", lt)
		return lo.numericAware("!=", e, lt, rt)
	case ast.OpLt:
		lo.obligeBuiltin("ord", lt)
		return lo.numericAware("<", e, lt, rt)
	case ast.OpLtEq:
		lo.obligeBuiltin("ord", lt)
		return lo.numericAware("<=", e, lt, rt)
	case ast.OpGt:
		lo.obligeBuiltin("ord", lt)
		return lo.numericAware(">", e, lt, rt)
	case ast.OpGtEq:
		lo.obligeBuiltin("ord", lt)
		return lo.numericAware(">=", e, lt, rt)
	case ast.OpIn:
		return lo.lowerMembership(e, rt)
	case ast.OpNotIn:
		return &Unary{Op: "!", X: lo.lowerMembership(e, rt)}
	default:
		return lo.lowerArith(e.Op, lt, rt, e.LHS, e.RHS)
	}
}

// numericAware emits a plain comparison, casting the int side when the
// operand types are mixed.
func (lo *lowerer) numericAware(op string, e *ast.BinaryExpr, lt, rt *types.Type) Expr {
	l := lo.lowerExpr(e.LHS)
	r := lo.lowerExpr(e.RHS)
	if lt.Kind == types.KindInt && rt.Kind == types.KindFloat {
		l = &Cast{X: l, To: "f64"}
	}
	if lt.Kind == types.KindFloat && rt.Kind == types.KindInt {
		r = &Cast{X: r, To: "f64"}
	}
	return &Binary{Op: op, L: l, R: r}
}

func (lo *lowerer) lowerMembership(e *ast.BinaryExpr, rt *types.Type) Expr {
	switch rt.Kind {
	case types.KindStr:
		lo.unit.need("incan_stdlib::str_contains")
		return &Call{Fn: "str_contains", Args: []Expr{
			&Ref{X: lo.lowerExpr(e.RHS)},
			&Ref{X: lo.lowerExpr(e.LHS)},
		}}
	case types.KindDict:
		return &Method{Recv: lo.lowerPlace(e.RHS), Name: "contains_key",
			Args: []Expr{&Ref{X: lo.lowerExpr(e.LHS)}}}
	default:
		return &Method{Recv: lo.lowerPlace(e.RHS), Name: "contains",
			Args: []Expr{&Ref{X: lo.lowerExpr(e.LHS)}}}
	}
}

// lowerArith lowers +-*/ // % ** following the numeric promotion policy;
// non-numeric operands dispatch to their capability's runtime form.
func (lo *lowerer) lowerArith(op ast.BinOp, lt, rt *types.Type, lhs, rhs ast.Expr) Expr {
	if lt.IsNumeric() && rt.IsNumeric() {
		return lo.lowerNumeric(op, lt, rt, lhs, rhs)
	}

	l := lo.lowerExpr(lhs)
	r := lo.lowerExpr(rhs)
	switch {
	case op == ast.OpAdd && lt.Kind == types.KindStr:
		lo.obligeBuiltin("add", lt)
		lo.unit.need("incan_stdlib::str_concat")
		return &Call{Fn: "str_concat", Args: []Expr{&Ref{X: l}, &Ref{X: r}}}
	case op == ast.OpAdd && lt.Kind == types.KindList:
		lo.obligeBuiltin("add", lt)
		chain := &Method{Recv: &Method{Recv: l, Name: "into_iter"}, Name: "chain",
			Args: []Expr{&Method{Recv: r, Name: "into_iter"}}}
		return &Method{Recv: chain, Name: "collect::<Vec<_>>"}
	default:
		return &Binary{Op: op.String(), L: l, R: r}
	}
}

func (lo *lowerer) lowerNumeric(op ast.BinOp, lt, rt *types.Type, lhs, rhs ast.Expr) Expr {
	hook := map[ast.BinOp]string{
		ast.OpAdd: "add", ast.OpSub: "sub", ast.OpMul: "mul", ast.OpDiv: "div",
		ast.OpFloorDiv: "floordiv", ast.OpMod: "mod", ast.OpPow: "pow",
	}[op]
	lo.obligeBuiltin(hook, lt)

	bothInt := lt.Kind == types.KindInt && rt.Kind == types.KindInt
	l := lo.lowerExpr(lhs)
	r := lo.lowerExpr(rhs)
	asF64 := func(x Expr, t *types.Type) Expr {
		if t.Kind == types.KindInt {
			return &Cast{X: x, To: "f64"}
		}
		return x
	}

	switch op {
	case ast.OpDiv:
		lo.unit.need("incan_stdlib::py_div")
		return &Call{Fn: "py_div", Args: []Expr{asF64(l, lt), asF64(r, rt)}}
	case ast.OpFloorDiv:
		if bothInt {
			lo.unit.need("incan_stdlib::py_floor_div_i64")
			return &Call{Fn: "py_floor_div_i64", Args: []Expr{l, r}}
		}
		lo.unit.need("incan_stdlib::py_floor_div_f64")
		return &Call{Fn: "py_floor_div_f64", Args: []Expr{asF64(l, lt), asF64(r, rt)}}
	case ast.OpMod:
		if bothInt {
			lo.unit.need("incan_stdlib::py_mod_i64")
			return &Call{Fn: "py_mod_i64", Args: []Expr{l, r}}
		}
		lo.unit.need("incan_stdlib::py_mod_f64")
		return &Call{Fn: "py_mod_f64", Args: []Expr{asF64(l, lt), asF64(r, rt)}}
	case ast.OpPow:
		powExp := semcore.ClassifyPowExponent(rt.Kind == types.KindFloat, intLiteralOf(rhs))
		if bothInt && powExp == semcore.PowNonNegIntLiteral {
			return &Method{Recv: &Paren{X: l}, Name: "pow", Args: []Expr{&Cast{X: r, To: "u32"}}}
		}
		return &Method{Recv: &Paren{X: asF64(l, lt)}, Name: "powf", Args: []Expr{asF64(r, rt)}}
	default:
		if bothInt || lt.Kind == rt.Kind {
			return &Binary{Op: op.String(), L: l, R: r}
		}
		return &Binary{Op: op.String(), L: asF64(l, lt), R: asF64(r, rt)}
	}
}

// intLiteralOf mirrors the checker's syntactic literal extraction for the
// power promotion rule.
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

// truthExpr lowers an expression in a boolean position.
func (lo *lowerer) truthExpr(e ast.Expr) Expr {
	t := lo.sem.TypeOf(e)
	lo.obligeBuiltin("truth", t)
	switch t.Kind {
	case types.KindBool, types.KindInvalid:
		return lo.lowerExpr(e)
	case types.KindInt:
		return &Binary{Op: "!=", L: lo.lowerExpr(e), R: &Raw{Text: "0i64"}}
	case types.KindFloat:
		return &Binary{Op: "!=", L: lo.lowerExpr(e), R: &Raw{Text: "0f64"}}
	default:
		return &Unary{Op: "!", X: &Method{Recv: lo.lowerPlace(e), Name: "is_empty"}}
	}
}

func (lo *lowerer) lowerIndex(e *ast.IndexExpr) Expr {
	xt := lo.sem.TypeOf(e.X)
	lo.obligeBuiltin("index", xt)
	switch xt.Kind {
	case types.KindStr:
		lo.unit.need("incan_stdlib::str_index")
		return &Call{Fn: "str_index", Args: []Expr{
			&Ref{X: lo.lowerPlace(e.X)}, lo.lowerExpr(e.Index)}}
	case types.KindBytes:
		lo.unit.need("incan_stdlib::list_get")
		get := &Call{Fn: "list_get", Args: []Expr{
			&Ref{X: lo.lowerPlace(e.X)}, lo.lowerExpr(e.Index)}}
		return &Cast{X: &Unary{Op: "*", X: get}, To: "i64"}
	case types.KindList:
		lo.unit.need("incan_stdlib::list_get")
		get := &Call{Fn: "list_get", Args: []Expr{
			&Ref{X: lo.lowerPlace(e.X)}, lo.lowerExpr(e.Index)}}
		return lo.cloned(get, xt.Elem)
	case types.KindDict:
		lo.unit.need("incan_stdlib::dict_get")
		get := &Call{Fn: "dict_get", Args: []Expr{
			&Ref{X: lo.lowerPlace(e.X)}, &Ref{X: lo.lowerExpr(e.Index)}}}
		return lo.cloned(get, xt.Value)
	default:
		return &Raw{Text: "()"}
	}
}

func (lo *lowerer) lowerSlice(e *ast.SliceExpr) Expr {
	xt := lo.sem.TypeOf(e.X)
	opt := func(part ast.Expr) Expr {
		if part == nil {
			return &Raw{Text: "None"}
		}
		return &Call{Fn: "Some", Args: []Expr{lo.lowerExpr(part)}}
	}
	args := []Expr{&Ref{X: lo.lowerPlace(e.X)}, opt(e.Start), opt(e.End), opt(e.Step)}
	if xt.Kind == types.KindStr {
		lo.unit.need("incan_stdlib::str_slice")
		return &Call{Fn: "str_slice", Args: args}
	}
	lo.unit.need("incan_stdlib::list_slice")
	return &Call{Fn: "list_slice", Args: args}
}

// lowerListComp builds a comprehension as a loop over the shaped iterable;
// the element and filter expressions evaluate in the loop body.
func (lo *lowerer) lowerListComp(e *ast.ListCompExpr) Expr {
	lo.obligeBuiltin("iter", lo.sem.TypeOf(e.Iter))
	out := &Comprehension{
		Var:  e.Var.Name,
		Iter: lo.lowerIter(e.Iter),
		Elem: lo.lowerExpr(e.Elem),
	}
	if e.Cond != nil {
		out.Cond = lo.truthExpr(e.Cond)
	}
	return out
}

func (lo *lowerer) lowerDict(e *ast.DictExpr) Expr {
	lo.unit.need("std::collections::HashMap")
	pairs := make([]Expr, len(e.Entries))
	for i, entry := range e.Entries {
		pairs[i] = &Tuple{Elems: []Expr{lo.lowerExpr(entry.Key), lo.lowerExpr(entry.Value)}}
	}
	return &Call{Fn: "HashMap::from", Args: []Expr{&Array{Elems: pairs}}}
}
