package sema

import (
	"fmt"

	"incan/internal/ast"
	"incan/internal/diag"
	"incan/internal/semcore"
	"incan/internal/types"
)

// checkExpr resolves the type of an expression, reporting protocol and type
// errors along the way. Every result is recorded for the lowering stage.
func (c *checker) checkExpr(e ast.Expr) *types.Type {
	t := c.exprType(e)
	c.res.ExprTypes[e] = t
	return t
}

func (c *checker) exprType(e ast.Expr) *types.Type {
	switch ee := e.(type) {
	case *ast.IntLit:
		return types.Int()
	case *ast.FloatLit:
		return types.Float()
	case *ast.BoolLit:
		return types.Bool()
	case *ast.NoneLit:
		return types.Nothing()
	case *ast.StringLit:
		return types.Str()
	case *ast.BytesLit:
		return types.Bytes()
	case *ast.BadExpr:
		return types.Invalid()
	case *ast.ParenExpr:
		return c.checkExpr(ee.X)
	case *ast.NameExpr:
		return c.checkName(ee)
	case *ast.SelfExpr:
		if c.selfTy == nil {
			c.report(diag.SemaSelfOutsideMethod, ee.Sp, "'self' is only valid inside a method")
			return types.Invalid()
		}
		return c.selfTy
	case *ast.UnaryExpr:
		return c.checkUnary(ee)
	case *ast.BinaryExpr:
		return c.checkBinary(ee)
	case *ast.CallExpr:
		return c.checkCall(ee)
	case *ast.IndexExpr:
		return c.checkIndex(ee)
	case *ast.SliceExpr:
		return c.checkSlice(ee)
	case *ast.FieldExpr:
		return c.checkFieldAccess(ee)
	case *ast.ListExpr:
		return c.checkList(ee)
	case *ast.ListCompExpr:
		return c.checkListComp(ee)
	case *ast.DictExpr:
		return c.checkDict(ee)
	case *ast.FStringExpr:
		return c.checkFString(ee)
	default:
		return types.Invalid()
	}
}

func (c *checker) checkName(e *ast.NameExpr) *types.Type {
	if c.scope != nil {
		if b := c.scope.lookup(e.Name); b != nil {
			return b.ty
		}
	}
	if ci, ok := c.res.Module.Consts[e.Name]; ok {
		if ci.Type == nil {
			return types.Invalid()
		}
		return ci.Type
	}
	if fi, ok := c.res.Module.Funcs[e.Name]; ok {
		return types.NewFunc(fi)
	}
	if mi, ok := c.res.Module.Models[e.Name]; ok {
		return types.NewFunc(ctorFor(mi))
	}
	if ci, ok := c.res.Module.ImportedConsts[e.Name]; ok {
		if ci.Type == nil {
			return types.Invalid()
		}
		return ci.Type
	}
	if fi, ok := c.res.Module.ImportedFuncs[e.Name]; ok {
		return types.NewFunc(fi)
	}
	if mi, ok := c.res.Module.ImportedModels[e.Name]; ok {
		return types.NewFunc(ctorFor(mi))
	}
	if _, ok := c.res.Module.DepModules[e.Name]; ok {
		return types.NewModuleRef(e.Name)
	}
	if _, ok := builtinByName(e.Name); ok {
		return types.NewFunc(&types.FuncInfo{Name: e.Name})
	}
	c.report(diag.SemaUnresolvedName, e.Sp, fmt.Sprintf("unresolved name '%s'", e.Name))
	return types.Invalid()
}

// ctorFor derives the constructor signature of a model from its fields in
// declaration order.
func ctorFor(info *types.ModelInfo) *types.FuncInfo {
	fi := &types.FuncInfo{Name: info.Name, Result: types.NewModel(info)}
	for _, f := range info.Fields {
		fi.Params = append(fi.Params, types.ParamInfo{Name: f.Name, Type: f.Type, HasDefault: f.HasDefault})
	}
	return fi
}

func (c *checker) checkUnary(e *ast.UnaryExpr) *types.Type {
	t := c.checkExpr(e.X)
	if t.IsInvalid() {
		return t
	}
	switch e.Op {
	case ast.OpNeg:
		if !t.IsNumeric() {
			c.report(diag.SemaNoCapability, e.Sp,
				fmt.Sprintf("unary '-' requires a numeric operand, got %s", t))
			return types.Invalid()
		}
		return t
	default:
		c.requireTruth(e.X, t)
		return types.Bool()
	}
}

// requireTruth validates a truthiness position.
func (c *checker) requireTruth(e ast.Expr, t *types.Type) {
	if t.IsInvalid() {
		return
	}
	if !types.Caps(t).Has(types.CapTruth) {
		c.report(diag.SemaBadTruthContext, e.Span(),
			fmt.Sprintf("%s cannot be used in a boolean context", t))
	}
}

func (c *checker) checkBinary(e *ast.BinaryExpr) *types.Type {
	lt := c.checkExpr(e.LHS)
	rt := c.checkExpr(e.RHS)
	if lt.IsInvalid() || rt.IsInvalid() {
		if e.Op.IsComparison() || e.Op == ast.OpAnd || e.Op == ast.OpOr {
			return types.Bool()
		}
		return types.Invalid()
	}

	switch e.Op {
	case ast.OpAnd, ast.OpOr:
		c.requireTruth(e.LHS, lt)
		c.requireTruth(e.RHS, rt)
		return types.Bool()
	case ast.OpEq, ast.OpNotEq:
		return c.checkEquality(e, lt, rt)
	case ast.OpLt, ast.OpLtEq, ast.OpGt, ast.OpGtEq:
		return c.checkOrdering(e, lt, rt)
	case ast.OpIn, ast.OpNotIn:
		return c.checkMembership(e, lt, rt)
	case ast.OpIs:
		return types.Bool()
	default:
		return c.checkArith(e, lt, rt)
	}
}

func (c *checker) checkEquality(e *ast.BinaryExpr, lt, rt *types.Type) *types.Type {
	// None comparisons are always allowed.
	if lt.Kind == types.KindNothing || rt.Kind == types.KindNothing {
		return types.Bool()
	}
	if lt.IsNumeric() && rt.IsNumeric() {
		return types.Bool()
	}
	if !types.Equal(lt, rt) {
		c.report(diag.SemaTypeMismatch, e.Sp,
			fmt.Sprintf("cannot compare %s with %s", lt, rt))
		return types.Bool()
	}
	if !types.Caps(lt).Has(types.CapEq) {
		c.report(diag.SemaNoCapability, e.Sp,
			fmt.Sprintf("%s does not support equality; derive Eq or implement __eq__", lt))
	}
	return types.Bool()
}

func (c *checker) checkOrdering(e *ast.BinaryExpr, lt, rt *types.Type) *types.Type {
	if lt.IsNumeric() && rt.IsNumeric() {
		return types.Bool()
	}
	if !types.Equal(lt, rt) {
		c.report(diag.SemaTypeMismatch, e.Sp,
			fmt.Sprintf("cannot order %s against %s", lt, rt))
		return types.Bool()
	}
	if !types.Caps(lt).Has(types.CapOrd) {
		c.report(diag.SemaNoCapability, e.Sp,
			fmt.Sprintf("'%s' is not supported for %s; derive Ord", e.Op, lt))
	}
	return types.Bool()
}

func (c *checker) checkMembership(e *ast.BinaryExpr, lt, rt *types.Type) *types.Type {
	switch rt.Kind {
	case types.KindStr:
		if lt.Kind != types.KindStr {
			c.report(diag.SemaMembershipMismatch, e.Sp,
				fmt.Sprintf("'in' on str requires a str operand, got %s", lt))
		}
	case types.KindList:
		if !c.assignable(rt.Elem, lt) {
			c.report(diag.SemaMembershipMismatch, e.Sp,
				fmt.Sprintf("'in' operand type %s does not match element type %s", lt, rt.Elem))
		}
	case types.KindDict:
		if !c.assignable(rt.Key, lt) {
			c.report(diag.SemaMembershipMismatch, e.Sp,
				fmt.Sprintf("'in' operand type %s does not match key type %s", lt, rt.Key))
		}
	default:
		c.report(diag.SemaMembershipMismatch, e.Sp,
			fmt.Sprintf("'in' requires a str, list or dict on the right, got %s", rt))
	}
	return types.Bool()
}

func binCap(op ast.BinOp) types.Capability {
	switch op {
	case ast.OpAdd:
		return types.CapAdd
	case ast.OpSub:
		return types.CapSub
	case ast.OpMul:
		return types.CapMul
	case ast.OpDiv:
		return types.CapDiv
	case ast.OpFloorDiv:
		return types.CapFloorDiv
	case ast.OpMod:
		return types.CapMod
	default:
		return types.CapPow
	}
}

func numOpFor(op ast.BinOp) semcore.NumericOp {
	switch op {
	case ast.OpAdd:
		return semcore.NumAdd
	case ast.OpSub:
		return semcore.NumSub
	case ast.OpMul:
		return semcore.NumMul
	case ast.OpDiv:
		return semcore.NumDiv
	case ast.OpFloorDiv:
		return semcore.NumFloorDiv
	case ast.OpMod:
		return semcore.NumMod
	default:
		return semcore.NumPow
	}
}

func (c *checker) checkArith(e *ast.BinaryExpr, lt, rt *types.Type) *types.Type {
	if lt.IsNumeric() && rt.IsNumeric() {
		numTy := func(t *types.Type) semcore.NumericTy {
			if t.Kind == types.KindFloat {
				return semcore.NumFloat
			}
			return semcore.NumInt
		}
		powExp := semcore.ClassifyPowExponent(rt.Kind == types.KindFloat, intLiteralOf(e.RHS))
		if semcore.ResultNumericType(numOpFor(e.Op), numTy(lt), numTy(rt), powExp) == semcore.NumFloat {
			return types.Float()
		}
		return types.Int()
	}

	cp := binCap(e.Op)
	if !types.Caps(lt).Has(cp) {
		c.report(diag.SemaNoCapability, e.Sp,
			fmt.Sprintf("'%s' is not supported for %s", e.Op, lt))
		return types.Invalid()
	}
	if !types.Equal(lt, rt) {
		c.report(diag.SemaTypeMismatch, e.Sp,
			fmt.Sprintf("invalid operand types for '%s': %s and %s", e.Op, lt, rt))
		return types.Invalid()
	}
	return lt
}

func (c *checker) checkCall(e *ast.CallExpr) *types.Type {
	// Builtins and constructors resolve by name before general expression
	// checking, so calls to them do not double-report unresolved names.
	if name, ok := e.Callee.(*ast.NameExpr); ok {
		if c.scope == nil || c.scope.lookup(name.Name) == nil {
			if b, ok := builtinByName(name.Name); ok {
				c.res.ExprTypes[e.Callee] = types.Invalid()
				return c.checkBuiltinCall(e, b)
			}
		}
	}
	if field, ok := e.Callee.(*ast.FieldExpr); ok {
		return c.checkMethodCall(e, field)
	}

	ct := c.checkExpr(e.Callee)
	if ct.IsInvalid() {
		return types.Invalid()
	}
	if ct.Kind != types.KindFunc {
		c.report(diag.SemaNotCallable, e.Sp, fmt.Sprintf("%s is not callable", ct))
		return types.Invalid()
	}
	return c.checkArgs(e, ct.Func)
}

// checkArgs validates positional and named arguments against a signature.
func (c *checker) checkArgs(e *ast.CallExpr, fi *types.FuncInfo) *types.Type {
	paramIdx := func(name string) int {
		for i, p := range fi.Params {
			if p.Name == name {
				return i
			}
		}
		return -1
	}

	bound := make([]bool, len(fi.Params))
	pos := 0
	for _, arg := range e.Args {
		at := c.checkExpr(arg.Value)
		var idx int
		if arg.Name != nil {
			idx = paramIdx(arg.Name.Name)
			if idx < 0 {
				c.report(diag.SemaArgCount, arg.Name.Sp,
					fmt.Sprintf("%s has no parameter '%s'", fi.Name, arg.Name.Name))
				continue
			}
		} else {
			idx = pos
			pos++
			if idx >= len(fi.Params) {
				continue
			}
		}
		if bound[idx] {
			c.report(diag.SemaArgCount, arg.Value.Span(),
				fmt.Sprintf("parameter '%s' bound more than once", fi.Params[idx].Name))
			continue
		}
		bound[idx] = true
		want := fi.Params[idx].Type
		if !c.assignable(want, at) {
			c.report(diag.SemaTypeMismatch, arg.Value.Span(),
				fmt.Sprintf("argument '%s' expects %s, got %s", fi.Params[idx].Name, want, at))
		}
	}

	given := 0
	for _, b := range bound {
		if b {
			given++
		}
	}
	if pos > len(fi.Params) || given < fi.MinArgs() {
		c.report(diag.SemaArgCount, e.Sp,
			fmt.Sprintf("%s expects %d to %d arguments, got %d",
				fi.Name, fi.MinArgs(), len(fi.Params), len(e.Args)))
	}
	if fi.Result == nil {
		return types.Invalid()
	}
	return fi.Result
}

func (c *checker) checkMethodCall(e *ast.CallExpr, field *ast.FieldExpr) *types.Type {
	recv := c.checkExpr(field.X)
	if recv.IsInvalid() {
		return types.Invalid()
	}

	if recv.Kind == types.KindModule {
		mt := c.checkModuleMember(recv.Module, field)
		if mt.IsInvalid() {
			return types.Invalid()
		}
		if mt.Kind != types.KindFunc {
			c.report(diag.SemaNotCallable, e.Sp, fmt.Sprintf("%s is not callable", mt))
			return types.Invalid()
		}
		c.res.ExprTypes[field] = mt
		return c.checkArgs(e, mt.Func)
	}

	var mi *types.FuncInfo
	switch recv.Kind {
	case types.KindModel:
		mi = recv.Model.Method(field.Field.Name)
	case types.KindTrait:
		mi = recv.Trait.Methods[field.Field.Name]
	}
	if mi == nil {
		if ut := c.universalMethod(e, field, recv); ut != nil {
			return ut
		}
		c.report(diag.SemaUnknownField, field.Field.Sp,
			fmt.Sprintf("%s has no method '%s'", recv, field.Field.Name))
		return types.Invalid()
	}
	c.res.ExprTypes[field] = types.NewFunc(mi)
	return c.checkArgs(e, mi)
}

// universalMethod handles the methods every capable value carries:
// .str() and .clone().
func (c *checker) universalMethod(e *ast.CallExpr, field *ast.FieldExpr, recv *types.Type) *types.Type {
	var result *types.Type
	var need types.Capability
	switch field.Field.Name {
	case "str":
		need, result = types.CapStr, types.Str()
	case "clone":
		need, result = types.CapClone, recv
	default:
		return nil
	}
	if !types.Caps(recv).Has(need) {
		c.report(diag.SemaNoCapability, field.Field.Sp,
			fmt.Sprintf(".%s() is not supported for %s", field.Field.Name, recv))
		return types.Invalid()
	}
	if len(e.Args) != 0 {
		c.report(diag.SemaArgCount, e.Sp,
			fmt.Sprintf(".%s() takes no arguments", field.Field.Name))
	}
	return result
}

func (c *checker) checkIndex(e *ast.IndexExpr) *types.Type {
	xt := c.checkExpr(e.X)
	it := c.checkExpr(e.Index)
	if xt.IsInvalid() {
		return types.Invalid()
	}

	switch xt.Kind {
	case types.KindStr:
		c.requireInt(e.Index, it, "string index")
		c.checkConstStringIndex(e)
		return types.Str()
	case types.KindBytes:
		c.requireInt(e.Index, it, "bytes index")
		return types.Int()
	case types.KindList:
		c.requireInt(e.Index, it, "list index")
		return xt.Elem
	case types.KindDict:
		if !it.IsInvalid() && !c.assignable(xt.Key, it) {
			c.report(diag.SemaTypeMismatch, e.Index.Span(),
				fmt.Sprintf("dict key expects %s, got %s", xt.Key, it))
		}
		return xt.Value
	default:
		c.report(diag.SemaNotIndexable, e.Sp, fmt.Sprintf("%s is not indexable", xt))
		return types.Invalid()
	}
}

func (c *checker) requireInt(e ast.Expr, t *types.Type, what string) {
	if !t.IsInvalid() && t.Kind != types.KindInt {
		c.report(diag.SemaTypeMismatch, e.Span(),
			fmt.Sprintf("%s must be int, got %s", what, t))
	}
}

// checkConstStringIndex reports a constant out-of-range index with the exact
// message the emitted program panics with at runtime.
func (c *checker) checkConstStringIndex(e *ast.IndexExpr) {
	sv := c.fold(e.X, false)
	iv := c.fold(e.Index, false)
	if sv.Kind != ValStr || iv.Kind != ValInt {
		return
	}
	if _, err := semcore.StrCharAt(sv.Str, iv.Int); err != nil {
		c.report(diag.SemaConstIndexRange, e.Sp, semcore.MsgStringIndexOutOfRange)
	}
}

func (c *checker) checkSlice(e *ast.SliceExpr) *types.Type {
	xt := c.checkExpr(e.X)
	for _, part := range []ast.Expr{e.Start, e.End, e.Step} {
		if part == nil {
			continue
		}
		pt := c.checkExpr(part)
		c.requireInt(part, pt, "slice bound")
	}
	if e.Step != nil {
		if sv := c.fold(e.Step, false); sv.Kind == ValInt && sv.Int == 0 {
			c.report(diag.SemaConstSliceStep, e.Step.Span(), semcore.MsgSliceStepZero)
		}
	}
	if xt.IsInvalid() {
		return types.Invalid()
	}
	switch xt.Kind {
	case types.KindStr, types.KindBytes, types.KindList:
		return xt
	default:
		c.report(diag.SemaNotIndexable, e.Sp, fmt.Sprintf("%s cannot be sliced", xt))
		return types.Invalid()
	}
}

func (c *checker) checkFieldAccess(e *ast.FieldExpr) *types.Type {
	xt := c.checkExpr(e.X)
	if xt.IsInvalid() {
		return types.Invalid()
	}
	if xt.Kind == types.KindModule {
		return c.checkModuleMember(xt.Module, e)
	}
	if xt.Kind != types.KindModel {
		c.report(diag.SemaUnknownField, e.Field.Sp,
			fmt.Sprintf("%s has no field '%s'", xt, e.Field.Name))
		return types.Invalid()
	}
	if f := xt.Model.Field(e.Field.Name); f != nil {
		return f.Type
	}
	if m := xt.Model.Method(e.Field.Name); m != nil {
		return types.NewFunc(m)
	}
	c.report(diag.SemaUnknownField, e.Field.Sp,
		fmt.Sprintf("%s has no field '%s'", xt.Model.Name, e.Field.Name))
	return types.Invalid()
}

// checkModuleMember resolves a qualified name against an imported module's
// surface.
func (c *checker) checkModuleMember(binding string, e *ast.FieldExpr) *types.Type {
	dep := c.res.Module.DepModules[binding]
	if dep == nil {
		return types.Invalid()
	}
	name := e.Field.Name
	if ci, ok := dep.Consts[name]; ok {
		if ci.Type == nil {
			return types.Invalid()
		}
		return ci.Type
	}
	if fi, ok := dep.Funcs[name]; ok {
		return types.NewFunc(fi)
	}
	if mi, ok := dep.Models[name]; ok {
		return types.NewFunc(ctorFor(mi))
	}
	c.report(diag.SemaUnresolvedName, e.Field.Sp,
		fmt.Sprintf("module '%s' has no symbol '%s'", dep.Name, name))
	return types.Invalid()
}

func (c *checker) checkList(e *ast.ListExpr) *types.Type {
	elem := types.Invalid()
	for i, el := range e.Elems {
		et := c.checkExpr(el)
		if et.IsInvalid() {
			continue
		}
		if elem.IsInvalid() {
			elem = et
			continue
		}
		if !c.assignable(elem, et) {
			c.report(diag.SemaTypeMismatch, el.Span(),
				fmt.Sprintf("list element %d is %s, expected %s", i, et, elem))
		}
	}
	return types.NewList(elem)
}

// checkListComp types a comprehension. The variable binds in a child scope
// covering the element and filter expressions only.
func (c *checker) checkListComp(e *ast.ListCompExpr) *types.Type {
	elem := c.iterElem(e.Iter)
	c.pushScope()
	defer c.popScope()
	c.scope.declare(&binding{name: e.Var.Name, ty: elem, mut: false, decl: e.Var.Sp})
	if e.Cond != nil {
		c.requireTruth(e.Cond, c.checkExpr(e.Cond))
	}
	return types.NewList(c.checkExpr(e.Elem))
}

func (c *checker) checkDict(e *ast.DictExpr) *types.Type {
	key, val := types.Invalid(), types.Invalid()
	for _, entry := range e.Entries {
		kt := c.checkExpr(entry.Key)
		vt := c.checkExpr(entry.Value)
		if key.IsInvalid() && !kt.IsInvalid() {
			key = kt
		} else if !kt.IsInvalid() && !c.assignable(key, kt) {
			c.report(diag.SemaTypeMismatch, entry.Key.Span(),
				fmt.Sprintf("dict key is %s, expected %s", kt, key))
		}
		if val.IsInvalid() && !vt.IsInvalid() {
			val = vt
		} else if !vt.IsInvalid() && !c.assignable(val, vt) {
			c.report(diag.SemaTypeMismatch, entry.Value.Span(),
				fmt.Sprintf("dict value is %s, expected %s", vt, val))
		}
	}
	return types.NewDict(key, val)
}

func (c *checker) checkFString(e *ast.FStringExpr) *types.Type {
	for _, part := range e.Parts {
		if part.Expr == nil {
			continue
		}
		pt := c.checkExpr(part.Expr)
		if pt.IsInvalid() {
			continue
		}
		if !types.Caps(pt).Has(types.CapStr) {
			c.report(diag.SemaNoCapability, part.Expr.Span(),
				fmt.Sprintf("%s cannot be interpolated; derive Display or implement __str__", pt))
		}
	}
	return types.Str()
}

// assignable reports whether a value of type src may flow into dst. Ints
// promote to floats; the invalid type flows anywhere to keep recovery quiet;
// an empty display adapts to any annotated container.
func (c *checker) assignable(dst, src *types.Type) bool {
	if dst.IsInvalid() || src.IsInvalid() {
		return true
	}
	if types.Equal(dst, src) {
		return true
	}
	if dst.Kind == types.KindFloat && src.Kind == types.KindInt {
		return true
	}
	if dst.Kind == types.KindList && src.Kind == types.KindList {
		return src.Elem.IsInvalid() || c.assignable(dst.Elem, src.Elem)
	}
	if dst.Kind == types.KindDict && src.Kind == types.KindDict {
		return (src.Key.IsInvalid() || c.assignable(dst.Key, src.Key)) &&
			(src.Value.IsInvalid() || c.assignable(dst.Value, src.Value))
	}
	// A model satisfies a trait when it implements every method.
	if dst.Kind == types.KindTrait && src.Kind == types.KindModel {
		for name := range dst.Trait.Methods {
			if src.Model.Method(name) == nil {
				return false
			}
		}
		return true
	}
	return false
}
