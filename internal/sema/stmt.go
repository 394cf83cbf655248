package sema

import (
	"fmt"

	"incan/internal/ast"
	"incan/internal/diag"
	"incan/internal/types"
)

// checkFunc checks one function or method body. selfTy is nil for free
// functions.
func (c *checker) checkFunc(d *ast.FuncDecl, selfTy *types.Type) {
	if d.Body == nil {
		return
	}

	prevSelf, prevRet := c.selfTy, c.retTy
	c.selfTy, c.retTy = nil, types.Nothing()
	defer func() { c.selfTy, c.retTy = prevSelf, prevRet }()

	if d.SelfParam != nil {
		if selfTy == nil {
			c.report(diag.SemaSelfOutsideMethod, d.SelfParam.Sp,
				"'self' parameter is only valid inside a model")
		}
		c.selfTy = selfTy
	}

	c.pushScope()
	defer c.popScope()

	for _, p := range d.Params {
		pt := c.resolveType(p.Type, selfTy)
		if p.Default != nil {
			dt := c.checkExpr(p.Default)
			if !c.assignable(pt, dt) {
				c.report(diag.SemaTypeMismatch, p.Default.Span(),
					fmt.Sprintf("default for '%s' expects %s, got %s", p.Name.Name, pt, dt))
			}
		}
		c.scope.declare(&binding{name: p.Name.Name, ty: pt, mut: p.Mut, decl: p.Name.Sp})
	}

	if d.Return != nil {
		c.retTy = c.resolveType(d.Return, selfTy)
	}

	c.checkBlock(d.Body)

	if c.retTy.Kind != types.KindNothing && !c.retTy.IsInvalid() && !terminates(d.Body) {
		c.report(diag.SemaMissingReturn, d.Name.Sp,
			fmt.Sprintf("function '%s' must return %s on every path", d.Name.Name, c.retTy))
	}
}

// checkModelDefaults validates field default expressions.
func (c *checker) checkModelDefaults(d *ast.ModelDecl, info *types.ModelInfo) {
	for i, f := range d.Fields {
		if f.Default == nil || i >= len(info.Fields) {
			continue
		}
		dt := c.checkExpr(f.Default)
		if !c.assignable(info.Fields[i].Type, dt) {
			c.report(diag.SemaTypeMismatch, f.Default.Span(),
				fmt.Sprintf("default for field '%s' expects %s, got %s",
					f.Name.Name, info.Fields[i].Type, dt))
		}
	}
}

func (c *checker) checkBlock(b *ast.Block) {
	c.pushScope()
	defer c.popScope()
	for _, s := range b.Stmts {
		c.checkStmt(s)
	}
}

func (c *checker) checkStmt(s ast.Stmt) {
	switch ss := s.(type) {
	case *ast.LetStmt:
		c.checkLet(ss)
	case *ast.AssignStmt:
		c.checkAssign(ss)
	case *ast.CompoundAssignStmt:
		c.checkCompoundAssign(ss)
	case *ast.ReturnStmt:
		c.checkReturn(ss)
	case *ast.IfStmt:
		c.requireTruth(ss.Cond, c.checkExpr(ss.Cond))
		c.checkBlock(ss.Then)
		for _, arm := range ss.Elif {
			c.requireTruth(arm.Cond, c.checkExpr(arm.Cond))
			c.checkBlock(arm.Body)
		}
		if ss.Else != nil {
			c.checkBlock(ss.Else)
		}
	case *ast.WhileStmt:
		c.requireTruth(ss.Cond, c.checkExpr(ss.Cond))
		c.loops++
		c.checkBlock(ss.Body)
		c.loops--
	case *ast.ForStmt:
		c.checkFor(ss)
	case *ast.BreakStmt:
		if c.loops == 0 {
			c.report(diag.SemaBreakOutsideLoop, ss.Sp, "'break' outside a loop")
		}
	case *ast.ContinueStmt:
		if c.loops == 0 {
			c.report(diag.SemaBreakOutsideLoop, ss.Sp, "'continue' outside a loop")
		}
	case *ast.ExprStmt:
		c.checkExpr(ss.X)
	case *ast.PassStmt, *ast.BadStmt:
	}
}

func (c *checker) checkLet(s *ast.LetStmt) {
	vt := c.checkExpr(s.Value)
	ty := vt
	if s.Type != nil {
		ty = c.resolveType(s.Type, c.selfTy)
		if !c.assignable(ty, vt) {
			c.report(diag.SemaTypeMismatch, s.Value.Span(),
				fmt.Sprintf("cannot initialize %s binding with %s", ty, vt))
		}
	}
	c.res.LetTypes[s] = ty
	b := &binding{name: s.Name.Name, ty: ty, mut: s.Mut, decl: s.Name.Sp}
	if prev := c.scope.declare(b); prev != nil {
		c.reportNote(diag.SemaDuplicateSymbol, s.Name.Sp,
			fmt.Sprintf("'%s' is already declared in this scope", s.Name.Name),
			prev.decl, "previous declaration here")
	}
}

// targetType checks an assignment target and enforces mutability.
func (c *checker) targetType(target ast.Expr) *types.Type {
	switch t := target.(type) {
	case *ast.NameExpr:
		if c.scope != nil {
			if b := c.scope.lookup(t.Name); b != nil {
				if !b.mut {
					c.reportNote(diag.SemaAssignImmutable, t.Sp,
						fmt.Sprintf("cannot assign to immutable binding '%s'", t.Name),
						b.decl, "declared without 'mut' here")
				}
				c.res.ExprTypes[target] = b.ty
				return b.ty
			}
		}
		if _, ok := c.res.Module.Consts[t.Name]; ok {
			c.report(diag.SemaAssignImmutable, t.Sp,
				fmt.Sprintf("cannot assign to const '%s'", t.Name))
			return types.Invalid()
		}
		c.report(diag.SemaUnresolvedName, t.Sp, fmt.Sprintf("unresolved name '%s'", t.Name))
		return types.Invalid()
	case *ast.FieldExpr, *ast.IndexExpr:
		return c.checkExpr(target)
	case *ast.ParenExpr:
		return c.targetType(t.X)
	default:
		c.report(diag.SemaNotAssignable, target.Span(), "expression is not assignable")
		return types.Invalid()
	}
}

func (c *checker) checkAssign(s *ast.AssignStmt) {
	tt := c.targetType(s.Target)
	vt := c.checkExpr(s.Value)
	if !c.assignable(tt, vt) {
		c.report(diag.SemaTypeMismatch, s.Value.Span(),
			fmt.Sprintf("cannot assign %s to %s target", vt, tt))
	}
}

func (c *checker) checkCompoundAssign(s *ast.CompoundAssignStmt) {
	tt := c.targetType(s.Target)
	vt := c.checkExpr(s.Value)
	if tt.IsInvalid() || vt.IsInvalid() {
		return
	}

	op := binOpForAssign(s.Op)
	if tt.IsNumeric() && vt.IsNumeric() {
		// The folded result must still fit the target binding.
		if tt.Kind == types.KindInt && (vt.Kind == types.KindFloat || op == ast.OpDiv) {
			c.report(diag.SemaTypeMismatch, s.Sp,
				fmt.Sprintf("'%s' would turn int into float", s.Op))
		}
		return
	}
	if !types.Caps(tt).Has(binCap(op)) {
		c.report(diag.SemaNoCapability, s.Sp,
			fmt.Sprintf("'%s' is not supported for %s", s.Op, tt))
		return
	}
	if !types.Equal(tt, vt) {
		c.report(diag.SemaTypeMismatch, s.Value.Span(),
			fmt.Sprintf("invalid operand types for '%s': %s and %s", s.Op, tt, vt))
	}
}

func binOpForAssign(op ast.AssignOp) ast.BinOp {
	switch op {
	case ast.AssignAdd:
		return ast.OpAdd
	case ast.AssignSub:
		return ast.OpSub
	case ast.AssignMul:
		return ast.OpMul
	case ast.AssignDiv:
		return ast.OpDiv
	case ast.AssignFloorDiv:
		return ast.OpFloorDiv
	default:
		return ast.OpMod
	}
}

func (c *checker) checkReturn(s *ast.ReturnStmt) {
	if s.Value == nil {
		if c.retTy.Kind != types.KindNothing && !c.retTy.IsInvalid() {
			c.report(diag.SemaTypeMismatch, s.Sp,
				fmt.Sprintf("bare return in a function returning %s", c.retTy))
		}
		return
	}
	vt := c.checkExpr(s.Value)
	if c.retTy.Kind == types.KindNothing {
		if vt.Kind != types.KindNothing && !vt.IsInvalid() {
			c.report(diag.SemaTypeMismatch, s.Value.Span(),
				"function has no declared return type but returns a value")
		}
		return
	}
	if !c.assignable(c.retTy, vt) {
		c.report(diag.SemaTypeMismatch, s.Value.Span(),
			fmt.Sprintf("return expects %s, got %s", c.retTy, vt))
	}
}

func (c *checker) checkFor(s *ast.ForStmt) {
	elem := c.iterElem(s.Iter)
	c.pushScope()
	defer c.popScope()
	c.scope.declare(&binding{name: s.Var.Name, ty: elem, mut: true, decl: s.Var.Sp})
	c.loops++
	c.checkBlock(s.Body)
	c.loops--
}

// iterElem checks an iterable position and returns the item type the loop
// variable binds to: strings yield strings, bytes yield ints, dicts yield
// their keys.
func (c *checker) iterElem(iter ast.Expr) *types.Type {
	it := c.checkExpr(iter)
	switch it.Kind {
	case types.KindStr:
		return types.Str()
	case types.KindBytes:
		return types.Int()
	case types.KindList:
		return it.Elem
	case types.KindDict:
		return it.Key
	case types.KindInvalid:
		return types.Invalid()
	default:
		if !types.Caps(it).Has(types.CapIter) {
			c.report(diag.SemaNotIterable, iter.Span(),
				fmt.Sprintf("%s is not iterable", it))
		}
		return types.Invalid()
	}
}

// terminates reports whether every path through the block ends in a return.
func terminates(b *ast.Block) bool {
	if b == nil {
		return false
	}
	for _, s := range b.Stmts {
		switch ss := s.(type) {
		case *ast.ReturnStmt:
			return true
		case *ast.IfStmt:
			if ss.Else == nil {
				continue
			}
			all := terminates(ss.Then) && terminates(ss.Else)
			for _, arm := range ss.Elif {
				all = all && terminates(arm.Body)
			}
			if all {
				return true
			}
		}
	}
	return false
}
