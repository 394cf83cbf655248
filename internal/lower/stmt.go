package lower

import (
	"strconv"
	"strings"

	"incan/internal/ast"
	"incan/internal/diag"
	"incan/internal/types"
)

func (lo *lowerer) lowerBlock(b *ast.Block) []Stmt {
	if b == nil {
		return nil
	}
	out := make([]Stmt, 0, len(b.Stmts))
	for _, s := range b.Stmts {
		if lowered := lo.lowerStmt(s); lowered != nil {
			out = append(out, lowered)
		}
	}
	return out
}

func (lo *lowerer) lowerStmt(s ast.Stmt) Stmt {
	switch ss := s.(type) {
	case *ast.LetStmt:
		return lo.lowerLet(ss)
	case *ast.AssignStmt:
		return lo.lowerAssign(ss.Target, lo.lowerExpr(ss.Value))
	case *ast.CompoundAssignStmt:
		return lo.lowerCompoundAssign(ss)
	case *ast.ReturnStmt:
		if ss.Value == nil {
			return &ReturnStmt{}
		}
		return &ReturnStmt{X: lo.lowerExpr(ss.Value)}
	case *ast.IfStmt:
		out := &IfStmt{
			Cond: lo.truthExpr(ss.Cond),
			Then: lo.lowerBlock(ss.Then),
		}
		for _, arm := range ss.Elif {
			out.Elif = append(out.Elif, ElifArm{Cond: lo.truthExpr(arm.Cond), Body: lo.lowerBlock(arm.Body)})
		}
		if ss.Else != nil {
			out.Else = lo.lowerBlock(ss.Else)
		}
		return out
	case *ast.WhileStmt:
		return &WhileStmt{Cond: lo.truthExpr(ss.Cond), Body: lo.lowerBlock(ss.Body)}
	case *ast.ForStmt:
		lo.obligeBuiltin("iter", lo.sem.TypeOf(ss.Iter))
		return &ForStmt{
			Var:  ss.Var.Name,
			Iter: lo.lowerIter(ss.Iter),
			Body: lo.lowerBlock(ss.Body),
		}
	case *ast.BreakStmt:
		return &BreakStmt{}
	case *ast.ContinueStmt:
		return &ContinueStmt{}
	case *ast.ExprStmt:
		return &ExprStmt{X: lo.lowerExpr(ss.X)}
	default:
		return nil
	}
}

// lowerLet annotates the binding with its checked type so empty container
// displays infer correctly on the Rust side.
func (lo *lowerer) lowerLet(s *ast.LetStmt) Stmt {
	out := &LetStmt{
		Name: s.Name.Name,
		Mut:  s.Mut,
		Init: lo.lowerExpr(s.Value),
	}
	if t, ok := lo.sem.LetTypes[s]; ok && !t.IsInvalid() && t.Kind != types.KindNothing {
		out.Type = lo.rustType(t)
	}
	return out
}

// lowerAssign routes element writes through the runtime accessors: list
// element assignment borrows mutably, dict assignment becomes an insert.
func (lo *lowerer) lowerAssign(target ast.Expr, value Expr) Stmt {
	if idx, ok := target.(*ast.IndexExpr); ok {
		xt := lo.sem.TypeOf(idx.X)
		switch xt.Kind {
		case types.KindDict:
			return &InsertStmt{
				Target: lo.lowerPlace(idx.X),
				Key:    lo.lowerExpr(idx.Index),
				Value:  value,
			}
		case types.KindList, types.KindBytes:
			lo.unit.need("incan_stdlib::list_get_mut")
			place := &Unary{Op: "*", X: &Call{Fn: "list_get_mut", Args: []Expr{
				&MutRef{X: lo.lowerPlace(idx.X)}, lo.lowerExpr(idx.Index)}}}
			return &AssignStmt{Target: place, Value: value}
		case types.KindStr:
			lo.report(diag.LowImmutableContainer, idx,
				"strings do not support item assignment")
			return nil
		}
	}
	return &AssignStmt{Target: lo.lowerPlace(target), Value: value}
}

// lowerCompoundAssign expands `x op= v` into an assignment of the binary
// result so the numeric policy applies exactly once.
func (lo *lowerer) lowerCompoundAssign(s *ast.CompoundAssignStmt) Stmt {
	op := map[ast.AssignOp]ast.BinOp{
		ast.AssignAdd: ast.OpAdd, ast.AssignSub: ast.OpSub, ast.AssignMul: ast.OpMul,
		ast.AssignDiv: ast.OpDiv, ast.AssignFloorDiv: ast.OpFloorDiv, ast.AssignMod: ast.OpMod,
	}[s.Op]
	lt := lo.sem.TypeOf(s.Target)
	rt := lo.sem.TypeOf(s.Value)
	value := lo.lowerArith(op, lt, rt, s.Target, s.Value)
	return lo.lowerAssign(s.Target, value)
}

// lowerIter shapes a for-loop iterable into an owning Rust iterator whose
// item type matches the loop variable: strings yield one-character strings,
// bytes yield i64, dicts yield their keys.
func (lo *lowerer) lowerIter(e ast.Expr) Expr {
	if call, ok := rangeCall(e); ok {
		args := make([]Expr, len(call.Args))
		for i, a := range call.Args {
			args[i] = lo.lowerExpr(a.Value)
		}
		return lo.rangeIter(args)
	}

	t := lo.sem.TypeOf(e)
	switch t.Kind {
	case types.KindStr:
		chars := &Method{Recv: lo.lowerExpr(e), Name: "chars"}
		mapped := &Method{Recv: chars, Name: "map",
			Args: []Expr{&Raw{Text: "|c| c.to_string()"}}}
		return &Method{Recv: mapped, Name: "collect::<Vec<String>>"}
	case types.KindBytes:
		into := &Method{Recv: lo.lowerExpr(e), Name: "into_iter"}
		return &Method{Recv: into, Name: "map", Args: []Expr{&Raw{Text: "|b| b as i64"}}}
	case types.KindDict:
		return &Method{Recv: lo.lowerExpr(e), Name: "into_keys"}
	default:
		return lo.lowerExpr(e)
	}
}

// rangeCall reports whether the expression is a direct call to the range
// builtin, so loops can iterate without materializing the list.
func rangeCall(e ast.Expr) (*ast.CallExpr, bool) {
	call, ok := e.(*ast.CallExpr)
	if !ok {
		return nil, false
	}
	name, ok := call.Callee.(*ast.NameExpr)
	if !ok || name.Name != "range" {
		return nil, false
	}
	return call, true
}

// floatLit renders a float so it reads back as the same value and always
// carries a decimal point or exponent.
func floatLit(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// RustStringLit renders a Rust double-quoted string literal.
func RustStringLit(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(`\u{` + strconv.FormatInt(int64(r), 16) + `}`)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
