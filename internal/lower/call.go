package lower

import (
	"strings"

	"incan/internal/ast"
	"incan/internal/semcore"
	"incan/internal/types"
)

func (lo *lowerer) lowerCall(e *ast.CallExpr) Expr {
	if name, ok := e.Callee.(*ast.NameExpr); ok {
		if lo.sem.TypeOf(e.Callee).IsInvalid() {
			if out := lo.lowerBuiltinCall(e, name.Name); out != nil {
				return out
			}
		}
		if info, ok := lo.sem.Module.Models[name.Name]; ok {
			return lo.lowerCtor(e, info)
		}
		if info, ok := lo.sem.Module.ImportedModels[name.Name]; ok {
			return lo.lowerCtor(e, info)
		}
		// Imported bindings render under their exported name; the module-level
		// glob use brings that name into scope regardless of any alias.
		if fi, ok := lo.sem.Module.ImportedFuncs[name.Name]; ok {
			return &Call{Fn: fi.Name, Args: lo.lowerArgs(e, fi)}
		}
		return &Call{Fn: name.Name, Args: lo.lowerArgs(e, lo.sem.Module.Funcs[name.Name])}
	}
	if field, ok := e.Callee.(*ast.FieldExpr); ok {
		return lo.lowerMethodCall(e, field)
	}
	return &Raw{Text: "()"}
}

// lowerBuiltinCall handles the built-in functions; nil means the name is
// not a builtin here (shadowed or unknown) and resolution continues.
func (lo *lowerer) lowerBuiltinCall(e *ast.CallExpr, name string) Expr {
	args := make([]Expr, len(e.Args))
	argTy := make([]*types.Type, len(e.Args))
	for i, a := range e.Args {
		args[i] = lo.lowerExpr(a.Value)
		argTy[i] = lo.sem.TypeOf(a.Value)
	}

	switch name {
	case "print":
		holes := make([]string, len(args))
		for i := range holes {
			holes[i] = "{}"
		}
		tmpl := &StrLit{Value: strings.Join(holes, " ")}
		return &Macro{Name: "println", Args: append([]Expr{tmpl}, args...)}
	case "len":
		if len(args) != 1 {
			return &Raw{Text: "0i64"}
		}
		if argTy[0].Kind == types.KindStr {
			chars := &Method{Recv: &Method{Recv: lo.lowerPlace(e.Args[0].Value), Name: "chars"}, Name: "count"}
			return &Cast{X: chars, To: "i64"}
		}
		return &Cast{X: &Method{Recv: lo.lowerPlace(e.Args[0].Value), Name: "len"}, To: "i64"}
	case "str":
		if len(args) != 1 {
			return &Method{Recv: &StrLit{Value: ""}, Name: "to_string"}
		}
		return &Macro{Name: "format", Args: []Expr{&StrLit{Value: "{}"}, args[0]}}
	case "int":
		if len(args) != 1 {
			return &Raw{Text: "0i64"}
		}
		if argTy[0].Kind == types.KindStr {
			parse := &Method{Recv: &Method{Recv: args[0], Name: "trim"}, Name: "parse::<i64>"}
			return &Method{Recv: parse, Name: "expect",
				Args: []Expr{&StrLit{Value: semcore.MsgBadIntLiteral}}}
		}
		return &Cast{X: args[0], To: "i64"}
	case "float":
		if len(args) != 1 {
			return &Raw{Text: "0f64"}
		}
		if argTy[0].Kind == types.KindStr {
			parse := &Method{Recv: &Method{Recv: args[0], Name: "trim"}, Name: "parse::<f64>"}
			return &Method{Recv: parse, Name: "expect",
				Args: []Expr{&StrLit{Value: semcore.MsgBadFloatLiteral}}}
		}
		return &Cast{X: args[0], To: "f64"}
	case "range":
		return &Method{Recv: lo.rangeIter(args), Name: "collect::<Vec<i64>>"}
	default:
		return nil
	}
}

// rangeIter builds the iterator form of a range call: `start..stop`, with
// step applied through step_by.
func (lo *lowerer) rangeIter(args []Expr) Expr {
	var start, stop Expr
	switch len(args) {
	case 1:
		start, stop = &Raw{Text: "0i64"}, args[0]
	default:
		start, stop = args[0], args[1]
	}
	span := &Paren{X: &Binary{Op: "..", L: start, R: stop}}
	if len(args) < 3 {
		return span
	}
	return &Method{Recv: span, Name: "step_by", Args: []Expr{&Cast{X: args[2], To: "usize"}}}
}

// lowerCtor builds a struct literal. Named and positional arguments bind to
// fields the way the constructor signature does; unbound fields with a
// declared default take the default expression. For models imported from
// another module no declaration is at hand, so unbound defaulted fields
// fall back to Default::default().
func (lo *lowerer) lowerCtor(e *ast.CallExpr, info *types.ModelInfo) Expr {
	given := make(map[string]Expr, len(e.Args))
	pos := 0
	for _, arg := range e.Args {
		v := lo.lowerExpr(arg.Value)
		if arg.Name != nil {
			given[arg.Name.Name] = v
			continue
		}
		if pos < len(info.Fields) {
			given[info.Fields[pos].Name] = v
		}
		pos++
	}

	lit := &StructLit{Name: info.Name}
	decl := lo.modelDecls[info.Name]
	for i, f := range info.Fields {
		v := given[f.Name]
		if v == nil && decl != nil && i < len(decl.Fields) && decl.Fields[i].Default != nil {
			v = lo.lowerExpr(decl.Fields[i].Default)
		}
		if v == nil {
			v = &Raw{Text: "Default::default()"}
		}
		lit.Fields = append(lit.Fields, FieldInit{Name: f.Name, Value: v})
	}
	return lit
}

func (lo *lowerer) lowerMethodCall(e *ast.CallExpr, field *ast.FieldExpr) Expr {
	recv := lo.sem.TypeOf(field.X)
	if recv.Kind == types.KindModule {
		return lo.lowerModuleCall(e, field, recv.Module)
	}
	args := make([]Expr, len(e.Args))
	for i, a := range e.Args {
		args[i] = lo.lowerExpr(a.Value)
	}

	if recv.Kind == types.KindModel {
		if mi := recv.Model.Method(field.Field.Name); mi != nil {
			return lo.lowerArgsCall(e, field, mi)
		}
	}

	switch field.Field.Name {
	case "str":
		lo.obligeBuiltin("str", recv)
		return &Macro{Name: "format", Args: []Expr{&StrLit{Value: "{}"}, lo.lowerExpr(field.X)}}
	case "clone":
		lo.obligeBuiltin("clone", recv)
		return &Method{Recv: lo.lowerPlace(field.X), Name: "clone"}
	default:
		return &Method{Recv: lo.lowerPlace(field.X), Name: field.Field.Name, Args: args}
	}
}

// lowerModuleCall resolves a module-qualified call against the imported
// surface. The qualifier disappears in the output; the glob use for the
// dependency module puts its exported names in scope.
func (lo *lowerer) lowerModuleCall(e *ast.CallExpr, field *ast.FieldExpr, binding string) Expr {
	dep := lo.sem.Module.DepModules[binding]
	if dep == nil {
		return &Raw{Text: "()"}
	}
	if info, ok := dep.Models[field.Field.Name]; ok {
		return lo.lowerCtor(e, info)
	}
	if fi, ok := dep.Funcs[field.Field.Name]; ok {
		return &Call{Fn: fi.Name, Args: lo.lowerArgs(e, fi)}
	}
	return &Raw{Text: "()"}
}

// lowerArgsCall reorders a model method call into the declared parameter
// order, filling defaults for unbound trailing parameters.
func (lo *lowerer) lowerArgsCall(e *ast.CallExpr, field *ast.FieldExpr, mi *types.FuncInfo) Expr {
	return &Method{
		Recv: lo.lowerPlace(field.X),
		Name: field.Field.Name,
		Args: lo.lowerArgs(e, mi),
	}
}

// lowerArgs binds call arguments to the signature's parameter order. Named
// arguments land in their declared slot; a parameter left unbound falls back
// to its default expression when the declaration carries one.
func (lo *lowerer) lowerArgs(e *ast.CallExpr, fi *types.FuncInfo) []Expr {
	if fi == nil {
		out := make([]Expr, len(e.Args))
		for i, a := range e.Args {
			out[i] = lo.lowerExpr(a.Value)
		}
		return out
	}

	slots := make([]Expr, len(fi.Params))
	pos := 0
	for _, arg := range e.Args {
		v := lo.lowerExpr(arg.Value)
		idx := -1
		if arg.Name != nil {
			for i, p := range fi.Params {
				if p.Name == arg.Name.Name {
					idx = i
					break
				}
			}
		} else {
			idx = pos
			pos++
		}
		if idx >= 0 && idx < len(slots) && slots[idx] == nil {
			slots[idx] = v
		}
	}

	defaults := lo.paramDefaults(fi)
	for i, s := range slots {
		if s != nil {
			continue
		}
		if i < len(defaults) && defaults[i] != nil {
			slots[i] = lo.lowerExpr(defaults[i])
		} else {
			slots[i] = &Raw{Text: "Default::default()"}
		}
	}
	return slots
}

// paramDefaults finds the declared default expressions for a signature by
// walking back to the declaration that produced it.
func (lo *lowerer) paramDefaults(fi *types.FuncInfo) []ast.Expr {
	d := lo.funcDecls[fi]
	if d == nil {
		return nil
	}
	out := make([]ast.Expr, len(d.Params))
	for i, p := range d.Params {
		out[i] = p.Default
	}
	return out
}
