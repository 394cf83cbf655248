package lower

import (
	"fmt"
	"sort"

	"incan/internal/ast"
	"incan/internal/diag"
	"incan/internal/sema"
	"incan/internal/types"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error budget is spent.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type lowerer struct {
	file *ast.File
	sem  *sema.Result
	opts Options
	unit *Unit

	selfModel *types.ModelInfo // receiver inside methods
	obliged   map[string]bool  // (target, hook) pairs already recorded

	modelDecls map[string]*ast.ModelDecl
	funcDecls  map[*types.FuncInfo]*ast.FuncDecl
}

func (lo *lowerer) report(code diag.Code, sp spanLike, msg string) {
	if lo.opts.Enough() {
		return
	}
	if diag.Errorf(lo.opts.Reporter, code, sp.Span(), msg).Emit() {
		lo.opts.CurrentErrors++
	}
}

type spanLike = ast.Node

// Lower translates one checked module into its IR unit. Declarations keep
// their source order; obligations come out sorted by (target, hook).
func Lower(file *ast.File, sem *sema.Result, opts Options) *Unit {
	lo := &lowerer{
		file:       file,
		sem:        sem,
		opts:       opts,
		unit:       &Unit{Module: file.Module},
		modelDecls: make(map[string]*ast.ModelDecl),
		funcDecls:  make(map[*types.FuncInfo]*ast.FuncDecl),
	}

	// Declarations are indexed up front so call sites can reach default
	// argument expressions regardless of declaration order.
	for _, d := range file.Decls {
		switch dd := d.(type) {
		case *ast.FuncDecl:
			if fi := sem.Module.Funcs[dd.Name.Name]; fi != nil {
				lo.funcDecls[fi] = dd
			}
		case *ast.ModelDecl:
			lo.modelDecls[dd.Name.Name] = dd
			info := sem.Module.Models[dd.Name.Name]
			if info == nil {
				continue
			}
			for _, m := range dd.Methods {
				if mi := info.Methods[m.Name.Name]; mi != nil {
					lo.funcDecls[mi] = m
				}
			}
		}
	}

	for _, imp := range sem.Module.Imports {
		if len(imp.Path) > 0 {
			lo.unit.needModule(imp.Path[len(imp.Path)-1])
		}
	}

	for _, d := range file.Decls {
		switch dd := d.(type) {
		case *ast.FuncDecl:
			lo.checkFuncDecorators(dd)
			lo.unit.Funcs = append(lo.unit.Funcs, lo.lowerFunc(dd, nil))
		case *ast.ModelDecl:
			lo.lowerModel(dd)
		case *ast.ConstDecl:
			lo.lowerConst(dd)
		}
	}

	sort.SliceStable(lo.unit.Obligations, func(i, j int) bool {
		return lo.unit.Obligations[i].Key() < lo.unit.Obligations[j].Key()
	})
	return lo.unit
}

func (lo *lowerer) checkFuncDecorators(d *ast.FuncDecl) {
	for _, deco := range d.Decorators {
		if deco.Name.Name == "derive" {
			lo.report(diag.LowDeriveNotOnModel, deco, "@derive is only valid on model declarations")
			continue
		}
		lo.report(diag.LowUnsupportedDeco, deco,
			fmt.Sprintf("unsupported decorator '@%s'", deco.Name.Name))
	}
}

func (lo *lowerer) lowerModel(d *ast.ModelDecl) {
	info := lo.sem.Module.Models[d.Name.Name]
	if info == nil {
		return
	}

	m := &Model{Name: d.Name.Name}
	fieldNames := make([]string, 0, len(info.Fields))
	for _, f := range info.Fields {
		m.Fields = append(m.Fields, Field{Name: f.Name, Type: lo.rustType(f.Type), Pub: f.Pub})
		fieldNames = append(fieldNames, f.Name)
	}

	manual := make(map[string]*Func) // hook name -> user implementation
	prevSelf := lo.selfModel
	lo.selfModel = info
	for _, method := range d.Methods {
		lowered := lo.lowerFunc(method, info)
		if hook, ok := magicMethodHook[method.Name.Name]; ok {
			manual[hook] = lowered
		} else {
			m.Methods = append(m.Methods, lowered)
		}
	}
	lo.selfModel = prevSelf

	derived := lo.resolveDerives(d, manual)

	// Clone is a codegen requirement: generated code copies values instead
	// of threading borrows. Deriving it twice is harmless, deduped here.
	derived["clone"] = true

	// PartialOrd's generated code needs PartialEq on the same type.
	if derived["ord"] && !derived["eq"] && manual["eq"] == nil {
		derived["eq"] = true
	}

	for hook := range derived {
		spec, ok := HookByName(hook)
		if !ok {
			continue
		}
		ob := Obligation{Hook: hook, Target: m.Name, Trait: spec.Trait, Strategy: spec.Strategy}
		if spec.Strategy == StrategyDerive {
			ob.Strategy = StrategyDerive
			m.Derives = append(m.Derives, deriveIdent[hook])
		} else {
			ob.Fields = fieldNames
		}
		if hook == "serialize" || hook == "deserialize" {
			lo.unit.needCrate("serde")
		}
		lo.unit.Obligations = append(lo.unit.Obligations, ob)
	}
	sort.Strings(m.Derives)

	for _, hook := range []string{"eq", "str"} {
		impl := manual[hook]
		if impl == nil {
			continue
		}
		spec, _ := HookByName(hook)
		lo.unit.Obligations = append(lo.unit.Obligations, Obligation{
			Hook:     hook,
			Target:   m.Name,
			Trait:    spec.Trait,
			Strategy: StrategyManual,
			Fields:   fieldNames,
			Method:   impl,
		})
		m.Methods = append(m.Methods, impl)
	}

	// Reflection is unconditional: every model reports its field names in
	// declaration order.
	lo.unit.Obligations = append(lo.unit.Obligations, Obligation{
		Hook:     "fields",
		Target:   m.Name,
		Trait:    "incan_stdlib::FieldInfo",
		Strategy: StrategyImpl,
		Fields:   fieldNames,
	})
	lo.unit.need("incan_stdlib::FieldInfo")

	lo.unit.Models = append(lo.unit.Models, m)
}

// resolveDerives validates @derive arguments and returns the hooks they
// establish. A derive that duplicates another, names an unknown capability,
// or collides with a manual magic method is an error.
func (lo *lowerer) resolveDerives(d *ast.ModelDecl, manual map[string]*Func) map[string]bool {
	derived := make(map[string]bool)
	for _, deco := range d.Decorators {
		if deco.Name.Name != "derive" {
			lo.report(diag.LowUnsupportedDeco, deco,
				fmt.Sprintf("unsupported decorator '@%s'", deco.Name.Name))
			continue
		}
		for _, arg := range deco.Args {
			name, ok := arg.(*ast.NameExpr)
			if !ok {
				lo.report(diag.LowUnknownDerive, arg, "derive arguments must be capability names")
				continue
			}
			cp, ok := types.DeriveCap(name.Name)
			if !ok {
				lo.report(diag.LowUnknownDerive, arg,
					fmt.Sprintf("unknown derive '%s'", name.Name))
				continue
			}
			spec, ok := HookByCap(cp)
			if !ok {
				continue
			}
			if derived[spec.Name] {
				lo.report(diag.LowDuplicateDerive, arg,
					fmt.Sprintf("'%s' is derived more than once", name.Name))
				continue
			}
			if impl := manual[spec.Name]; impl != nil {
				lo.report(diag.LowDeriveConflict, arg,
					fmt.Sprintf("@derive(%s) conflicts with the manual implementation of %s (expected %s)",
						name.Name, spec.Trait, spec.Method))
				continue
			}
			derived[spec.Name] = true
		}
	}
	return derived
}

func (lo *lowerer) lowerFunc(d *ast.FuncDecl, recv *types.ModelInfo) *Func {
	f := &Func{Name: d.Name.Name, SelfRef: d.SelfParam != nil}

	var info *types.FuncInfo
	if recv != nil {
		info = recv.Methods[d.Name.Name]
	} else {
		info = lo.sem.Module.Funcs[d.Name.Name]
	}
	if info != nil {
		for _, p := range info.Params {
			f.Params = append(f.Params, Param{Name: p.Name, Type: lo.rustType(p.Type)})
		}
		if info.Result != nil && info.Result.Kind != types.KindNothing {
			f.Ret = lo.rustType(info.Result)
		}
	}

	prevSelf := lo.selfModel
	lo.selfModel = recv
	if d.Body != nil {
		f.Body = lo.lowerBlock(d.Body)
	}
	lo.selfModel = prevSelf
	return f
}

func (lo *lowerer) lowerConst(d *ast.ConstDecl) {
	info := lo.sem.Module.Consts[d.Name.Name]
	if info == nil || !info.Value.IsValid() {
		return
	}
	c := &Const{Name: d.Name.Name}
	switch info.Value.Kind {
	case sema.ValInt:
		c.Type = "i64"
		c.Value = fmt.Sprintf("%d", info.Value.Int)
	case sema.ValFloat:
		c.Type = "f64"
		c.Value = floatLit(info.Value.Float)
	case sema.ValBool:
		c.Type = "bool"
		if info.Value.Bool {
			c.Value = "true"
		} else {
			c.Value = "false"
		}
	case sema.ValStr:
		c.Type = "&str"
		c.Value = RustStringLit(info.Value.Str)
	default:
		return
	}
	lo.unit.Consts = append(lo.unit.Consts, c)
}

// rustType maps a checked type to its Rust spelling.
func (lo *lowerer) rustType(t *types.Type) string {
	if t == nil {
		return "()"
	}
	switch t.Kind {
	case types.KindInt:
		return "i64"
	case types.KindFloat:
		return "f64"
	case types.KindBool:
		return "bool"
	case types.KindStr:
		return "String"
	case types.KindBytes:
		return "Vec<u8>"
	case types.KindList:
		return "Vec<" + lo.rustType(t.Elem) + ">"
	case types.KindDict:
		lo.unit.need("std::collections::HashMap")
		return "HashMap<" + lo.rustType(t.Key) + ", " + lo.rustType(t.Value) + ">"
	case types.KindModel:
		return t.Model.Name
	case types.KindTrait:
		return t.Trait.Name
	case types.KindNothing:
		return "()"
	default:
		return "()"
	}
}

// isCopyType reports whether the Rust counterpart implements Copy, so reads
// do not need a clone.
func isCopyType(t *types.Type) bool {
	if t == nil {
		return true
	}
	switch t.Kind {
	case types.KindInt, types.KindFloat, types.KindBool, types.KindNothing, types.KindInvalid:
		return true
	default:
		return false
	}
}
