package sema

import (
	"fmt"

	"incan/internal/ast"
	"incan/internal/diag"
	"incan/internal/source"
	"incan/internal/types"
)

// collect registers every top-level declaration before any body is checked,
// then resolves all signatures and applies derive/magic-method capabilities.
// Modules share one flat name space for models, traits, functions and consts.
func (c *checker) collect() {
	declSpans := make(map[string]source.Span)

	claim := func(name string, sp source.Span) bool {
		if prev, ok := declSpans[name]; ok {
			c.reportNote(diag.SemaDuplicateSymbol, sp,
				fmt.Sprintf("'%s' is already declared in this module", name),
				prev, "previous declaration here")
			return false
		}
		declSpans[name] = sp
		return true
	}

	// Pass 1: names only, so signatures may refer to later declarations.
	for _, d := range c.file.Decls {
		switch dd := d.(type) {
		case *ast.FuncDecl:
			if claim(dd.Name.Name, dd.Name.Sp) {
				c.res.Module.Funcs[dd.Name.Name] = &types.FuncInfo{Name: dd.Name.Name}
			}
		case *ast.ModelDecl:
			if claim(dd.Name.Name, dd.Name.Sp) {
				c.res.Module.Models[dd.Name.Name] = &types.ModelInfo{
					Name:    dd.Name.Name,
					Decl:    dd.Name.Sp,
					Methods: make(map[string]*types.FuncInfo),
				}
			}
		case *ast.TraitDecl:
			if claim(dd.Name.Name, dd.Name.Sp) {
				c.res.Module.Traits[dd.Name.Name] = &types.TraitInfo{
					Name:    dd.Name.Name,
					Decl:    dd.Name.Sp,
					Methods: make(map[string]*types.FuncInfo),
				}
			}
		case *ast.ConstDecl:
			if claim(dd.Name.Name, dd.Name.Sp) {
				c.res.Module.Consts[dd.Name.Name] = &ConstInfo{
					Name: dd.Name.Name,
					Decl: dd.Name.Sp,
				}
			}
		case *ast.ImportDecl:
			c.collectImport(dd)
		}
	}

	c.bindImports()

	// Pass 2: resolve signatures against the now-complete name space.
	for _, d := range c.file.Decls {
		switch dd := d.(type) {
		case *ast.FuncDecl:
			if info := c.res.Module.Funcs[dd.Name.Name]; info != nil {
				c.resolveFuncInfo(info, dd, nil)
			}
		case *ast.ModelDecl:
			c.resolveModel(dd)
		case *ast.TraitDecl:
			c.resolveTrait(dd)
		case *ast.ConstDecl:
			info := c.res.Module.Consts[dd.Name.Name]
			if info == nil {
				continue
			}
			if dd.Type != nil {
				info.Type = c.resolveType(dd.Type, nil)
			}
			// Constants fold here rather than with the bodies: dependent
			// modules read the folded values through their import bindings,
			// and body checking may run concurrently across modules.
			c.checkConstDecl(dd)
		}
	}
}

func (c *checker) collectImport(d *ast.ImportDecl) {
	info := ImportInfo{Decl: d.Sp}
	for _, p := range d.Path {
		info.Path = append(info.Path, p.Name)
	}
	if d.Alias != nil {
		info.Alias = d.Alias.Name
	}
	for _, it := range d.Items {
		item := ImportedItem{Name: it.Name.Name}
		if it.Alias != nil {
			item.Alias = it.Alias.Name
		}
		info.Items = append(info.Items, item)
	}
	c.res.Module.Imports = append(c.res.Module.Imports, info)
}

// bindImports resolves every import declaration against the dependency
// surfaces and records the resulting bindings. A from-import binds the named
// items directly; a plain import binds the module name (or its alias) for
// qualified access. Imports of modules absent from the dependency set stay
// silent here; the project graph already reported them.
func (c *checker) bindImports() {
	for _, imp := range c.res.Module.Imports {
		if len(imp.Path) == 0 {
			continue
		}
		modName := imp.Path[len(imp.Path)-1]
		dep := c.opts.Deps[modName]
		if dep == nil {
			continue
		}

		if len(imp.Items) == 0 {
			binding := modName
			if imp.Alias != "" {
				binding = imp.Alias
			}
			c.res.Module.DepModules[binding] = dep
			continue
		}

		for _, it := range imp.Items {
			binding := it.Name
			if it.Alias != "" {
				binding = it.Alias
			}
			switch {
			case dep.Models[it.Name] != nil:
				c.res.Module.ImportedModels[binding] = dep.Models[it.Name]
			case dep.Traits[it.Name] != nil:
				c.res.Module.ImportedTraits[binding] = dep.Traits[it.Name]
			case dep.Funcs[it.Name] != nil:
				c.res.Module.ImportedFuncs[binding] = dep.Funcs[it.Name]
			case dep.Consts[it.Name] != nil:
				c.res.Module.ImportedConsts[binding] = dep.Consts[it.Name]
			default:
				c.report(diag.SemaUnresolvedName, imp.Decl,
					fmt.Sprintf("module '%s' has no symbol '%s'", modName, it.Name))
			}
		}
	}
}

func (c *checker) resolveModel(d *ast.ModelDecl) {
	info := c.res.Module.Models[d.Name.Name]
	if info == nil {
		return
	}
	selfTy := types.NewModel(info)

	for _, f := range d.Fields {
		info.Fields = append(info.Fields, types.FieldInfo{
			Name:       f.Name.Name,
			Type:       c.resolveType(f.Type, selfTy),
			Pub:        f.Pub,
			HasDefault: f.Default != nil,
			Decl:       f.Name.Sp,
		})
	}
	for _, m := range d.Methods {
		mi := &types.FuncInfo{Name: m.Name.Name, HasSelf: m.SelfParam != nil}
		c.resolveFuncInfo(mi, m, selfTy)
		info.Methods[m.Name.Name] = mi
		if cp, ok := types.MagicMethodCap(m.Name.Name); ok {
			info.Caps = info.Caps.With(cp)
		}
	}

	// Derive capabilities become visible to operator checking here; the
	// lowering stage re-resolves the same names to report unknown
	// spellings and conflicts.
	for _, deco := range d.Decorators {
		if deco.Name.Name != "derive" {
			continue
		}
		for _, arg := range deco.Args {
			name, ok := arg.(*ast.NameExpr)
			if !ok {
				continue
			}
			if cp, ok := types.DeriveCap(name.Name); ok {
				info.Caps = info.Caps.With(cp)
			}
		}
	}
}

func (c *checker) resolveTrait(d *ast.TraitDecl) {
	info := c.res.Module.Traits[d.Name.Name]
	if info == nil {
		return
	}
	selfTy := types.NewTrait(info)
	for _, m := range d.Methods {
		mi := &types.FuncInfo{Name: m.Name.Name, HasSelf: m.SelfParam != nil}
		c.resolveFuncInfo(mi, m, selfTy)
		info.Methods[m.Name.Name] = mi
	}
}

func (c *checker) resolveFuncInfo(info *types.FuncInfo, d *ast.FuncDecl, selfTy *types.Type) {
	info.HasSelf = d.SelfParam != nil
	for _, p := range d.Params {
		info.Params = append(info.Params, types.ParamInfo{
			Name:       p.Name.Name,
			Type:       c.resolveType(p.Type, selfTy),
			HasDefault: p.Default != nil,
		})
	}
	if d.Return != nil {
		info.Result = c.resolveType(d.Return, selfTy)
	} else {
		info.Result = types.Nothing()
	}
}

// resolveType maps a syntactic annotation to a type descriptor. Unknown
// names resolve to the invalid type after one diagnostic so downstream
// checks stay quiet.
func (c *checker) resolveType(t ast.TypeExpr, selfTy *types.Type) *types.Type {
	switch tt := t.(type) {
	case nil:
		return types.Invalid()
	case *ast.BadType:
		return types.Invalid()
	case *ast.SelfType:
		if selfTy == nil {
			c.report(diag.SemaUnknownType, tt.Sp, "'Self' is only valid inside a model or trait")
			return types.Invalid()
		}
		return selfTy
	case *ast.NamedType:
		switch tt.Name {
		case "int":
			return types.Int()
		case "float":
			return types.Float()
		case "bool":
			return types.Bool()
		case "str":
			return types.Str()
		case "bytes":
			return types.Bytes()
		case "None":
			return types.Nothing()
		}
		if m, ok := c.res.Module.Models[tt.Name]; ok {
			return types.NewModel(m)
		}
		if tr, ok := c.res.Module.Traits[tt.Name]; ok {
			return types.NewTrait(tr)
		}
		if m, ok := c.res.Module.ImportedModels[tt.Name]; ok {
			return types.NewModel(m)
		}
		if tr, ok := c.res.Module.ImportedTraits[tt.Name]; ok {
			return types.NewTrait(tr)
		}
		c.report(diag.SemaUnknownType, tt.Sp, fmt.Sprintf("unknown type '%s'", tt.Name))
		return types.Invalid()
	case *ast.GenericType:
		switch tt.Name {
		case "list", "List":
			if len(tt.Args) != 1 {
				c.report(diag.SemaUnknownType, tt.Sp, "list takes exactly one type argument")
				return types.Invalid()
			}
			return types.NewList(c.resolveType(tt.Args[0], selfTy))
		case "dict", "Dict":
			if len(tt.Args) != 2 {
				c.report(diag.SemaUnknownType, tt.Sp, "dict takes exactly two type arguments")
				return types.Invalid()
			}
			return types.NewDict(c.resolveType(tt.Args[0], selfTy), c.resolveType(tt.Args[1], selfTy))
		}
		c.report(diag.SemaUnknownType, tt.Sp, fmt.Sprintf("unknown generic type '%s'", tt.Name))
		return types.Invalid()
	default:
		return types.Invalid()
	}
}
