// Package sema type-checks a parsed module. A collect pass registers every
// top-level declaration first so declaration order never matters, then each
// declaration is checked independently against the capability sets of its
// operand types. Constant subexpressions fold through semcore, so a constant
// string index that is out of range reports the exact message the emitted
// program would panic with.
package sema

import (
	"incan/internal/ast"
	"incan/internal/diag"
	"incan/internal/source"
	"incan/internal/types"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter

	// Deps maps module names to the collected surfaces of the modules this
	// one may import from. Collection runs in dependency order, so by the
	// time a module is collected every dependency surface is complete.
	Deps map[string]*ModuleInfo
}

// Enough reports whether the error budget is spent.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Result stores semantic artefacts for one module.
type Result struct {
	Module    *ModuleInfo
	ExprTypes map[ast.Expr]*types.Type
	LetTypes  map[*ast.LetStmt]*types.Type
}

// TypeOf returns the resolved type of an expression, or the invalid type.
func (r *Result) TypeOf(e ast.Expr) *types.Type {
	if t, ok := r.ExprTypes[e]; ok {
		return t
	}
	return types.Invalid()
}

// Check runs the collect pass and then checks every declaration body.
func Check(file *ast.File, opts Options) *Result {
	res := Collect(file, opts)
	CheckBodies(file, res, opts)
	return res
}

// Collect resolves the module's top-level surface: declared names, import
// bindings and signatures. The result is complete enough for dependent
// modules to collect against; bodies are not checked yet.
func Collect(file *ast.File, opts Options) *Result {
	res := &Result{
		Module:    newModuleInfo(file.Module),
		ExprTypes: make(map[ast.Expr]*types.Type),
		LetTypes:  make(map[*ast.LetStmt]*types.Type),
	}
	c := &checker{
		file: file,
		opts: opts,
		res:  res,
	}
	c.collect()
	return res
}

// CheckBodies checks every declaration body against a collected surface.
// Dependency surfaces in opts.Deps are only read, so modules can be checked
// concurrently once all of them are collected.
func CheckBodies(file *ast.File, res *Result, opts Options) {
	c := &checker{
		file: file,
		opts: opts,
		res:  res,
	}
	c.checkBodies()
}

type checker struct {
	file  *ast.File
	opts  Options
	res   *Result
	scope *scope

	selfTy *types.Type // receiver type inside methods
	retTy  *types.Type // declared return type of the enclosing function
	loops  int
}

func (c *checker) report(code diag.Code, sp source.Span, msg string) {
	if c.opts.Enough() {
		return
	}
	if diag.Errorf(c.opts.Reporter, code, sp, msg).Emit() {
		c.opts.CurrentErrors++
	}
}

func (c *checker) reportNote(code diag.Code, sp source.Span, msg string, noteSp source.Span, note string) {
	if c.opts.Enough() {
		return
	}
	if diag.Errorf(c.opts.Reporter, code, sp, msg).Note(noteSp, note).Emit() {
		c.opts.CurrentErrors++
	}
}

// checkBodies walks declarations after collection. Errors inside one
// declaration never stop the others.
func (c *checker) checkBodies() {
	for _, d := range c.file.Decls {
		switch dd := d.(type) {
		case *ast.FuncDecl:
			c.checkFunc(dd, nil)
		case *ast.ModelDecl:
			info := c.res.Module.Models[dd.Name.Name]
			if info == nil {
				continue
			}
			c.checkModelDefaults(dd, info)
			for _, m := range dd.Methods {
				c.checkFunc(m, types.NewModel(info))
			}
		}
	}
}
