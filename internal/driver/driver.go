// Package driver runs the compilation pipeline. A single module flows
// strictly in stage order; across modules, parsing, graph validation and
// symbol collection are single-threaded while body checking, lowering and
// emission fan out over a bounded worker group. Diagnostics land in
// per-module bags and merge in stable module order, so parallel runs report
// identically to serial ones.
package driver

import (
	"golang.org/x/sync/errgroup"

	"incan/internal/ast"
	"incan/internal/diag"
	"incan/internal/emit"
	"incan/internal/lower"
	"incan/internal/observ"
	"incan/internal/parser"
	"incan/internal/project"
	"incan/internal/sema"
	"incan/internal/source"
)

type Options struct {
	MaxDiagnostics uint
	Jobs           int
	Timer          *observ.Timer
}

func (o Options) maxDiags() uint {
	if o.MaxDiagnostics == 0 {
		return 50
	}
	return o.MaxDiagnostics
}

func (o Options) jobs() int {
	if o.Jobs < 1 {
		return 1
	}
	return o.Jobs
}

// Module is one compiled source file with every stage artefact kept.
type Module struct {
	ID   source.FileID
	Name string
	File *ast.File
	Sem  *sema.Result
	Unit *lower.Unit
	Rust string
}

// Result is the outcome of a pipeline run.
type Result struct {
	Modules []*Module
	Bag     *diag.Bag
}

// Failed reports whether any error-severity diagnostic was produced.
func (r *Result) Failed() bool { return r.Bag.HasErrors() }

// Load reads the given paths into the file set, reporting unreadable files.
func Load(fset *source.FileSet, paths []string, bag *diag.Bag) []source.FileID {
	rep := diag.NewBagReporter(bag)
	ids := make([]source.FileID, 0, len(paths))
	for _, p := range paths {
		id, err := fset.Load(p)
		if err != nil {
			diag.Errorf(rep, diag.IOLoadFileError, source.Span{},
				"cannot read "+p+": "+err.Error()).Emit()
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Compile loads and compiles the given paths through emission.
func Compile(fset *source.FileSet, paths []string, opts Options) *Result {
	bag := diag.NewBag(opts.maxDiags())
	ids := Load(fset, paths, bag)
	res := CompileFiles(fset, ids, opts)
	bag.Merge(res.Bag)
	bag.Sort()
	res.Bag = bag
	return res
}

// CompileFiles compiles already-loaded files through emission.
func CompileFiles(fset *source.FileSet, ids []source.FileID, opts Options) *Result {
	res := &Result{Bag: diag.NewBag(opts.maxDiags())}
	timer := opts.Timer
	phase := func(name string) func() {
		if timer == nil {
			return func() {}
		}
		return timer.Phase(name)
	}

	// Parse single-threaded: the module graph must be complete before any
	// module is checked.
	stop := phase("parse")
	mods := make([]*Module, 0, len(ids))
	parseBags := make([]*diag.Bag, 0, len(ids))
	for _, id := range ids {
		bag := diag.NewBag(opts.maxDiags())
		file := parser.ParseFile(fset, fset.Get(id), parser.Options{
			MaxErrors: opts.maxDiags(),
			Reporter:  diag.NewBagReporter(bag),
		})
		mods = append(mods, &Module{ID: id, Name: file.Module, File: file})
		parseBags = append(parseBags, bag)
	}
	stop()

	stop = phase("graph")
	refs := make([]project.ModuleRef, len(mods))
	for i, m := range mods {
		refs[i] = project.ModuleRef{Name: m.Name, Imports: astImports(m.File)}
	}
	graphBag := diag.NewBag(opts.maxDiags())
	project.ValidateGraph(refs, diag.NewBagReporter(graphBag))
	stop()

	// Collect single-threaded in dependency order, so every module binds its
	// imports against complete dependency surfaces.
	stop = phase("collect")
	collectBags := make([]*diag.Bag, len(mods))
	surfaces := make(map[string]*sema.ModuleInfo, len(mods))
	for _, i := range project.BuildOrder(refs) {
		m := mods[i]
		bag := diag.NewBag(opts.maxDiags())
		collectBags[i] = bag
		if parseBags[i].HasErrors() {
			continue
		}
		m.Sem = sema.Collect(m.File, sema.Options{
			MaxErrors: opts.maxDiags(),
			Reporter:  diag.NewBagReporter(bag),
			Deps:      surfaces,
		})
		surfaces[m.Name] = m.Sem.Module
	}
	stop()

	// Check, lower and emit fan out per module; each worker writes only its
	// own module and bag, and reads dependency surfaces that no longer change.
	stopAll := phase("compile")
	workBags := make([]*diag.Bag, len(mods))
	var g errgroup.Group
	g.SetLimit(opts.jobs())
	for i := range mods {
		m := mods[i]
		bag := diag.NewBag(opts.maxDiags())
		workBags[i] = bag
		if parseBags[i].HasErrors() || m.Sem == nil {
			continue
		}
		collected := collectBags[i]
		g.Go(func() error {
			rep := diag.NewBagReporter(bag)
			sema.CheckBodies(m.File, m.Sem, sema.Options{
				MaxErrors:     opts.maxDiags(),
				CurrentErrors: uint(collected.ErrorCount()),
				Reporter:      rep,
				Deps:          surfaces,
			})
			if bag.HasErrors() || collected.HasErrors() {
				return nil
			}
			m.Unit = lower.Lower(m.File, m.Sem, lower.Options{
				MaxErrors: opts.maxDiags(),
				Reporter:  rep,
			})
			if bag.HasErrors() {
				return nil
			}
			m.Rust = emit.RenderModule(m.Unit)
			return nil
		})
	}
	_ = g.Wait() // workers report through bags, never through errors
	stopAll()

	for i := range mods {
		res.Bag.Merge(parseBags[i])
		if collectBags[i] != nil {
			res.Bag.Merge(collectBags[i])
		}
		res.Bag.Merge(workBags[i])
	}
	res.Bag.Merge(graphBag)
	res.Bag.Sort()
	res.Modules = mods
	return res
}

// astImports extracts import declarations before checking runs, for graph
// validation.
func astImports(file *ast.File) []sema.ImportInfo {
	var out []sema.ImportInfo
	for _, d := range file.Decls {
		imp, ok := d.(*ast.ImportDecl)
		if !ok {
			continue
		}
		info := sema.ImportInfo{Decl: imp.Sp}
		for _, p := range imp.Path {
			info.Path = append(info.Path, p.Name)
		}
		out = append(out, info)
	}
	return out
}
