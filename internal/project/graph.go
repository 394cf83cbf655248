// Package project assembles compiled modules into a Cargo crate: it
// validates the import graph, writes the generated tree and drives the
// native build.
package project

import (
	"fmt"
	"sort"

	"incan/internal/diag"
	"incan/internal/sema"
	"incan/internal/source"
)

// ModuleRef is one module as the graph validator sees it: its name, where
// it was declared, and the modules it imports.
type ModuleRef struct {
	Name    string
	Decl    source.Span
	Imports []sema.ImportInfo
}

// ValidateGraph checks the module import graph: duplicate module names,
// imports of unknown modules, self-imports and cycles. It returns false
// when any graph error was reported.
func ValidateGraph(mods []ModuleRef, rep diag.Reporter) bool {
	ok := true
	fail := func(code diag.Code, sp source.Span, msg string) {
		diag.Errorf(rep, code, sp, msg).Emit()
		ok = false
	}

	byName := make(map[string]*ModuleRef, len(mods))
	for i := range mods {
		m := &mods[i]
		if _, dup := byName[m.Name]; dup {
			fail(diag.ProjDuplicateModule, m.Decl,
				fmt.Sprintf("module '%s' is defined more than once", m.Name))
			continue
		}
		byName[m.Name] = m
	}

	edges := make(map[string][]string, len(mods))
	for i := range mods {
		m := &mods[i]
		for _, imp := range m.Imports {
			if len(imp.Path) == 0 {
				continue
			}
			target := imp.Path[len(imp.Path)-1]
			if target == m.Name {
				fail(diag.ProjSelfImport, imp.Decl,
					fmt.Sprintf("module '%s' imports itself", m.Name))
				continue
			}
			if _, known := byName[target]; !known {
				fail(diag.ProjMissingModule, imp.Decl,
					fmt.Sprintf("module '%s' imports unknown module '%s'", m.Name, target))
				continue
			}
			edges[m.Name] = append(edges[m.Name], target)
		}
	}

	if cycle := findCycle(byName, edges); cycle != nil {
		start := byName[cycle[0]]
		fail(diag.ProjImportCycle, start.Decl,
			fmt.Sprintf("import cycle: %s", joinCycle(cycle)))
	}
	return ok
}

// BuildOrder returns module indices with every import ahead of its
// importer, so symbol collection sees a complete dependency surface.
// Broken edges (missing modules, cycles) were already reported by
// ValidateGraph and are simply skipped here.
func BuildOrder(mods []ModuleRef) []int {
	byName := make(map[string]int, len(mods))
	for i := range mods {
		if _, dup := byName[mods[i].Name]; !dup {
			byName[mods[i].Name] = i
		}
	}

	const (
		white = 0
		grey  = 1
		black = 2
	)
	state := make([]int, len(mods))
	order := make([]int, 0, len(mods))
	var visit func(i int)
	visit = func(i int) {
		if state[i] != white {
			return
		}
		state[i] = grey
		for _, imp := range mods[i].Imports {
			if len(imp.Path) == 0 {
				continue
			}
			if j, known := byName[imp.Path[len(imp.Path)-1]]; known && j != i && state[j] == white {
				visit(j)
			}
		}
		state[i] = black
		order = append(order, i)
	}
	for i := range mods {
		visit(i)
	}
	return order
}

// findCycle runs a colored depth-first search over the import edges and
// returns the first cycle found, in a stable order.
func findCycle(byName map[string]*ModuleRef, edges map[string][]string) []string {
	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := make(map[string]int, len(byName))
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)

	var stack []string
	var cycle []string
	var visit func(n string) bool
	visit = func(n string) bool {
		color[n] = grey
		stack = append(stack, n)
		targets := append([]string(nil), edges[n]...)
		sort.Strings(targets)
		for _, t := range targets {
			switch color[t] {
			case grey:
				for i, s := range stack {
					if s == t {
						cycle = append([]string(nil), stack[i:]...)
						return true
					}
				}
			case white:
				if visit(t) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
		return false
	}

	for _, n := range names {
		if color[n] == white && visit(n) {
			return cycle
		}
	}
	return nil
}

func joinCycle(cycle []string) string {
	out := ""
	for _, n := range cycle {
		out += n + " -> "
	}
	return out + cycle[0]
}
