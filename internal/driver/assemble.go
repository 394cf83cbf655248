package driver

import (
	"fmt"
	"sort"

	"incan/internal/diag"
	"incan/internal/emit"
	"incan/internal/project"
	"incan/internal/source"
)

// Assemble turns a successful compile result into a generated crate tree.
// crateName is the Cargo package name; mainModule selects which module
// becomes src/main.rs, every other module gets its own file.
func Assemble(res *Result, crateName, mainModule string, rep diag.Reporter) (*project.Tree, bool) {
	var main *Module
	extras := make(map[string]string)
	crateSet := make(map[string]struct{})

	for _, m := range res.Modules {
		if m.Unit == nil {
			return nil, false
		}
		for _, c := range m.Unit.Crates() {
			crateSet[c] = struct{}{}
		}
		if m.Name == mainModule {
			main = m
			continue
		}
		extras[m.Name] = m.Rust
	}
	if main == nil {
		diag.Errorf(rep, diag.ProjMissingModule, source.Span{},
			fmt.Sprintf("no module named '%s' to build as the entry point", mainModule)).Emit()
		return nil, false
	}

	crates := make([]string, 0, len(crateSet))
	for c := range crateSet {
		crates = append(crates, c)
	}
	sort.Strings(crates)

	manifest, ok := emit.RenderManifest(crateName, crates, rep)
	if !ok {
		return nil, false
	}

	return &project.Tree{
		Name:     crateName,
		Manifest: manifest,
		Main:     main.Rust,
		Modules:  extras,
	}, true
}
