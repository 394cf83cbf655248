package sema

import (
	"incan/internal/source"
	"incan/internal/types"
)

// ModuleInfo is the resolved top-level surface of one module: everything the
// lowering stage and other modules need to know about it.
type ModuleInfo struct {
	Name    string
	Models  map[string]*types.ModelInfo
	Traits  map[string]*types.TraitInfo
	Funcs   map[string]*types.FuncInfo
	Consts  map[string]*ConstInfo
	Imports []ImportInfo

	// Bindings created by import declarations, keyed by the visible name
	// (the alias when one was given). The info records are shared with the
	// exporting module.
	ImportedModels map[string]*types.ModelInfo
	ImportedTraits map[string]*types.TraitInfo
	ImportedFuncs  map[string]*types.FuncInfo
	ImportedConsts map[string]*ConstInfo
	DepModules     map[string]*ModuleInfo
}

// ConstInfo is one module-level constant with its folded value.
type ConstInfo struct {
	Name  string
	Type  *types.Type
	Value Value
	Decl  source.Span
}

// ImportInfo records one import declaration.
type ImportInfo struct {
	Path  []string
	Alias string // empty when not aliased
	Items []ImportedItem
	Decl  source.Span
}

// ImportedItem is one name pulled in by a from-import.
type ImportedItem struct {
	Name  string
	Alias string
}

func newModuleInfo(name string) *ModuleInfo {
	return &ModuleInfo{
		Name:           name,
		Models:         make(map[string]*types.ModelInfo),
		Traits:         make(map[string]*types.TraitInfo),
		Funcs:          make(map[string]*types.FuncInfo),
		Consts:         make(map[string]*ConstInfo),
		ImportedModels: make(map[string]*types.ModelInfo),
		ImportedTraits: make(map[string]*types.TraitInfo),
		ImportedFuncs:  make(map[string]*types.FuncInfo),
		ImportedConsts: make(map[string]*ConstInfo),
		DepModules:     make(map[string]*ModuleInfo),
	}
}
