package types

import "incan/internal/source"

// FieldInfo is one declared model field. Slice order is source declaration
// order and must be preserved through lowering and emission.
type FieldInfo struct {
	Name       string
	Type       *Type
	Pub        bool
	HasDefault bool
	Decl       source.Span
}

// ModelInfo stores metadata for a nominal model type. One record per
// declaration; model types compare by pointer identity of this record.
type ModelInfo struct {
	Name    string
	Decl    source.Span
	Fields  []FieldInfo
	Methods map[string]*FuncInfo
	Caps    CapSet
}

// Field returns the field with the given name, or nil.
func (m *ModelInfo) Field(name string) *FieldInfo {
	for i := range m.Fields {
		if m.Fields[i].Name == name {
			return &m.Fields[i]
		}
	}
	return nil
}

// Method returns the method with the given name, or nil.
func (m *ModelInfo) Method(name string) *FuncInfo {
	if m.Methods == nil {
		return nil
	}
	return m.Methods[name]
}

// TraitInfo stores metadata for a trait declaration.
type TraitInfo struct {
	Name    string
	Decl    source.Span
	Methods map[string]*FuncInfo
}
