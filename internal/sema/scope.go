package sema

import (
	"incan/internal/source"
	"incan/internal/types"
)

// binding is one named value in a scope.
type binding struct {
	name string
	ty   *types.Type
	mut  bool
	decl source.Span
}

// scope is a lexical scope with outward lookup.
type scope struct {
	parent *scope
	names  map[string]*binding
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, names: make(map[string]*binding)}
}

// declare adds a binding; the previous binding with the same name in this
// scope is returned so the caller can report the duplicate.
func (s *scope) declare(b *binding) *binding {
	if prev, ok := s.names[b.name]; ok {
		return prev
	}
	s.names[b.name] = b
	return nil
}

// lookup walks outward through enclosing scopes.
func (s *scope) lookup(name string) *binding {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.names[name]; ok {
			return b
		}
	}
	return nil
}

func (c *checker) pushScope() {
	c.scope = newScope(c.scope)
}

func (c *checker) popScope() {
	if c.scope != nil {
		c.scope = c.scope.parent
	}
}
