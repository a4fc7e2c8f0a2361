package typeexpr

import (
	"github.com/cottand/lattice/frontend/types"
)

// Scope resolves the names found in a type expression
type Scope interface {
	Lookup(name string) (types.TypeDefinition, bool)
}

// MapScope is a Scope backed by a map, which falls back to the well-known types
type MapScope map[string]types.TypeDefinition

func (s MapScope) Lookup(name string) (types.TypeDefinition, bool) {
	if def, ok := s[name]; ok {
		return def, true
	}
	return WellKnownScope.Lookup(name)
}

type wellKnownScope struct{}

func (wellKnownScope) Lookup(name string) (types.TypeDefinition, bool) {
	shape, ok := types.LookupWellKnown(name)
	if !ok {
		return nil, false
	}
	return shape, true
}

// WellKnownScope only resolves the built-in shapes, like Int or List
var WellKnownScope Scope = wellKnownScope{}

type formalScope struct {
	parent  Scope
	formals []*types.TypeFormal
}

// WithFormals resolves the names of formals before looking names up in parent
func WithFormals(parent Scope, formals ...*types.TypeFormal) Scope {
	if len(formals) == 0 {
		return parent
	}
	return formalScope{parent: parent, formals: formals}
}

func (s formalScope) Lookup(name string) (types.TypeDefinition, bool) {
	for _, f := range s.formals {
		if f.Name() == name {
			return f, true
		}
	}
	return s.parent.Lookup(name)
}
