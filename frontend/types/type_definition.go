package types

import (
	"fmt"
	"github.com/cottand/lattice/util"
	"slices"
	"sync/atomic"
)

// TypeDefinition is anything nameable that takes part in subtyping:
// a *TypeFormal or a *TypeShape. Definitions are compared by identity
type TypeDefinition interface {
	fmt.Stringer
	Name() string
	// SuperTypes are the declared direct super types of a shape, or the upper bounds of a formal
	SuperTypes() []NominalType
	// Formals are the type parameters a NominalType of this definition binds
	Formals() []*TypeFormal
	// Generation increases every time the definition is mutated
	Generation() uint64

	definitionID() uint64
	isTypeDefinition()
}

var (
	_ TypeDefinition = (*TypeFormal)(nil)
	_ TypeDefinition = (*TypeShape)(nil)
)

var definitionCounter atomic.Uint64

func nextDefinitionID() uint64 {
	return definitionCounter.Add(1)
}

type Variance uint8

const (
	Invariant Variance = iota
	Covariant
	Contravariant
)

// String returns the declaration-site keyword of v
func (v Variance) String() string {
	switch v {
	case Covariant:
		return "out"
	case Contravariant:
		return "in"
	default:
		return ""
	}
}

// TypeFormal is a generic type parameter with a variance and upper bounds.
// A formal without upper bounds is bounded by AnyValue
type TypeFormal struct {
	id          uint64
	name        string
	variance    Variance
	upperBounds []NominalType
	generation  uint64
	// owner is the shape which declares f, if any
	owner *TypeShape
}

func NewTypeFormal(name string, variance Variance, upperBounds ...NominalType) *TypeFormal {
	return &TypeFormal{
		id:          nextDefinitionID(),
		name:        name,
		variance:    variance,
		upperBounds: slices.Clone(upperBounds),
	}
}

func (*TypeFormal) isTypeDefinition()        {}
func (f *TypeFormal) definitionID() uint64   { return f.id }
func (f *TypeFormal) Name() string           { return f.name }
func (f *TypeFormal) String() string         { return f.name }
func (f *TypeFormal) Variance() Variance     { return f.variance }
func (f *TypeFormal) Formals() []*TypeFormal { return nil }
func (f *TypeFormal) Generation() uint64     { return f.generation }
func (f *TypeFormal) SuperTypes() []NominalType {
	return slices.Clone(f.upperBounds)
}

// AddUpperBound is used by the front end for bounds which mention f itself,
// like T extends Comparable<T>, which can only be built once f exists
func (f *TypeFormal) AddUpperBound(bound NominalType) {
	if f.owner != nil && f.owner.IsFrozen() {
		fail("cannot bound %s: %s is frozen", f.name, f.owner.name)
	}
	f.upperBounds = append(f.upperBounds, bound)
	f.generation++
}

// Ref is the nominal type which refers to f
func (f *TypeFormal) Ref() NominalType {
	return MakeNominal(f)
}

// upperBound is the single type every binding of f must be a subtype of
func (f *TypeFormal) upperBound() StaticType {
	if len(f.upperBounds) == 0 {
		if anyValue := wellKnown.anyValueType(); anyValue != nil {
			return *anyValue
		}
		return Top
	}
	bounds := make([]StaticType, 0, len(f.upperBounds))
	for _, b := range f.upperBounds {
		bounds = append(bounds, b)
	}
	return MakeIntersection(bounds...)
}

func (f *TypeFormal) declarationString() string {
	name := f.name
	if f.variance != Invariant {
		name = f.variance.String() + " " + name
	}
	if len(f.upperBounds) == 0 {
		return name
	}
	return name + ": " + util.JoinString(f.upperBounds, " & ")
}

// stampedCache holds a value derived from several definitions.
// It is recomputed once any of them was mutated
type stampedCache[T any] struct {
	valid  bool
	stamps []definitionStamp
	value  T
}

func (c *stampedCache[T]) get(compute func() (T, []definitionStamp)) T {
	if c.valid && !staleStamps(c.stamps) {
		return c.value
	}
	c.value, c.stamps = compute()
	c.valid = true
	return c.value
}

type definitionStamp struct {
	definition TypeDefinition
	generation uint64
}

func stampOf(def TypeDefinition) definitionStamp {
	return definitionStamp{definition: def, generation: def.Generation()}
}

func staleStamps(stamps []definitionStamp) bool {
	return slices.ContainsFunc(stamps, func(stamp definitionStamp) bool {
		return stamp.definition.Generation() != stamp.generation
	})
}

// genCache holds a value derived from a definition at a given generation
type genCache[T any] struct {
	valid bool
	gen   uint64
	value T
}

// get returns the cached value if it was computed at generation gen,
// and recomputes it otherwise
func (c *genCache[T]) get(gen uint64, compute func() T) T {
	if c.valid && c.gen == gen {
		return c.value
	}
	c.value = compute()
	c.gen = gen
	c.valid = true
	return c.value
}

// effectiveSuperTypes are the declared super types of def, or AnyValue for
// definitions which declare none and are not themselves a root of the lattice
func effectiveSuperTypes(def TypeDefinition) []NominalType {
	declared := def.SuperTypes()
	if len(declared) != 0 {
		return declared
	}
	if shape, ok := def.(*TypeShape); ok && shape.root {
		return nil
	}
	anyValue := wellKnown.anyValueType()
	if anyValue == nil || anyValue.definition == def {
		return nil
	}
	return []NominalType{*anyValue}
}

// bindingMap maps the formals of def to the bindings of t.
// A raw reference to a generic definition binds every formal to Wildcard
func bindingMap(t NominalType) map[*TypeFormal]TypeActual {
	formals := t.definition.Formals()
	if len(formals) == 0 {
		return nil
	}
	bindings := make(map[*TypeFormal]TypeActual, len(formals))
	if len(t.bindings) == 0 {
		for _, f := range formals {
			bindings[f] = Wildcard
		}
		return bindings
	}
	if len(t.bindings) != len(formals) {
		fail("%s has %d bindings but %s declares %d formals", t, len(t.bindings), t.definition.Name(), len(formals))
	}
	for i, f := range formals {
		bindings[f] = t.bindings[i]
	}
	return bindings
}
