package types

import (
	"slices"
)

// MakeUnion builds the canonical union of members.
// The union of no members is Never and the union of a single member is that member
func MakeUnion(members ...StaticType) StaticType {
	simplified := simplifyUnion(members)
	switch len(simplified) {
	case 0:
		return Never
	case 1:
		return simplified[0]
	default:
		return OrType{members: simplified}
	}
}

// MakeIntersection builds the canonical intersection of members.
// The intersection of no members is Top and the intersection of a single member is that member
func MakeIntersection(members ...StaticType) StaticType {
	simplified := simplifyIntersection(members)
	switch len(simplified) {
	case 0:
		return Top
	case 1:
		return simplified[0]
	default:
		return AndType{members: simplified}
	}
}

// MakeNominal builds a nominal type of definition bound to bindings
func MakeNominal(definition TypeDefinition, bindings ...TypeActual) NominalType {
	if definition == nil {
		fail("nominal type without definition")
	}
	for i, b := range bindings {
		if b == nil {
			fail("binding %d of %s is nil", i, definition.Name())
		}
	}
	if len(bindings) == 0 {
		return NominalType{definition: definition}
	}
	return NominalType{definition: definition, bindings: slices.Clone(bindings)}
}

// MakeFunction builds a function type. restValues may be nil when there is no rest formal
func MakeFunction(typeFormals []*TypeFormal, valueFormals []ValueFormal, restValues StaticType, returnType StaticType) FunctionType {
	if returnType == nil {
		fail("function type without return type")
	}
	for i, f := range valueFormals {
		if f.Type == nil {
			fail("value formal %d (%s) has no type", i, f.Name)
		}
	}
	for i, f := range typeFormals {
		if f == nil {
			fail("type formal %d is nil", i)
		}
	}
	return FunctionType{
		typeFormals:  slices.Clone(typeFormals),
		valueFormals: slices.Clone(valueFormals),
		restValues:   restValues,
		returnType:   returnType,
	}
}
