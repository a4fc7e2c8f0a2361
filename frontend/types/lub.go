package types

import (
	"slices"
	"sort"

	xset "github.com/xtgo/set"
)

// Lub is the least upper bound of t and u.
//
// When simplify is false, unrelated types are joined into a union.
// When simplify is true, unrelated nominal types are widened to their least common super type
func (ctx *TypeContext) Lub(t, u StaticType, simplify bool) StaticType {
	switch {
	case Equal(t, u):
		return t
	case isInvalid(t) || isInvalid(u):
		return Invalid
	case isBottom(t):
		return u
	case isBottom(u):
		return t
	case isTop(t) || isTop(u):
		return Top
	case isBubble(t) && isValueType(u) || isBubble(u) && isValueType(t):
		return Top
	}

	tBounds, uBounds := ctx.SimpleBoundSets(t), ctx.SimpleBoundSets(u)
	if tBounds != nil && uBounds != nil {
		if ctx.covers(uBounds.High, tBounds.Low) {
			return t
		}
		if ctx.covers(tBounds.High, uBounds.Low) {
			return u
		}
	}
	if ctx.IsSubType(u, t) {
		return t
	}
	if ctx.IsSubType(t, u) {
		return u
	}
	if !simplify && tBounds != nil && uBounds != nil && !slices.ContainsFunc(tBounds.High, func(h StaticType) bool {
		return containsType(uBounds.High, h)
	}) {
		return MakeUnion(t, u)
	}
	if merged, ok := ctx.mergeUp(t, u, simplify); ok {
		return merged
	}
	if merged, ok := ctx.mergeUp(u, t, simplify); ok {
		return merged
	}
	if !simplify {
		return MakeUnion(t, u)
	}
	tNominals, tOk := nominalMembers(t)
	uNominals, uOk := nominalMembers(u)
	if tOk && uOk {
		return ctx.LeastCommonSuperType(append(tNominals, uNominals...)...)
	}
	ctx.logger.Debug("widening lub to Top", "section", "types.lub", "left", t, "right", u)
	return Top
}

// mergeUp returns the union u when t merges into one of its members
func (ctx *TypeContext) mergeUp(t, u StaticType, simplify bool) (StaticType, bool) {
	or, ok := u.(OrType)
	if !ok {
		return nil, false
	}
	for _, member := range or.members {
		if Equal(ctx.Lub(t, member, simplify), member) {
			return u, true
		}
	}
	return nil, false
}

// nominalMembers returns t, or the members of the union t, when they are all nominal types
func nominalMembers(t StaticType) ([]NominalType, bool) {
	switch t := t.(type) {
	case NominalType:
		return []NominalType{t}, true
	case OrType:
		nominals := make([]NominalType, 0, len(t.members))
		for _, member := range t.members {
			n, ok := member.(NominalType)
			if !ok {
				return nil, false
			}
			nominals = append(nominals, n)
		}
		return nominals, len(nominals) > 0
	}
	return nil, false
}

// Glb is the greatest lower bound of t and u
func (ctx *TypeContext) Glb(t, u StaticType) StaticType {
	switch {
	case Equal(t, u):
		return t
	case isInvalid(t) || isInvalid(u):
		return Invalid
	case isBottom(t) || isBottom(u):
		return Never
	case isTop(t):
		return u
	case isTop(u):
		return t
	case isBubble(t) && isValueType(u) || isBubble(u) && isValueType(t):
		return Never
	}
	if or, ok := t.(OrType); ok {
		return ctx.distributeGlb(or.members, u)
	}
	if or, ok := u.(OrType); ok {
		return ctx.distributeGlb(or.members, t)
	}
	if ctx.IsSubType(t, u) {
		return t
	}
	if ctx.IsSubType(u, t) {
		return u
	}
	if isValueType(t) && isValueType(u) && !isFormalRef(t) && !isFormalRef(u) {
		if closedType(t) || closedType(u) {
			return Never
		}
		if sealed, ok := ctx.sealedGlb(t, u); ok {
			return sealed
		}
		if sealed, ok := ctx.sealedGlb(u, t); ok {
			return sealed
		}
	}
	return MakeIntersection(t, u)
}

func isFormalRef(t StaticType) bool {
	_, ok := formalRef(t)
	return ok
}

func (ctx *TypeContext) distributeGlb(members []StaticType, other StaticType) StaticType {
	distributed := make([]StaticType, 0, len(members))
	for _, member := range members {
		distributed = append(distributed, ctx.Glb(member, other))
	}
	return MakeUnion(distributed...)
}

// closedType is true for instantiations of closed shapes. No shape extends them,
// so their values cannot belong to an unrelated type
func closedType(t StaticType) bool {
	n, ok := t.(NominalType)
	if !ok {
		return false
	}
	shape, ok := n.definition.(*TypeShape)
	return ok && shape.IsClosed()
}

// sealedGlb distributes the glb over the sealed sub types of t
func (ctx *TypeContext) sealedGlb(t, u StaticType) (StaticType, bool) {
	n, ok := t.(NominalType)
	if !ok {
		return nil, false
	}
	shape, ok := n.definition.(*TypeShape)
	if !ok || !shape.sealed {
		return nil, false
	}
	if len(n.bindings) != 0 && len(n.bindings) != len(shape.formals) {
		return nil, false
	}
	bindings := bindingMap(n)
	parts := make([]StaticType, 0, len(shape.sealedSubTypes))
	for _, sub := range shape.sealedSubTypes {
		sub = substituteNominal(sub, bindings)
		if Equal(sub, n) {
			return nil, false
		}
		parts = append(parts, ctx.Glb(sub, u))
	}
	return MakeUnion(parts...), true
}

// LeastCommonSuperType finds the nearest definitions every type inherits from.
//
// It is Never for no types, Top when the types share no definition,
// and an intersection when several unrelated definitions are nearest
func (ctx *TypeContext) LeastCommonSuperType(types ...NominalType) StaticType {
	switch len(types) {
	case 0:
		return Never
	case 1:
		return types[0]
	}
	trees := make([]*SuperTypeTree, 0, len(types))
	for _, t := range types {
		trees = append(trees, ctx.SuperTypeTree(t))
	}

	common := definitionIDsOf(trees[0])
	for _, tree := range trees[1:] {
		others := definitionIDsOf(tree)
		data := append(slices.Clone(common), others...)
		common = data[:xset.Inter(data, len(common))]
		sort.Sort(common)
	}
	if len(common) == 0 {
		return Top
	}

	var survivors []NominalType
	for _, def := range trees[0].Definitions() {
		if _, found := slices.BinarySearch(common, def.definitionID()); !found {
			continue
		}
		var candidates []NominalType
		for _, tree := range trees {
			for _, candidate := range tree.Get(def) {
				if !slices.ContainsFunc(candidates, func(c NominalType) bool { return Equal(c, candidate) }) {
					candidates = append(candidates, candidate)
				}
			}
		}
		for _, candidate := range candidates {
			if ctx.allSubTypesOf(types, candidate) {
				survivors = append(survivors, candidate)
			}
		}
	}

	nearest := make([]StaticType, 0, len(survivors))
	for _, survivor := range survivors {
		redundant := slices.ContainsFunc(survivors, func(other NominalType) bool {
			return other.definition != survivor.definition &&
				ctx.SuperTypeTree(other).Contains(survivor.definition)
		})
		if !redundant {
			nearest = append(nearest, survivor)
		}
	}
	switch len(nearest) {
	case 0:
		return Top
	case 1:
		return nearest[0]
	}
	return MakeIntersection(nearest...)
}

func (ctx *TypeContext) allSubTypesOf(types []NominalType, super NominalType) bool {
	for _, t := range types {
		if !ctx.IsSubType(t, super) {
			return false
		}
	}
	return true
}

type definitionIDs []uint64

func (ids definitionIDs) Len() int           { return len(ids) }
func (ids definitionIDs) Less(i, j int) bool { return ids[i] < ids[j] }
func (ids definitionIDs) Swap(i, j int)      { ids[i], ids[j] = ids[j], ids[i] }

// definitionIDsOf returns the sorted ids of the definitions in tree
func definitionIDsOf(tree *SuperTypeTree) definitionIDs {
	ids := make(definitionIDs, 0, len(tree.definitions))
	for _, def := range tree.definitions {
		ids = append(ids, def.definitionID())
	}
	sort.Sort(ids)
	return ids[:xset.Uniq(ids)]
}
