package types

import "slices"

// SimpleBoundSets describe a type by simple types around it.
// A simple type is a nominal or a function type
type SimpleBoundSets struct {
	// Low are simple types known to be sub types of the type
	Low []StaticType
	// High are simple types the type is known to be a sub type of
	High []StaticType
}

type boundSetsEntry struct {
	t    StaticType
	sets *SimpleBoundSets
}

// SimpleBoundSets returns the bound sets of t, or nil when t is not built out of simple types
// with unions and intersections only
func (ctx *TypeContext) SimpleBoundSets(t StaticType) *SimpleBoundSets {
	hash := t.Hash()
	for _, entry := range ctx.boundSets[hash] {
		if Equal(entry.t, t) {
			return entry.sets
		}
	}
	sets := ctx.computeBoundSets(t)
	ctx.boundSets[hash] = append(ctx.boundSets[hash], boundSetsEntry{t: t, sets: sets})
	return sets
}

func (ctx *TypeContext) computeBoundSets(t StaticType) *SimpleBoundSets {
	switch t := t.(type) {
	case NominalType, FunctionType:
		return &SimpleBoundSets{Low: []StaticType{t}, High: []StaticType{t}}
	case OrType:
		// a union is above every low type of its members,
		// and below what all of its members are below
		return ctx.combineBoundSets(t.members, func(into, from *SimpleBoundSets) {
			into.Low = dedupe(append(into.Low, from.Low...))
			into.High = intersectTypes(into.High, from.High)
		})
	case AndType:
		return ctx.combineBoundSets(t.members, func(into, from *SimpleBoundSets) {
			into.High = dedupe(append(into.High, from.High...))
			into.Low = intersectTypes(into.Low, from.Low)
		})
	}
	return nil
}

func (ctx *TypeContext) combineBoundSets(members []StaticType, combine func(into, from *SimpleBoundSets)) *SimpleBoundSets {
	if len(members) == 0 {
		return nil
	}
	var combined *SimpleBoundSets
	for _, member := range members {
		sets := ctx.SimpleBoundSets(member)
		if sets == nil {
			return nil
		}
		if combined == nil {
			combined = &SimpleBoundSets{Low: slices.Clone(sets.Low), High: slices.Clone(sets.High)}
			continue
		}
		combine(combined, sets)
	}
	return combined
}

func intersectTypes(these, those []StaticType) []StaticType {
	return slices.DeleteFunc(these, func(t StaticType) bool {
		return !containsType(those, t)
	})
}

func containsType(types []StaticType, t StaticType) bool {
	return slices.ContainsFunc(types, func(other StaticType) bool { return Equal(other, t) })
}

// covers is true when some type in high is a sub type of some type in low,
// which proves that everything below high is below low
func (ctx *TypeContext) covers(high, low []StaticType) bool {
	for _, h := range high {
		for _, l := range low {
			if ctx.IsSubType(h, l) {
				return true
			}
		}
	}
	return false
}
