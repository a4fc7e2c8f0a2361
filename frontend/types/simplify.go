package types

import "slices"

// simplifyUnion applies the union rewrite rules: nested unions are flattened,
// Never members dropped, Top absorbs everything, Bubble together with AnyValue is Top,
// and duplicate members are removed.
//
// The result keeps the order in which members first appear
func simplifyUnion(members []StaticType) []StaticType {
	flat := make([]StaticType, 0, len(members))
	for _, member := range members {
		if member == nil {
			fail("nil union member")
		}
		if or, ok := member.(OrType); ok {
			// Never has no members, so it is dropped here
			flat = append(flat, or.members...)
			continue
		}
		flat = append(flat, member)
	}
	hasBubble, hasAnyValue := false, false
	for _, member := range flat {
		switch {
		case isTop(member):
			return []StaticType{Top}
		case isBubble(member):
			hasBubble = true
		case wellKnown.isAnyValue(member):
			hasAnyValue = true
		}
	}
	if hasBubble && hasAnyValue {
		return []StaticType{Top}
	}
	return dedupe(flat)
}

// simplifyIntersection applies the intersection rewrite rules:
//   - nested intersections are flattened and Top members dropped
//   - a Never member makes the whole intersection Never
//   - (A | Bubble) & AnyValue is A
//   - AnyValue is dropped when another member is strictly below it
//   - Bubble & N is Never for any value type N
func simplifyIntersection(members []StaticType) []StaticType {
	flat := make([]StaticType, 0, len(members))
	for _, member := range members {
		if member == nil {
			fail("nil intersection member")
		}
		switch member := member.(type) {
		case AndType:
			flat = append(flat, member.members...)
		case TopType:
		default:
			flat = append(flat, member)
		}
	}
	if slices.ContainsFunc(flat, isBottomType) {
		return []StaticType{Never}
	}
	flat = dedupe(flat)

	anyValueIndex := slices.IndexFunc(flat, wellKnown.isAnyValue)
	if anyValueIndex >= 0 {
		qualifying := 0
		for i, member := range flat {
			if i != anyValueIndex && unionWithBubble(member) {
				qualifying++
			}
		}
		if qualifying > 0 {
			rewritten := make([]StaticType, 0, len(flat))
			for i, member := range flat {
				if i == anyValueIndex && qualifying == len(flat)-1 {
					// every other member loses its Bubble: AnyValue subtracts out
					continue
				}
				if unionWithBubble(member) {
					member = withoutBubble(member.(OrType))
				}
				rewritten = append(rewritten, member)
			}
			return simplifyIntersection(rewritten)
		}
		redundant := slices.ContainsFunc(flat, func(member StaticType) bool {
			return !wellKnown.isAnyValue(member) && strictlyBelowAnyValue(member)
		})
		if redundant {
			flat = slices.Delete(flat, anyValueIndex, anyValueIndex+1)
		}
	}

	if slices.ContainsFunc(flat, isBubbleType) && slices.ContainsFunc(flat, isValueType) {
		return []StaticType{Never}
	}
	return flat
}

func isBottomType(t StaticType) bool { return isBottom(t) }
func isBubbleType(t StaticType) bool { return isBubble(t) }

func unionWithBubble(t StaticType) bool {
	or, ok := t.(OrType)
	return ok && slices.ContainsFunc(or.members, isBubbleType)
}

func withoutBubble(or OrType) StaticType {
	remaining := make([]StaticType, 0, len(or.members))
	for _, member := range or.members {
		if !isBubble(member) {
			remaining = append(remaining, member)
		}
	}
	return MakeUnion(remaining...)
}

// strictlyBelowAnyValue is true for types which are known to be proper sub types of AnyValue
func strictlyBelowAnyValue(t StaticType) bool {
	switch t := t.(type) {
	case FunctionType:
		return true
	case NominalType:
		shape, ok := t.definition.(*TypeShape)
		return ok && !shape.root
	case OrType:
		return len(t.members) > 0 && !slices.ContainsFunc(t.members, func(member StaticType) bool {
			return !strictlyBelowAnyValue(member)
		})
	case AndType:
		return slices.ContainsFunc(t.members, strictlyBelowAnyValue)
	}
	return false
}

func dedupe(members []StaticType) []StaticType {
	unique := make([]StaticType, 0, len(members))
	for _, member := range members {
		duplicate := slices.ContainsFunc(unique, func(seen StaticType) bool {
			return Equal(seen, member)
		})
		if !duplicate {
			unique = append(unique, member)
		}
	}
	return unique
}
