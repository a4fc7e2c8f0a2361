package types

import "github.com/cottand/lattice/util"

// ComputeOverrides links every property and method of s to the members of its super types
// it overrides. The overridden descriptors are translated into the generic context of s.
//
// s must be frozen, since overrides are derived from its final super types and members
func (s *TypeShape) ComputeOverrides(ctx *TypeContext) {
	if s.view == nil {
		fail("cannot compute overrides of %s before it is frozen", s.name)
	}
	supers := util.FilterIter(ctx.SuperTypeTree(s.SelfType()).All(), func(super NominalType) bool {
		shape, ok := super.definition.(*TypeShape)
		return ok && shape != s
	})
	for _, member := range s.members {
		switch member.(type) {
		case *TypeParameterShape, *StaticPropertyShape:
			continue
		}
		var overridden []OverriddenMember
		for super := range supers {
			superShape := super.definition.(*TypeShape)
			bindings := bindingMap(super)
			for _, candidate := range superShape.ownMembersNamed(member.Symbol()) {
				if !sameMemberKind(member, candidate) {
					continue
				}
				overridden = append(overridden, OverriddenMember{
					Member: candidate,
					From:   super,
					Type:   substituteActual(candidate.Descriptor(), bindings),
				})
			}
		}
		member.base().overridden = overridden
		if len(overridden) > 0 {
			logger.Debug("member overrides", "member", member, "overridden", len(overridden))
		}
	}
}

func sameMemberKind(member, candidate MemberShape) bool {
	switch member := member.(type) {
	case *PropertyShape:
		_, ok := candidate.(*PropertyShape)
		return ok
	case *MethodShape:
		method, ok := candidate.(*MethodShape)
		return ok && method.kind == member.kind
	}
	return false
}
