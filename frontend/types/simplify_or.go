package types

// SimplifyOrTypes replaces the nominal members of every union in t, including unions
// nested in bindings and function signatures, by their least common super type.
// Null and the other non-nominal members are kept as they are
func (ctx *TypeContext) SimplifyOrTypes(t StaticType) StaticType {
	return NewPartWalker(orSimplifier{ctx: ctx}).MapStaticType(t)
}

type orSimplifier struct {
	IdentityMapper
	ctx *TypeContext
}

func (s orSimplifier) MapType(t StaticType) StaticType {
	or, ok := t.(OrType)
	if !ok {
		return t
	}
	var ordinary []NominalType
	others := make([]StaticType, 0, len(or.members))
	for _, member := range or.members {
		if n, ok := member.(NominalType); ok && !wellKnown.isNull(n) {
			ordinary = append(ordinary, n)
			continue
		}
		others = append(others, member)
	}
	if len(ordinary) < 2 {
		return t
	}
	simplified := s.ctx.LeastCommonSuperType(ordinary...)
	s.ctx.logger.Debug("simplified union", "union", t, "into", simplified)
	return MakeUnion(append([]StaticType{simplified}, others...)...)
}
