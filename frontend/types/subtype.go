package types

// IsSubType decides t <: u.
//
// Invalid is never a sub or super type of anything but itself, by equality.
// Checks which recur into themselves, as happens with self-referential bounds and
// recursive types built with InfiniBinding, are optimistically assumed to hold
func (ctx *TypeContext) IsSubType(t, u StaticType) (result bool) {
	if Equal(t, u) {
		return true
	}
	if isInvalid(t) || isInvalid(u) {
		return false
	}
	if isBottom(t) || isTop(u) {
		return true
	}
	if isBottom(u) || isTop(t) {
		return false
	}
	if isBubble(t) && isValueType(u) || isBubble(u) && isValueType(t) {
		return false
	}

	pair := typePair{sub: t, super: u}
	if !ctx.inFlight.Insert(pair) {
		ctx.logger.Debug("assuming recursive sub type check holds", "sub", t, "super", u)
		return true
	}
	defer ctx.inFlight.Remove(pair)

	defer func() {
		ctx.logger.Debug("sub type check", "section", "types.subtype", "sub", t, "super", u, "result", result)
	}()
	return ctx.isSubTypeUnguarded(t, u)
}

func (ctx *TypeContext) isSubTypeUnguarded(t, u StaticType) bool {
	// (A <: B & C) => (A <: B and A <: C)
	if and, ok := u.(AndType); ok {
		for _, member := range and.members {
			if !ctx.IsSubType(t, member) {
				return false
			}
		}
		return true
	}
	// (A | B <: C) => (A <: C and B <: C)
	if or, ok := t.(OrType); ok {
		for _, member := range or.members {
			if !ctx.IsSubType(member, u) {
				return false
			}
		}
		return true
	}
	// (A <: B | C) <= (A <: B or A <: C)
	if or, ok := u.(OrType); ok {
		for _, member := range or.members {
			if ctx.IsSubType(t, member) {
				return true
			}
		}
	}
	// (A & B <: C) <= (A <: C or B <: C)
	if and, ok := t.(AndType); ok {
		for _, member := range and.members {
			if ctx.IsSubType(member, u) {
				return true
			}
		}
		return false
	}
	if _, ok := u.(OrType); ok {
		return false
	}

	switch t := t.(type) {
	case NominalType:
		switch u := u.(type) {
		case NominalType:
			if t.definition == u.definition {
				return ctx.sameDefinitionSubType(t, u)
			}
			return ctx.superTypeSubType(t, u) || ctx.functionallyEquivalent(t, u)
		case FunctionType:
			return ctx.functionallyEquivalent(t, u)
		}
	case FunctionType:
		switch u := u.(type) {
		case FunctionType:
			return ctx.functionSubType(t, u)
		case NominalType:
			if ctx.functionallyEquivalent(t, u) {
				return true
			}
			return wellKnown.isAnyValue(u) || wellKnown.isFunction(u)
		}
	}
	return false
}

// sameDefinitionSubType compares the bindings of two instantiations of one definition,
// respecting the variance of each formal
func (ctx *TypeContext) sameDefinitionSubType(t, u NominalType) bool {
	formals := t.definition.Formals()
	tBindings, tOk := fullBindings(t, len(formals))
	uBindings, uOk := fullBindings(u, len(formals))
	if !tOk || !uOk {
		return false
	}
	for i, formal := range formals {
		if !ctx.isSubBinding(tBindings[i], uBindings[i], formal, i, t.definition) {
			return false
		}
	}
	return true
}

// fullBindings returns the bindings of t, reading a raw reference to a generic
// definition as bound to Wildcard everywhere, like bindingMap does
func fullBindings(t NominalType, arity int) ([]TypeActual, bool) {
	if len(t.bindings) == arity {
		return t.bindings, true
	}
	if len(t.bindings) != 0 {
		return nil, false
	}
	wildcards := make([]TypeActual, arity)
	for i := range wildcards {
		wildcards[i] = Wildcard
	}
	return wildcards, true
}

// superTypeSubType looks for an instantiation of u's definition among t's super types
func (ctx *TypeContext) superTypeSubType(t, u NominalType) bool {
	for _, candidate := range ctx.SuperTypeTree(t).Get(u.definition) {
		if ctx.IsSubType(candidate, u) {
			return true
		}
	}
	return false
}

func (ctx *TypeContext) isSubBinding(sub, super TypeActual, formal *TypeFormal, index int, definition TypeDefinition) bool {
	if _, ok := super.(WildcardType); ok {
		return true
	}
	_, subIsCell := sub.(*InfiniBinding)
	_, superIsCell := super.(*InfiniBinding)
	if subIsCell || superIsCell {
		check := bindingCheck{sub: sub, super: super, index: index, definition: definition}
		if !ctx.bindingsInFlight.Insert(check) {
			return true
		}
		defer ctx.bindingsInFlight.Remove(check)
		return ctx.isSubBinding(resolveBinding(sub), resolveBinding(super), formal, index, definition)
	}
	if _, ok := sub.(WildcardType); ok {
		// an unknown binding only satisfies an unknown binding
		return false
	}
	subType, superType := sub.(StaticType), super.(StaticType)
	switch formal.variance {
	case Covariant:
		return ctx.IsSubType(subType, superType)
	case Contravariant:
		return ctx.IsSubType(superType, subType)
	default:
		return Equal(subType, superType)
	}
}

func resolveBinding(b TypeActual) TypeActual {
	if cell, ok := b.(*InfiniBinding); ok {
		return cell.Get(Wildcard)
	}
	return b
}

// functionSubType is contravariant in value formals and covariant in the return type.
// Type formals are matched by position after renaming u's formals to t's
func (ctx *TypeContext) functionSubType(t, u FunctionType) bool {
	if len(t.valueFormals) != len(u.valueFormals) ||
		len(t.typeFormals) != len(u.typeFormals) ||
		(t.restValues == nil) != (u.restValues == nil) {
		return false
	}
	var renaming map[*TypeFormal]TypeActual
	if len(u.typeFormals) > 0 {
		renaming = make(map[*TypeFormal]TypeActual, len(u.typeFormals))
		for i, f := range u.typeFormals {
			renaming[f] = t.typeFormals[i].Ref()
		}
		for i, tf := range t.typeFormals {
			uf := u.typeFormals[i]
			if len(tf.upperBounds) != len(uf.upperBounds) {
				return false
			}
			for j, bound := range uf.upperBounds {
				if !Equal(tf.upperBounds[j], SubstituteBindings(bound, renaming)) {
					return false
				}
			}
		}
	}
	for i, uf := range u.valueFormals {
		tf := t.valueFormals[i]
		if uf.Optional && !tf.Optional {
			return false
		}
		if !ctx.IsSubType(SubstituteBindings(uf.Type, renaming), tf.Type) {
			return false
		}
	}
	if t.restValues != nil && !ctx.IsSubType(t.restValues, SubstituteBindings(u.restValues, renaming)) {
		return false
	}
	return ctx.IsSubType(t.returnType, SubstituteBindings(u.returnType, renaming))
}
