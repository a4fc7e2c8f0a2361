package types

// FunctionalSignature returns the function type t stands for.
// A function type stands for itself, and an instantiation of a functional interface
// for its single abstract method, with the instantiation's bindings substituted
func FunctionalSignature(t StaticType) (FunctionType, bool) {
	switch t := t.(type) {
	case FunctionType:
		return t, true
	case NominalType:
		shape, ok := t.definition.(*TypeShape)
		if !ok || !shape.functional {
			return FunctionType{}, false
		}
		if len(t.bindings) != 0 && len(t.bindings) != len(shape.formals) {
			return FunctionType{}, false
		}
		method := shape.singleAbstractMethod()
		if method == nil {
			return FunctionType{}, false
		}
		signature, ok := SubstituteBindings(method.signature, bindingMap(t)).(FunctionType)
		return signature, ok
	}
	return FunctionType{}, false
}

func (s *TypeShape) singleAbstractMethod() *MethodShape {
	var found *MethodShape
	for _, member := range s.members {
		method, ok := member.(*MethodShape)
		if !ok || !method.abstract || method.kind != Normal {
			continue
		}
		if found != nil {
			return nil
		}
		found = method
	}
	return found
}

// functionallyEquivalent relates a functional interface to a function type, or to another
// functional interface, when their signatures are Equal
func (ctx *TypeContext) functionallyEquivalent(t, u StaticType) bool {
	if !ctx.functionalFallback {
		return false
	}
	_, tNominal := t.(NominalType)
	_, uNominal := u.(NominalType)
	if !tNominal && !uNominal {
		return false
	}
	tSignature, ok := FunctionalSignature(t)
	if !ok {
		return false
	}
	uSignature, ok := FunctionalSignature(u)
	return ok && Equal(tSignature, uSignature)
}
