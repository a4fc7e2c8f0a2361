package types

// TypePartMapper provides the override points of a structural rewrite, see PartWalker
type TypePartMapper interface {
	// MapType is applied to a node after its children were mapped and the node rebuilt
	MapType(t StaticType) StaticType
	// MapBinding is consulted before the walker descends into a binding.
	// When ok is false the walker descends into b as usual
	MapBinding(b TypeActual) (mapped TypeActual, ok bool)
	MapDefinition(d TypeDefinition) TypeDefinition
}

// IdentityMapper leaves everything unchanged. Embed it to override only some of
// the methods of TypePartMapper
type IdentityMapper struct{}

func (IdentityMapper) MapType(t StaticType) StaticType               { return t }
func (IdentityMapper) MapBinding(TypeActual) (TypeActual, bool)      { return nil, false }
func (IdentityMapper) MapDefinition(d TypeDefinition) TypeDefinition { return d }

// PartWalker rewrites types bottom-up with a TypePartMapper.
//
// Every InfiniBinding found while walking is replaced by a fresh cell, and the same
// original cell is always replaced by the same fresh cell, so recursive types keep
// their sharing. Only cells which are already set have their content mapped.
//
// A PartWalker remembers the cells it has mapped: use one walker per rewrite
type PartWalker struct {
	mapper TypePartMapper
	cells  map[*InfiniBinding]*InfiniBinding
}

func NewPartWalker(mapper TypePartMapper) *PartWalker {
	return &PartWalker{mapper: mapper, cells: make(map[*InfiniBinding]*InfiniBinding)}
}

func (w *PartWalker) MapDefinition(d TypeDefinition) TypeDefinition {
	return w.mapper.MapDefinition(d)
}

func (w *PartWalker) MapStaticType(t StaticType) StaticType {
	switch t := t.(type) {
	case NominalType:
		def := w.mapper.MapDefinition(t.definition)
		bindings := make([]TypeActual, 0, len(t.bindings))
		for _, b := range t.bindings {
			bindings = append(bindings, w.MapActual(b))
		}
		return w.mapper.MapType(MakeNominal(def, bindings...))
	case FunctionType:
		typeFormals := make([]*TypeFormal, 0, len(t.typeFormals))
		for _, f := range t.typeFormals {
			mapped, ok := w.mapper.MapDefinition(f).(*TypeFormal)
			if !ok {
				fail("type formal %s of %s must map to a type formal", f, t)
			}
			typeFormals = append(typeFormals, mapped)
		}
		valueFormals := make([]ValueFormal, 0, len(t.valueFormals))
		for _, f := range t.valueFormals {
			f.Type = w.MapStaticType(f.Type)
			valueFormals = append(valueFormals, f)
		}
		var rest StaticType
		if t.restValues != nil {
			rest = w.MapStaticType(t.restValues)
		}
		return w.mapper.MapType(MakeFunction(typeFormals, valueFormals, rest, w.MapStaticType(t.returnType)))
	case OrType:
		return w.mapper.MapType(MakeUnion(w.mapMembers(t.members)...))
	case AndType:
		return w.mapper.MapType(MakeIntersection(w.mapMembers(t.members)...))
	case TopType, BubbleType, InvalidType:
		return w.mapper.MapType(t)
	}
	fail("cannot map unexpected type %T", t)
	return nil
}

func (w *PartWalker) mapMembers(members []StaticType) []StaticType {
	mapped := make([]StaticType, 0, len(members))
	for _, member := range members {
		mapped = append(mapped, w.MapStaticType(member))
	}
	return mapped
}

func (w *PartWalker) MapActual(a TypeActual) TypeActual {
	if mapped, ok := w.mapper.MapBinding(a); ok {
		return mapped
	}
	switch a := a.(type) {
	case WildcardType:
		return a
	case StaticType:
		return w.MapStaticType(a)
	case *InfiniBinding:
		if fresh, ok := w.cells[a]; ok {
			return fresh
		}
		fresh := NewInfiniBinding()
		// registered before mapping the content, which may refer back to a
		w.cells[a] = fresh
		if a.value != nil {
			if err := fresh.Set(w.MapActual(a.value)); err != nil {
				logger.Debug("leaving mapped cell unset", "cell", a, "error", err)
			}
		}
		return fresh
	}
	fail("cannot map unexpected type actual %T", a)
	return nil
}

// TypeBindingMapper substitutes references to formals with their bindings
type TypeBindingMapper struct {
	IdentityMapper
	bindings map[*TypeFormal]TypeActual
}

func NewTypeBindingMapper(bindings map[*TypeFormal]TypeActual) *TypeBindingMapper {
	return &TypeBindingMapper{bindings: bindings}
}

// MapType replaces formal references found where a StaticType is needed.
// A formal bound to a Wildcard or to an unset cell is replaced by its upper bound there
func (m *TypeBindingMapper) MapType(t StaticType) StaticType {
	f, ok := formalRef(t)
	if !ok {
		return t
	}
	binding, ok := m.bindings[f]
	if !ok {
		return t
	}
	if cell, isCell := binding.(*InfiniBinding); isCell {
		binding = cell.Get(Wildcard)
	}
	if static, isStatic := binding.(StaticType); isStatic {
		return static
	}
	return f.upperBound()
}

func (m *TypeBindingMapper) MapBinding(b TypeActual) (TypeActual, bool) {
	f, ok := formalRef(b)
	if !ok {
		return nil, false
	}
	binding, ok := m.bindings[f]
	return binding, ok
}

// SubstituteBindings replaces the formals in t with their bindings
func SubstituteBindings(t StaticType, bindings map[*TypeFormal]TypeActual) StaticType {
	if len(bindings) == 0 {
		return t
	}
	return NewPartWalker(NewTypeBindingMapper(bindings)).MapStaticType(t)
}

func substituteNominal(t NominalType, bindings map[*TypeFormal]TypeActual) NominalType {
	if len(bindings) == 0 {
		return t
	}
	mapped, ok := SubstituteBindings(t, bindings).(NominalType)
	if !ok {
		fail("substituting %s did not produce a nominal type", t)
	}
	return mapped
}

func substituteActual(a TypeActual, bindings map[*TypeFormal]TypeActual) TypeActual {
	if len(bindings) == 0 {
		return a
	}
	return NewPartWalker(NewTypeBindingMapper(bindings)).MapActual(a)
}
