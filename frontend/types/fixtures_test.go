package types

// zoo is a small hierarchy shared by the tests of this package:
//
//	Animal (abstract)
//	├── Dog (abstract)
//	├── Cat
//	└── Pet (abstract)
//	    └── Puppy, which is also a Dog
type zoo struct {
	animal, dog, cat, pet, puppy *TypeShape
}

func newZoo() zoo {
	animal := NewTypeShape("Animal", true)
	dog := NewTypeShape("Dog", true)
	dog.AddSuperType(MakeNominal(animal))
	cat := NewTypeShape("Cat", false)
	cat.AddSuperType(MakeNominal(animal))
	pet := NewTypeShape("Pet", true)
	pet.AddSuperType(MakeNominal(animal))
	puppy := NewTypeShape("Puppy", false)
	puppy.AddSuperType(MakeNominal(dog))
	puppy.AddSuperType(MakeNominal(pet))

	z := zoo{animal: animal, dog: dog, cat: cat, pet: pet, puppy: puppy}
	for _, shape := range []*TypeShape{animal, dog, cat, pet, puppy} {
		shape.Freeze()
	}
	return z
}

func (z zoo) Animal() NominalType { return MakeNominal(z.animal) }
func (z zoo) Dog() NominalType    { return MakeNominal(z.dog) }
func (z zoo) Cat() NominalType    { return MakeNominal(z.cat) }
func (z zoo) Pet() NominalType    { return MakeNominal(z.pet) }
func (z zoo) Puppy() NominalType  { return MakeNominal(z.puppy) }

// genericShape declares name<formal> with the given variance
func genericShape(name string, abstract bool, variance Variance) (*TypeShape, *TypeFormal) {
	shape := NewTypeShape(name, abstract)
	formal := NewTypeFormal("T", variance)
	shape.AddFormal(formal)
	return shape, formal
}

func fn(returnType StaticType, params ...StaticType) FunctionType {
	formals := make([]ValueFormal, 0, len(params))
	for _, p := range params {
		formals = append(formals, ValueFormal{Type: p})
	}
	return MakeFunction(nil, formals, nil, returnType)
}
