package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrozenShapeRejectsMutation(t *testing.T) {
	shape := NewTypeShape("Frozen", false)
	shape.AddProperty(PropertyDecl{Symbol: "size", Type: IntType()})
	view := shape.Freeze()
	generation := shape.Generation()

	mutations := map[string]func(){
		"property":    func() { shape.AddProperty(PropertyDecl{Symbol: "other", Type: IntType()}) },
		"method":      func() { shape.AddMethod(MethodDecl{Symbol: "run", Signature: fn(IntType())}) },
		"super type":  func() { shape.AddSuperType(AnyValueType()) },
		"formal":      func() { shape.AddFormal(NewTypeFormal("T", Invariant)) },
		"sealed":      func() { shape.SetSealedSubTypes() },
		"functional":  func() { shape.SetFunctionalInterface(true) },
		"static prop": func() { shape.AddStaticProperty(StaticPropertyDecl{Symbol: "zero", Type: IntType()}) },
	}
	for name, mutation := range mutations {
		t.Run(name, func(t *testing.T) {
			_, err := Guard(func() bool { mutation(); return true })
			assert.ErrorContains(t, err, "frozen")
		})
	}

	assert.Equal(t, generation, shape.Generation())
	assert.Equal(t, 1, view.Members().Len())
	assert.Equal(t, view, shape.Freeze())
	assert.True(t, shape.IsFrozen())
}

func TestShapeView(t *testing.T) {
	shape := NewTypeShape("Overloaded", false)
	shape.AddMethod(MethodDecl{Symbol: "add", Signature: fn(IntType(), IntType())})
	shape.AddMethod(MethodDecl{Symbol: "add", Signature: fn(StringType(), StringType())})
	shape.AddProperty(PropertyDecl{Symbol: "count", Type: IntType()})
	view := shape.Freeze()

	assert.Equal(t, 3, view.Members().Len())
	assert.Equal(t, 2, view.MembersNamed("add").Len())
	assert.Equal(t, 0, view.MembersNamed("missing").Len())
	assert.Equal(t, 0, view.SuperTypes().Len())
	assert.Same(t, shape, view.Shape())
}

func TestMethodWithoutSignature(t *testing.T) {
	shape := NewTypeShape("Broken", false)
	_, err := Guard(func() *MethodShape { return shape.AddMethod(MethodDecl{Symbol: "run"}) })
	assert.ErrorContains(t, err, "MakeFunction")
}

func TestMembersMatching(t *testing.T) {
	base := NewTypeShape("Base", true)
	base.AddProperty(PropertyDecl{Symbol: "name", Type: StringType()})
	base.AddProperty(PropertyDecl{Symbol: "secret", Type: StringType(), Visibility: Private})
	base.AddProperty(PropertyDecl{Symbol: "guarded", Type: StringType(), Visibility: Protected})
	derived := NewTypeShape("Derived", false)
	derived.AddSuperType(MakeNominal(base))
	derived.AddProperty(PropertyDecl{Symbol: "name", Type: StringType()})
	base.Freeze()
	derived.Freeze()

	testCases := []struct {
		name      string
		symbol    string
		accessor  *TypeShape
		enclosing *TypeShape
	}{
		{"nearest declaration wins", "name", nil, derived},
		{"private from outside", "secret", nil, nil},
		{"private from a sub type", "secret", derived, nil},
		{"private from the declaring shape", "secret", base, base},
		{"protected from outside", "guarded", nil, nil},
		{"protected from a shape", "guarded", derived, base},
		{"unknown symbol", "length", nil, nil},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			found := derived.MembersMatching(testCase.symbol, testCase.accessor)
			if testCase.enclosing == nil {
				assert.Empty(t, found)
				return
			}
			require.Len(t, found, 1)
			assert.Same(t, testCase.enclosing, found[0].Enclosing())
		})
	}
}

func TestMembersMatchingInheritsBuiltins(t *testing.T) {
	found := WellKnown().List.MembersMatching("get", nil)
	require.Len(t, found, 1)
	method, ok := found[0].(*MethodShape)
	require.True(t, ok)
	assert.Equal(t, Open, method.Openness())
	assert.True(t, method.Abstract())
}

func TestDerivedCachesFollowGeneration(t *testing.T) {
	z := newZoo()
	shape := NewTypeShape("Growing", false)
	assert.Empty(t, shape.MembersMatching("size", nil))
	assert.Equal(t, []string{"AnyValue"}, shape.TransitiveSuperTypeNames().Slice())
	assert.Equal(t, 1, shape.InheritanceDepth())

	shape.AddProperty(PropertyDecl{Symbol: "size", Type: IntType()})
	shape.AddSuperType(z.Dog())
	shape.AddSuperType(z.Pet())

	assert.Len(t, shape.MembersMatching("size", nil), 1)
	names := shape.TransitiveSuperTypeNames()
	for _, name := range []string{"Dog", "Pet", "Animal", "AnyValue"} {
		assert.True(t, names.Contains(name), "missing %s", name)
	}
	assert.Equal(t, 4, names.Size())
	assert.Equal(t, 3, shape.InheritanceDepth())
}

func TestDerivedCachesFollowAncestors(t *testing.T) {
	base := NewTypeShape("Base", true)
	middle := NewTypeShape("Middle", true)
	leaf := NewTypeShape("Leaf", false)
	leaf.AddSuperType(MakeNominal(middle))

	assert.ElementsMatch(t, []string{"Middle", "AnyValue"}, leaf.TransitiveSuperTypeNames().Slice())
	assert.Equal(t, 2, leaf.InheritanceDepth())

	middle.AddSuperType(MakeNominal(base))

	assert.ElementsMatch(t, []string{"Middle", "Base", "AnyValue"}, leaf.TransitiveSuperTypeNames().Slice())
	assert.Equal(t, 3, leaf.InheritanceDepth())
	assert.Equal(t, 2, middle.InheritanceDepth())
}

func TestConcreteShapesAreClosed(t *testing.T) {
	z := newZoo()
	assert.True(t, z.cat.IsClosed())
	assert.False(t, z.dog.IsClosed())
	assert.False(t, WellKnown().AnyValue.IsClosed())
	assert.False(t, WellKnown().Null.IsClosed())
	assert.True(t, WellKnown().Int.IsClosed())

	shape := NewTypeShape("Kitten", false)
	_, err := Guard(func() bool { shape.AddSuperType(z.Cat()); return true })
	assert.ErrorContains(t, err, "super type Cat of Kitten is a concrete shape")
	assert.Empty(t, shape.SuperTypes())
}

func TestFrozenShapeRejectsBoundsOnItsFormals(t *testing.T) {
	shape, formal := genericShape("Holder", true, Covariant)
	formal.AddUpperBound(AnyValueType())
	shape.Freeze()

	_, err := Guard(func() bool { formal.AddUpperBound(IntType()); return true })
	assert.ErrorContains(t, err, "Holder is frozen")
	assert.Len(t, formal.SuperTypes(), 1)

	other := NewTypeShape("Other", true)
	_, err = Guard(func() bool { other.AddFormal(formal); return true })
	assert.ErrorContains(t, err, "already belongs to Holder")

	free := NewTypeFormal("F", Invariant)
	free.AddUpperBound(IntType())
	assert.Len(t, free.SuperTypes(), 1)
}

func TestInheritanceDepth(t *testing.T) {
	z := newZoo()
	assert.Equal(t, 0, WellKnown().AnyValue.InheritanceDepth())
	assert.Equal(t, 0, WellKnown().Null.InheritanceDepth())
	assert.Equal(t, 1, z.animal.InheritanceDepth())
	assert.Equal(t, 2, z.dog.InheritanceDepth())
	assert.Equal(t, 3, z.puppy.InheritanceDepth())
}

func TestSelfType(t *testing.T) {
	assert.Equal(t, "List<T>", WellKnown().List.SelfType().String())
	assert.Equal(t, "Int", WellKnown().Int.SelfType().String())
}

func TestMemberStrings(t *testing.T) {
	members := WellKnown().List.Members()
	require.Len(t, members, 3)
	assert.Equal(t, "type out T", members[0].String())
	assert.Equal(t, "public abstract fn get(Int): (T | Bubble)", members[2].String())
}

func TestComputeOverrides(t *testing.T) {
	base := NewTypeShape("Container", true)
	formal := NewTypeFormal("E", Invariant)
	base.AddFormal(formal)
	baseGet := base.AddMethod(MethodDecl{Symbol: "first", Signature: fn(formal.Ref()), Abstract: true, Openness: Open})
	baseSize := base.AddProperty(PropertyDecl{Symbol: "size", Type: IntType(), Abstract: true})
	base.Freeze()

	derived := NewTypeShape("Names", false)
	derived.AddSuperType(MakeNominal(base, StringType()))
	get := derived.AddMethod(MethodDecl{Symbol: "first", Signature: fn(StringType())})
	getter := derived.AddMethod(MethodDecl{Symbol: "size", Signature: fn(IntType()), Kind: Getter})
	size := derived.AddProperty(PropertyDecl{Symbol: "size", Type: IntType()})
	own := derived.AddMethod(MethodDecl{Symbol: "last", Signature: fn(StringType())})

	ctx := NewTypeContext()
	_, err := Guard(func() bool { derived.ComputeOverrides(ctx); return true })
	require.ErrorContains(t, err, "frozen")
	derived.Freeze()
	derived.ComputeOverrides(ctx)

	overridden := get.Overridden()
	require.Len(t, overridden, 1)
	assert.Same(t, baseGet, overridden[0].Member)
	assert.True(t, Equal(MakeNominal(base, StringType()), overridden[0].From))
	assert.True(t, Equal(fn(StringType()), overridden[0].Type), "got %s", overridden[0].Type)

	require.Len(t, size.Overridden(), 1)
	assert.Same(t, baseSize, size.Overridden()[0].Member)
	assert.Empty(t, getter.Overridden())
	assert.Empty(t, own.Overridden())
}
