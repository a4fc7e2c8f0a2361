package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeUnion(t *testing.T) {
	z := newZoo()
	testCases := []struct {
		name     string
		members  []StaticType
		expected StaticType
	}{{
		name:     "empty union is Never",
		members:  nil,
		expected: Never,
	}, {
		name:     "single member",
		members:  []StaticType{z.Dog()},
		expected: z.Dog(),
	}, {
		name:     "nested unions are flattened",
		members:  []StaticType{MakeUnion(z.Dog(), z.Cat()), z.Pet()},
		expected: MakeUnion(z.Dog(), z.Cat(), z.Pet()),
	}, {
		name:     "Never is dropped",
		members:  []StaticType{z.Dog(), Never},
		expected: z.Dog(),
	}, {
		name:     "Top absorbs",
		members:  []StaticType{z.Dog(), Top, z.Cat()},
		expected: Top,
	}, {
		name:     "Bubble and AnyValue is Top",
		members:  []StaticType{Bubble, AnyValueType()},
		expected: Top,
	}, {
		name:     "duplicates are removed",
		members:  []StaticType{z.Dog(), z.Cat(), z.Dog()},
		expected: MakeUnion(z.Dog(), z.Cat()),
	}}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := MakeUnion(testCase.members...)
			assert.True(t, Equal(testCase.expected, result), "expected %s, got %s", testCase.expected, result)
		})
	}
}

func TestMakeUnionIsIdempotent(t *testing.T) {
	z := newZoo()
	nested := MakeUnion(MakeUnion(z.Dog(), z.Cat()), z.Pet())
	flat := MakeUnion(z.Dog(), z.Cat(), z.Pet())
	assert.True(t, Equal(nested, flat))
	assert.Equal(t, flat.Hash(), nested.Hash())
	assert.Len(t, flat.(OrType).Members(), 3)
}

func TestMakeIntersection(t *testing.T) {
	z := newZoo()
	dogOrBubble := MakeUnion(z.Dog(), Bubble)
	catOrBubble := MakeUnion(z.Cat(), Bubble)
	testCases := []struct {
		name     string
		members  []StaticType
		expected StaticType
	}{{
		name:     "empty intersection is Top",
		members:  nil,
		expected: Top,
	}, {
		name:     "Top is the identity",
		members:  []StaticType{Top, z.Dog()},
		expected: z.Dog(),
	}, {
		name:     "Never absorbs",
		members:  []StaticType{z.Dog(), Never},
		expected: Never,
	}, {
		name:     "nested intersections are flattened",
		members:  []StaticType{MakeIntersection(z.Pet(), z.Dog()), z.Cat()},
		expected: MakeIntersection(z.Pet(), z.Dog(), z.Cat()),
	}, {
		name:     "AnyValue subtracts Bubble",
		members:  []StaticType{dogOrBubble, AnyValueType()},
		expected: z.Dog(),
	}, {
		name:     "AnyValue subtracts Bubble from every qualifying member",
		members:  []StaticType{dogOrBubble, AnyValueType(), z.Pet()},
		expected: MakeIntersection(z.Dog(), z.Pet()),
	}, {
		name:     "AnyValue subtraction with several unions",
		members:  []StaticType{dogOrBubble, catOrBubble, AnyValueType()},
		expected: MakeIntersection(z.Dog(), z.Cat()),
	}, {
		name:     "AnyValue is redundant next to a nominal type",
		members:  []StaticType{AnyValueType(), z.Dog()},
		expected: z.Dog(),
	}, {
		name:     "AnyValue is redundant next to a function type",
		members:  []StaticType{fn(IntType()), AnyValueType()},
		expected: fn(IntType()),
	}, {
		name:     "AnyValue is kept next to Null",
		members:  []StaticType{AnyValueType(), NullType()},
		expected: AndType{members: []StaticType{AnyValueType(), NullType()}},
	}, {
		name:     "Bubble and a nominal type are disjoint",
		members:  []StaticType{Bubble, z.Dog()},
		expected: Never,
	}}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := MakeIntersection(testCase.members...)
			assert.True(t, Equal(testCase.expected, result), "expected %s, got %s", testCase.expected, result)
		})
	}
}

func TestMakeNominalFailures(t *testing.T) {
	_, err := Guard(func() NominalType { return MakeNominal(nil) })
	assert.Error(t, err)

	_, err = Guard(func() NominalType { return MakeNominal(WellKnown().List, nil) })
	assert.Error(t, err)
	var failure *Failure
	assert.ErrorAs(t, err, &failure)
}

func TestMakeFunctionWithoutReturnType(t *testing.T) {
	_, err := Guard(func() FunctionType { return MakeFunction(nil, nil, nil, nil) })
	assert.ErrorContains(t, err, "function type without return type")
}

func TestTypeStrings(t *testing.T) {
	z := newZoo()
	testCases := []struct {
		t        StaticType
		expected string
	}{
		{Never, "Never"},
		{Top, "Top"},
		{ListOf(z.Dog()), "List<Dog>"},
		{MakeUnion(z.Dog(), z.Cat()), "Dog | Cat"},
		{MakeIntersection(MakeUnion(z.Dog(), z.Cat()), z.Pet()), "(Dog | Cat) & Pet"},
		{fn(MakeUnion(z.Dog(), Bubble), IntType()), "fn(Int): (Dog | Bubble)"},
		{MakeFunction(nil, []ValueFormal{{Type: IntType(), Optional: true}}, StringType(), BooleanType()), "fn(?Int, ...String): Boolean"},
		{ListOf(Wildcard), "List<*>"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.expected, func(t *testing.T) {
			assert.Equal(t, testCase.expected, testCase.t.String())
		})
	}
}

func TestEqualFunctionsComparesTypeFormalsByPosition(t *testing.T) {
	a := NewTypeFormal("A", Invariant)
	b := NewTypeFormal("B", Invariant)
	identityA := MakeFunction([]*TypeFormal{a}, []ValueFormal{{Name: "x", Type: a.Ref()}}, nil, a.Ref())
	identityB := MakeFunction([]*TypeFormal{b}, []ValueFormal{{Name: "y", Type: b.Ref()}}, nil, b.Ref())

	assert.True(t, Equal(identityA, identityB))
	assert.Equal(t, identityA.Hash(), identityB.Hash())

	constant := MakeFunction([]*TypeFormal{a}, []ValueFormal{{Type: a.Ref()}}, nil, IntType())
	assert.False(t, Equal(identityA, constant))
}

func TestEqualUnionsIgnoresOrder(t *testing.T) {
	z := newZoo()
	dogOrCat := MakeUnion(z.Dog(), z.Cat())
	catOrDog := MakeUnion(z.Cat(), z.Dog())
	assert.True(t, Equal(dogOrCat, catOrDog))
	assert.Equal(t, dogOrCat.Hash(), catOrDog.Hash())
	assert.False(t, Equal(dogOrCat, MakeIntersection(z.Dog(), z.Cat())))
}
