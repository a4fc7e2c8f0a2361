package typeexpr

import (
	"testing"

	"github.com/cottand/lattice/frontend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScope() (MapScope, *types.TypeShape, *types.TypeShape) {
	animal := types.NewTypeShape("Animal", true)
	dog := types.NewTypeShape("Dog", false)
	dog.AddSuperType(types.MakeNominal(animal))
	animal.Freeze()
	dog.Freeze()
	return MapScope{"Animal": animal, "Dog": dog}, animal, dog
}

func TestParse(t *testing.T) {
	scope, animal, dog := testScope()
	dogType := types.MakeNominal(dog)
	testCases := []struct {
		src      string
		expected types.StaticType
	}{
		{"Top", types.Top},
		{"Never", types.Never},
		{"Bubble", types.Bubble},
		{"Invalid", types.Invalid},
		{"Dog", dogType},
		{"List<Dog>", types.ListOf(dogType)},
		{"List<*>", types.ListOf(types.Wildcard)},
		{"List<List<Int>>", types.ListOf(types.ListOf(types.IntType()))},
		{"Dog | Bubble", types.MakeUnion(dogType, types.Bubble)},
		{"Dog | Animal & Int", types.MakeUnion(dogType, types.MakeIntersection(types.MakeNominal(animal), types.IntType()))},
		{"(Dog | Bubble) & AnyValue", dogType},
		{"fn(): Int", types.MakeFunction(nil, nil, nil, types.IntType())},
		{"fn(Dog, ?Int, ...String): (Dog | Bubble)", types.MakeFunction(nil,
			[]types.ValueFormal{{Type: dogType}, {Type: types.IntType(), Optional: true}},
			types.StringType(),
			types.MakeUnion(dogType, types.Bubble))},
	}
	for _, testCase := range testCases {
		t.Run(testCase.src, func(t *testing.T) {
			result, err := Parse(testCase.src, scope)
			require.NoError(t, err)
			assert.True(t, types.Equal(testCase.expected, result), "expected %s, got %s", testCase.expected, result)
		})
	}
}

func TestParseGenericFunction(t *testing.T) {
	comparable := types.NewTypeShape("Comparable", true)
	comparable.AddFormal(types.NewTypeFormal("T", types.Contravariant))
	comparable.Freeze()
	scope := MapScope{"Comparable": comparable}

	greatest, err := ParseFunction("fn<T: Comparable<T>>(T, T): T", scope)
	require.NoError(t, err)
	formals := greatest.TypeFormals()
	require.Len(t, formals, 1)
	bounds := formals[0].SuperTypes()
	require.Len(t, bounds, 1)
	assert.True(t, types.Equal(types.MakeNominal(comparable, formals[0].Ref()), bounds[0]))
	assert.True(t, types.Equal(formals[0].Ref(), greatest.ReturnType()))

	renamed, err := ParseFunction("fn<U: Comparable<U>>(U, U): U", scope)
	require.NoError(t, err)
	assert.True(t, types.Equal(greatest, renamed))

	variant, err := ParseFunction("fn<out T, in R>(R): T", scope)
	require.NoError(t, err)
	assert.Equal(t, types.Covariant, variant.TypeFormals()[0].Variance())
	assert.Equal(t, types.Contravariant, variant.TypeFormals()[1].Variance())
}

func TestParseErrors(t *testing.T) {
	scope, _, _ := testScope()
	testCases := []struct {
		src    string
		column int
		msg    string
	}{
		{"Cat", 1, "unknown type Cat"},
		{"Dog |", 6, "expected a type"},
		{"List<Dog", 9, "expected \">\""},
		{"List<Dog, Dog>", 1, "List expects 1 type arguments, found 2"},
		{"Dog<Int>", 1, "Dog expects 0 type arguments, found 1"},
		{"*", 1, "only allowed as a type argument"},
		{"Dog | *", 7, "only allowed as a type argument"},
		{"fn(Int)", 8, "expected \":\""},
		{"fn<T: (Int | String)>(): T", 7, "bound of T must be a nominal type"},
		{"Dog Dog", 5, "expected EOF"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.src, func(t *testing.T) {
			_, err := Parse(testCase.src, scope)
			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, testCase.column, syntaxErr.Column)
			assert.Contains(t, syntaxErr.Msg, testCase.msg)
		})
	}
}

func TestParseRoundTrips(t *testing.T) {
	scope, animal, dog := testScope()
	formal := types.NewTypeFormal("E", types.Covariant, types.MakeNominal(animal))
	identity := types.MakeFunction([]*types.TypeFormal{formal}, []types.ValueFormal{{Type: formal.Ref()}}, nil, formal.Ref())
	testCases := []types.StaticType{
		types.MakeUnion(types.MakeNominal(dog), types.NullType(), types.Bubble),
		types.MakeIntersection(types.MakeUnion(types.MakeNominal(dog), types.IntType()), types.MakeNominal(animal)),
		types.ListOf(types.MakeUnion(types.ListOf(types.Wildcard), types.StringType())),
		types.MakeFunction(nil, []types.ValueFormal{{Type: types.MakeUnion(types.IntType(), types.StringType()), Optional: true}}, types.MakeNominal(dog), types.MakeUnion(types.IntType(), types.Bubble)),
		identity,
	}
	for _, typ := range testCases {
		t.Run(Format(typ), func(t *testing.T) {
			parsed, err := Parse(Format(typ), scope)
			require.NoError(t, err)
			assert.True(t, types.Equal(typ, parsed), "expected %s, got %s", typ, parsed)
		})
	}
}
