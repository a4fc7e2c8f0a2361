package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairShape() *TypeShape {
	pair := NewTypeShape("Pair", false)
	pair.AddFormal(NewTypeFormal("A", Covariant))
	pair.AddFormal(NewTypeFormal("B", Covariant))
	pair.Freeze()
	return pair
}

func TestPartWalkerKeepsCellSharing(t *testing.T) {
	pair := pairShape()
	cell := NewInfiniBinding()
	original := MakeNominal(pair, cell, cell)

	mapped, ok := NewPartWalker(IdentityMapper{}).MapStaticType(original).(NominalType)
	require.True(t, ok)

	first, ok := mapped.Binding(0).(*InfiniBinding)
	require.True(t, ok)
	assert.Same(t, first, mapped.Binding(1))
	assert.NotSame(t, cell, first)
	assert.False(t, first.IsSet())
}

func TestPartWalkerMapsRecursiveCells(t *testing.T) {
	node, _ := genericShape("Node", false, Covariant)
	node.Freeze()
	cell := NewInfiniBinding()
	original := MakeNominal(node, cell)
	require.NoError(t, cell.Set(original))

	mapped, ok := NewPartWalker(IdentityMapper{}).MapStaticType(original).(NominalType)
	require.True(t, ok)
	fresh, ok := mapped.Binding(0).(*InfiniBinding)
	require.True(t, ok)
	require.NotSame(t, cell, fresh)

	inner, ok := fresh.Get(nil).(NominalType)
	require.True(t, ok)
	assert.Same(t, fresh, inner.Binding(0))
}

type renameDog struct {
	IdentityMapper
	from, to NominalType
}

func (m renameDog) MapType(t StaticType) StaticType {
	if Equal(t, m.from) {
		return m.to
	}
	return t
}

func TestPartWalkerIsBottomUp(t *testing.T) {
	z := newZoo()
	mapper := renameDog{from: z.Dog(), to: z.Cat()}
	input := fn(ListOf(MakeUnion(z.Dog(), Bubble)), MakeIntersection(z.Dog(), z.Pet()))

	mapped := NewPartWalker(mapper).MapStaticType(input)
	expected := fn(ListOf(MakeUnion(z.Cat(), Bubble)), MakeIntersection(z.Cat(), z.Pet()))
	assert.True(t, Equal(expected, mapped), "got %s", mapped)
}

func TestSubstituteBindings(t *testing.T) {
	z := newZoo()
	unbounded := NewTypeFormal("T", Invariant)
	bounded := NewTypeFormal("D", Invariant, z.Dog())
	unset := NewInfiniBinding()

	testCases := []struct {
		name     string
		input    StaticType
		bindings map[*TypeFormal]TypeActual
		expected StaticType
	}{{
		name:     "formal in a binding",
		input:    ListOf(unbounded.Ref()),
		bindings: map[*TypeFormal]TypeActual{unbounded: z.Dog()},
		expected: ListOf(z.Dog()),
	}, {
		name:     "wildcard stays a binding",
		input:    ListOf(unbounded.Ref()),
		bindings: map[*TypeFormal]TypeActual{unbounded: Wildcard},
		expected: ListOf(Wildcard),
	}, {
		name:     "wildcard in a type position is the upper bound",
		input:    fn(bounded.Ref()),
		bindings: map[*TypeFormal]TypeActual{bounded: Wildcard},
		expected: fn(z.Dog()),
	}, {
		name:     "unbounded wildcard widens to AnyValue",
		input:    MakeUnion(unbounded.Ref(), Bubble),
		bindings: map[*TypeFormal]TypeActual{unbounded: Wildcard},
		expected: Top,
	}, {
		name:     "unset cell in a type position is the upper bound",
		input:    fn(IntType(), bounded.Ref()),
		bindings: map[*TypeFormal]TypeActual{bounded: unset},
		expected: fn(IntType(), z.Dog()),
	}, {
		name:     "unrelated formals are left alone",
		input:    ListOf(bounded.Ref()),
		bindings: map[*TypeFormal]TypeActual{unbounded: z.Cat()},
		expected: ListOf(bounded.Ref()),
	}}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := SubstituteBindings(testCase.input, testCase.bindings)
			assert.True(t, Equal(testCase.expected, result), "expected %s, got %s", testCase.expected, result)
		})
	}
}
