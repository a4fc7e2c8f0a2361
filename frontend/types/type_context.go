package types

import (
	"github.com/cottand/lattice/internal/log"
	"github.com/hashicorp/go-set/v3"
	"log/slog"
)

var logger = log.DefaultLogger.With("section", "types")

// TypeContext holds the memoization caches of the decision procedures:
// subtyping, lub, glb and least common super types.
//
// A TypeContext is not safe for concurrent use
type TypeContext struct {
	boundSets  map[uint64][]boundSetsEntry
	superTrees map[uint64][]*SuperTypeTree

	// inFlight and bindingsInFlight are the recursion guards of IsSubType.
	// They are only populated while a check is running
	inFlight         *set.HashSet[typePair, uint64]
	bindingsInFlight *set.HashSet[bindingCheck, uint64]

	functionalFallback bool
	logger             *slog.Logger
}

type ContextOption func(*TypeContext)

func WithLogger(logger *slog.Logger) ContextOption {
	return func(ctx *TypeContext) { ctx.logger = logger }
}

// WithoutFunctionalInterfaceFallback disables the equivalence between
// functional interfaces and function types with the same signature
func WithoutFunctionalInterfaceFallback() ContextOption {
	return func(ctx *TypeContext) { ctx.functionalFallback = false }
}

func NewTypeContext(opts ...ContextOption) *TypeContext {
	ctx := &TypeContext{
		boundSets:          make(map[uint64][]boundSetsEntry),
		superTrees:         make(map[uint64][]*SuperTypeTree),
		inFlight:           set.NewHashSet[typePair, uint64](8),
		bindingsInFlight:   set.NewHashSet[bindingCheck, uint64](8),
		functionalFallback: true,
		logger:             logger,
	}
	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

type typePair struct {
	sub, super StaticType
}

func (p typePair) Hash() uint64 {
	return mixHash(p.sub.Hash(), p.super.Hash())
}

type bindingCheck struct {
	sub, super TypeActual
	index      int
	definition TypeDefinition
}

func (c bindingCheck) Hash() uint64 {
	return mixHash(c.sub.Hash(), c.super.Hash(), uint64(c.index), c.definition.definitionID())
}

// SuperTypeTree returns the memoized super type tree of t
func (ctx *TypeContext) SuperTypeTree(t NominalType) *SuperTypeTree {
	hash := t.Hash()
	trees := ctx.superTrees[hash]
	for i, tree := range trees {
		if Equal(*tree.root, t) {
			if !tree.stale() {
				return tree
			}
			trees = append(trees[:i], trees[i+1:]...)
			break
		}
	}
	tree := SuperTypeTreeOf(t)
	ctx.superTrees[hash] = append(trees, tree)
	return tree
}

// IsEquivalent is true when t and u are sub types of each other
func (ctx *TypeContext) IsEquivalent(t, u StaticType) bool {
	return Equal(t, u) || ctx.IsSubType(t, u) && ctx.IsSubType(u, t)
}
