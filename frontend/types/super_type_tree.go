package types

import (
	"github.com/hashicorp/go-set/v3"
	"iter"
	"slices"
)

// maxInstantiationsPerDefinition bounds expansive hierarchies like Foo<T> extends Foo<List<T>>,
// which would otherwise produce new instantiations forever
const maxInstantiationsPerDefinition = 64

// SuperTypeTree is the transitive closure of the super types of a nominal type,
// with generic bindings substituted along every inheritance edge.
//
// A definition reachable through several paths with different bindings keeps all of its instantiations
type SuperTypeTree struct {
	// root is nil for a tree built with FlatSuperTypeTree
	root         *NominalType
	definitions  []TypeDefinition
	byDefinition map[TypeDefinition][]NominalType
	// direct maps the hash of an instantiation to its direct super types
	direct map[uint64][]NominalType
	order  []NominalType
	stamps []definitionStamp
}

// SuperTypeTreeOf computes the super type tree of t breadth-first.
// The tree includes t itself
func SuperTypeTreeOf(t NominalType) *SuperTypeTree {
	tree := newSuperTypeTree()
	tree.root = &t
	visited := set.NewHashSet[NominalType, uint64](8)
	visited.Insert(t)
	stamped := set.New[uint64](8)
	queue := []NominalType{t}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if stamped.Insert(current.definition.definitionID()) {
			tree.stamps = append(tree.stamps, stampOf(current.definition))
		}
		if !tree.add(current) {
			logger.Warn("expansive inheritance, truncating super type tree", "root", t, "definition", current.definition)
			continue
		}
		supers := directSuperTypes(current)
		tree.direct[current.Hash()] = supers
		for _, super := range supers {
			if visited.Insert(super) {
				queue = append(queue, super)
			}
		}
	}
	return tree
}

// FlatSuperTypeTree indexes types by definition without traversing their super types.
// It answers "which of these types names this definition"
func FlatSuperTypeTree(types iter.Seq[NominalType]) *SuperTypeTree {
	tree := newSuperTypeTree()
	for t := range types {
		tree.add(t)
	}
	return tree
}

func newSuperTypeTree() *SuperTypeTree {
	return &SuperTypeTree{
		byDefinition: make(map[TypeDefinition][]NominalType),
		direct:       make(map[uint64][]NominalType),
	}
}

// add records t under its definition, unless an equal instantiation is present.
// It returns false when the definition already has too many instantiations
func (tree *SuperTypeTree) add(t NominalType) bool {
	existing, ok := tree.byDefinition[t.definition]
	if !ok {
		tree.definitions = append(tree.definitions, t.definition)
	}
	if slices.ContainsFunc(existing, func(other NominalType) bool { return Equal(other, t) }) {
		return true
	}
	if len(existing) >= maxInstantiationsPerDefinition {
		return false
	}
	tree.byDefinition[t.definition] = append(existing, t)
	tree.order = append(tree.order, t)
	return true
}

// directSuperTypes are the super types of t's definition with t's bindings substituted
func directSuperTypes(t NominalType) []NominalType {
	declared := effectiveSuperTypes(t.definition)
	if len(declared) == 0 {
		return nil
	}
	bindings := bindingMap(t)
	supers := make([]NominalType, 0, len(declared))
	for _, super := range declared {
		supers = append(supers, substituteNominal(super, bindings))
	}
	return supers
}

// Root is the type the tree was computed for
func (tree *SuperTypeTree) Root() (NominalType, bool) {
	if tree.root == nil {
		return NominalType{}, false
	}
	return *tree.root, true
}

// Get returns the distinct instantiations of def in the tree
func (tree *SuperTypeTree) Get(def TypeDefinition) []NominalType {
	return slices.Clone(tree.byDefinition[def])
}

func (tree *SuperTypeTree) Contains(def TypeDefinition) bool {
	_, ok := tree.byDefinition[def]
	return ok
}

// Definitions returns every definition in the tree, in breadth-first order
func (tree *SuperTypeTree) Definitions() []TypeDefinition {
	return slices.Clone(tree.definitions)
}

// All yields every instantiation in the tree, in breadth-first order
func (tree *SuperTypeTree) All() iter.Seq[NominalType] {
	return slices.Values(tree.order)
}

// DirectSuperTypes returns the direct super types of an instantiation in a rooted tree
func (tree *SuperTypeTree) DirectSuperTypes(t NominalType) []NominalType {
	return slices.Clone(tree.direct[t.Hash()])
}

// stale is true when a definition the tree was computed from was mutated since
func (tree *SuperTypeTree) stale() bool {
	return staleStamps(tree.stamps)
}
