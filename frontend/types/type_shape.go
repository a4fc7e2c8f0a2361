package types

import (
	"github.com/benbjohnson/immutable"
	"github.com/hashicorp/go-set/v3"
	"slices"
)

// TypeShape is a declared class or interface.
//
// A TypeShape is built incrementally by the front end while it is unstable.
// Once its module completes type resolution, Freeze makes it immutable:
// any further mutation is a Failure.
//
// Derived data is cached against generations, which every mutation increments:
// the member index against the shape's own, the transitive super type names and the
// inheritance depth against those of every ancestor
type TypeShape struct {
	id         uint64
	name       string
	abstract   bool
	functional bool
	// root shapes do not get AnyValue as an implicit super type
	root bool

	superTypes []NominalType
	formals    []*TypeFormal
	members    []MemberShape
	// sealedSubTypes is only meaningful when sealed is true
	sealed         bool
	sealedSubTypes []NominalType

	generation uint64
	view       *ShapeView

	symbolIndex genCache[map[string][]MemberShape]
	superNames  stampedCache[*set.Set[string]]
	depth       stampedCache[int]
}

func NewTypeShape(name string, abstract bool) *TypeShape {
	return &TypeShape{
		id:       nextDefinitionID(),
		name:     name,
		abstract: abstract,
	}
}

func (*TypeShape) isTypeDefinition()      {}
func (s *TypeShape) definitionID() uint64 { return s.id }
func (s *TypeShape) Name() string         { return s.name }
func (s *TypeShape) String() string       { return s.name }
func (s *TypeShape) Abstract() bool       { return s.abstract }
func (s *TypeShape) Generation() uint64   { return s.generation }
func (s *TypeShape) IsFrozen() bool       { return s.view != nil }

// IsClosed is true for concrete shapes other than the roots of the lattice.
// No shape may extend a closed shape
func (s *TypeShape) IsClosed() bool { return !s.abstract && !s.root }

func (s *TypeShape) SuperTypes() []NominalType { return slices.Clone(s.superTypes) }
func (s *TypeShape) Formals() []*TypeFormal    { return slices.Clone(s.formals) }
func (s *TypeShape) Members() []MemberShape    { return slices.Clone(s.members) }

// IsFunctionalInterface is true for abstract shapes which stand for a single function signature,
// see FunctionalSignature
func (s *TypeShape) IsFunctionalInterface() bool { return s.functional }

// SealedSubTypes returns the exhaustive list of direct sub types of a sealed shape
func (s *TypeShape) SealedSubTypes() ([]NominalType, bool) {
	return slices.Clone(s.sealedSubTypes), s.sealed
}

// SelfType is the nominal type of s bound to its own formals
func (s *TypeShape) SelfType() NominalType {
	bindings := make([]TypeActual, 0, len(s.formals))
	for _, f := range s.formals {
		bindings = append(bindings, f.Ref())
	}
	return MakeNominal(s, bindings...)
}

func (s *TypeShape) mutate() {
	if s.view != nil {
		fail("cannot mutate %s: it is frozen", s.name)
	}
	s.generation++
}

func (s *TypeShape) SetFunctionalInterface(functional bool) {
	s.mutate()
	s.functional = functional
}

// AddSuperType declares a direct super type of s.
// Concrete shapes are closed, so super must name an abstract or root shape
func (s *TypeShape) AddSuperType(super NominalType) {
	s.mutate()
	shape, isShape := super.definition.(*TypeShape)
	if !isShape {
		fail("super type %s of %s must name a type shape", super, s.name)
	}
	if shape.IsClosed() {
		fail("super type %s of %s is a concrete shape", super, s.name)
	}
	s.superTypes = append(s.superTypes, super)
}

func (s *TypeShape) SetSealedSubTypes(subTypes ...NominalType) {
	s.mutate()
	s.sealed = true
	s.sealedSubTypes = slices.Clone(subTypes)
}

// AddFormal declares a type parameter of s, which is also a member of s
func (s *TypeShape) AddFormal(formal *TypeFormal) *TypeParameterShape {
	s.mutate()
	if formal.owner != nil {
		fail("formal %s already belongs to %s", formal.name, formal.owner.name)
	}
	formal.owner = s
	s.formals = append(s.formals, formal)
	member := &TypeParameterShape{
		memberBase: memberBase{symbol: formal.name, enclosing: s, visibility: Public},
		formal:     formal,
	}
	s.members = append(s.members, member)
	return member
}

func (s *TypeShape) AddProperty(decl PropertyDecl) *PropertyShape {
	s.mutate()
	if decl.Type == nil {
		fail("property %s.%s has no type", s.name, decl.Symbol)
	}
	member := &PropertyShape{
		memberBase: memberBase{symbol: decl.Symbol, enclosing: s, visibility: decl.Visibility},
		typ:        decl.Type,
		abstract:   decl.Abstract,
		getter:     decl.Getter,
		setter:     decl.Setter,
	}
	s.members = append(s.members, member)
	return member
}

func (s *TypeShape) AddMethod(decl MethodDecl) *MethodShape {
	s.mutate()
	if decl.Signature.returnType == nil {
		fail("method %s.%s must be built with MakeFunction", s.name, decl.Symbol)
	}
	member := &MethodShape{
		memberBase: memberBase{symbol: decl.Symbol, enclosing: s, visibility: decl.Visibility},
		kind:       decl.Kind,
		openness:   decl.Openness,
		abstract:   decl.Abstract,
		signature:  decl.Signature,
	}
	s.members = append(s.members, member)
	return member
}

func (s *TypeShape) AddStaticProperty(decl StaticPropertyDecl) *StaticPropertyShape {
	s.mutate()
	if decl.Type == nil {
		fail("static property %s.%s has no type", s.name, decl.Symbol)
	}
	member := &StaticPropertyShape{
		memberBase: memberBase{symbol: decl.Symbol, enclosing: s, visibility: decl.Visibility},
		typ:        decl.Type,
	}
	s.members = append(s.members, member)
	return member
}

// ShapeView is the stable, read-only view of a frozen TypeShape
type ShapeView struct {
	shape      *TypeShape
	members    *immutable.List[MemberShape]
	superTypes *immutable.List[NominalType]
	bySymbol   *immutable.Map[string, *immutable.List[MemberShape]]
}

// Freeze makes s immutable and returns its stable view.
// Freezing an already frozen shape returns the same view
func (s *TypeShape) Freeze() ShapeView {
	if s.view != nil {
		return *s.view
	}
	bySymbol := immutable.NewMap[string, *immutable.List[MemberShape]](immutable.NewHasher(""))
	for _, member := range s.members {
		named, ok := bySymbol.Get(member.Symbol())
		if !ok {
			named = immutable.NewList[MemberShape]()
		}
		bySymbol = bySymbol.Set(member.Symbol(), named.Append(member))
	}
	s.view = &ShapeView{
		shape:      s,
		members:    immutable.NewList(s.members...),
		superTypes: immutable.NewList(s.superTypes...),
		bySymbol:   bySymbol,
	}
	return *s.view
}

func (v ShapeView) Shape() *TypeShape                        { return v.shape }
func (v ShapeView) Members() *immutable.List[MemberShape]    { return v.members }
func (v ShapeView) SuperTypes() *immutable.List[NominalType] { return v.superTypes }

// MembersNamed returns the members of the shape declared with symbol, in declaration order
func (v ShapeView) MembersNamed(symbol string) *immutable.List[MemberShape] {
	named, ok := v.bySymbol.Get(symbol)
	if !ok {
		return immutable.NewList[MemberShape]()
	}
	return named
}

// ownMembersNamed returns the members declared by s itself with the given symbol
func (s *TypeShape) ownMembersNamed(symbol string) []MemberShape {
	index := s.symbolIndex.get(s.generation, func() map[string][]MemberShape {
		index := make(map[string][]MemberShape, len(s.members))
		for _, member := range s.members {
			index[member.Symbol()] = append(index[member.Symbol()], member)
		}
		return index
	})
	return index[symbol]
}

// MembersMatching resolves a dotted member access of symbol on s from within accessor
// (nil when the access does not happen within any type shape).
//
// The members of s are searched first and then its super types breadth-first:
// the first level with a member visible to accessor wins
func (s *TypeShape) MembersMatching(symbol string, accessor *TypeShape) []MemberShape {
	visited := set.New[uint64](4)
	visited.Insert(s.id)
	level := []*TypeShape{s}
	for len(level) > 0 {
		var found []MemberShape
		var next []*TypeShape
		for _, shape := range level {
			for _, member := range shape.ownMembersNamed(symbol) {
				if visibleFrom(member, accessor) {
					found = append(found, member)
				}
			}
			for _, super := range effectiveSuperTypes(shape) {
				superShape, ok := super.definition.(*TypeShape)
				if ok && visited.Insert(superShape.id) {
					next = append(next, superShape)
				}
			}
		}
		if len(found) > 0 {
			return found
		}
		level = next
	}
	return nil
}

func visibleFrom(member MemberShape, accessor *TypeShape) bool {
	switch member.Visibility() {
	case Private:
		return accessor == member.Enclosing()
	case Protected:
		return accessor != nil
	default:
		return true
	}
}

// TransitiveSuperTypeNames are the names of every definition s inherits from, excluding s
func (s *TypeShape) TransitiveSuperTypeNames() *set.Set[string] {
	return s.superNames.get(func() (*set.Set[string], []definitionStamp) {
		names := set.New[string](len(s.superTypes))
		stamps := walkAncestry(s, func(def TypeDefinition) {
			if def != TypeDefinition(s) {
				names.Insert(def.Name())
			}
		})
		return names, stamps
	})
}

// InheritanceDepth is 0 for shapes without super types,
// and one more than the deepest super type otherwise
func (s *TypeShape) InheritanceDepth() int {
	return s.depth.get(func() (int, []definitionStamp) {
		return inheritanceDepth(s, set.New[uint64](4)), walkAncestry(s, func(TypeDefinition) {})
	})
}

// walkAncestry visits def and every definition it inherits from once, breadth-first,
// and returns their stamps
func walkAncestry(def TypeDefinition, visit func(TypeDefinition)) []definitionStamp {
	visited := set.New[uint64](8)
	visited.Insert(def.definitionID())
	stamps := []definitionStamp{stampOf(def)}
	visit(def)
	pending := effectiveSuperTypes(def)
	for len(pending) > 0 {
		super := pending[0]
		pending = pending[1:]
		if !visited.Insert(super.definition.definitionID()) {
			continue
		}
		stamps = append(stamps, stampOf(super.definition))
		visit(super.definition)
		pending = append(pending, effectiveSuperTypes(super.definition)...)
	}
	return stamps
}

func inheritanceDepth(def TypeDefinition, visiting *set.Set[uint64]) int {
	if !visiting.Insert(def.definitionID()) {
		// cyclic hierarchies are reported by the front end
		return 0
	}
	defer visiting.Remove(def.definitionID())
	deepest := -1
	for _, super := range effectiveSuperTypes(def) {
		deepest = max(deepest, inheritanceDepth(super.definition, visiting))
	}
	return deepest + 1
}
