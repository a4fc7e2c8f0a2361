package types

import (
	"encoding/binary"
	"fmt"
	"github.com/cottand/lattice/util"
	"github.com/pkg/errors"
	"hash/fnv"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// TypeActual is anything that can be bound to a TypeFormal:
// a StaticType, the Wildcard or an *InfiniBinding
type TypeActual interface {
	fmt.Stringer
	// Hash is consistent with Equal: structurally equal actuals have the same hash
	Hash() uint64
	isTypeActual()
}

// StaticType is the type of an expression.
//
// The set of implementations is closed: TopType, BubbleType, InvalidType,
// NominalType, FunctionType, OrType and AndType.
// Compound types are only ever built through MakeUnion, MakeIntersection,
// MakeNominal and MakeFunction.
type StaticType interface {
	TypeActual
	isStaticType()
}

var (
	_ StaticType = TopType{}
	_ StaticType = BubbleType{}
	_ StaticType = InvalidType{}
	_ StaticType = NominalType{}
	_ StaticType = FunctionType{}
	_ StaticType = OrType{}
	_ StaticType = AndType{}

	_ TypeActual = WildcardType{}
	_ TypeActual = (*InfiniBinding)(nil)
)

// TopType is the super-type of everything, including Bubble
type TopType struct{}

// BubbleType is the type of computations which unwind with an error instead of producing a value.
// It is disjoint from every nominal and function type
type BubbleType struct{}

// InvalidType marks unrepresentable types. It is neither a sub- nor a super-type of anything,
// including itself: only Equal holds
type InvalidType struct{}

// WildcardType is a binding which satisfies any formal
type WildcardType struct{}

var (
	Top      = TopType{}
	Bubble   = BubbleType{}
	Invalid  = InvalidType{}
	Wildcard = WildcardType{}
	// Never is the empty union, the bottom of the lattice
	Never = OrType{}
)

func (TopType) isTypeActual()      {}
func (TopType) isStaticType()      {}
func (TopType) String() string     { return "Top" }
func (BubbleType) isTypeActual()   {}
func (BubbleType) isStaticType()   {}
func (BubbleType) String() string  { return "Bubble" }
func (InvalidType) isTypeActual()  {}
func (InvalidType) isStaticType()  {}
func (InvalidType) String() string { return "Invalid" }
func (WildcardType) isTypeActual() {}
func (WildcardType) String() string {
	return "*"
}

// NominalType is a TypeDefinition and the bindings for its formals.
// A NominalType whose definition is a *TypeFormal and which has no bindings
// is a reference to that formal.
//
// Construct with MakeNominal
type NominalType struct {
	definition TypeDefinition
	bindings   []TypeActual
}

func (NominalType) isTypeActual() {}
func (NominalType) isStaticType() {}

func (t NominalType) Definition() TypeDefinition { return t.definition }

// Bindings returns a copy of the bindings of t
func (t NominalType) Bindings() []TypeActual { return slices.Clone(t.bindings) }

func (t NominalType) Binding(i int) TypeActual { return t.bindings[i] }
func (t NominalType) Arity() int               { return len(t.bindings) }

func (t NominalType) String() string {
	if t.definition == nil {
		return "<nil>"
	}
	if len(t.bindings) == 0 {
		return t.definition.Name()
	}
	return t.definition.Name() + "<" + util.JoinString(t.bindings, ", ") + ">"
}

// formalRef returns the formal t refers to, if t is a bare reference to a TypeFormal
func formalRef(t TypeActual) (*TypeFormal, bool) {
	n, ok := t.(NominalType)
	if !ok || len(n.bindings) != 0 {
		return nil, false
	}
	f, ok := n.definition.(*TypeFormal)
	return f, ok
}

// ValueFormal is a positional parameter of a FunctionType.
// Its Name is informational and does not take part in equality
type ValueFormal struct {
	Name     string
	Type     StaticType
	Optional bool
}

func (f ValueFormal) String() string {
	if f.Optional {
		return "?" + typeString(f.Type, precedencePrimary)
	}
	return f.Type.String()
}

// FunctionType is (typeFormals, valueFormals, restValues, returnType).
// Type formals are compared by position, so fn<A>(A): A equals fn<B>(B): B.
//
// Construct with MakeFunction
type FunctionType struct {
	typeFormals  []*TypeFormal
	valueFormals []ValueFormal
	// restValues is nil when there is no rest formal
	restValues StaticType
	returnType StaticType
}

func (FunctionType) isTypeActual() {}
func (FunctionType) isStaticType() {}

func (t FunctionType) TypeFormals() []*TypeFormal     { return slices.Clone(t.typeFormals) }
func (t FunctionType) ValueFormals() []ValueFormal    { return slices.Clone(t.valueFormals) }
func (t FunctionType) RestValues() (StaticType, bool) { return t.restValues, t.restValues != nil }
func (t FunctionType) ReturnType() StaticType         { return t.returnType }

func (t FunctionType) String() string {
	sb := strings.Builder{}
	sb.WriteString("fn")
	if len(t.typeFormals) > 0 {
		sb.WriteString("<")
		for i, f := range t.typeFormals {
			if i != 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.declarationString())
		}
		sb.WriteString(">")
	}
	sb.WriteString("(")
	sb.WriteString(util.JoinString(t.valueFormals, ", "))
	if t.restValues != nil {
		if len(t.valueFormals) > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("...")
		sb.WriteString(typeString(t.restValues, precedencePrimary))
	}
	sb.WriteString("): ")
	sb.WriteString(typeString(t.returnType, precedencePrimary))
	return sb.String()
}

// OrType is a union of two or more mutually non-redundant members,
// or, with zero members, the bottom type Never.
//
// Construct with MakeUnion
type OrType struct {
	members []StaticType
}

func (OrType) isTypeActual()           {}
func (OrType) isStaticType()           {}
func (t OrType) Members() []StaticType { return slices.Clone(t.members) }
func (t OrType) String() string {
	if len(t.members) == 0 {
		return "Never"
	}
	parts := make([]string, 0, len(t.members))
	for _, member := range t.members {
		parts = append(parts, typeString(member, precedenceAnd))
	}
	return strings.Join(parts, " | ")
}

// AndType is an intersection of two or more members.
//
// Construct with MakeIntersection
type AndType struct {
	members []StaticType
}

func (AndType) isTypeActual()           {}
func (AndType) isStaticType()           {}
func (t AndType) Members() []StaticType { return slices.Clone(t.members) }
func (t AndType) String() string {
	parts := make([]string, 0, len(t.members))
	for _, member := range t.members {
		parts = append(parts, typeString(member, precedencePrimary))
	}
	return strings.Join(parts, " & ")
}

const (
	precedenceOr = iota
	precedenceAnd
	precedencePrimary
)

// typeString parenthesises t when it binds looser than the given context
func typeString(t StaticType, context int) string {
	var own int
	switch t := t.(type) {
	case OrType:
		if len(t.members) == 0 {
			return t.String()
		}
		own = precedenceOr
	case AndType:
		own = precedenceAnd
	default:
		return t.String()
	}
	if own < context {
		return "(" + t.String() + ")"
	}
	return t.String()
}

func isBottom(t TypeActual) bool {
	or, ok := t.(OrType)
	return ok && len(or.members) == 0
}

func isTop(t TypeActual) bool {
	_, ok := t.(TopType)
	return ok
}

func isBubble(t TypeActual) bool {
	_, ok := t.(BubbleType)
	return ok
}

func isInvalid(t TypeActual) bool {
	_, ok := t.(InvalidType)
	return ok
}

// isValueType is true for nominal and function types
func isValueType(t StaticType) bool {
	switch t.(type) {
	case NominalType, FunctionType:
		return true
	}
	return false
}

// Equal is structural equality: nominal types are equal when their definitions are the same
// and their bindings are Equal, function types compare type formals by position,
// and unions and intersections compare their members as sets.
// InfiniBinding cells are only equal to themselves.
func Equal(this, that TypeActual) bool {
	return equalIn(this, that, nil, nil)
}

// formalEnv maps the type formals of enclosing function types to their position
type formalEnv map[*TypeFormal]int

func (e formalEnv) extend(formals []*TypeFormal) formalEnv {
	if len(formals) == 0 {
		return e
	}
	extended := make(formalEnv, len(e)+len(formals))
	maps.Copy(extended, e)
	base := len(e)
	for i, f := range formals {
		extended[f] = base + i
	}
	return extended
}

func equalIn(this, that TypeActual, thisEnv, thatEnv formalEnv) bool {
	switch this := this.(type) {
	case TopType:
		_, ok := that.(TopType)
		return ok
	case BubbleType:
		_, ok := that.(BubbleType)
		return ok
	case InvalidType:
		_, ok := that.(InvalidType)
		return ok
	case WildcardType:
		_, ok := that.(WildcardType)
		return ok
	case *InfiniBinding:
		that, ok := that.(*InfiniBinding)
		return ok && this == that
	case NominalType:
		that, ok := that.(NominalType)
		if !ok {
			return false
		}
		thisFormal, okThis := this.definition.(*TypeFormal)
		thatFormal, okThat := that.definition.(*TypeFormal)
		if okThis && okThat {
			thisPos, inThis := thisEnv[thisFormal]
			thatPos, inThat := thatEnv[thatFormal]
			if inThis || inThat {
				return inThis && inThat && thisPos == thatPos
			}
		}
		if this.definition != that.definition || len(this.bindings) != len(that.bindings) {
			return false
		}
		for i, b := range this.bindings {
			if !equalIn(b, that.bindings[i], thisEnv, thatEnv) {
				return false
			}
		}
		return true
	case FunctionType:
		that, ok := that.(FunctionType)
		if !ok {
			return false
		}
		if len(this.typeFormals) != len(that.typeFormals) ||
			len(this.valueFormals) != len(that.valueFormals) ||
			(this.restValues == nil) != (that.restValues == nil) {
			return false
		}
		thisEnv, thatEnv = thisEnv.extend(this.typeFormals), thatEnv.extend(that.typeFormals)
		for i, f := range this.typeFormals {
			other := that.typeFormals[i]
			if f.variance != other.variance || len(f.upperBounds) != len(other.upperBounds) {
				return false
			}
			for j, bound := range f.upperBounds {
				if !equalIn(bound, other.upperBounds[j], thisEnv, thatEnv) {
					return false
				}
			}
		}
		for i, f := range this.valueFormals {
			other := that.valueFormals[i]
			if f.Optional != other.Optional || !equalIn(f.Type, other.Type, thisEnv, thatEnv) {
				return false
			}
		}
		if this.restValues != nil && !equalIn(this.restValues, that.restValues, thisEnv, thatEnv) {
			return false
		}
		return equalIn(this.returnType, that.returnType, thisEnv, thatEnv)
	case OrType:
		that, ok := that.(OrType)
		return ok && sameMembers(this.members, that.members, thisEnv, thatEnv)
	case AndType:
		that, ok := that.(AndType)
		return ok && sameMembers(this.members, that.members, thisEnv, thatEnv)
	}
	fail("Equal: unexpected type actual %T", this)
	return false
}

// sameMembers compares duplicate-free member lists as sets
func sameMembers(these, those []StaticType, thisEnv, thatEnv formalEnv) bool {
	if len(these) != len(those) {
		return false
	}
	for _, member := range these {
		found := slices.ContainsFunc(those, func(other StaticType) bool {
			return equalIn(member, other, thisEnv, thatEnv)
		})
		if !found {
			return false
		}
	}
	return true
}

const (
	hashTop uint64 = iota + 1
	hashBubble
	hashInvalid
	hashWildcard
	hashNominal
	hashFormalPosition
	hashFunction
	hashOr
	hashAnd
	hashInfini
	hashAbsent
)

func mixHash(parts ...uint64) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, part := range parts {
		binary.LittleEndian.PutUint64(buf[:], part)
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

func hashIn(t TypeActual, env formalEnv) uint64 {
	switch t := t.(type) {
	case TopType:
		return mixHash(hashTop)
	case BubbleType:
		return mixHash(hashBubble)
	case InvalidType:
		return mixHash(hashInvalid)
	case WildcardType:
		return mixHash(hashWildcard)
	case *InfiniBinding:
		return mixHash(hashInfini, t.id)
	case NominalType:
		if f, ok := t.definition.(*TypeFormal); ok {
			if pos, ok := env[f]; ok {
				return mixHash(hashFormalPosition, uint64(pos))
			}
		}
		parts := make([]uint64, 0, len(t.bindings)+2)
		parts = append(parts, hashNominal, t.definition.definitionID())
		for _, b := range t.bindings {
			parts = append(parts, hashIn(b, env))
		}
		return mixHash(parts...)
	case FunctionType:
		env = env.extend(t.typeFormals)
		parts := []uint64{hashFunction, uint64(len(t.typeFormals)), uint64(len(t.valueFormals))}
		for _, f := range t.typeFormals {
			parts = append(parts, uint64(f.variance))
			for _, bound := range f.upperBounds {
				parts = append(parts, hashIn(bound, env))
			}
		}
		for _, f := range t.valueFormals {
			optional := uint64(0)
			if f.Optional {
				optional = 1
			}
			parts = append(parts, optional, hashIn(f.Type, env))
		}
		if t.restValues != nil {
			parts = append(parts, hashIn(t.restValues, env))
		} else {
			parts = append(parts, hashAbsent)
		}
		return mixHash(append(parts, hashIn(t.returnType, env))...)
	case OrType:
		return mixHash(append([]uint64{hashOr}, sortedHashes(t.members, env)...)...)
	case AndType:
		return mixHash(append([]uint64{hashAnd}, sortedHashes(t.members, env)...)...)
	}
	fail("Hash: unexpected type actual %T", t)
	return 0
}

func sortedHashes(members []StaticType, env formalEnv) []uint64 {
	hashes := make([]uint64, 0, len(members))
	for _, m := range members {
		hashes = append(hashes, hashIn(m, env))
	}
	slices.Sort(hashes)
	return hashes
}

func (t TopType) Hash() uint64        { return hashIn(t, nil) }
func (t BubbleType) Hash() uint64     { return hashIn(t, nil) }
func (t InvalidType) Hash() uint64    { return hashIn(t, nil) }
func (t WildcardType) Hash() uint64   { return hashIn(t, nil) }
func (t NominalType) Hash() uint64    { return hashIn(t, nil) }
func (t FunctionType) Hash() uint64   { return hashIn(t, nil) }
func (t OrType) Hash() uint64         { return hashIn(t, nil) }
func (t AndType) Hash() uint64        { return hashIn(t, nil) }
func (b *InfiniBinding) Hash() uint64 { return hashIn(b, nil) }

// InfiniBinding is a single-assignment cell standing in for a binding which is not known yet.
// It allows building self-referential types such as Node<cell> where cell is later set to Node<cell>.
//
// InfiniBinding values are shared by reference and compared by identity
type InfiniBinding struct {
	id    uint64
	value TypeActual
}

func NewInfiniBinding() *InfiniBinding {
	return &InfiniBinding{id: nextDefinitionID()}
}

func (*InfiniBinding) isTypeActual() {}

func (b *InfiniBinding) String() string {
	if b.value == nil {
		return "?" + strconv.FormatUint(b.id, 10)
	}
	return "rec" + strconv.FormatUint(b.id, 10)
}

func (b *InfiniBinding) IsSet() bool { return b.value != nil }

// Set binds b to value. It is an assertion failure to set b twice.
// A value which is a chain of InfiniBinding leading back to b is rejected with ErrBindingCycle
func (b *InfiniBinding) Set(value TypeActual) error {
	if value == nil {
		fail("cannot set %s to nil", b)
	}
	if b.value != nil {
		fail("InfiniBinding %s was already set to %s", b, b.value)
	}
	for cur, ok := value.(*InfiniBinding); ok; cur, ok = cur.value.(*InfiniBinding) {
		if cur == b {
			return errors.Wrapf(ErrBindingCycle, "setting %s to %s", b, value)
		}
		if cur.value == nil {
			break
		}
	}
	b.value = value
	return nil
}

// Get follows the chain of cells starting at b and returns the first
// binding which is not an InfiniBinding, or fallback if the chain ends in an unset cell
func (b *InfiniBinding) Get(fallback TypeActual) TypeActual {
	cur := b
	for {
		if cur.value == nil {
			return fallback
		}
		next, ok := cur.value.(*InfiniBinding)
		if !ok {
			return cur.value
		}
		cur = next
	}
}
