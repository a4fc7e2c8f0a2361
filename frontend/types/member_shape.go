package types

import (
	"fmt"
	"slices"
	"strings"
)

type Visibility uint8

const (
	// Public members are visible everywhere
	Public Visibility = iota
	// Protected members are visible from within any type shape
	Protected
	// Private members are only visible from within the shape which declares them
	Private
)

func (v Visibility) String() string {
	switch v {
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "public"
	}
}

type MethodKind uint8

const (
	Normal MethodKind = iota
	Getter
	Setter
	Constructor
)

func (k MethodKind) String() string {
	switch k {
	case Getter:
		return "get"
	case Setter:
		return "set"
	case Constructor:
		return "constructor"
	default:
		return "fn"
	}
}

// Openness is whether sub types may override a method, and so whether
// internal call sites must dispatch virtually
type Openness uint8

const (
	Closed Openness = iota
	Open
)

// MemberShape is owned by exactly one TypeShape. It is one of
// *TypeParameterShape, *PropertyShape, *MethodShape or *StaticPropertyShape
type MemberShape interface {
	fmt.Stringer
	Symbol() string
	Enclosing() *TypeShape
	Visibility() Visibility
	// Descriptor is the type of the member in the generic context of its enclosing shape
	Descriptor() TypeActual
	// Overridden lists the super type members this member shadows.
	// It is nil until TypeShape.ComputeOverrides ran for the enclosing shape
	Overridden() []OverriddenMember

	base() *memberBase
}

var (
	_ MemberShape = (*TypeParameterShape)(nil)
	_ MemberShape = (*PropertyShape)(nil)
	_ MemberShape = (*MethodShape)(nil)
	_ MemberShape = (*StaticPropertyShape)(nil)
)

// OverriddenMember is a member of a super type shadowed by a member of a sub type
type OverriddenMember struct {
	Member MemberShape
	// From is the instantiation of the super type, in the sub type's generic context
	From NominalType
	// Type is the descriptor of Member translated into the sub type's generic context
	Type TypeActual
}

type memberBase struct {
	symbol     string
	enclosing  *TypeShape
	visibility Visibility
	overridden []OverriddenMember
}

func (m *memberBase) base() *memberBase              { return m }
func (m *memberBase) Symbol() string                 { return m.symbol }
func (m *memberBase) Enclosing() *TypeShape          { return m.enclosing }
func (m *memberBase) Visibility() Visibility         { return m.visibility }
func (m *memberBase) Overridden() []OverriddenMember { return slices.Clone(m.overridden) }

type TypeParameterShape struct {
	memberBase
	formal *TypeFormal
}

func (m *TypeParameterShape) Formal() *TypeFormal    { return m.formal }
func (m *TypeParameterShape) Descriptor() TypeActual { return m.formal.Ref() }
func (m *TypeParameterShape) String() string         { return "type " + m.formal.declarationString() }

type PropertyDecl struct {
	Symbol     string
	Type       StaticType
	Visibility Visibility
	// Abstract properties have no backing storage
	Abstract bool
	// Getter and Setter name the accessor methods, if any
	Getter, Setter string
}

type PropertyShape struct {
	memberBase
	typ            StaticType
	abstract       bool
	getter, setter string
}

func (m *PropertyShape) Type() StaticType       { return m.typ }
func (m *PropertyShape) Descriptor() TypeActual { return m.typ }
func (m *PropertyShape) Abstract() bool         { return m.abstract }
func (m *PropertyShape) Getter() string         { return m.getter }
func (m *PropertyShape) Setter() string         { return m.setter }
func (m *PropertyShape) String() string {
	sb := strings.Builder{}
	sb.WriteString(m.visibility.String())
	if m.abstract {
		sb.WriteString(" abstract")
	}
	sb.WriteString(" ")
	sb.WriteString(m.symbol)
	sb.WriteString(": ")
	sb.WriteString(m.typ.String())
	return sb.String()
}

type MethodDecl struct {
	Symbol     string
	Signature  FunctionType
	Visibility Visibility
	Kind       MethodKind
	Openness   Openness
	Abstract   bool
}

type MethodShape struct {
	memberBase
	kind      MethodKind
	openness  Openness
	abstract  bool
	signature FunctionType
}

func (m *MethodShape) Kind() MethodKind        { return m.kind }
func (m *MethodShape) Openness() Openness      { return m.openness }
func (m *MethodShape) Abstract() bool          { return m.abstract }
func (m *MethodShape) Signature() FunctionType { return m.signature }
func (m *MethodShape) Descriptor() TypeActual  { return m.signature }
func (m *MethodShape) String() string {
	sb := strings.Builder{}
	sb.WriteString(m.visibility.String())
	if m.abstract {
		sb.WriteString(" abstract")
	} else if m.openness == Open {
		sb.WriteString(" open")
	}
	sb.WriteString(" ")
	sb.WriteString(m.kind.String())
	sb.WriteString(" ")
	sb.WriteString(m.symbol)
	// render fn<T>(A): R as name<T>(A): R
	sb.WriteString(strings.TrimPrefix(m.signature.String(), "fn"))
	return sb.String()
}

type StaticPropertyDecl struct {
	Symbol     string
	Type       StaticType
	Visibility Visibility
}

type StaticPropertyShape struct {
	memberBase
	typ StaticType
}

func (m *StaticPropertyShape) Type() StaticType       { return m.typ }
func (m *StaticPropertyShape) Descriptor() TypeActual { return m.typ }
func (m *StaticPropertyShape) String() string {
	return m.visibility.String() + " static " + m.symbol + ": " + m.typ.String()
}
