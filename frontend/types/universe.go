package types

// WellKnownTypes are the built-in shapes every other shape can refer to
type WellKnownTypes struct {
	// AnyValue is the super type of every value type.
	// Shapes and formals which declare no super type inherit from it
	AnyValue *TypeShape
	// Null is the type of the null singleton. It is not an AnyValue
	Null     *TypeShape
	Function *TypeShape
	Boolean  *TypeShape
	Int      *TypeShape
	Float64  *TypeShape
	String   *TypeShape
	// List is List<out T>
	List *TypeShape
}

// All returns every well-known shape
func (w WellKnownTypes) All() []*TypeShape {
	return []*TypeShape{w.AnyValue, w.Null, w.Function, w.Boolean, w.Int, w.Float64, w.String, w.List}
}

type registry struct {
	populated bool
	types     WellKnownTypes
	byName    map[string]*TypeShape
}

// wellKnown is written once during package initialisation and only read afterward
var wellKnown registry

func init() {
	wellKnown.populate(newBuiltins())
}

func (r *registry) populate(types WellKnownTypes) {
	if r.populated {
		fail("well-known types registry is already populated")
	}
	r.byName = make(map[string]*TypeShape, len(types.All()))
	for _, shape := range types.All() {
		if shape == nil {
			fail("well-known types registry populated with a missing shape")
		}
		r.byName[shape.name] = shape
	}
	r.types = types
	r.populated = true
}

// anyValueType returns nil while the registry is being populated
func (r *registry) anyValueType() *NominalType {
	if !r.populated {
		return nil
	}
	t := MakeNominal(r.types.AnyValue)
	return &t
}

func (r *registry) isAnyValue(t StaticType) bool {
	n, ok := t.(NominalType)
	return ok && r.populated && n.definition == r.types.AnyValue
}

func (r *registry) isNull(t StaticType) bool {
	n, ok := t.(NominalType)
	return ok && r.populated && n.definition == r.types.Null
}

func (r *registry) isFunction(t StaticType) bool {
	n, ok := t.(NominalType)
	return ok && r.populated && n.definition == r.types.Function
}

// WellKnown returns the built-in shapes
func WellKnown() WellKnownTypes {
	return wellKnown.types
}

// LookupWellKnown finds a built-in shape by name
func LookupWellKnown(name string) (*TypeShape, bool) {
	shape, ok := wellKnown.byName[name]
	return shape, ok
}

func AnyValueType() NominalType { return MakeNominal(wellKnown.types.AnyValue) }
func NullType() NominalType     { return MakeNominal(wellKnown.types.Null) }
func BooleanType() NominalType  { return MakeNominal(wellKnown.types.Boolean) }
func IntType() NominalType      { return MakeNominal(wellKnown.types.Int) }
func Float64Type() NominalType  { return MakeNominal(wellKnown.types.Float64) }
func StringType() NominalType   { return MakeNominal(wellKnown.types.String) }

// FunctionNominalType is the nominal super type of every FunctionType
func FunctionNominalType() NominalType { return MakeNominal(wellKnown.types.Function) }

func ListOf(element TypeActual) NominalType {
	return MakeNominal(wellKnown.types.List, element)
}

func newBuiltins() WellKnownTypes {
	anyValue := NewTypeShape("AnyValue", true)
	anyValue.root = true
	null := NewTypeShape("Null", false)
	null.root = true

	anyValueType := MakeNominal(anyValue)
	valueShape := func(name string, abstract bool) *TypeShape {
		shape := NewTypeShape(name, abstract)
		shape.AddSuperType(anyValueType)
		return shape
	}
	function := valueShape("Function", true)
	boolean := valueShape("Boolean", false)
	intShape := valueShape("Int", false)
	float64Shape := valueShape("Float64", false)
	str := valueShape("String", false)

	list := valueShape("List", true)
	elem := NewTypeFormal("T", Covariant)
	list.AddFormal(elem)
	list.AddProperty(PropertyDecl{Symbol: "length", Type: MakeNominal(intShape), Abstract: true, Getter: "length"})
	list.AddMethod(MethodDecl{
		Symbol:    "get",
		Signature: MakeFunction(nil, []ValueFormal{{Name: "index", Type: MakeNominal(intShape)}}, nil, MakeUnion(elem.Ref(), Bubble)),
		Abstract:  true,
		Openness:  Open,
	})

	types := WellKnownTypes{
		AnyValue: anyValue,
		Null:     null,
		Function: function,
		Boolean:  boolean,
		Int:      intShape,
		Float64:  float64Shape,
		String:   str,
		List:     list,
	}
	for _, shape := range types.All() {
		shape.Freeze()
	}
	return types
}
