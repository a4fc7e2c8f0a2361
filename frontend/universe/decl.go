package universe

import (
	"github.com/cottand/lattice/frontend/typeexpr"
	"github.com/cottand/lattice/frontend/types"
	"github.com/pkg/errors"
)

type file struct {
	Shapes []shapeDecl `yaml:"shapes"`
}

type shapeDecl struct {
	Name       string `yaml:"name"`
	Abstract   bool   `yaml:"abstract"`
	Functional bool   `yaml:"functional"`
	// Supers are the direct super types, as type expressions
	Supers []string `yaml:"supers"`
	// Sealed, when present, is the closed list of direct sub types
	Sealed     []string       `yaml:"sealed"`
	Formals    []formalDecl   `yaml:"formals"`
	Properties []propertyDecl `yaml:"properties"`
	Methods    []methodDecl   `yaml:"methods"`
	Statics    []staticDecl   `yaml:"statics"`
}

type formalDecl struct {
	Name string `yaml:"name"`
	// Variance is one of "", "out" or "in"
	Variance string   `yaml:"variance"`
	Bounds   []string `yaml:"bounds"`
}

type propertyDecl struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Visibility string `yaml:"visibility"`
	Abstract   bool   `yaml:"abstract"`
	Getter     string `yaml:"getter"`
	Setter     string `yaml:"setter"`
}

type methodDecl struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Visibility string `yaml:"visibility"`
	// Kind is one of "", "fn", "get", "set" or "constructor"
	Kind     string `yaml:"kind"`
	Open     bool   `yaml:"open"`
	Abstract bool   `yaml:"abstract"`
}

type staticDecl struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Visibility string `yaml:"visibility"`
}

type builder struct {
	universe *Universe
}

// declare creates the shape of decl and its formals, without resolving any type
func (b *builder) declare(decl *shapeDecl) error {
	if decl.Name == "" {
		return errors.Errorf("shape %d has no name", len(b.universe.shapes))
	}
	if _, ok := b.universe.byName[decl.Name]; ok {
		return errors.Errorf("shape %s is declared twice", decl.Name)
	}
	if _, ok := types.LookupWellKnown(decl.Name); ok {
		return errors.Errorf("shape %s shadows a well-known type", decl.Name)
	}
	shape := types.NewTypeShape(decl.Name, decl.Abstract)
	shape.SetFunctionalInterface(decl.Functional)
	for _, formal := range decl.Formals {
		variance, err := parseVariance(formal.Variance)
		if err != nil {
			return errors.Wrapf(err, "shape %s: formal %s", decl.Name, formal.Name)
		}
		shape.AddFormal(types.NewTypeFormal(formal.Name, variance))
	}
	b.universe.shapes = append(b.universe.shapes, shape)
	b.universe.byName[decl.Name] = shape
	return nil
}

// resolve adds the bounds, super types and members of decl to shape
func (b *builder) resolve(shape *types.TypeShape, decl *shapeDecl) error {
	formals := shape.Formals()
	scope := typeexpr.WithFormals(b.universe, formals...)

	for i, formal := range decl.Formals {
		for _, src := range formal.Bounds {
			bound, err := parseNominal(src, scope)
			if err != nil {
				return errors.Wrapf(err, "bound of formal %s", formal.Name)
			}
			formals[i].AddUpperBound(bound)
		}
	}
	for _, src := range decl.Supers {
		super, err := parseNominal(src, scope)
		if err != nil {
			return errors.Wrap(err, "super type")
		}
		superShape, ok := super.Definition().(*types.TypeShape)
		if !ok {
			return errors.Errorf("super type %s is a type formal", super)
		}
		if superShape.IsClosed() {
			return errors.Errorf("super type %s is a concrete shape", super)
		}
		shape.AddSuperType(super)
	}
	if decl.Sealed != nil {
		subTypes := make([]types.NominalType, 0, len(decl.Sealed))
		for _, src := range decl.Sealed {
			sub, err := parseNominal(src, b.universe)
			if err != nil {
				return errors.Wrap(err, "sealed sub type")
			}
			subTypes = append(subTypes, sub)
		}
		shape.SetSealedSubTypes(subTypes...)
	}

	for _, property := range decl.Properties {
		typ, err := typeexpr.Parse(property.Type, scope)
		if err != nil {
			return errors.Wrapf(err, "property %s", property.Name)
		}
		visibility, err := parseVisibility(property.Visibility)
		if err != nil {
			return errors.Wrapf(err, "property %s", property.Name)
		}
		shape.AddProperty(types.PropertyDecl{
			Symbol:     property.Name,
			Type:       typ,
			Visibility: visibility,
			Abstract:   property.Abstract,
			Getter:     property.Getter,
			Setter:     property.Setter,
		})
	}
	for _, method := range decl.Methods {
		signature, err := typeexpr.ParseFunction(method.Type, scope)
		if err != nil {
			return errors.Wrapf(err, "method %s", method.Name)
		}
		visibility, err := parseVisibility(method.Visibility)
		if err != nil {
			return errors.Wrapf(err, "method %s", method.Name)
		}
		kind, err := parseMethodKind(method.Kind)
		if err != nil {
			return errors.Wrapf(err, "method %s", method.Name)
		}
		openness := types.Closed
		if method.Open {
			openness = types.Open
		}
		shape.AddMethod(types.MethodDecl{
			Symbol:     method.Name,
			Signature:  signature,
			Visibility: visibility,
			Kind:       kind,
			Openness:   openness,
			Abstract:   method.Abstract,
		})
	}
	for _, static := range decl.Statics {
		// statics do not see the formals of their shape
		typ, err := typeexpr.Parse(static.Type, b.universe)
		if err != nil {
			return errors.Wrapf(err, "static property %s", static.Name)
		}
		visibility, err := parseVisibility(static.Visibility)
		if err != nil {
			return errors.Wrapf(err, "static property %s", static.Name)
		}
		shape.AddStaticProperty(types.StaticPropertyDecl{
			Symbol:     static.Name,
			Type:       typ,
			Visibility: visibility,
		})
	}
	return nil
}

func parseNominal(src string, scope typeexpr.Scope) (types.NominalType, error) {
	t, err := typeexpr.Parse(src, scope)
	if err != nil {
		return types.NominalType{}, err
	}
	nominal, ok := t.(types.NominalType)
	if !ok {
		return types.NominalType{}, errors.Errorf("%s is not a nominal type", t)
	}
	return nominal, nil
}

func parseVariance(s string) (types.Variance, error) {
	switch s {
	case "":
		return types.Invariant, nil
	case "out":
		return types.Covariant, nil
	case "in":
		return types.Contravariant, nil
	}
	return types.Invariant, errors.Errorf("unknown variance %q", s)
}

func parseVisibility(s string) (types.Visibility, error) {
	switch s {
	case "", "public":
		return types.Public, nil
	case "protected":
		return types.Protected, nil
	case "private":
		return types.Private, nil
	}
	return types.Public, errors.Errorf("unknown visibility %q", s)
}

func parseMethodKind(s string) (types.MethodKind, error) {
	switch s {
	case "", "fn":
		return types.Normal, nil
	case "get":
		return types.Getter, nil
	case "set":
		return types.Setter, nil
	case "constructor":
		return types.Constructor, nil
	}
	return types.Normal, errors.Errorf("unknown method kind %q", s)
}
