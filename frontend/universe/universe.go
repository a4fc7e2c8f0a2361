// Package universe loads declared type shapes from a YAML file.
//
// A universe file lists shapes by name. Types inside it (super types, bounds,
// member types) use the syntax of package typeexpr, and may refer to any shape
// of the same file regardless of declaration order, to the shape's own formals,
// and to the well-known types.
package universe

import (
	"bytes"
	"io"
	"io/fs"
	"slices"

	"github.com/cottand/lattice/frontend/typeexpr"
	"github.com/cottand/lattice/frontend/types"
	"github.com/cottand/lattice/internal/log"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var logger = log.DefaultLogger.With("section", "universe")

// Universe is a set of frozen shapes whose overridden members are computed
type Universe struct {
	shapes []*types.TypeShape
	byName map[string]*types.TypeShape
	ctx    *types.TypeContext
}

var _ typeexpr.Scope = (*Universe)(nil)

// Lookup resolves a shape of u, or else a well-known shape
func (u *Universe) Lookup(name string) (types.TypeDefinition, bool) {
	if shape, ok := u.byName[name]; ok {
		return shape, true
	}
	return typeexpr.WellKnownScope.Lookup(name)
}

// Shape returns a shape declared in the universe file
func (u *Universe) Shape(name string) (*types.TypeShape, bool) {
	shape, ok := u.byName[name]
	return shape, ok
}

// Shapes returns the declared shapes, in declaration order
func (u *Universe) Shapes() []*types.TypeShape {
	return slices.Clone(u.shapes)
}

// Context is the TypeContext overridden members were computed with
func (u *Universe) Context() *types.TypeContext {
	return u.ctx
}

// Parse parses a type expression in the scope of u
func (u *Universe) Parse(src string) (types.StaticType, error) {
	return typeexpr.Parse(src, u)
}

// Load reads and builds the universe file at path
func Load(fsys fs.FS, path string, opts ...types.ContextOption) (*Universe, error) {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Wrap(err, "reading universe")
	}
	u, err := Decode(content, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "loading universe %s", path)
	}
	logger.Debug("loaded universe", "path", path, "shapes", len(u.shapes))
	return u, nil
}

// Decode builds a universe from the YAML content of a universe file.
// Unknown keys are rejected
func Decode(content []byte, opts ...types.ContextOption) (u *Universe, err error) {
	var f file
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decoding YAML")
	}

	defer types.Recover(&err)
	b := builder{
		universe: &Universe{byName: make(map[string]*types.TypeShape, len(f.Shapes))},
	}
	for i := range f.Shapes {
		if err := b.declare(&f.Shapes[i]); err != nil {
			return nil, err
		}
	}
	for i, decl := range f.Shapes {
		if err := b.resolve(b.universe.shapes[i], &decl); err != nil {
			return nil, errors.Wrapf(err, "shape %s", decl.Name)
		}
	}
	for _, shape := range b.universe.shapes {
		shape.Freeze()
	}
	b.universe.ctx = types.NewTypeContext(opts...)
	for _, shape := range b.universe.shapes {
		shape.ComputeOverrides(b.universe.ctx)
	}
	return b.universe, nil
}
