// Package typeexpr parses the textual syntax of static types, which is also
// the syntax types.StaticType values are printed in:
//
//	Top | Bubble | Invalid | Never
//	Name | Name<A, *>
//	A | B        A & B        (A)
//	fn<out T: Bound & Other>(A, ?B, ...C): R
//
// & binds tighter than |, the return type of a function is a single primary type,
// and * (the wildcard) is only allowed as a binding.
// Every type is built with the factories of package types, so parsed types are canonical
package typeexpr

import (
	"fmt"
	"strings"
	"text/scanner"

	"github.com/cottand/lattice/frontend/types"
	"github.com/cottand/lattice/internal/log"
	"github.com/pkg/errors"
)

var logger = log.DefaultLogger.With("section", "typeexpr")

// SyntaxError is a malformed or unresolvable type expression
type SyntaxError struct {
	Source string
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("type expression %q: column %d: %s", e.Source, e.Column, e.Msg)
}

// Parse parses a static type, resolving names in scope
func Parse(src string, scope Scope) (types.StaticType, error) {
	actual, err := ParseActual(src, scope)
	if err != nil {
		return nil, err
	}
	static, ok := actual.(types.StaticType)
	if !ok {
		return nil, &SyntaxError{Source: src, Column: 1, Msg: fmt.Sprintf("%s is only allowed as a type argument", actual)}
	}
	return static, nil
}

// ParseActual parses a static type or the wildcard *
func ParseActual(src string, scope Scope) (result types.TypeActual, err error) {
	p := newParser(src, scope)
	defer p.recover(&err)
	result = p.parseActual()
	p.expect(scanner.EOF)
	logger.Debug("parsed type expression", "source", src, "type", result)
	return result, nil
}

// ParseFunction parses a function type, like the signature of a method
func ParseFunction(src string, scope Scope) (types.FunctionType, error) {
	t, err := Parse(src, scope)
	if err != nil {
		return types.FunctionType{}, err
	}
	function, ok := t.(types.FunctionType)
	if !ok {
		return types.FunctionType{}, &SyntaxError{Source: src, Column: 1, Msg: fmt.Sprintf("%s is not a function type", t)}
	}
	return function, nil
}

// Format prints t in the syntax Parse accepts
func Format(t types.TypeActual) string {
	return t.String()
}

type parser struct {
	scanner scanner.Scanner
	src     string
	scope   Scope

	tok    rune
	text   string
	column int
}

func newParser(src string, scope Scope) *parser {
	p := &parser{src: src, scope: scope}
	p.scanner.Init(strings.NewReader(src))
	p.scanner.Mode = scanner.ScanIdents
	p.scanner.Error = func(_ *scanner.Scanner, msg string) {
		p.errorf("%s", msg)
	}
	p.next()
	return p
}

func (p *parser) recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	switch r := r.(type) {
	case *SyntaxError:
		*errp = r
	case *types.Failure:
		*errp = errors.Wrapf(r, "type expression %q", p.src)
	default:
		panic(r)
	}
}

func (p *parser) next() {
	p.tok = p.scanner.Scan()
	p.text = p.scanner.TokenText()
	if p.tok == scanner.EOF {
		p.column = len(p.src) + 1
		return
	}
	p.column = p.scanner.Position.Column
}

func (p *parser) errorf(format string, args ...any) {
	p.errorAt(p.column, format, args...)
}

func (p *parser) errorAt(column int, format string, args ...any) {
	panic(&SyntaxError{Source: p.src, Column: column, Msg: fmt.Sprintf(format, args...)})
}

func (p *parser) describe() string {
	if p.tok == scanner.Ident {
		return fmt.Sprintf("%q", p.text)
	}
	return scanner.TokenString(p.tok)
}

func (p *parser) expect(tok rune) {
	if p.tok != tok {
		p.errorf("expected %s, found %s", scanner.TokenString(tok), p.describe())
	}
	p.next()
}

func (p *parser) expectIdent() string {
	if p.tok != scanner.Ident {
		p.errorf("expected a name, found %s", p.describe())
	}
	name := p.text
	p.next()
	return name
}

func (p *parser) parseActual() types.TypeActual {
	if p.tok == '*' {
		p.next()
		return types.Wildcard
	}
	return p.parseUnion()
}

func (p *parser) parseUnion() types.StaticType {
	members := []types.StaticType{p.parseIntersection()}
	for p.tok == '|' {
		p.next()
		members = append(members, p.parseIntersection())
	}
	return types.MakeUnion(members...)
}

func (p *parser) parseIntersection() types.StaticType {
	members := []types.StaticType{p.parsePrimary()}
	for p.tok == '&' {
		p.next()
		members = append(members, p.parsePrimary())
	}
	return types.MakeIntersection(members...)
}

func (p *parser) parsePrimary() types.StaticType {
	switch p.tok {
	case '(':
		p.next()
		t := p.parseUnion()
		p.expect(')')
		return t
	case '*':
		p.errorf("the wildcard * is only allowed as a type argument")
	case scanner.Ident:
		column := p.column
		name := p.expectIdent()
		switch name {
		case "Top":
			return types.Top
		case "Bubble":
			return types.Bubble
		case "Invalid":
			return types.Invalid
		case "Never":
			return types.Never
		case "fn":
			return p.parseFunction()
		}
		return p.parseNominal(name, column)
	}
	p.errorf("expected a type, found %s", p.describe())
	return nil
}

func (p *parser) parseNominal(name string, column int) types.NominalType {
	def, ok := p.scope.Lookup(name)
	if !ok {
		p.errorAt(column, "unknown type %s", name)
	}
	var bindings []types.TypeActual
	if p.tok == '<' {
		p.next()
		bindings = append(bindings, p.parseActual())
		for p.tok == ',' {
			p.next()
			bindings = append(bindings, p.parseActual())
		}
		p.expect('>')
	}
	if formals := def.Formals(); len(bindings) != 0 && len(bindings) != len(formals) {
		p.errorAt(column, "%s expects %d type arguments, found %d", name, len(formals), len(bindings))
	}
	return types.MakeNominal(def, bindings...)
}

func (p *parser) parseFunction() types.FunctionType {
	outer := p.scope
	defer func() { p.scope = outer }()

	var formals []*types.TypeFormal
	if p.tok == '<' {
		p.next()
		for {
			formals = append(formals, p.parseTypeFormal(outer, formals))
			if p.tok != ',' {
				break
			}
			p.next()
		}
		p.expect('>')
	}

	p.expect('(')
	var params []types.ValueFormal
	var rest types.StaticType
	for p.tok != ')' {
		if p.tok == '.' {
			p.expectEllipsis()
			rest = p.parseUnion()
			break
		}
		optional := p.tok == '?'
		if optional {
			p.next()
		}
		params = append(params, types.ValueFormal{Type: p.parseUnion(), Optional: optional})
		if p.tok != ',' {
			break
		}
		p.next()
	}
	p.expect(')')
	p.expect(':')
	return types.MakeFunction(formals, params, rest, p.parsePrimary())
}

// parseTypeFormal parses [in|out] Name [: Bound & Bound...].
// The formal is in scope within its own bounds
func (p *parser) parseTypeFormal(outer Scope, declared []*types.TypeFormal) *types.TypeFormal {
	variance := types.Invariant
	name := p.expectIdent()
	if (name == "in" || name == "out") && p.tok == scanner.Ident {
		variance = types.Covariant
		if name == "in" {
			variance = types.Contravariant
		}
		name = p.expectIdent()
	}
	formal := types.NewTypeFormal(name, variance)
	p.scope = WithFormals(outer, append(declared, formal)...)
	if p.tok != ':' {
		return formal
	}
	p.next()
	for {
		column := p.column
		bound, ok := p.parsePrimary().(types.NominalType)
		if !ok {
			p.errorAt(column, "bound of %s must be a nominal type", name)
		}
		formal.AddUpperBound(bound)
		if p.tok != '&' {
			return formal
		}
		p.next()
	}
}

func (p *parser) expectEllipsis() {
	for range 3 {
		p.expect('.')
	}
}
