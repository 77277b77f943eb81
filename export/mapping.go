package export

import (
	"strconv"
	"strings"

	"github.com/c360studio/aboxer/ontology"
	"github.com/c360studio/aboxer/ontology/ofn"
	"github.com/c360studio/aboxer/vocabulary/owl"
)

// Mapper translates axioms to triples following the OWL 2 mapping to RDF
// graphs. Class expressions become blank nodes labelled genid1, genid2, ...
// Anonymous individuals keep their own label.
type Mapper struct {
	blank int
}

// NewMapper creates a Mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// Header returns the triples describing the ontology itself. An ontology
// without IRI yields none.
func (m *Mapper) Header(h ofn.Header) []Triple {
	if h.IRI == "" {
		return nil
	}
	subject := IRI(string(h.IRI))
	triples := []Triple{{subject, IRI(owl.RDFType), IRI(owl.OntologyType)}}
	if h.VersionIRI != "" {
		triples = append(triples, Triple{subject, IRI(owl.VersionIRI), IRI(string(h.VersionIRI))})
	}
	for _, imp := range h.Imports {
		triples = append(triples, Triple{subject, IRI(owl.Imports), IRI(string(imp))})
	}
	return triples
}

// Axiom returns the triples of ax. The second result is false for axioms
// that have no RDF form here, such as opaque axioms.
func (m *Mapper) Axiom(ax ontology.Axiom) ([]Triple, bool) {
	switch a := ax.(type) {
	case *ontology.Declaration:
		var typ string
		switch a.Entity.EntityType() {
		case ontology.EntityClass:
			typ = owl.ClassType
		case ontology.EntityObjectProperty:
			typ = owl.ObjectPropertyType
		case ontology.EntityNamedIndividual:
			typ = owl.NamedIndividualType
		default:
			return nil, false
		}
		return []Triple{{IRI(string(a.Entity.EntityIRI())), IRI(owl.RDFType), IRI(typ)}}, true

	case *ontology.SubClassOf:
		return m.binary(a.Sub, owl.RDFSSubClassOf, a.Super), true

	case *ontology.EquivalentClasses:
		var out []Triple
		for i := 0; i+1 < len(a.Expressions); i++ {
			out = append(out, m.binary(a.Expressions[i], owl.EquivalentClass, a.Expressions[i+1])...)
		}
		return out, true

	case *ontology.DisjointClasses:
		if len(a.Expressions) == 2 {
			return m.binary(a.Expressions[0], owl.DisjointWith, a.Expressions[1]), true
		}
		node := m.newBlank()
		terms, nested := m.exprs(a.Expressions)
		head, list := m.list(terms)
		out := []Triple{
			{node, IRI(owl.RDFType), IRI(owl.AllDisjointClasses)},
			{node, IRI(owl.Members), head},
		}
		out = append(out, list...)
		return append(out, nested...), true

	case *ontology.SubObjectPropertyOf:
		return []Triple{{property(a.Sub), IRI(owl.RDFSSubPropertyOf), property(a.Super)}}, true

	case *ontology.ObjectPropertyDomain:
		obj, nested := m.expr(a.Domain)
		return append([]Triple{{property(a.Property), IRI(owl.RDFSDomain), obj}}, nested...), true

	case *ontology.ObjectPropertyRange:
		obj, nested := m.expr(a.Range)
		return append([]Triple{{property(a.Property), IRI(owl.RDFSRange), obj}}, nested...), true

	case *ontology.ClassAssertion:
		obj, nested := m.expr(a.Class)
		return append([]Triple{{individual(a.Individual), IRI(owl.RDFType), obj}}, nested...), true

	case *ontology.ObjectPropertyAssertion:
		return []Triple{{individual(a.Subject), property(a.Property), individual(a.Object)}}, true

	default:
		return nil, false
	}
}

func (m *Mapper) binary(left ontology.ClassExpression, predicate string, right ontology.ClassExpression) []Triple {
	s, sNested := m.expr(left)
	o, oNested := m.expr(right)
	out := []Triple{{s, IRI(predicate), o}}
	out = append(out, sNested...)
	return append(out, oNested...)
}

// expr returns the node standing for ce and the triples describing it. The
// node's own triples come first, followed by those of nested expressions.
func (m *Mapper) expr(ce ontology.ClassExpression) (Term, []Triple) {
	switch e := ce.(type) {
	case ontology.Class:
		return IRI(string(e.IRI)), nil

	case *ontology.ObjectIntersectionOf:
		return m.setExpr(owl.IntersectionOf, e.Operands)

	case *ontology.ObjectUnionOf:
		return m.setExpr(owl.UnionOf, e.Operands)

	case *ontology.ObjectComplementOf:
		node := m.newBlank()
		obj, nested := m.expr(e.Operand)
		out := []Triple{
			{node, IRI(owl.RDFType), IRI(owl.ClassType)},
			{node, IRI(owl.ComplementOf), obj},
		}
		return node, append(out, nested...)

	case *ontology.ObjectSomeValuesFrom:
		return m.restriction(e.Property, owl.SomeValuesFrom, e.Filler)

	case *ontology.ObjectAllValuesFrom:
		return m.restriction(e.Property, owl.AllValuesFrom, e.Filler)

	case *ontology.ObjectHasValue:
		node := m.newBlank()
		return node, []Triple{
			{node, IRI(owl.RDFType), IRI(owl.RestrictionType)},
			{node, IRI(owl.OnProperty), property(e.Property)},
			{node, IRI(owl.HasValue), individual(e.Value)},
		}

	case *ontology.ObjectOneOf:
		node := m.newBlank()
		terms := make([]Term, len(e.Individuals))
		for i, ind := range e.Individuals {
			terms[i] = individual(ind)
		}
		head, list := m.list(terms)
		out := []Triple{
			{node, IRI(owl.RDFType), IRI(owl.ClassType)},
			{node, IRI(owl.OneOf), head},
		}
		return node, append(out, list...)

	default:
		// every expression type is listed above
		panic("export: unknown class expression " + ce.String())
	}
}

func (m *Mapper) exprs(ces []ontology.ClassExpression) ([]Term, []Triple) {
	terms := make([]Term, len(ces))
	var nested []Triple
	for i, ce := range ces {
		var sub []Triple
		terms[i], sub = m.expr(ce)
		nested = append(nested, sub...)
	}
	return terms, nested
}

func (m *Mapper) setExpr(predicate string, operands []ontology.ClassExpression) (Term, []Triple) {
	node := m.newBlank()
	terms, nested := m.exprs(operands)
	head, list := m.list(terms)
	out := []Triple{
		{node, IRI(owl.RDFType), IRI(owl.ClassType)},
		{node, IRI(predicate), head},
	}
	out = append(out, list...)
	return node, append(out, nested...)
}

func (m *Mapper) restriction(p ontology.ObjectProperty, predicate string, filler ontology.ClassExpression) (Term, []Triple) {
	node := m.newBlank()
	obj, nested := m.expr(filler)
	out := []Triple{
		{node, IRI(owl.RDFType), IRI(owl.RestrictionType)},
		{node, IRI(owl.OnProperty), property(p)},
		{node, IRI(predicate), obj},
	}
	return node, append(out, nested...)
}

// list encodes items as an rdf:first/rdf:rest chain.
func (m *Mapper) list(items []Term) (Term, []Triple) {
	if len(items) == 0 {
		return IRI(owl.RDFNil), nil
	}
	cells := make([]Term, len(items))
	for i := range cells {
		cells[i] = m.newBlank()
	}
	out := make([]Triple, 0, 2*len(items))
	for i, item := range items {
		rest := IRI(owl.RDFNil)
		if i+1 < len(cells) {
			rest = cells[i+1]
		}
		out = append(out,
			Triple{cells[i], IRI(owl.RDFFirst), item},
			Triple{cells[i], IRI(owl.RDFRest), rest})
	}
	return cells[0], out
}

func (m *Mapper) newBlank() Term {
	m.blank++
	return Blank("genid" + strconv.Itoa(m.blank))
}

func property(p ontology.ObjectProperty) Term {
	return IRI(string(p.IRI))
}

func individual(ind ontology.Individual) Term {
	switch i := ind.(type) {
	case ontology.NamedIndividual:
		return IRI(string(i.IRI))
	case ontology.AnonymousIndividual:
		return Blank(strings.TrimPrefix(i.ID, "_:"))
	default:
		panic("export: unknown individual " + ind.String())
	}
}
