package ontology

import "sort"

// Ontology is an ordered set of axioms. Axioms are de-duplicated by their
// functional-syntax form, mirroring the set semantics of OWL ontologies.
// An Ontology is not safe for concurrent mutation.
type Ontology struct {
	// IRI is the ontology IRI; it may be empty.
	IRI IRI
	// VersionIRI is only meaningful together with IRI.
	VersionIRI IRI

	// Imports lists the IRIs of imported ontologies. They are not loaded.
	Imports []IRI

	// Annotations holds ontology annotations in functional syntax, kept
	// verbatim.
	Annotations []string

	// Prefixes maps prefix names (without the trailing colon) to namespace
	// IRIs. Writers use them to abbreviate IRIs.
	Prefixes map[string]string

	axioms []Axiom
	index  map[string]struct{}
}

// New creates an empty ontology.
func New(iri IRI) *Ontology {
	return &Ontology{
		IRI:      iri,
		Prefixes: make(map[string]string),
		index:    make(map[string]struct{}),
	}
}

// Add inserts ax and reports whether it was not already present.
func (o *Ontology) Add(ax Axiom) bool {
	key := ax.String()
	if _, ok := o.index[key]; ok {
		return false
	}
	o.index[key] = struct{}{}
	o.axioms = append(o.axioms, ax)
	return true
}

// AddAll inserts every axiom.
func (o *Ontology) AddAll(axioms []Axiom) {
	for _, ax := range axioms {
		o.Add(ax)
	}
}

// Accept adds ax. It lets an Ontology act as the output of a conversion.
func (o *Ontology) Accept(ax Axiom) error {
	o.Add(ax)
	return nil
}

// Contains reports whether an axiom with the same form is present.
func (o *Ontology) Contains(ax Axiom) bool {
	_, ok := o.index[ax.String()]
	return ok
}

// Axioms returns the axioms in insertion order. The slice is a copy.
func (o *Ontology) Axioms() []Axiom {
	out := make([]Axiom, len(o.axioms))
	copy(out, o.axioms)
	return out
}

// Len returns the number of axioms.
func (o *Ontology) Len() int { return len(o.axioms) }

// CountByKind returns the number of axioms per kind.
func (o *Ontology) CountByKind() map[AxiomKind]int {
	counts := make(map[AxiomKind]int)
	for _, ax := range o.axioms {
		counts[ax.Kind()]++
	}
	return counts
}

// ClassesInSignature returns every class mentioned by any axiom, sorted by IRI.
func (o *Ontology) ClassesInSignature() []Class {
	set := make(ClassSet)
	for _, ax := range o.axioms {
		ax.visitClasses(func(c Class) { set.Add(c) })
	}
	return set.Sorted()
}

// IndividualsInSignature returns every named individual mentioned by any
// axiom, sorted by IRI.
func (o *Ontology) IndividualsInSignature() []NamedIndividual {
	seen := make(map[NamedIndividual]struct{})
	var out []NamedIndividual
	for _, ax := range o.axioms {
		for _, ind := range IndividualsInSignature(ax) {
			if _, ok := seen[ind]; ok {
				continue
			}
			seen[ind] = struct{}{}
			out = append(out, ind)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IRI < out[j].IRI })
	return out
}

// ClassAssertions returns the class assertion axioms in insertion order.
func (o *Ontology) ClassAssertions() []*ClassAssertion {
	var out []*ClassAssertion
	for _, ax := range o.axioms {
		if ca, ok := ax.(*ClassAssertion); ok {
			out = append(out, ca)
		}
	}
	return out
}

// ObjectPropertyAssertions returns the object property assertion axioms in
// insertion order.
func (o *Ontology) ObjectPropertyAssertions() []*ObjectPropertyAssertion {
	var out []*ObjectPropertyAssertion
	for _, ax := range o.axioms {
		if pa, ok := ax.(*ObjectPropertyAssertion); ok {
			out = append(out, pa)
		}
	}
	return out
}
