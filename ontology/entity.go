// Package ontology provides the in-memory OWL 2 model used by the converter:
// entities, class expressions, axioms, individuals and the Ontology container.
//
// Values are immutable once constructed. Atomic entities are comparable value
// types and can be used as map keys; composite class expressions and axioms
// are pointers and are compared through their functional-syntax rendering.
package ontology

import "strings"

// IRI is an opaque, globally unique identifier.
type IRI string

// String returns the IRI text.
func (i IRI) String() string { return string(i) }

// EntityType names the kind of a declared entity.
type EntityType string

// Entity types supported by Declaration axioms.
const (
	EntityClass           EntityType = "Class"
	EntityObjectProperty  EntityType = "ObjectProperty"
	EntityNamedIndividual EntityType = "NamedIndividual"
)

// Entity is a named ontology entity.
type Entity interface {
	EntityIRI() IRI
	EntityType() EntityType
}

// Class is an atomic class referenced by IRI.
type Class struct {
	IRI IRI
}

// NewClass returns the class with the given IRI.
func NewClass(iri string) Class { return Class{IRI: IRI(iri)} }

func (c Class) EntityIRI() IRI         { return c.IRI }
func (c Class) EntityType() EntityType { return EntityClass }
func (c Class) String() string         { return Render(c, nil) }

func (c Class) writeTo(sb *strings.Builder, abbr Abbreviator) {
	sb.WriteString(abbr(c.IRI))
}

func (c Class) visitClasses(fn func(Class)) { fn(c) }

// ObjectProperty is a named binary relation between individuals.
type ObjectProperty struct {
	IRI IRI
}

// NewObjectProperty returns the object property with the given IRI.
func NewObjectProperty(iri string) ObjectProperty { return ObjectProperty{IRI: IRI(iri)} }

func (p ObjectProperty) EntityIRI() IRI         { return p.IRI }
func (p ObjectProperty) EntityType() EntityType { return EntityObjectProperty }
func (p ObjectProperty) String() string         { return Render(p, nil) }

func (p ObjectProperty) writeTo(sb *strings.Builder, abbr Abbreviator) {
	sb.WriteString(abbr(p.IRI))
}

// Individual is either a NamedIndividual or an AnonymousIndividual.
type Individual interface {
	Renderable
	isIndividual()
}

// NamedIndividual is an individual identified by IRI. The named individual
// of a class shares the class IRI.
type NamedIndividual struct {
	IRI IRI
}

// IndividualOf returns the named individual that stands in for class c.
func IndividualOf(c Class) NamedIndividual { return NamedIndividual{IRI: c.IRI} }

func (i NamedIndividual) EntityIRI() IRI         { return i.IRI }
func (i NamedIndividual) EntityType() EntityType { return EntityNamedIndividual }
func (i NamedIndividual) String() string         { return Render(i, nil) }
func (i NamedIndividual) isIndividual()          {}

func (i NamedIndividual) writeTo(sb *strings.Builder, abbr Abbreviator) {
	sb.WriteString(abbr(i.IRI))
}

// AnonymousIndividual is an unnamed individual. Its ID is a node label of
// the form "_:label" and is unique within one conversion run.
type AnonymousIndividual struct {
	ID string
}

func (i AnonymousIndividual) String() string { return i.ID }
func (i AnonymousIndividual) isIndividual()  {}

func (i AnonymousIndividual) writeTo(sb *strings.Builder, _ Abbreviator) {
	sb.WriteString(i.ID)
}

func (c Class) visitIndividuals(func(Individual)) {}
