// Package owl provides the W3C namespace IRIs used when reading and writing
// OWL 2 ontologies.
package owl

// Namespace IRIs of the standard vocabularies.
const (
	// Namespace is the OWL 2 namespace.
	Namespace = "http://www.w3.org/2002/07/owl#"

	// RDFNamespace is the RDF syntax namespace.
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

	// RDFSNamespace is the RDF Schema namespace.
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"

	// XSDNamespace is the XML Schema datatypes namespace.
	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"
)

// Built-in classes.
const (
	// Thing is the top class, owl:Thing.
	Thing = Namespace + "Thing"

	// Nothing is the bottom class, owl:Nothing.
	Nothing = Namespace + "Nothing"
)

// Vocabulary terms of the OWL 2 RDF mapping.
const (
	ClassType           = Namespace + "Class"
	ObjectPropertyType  = Namespace + "ObjectProperty"
	NamedIndividualType = Namespace + "NamedIndividual"
	OntologyType        = Namespace + "Ontology"
	RestrictionType     = Namespace + "Restriction"
	AllDisjointClasses  = Namespace + "AllDisjointClasses"
	OnProperty          = Namespace + "onProperty"
	SomeValuesFrom      = Namespace + "someValuesFrom"
	AllValuesFrom       = Namespace + "allValuesFrom"
	HasValue            = Namespace + "hasValue"
	IntersectionOf      = Namespace + "intersectionOf"
	UnionOf             = Namespace + "unionOf"
	ComplementOf        = Namespace + "complementOf"
	OneOf               = Namespace + "oneOf"
	EquivalentClass     = Namespace + "equivalentClass"
	DisjointWith        = Namespace + "disjointWith"
	VersionIRI          = Namespace + "versionIRI"
	Imports             = Namespace + "imports"
	Members             = Namespace + "members"
	RDFType             = RDFNamespace + "type"
	RDFFirst            = RDFNamespace + "first"
	RDFRest             = RDFNamespace + "rest"
	RDFNil              = RDFNamespace + "nil"
	RDFSSubClassOf      = RDFSNamespace + "subClassOf"
	RDFSSubPropertyOf   = RDFSNamespace + "subPropertyOf"
	RDFSDomain          = RDFSNamespace + "domain"
	RDFSRange           = RDFSNamespace + "range"
)

// StandardPrefixes returns the prefix declarations every functional-syntax
// document may rely on without declaring them.
func StandardPrefixes() map[string]string {
	return map[string]string{
		"owl":  Namespace,
		"rdf":  RDFNamespace,
		"rdfs": RDFSNamespace,
		"xsd":  XSDNamespace,
	}
}
