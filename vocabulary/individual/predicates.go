// Package individual defines the graph predicates attached to the
// individuals that stand in for converted classes.
package individual

import "github.com/c360studio/semstreams/vocabulary"

// Namespace is the base IRI prefix for individual metadata terms.
const Namespace = "https://aboxer.dev/ontology/individual/"

// Metadata predicates recorded once per individual entity.
const (
	// Source is the document the individual was produced from.
	Source = "aboxer.individual.source"

	// Kind tells named and anonymous individuals apart.
	// Values: "named", "anonymous"
	Kind = "aboxer.individual.kind"
)

// Kind values.
const (
	KindNamed     = "named"
	KindAnonymous = "anonymous"
)

func init() {
	vocabulary.Register(Source,
		vocabulary.WithDescription("Ontology document the individual was produced from"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"source"))

	vocabulary.Register(Kind,
		vocabulary.WithDescription("Individual kind: named or anonymous"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"kind"))
}
