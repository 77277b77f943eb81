package ontology

import "strings"

// Abbreviator renders an IRI as it should appear in functional syntax, for
// example "<http://example.org/A>" or "ex:A".
type Abbreviator func(IRI) string

// FullIRI renders an IRI in angle brackets.
func FullIRI(iri IRI) string { return "<" + string(iri) + ">" }

// Renderable is implemented by every model value that has a functional-syntax
// form.
type Renderable interface {
	String() string
	writeTo(sb *strings.Builder, abbr Abbreviator)
}

// Render returns the functional-syntax form of r using abbr for IRIs. A nil
// abbr renders full IRIs.
func Render(r Renderable, abbr Abbreviator) string {
	if abbr == nil {
		abbr = FullIRI
	}
	var sb strings.Builder
	r.writeTo(&sb, abbr)
	return sb.String()
}

func writeCall(sb *strings.Builder, abbr Abbreviator, name string, args ...Renderable) {
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(' ')
		}
		a.writeTo(sb, abbr)
	}
	sb.WriteByte(')')
}

func renderables[T Renderable](items []T) []Renderable {
	out := make([]Renderable, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
