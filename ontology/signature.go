package ontology

import "sort"

// ClassSet is a set of atomic classes.
type ClassSet map[Class]struct{}

// NewClassSet returns a set holding the given classes.
func NewClassSet(classes ...Class) ClassSet {
	s := make(ClassSet, len(classes))
	for _, c := range classes {
		s[c] = struct{}{}
	}
	return s
}

// Add inserts c and reports whether it was not already present.
func (s ClassSet) Add(c Class) bool {
	if _, ok := s[c]; ok {
		return false
	}
	s[c] = struct{}{}
	return true
}

// Contains reports whether c is in the set.
func (s ClassSet) Contains(c Class) bool {
	_, ok := s[c]
	return ok
}

// Len returns the number of classes in the set.
func (s ClassSet) Len() int { return len(s) }

// Sorted returns the classes ordered by IRI.
func (s ClassSet) Sorted() []Class {
	out := make([]Class, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	SortClasses(out)
	return out
}

// Clone returns an independent copy of the set.
func (s ClassSet) Clone() ClassSet {
	out := make(ClassSet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}

// SortClasses orders classes by IRI in place.
func SortClasses(classes []Class) {
	sort.Slice(classes, func(i, j int) bool { return classes[i].IRI < classes[j].IRI })
}

// signatureHolder is implemented by class expressions and axioms.
type signatureHolder interface {
	visitClasses(fn func(Class))
}

// ClassesInSignature returns the distinct atomic classes mentioned by x, an
// axiom or a class expression, in first-occurrence order.
func ClassesInSignature(x signatureHolder) []Class {
	var (
		out  []Class
		seen = make(ClassSet)
	)
	x.visitClasses(func(c Class) {
		if seen.Add(c) {
			out = append(out, c)
		}
	})
	return out
}

// IndividualsInSignature returns the distinct named individuals mentioned by
// the axiom, in first-occurrence order.
func IndividualsInSignature(ax Axiom) []NamedIndividual {
	var (
		out  []NamedIndividual
		seen = make(map[NamedIndividual]struct{})
	)
	add := func(ind Individual) {
		named, ok := ind.(NamedIndividual)
		if !ok {
			return
		}
		if _, dup := seen[named]; dup {
			return
		}
		seen[named] = struct{}{}
		out = append(out, named)
	}
	ax.visitIndividuals(add)
	return out
}

// AnonymousIndividuals returns the distinct anonymous individuals mentioned
// by axioms, in first-occurrence order.
func AnonymousIndividuals(axioms []Axiom) []AnonymousIndividual {
	var (
		out  []AnonymousIndividual
		seen = make(map[AnonymousIndividual]struct{})
	)
	add := func(ind Individual) {
		anon, ok := ind.(AnonymousIndividual)
		if !ok {
			return
		}
		if _, dup := seen[anon]; dup {
			return
		}
		seen[anon] = struct{}{}
		out = append(out, anon)
	}
	for _, ax := range axioms {
		ax.visitIndividuals(add)
	}
	return out
}
