package aboxer

import (
	errs "github.com/c360studio/semstreams/errors"

	"github.com/c360studio/aboxer/ontology"
)

// AssertionCreator is the second pass of a conversion. Given the final
// blacklist it replaces every convertible SubClassOf axiom by the class and
// property assertions it stands for, turns class declarations into
// individual declarations, and forwards all other axioms to the sink.
//
// The blacklist must be complete before the first call to Process.
type AssertionCreator struct {
	blacklist ontology.ClassSet
	sink      Sink
	ids       AnonymousIDGenerator
	stats     Stats
}

// NewAssertionCreator creates an emitter writing to sink. A nil ids uses
// sequential labels.
func NewAssertionCreator(blacklist ontology.ClassSet, sink Sink, ids AnonymousIDGenerator) *AssertionCreator {
	if ids == nil {
		ids = NewSequentialIDs("")
	}
	return &AssertionCreator{
		blacklist: blacklist,
		sink:      sink,
		ids:       ids,
	}
}

// Process converts or forwards one axiom. A sink error is wrapped and
// returned; axioms emitted before the failure stay emitted.
func (a *AssertionCreator) Process(ax ontology.Axiom) error {
	switch x := ax.(type) {
	case *ontology.Declaration:
		if c, ok := x.Entity.(ontology.Class); ok && !a.blacklist.Contains(c) {
			a.stats.NewIndividuals++
			return a.emit(ontology.Declare(ontology.IndividualOf(c)))
		}
	case *ontology.SubClassOf:
		if sub, ok := x.Sub.(ontology.Class); ok && !a.blacklist.Contains(sub) {
			h := assertionPatterns{a}
			var ind ontology.Individual = ontology.IndividualOf(sub)
			for _, conjunct := range ontology.ConjunctSet(x.Super) {
				if err := ProcessPattern[ontology.Individual](h, ind, conjunct); err != nil {
					return err
				}
			}
			return nil
		}
	}
	return a.emit(ax)
}

// Reserve keeps the generator from reusing the anonymous individuals of
// axioms. ProcessAll calls it; callers feeding Process one axiom at a time
// must call it with the whole input first.
func (a *AssertionCreator) Reserve(axioms []ontology.Axiom) {
	if r, ok := a.ids.(reserver); ok {
		r.Reserve(ontology.AnonymousIndividuals(axioms)...)
	}
}

// ProcessAll processes axioms in order and stops at the first error.
func (a *AssertionCreator) ProcessAll(axioms []ontology.Axiom) error {
	a.Reserve(axioms)
	for _, ax := range axioms {
		if err := a.Process(ax); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns the counters accumulated so far.
func (a *AssertionCreator) Stats() Stats {
	return a.stats
}

func (a *AssertionCreator) emit(ax ontology.Axiom) error {
	if err := a.sink.Accept(ax); err != nil {
		return errs.Wrap(err, "AssertionCreator", "Process", "accept axiom")
	}
	return nil
}

// assertionPatterns attaches assertions to the individual carried as context.
type assertionPatterns struct {
	a *AssertionCreator
}

func (h assertionPatterns) Unsplittable(ind ontology.Individual, ce ontology.ClassExpression) error {
	h.a.stats.ClassAssertions++
	return h.a.emit(ontology.AssertClass(ce, ind))
}

func (h assertionPatterns) SimpleExistential(ind ontology.Individual, p ontology.ObjectProperty, filler ontology.Class) error {
	if h.a.blacklist.Contains(filler) {
		h.a.stats.ClassAssertions++
		return h.a.emit(ontology.AssertClass(ontology.SomeValuesFrom(p, filler), ind))
	}
	h.a.stats.PropertyAssertions++
	return h.a.emit(ontology.AssertProperty(p, ind, ontology.IndividualOf(filler)))
}

func (h assertionPatterns) NewContext(ind ontology.Individual, p ontology.ObjectProperty) (ontology.Individual, error) {
	anon := h.a.ids.Next()
	h.a.stats.AnonymousIndividuals++
	h.a.stats.PropertyAssertions++
	if err := h.a.emit(ontology.AssertProperty(p, ind, anon)); err != nil {
		return nil, err
	}
	return anon, nil
}
