package aboxer

import (
	"log/slog"

	"github.com/c360studio/aboxer/ontology"
)

// BlacklistStats describes the work done by a Blacklister.
type BlacklistStats struct {
	// AxiomsProcessed counts calls to Process.
	AxiomsProcessed int
	// DependenciesRecorded counts distinct subject → filler edges stored in
	// the dependency map.
	DependenciesRecorded int
	// DependenciesFired counts classes enqueued because a class they depend
	// on became blacklisted, including edges that fired immediately.
	DependenciesFired int
}

// Blacklister accumulates the classes that cannot be replaced by individuals.
// Classes in the signature of unconvertible axioms, or of unconvertible
// parts of axioms, are blacklisted directly. For a convertible part
// SubClassOf(:A ObjectSomeValuesFrom(:r :B)) the edge :A → :B is recorded
// instead: :B is blacklisted whenever :A is, now or later. The resulting set
// does not depend on the order in which axioms are processed.
//
// A Blacklister is not safe for concurrent use.
type Blacklister struct {
	logger *slog.Logger

	blacklisted ontology.ClassSet

	// dependencies maps a class to the classes to blacklist together with it.
	// Entries only exist for classes that are not blacklisted; an entry is
	// removed when its key is blacklisted.
	dependencies map[ontology.Class]ontology.ClassSet

	// queue buffers classes waiting to be blacklisted so long dependency
	// chains do not recurse.
	queue []ontology.Class

	stats BlacklistStats
}

// NewBlacklister creates a Blacklister with an empty blacklist.
func NewBlacklister(logger *slog.Logger) *Blacklister {
	if logger == nil {
		logger = slog.Default()
	}
	return &Blacklister{
		logger:       logger,
		blacklisted:  make(ontology.ClassSet),
		dependencies: make(map[ontology.Class]ontology.ClassSet, 128),
	}
}

// ProcessAll processes every axiom in order.
func (b *Blacklister) ProcessAll(axioms []ontology.Axiom) {
	for _, ax := range axioms {
		b.Process(ax)
	}
}

// Process updates the blacklist with the consequences of one axiom.
func (b *Blacklister) Process(ax ontology.Axiom) {
	b.stats.AxiomsProcessed++

	switch a := ax.(type) {
	case *ontology.Declaration:
		if c, ok := a.Entity.(ontology.Class); ok && !b.IsBlacklisted(c) {
			// a declared class on its own can become an individual
			return
		}
		b.BlacklistAll(ontology.ClassesInSignature(ax))
	case *ontology.SubClassOf:
		sub, ok := a.Sub.(ontology.Class)
		if !ok || b.IsBlacklisted(sub) {
			b.BlacklistAll(ontology.ClassesInSignature(ax))
			return
		}
		h := blacklistPatterns{b}
		for _, conjunct := range ontology.ConjunctSet(a.Super) {
			// blacklistPatterns never fails
			_ = ProcessPattern[ontology.Class](h, sub, conjunct)
		}
	default:
		b.BlacklistAll(ontology.ClassesInSignature(ax))
	}
}

// BlacklistAll blacklists the given classes together with everything that
// depends on them, and returns once no dependency is left to propagate.
// Classes that are already blacklisted are skipped.
func (b *Blacklister) BlacklistAll(classes []ontology.Class) {
	b.queue = append(b.queue, classes...)
	b.drain()
}

func (b *Blacklister) drain() {
	for head := 0; head < len(b.queue); head++ {
		next := b.queue[head]
		if !b.blacklisted.Add(next) {
			continue
		}
		b.logger.Debug("Class blacklisted", slog.String("class", string(next.IRI)))

		dependent, ok := b.dependencies[next]
		if !ok {
			continue
		}
		delete(b.dependencies, next)
		for c := range dependent {
			b.queue = append(b.queue, c)
			b.stats.DependenciesFired++
		}
	}
	b.queue = b.queue[:0]
}

// addDependency records that filler must be blacklisted together with
// subject. If subject is already blacklisted the dependency fires at once.
func (b *Blacklister) addDependency(subject, filler ontology.Class) {
	if b.IsBlacklisted(subject) {
		b.stats.DependenciesFired++
		b.BlacklistAll([]ontology.Class{filler})
		return
	}
	deps, ok := b.dependencies[subject]
	if !ok {
		deps = make(ontology.ClassSet, 4)
		b.dependencies[subject] = deps
	}
	if deps.Add(filler) {
		b.stats.DependenciesRecorded++
	}
}

// IsBlacklisted reports whether c cannot be replaced by an individual.
func (b *Blacklister) IsBlacklisted(c ontology.Class) bool {
	return b.blacklisted.Contains(c)
}

// Blacklisted returns a copy of the current blacklist.
func (b *Blacklister) Blacklisted() ontology.ClassSet {
	return b.blacklisted.Clone()
}

// PendingDependencies returns the number of classes that still have
// unfired dependencies.
func (b *Blacklister) PendingDependencies() int {
	return len(b.dependencies)
}

// Stats returns the work counters.
func (b *Blacklister) Stats() BlacklistStats {
	return b.stats
}

// blacklistPatterns uses the subject class of the axiom as context, so
// dependencies found at any nesting depth are attached to it.
type blacklistPatterns struct {
	b *Blacklister
}

func (h blacklistPatterns) Unsplittable(_ ontology.Class, ce ontology.ClassExpression) error {
	h.b.BlacklistAll(ontology.ClassesInSignature(ce))
	return nil
}

func (h blacklistPatterns) SimpleExistential(subject ontology.Class, _ ontology.ObjectProperty, filler ontology.Class) error {
	h.b.addDependency(subject, filler)
	return nil
}

func (h blacklistPatterns) NewContext(subject ontology.Class, _ ontology.ObjectProperty) (ontology.Class, error) {
	return subject, nil
}
