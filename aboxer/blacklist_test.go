package aboxer

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c360studio/aboxer/ontology"
)

var (
	A = ontology.NewClass("A")
	B = ontology.NewClass("B")
	C = ontology.NewClass("C")
	D = ontology.NewClass("D")
	r = ontology.NewObjectProperty("r")
)

func some(p ontology.ObjectProperty, filler ontology.ClassExpression) ontology.ClassExpression {
	return ontology.SomeValuesFrom(p, filler)
}

func and(operands ...ontology.ClassExpression) ontology.ClassExpression {
	return ontology.IntersectionOf(operands...)
}

func assertBlacklisted(t *testing.T, b *Blacklister, want ...ontology.Class) {
	t.Helper()
	for _, c := range []ontology.Class{A, B, C, D} {
		expected := false
		for _, w := range want {
			if w == c {
				expected = true
			}
		}
		assert.Equal(t, expected, b.IsBlacklisted(c), "blacklisted(%s)", c.IRI)
	}
}

func TestBlacklister_Subsumption(t *testing.T) {
	b := NewBlacklister(nil)

	b.Process(ontology.SubClass(A, B))
	assertBlacklisted(t, b, B)

	b.Process(ontology.SubClass(B, A))
	assertBlacklisted(t, b, A, B)
}

func TestBlacklister_SubsumptionDependencies(t *testing.T) {
	b := NewBlacklister(nil)

	b.Process(ontology.SubClass(B, C))
	assertBlacklisted(t, b, C)

	b.Process(ontology.SubClass(A, B))
	assertBlacklisted(t, b, B, C)

	b.Process(ontology.SubClass(C, A))
	assertBlacklisted(t, b, A, B, C)
}

func TestBlacklister_ExistentialDependencies(t *testing.T) {
	b := NewBlacklister(nil)

	// each axiom alone converts to a property assertion
	b.Process(ontology.SubClass(A, some(r, B)))
	assertBlacklisted(t, b)
	b.Process(ontology.SubClass(B, some(r, C)))
	assertBlacklisted(t, b)
	b.Process(ontology.SubClass(C, some(r, A)))
	assertBlacklisted(t, b)
	assert.Equal(t, 3, b.Stats().DependenciesRecorded)

	// A is now a superclass, so everything reachable from A follows
	b.Process(ontology.SubClass(D, A))
	assertBlacklisted(t, b, A, B, C)
	assert.Zero(t, b.PendingDependencies())
}

func TestBlacklister_ExistentialEquivalence(t *testing.T) {
	b := NewBlacklister(nil)

	b.Process(ontology.Equivalent(A, some(r, B)))
	assertBlacklisted(t, b, A, B)
}

func TestBlacklister_ExpandedEquivalence(t *testing.T) {
	b := NewBlacklister(nil)

	b.ProcessAll(ontology.ExpandEquivalences([]ontology.Axiom{ontology.Equivalent(A, some(r, B))}))
	assertBlacklisted(t, b, A, B)
}

func TestBlacklister_UniversalDependencies(t *testing.T) {
	b := NewBlacklister(nil)

	b.Process(ontology.SubClass(A, ontology.AllValuesFrom(r, B)))
	assertBlacklisted(t, b, B)
}

func TestBlacklister_UniversalNestedInExistential(t *testing.T) {
	b := NewBlacklister(nil)

	b.Process(ontology.SubClass(A, some(r, and(C, ontology.AllValuesFrom(r, B)))))
	assertBlacklisted(t, b, B, C)
}

func TestBlacklister_Conjunctions(t *testing.T) {
	b := NewBlacklister(nil)

	b.Process(ontology.SubClass(A, and(B, C)))
	assertBlacklisted(t, b, B, C)
}

func TestBlacklister_ConjunctionsExistentials(t *testing.T) {
	b := NewBlacklister(nil)

	b.Process(ontology.SubClass(A, and(B, some(r, C))))
	assertBlacklisted(t, b, B)
}

func TestBlacklister_ExistentialConjunctions(t *testing.T) {
	b := NewBlacklister(nil)

	b.Process(ontology.SubClass(A, some(r, and(B, C))))
	assertBlacklisted(t, b, B, C)
}

func TestBlacklister_NestedExistentialConjunctions(t *testing.T) {
	b := NewBlacklister(nil)

	b.Process(ontology.SubClass(A, some(r, and(B, some(r, C)))))
	assertBlacklisted(t, b, B)

	b.Process(ontology.SubClass(C, some(r, and(B, some(r, A)))))
	assertBlacklisted(t, b, B)

	// A appears as an unsplittable conjunct, C depends on it via the
	// dependency recorded for the first axiom
	b.Process(ontology.SubClass(C, some(r, and(A, some(r, B)))))
	assertBlacklisted(t, b, A, B, C)
}

func TestBlacklister_Declarations(t *testing.T) {
	b := NewBlacklister(nil)

	b.Process(ontology.Declare(A))
	b.Process(ontology.Declare(r))
	assertBlacklisted(t, b)

	b.BlacklistAll([]ontology.Class{A})
	b.Process(ontology.Declare(A))
	assertBlacklisted(t, b, A)
}

func TestBlacklister_ComplexSubclass(t *testing.T) {
	b := NewBlacklister(nil)

	b.Process(ontology.SubClass(and(A, B), C))
	assertBlacklisted(t, b, A, B, C)
}

func TestBlacklister_BlacklistedSubject(t *testing.T) {
	b := NewBlacklister(nil)
	b.BlacklistAll([]ontology.Class{A})

	b.Process(ontology.SubClass(A, some(r, B)))
	assertBlacklisted(t, b, A, B)
	assert.Zero(t, b.PendingDependencies())
}

func TestBlacklister_DependencyFiresImmediately(t *testing.T) {
	b := NewBlacklister(nil)

	// A itself is tainted by the first conjunct before the existential
	// conjunct of the same axiom is reached
	b.Process(ontology.SubClass(A, and(ontology.ComplementOf(A), some(r, B))))
	assertBlacklisted(t, b, A, B)
	assert.Zero(t, b.PendingDependencies())
	assert.Equal(t, 1, b.Stats().DependenciesFired)
}

func TestBlacklister_IdempotentBlacklisting(t *testing.T) {
	b := NewBlacklister(nil)
	b.Process(ontology.SubClass(A, some(r, B)))

	b.BlacklistAll([]ontology.Class{A})
	before := b.Stats()
	assertBlacklisted(t, b, A, B)

	b.BlacklistAll([]ontology.Class{A, B, A})
	assertBlacklisted(t, b, A, B)
	assert.Equal(t, before, b.Stats())
}

func TestBlacklister_Monotone(t *testing.T) {
	axioms := []ontology.Axiom{
		ontology.SubClass(A, some(r, B)),
		ontology.SubClass(B, and(C, some(r, D))),
		ontology.SubClass(D, some(r, A)),
		ontology.Disjoint(C, D),
		ontology.SubClass(C, A),
	}
	b := NewBlacklister(nil)
	prev := b.Blacklisted()
	for _, ax := range axioms {
		b.Process(ax)
		cur := b.Blacklisted()
		for c := range prev {
			assert.True(t, cur.Contains(c), "%s dropped after %s", c.IRI, ax)
		}
		prev = cur
	}
}

func TestBlacklister_BlacklistedReturnsCopy(t *testing.T) {
	b := NewBlacklister(nil)
	b.BlacklistAll([]ontology.Class{A})

	snapshot := b.Blacklisted()
	snapshot.Add(B)
	assert.False(t, b.IsBlacklisted(B))
}

func TestBlacklister_LongChain(t *testing.T) {
	const n = 100000
	classes := make([]ontology.Class, n)
	for i := range classes {
		classes[i] = ontology.NewClass("chain" + strconv.Itoa(i))
	}
	b := NewBlacklister(nil)
	for i := 0; i+1 < n; i++ {
		b.Process(ontology.SubClass(classes[i], some(r, classes[i+1])))
	}
	assert.False(t, b.IsBlacklisted(classes[n-1]))

	b.BlacklistAll(classes[:1])
	assert.Equal(t, n, b.Blacklisted().Len())
}
