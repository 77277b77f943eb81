package aboxer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/aboxer/ontology"
)

func TestAssertionCreator_Conversions(t *testing.T) {
	tests := []struct {
		name        string
		blacklist   []ontology.Class
		axiom       ontology.Axiom
		classes     []ontology.Class
		individuals []ontology.Class
		classAx     int
		propertyAx  int
		stats       Stats
	}{
		{
			name:        "subsumption with blacklisted superclass",
			blacklist:   []ontology.Class{B},
			axiom:       ontology.SubClass(A, B),
			classes:     []ontology.Class{B},
			individuals: []ontology.Class{A},
			classAx:     1,
			stats:       Stats{ClassAssertions: 1},
		},
		{
			name:        "existential",
			axiom:       ontology.SubClass(A, some(r, B)),
			individuals: []ontology.Class{A, B},
			propertyAx:  1,
			stats:       Stats{PropertyAssertions: 1},
		},
		{
			name:        "existential with blacklisted filler",
			blacklist:   []ontology.Class{B},
			axiom:       ontology.SubClass(A, some(r, B)),
			classes:     []ontology.Class{B},
			individuals: []ontology.Class{A},
			classAx:     1,
			stats:       Stats{ClassAssertions: 1},
		},
		{
			name:      "blacklisted subject passes through",
			blacklist: []ontology.Class{A, B},
			axiom:     ontology.SubClass(A, some(r, B)),
			classes:   []ontology.Class{A, B},
		},
		{
			name:        "conjunction",
			blacklist:   []ontology.Class{B, C},
			axiom:       ontology.SubClass(A, and(B, C)),
			classes:     []ontology.Class{B, C},
			individuals: []ontology.Class{A},
			classAx:     2,
			stats:       Stats{ClassAssertions: 2},
		},
		{
			name:        "nested conjunctions",
			blacklist:   []ontology.Class{B, C},
			axiom:       ontology.SubClass(A, and(B, and(C, D))),
			classes:     []ontology.Class{B, C, D},
			individuals: []ontology.Class{A},
			classAx:     3,
			stats:       Stats{ClassAssertions: 3},
		},
		{
			name:        "conjunction with existential",
			blacklist:   []ontology.Class{B},
			axiom:       ontology.SubClass(A, and(B, some(r, C))),
			classes:     []ontology.Class{B},
			individuals: []ontology.Class{A, C},
			classAx:     1,
			propertyAx:  1,
			stats:       Stats{ClassAssertions: 1, PropertyAssertions: 1},
		},
		{
			name:        "conjunction with existential to blacklisted filler",
			blacklist:   []ontology.Class{B, C},
			axiom:       ontology.SubClass(A, and(B, some(r, C))),
			classes:     []ontology.Class{B, C},
			individuals: []ontology.Class{A},
			classAx:     2,
			stats:       Stats{ClassAssertions: 2},
		},
		{
			name:        "existential with conjunctive filler",
			blacklist:   []ontology.Class{B, C},
			axiom:       ontology.SubClass(A, some(r, and(B, C))),
			classes:     []ontology.Class{B, C},
			individuals: []ontology.Class{A},
			classAx:     2,
			propertyAx:  1,
			stats:       Stats{AnonymousIndividuals: 1, ClassAssertions: 2, PropertyAssertions: 1},
		},
		{
			name:        "nested existential",
			blacklist:   []ontology.Class{B},
			axiom:       ontology.SubClass(A, some(r, and(B, some(r, C)))),
			classes:     []ontology.Class{B},
			individuals: []ontology.Class{A, C},
			classAx:     1,
			propertyAx:  2,
			stats:       Stats{AnonymousIndividuals: 1, ClassAssertions: 1, PropertyAssertions: 2},
		},
		{
			name:        "nested existential with blacklisted filler",
			blacklist:   []ontology.Class{B, C},
			axiom:       ontology.SubClass(A, some(r, and(B, some(r, C)))),
			classes:     []ontology.Class{B, C},
			individuals: []ontology.Class{A},
			classAx:     2,
			propertyAx:  1,
			stats:       Stats{AnonymousIndividuals: 1, ClassAssertions: 2, PropertyAssertions: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ontology.New("")
			creator := NewAssertionCreator(ontology.NewClassSet(tt.blacklist...), out, nil)

			require.NoError(t, creator.Process(tt.axiom))

			assert.ElementsMatch(t, tt.classes, out.ClassesInSignature())

			var individuals []ontology.NamedIndividual
			for _, c := range tt.individuals {
				individuals = append(individuals, ontology.IndividualOf(c))
			}
			assert.ElementsMatch(t, individuals, out.IndividualsInSignature())

			assert.Len(t, out.ClassAssertions(), tt.classAx)
			assert.Len(t, out.ObjectPropertyAssertions(), tt.propertyAx)
			assert.Equal(t, tt.stats, creator.Stats())
		})
	}
}

func TestAssertionCreator_ExactOutput(t *testing.T) {
	tests := []struct {
		name      string
		blacklist []ontology.Class
		axiom     ontology.Axiom
		want      []string
	}{
		{
			name:      "direct conversion",
			blacklist: []ontology.Class{B},
			axiom:     ontology.SubClass(A, B),
			want:      []string{"ClassAssertion(<B> <A>)"},
		},
		{
			name:  "existential to relation",
			axiom: ontology.SubClass(A, some(r, B)),
			want:  []string{"ObjectPropertyAssertion(<r> <A> <B>)"},
		},
		{
			name:      "existential to class",
			blacklist: []ontology.Class{B},
			axiom:     ontology.SubClass(A, some(r, B)),
			want:      []string{"ClassAssertion(ObjectSomeValuesFrom(<r> <B>) <A>)"},
		},
		{
			name:      "conjunction splitting",
			blacklist: []ontology.Class{B, C},
			axiom:     ontology.SubClass(A, and(B, C)),
			want:      []string{"ClassAssertion(<B> <A>)", "ClassAssertion(<C> <A>)"},
		},
		{
			name:      "anonymous individual shared by its class assertions",
			blacklist: []ontology.Class{B, C},
			axiom:     ontology.SubClass(A, some(r, and(B, C))),
			want: []string{
				"ObjectPropertyAssertion(<r> <A> _:anon1)",
				"ClassAssertion(<B> _:anon1)",
				"ClassAssertion(<C> _:anon1)",
			},
		},
		{
			name:      "depth-first order across nesting levels",
			blacklist: []ontology.Class{B, C, D},
			axiom:     ontology.SubClass(A, and(some(r, and(B, some(r, and(C, D)))), D)),
			want: []string{
				"ObjectPropertyAssertion(<r> <A> _:anon1)",
				"ClassAssertion(<B> _:anon1)",
				"ObjectPropertyAssertion(<r> _:anon1 _:anon2)",
				"ClassAssertion(<C> _:anon2)",
				"ClassAssertion(<D> _:anon2)",
				"ClassAssertion(<D> <A>)",
			},
		},
		{
			name:      "universal restriction is asserted as a class",
			blacklist: []ontology.Class{B},
			axiom:     ontology.SubClass(A, ontology.AllValuesFrom(r, B)),
			want:      []string{"ClassAssertion(ObjectAllValuesFrom(<r> <B>) <A>)"},
		},
		{
			name:  "class declaration becomes individual declaration",
			axiom: ontology.Declare(A),
			want:  []string{"Declaration(NamedIndividual(<A>))"},
		},
		{
			name:      "declaration of blacklisted class passes through",
			blacklist: []ontology.Class{A},
			axiom:     ontology.Declare(A),
			want:      []string{"Declaration(Class(<A>))"},
		},
		{
			name:  "property declaration passes through",
			axiom: ontology.Declare(r),
			want:  []string{"Declaration(ObjectProperty(<r>))"},
		},
		{
			name:      "complex subclass passes through",
			blacklist: []ontology.Class{A, B, C},
			axiom:     ontology.SubClass(and(A, B), C),
			want:      []string{"SubClassOf(ObjectIntersectionOf(<A> <B>) <C>)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out Collector
			creator := NewAssertionCreator(ontology.NewClassSet(tt.blacklist...), &out, nil)

			require.NoError(t, creator.Process(tt.axiom))

			got := make([]string, len(out.Axioms))
			for i, ax := range out.Axioms {
				got[i] = ax.String()
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAssertionCreator_FreshAnonymousIndividuals(t *testing.T) {
	var out Collector
	creator := NewAssertionCreator(ontology.NewClassSet(B), &out, nil)

	require.NoError(t, creator.ProcessAll([]ontology.Axiom{
		ontology.SubClass(A, some(r, and(B, some(r, C)))),
		ontology.SubClass(C, some(r, and(B, some(r, A)))),
	}))

	assert.Equal(t, 2, creator.Stats().AnonymousIndividuals)
	assert.Equal(t, "ObjectPropertyAssertion(<r> <A> _:anon1)", out.Axioms[0].String())
	assert.Equal(t, "ObjectPropertyAssertion(<r> <C> _:anon2)", out.Axioms[3].String())
}

func TestAssertionCreator_SkipsInputAnonymousIndividuals(t *testing.T) {
	z := ontology.NewClass("Z")
	existing := ontology.AnonymousIndividual{ID: "_:anon1"}

	var out Collector
	creator := NewAssertionCreator(ontology.NewClassSet(B, C, z), &out, nil)
	require.NoError(t, creator.ProcessAll([]ontology.Axiom{
		ontology.AssertClass(z, existing),
		ontology.SubClass(A, some(r, and(B, C))),
	}))

	got := make([]string, len(out.Axioms))
	for i, ax := range out.Axioms {
		got[i] = ax.String()
	}
	assert.Equal(t, []string{
		"ClassAssertion(<Z> _:anon1)",
		"ObjectPropertyAssertion(<r> <A> _:anon2)",
		"ClassAssertion(<B> _:anon2)",
		"ClassAssertion(<C> _:anon2)",
	}, got)
}

func TestSequentialIDs_Reserve(t *testing.T) {
	g := NewSequentialIDs("")
	g.Reserve(
		ontology.AnonymousIndividual{ID: "_:anon1"},
		ontology.AnonymousIndividual{ID: "_:anon3"},
	)
	assert.Equal(t, "_:anon2", g.Next().ID)
	assert.Equal(t, "_:anon4", g.Next().ID)
	assert.Equal(t, "_:anon5", g.Next().ID)
}

func TestAssertionCreator_UUIDIdentifiers(t *testing.T) {
	var out Collector
	creator := NewAssertionCreator(ontology.NewClassSet(B, C), &out, UUIDIDs{})

	require.NoError(t, creator.Process(ontology.SubClass(A, some(r, and(B, C)))))
	require.Len(t, out.Axioms, 3)

	pa, ok := out.Axioms[0].(*ontology.ObjectPropertyAssertion)
	require.True(t, ok)
	anon, ok := pa.Object.(ontology.AnonymousIndividual)
	require.True(t, ok)
	assert.Regexp(t, `^_:[0-9a-f-]{36}$`, anon.ID)
	assert.Equal(t, anon, out.Axioms[1].(*ontology.ClassAssertion).Individual)
}

func TestAssertionCreator_SinkError(t *testing.T) {
	boom := errors.New("disk full")
	calls := 0
	sink := SinkFunc(func(ontology.Axiom) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	})
	creator := NewAssertionCreator(ontology.NewClassSet(B, C, D), sink, nil)

	err := creator.Process(ontology.SubClass(A, and(B, C, D)))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "AssertionCreator.Process: accept axiom failed")
	assert.Equal(t, 2, calls, "walk stops at the first failure")
}
