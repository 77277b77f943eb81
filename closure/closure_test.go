package closure

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/aboxer/aboxer"
	"github.com/c360studio/aboxer/ontology"
)

var (
	A = ontology.NewClass("A")
	B = ontology.NewClass("B")
	C = ontology.NewClass("C")
	D = ontology.NewClass("D")
	E = ontology.NewClass("E")

	r = ontology.NewObjectProperty("r")
)

func engineBlacklist(axioms []ontology.Axiom) ontology.ClassSet {
	b := aboxer.NewBlacklister(nil)
	b.ProcessAll(axioms)
	return b.Blacklisted()
}

func TestExtract(t *testing.T) {
	facts := Extract([]ontology.Axiom{
		ontology.Declare(A),
		ontology.SubClass(A, ontology.IntersectionOf(B,
			ontology.SomeValuesFrom(r, C),
			ontology.SomeValuesFrom(r, ontology.IntersectionOf(D, ontology.SomeValuesFrom(r, E))))),
		ontology.Disjoint(C, D),
	})

	assert.Equal(t, []ontology.Class{B, C, D}, facts.Tainted.Sorted())
	require.Len(t, facts.Depends, 1)
	assert.Equal(t, []ontology.Class{C, E}, facts.Depends[A].Sorted())
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name   string
		axioms []ontology.Axiom
		want   []ontology.Class
	}{
		{"empty", nil, []ontology.Class{}},
		{
			"direct",
			[]ontology.Axiom{ontology.SubClass(A, B)},
			[]ontology.Class{B},
		},
		{
			"dependency chain",
			[]ontology.Axiom{
				ontology.SubClass(A, ontology.SomeValuesFrom(r, B)),
				ontology.SubClass(B, ontology.SomeValuesFrom(r, C)),
				ontology.SubClass(D, A),
			},
			[]ontology.Class{A, B, C},
		},
		{
			"cycle",
			[]ontology.Axiom{
				ontology.SubClass(A, ontology.SomeValuesFrom(r, B)),
				ontology.SubClass(B, ontology.SomeValuesFrom(r, A)),
			},
			[]ontology.Class{},
		},
		{
			"tainted cycle",
			[]ontology.Axiom{
				ontology.SubClass(A, ontology.SomeValuesFrom(r, B)),
				ontology.SubClass(B, ontology.SomeValuesFrom(r, A)),
				ontology.SubClass(C, ontology.AllValuesFrom(r, B)),
			},
			[]ontology.Class{A, B},
		},
		{
			"complex subclass",
			[]ontology.Axiom{
				ontology.SubClass(ontology.SomeValuesFrom(r, A), ontology.SomeValuesFrom(r, B)),
			},
			[]ontology.Class{A, B},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.axioms)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func randomAxioms(rng *rand.Rand, n int) []ontology.Axiom {
	classes := []ontology.Class{A, B, C, D, E}
	pick := func() ontology.Class { return classes[rng.Intn(len(classes))] }

	var expr func(depth int) ontology.ClassExpression
	expr = func(depth int) ontology.ClassExpression {
		switch k := rng.Intn(6); {
		case depth > 2 || k < 2:
			return pick()
		case k == 2:
			return ontology.SomeValuesFrom(r, pick())
		case k == 3:
			return ontology.SomeValuesFrom(r, ontology.IntersectionOf(expr(depth+1), expr(depth+1)))
		case k == 4:
			return ontology.IntersectionOf(expr(depth+1), expr(depth+1))
		default:
			return ontology.ComplementOf(pick())
		}
	}

	axioms := make([]ontology.Axiom, 0, n)
	for i := 0; i < n; i++ {
		switch rng.Intn(12) {
		case 0:
			axioms = append(axioms, ontology.Declare(pick()))
		case 1:
			axioms = append(axioms, ontology.Disjoint(pick(), pick()))
		case 2:
			axioms = append(axioms, ontology.SubClass(expr(1), pick()))
		default:
			axioms = append(axioms, ontology.SubClass(pick(), expr(0)))
		}
	}
	return axioms
}

func TestCompute_AgreesWithEngine(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 100; round++ {
		axioms := randomAxioms(rng, 1+rng.Intn(8))
		want := engineBlacklist(axioms).Sorted()
		got, err := Compute(axioms)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("round %d: %v (-engine +datalog):\n%s", round, axioms, diff)
		}
	}
}

func TestVerify(t *testing.T) {
	axioms := []ontology.Axiom{
		ontology.SubClass(A, ontology.SomeValuesFrom(r, B)),
		ontology.SubClass(C, ontology.AllValuesFrom(r, A)),
	}
	require.NoError(t, Verify(axioms, engineBlacklist(axioms)))

	err := Verify(axioms, ontology.NewClassSet(A, D))
	require.ErrorIs(t, err, ErrMismatch)
	assert.Equal(t, "blacklist mismatch: missing [<B>], unexpected [<D>]", err.Error())
}
