package graph

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/c360studio/semstreams/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/aboxer/aboxer"
	"github.com/c360studio/aboxer/ontology"
	"github.com/c360studio/aboxer/vocabulary/individual"
	"github.com/c360studio/aboxer/vocabulary/owl"
)

type published struct {
	subject string
	data    []byte
}

type fakeStream struct {
	msgs []published
	err  error
}

func (f *fakeStream) PublishToStream(_ context.Context, subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, published{subject, data})
	return nil
}

func decode(t *testing.T, data []byte) EntityPayload {
	t.Helper()
	var e EntityPayload
	require.NoError(t, json.Unmarshal(data, &e))
	return e
}

func TestSink_GroupsByIndividual(t *testing.T) {
	const ex = "http://example.org/"
	a := ontology.NewClass(ex + "A")
	b := ontology.NewClass(ex + "B")
	c := ontology.NewClass(ex + "C")
	r := ontology.NewObjectProperty(ex + "r")

	axioms := []ontology.Axiom{
		ontology.Declare(a),
		ontology.SubClass(a, b),
		ontology.SubClass(a, ontology.SomeValuesFrom(r, ontology.IntersectionOf(b, c))),
	}

	pub := &fakeStream{}
	s := NewSink(context.Background(), pub, "pets.ofn", nil)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	_, err := aboxer.Aboxify(context.Background(), axioms, s)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.Equal(t, 2, s.Entities())
	require.Len(t, pub.msgs, 2)
	for _, m := range pub.msgs {
		assert.Equal(t, GraphIngestSubject, m.subject)
	}

	first := decode(t, pub.msgs[0].data)
	assert.Equal(t, ex+"A", first.EntityID())
	assert.True(t, fixed.Equal(first.UpdatedAt))
	require.NoError(t, first.Validate())

	predicates := map[string]any{}
	for _, tr := range first.Triples() {
		assert.Equal(t, "pets.ofn", tr.Source)
		assert.Equal(t, ex+"A", tr.Subject)
		if tr.Predicate == owl.RDFType {
			continue
		}
		predicates[tr.Predicate] = tr.Object
	}
	assert.Equal(t, "pets.ofn#_:anon1", predicates[ex+"r"])
	assert.Equal(t, "pets.ofn", predicates[individual.Source])
	assert.Equal(t, individual.KindNamed, predicates[individual.Kind])

	second := decode(t, pub.msgs[1].data)
	assert.Equal(t, "pets.ofn#_:anon1", second.EntityID())
	require.Len(t, second.Triples(), 4)
	require.NoError(t, second.Validate())
	assert.Equal(t, individual.KindAnonymous, second.Kind())
	assert.Equal(t, individual.Source, second.Triples()[0].Predicate)
	assert.Equal(t, individual.Kind, second.Triples()[1].Predicate)
	assert.Equal(t, individual.KindAnonymous, second.Triples()[1].Object)
	assert.Equal(t, owl.RDFType, second.Triples()[2].Predicate)
	assert.Equal(t, ex+"B", second.Triples()[2].Object)
	assert.Equal(t, owl.RDFType, second.Triples()[3].Predicate)
	assert.Equal(t, ex+"C", second.Triples()[3].Object)
}

func TestSink_IgnoresOtherAxioms(t *testing.T) {
	pub := &fakeStream{}
	s := NewSink(context.Background(), pub, "src", nil)

	require.NoError(t, s.Accept(ontology.Declare(ontology.NewClass("http://example.org/A"))))
	require.NoError(t, s.Close())

	assert.Zero(t, s.Entities())
	assert.Empty(t, pub.msgs)
}

func TestSink_PublishError(t *testing.T) {
	boom := errors.New("stream unavailable")
	pub := &fakeStream{err: boom}
	s := NewSink(context.Background(), pub, "src", nil)

	ind := ontology.NamedIndividual{IRI: "http://example.org/a"}
	require.NoError(t, s.Accept(ontology.AssertClass(ontology.NewClass("http://example.org/A"), ind)))

	err := s.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "http://example.org/a")
}

func TestSink_NilPublisher(t *testing.T) {
	s := NewSink(context.Background(), nil, "src", nil)
	ind := ontology.NamedIndividual{IRI: "http://example.org/a"}
	require.NoError(t, s.Accept(ontology.AssertClass(ontology.NewClass("http://example.org/A"), ind)))
	assert.NoError(t, s.Close())
}

func TestEntityID(t *testing.T) {
	assert.Equal(t, "http://example.org/a", EntityID(ontology.NamedIndividual{IRI: "http://example.org/a"}, "src"))
	assert.Equal(t, "src#_:b0", EntityID(ontology.AnonymousIndividual{ID: "_:b0"}, "src"))
}

func TestEntityPayload_Validate(t *testing.T) {
	kind := func(subject, value string) message.Triple {
		return message.Triple{Subject: subject, Predicate: individual.Kind, Object: value}
	}
	typed := message.Triple{Subject: ex + "A", Predicate: owl.RDFType, Object: ex + "B"}

	tests := []struct {
		name    string
		payload EntityPayload
		wantErr string
	}{
		{name: "empty", payload: EntityPayload{}, wantErr: "entity ID is required"},
		{name: "no triples", payload: EntityPayload{EntityID_: ex + "A"}, wantErr: "no triples"},
		{
			name:    "missing kind",
			payload: EntityPayload{EntityID_: ex + "A", TripleData: []message.Triple{typed}},
			wantErr: "has no " + individual.Kind,
		},
		{
			name:    "unknown kind",
			payload: EntityPayload{EntityID_: ex + "A", TripleData: []message.Triple{kind(ex+"A", "blank"), typed}},
			wantErr: `unknown kind "blank"`,
		},
		{
			name:    "foreign subject",
			payload: EntityPayload{EntityID_: ex + "A", TripleData: []message.Triple{kind(ex+"B", individual.KindNamed)}},
			wantErr: "has subject",
		},
		{
			name:    "named",
			payload: EntityPayload{EntityID_: ex + "A", TripleData: []message.Triple{kind(ex+"A", individual.KindNamed), typed}},
		},
		{
			name:    "anonymous",
			payload: EntityPayload{EntityID_: "src#_:anon1", TripleData: []message.Triple{kind("src#_:anon1", individual.KindAnonymous)}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
	assert.Equal(t, EntityType, (&EntityPayload{}).Schema())
	assert.Equal(t, "", (&EntityPayload{}).Kind())
}
