// Package graph publishes the individuals of a converted ontology to the
// knowledge graph, one entity per individual.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/c360studio/semstreams/message"

	"github.com/c360studio/aboxer/ontology"
	"github.com/c360studio/aboxer/vocabulary/individual"
	"github.com/c360studio/aboxer/vocabulary/owl"
)

// Subject for graph ingestion.
const GraphIngestSubject = "graph.ingest.entity"

// StreamPublisher publishes to a JetStream subject. *natsclient.Client
// satisfies it.
type StreamPublisher interface {
	PublishToStream(ctx context.Context, subject string, data []byte) error
}

// Sink collects class and object property assertions per subject
// individual and publishes one EntityPayload per individual on Close.
// Every entity starts with its source and kind metadata triples. Other
// axioms are ignored.
type Sink struct {
	ctx    context.Context
	pub    StreamPublisher
	source string
	logger *slog.Logger
	now    func() time.Time

	entities map[string]*EntityPayload
	order    []string
}

// NewSink creates a Sink publishing through pub. source is recorded on every
// triple and scopes the entity IDs of anonymous individuals.
func NewSink(ctx context.Context, pub StreamPublisher, source string, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{
		ctx:      ctx,
		pub:      pub,
		source:   source,
		logger:   logger,
		now:      time.Now,
		entities: make(map[string]*EntityPayload),
	}
}

// Accept records the triple of an assertion.
func (s *Sink) Accept(ax ontology.Axiom) error {
	switch a := ax.(type) {
	case *ontology.ClassAssertion:
		var object any = a.Class.String()
		if c, ok := a.Class.(ontology.Class); ok {
			object = string(c.IRI)
		}
		s.add(a.Individual, owl.RDFType, object)
	case *ontology.ObjectPropertyAssertion:
		s.add(a.Subject, string(a.Property.IRI), EntityID(a.Object, s.source))
	}
	return nil
}

func (s *Sink) add(ind ontology.Individual, predicate string, object any) {
	id := EntityID(ind, s.source)
	e, ok := s.entities[id]
	if !ok {
		e = &EntityPayload{EntityID_: id}
		s.entities[id] = e
		s.order = append(s.order, id)

		kind := individual.KindNamed
		if _, anon := ind.(ontology.AnonymousIndividual); anon {
			kind = individual.KindAnonymous
		}
		s.triple(e, individual.Source, s.source)
		s.triple(e, individual.Kind, kind)
	}
	s.triple(e, predicate, object)
}

func (s *Sink) triple(e *EntityPayload, predicate string, object any) {
	e.TripleData = append(e.TripleData, message.Triple{
		Subject:    e.EntityID_,
		Predicate:  predicate,
		Object:     object,
		Source:     s.source,
		Timestamp:  s.now(),
		Confidence: 1.0,
	})
}

// Close publishes the collected entities in the order their individuals were
// first seen. It stops at the first failure.
func (s *Sink) Close() error {
	if s.pub == nil {
		return nil // Skip publishing if no NATS client (graceful degradation)
	}
	now := s.now()
	for _, id := range s.order {
		e := s.entities[id]
		e.UpdatedAt = now
		if err := e.Validate(); err != nil {
			return fmt.Errorf("invalid individual entity: %w", err)
		}

		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal individual entity: %w", err)
		}
		if err := s.pub.PublishToStream(s.ctx, GraphIngestSubject, data); err != nil {
			return fmt.Errorf("publish individual entity %s: %w", id, err)
		}
	}
	s.logger.Debug("Published individuals to graph",
		slog.Int("entities", len(s.order)),
		slog.String("source", s.source))
	return nil
}

// Entities returns the number of distinct individuals collected so far.
func (s *Sink) Entities() int {
	return len(s.order)
}

// EntityID returns the graph entity ID of an individual. Named individuals
// use their IRI. Anonymous individuals are only meaningful inside one
// document, so their label is qualified by source.
// Format: <source>#<label>
func EntityID(ind ontology.Individual, source string) string {
	switch i := ind.(type) {
	case ontology.NamedIndividual:
		return string(i.IRI)
	case ontology.AnonymousIndividual:
		return fmt.Sprintf("%s#%s", source, i.ID)
	default:
		return ind.String()
	}
}
