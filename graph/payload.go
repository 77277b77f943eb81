package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/c360studio/aboxer/vocabulary/individual"
	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"
)

func init() {
	err := component.RegisterPayload(&component.PayloadRegistration{
		Domain:      "aboxer",
		Category:    "individual",
		Version:     "v1",
		Description: "Individual produced by a TBox to ABox conversion, with its assertions as triples",
		Factory:     func() any { return &EntityPayload{} },
	})
	if err != nil {
		panic("failed to register EntityPayload: " + err.Error())
	}
}

// EntityType is the message type for individual payloads.
var EntityType = message.Type{Domain: "aboxer", Category: "individual", Version: "v1"}

// EntityPayload is one individual of a converted ABox as a graph entity.
// Named individuals are keyed by their IRI and anonymous ones by
// "<source>#_:label" (see EntityID). Every triple has the entity as subject:
// the individual.Source and individual.Kind metadata first, then rdf:type
// for each class assertion and one triple per object property assertion.
//
// It implements message.Payload and graph.Graphable.
type EntityPayload struct {
	EntityID_  string           `json:"id"`
	TripleData []message.Triple `json:"triples"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func (e *EntityPayload) EntityID() string          { return e.EntityID_ }
func (e *EntityPayload) Triples() []message.Triple { return e.TripleData }
func (e *EntityPayload) Schema() message.Type      { return EntityType }

// Kind returns the individual.Kind value of the entity, or "" when the
// triple is missing.
func (e *EntityPayload) Kind() string {
	for _, t := range e.TripleData {
		if t.Predicate == individual.Kind {
			k, _ := t.Object.(string)
			return k
		}
	}
	return ""
}

// Validate checks that the payload describes exactly one individual and says
// whether it is named or anonymous.
func (e *EntityPayload) Validate() error {
	if e.EntityID_ == "" {
		return errors.New("entity ID is required")
	}
	if len(e.TripleData) == 0 {
		return errors.New("entity has no triples")
	}
	for _, t := range e.TripleData {
		if t.Subject != e.EntityID_ {
			return fmt.Errorf("triple %s has subject %q, want %q", t.Predicate, t.Subject, e.EntityID_)
		}
	}
	switch k := e.Kind(); k {
	case individual.KindNamed, individual.KindAnonymous:
		return nil
	case "":
		return fmt.Errorf("entity %s has no %s triple", e.EntityID_, individual.Kind)
	default:
		return fmt.Errorf("entity %s has unknown kind %q", e.EntityID_, k)
	}
}

func (e *EntityPayload) MarshalJSON() ([]byte, error) {
	type Alias EntityPayload
	return json.Marshal((*Alias)(e))
}

func (e *EntityPayload) UnmarshalJSON(data []byte) error {
	type Alias EntityPayload
	return json.Unmarshal(data, (*Alias)(e))
}
