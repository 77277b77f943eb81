package aboxer

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/c360studio/aboxer/ontology"
)

// AnonymousIDGenerator hands out labels for fresh anonymous individuals.
// Every call must return a label never returned before by the same generator.
type AnonymousIDGenerator interface {
	Next() ontology.AnonymousIndividual
}

// SequentialIDs numbers anonymous individuals _:anon1, _:anon2, ... so the
// output of a conversion is reproducible. Reserved labels are skipped.
type SequentialIDs struct {
	Prefix string
	n      uint64
	taken  map[string]struct{}
}

// NewSequentialIDs returns a generator producing labels "_:<prefix>N".
// An empty prefix defaults to "anon".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "anon"
	}
	return &SequentialIDs{Prefix: prefix}
}

// Next returns the next label that is not reserved.
func (g *SequentialIDs) Next() ontology.AnonymousIndividual {
	for {
		g.n++
		id := "_:" + g.Prefix + strconv.FormatUint(g.n, 10)
		if _, ok := g.taken[id]; !ok {
			return ontology.AnonymousIndividual{ID: id}
		}
	}
}

// Reserve marks individuals that already exist so Next never returns them.
func (g *SequentialIDs) Reserve(inds ...ontology.AnonymousIndividual) {
	if g.taken == nil {
		g.taken = make(map[string]struct{}, len(inds))
	}
	for _, ind := range inds {
		g.taken[ind.ID] = struct{}{}
	}
}

// reserver is implemented by generators whose labels could collide with
// anonymous individuals of the input.
type reserver interface {
	Reserve(inds ...ontology.AnonymousIndividual)
}

// UUIDIDs labels anonymous individuals with random UUIDs, so labels from
// separate runs can be merged without clashes.
type UUIDIDs struct{}

// Next returns a label derived from a new random UUID.
func (UUIDIDs) Next() ontology.AnonymousIndividual {
	return ontology.AnonymousIndividual{ID: "_:" + uuid.New().String()}
}

// NewIDGenerator returns the generator registered under name: "sequential"
// (or empty) and "uuid".
func NewIDGenerator(name string) (AnonymousIDGenerator, error) {
	switch name {
	case "", AnonymousIDsSequential:
		return NewSequentialIDs(""), nil
	case AnonymousIDsUUID:
		return UUIDIDs{}, nil
	default:
		return nil, ErrUnknownIDScheme
	}
}

// Anonymous ID scheme names accepted by NewIDGenerator.
const (
	AnonymousIDsSequential = "sequential"
	AnonymousIDsUUID       = "uuid"
)
