// Package sink provides destinations for converted axioms: document
// writers, a NATS publisher, and combinators over aboxer.Sink.
package sink

import (
	"errors"

	"github.com/c360studio/aboxer/aboxer"
	"github.com/c360studio/aboxer/ontology"
)

// WriteCloser is a sink that must be closed to complete its output.
type WriteCloser interface {
	aboxer.Sink
	Close() error
}

// Fanout hands every axiom to each sink in turn. The first error stops
// delivery of that axiom to the remaining sinks.
type Fanout []aboxer.Sink

// Accept implements aboxer.Sink.
func (f Fanout) Accept(ax ontology.Axiom) error {
	for _, s := range f {
		if err := s.Accept(ax); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink that implements Close and joins their errors.
func (f Fanout) Close() error {
	var errs []error
	for _, s := range f {
		if c, ok := s.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Counter counts accepted axioms by kind before passing them on. A nil Next
// only counts.
type Counter struct {
	Next   aboxer.Sink
	counts map[ontology.AxiomKind]int
	total  int
}

// Accept implements aboxer.Sink.
func (c *Counter) Accept(ax ontology.Axiom) error {
	if c.counts == nil {
		c.counts = make(map[ontology.AxiomKind]int)
	}
	c.counts[ax.Kind()]++
	c.total++
	if c.Next == nil {
		return nil
	}
	return c.Next.Accept(ax)
}

// Count returns the number of accepted axioms of kind k.
func (c *Counter) Count(k ontology.AxiomKind) int { return c.counts[k] }

// Total returns the number of accepted axioms.
func (c *Counter) Total() int { return c.total }
