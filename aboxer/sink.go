package aboxer

import "github.com/c360studio/aboxer/ontology"

// Sink receives every axiom produced by a conversion, exactly once and in
// emission order. An error aborts the conversion; nothing already accepted is
// rolled back.
type Sink interface {
	Accept(ax ontology.Axiom) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ax ontology.Axiom) error

// Accept calls f(ax).
func (f SinkFunc) Accept(ax ontology.Axiom) error { return f(ax) }

// Collector is a Sink that keeps every accepted axiom in a slice, including
// duplicates. It is mainly useful in tests.
type Collector struct {
	Axioms []ontology.Axiom
}

// Accept appends ax.
func (c *Collector) Accept(ax ontology.Axiom) error {
	c.Axioms = append(c.Axioms, ax)
	return nil
}
