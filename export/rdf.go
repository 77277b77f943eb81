// Package export writes ontologies as RDF graphs using the OWL 2 mapping to
// RDF, in N-Triples, Turtle or JSON-LD.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/c360studio/aboxer/ontology"
	"github.com/c360studio/aboxer/ontology/ofn"
	"github.com/c360studio/aboxer/vocabulary/owl"
)

// ErrWriterClosed is returned when writing to a closed writer.
var ErrWriterClosed = errors.New("writer closed")

// Term is an RDF node: an IRI or a blank node.
type Term struct {
	Value string
	Blank bool
}

// IRI returns the term for an IRI.
func IRI(iri string) Term { return Term{Value: iri} }

// Blank returns the blank node with the given label.
func Blank(label string) Term { return Term{Value: label, Blank: true} }

// String returns the N-Triples form of t.
func (t Term) String() string {
	if t.Blank {
		return "_:" + t.Value
	}
	return "<" + escapeIRI(t.Value) + ">"
}

// Triple is a single RDF statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// String returns the N-Triples line of t without the newline.
func (t Triple) String() string {
	return t.Subject.String() + " " + t.Predicate.String() + " " + t.Object.String() + " ."
}

// TripleWriter serializes a stream of triples. Close finishes the document
// and flushes buffered output; it does not close the underlying writer.
type TripleWriter interface {
	WriteTriple(t Triple) error
	Close() error
}

// NTriplesWriter writes one triple per line.
type NTriplesWriter struct {
	w      *bufio.Writer
	closed bool
}

// NewNTriplesWriter creates a new N-Triples writer.
func NewNTriplesWriter(w io.Writer) *NTriplesWriter {
	return &NTriplesWriter{w: bufio.NewWriter(w)}
}

// WriteTriple writes a single triple.
func (w *NTriplesWriter) WriteTriple(t Triple) error {
	if w.closed {
		return ErrWriterClosed
	}
	_, err := w.w.WriteString(t.String() + "\n")
	return err
}

// Close flushes buffered output.
func (w *NTriplesWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.w.Flush()
}

// TurtleWriter writes Turtle. Consecutive triples sharing a subject are
// grouped into one statement, and IRIs are abbreviated with the prefixes
// when the local part is a valid Turtle name.
type TurtleWriter struct {
	w        *bufio.Writer
	prefixes map[string]string
	abbr     []prefixEntry

	started bool
	closed  bool
	subject *Term
}

type prefixEntry struct{ name, ns string }

// NewTurtleWriter creates a Turtle writer. The standard prefixes rdf, rdfs,
// owl and xsd are always declared; prefixes adds to or overrides them.
func NewTurtleWriter(w io.Writer, prefixes map[string]string) *TurtleWriter {
	all := owl.StandardPrefixes()
	for name, ns := range prefixes {
		all[name] = ns
	}
	entries := make([]prefixEntry, 0, len(all))
	for name, ns := range all {
		entries = append(entries, prefixEntry{name, ns})
	}
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].ns) != len(entries[j].ns) {
			return len(entries[i].ns) > len(entries[j].ns)
		}
		return entries[i].name < entries[j].name
	})
	return &TurtleWriter{w: bufio.NewWriter(w), prefixes: all, abbr: entries}
}

// WriteTriple writes t, continuing the open statement when t has the same
// subject as the previous triple.
func (w *TurtleWriter) WriteTriple(t Triple) error {
	if w.closed {
		return ErrWriterClosed
	}
	w.start()
	if w.subject != nil && *w.subject == t.Subject {
		w.w.WriteString(" ;\n    ")
	} else {
		if w.subject != nil {
			w.w.WriteString(" .\n")
		}
		subject := t.Subject
		w.subject = &subject
		w.w.WriteString(w.term(t.Subject) + "\n    ")
	}
	pred := w.term(t.Predicate)
	if !t.Predicate.Blank && t.Predicate.Value == owl.RDFType {
		pred = "a"
	}
	_, err := w.w.WriteString(pred + " " + w.term(t.Object))
	return err
}

// Close terminates the last statement and flushes buffered output.
func (w *TurtleWriter) Close() error {
	if w.closed {
		return nil
	}
	w.start()
	w.closed = true
	if w.subject != nil {
		w.w.WriteString(" .\n")
	}
	return w.w.Flush()
}

func (w *TurtleWriter) start() {
	if w.started {
		return
	}
	w.started = true
	names := make([]string, 0, len(w.prefixes))
	for name := range w.prefixes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w.w, "@prefix %s: <%s> .\n", name, escapeIRI(w.prefixes[name]))
	}
	w.w.WriteString("\n")
}

func (w *TurtleWriter) term(t Term) string {
	if t.Blank {
		return t.String()
	}
	for _, e := range w.abbr {
		local, ok := strings.CutPrefix(t.Value, e.ns)
		if ok && turtleLocalName(local) {
			return e.name + ":" + local
		}
	}
	return t.String()
}

// turtleLocalName reports whether s can follow a prefix without escaping.
// Only a conservative ASCII subset of PN_LOCAL is accepted.
func turtleLocalName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		case (r == '-' || r == '.') && i > 0:
		default:
			return false
		}
	}
	return !strings.HasSuffix(s, ".")
}

// escapeIRI escapes characters that may not appear inside <...>.
func escapeIRI(s string) string {
	if !strings.ContainsAny(s, "<>\"{}|^`\\ ") {
		return s
	}
	var sb strings.Builder
	for _, r := range s {
		if strings.ContainsRune("<>\"{}|^`\\ ", r) {
			fmt.Fprintf(&sb, "\\u%04X", r)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Exporter is a conversion sink that writes every accepted axiom as RDF.
// Axioms without an RDF form are counted and skipped.
type Exporter struct {
	mapper  *Mapper
	out     TripleWriter
	header  ofn.Header
	started bool
	skipped int
}

// NewExporter returns an Exporter writing format to w. The ontology header
// is written before the first axiom.
func NewExporter(w io.Writer, format Format, h ofn.Header) (*Exporter, error) {
	var out TripleWriter
	switch format {
	case FormatNTriples:
		out = NewNTriplesWriter(w)
	case FormatTurtle:
		out = NewTurtleWriter(w, h.Prefixes)
	case FormatJSONLD:
		out = NewJSONLDWriter(w, h.Prefixes)
	default:
		return nil, fmt.Errorf("unsupported RDF format: %s", format)
	}
	return &Exporter{mapper: NewMapper(), out: out, header: h}, nil
}

// Accept writes the triples of ax.
func (e *Exporter) Accept(ax ontology.Axiom) error {
	if err := e.start(); err != nil {
		return err
	}
	triples, ok := e.mapper.Axiom(ax)
	if !ok {
		e.skipped++
		return nil
	}
	return e.write(triples)
}

// Close finishes the document.
func (e *Exporter) Close() error {
	if err := e.start(); err != nil {
		return err
	}
	return e.out.Close()
}

// Skipped returns the number of axioms that had no RDF form.
func (e *Exporter) Skipped() int {
	return e.skipped
}

func (e *Exporter) start() error {
	if e.started {
		return nil
	}
	e.started = true
	return e.write(e.mapper.Header(e.header))
}

func (e *Exporter) write(triples []Triple) error {
	for _, t := range triples {
		if err := e.out.WriteTriple(t); err != nil {
			return err
		}
	}
	return nil
}

// Export writes o as a complete RDF document and returns the number of
// skipped axioms.
func Export(w io.Writer, o *ontology.Ontology, format Format) (int, error) {
	e, err := NewExporter(w, format, ofn.HeaderOf(o))
	if err != nil {
		return 0, err
	}
	for _, ax := range o.Axioms() {
		if err := e.Accept(ax); err != nil {
			return e.Skipped(), err
		}
	}
	return e.Skipped(), e.Close()
}
