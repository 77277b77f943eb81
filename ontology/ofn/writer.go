package ofn

import (
	"bufio"
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/c360studio/aboxer/ontology"
)

// ErrEncoderClosed is returned when writing to a closed Encoder.
var ErrEncoderClosed = errors.New("encoder closed")

// Header holds the parts of a document written before the axioms.
type Header struct {
	IRI         ontology.IRI
	VersionIRI  ontology.IRI
	Prefixes    map[string]string
	Imports     []ontology.IRI
	Annotations []string
}

// HeaderOf returns the header of o.
func HeaderOf(o *ontology.Ontology) Header {
	return Header{
		IRI:         o.IRI,
		VersionIRI:  o.VersionIRI,
		Prefixes:    o.Prefixes,
		Imports:     o.Imports,
		Annotations: o.Annotations,
	}
}

// Encoder writes a document one axiom at a time. The header is written
// before the first axiom and the document is closed by Close, so axioms can
// be streamed without holding the ontology in memory.
type Encoder struct {
	w       *bufio.Writer
	header  Header
	abbr    ontology.Abbreviator
	started bool
	closed  bool
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer, h Header) *Encoder {
	return &Encoder{
		w:      bufio.NewWriter(w),
		header: h,
		abbr:   Abbreviator(h.Prefixes),
	}
}

// Encode writes one axiom on its own line.
func (e *Encoder) Encode(ax ontology.Axiom) error {
	if e.closed {
		return ErrEncoderClosed
	}
	if err := e.start(); err != nil {
		return err
	}
	e.w.WriteString(ontology.Render(ax, e.abbr))
	return e.w.WriteByte('\n')
}

// Accept writes ax. It lets an Encoder serve as a conversion sink.
func (e *Encoder) Accept(ax ontology.Axiom) error {
	return e.Encode(ax)
}

// Close terminates the document and flushes buffered output. It does not
// close the underlying writer.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	if err := e.start(); err != nil {
		return err
	}
	e.closed = true
	e.w.WriteString(")\n")
	return e.w.Flush()
}

func (e *Encoder) start() error {
	if e.started {
		return nil
	}
	e.started = true

	h := e.header
	names := make([]string, 0, len(h.Prefixes))
	for name := range h.Prefixes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		e.w.WriteString("Prefix(" + name + ":=<" + h.Prefixes[name] + ">)\n")
	}
	if len(names) > 0 {
		e.w.WriteByte('\n')
	}

	e.w.WriteString("Ontology(")
	if h.IRI != "" {
		e.w.WriteString(ontology.FullIRI(h.IRI))
		if h.VersionIRI != "" {
			e.w.WriteString(" " + ontology.FullIRI(h.VersionIRI))
		}
	}
	e.w.WriteByte('\n')
	for _, iri := range h.Imports {
		e.w.WriteString("Import(" + ontology.FullIRI(iri) + ")\n")
	}
	for _, a := range h.Annotations {
		e.w.WriteString(a + "\n")
	}
	_, err := e.w.WriteString("\n")
	return err
}

// Write writes o as a complete document.
func Write(w io.Writer, o *ontology.Ontology) error {
	enc := NewEncoder(w, HeaderOf(o))
	for _, ax := range o.Axioms() {
		if err := enc.Encode(ax); err != nil {
			return err
		}
	}
	return enc.Close()
}

// Abbreviator returns an ontology.Abbreviator that shortens IRIs to
// prefixed names using the longest matching namespace. IRIs whose local part
// would not be a valid prefixed name stay in full.
func Abbreviator(prefixes map[string]string) ontology.Abbreviator {
	type entry struct{ name, ns string }
	entries := make([]entry, 0, len(prefixes))
	for name, ns := range prefixes {
		entries = append(entries, entry{name, ns})
	}
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].ns) != len(entries[j].ns) {
			return len(entries[i].ns) > len(entries[j].ns)
		}
		return entries[i].name < entries[j].name
	})

	return func(iri ontology.IRI) string {
		s := string(iri)
		for _, e := range entries {
			local, ok := strings.CutPrefix(s, e.ns)
			if ok && validLocalName(local) {
				return e.name + ":" + local
			}
		}
		return ontology.FullIRI(iri)
	}
}

func validLocalName(local string) bool {
	if local == "" {
		return false
	}
	for i, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		case (r == '-' || r == '.') && i > 0:
		default:
			return false
		}
	}
	return !strings.HasSuffix(local, ".")
}
