package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/c360studio/aboxer/vocabulary/owl"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatFunctional produces OWL 2 functional-style syntax (.ofn).
	FormatFunctional Format = "ofn"

	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string

	// RDF is set for formats written through the RDF mapping.
	RDF bool
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatFunctional: {
		Name:        FormatFunctional,
		MIMEType:    "text/owl-functional",
		Extension:   ".ofn",
		Description: "OWL 2 functional-style syntax",
	},
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
		RDF:         true,
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
		RDF:         true,
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Description: "JSON-LD - JSON for Linked Data",
		RDF:         true,
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat returns the format named s, ignoring case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if _, ok := FormatRegistry[f]; !ok {
		return "", fmt.Errorf("unsupported format %q (want one of %s)", s, strings.Join(FormatNames(), ", "))
	}
	return f, nil
}

// FormatNames returns the registered format names in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// JSONLDDocument represents a JSON-LD document structure.
type JSONLDDocument struct {
	Context map[string]string `json:"@context"`
	Graph   []JSONLDNode      `json:"@graph"`
}

// JSONLDNode represents a node in a JSON-LD graph. Property keys are full
// predicate IRIs and values are node references.
type JSONLDNode struct {
	ID         string
	Properties map[string][]JSONLDRef
}

// JSONLDRef references another node by @id.
type JSONLDRef struct {
	ID string `json:"@id"`
}

// MarshalJSON implements custom JSON marshaling for JSONLDNode.
func (n JSONLDNode) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(n.Properties)+1)
	m["@id"] = n.ID
	for k, v := range n.Properties {
		m[k] = v
	}
	return json.Marshal(m)
}

// JSONLDWriter collects triples into nodes and writes the document on Close.
// Nodes appear in the order their subject was first seen.
type JSONLDWriter struct {
	w      io.Writer
	doc    JSONLDDocument
	index  map[Term]int
	closed bool
}

// NewJSONLDWriter creates a new JSON-LD writer. prefixes become the @context
// together with the standard prefixes.
func NewJSONLDWriter(w io.Writer, prefixes map[string]string) *JSONLDWriter {
	ctx := owl.StandardPrefixes()
	for k, v := range prefixes {
		if k != "" {
			ctx[k] = v
		}
	}
	return &JSONLDWriter{
		w: w,
		doc: JSONLDDocument{
			Context: ctx,
			Graph:   make([]JSONLDNode, 0),
		},
		index: make(map[Term]int),
	}
}

// WriteTriple adds t to the node of its subject.
func (w *JSONLDWriter) WriteTriple(t Triple) error {
	if w.closed {
		return ErrWriterClosed
	}
	i, ok := w.index[t.Subject]
	if !ok {
		i = len(w.doc.Graph)
		w.index[t.Subject] = i
		w.doc.Graph = append(w.doc.Graph, JSONLDNode{
			ID:         jsonldID(t.Subject),
			Properties: make(map[string][]JSONLDRef),
		})
	}
	node := &w.doc.Graph[i]
	node.Properties[t.Predicate.Value] = append(node.Properties[t.Predicate.Value], JSONLDRef{ID: jsonldID(t.Object)})
	return nil
}

// Close writes the document.
func (w *JSONLDWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	bw := bufio.NewWriter(w.w)
	enc := json.NewEncoder(bw)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(w.doc); err != nil {
		return err
	}
	return bw.Flush()
}

func jsonldID(t Term) string {
	if t.Blank {
		return "_:" + t.Value
	}
	return t.Value
}
