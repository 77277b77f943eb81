// Package ofn reads and writes ontologies in OWL 2 functional-style syntax.
//
// The reader understands the class-expression axioms the converter works on:
// declarations of classes, object properties and named individuals,
// SubClassOf, EquivalentClasses, DisjointClasses, SubObjectPropertyOf,
// ObjectPropertyDomain, ObjectPropertyRange, ClassAssertion and
// ObjectPropertyAssertion over the object class-expression constructors.
// Any other axiom, or a supported axiom using an unsupported construct, is
// kept as an ontology.OpaqueAxiom with prefixed names expanded. Axiom
// annotations on supported axioms are dropped.
package ofn

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/c360studio/aboxer/ontology"
	"github.com/c360studio/aboxer/vocabulary/owl"
)

// Parse reads a functional-syntax document from r.
func Parse(r io.Reader) (*ontology.Ontology, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read ontology: %w", err)
	}
	return ParseString(string(data))
}

// ParseString parses a functional-syntax document.
func ParseString(src string) (*ontology.Ontology, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{
		toks:     toks,
		prefixes: owl.StandardPrefixes(),
		classes:  map[ontology.IRI]struct{}{owl.Thing: {}, owl.Nothing: {}},
	}
	return p.parseDocument()
}

// unsupportedError marks a well-formed construct the model does not cover.
// The enclosing axiom is then kept opaque.
type unsupportedError struct {
	construct string
}

func (e *unsupportedError) Error() string { return "unsupported " + e.construct }

// pendingOpaque is an opaque axiom whose class signature is resolved once
// every class of the document is known.
type pendingOpaque struct {
	axiom *ontology.OpaqueAxiom
	iris  []ontology.IRI
}

type parser struct {
	toks     []token
	pos      int
	prefixes map[string]string

	// classes holds every IRI used or declared as a class.
	classes map[ontology.IRI]struct{}
	opaque  []pendingOpaque
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	return &SyntaxError{Line: tok.line, Col: tok.col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.next()
	if tok.kind != kind {
		return tok, p.errorf(tok, "expected %s, found %s", kind, describe(tok))
	}
	return tok, nil
}

func (p *parser) expectKeyword(word string) error {
	tok := p.next()
	if tok.kind != tokName || tok.text != word {
		return p.errorf(tok, "expected %s, found %s", word, describe(tok))
	}
	return nil
}

func (p *parser) atKeyword(word string) bool {
	tok := p.peek()
	return tok.kind == tokName && tok.text == word
}

func describe(tok token) string {
	if tok.kind == tokEOF {
		return tok.kind.String()
	}
	return fmt.Sprintf("%q", tok.text)
}

func (p *parser) parseDocument() (*ontology.Ontology, error) {
	o := ontology.New("")
	for p.atKeyword("Prefix") {
		name, iri, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		p.prefixes[name] = iri
		o.Prefixes[name] = iri
	}

	if err := p.expectKeyword("Ontology"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	if p.peek().kind == tokIRI || isPrefixedName(p.peek()) {
		iri, err := p.parseIRI()
		if err != nil {
			return nil, err
		}
		o.IRI = iri
		if p.peek().kind == tokIRI || isPrefixedName(p.peek()) {
			if o.VersionIRI, err = p.parseIRI(); err != nil {
				return nil, err
			}
		}
	}

	for p.peek().kind != tokRParen {
		switch {
		case p.peek().kind == tokEOF:
			return nil, p.errorf(p.peek(), "unterminated Ontology")
		case p.atKeyword("Import"):
			p.next()
			iri, err := p.parseParenthesizedIRI()
			if err != nil {
				return nil, err
			}
			o.Imports = append(o.Imports, iri)
		case p.atKeyword("Annotation"):
			text, _, err := p.parseOpaqueText()
			if err != nil {
				return nil, err
			}
			o.Annotations = append(o.Annotations, text)
		default:
			ax, err := p.parseAxiom()
			if err != nil {
				return nil, err
			}
			o.Add(ax)
		}
	}
	p.next()
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorf(tok, "unexpected %s after Ontology", describe(tok))
	}

	for _, pending := range p.opaque {
		seen := make(map[ontology.IRI]struct{})
		for _, iri := range pending.iris {
			if _, ok := p.classes[iri]; !ok {
				continue
			}
			if _, dup := seen[iri]; dup {
				continue
			}
			seen[iri] = struct{}{}
			pending.axiom.Classes = append(pending.axiom.Classes, ontology.Class{IRI: iri})
		}
	}
	return o, nil
}

func (p *parser) parsePrefix() (string, string, error) {
	p.next() // Prefix
	if _, err := p.expect(tokLParen); err != nil {
		return "", "", err
	}
	nameTok, err := p.expect(tokName)
	if err != nil {
		return "", "", err
	}
	if !strings.HasSuffix(nameTok.text, ":") || strings.Count(nameTok.text, ":") != 1 {
		return "", "", p.errorf(nameTok, "invalid prefix name %q", nameTok.text)
	}
	if _, err := p.expect(tokEquals); err != nil {
		return "", "", err
	}
	iriTok, err := p.expect(tokIRI)
	if err != nil {
		return "", "", err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return "", "", err
	}
	return strings.TrimSuffix(nameTok.text, ":"), iriTok.text, nil
}

func isPrefixedName(tok token) bool {
	return tok.kind == tokName && strings.Contains(tok.text, ":")
}

// expand resolves an IRI or prefixed name token to a full IRI.
func (p *parser) expand(tok token) (ontology.IRI, error) {
	switch {
	case tok.kind == tokIRI:
		return ontology.IRI(tok.text), nil
	case isPrefixedName(tok):
		prefix, local, _ := strings.Cut(tok.text, ":")
		ns, ok := p.prefixes[prefix]
		if !ok {
			return "", p.errorf(tok, "undeclared prefix %q", prefix+":")
		}
		return ontology.IRI(ns + local), nil
	default:
		return "", p.errorf(tok, "expected IRI, found %s", describe(tok))
	}
}

func (p *parser) parseIRI() (ontology.IRI, error) {
	return p.expand(p.next())
}

// parseParenthesizedIRI parses "(iri)".
func (p *parser) parseParenthesizedIRI() (ontology.IRI, error) {
	if _, err := p.expect(tokLParen); err != nil {
		return "", err
	}
	iri, err := p.parseIRI()
	if err != nil {
		return "", err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return "", err
	}
	return iri, nil
}

// supportedAxioms maps axiom keywords to their parsers. The keyword and the
// opening parenthesis are consumed before the parser runs.
var supportedAxioms = map[string]func(p *parser) (ontology.Axiom, error){
	"Declaration":             (*parser).parseDeclaration,
	"SubClassOf":              (*parser).parseSubClassOf,
	"EquivalentClasses":       (*parser).parseEquivalentClasses,
	"DisjointClasses":         (*parser).parseDisjointClasses,
	"SubObjectPropertyOf":     (*parser).parseSubObjectPropertyOf,
	"ObjectPropertyDomain":    (*parser).parseObjectPropertyDomain,
	"ObjectPropertyRange":     (*parser).parseObjectPropertyRange,
	"ClassAssertion":          (*parser).parseClassAssertion,
	"ObjectPropertyAssertion": (*parser).parseObjectPropertyAssertion,
}

func (p *parser) parseAxiom() (ontology.Axiom, error) {
	start := p.pos
	head := p.peek()
	if head.kind != tokName || isPrefixedName(head) {
		return nil, p.errorf(head, "expected axiom, found %s", describe(head))
	}

	if parse, ok := supportedAxioms[head.text]; ok {
		ax, err := p.parseSupported(parse)
		if err == nil {
			return ax, nil
		}
		var unsupported *unsupportedError
		if !errors.As(err, &unsupported) {
			return nil, err
		}
		p.pos = start
	}

	text, iris, err := p.parseOpaqueText()
	if err != nil {
		return nil, err
	}
	opaque := &ontology.OpaqueAxiom{Text: text}
	p.opaque = append(p.opaque, pendingOpaque{axiom: opaque, iris: iris})
	return opaque, nil
}

func (p *parser) parseSupported(parse func(p *parser) (ontology.Axiom, error)) (ontology.Axiom, error) {
	p.next() // keyword
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	for p.atKeyword("Annotation") {
		if _, _, err := p.parseOpaqueText(); err != nil {
			return nil, err
		}
	}
	ax, err := parse(p)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return ax, nil
}

// parseOpaqueText consumes a keyword followed by a balanced parenthesized
// group. It returns the group in normalized form, with prefixed names
// expanded, together with every IRI found in it.
func (p *parser) parseOpaqueText() (string, []ontology.IRI, error) {
	head := p.next()
	if tok := p.peek(); tok.kind != tokLParen {
		return "", nil, p.errorf(tok, "expected '(' after %s", head.text)
	}
	var (
		sb    strings.Builder
		iris  []ontology.IRI
		depth int
	)
	prev := head.kind
	sb.WriteString(head.text)
	for {
		tok := p.next()
		switch tok.kind {
		case tokEOF:
			return "", nil, p.errorf(head, "unterminated %s", head.text)
		case tokLParen:
			depth++
		case tokRParen:
			depth--
		}
		if needsSpace(prev, tok.kind) {
			sb.WriteByte(' ')
		}
		prev = tok.kind

		switch {
		case tok.kind == tokIRI || isPrefixedName(tok):
			iri, err := p.expand(tok)
			if err != nil {
				return "", nil, err
			}
			iris = append(iris, iri)
			sb.WriteString(ontology.FullIRI(iri))
		case tok.kind == tokLiteral:
			lit, err := p.renderLiteral(tok)
			if err != nil {
				return "", nil, err
			}
			sb.WriteString(lit)
		default:
			sb.WriteString(tok.text)
		}

		if depth == 0 {
			return sb.String(), iris, nil
		}
	}
}

// needsSpace reports whether a space separates two adjacent tokens in
// normalized output.
func needsSpace(prev, cur tokenKind) bool {
	switch {
	case cur == tokRParen, prev == tokLParen:
		return false
	case cur == tokLParen && prev == tokName:
		return false
	default:
		return true
	}
}

func (p *parser) renderLiteral(tok token) (string, error) {
	switch {
	case tok.lang != "":
		return tok.text + "@" + tok.lang, nil
	case tok.datatype != nil:
		dt, err := p.expand(*tok.datatype)
		if err != nil {
			return "", err
		}
		return tok.text + "^^" + ontology.FullIRI(dt), nil
	default:
		return tok.text, nil
	}
}

func (p *parser) parseDeclaration() (ontology.Axiom, error) {
	kind := p.next()
	if kind.kind != tokName {
		return nil, p.errorf(kind, "expected entity, found %s", describe(kind))
	}
	iri, err := p.parseParenthesizedIRI()
	if err != nil {
		return nil, err
	}
	switch kind.text {
	case string(ontology.EntityClass):
		p.classes[iri] = struct{}{}
		return ontology.Declare(ontology.Class{IRI: iri}), nil
	case string(ontology.EntityObjectProperty):
		return ontology.Declare(ontology.ObjectProperty{IRI: iri}), nil
	case string(ontology.EntityNamedIndividual):
		return ontology.Declare(ontology.NamedIndividual{IRI: iri}), nil
	default:
		return nil, &unsupportedError{construct: kind.text + " declaration"}
	}
}

func (p *parser) parseSubClassOf() (ontology.Axiom, error) {
	sub, err := p.parseClassExpression()
	if err != nil {
		return nil, err
	}
	super, err := p.parseClassExpression()
	if err != nil {
		return nil, err
	}
	return ontology.SubClass(sub, super), nil
}

func (p *parser) parseEquivalentClasses() (ontology.Axiom, error) {
	operands, err := p.parseClassExpressions(2)
	if err != nil {
		return nil, err
	}
	return ontology.Equivalent(operands...), nil
}

func (p *parser) parseDisjointClasses() (ontology.Axiom, error) {
	operands, err := p.parseClassExpressions(2)
	if err != nil {
		return nil, err
	}
	return ontology.Disjoint(operands...), nil
}

func (p *parser) parseSubObjectPropertyOf() (ontology.Axiom, error) {
	sub, err := p.parseObjectProperty()
	if err != nil {
		return nil, err
	}
	super, err := p.parseObjectProperty()
	if err != nil {
		return nil, err
	}
	return &ontology.SubObjectPropertyOf{Sub: sub, Super: super}, nil
}

func (p *parser) parseObjectPropertyDomain() (ontology.Axiom, error) {
	prop, err := p.parseObjectProperty()
	if err != nil {
		return nil, err
	}
	domain, err := p.parseClassExpression()
	if err != nil {
		return nil, err
	}
	return &ontology.ObjectPropertyDomain{Property: prop, Domain: domain}, nil
}

func (p *parser) parseObjectPropertyRange() (ontology.Axiom, error) {
	prop, err := p.parseObjectProperty()
	if err != nil {
		return nil, err
	}
	rng, err := p.parseClassExpression()
	if err != nil {
		return nil, err
	}
	return &ontology.ObjectPropertyRange{Property: prop, Range: rng}, nil
}

func (p *parser) parseClassAssertion() (ontology.Axiom, error) {
	ce, err := p.parseClassExpression()
	if err != nil {
		return nil, err
	}
	ind, err := p.parseIndividual()
	if err != nil {
		return nil, err
	}
	return ontology.AssertClass(ce, ind), nil
}

func (p *parser) parseObjectPropertyAssertion() (ontology.Axiom, error) {
	prop, err := p.parseObjectProperty()
	if err != nil {
		return nil, err
	}
	subject, err := p.parseIndividual()
	if err != nil {
		return nil, err
	}
	object, err := p.parseIndividual()
	if err != nil {
		return nil, err
	}
	return ontology.AssertProperty(prop, subject, object), nil
}

func (p *parser) parseObjectProperty() (ontology.ObjectProperty, error) {
	tok := p.peek()
	if tok.kind == tokName && !isPrefixedName(tok) {
		return ontology.ObjectProperty{}, &unsupportedError{construct: tok.text}
	}
	iri, err := p.parseIRI()
	if err != nil {
		return ontology.ObjectProperty{}, err
	}
	return ontology.ObjectProperty{IRI: iri}, nil
}

func (p *parser) parseIndividual() (ontology.Individual, error) {
	tok := p.peek()
	if tok.kind == tokBlank {
		p.next()
		return ontology.AnonymousIndividual{ID: tok.text}, nil
	}
	iri, err := p.parseIRI()
	if err != nil {
		return nil, err
	}
	return ontology.NamedIndividual{IRI: iri}, nil
}

// parseClassExpressions parses class expressions up to the closing
// parenthesis, which is left unread.
func (p *parser) parseClassExpressions(atLeast int) ([]ontology.ClassExpression, error) {
	var out []ontology.ClassExpression
	for p.peek().kind != tokRParen && p.peek().kind != tokEOF {
		ce, err := p.parseClassExpression()
		if err != nil {
			return nil, err
		}
		out = append(out, ce)
	}
	if len(out) < atLeast {
		return nil, p.errorf(p.peek(), "expected at least %d class expressions, found %d", atLeast, len(out))
	}
	return out, nil
}

func (p *parser) parseClassExpression() (ontology.ClassExpression, error) {
	tok := p.peek()
	if tok.kind == tokIRI || isPrefixedName(tok) {
		iri, err := p.parseIRI()
		if err != nil {
			return nil, err
		}
		p.classes[iri] = struct{}{}
		return ontology.Class{IRI: iri}, nil
	}
	if tok.kind != tokName {
		return nil, p.errorf(tok, "expected class expression, found %s", describe(tok))
	}

	p.next()
	switch tok.text {
	case "ObjectIntersectionOf", "ObjectUnionOf", "ObjectComplementOf",
		"ObjectSomeValuesFrom", "ObjectAllValuesFrom", "ObjectHasValue", "ObjectOneOf":
	default:
		return nil, &unsupportedError{construct: tok.text}
	}
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}

	var (
		ce  ontology.ClassExpression
		err error
	)
	switch tok.text {
	case "ObjectIntersectionOf":
		var operands []ontology.ClassExpression
		if operands, err = p.parseClassExpressions(2); err == nil {
			ce = ontology.IntersectionOf(operands...)
		}
	case "ObjectUnionOf":
		var operands []ontology.ClassExpression
		if operands, err = p.parseClassExpressions(2); err == nil {
			ce = ontology.UnionOf(operands...)
		}
	case "ObjectComplementOf":
		var operand ontology.ClassExpression
		if operand, err = p.parseClassExpression(); err == nil {
			ce = ontology.ComplementOf(operand)
		}
	case "ObjectSomeValuesFrom", "ObjectAllValuesFrom":
		ce, err = p.parseRestriction(tok.text == "ObjectSomeValuesFrom")
	case "ObjectHasValue":
		var prop ontology.ObjectProperty
		if prop, err = p.parseObjectProperty(); err == nil {
			var ind ontology.Individual
			if ind, err = p.parseIndividual(); err == nil {
				ce = ontology.HasValue(prop, ind)
			}
		}
	case "ObjectOneOf":
		var individuals []ontology.Individual
		for err == nil && p.peek().kind != tokRParen {
			var ind ontology.Individual
			if ind, err = p.parseIndividual(); err == nil {
				individuals = append(individuals, ind)
			}
		}
		if err == nil && len(individuals) == 0 {
			err = p.errorf(p.peek(), "ObjectOneOf needs at least one individual")
		}
		ce = ontology.OneOf(individuals...)
	}
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return ce, nil
}

func (p *parser) parseRestriction(existential bool) (ontology.ClassExpression, error) {
	prop, err := p.parseObjectProperty()
	if err != nil {
		return nil, err
	}
	filler, err := p.parseClassExpression()
	if err != nil {
		return nil, err
	}
	if existential {
		return ontology.SomeValuesFrom(prop, filler), nil
	}
	return ontology.AllValuesFrom(prop, filler), nil
}
