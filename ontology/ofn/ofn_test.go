package ofn

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/aboxer/ontology"
)

const pizza = `# small test ontology
Prefix(:=<http://example.org/pizza#>)
Prefix(rdfs:=<http://www.w3.org/2000/01/rdf-schema#>)

Ontology(<http://example.org/pizza> <http://example.org/pizza/1.0>
Import(<http://example.org/base>)
Annotation(rdfs:comment "pizzas"@en)

Declaration(Class(:Pizza))
Declaration(Class(:Margherita))
Declaration(ObjectProperty(:hasTopping))
Declaration(DataProperty(:calories))
SubClassOf(Annotation(rdfs:comment "annotated") :Margherita ObjectIntersectionOf(:Pizza ObjectSomeValuesFrom(:hasTopping :Mozzarella)))
SubClassOf(:Margherita ObjectAllValuesFrom(:hasTopping ObjectUnionOf(:Mozzarella :Tomato)))
EquivalentClasses(:Cheesy ObjectSomeValuesFrom(:hasTopping :Mozzarella))
SubClassOf(:Hot DataHasValue(:calories "900"^^xsd:integer))
TransitiveObjectProperty(:hasTopping)
ClassAssertion(:Pizza :myPizza)
ObjectPropertyAssertion(:hasTopping :myPizza _:t1)
)
`

func TestParse_Document(t *testing.T) {
	o, err := ParseString(pizza)
	require.NoError(t, err)

	assert.Equal(t, ontology.IRI("http://example.org/pizza"), o.IRI)
	assert.Equal(t, ontology.IRI("http://example.org/pizza/1.0"), o.VersionIRI)
	assert.Equal(t, []ontology.IRI{"http://example.org/base"}, o.Imports)
	assert.Equal(t, []string{`Annotation(<http://www.w3.org/2000/01/rdf-schema#comment> "pizzas"@en)`}, o.Annotations)
	assert.Equal(t, map[string]string{
		"":     "http://example.org/pizza#",
		"rdfs": "http://www.w3.org/2000/01/rdf-schema#",
	}, o.Prefixes)
	require.Equal(t, 11, o.Len())

	axioms := o.Axioms()
	abbr := Abbreviator(o.Prefixes)
	render := func(i int) string { return ontology.Render(axioms[i], abbr) }

	assert.Equal(t, "Declaration(Class(:Pizza))", render(0))
	assert.IsType(t, &ontology.OpaqueAxiom{}, axioms[3])
	assert.Equal(t, "Declaration(DataProperty(<http://example.org/pizza#calories>))", render(3))
	assert.Equal(t, "SubClassOf(:Margherita ObjectIntersectionOf(:Pizza ObjectSomeValuesFrom(:hasTopping :Mozzarella)))", render(4))
	assert.Equal(t, "SubClassOf(:Margherita ObjectAllValuesFrom(:hasTopping ObjectUnionOf(:Mozzarella :Tomato)))", render(5))
	assert.IsType(t, &ontology.EquivalentClasses{}, axioms[6])
	assert.Equal(t, `SubClassOf(<http://example.org/pizza#Hot> DataHasValue(<http://example.org/pizza#calories> "900"^^<http://www.w3.org/2001/XMLSchema#integer>))`, render(7))
	assert.Equal(t, "TransitiveObjectProperty(<http://example.org/pizza#hasTopping>)", render(8))
	assert.Equal(t, "ClassAssertion(:Pizza :myPizza)", render(9))
	assert.Equal(t, "ObjectPropertyAssertion(:hasTopping :myPizza _:t1)", render(10))
}

func TestParse_OpaqueClassSignature(t *testing.T) {
	o, err := ParseString(pizza)
	require.NoError(t, err)
	axioms := o.Axioms()

	hot := axioms[7].(*ontology.OpaqueAxiom)
	assert.Equal(t, []ontology.Class{ontology.NewClass("http://example.org/pizza#Hot")}, hot.Classes)

	transitive := axioms[8].(*ontology.OpaqueAxiom)
	assert.Empty(t, transitive.Classes, "properties are not classes")

	declaration := axioms[3].(*ontology.OpaqueAxiom)
	assert.Empty(t, declaration.Classes)
}

func TestParse_ForwardClassReference(t *testing.T) {
	src := `Ontology(
HasKey(<A> (<p>) ())
SubClassOf(<B> <A>)
)`
	o, err := ParseString(src)
	require.NoError(t, err)
	key := o.Axioms()[0].(*ontology.OpaqueAxiom)
	assert.Equal(t, "HasKey(<A> (<p>) ())", key.Text)
	assert.Equal(t, []ontology.Class{ontology.NewClass("A")}, key.Classes)
}

func TestParse_UnsupportedConstructs(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"cardinality", "SubClassOf(<A> ObjectMinCardinality(1 <r> <B>))"},
		{"inverse property", "SubClassOf(<A> ObjectSomeValuesFrom(ObjectInverseOf(<r>) <B>))"},
		{"property chain", "SubObjectPropertyOf(ObjectPropertyChain(<r> <s>) <t>)"},
		{"annotation assertion", `AnnotationAssertion(<label> <A> "a")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := ParseString("Ontology(" + tt.src + ")")
			require.NoError(t, err)
			require.Equal(t, 1, o.Len())
			opaque, ok := o.Axioms()[0].(*ontology.OpaqueAxiom)
			require.True(t, ok)
			assert.Equal(t, tt.src, opaque.Text)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		col  int
		msg  string
	}{
		{"missing ontology", "Prefix(:=<x>)", 1, 14, "expected Ontology"},
		{"undeclared prefix", "Ontology(\nSubClassOf(ex:A <B>))", 2, 12, `undeclared prefix "ex:"`},
		{"unterminated", "Ontology(SubClassOf(<A> <B>)", 1, 29, "unterminated Ontology"},
		{"unterminated IRI", "Ontology(<abc", 1, 10, "unterminated IRI"},
		{"intersection arity", "Ontology(SubClassOf(<A> ObjectIntersectionOf(<B>)))", 1, 49, "at least 2"},
		{"trailing input", "Ontology() x", 1, 12, "after Ontology"},
		{"stray word", "Ontology(SubClassOf(<A> <B>) ^)", 1, 31, "expected '(' after ^"},
		{"stray character", "Ontology(SubClassOf(<A> <B>) >)", 1, 30, "unexpected character"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.src)
			require.Error(t, err)
			var syntaxErr *SyntaxError
			require.True(t, errors.As(err, &syntaxErr), "got %T: %v", err, err)
			assert.Equal(t, tt.line, syntaxErr.Line)
			assert.Equal(t, tt.col, syntaxErr.Col)
			assert.Contains(t, syntaxErr.Msg, tt.msg)
		})
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	o, err := ParseString(pizza)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, o))

	again, err := ParseString(buf.String())
	require.NoError(t, err)
	assert.Equal(t, o.IRI, again.IRI)
	assert.Equal(t, o.VersionIRI, again.VersionIRI)
	assert.Equal(t, o.Imports, again.Imports)
	assert.Equal(t, o.Annotations, again.Annotations)
	assert.Equal(t, o.Prefixes, again.Prefixes)

	want := o.Axioms()
	got := again.Axioms()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].String(), got[i].String())
	}
}

func TestWrite_Layout(t *testing.T) {
	o := ontology.New("http://example.org/o")
	o.Prefixes["ex"] = "http://example.org/"
	o.Add(ontology.SubClass(ontology.NewClass("http://example.org/A"), ontology.NewClass("http://other.org/B")))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, o))
	assert.Equal(t, strings.Join([]string{
		"Prefix(ex:=<http://example.org/>)",
		"",
		"Ontology(<http://example.org/o>",
		"",
		"SubClassOf(ex:A <http://other.org/B>)",
		")",
		"",
	}, "\n"), buf.String())
}

func TestEncoder_Streaming(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, Header{})

	require.NoError(t, enc.Accept(ontology.Declare(ontology.IndividualOf(ontology.NewClass("A")))))
	require.NoError(t, enc.Close())
	require.NoError(t, enc.Close(), "Close is idempotent")
	assert.ErrorIs(t, enc.Encode(ontology.Declare(ontology.NewClass("B"))), ErrEncoderClosed)

	assert.Equal(t, "Ontology(\n\nDeclaration(NamedIndividual(<A>))\n)\n", buf.String())
}

func TestEncoder_EmptyDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf, Header{}).Close())

	o, err := ParseString(buf.String())
	require.NoError(t, err)
	assert.Zero(t, o.Len())
}

func TestAbbreviator(t *testing.T) {
	abbr := Abbreviator(map[string]string{
		"ex":  "http://example.org/",
		"sub": "http://example.org/sub/",
		"":    "http://default.org#",
	})
	tests := []struct {
		iri  ontology.IRI
		want string
	}{
		{"http://example.org/A", "ex:A"},
		{"http://example.org/sub/B", "sub:B"},
		{"http://example.org/x/y", "<http://example.org/x/y>"},
		{"http://default.org#C", ":C"},
		{"http://example.org/", "<http://example.org/>"},
		{"http://example.org/a.b", "ex:a.b"},
		{"http://example.org/a.", "<http://example.org/a.>"},
		{"urn:x", "<urn:x>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, abbr(tt.iri), string(tt.iri))
	}
}
