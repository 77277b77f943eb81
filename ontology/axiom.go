package ontology

import "strings"

// AxiomKind tags the concrete type of an axiom.
type AxiomKind string

// Axiom kinds known to the model.
const (
	KindDeclaration             AxiomKind = "declaration"
	KindSubClassOf              AxiomKind = "sub_class_of"
	KindEquivalentClasses       AxiomKind = "equivalent_classes"
	KindDisjointClasses         AxiomKind = "disjoint_classes"
	KindSubObjectPropertyOf     AxiomKind = "sub_object_property_of"
	KindObjectPropertyDomain    AxiomKind = "object_property_domain"
	KindObjectPropertyRange     AxiomKind = "object_property_range"
	KindClassAssertion          AxiomKind = "class_assertion"
	KindObjectPropertyAssertion AxiomKind = "object_property_assertion"
	KindOpaque                  AxiomKind = "opaque"
)

// Axiom is a logical or declaration axiom.
type Axiom interface {
	Renderable
	Kind() AxiomKind
	visitClasses(fn func(Class))
	visitIndividuals(fn func(Individual))
}

// Declaration declares an entity.
type Declaration struct {
	Entity Entity
}

// Declare returns the declaration of e.
func Declare(e Entity) *Declaration { return &Declaration{Entity: e} }

func (a *Declaration) Kind() AxiomKind { return KindDeclaration }
func (a *Declaration) String() string  { return Render(a, nil) }

func (a *Declaration) writeTo(sb *strings.Builder, abbr Abbreviator) {
	sb.WriteString("Declaration(")
	sb.WriteString(string(a.Entity.EntityType()))
	sb.WriteByte('(')
	sb.WriteString(abbr(a.Entity.EntityIRI()))
	sb.WriteString("))")
}

func (a *Declaration) visitClasses(fn func(Class)) {
	if c, ok := a.Entity.(Class); ok {
		fn(c)
	}
}

func (a *Declaration) visitIndividuals(fn func(Individual)) {
	if ind, ok := a.Entity.(NamedIndividual); ok {
		fn(ind)
	}
}

// SubClassOf states that Sub is subsumed by Super.
type SubClassOf struct {
	Sub   ClassExpression
	Super ClassExpression
}

// SubClass returns the axiom sub ⊑ super.
func SubClass(sub, super ClassExpression) *SubClassOf {
	return &SubClassOf{Sub: sub, Super: super}
}

func (a *SubClassOf) Kind() AxiomKind { return KindSubClassOf }
func (a *SubClassOf) String() string  { return Render(a, nil) }

func (a *SubClassOf) writeTo(sb *strings.Builder, abbr Abbreviator) {
	writeCall(sb, abbr, "SubClassOf", a.Sub, a.Super)
}

func (a *SubClassOf) visitClasses(fn func(Class)) {
	a.Sub.visitClasses(fn)
	a.Super.visitClasses(fn)
}

func (a *SubClassOf) visitIndividuals(fn func(Individual)) {
	a.Sub.visitIndividuals(fn)
	a.Super.visitIndividuals(fn)
}

// EquivalentClasses states that all expressions denote the same class.
type EquivalentClasses struct {
	Expressions []ClassExpression
}

// Equivalent returns the equivalence of the given expressions.
func Equivalent(expressions ...ClassExpression) *EquivalentClasses {
	return &EquivalentClasses{Expressions: expressions}
}

func (a *EquivalentClasses) Kind() AxiomKind { return KindEquivalentClasses }
func (a *EquivalentClasses) String() string  { return Render(a, nil) }

func (a *EquivalentClasses) writeTo(sb *strings.Builder, abbr Abbreviator) {
	writeCall(sb, abbr, "EquivalentClasses", renderables(a.Expressions)...)
}

func (a *EquivalentClasses) visitClasses(fn func(Class)) {
	for _, e := range a.Expressions {
		e.visitClasses(fn)
	}
}

func (a *EquivalentClasses) visitIndividuals(fn func(Individual)) {
	for _, e := range a.Expressions {
		e.visitIndividuals(fn)
	}
}

// DisjointClasses states that the expressions are pairwise disjoint.
type DisjointClasses struct {
	Expressions []ClassExpression
}

// Disjoint returns the disjointness of the given expressions.
func Disjoint(expressions ...ClassExpression) *DisjointClasses {
	return &DisjointClasses{Expressions: expressions}
}

func (a *DisjointClasses) Kind() AxiomKind { return KindDisjointClasses }
func (a *DisjointClasses) String() string  { return Render(a, nil) }

func (a *DisjointClasses) writeTo(sb *strings.Builder, abbr Abbreviator) {
	writeCall(sb, abbr, "DisjointClasses", renderables(a.Expressions)...)
}

func (a *DisjointClasses) visitClasses(fn func(Class)) {
	for _, e := range a.Expressions {
		e.visitClasses(fn)
	}
}

func (a *DisjointClasses) visitIndividuals(fn func(Individual)) {
	for _, e := range a.Expressions {
		e.visitIndividuals(fn)
	}
}

// SubObjectPropertyOf states that Sub is a sub-property of Super.
type SubObjectPropertyOf struct {
	Sub   ObjectProperty
	Super ObjectProperty
}

func (a *SubObjectPropertyOf) Kind() AxiomKind { return KindSubObjectPropertyOf }
func (a *SubObjectPropertyOf) String() string  { return Render(a, nil) }

func (a *SubObjectPropertyOf) writeTo(sb *strings.Builder, abbr Abbreviator) {
	writeCall(sb, abbr, "SubObjectPropertyOf", a.Sub, a.Super)
}

func (a *SubObjectPropertyOf) visitClasses(func(Class))          {}
func (a *SubObjectPropertyOf) visitIndividuals(func(Individual)) {}

// ObjectPropertyDomain restricts the subjects of Property to Domain.
type ObjectPropertyDomain struct {
	Property ObjectProperty
	Domain   ClassExpression
}

func (a *ObjectPropertyDomain) Kind() AxiomKind { return KindObjectPropertyDomain }
func (a *ObjectPropertyDomain) String() string  { return Render(a, nil) }

func (a *ObjectPropertyDomain) writeTo(sb *strings.Builder, abbr Abbreviator) {
	writeCall(sb, abbr, "ObjectPropertyDomain", a.Property, a.Domain)
}

func (a *ObjectPropertyDomain) visitClasses(fn func(Class))          { a.Domain.visitClasses(fn) }
func (a *ObjectPropertyDomain) visitIndividuals(fn func(Individual)) { a.Domain.visitIndividuals(fn) }

// ObjectPropertyRange restricts the objects of Property to Range.
type ObjectPropertyRange struct {
	Property ObjectProperty
	Range    ClassExpression
}

func (a *ObjectPropertyRange) Kind() AxiomKind { return KindObjectPropertyRange }
func (a *ObjectPropertyRange) String() string  { return Render(a, nil) }

func (a *ObjectPropertyRange) writeTo(sb *strings.Builder, abbr Abbreviator) {
	writeCall(sb, abbr, "ObjectPropertyRange", a.Property, a.Range)
}

func (a *ObjectPropertyRange) visitClasses(fn func(Class))          { a.Range.visitClasses(fn) }
func (a *ObjectPropertyRange) visitIndividuals(fn func(Individual)) { a.Range.visitIndividuals(fn) }

// ClassAssertion states that Individual is an instance of Class.
type ClassAssertion struct {
	Class      ClassExpression
	Individual Individual
}

// AssertClass returns the assertion ce(ind).
func AssertClass(ce ClassExpression, ind Individual) *ClassAssertion {
	return &ClassAssertion{Class: ce, Individual: ind}
}

func (a *ClassAssertion) Kind() AxiomKind { return KindClassAssertion }
func (a *ClassAssertion) String() string  { return Render(a, nil) }

func (a *ClassAssertion) writeTo(sb *strings.Builder, abbr Abbreviator) {
	writeCall(sb, abbr, "ClassAssertion", a.Class, a.Individual)
}

func (a *ClassAssertion) visitClasses(fn func(Class)) { a.Class.visitClasses(fn) }

func (a *ClassAssertion) visitIndividuals(fn func(Individual)) {
	a.Class.visitIndividuals(fn)
	fn(a.Individual)
}

// ObjectPropertyAssertion states that Property relates Subject to Object.
type ObjectPropertyAssertion struct {
	Property ObjectProperty
	Subject  Individual
	Object   Individual
}

// AssertProperty returns the assertion p(subject, object).
func AssertProperty(p ObjectProperty, subject, object Individual) *ObjectPropertyAssertion {
	return &ObjectPropertyAssertion{Property: p, Subject: subject, Object: object}
}

func (a *ObjectPropertyAssertion) Kind() AxiomKind { return KindObjectPropertyAssertion }
func (a *ObjectPropertyAssertion) String() string  { return Render(a, nil) }

func (a *ObjectPropertyAssertion) writeTo(sb *strings.Builder, abbr Abbreviator) {
	writeCall(sb, abbr, "ObjectPropertyAssertion", a.Property, a.Subject, a.Object)
}

func (a *ObjectPropertyAssertion) visitClasses(func(Class)) {}

func (a *ObjectPropertyAssertion) visitIndividuals(fn func(Individual)) {
	fn(a.Subject)
	fn(a.Object)
}

// OpaqueAxiom is an axiom the model does not interpret. Text holds its
// original functional-syntax form with full IRIs, Classes the atomic classes
// it mentions.
type OpaqueAxiom struct {
	Text    string
	Classes []Class
}

func (a *OpaqueAxiom) Kind() AxiomKind { return KindOpaque }
func (a *OpaqueAxiom) String() string  { return a.Text }

func (a *OpaqueAxiom) writeTo(sb *strings.Builder, _ Abbreviator) {
	sb.WriteString(a.Text)
}

func (a *OpaqueAxiom) visitClasses(fn func(Class)) {
	for _, c := range a.Classes {
		fn(c)
	}
}

func (a *OpaqueAxiom) visitIndividuals(func(Individual)) {}
