package ontology

import "strings"

// ClassExpression is an OWL class expression. The set of implementations is
// closed: Class, *ObjectIntersectionOf, *ObjectUnionOf, *ObjectComplementOf,
// *ObjectSomeValuesFrom, *ObjectAllValuesFrom, *ObjectHasValue and
// *ObjectOneOf.
type ClassExpression interface {
	Renderable
	visitClasses(fn func(Class))
	visitIndividuals(fn func(Individual))
}

// ObjectIntersectionOf is the conjunction of two or more class expressions.
type ObjectIntersectionOf struct {
	Operands []ClassExpression
}

// IntersectionOf returns the conjunction of the given operands.
func IntersectionOf(operands ...ClassExpression) *ObjectIntersectionOf {
	return &ObjectIntersectionOf{Operands: operands}
}

func (e *ObjectIntersectionOf) String() string { return Render(e, nil) }

func (e *ObjectIntersectionOf) writeTo(sb *strings.Builder, abbr Abbreviator) {
	writeCall(sb, abbr, "ObjectIntersectionOf", renderables(e.Operands)...)
}

func (e *ObjectIntersectionOf) visitClasses(fn func(Class)) {
	for _, op := range e.Operands {
		op.visitClasses(fn)
	}
}

func (e *ObjectIntersectionOf) visitIndividuals(fn func(Individual)) {
	for _, op := range e.Operands {
		op.visitIndividuals(fn)
	}
}

// ObjectUnionOf is the disjunction of two or more class expressions.
type ObjectUnionOf struct {
	Operands []ClassExpression
}

// UnionOf returns the disjunction of the given operands.
func UnionOf(operands ...ClassExpression) *ObjectUnionOf {
	return &ObjectUnionOf{Operands: operands}
}

func (e *ObjectUnionOf) String() string { return Render(e, nil) }

func (e *ObjectUnionOf) writeTo(sb *strings.Builder, abbr Abbreviator) {
	writeCall(sb, abbr, "ObjectUnionOf", renderables(e.Operands)...)
}

func (e *ObjectUnionOf) visitClasses(fn func(Class)) {
	for _, op := range e.Operands {
		op.visitClasses(fn)
	}
}

func (e *ObjectUnionOf) visitIndividuals(fn func(Individual)) {
	for _, op := range e.Operands {
		op.visitIndividuals(fn)
	}
}

// ObjectComplementOf is the negation of a class expression.
type ObjectComplementOf struct {
	Operand ClassExpression
}

// ComplementOf returns the negation of operand.
func ComplementOf(operand ClassExpression) *ObjectComplementOf {
	return &ObjectComplementOf{Operand: operand}
}

func (e *ObjectComplementOf) String() string { return Render(e, nil) }

func (e *ObjectComplementOf) writeTo(sb *strings.Builder, abbr Abbreviator) {
	writeCall(sb, abbr, "ObjectComplementOf", e.Operand)
}

func (e *ObjectComplementOf) visitClasses(fn func(Class)) { e.Operand.visitClasses(fn) }

func (e *ObjectComplementOf) visitIndividuals(fn func(Individual)) { e.Operand.visitIndividuals(fn) }

// ObjectSomeValuesFrom is the existential restriction ∃Property.Filler.
type ObjectSomeValuesFrom struct {
	Property ObjectProperty
	Filler   ClassExpression
}

// SomeValuesFrom returns the existential restriction ∃p.filler.
func SomeValuesFrom(p ObjectProperty, filler ClassExpression) *ObjectSomeValuesFrom {
	return &ObjectSomeValuesFrom{Property: p, Filler: filler}
}

func (e *ObjectSomeValuesFrom) String() string { return Render(e, nil) }

func (e *ObjectSomeValuesFrom) writeTo(sb *strings.Builder, abbr Abbreviator) {
	writeCall(sb, abbr, "ObjectSomeValuesFrom", e.Property, e.Filler)
}

func (e *ObjectSomeValuesFrom) visitClasses(fn func(Class)) { e.Filler.visitClasses(fn) }

func (e *ObjectSomeValuesFrom) visitIndividuals(fn func(Individual)) { e.Filler.visitIndividuals(fn) }

// ObjectAllValuesFrom is the universal restriction ∀Property.Filler.
type ObjectAllValuesFrom struct {
	Property ObjectProperty
	Filler   ClassExpression
}

// AllValuesFrom returns the universal restriction ∀p.filler.
func AllValuesFrom(p ObjectProperty, filler ClassExpression) *ObjectAllValuesFrom {
	return &ObjectAllValuesFrom{Property: p, Filler: filler}
}

func (e *ObjectAllValuesFrom) String() string { return Render(e, nil) }

func (e *ObjectAllValuesFrom) writeTo(sb *strings.Builder, abbr Abbreviator) {
	writeCall(sb, abbr, "ObjectAllValuesFrom", e.Property, e.Filler)
}

func (e *ObjectAllValuesFrom) visitClasses(fn func(Class)) { e.Filler.visitClasses(fn) }

func (e *ObjectAllValuesFrom) visitIndividuals(fn func(Individual)) { e.Filler.visitIndividuals(fn) }

// ObjectHasValue restricts Property to have the given individual as value.
type ObjectHasValue struct {
	Property ObjectProperty
	Value    Individual
}

// HasValue returns the restriction ∃p.{value}.
func HasValue(p ObjectProperty, value Individual) *ObjectHasValue {
	return &ObjectHasValue{Property: p, Value: value}
}

func (e *ObjectHasValue) String() string { return Render(e, nil) }

func (e *ObjectHasValue) writeTo(sb *strings.Builder, abbr Abbreviator) {
	writeCall(sb, abbr, "ObjectHasValue", e.Property, e.Value)
}

func (e *ObjectHasValue) visitClasses(func(Class)) {}

func (e *ObjectHasValue) visitIndividuals(fn func(Individual)) { fn(e.Value) }

// ObjectOneOf is the enumeration of a set of individuals.
type ObjectOneOf struct {
	Individuals []Individual
}

// OneOf returns the enumeration of the given individuals.
func OneOf(individuals ...Individual) *ObjectOneOf {
	return &ObjectOneOf{Individuals: individuals}
}

func (e *ObjectOneOf) String() string { return Render(e, nil) }

func (e *ObjectOneOf) writeTo(sb *strings.Builder, abbr Abbreviator) {
	writeCall(sb, abbr, "ObjectOneOf", renderables(e.Individuals)...)
}

func (e *ObjectOneOf) visitClasses(func(Class)) {}

func (e *ObjectOneOf) visitIndividuals(fn func(Individual)) {
	for _, ind := range e.Individuals {
		fn(ind)
	}
}

// ConjunctSet returns the conjuncts of ce: nested intersections are
// flattened and duplicates (by functional-syntax form) are dropped, keeping
// first-seen order. Any expression that is not an intersection is its own
// single conjunct.
func ConjunctSet(ce ClassExpression) []ClassExpression {
	if _, ok := ce.(*ObjectIntersectionOf); !ok {
		return []ClassExpression{ce}
	}
	var (
		out   []ClassExpression
		seen  = make(map[string]struct{})
		stack = []ClassExpression{ce}
	)
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if and, ok := e.(*ObjectIntersectionOf); ok {
			for i := len(and.Operands) - 1; i >= 0; i-- {
				stack = append(stack, and.Operands[i])
			}
			continue
		}
		key := e.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}
