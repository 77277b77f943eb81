// Package aboxer converts TBox axioms into ABox assertions by reinterpreting
// classes as individuals.
//
// # Overview
//
// An axiom SubClassOf(:A :C), where :A is an atomic class, can be replaced by
// assertions about the named individual :a that stands in for :A. If :C is a
// conjunction, each conjunct becomes a class assertion; an existential
// restriction ObjectSomeValuesFrom(:r :D) becomes the property assertion
// r(a, d) when :D is itself convertible, and a chain r(a, _i) plus assertions
// about the fresh anonymous individual _i when the filler is complex.
//
// # Two passes
//
// Conversion runs in two strictly sequential passes over the same axioms:
//
//  1. Blacklister computes the set of classes that cannot be replaced by
//     individuals. Classes mentioned by unconvertible axioms or unsplittable
//     conjuncts are blacklisted directly; fillers of simple existentials are
//     recorded as dependencies of the subject class and become blacklisted if
//     and only if the subject does. The result is a least fixpoint and does
//     not depend on axiom order.
//  2. AssertionCreator replaces every convertible axiom by assertions and
//     forwards everything else unchanged to a Sink.
//
// Both passes decompose class expressions with the same walker,
// ProcessPattern, instantiated with a different context type: the subject
// class whose dependencies are being recorded, or the individual the next
// assertion is attached to.
//
// # Usage
//
//	out := ontology.New("")
//	result, err := aboxer.Aboxify(ctx, in.Axioms(), out,
//	    aboxer.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	logger.Info("converted", "blacklisted", result.Blacklist.Len(),
//	    "class_assertions", result.Stats.ClassAssertions)
package aboxer
