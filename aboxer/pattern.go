package aboxer

import "github.com/c360studio/aboxer/ontology"

// PatternHandler decides what happens at each shape found while decomposing
// a class expression. C is an arbitrary context passed down the
// decomposition.
type PatternHandler[C any] interface {
	// Unsplittable is called for an expression that is not an existential
	// restriction and therefore cannot be decomposed further.
	Unsplittable(ctx C, ce ontology.ClassExpression) error

	// SimpleExistential is called for ObjectSomeValuesFrom(p filler) whose
	// filler is an atomic class.
	SimpleExistential(ctx C, p ontology.ObjectProperty, filler ontology.Class) error

	// NewContext derives the context used for the conjuncts of a complex
	// existential filler reached through p.
	NewContext(ctx C, p ontology.ObjectProperty) (C, error)
}

type patternFrame[C any] struct {
	ctx C
	ce  ontology.ClassExpression
}

// ProcessPattern decomposes ce under ctx:
//   - a non-existential expression goes to Unsplittable;
//   - an existential with an atomic filler goes to SimpleExistential;
//   - any other existential obtains a new context from NewContext and every
//     conjunct of its filler is processed under that context.
//
// Frames are kept on an explicit stack so nesting depth is not limited by
// the goroutine stack. Visiting order is depth-first and equal to the
// recursive formulation. The first handler error stops the walk.
func ProcessPattern[C any](h PatternHandler[C], ctx C, ce ontology.ClassExpression) error {
	stack := []patternFrame[C]{{ctx: ctx, ce: ce}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		restriction, ok := top.ce.(*ontology.ObjectSomeValuesFrom)
		if !ok {
			if err := h.Unsplittable(top.ctx, top.ce); err != nil {
				return err
			}
			continue
		}
		if filler, ok := restriction.Filler.(ontology.Class); ok {
			if err := h.SimpleExistential(top.ctx, restriction.Property, filler); err != nil {
				return err
			}
			continue
		}
		next, err := h.NewContext(top.ctx, restriction.Property)
		if err != nil {
			return err
		}
		conjuncts := ontology.ConjunctSet(restriction.Filler)
		for i := len(conjuncts) - 1; i >= 0; i-- {
			stack = append(stack, patternFrame[C]{ctx: next, ce: conjuncts[i]})
		}
	}
	return nil
}
