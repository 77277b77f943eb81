package ontology

// ExpandEquivalences replaces every EquivalentClasses(C1 ... Cn) axiom by the
// SubClassOf axioms Ci ⊑ Cj for all i ≠ j, in order. All other axioms are
// returned unchanged. The input slice is not modified.
func ExpandEquivalences(axioms []Axiom) []Axiom {
	out := make([]Axiom, 0, len(axioms))
	for _, ax := range axioms {
		eq, ok := ax.(*EquivalentClasses)
		if !ok {
			out = append(out, ax)
			continue
		}
		for i, sub := range eq.Expressions {
			for j, super := range eq.Expressions {
				if i == j {
					continue
				}
				out = append(out, SubClass(sub, super))
			}
		}
	}
	return out
}
