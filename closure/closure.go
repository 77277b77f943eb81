// Package closure recomputes the class blacklist as the least fixpoint of a
// small Datalog program evaluated with Mangle. It is an independent check of
// the worklist engine in package aboxer: both must agree on every input.
package closure

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	mengine "github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"

	"github.com/c360studio/aboxer/aboxer"
	"github.com/c360studio/aboxer/ontology"
)

// ErrMismatch is returned by Verify when the two blacklists differ.
var ErrMismatch = errors.New("blacklist mismatch")

const program = `
Decl tainted(Class).
Decl depends(Subject, Filler).
Decl blacklisted(Class).

blacklisted(X) :- tainted(X).
blacklisted(Y) :- blacklisted(X), depends(X, Y).
`

var (
	taintedSym     = ast.PredicateSym{Symbol: "tainted", Arity: 1}
	dependsSym     = ast.PredicateSym{Symbol: "depends", Arity: 2}
	blacklistedSym = ast.PredicateSym{Symbol: "blacklisted", Arity: 1}
)

// Facts are the extensional facts derived from a set of axioms.
type Facts struct {
	Tainted ontology.ClassSet
	Depends map[ontology.Class]ontology.ClassSet
}

// Extract derives facts from axioms. Unlike the worklist engine it never
// looks at the current blacklist, so every axiom contributes the same facts
// whatever the processing order.
func Extract(axioms []ontology.Axiom) Facts {
	f := Facts{
		Tainted: make(ontology.ClassSet),
		Depends: make(map[ontology.Class]ontology.ClassSet),
	}
	h := factPatterns{f}
	for _, ax := range axioms {
		switch a := ax.(type) {
		case *ontology.Declaration:
			if _, ok := a.Entity.(ontology.Class); ok {
				continue
			}
			f.taint(ontology.ClassesInSignature(ax))
		case *ontology.SubClassOf:
			sub, ok := a.Sub.(ontology.Class)
			if !ok {
				f.taint(ontology.ClassesInSignature(ax))
				continue
			}
			for _, conjunct := range ontology.ConjunctSet(a.Super) {
				_ = aboxer.ProcessPattern[ontology.Class](h, sub, conjunct)
			}
		default:
			f.taint(ontology.ClassesInSignature(ax))
		}
	}
	return f
}

func (f Facts) taint(classes []ontology.Class) {
	for _, c := range classes {
		f.Tainted.Add(c)
	}
}

func (f Facts) depend(subject, filler ontology.Class) {
	deps, ok := f.Depends[subject]
	if !ok {
		deps = make(ontology.ClassSet)
		f.Depends[subject] = deps
	}
	deps.Add(filler)
}

type factPatterns struct {
	f Facts
}

func (h factPatterns) Unsplittable(_ ontology.Class, ce ontology.ClassExpression) error {
	h.f.taint(ontology.ClassesInSignature(ce))
	return nil
}

func (h factPatterns) SimpleExistential(subject ontology.Class, _ ontology.ObjectProperty, filler ontology.Class) error {
	h.f.depend(subject, filler)
	return nil
}

func (h factPatterns) NewContext(subject ontology.Class, _ ontology.ObjectProperty) (ontology.Class, error) {
	return subject, nil
}

// Compute returns the blacklist of axioms, sorted by IRI.
func Compute(axioms []ontology.Axiom) ([]ontology.Class, error) {
	unit, err := parse.Unit(strings.NewReader(program))
	if err != nil {
		return nil, fmt.Errorf("parse program: %w", err)
	}
	programInfo, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return nil, fmt.Errorf("analyze program: %w", err)
	}

	store := factstore.NewSimpleInMemoryStore()
	facts := Extract(axioms)
	for c := range facts.Tainted {
		store.Add(ast.Atom{Predicate: taintedSym, Args: []ast.BaseTerm{ast.String(string(c.IRI))}})
	}
	for subject, fillers := range facts.Depends {
		for filler := range fillers {
			store.Add(ast.Atom{Predicate: dependsSym, Args: []ast.BaseTerm{
				ast.String(string(subject.IRI)),
				ast.String(string(filler.IRI)),
			}})
		}
	}

	if _, err := mengine.EvalProgramWithStats(programInfo, store); err != nil {
		return nil, fmt.Errorf("evaluate program: %w", err)
	}

	result := make(ontology.ClassSet)
	err = store.GetFacts(ast.NewQuery(blacklistedSym), func(atom ast.Atom) error {
		c, ok := atom.Args[0].(ast.Constant)
		if !ok || c.Type != ast.StringType {
			return fmt.Errorf("unexpected term %v", atom.Args[0])
		}
		result.Add(ontology.NewClass(c.Symbol))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read blacklisted facts: %w", err)
	}
	return result.Sorted(), nil
}

// Verify recomputes the blacklist of axioms and compares it with blacklist.
// On disagreement the returned error wraps ErrMismatch and names the
// classes found on only one side.
func Verify(axioms []ontology.Axiom, blacklist ontology.ClassSet) error {
	expected, err := Compute(axioms)
	if err != nil {
		return err
	}
	want := ontology.NewClassSet(expected...)

	var missing, extra []string
	for _, c := range expected {
		if !blacklist.Contains(c) {
			missing = append(missing, c.String())
		}
	}
	for _, c := range blacklist.Sorted() {
		if !want.Contains(c) {
			extra = append(extra, c.String())
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	return fmt.Errorf("%w: missing [%s], unexpected [%s]", ErrMismatch,
		strings.Join(missing, " "), strings.Join(extra, " "))
}
