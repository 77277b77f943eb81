package aboxer

import "log/slog"

// Stats counts what the assertion pass added to the output.
type Stats struct {
	NewIndividuals       int `json:"new_individuals"`
	AnonymousIndividuals int `json:"anonymous_individuals"`
	ClassAssertions      int `json:"class_assertions"`
	PropertyAssertions   int `json:"property_assertions"`
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		NewIndividuals:       s.NewIndividuals + o.NewIndividuals,
		AnonymousIndividuals: s.AnonymousIndividuals + o.AnonymousIndividuals,
		ClassAssertions:      s.ClassAssertions + o.ClassAssertions,
		PropertyAssertions:   s.PropertyAssertions + o.PropertyAssertions,
	}
}

// LogValue implements slog.LogValuer.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("new_individuals", s.NewIndividuals),
		slog.Int("anonymous_individuals", s.AnonymousIndividuals),
		slog.Int("class_assertions", s.ClassAssertions),
		slog.Int("property_assertions", s.PropertyAssertions),
	)
}
