package aboxer

import (
	"context"
	"log/slog"
	"time"

	errs "github.com/c360studio/semstreams/errors"

	"github.com/c360studio/aboxer/ontology"
)

// Result summarizes a conversion.
type Result struct {
	// Blacklist holds the classes that were kept as classes.
	Blacklist ontology.ClassSet
	// Blacklisting reports the work of the first pass.
	Blacklisting BlacklistStats
	// Stats reports what the second pass emitted.
	Stats Stats
}

// Option configures a conversion.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	ids     AnonymousIDGenerator
	metrics *Metrics
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithIDGenerator sets the source of anonymous individual labels.
func WithIDGenerator(g AnonymousIDGenerator) Option {
	return func(o *options) {
		o.ids = g
	}
}

// WithMetrics records conversion metrics. A nil m is ignored.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// Aboxify converts axioms and hands every resulting axiom to sink exactly
// once. The blacklist is computed over all axioms before the first axiom is
// emitted. Cancellation of ctx is checked between axioms.
func Aboxify(ctx context.Context, axioms []ontology.Axiom, sink Sink, opts ...Option) (Result, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if sink == nil {
		return Result{}, errs.WrapInvalid(ErrNilSink, "Aboxer", "Aboxify", "validate sink")
	}

	o.logger.Info("Computing blacklisted classes", slog.Int("axioms", len(axioms)))
	start := time.Now()
	blacklister := NewBlacklister(o.logger)
	for _, ax := range axioms {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		blacklister.Process(ax)
	}
	blacklist := blacklister.Blacklisted()
	o.metrics.recordPass(passBlacklist, len(axioms), time.Since(start))
	o.metrics.recordBlacklist(blacklist.Len())
	o.logger.Debug("Blacklist computed",
		slog.Int("blacklisted", blacklist.Len()),
		slog.Int("dependencies_recorded", blacklister.Stats().DependenciesRecorded),
		slog.Int("dependencies_fired", blacklister.Stats().DependenciesFired))

	o.logger.Info("Producing assertions")
	start = time.Now()
	creator := NewAssertionCreator(blacklist, sink, o.ids)
	creator.Reserve(axioms)
	result := Result{Blacklist: blacklist, Blacklisting: blacklister.Stats()}
	for _, ax := range axioms {
		if err := ctx.Err(); err != nil {
			result.Stats = creator.Stats()
			return result, err
		}
		if err := creator.Process(ax); err != nil {
			result.Stats = creator.Stats()
			return result, err
		}
	}
	result.Stats = creator.Stats()
	o.metrics.recordPass(passAssertions, len(axioms), time.Since(start))
	o.metrics.recordStats(result.Stats)
	o.logger.Debug("Assertions produced", slog.Any("stats", result.Stats))

	return result, nil
}

// AboxifyOntology converts in into a new ontology with the same header.
// in is not modified.
func AboxifyOntology(ctx context.Context, in *ontology.Ontology, opts ...Option) (*ontology.Ontology, Result, error) {
	out := ontology.New(in.IRI)
	out.VersionIRI = in.VersionIRI
	out.Imports = append(out.Imports, in.Imports...)
	out.Annotations = append(out.Annotations, in.Annotations...)
	for name, ns := range in.Prefixes {
		out.Prefixes[name] = ns
	}
	res, err := Aboxify(ctx, in.Axioms(), out, opts...)
	if err != nil {
		return nil, res, err
	}
	return out, res, nil
}
