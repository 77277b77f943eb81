// Package pipeline runs complete conversions: it reads an ontology document,
// converts it, writes the result and hands it to the configured publishers.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	errs "github.com/c360studio/semstreams/errors"

	"github.com/c360studio/aboxer/aboxer"
	"github.com/c360studio/aboxer/closure"
	"github.com/c360studio/aboxer/config"
	"github.com/c360studio/aboxer/export"
	"github.com/c360studio/aboxer/graph"
	"github.com/c360studio/aboxer/ontology"
	"github.com/c360studio/aboxer/ontology/ofn"
	"github.com/c360studio/aboxer/sink"
	"github.com/c360studio/aboxer/storage"
)

// StdinPath names standard input as an input path.
const StdinPath = "-"

// Report describes one finished conversion.
type Report struct {
	Input  string
	Output string
	Format export.Format

	// Axioms is the number of input axioms converted, after equivalence
	// expansion.
	Axioms int
	// Emitted is the number of axioms handed to the output.
	Emitted int
	Result  aboxer.Result
	// Skipped counts axioms the RDF output could not represent.
	Skipped int
	// Published counts axioms published to NATS.
	Published int
	// Entities counts individuals published to the graph.
	Entities int
	Verified bool
	Duration time.Duration
}

// LogValue implements slog.LogValuer.
func (r *Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("input", r.Input),
		slog.String("output", r.Output),
		slog.Int("axioms", r.Axioms),
		slog.Int("emitted", r.Emitted),
		slog.Int("blacklisted", r.Result.Blacklist.Len()),
		slog.Any("stats", r.Result.Stats),
		slog.Duration("duration", r.Duration),
	)
}

// Converter converts ontology files according to a configuration. It is
// safe for concurrent use; every conversion gets its own sinks and anonymous
// individual generator.
type Converter struct {
	cfg     *config.Config
	format  export.Format
	logger  *slog.Logger
	metrics *aboxer.Metrics

	axioms sink.Publisher
	graph  graph.StreamPublisher
	runs   *storage.Store
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = l
	}
}

// WithMetrics records conversion metrics.
func WithMetrics(m *aboxer.Metrics) Option {
	return func(c *Converter) {
		c.metrics = m
	}
}

// WithAxiomPublisher publishes every produced axiom through pub.
func WithAxiomPublisher(pub sink.Publisher) Option {
	return func(c *Converter) {
		c.axioms = pub
	}
}

// WithGraphPublisher publishes the produced individuals as graph entities.
func WithGraphPublisher(pub graph.StreamPublisher) Option {
	return func(c *Converter) {
		c.graph = pub
	}
}

// WithRunStore records every conversion in s.
func WithRunStore(s *storage.Store) Option {
	return func(c *Converter) {
		c.runs = s
	}
}

// New creates a Converter. cfg must be valid.
func New(cfg *config.Config, opts ...Option) (*Converter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errs.WrapInvalid(err, "Converter", "New", "validate config")
	}
	format, err := export.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, errs.WrapInvalid(err, "Converter", "New", "parse format")
	}
	c := &Converter{cfg: cfg, format: format, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// Format returns the output format.
func (c *Converter) Format() export.Format { return c.format }

// OutputPath returns where the conversion of input is written: the input
// path (or its base name inside the output directory) followed by the
// configured suffix and, for RDF formats, the format's extension.
// Standard input maps to standard output.
func (c *Converter) OutputPath(input string) string {
	if input == StdinPath {
		return sink.StdoutPath
	}
	out := input
	if c.cfg.Output.Directory != "" {
		out = filepath.Join(c.cfg.Output.Directory, filepath.Base(input))
	}
	out += c.cfg.Output.Suffix
	if info, ok := export.GetFormatInfo(c.format); ok && info.RDF {
		out += info.Extension
	}
	return out
}

// ConvertFile converts input into OutputPath(input).
func (c *Converter) ConvertFile(ctx context.Context, input string) (*Report, error) {
	return c.ConvertTo(ctx, input, c.OutputPath(input))
}

// ConvertTo converts input into output. Either may be "-" for the standard
// streams. The output is only put in place when the conversion succeeds.
func (c *Converter) ConvertTo(ctx context.Context, input, output string) (report *Report, err error) {
	if input != StdinPath && output != sink.StdoutPath && samePath(input, output) {
		return nil, errs.WrapInvalid(fmt.Errorf("output %s would overwrite the input", output),
			"Converter", "ConvertTo", "check output path")
	}

	run := c.startRun(ctx, input)
	defer func() { c.finishRun(ctx, run, report, err) }()

	o, err := ReadOntology(input)
	if err != nil {
		return nil, err
	}

	out, err := sink.Create(output, c.format, ofn.HeaderOf(o))
	if err != nil {
		return nil, errs.Wrap(err, "Converter", "ConvertTo", "create output")
	}
	report, err = c.Convert(ctx, o, out, input)
	if err != nil {
		out.Abort()
		return nil, err
	}
	report.Output = output
	c.logger.Info("Converted ontology", slog.Any("report", report))
	return report, nil
}

// Convert converts o into out and the configured publishers, then closes
// them. source identifies the document in published messages. When
// verification is enabled, a blacklist mismatch is reported before anything
// is emitted.
func (c *Converter) Convert(ctx context.Context, o *ontology.Ontology, out sink.WriteCloser, source string) (*Report, error) {
	start := time.Now()
	axioms := o.Axioms()
	if c.cfg.Conversion.ExpandEquivalences {
		axioms = ontology.ExpandEquivalences(axioms)
	}

	report := &Report{Input: source, Format: c.format, Axioms: len(axioms)}
	if c.cfg.Conversion.Verify {
		if err := c.verify(axioms); err != nil {
			return nil, err
		}
		report.Verified = true
	}

	fanout := sink.Fanout{out}
	var natsSink *sink.NATSSink
	if c.axioms != nil {
		natsSink = sink.NewNATSSink(c.axioms, c.cfg.NATS.SubjectPrefix, source, c.logger)
		fanout = append(fanout, natsSink)
	}
	var graphSink *graph.Sink
	if c.graph != nil {
		graphSink = graph.NewSink(ctx, c.graph, source, c.logger)
		fanout = append(fanout, graphSink)
	}
	counter := &sink.Counter{Next: fanout}

	ids, err := c.cfg.IDGenerator()
	if err != nil {
		return nil, errs.WrapInvalid(err, "Converter", "Convert", "create id generator")
	}
	result, err := aboxer.Aboxify(ctx, axioms, counter,
		aboxer.WithLogger(c.logger.With(slog.String("input", source))),
		aboxer.WithIDGenerator(ids),
		aboxer.WithMetrics(c.metrics))
	if err != nil {
		return nil, err
	}
	if err := fanout.Close(); err != nil {
		return nil, errs.Wrap(err, "Converter", "Convert", "close outputs")
	}

	report.Result = result
	report.Emitted = counter.Total()
	if sk, ok := unwrapSkipper(out); ok {
		report.Skipped = sk.Skipped()
	}
	if natsSink != nil {
		report.Published = natsSink.Published()
	}
	if graphSink != nil {
		report.Entities = graphSink.Entities()
	}
	report.Duration = time.Since(start)
	return report, nil
}

func (c *Converter) verify(axioms []ontology.Axiom) error {
	b := aboxer.NewBlacklister(c.logger)
	b.ProcessAll(axioms)
	if err := closure.Verify(axioms, b.Blacklisted()); err != nil {
		return errs.WrapFatal(err, "Converter", "Convert", "verify blacklist")
	}
	c.logger.Debug("Blacklist verified", slog.Int("blacklisted", b.Blacklisted().Len()))
	return nil
}

// ReadOntology parses the functional syntax document at input, or standard
// input for "-".
func ReadOntology(input string) (*ontology.Ontology, error) {
	var r io.Reader = os.Stdin
	if input != StdinPath {
		f, err := os.Open(input)
		if err != nil {
			return nil, errs.Wrap(err, "Converter", "ConvertTo", "open input")
		}
		defer f.Close()
		r = f
	}
	o, err := ofn.Parse(r)
	if err != nil {
		return nil, errs.WrapInvalid(fmt.Errorf("%s: %w", input, err), "Converter", "ConvertTo", "parse input")
	}
	return o, nil
}

func (c *Converter) startRun(ctx context.Context, input string) *storage.Run {
	if c.runs == nil {
		return nil
	}
	run, err := c.runs.StartRun(ctx, input, string(c.format))
	if err != nil {
		c.logger.Warn("Failed to record run", slog.String("input", input), slog.Any("error", err))
		return nil
	}
	return run
}

func (c *Converter) finishRun(ctx context.Context, run *storage.Run, report *Report, runErr error) {
	if run == nil {
		return
	}
	if report != nil {
		run.Output = report.Output
		run.Axioms = report.Axioms
		run.Stats = report.Result.Stats
		run.Skipped = report.Skipped
		for _, cls := range report.Result.Blacklist.Sorted() {
			run.Blacklisted = append(run.Blacklisted, string(cls.IRI))
		}
	}
	if err := c.runs.FinishRun(ctx, run, runErr); err != nil {
		c.logger.Warn("Failed to record run result", slog.String("run", run.ID), slog.Any("error", err))
	}
}

type skipper interface{ Skipped() int }

func unwrapSkipper(out sink.WriteCloser) (skipper, bool) {
	if f, ok := out.(*sink.File); ok {
		out = f.WriteCloser
	}
	sk, ok := out.(skipper)
	return sk, ok
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
