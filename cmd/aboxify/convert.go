package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/c360studio/semstreams/metric"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/c360studio/aboxer/aboxer"
	"github.com/c360studio/aboxer/batch"
	"github.com/c360studio/aboxer/config"
	"github.com/c360studio/aboxer/pipeline"
	"github.com/c360studio/aboxer/sink"
	"github.com/c360studio/aboxer/storage"
	"github.com/c360studio/aboxer/watch"
)

type convertFlags struct {
	output             string
	format             string
	suffix             string
	outputDir          string
	verify             bool
	anonymousIDs       string
	expandEquivalences bool
	natsURL            string
	graphIngest        bool
	runsBucket         string
	workers            int
	watch              bool
	metricsPort        int
}

func convertCmd(g *globalFlags) *cobra.Command {
	f := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert <input...>",
		Short: "Convert ontology files",
		Long: `Convert ontology files in OWL functional syntax.

Inputs may be files, directories (searched with batch.include/batch.exclude)
or doublestar glob patterns. "-" reads standard input and writes standard
output. Without --output, the result of input.ofn is written to
input.ofn.aboxed (plus the format extension for RDF formats).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, cfg, err := g.setup(cmd)
			if err != nil {
				return err
			}
			f.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return runConvert(cmd.Context(), f, cfg, args, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", "", `Output file for a single input ("-" for stdout)`)
	flags.StringVar(&f.format, "format", "", "Output format (ofn, turtle, ntriples, jsonld)")
	flags.StringVar(&f.suffix, "suffix", "", "Suffix appended to input paths to name outputs")
	flags.StringVar(&f.outputDir, "output-dir", "", "Directory receiving the outputs")
	flags.BoolVar(&f.verify, "verify", false, "Cross-check the blacklist with the Datalog engine")
	flags.StringVar(&f.anonymousIDs, "anonymous-ids", "", "Anonymous individual labels (sequential, uuid)")
	flags.BoolVar(&f.expandEquivalences, "expand-equivalences", false, "Rewrite EquivalentClasses into SubClassOf pairs first")
	flags.StringVar(&f.natsURL, "nats-url", "", "Publish converted axioms to this NATS server")
	flags.BoolVar(&f.graphIngest, "graph-ingest", false, "Also publish individuals as graph entities (needs --nats-url)")
	flags.StringVar(&f.runsBucket, "runs-bucket", "", "Record runs in this NATS KV bucket (needs --nats-url)")
	flags.IntVar(&f.workers, "workers", 0, "Number of files converted concurrently")
	flags.BoolVar(&f.watch, "watch", false, "Convert again whenever an input changes")
	flags.IntVar(&f.metricsPort, "metrics-port", 0, "Serve Prometheus metrics on this port while watching")

	return cmd
}

// apply overrides the configuration with the flags set on the command line.
func (f *convertFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = f.format
	}
	if flags.Changed("suffix") {
		cfg.Output.Suffix = f.suffix
	}
	if flags.Changed("output-dir") {
		cfg.Output.Directory = f.outputDir
	}
	if flags.Changed("verify") {
		cfg.Conversion.Verify = f.verify
	}
	if flags.Changed("anonymous-ids") {
		cfg.Conversion.AnonymousIDs = f.anonymousIDs
	}
	if flags.Changed("expand-equivalences") {
		cfg.Conversion.ExpandEquivalences = f.expandEquivalences
	}
	if flags.Changed("nats-url") {
		cfg.NATS.URL = f.natsURL
	}
	if flags.Changed("graph-ingest") {
		cfg.NATS.GraphIngest = f.graphIngest
	}
	if flags.Changed("runs-bucket") {
		cfg.NATS.RunsBucket = f.runsBucket
	}
	if flags.Changed("workers") {
		cfg.Batch.Workers = f.workers
	}
}

func runConvert(ctx context.Context, f *convertFlags, cfg *config.Config, args []string, logger *slog.Logger) error {
	if f.output != "" && len(args) != 1 {
		return fmt.Errorf("--output needs exactly one input, got %d", len(args))
	}
	if f.watch {
		for _, a := range args {
			if a == pipeline.StdinPath {
				return errors.New("--watch cannot watch standard input")
			}
		}
	}

	// Setup signal handling
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	metricsRegistry := metric.NewMetricsRegistry()
	metrics, err := aboxer.NewMetrics(metricsRegistry)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(metrics),
	}

	if cfg.NATS.URL != "" {
		natsClient, err := connectToNATS(ctx, cfg.NATS.URL, logger)
		if err != nil {
			return err
		}
		defer natsClient.Close(context.Background())

		opts = append(opts, pipeline.WithAxiomPublisher(natsClient.GetConnection()))
		if cfg.NATS.GraphIngest {
			opts = append(opts, pipeline.WithGraphPublisher(natsClient))
		}
		if cfg.NATS.RunsBucket != "" {
			store, err := openRunStore(ctx, natsClient, cfg.NATS.RunsBucket)
			if err != nil {
				return err
			}
			opts = append(opts, pipeline.WithRunStore(store))
		}
	}

	converter, err := pipeline.New(cfg, opts...)
	if err != nil {
		return err
	}

	paths, err := batch.Expand(args, cfg.Batch.Include, cfg.Batch.Exclude)
	if err != nil {
		return err
	}

	convert := batch.ConvertFunc(converter.ConvertFile)
	if f.output != "" {
		convert = func(ctx context.Context, path string) (*pipeline.Report, error) {
			return converter.ConvertTo(ctx, path, f.output)
		}
	}

	_, err = batch.Run(ctx, paths, cfg.Batch.Workers, convert, logger)
	if !f.watch {
		return err
	}
	if err != nil {
		logger.Warn("Some conversions failed, watching anyway", "error", err)
	}

	if f.metricsPort > 0 {
		stop := serveMetrics(f.metricsPort, metricsRegistry, logger)
		defer stop()
	}
	return watchAndConvert(ctx, cfg, args, convert, logger)
}

// watchAndConvert converts inputs again whenever they change, until ctx is
// cancelled.
func watchAndConvert(ctx context.Context, cfg *config.Config, args []string, convert batch.ConvertFunc, logger *slog.Logger) error {
	w, err := watch.New(watch.Config{
		Debounce: cfg.Watch.Debounce,
		Include:  cfg.Batch.Include,
		Exclude:  cfg.Batch.Exclude,
	}, logger)
	if err != nil {
		return err
	}

	for _, arg := range args {
		if info, err := os.Stat(arg); err == nil && info.IsDir() {
			if err := w.Add(arg); err != nil {
				return fmt.Errorf("watch %s: %w", arg, err)
			}
			continue
		}
		files, err := batch.Expand([]string{arg}, cfg.Batch.Include, cfg.Batch.Exclude)
		if err != nil {
			return err
		}
		for _, file := range files {
			if err := w.Add(file); err != nil {
				return fmt.Errorf("watch %s: %w", file, err)
			}
		}
	}

	w.Start(ctx)
	defer func() { _ = w.Stop() }()
	logger.Info("Watching for changes", "inputs", args)

	for ev := range w.Events() {
		if ev.Op == watch.OpDelete {
			logger.Info("Input removed", "path", ev.Path)
			continue
		}
		if _, err := convert(ctx, ev.Path); err != nil {
			logger.Error("Conversion failed", "input", ev.Path, "error", err)
		}
	}

	logger.Info("Watcher stopped")
	return nil
}

// serveMetrics exposes the registry over HTTP and returns a function that
// shuts the server down.
func serveMetrics(port int, registry *metric.MetricsRegistry, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry.PrometheusRegistry(), promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "error", err)
		}
	}()
	logger.Info("Serving metrics", "addr", server.Addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}

func connectToNATS(ctx context.Context, url string, logger *slog.Logger) (*natsclient.Client, error) {
	client, err := sink.Connect(ctx, url, logger)
	if err != nil {
		return nil, wrapNATSError(err, url)
	}
	return client, nil
}

func openRunStore(ctx context.Context, client *natsclient.Client, bucket string) (*storage.Store, error) {
	js, err := client.JetStream()
	if err != nil {
		return nil, fmt.Errorf("open JetStream: %w", err)
	}
	store, err := storage.NewStore(ctx, js, bucket)
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}
	return store, nil
}

// wrapNATSError provides helpful guidance when NATS connection fails.
func wrapNATSError(err error, url string) error {
	errStr := err.Error()

	// Check for common connection errors
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no servers available") ||
		strings.Contains(errStr, "timeout") {
		return fmt.Errorf(`NATS connection failed: %w

NATS is not running at %s.

To start NATS:
  docker run -p 4222:4222 nats -js

Or set nats.url in aboxer.yaml to point to your NATS server.`, err, url)
	}

	return fmt.Errorf("NATS connection failed: %w", err)
}
