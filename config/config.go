// Package config provides configuration loading and management for aboxer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	ssconfig "github.com/c360studio/semstreams/config"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/aboxer/aboxer"
	"github.com/c360studio/aboxer/export"
)

// Config represents the complete aboxer configuration
type Config struct {
	Conversion ConversionConfig `yaml:"conversion"`
	Output     OutputConfig     `yaml:"output"`
	NATS       NATSConfig       `yaml:"nats"`
	Batch      BatchConfig      `yaml:"batch"`
	Watch      WatchConfig      `yaml:"watch"`
}

// ConversionConfig configures the TBox to ABox conversion
type ConversionConfig struct {
	// AnonymousIDs selects how anonymous individuals are labelled
	// (sequential or uuid)
	AnonymousIDs string `yaml:"anonymous_ids"`
	// AnonymousPrefix is the label prefix for sequential anonymous individuals
	AnonymousPrefix string `yaml:"anonymous_prefix"`
	// ExpandEquivalences rewrites EquivalentClasses into SubClassOf pairs
	// before converting
	ExpandEquivalences bool `yaml:"expand_equivalences"`
	// Verify recomputes the blacklist with the Datalog engine and fails on
	// disagreement
	Verify bool `yaml:"verify"`
}

// OutputConfig configures where and how results are written
type OutputConfig struct {
	// Format is the output format (ofn, turtle, ntriples, jsonld)
	Format string `yaml:"format"`
	// Suffix is appended to the input path to name the output file
	Suffix string `yaml:"suffix"`
	// Directory receives output files (empty = next to the input)
	Directory string `yaml:"directory"`
}

// NATSConfig configures publishing of converted axioms
type NATSConfig struct {
	// URL is the NATS server URL (empty = do not publish)
	URL string `yaml:"url"`
	// SubjectPrefix is prepended to the axiom kind to form the subject
	SubjectPrefix string `yaml:"subject_prefix"`
	// GraphIngest also publishes every individual as a graph entity
	GraphIngest bool `yaml:"graph_ingest"`
	// RunsBucket is the KV bucket recording conversion runs (empty = off)
	RunsBucket string `yaml:"runs_bucket"`
}

// BatchConfig configures conversion of many files
type BatchConfig struct {
	// Workers is the number of files converted concurrently
	Workers int `yaml:"workers"`
	// Include lists doublestar patterns selecting input files inside a directory
	Include []string `yaml:"include"`
	// Exclude lists doublestar patterns removed from the selection
	Exclude []string `yaml:"exclude"`
}

// WatchConfig configures re-conversion on file changes
type WatchConfig struct {
	// Debounce is how long to wait for further changes before converting
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Conversion: ConversionConfig{
			AnonymousIDs:    aboxer.AnonymousIDsSequential,
			AnonymousPrefix: "anon",
		},
		Output: OutputConfig{
			Format: string(export.FormatFunctional),
			Suffix: ".aboxed",
		},
		NATS: NATSConfig{
			URL:           "", // Disabled
			SubjectPrefix: "aboxer.axiom",
		},
		Batch: BatchConfig{
			Workers: 4,
			Include: []string{"**/*.ofn"},
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, err := aboxer.NewIDGenerator(c.Conversion.AnonymousIDs); err != nil {
		return fmt.Errorf("conversion.anonymous_ids: %w", err)
	}
	if _, err := export.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if c.Output.Suffix == "" && c.Output.Directory == "" {
		return fmt.Errorf("output.suffix is required when output.directory is not set")
	}
	if c.NATS.URL != "" && c.NATS.SubjectPrefix == "" {
		return fmt.Errorf("nats.subject_prefix is required when nats.url is set")
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be at least 1")
	}
	if len(c.Batch.Include) == 0 {
		return fmt.Errorf("batch.include must not be empty")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file. ${VAR} and
// ${VAR:-default} references are expanded from the environment first.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := ssconfig.ExpandEnvWithDefaults(string(data))

	config := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Conversion
	if other.Conversion.AnonymousIDs != "" {
		c.Conversion.AnonymousIDs = other.Conversion.AnonymousIDs
	}
	if other.Conversion.AnonymousPrefix != "" {
		c.Conversion.AnonymousPrefix = other.Conversion.AnonymousPrefix
	}
	if other.Conversion.ExpandEquivalences {
		c.Conversion.ExpandEquivalences = true
	}
	if other.Conversion.Verify {
		c.Conversion.Verify = true
	}

	// Output
	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	if other.Output.Suffix != "" {
		c.Output.Suffix = other.Output.Suffix
	}
	if other.Output.Directory != "" {
		c.Output.Directory = other.Output.Directory
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.SubjectPrefix != "" {
		c.NATS.SubjectPrefix = other.NATS.SubjectPrefix
	}
	if other.NATS.GraphIngest {
		c.NATS.GraphIngest = true
	}
	if other.NATS.RunsBucket != "" {
		c.NATS.RunsBucket = other.NATS.RunsBucket
	}

	// Batch
	if other.Batch.Workers != 0 {
		c.Batch.Workers = other.Batch.Workers
	}
	if len(other.Batch.Include) > 0 {
		c.Batch.Include = other.Batch.Include
	}
	if len(other.Batch.Exclude) > 0 {
		c.Batch.Exclude = other.Batch.Exclude
	}

	// Watch
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
}

// IDGenerator returns the anonymous individual generator selected by the
// conversion settings.
func (c *Config) IDGenerator() (aboxer.AnonymousIDGenerator, error) {
	if c.Conversion.AnonymousIDs == "" || c.Conversion.AnonymousIDs == aboxer.AnonymousIDsSequential {
		return aboxer.NewSequentialIDs(c.Conversion.AnonymousPrefix), nil
	}
	return aboxer.NewIDGenerator(c.Conversion.AnonymousIDs)
}
