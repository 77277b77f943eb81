package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Conversion.AnonymousIDs != "sequential" {
		t.Errorf("expected sequential anonymous ids, got %s", cfg.Conversion.AnonymousIDs)
	}
	if cfg.Output.Format != "ofn" {
		t.Errorf("expected default format ofn, got %s", cfg.Output.Format)
	}
	if cfg.Output.Suffix != ".aboxed" {
		t.Errorf("expected default suffix .aboxed, got %s", cfg.Output.Suffix)
	}
	if cfg.NATS.URL != "" {
		t.Error("expected NATS publishing to be disabled by default")
	}
	if cfg.Batch.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Batch.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "uuid anonymous ids",
			modify:  func(c *Config) { c.Conversion.AnonymousIDs = "uuid" },
			wantErr: false,
		},
		{
			name:    "unknown anonymous ids",
			modify:  func(c *Config) { c.Conversion.AnonymousIDs = "random" },
			wantErr: true,
		},
		{
			name:    "unknown format",
			modify:  func(c *Config) { c.Output.Format = "rdfxml" },
			wantErr: true,
		},
		{
			name:    "no suffix and no directory",
			modify:  func(c *Config) { c.Output.Suffix = "" },
			wantErr: true,
		},
		{
			name: "no suffix with directory",
			modify: func(c *Config) {
				c.Output.Suffix = ""
				c.Output.Directory = "/tmp/out"
			},
			wantErr: false,
		},
		{
			name: "nats without subject prefix",
			modify: func(c *Config) {
				c.NATS.URL = "nats://localhost:4222"
				c.NATS.SubjectPrefix = ""
			},
			wantErr: true,
		},
		{
			name:    "zero workers",
			modify:  func(c *Config) { c.Batch.Workers = 0 },
			wantErr: true,
		},
		{
			name:    "empty include",
			modify:  func(c *Config) { c.Batch.Include = nil },
			wantErr: true,
		},
		{
			name:    "negative debounce",
			modify:  func(c *Config) { c.Watch.Debounce = -time.Second },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temp file with config
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
conversion:
  anonymous_ids: uuid
  expand_equivalences: true
  verify: true
output:
  format: turtle
  directory: /out
nats:
  url: "nats://${ABOXER_TEST_NATS_HOST:-localhost}:4222"
batch:
  workers: 8
  include:
    - "**/*.ofn"
    - "**/*.owl"
  exclude:
    - "**/vendor/**"
watch:
  debounce: 2s
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Conversion.AnonymousIDs != "uuid" {
		t.Errorf("expected uuid anonymous ids, got %s", cfg.Conversion.AnonymousIDs)
	}
	if !cfg.Conversion.ExpandEquivalences || !cfg.Conversion.Verify {
		t.Error("expected expand_equivalences and verify to be set")
	}
	if cfg.Output.Format != "turtle" {
		t.Errorf("expected format turtle, got %s", cfg.Output.Format)
	}
	if cfg.Output.Suffix != ".aboxed" {
		t.Errorf("expected default suffix to survive, got %s", cfg.Output.Suffix)
	}
	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Errorf("expected NATS URL nats://localhost:4222, got %s", cfg.NATS.URL)
	}
	if cfg.Batch.Workers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.Batch.Workers)
	}
	if len(cfg.Batch.Include) != 2 {
		t.Errorf("expected 2 include patterns, got %d", len(cfg.Batch.Include))
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("expected debounce 2s, got %v", cfg.Watch.Debounce)
	}
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("ABOXER_TEST_NATS_HOST", "nats.prod")
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "nats:\n  url: \"nats://${ABOXER_TEST_NATS_HOST:-localhost}:4222\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.NATS.URL != "nats://nats.prod:4222" {
		t.Errorf("expected NATS URL nats://nats.prod:4222, got %s", cfg.NATS.URL)
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Conversion: ConversionConfig{
			Verify: true,
		},
		Output: OutputConfig{
			Format: "ntriples",
		},
		NATS: NATSConfig{
			GraphIngest: true,
			RunsBucket:  "RUNS",
		},
	}

	base.Merge(override)

	if !base.NATS.GraphIngest || base.NATS.RunsBucket != "RUNS" {
		t.Errorf("expected nats settings to merge, got %+v", base.NATS)
	}
	if base.NATS.SubjectPrefix != "aboxer.axiom" {
		t.Errorf("expected subject prefix to remain default, got %s", base.NATS.SubjectPrefix)
	}

	if base.Output.Format != "ntriples" {
		t.Errorf("expected format ntriples, got %s", base.Output.Format)
	}
	// Suffix should remain from base since override didn't set it
	if base.Output.Suffix != ".aboxed" {
		t.Errorf("expected suffix to remain default, got %s", base.Output.Suffix)
	}
	if !base.Conversion.Verify {
		t.Error("expected verify to be enabled")
	}
	if base.Conversion.AnonymousIDs != "sequential" {
		t.Errorf("expected anonymous ids to remain default, got %s", base.Conversion.AnonymousIDs)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Output.Format = "jsonld"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	// Load and verify
	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Output.Format != "jsonld" {
		t.Errorf("expected format jsonld, got %s", loaded.Output.Format)
	}
	if loaded.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("expected debounce to round trip, got %v", loaded.Watch.Debounce)
	}
}

func TestConfigIDGenerator(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Conversion.AnonymousPrefix = "x"
	ids, err := cfg.IDGenerator()
	if err != nil {
		t.Fatalf("IDGenerator() error = %v", err)
	}
	if got := ids.Next().ID; got != "_:x1" {
		t.Errorf("expected _:x1, got %s", got)
	}
}
