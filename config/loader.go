package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile sits next to the ontologies it configures.
	ProjectConfigFile = "aboxer.yaml"
	// UserConfigDir is relative to the home directory.
	UserConfigDir = ".config/aboxer"
	// UserConfigFile holds per-user defaults such as the NATS URL.
	UserConfigFile = "config.yaml"
	// ConfigFileEnv names a config file to use when --config is not given.
	ConfigFileEnv = "ABOXER_CONFIG"
)

// layer is one config file in the precedence chain.
type layer struct {
	name     string
	path     string
	required bool
}

// Loader resolves the converter configuration for the current invocation.
type Loader struct {
	logger *slog.Logger
}

// NewLoader returns a Loader that logs to logger, or slog.Default when nil.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load starts from DefaultConfig and merges, lowest precedence first: the
// user file, the nearest aboxer.yaml of the ontology workspace, and the file
// named by path (or by $ABOXER_CONFIG when path is empty). Only the last one
// is required to exist. The merged result is validated before it is returned.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	for _, ly := range l.layers(path) {
		loaded, err := LoadFromFile(ly.path)
		switch {
		case err == nil:
			l.logger.Debug("Merged config layer", slog.String("layer", ly.name), slog.String("path", ly.path))
			cfg.Merge(loaded)
		case ly.required:
			return nil, err
		case errors.Is(err, os.ErrNotExist):
		default:
			l.logger.Warn("Skipping unreadable config layer",
				slog.String("layer", ly.name), slog.String("path", ly.path), slog.String("error", err.Error()))
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) layers(path string) []layer {
	var out []layer
	if p := l.userConfigPath(); p != "" {
		out = append(out, layer{name: "user", path: p})
	}
	if p := l.findProjectConfig(); p != "" {
		out = append(out, layer{name: "project", path: p})
	}
	if path == "" {
		path = os.Getenv(ConfigFileEnv)
	}
	if path != "" {
		out = append(out, layer{name: "explicit", path: path, required: true})
	}
	return out
}

// EnsureUserConfig writes DefaultConfig to the user config path unless a file
// is already there.
func (l *Loader) EnsureUserConfig() error {
	p := l.userConfigPath()
	if _, err := os.Stat(p); err == nil {
		return nil
	}
	if err := DefaultConfig().SaveToFile(p); err != nil {
		return err
	}
	l.logger.Info("Created default user config", slog.String("path", p))
	return nil
}

func (l *Loader) userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig returns the aboxer.yaml closest to the working directory.
// The search does not leave the enclosing git checkout, so a config belonging
// to an unrelated parent tree is never picked up.
func (l *Loader) findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ProjectConfigFile)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return ""
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
