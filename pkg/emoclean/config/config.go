package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/emoclean/pkg/emoclean"
	"github.com/cognicore/emoclean/pkg/emoclean/internalerr"
)

// Config represents a cleanup run configuration
type Config struct {
	Input       string `yaml:"input" toml:"input"`
	Output      string `yaml:"output" toml:"output"`
	Conflicts   string `yaml:"conflicts" toml:"conflicts"`
	Strategy    string `yaml:"strategy" toml:"strategy"`
	LexiconPath string `yaml:"lexicon" toml:"lexicon"`
	ReportDB    string `yaml:"report_db" toml:"report_db"`
	LogLevel    string `yaml:"log_level" toml:"log_level"`
	LogFormat   string `yaml:"log_format" toml:"log_format"`
}

// Default returns the configuration used when no file or flag overrides a value.
func Default() Config {
	return Config{
		Input:     "data/datatrain.csv",
		Output:    "data/datatrain_clean.csv",
		Conflicts: "data/duplicate_conflicts.csv",
		Strategy:  string(emoclean.StrategyNone),
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file on top of Default().
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("%w: unsupported config format %q", internalerr.ErrInvalidConfig, filepath.Ext(path))
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks required paths and the strategy name.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return fmt.Errorf("%w: input path is required", internalerr.ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("%w: output path is required", internalerr.ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Conflicts) == "" {
		return fmt.Errorf("%w: conflicts path is required", internalerr.ErrInvalidConfig)
	}
	if _, err := emoclean.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	return nil
}

// ParsedStrategy returns the validated strategy.
func (c Config) ParsedStrategy() (emoclean.Strategy, error) {
	return emoclean.ParseStrategy(c.Strategy)
}
