// Package config loads the YAML configuration a clickgraph-server or
// clickgraph-cli process starts from: translation limits plus the
// server's own listen/log settings. internal/translate.Config itself
// stays schema-agnostic (a plain struct a caller can build by hand);
// this package only owns turning a YAML file into one.
package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/clickgraph/clickgraph/internal/cgerrors"
	"github.com/clickgraph/clickgraph/internal/translate"
	"github.com/clickgraph/clickgraph/internal/vlp"
)

// Config is the root configuration document.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Translate TranslateConfig `yaml:"translate"`
}

// ServerConfig holds the clickgraph-server process's own settings.
type ServerConfig struct {
	ListenAddr     string   `yaml:"listen_addr"`
	LogLevel       string   `yaml:"log_level"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	CatalogPath    string   `yaml:"catalog_path"`
}

// TranslateConfig mirrors translate.Config with yaml tags; ToTranslateConfig
// converts it, substituting the documented default when MaxRecursiveCTEDepth
// is left at zero.
type TranslateConfig struct {
	MaxRecursiveCTEDepth uint32 `yaml:"max_recursive_cte_depth"`
	SQLOnly              bool   `yaml:"sql_only"`
}

// ToTranslateConfig converts t into the translate.Config the core
// pipeline actually takes.
func (t TranslateConfig) ToTranslateConfig() translate.Config {
	depth := t.MaxRecursiveCTEDepth
	if depth == 0 {
		depth = vlp.DefaultMaxRecursiveCTEDepth
	}
	return translate.Config{MaxRecursiveCTEDepth: depth, SQLOnly: t.SQLOnly}
}

// Load reads and validates the YAML configuration file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are built from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks that cfg's values are internally coherent.
func Validate(cfg *Config) error {
	if cfg.Server.LogLevel != "" && !validLogLevels[cfg.Server.LogLevel] {
		return cgerrors.InvalidConfig("server.log_level", fmt.Sprintf("%q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	return nil
}
