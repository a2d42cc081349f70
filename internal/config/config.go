package config

import (
	"os"
	"runtime"

	"dario.cat/mergo"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Config holds the options shared by the builder, the directive parser and the driver
type Config struct {
	// SuppressPrinting allows statements without a trailing semicolon
	SuppressPrinting bool `toml:"suppress_printing"`
	// DirectiveMarker is the prefix that turns a comment into a directive
	DirectiveMarker string `toml:"directive_marker"`
	// Builtins are the pseudo-variables defined by the runtime
	Builtins  []string `toml:"builtins"`
	Verbosity int      `toml:"verbosity"`
	Workers   int      `toml:"workers"`
	Validate  bool     `toml:"validate"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		DirectiveMarker: "!",
		Builtins:        []string{"true", "false", "pi", "nargin", "nargout", "inf", "nan", "eps"},
		Workers:         runtime.NumCPU(),
	}
}

// Load reads a TOML configuration file. Unset fields take their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading configuration")
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing configuration %s", path)
	}
	return cfg, nil
}

func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := mergo.Merge(cfg, Default()); err != nil {
		return nil, errors.Wrap(err, "applying defaults")
	}

	if cfg.Workers < 0 {
		return nil, errors.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	return cfg, nil
}

// BuiltinSet returns the builtin pseudo-variables as a set
func (c *Config) BuiltinSet() mapset.Set[string] {
	return mapset.NewThreadUnsafeSet(c.Builtins...)
}

// IsDirective reports whether a comment body starts with the directive marker
func (c *Config) IsDirective(text string) bool {
	return c.DirectiveMarker != "" && len(text) >= len(c.DirectiveMarker) && text[:len(c.DirectiveMarker)] == c.DirectiveMarker
}
