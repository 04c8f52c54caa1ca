// Package config loads the calculator's optional YAML configuration
// file: the startup defaults for input base, output base, working
// scale, and whether extended register addressing is enabled. CLI flags
// always take precedence over a loaded config; config only supplies
// defaults a flag did not override.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config holds the startup defaults normally baked into the reference
// implementation's init_bmachine.
type Config struct {
	IBase        *uint `yaml:"ibase"`
	OBase        *uint `yaml:"obase"`
	Scale        *uint `yaml:"scale"`
	ExtendedRegs *bool `yaml:"extended_registers"`
}

// Default returns the built-in defaults: ibase=10, obase=10, scale=0,
// extended_registers=false.
func Default() *Config {
	ib, ob, sc, ext := uint(10), uint(10), uint(0), false
	return &Config{IBase: &ib, OBase: &ob, Scale: &sc, ExtendedRegs: &ext}
}

// Load reads and parses a YAML config file at path, overlaying it onto
// the built-in defaults. Fields absent from the file keep their default
// value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configured values satisfy the machine's
// invariants (ibase in [2,16], obase >= 2), returning a descriptive
// error naming the offending field.
func (c *Config) Validate() error {
	if c.IBase != nil && (*c.IBase < 2 || *c.IBase > 16) {
		return fmt.Errorf("config: ibase must be between 2 and 16 inclusive, got %d", *c.IBase)
	}
	if c.OBase != nil && *c.OBase < 2 {
		return fmt.Errorf("config: obase must be greater than 1, got %d", *c.OBase)
	}
	return nil
}
