// Package config loads the ambient defaults a host wires into
// internal/vm.Runner and internal/diagnostics.ImmediateReport before a
// program ever runs: quota, per-opcode price overrides, dispatch
// strategy, report coloring, and tracing (SPEC_FULL.md 4.L).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/contour-terminal/endo/internal/bytecode"
	"github.com/contour-terminal/endo/internal/diagnostics"
	"github.com/contour-terminal/endo/internal/vm"
)

// Config is the top-level endo.yaml configuration.
type Config struct {
	// DefaultQuota seeds a new Runner's quota; 0 means vm.NoQuota.
	DefaultQuota int `yaml:"default_quota"`

	// OpcodePrices overrides the default per-opcode quota price, keyed by
	// opcode name as rendered by bytecode.Opcode.String.
	OpcodePrices map[string]int `yaml:"opcode_prices,omitempty"`

	// DispatchMode is "switch" or "threaded" (vm.Switch/vm.Threaded).
	DispatchMode string `yaml:"dispatch_mode"`

	// ReportColor is "auto", "always", or "never".
	ReportColor string `yaml:"report_color"`

	TraceEnabled bool `yaml:"trace_enabled"`
}

// Default returns the configuration a host gets with no config file
// present: unlimited quota, default opcode prices, switch dispatch,
// auto color, no tracing.
func Default() *Config {
	return &Config{
		DefaultQuota: 0,
		DispatchMode: "switch",
		ReportColor:  "auto",
	}
}

// Load reads and parses an endo.yaml file. A missing file is not an
// error — the caller gets Default() back — since absence of a config
// file is the documented default (SPEC_FULL.md 4.L).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses endo.yaml content from bytes, filling in any field the
// document omits from Default().
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DispatchMode {
	case "switch", "threaded":
	default:
		return fmt.Errorf("config: dispatch_mode must be \"switch\" or \"threaded\", got %q", c.DispatchMode)
	}
	switch c.ReportColor {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("config: report_color must be \"auto\", \"always\", or \"never\", got %q", c.ReportColor)
	}
	for name := range c.OpcodePrices {
		if _, ok := bytecode.OpcodeFromName(name); !ok {
			return fmt.Errorf("config: opcode_prices: unknown opcode %q", name)
		}
	}
	return nil
}

// Prices translates OpcodePrices into the map vm.Runner.Prices expects.
func (c *Config) Prices() map[bytecode.Opcode]int {
	if len(c.OpcodePrices) == 0 {
		return nil
	}
	out := make(map[bytecode.Opcode]int, len(c.OpcodePrices))
	for name, price := range c.OpcodePrices {
		if op, ok := bytecode.OpcodeFromName(name); ok {
			out[op] = price
		}
	}
	return out
}

// Quota translates DefaultQuota into the sentinel Runner.SetQuota
// expects.
func (c *Config) Quota() int {
	if c.DefaultQuota == 0 {
		return vm.NoQuota
	}
	return c.DefaultQuota
}

// Dispatch translates DispatchMode into a vm.DispatchMode.
func (c *Config) Dispatch() vm.DispatchMode {
	if c.DispatchMode == "threaded" {
		return vm.Threaded
	}
	return vm.Switch
}

// Color translates ReportColor into a diagnostics.Color.
func (c *Config) Color() diagnostics.Color {
	switch c.ReportColor {
	case "always":
		return diagnostics.ColorAlways
	case "never":
		return diagnostics.ColorNever
	default:
		return diagnostics.ColorAuto
	}
}
