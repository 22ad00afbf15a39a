// Package scenario loads pipeline configurations and recorded frame
// sequences for the hwcfilter command.
package scenario

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/hwcfilter"
	"github.com/gogpu/hwcfilter/filters/visiblerect"
)

// Config describes a pipeline.
//
//	diagnostics = true
//	log_level = "debug"
//	max_layers = 64
//
//	[[filter]]
//	name = "visiblerect"
//	position = "visiblerect"
type Config struct {
	Diagnostics bool           `toml:"diagnostics"`
	LogLevel    string         `toml:"log_level"`
	MaxLayers   int            `toml:"max_layers"`
	Filters     []FilterConfig `toml:"filter"`
}

// FilterConfig places one filter in the pipeline. An empty Position uses
// the filter's usual position.
type FilterConfig struct {
	Name     string `toml:"name"`
	Position string `toml:"position"`
}

// Level returns the configured log level, Info if unset.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("scenario: log_level: %w", err)
	}
	return l, nil
}

// DecodeConfig parses a TOML pipeline configuration. Unknown keys are
// rejected so typos don't silently drop a filter.
func DecodeConfig(data string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("scenario: decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("scenario: unknown config keys: %s", strings.Join(keys, ", "))
	}
	if cfg.MaxLayers < 0 {
		return nil, fmt.Errorf("scenario: max_layers must not be negative, got %d", cfg.MaxLayers)
	}
	return &cfg, nil
}

// LoadConfig reads and parses the configuration at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	return DecodeConfig(string(data))
}

// constructor builds a named filter from the configuration.
type constructor struct {
	position hwcfilter.Position
	build    func(cfg *Config, logger *slog.Logger) hwcfilter.Filter
}

var constructors = map[string]constructor{
	"visiblerect": {
		position: hwcfilter.PositionVisibleRect,
		build: func(cfg *Config, logger *slog.Logger) hwcfilter.Filter {
			opts := []visiblerect.Option{visiblerect.WithLogger(logger)}
			if cfg.MaxLayers > 0 {
				opts = append(opts, visiblerect.WithMaxLayers(cfg.MaxLayers))
			}
			return visiblerect.New(opts...)
		},
	},
}

// FilterNames returns the filter names a configuration may use.
func FilterNames() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build assembles the configured pipeline, logging through logger.
func (c *Config) Build(logger *slog.Logger) (*hwcfilter.Manager, error) {
	b := hwcfilter.NewBuilder(
		hwcfilter.WithDiagnostics(c.Diagnostics),
		hwcfilter.WithLogger(logger),
	)
	for _, fc := range c.Filters {
		ctor, ok := constructors[fc.Name]
		if !ok {
			return nil, fmt.Errorf("scenario: unknown filter %q (have %s)", fc.Name, strings.Join(FilterNames(), ", "))
		}
		pos := ctor.position
		if fc.Position != "" {
			p, err := hwcfilter.ParsePosition(fc.Position)
			if err != nil {
				return nil, fmt.Errorf("scenario: filter %q: %w", fc.Name, err)
			}
			pos = p
		}
		b.Add(ctor.build(c, logger), pos)
	}
	return b.Build()
}
