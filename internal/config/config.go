// Package config loads run configuration from YAML, layered over embedded
// defaults that reproduce the reference setup.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"lenia/internal/lenia"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Seed sources a mode can start from.
const (
	SourceRandom = "random"
	SourceImage  = "image"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds everything a run is built from.
type Config struct {
	Grid      GridConfig            `yaml:"grid"`
	Dt        float64               `yaml:"dt"`
	Parallel  bool                  `yaml:"parallel"`
	Channels  []ChannelConfig       `yaml:"channels"`
	Modes     map[string]ModeConfig `yaml:"modes"`
	Stream    StreamConfig          `yaml:"stream"`
	Telemetry TelemetryConfig       `yaml:"telemetry"`
	Log       LogConfig             `yaml:"log"`
}

// GridConfig holds the field dimensions.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ChannelConfig is one growth channel: shell profile plus growth mapping.
type ChannelConfig struct {
	Shells []float64 `yaml:"shells"`
	Mu     float64   `yaml:"mu"`
	Sigma  float64   `yaml:"sigma"`
}

// ModeConfig describes how a named mode seeds its field.
type ModeConfig struct {
	Source string  `yaml:"source"` // random | image
	Radius float64 `yaml:"radius"`
	Seed   int64   `yaml:"seed"`
	Image  string  `yaml:"image"`
}

// StreamConfig holds HTTP frame stream settings.
type StreamConfig struct {
	Addr        string `yaml:"addr"`
	FPS         int    `yaml:"fps"`
	JPEGQuality int    `yaml:"jpeg_quality"`
	StaticDir   string `yaml:"static_dir"`
}

// TelemetryConfig controls per-step statistics output of headless runs.
type TelemetryConfig struct {
	Dir   string `yaml:"dir"`   // empty disables CSV output
	Every int    `yaml:"every"` // sample interval in steps
}

// LogConfig selects the logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default parses the embedded defaults.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	return cfg, nil
}

// Load reads a YAML file over the embedded defaults. Only fields present in the
// file are overwritten, except that a mode named in the file replaces the
// default mode of that name as a whole. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks every mode can be turned into valid engine parameters and
// that the stream settings are usable.
func (c *Config) Validate() error {
	if len(c.Modes) == 0 {
		return fmt.Errorf("%w: no modes defined", ErrInvalid)
	}
	for _, name := range c.ModeNames() {
		if _, _, err := c.Params(name); err != nil {
			return err
		}
	}
	if c.Stream.FPS <= 0 {
		return fmt.Errorf("%w: stream fps %d", ErrInvalid, c.Stream.FPS)
	}
	if c.Stream.JPEGQuality < 1 || c.Stream.JPEGQuality > 100 {
		return fmt.Errorf("%w: jpeg quality %d outside 1..100", ErrInvalid, c.Stream.JPEGQuality)
	}
	if c.Telemetry.Every < 0 {
		return fmt.Errorf("%w: telemetry interval %d", ErrInvalid, c.Telemetry.Every)
	}
	return nil
}

// ModeNames returns the configured mode names in sorted order.
func (c *Config) ModeNames() []string {
	names := make([]string, 0, len(c.Modes))
	for name := range c.Modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Mode returns the named mode.
func (c *Config) Mode(name string) (ModeConfig, bool) {
	m, ok := c.Modes[name]
	return m, ok
}

// Params converts the shared settings plus the named mode into engine
// parameters.
func (c *Config) Params(mode string) (lenia.Params, ModeConfig, error) {
	m, ok := c.Modes[mode]
	if !ok {
		return lenia.Params{}, ModeConfig{}, fmt.Errorf("%w: mode %q not configured", ErrInvalid, mode)
	}
	switch m.Source {
	case SourceRandom:
	case SourceImage:
		if m.Image == "" {
			return lenia.Params{}, m, fmt.Errorf("%w: mode %q needs an image path", ErrInvalid, mode)
		}
	default:
		return lenia.Params{}, m, fmt.Errorf("%w: mode %q has unknown source %q", ErrInvalid, mode, m.Source)
	}
	p := lenia.Params{
		Size:     lenia.Size{W: c.Grid.Width, H: c.Grid.Height},
		R:        m.Radius,
		Dt:       float32(c.Dt),
		Channels: c.LeniaChannels(),
		Parallel: c.Parallel,
	}
	if err := p.Validate(); err != nil {
		return lenia.Params{}, m, fmt.Errorf("%w: mode %q: %w", ErrInvalid, mode, err)
	}
	return p, m, nil
}

// LeniaChannels converts the channel list to engine channels.
func (c *Config) LeniaChannels() []lenia.Channel {
	out := make([]lenia.Channel, len(c.Channels))
	for i, ch := range c.Channels {
		out[i] = lenia.Channel{
			Shells: append([]float64(nil), ch.Shells...),
			Mu:     float32(ch.Mu),
			Sigma:  float32(ch.Sigma),
		}
	}
	return out
}

// ListenAddr returns the stream address, letting a PORT variable from getenv
// take precedence over the configured value.
func (s StreamConfig) ListenAddr(getenv func(string) string) string {
	if getenv != nil {
		if port := getenv("PORT"); port != "" {
			return ":" + port
		}
	}
	if s.Addr == "" {
		return ":8050"
	}
	return s.Addr
}
