package leniasim

import (
	"fmt"
	"strconv"

	"lenia/internal/config"
	"lenia/internal/lenia"
)

// Config is everything one Sim needs: engine parameters plus how to seed the
// field.
type Config struct {
	Mode   string
	Source string
	Params lenia.Params

	// Seed drives the random source. Zero picks a fresh seed when the Sim is
	// built.
	Seed  int64
	Image string
}

// DefaultConfig returns the named mode from the embedded defaults.
func DefaultConfig(mode string) (Config, error) {
	base, err := config.Default()
	if err != nil {
		return Config{}, err
	}
	return FromConfig(base, mode)
}

// FromConfig extracts the named mode from a loaded configuration.
func FromConfig(base *config.Config, mode string) (Config, error) {
	p, m, err := base.Params(mode)
	if err != nil {
		return Config{}, err
	}
	return Config{Mode: mode, Source: m.Source, Params: p, Seed: m.Seed, Image: m.Image}, nil
}

// FromMap overlays flag-style key/value pairs onto c. Unknown keys are
// ignored; malformed values are errors.
func FromMap(c Config, cfg map[string]string) (Config, error) {
	c.Params = c.Params.Clone()
	if cfg == nil {
		return c, c.Params.Validate()
	}
	if v, ok := cfg["w"]; ok {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("override w=%q: %w", v, err)
		}
		c.Params.Size.W = parsed
	}
	if v, ok := cfg["h"]; ok {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("override h=%q: %w", v, err)
		}
		c.Params.Size.H = parsed
	}
	if v, ok := cfg["r"]; ok {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c, fmt.Errorf("override r=%q: %w", v, err)
		}
		c.Params.R = parsed
	}
	if v, ok := cfg["dt"]; ok {
		parsed, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return c, fmt.Errorf("override dt=%q: %w", v, err)
		}
		c.Params.Dt = float32(parsed)
	}
	if v, ok := cfg["seed"]; ok {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c, fmt.Errorf("override seed=%q: %w", v, err)
		}
		c.Seed = parsed
	}
	if v, ok := cfg["parallel"]; ok {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return c, fmt.Errorf("override parallel=%q: %w", v, err)
		}
		c.Params.Parallel = parsed
	}
	if v, ok := cfg["image"]; ok && v != "" {
		c.Image = v
		c.Source = config.SourceImage
	}
	return c, c.Params.Validate()
}
