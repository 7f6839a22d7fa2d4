// Package leniasim adapts the Lenia engine to the core.Sim contract and
// registers the configured modes.
package leniasim

import (
	"fmt"
	"time"

	"lenia/internal/config"
	"lenia/internal/core"
	"lenia/internal/lenia"
	"lenia/internal/seed"
)

// Sim owns one independent run: engine, kernels, scratch and field.
type Sim struct {
	cfg     Config
	engine  *lenia.Engine
	field   *lenia.Field
	initial *lenia.Field
	display *core.ByteGrid

	seed  int64
	steps int
}

// New builds a Sim. Seed image problems and bad parameters are reported here.
func New(cfg Config) (*Sim, error) {
	engine, err := lenia.NewEngine(cfg.Params)
	if err != nil {
		return nil, err
	}
	size := cfg.Params.Size
	s := &Sim{
		cfg:     cfg,
		engine:  engine,
		field:   lenia.NewField(size),
		display: core.NewByteGrid(size.W, size.H),
		seed:    cfg.Seed,
	}
	if s.seed == 0 {
		s.seed = time.Now().UnixNano()
	}

	switch cfg.Source {
	case config.SourceImage:
		s.initial, err = seed.LoadImage(cfg.Image, size)
		if err != nil {
			return nil, err
		}
	case config.SourceRandom, "":
	default:
		return nil, fmt.Errorf("unknown seed source %q", cfg.Source)
	}
	s.Reset(0)
	return s, nil
}

// Name returns the mode the Sim was built for.
func (s *Sim) Name() string { return s.cfg.Mode }

// Size returns the field dimensions.
func (s *Sim) Size() core.Size { return s.display.Size() }

// Reset restores the initial field. Image modes reload the seed image; random
// modes draw a new field from seed, or from the current seed when seed is 0.
func (s *Sim) Reset(seedValue int64) {
	if seedValue != 0 {
		s.seed = seedValue
	}
	if s.initial != nil {
		s.field.CopyFrom(s.initial)
	} else {
		s.field.CopyFrom(seed.Random(s.field.Size(), s.seed))
	}
	s.steps = 0
	s.display.Update(s.field.Quantize)
}

// Step advances the field by one time step.
func (s *Sim) Step() {
	s.engine.Evolve(s.field)
	s.steps++
	s.display.Update(s.field.Quantize)
}

// Cells returns the field quantised to bytes.
func (s *Sim) Cells() []uint8 { return s.display.Cells() }

// Field exposes the live field. Callers must not resize it.
func (s *Sim) Field() *lenia.Field { return s.field }

// Stats summarises the current field.
func (s *Sim) Stats() lenia.Stats { return s.field.Stats() }

// Steps returns how many steps ran since the last reset.
func (s *Sim) Steps() int { return s.steps }

// Seed returns the seed the random source last used.
func (s *Sim) Seed() int64 { return s.seed }

// Config returns the configuration the Sim was built with.
func (s *Sim) Config() Config {
	c := s.cfg
	c.Params = c.Params.Clone()
	return c
}

// Factory returns a core.Factory building the named mode from base with
// key=value overrides.
func Factory(base *config.Config, mode string) core.Factory {
	return func(overrides map[string]string) (core.Sim, error) {
		cfg, err := FromConfig(base, mode)
		if err != nil {
			return nil, err
		}
		cfg, err = FromMap(cfg, overrides)
		if err != nil {
			return nil, fmt.Errorf("mode %s: %w", mode, err)
		}
		return New(cfg)
	}
}

// RegisterModes registers every mode of base with the core registry.
func RegisterModes(base *config.Config) {
	for _, name := range base.ModeNames() {
		core.Register(name, Factory(base, name))
	}
}

func init() {
	base, err := config.Default()
	if err != nil {
		panic(fmt.Sprintf("leniasim: embedded defaults: %v", err))
	}
	RegisterModes(base)
}
