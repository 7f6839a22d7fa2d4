// Package lenia implements a multi-kernel Lenia engine: a continuous cellular
// automaton whose state is a field of densities in [0,1], advanced by FFT
// convolution against radial shell kernels, a Gaussian growth mapping and an
// explicit Euler step.
package lenia

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrBadSize reports a grid with a non-positive dimension.
	ErrBadSize = errors.New("lenia: grid dimensions must be positive")
	// ErrBadRadius reports a non-positive or non-finite kernel radius.
	ErrBadRadius = errors.New("lenia: kernel radius must be positive")
	// ErrBadStep reports a non-positive or non-finite time step.
	ErrBadStep = errors.New("lenia: time step must be positive")
	// ErrNoChannels reports a parameter set without growth channels.
	ErrNoChannels = errors.New("lenia: at least one channel is required")
	// ErrNoShells reports a channel whose shell profile is empty.
	ErrNoShells = errors.New("lenia: shell profile is empty")
	// ErrBadSigma reports a growth width that is zero, negative or non-finite.
	ErrBadSigma = errors.New("lenia: growth sigma must be positive")
	// ErrZeroMass reports a kernel whose accumulated mass cannot be normalised.
	ErrZeroMass = errors.New("lenia: kernel mass is zero")
)

// Size describes the dimensions of the field.
type Size struct {
	W int
	H int
}

// Cells returns the number of cells in a field of this size.
func (s Size) Cells() int { return s.W * s.H }

// Channel pairs a radial shell profile with the growth mapping applied to its
// convolution response.
type Channel struct {
	Shells []float64
	Mu     float32
	Sigma  float32
}

// Params holds everything the engine needs for one run. It is immutable once
// handed to NewEngine.
type Params struct {
	Size     Size
	R        float64
	Dt       float32
	Channels []Channel

	// Parallel convolves channels concurrently after the forward transform.
	Parallel bool
}

// Reference values.
const (
	DefaultWidth  = 350
	DefaultHeight = 350
	DefaultDt     = 0.1

	// ShellWidth is the Gaussian width of each shell bump along the
	// fractional radial coordinate.
	ShellWidth = 0.15
)

// DefaultChannels returns the three reference channels: shells
// [1 5/12 2/3], [1/12 1] and [1] with their growth means and widths.
func DefaultChannels() []Channel {
	return []Channel{
		{Shells: []float64{1, 5.0 / 12, 2.0 / 3}, Mu: 0.156, Sigma: 0.0118},
		{Shells: []float64{1.0 / 12, 1}, Mu: 0.193, Sigma: 0.049},
		{Shells: []float64{1}, Mu: 0.342, Sigma: 0.0891},
	}
}

// DefaultParams returns the reference configuration for the given radius.
func DefaultParams(r float64) Params {
	return Params{
		Size:     Size{W: DefaultWidth, H: DefaultHeight},
		R:        r,
		Dt:       DefaultDt,
		Channels: DefaultChannels(),
	}
}

// Validate checks the preconditions the engine relies on. Kernel mass is
// checked later, when the kernels are built.
func (p Params) Validate() error {
	if p.Size.W <= 0 || p.Size.H <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrBadSize, p.Size.W, p.Size.H)
	}
	if !(p.R > 0) || math.IsInf(p.R, 0) {
		return fmt.Errorf("%w: %v", ErrBadRadius, p.R)
	}
	dt := float64(p.Dt)
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: %v", ErrBadStep, p.Dt)
	}
	return validateChannels(p.Channels)
}

func validateChannels(channels []Channel) error {
	if len(channels) == 0 {
		return ErrNoChannels
	}
	for i, ch := range channels {
		if len(ch.Shells) == 0 {
			return fmt.Errorf("channel %d: %w", i, ErrNoShells)
		}
		s := float64(ch.Sigma)
		if !(s > 0) || math.IsInf(s, 0) {
			return fmt.Errorf("channel %d: %w: %v", i, ErrBadSigma, ch.Sigma)
		}
		if m := float64(ch.Mu); math.IsNaN(m) || math.IsInf(m, 0) {
			return fmt.Errorf("channel %d: growth mean %v is not finite", i, ch.Mu)
		}
	}
	return nil
}

// Clone returns a deep copy so callers cannot alias shell slices.
func (p Params) Clone() Params {
	c := p
	c.Channels = make([]Channel, len(p.Channels))
	for i, ch := range p.Channels {
		c.Channels[i] = Channel{
			Shells: append([]float64(nil), ch.Shells...),
			Mu:     ch.Mu,
			Sigma:  ch.Sigma,
		}
	}
	return c
}
