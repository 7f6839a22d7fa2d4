package core

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownMode reports a lookup for a simulation that was never registered.
var ErrUnknownMode = errors.New("unknown simulation mode")

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Sim defines the minimal contract a simulation must implement. Cells returns
// the current state quantised to one byte per cell for renderers.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	Cells() []uint8
}

// Factory constructs a Sim from key=value overrides. Configuration problems are
// reported here so a run never starts with a broken setup.
type Factory func(cfg map[string]string) (Sim, error)

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Names returns the registered simulation names in sorted order.
func Names() []string {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New looks up the named factory and builds a Sim with it.
func New(name string, cfg map[string]string) (Sim, error) {
	f, ok := sims[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", ErrUnknownMode, name, Names())
	}
	return f(cfg)
}
