package lenia

import (
	"fmt"
	"sync"
)

// Engine advances fields by one time step at a time. It owns the kernels and
// every scratch buffer for a single run, so independent runs share nothing.
// An Engine is not safe for concurrent use.
type Engine struct {
	params  Params
	kernels *KernelSet

	plane *plane
	fx    []complex128
	lanes []lane
}

// lane holds the per-channel buffers: the product spectrum and the channel's
// spatial result, first the potential U and then its growth.
type lane struct {
	plane *plane
	prod  []complex128
	out   []float32
}

// NewEngine validates p, builds its kernels and allocates all scratch space.
// Configuration errors surface here and never during Evolve.
func NewEngine(p Params) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p = p.Clone()
	ks, err := BuildKernelSet(p.Size, p.R, p.Channels)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		params:  p,
		kernels: ks,
		plane:   newPlane(p.Size),
		lanes:   make([]lane, ks.Len()),
	}
	e.fx = make([]complex128, e.plane.spectrumLen())
	for i := range e.lanes {
		e.lanes[i] = lane{
			plane: newPlane(p.Size),
			prod:  make([]complex128, e.plane.spectrumLen()),
			out:   make([]float32, p.Size.Cells()),
		}
	}
	return e, nil
}

// Params returns a copy of the engine's parameters.
func (e *Engine) Params() Params { return e.params.Clone() }

// Kernels returns the engine's kernel set.
func (e *Engine) Kernels() *KernelSet { return e.kernels }

// Evolve advances f by one step of Dt in place:
//
//	U_i = real(IFFT(FFT(f) * K_i))
//	G   = mean_i(2*Growth(U_i, mu_i, sigma_i) - 1)
//	f   = clamp(f + Dt*G, 0, 1)
//
// f must have the engine's size.
func (e *Engine) Evolve(f *Field) {
	e.checkSize(f)
	e.plane.forwardField(e.fx, f.Data)

	if e.params.Parallel && len(e.lanes) > 1 {
		var wg sync.WaitGroup
		for i := range e.lanes {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				e.growth(i)
			}(i)
		}
		wg.Wait()
	} else {
		for i := range e.lanes {
			e.growth(i)
		}
	}

	n := float32(len(e.lanes))
	dt := e.params.Dt
	for j, v := range f.Data {
		var g float32
		for i := range e.lanes {
			g += e.lanes[i].out[j]
		}
		f.Data[j] = clamp01(v + dt*(g/n))
	}
}

// Potential writes the convolution of f with kernel i into dst and returns
// it. f is not modified.
func (e *Engine) Potential(f *Field, i int, dst []float32) []float32 {
	e.checkSize(f)
	if len(dst) != len(f.Data) {
		dst = make([]float32, len(f.Data))
	}
	e.plane.forwardField(e.fx, f.Data)
	e.convolve(i)
	copy(dst, e.lanes[i].out)
	return dst
}

func (e *Engine) convolve(i int) {
	l := &e.lanes[i]
	spec := e.kernels.kernels[i].spectrum
	for j, c := range e.fx {
		l.prod[j] = c * spec[j]
	}
	l.plane.inverse(l.out, l.prod)
}

func (e *Engine) growth(i int) {
	e.convolve(i)
	k := &e.kernels.kernels[i]
	out := e.lanes[i].out
	for j, u := range out {
		out[j] = growthDelta(u, k.Mu, k.Sigma)
	}
}

func (e *Engine) checkSize(f *Field) {
	s := e.params.Size
	if f.W != s.W || f.H != s.H || len(f.Data) != s.Cells() {
		panic(fmt.Sprintf("lenia: field %dx%d does not match engine %dx%d", f.W, f.H, s.W, s.H))
	}
}
