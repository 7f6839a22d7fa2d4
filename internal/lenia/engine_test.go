package lenia

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func smallParams(r float64) Params {
	p := DefaultParams(r)
	p.Size = Size{W: 64, H: 64}
	return p
}

func randomField(size Size, seed uint64) *Field {
	rng := rand.New(rand.NewPCG(seed, 0))
	f := NewField(size)
	for i := range f.Data {
		f.Data[i] = rng.Float32()
	}
	return f
}

func TestEvolveKeepsFieldInUnitRange(t *testing.T) {
	e, err := NewEngine(smallParams(10))
	require.NoError(t, err)

	f := randomField(Size{W: 64, H: 64}, 1)
	for step := 0; step < 60; step++ {
		e.Evolve(f)
		require.NoError(t, f.Validate(), "step %d", step)
	}
	require.Zero(t, f.Stats().NaN)
}

func TestEvolveDeterministic(t *testing.T) {
	p := smallParams(13)
	a, err := NewEngine(p)
	require.NoError(t, err)
	b, err := NewEngine(p)
	require.NoError(t, err)

	fa := randomField(p.Size, 7)
	fb := fa.Clone()
	for i := 0; i < 5; i++ {
		a.Evolve(fa)
		b.Evolve(fb)
	}
	require.Equal(t, fa.Data, fb.Data)
}

func TestParallelMatchesSerial(t *testing.T) {
	p := smallParams(10)
	serial, err := NewEngine(p)
	require.NoError(t, err)
	p.Parallel = true
	parallel, err := NewEngine(p)
	require.NoError(t, err)

	fs := randomField(p.Size, 3)
	fp := fs.Clone()
	for i := 0; i < 4; i++ {
		serial.Evolve(fs)
		parallel.Evolve(fp)
	}
	require.Equal(t, fs.Data, fp.Data)
}

func TestEvolveZeroFieldStaysZero(t *testing.T) {
	p := smallParams(10)
	e, err := NewEngine(p)
	require.NoError(t, err)

	// Every reference channel has mu several sigmas above zero, so the
	// growth of an empty neighbourhood is close to -1 and the clamp holds
	// the field at zero.
	var g float64
	for _, ch := range p.Channels {
		g += 2*closedFormGrowth(0, ch) - 1
	}
	require.Less(t, g, 0.0)

	f := NewField(p.Size)
	e.Evolve(f)
	for _, v := range f.Data {
		require.Zero(t, v)
	}
}

func TestEvolveUniformFieldMatchesClosedForm(t *testing.T) {
	p := smallParams(10)
	e, err := NewEngine(p)
	require.NoError(t, err)

	for _, c := range []float64{0.16, 0.2, 0.35, 1} {
		// A unit-mass kernel convolved with a constant field returns the
		// constant, so each step is a scalar Euler update.
		var g float64
		for _, ch := range p.Channels {
			g += 2*closedFormGrowth(c, ch) - 1
		}
		want := c + float64(p.Dt)*g/float64(len(p.Channels))
		want = math.Max(0, math.Min(1, want))

		f := NewField(p.Size)
		f.Fill(float32(c))
		e.Evolve(f)
		for i, v := range f.Data {
			require.InDelta(t, want, float64(v), 1e-5, "c=%v cell %d", c, i)
		}
	}
}

func TestPotentialOfUniformFieldIsConstant(t *testing.T) {
	p := smallParams(8)
	e, err := NewEngine(p)
	require.NoError(t, err)

	f := NewField(p.Size)
	f.Fill(0.4)
	before := f.Clone()
	for i := 0; i < e.Kernels().Len(); i++ {
		u := e.Potential(f, i, nil)
		for _, v := range u {
			require.InDelta(t, 0.4, float64(v), 1e-6)
		}
	}
	require.Equal(t, before.Data, f.Data)
}

func TestKernelsIndependentOfField(t *testing.T) {
	p := smallParams(10)
	a, err := NewEngine(p)
	require.NoError(t, err)
	b, err := NewEngine(p)
	require.NoError(t, err)

	a.Evolve(randomField(p.Size, 11))
	f := NewField(p.Size)
	f.Fill(1)
	b.Evolve(f)

	for i := 0; i < a.Kernels().Len(); i++ {
		require.Equal(t, a.Kernels().Kernel(i).Spectrum(), b.Kernels().Kernel(i).Spectrum())
	}
}

func TestNewEngineRejectsBadParams(t *testing.T) {
	p := smallParams(10)
	p.Channels[1].Sigma = 0
	_, err := NewEngine(p)
	require.ErrorIs(t, err, ErrBadSigma)

	p = smallParams(10)
	p.Dt = 0
	_, err = NewEngine(p)
	require.ErrorIs(t, err, ErrBadStep)

	p = smallParams(10)
	p.Channels = []Channel{{Shells: []float64{0}, Mu: 0.1, Sigma: 0.1}}
	_, err = NewEngine(p)
	require.ErrorIs(t, err, ErrZeroMass)
}

func TestEngineParamsAreIsolated(t *testing.T) {
	p := smallParams(10)
	e, err := NewEngine(p)
	require.NoError(t, err)
	p.Channels[0].Shells[0] = 99
	require.Equal(t, 1.0, e.Params().Channels[0].Shells[0])
}

func TestEvolvePanicsOnSizeMismatch(t *testing.T) {
	e, err := NewEngine(smallParams(10))
	require.NoError(t, err)
	require.Panics(t, func() { e.Evolve(NewField(Size{W: 32, H: 64})) })
}

func TestChannelCountIsAParameter(t *testing.T) {
	p := smallParams(9)
	p.Channels = []Channel{{Shells: []float64{1}, Mu: 0.15, Sigma: 0.015}}
	e, err := NewEngine(p)
	require.NoError(t, err)
	require.Equal(t, 1, e.Kernels().Len())

	f := randomField(p.Size, 5)
	for i := 0; i < 10; i++ {
		e.Evolve(f)
	}
	require.NoError(t, f.Validate())
}

func closedFormGrowth(x float64, ch Channel) float64 {
	d := (x - float64(ch.Mu)) / float64(ch.Sigma)
	return math.Exp(-0.5 * d * d)
}
