package lenia

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Kernel is one growth channel: the frequency-domain form of a normalised
// radial shell kernel together with its growth mean and width. Kernels are
// read-only once built.
type Kernel struct {
	spectrum []complex128
	shells   []float64

	Mu    float32
	Sigma float32
}

// Spectrum returns a copy of the kernel's half spectrum, H rows of W/2+1
// coefficients.
func (k *Kernel) Spectrum() []complex128 {
	return append([]complex128(nil), k.spectrum...)
}

// Shells returns a copy of the shell profile the kernel was built from.
func (k *Kernel) Shells() []float64 {
	return append([]float64(nil), k.shells...)
}

// Mass is the sum of the spatial kernel, read off the zero-frequency
// coefficient. It is 1 for every successfully built kernel.
func (k *Kernel) Mass() float64 {
	return real(k.spectrum[0])
}

// KernelSet is the ordered list of kernels for one radius and grid size.
type KernelSet struct {
	size    Size
	radius  float64
	kernels []Kernel
}

// Size returns the grid size the kernels were built for.
func (ks *KernelSet) Size() Size { return ks.size }

// Radius returns the kernel radius R.
func (ks *KernelSet) Radius() float64 { return ks.radius }

// Len returns the number of kernels.
func (ks *KernelSet) Len() int { return len(ks.kernels) }

// Kernel returns the i-th kernel.
func (ks *KernelSet) Kernel(i int) *Kernel { return &ks.kernels[i] }

// BuildKernelSet builds one frequency-domain kernel per channel, in channel
// order. Each kernel is a sum of Gaussian bumps, one per shell, centred on
// the shell midpoint along the radius scaled by the shell count, normalised
// to unit mass and shifted so its origin sits at index (0,0) before the
// transform.
func BuildKernelSet(size Size, r float64, channels []Channel) (*KernelSet, error) {
	if size.W <= 0 || size.H <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadSize, size.W, size.H)
	}
	if !(r > 0) || math.IsInf(r, 0) {
		return nil, fmt.Errorf("%w: %v", ErrBadRadius, r)
	}
	if err := validateChannels(channels); err != nil {
		return nil, err
	}

	dist := centeredDistance(size)
	p := newPlane(size)
	shifted := make([]float64, size.Cells())

	ks := &KernelSet{size: size, radius: r, kernels: make([]Kernel, len(channels))}
	for i, ch := range channels {
		spatial, err := shellKernel(dist, r, ch.Shells)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", i, err)
		}
		recenter(shifted, spatial, size)
		spec := make([]complex128, p.spectrumLen())
		p.forward(spec, shifted)
		ks.kernels[i] = Kernel{
			spectrum: spec,
			shells:   append([]float64(nil), ch.Shells...),
			Mu:       ch.Mu,
			Sigma:    ch.Sigma,
		}
	}
	return ks, nil
}

// centeredDistance returns the Euclidean distance of every cell from the
// cell at (W/2, H/2).
func centeredDistance(size Size) []float64 {
	cx, cy := size.W/2, size.H/2
	dist := make([]float64, size.Cells())
	for y := 0; y < size.H; y++ {
		dy := float64(y - cy)
		for x := 0; x < size.W; x++ {
			dist[y*size.W+x] = math.Hypot(float64(x-cx), dy)
		}
	}
	return dist
}

// shellKernel evaluates the shell profile over a centred distance field and
// normalises the result to unit mass.
func shellKernel(dist []float64, r float64, shells []float64) ([]float64, error) {
	n := float64(len(shells))
	k := make([]float64, len(dist))
	for i, dv := range dist {
		d := dv / r * n
		shell := int(d)
		if shell >= len(shells) {
			continue
		}
		b := (d - float64(shell) - 0.5) / ShellWidth
		k[i] = shells[shell] * math.Exp(-0.5*b*b)
	}
	mass := floats.Sum(k)
	if mass == 0 || math.IsNaN(mass) || math.IsInf(mass, 0) {
		return nil, fmt.Errorf("%w: shells %v at radius %v", ErrZeroMass, shells, r)
	}
	floats.Scale(1/mass, k)
	return k, nil
}

// recenter circularly shifts src so the cell at (W/2, H/2) lands on (0,0).
func recenter(dst, src []float64, size Size) {
	cx, cy := size.W/2, size.H/2
	for y := 0; y < size.H; y++ {
		ty := (y - cy + size.H) % size.H
		for x := 0; x < size.W; x++ {
			tx := (x - cx + size.W) % size.W
			dst[ty*size.W+tx] = src[y*size.W+x]
		}
	}
}
