package lenia

import (
	"fmt"
	"math"
)

// Field is the simulation state: W×H densities in [0,1], row-major.
type Field struct {
	W, H int
	Data []float32
}

// NewField allocates a zeroed field.
func NewField(size Size) *Field {
	return &Field{W: size.W, H: size.H, Data: make([]float32, size.Cells())}
}

// Size returns the field dimensions.
func (f *Field) Size() Size { return Size{W: f.W, H: f.H} }

// At returns the value at (x, y).
func (f *Field) At(x, y int) float32 { return f.Data[y*f.W+x] }

// Set stores v at (x, y).
func (f *Field) Set(x, y int, v float32) { f.Data[y*f.W+x] = v }

// Fill sets every cell to v.
func (f *Field) Fill(v float32) {
	for i := range f.Data {
		f.Data[i] = v
	}
}

// Clone returns an independent copy.
func (f *Field) Clone() *Field {
	return &Field{W: f.W, H: f.H, Data: append([]float32(nil), f.Data...)}
}

// CopyFrom overwrites f with src. Both fields must have the same size.
func (f *Field) CopyFrom(src *Field) {
	if f.W != src.W || f.H != src.H {
		panic(fmt.Sprintf("lenia: copy %dx%d field into %dx%d", src.W, src.H, f.W, f.H))
	}
	copy(f.Data, src.Data)
}

// Validate reports the first cell that is not a finite value in [0,1].
func (f *Field) Validate() error {
	if len(f.Data) != f.W*f.H {
		return fmt.Errorf("lenia: field has %d cells, want %dx%d", len(f.Data), f.W, f.H)
	}
	for i, v := range f.Data {
		if !(v >= 0 && v <= 1) {
			return fmt.Errorf("lenia: cell (%d,%d) = %v outside [0,1]", i%f.W, i/f.W, v)
		}
	}
	return nil
}

// Quantize writes uint8(v*255) for every cell into dst, growing it if needed.
// NaN cells map to 0.
func (f *Field) Quantize(dst []uint8) []uint8 {
	if cap(dst) < len(f.Data) {
		dst = make([]uint8, len(f.Data))
	}
	dst = dst[:len(f.Data)]
	for i, v := range f.Data {
		switch {
		case !(v > 0):
			dst[i] = 0
		case v >= 1:
			dst[i] = 255
		default:
			dst[i] = uint8(v * 255)
		}
	}
	return dst
}

// Stats summarises a field.
type Stats struct {
	Mass   float64
	Mean   float64
	Min    float64
	Max    float64
	Active int
	NaN    int
}

// Stats computes the field summary. Active counts cells above zero; NaN cells
// are counted and excluded from the other figures.
func (f *Field) Stats() Stats {
	s := Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	n := 0
	for _, v := range f.Data {
		if v != v {
			s.NaN++
			continue
		}
		x := float64(v)
		s.Mass += x
		if x < s.Min {
			s.Min = x
		}
		if x > s.Max {
			s.Max = x
		}
		if x > 0 {
			s.Active++
		}
		n++
	}
	if n == 0 {
		s.Min, s.Max = 0, 0
		return s
	}
	s.Mean = s.Mass / float64(n)
	return s
}
