package lenia

import "gonum.org/v1/gonum/dsp/fourier"

// plane is a 2-D real FFT over a W×H grid. Rows go through a real transform
// that keeps W/2+1 coefficients, columns through a complex transform, so a
// spectrum is H rows of W/2+1 values. The inverse of a product of two such
// spectra is the real circular convolution of their sequences.
//
// A plane owns its work buffers and is not safe for concurrent use.
type plane struct {
	w, h int
	half int
	norm float64

	rows *fourier.FFT
	cols *fourier.CmplxFFT
	row  []float64
	col  []complex128
}

func newPlane(size Size) *plane {
	half := size.W/2 + 1
	return &plane{
		w:    size.W,
		h:    size.H,
		half: half,
		norm: 1 / float64(size.W*size.H),
		rows: fourier.NewFFT(size.W),
		cols: fourier.NewCmplxFFT(size.H),
		row:  make([]float64, size.W),
		col:  make([]complex128, size.H),
	}
}

// spectrumLen is the number of coefficients in a spectrum of this plane.
func (p *plane) spectrumLen() int { return p.h * p.half }

// forward transforms a row-major float64 grid into dst.
func (p *plane) forward(dst []complex128, src []float64) {
	for y := 0; y < p.h; y++ {
		p.rows.Coefficients(dst[y*p.half:(y+1)*p.half], src[y*p.w:(y+1)*p.w])
	}
	p.columns(dst, false)
}

// forwardField transforms a row-major float32 grid into dst.
func (p *plane) forwardField(dst []complex128, src []float32) {
	for y := 0; y < p.h; y++ {
		base := y * p.w
		for x := 0; x < p.w; x++ {
			p.row[x] = float64(src[base+x])
		}
		p.rows.Coefficients(dst[y*p.half:(y+1)*p.half], p.row)
	}
	p.columns(dst, false)
}

// inverse transforms spec back to the spatial domain, scaled so that
// inverse(forward(x)) == x, and writes the real result into dst. spec is
// used as scratch and is clobbered.
func (p *plane) inverse(dst []float32, spec []complex128) {
	p.columns(spec, true)
	for y := 0; y < p.h; y++ {
		p.rows.Sequence(p.row, spec[y*p.half:(y+1)*p.half])
		base := y * p.w
		for x := 0; x < p.w; x++ {
			dst[base+x] = float32(p.row[x] * p.norm)
		}
	}
}

func (p *plane) columns(spec []complex128, inverse bool) {
	for x := 0; x < p.half; x++ {
		for y := 0; y < p.h; y++ {
			p.col[y] = spec[y*p.half+x]
		}
		if inverse {
			p.cols.Sequence(p.col, p.col)
		} else {
			p.cols.Coefficients(p.col, p.col)
		}
		for y := 0; y < p.h; y++ {
			spec[y*p.half+x] = p.col[y]
		}
	}
}
