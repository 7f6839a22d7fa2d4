package render

import (
	"fmt"
	"image/color"
)

// segment is one breakpoint of a piecewise-linear colour channel: at x the
// channel approaches y0 from the left and leaves with y1 to the right.
type segment struct{ x, y0, y1 float64 }

// nipy_spectral channel breakpoints, matching matplotlib.
var (
	nipyRed = []segment{
		{0, 0, 0}, {0.05, 0.4667, 0.4667}, {0.10, 0.5333, 0.5333}, {0.15, 0, 0},
		{0.20, 0, 0}, {0.25, 0, 0}, {0.30, 0, 0}, {0.35, 0, 0}, {0.40, 0, 0},
		{0.45, 0, 0}, {0.50, 0, 0}, {0.55, 0, 0}, {0.60, 0, 0}, {0.65, 0.7333, 0.7333},
		{0.70, 0.9333, 0.9333}, {0.75, 1, 1}, {0.80, 1, 1}, {0.85, 1, 1},
		{0.90, 0.8667, 0.8667}, {0.95, 0.80, 0.80}, {1, 0.80, 0.80},
	}
	nipyGreen = []segment{
		{0, 0, 0}, {0.05, 0, 0}, {0.10, 0, 0}, {0.15, 0, 0}, {0.20, 0, 0},
		{0.25, 0.4667, 0.4667}, {0.30, 0.6000, 0.6000}, {0.35, 0.6667, 0.6667},
		{0.40, 0.6667, 0.6667}, {0.45, 0.6000, 0.6000}, {0.50, 0.7333, 0.7333},
		{0.55, 0.8667, 0.8667}, {0.60, 1, 1}, {0.65, 1, 1}, {0.70, 0.9333, 0.9333},
		{0.75, 0.8000, 0.8000}, {0.80, 0.6000, 0.6000}, {0.85, 0, 0}, {0.90, 0, 0},
		{0.95, 0, 0}, {1, 0.80, 0.80},
	}
	nipyBlue = []segment{
		{0, 0, 0}, {0.05, 0.5333, 0.5333}, {0.10, 0.6000, 0.6000}, {0.15, 0.6667, 0.6667},
		{0.20, 0.8667, 0.8667}, {0.25, 0.8667, 0.8667}, {0.30, 0.8667, 0.8667},
		{0.35, 0.6667, 0.6667}, {0.40, 0.5333, 0.5333}, {0.45, 0, 0}, {0.50, 0, 0},
		{0.55, 0, 0}, {0.60, 0, 0}, {0.65, 0, 0}, {0.70, 0, 0}, {0.75, 0, 0},
		{0.80, 0, 0}, {0.85, 0, 0}, {0.90, 0, 0}, {0.95, 0, 0}, {1, 0.80, 0.80},
	}
)

var nipySpectral = buildPalette(256, nipyRed, nipyGreen, nipyBlue)

// NipySpectral returns a copy of the 256-entry nipy_spectral palette. Entry 0
// is black and entry 255 is light grey.
func NipySpectral() []color.RGBA {
	return append([]color.RGBA(nil), nipySpectral...)
}

// Grayscale returns a 256-entry black to white ramp.
func Grayscale() []color.RGBA {
	p := make([]color.RGBA, 256)
	for i := range p {
		v := uint8(i)
		p[i] = color.RGBA{R: v, G: v, B: v, A: 0xff}
	}
	return p
}

// PaletteNames lists the names PaletteByName accepts.
var PaletteNames = []string{"nipy_spectral", "gray"}

// PaletteByName returns a fresh copy of the named palette. An empty name
// selects nipy_spectral.
func PaletteByName(name string) ([]color.RGBA, error) {
	switch name {
	case "", "nipy_spectral", "nipy":
		return NipySpectral(), nil
	case "gray", "grey":
		return Grayscale(), nil
	}
	return nil, fmt.Errorf("render: unknown palette %q", name)
}

func buildPalette(n int, r, g, b []segment) []color.RGBA {
	p := make([]color.RGBA, n)
	for i := range p {
		x := float64(i) / float64(n-1)
		p[i] = color.RGBA{
			R: channelByte(sample(r, x)),
			G: channelByte(sample(g, x)),
			B: channelByte(sample(b, x)),
			A: 0xff,
		}
	}
	return p
}

// sample interpolates linearly between the breakpoints around x.
func sample(segs []segment, x float64) float64 {
	if x <= segs[0].x {
		return segs[0].y1
	}
	last := segs[len(segs)-1]
	if x >= last.x {
		return last.y0
	}
	i := 1
	for segs[i].x < x {
		i++
	}
	lo, hi := segs[i-1], segs[i]
	t := (x - lo.x) / (hi.x - lo.x)
	return t*(hi.y0-lo.y1) + lo.y1
}

// channelByte truncates like a float-to-uint8 cast after scaling by 255.
func channelByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v * 255)
}
