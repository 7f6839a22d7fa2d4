package app

import (
	"errors"
	"image/color"

	"lenia/internal/render"
)

// ErrNoGUI is returned by Run in builds without the ebiten tag.
var ErrNoGUI = errors.New("viewer requires building with -tags ebiten")

// Options configures the viewer window.
type Options struct {
	Scale      int
	PanelWidth int
	TPS        int
	Seed       int64
	Palette    []color.RGBA
}

func (o *Options) withDefaults() {
	if o.Scale <= 0 {
		o.Scale = 2
	}
	if o.PanelWidth < 0 {
		o.PanelWidth = 0
	}
	if o.TPS <= 0 {
		o.TPS = 60
	}
	if len(o.Palette) == 0 {
		o.Palette = render.NipySpectral()
	}
}
