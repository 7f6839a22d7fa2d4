//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"lenia/internal/core"
)

const (
	panelPadding = 10
	lineHeight   = 15
)

// HUD renders the parameter and status panel to the right of the field.
type HUD struct {
	sim        core.Sim
	width      int
	panel      *ebiten.Image
	lastHeight int
	title      string
	lines      []string
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{sim: sim, width: width, title: Title(sim)}
}

// Width returns the panel width in screen pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Update refreshes the panel text.
func (h *HUD) Update(paused bool, tps float64) {
	if h == nil {
		return
	}
	var snap core.ParameterSnapshot
	if p, ok := h.sim.(core.ParameterProvider); ok {
		snap = p.Parameters()
	}
	h.lines = PanelLines(h.title, snap, CurrentStatus(h.sim, paused, tps))
}

// Draw paints the panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	face := basicfont.Face7x13
	y := panelPadding + 12
	for i, line := range h.lines {
		clr := color.RGBA{R: 200, G: 200, B: 210, A: 255}
		if i == 0 {
			clr = color.RGBA{R: 240, G: 240, B: 250, A: 255}
		}
		text.Draw(h.panel, line, face, panelPadding, y, clr)
		y += lineHeight
		if y > height {
			break
		}
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}
