package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionsDefaults(t *testing.T) {
	var o Options
	o.withDefaults()
	assert.Equal(t, 2, o.Scale)
	assert.Equal(t, 60, o.TPS)
	assert.Len(t, o.Palette, 256)

	o = Options{Scale: 3, PanelWidth: -5, TPS: 30}
	o.withDefaults()
	assert.Equal(t, 3, o.Scale)
	assert.Zero(t, o.PanelWidth)
	assert.Equal(t, 30, o.TPS)
}
