//go:build !ebiten

package app

import (
	"go.uber.org/zap"

	"lenia/internal/core"
)

// Run reports that the GUI build tag is missing.
func Run(core.Sim, Options, *zap.Logger) error {
	return ErrNoGUI
}
