package main

import (
	"github.com/spf13/cobra"

	"lenia/internal/app"
	"lenia/internal/core"
)

func newViewCmd(c *cli) *cobra.Command {
	var (
		mode       string
		scale      int
		panelWidth int
	)
	cmd := &cobra.Command{
		Use:   "view",
		Short: "open an interactive window (requires -tags ebiten)",
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := core.New(mode, c.overrides)
			if err != nil {
				return err
			}
			var seed int64
			if s, ok := sim.(interface{ Seed() int64 }); ok {
				seed = s.Seed()
			}
			return app.Run(sim, app.Options{
				Scale:      scale,
				PanelWidth: panelWidth,
				TPS:        c.cfg.Stream.FPS,
				Seed:       seed,
				Palette:    c.colors,
			}, c.log)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "loaded", modeUsage)
	cmd.Flags().IntVar(&scale, "scale", 2, "pixels per cell")
	cmd.Flags().IntVar(&panelWidth, "panel", 260, "HUD panel width in pixels (0 hides it)")
	return cmd
}
