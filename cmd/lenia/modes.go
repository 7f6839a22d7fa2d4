package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lenia/internal/config"
)

func newModesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "list configured modes and presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			rows := make([]row, 0, len(c.cfg.Modes))
			for _, name := range c.cfg.ModeNames() {
				m, _ := c.cfg.Mode(name)
				desc := f("R=%g random seed %d", m.Radius, m.Seed)
				if m.Source == config.SourceImage {
					desc = f("R=%g image %s", m.Radius, m.Image)
				}
				rows = append(rows, row{name, desc})
			}
			fmt.Fprintln(out, panel("modes", rows))

			rows = rows[:0]
			for _, name := range config.ListPresets() {
				rows = append(rows, row{name, config.GetPreset(name).Description})
			}
			fmt.Fprintln(out, panel("presets", rows))
			return nil
		},
	}
}
