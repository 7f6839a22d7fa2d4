package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"lenia/internal/sims/leniasim"
)

func newSweepCmd(c *cli) *cobra.Command {
	var (
		mode    string
		radii   []float64
		dts     []float64
		steps   int
		workers int
		top     int
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "rank kernel radius and time step pairs by how long patterns survive",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			base, err := leniasim.FromConfig(c.cfg, mode)
			if err != nil {
				return err
			}
			base, err = leniasim.FromMap(base, c.overrides)
			if err != nil {
				return err
			}
			steps32 := make([]float32, len(dts))
			for i, v := range dts {
				steps32[i] = float32(v)
			}
			records, err := leniasim.Sweep(ctx, base, radii, steps32, steps, workers)
			if err != nil {
				return err
			}
			printSweep(cmd.OutOrStdout(), mode, records, steps, top)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&mode, "mode", "random", modeUsage)
	fl.Float64SliceVar(&radii, "r", []float64{8, 10, 12, 13, 15}, "kernel radii to try")
	fl.Float64SliceVar(&dts, "dt", []float64{0.05, 0.1, 0.2}, "time steps to try")
	fl.IntVar(&steps, "steps", 300, "steps per candidate")
	fl.IntVar(&workers, "workers", runtime.NumCPU(), "parallel candidate runs")
	fl.IntVar(&top, "top", 10, "show this many candidates")
	return cmd
}

func printSweep(out io.Writer, mode string, records []leniasim.SweepRecord, steps, top int) {
	if top <= 0 || top > len(records) {
		top = len(records)
	}
	rows := make([]row, 0, top)
	for i, rec := range records[:top] {
		res := rec.Result
		value := f("alive %d/%d  last %d  mass %.1f", res.AliveSteps, steps, res.LastAliveStep, res.FinalMass)
		if res.NaN {
			value += "  NaN"
		}
		rows = append(rows, row{f("%2d. R=%g dt=%g", i+1, rec.R, rec.Dt), value})
	}
	fmt.Fprintln(out, panel(f("sweep: %s (%d candidates)", mode, len(records)), rows))
}
