package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lenia/internal/config"
	"lenia/internal/core"
	"lenia/internal/lenia"
	"lenia/internal/logging"
	"lenia/internal/render"
	"lenia/internal/telemetry"
)

// ErrNaN aborts a run whose field produced a NaN.
var ErrNaN = errors.New("field contains NaN")

type runOptions struct {
	Steps        int
	Every        int
	TelemetryDir string
	Record       string
	RecordFPS    int
	Quality      int
	Plot         bool
	Palette      []color.RGBA
}

func newRunCmd(c *cli) *cobra.Command {
	var (
		mode string
		opts runOptions
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "step a simulation headless, collecting telemetry",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			if opts.TelemetryDir == "" {
				opts.TelemetryDir = c.cfg.Telemetry.Dir
			}
			if opts.Every <= 0 {
				opts.Every = c.cfg.Telemetry.Every
			}
			if opts.Quality <= 0 {
				opts.Quality = c.cfg.Stream.JPEGQuality
			}
			opts.Palette = c.colors
			sim, err := core.New(mode, c.overrides)
			if err != nil {
				return err
			}
			return runHeadless(ctx, cmd.OutOrStdout(), sim, opts, c.cfg, c.log)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&mode, "mode", "random", modeUsage)
	fl.IntVar(&opts.Steps, "steps", 500, "number of steps")
	fl.IntVar(&opts.Every, "every", 0, "telemetry sample interval in steps (default from config)")
	fl.StringVar(&opts.TelemetryDir, "telemetry", "", "directory for telemetry.csv and config.yaml")
	fl.StringVar(&opts.Record, "record", "", "write the run to this MJPEG AVI file")
	fl.IntVar(&opts.RecordFPS, "record-fps", 30, "frame rate stored in the AVI")
	fl.IntVar(&opts.Quality, "quality", 0, "JPEG quality for recorded frames (default from config)")
	fl.BoolVar(&opts.Plot, "plot", true, "print an ASCII plot of the mass over time")
	return cmd
}

// statsSim is a Sim that can summarise its field.
type statsSim interface {
	core.Sim
	Stats() lenia.Stats
}

// runHeadless steps sim without pacing and reports what happened.
func runHeadless(ctx context.Context, out io.Writer, sim core.Sim, opts runOptions, cfg *config.Config, log *zap.Logger) error {
	log = logging.Or(log)
	ss, ok := sim.(statsSim)
	if !ok {
		return fmt.Errorf("mode %s does not expose field statistics", sim.Name())
	}
	if opts.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", opts.Steps)
	}

	om, err := telemetry.NewOutputManager(opts.TelemetryDir)
	if err != nil {
		return err
	}
	defer om.Close()
	if cfg != nil {
		if err := om.WriteConfig(cfg); err != nil {
			return err
		}
	}

	var rec *render.Recorder
	if opts.Record != "" {
		size := sim.Size()
		quality := opts.Quality
		if quality <= 0 {
			quality = render.DefaultJPEGQuality
		}
		if len(opts.Palette) == 0 {
			opts.Palette = render.NipySpectral()
		}
		rec, err = render.NewRecorder(opts.Record, size.W, size.H, opts.RecordFPS, quality, opts.Palette)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := rec.Close(); cerr != nil {
				log.Warn("close recording", zap.Error(cerr))
			}
		}()
	}

	size := sim.Size()
	cells := size.W * size.H
	col := telemetry.NewCollector(opts.Every)
	log.Info("run started", zap.String("mode", sim.Name()), zap.Int("steps", opts.Steps))

	var runErr error
	for step := 1; step <= opts.Steps; step++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		start := time.Now()
		sim.Step()
		took := time.Since(start)

		st := ss.Stats()
		if r, kept := col.Observe(step, st, cells, took); kept {
			if err := om.WriteRecord(r); err != nil {
				return err
			}
		}
		if st.NaN > 0 {
			runErr = fmt.Errorf("step %d: %w (%d cells)", step, ErrNaN, st.NaN)
			break
		}
		if rec != nil {
			if err := rec.AddFrame(sim.Cells()); err != nil {
				return err
			}
		}
	}

	sum := col.Summary()
	log.Info("run finished", zap.Int("steps", sum.Steps), zap.Float64("final_mass", sum.FinalMass))
	fmt.Fprintln(out, summaryPanel(sim.Name(), sum, om.Dir(), opts.Record))
	if opts.Plot && sum.Samples > 1 {
		fmt.Fprintln(out, asciigraph.Plot(col.Series(telemetry.Mass),
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("mass")))
	}
	if runErr != nil {
		fmt.Fprintln(out, warnStyle.Render(runErr.Error()))
	}
	return runErr
}

func summaryPanel(mode string, s telemetry.Summary, dir, record string) string {
	rows := []row{
		{"steps", f("%d", s.Steps)},
		{"final mass", f("%.2f", s.FinalMass)},
		{"peak mass", f("%.2f @ %d", s.PeakMass, s.PeakStep)},
		{"step time", f("%.0f µs", s.MeanStepMicros)},
	}
	if dir != "" {
		rows = append(rows, row{"telemetry", dir})
	}
	if record != "" {
		rows = append(rows, row{"recording", record})
	}
	return panel("run: "+mode, rows)
}
