package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lenia/internal/config"
	"lenia/internal/core"
	"lenia/internal/sims/leniasim"
	"lenia/internal/stream"
)

func newServeCmd(c *cli) *cobra.Command {
	var (
		style     string
		maxFrames int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the canvas pages and MJPEG streams over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			srv, err := c.streamServer(style, maxFrames)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx, c.cfg.Stream.ListenAddr(os.Getenv))
		},
	}
	cmd.Flags().StringVar(&style, "style", "circle", "dot style on the canvas page: circle or star")
	cmd.Flags().IntVar(&maxFrames, "max-frames", 0, "end each stream after this many frames (0 = unbounded)")
	return cmd
}

// streamServer wires the configured modes into a stream.Server. Streams and
// pages are sized from the same overrides.
func (c *cli) streamServer(style string, maxFrames int) (*stream.Server, error) {
	size, err := effectiveSize(c.cfg, c.overrides)
	if err != nil {
		return nil, err
	}
	factory := func(mode string) (core.Sim, error) {
		return core.New(mode, c.overrides)
	}
	return stream.New(stream.Options{
		Size:        size,
		FPS:         c.cfg.Stream.FPS,
		JPEGQuality: c.cfg.Stream.JPEGQuality,
		StaticDir:   c.cfg.Stream.StaticDir,
		Style:       style,
		MaxFrames:   maxFrames,
		Palette:     c.colors,
	}, factory, c.log), nil
}

// effectiveSize is the grid every mode runs on once overrides are applied.
func effectiveSize(cfg *config.Config, overrides map[string]string) (core.Size, error) {
	names := cfg.ModeNames()
	if len(names) == 0 {
		return core.Size{}, fmt.Errorf("%w: no modes defined", config.ErrInvalid)
	}
	lc, err := leniasim.FromConfig(cfg, names[0])
	if err != nil {
		return core.Size{}, err
	}
	if lc, err = leniasim.FromMap(lc, overrides); err != nil {
		return core.Size{}, err
	}
	return core.Size{W: lc.Params.Size.W, H: lc.Params.Size.H}, nil
}
