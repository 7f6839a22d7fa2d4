// Command lenia runs, streams, sweeps and views Lenia simulations.
package main

import (
	"context"
	"image/color"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lenia/internal/config"
	"lenia/internal/logging"
	"lenia/internal/render"
	"lenia/internal/sims/leniasim"
)

// cli holds state shared by every subcommand once PersistentPreRunE ran.
type cli struct {
	configFile string
	preset     string
	logLevel   string
	dev        bool
	sets       []string
	palette    string

	cfg       *config.Config
	overrides map[string]string
	colors    []color.RGBA
	log       *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "lenia",
		Short:         "multi-kernel Lenia simulator",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&c.configFile, "config", "", "YAML config file layered over the built-in defaults")
	pf.StringVar(&c.preset, "preset", "", "named parameter preset (see `lenia modes`)")
	pf.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&c.dev, "dev", false, "human-readable development logging")
	pf.StringVar(&c.palette, "palette", "nipy_spectral", "colour map for frames: "+strings.Join(render.PaletteNames, ", "))
	pf.StringArrayVar(&c.sets, "set", nil, "simulation override in key=value form (repeatable): w, h, r, dt, seed, image, parallel")

	root.AddCommand(
		newServeCmd(c),
		newRunCmd(c),
		newSweepCmd(c),
		newViewCmd(c),
		newModesCmd(c),
	)
	return root
}

func (c *cli) setup() error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return err
	}
	if c.preset != "" {
		if err := cfg.ApplyPreset(c.preset); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	overrides, err := parseOverrides(c.sets)
	if err != nil {
		return err
	}
	colors, err := render.PaletteByName(c.palette)
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if c.logLevel != "" {
		level = c.logLevel
	}
	log, err := logging.New(level, c.dev || cfg.Log.Development)
	if err != nil {
		return err
	}

	leniasim.RegisterModes(cfg)
	c.cfg = cfg
	c.overrides = overrides
	c.colors = colors
	c.log = log
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

const modeUsage = "simulation mode: random, loaded or any mode defined in the config"
