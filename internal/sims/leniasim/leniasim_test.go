package leniasim

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"lenia/internal/config"
	"lenia/internal/core"
	"lenia/internal/lenia"
	"lenia/internal/seed"
)

func smallConfig(t *testing.T) Config {
	t.Helper()
	cfg, err := DefaultConfig("random")
	require.NoError(t, err)
	cfg, err = FromMap(cfg, map[string]string{"w": "48", "h": "40", "r": "5", "seed": "7"})
	require.NoError(t, err)
	return cfg
}

func TestFromMapOverrides(t *testing.T) {
	cfg := smallConfig(t)
	require.Equal(t, lenia.Size{W: 48, H: 40}, cfg.Params.Size)
	require.Equal(t, 5.0, cfg.Params.R)
	require.Equal(t, int64(7), cfg.Seed)

	cfg, err := FromMap(cfg, map[string]string{"dt": "0.05", "parallel": "true", "image": "x.png"})
	require.NoError(t, err)
	require.Equal(t, float32(0.05), cfg.Params.Dt)
	require.True(t, cfg.Params.Parallel)
	require.Equal(t, config.SourceImage, cfg.Source)
	require.Equal(t, "x.png", cfg.Image)
}

func TestFromMapRejectsBadValues(t *testing.T) {
	base := smallConfig(t)
	for _, kv := range []map[string]string{
		{"w": "wide"},
		{"r": "-3"},
		{"dt": "0"},
		{"seed": "1.5"},
		{"parallel": "maybe"},
	} {
		_, err := FromMap(base, kv)
		require.Error(t, err, "%v", kv)
	}
}

func TestFromMapDoesNotAliasChannels(t *testing.T) {
	base := smallConfig(t)
	cfg, err := FromMap(base, nil)
	require.NoError(t, err)
	cfg.Params.Channels[0].Shells[0] = 42
	require.NotEqual(t, 42.0, base.Params.Channels[0].Shells[0])
}

func TestResetDeterministic(t *testing.T) {
	sim, err := New(smallConfig(t))
	require.NoError(t, err)
	initial := slices.Clone(sim.Cells())
	initialField := slices.Clone(sim.Field().Data)

	for i := 0; i < 5; i++ {
		sim.Step()
	}
	require.Equal(t, 5, sim.Steps())
	require.NotEqual(t, initialField, sim.Field().Data)

	sim.Reset(0)
	require.Zero(t, sim.Steps())
	require.Equal(t, initial, sim.Cells())
	require.Equal(t, initialField, sim.Field().Data)

	sim.Reset(99)
	require.Equal(t, int64(99), sim.Seed())
	require.NotEqual(t, initialField, sim.Field().Data)
	require.Equal(t, seed.Random(sim.Field().Size(), 99).Data, sim.Field().Data)
}

func TestTwoRunsShareNothing(t *testing.T) {
	a, err := New(smallConfig(t))
	require.NoError(t, err)
	b, err := New(smallConfig(t))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		a.Step()
	}
	b.Step()
	b.Step()
	b.Step()
	require.Equal(t, a.Field().Data, b.Field().Data)

	a.Step()
	require.NotEqual(t, a.Field().Data, b.Field().Data)
}

func TestCellsTrackField(t *testing.T) {
	sim, err := New(smallConfig(t))
	require.NoError(t, err)
	sim.Step()
	want := sim.Field().Quantize(nil)
	require.Equal(t, want, sim.Cells())
	require.Equal(t, core.Size{W: 48, H: 40}, sim.Size())
	require.NoError(t, sim.Field().Validate())
}

func writeSeedImage(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := h / 3; y < 2*h/3; y++ {
		for x := w / 3; x < 2*w/3; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "seed.png")
	fh, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(fh, img))
	require.NoError(t, fh.Close())
	return path
}

func TestLoadedModeResetRestoresImage(t *testing.T) {
	path := writeSeedImage(t, 32, 32)
	sim, err := core.New("loaded", map[string]string{"w": "32", "h": "32", "r": "4", "image": path})
	require.NoError(t, err)
	require.Equal(t, "loaded", sim.Name())

	start := slices.Clone(sim.Cells())
	require.Equal(t, uint8(255), start[16*32+16])
	require.Zero(t, start[0])
	sim.Step()
	sim.Reset(12345)
	require.Equal(t, start, sim.Cells())
}

func TestLoadedModeMissingImageFailsAtSetup(t *testing.T) {
	_, err := core.New("loaded", map[string]string{
		"w": "16", "h": "16", "r": "3",
		"image": filepath.Join(t.TempDir(), "missing.png"),
	})
	require.ErrorIs(t, err, seed.ErrSeedMissing)
}

func TestLoadedModeWrongShapeFailsAtSetup(t *testing.T) {
	path := writeSeedImage(t, 20, 20)
	_, err := core.New("loaded", map[string]string{"w": "16", "h": "16", "r": "3", "image": path})
	require.ErrorIs(t, err, seed.ErrSeedShape)
}

func TestDefaultModesRegistered(t *testing.T) {
	names := core.Names()
	require.Contains(t, names, "random")
	require.Contains(t, names, "loaded")
}

func TestRegisterModesFromConfig(t *testing.T) {
	base, err := config.Default()
	require.NoError(t, err)
	base.Grid = config.GridConfig{Width: 24, Height: 24}
	base.Modes = map[string]config.ModeConfig{
		"tiny": {Source: config.SourceRandom, Radius: 3, Seed: 5},
	}
	RegisterModes(base)

	sim, err := core.New("tiny", nil)
	require.NoError(t, err)
	require.Equal(t, core.Size{W: 24, H: 24}, sim.Size())
	require.Equal(t, int64(5), sim.(*Sim).Seed())
}

func TestParametersSnapshot(t *testing.T) {
	sim, err := New(smallConfig(t))
	require.NoError(t, err)
	snap := sim.Parameters()
	require.Len(t, snap.Groups, 1+len(sim.Config().Params.Channels))
	require.Equal(t, "Run", snap.Groups[0].Name)
	require.Equal(t, "shells [1 0.4167 0.6667]", snap.Groups[1].Summary)

	var keys []string
	for _, p := range snap.Groups[0].Params {
		keys = append(keys, p.Key)
	}
	require.Contains(t, keys, "seed")
	require.Contains(t, keys, "r")
}

func TestSurvivalRunCountsSteps(t *testing.T) {
	cfg := smallConfig(t)
	res, err := SurvivalRun(context.Background(), cfg, 0)
	require.NoError(t, err)
	require.Zero(t, res.StepsSimulated)

	res, err = SurvivalRun(context.Background(), cfg, 20)
	require.NoError(t, err)
	require.False(t, res.NaN)
	require.LessOrEqual(t, res.AliveSteps, 20)
	require.Equal(t, 20, res.StepsSimulated)
}

func TestSweepRanksAndIsDeterministic(t *testing.T) {
	cfg := smallConfig(t)
	radii := []float64{3, 5}
	dts := []float32{0.1, 0.2}

	a, err := Sweep(context.Background(), cfg, radii, dts, 15, 3)
	require.NoError(t, err)
	require.Len(t, a, 4)
	for i := 1; i < len(a); i++ {
		require.False(t, betterResult(a[i].Result, a[i-1].Result), "records must be ranked")
	}

	b, err := Sweep(context.Background(), cfg, radii, dts, 15, 1)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestSweepHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Sweep(ctx, smallConfig(t), []float64{3}, nil, 10, 1)
	require.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestBetterResult(t *testing.T) {
	require.True(t, betterResult(SurvivalResult{AliveSteps: 1}, SurvivalResult{AliveSteps: 5, NaN: true}))
	require.True(t, betterResult(SurvivalResult{AliveSteps: 6}, SurvivalResult{AliveSteps: 5}))
	require.True(t, betterResult(SurvivalResult{AliveSteps: 5, FinalMass: 2}, SurvivalResult{AliveSteps: 5, FinalMass: 1}))
}
