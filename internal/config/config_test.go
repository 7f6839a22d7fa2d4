package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lenia/internal/lenia"
)

func TestDefaultMatchesReferenceSetup(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 350, cfg.Grid.Width)
	assert.Equal(t, 350, cfg.Grid.Height)
	assert.Equal(t, 60, cfg.Stream.FPS)
	assert.Equal(t, 90, cfg.Stream.JPEGQuality)
	assert.Equal(t, []string{"loaded", "random"}, cfg.ModeNames())

	p, mode, err := cfg.Params("random")
	require.NoError(t, err)
	assert.Equal(t, SourceRandom, mode.Source)
	assert.Equal(t, 10.0, p.R)
	assert.Equal(t, float32(0.1), p.Dt)
	assert.True(t, p.Parallel, "the reference cadence needs the channel fan-out")

	ref := lenia.DefaultParams(10)
	require.Len(t, p.Channels, len(ref.Channels))
	for i := range ref.Channels {
		assert.Equal(t, ref.Channels[i].Shells, p.Channels[i].Shells, "channel %d shells", i)
		assert.Equal(t, ref.Channels[i].Mu, p.Channels[i].Mu, "channel %d mu", i)
		assert.Equal(t, ref.Channels[i].Sigma, p.Channels[i].Sigma, "channel %d sigma", i)
	}

	p, mode, err = cfg.Params("loaded")
	require.NoError(t, err)
	assert.Equal(t, 13.0, p.R)
	assert.Equal(t, "lenia_save.png", mode.Image)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lenia.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dt: 0.05\nstream:\n  fps: 30\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.05, cfg.Dt)
	assert.Equal(t, 30, cfg.Stream.FPS)
	assert.Equal(t, 90, cfg.Stream.JPEGQuality, "untouched fields keep defaults")
	assert.Len(t, cfg.Channels, 3)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"zero sigma":    "channels:\n  - shells: [1]\n    mu: 0.1\n    sigma: 0\n",
		"no shells":     "channels:\n  - shells: []\n    mu: 0.1\n    sigma: 0.1\n",
		"negative dt":   "dt: -1\n",
		"bad quality":   "stream:\n  jpeg_quality: 0\n",
		"bad source":    "modes:\n  odd:\n    source: noise\n    radius: 5\n",
		"missing image": "modes:\n  pic:\n    source: image\n    radius: 5\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := Load(path)
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	cfg.Dt = 0.2
	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestParamsUnknownMode(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	_, _, err = cfg.Params("nope")
	require.ErrorIs(t, err, ErrInvalid)
}

func TestListenAddr(t *testing.T) {
	s := StreamConfig{Addr: ":9000"}
	assert.Equal(t, ":9000", s.ListenAddr(func(string) string { return "" }))
	assert.Equal(t, ":1234", s.ListenAddr(func(k string) string {
		if k == "PORT" {
			return "1234"
		}
		return ""
	}))
	assert.Equal(t, ":8050", StreamConfig{}.ListenAddr(nil))
}

func TestPresets(t *testing.T) {
	assert.Nil(t, GetPreset("nonexistent"))
	assert.Contains(t, ListPresets(), "reference")

	cfg, err := Default()
	require.NoError(t, err)
	require.NoError(t, cfg.ApplyPreset("fine"))
	assert.Equal(t, 0.05, cfg.Dt)

	require.NoError(t, cfg.ApplyPreset("small"))
	assert.Equal(t, 128, cfg.Grid.Width)
	require.NoError(t, cfg.Validate())

	require.ErrorIs(t, cfg.ApplyPreset("nonexistent"), ErrInvalid)

	for _, name := range ListPresets() {
		c, err := Default()
		require.NoError(t, err)
		require.NoError(t, c.ApplyPreset(name))
		require.NoError(t, c.Validate(), "preset %s", name)
	}
}
