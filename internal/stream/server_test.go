package stream

import (
	"bytes"
	"context"
	"image/jpeg"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"lenia/internal/core"
	_ "lenia/internal/sims/leniasim"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func smallFactory(t *testing.T) SimFactory {
	return func(mode string) (core.Sim, error) {
		overrides := map[string]string{"w": "24", "h": "20", "r": "4", "seed": "11"}
		if mode == "loaded" {
			overrides["image"] = filepath.Join(t.TempDir(), "absent.png")
		}
		return core.New(mode, overrides)
	}
}

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	opts.Size = core.Size{W: 24, H: 20}
	if opts.FPS == 0 {
		opts.FPS = 1000
	}
	srv := httptest.NewServer(New(opts, smallFactory(t), zaptest.NewLogger(t)).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + path)
	require.NoError(t, err)
	return resp
}

func TestPagesPointAtTheirStreams(t *testing.T) {
	srv := newTestServer(t, Options{})

	for path, stream := range map[string]string{"/": "/stream", "/random": "/random_stream"} {
		resp := get(t, srv, path)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		assert.Contains(t, string(body), `src="`+stream+`"`)
		assert.Regexp(t, `const W =\s+24\s*;`, string(body))
		assert.Contains(t, string(body), `const STYLE = "circle"`)
	}

	resp := get(t, srv, "/nothing-here")
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRandomStreamSendsJPEGParts(t *testing.T) {
	srv := newTestServer(t, Options{MaxFrames: 3})

	resp := get(t, srv, "/random_stream")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/x-mixed-replace", mediaType)
	assert.Equal(t, Boundary, params["boundary"])

	mr := multipart.NewReader(resp.Body, Boundary)
	frames := 0
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", part.Header.Get("Content-Type"))
		data, err := io.ReadAll(part)
		require.NoError(t, err)
		img, err := jpeg.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 24, img.Bounds().Dx())
		assert.Equal(t, 20, img.Bounds().Dy())
		frames++
	}
	assert.Equal(t, 3, frames)
}

func TestStreamSetupFailureIs500(t *testing.T) {
	srv := newTestServer(t, Options{MaxFrames: 1})

	resp := get(t, srv, "/stream")
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "simulation setup failed")
}

func TestClientDisconnectEndsRun(t *testing.T) {
	srv := newTestServer(t, Options{FPS: 30})

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/random_stream", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)

	part, err := multipart.NewReader(resp.Body, Boundary).NextPart()
	require.NoError(t, err)
	_, err = io.ReadAll(part)
	require.NoError(t, err)

	cancel()
	resp.Body.Close()
	// srv.Close in cleanup blocks until the handler returns; goleak checks
	// nothing is left behind.
}

func TestIndependentRunsPerRequest(t *testing.T) {
	srv := newTestServer(t, Options{MaxFrames: 2})

	read := func() [][]byte {
		resp := get(t, srv, "/random_stream")
		defer resp.Body.Close()
		mr := multipart.NewReader(resp.Body, Boundary)
		var out [][]byte
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				return out
			}
			require.NoError(t, err)
			data, err := io.ReadAll(part)
			require.NoError(t, err)
			out = append(out, data)
		}
	}
	// Same seed, fresh run each time: both requests see identical frames.
	assert.Equal(t, read(), read())
}

func TestFavicon(t *testing.T) {
	srv := newTestServer(t, Options{StaticDir: t.TempDir()})
	resp := get(t, srv, "/favicon.ico")
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "favicon.ico"), []byte("icon"), 0o644))
	srv = newTestServer(t, Options{StaticDir: dir})
	resp = get(t, srv, "/favicon.ico")
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "icon", string(body))
}

func TestListenAndServeStopsWithContext(t *testing.T) {
	s := New(Options{Size: core.Size{W: 24, H: 20}}, smallFactory(t), zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()
	require.NoError(t, <-errc)
}

func TestListenAndServeReturnsListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	s := New(Options{Size: core.Size{W: 24, H: 20}}, smallFactory(t), zaptest.NewLogger(t))
	err = s.ListenAndServe(context.Background(), ln.Addr().String())
	require.Error(t, err)
}
