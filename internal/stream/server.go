// Package stream serves simulations over HTTP as multipart JPEG streams,
// together with a canvas page that redraws each frame as coloured dots.
package stream

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"html/template"
	"image/color"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lenia/internal/core"
	"lenia/internal/logging"
	"lenia/internal/render"
)

//go:embed page.html
var pageHTML string

var page = template.Must(template.New("page").Parse(pageHTML))

// Boundary separates the JPEG parts of a stream.
const Boundary = "frame"

// SimFactory builds a fresh simulation for one stream request.
type SimFactory func(mode string) (core.Sim, error)

// Route binds an HTML page and its stream endpoint to a simulation mode.
type Route struct {
	Page   string
	Stream string
	Mode   string
}

// DefaultRoutes serves the seed-image mode at / and the random mode at
// /random.
func DefaultRoutes() []Route {
	return []Route{
		{Page: "/", Stream: "/stream", Mode: "loaded"},
		{Page: "/random", Stream: "/random_stream", Mode: "random"},
	}
}

// Options configures a Server.
type Options struct {
	Size        core.Size
	FPS         int
	JPEGQuality int
	StaticDir   string
	Canvas      int
	Style       string // circle | star
	Routes      []Route
	Palette     []color.RGBA

	// MaxFrames ends each stream after this many frames; 0 streams until the
	// client leaves.
	MaxFrames int
}

func (o *Options) withDefaults() {
	if o.Size.W <= 0 || o.Size.H <= 0 {
		o.Size = core.Size{W: 350, H: 350}
	}
	if o.FPS <= 0 {
		o.FPS = 60
	}
	if o.JPEGQuality <= 0 {
		o.JPEGQuality = render.DefaultJPEGQuality
	}
	if o.Canvas <= 0 {
		o.Canvas = 1000
	}
	if o.Style == "" {
		o.Style = "circle"
	}
	if len(o.Routes) == 0 {
		o.Routes = DefaultRoutes()
	}
	if len(o.Palette) == 0 {
		o.Palette = render.NipySpectral()
	}
}

// Server hands every stream request its own simulation run.
type Server struct {
	opts    Options
	factory SimFactory
	log     *zap.Logger
	mux     *http.ServeMux
}

// New builds a Server. A nil logger disables logging.
func New(opts Options, factory SimFactory, log *zap.Logger) *Server {
	opts.withDefaults()
	s := &Server{opts: opts, factory: factory, log: logging.Or(log), mux: http.NewServeMux()}
	for _, rt := range opts.Routes {
		pattern := "GET " + rt.Page
		if rt.Page == "/" {
			pattern = "GET /{$}"
		}
		s.mux.HandleFunc(pattern, s.page(rt.Stream))
		s.mux.HandleFunc("GET "+rt.Stream, s.stream(rt.Mode))
	}
	s.mux.HandleFunc("GET /favicon.ico", s.favicon)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe serves on addr until ctx is done. Open streams see their
// request context cancelled when ctx ends. A listen failure is returned
// without waiting for ctx.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case <-ctx.Done():
		case <-stop:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("shutdown", zap.Error(err))
		}
	}()

	s.log.Info("listening", zap.String("addr", addr))
	err := srv.ListenAndServe()
	close(stop)
	<-done
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

type pageData struct {
	StreamURL string
	W, H      int
	Canvas    int
	Style     string
}

func (s *Server) page(streamURL string) http.HandlerFunc {
	data := pageData{
		StreamURL: streamURL,
		W:         s.opts.Size.W,
		H:         s.opts.Size.H,
		Canvas:    s.opts.Canvas,
		Style:     s.opts.Style,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := page.Execute(&buf, data); err != nil {
			s.log.Error("render page", zap.Error(err))
			http.Error(w, "page unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	}
}

func (s *Server) stream(mode string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := s.log.With(zap.String("session", uuid.NewString()), zap.String("mode", mode))

		sim, err := s.factory(mode)
		if err != nil {
			log.Error("simulation setup failed", zap.Error(err))
			http.Error(w, "simulation setup failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		size := sim.Size()
		enc, err := render.NewFrameEncoder(size.W, size.H, s.opts.JPEGQuality, s.opts.Palette)
		if err != nil {
			log.Error("encoder setup failed", zap.Error(err))
			http.Error(w, "encoder setup failed", http.StatusInternalServerError)
			return
		}

		mw := multipart.NewWriter(w)
		if err := mw.SetBoundary(Boundary); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+Boundary)
		w.Header().Set("Cache-Control", "no-cache, no-store")
		flusher, _ := w.(http.Flusher)

		ctx := r.Context()
		pacer := core.NewPacer(s.opts.FPS)
		began := time.Now()
		frames := 0
		log.Info("stream opened", zap.Int("w", size.W), zap.Int("h", size.H))
		defer func() {
			log.Info("stream closed", zap.Int("frames", frames), zap.Duration("elapsed", time.Since(began)))
		}()

		header := textproto.MIMEHeader{"Content-Type": {"image/jpeg"}}
		for s.opts.MaxFrames == 0 || frames < s.opts.MaxFrames {
			start := time.Now()
			sim.Step()
			data, err := enc.Encode(sim.Cells())
			if err != nil {
				log.Error("encode frame", zap.Error(err))
				return
			}
			part, err := mw.CreatePart(header)
			if err != nil {
				return
			}
			if _, err := part.Write(data); err != nil {
				log.Debug("client gone", zap.Error(err))
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
			frames++
			if err := pacer.Wait(ctx, start); err != nil {
				return
			}
		}
		_ = mw.Close()
	}
}

func (s *Server) favicon(w http.ResponseWriter, r *http.Request) {
	if s.opts.StaticDir != "" {
		path := filepath.Join(s.opts.StaticDir, "favicon.ico")
		if _, err := os.Stat(path); err == nil {
			http.ServeFile(w, r, path)
			return
		}
	}
	s.log.Debug("favicon.ico not found", zap.String("dir", s.opts.StaticDir))
	w.WriteHeader(http.StatusNoContent)
}
