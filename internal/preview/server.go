// Package preview serves an HTML gallery of the icons in a generated sprite.
package preview

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leapstack-labs/iconsprite/internal/icons"
	"github.com/leapstack-labs/iconsprite/internal/watch"
	"golang.org/x/sync/errgroup"
)

//go:embed templates/gallery.html
var templateFS embed.FS

var galleryTmpl = template.Must(template.ParseFS(templateFS, "templates/gallery.html"))

// Config holds configuration for the preview server.
type Config struct {
	SpritePath string
	Port       int
	Logger     *slog.Logger

	// Collector, when set together with Watch, rebuilds the sprite on
	// input changes and reloads connected browsers.
	Collector *icons.Collector
	Watch     bool
	Debounce  time.Duration
}

// Server is the preview HTTP server.
type Server struct {
	spritePath string
	port       int
	logger     *slog.Logger
	collector  *icons.Collector
	watch      bool
	debounce   time.Duration
	notifier   *Notifier
}

// NewServer creates a new preview server.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		spritePath: cfg.SpritePath,
		port:       cfg.Port,
		logger:     logger,
		collector:  cfg.Collector,
		watch:      cfg.Watch && cfg.Collector != nil,
		debounce:   cfg.Debounce,
		notifier:   NewNotifier(),
	}
}

// Notifier returns the server's reload notifier.
func (s *Server) Notifier() *Notifier {
	return s.notifier
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		middleware.NoCache,
		middleware.Compress(5),
	)

	r.Get("/", s.handleGallery)
	r.Get("/sprite.svg", s.handleSprite)
	r.Get("/icons.json", s.handleIcons)
	if s.watch {
		r.Get("/events", s.handleEvents)
	}
	return r
}

// Serve starts the server and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", net.JoinHostPort("localhost", strconv.Itoa(s.port)))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("starting preview server", "addr", "http://"+ln.Addr().String())

	if s.watch {
		eg.Go(func() error {
			return s.watchInputs(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down preview server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// watchInputs regenerates the sprite on input changes and notifies browsers.
func (s *Server) watchInputs(ctx context.Context) error {
	// Rebuilds always render: the up-to-date check cannot see a removed
	// icon. Unchanged outputs are still left alone.
	cfg := s.collector.Config()
	cfg.Force = true
	rebuild := icons.New(cfg)

	w := watch.New(watch.Config{
		Dir:      cfg.InputDir,
		Debounce: s.debounce,
		Match:    rebuild.Matches,
		Logger:   s.logger,
	})
	return w.Run(ctx, func(ctx context.Context) error {
		res, err := rebuild.Run(ctx)
		if err != nil {
			return err
		}
		if res.Changed() {
			s.logger.Info("sprite regenerated", "icons", res.Icons)
			s.notifier.Broadcast(Reload{Icons: res.Icons})
		}
		return nil
	})
}

type galleryIcon struct {
	Name string
	Href template.URL
}

type galleryData struct {
	Sprite string
	Icons  []galleryIcon
	Live   bool
}

func (s *Server) symbols() ([]string, error) {
	sprite, err := icons.ReadExisting(s.spritePath)
	if err != nil {
		return nil, err
	}
	if sprite == nil {
		return nil, fmt.Errorf("sprite %s does not exist, run iconsprite build first", s.spritePath)
	}
	return icons.SpriteSymbols(sprite)
}

func (s *Server) handleGallery(w http.ResponseWriter, _ *http.Request) {
	names, err := s.symbols()
	if err != nil {
		s.logger.Error("failed to read sprite", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := galleryData{Sprite: s.spritePath, Live: s.watch}
	for _, name := range names {
		data.Icons = append(data.Icons, galleryIcon{
			Name: name,
			Href: template.URL("/sprite.svg#" + name), //nolint:gosec // ids come from our own sprite
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := galleryTmpl.Execute(w, data); err != nil {
		s.logger.Error("failed to render gallery", "error", err)
	}
}

func (s *Server) handleSprite(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(s.spritePath); err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	http.ServeFile(w, r, s.spritePath)
}

func (s *Server) handleIcons(w http.ResponseWriter, _ *http.Request) {
	names, err := s.symbols()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if names == nil {
		names = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"total": len(names),
		"icons": names,
	})
}

// handleEvents streams reload notifications as server-sent events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := s.notifier.Subscribe()
	defer s.notifier.Unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case reload := <-ch:
			payload, _ := json.Marshal(reload)
			_, _ = fmt.Fprintf(w, "event: reload\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
