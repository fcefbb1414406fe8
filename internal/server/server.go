// Package server is the author preview: it serves the built site and
// rebuilds it whenever the content tree changes. Grading never happens here;
// the widgets grade themselves in the browser.
package server

import (
	"context"
	"io/fs"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/studypress/studypress/internal/config"
	"github.com/studypress/studypress/internal/site"
)

// RebuildFunc re-runs the site build. The server logs issues and errors but
// keeps serving the last good output.
type RebuildFunc func() (site.Result, error)

type Server struct {
	cfg     config.Config
	rebuild RebuildFunc
}

func New(cfg config.Config, rebuild RebuildFunc) *Server {
	return &Server{cfg: cfg, rebuild: rebuild}
}

// Router serves the built site plus a health endpoint.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/*", http.FileServer(http.Dir(s.cfg.OutputDir)))
	return r
}

// ListenAndServe blocks until ctx is canceled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.HTTPAddr, Handler: s.Router()}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Printf("preview server on %s serving %s", s.cfg.HTTPAddr, s.cfg.OutputDir)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Watch rebuilds the site when files under the content dir change. Events
// are debounced so editors that write multiple files trigger one rebuild.
func (s *Server) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := watchTree(w, s.cfg.ContentDir); err != nil {
		return err
	}

	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				// New directories need their own watch.
				_ = watchTree(w, ev.Name)
			}
			debounce.Reset(200 * time.Millisecond)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch: %v", err)
		case <-debounce.C:
			res, err := s.rebuild()
			if err != nil {
				log.Printf("rebuild failed: %v", err)
				continue
			}
			log.Printf("rebuilt %d pages", res.Pages)
			for _, is := range res.Issues {
				log.Printf("quiz issue: %s", is)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func watchTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// The path may already be gone (rename/remove races).
			return nil
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
}
