package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/christophertubbs/erdantic/pkg/cache"
	"github.com/christophertubbs/erdantic/pkg/erd"
	"github.com/christophertubbs/erdantic/pkg/render/dot"
)

// serveCommand creates the serve command for live diagram previews.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		depth    int
		vertical bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve [schema.toml]",
		Short: "Serve a live preview of a schema's diagram",
		Long: `Serve the diagram for a schema file over HTTP and re-render whenever the
file changes on disk.

The preview page at / reloads automatically when the schema changes. The raw
artifacts are available at /diagram.svg and /diagram.dot; the SVG endpoint
supports ETag revalidation so unchanged diagrams are not re-sent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], addr, depth, vertical, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8623", "address to listen on")
	cmd.Flags().IntVarP(&depth, "depth", "d", erd.DefaultDepthLimit, "how many composition levels to follow from the roots")
	cmd.Flags().BoolVar(&vertical, "vertical", false, "lay models out top to bottom instead of left to right")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe starts the preview server and blocks until the context is
// cancelled.
func (c *CLI) runServe(ctx context.Context, input, addr string, depth int, vertical bool, noCache bool) error {
	store := c.newCache(ctx, noCache)
	defer store.Close()

	srv := newPreviewServer(c, input, depth, vertical, store)
	if err := srv.reload(); err != nil {
		return err
	}

	watcherDone, err := srv.watch(ctx)
	if err != nil {
		return fmt.Errorf("watch %s: %w", input, err)
	}

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.router(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	printSuccess("Preview server running")
	printDetail("Schema:  %s", input)
	printDetail("Address: http://%s/", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		<-watcherDone
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// previewServer holds the mutable preview state: the current diagram, the
// schema key it was built from, and the ETag identifying this render
// generation.
type previewServer struct {
	cli      *CLI
	path     string
	depth    int
	vertical bool
	store    cache.Cache
	keyer    cache.Keyer

	mu        sync.RWMutex
	diagram   *erd.Diagram
	schemaKey string
	etag      string
}

// newPreviewServer builds the preview state for one schema file. Renders are
// keyed in a namespace derived from the schema path, so artifacts from
// separate serve sessions stay apart in a shared backend.
func newPreviewServer(c *CLI, path string, depth int, vertical bool, store cache.Cache) *previewServer {
	return &previewServer{
		cli:      c,
		path:     path,
		depth:    depth,
		vertical: vertical,
		store:    store,
		keyer:    cache.NewScopedKeyer(nil, "preview:"+cache.Hash([]byte(path))[:12]+":"),
	}
}

// reload rebuilds the diagram from disk and starts a new render generation.
// Saves that leave the schema bytes unchanged keep the current generation, so
// editor event bursts do not invalidate connected clients.
func (s *previewServer) reload() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read schema %s: %w", s.path, err)
	}
	key := s.keyer.SchemaKey(s.path, cache.Hash(raw))

	s.mu.RLock()
	unchanged := key == s.schemaKey
	s.mu.RUnlock()
	if unchanged {
		s.cli.Logger.Debug("schema unchanged", "key", key)
		return nil
	}

	diagram, err := s.cli.buildDiagram(s.path, nil, s.depth, s.vertical)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.diagram = diagram
	s.schemaKey = key
	s.etag = `"` + uuid.NewString() + `"`
	s.mu.Unlock()

	s.cli.Logger.Info("diagram reloaded", "models", len(diagram.Models()), "edges", len(diagram.Edges()))
	return nil
}

// snapshot returns the current diagram and ETag under the read lock.
func (s *previewServer) snapshot() (*erd.Diagram, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.diagram, s.etag
}

// watch re-renders when the schema file changes. The parent directory is
// watched rather than the file itself, since editors typically replace the
// file on save. The returned channel closes when the watcher goroutine
// exits.
func (s *previewServer) watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return nil, err
	}

	target, err := filepath.Abs(s.path)
	if err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				name, err := filepath.Abs(event.Name)
				if err != nil || name != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				// Editors fire bursts of events on save; let them settle.
				time.Sleep(50 * time.Millisecond)
				if err := s.reload(); err != nil {
					s.cli.Logger.Error("schema reload failed", "err", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.cli.Logger.Warn("watch error", "err", err)
			}
		}
	}()
	return done, nil
}

// router builds the preview HTTP routes.
func (s *previewServer) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/diagram.svg", s.handleSVG)
	r.Get("/diagram.dot", s.handleDOT)
	r.Get("/version", s.handleVersion)

	return r
}

func (s *previewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	diagram, etag := s.snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, indexPage, diagram.Name(), etag)
}

func (s *previewServer) handleSVG(w http.ResponseWriter, r *http.Request) {
	diagram, etag := s.snapshot()
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	artifact, _, err := s.cli.renderCached(r.Context(), s.store, s.keyer, diagram, formatSVG)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("ETag", etag)
	w.Write(artifact)
}

func (s *previewServer) handleDOT(w http.ResponseWriter, r *http.Request) {
	diagram, etag := s.snapshot()
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.Header().Set("ETag", etag)
	fmt.Fprint(w, dot.ToDOT(diagram))
}

func (s *previewServer) handleVersion(w http.ResponseWriter, r *http.Request) {
	_, etag := s.snapshot()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, etag)
}

// indexPage is the preview shell: it polls /version and refreshes the image
// when the render generation changes.
const indexPage = `<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body style="margin:2rem;font-family:sans-serif">
<img id="diagram" src="/diagram.svg">
<script>
let current = %q;
setInterval(async () => {
  const version = await (await fetch("/version")).text();
  if (version !== current) {
    current = version;
    document.getElementById("diagram").src = "/diagram.svg?v=" + Date.now();
  }
}, 1000);
</script>
</body>
</html>
`
