package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/head"
	"github.com/vango-dev/head/internal/config"
	"github.com/vango-dev/head/internal/errors"
	"github.com/vango-dev/head/pkg/dom"
	"github.com/vango-dev/head/pkg/live"
	"github.com/vango-dev/head/pkg/middleware"
)

const defaultPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
</head>
<body>
<main></main>
</body>
</html>
`

func serveCmd(configPath *string) *cobra.Command {
	var (
		addr    string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a page with the tags injected",
		Long: `Serve the configured page with the resolved tags injected.

Routes:
  GET  /            the page, tags injected per request
  GET  /head        the current SSR fragments as JSON
  PUT  /head        replace the runtime entry with a JSON object
  GET  /live        websocket patch stream (server.live)
  GET  /metrics     Prometheus metrics (metrics.enabled)

Examples:
  headctl serve
  headctl serve --addr=127.0.0.1:9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*configPath, addr, verbose)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from head.yaml)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log requests and debug output")

	return cmd
}

func runServe(configPath, addr string, verbose bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	page := []byte(defaultPage)
	if p := cfg.PagePath(); p != "" {
		if page, err = readFile(p); err != nil {
			return err
		}
	}

	logger := newLogger(verbose)
	s, err := newSite(cfg, page, logger, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer s.close()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.routes(verbose),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	success("Serving on %s", cfg.Server.Addr)
	if cfg.Server.Live {
		info("Live patches on %s", cfg.Server.LivePath)
	}
	if cfg.Metrics.Enabled {
		info("Metrics on %s", cfg.Metrics.Path)
	}

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return errors.New("H143").Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.New("H143").Wrap(err)
	}
	success("Stopped")
	return nil
}

// site serves one page. Each request gets its own client; a long-lived
// mirror client reconciles a server-side copy of the page so runtime
// updates can be streamed to browsers as patches.
type site struct {
	cfg      *config.Config
	page     []byte
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *middleware.Metrics
	hub      *live.Hub

	mu      sync.Mutex
	runtime *head.Cell[head.Input]
	mirror  *head.Client
	doc     *dom.HTMLDocument
	last    []dom.Patch
}

func newSite(cfg *config.Config, page []byte, logger *slog.Logger, registry *prometheus.Registry) (*site, error) {
	doc, err := dom.ParseHTML(bytes.NewReader(page))
	if err != nil {
		return nil, errors.New("H141").Wrap(err)
	}

	s := &site{
		cfg:      cfg,
		page:     page,
		logger:   logger,
		registry: registry,
		runtime:  head.NewCell(head.Input{}),
		doc:      doc,
	}

	var observer head.Observer
	if cfg.Metrics.Enabled {
		s.metrics = middleware.NewMetrics(
			middleware.WithRegistry(registry),
			middleware.WithNamespace(cfg.Metrics.Namespace),
		)
		observer = s.metrics
	}

	s.mirror = head.New(headConfig(cfg, logger, observer))
	registerEntries(s.mirror, cfg)
	s.mirror.Register(s.runtime)
	s.mirror.AddPatchSink(dom.PatchSinkFunc(func(p []dom.Patch) {
		s.last = p
	}))

	if cfg.Server.Live {
		opts := []live.HubOption{live.WithLogger(logger)}
		if s.metrics != nil {
			opts = append(opts, live.WithConnectionObserver(s.metrics))
		}
		s.hub = live.NewHub(opts...)
		s.mirror.AddPatchSink(s.hub)
	}

	s.mirror.UpdateDOM(s.doc, true)
	return s, nil
}

func (s *site) routes(logRequests bool) http.Handler {
	r := chi.NewRouter()
	if logRequests {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(middleware.OpenTelemetry(
		middleware.WithRequestFilter(func(r *http.Request) bool {
			return r.URL.Path != s.cfg.Metrics.Path
		}),
	))

	injectOpts := []middleware.InjectOption{middleware.WithSetup(s.setup)}
	if s.metrics != nil {
		injectOpts = append(injectOpts, middleware.WithMetrics(s.metrics))
	}
	hc := headConfig(s.cfg, s.logger, nil)
	r.With(middleware.Inject(hc, injectOpts...)).Get("/", s.servePage)

	r.Get("/head", s.getHead)
	r.Put("/head", s.putHead)

	if s.hub != nil {
		r.Handle(s.cfg.Server.LivePath, s.hub)
	}
	if s.metrics != nil {
		r.Handle(s.cfg.Metrics.Path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

// setup registers the config entries, the current runtime entry and, with
// live updates enabled, the patch client script.
func (s *site) setup(r *http.Request, c *head.Client) {
	registerEntries(c, s.cfg)

	s.mu.Lock()
	c.Register(s.runtime.Get())
	s.mu.Unlock()

	if s.hub != nil {
		c.RegisterRaw(head.Input{"script": []head.Attrs{{
			"key":       "head-live",
			"innerHTML": live.ClientScript(s.cfg.Server.LivePath),
			"body":      true,
		}}})
	}
}

func (s *site) servePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.page)
}

func (s *site) getHead(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	res := s.mirror.Render()
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// putHead replaces the runtime entry and reconciles the mirror document,
// which broadcasts the resulting patches to live clients.
func (s *site) putHead(w http.ResponseWriter, r *http.Request) {
	var input head.Input
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&input); err != nil || input == nil {
		he := errors.New("H144")
		if err != nil {
			he = he.Wrap(err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(he.FormatJSON()))
		return
	}

	s.mu.Lock()
	s.last = nil
	s.runtime.Set(input)
	s.mirror.UpdateDOM(s.doc, true)
	applied := s.last
	s.mu.Unlock()

	if applied == nil {
		applied = []dom.Patch{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(applied)
}

func (s *site) close() {
	if s.hub != nil {
		s.hub.Close()
	}
}
