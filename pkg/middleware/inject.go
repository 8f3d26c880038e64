package middleware

import (
	"bytes"
	"mime"
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/head"
	"github.com/vango-dev/head/pkg/render"
)

// InjectConfig configures the Inject middleware.
type InjectConfig struct {
	// Setup registers per-request entries before the handler runs, for
	// example site-wide defaults that depend on the request.
	Setup func(r *http.Request, client *head.Client)

	// Metrics records SSR injections. When set and the head.Config has no
	// Observer, it also observes every per-request client.
	Metrics *Metrics

	// TracerName is the name of the tracer (default: "head").
	TracerName string
}

// InjectOption configures the Inject middleware.
type InjectOption func(*InjectConfig)

// WithSetup sets the per-request setup function.
func WithSetup(setup func(r *http.Request, client *head.Client)) InjectOption {
	return func(c *InjectConfig) {
		c.Setup = setup
	}
}

// WithMetrics records injections and client activity with m.
func WithMetrics(m *Metrics) InjectOption {
	return func(c *InjectConfig) {
		c.Metrics = m
	}
}

// WithInjectTracerName sets the tracer name used for injection spans.
func WithInjectTracerName(name string) InjectOption {
	return func(c *InjectConfig) {
		c.TracerName = name
	}
}

// Inject creates middleware that gives every request its own head.Client and
// splices the resolved tags into HTML responses.
//
// Handlers register entries through the request context:
//
//	func page(w http.ResponseWriter, r *http.Request) {
//	    head.MustUse(r.Context(), head.Input{"title": "Home"})
//	    io.WriteString(w, "<html><head></head><body>...</body></html>")
//	}
//
//	r := chi.NewRouter()
//	r.Use(middleware.Inject(head.Config{
//	    Defaults: head.Input{"titleTemplate": "%s | Site"},
//	}))
//
// The response is buffered. Responses that are not text/html, are encoded
// (Content-Encoding set) or have no body are written unchanged. cfg.Scheduler
// should be left nil so each client gets its own queue.
func Inject(cfg head.Config, opts ...InjectOption) func(http.Handler) http.Handler {
	config := InjectConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Metrics != nil && cfg.Observer == nil {
		cfg.Observer = config.Metrics
	}
	tracer := otel.Tracer(config.TracerName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := head.New(cfg)
			if config.Setup != nil {
				config.Setup(r, client)
			}

			// Headers go straight to w so Content-Length can be fixed up
			// before they are sent; the status and body are held back.
			var buf bytes.Buffer
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&buf)
			ww.Discard()
			next.ServeHTTP(ww, r.WithContext(head.NewContext(r.Context(), client)))

			body := buf.Bytes()
			if r.Method != http.MethodHead && shouldInject(w.Header(), body) {
				body = injectHead(r, tracer, client, body, config.Metrics)
				w.Header().Set("Content-Length", strconv.Itoa(len(body)))
			}

			w.WriteHeader(responseStatus(ww))
			if len(body) == 0 {
				return
			}
			if _, err := w.Write(body); err != nil {
				client.Logger().Debug("head: write response", "path", r.URL.Path, "error", err)
			}
		})
	}
}

func injectHead(r *http.Request, tracer trace.Tracer, client *head.Client, page []byte, metrics *Metrics) []byte {
	start := time.Now()
	_, span := tracer.Start(r.Context(), "head.inject",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("head.path", r.URL.Path)),
	)
	defer span.End()

	tagCount := 0
	unregister := client.OnTagsResolved(func(tags []head.Tag) {
		tagCount = len(tags)
	})
	defer unregister()

	out := render.Inject(page, client.Render())

	span.SetAttributes(
		attribute.Int("head.entries", len(client.Entries())),
		attribute.Int("head.tags", tagCount),
	)
	if len(out) == len(page) && tagCount > 0 {
		span.SetStatus(codes.Error, "no injection anchors in page")
	} else {
		span.SetStatus(codes.Ok, "")
	}
	if metrics != nil {
		metrics.RenderCompleted(time.Since(start))
	}
	return out
}

// shouldInject reports whether a response body is an HTML page the tags can
// be spliced into.
func shouldInject(h http.Header, body []byte) bool {
	if len(body) == 0 || h.Get("Content-Encoding") != "" {
		return false
	}
	ct := h.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(body)
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	return err == nil && mediaType == "text/html"
}
