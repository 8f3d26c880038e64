// Package middleware provides HTTP middleware and instrumentation for head.
//
// This package includes:
//   - Inject, which gives every request its own head.Client and splices the
//     resolved tags into HTML responses
//   - OpenTelemetry distributed tracing middleware
//   - Prometheus metrics implementing head.Observer
//
// # Inject
//
// Handlers register entries through the request context and write a plain
// page; the middleware adds the title, tags and attributes on the way out:
//
//	r := chi.NewRouter()
//	r.Use(middleware.Inject(head.Config{
//	    Defaults: head.Input{"titleTemplate": "%s | Site"},
//	}))
//	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
//	    head.MustUse(r.Context(), head.Input{"title": "Home"})
//	    io.WriteString(w, page)
//	})
//
// # OpenTelemetry Middleware
//
// The OpenTelemetry middleware creates a server span per request. Inject adds
// a "head.inject" child span carrying entry and tag counts.
//
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-site"),
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// # Prometheus Metrics
//
// Metrics observes resolution, sanitization, DOM flushes and SSR injection:
//   - head_resolves_total: Total resolution passes
//   - head_props_stripped_total: Props removed by sanitization
//   - head_dom_flushes_total: DOM flushes by result
//   - head_ssr_renders_total: SSR injections
//
// Pass the same Metrics to Inject and expose the registry:
//
//	metrics := middleware.NewMetrics()
//	r.Use(middleware.Inject(head.Config{}, middleware.WithMetrics(metrics)))
//	r.Handle("/metrics", promhttp.Handler())
package middleware
