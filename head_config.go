package head

import (
	"log/slog"

	"github.com/vango-dev/head/pkg/dom"
	"github.com/vango-dev/head/pkg/render"
)

// =============================================================================
// Configuration Types
// =============================================================================

// Config configures a Client.
type Config struct {
	// Logger receives sanitization warnings and flush diagnostics.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Observer receives instrumentation events, for example
	// middleware.Metrics. If nil, events are discarded.
	Observer Observer

	// Scheduler runs coalesced DOM flushes.
	// Default: a TickQueue, flushed by Client.Tick.
	Scheduler dom.Scheduler

	// Defaults is registered as the first entry, so every later entry
	// overrides it.
	Defaults Input

	// MarkerAttr names the attribute listing the owned <html>/<body>
	// attributes. Both the reconciler and the SSR renderer use it.
	// Default: "data-head-attrs".
	MarkerAttr string

	// Pretty puts each SSR tag on its own line.
	Pretty bool
}

// DefaultConfig returns a Config with all defaults filled in.
func DefaultConfig() Config {
	return Config{
		Logger:     slog.Default(),
		Observer:   NopObserver{},
		Scheduler:  dom.NewTickQueue(),
		MarkerAttr: render.DefaultMarkerAttr,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Logger == nil {
		c.Logger = d.Logger
	}
	if c.Observer == nil {
		c.Observer = d.Observer
	}
	if c.Scheduler == nil {
		c.Scheduler = d.Scheduler
	}
	if c.MarkerAttr == "" {
		c.MarkerAttr = d.MarkerAttr
	}
	return c
}
