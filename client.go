package head

import (
	"log/slog"

	"github.com/vango-dev/head/pkg/dom"
	corehead "github.com/vango-dev/head/pkg/head"
	"github.com/vango-dev/head/pkg/render"
)

// =============================================================================
// Client
// =============================================================================

// Client is the head manager for one application or one request. It owns the
// entry store and wires the resolver to the DOM reconciler and the SSR
// renderer.
//
//	client := head.New(head.Config{Defaults: head.Input{"titleTemplate": "%s | Site"}})
//	remove := client.Register(head.Input{"title": "Home"})
//	defer remove()
//
//	res := client.Render()
//
// A Client is not safe for concurrent use.
type Client struct {
	config     Config
	manager    *corehead.Manager
	reconciler *dom.Reconciler
	renderer   *render.Renderer
}

// New creates a Client. Config.Defaults, when set, is registered first.
func New(cfg Config) *Client {
	cfg = cfg.withDefaults()

	manager := corehead.NewManager(corehead.Options{
		Logger:   cfg.Logger,
		Observer: cfg.Observer,
	})

	c := &Client{
		config:  cfg,
		manager: manager,
		reconciler: dom.NewReconciler(manager, dom.Config{
			Scheduler:  cfg.Scheduler,
			MarkerAttr: cfg.MarkerAttr,
			Logger:     cfg.Logger,
			Observer:   cfg.Observer,
		}),
		renderer: render.NewRenderer(render.RendererConfig{
			MarkerAttr: cfg.MarkerAttr,
			Pretty:     cfg.Pretty,
		}),
	}

	if len(cfg.Defaults) > 0 {
		manager.Add(cfg.Defaults, EntryOptions{})
	}
	return c
}

// =============================================================================
// Registration
// =============================================================================

// Register adds a tag source. input is an Input, a Deferred producing one,
// or a func returning one. The returned func removes the entry; calling it
// more than once is a no-op.
func (c *Client) Register(input any) RemoveFunc {
	return c.manager.Add(input, EntryOptions{})
}

// RegisterRaw adds a tag source whose tags are not sanitized: event handler
// attributes and innerHTML are kept and SSR text is not escaped. Use it only
// for trusted content.
func (c *Client) RegisterRaw(input any) RemoveFunc {
	return c.manager.Add(input, EntryOptions{Raw: true})
}

// RegisterWith adds a tag source with explicit options.
func (c *Client) RegisterWith(input any, opts EntryOptions) RemoveFunc {
	return c.manager.Add(input, opts)
}

// Entries returns the registered entries in registration order.
func (c *Client) Entries() []Entry {
	return c.manager.Entries()
}

// =============================================================================
// Resolution and rendering
// =============================================================================

// Resolve returns the deduplicated, position-ordered tag list.
func (c *Client) Resolve() []Tag {
	return c.manager.Resolve()
}

// Render resolves the current tags and serializes them for SSR.
func (c *Client) Render() render.Result {
	return c.renderer.Head(c.manager.Resolve())
}

// RenderPage splices the current tags into a full HTML page.
func (c *Client) RenderPage(page []byte) []byte {
	return render.Inject(page, c.Render())
}

// UpdateDOM brings doc in line with the current tags. Without force the
// flush is coalesced onto the next scheduler tick; with force it runs before
// UpdateDOM returns, which is what teardown code needs after a removal.
func (c *Client) UpdateDOM(doc dom.Document, force bool) {
	c.reconciler.Update(doc, force)
}

// Tick runs pending coalesced flushes when the Client uses the default
// TickQueue scheduler. It returns the number of callbacks run, or 0 for
// other schedulers.
func (c *Client) Tick() int {
	if q, ok := c.config.Scheduler.(*dom.TickQueue); ok {
		return q.Tick()
	}
	return 0
}

// =============================================================================
// Hooks
// =============================================================================

// OnBeforeDomUpdate registers a hook run before every DOM flush. It may
// mutate the grouped tags; returning false aborts the flush. The returned
// func unregisters it.
func (c *Client) OnBeforeDomUpdate(fn func(tagsByName map[string][]Tag) bool) func() {
	return c.reconciler.OnBeforeUpdate(fn)
}

// OnTagsResolved registers a hook that receives a copy of every resolved tag
// list. The returned func unregisters it.
func (c *Client) OnTagsResolved(fn func(tags []Tag)) func() {
	return c.manager.OnTagsResolved(fn)
}

// AddPatchSink registers a sink for the patches of every applied DOM flush,
// such as a live.Hub streaming them to browsers.
func (c *Client) AddPatchSink(sink dom.PatchSink) {
	c.reconciler.AddSink(sink)
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.config.Logger
}
