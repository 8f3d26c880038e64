package dom

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/head/pkg/head"
)

// DefaultMarkerAttr lists the <html>/<body> attributes owned by the
// reconciler.
const DefaultMarkerAttr = "data-head-attrs"

// Source provides the resolved tag list. *head.Manager implements it.
type Source interface {
	Resolve() []head.Tag
}

// BeforeUpdateHook runs before a flush mutates the document. It may mutate
// tagsByName; returning false aborts the flush.
type BeforeUpdateHook func(tagsByName map[string][]head.Tag) bool

// Config configures a Reconciler.
type Config struct {
	// Scheduler runs non-forced flushes. Defaults to a new TickQueue.
	Scheduler Scheduler

	// MarkerAttr defaults to DefaultMarkerAttr.
	MarkerAttr string

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Observer defaults to head.NopObserver.
	Observer head.Observer
}

type beforeHook struct {
	id uint64
	fn BeforeUpdateHook
}

type appliedTag struct {
	el   Element
	hash uint64
}

type pendingFlush struct {
	doc       Document
	cancelled bool
}

// Reconciler applies resolved tags to a Document. It is not safe for
// concurrent use.
type Reconciler struct {
	source    Source
	scheduler Scheduler
	marker    string
	logger    *slog.Logger
	observer  head.Observer

	hooks      []beforeHook
	nextHookID uint64
	sinks      []PatchSink

	// applied maps tag name -> identity -> element materialized by a
	// previous flush.
	applied map[string]map[string]appliedTag
	pending *pendingFlush
}

// NewReconciler creates a Reconciler reading tags from source.
func NewReconciler(source Source, cfg Config) *Reconciler {
	if cfg.Scheduler == nil {
		cfg.Scheduler = NewTickQueue()
	}
	if cfg.MarkerAttr == "" {
		cfg.MarkerAttr = DefaultMarkerAttr
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Observer == nil {
		cfg.Observer = head.NopObserver{}
	}
	return &Reconciler{
		source:    source,
		scheduler: cfg.Scheduler,
		marker:    cfg.MarkerAttr,
		logger:    cfg.Logger,
		observer:  cfg.Observer,
		applied:   make(map[string]map[string]appliedTag),
	}
}

// Scheduler returns the scheduler running non-forced flushes.
func (r *Reconciler) Scheduler() Scheduler {
	return r.scheduler
}

// OnBeforeUpdate registers a hook run, in registration order, before every
// flush. The returned func unregisters it.
func (r *Reconciler) OnBeforeUpdate(fn BeforeUpdateHook) func() {
	id := r.nextHookID
	r.nextHookID++
	r.hooks = append(r.hooks, beforeHook{id: id, fn: fn})
	return func() {
		for i, h := range r.hooks {
			if h.id == id {
				r.hooks = append(r.hooks[:i:i], r.hooks[i+1:]...)
				return
			}
		}
	}
}

// AddSink registers a sink for the patches of every applied flush.
func (r *Reconciler) AddSink(sink PatchSink) {
	r.sinks = append(r.sinks, sink)
}

// Update brings doc in line with the current resolved tags. Without force
// the flush is coalesced onto the next scheduler tick; the latest doc passed
// before the tick is used. With force it runs inline and replaces any pending
// flush.
func (r *Reconciler) Update(doc Document, force bool) {
	if force {
		if r.pending != nil {
			r.pending.cancelled = true
			r.pending = nil
		}
		r.Flush(doc)
		return
	}

	if r.pending != nil {
		r.pending.doc = doc
		return
	}

	p := &pendingFlush{doc: doc}
	r.pending = p
	r.scheduler.Schedule(func() {
		if p.cancelled {
			return
		}
		r.pending = nil
		r.Flush(p.doc)
	})
}

// Pending reports whether a scheduled flush has not run yet.
func (r *Reconciler) Pending() bool {
	return r.pending != nil
}

// Flush runs one reconciliation pass synchronously and returns the applied
// patches. It returns nil and false when a hook aborted the pass.
func (r *Reconciler) Flush(doc Document) ([]Patch, bool) {
	start := time.Now()
	ctx := NewUpdateContext(r.source.Resolve())

	for i, h := range r.hooks {
		if !h.fn(ctx.TagsByName) {
			r.logger.Debug("head: dom update aborted by hook", slog.Int("hook", i))
			r.observer.FlushCompleted(false, 0, time.Since(start))
			return nil, false
		}
	}

	patches := r.apply(doc, ctx)
	if len(patches) > 0 {
		for _, s := range r.sinks {
			s.Patches(patches)
		}
	}
	r.observer.FlushCompleted(true, len(patches), time.Since(start))
	return patches, true
}

func (r *Reconciler) apply(doc Document, ctx *UpdateContext) []Patch {
	var patches []Patch

	if ctx.Title != nil && doc.Title() != *ctx.Title {
		doc.SetTitle(*ctx.Title)
		patches = append(patches, Patch{Op: PatchSetTitle, Value: *ctx.Title})
	}

	patches = r.syncOwnedAttrs(doc.HTMLElement(), "html", ctx.HTMLAttrs, patches)
	patches = r.syncOwnedAttrs(doc.BodyElement(), "body", ctx.BodyAttrs, patches)

	names := make(map[string]bool, len(r.applied)+len(ctx.TagsByName))
	for name := range r.applied {
		names[name] = true
	}
	for name := range ctx.TagsByName {
		names[name] = true
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	owned := make(map[Element]bool)
	for _, group := range r.applied {
		for _, a := range group {
			owned[a.el] = true
		}
	}

	for _, name := range sorted {
		patches = r.reconcileGroup(doc, name, ctx.TagsByName[name], owned, patches)
	}

	return patches
}

// syncOwnedAttrs merges attrs onto el. Attributes listed in the marker from
// the previous pass but absent now are removed; others are never touched.
func (r *Reconciler) syncOwnedAttrs(el Element, target string, attrs head.Props, patches []Patch) []Patch {
	if el == nil {
		return patches
	}

	want := make(map[string]string, len(attrs))
	for _, name := range attrs.AttrNames() {
		if name == r.marker || !head.IsValidAttrName(name) {
			continue
		}
		if v, ok := attrValue(attrs[name]); ok {
			want[name] = v
		}
	}

	prevMarker, _ := el.Attr(r.marker)
	for _, name := range strings.Fields(prevMarker) {
		if _, keep := want[name]; keep {
			continue
		}
		if _, ok := el.Attr(name); ok {
			el.RemoveAttr(name)
			patches = append(patches, Patch{Op: PatchRemoveAttr, Target: target, Key: name})
		}
	}

	owned := make([]string, 0, len(want))
	for name := range want {
		owned = append(owned, name)
	}
	sort.Strings(owned)

	for _, name := range owned {
		if cur, ok := el.Attr(name); ok && cur == want[name] {
			continue
		}
		el.SetAttr(name, want[name])
		patches = append(patches, Patch{Op: PatchSetAttr, Target: target, Key: name, Value: want[name]})
	}

	marker := strings.Join(owned, " ")
	switch {
	case marker == prevMarker:
	case marker == "":
		el.RemoveAttr(r.marker)
		patches = append(patches, Patch{Op: PatchRemoveAttr, Target: target, Key: r.marker})
	default:
		el.SetAttr(r.marker, marker)
		patches = append(patches, Patch{Op: PatchSetAttr, Target: target, Key: r.marker, Value: marker})
	}

	return patches
}

func (r *Reconciler) reconcileGroup(doc Document, name string, tags []head.Tag, owned map[Element]bool, patches []Patch) []Patch {
	prev := r.applied[name]
	next := make(map[string]appliedTag, len(tags))

	for _, tag := range tags {
		id := identity(tag)
		if _, dup := next[id]; dup {
			for n := 2; ; n++ {
				candidate := id + "#" + strconv.Itoa(n)
				if _, taken := next[candidate]; !taken {
					id = candidate
					break
				}
			}
		}
		hash := contentHash(tag)
		parent := ParentHead
		if tag.InBody() {
			parent = ParentBody
		}

		if a, ok := prev[id]; ok {
			if a.hash != hash {
				r.writeElement(a.el, tag)
				patches = append(patches, tagPatch(PatchUpdateTag, id, parent, tag))
			}
			next[id] = appliedTag{el: a.el, hash: hash}
			continue
		}

		if el, exact := adopt(doc, parent, tag, hash, owned); el != nil {
			if !exact {
				r.writeElement(el, tag)
				patches = append(patches, tagPatch(PatchUpdateTag, id, parent, tag))
			}
			owned[el] = true
			next[id] = appliedTag{el: el, hash: hash}
			continue
		}

		el := doc.CreateElement(tag.Name)
		r.writeElement(el, tag)
		doc.Append(parent, el)
		owned[el] = true
		next[id] = appliedTag{el: el, hash: hash}
		patches = append(patches, tagPatch(PatchInsertTag, id, parent, tag))
	}

	var removed []string
	for id := range prev {
		if _, ok := next[id]; !ok {
			removed = append(removed, id)
		}
	}
	sort.Strings(removed)
	for _, id := range removed {
		doc.Remove(prev[id].el)
		delete(owned, prev[id].el)
		patches = append(patches, Patch{Op: PatchRemoveTag, Target: id, Tag: name})
	}

	if len(next) == 0 {
		delete(r.applied, name)
	} else {
		r.applied[name] = next
	}
	return patches
}

// adopt claims an unowned element already in the document, typically one
// written by server-side rendering. An element rendering exactly the same tag
// is preferred; otherwise one with the same dedupe key is returned with exact
// set to false so the caller rewrites it.
func adopt(doc Document, parent Parent, tag head.Tag, hash uint64, owned map[Element]bool) (el Element, exact bool) {
	var sameKey Element
	_, asHTML := tag.InnerHTML()
	for _, candidate := range doc.Elements(parent, tag.Name) {
		if owned[candidate] {
			continue
		}
		existing := tagFromElement(candidate, parent, asHTML)
		if contentHash(existing) == hash {
			return candidate, true
		}
		if sameKey == nil && tag.DedupeKey != "" && existing.DedupeKey == tag.DedupeKey {
			sameKey = candidate
		}
	}
	return sameKey, false
}

// writeElement makes el's attributes and content match tag.
func (r *Reconciler) writeElement(el Element, tag head.Tag) {
	want := elementAttrs(tag)
	for name := range el.Attrs() {
		if _, ok := want[name]; !ok {
			el.RemoveAttr(name)
		}
	}
	for _, name := range tag.Props.AttrNames() {
		if v, ok := want[name]; ok {
			el.SetAttr(name, v)
		}
	}

	if voidTags[tag.Name] {
		return
	}
	if markup, ok := tag.InnerHTML(); ok {
		if err := el.SetInnerHTML(markup); err != nil {
			r.logger.Warn("head: invalid innerHTML", slog.String("tag", tag.Name), slog.Any("error", err))
		}
		return
	}
	text, _ := tag.Text()
	if el.Text() != text {
		el.SetText(text)
	}
}

func tagPatch(op PatchOp, id string, parent Parent, tag head.Tag) Patch {
	p := Patch{
		Op:     op,
		Target: id,
		Tag:    tag.Name,
		Parent: parent.String(),
		Attrs:  elementAttrs(tag),
	}
	if markup, ok := tag.InnerHTML(); ok {
		p.HTML = markup
	} else if text, ok := tag.Text(); ok {
		p.Text = text
	}
	return p
}
