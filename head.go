// Package head manages the document head of a web application.
//
// Components, pages and layouts declare the title, meta, link, style,
// script, noscript and base tags they need, plus attributes for <html> and
// <body>. A Client merges those declarations into one deduplicated tag list
// and either applies it to a live document or renders it for SSR:
//
//	client := head.New(head.Config{})
//	remove := client.Register(head.Input{
//	    "title":     "Home",
//	    "htmlAttrs": head.Attrs{"lang": "en"},
//	    "meta": []head.Attrs{
//	        {"name": "description", "content": "Welcome"},
//	    },
//	})
//	defer remove()
//
//	page = client.RenderPage(page)
//
// In HTTP handlers the client usually comes from the request context, see
// middleware.Inject:
//
//	remove, err := head.Use(r.Context(), head.Input{"title": "Settings"})
//
// The resolution engine lives in pkg/head, the DOM reconciler in pkg/dom and
// the SSR renderer in pkg/render; this package re-exports what most
// applications need.
package head

import (
	corehead "github.com/vango-dev/head/pkg/head"
)

// =============================================================================
// Tag sources (re-export from pkg/head)
// =============================================================================

// Input is a tag source.
type Input = corehead.Input

// Attrs is a flat attribute map describing one tag.
type Attrs = corehead.Attrs

// EntryOptions are per-registration options.
type EntryOptions = corehead.EntryOptions

// Entry is one registered tag source.
type Entry = corehead.Entry

// RemoveFunc removes a registered entry.
type RemoveFunc = corehead.RemoveFunc

// Tag is one resolved element description.
type Tag = corehead.Tag

// Props holds a tag's attributes and internal keys.
type Props = corehead.Props

// =============================================================================
// Deferred values (re-export from pkg/head)
// =============================================================================

// Deferred is a value read at resolution time.
type Deferred = corehead.Deferred

// DeferredFunc adapts a func to Deferred.
type DeferredFunc = corehead.DeferredFunc

// Cell is a mutable Deferred value.
type Cell[T any] = corehead.Cell[T]

// NewCell creates a Cell holding v.
func NewCell[T any](v T) *Cell[T] {
	return corehead.NewCell(v)
}

// TitleTemplateFunc computes a title from the resolved title text.
type TitleTemplateFunc = corehead.TitleTemplateFunc

// =============================================================================
// Instrumentation (re-export from pkg/head)
// =============================================================================

// Observer receives instrumentation events.
type Observer = corehead.Observer

// NopObserver discards all events.
type NopObserver = corehead.NopObserver
