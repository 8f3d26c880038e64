// Package head provides the resolution engine for document head state.
//
// Many independent sources declare pieces of the document head (title, meta,
// link, style, script, noscript and base tags, plus html/body attributes).
// The package collects those declarations, flattens them into a canonical tag
// list, deduplicates and orders the list deterministically, and hands it to
// the renderers in pkg/dom (live documents) and pkg/render (SSR).
//
// # Core Types
//
// Input is a tag source: a map whose recognized fields are title,
// titleTemplate, htmlAttrs, bodyAttrs, base, meta, link, style, script and
// noscript. Any field, the whole input, or any leaf inside a slice element may
// be a Deferred value that is read at resolution time:
//
//	title := head.NewCell("Home")
//	remove := m.Add(head.Input{
//	    "title": title,
//	    "meta": []head.Attrs{
//	        {"name": "description", "content": "Welcome"},
//	    },
//	}, head.EntryOptions{})
//	defer remove()
//
// Tag is one flattened element description. Resolve returns the resolved tag
// list: deduplicated by dedupe key (last write wins) and sorted by position.
//
// # Positions
//
// Each tag gets position entryIndex*10000 + tagIndex. A deduplicated tag keeps
// the position of the occurrence that won, not the first occurrence.
//
// # Safety
//
// Unless an entry is registered in raw mode, event handler attributes (on*)
// and innerHTML are stripped from its tags. Stripping logs a warning and never
// fails resolution.
//
// # Thread Safety
//
// Manager and Store are not safe for concurrent use. All registrations and
// resolutions are expected to run on a single cooperative thread.
package head
