// Package render provides server-side rendering of resolved head tags.
//
// Head turns a resolved tag list into four strings: the tags for <head>, the
// attribute strings for the <html> and <body> open tags, and the tags for the
// end of <body>:
//
//	res := render.Head(manager.Resolve())
//	page = render.Inject(page, res)
//
// # Escaping
//
// Attribute values are always escaped. Text content is escaped unless the
// owning entry was registered in raw mode; script and style text only has
// closing sequences neutralized, since entities are not decoded there.
// innerHTML survives resolution only in raw mode and is written verbatim.
//
// # Hydration
//
// The <html> and <body> attribute strings end with a marker attribute
// (data-head-attrs by default) listing the names that were set. The DOM
// reconciler reads the marker back so it only removes attributes it owns.
package render
