// Package dom reconciles resolved head tags into a live document.
//
// A Reconciler reads the current resolved tags from a Source (normally a
// head.Manager), groups them into an UpdateContext, runs before-update hooks
// and then mutates a Document so it matches: the title is set, html and body
// attributes are merged, and tags are inserted, updated in place or removed.
//
// # Ownership
//
// The reconciler only touches what it owns. Attributes it sets on <html> and
// <body> are listed in a marker attribute (data-head-attrs by default) so a
// later pass can remove exactly those. Tag elements are tracked by identity,
// the tag's dedupe key or a content hash when it has none.
//
// # Batching
//
// Update(doc, false) schedules at most one flush on the Scheduler; further
// calls before it runs share it, and the flush reads the tags current at flush
// time. Update(doc, true) flushes inline and cancels the pending flush.
//
//	q := dom.NewTickQueue()
//	r := dom.NewReconciler(manager, dom.Config{Scheduler: q})
//	r.Update(doc, false)
//	r.Update(doc, false) // coalesced
//	q.Tick()             // one flush
//
// # Documents
//
// HTMLDocument implements Document on top of golang.org/x/net/html, which
// makes it possible to reconcile server-side pages and to test the
// reconciler without a browser.
package dom
