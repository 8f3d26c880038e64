package head

import "time"

// Observer receives instrumentation events from the head pipeline.
// Implementations must be cheap; they run inline with resolution and flushes.
type Observer interface {
	// EntriesChanged is called after a registration or removal.
	EntriesChanged(count int)

	// TagsResolved is called after every resolution pass.
	TagsResolved(count int, elapsed time.Duration)

	// PropStripped is called for every prop removed by sanitization.
	PropStripped(tag, prop string)

	// FlushCompleted is called after every DOM flush. applied is false when a
	// before-update hook aborted the flush.
	FlushCompleted(applied bool, patches int, elapsed time.Duration)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) EntriesChanged(int)                      {}
func (NopObserver) TagsResolved(int, time.Duration)         {}
func (NopObserver) PropStripped(string, string)             {}
func (NopObserver) FlushCompleted(bool, int, time.Duration) {}
