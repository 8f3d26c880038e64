package dom

// Scheduler runs a callback on a later cooperative tick.
type Scheduler interface {
	Schedule(fn func())
}

// SchedulerFunc adapts a func, such as an event loop's dispatch, to
// Scheduler.
type SchedulerFunc func(fn func())

// Schedule implements Scheduler.
func (f SchedulerFunc) Schedule(fn func()) {
	f(fn)
}

// TickQueue is a Scheduler whose callbacks run when Tick is called. It is not
// safe for concurrent use.
type TickQueue struct {
	queue []func()
}

// NewTickQueue creates an empty TickQueue.
func NewTickQueue() *TickQueue {
	return &TickQueue{}
}

// Schedule implements Scheduler.
func (q *TickQueue) Schedule(fn func()) {
	q.queue = append(q.queue, fn)
}

// Tick runs every callback queued before the call and returns how many ran.
// Callbacks scheduled while ticking run on the next tick.
func (q *TickQueue) Tick() int {
	batch := q.queue
	q.queue = nil
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Pending returns the number of queued callbacks.
func (q *TickQueue) Pending() int {
	return len(q.queue)
}
