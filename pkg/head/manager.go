package head

import "log/slog"

// Options configures a Manager.
type Options struct {
	// Logger receives sanitization warnings. Defaults to slog.Default().
	Logger *slog.Logger

	// Observer receives instrumentation events. Defaults to NopObserver.
	Observer Observer
}

// TagsResolvedHook observes the final resolved tag list. It receives a copy;
// mutations do not affect the pass that produced it.
type TagsResolvedHook func(tags []Tag)

type resolvedHook struct {
	id uint64
	fn TagsResolvedHook
}

// Manager owns the entry store and resolves it into tags.
type Manager struct {
	store    *Store
	logger   *slog.Logger
	observer Observer

	hooks      []resolvedHook
	nextHookID uint64
}

// NewManager creates a Manager with an empty store.
func NewManager(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}
	return &Manager{
		store:    NewStore(),
		logger:   opts.Logger,
		observer: opts.Observer,
	}
}

// Add registers a tag source and returns the func that removes it.
func (m *Manager) Add(input any, opts EntryOptions) RemoveFunc {
	remove := m.store.Add(input, opts)
	m.observer.EntriesChanged(m.store.Len())
	return func() {
		before := m.store.Len()
		remove()
		if m.store.Len() != before {
			m.observer.EntriesChanged(m.store.Len())
		}
	}
}

// Entries returns the registered entries in registration order.
func (m *Manager) Entries() []Entry {
	return m.store.Entries()
}

// Len returns the number of registered entries.
func (m *Manager) Len() int {
	return m.store.Len()
}

// Observer returns the manager's observer.
func (m *Manager) Observer() Observer {
	return m.observer
}

// Logger returns the manager's logger.
func (m *Manager) Logger() *slog.Logger {
	return m.logger
}

// OnTagsResolved registers a hook called at the end of every Resolve. The
// returned func unregisters it.
func (m *Manager) OnTagsResolved(fn TagsResolvedHook) func() {
	id := m.nextHookID
	m.nextHookID++
	m.hooks = append(m.hooks, resolvedHook{id: id, fn: fn})
	return func() {
		for i, h := range m.hooks {
			if h.id == id {
				m.hooks = append(m.hooks[:i:i], m.hooks[i+1:]...)
				return
			}
		}
	}
}
