package head

// Entry is one registered tag source.
type Entry struct {
	ID      uint64
	Input   any
	Options EntryOptions
}

// RemoveFunc removes a registration. Calling it more than once is a no-op.
type RemoveFunc func()

// Store holds registered entries in registration order.
type Store struct {
	entries []Entry
	nextID  uint64
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Add appends an entry and returns a func that removes it by ID.
func (s *Store) Add(input any, opts EntryOptions) RemoveFunc {
	id := s.nextID
	s.nextID++
	s.entries = append(s.entries, Entry{ID: id, Input: input, Options: opts})

	removed := false
	return func() {
		if removed {
			return
		}
		removed = true
		s.Remove(id)
	}
}

// Remove deletes the entry with the given ID and reports whether it existed.
func (s *Store) Remove(id uint64) bool {
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Entries returns a copy of the entries in registration order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of registered entries.
func (s *Store) Len() int {
	return len(s.entries)
}
