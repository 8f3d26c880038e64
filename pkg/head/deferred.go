package head

// Deferred is a value read lazily at resolution time.
type Deferred interface {
	Resolve() any
}

// DeferredFunc adapts a zero-argument producer to Deferred.
type DeferredFunc func() any

// Resolve implements Deferred.
func (f DeferredFunc) Resolve() any {
	return f()
}

// Cell is a mutable value container. Registering a cell instead of its value
// makes later Set calls visible to the next resolution without
// re-registering the entry.
type Cell[T any] struct {
	value T
}

// NewCell creates a Cell holding v.
func NewCell[T any](v T) *Cell[T] {
	return &Cell[T]{value: v}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	return c.value
}

// Set replaces the current value.
func (c *Cell[T]) Set(v T) {
	c.value = v
}

// Update applies fn to the current value.
func (c *Cell[T]) Update(fn func(T) T) {
	c.value = fn(c.value)
}

// Resolve implements Deferred.
func (c *Cell[T]) Resolve() any {
	return c.value
}

// resolveValue reads deferred values and copies maps and slices so the
// resolver never mutates caller-owned data. Title template functions are not
// producers and are returned unchanged.
func resolveValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case Deferred:
		return resolveValue(x.Resolve())
	case func() any:
		return resolveValue(x())
	case func() string:
		return x()
	case func() Input:
		return resolveValue(x())
	case func() Attrs:
		return resolveValue(x())
	case func() map[string]any:
		return resolveValue(x())
	case func() []any:
		return resolveValue(x())
	case func() []Attrs:
		return resolveValue(x())
	case Input:
		return resolveMap(x)
	case Attrs:
		return resolveMap(x)
	case map[string]any:
		return resolveMap(x)
	case map[string]string:
		out := make(map[string]any, len(x))
		for k, s := range x {
			out[k] = s
		}
		return out
	case []any:
		return resolveSlice(x)
	case []Attrs:
		out := make([]any, len(x))
		for i, a := range x {
			out[i] = resolveMap(a)
		}
		return out
	case []Input:
		out := make([]any, len(x))
		for i, a := range x {
			out[i] = resolveMap(a)
		}
		return out
	case []map[string]any:
		out := make([]any, len(x))
		for i, a := range x {
			out[i] = resolveMap(a)
		}
		return out
	case []map[string]string:
		out := make([]any, len(x))
		for i, a := range x {
			out[i] = resolveValue(a)
		}
		return out
	default:
		return v
	}
}

func resolveMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = resolveValue(v)
	}
	return out
}

func resolveSlice(s []any) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = resolveValue(v)
	}
	return out
}
