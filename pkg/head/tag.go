package head

import (
	"fmt"
	"sort"
	"strconv"
)

// Props holds a tag's attributes plus the internal keys listed in Prop*.
type Props map[string]any

// Tag is one flattened element description.
type Tag struct {
	// Name is the tag name, or htmlAttrs/bodyAttrs for attribute tags.
	Name string

	Props Props

	// DedupeKey is the identity used for deduplication. Empty means the tag
	// is never deduplicated.
	DedupeKey string

	// Position orders the tag in the resolved list.
	Position int

	// Options are inherited from the owning entry.
	Options EntryOptions
}

// Clone returns a copy of t with its own Props map.
func (t Tag) Clone() Tag {
	c := t
	c.Props = make(Props, len(t.Props))
	for k, v := range t.Props {
		c.Props[k] = v
	}
	return c
}

// Text returns textContent, falling back to children.
func (t Tag) Text() (string, bool) {
	if v, ok := t.Props[PropTextContent]; ok && v != nil {
		return Stringify(v), true
	}
	if v, ok := t.Props[PropChildren]; ok && v != nil {
		return Stringify(v), true
	}
	return "", false
}

// InnerHTML returns the innerHTML prop. Only raw tags keep it past
// resolution.
func (t Tag) InnerHTML() (string, bool) {
	v, ok := t.Props[PropInnerHTML]
	if !ok || v == nil {
		return "", false
	}
	return Stringify(v), true
}

// InBody reports whether the tag is flagged to render at the end of <body>.
func (t Tag) InBody() bool {
	b, _ := t.Props[PropBody].(bool)
	return b
}

// AttrNames returns the names of renderable attributes in sorted order.
func (p Props) AttrNames() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		if IsInternalProp(k) {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// String returns the prop as a string when it holds a non-nil scalar.
func (p Props) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", false
	}
	switch v.(type) {
	case map[string]any, []any:
		return "", false
	}
	return Stringify(v), true
}

// Stringify converts a prop value to its attribute string form.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

func cloneTags(tags []Tag) []Tag {
	out := make([]Tag, len(tags))
	for i, t := range tags {
		out[i] = t.Clone()
	}
	return out
}
