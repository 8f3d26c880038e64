package head

import (
	"sort"
	"time"
)

// positionStride separates the positions of consecutive entries. Entries with
// more tags than this may produce colliding positions.
const positionStride = 10000

// Resolve flattens every registered entry into the resolved tag list:
// deferred values are read, the title template applied, unsafe props stripped,
// duplicates removed (last write wins, keeping the winner's own position) and
// the result sorted by position.
//
// Resolve never fails. Fields and values it does not recognize are dropped.
func (m *Manager) Resolve() []Tag {
	start := time.Now()

	entries := m.store.Entries()
	inputs := make([]map[string]any, len(entries))
	for i, e := range entries {
		inputs[i] = resolveInput(e.Input)
	}
	template := findTitleTemplate(inputs)

	var (
		keyless  []Tag
		keyed    = make(map[string]Tag)
		keyOrder []string
	)

	for ei, input := range inputs {
		opts := entries[ei].Options
		for ti, tag := range flatten(input) {
			tag.Position = ei*positionStride + ti
			tag.Options = opts

			m.sanitize(&tag)

			if tag.Name == TagTitle && template != nil {
				text, _ := tag.Text()
				tag.Props[PropTextContent] = applyTitleTemplate(template, text)
			}

			tag.DedupeKey = DedupeKey(tag)
			if tag.DedupeKey == "" {
				keyless = append(keyless, tag)
				continue
			}

			prev, seen := keyed[tag.DedupeKey]
			if !seen {
				keyOrder = append(keyOrder, tag.DedupeKey)
			} else if isAttrTag(tag.Name) {
				tag.Props = mergeProps(prev.Props, tag.Props)
			}
			keyed[tag.DedupeKey] = tag
		}
	}

	tags := keyless
	for _, k := range keyOrder {
		tags = append(tags, keyed[k])
	}
	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].Position < tags[j].Position
	})

	for _, h := range m.hooks {
		h.fn(cloneTags(tags))
	}
	m.observer.TagsResolved(len(tags), time.Since(start))

	return tags
}

// resolveInput reads a tag source into a plain map. Anything that does not
// resolve to a map yields an empty input.
func resolveInput(input any) map[string]any {
	m, ok := resolveValue(input).(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return m
}

// flatten converts one resolved input into tags, in fieldOrder.
func flatten(input map[string]any) []Tag {
	var tags []Tag

	for _, field := range fieldOrder {
		value, ok := input[field]
		if !ok || value == nil {
			continue
		}

		switch field {
		case FieldTitle:
			text, ok := scalarString(value)
			if !ok {
				continue
			}
			tags = append(tags, Tag{Name: TagTitle, Props: Props{PropTextContent: text}})

		case FieldBase:
			attrs, ok := value.(map[string]any)
			if !ok {
				continue
			}
			props := Props{PropKey: "default"}
			for k, v := range attrs {
				props[k] = v
			}
			tags = append(tags, Tag{Name: TagBase, Props: props})

		default:
			switch v := value.(type) {
			case []any:
				for _, item := range v {
					attrs, ok := item.(map[string]any)
					if !ok {
						continue
					}
					tags = append(tags, Tag{Name: field, Props: convertLegacyKey(attrs)})
				}
			case map[string]any:
				tags = append(tags, Tag{Name: field, Props: convertLegacyKey(v)})
			}
		}
	}

	return tags
}

// convertLegacyKey renames hid and vmid to key. vmid wins over hid.
func convertLegacyKey(attrs map[string]any) Props {
	props := Props(attrs)
	for _, legacy := range []string{legacyKeyHID, legacyKeyVMID} {
		v, ok := props[legacy]
		if !ok {
			continue
		}
		delete(props, legacy)
		if v == nil || v == "" {
			continue
		}
		props[PropKey] = v
	}
	return props
}

// mergeProps merges next over prev into a new map.
func mergeProps(prev, next Props) Props {
	out := make(Props, len(prev)+len(next))
	for k, v := range prev {
		out[k] = v
	}
	for k, v := range next {
		out[k] = v
	}
	return out
}

func scalarString(v any) (string, bool) {
	switch v.(type) {
	case map[string]any, []any:
		return "", false
	}
	return Stringify(v), true
}
