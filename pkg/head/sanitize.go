package head

import (
	"log/slog"
	"sort"
	"strings"
)

// IsEventHandlerAttr reports whether an attribute name is an inline event
// handler such as onclick or onLoad.
func IsEventHandlerAttr(name string) bool {
	return len(name) >= 2 && strings.EqualFold(name[:2], "on")
}

// IsValidAttrName reports whether name can be written as an HTML attribute
// name as is. Whitespace, control characters and "'<>/= are rejected.
func IsValidAttrName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r <= 0x20 || r == 0x7f || (r >= 0x80 && r <= 0x9f) {
			return false
		}
		switch r {
		case '"', '\'', '<', '>', '/', '=':
			return false
		}
	}
	return true
}

// sanitize strips event handler attributes and innerHTML from tags of
// non-raw entries.
func (m *Manager) sanitize(t *Tag) {
	if t.Options.Raw {
		return
	}

	var invalid, stripped []string
	for k := range t.Props {
		switch {
		case IsInternalProp(k):
		case !IsValidAttrName(k):
			invalid = append(invalid, k)
		case IsEventHandlerAttr(k):
			stripped = append(stripped, k)
		}
	}
	sort.Strings(invalid)
	for _, k := range invalid {
		delete(t.Props, k)
		m.logger.Warn("head: invalid attribute name",
			slog.String("tag", t.Name),
			slog.String("attr", k),
		)
		m.observer.PropStripped(t.Name, k)
	}

	sort.Strings(stripped)
	for _, k := range stripped {
		delete(t.Props, k)
		m.logger.Warn("head: event handler attributes require raw mode",
			slog.String("tag", t.Name),
			slog.String("attr", k),
		)
		m.observer.PropStripped(t.Name, k)
	}

	if _, ok := t.Props[PropInnerHTML]; ok {
		delete(t.Props, PropInnerHTML)
		m.logger.Warn("head: innerHTML requires raw mode",
			slog.String("tag", t.Name),
		)
		m.observer.PropStripped(t.Name, PropInnerHTML)
	}
}
