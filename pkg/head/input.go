package head

// Input is a tag source. Recognized fields are listed in Field* constants;
// anything else is ignored.
type Input map[string]any

// Attrs is a flat attribute map describing one tag.
type Attrs map[string]any

// Recognized tag source fields.
const (
	FieldTitle         = "title"
	FieldTitleTemplate = "titleTemplate"
	FieldHTMLAttrs     = "htmlAttrs"
	FieldBodyAttrs     = "bodyAttrs"
	FieldBase          = "base"
	FieldMeta          = "meta"
	FieldLink          = "link"
	FieldStyle         = "style"
	FieldScript        = "script"
	FieldNoscript      = "noscript"
)

// Tag names produced by the resolver. Field names double as tag names.
const (
	TagTitle     = FieldTitle
	TagHTMLAttrs = FieldHTMLAttrs
	TagBodyAttrs = FieldBodyAttrs
	TagBase      = FieldBase
	TagMeta      = FieldMeta
	TagLink      = FieldLink
	TagStyle     = FieldStyle
	TagScript    = FieldScript
	TagNoscript  = FieldNoscript
)

// Normalized prop keys.
const (
	// PropKey overrides the dedupe key.
	PropKey = "key"
	// PropTextContent is the escaped body of a tag.
	PropTextContent = "textContent"
	// PropInnerHTML is the unescaped body of a tag. Raw mode only.
	PropInnerHTML = "innerHTML"
	// PropChildren is an alias for PropTextContent.
	PropChildren = "children"
	// PropBody renders the tag at the end of <body> instead of <head>.
	PropBody = "body"

	legacyKeyHID  = "hid"
	legacyKeyVMID = "vmid"
)

// fieldOrder is the order in which fields of one input are flattened.
var fieldOrder = []string{
	FieldTitle,
	FieldMeta,
	FieldLink,
	FieldBase,
	FieldStyle,
	FieldScript,
	FieldNoscript,
	FieldHTMLAttrs,
	FieldBodyAttrs,
}

// EntryOptions are per-registration options.
type EntryOptions struct {
	// Raw disables sanitization for the entry's tags. Event handler
	// attributes and innerHTML are kept, and SSR output is not escaped.
	Raw bool
}

// IsInternalProp reports whether a prop is bookkeeping rather than an HTML
// attribute.
func IsInternalProp(key string) bool {
	switch key {
	case PropKey, PropTextContent, PropInnerHTML, PropChildren, PropBody:
		return true
	}
	return false
}

// IsField reports whether name is a recognized tag source field.
func IsField(name string) bool {
	if name == FieldTitleTemplate {
		return true
	}
	for _, f := range fieldOrder {
		if f == name {
			return true
		}
	}
	return false
}
