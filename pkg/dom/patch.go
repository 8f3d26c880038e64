package dom

import "fmt"

// PatchOp is the type of a document mutation.
type PatchOp uint8

const (
	PatchSetTitle   PatchOp = 0x01 // Set document title
	PatchSetAttr    PatchOp = 0x02 // Set attribute on <html> or <body>
	PatchRemoveAttr PatchOp = 0x03 // Remove attribute from <html> or <body>
	PatchInsertTag  PatchOp = 0x04 // Insert a tag element
	PatchUpdateTag  PatchOp = 0x05 // Replace attributes and content of a tag element
	PatchRemoveTag  PatchOp = 0x06 // Remove a tag element
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchSetTitle:
		return "SetTitle"
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchInsertTag:
		return "InsertTag"
	case PatchUpdateTag:
		return "UpdateTag"
	case PatchRemoveTag:
		return "RemoveTag"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the op by name.
func (op PatchOp) MarshalText() ([]byte, error) {
	s := op.String()
	if s == "Unknown" {
		return nil, fmt.Errorf("dom: unknown patch op %d", uint8(op))
	}
	return []byte(s), nil
}

// UnmarshalText decodes an op name.
func (op *PatchOp) UnmarshalText(b []byte) error {
	for candidate := PatchSetTitle; candidate <= PatchRemoveTag; candidate++ {
		if candidate.String() == string(b) {
			*op = candidate
			return nil
		}
	}
	return fmt.Errorf("dom: unknown patch op %q", b)
}

// Patch describes one mutation applied during a flush.
type Patch struct {
	Op PatchOp `json:"op"`

	// Target is "html" or "body" for attribute ops, the tag identity for
	// tag ops, and empty for SetTitle.
	Target string `json:"target,omitempty"`

	Tag    string            `json:"tag,omitempty"`
	Parent string            `json:"parent,omitempty"`
	Key    string            `json:"key,omitempty"`
	Value  string            `json:"value,omitempty"`
	Attrs  map[string]string `json:"attrs,omitempty"`
	Text   string            `json:"text,omitempty"`
	HTML   string            `json:"html,omitempty"`
}

// PatchSink receives the patches of every applied flush.
type PatchSink interface {
	Patches(patches []Patch)
}

// PatchSinkFunc adapts a func to PatchSink.
type PatchSinkFunc func(patches []Patch)

// Patches implements PatchSink.
func (f PatchSinkFunc) Patches(patches []Patch) {
	f(patches)
}
