package dom

// Parent selects where a tag element lives.
type Parent uint8

const (
	ParentHead Parent = iota
	ParentBody
)

// String returns the element name of the parent.
func (p Parent) String() string {
	if p == ParentBody {
		return "body"
	}
	return "head"
}

// Document is the live document a Reconciler mutates.
type Document interface {
	// Title returns the current document title.
	Title() string

	// SetTitle sets the document title, creating <title> if needed.
	SetTitle(title string)

	// HTMLElement returns the root <html> element.
	HTMLElement() Element

	// BodyElement returns the <body> element.
	BodyElement() Element

	// Elements returns the element children of parent named tagName, in
	// document order.
	Elements(parent Parent, tagName string) []Element

	// CreateElement creates a detached element.
	CreateElement(tagName string) Element

	// Append inserts el as the last child of parent.
	Append(parent Parent, el Element)

	// Remove detaches el from the document.
	Remove(el Element)
}

// Element is one element of a Document. Implementations must be comparable
// with == so the reconciler can track ownership.
type Element interface {
	TagName() string
	Attr(name string) (string, bool)
	Attrs() map[string]string
	SetAttr(name, value string)
	RemoveAttr(name string)

	// Text returns the concatenated text content.
	Text() string

	// SetText replaces all children with a single text node.
	SetText(text string)

	// SetInnerHTML replaces all children with parsed markup.
	SetInnerHTML(markup string) error
}
