package dom

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const emptyPage = "<!DOCTYPE html><html><head></head><body></body></html>"

// HTMLDocument is a Document backed by a parsed golang.org/x/net/html tree.
type HTMLDocument struct {
	root *html.Node
	html *html.Node
	head *html.Node
	body *html.Node
}

// NewHTMLDocument returns an empty HTML5 document.
func NewHTMLDocument() *HTMLDocument {
	doc, _ := ParseHTML(strings.NewReader(emptyPage))
	return doc
}

// ParseHTML parses a page. The parser always synthesizes <html>, <head> and
// <body> when they are missing.
func ParseHTML(r io.Reader) (*HTMLDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	d := &HTMLDocument{root: root}
	d.html = findElement(root, atom.Html)
	d.head = findElement(d.html, atom.Head)
	d.body = findElement(d.html, atom.Body)
	return d, nil
}

// Render writes the document as HTML.
func (d *HTMLDocument) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String returns the rendered document.
func (d *HTMLDocument) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Title implements Document.
func (d *HTMLDocument) Title() string {
	if t := findChild(d.head, atom.Title); t != nil {
		return textOf(t)
	}
	return ""
}

// SetTitle implements Document.
func (d *HTMLDocument) SetTitle(title string) {
	t := findChild(d.head, atom.Title)
	if t == nil {
		t = newElement("title")
		d.head.InsertBefore(t, d.head.FirstChild)
	}
	htmlElement{node: t}.SetText(title)
}

// HTMLElement implements Document.
func (d *HTMLDocument) HTMLElement() Element {
	return htmlElement{node: d.html}
}

// BodyElement implements Document.
func (d *HTMLDocument) BodyElement() Element {
	return htmlElement{node: d.body}
}

// Elements implements Document.
func (d *HTMLDocument) Elements(parent Parent, tagName string) []Element {
	var out []Element
	for c := d.parentNode(parent).FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tagName {
			out = append(out, htmlElement{node: c})
		}
	}
	return out
}

// CreateElement implements Document.
func (d *HTMLDocument) CreateElement(tagName string) Element {
	return htmlElement{node: newElement(tagName)}
}

// Append implements Document. Elements from other Document implementations
// are ignored.
func (d *HTMLDocument) Append(parent Parent, el Element) {
	e, ok := el.(htmlElement)
	if !ok {
		return
	}
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
	d.parentNode(parent).AppendChild(e.node)
}

// Remove implements Document.
func (d *HTMLDocument) Remove(el Element) {
	e, ok := el.(htmlElement)
	if !ok || e.node.Parent == nil {
		return
	}
	e.node.Parent.RemoveChild(e.node)
}

func (d *HTMLDocument) parentNode(p Parent) *html.Node {
	if p == ParentBody {
		return d.body
	}
	return d.head
}

// htmlElement wraps a node. It is a value type so two wrappers of the same
// node compare equal.
type htmlElement struct {
	node *html.Node
}

func (e htmlElement) TagName() string {
	return e.node.Data
}

func (e htmlElement) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e htmlElement) Attrs() map[string]string {
	out := make(map[string]string, len(e.node.Attr))
	for _, a := range e.node.Attr {
		if a.Namespace == "" {
			out[a.Key] = a.Val
		}
	}
	return out
}

func (e htmlElement) SetAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

func (e htmlElement) RemoveAttr(name string) {
	attrs := e.node.Attr[:0]
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			continue
		}
		attrs = append(attrs, a)
	}
	e.node.Attr = attrs
}

func (e htmlElement) Text() string {
	return textOf(e.node)
}

func (e htmlElement) SetText(text string) {
	removeChildren(e.node)
	if text != "" {
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

func (e htmlElement) SetInnerHTML(markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.node)
	if err != nil {
		return err
	}
	removeChildren(e.node)
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	return nil
}

func newElement(name string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     name,
		DataAtom: atom.Lookup([]byte(name)),
	}
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func findChild(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
	}
	return nil
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}
