package dom

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/vango-dev/head/pkg/head"
)

// voidTags have no content.
var voidTags = map[string]bool{
	head.TagMeta: true,
	head.TagLink: true,
	head.TagBase: true,
}

// contentHash hashes everything that ends up in the document for a tag: its
// name, placement, attributes and content.
func contentHash(tag head.Tag) uint64 {
	d := xxhash.New()
	write := func(s string) {
		d.WriteString(s)
		d.Write([]byte{0})
	}

	write(tag.Name)
	if tag.InBody() {
		write("body")
	}
	attrs := elementAttrs(tag)
	for _, name := range tag.Props.AttrNames() {
		v, ok := attrs[name]
		if !ok {
			continue
		}
		write(name)
		write(v)
	}
	if !voidTags[tag.Name] {
		if markup, ok := tag.InnerHTML(); ok {
			write("html")
			write(markup)
		} else if text, _ := tag.Text(); text != "" {
			write("text")
			write(text)
		}
	}
	return d.Sum64()
}

// identity is the dedupe key, or a content hash for keyless tags.
func identity(tag head.Tag) string {
	if tag.DedupeKey != "" {
		return tag.DedupeKey
	}
	return "hash:" + strconv.FormatUint(contentHash(tag), 16)
}

// elementAttrs converts renderable props to DOM attribute values. true
// becomes an empty (bare) attribute; false and nil are dropped, and so are
// names a DOM element cannot carry, even for raw tags.
func elementAttrs(tag head.Tag) map[string]string {
	out := make(map[string]string, len(tag.Props))
	for _, name := range tag.Props.AttrNames() {
		if !head.IsValidAttrName(name) {
			continue
		}
		if v, ok := attrValue(tag.Props[name]); ok {
			out[name] = v
		}
	}
	return out
}

func attrValue(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case bool:
		return "", x
	}
	return head.Stringify(v), true
}

// tagFromElement rebuilds a tag from an existing element so it can be
// matched against resolved tags. With asHTML the element content is read as
// innerHTML, matching tags that carry raw markup; script, style and noscript
// hold their markup as a single text node.
func tagFromElement(el Element, parent Parent, asHTML bool) head.Tag {
	props := head.Props{}
	if parent == ParentBody {
		props[head.PropBody] = true
	}
	for k, v := range el.Attrs() {
		props[k] = v
	}
	if !voidTags[el.TagName()] {
		text := el.Text()
		switch {
		case asHTML:
			props[head.PropInnerHTML] = text
		case text != "":
			props[head.PropTextContent] = text
		}
	}
	tag := head.Tag{Name: el.TagName(), Props: props}
	tag.DedupeKey = head.DedupeKey(tag)
	return tag
}
