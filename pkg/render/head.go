package render

import (
	"strings"

	"github.com/vango-dev/head/pkg/head"
)

// DefaultMarkerAttr matches the attribute the DOM reconciler reads back when
// it hydrates a server-rendered page.
const DefaultMarkerAttr = "data-head-attrs"

// Result is the SSR output for one resolved tag list.
type Result struct {
	// HeadTags is inserted before </head>. The title, if any, comes first.
	HeadTags string `json:"headTags"`

	// HTMLAttrs and BodyAttrs are spliced into the <html> and <body> open
	// tags. Each attribute is prefixed with a space.
	HTMLAttrs string `json:"htmlAttrs"`
	BodyAttrs string `json:"bodyAttrs"`

	// BodyTags is inserted before </body>.
	BodyTags string `json:"bodyTags"`
}

// RendererConfig configures a Renderer.
type RendererConfig struct {
	// MarkerAttr names the attribute listing the owned <html>/<body>
	// attributes. Defaults to DefaultMarkerAttr.
	MarkerAttr string

	// Pretty puts each tag on its own line.
	Pretty bool
}

// Renderer serializes resolved tags to HTML strings.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.MarkerAttr == "" {
		config.MarkerAttr = DefaultMarkerAttr
	}
	return &Renderer{config: config}
}

var defaultRenderer = NewRenderer(RendererConfig{})

// Head renders tags with the default configuration.
func Head(tags []head.Tag) Result {
	return defaultRenderer.Head(tags)
}

// Head renders a resolved tag list.
func (r *Renderer) Head(tags []head.Tag) Result {
	var (
		title    string
		hasTitle bool
		headTags []string
		bodyTags []string
		res      Result
	)

	for _, tag := range tags {
		switch tag.Name {
		case head.TagTitle:
			title = r.renderTitle(tag)
			hasTitle = true
		case head.TagHTMLAttrs:
			res.HTMLAttrs = r.renderOwnedAttrs(tag)
		case head.TagBodyAttrs:
			res.BodyAttrs = r.renderOwnedAttrs(tag)
		default:
			if tag.InBody() {
				bodyTags = append(bodyTags, renderTag(tag))
			} else {
				headTags = append(headTags, renderTag(tag))
			}
		}
	}

	if hasTitle {
		headTags = append([]string{title}, headTags...)
	}

	sep := ""
	if r.config.Pretty {
		sep = "\n"
	}
	res.HeadTags = strings.Join(headTags, sep)
	res.BodyTags = strings.Join(bodyTags, sep)
	return res
}

func (r *Renderer) renderTitle(tag head.Tag) string {
	text, _ := tag.Text()
	if !tag.Options.Raw {
		text = escapeHTML(text)
	}
	return "<title>" + text + "</title>"
}

// renderOwnedAttrs renders an htmlAttrs/bodyAttrs map plus the marker
// listing the names it set. Names that are not valid attribute names are
// skipped unless the tag is raw.
func (r *Renderer) renderOwnedAttrs(tag head.Tag) string {
	props := tag.Props
	var (
		b     strings.Builder
		names []string
	)
	for _, name := range props.AttrNames() {
		if name == r.config.MarkerAttr || (!tag.Options.Raw && !head.IsValidAttrName(name)) {
			continue
		}
		if writeAttr(&b, name, props[name]) {
			names = append(names, name)
		}
	}
	if len(names) > 0 {
		writeAttr(&b, r.config.MarkerAttr, strings.Join(names, " "))
	}
	return b.String()
}

func renderTag(tag head.Tag) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(tag.Name)
	for _, name := range tag.Props.AttrNames() {
		if !tag.Options.Raw && !head.IsValidAttrName(name) {
			continue
		}
		writeAttr(&b, name, tag.Props[name])
	}
	b.WriteByte('>')

	if isVoidElement(tag.Name) {
		return b.String()
	}

	if markup, ok := tag.InnerHTML(); ok {
		b.WriteString(markup)
	} else if text, ok := tag.Text(); ok {
		switch {
		case tag.Options.Raw:
			b.WriteString(text)
		case isRawTextElement(tag.Name):
			b.WriteString(escapeRawText(text))
		default:
			b.WriteString(escapeHTML(text))
		}
	}

	b.WriteString("</")
	b.WriteString(tag.Name)
	b.WriteByte('>')
	return b.String()
}

// writeAttr writes ` name="value"`, or a bare name for true. It reports
// whether anything was written; false and nil are omitted.
func writeAttr(b *strings.Builder, name string, value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		if !v {
			return false
		}
		b.WriteByte(' ')
		b.WriteString(name)
		return true
	}
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(escapeAttr(head.Stringify(value)))
	b.WriteByte('"')
	return true
}
