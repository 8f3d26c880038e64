package render

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// attrEscaper also escapes whitespace that could break attribute parsing.
var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"\n", "&#10;",
	"\r", "&#13;",
	"\t", "&#9;",
)

// escapeHTML escapes text for element content.
func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// escapeAttr escapes a quoted attribute value.
func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// escapeRawText makes text safe inside a raw text element such as <script>
// or <style>, where entities are not decoded. Only sequences that could
// close the element or open a comment are rewritten, by escaping the
// character after '<'.
func escapeRawText(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	var buf strings.Builder
	buf.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		buf.WriteByte(c)
		if c == '<' && i+1 < len(s) && (s[i+1] == '/' || s[i+1] == '!') {
			buf.WriteByte('\\')
		}
	}
	return buf.String()
}
