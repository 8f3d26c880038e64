package render

import "github.com/vango-dev/head/pkg/head"

// voidElements have no content and no closing tag.
var voidElements = map[string]bool{
	head.TagMeta: true,
	head.TagLink: true,
	head.TagBase: true,
}

// rawTextElements hold unescaped text in HTML; their content is escaped
// with escapeRawText instead of escapeHTML.
var rawTextElements = map[string]bool{
	head.TagScript: true,
	head.TagStyle:  true,
}

func isVoidElement(tag string) bool {
	return voidElements[tag]
}

func isRawTextElement(tag string) bool {
	return rawTextElements[tag]
}
