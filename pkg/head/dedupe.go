package head

import "strings"

// multiValuedMeta lists meta names and properties that may legitimately
// appear more than once in a document.
var multiValuedMeta = map[string]bool{
	"og:image":            true,
	"og:image:url":        true,
	"og:image:secure_url": true,
	"og:image:type":       true,
	"og:image:width":      true,
	"og:image:height":     true,
	"og:image:alt":        true,
	"og:video":            true,
	"og:video:url":        true,
	"og:video:type":       true,
	"og:audio":            true,
	"og:audio:url":        true,
	"og:locale:alternate": true,
	"article:author":      true,
	"article:tag":         true,
	"book:author":         true,
	"book:tag":            true,
	"video:actor":         true,
	"video:director":      true,
	"video:writer":        true,
	"video:tag":           true,
	"music:song":          true,
	"music:musician":      true,
	"twitter:image":       true,
}

// metaIdentityAttrs are checked in order for a meta tag's dedupe key.
var metaIdentityAttrs = []string{"name", "property", "http-equiv"}

// DedupeKey computes the dedupe key for a tag. An explicit key prop always
// wins; otherwise the key depends on the tag name. An empty result means the
// tag is never deduplicated.
func DedupeKey(t Tag) string {
	if k, ok := t.Props.String(PropKey); ok && k != "" {
		return t.Name + ":key:" + k
	}

	switch t.Name {
	case TagTitle, TagBase, TagHTMLAttrs, TagBodyAttrs:
		return t.Name
	case TagMeta:
		if _, ok := t.Props["charset"]; ok {
			return "meta:charset"
		}
		for _, attr := range metaIdentityAttrs {
			v, ok := t.Props.String(attr)
			if !ok || v == "" {
				continue
			}
			if multiValuedMeta[strings.ToLower(v)] {
				return ""
			}
			return "meta:" + attr + ":" + v
		}
	case TagLink:
		rel, _ := t.Props.String("rel")
		href, _ := t.Props.String("href")
		if strings.EqualFold(rel, "canonical") {
			return "link:canonical"
		}
		if rel != "" && href != "" {
			return "link:" + rel + ":" + href
		}
	}
	return ""
}

// isAttrTag reports whether the tag carries attributes for <html> or <body>.
func isAttrTag(name string) bool {
	return name == TagHTMLAttrs || name == TagBodyAttrs
}
