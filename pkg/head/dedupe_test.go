package head

import "testing"

func TestDedupeKey(t *testing.T) {
	tests := []struct {
		name string
		tag  Tag
		want string
	}{
		{"title singleton", Tag{Name: TagTitle, Props: Props{PropTextContent: "x"}}, "title"},
		{"html attrs singleton", Tag{Name: TagHTMLAttrs, Props: Props{"lang": "en"}}, "htmlAttrs"},
		{"body attrs singleton", Tag{Name: TagBodyAttrs, Props: Props{}}, "bodyAttrs"},
		{"base default key", Tag{Name: TagBase, Props: Props{PropKey: "default", "href": "/"}}, "base:key:default"},
		{"explicit key wins", Tag{Name: TagMeta, Props: Props{PropKey: "k", "name": "description"}}, "meta:key:k"},
		{"meta charset", Tag{Name: TagMeta, Props: Props{"charset": "utf-8"}}, "meta:charset"},
		{"meta name", Tag{Name: TagMeta, Props: Props{"name": "description", "content": "x"}}, "meta:name:description"},
		{"meta property", Tag{Name: TagMeta, Props: Props{"property": "og:title"}}, "meta:property:og:title"},
		{"meta http-equiv", Tag{Name: TagMeta, Props: Props{"http-equiv": "refresh"}}, "meta:http-equiv:refresh"},
		{"meta multi-valued", Tag{Name: TagMeta, Props: Props{"property": "og:image", "content": "/a.png"}}, ""},
		{"meta without identity", Tag{Name: TagMeta, Props: Props{"content": "x"}}, ""},
		{"link rel href", Tag{Name: TagLink, Props: Props{"rel": "stylesheet", "href": "/a.css"}}, "link:stylesheet:/a.css"},
		{"link canonical", Tag{Name: TagLink, Props: Props{"rel": "canonical", "href": "https://x"}}, "link:canonical"},
		{"link missing href", Tag{Name: TagLink, Props: Props{"rel": "preconnect"}}, ""},
		{"script without key", Tag{Name: TagScript, Props: Props{"src": "/a.js"}}, ""},
		{"script with key", Tag{Name: TagScript, Props: Props{"src": "/a.js", PropKey: "app"}}, "script:key:app"},
		{"style without key", Tag{Name: TagStyle, Props: Props{PropChildren: "a{}"}}, ""},
		{"empty key ignored", Tag{Name: TagNoscript, Props: Props{PropKey: ""}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DedupeKey(tt.tag); got != tt.want {
				t.Errorf("DedupeKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsEventHandlerAttr(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"onclick", true},
		{"onLoad", true},
		{"ONERROR", true},
		{"on", true},
		{"o", false},
		{"one", true},
		{"content", false},
		{"data-on", false},
	}
	for _, tt := range tests {
		if got := IsEventHandlerAttr(tt.name); got != tt.want {
			t.Errorf("IsEventHandlerAttr(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsValidAttrName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"content", true},
		{"data-x", true},
		{"xml:lang", true},
		{"ünïcode", true},
		{"", false},
		{"a b", false},
		{"a\tb", false},
		{"a\x00", false},
		{"a\u0085", false},
		{`a"b`, false},
		{"a'b", false},
		{"x><script", false},
		{"a/b", false},
		{"a=b", false},
	}
	for _, tt := range tests {
		if got := IsValidAttrName(tt.name); got != tt.want {
			t.Errorf("IsValidAttrName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
