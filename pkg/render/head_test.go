package render

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/head/pkg/head"
)

type entry struct {
	input head.Input
	raw   bool
}

func resolve(entries ...entry) []head.Tag {
	m := head.NewManager(head.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	for _, e := range entries {
		m.Add(e.input, head.EntryOptions{Raw: e.raw})
	}
	return m.Resolve()
}

func TestHead(t *testing.T) {
	tests := []struct {
		name    string
		entries []entry
		want    Result
	}{
		{
			name:    "void link",
			entries: []entry{{input: head.Input{"link": head.Attrs{"as": "style", "href": "/style.css"}}}},
			want:    Result{HeadTags: `<link as="style" href="/style.css">`},
		},
		{
			name:    "html attrs with marker",
			entries: []entry{{input: head.Input{"htmlAttrs": head.Attrs{"lang": "zh"}}}},
			want:    Result{HTMLAttrs: ` lang="zh" data-head-attrs="lang"`},
		},
		{
			name: "body attrs skip false",
			entries: []entry{{input: head.Input{"bodyAttrs": head.Attrs{
				"class":  "dark",
				"hidden": false,
				"inert":  true,
			}}}},
			want: Result{BodyAttrs: ` class="dark" inert data-head-attrs="class inert"`},
		},
		{
			name:    "all attrs false",
			entries: []entry{{input: head.Input{"bodyAttrs": head.Attrs{"hidden": false}}}},
			want:    Result{},
		},
		{
			name: "title rendered first",
			entries: []entry{
				{input: head.Input{"meta": head.Attrs{"charset": "utf-8"}}},
				{input: head.Input{"title": "Home", "titleTemplate": "%s | Site"}},
			},
			want: Result{HeadTags: `<title>Home | Site</title><meta charset="utf-8">`},
		},
		{
			name:    "escaped title and attrs",
			entries: []entry{{input: head.Input{"title": "A & <B>", "meta": head.Attrs{"name": "q", "content": `say "hi"`}}}},
			want:    Result{HeadTags: `<title>A &amp; &lt;B&gt;</title><meta content="say &quot;hi&quot;" name="q">`},
		},
		{
			name: "boolean script attrs",
			entries: []entry{{input: head.Input{"script": head.Attrs{
				"src":   "/a.js",
				"async": true,
				"defer": false,
			}}}},
			want: Result{HeadTags: `<script async src="/a.js"></script>`},
		},
		{
			name:    "script text neutralized",
			entries: []entry{{input: head.Input{"script": head.Attrs{"children": `x = "</script>"`}}}},
			want:    Result{HeadTags: `<script>x = "<\/script>"</script>`},
		},
		{
			name:    "noscript text escaped",
			entries: []entry{{input: head.Input{"noscript": head.Attrs{"textContent": "<b>js</b>"}}}},
			want:    Result{HeadTags: `<noscript>&lt;b&gt;js&lt;/b&gt;</noscript>`},
		},
		{
			name:    "raw text verbatim",
			entries: []entry{{input: head.Input{"noscript": head.Attrs{"textContent": "<b>js</b>"}}, raw: true}},
			want:    Result{HeadTags: `<noscript><b>js</b></noscript>`},
		},
		{
			name:    "raw innerHTML",
			entries: []entry{{input: head.Input{"style": head.Attrs{"innerHTML": "a>b{}"}}, raw: true}},
			want:    Result{HeadTags: `<style>a>b{}</style>`},
		},
		{
			name:    "innerHTML stripped without raw",
			entries: []entry{{input: head.Input{"style": head.Attrs{"innerHTML": "a>b{}"}}}},
			want:    Result{HeadTags: `<style></style>`},
		},
		{
			name: "body tags",
			entries: []entry{{input: head.Input{"script": []head.Attrs{
				{"src": "/head.js"},
				{"src": "/body.js", "body": true},
			}}}},
			want: Result{
				HeadTags: `<script src="/head.js"></script>`,
				BodyTags: `<script src="/body.js"></script>`,
			},
		},
		{
			name:    "base",
			entries: []entry{{input: head.Input{"base": head.Attrs{"href": "/app/"}}}},
			want:    Result{HeadTags: `<base href="/app/">`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Head(resolve(tt.entries...))
			if got != tt.want {
				t.Errorf("Head() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestHeadEmpty(t *testing.T) {
	if got := Head(nil); got != (Result{}) {
		t.Errorf("Head(nil) = %#v, want zero Result", got)
	}
}

func TestRendererMarkerAttr(t *testing.T) {
	r := NewRenderer(RendererConfig{MarkerAttr: "data-owned"})
	tags := resolve(entry{input: head.Input{"htmlAttrs": head.Attrs{"lang": "en", "dir": "ltr"}}})

	got := r.Head(tags).HTMLAttrs
	want := ` dir="ltr" lang="en" data-owned="dir lang"`
	if got != want {
		t.Errorf("HTMLAttrs = %q, want %q", got, want)
	}
}

func TestRendererPretty(t *testing.T) {
	r := NewRenderer(RendererConfig{Pretty: true})
	tags := resolve(entry{input: head.Input{
		"title": "x",
		"meta":  []head.Attrs{{"name": "a", "content": "1"}, {"name": "b", "content": "2"}},
	}})

	lines := strings.Split(r.Head(tags).HeadTags, "\n")
	if len(lines) != 3 {
		t.Fatalf("HeadTags lines = %q, want 3", lines)
	}
	if lines[0] != "<title>x</title>" {
		t.Errorf("first line = %q, want title", lines[0])
	}
}

func TestHeadInvalidAttrNames(t *testing.T) {
	// Tags built without the resolver still never emit markup through names.
	tags := []head.Tag{
		{Name: head.TagMeta, Props: head.Props{"x><script>alert(1)</script><meta y": "z", "name": "a"}},
		{Name: head.TagHTMLAttrs, Props: head.Props{"lang": "en", "a b": "c"}},
	}
	res := Head(tags)
	if want := `<meta name="a">`; res.HeadTags != want {
		t.Errorf("HeadTags = %q, want %q", res.HeadTags, want)
	}
	if want := ` lang="en" data-head-attrs="lang"`; res.HTMLAttrs != want {
		t.Errorf("HTMLAttrs = %q, want %q", res.HTMLAttrs, want)
	}

	resolved := resolve(entry{input: head.Input{"meta": head.Attrs{
		"x><script>alert(1)</script><meta y": "z",
		"on":                                 "q",
		"content":                            "c",
	}}})
	if got, want := Head(resolved).HeadTags, `<meta content="c">`; got != want {
		t.Errorf("resolved HeadTags = %q, want %q", got, want)
	}
}

func TestHeadSanitizedHandlers(t *testing.T) {
	tags := resolve(entry{input: head.Input{"script": head.Attrs{"src": "/a.js", "onload": "evil()"}}})
	got := Head(tags).HeadTags
	if strings.Contains(got, "onload") {
		t.Errorf("HeadTags = %q, event handler should be stripped", got)
	}
}
