package head

import (
	"bytes"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"
)

func newTestManager(t *testing.T) (*Manager, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return NewManager(Options{Logger: logger}), &buf
}

func tagNames(tags []Tag) []string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return names
}

func TestResolveFlattensRecognizedFields(t *testing.T) {
	m, _ := newTestManager(t)
	m.Add(Input{
		"title":     "Home",
		"htmlAttrs": Attrs{"lang": "en"},
		"bodyAttrs": Attrs{"class": "dark"},
		"base":      Attrs{"href": "/"},
		"meta":      []Attrs{{"name": "description", "content": "hi"}},
		"link":      Attrs{"rel": "icon", "href": "/favicon.ico"},
		"style":     []any{Attrs{"children": "body{}"}},
		"script":    []Attrs{{"src": "/app.js"}},
		"noscript":  Attrs{"children": "enable js"},
		"unknown":   Attrs{"ignored": true},
	}, EntryOptions{})

	tags := m.Resolve()
	want := []string{"title", "meta", "link", "base", "style", "script", "noscript", "htmlAttrs", "bodyAttrs"}
	if got := tagNames(tags); !reflect.DeepEqual(got, want) {
		t.Fatalf("tag names = %v, want %v", got, want)
	}
	for i, tag := range tags {
		if tag.Position != i {
			t.Errorf("tags[%d].Position = %d, want %d", i, tag.Position, i)
		}
	}
	if key, _ := tags[3].Props.String(PropKey); key != "default" {
		t.Errorf("base key = %q, want %q", key, "default")
	}
	if text, _ := tags[0].Text(); text != "Home" {
		t.Errorf("title text = %q, want %q", text, "Home")
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	m, _ := newTestManager(t)
	m.Add(Input{"title": "A", "meta": []Attrs{{"name": "a", "content": "1"}, {"charset": "utf-8"}}}, EntryOptions{})
	m.Add(Input{"link": []Attrs{{"rel": "stylesheet", "href": "/a.css"}}, "script": Attrs{"src": "/x.js"}}, EntryOptions{})

	first := m.Resolve()
	second := m.Resolve()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Resolve() not idempotent:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}

// The winning duplicate keeps its own position, so a later registration moves
// the tag after unrelated tags of earlier entries. This mirrors long-standing
// behavior and is kept deliberately.
func TestResolveDedupeKeepsWinnerPosition(t *testing.T) {
	m, _ := newTestManager(t)
	m.Add(Input{"meta": []Attrs{
		{"key": "a", "content": "first"},
		{"key": "b", "content": "b"},
	}}, EntryOptions{})
	m.Add(Input{"meta": Attrs{"key": "a", "content": "second"}}, EntryOptions{})

	tags := m.Resolve()
	if len(tags) != 2 {
		t.Fatalf("len(tags) = %d, want 2", len(tags))
	}
	if k, _ := tags[0].Props.String("key"); k != "b" {
		t.Errorf("tags[0] key = %q, want %q", k, "b")
	}
	if k, _ := tags[1].Props.String("key"); k != "a" {
		t.Errorf("tags[1] key = %q, want %q", k, "a")
	}
	if c, _ := tags[1].Props.String("content"); c != "second" {
		t.Errorf("tags[1] content = %q, want %q", c, "second")
	}
	if tags[1].Position != positionStride {
		t.Errorf("tags[1].Position = %d, want %d", tags[1].Position, positionStride)
	}
}

func TestResolveSanitizes(t *testing.T) {
	input := func() Input {
		return Input{"script": Attrs{
			"src":       "/a.js",
			"onclick":   "alert(1)",
			"onLoad":    "alert(2)",
			"innerHTML": "<b>x</b>",
		}}
	}

	t.Run("stripped without raw", func(t *testing.T) {
		m, logs := newTestManager(t)
		m.Add(input(), EntryOptions{})
		tags := m.Resolve()
		props := tags[0].Props
		for _, k := range []string{"onclick", "onLoad", "innerHTML"} {
			if _, ok := props[k]; ok {
				t.Errorf("prop %q should be stripped", k)
			}
		}
		if props["src"] != "/a.js" {
			t.Errorf("src = %v, want /a.js", props["src"])
		}
		if !strings.Contains(logs.String(), "event handler attributes require raw mode") {
			t.Errorf("expected event handler warning, got %q", logs.String())
		}
		if !strings.Contains(logs.String(), "innerHTML requires raw mode") {
			t.Errorf("expected innerHTML warning, got %q", logs.String())
		}
	})

	t.Run("kept in raw mode", func(t *testing.T) {
		m, logs := newTestManager(t)
		m.Add(input(), EntryOptions{Raw: true})
		props := m.Resolve()[0].Props
		for _, k := range []string{"onclick", "onLoad", "innerHTML"} {
			if _, ok := props[k]; !ok {
				t.Errorf("prop %q should be kept in raw mode", k)
			}
		}
		if logs.Len() != 0 {
			t.Errorf("unexpected warnings: %q", logs.String())
		}
	})
}

type strippedProps []string

func (s *strippedProps) EntriesChanged(int)                      {}
func (s *strippedProps) TagsResolved(int, time.Duration)         {}
func (s *strippedProps) FlushCompleted(bool, int, time.Duration) {}
func (s *strippedProps) PropStripped(tag, prop string) {
	*s = append(*s, tag+" "+prop)
}

func TestResolveStripsInvalidAttrNames(t *testing.T) {
	var buf bytes.Buffer
	var stripped strippedProps
	m := NewManager(Options{Logger: slog.New(slog.NewTextHandler(&buf, nil)), Observer: &stripped})
	m.Add(Input{
		"meta": Attrs{
			"x><script>alert(1)</script><meta y": "z",
			"on":                                 "q",
			"name":                               "description",
		},
		"htmlAttrs": Attrs{"lang": "en", "a b": "c"},
	}, EntryOptions{})

	tags := m.Resolve()
	if got, want := tags[0].Props.AttrNames(), []string{"name"}; !reflect.DeepEqual(got, want) {
		t.Errorf("meta attrs = %v, want %v", got, want)
	}
	if got, want := tags[1].Props.AttrNames(), []string{"lang"}; !reflect.DeepEqual(got, want) {
		t.Errorf("htmlAttrs attrs = %v, want %v", got, want)
	}
	if !strings.Contains(buf.String(), "invalid attribute name") {
		t.Errorf("expected invalid attribute warning, got %q", buf.String())
	}
	want := strippedProps{"meta x><script>alert(1)</script><meta y", "meta on", "htmlAttrs a b"}
	if !reflect.DeepEqual(stripped, want) {
		t.Errorf("stripped = %q, want %q", stripped, want)
	}
}

func TestResolveTitleTemplate(t *testing.T) {
	tests := []struct {
		name     string
		inputs   []Input
		wantText string
	}{
		{
			name:     "string template",
			inputs:   []Input{{"titleTemplate": "%s - My site"}, {"title": "hello"}},
			wantText: "hello - My site",
		},
		{
			name: "function template",
			inputs: []Input{
				{"titleTemplate": TitleTemplateFunc(func(s string) string { return "[" + s + "]" })},
				{"title": "hello"},
			},
			wantText: "[hello]",
		},
		{
			name: "plain func template",
			inputs: []Input{
				{"titleTemplate": func(s string) string { return strings.ToUpper(s) }},
				{"title": "hello"},
			},
			wantText: "HELLO",
		},
		{
			name:     "last registered template wins",
			inputs:   []Input{{"titleTemplate": "%s | A"}, {"title": "x"}, {"titleTemplate": "%s | B"}},
			wantText: "x | B",
		},
		{
			name:     "empty template disables templating",
			inputs:   []Input{{"titleTemplate": "%s | A"}, {"title": "x", "titleTemplate": ""}},
			wantText: "x",
		},
		{
			name:     "only first placeholder replaced",
			inputs:   []Input{{"titleTemplate": "%s %s", "title": "a"}},
			wantText: "a %s",
		},
		{
			name:     "no template",
			inputs:   []Input{{"title": "plain"}},
			wantText: "plain",
		},
		{
			name:     "deferred template",
			inputs:   []Input{{"titleTemplate": DeferredFunc(func() any { return "%s!" }), "title": "hi"}},
			wantText: "hi!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestManager(t)
			for _, in := range tt.inputs {
				m.Add(in, EntryOptions{})
			}
			var title *Tag
			tags := m.Resolve()
			for i := range tags {
				if tags[i].Name == TagTitle {
					title = &tags[i]
				}
			}
			if title == nil {
				t.Fatal("no title tag resolved")
			}
			if got, _ := title.Text(); got != tt.wantText {
				t.Errorf("title = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestResolveTitleTemplateNotEmitted(t *testing.T) {
	m, _ := newTestManager(t)
	m.Add(Input{"titleTemplate": "%s - site"}, EntryOptions{})
	if tags := m.Resolve(); len(tags) != 0 {
		t.Errorf("len(tags) = %d, want 0 (template alone emits nothing)", len(tags))
	}
}

func TestResolveRemoval(t *testing.T) {
	m, _ := newTestManager(t)
	m.Add(Input{"title": "base", "meta": []Attrs{{"name": "a", "content": "1"}}}, EntryOptions{})
	before := len(m.Resolve())

	remove := m.Add(Input{
		"script": []Attrs{{"src": "/1.js"}, {"src": "/2.js"}},
		"style":  Attrs{"children": "a{}"},
	}, EntryOptions{})
	if got := len(m.Resolve()); got != before+3 {
		t.Fatalf("after add len = %d, want %d", got, before+3)
	}

	remove()
	if got := len(m.Resolve()); got != before {
		t.Errorf("after remove len = %d, want %d", got, before)
	}

	remove()
	if got := m.Len(); got != 1 {
		t.Errorf("Len() after double remove = %d, want 1", got)
	}
}

func TestResolveSamePropertyDifferentKeys(t *testing.T) {
	m, _ := newTestManager(t)
	m.Add(Input{"meta": Attrs{"property": "og:title", "key": "one", "content": "A"}}, EntryOptions{})
	m.Add(Input{"meta": Attrs{"property": "og:title", "key": "two", "content": "B"}}, EntryOptions{})

	tags := m.Resolve()
	if len(tags) != 2 {
		t.Fatalf("len(tags) = %d, want 2", len(tags))
	}

	m.Add(Input{"meta": Attrs{"property": "og:title", "key": "one", "content": "C"}}, EntryOptions{})
	tags = m.Resolve()
	if len(tags) != 2 {
		t.Fatalf("len(tags) = %d, want 2", len(tags))
	}

	var contents []string
	for _, tag := range tags {
		c, _ := tag.Props.String("content")
		contents = append(contents, c)
	}
	if want := []string{"B", "C"}; !reflect.DeepEqual(contents, want) {
		t.Errorf("contents = %v, want %v", contents, want)
	}
	if tags[1].Position != 2*positionStride {
		t.Errorf("winner position = %d, want %d", tags[1].Position, 2*positionStride)
	}
}

func TestResolveMergesAttributeTags(t *testing.T) {
	m, _ := newTestManager(t)
	m.Add(Input{"htmlAttrs": Attrs{"lang": "en", "class": "a"}}, EntryOptions{})
	m.Add(Input{"htmlAttrs": Attrs{"class": "b", "dir": "ltr"}}, EntryOptions{})

	tags := m.Resolve()
	if len(tags) != 1 {
		t.Fatalf("len(tags) = %d, want 1", len(tags))
	}
	want := Props{"lang": "en", "class": "b", "dir": "ltr"}
	if !reflect.DeepEqual(tags[0].Props, want) {
		t.Errorf("props = %v, want %v", tags[0].Props, want)
	}
	if tags[0].Position != positionStride {
		t.Errorf("Position = %d, want %d", tags[0].Position, positionStride)
	}
}

func TestResolveLegacyKeys(t *testing.T) {
	m, _ := newTestManager(t)
	m.Add(Input{"meta": []Attrs{
		{"hid": "desc", "name": "description", "content": "1"},
		{"vmid": "desc", "name": "description", "content": "2"},
	}}, EntryOptions{})

	tags := m.Resolve()
	if len(tags) != 1 {
		t.Fatalf("len(tags) = %d, want 1", len(tags))
	}
	if _, ok := tags[0].Props["vmid"]; ok {
		t.Error("vmid should be renamed to key")
	}
	if tags[0].DedupeKey != "meta:key:desc" {
		t.Errorf("DedupeKey = %q, want %q", tags[0].DedupeKey, "meta:key:desc")
	}
}

func TestResolveIgnoresMalformedInput(t *testing.T) {
	m, _ := newTestManager(t)
	m.Add("not a map", EntryOptions{})
	m.Add(Input{
		"meta":  []any{"nope", 3, Attrs{"name": "ok", "content": "1"}},
		"base":  "bad",
		"title": Attrs{"bad": true},
		"link":  42,
	}, EntryOptions{})
	m.Add(nil, EntryOptions{})

	tags := m.Resolve()
	if len(tags) != 1 || tags[0].Name != TagMeta {
		t.Errorf("tags = %+v, want single meta", tags)
	}
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	m, _ := newTestManager(t)
	meta := Attrs{"hid": "x", "name": "a", "onclick": "y"}
	m.Add(Input{"meta": []Attrs{meta}}, EntryOptions{})
	m.Resolve()

	if _, ok := meta["hid"]; !ok {
		t.Error("caller map lost hid")
	}
	if _, ok := meta["onclick"]; !ok {
		t.Error("caller map lost onclick")
	}
}

func TestOnTagsResolved(t *testing.T) {
	m, _ := newTestManager(t)
	m.Add(Input{"title": "x"}, EntryOptions{})

	calls := 0
	unregister := m.OnTagsResolved(func(tags []Tag) {
		calls++
		tags[0].Props[PropTextContent] = "mutated"
	})

	tags := m.Resolve()
	if calls != 1 {
		t.Fatalf("hook calls = %d, want 1", calls)
	}
	if text, _ := tags[0].Text(); text != "x" {
		t.Errorf("hook mutation leaked: title = %q", text)
	}

	unregister()
	m.Resolve()
	if calls != 1 {
		t.Errorf("hook calls after unregister = %d, want 1", calls)
	}
}
