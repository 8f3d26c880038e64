package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/head/internal/config"
	"github.com/vango-dev/head/internal/errors"
	"github.com/vango-dev/head/pkg/dom"
	"github.com/vango-dev/head/pkg/render"
)

const testConfig = `title_template: "%s | Test"
server:
  addr: "127.0.0.1:0"
metrics:
  namespace: headtest
entries:
  - input:
      title: Home
      htmlAttrs:
        lang: en
      meta:
        - name: description
          content: Welcome
  - input:
      meta:
        - name: description
          content: Override
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunRender(t *testing.T) {
	cfgPath := writeConfig(t, testConfig)
	out := filepath.Join(t.TempDir(), "out.json")

	if err := runRender(cfgPath, "", out, true, false); err != nil {
		t.Fatalf("runRender() error = %v", err)
	}

	var res render.Result
	if err := json.Unmarshal([]byte(readOutput(t, out)), &res); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	wantHead := `<title>Home | Test</title><meta content="Override" name="description">`
	if res.HeadTags != wantHead {
		t.Errorf("HeadTags = %q, want %q", res.HeadTags, wantHead)
	}
	if res.HTMLAttrs != ` lang="en" data-head-attrs="lang"` {
		t.Errorf("HTMLAttrs = %q", res.HTMLAttrs)
	}
}

func TestRunRenderPage(t *testing.T) {
	cfgPath := writeConfig(t, testConfig)
	dir := t.TempDir()
	page := filepath.Join(dir, "index.html")
	os.WriteFile(page, []byte(`<html><head></head><body></body></html>`), 0644)
	out := filepath.Join(dir, "out.html")

	if err := runRender(cfgPath, page, out, false, false); err != nil {
		t.Fatalf("runRender() error = %v", err)
	}
	want := `<html lang="en" data-head-attrs="lang"><head><title>Home | Test</title><meta content="Override" name="description"></head><body></body></html>`
	if got := readOutput(t, out); got != want {
		t.Errorf("page = %q, want %q", got, want)
	}
}

func TestRunRenderErrors(t *testing.T) {
	tests := []struct {
		name   string
		config string
		page   string
		code   string
	}{
		{"missing config", "", "", "H100"},
		{"bad yaml", "entries: [", "", "H101"},
		{"bad addr", "server:\n  addr: nope\n", "", "H102"},
		{"missing page", testConfig, "does-not-exist.html", "H140"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgPath := filepath.Join(t.TempDir(), config.ConfigFileName)
			if tt.config != "" {
				cfgPath = writeConfig(t, tt.config)
			}
			page := tt.page
			if page != "" {
				page = filepath.Join(t.TempDir(), page)
			}

			err := runRender(cfgPath, page, filepath.Join(t.TempDir(), "out"), false, false)
			var he *errors.HeadError
			if !asHeadError(err, &he) || he.Code != tt.code {
				t.Errorf("runRender() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func asHeadError(err error, target **errors.HeadError) bool {
	he, ok := err.(*errors.HeadError)
	if ok {
		*target = he
	}
	return ok
}

func TestFormatResult(t *testing.T) {
	got := formatResult(render.Result{HeadTags: "<title>x</title>", BodyAttrs: ` class="a"`})
	want := "<!-- head -->\n<title>x</title>\n<!-- body attrs -->\nclass=\"a\"\n"
	if got != want {
		t.Errorf("formatResult() = %q, want %q", got, want)
	}
}

func TestRunApplyIsIdempotent(t *testing.T) {
	cfgPath := writeConfig(t, testConfig)
	dir := t.TempDir()
	page := filepath.Join(dir, "index.html")
	os.WriteFile(page, []byte(`<html class="app"><head><title>Old</title></head><body></body></html>`), 0644)

	if err := runApply(cfgPath, page, page, false, false); err != nil {
		t.Fatalf("runApply() error = %v", err)
	}
	first := readOutput(t, page)
	for _, want := range []string{
		"<title>Home | Test</title>",
		`<meta content="Override" name="description"/>`,
		`class="app"`,
		`lang="en"`,
	} {
		if !strings.Contains(first, want) {
			t.Errorf("page = %q, want it to contain %q", first, want)
		}
	}

	patches := filepath.Join(dir, "patches.json")
	if err := runApply(cfgPath, page, patches, true, false); err != nil {
		t.Fatalf("runApply() second pass error = %v", err)
	}
	if got := strings.TrimSpace(readOutput(t, patches)); got != "[]" {
		t.Errorf("second pass patches = %s, want []", got)
	}
}

func TestRunInit(t *testing.T) {
	dir := t.TempDir()
	if err := runInit(dir, false); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if len(cfg.Entries) != 1 {
		t.Errorf("len(Entries) = %d, want 1", len(cfg.Entries))
	}

	err = runInit(dir, false)
	var he *errors.HeadError
	if !asHeadError(err, &he) || he.Code != "H105" {
		t.Errorf("second runInit() error = %v, want H105", err)
	}
	if err := runInit(dir, true); err != nil {
		t.Errorf("runInit(force) error = %v", err)
	}
}

func newTestSite(t *testing.T) (*site, http.Handler, *prometheus.Registry) {
	t.Helper()
	cfg, err := config.LoadFile(writeConfig(t, testConfig))
	if err != nil {
		t.Fatal(err)
	}
	reg := prometheus.NewRegistry()
	s, err := newSite(cfg, []byte(defaultPage), discardLogger(), reg)
	if err != nil {
		t.Fatalf("newSite() error = %v", err)
	}
	t.Cleanup(s.close)
	return s, s.routes(false), reg
}

func TestSiteServesInjectedPage(t *testing.T) {
	_, h, _ := newTestSite(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rec.Body.String()
	for _, want := range []string{
		`<html lang="en" data-head-attrs="lang">`,
		"<title>Home | Test</title>",
		`<meta content="Override" name="description">`,
		`<script>(function() {`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
	if strings.Index(body, "<script>") < strings.Index(body, "<body>") {
		t.Error("live script should be rendered in <body>")
	}
}

func TestSitePutHead(t *testing.T) {
	s, h, _ := newTestSite(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/head", strings.NewReader(`{"title":"Runtime"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT /head status = %d, body %s", rec.Code, rec.Body.String())
	}

	var patches []dom.Patch
	if err := json.Unmarshal(rec.Body.Bytes(), &patches); err != nil {
		t.Fatalf("response is not a patch list: %v", err)
	}
	if len(patches) != 1 || patches[0].Op != dom.PatchSetTitle || patches[0].Value != "Runtime | Test" {
		t.Errorf("patches = %+v, want a single SetTitle", patches)
	}
	if got := s.doc.Title(); got != "Runtime | Test" {
		t.Errorf("mirror title = %q, want %q", got, "Runtime | Test")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(rec.Body.String(), "<title>Runtime | Test</title>") {
		t.Errorf("page should use the runtime entry:\n%s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/head", nil))
	var res render.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("GET /head: %v", err)
	}
	if !strings.HasPrefix(res.HeadTags, "<title>Runtime | Test</title>") {
		t.Errorf("HeadTags = %q", res.HeadTags)
	}
}

func TestSitePutHeadInvalid(t *testing.T) {
	_, h, _ := newTestSite(t)

	for _, body := range []string{`not json`, `null`, `["title"]`} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/head", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("PUT %s status = %d, want 400", body, rec.Code)
		}
		if !bytes.Contains(rec.Body.Bytes(), []byte(`"H144"`)) {
			t.Errorf("PUT %s body = %s, want H144", body, rec.Body.String())
		}
	}
}

func TestSiteMetrics(t *testing.T) {
	_, h, _ := newTestSite(t)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "headtest_ssr_renders_total 1") {
		t.Errorf("metrics missing ssr_renders_total:\n%s", rec.Body.String())
	}
}
