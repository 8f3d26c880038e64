package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/head/internal/errors"
	"github.com/vango-dev/head/pkg/head"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "head.yaml"

	// DefaultAddr is the default headctl serve address.
	DefaultAddr = ":8080"

	// DefaultMetricsNamespace prefixes every exported metric.
	DefaultMetricsNamespace = "head"

	// DefaultMetricsPath serves the Prometheus endpoint.
	DefaultMetricsPath = "/metrics"

	// DefaultLivePath serves the websocket patch stream.
	DefaultLivePath = "/live"

	// DefaultMarkerAttr lists the owned <html>/<body> attributes.
	DefaultMarkerAttr = "data-head-attrs"
)

// Config is the head.yaml configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Metrics MetricsConfig `yaml:"metrics"`
	Render  RenderConfig  `yaml:"render"`

	// TitleTemplate is registered with the defaults, for example "%s | Site".
	TitleTemplate string `yaml:"title_template,omitempty"`

	// Entries are registered in order after the defaults.
	Entries []Entry `yaml:"entries,omitempty"`

	configPath string
}

// ServerConfig configures headctl serve.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `yaml:"addr"`

	// Page is the HTML page the tags are injected into. Relative paths are
	// resolved against the config directory.
	Page string `yaml:"page,omitempty"`

	// Live enables the websocket patch stream.
	Live bool `yaml:"live"`

	// LivePath is the websocket endpoint.
	LivePath string `yaml:"live_path,omitempty"`
}

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
	Path      string `yaml:"path"`
}

// RenderConfig configures SSR output.
type RenderConfig struct {
	MarkerAttr string `yaml:"marker_attr"`
	Pretty     bool   `yaml:"pretty,omitempty"`
}

// Entry is one tag source declared in the config file.
type Entry struct {
	// Raw disables sanitization for the entry.
	Raw bool `yaml:"raw,omitempty"`

	// Input is the tag source, for example {title: Home}.
	Input map[string]any `yaml:"input"`

	line   int
	column int
}

// UnmarshalYAML records the entry position for validation errors.
func (e *Entry) UnmarshalYAML(value *yaml.Node) error {
	type plain Entry
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*e = Entry(p)
	e.line = value.Line
	e.column = value.Column
	return nil
}

// Options returns the entry options for registration.
func (e Entry) Options() head.EntryOptions {
	return head.EntryOptions{Raw: e.Raw}
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:     DefaultAddr,
			Live:     true,
			LivePath: DefaultLivePath,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultMetricsNamespace,
			Path:      DefaultMetricsPath,
		},
		Render: RenderConfig{
			MarkerAttr: DefaultMarkerAttr,
		},
	}
}

// Load reads head.yaml from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from path. The result is not validated.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("H100").
				WithDetail("No " + filepath.Base(path) + " found in " + filepath.Dir(path) + ".")
		}
		return nil, errors.New("H101").Wrap(err)
	}

	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("H101").
			Wrap(err).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid YAML")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New("H142").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("H142").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// PagePath returns the absolute path of Server.Page, or "" when unset.
func (c *Config) PagePath() string {
	if c.Server.Page == "" || filepath.IsAbs(c.Server.Page) {
		return c.Server.Page
	}
	return filepath.Join(c.Dir(), c.Server.Page)
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.LivePath == "" {
		c.Server.LivePath = DefaultLivePath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Render.MarkerAttr == "" {
		c.Render.MarkerAttr = DefaultMarkerAttr
	}
}

var metricNameRE = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate checks the configuration.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return errors.New("H102").Wrap(err)
	}
	if c.Metrics.Enabled && !metricNameRE.MatchString(c.Metrics.Namespace) {
		return errors.New("H104").
			WithDetail(fmt.Sprintf("metrics.namespace %q is not a valid Prometheus name.", c.Metrics.Namespace))
	}
	for i, e := range c.Entries {
		if err := c.validateEntry(i, e); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateEntry(i int, e Entry) error {
	var unknown []string
	known := 0
	for name := range e.Input {
		if head.IsField(name) {
			known++
		} else {
			unknown = append(unknown, name)
		}
	}
	if known > 0 {
		return nil
	}

	err := errors.New("H103").
		WithDetail(fmt.Sprintf("Entry %d needs an input mapping with at least one recognized field.", i))
	if len(unknown) > 0 {
		sort.Strings(unknown)
		err.WithSuggestion("Unrecognized fields: " + strings.Join(unknown, ", "))
	} else {
		err.WithSuggestion("Add a title, meta, link, script or other field to the input")
	}
	if e.line > 0 && c.configPath != "" {
		err.WithLocation(c.configPath, e.line, e.column)
	}
	return err
}

// Defaults returns the input registered before all entries.
func (c *Config) Defaults() head.Input {
	if c.TitleTemplate == "" {
		return nil
	}
	return head.Input{head.FieldTitleTemplate: c.TitleTemplate}
}

// Exists reports whether dir contains a config file.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
