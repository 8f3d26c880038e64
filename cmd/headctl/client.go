package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/vango-dev/head"
	"github.com/vango-dev/head/internal/config"
	"github.com/vango-dev/head/internal/errors"
)

// loadConfig reads and validates the config at path, or ./head.yaml when
// path is empty.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		cfg, err = config.Load(".")
	} else {
		cfg, err = config.LoadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// headConfig maps the file config onto a client config.
func headConfig(cfg *config.Config, logger *slog.Logger, observer head.Observer) head.Config {
	return head.Config{
		Logger:     logger,
		Observer:   observer,
		Defaults:   cfg.Defaults(),
		MarkerAttr: cfg.Render.MarkerAttr,
		Pretty:     cfg.Render.Pretty,
	}
}

// registerEntries registers the config entries in file order.
func registerEntries(c *head.Client, cfg *config.Config) {
	for _, e := range cfg.Entries {
		c.RegisterWith(head.Input(e.Input), e.Options())
	}
}

// newClient creates a client holding the defaults and entries of cfg.
func newClient(cfg *config.Config, logger *slog.Logger) *head.Client {
	c := head.New(headConfig(cfg, logger, nil))
	registerEntries(c, cfg)
	return c
}

// newLogger logs to stderr; verbose enables debug output.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func readFile(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, errors.New("H140").WithDetail("Could not read standard input.").Wrap(err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("H140").WithDetail("Could not read " + path + ".").Wrap(err)
	}
	return data, nil
}

// writeOutput writes data to path, or stdout when path is empty or "-".
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		if _, err := os.Stdout.Write(data); err != nil {
			return errors.New("H142").Wrap(err)
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("H142").WithDetail("Could not write " + path + ".").Wrap(err)
	}
	return nil
}
