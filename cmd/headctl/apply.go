package main

import (
	"bytes"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/vango-dev/head/internal/errors"
	"github.com/vango-dev/head/pkg/dom"
)

func applyCmd(configPath *string) *cobra.Command {
	var (
		output  string
		patches bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "apply <page.html>",
		Short: "Reconcile an HTML file with the resolved tags",
		Long: `Parse an HTML file and bring its head in line with head.yaml.

Tags already present in the file are adopted instead of duplicated, so
applying twice is a no-op. Attributes on <html> and <body> not set by
head.yaml are left alone.

Examples:
  headctl apply index.html -o index.html
  headctl apply index.html --patches`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(*configPath, args[0], output, patches, verbose)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&patches, "patches", false, "Print the applied patches as JSON instead of the page")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log sanitization and debug output")

	return cmd
}

func runApply(configPath, page, output string, printPatches, verbose bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	data, err := readFile(page)
	if err != nil {
		return err
	}
	doc, err := dom.ParseHTML(bytes.NewReader(data))
	if err != nil {
		return errors.New("H141").Wrap(err)
	}

	client := newClient(cfg, newLogger(verbose))
	applied := []dom.Patch{}
	client.AddPatchSink(dom.PatchSinkFunc(func(p []dom.Patch) {
		applied = append(applied, p...)
	}))
	client.UpdateDOM(doc, true)

	if printPatches {
		out, err := json.MarshalIndent(applied, "", "  ")
		if err != nil {
			return errors.New("H142").Wrap(err)
		}
		return writeOutput(output, append(out, '\n'))
	}

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return errors.New("H142").Wrap(err)
	}
	if err := writeOutput(output, buf.Bytes()); err != nil {
		return err
	}
	if output != "" && output != "-" {
		success("Applied %d patches to %s", len(applied), output)
	}
	return nil
}
