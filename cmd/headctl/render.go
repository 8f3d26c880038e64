package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/head/internal/errors"
	"github.com/vango-dev/head/pkg/render"
)

func renderCmd(configPath *string) *cobra.Command {
	var (
		page    string
		output  string
		asJSON  bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the resolved tags for SSR",
		Long: `Resolve the entries in head.yaml and print the SSR output.

Without --page the four output fragments are printed. With --page the
tags are injected into the given HTML file.

Examples:
  headctl render
  headctl render --json
  headctl render --page=index.html -o dist/index.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(*configPath, page, output, asJSON, verbose)
		},
	}

	cmd.Flags().StringVarP(&page, "page", "p", "", `HTML page to inject into ("-" for stdin)`)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the fragments as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log sanitization and debug output")

	return cmd
}

func runRender(configPath, page, output string, asJSON, verbose bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	client := newClient(cfg, newLogger(verbose))

	if page != "" {
		data, err := readFile(page)
		if err != nil {
			return err
		}
		return writeOutput(output, client.RenderPage(data))
	}

	res := client.Render()
	if asJSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return errors.New("H142").Wrap(err)
		}
		return writeOutput(output, append(data, '\n'))
	}
	return writeOutput(output, []byte(formatResult(res)))
}

// formatResult prints the non-empty fragments under section headers.
func formatResult(res render.Result) string {
	var b strings.Builder
	section := func(name, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "<!-- %s -->\n%s\n", name, strings.TrimSpace(value))
	}
	section("head", res.HeadTags)
	section("html attrs", res.HTMLAttrs)
	section("body attrs", res.BodyAttrs)
	section("body", res.BodyTags)
	return b.String()
}
