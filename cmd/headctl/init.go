package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/head/internal/config"
	"github.com/vango-dev/head/internal/errors"
)

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a head.yaml",
		Long: `Create a head.yaml with default settings and an example entry.

Examples:
  headctl init
  headctl init site --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(dir, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing head.yaml")

	return cmd
}

func runInit(dir string, force bool) error {
	path := filepath.Join(dir, config.ConfigFileName)
	if config.Exists(dir) && !force {
		return errors.New("H105").WithDetail(path + " already exists.")
	}

	cfg := config.New()
	cfg.TitleTemplate = "%s | My Site"
	cfg.Entries = []config.Entry{{
		Input: map[string]any{
			"title": "Home",
			"meta": []any{
				map[string]any{"charset": "utf-8"},
				map[string]any{"name": "description", "content": "My site"},
			},
			"htmlAttrs": map[string]any{"lang": "en"},
		},
	}}

	if err := cfg.SaveTo(path); err != nil {
		return err
	}
	success("Created %s", path)
	return nil
}
