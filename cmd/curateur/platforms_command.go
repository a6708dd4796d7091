package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"curateur/internal/platformindex"
)

func newPlatformsCommand(ctx *commandContext) *cobra.Command {
	platformsCmd := &cobra.Command{
		Use:   "platforms",
		Short: "Inspect the configured platform index",
	}
	platformsCmd.AddCommand(newPlatformsListCommand(ctx))
	return platformsCmd
}

func newPlatformsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every platform the platform index declares",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			platforms, err := platformindex.Parse(cfg.Paths.PlatformIndex)
			if err != nil {
				return fmt.Errorf("parse platform index: %w", err)
			}

			selected := make(map[string]bool)
			for _, name := range cfg.Platforms.Selection {
				selected[name] = true
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"name", "full name", "provider id", "extensions", "selected"})
			for _, p := range platforms {
				includeMark := "yes"
				if len(cfg.Platforms.Selection) > 0 && !selected[p.Name] {
					includeMark = "no"
				}
				t.AppendRow(table.Row{p.Name, p.FullName, p.ProviderID, joinExtensions(p.Extensions), includeMark})
			}
			t.Render()
			return nil
		},
	}
}

func joinExtensions(extensions []string) string {
	out := ""
	for i, ext := range extensions {
		if i > 0 {
			out += " "
		}
		out += ext
	}
	return out
}
