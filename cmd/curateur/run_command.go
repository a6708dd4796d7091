package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"curateur/internal/logging"
	"curateur/internal/orchestrator"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var platforms []string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scrape metadata and media for the configured platforms",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if len(platforms) > 0 {
				cfg.Platforms.Selection = platforms
			}
			if dryRun {
				cfg.Runtime.DryRun = true
			}

			log, err := logging.NewForRun(cfg.Logging.Level, cfg.Paths.CatalogRoot)
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			summary, runErr := orchestrator.Run(runCtx, cfg, log)
			fmt.Fprintln(cmd.OutOrStdout(), orchestrator.RenderRunTable(summary))
			return runErr
		},
	}

	cmd.Flags().StringSliceVarP(&platforms, "platform", "p", nil, "Restrict the run to these platform names (repeatable, default: all)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Evaluate and log decisions without writing the catalog or fetching media")

	return cmd
}
