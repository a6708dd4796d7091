package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"curateur/internal/cache"
	"curateur/internal/platformindex"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the per-platform response cache",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [platform...]",
		Short: "Show cached-entry counts per platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			names, err := resolvePlatformNames(cfg.Paths.PlatformIndex, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range names {
				store, err := cache.Open(cache.DBPath(cfg.Paths.CatalogRoot, name))
				if err != nil {
					fmt.Fprintf(out, "%s: cache unavailable (%v)\n", name, err)
					continue
				}
				stats, err := store.Stats(cmd.Context())
				store.Close()
				if err != nil {
					fmt.Fprintf(out, "%s: stats unavailable (%v)\n", name, err)
					continue
				}
				fmt.Fprintf(out, "%s: %d entries (%d expired)\n", name, stats.TotalEntries, stats.ExpiredEntries)
			}
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [platform...]",
		Short: "Clear cached provider responses, forcing fresh lookups on the next run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			names, err := resolvePlatformNames(cfg.Paths.PlatformIndex, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range names {
				store, err := cache.Open(cache.DBPath(cfg.Paths.CatalogRoot, name))
				if err != nil {
					fmt.Fprintf(out, "%s: cache unavailable (%v)\n", name, err)
					continue
				}
				cleared, err := store.Clear(cmd.Context())
				store.Close()
				if err != nil {
					fmt.Fprintf(out, "%s: clear failed (%v)\n", name, err)
					continue
				}
				fmt.Fprintf(out, "%s: cleared %d entries\n", name, cleared)
			}
			return nil
		},
	}
}

// resolvePlatformNames returns the requested platform names, or every
// platform in the index when none are named on the command line.
func resolvePlatformNames(platformIndexPath string, requested []string) ([]string, error) {
	if len(requested) > 0 {
		return requested, nil
	}
	platforms, err := platformindex.Parse(platformIndexPath)
	if err != nil {
		return nil, fmt.Errorf("parse platform index: %w", err)
	}
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = p.Name
	}
	return names, nil
}
