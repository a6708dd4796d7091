package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"curateur/internal/config"
	"curateur/internal/logging"
	"curateur/internal/media"
	"curateur/internal/platformindex"
	"curateur/internal/provider"
	"curateur/internal/ui"
)

// Run drives every selected platform in turn and returns the run-level
// summary. A platform's fatal provider error or an operator cancellation
// stops the run immediately, leaving later platforms untouched; any other
// per-platform error is logged and the run continues to the next one, so
// one bad platform doesn't block a multi-platform run.
func Run(ctx context.Context, cfg *config.Config, log *slog.Logger) (RunSummary, error) {
	platforms, err := platformindex.Parse(cfg.Paths.PlatformIndex)
	if err != nil {
		return RunSummary{}, fmt.Errorf("parse platform index: %w", err)
	}
	platforms, err = platformindex.FilterByName(platforms, cfg.Platforms.Selection)
	if err != nil {
		return RunSummary{}, err
	}

	deps := RunDeps{
		Config:   cfg,
		Log:      log,
		Quota:    NewDailyQuota(cfg.API.Override.DailyQuota),
		Fetcher:  media.NewFetcher(log, nil, cfg.API.MaxRetries, time.Duration(cfg.API.InitialRetryDelaySec*float64(time.Second))),
		Prompter: ui.NewForTerminal(log),
	}

	run := RunSummary{RunID: uuid.NewString(), StartedAt: now()}
	log = log.With(logging.String(logging.FieldRunID, run.RunID))
	log.Info("run started", logging.String(logging.FieldPlatform, strings.Join(platformNames(platforms), ",")))

	for _, platform := range platforms {
		summary, runErr := RunPlatform(ctx, deps, platform)
		run.Platforms = append(run.Platforms, summary)

		if runErr == nil {
			continue
		}
		if errors.Is(runErr, ErrOperatorCancelled) {
			log.Warn("run cancelled by operator", logging.String(logging.FieldPlatform, platform.Name))
			run.EndedAt = now()
			return run, ErrOperatorCancelled
		}
		if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) || provider.IsFatal(runErr) {
			run.EndedAt = now()
			return run, runErr
		}
		log.Error("platform run failed, continuing with remaining platforms",
			logging.String(logging.FieldPlatform, platform.Name), logging.Error(runErr))
	}

	run.EndedAt = now()
	return run, nil
}

func platformNames(platforms []platformindex.Platform) []string {
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = p.Name
	}
	return names
}
