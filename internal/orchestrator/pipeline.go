package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"curateur/internal/cache"
	"curateur/internal/catalog"
	"curateur/internal/config"
	"curateur/internal/evaluator"
	"curateur/internal/logging"
	"curateur/internal/media"
	"curateur/internal/merge"
	"curateur/internal/provider"
	"curateur/internal/scanner"
	"curateur/internal/scorer"
	"curateur/internal/throttle"
	"curateur/internal/ui"
)

// ErrOperatorCancelled is returned when an interactive search prompt is
// answered with "cancel". It is treated as fatal by the worker pool so
// the whole platform run stops, but the run orchestrator reports it
// under exit code 2 (operator cancellation), not 1 (fatal error).
var ErrOperatorCancelled = errors.New("operator cancelled the run")

// ProviderClient is the subset of *provider.Client the pipeline needs.
// Accepting the interface instead of the concrete type lets tests supply
// a fake without spinning up an HTTP server.
type ProviderClient interface {
	MatchByIdentity(ctx context.Context, systemID int, romFilename string, romSize int64, crc string) (provider.GameInfo, error)
	SearchByName(ctx context.Context, systemID int, name string) ([]provider.GameInfo, error)
}

// MediaFetcher is the subset of *media.Fetcher the pipeline needs.
type MediaFetcher interface {
	Fetch(ctx context.Context, item provider.MediaItem, destPath string, cfg media.TypeConfig) (media.Result, error)
}

// workItem is the payload enqueued into the scheduler for one RomEntity.
type workItem struct {
	Rom          scanner.RomEntity
	Decision     evaluator.Decision
	IdentityHash string
	retryCount   int
}

// itemOutcome is what one worker produces for one RomEntity. Outcomes
// are collected into a platformRun's results map for the final,
// single-threaded catalog write (C11).
type itemOutcome struct {
	Basename     string
	Entry        catalog.CatalogEntry
	Provenance   catalog.Provenance
	Report       merge.ChangeReport
	Action       evaluator.Action
	NotFound     bool
	MediaFetched int
	Err          error
}

// pipeline holds everything a worker needs to carry one RomEntity from
// decision to merged CatalogEntry: C5 (provider) through C10 (merge).
// C11 (catalog write) happens once, after every item has drained,
// in platform.go.
type pipeline struct {
	log      *slog.Logger
	cfg      *config.Config
	platform string
	systemID int

	client   ProviderClient
	fetcher  MediaFetcher
	throttle *throttle.Manager
	cache    *cache.Store
	quota    *DailyQuota
	prompter *ui.Prompter
	store    *catalog.Store

	typeIndex   map[string]media.TypeConfig
	mediaRoot   string
	maxRetries  int
	mergePolicy merge.Policy
	dryRun      bool
}

func (p *pipeline) process(ctx context.Context, item *workItem) itemOutcome {
	basename := item.Rom.DisplayBasename
	existing, hasExisting := p.store.Lookup(basename)

	if !item.Decision.RequiresHTTP {
		return itemOutcome{Basename: basename, Entry: existing, Action: item.Decision.Action}
	}

	game, notFound, err := p.lookupGame(ctx, item)
	if err != nil {
		return itemOutcome{Basename: basename, Err: err}
	}
	if notFound {
		return itemOutcome{Basename: basename, Action: item.Decision.Action, NotFound: true, Entry: existing}
	}

	incoming := assembleCatalogEntry(basename, game, p.cfg.Regions.Preferred, p.cfg.Languages.Preferred)

	mediaFetched, mediaPaths, mediaHashes := p.fetchMedia(ctx, item.Rom, game, item.Decision.MediaToFetch)
	incoming.MediaPaths = mediaPaths

	merged, report := merge.Merge(p.mergePolicy, existing, incoming)
	if !hasExisting {
		merged.Path = "./" + item.Rom.PrimaryFile
	}

	provenance := catalog.Provenance{
		RecordID:     game.ID,
		IdentityHash: item.IdentityHash,
		MediaHashes:  mediaHashes,
		ScrapedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if existingProv, ok := p.store.LookupProvenance(basename); ok {
		for k, v := range existingProv.MediaHashes {
			if _, overwritten := mediaHashes[k]; !overwritten {
				provenance.MediaHashes[k] = v
			}
		}
	}

	return itemOutcome{
		Basename:     basename,
		Entry:        merged,
		Provenance:   provenance,
		Report:       report,
		Action:       item.Decision.Action,
		MediaFetched: mediaFetched,
	}
}

// lookupGame resolves a RomEntity to a provider.GameInfo via the C7
// cache, falling back to C5 (hash match, then name search) on a miss.
// The (game, notFound, err) triple keeps "no answer" (skip this ROM,
// keep going) distinct from "something went wrong" (bubble to the
// scheduler for retry/fatal classification).
func (p *pipeline) lookupGame(ctx context.Context, item *workItem) (provider.GameInfo, bool, error) {
	key := cache.BuildKey(p.platform, item.IdentityHash, item.Rom.PrimaryFile, item.Rom.SizeBytes)
	if cached, ok, err := p.cache.Get(ctx, key); err == nil && ok {
		var game provider.GameInfo
		if unmarshalErr := json.Unmarshal(cached, &game); unmarshalErr == nil {
			return game, false, nil
		}
	}

	if !p.quota.Allow() {
		return provider.GameInfo{}, false, fmt.Errorf("daily provider request quota exhausted")
	}
	if _, err := p.throttle.WaitIfNeeded(ctx, "jeuInfos.php"); err != nil {
		return provider.GameInfo{}, false, err
	}
	if err := p.throttle.AcquireAPISlot(ctx); err != nil {
		return provider.GameInfo{}, false, err
	}
	crc := ""
	if strings.EqualFold(p.cfg.Runtime.HashAlgorithm, "CRC32") {
		crc = item.IdentityHash
	}
	game, err := p.client.MatchByIdentity(ctx, p.systemID, filepath.Base(item.Rom.PrimaryFile), item.Rom.SizeBytes, crc)
	p.throttle.ReleaseAPISlot()

	if err == nil {
		p.cachePut(ctx, key, game)
		return game, false, nil
	}
	if provider.IsFatal(err) {
		return provider.GameInfo{}, false, err
	}
	if provider.IsNotFound(err) {
		return p.searchFallback(ctx, item)
	}

	var te *provider.TransportError
	if errors.As(err, &te) && item.retryExhausted(p.maxRetries) {
		p.log.Warn("demoting exhausted transport error to not-found",
			slog.String(logging.FieldBasename, item.Rom.DisplayBasename),
			logging.Error(err))
		return p.searchFallback(ctx, item)
	}
	return provider.GameInfo{}, false, err
}

// retryExhausted reports whether this attempt is the item's last one.
// workItem.retryCount is copied from the scheduler item's RetryCount by
// the pool's Process function in platform.go before process runs.
func (w *workItem) retryExhausted(maxRetries int) bool {
	return w.retryCount >= maxRetries-1
}

func (p *pipeline) searchFallback(ctx context.Context, item *workItem) (provider.GameInfo, bool, error) {
	if !p.cfg.Search.EnableFallback {
		return provider.GameInfo{}, true, nil
	}
	if err := p.throttle.AcquireAPISlot(ctx); err != nil {
		return provider.GameInfo{}, false, err
	}
	candidates, err := p.client.SearchByName(ctx, p.systemID, scorer.NormalizeFilename(item.Rom.DisplayBasename))
	p.throttle.ReleaseAPISlot()
	if err != nil {
		if provider.IsFatal(err) {
			return provider.GameInfo{}, false, err
		}
		return provider.GameInfo{}, true, nil
	}

	ranked := scorer.Rank(item.Rom, candidates)
	if best, ok := scorer.SelectBest(ranked, p.cfg.Search.Threshold); ok {
		return best.Game, false, nil
	}
	if !p.cfg.Search.Interactive || p.prompter == nil {
		return provider.GameInfo{}, true, nil
	}

	limit := p.cfg.Search.MaxResults
	if limit <= 0 || limit > len(ranked) {
		limit = len(ranked)
	}
	options := make([]ui.Candidate, limit)
	for i := 0; i < limit; i++ {
		options[i] = ui.Candidate{Label: bestLabel(ranked[i].Game), Confidence: ranked[i].Result.Confidence}
	}
	result := p.prompter.SelectSearchCandidate(item.Rom.DisplayBasename, options)
	switch result.Outcome {
	case ui.SearchOutcomeSelect:
		return ranked[result.Index].Game, false, nil
	case ui.SearchOutcomeCancel:
		return provider.GameInfo{}, false, ErrOperatorCancelled
	default:
		return provider.GameInfo{}, true, nil
	}
}

func bestLabel(g provider.GameInfo) string {
	if name := pickByPreference(g.Names, nil); name != "" {
		return name
	}
	return g.ID
}

func (p *pipeline) cachePut(ctx context.Context, key string, game provider.GameInfo) {
	payload, err := json.Marshal(game)
	if err != nil {
		return
	}
	_ = p.cache.Put(ctx, key, p.platform, payload, cache.DefaultTTL)
}

// fetchMedia downloads every requested asset type. A single asset's
// failure is logged and skipped, never failing the whole ROM: media
// availability is best-effort, not required for a successful scrape.
func (p *pipeline) fetchMedia(ctx context.Context, rom scanner.RomEntity, game provider.GameInfo, types []string) (int, map[string]string, map[string]string) {
	mediaPaths := make(map[string]string)
	mediaHashes := make(map[string]string)
	fetched := 0

	if p.dryRun {
		return fetched, mediaPaths, mediaHashes
	}

	assets := media.SelectAssets(rom, game, selectedConfigs(types, p.typeIndex), p.cfg.Regions.Preferred)
	for mediaType, item := range assets {
		cfg, ok := p.typeIndex[mediaType]
		if !ok {
			continue
		}
		tag, hasTag := catalog.MediaTag(mediaType)

		if p.cfg.Media.SkipExistingMedia {
			if existing := existingAssetPath(p.mediaRoot, p.platform, cfg, rom.DisplayBasename); existing != "" {
				if hasTag {
					mediaPaths[tag] = existing
				}
				continue
			}
		}

		if err := p.throttle.AcquireMediaSlot(ctx); err != nil {
			continue
		}
		destPath := media.AssetPath(p.mediaRoot, p.platform, cfg, rom.DisplayBasename, item.Format)
		result, err := p.fetcher.Fetch(ctx, item, destPath, cfg)
		p.throttle.ReleaseMediaSlot()
		if err != nil {
			p.log.Warn("media fetch failed, continuing without this asset",
				slog.String(logging.FieldBasename, rom.DisplayBasename),
				slog.String(logging.FieldMediaType, mediaType),
				logging.Error(err))
			continue
		}
		fetched++
		mediaHashes[mediaType] = result.ContentHash
		if hasTag {
			mediaPaths[tag] = result.Path
		}
	}
	return fetched, mediaPaths, mediaHashes
}

func selectedConfigs(types []string, index map[string]media.TypeConfig) []media.TypeConfig {
	out := make([]media.TypeConfig, 0, len(types))
	for _, t := range types {
		if cfg, ok := index[t]; ok {
			out = append(out, cfg)
		}
	}
	return out
}

func existingAssetPath(mediaRoot, platform string, cfg media.TypeConfig, basename string) string {
	matches, err := filepath.Glob(filepath.Join(mediaRoot, platform, cfg.DirName, basename+".*"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	return matches[0]
}

func parseSystemID(providerID string) int {
	id, err := strconv.Atoi(providerID)
	if err != nil {
		return 0
	}
	return id
}
