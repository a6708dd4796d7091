package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"curateur/internal/cache"
	"curateur/internal/catalog"
	"curateur/internal/config"
	"curateur/internal/evaluator"
	"curateur/internal/identity"
	"curateur/internal/logging"
	"curateur/internal/media"
	"curateur/internal/merge"
	"curateur/internal/platformindex"
	"curateur/internal/provider"
	"curateur/internal/scanner"
	"curateur/internal/scheduler"
	"curateur/internal/throttle"
	"curateur/internal/ui"
)

// RunDeps bundles the dependencies shared by every platform in a run.
type RunDeps struct {
	Config   *config.Config
	Log      *slog.Logger
	Quota    *DailyQuota
	Fetcher  MediaFetcher
	Prompter *ui.Prompter
}

// RunPlatform drives one platform from scan through committed catalog,
// per §4.13: lock, scan, integrity check, identity + evaluation, the
// priority work queue, media-type cleanup, and the final commit.
func RunPlatform(ctx context.Context, deps RunDeps, platform platformindex.Platform) (PlatformSummary, error) {
	cfg := deps.Config
	log := logging.NewComponentLogger(deps.Log, "orchestrator").With(logging.String(logging.FieldPlatform, platform.Name))

	catalogDir := cfg.PlatformCatalogDir(platform.Name)
	if err := os.MkdirAll(catalogDir, 0o755); err != nil {
		return PlatformSummary{}, fmt.Errorf("create catalog directory: %w", err)
	}

	lock := newPlatformLock(catalogDir)
	if err := lock.acquire(); err != nil {
		return PlatformSummary{}, err
	}
	defer lock.release()

	romRoot, err := platform.ResolveRomPath(cfg.Paths.RomRoot)
	if err != nil {
		return PlatformSummary{}, fmt.Errorf("resolve rom path: %w", err)
	}
	scanResult, err := scanner.Scan(log, platform, romRoot)
	if err != nil {
		return PlatformSummary{}, fmt.Errorf("scan platform: %w", err)
	}
	for _, conflict := range scanResult.Conflicts {
		log.Warn("scan conflict", logging.String(logging.FieldBasename, conflict.Basename), logging.String("reason", conflict.Reason))
	}

	paths := catalog.DefaultPaths(cfg.Paths.CatalogRoot, platform.Name)
	store, err := catalog.Open(log, platform.Name, paths)
	if err != nil {
		return PlatformSummary{}, fmt.Errorf("open catalog: %w", err)
	}

	var survivingEntries map[string]catalog.CatalogEntry
	var survivingProvenance map[string]catalog.Provenance
	var cleanupMoved int
	if cfg.Runtime.DryRun {
		survivingEntries = store.Entries()
		survivingProvenance = make(map[string]catalog.Provenance, len(survivingEntries))
		for basename := range survivingEntries {
			if p, ok := store.LookupProvenance(basename); ok {
				survivingProvenance[basename] = p
			}
		}
	} else {
		survivingEntries, survivingProvenance, cleanupMoved, err = applyIntegrityCleanup(log, cfg, deps.Prompter, platform.Name, store, scanResult)
		if err != nil {
			return PlatformSummary{}, err
		}
	}

	cacheStore, err := cache.Open(cache.DBPath(cfg.Paths.CatalogRoot, platform.Name))
	if err != nil {
		return PlatformSummary{}, fmt.Errorf("open response cache: %w", err)
	}
	defer cacheStore.Close()

	client := provider.New(log, buildCredentials(cfg), provider.Options{
		BaseURL:           cfg.Provider.BaseURL,
		RequestTimeout:    time.Duration(cfg.API.RequestTimeoutSeconds) * time.Second,
		MaxRetries:        cfg.API.MaxRetries,
		InitialRetryDelay: time.Duration(cfg.API.InitialRetryDelaySec * float64(time.Second)),
		PreferredLanguage: firstOrDefault(cfg.Languages.Preferred, "en"),
	})

	var userInfo provider.UserInfo
	if userInfo, err = client.Authenticate(ctx); err != nil {
		return PlatformSummary{}, fmt.Errorf("authenticate with provider: %w", err)
	}
	deps.Quota.Lower(userInfo.MaxRequestsPerDay - userInfo.RequestsToday)

	effectiveWorkers := reconcileCap(cfg.Runtime.MaxWorkers, userInfo.MaxThreads, cfg.API.Override.MaxWorkers)
	effectiveRPM := reconcileCap(0, userInfo.MaxRequestsPerMin, cfg.API.Override.RequestsPerMinute)
	if effectiveWorkers < 1 {
		effectiveWorkers = 1
	}

	throttleManager := throttle.NewManager(log, throttle.RateLimit{Calls: effectiveRPM, Window: time.Minute}, true, effectiveWorkers)

	enabledTypes := enabledMediaTypeConfigs(cfg.Media.EnabledTypes)
	typeIndex := typeConfigIndex(enabledTypes)
	enabledTypeNames := make([]string, len(enabledTypes))
	for i, t := range enabledTypes {
		enabledTypeNames[i] = t.ProviderType
	}

	checkpointInterval := cfg.Scraping.CheckpointInterval
	if cfg.Runtime.DryRun {
		checkpointInterval = 0
	}
	cp := loadCheckpoint(catalogDir, platform.Name, checkpointInterval)
	if len(cp.data.ProcessedRoms) > 0 {
		log.Info("resuming from checkpoint left by an interrupted run",
			logging.Int("already_processed", len(cp.data.ProcessedRoms)))
	}

	queue := scheduler.NewQueue(itemMaxRetries(cfg))
	for _, rom := range scanResult.Entities {
		if cp.isProcessed(rom.DisplayBasename) {
			continue
		}
		item, err := buildWorkItem(cfg, rom, survivingEntries, survivingProvenance, enabledTypeNames, typeIndex, cfg.Paths.MediaRoot, platform.Name)
		if err != nil {
			log.Warn("skipping rom, identity hash failed", logging.String(logging.FieldBasename, rom.DisplayBasename), logging.Error(err))
			continue
		}
		queue.Add(item, scheduler.NORMAL)
	}
	queue.Close()

	pl := &pipeline{
		log:         log,
		cfg:         cfg,
		platform:    platform.Name,
		systemID:    parseSystemID(platform.ProviderID),
		client:      client,
		fetcher:     deps.Fetcher,
		throttle:    throttleManager,
		cache:       cacheStore,
		quota:       deps.Quota,
		prompter:    deps.Prompter,
		store:       store,
		typeIndex:   typeIndex,
		mediaRoot:   cfg.Paths.MediaRoot,
		maxRetries:  itemMaxRetries(cfg),
		mergePolicy: parseMergePolicy(cfg.Scraping.MergePolicy),
		dryRun:      cfg.Runtime.DryRun,
	}

	results := make(map[string]itemOutcome)
	var resultsMu sync.Mutex

	pool := &scheduler.Pool{
		Queue:   queue,
		Workers: effectiveWorkers,
		Log:     log,
		IsFatal: func(err error) bool {
			return provider.IsFatal(err) || errors.Is(err, ErrOperatorCancelled)
		},
		Process: func(ctx context.Context, item *scheduler.Item) error {
			wi := item.Payload.(*workItem)
			wi.retryCount = item.RetryCount
			outcome := pl.process(ctx, wi)
			if outcome.Err != nil {
				return outcome.Err
			}
			reason := ""
			if outcome.NotFound {
				reason = "not found by provider"
			}
			cp.recordProcessed(outcome.Basename, strings.ToLower(outcome.Action.String()), !outcome.NotFound, reason)
			resultsMu.Lock()
			results[outcome.Basename] = outcome
			resultsMu.Unlock()
			return nil
		},
	}

	runErr := pool.Run(ctx)

	cancelled := errors.Is(runErr, context.Canceled) || errors.Is(runErr, ErrOperatorCancelled)
	if runErr != nil && provider.IsFatal(runErr) {
		return PlatformSummary{}, runErr
	}

	finalEntries, finalProvenance, notFound := assembleFinalState(scanResult.Entities, survivingEntries, survivingProvenance, results)

	var mediaCleanupMoved int
	if !cfg.Runtime.DryRun {
		mediaCleanupMoved, err = cleanupDisabledMediaTypes(log, cfg, deps.Prompter, platform.Name, enabledTypeNames)
		if err != nil {
			log.Warn("media-type cleanup failed", logging.Error(err))
		}
	}

	if !cfg.Runtime.DryRun {
		if err := store.Commit(finalEntries, finalProvenance); err != nil {
			return PlatformSummary{}, fmt.Errorf("commit catalog: %w", err)
		}
	}

	summary := buildPlatformSummary(platform.Name, scanResult, results, notFound, queue.Failed(), cleanupMoved+mediaCleanupMoved)

	if !cfg.Runtime.DryRun {
		if err := WriteNotFoundList(cfg.Paths.CatalogRoot, platform.Name, notFound); err != nil {
			log.Warn("failed to write not-found list", logging.Error(err))
		}
		if summaryPath, err := WritePlatformSummary(cfg.Paths.CatalogRoot, summary); err != nil {
			log.Warn("failed to write platform summary", logging.Error(err))
		} else {
			log.Info("platform summary written", logging.String("path", summaryPath))
		}
	}

	if cfg.Runtime.DryRun {
		if cancelled {
			return summary, ErrOperatorCancelled
		}
		return summary, runErr
	}

	if runErr != nil && !cancelled {
		if err := cp.saveForce(); err != nil {
			log.Warn("failed to save checkpoint", logging.Error(err))
		}
		return summary, runErr
	}
	if cancelled {
		if err := cp.saveForce(); err != nil {
			log.Warn("failed to save checkpoint", logging.Error(err))
		}
		return summary, ErrOperatorCancelled
	}
	if err := cp.remove(); err != nil {
		log.Warn("failed to remove checkpoint after successful run", logging.Error(err))
	}
	return summary, nil
}

func applyIntegrityCleanup(log *slog.Logger, cfg *config.Config, prompter *ui.Prompter, platform string, store *catalog.Store, scanResult scanner.Result) (map[string]catalog.CatalogEntry, map[string]catalog.Provenance, int, error) {
	scanned := make(map[string]bool, len(scanResult.Entities))
	for _, rom := range scanResult.Entities {
		scanned[rom.DisplayBasename] = true
	}

	existingEntries := store.Entries()
	existingProvenance := make(map[string]catalog.Provenance, len(existingEntries))
	for basename := range existingEntries {
		if p, ok := store.LookupProvenance(basename); ok {
			existingProvenance[basename] = p
		}
	}

	integrity := catalog.CheckIntegrity(existingEntries, scanned)
	if integrity.Passed(cfg.Scraping.IntegrityThreshold) || len(integrity.MissingBasenames) == 0 {
		return existingEntries, existingProvenance, 0, nil
	}

	confirmed := false
	if prompter != nil {
		confirmed = prompter.ConfirmIntegrityCleanup(platform, len(integrity.MissingBasenames), integrity.TotalEntries)
	}
	if !confirmed {
		log.Warn("catalog integrity check failed, proceeding without cleanup",
			logging.Float64("ratio", integrity.Ratio), logging.Int("missing", len(integrity.MissingBasenames)))
		return existingEntries, existingProvenance, 0, nil
	}

	return catalog.Cleanup(log, platform, cfg.Paths.MediaRoot, existingEntries, existingProvenance, integrity.MissingBasenames)
}

func buildWorkItem(cfg *config.Config, rom scanner.RomEntity, existing map[string]catalog.CatalogEntry, provenance map[string]catalog.Provenance, enabledTypes []string, typeIndex map[string]media.TypeConfig, mediaRoot, platform string) (*workItem, error) {
	algorithm, err := identity.ParseAlgorithm(cfg.Runtime.HashAlgorithm)
	if err != nil {
		return nil, err
	}
	ident, err := identity.Compute(rom.PrimaryFile, algorithm, cfg.Runtime.HashSizeCapBytes)
	if err != nil {
		return nil, err
	}

	entry, hasEntry := existing[rom.DisplayBasename]
	prov, hasProv := provenance[rom.DisplayBasename]
	hashChanged := !hasProv || prov.IdentityHash != ident.Hash || ident.Hash == ""

	present := presentMediaTypesOnDisk(mediaRoot, platform, rom.DisplayBasename, enabledTypes, typeIndex)

	state := evaluator.CatalogState{
		Exists:            hasEntry,
		FieldsComplete:    hasEntry && entry.FieldsComplete(),
		HashChanged:       hashChanged,
		PresentMediaTypes: present,
	}
	policy := evaluator.Policy{UpdatePolicy: cfg.Scraping.UpdatePolicy, SkipScraped: cfg.Scraping.SkipScraped}
	decision := evaluator.Evaluate(policy, enabledTypes, state)

	return &workItem{Rom: rom, Decision: decision, IdentityHash: ident.Hash}, nil
}

// assembleFinalState walks the scan results in scan order, preferring a
// fresh outcome from this run and falling back to the untouched existing
// record otherwise (not processed: pool was cancelled, the checkpoint
// had already settled the item, its identity hash failed, or it failed
// in the pool).
func assembleFinalState(roms []scanner.RomEntity, existing map[string]catalog.CatalogEntry, provenance map[string]catalog.Provenance, results map[string]itemOutcome) ([]catalog.CatalogEntry, map[string]catalog.Provenance, []string) {
	entries := make([]catalog.CatalogEntry, 0, len(roms))
	finalProvenance := make(map[string]catalog.Provenance, len(roms))
	var notFound []string

	for _, rom := range roms {
		basename := rom.DisplayBasename
		if outcome, ok := results[basename]; ok {
			if outcome.NotFound {
				notFound = append(notFound, basename)
			}
			if outcome.Entry.DisplayBasename != "" {
				entries = append(entries, outcome.Entry)
			}
			if outcome.Provenance.IdentityHash != "" || outcome.Provenance.RecordID != "" {
				finalProvenance[basename] = outcome.Provenance
			} else if p, ok := provenance[basename]; ok {
				finalProvenance[basename] = p
			}
			continue
		}
		if entry, ok := existing[basename]; ok {
			entries = append(entries, entry)
			if p, ok := provenance[basename]; ok {
				finalProvenance[basename] = p
			}
		}
	}
	sort.Strings(notFound)
	return entries, finalProvenance, notFound
}

func cleanupDisabledMediaTypes(log *slog.Logger, cfg *config.Config, prompter *ui.Prompter, platform string, enabledTypes []string) (int, error) {
	enabled := make(map[string]bool, len(enabledTypes))
	for _, t := range enabledTypes {
		enabled[t] = true
	}

	platformMediaDir := cfg.PlatformMediaDir(platform)
	moved := 0
	for _, typeCfg := range media.DefaultTypes {
		if enabled[typeCfg.ProviderType] {
			continue
		}
		dir := filepath.Join(platformMediaDir, typeCfg.DirName)
		files, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		var names []string
		for _, f := range files {
			if !f.IsDir() {
				names = append(names, f.Name())
			}
		}
		if len(names) == 0 {
			continue
		}

		confirmed := false
		if prompter != nil {
			confirmed = prompter.ConfirmMediaTypeCleanup(platform, typeCfg.ProviderType, len(names))
		}
		if !confirmed {
			continue
		}
		for _, name := range names {
			src := filepath.Join(dir, name)
			dst := media.CleanupPath(cfg.Paths.MediaRoot, platform, typeCfg.DirName, name)
			if err := media.MoveToCleanup(src, dst); err != nil {
				log.Warn("media-type cleanup move failed", logging.String("file", src), logging.Error(err))
				continue
			}
			moved++
		}
	}
	return moved, nil
}

func buildCredentials(cfg *config.Config) provider.Credentials {
	return provider.Credentials{
		DevID:        cfg.Provider.DeveloperID,
		DevPassword:  cfg.Provider.DeveloperKey,
		SoftwareName: "curateur",
		UserID:       cfg.Provider.Username,
		UserPassword: cfg.Provider.Password,
	}
}

func parseMergePolicy(value string) merge.Policy {
	if value == "provider_wins" {
		return merge.ProviderWins
	}
	return merge.PreserveUserEdits
}

func enabledMediaTypeConfigs(names []string) []media.TypeConfig {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var out []media.TypeConfig
	for _, t := range media.DefaultTypes {
		if wanted[t.ProviderType] {
			out = append(out, t)
		}
	}
	return out
}

func itemMaxRetries(cfg *config.Config) int {
	if cfg.API.MaxRetries > 0 {
		return cfg.API.MaxRetries
	}
	return 3
}

func reconcileCap(configured, providerReported, override int) int {
	effective := providerReported
	if configured > 0 && (effective <= 0 || configured < effective) {
		effective = configured
	}
	if override > 0 && (effective <= 0 || override < effective) {
		effective = override
	}
	return effective
}

func firstOrDefault(values []string, fallback string) string {
	if len(values) > 0 && values[0] != "" {
		return values[0]
	}
	return fallback
}
