package orchestrator

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"curateur/internal/cache"
	"curateur/internal/catalog"
	"curateur/internal/config"
	"curateur/internal/evaluator"
	"curateur/internal/logging"
	"curateur/internal/media"
	"curateur/internal/merge"
	"curateur/internal/provider"
	"curateur/internal/scanner"
	"curateur/internal/throttle"
)

type fakeProviderClient struct {
	matchGame provider.GameInfo
	matchErr  error
	searchOut []provider.GameInfo
	searchErr error
}

func (f *fakeProviderClient) MatchByIdentity(ctx context.Context, systemID int, romFilename string, romSize int64, crc string) (provider.GameInfo, error) {
	return f.matchGame, f.matchErr
}

func (f *fakeProviderClient) SearchByName(ctx context.Context, systemID int, name string) ([]provider.GameInfo, error) {
	return f.searchOut, f.searchErr
}

type fakeMediaFetcher struct {
	result media.Result
	err    error
}

func (f *fakeMediaFetcher) Fetch(ctx context.Context, item provider.MediaItem, destPath string, cfg media.TypeConfig) (media.Result, error) {
	if f.err != nil {
		return media.Result{}, f.err
	}
	r := f.result
	r.Path = destPath
	return r, nil
}

func newTestPipeline(t *testing.T, client ProviderClient, fetcher MediaFetcher) (*pipeline, *catalog.Store) {
	t.Helper()
	dir := t.TempDir()

	log := logging.NewNop()
	store, err := catalog.Open(log, "nes", catalog.DefaultPaths(dir, "nes"))
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	cacheStore, err := cache.Open(filepath.Join(dir, "cache.sqlite"))
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	t.Cleanup(func() { cacheStore.Close() })

	cfg := config.Default()
	cfg.Regions.Preferred = []string{"us", "wor"}
	cfg.Languages.Preferred = []string{"en"}
	cfg.Runtime.HashAlgorithm = "CRC32"
	cfg.Search.EnableFallback = true
	cfg.Search.Threshold = 0.75
	cfg.Search.MaxResults = 5

	return &pipeline{
		log:         log,
		cfg:         &cfg,
		platform:    "nes",
		systemID:    3,
		client:      client,
		fetcher:     fetcher,
		throttle:    throttle.NewManager(log, throttle.RateLimit{Calls: 0}, false, 4),
		cache:       cacheStore,
		quota:       NewDailyQuota(0),
		prompter:    nil,
		store:       store,
		typeIndex:   map[string]media.TypeConfig{"box-2D": {ProviderType: "box-2D", DirName: "box2dfront"}},
		mediaRoot:   filepath.Join(dir, "media"),
		maxRetries:  3,
		mergePolicy: merge.PreserveUserEdits,
	}, store
}

func skipItem(rom scanner.RomEntity) *workItem {
	return &workItem{Rom: rom, Decision: evaluator.Decision{Action: evaluator.Skip, RequiresHTTP: false}}
}

func TestPipelineProcessSkipReturnsExisting(t *testing.T) {
	pl, _ := newTestPipeline(t, &fakeProviderClient{}, &fakeMediaFetcher{})
	rom := scanner.RomEntity{DisplayBasename: "mario.nes", PrimaryFile: "mario.nes"}

	outcome := pl.process(context.Background(), skipItem(rom))

	if outcome.Err != nil {
		t.Fatalf("unexpected error: %v", outcome.Err)
	}
	if outcome.Action != evaluator.Skip {
		t.Fatalf("Action = %v, want Skip", outcome.Action)
	}
	if outcome.Basename != "mario.nes" {
		t.Fatalf("Basename = %q, want mario.nes", outcome.Basename)
	}
}

func TestPipelineProcessFullScrapeMergesAndFetchesMedia(t *testing.T) {
	client := &fakeProviderClient{
		matchGame: provider.GameInfo{
			ID:    "42",
			Names: map[string]string{"us": "Super Mario Bros."},
			Media: []provider.MediaItem{{Type: "box-2D", URL: "http://example.test/box.png", Format: "png"}},
		},
	}
	fetcher := &fakeMediaFetcher{result: media.Result{ContentHash: "abc123"}}
	pl, _ := newTestPipeline(t, client, fetcher)

	rom := scanner.RomEntity{DisplayBasename: "mario.nes", PrimaryFile: "mario.nes", SizeBytes: 1024}
	item := &workItem{
		Rom:          rom,
		IdentityHash: "DEADBEEF",
		Decision:     evaluator.Decision{Action: evaluator.FullScrape, MediaToFetch: []string{"box-2D"}, RequiresHTTP: true},
	}

	outcome := pl.process(context.Background(), item)

	if outcome.Err != nil {
		t.Fatalf("unexpected error: %v", outcome.Err)
	}
	if outcome.NotFound {
		t.Fatalf("expected a match, got NotFound")
	}
	if outcome.Entry.Name != "Super Mario Bros." {
		t.Fatalf("Entry.Name = %q, want Super Mario Bros.", outcome.Entry.Name)
	}
	if outcome.Entry.Path != "./mario.nes" {
		t.Fatalf("Entry.Path = %q, want ./mario.nes", outcome.Entry.Path)
	}
	if outcome.MediaFetched != 1 {
		t.Fatalf("MediaFetched = %d, want 1", outcome.MediaFetched)
	}
	if outcome.Provenance.RecordID != "42" {
		t.Fatalf("Provenance.RecordID = %q, want 42", outcome.Provenance.RecordID)
	}
	if outcome.Provenance.MediaHashes["box-2D"] != "abc123" {
		t.Fatalf("Provenance.MediaHashes[box-2D] = %q, want abc123", outcome.Provenance.MediaHashes["box-2D"])
	}
}

func TestPipelineProcessNotFoundNoFallback(t *testing.T) {
	client := &fakeProviderClient{matchErr: &provider.NotFoundError{StatusCode: 404}}
	pl, _ := newTestPipeline(t, client, &fakeMediaFetcher{})
	pl.cfg.Search.EnableFallback = false

	rom := scanner.RomEntity{DisplayBasename: "unknown.nes", PrimaryFile: "unknown.nes"}
	item := &workItem{Rom: rom, IdentityHash: "0", Decision: evaluator.Decision{Action: evaluator.FullScrape, RequiresHTTP: true}}

	outcome := pl.process(context.Background(), item)

	if outcome.Err != nil {
		t.Fatalf("unexpected error: %v", outcome.Err)
	}
	if !outcome.NotFound {
		t.Fatalf("expected NotFound, got a match")
	}
}

func TestPipelineProcessFatalErrorPropagates(t *testing.T) {
	client := &fakeProviderClient{matchErr: &provider.FatalError{StatusCode: 403}}
	pl, _ := newTestPipeline(t, client, &fakeMediaFetcher{})

	rom := scanner.RomEntity{DisplayBasename: "any.nes", PrimaryFile: "any.nes"}
	item := &workItem{Rom: rom, IdentityHash: "0", Decision: evaluator.Decision{Action: evaluator.FullScrape, RequiresHTTP: true}}

	outcome := pl.process(context.Background(), item)

	if outcome.Err == nil {
		t.Fatalf("expected a fatal error to propagate")
	}
	if !provider.IsFatal(outcome.Err) {
		t.Fatalf("expected IsFatal(err) to be true, got %v", outcome.Err)
	}
}

func TestPipelineProcessTransportErrorDemotesAfterRetries(t *testing.T) {
	client := &fakeProviderClient{matchErr: &provider.TransportError{Err: errors.New("connection reset")}}
	pl, _ := newTestPipeline(t, client, &fakeMediaFetcher{})
	pl.cfg.Search.EnableFallback = false
	pl.maxRetries = 3

	rom := scanner.RomEntity{DisplayBasename: "flaky.nes", PrimaryFile: "flaky.nes"}
	item := &workItem{
		Rom: rom, IdentityHash: "0",
		Decision:   evaluator.Decision{Action: evaluator.FullScrape, RequiresHTTP: true},
		retryCount: 2, // maxRetries - 1: exhausted
	}

	outcome := pl.process(context.Background(), item)

	if outcome.Err != nil {
		t.Fatalf("expected transport error to be demoted, got error: %v", outcome.Err)
	}
	if !outcome.NotFound {
		t.Fatalf("expected NotFound after exhausting retries on a transport error")
	}
}

func TestPipelineProcessTransportErrorNotYetExhausted(t *testing.T) {
	client := &fakeProviderClient{matchErr: &provider.TransportError{Err: errors.New("connection reset")}}
	pl, _ := newTestPipeline(t, client, &fakeMediaFetcher{})
	pl.maxRetries = 3

	rom := scanner.RomEntity{DisplayBasename: "flaky.nes", PrimaryFile: "flaky.nes"}
	item := &workItem{
		Rom: rom, IdentityHash: "0",
		Decision:   evaluator.Decision{Action: evaluator.FullScrape, RequiresHTTP: true},
		retryCount: 0,
	}

	outcome := pl.process(context.Background(), item)

	if outcome.Err == nil {
		t.Fatalf("expected the transport error to still propagate before retries are exhausted")
	}
}

func TestPipelineProcessMD5DoesNotSendCRC(t *testing.T) {
	var seenCRC string
	client := &recordingClient{onMatch: func(crc string) { seenCRC = crc }}
	pl, _ := newTestPipeline(t, client, &fakeMediaFetcher{})
	pl.cfg.Runtime.HashAlgorithm = "MD5"

	rom := scanner.RomEntity{DisplayBasename: "game.nes", PrimaryFile: "game.nes"}
	item := &workItem{Rom: rom, IdentityHash: "0123456789abcdef", Decision: evaluator.Decision{Action: evaluator.FullScrape, RequiresHTTP: true}}

	pl.process(context.Background(), item)

	if seenCRC != "" {
		t.Fatalf("crc = %q, want empty for a non-CRC32 hash algorithm", seenCRC)
	}
}

type recordingClient struct {
	onMatch func(crc string)
}

func (r *recordingClient) MatchByIdentity(ctx context.Context, systemID int, romFilename string, romSize int64, crc string) (provider.GameInfo, error) {
	r.onMatch(crc)
	return provider.GameInfo{ID: "1"}, nil
}

func (r *recordingClient) SearchByName(ctx context.Context, systemID int, name string) ([]provider.GameInfo, error) {
	return nil, nil
}
