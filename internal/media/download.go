package media

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"curateur/internal/provider"
)

// Result is a successfully downloaded and validated asset.
type Result struct {
	Path        string
	ContentHash string // hex sha256 of the downloaded bytes
	SizeBytes   int64
}

// Fetcher downloads media assets over a shared pooled HTTP transport,
// retrying transport and server-overload failures with exponential
// backoff the same way provider.Client retries API calls.
type Fetcher struct {
	log               *slog.Logger
	http              *http.Client
	maxRetries        int
	initialRetryDelay time.Duration
}

// NewFetcher constructs a Fetcher. A nil logger disables logging.
func NewFetcher(log *slog.Logger, httpClient *http.Client, maxRetries int, initialRetryDelay time.Duration) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if initialRetryDelay <= 0 {
		initialRetryDelay = time.Second
	}
	return &Fetcher{log: log, http: httpClient, maxRetries: maxRetries, initialRetryDelay: initialRetryDelay}
}

// Fetch downloads item's URL to destPath, retrying retryable failures.
// On success destPath holds the validated asset; on any other failure
// destPath is untouched and the caller should record the error.
func (f *Fetcher) Fetch(ctx context.Context, item provider.MediaItem, destPath string, cfg TypeConfig) (Result, error) {
	delay := f.initialRetryDelay
	var lastErr error

	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		result, err := f.fetchOnce(ctx, item.URL, destPath, cfg)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !provider.IsRetryable(err) {
			return Result{}, err
		}
		if attempt == f.maxRetries {
			break
		}
		if f.log != nil {
			f.log.Warn("retrying media download",
				slog.String("type", item.Type),
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay),
				slog.Any("error", err),
			)
		}
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return Result{}, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, url, destPath string, cfg TypeConfig) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("build media request: %w", err)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return Result{}, &provider.TransportError{Op: "media fetch", Err: err}
	}
	defer resp.Body.Close()

	if err := classifyMediaStatus(resp.StatusCode); err != nil {
		return Result{}, err
	}

	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create media directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "media-*.tmp")
	if err != nil {
		return Result{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { os.Remove(tmpName) }

	hasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(tmp, hasher), resp.Body)
	tmp.Close()
	if err != nil {
		cleanup()
		return Result{}, &provider.TransportError{Op: "media fetch", Err: fmt.Errorf("stream response body: %w", err)}
	}

	if written < cfg.MinSizeBytes {
		cleanup()
		return Result{}, fmt.Errorf("media asset below minimum size: got %d bytes, want >= %d", written, cfg.MinSizeBytes)
	}
	if cfg.IsImage {
		if err := validateImageHead(tmpName); err != nil {
			cleanup()
			return Result{}, err
		}
	}

	if err := os.Rename(tmpName, destPath); err != nil {
		cleanup()
		return Result{}, fmt.Errorf("rename media into place: %w", err)
	}

	return Result{Path: destPath, ContentHash: hex.EncodeToString(hasher.Sum(nil)), SizeBytes: written}, nil
}

// validateImageHead decodes just the header to confirm the downloaded
// bytes are actually a recognizable image format, catching HTML error
// pages or truncated downloads that slipped past a 200 status.
func validateImageHead(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reopen for validation: %w", err)
	}
	defer f.Close()
	if _, _, err := image.DecodeConfig(f); err != nil {
		return fmt.Errorf("validate image format: %w", err)
	}
	return nil
}

// classifyMediaStatus maps a media CDN's HTTP status to retryable vs.
// permanent, reusing provider's error taxonomy: 429 and every 5xx status
// are retryable, any other non-2xx status is not.
func classifyMediaStatus(statusCode int) error {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == 429 || statusCode == 503:
		return &provider.RetryableError{StatusCode: statusCode, Message: http.StatusText(statusCode)}
	case statusCode >= 500:
		return &provider.RetryableError{StatusCode: statusCode, Message: http.StatusText(statusCode)}
	default:
		return fmt.Errorf("media fetch failed with status %d", statusCode)
	}
}
