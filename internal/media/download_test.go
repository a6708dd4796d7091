package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"curateur/internal/provider"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestFetchDownloadsValidatesAndRenamesIntoPlace(t *testing.T) {
	body := tinyPNG(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer server.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "box2dfront", "Super Metroid.png")

	f := NewFetcher(nil, server.Client(), 1, time.Millisecond)
	cfg := TypeConfig{ProviderType: "box-2D", MinSizeBytes: 16, IsImage: true}
	result, err := f.Fetch(context.Background(), provider.MediaItem{Type: "box-2D", URL: server.URL}, dest, cfg)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.SizeBytes != int64(len(body)) {
		t.Fatalf("SizeBytes = %d, want %d", result.SizeBytes, len(body))
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("expected asset at %s: %v", dest, err)
	}
}

func TestFetchRejectsUndersizedAsset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer server.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "asset.png")
	f := NewFetcher(nil, server.Client(), 1, time.Millisecond)
	cfg := TypeConfig{ProviderType: "box-2D", MinSizeBytes: 256, IsImage: true}

	_, err := f.Fetch(context.Background(), provider.MediaItem{URL: server.URL}, dest, cfg)
	if err == nil {
		t.Fatal("expected an error for an undersized asset")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatalf("undersized asset should not be left on disk")
	}
}

func TestFetchRejectsUndecodableImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not an image, but long enough to pass the size floor</html>"))
	}))
	defer server.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "asset.png")
	f := NewFetcher(nil, server.Client(), 1, time.Millisecond)
	cfg := TypeConfig{ProviderType: "box-2D", MinSizeBytes: 16, IsImage: true}

	_, err := f.Fetch(context.Background(), provider.MediaItem{URL: server.URL}, dest, cfg)
	if err == nil {
		t.Fatal("expected an error for a non-image body")
	}
}

func TestFetchRetriesOnServerOverload(t *testing.T) {
	var calls int32
	body := tinyPNG(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write(body)
	}))
	defer server.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "asset.png")
	f := NewFetcher(nil, server.Client(), 3, time.Millisecond)
	cfg := TypeConfig{ProviderType: "box-2D", MinSizeBytes: 16, IsImage: true}

	result, err := f.Fetch(context.Background(), provider.MediaItem{URL: server.URL}, dest, cfg)
	if err != nil {
		t.Fatalf("Fetch after transient 503: %v", err)
	}
	if result.Path != dest {
		t.Fatalf("Path = %q, want %q", result.Path, dest)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("calls = %d, want 2 (one failure, one success)", calls)
	}
}

func TestFetchDoesNotRetryPermanentStatus(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "asset.png")
	f := NewFetcher(nil, server.Client(), 3, time.Millisecond)
	cfg := TypeConfig{ProviderType: "box-2D", MinSizeBytes: 16, IsImage: true}

	_, err := f.Fetch(context.Background(), provider.MediaItem{URL: server.URL}, dest, cfg)
	if err == nil {
		t.Fatal("expected an error for a 404")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("calls = %d, want 1 (404 must not be retried)", calls)
	}
}
