package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testCreds() Credentials {
	return Credentials{DevID: "dev", DevPassword: "devpw", SoftwareName: "curateur", UserID: "user", UserPassword: "userpw"}
}

func TestClientMatchByIdentitySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jeuInfos.php" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(sampleGameInfoResponse))
	}))
	defer server.Close()

	c := New(nil, testCreds(), Options{BaseURL: server.URL, MaxRetries: 1})
	info, err := c.MatchByIdentity(context.Background(), 3, "World Explorer (World).zip", 1024, "DEADBEEF")
	if err != nil {
		t.Fatalf("MatchByIdentity: %v", err)
	}
	if info.ID != "1234" {
		t.Fatalf("info.ID = %q", info.ID)
	}
}

func TestClientNotFoundStatusReturnsNotFoundError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := New(nil, testCreds(), Options{BaseURL: server.URL, MaxRetries: 1})
	_, err := c.MatchByIdentity(context.Background(), 3, "Missing.zip", 10, "")
	if !IsNotFound(err) {
		t.Fatalf("expected IsNotFound for HTTP 404, got %v", err)
	}
}

func TestClientFatalStatusIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := New(nil, testCreds(), Options{BaseURL: server.URL, MaxRetries: 3, InitialRetryDelay: time.Millisecond})
	_, err := c.MatchByIdentity(context.Background(), 3, "x.zip", 10, "")
	if !IsFatal(err) {
		t.Fatalf("expected IsFatal for HTTP 403, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("fatal errors must not be retried, got %d calls", calls)
	}
}

func TestClientRetriesRetryableStatusThenSucceeds(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(sampleGameInfoResponse))
	}))
	defer server.Close()

	c := New(nil, testCreds(), Options{BaseURL: server.URL, MaxRetries: 5, InitialRetryDelay: time.Millisecond})
	info, err := c.MatchByIdentity(context.Background(), 3, "x.zip", 10, "")
	if err != nil {
		t.Fatalf("MatchByIdentity: %v", err)
	}
	if info.ID != "1234" {
		t.Fatalf("info.ID = %q", info.ID)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("expected 3 calls (2 retries), got %d", calls)
	}
}

func TestClientRetriesExhaustedReturnsLastError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := New(nil, testCreds(), Options{BaseURL: server.URL, MaxRetries: 2, InitialRetryDelay: time.Millisecond})
	_, err := c.MatchByIdentity(context.Background(), 3, "x.zip", 10, "")
	if !IsRetryable(err) {
		t.Fatalf("expected a retryable error after exhausting retries, got %v", err)
	}
}

func TestClientAuthenticateParsesUserInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ssuserInfos.php" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(sampleUserInfoResponse))
	}))
	defer server.Close()

	c := New(nil, testCreds(), Options{BaseURL: server.URL})
	info, err := c.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if info.MaxThreads != 4 {
		t.Fatalf("MaxThreads = %d, want 4", info.MaxThreads)
	}
}

func TestClientSearchByNameReturnsCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jeuRecherche.php" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(sampleSearchResponse))
	}))
	defer server.Close()

	c := New(nil, testCreds(), Options{BaseURL: server.URL})
	results, err := c.SearchByName(context.Background(), 3, "World Explorer")
	if err != nil {
		t.Fatalf("SearchByName: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
}
