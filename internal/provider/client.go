package provider

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.screenscraper.fr/api2"

// Options configures a Client beyond its Credentials.
type Options struct {
	BaseURL            string // defaults to the production API if empty
	RequestTimeout     time.Duration
	MaxRetries         int
	InitialRetryDelay  time.Duration
	PreferredLanguage  string // for genre/description selection, defaults to "en"
}

// Client talks to the ScreenScraper HTTP API over a pooled transport.
// It performs its own bounded retry of RetryableError responses (server
// overload, thread limit) using exponential backoff; FatalError and
// NotFoundError are never retried here — the caller (the scheduler, C12)
// decides what to do with those.
type Client struct {
	log   *slog.Logger
	http  *http.Client
	creds Credentials
	opts  Options
}

// New constructs a Client. A nil logger is allowed; the client then logs
// nothing.
func New(log *slog.Logger, creds Credentials, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.InitialRetryDelay <= 0 {
		opts.InitialRetryDelay = time.Second
	}
	if opts.PreferredLanguage == "" {
		opts.PreferredLanguage = "en"
	}
	return &Client{
		log:   log,
		http:  &http.Client{Timeout: opts.RequestTimeout},
		creds: creds,
		opts:  opts,
	}
}

// Authenticate calls ssuserInfos.php to validate credentials and learn
// this account's rate limits and quota usage.
func (c *Client) Authenticate(ctx context.Context) (UserInfo, error) {
	body, err := c.doWithRetry(ctx, "ssuserInfos.php", c.creds.queryValues())
	if err != nil {
		return UserInfo{}, err
	}
	return parseUserInfoResponse(body)
}

// MatchByIdentity queries jeuInfos.php for an exact content-hash match.
// crc may be empty; ScreenScraper still attempts a name+size match in
// that case, which is the documented fallback behavior.
func (c *Client) MatchByIdentity(ctx context.Context, systemID int, romFilename string, romSize int64, crc string) (GameInfo, error) {
	v := c.creds.queryValues()
	v.Set("systemeid", strconv.Itoa(systemID))
	v.Set("romnom", romFilename)
	v.Set("romtaille", strconv.FormatInt(romSize, 10))
	v.Set("romtype", "rom")
	if crc != "" {
		v.Set("crc", crc)
	}

	body, err := c.doWithRetry(ctx, "jeuInfos.php", v)
	if err != nil {
		return GameInfo{}, err
	}
	return parseGameInfoResponse(body, c.opts.PreferredLanguage)
}

// SearchByName queries jeuRecherche.php by title, for the name-search
// fallback when identity hashing found nothing or the hash lookup
// reported not-found.
func (c *Client) SearchByName(ctx context.Context, systemID int, name string) ([]GameInfo, error) {
	v := c.creds.queryValues()
	v.Set("systemeid", strconv.Itoa(systemID))
	v.Set("recherche", name)

	body, err := c.doWithRetry(ctx, "jeuRecherche.php", v)
	if err != nil {
		return nil, err
	}
	return parseSearchResponse(body, c.opts.PreferredLanguage)
}

// doWithRetry performs one GET, retrying RetryableError responses and
// transport failures with exponential backoff, up to MaxRetries. Fatal
// and not-found results return immediately without retry.
func (c *Client) doWithRetry(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	delay := c.opts.InitialRetryDelay
	var lastErr error

	for attempt := 1; attempt <= c.opts.MaxRetries; attempt++ {
		body, err := c.do(ctx, endpoint, params)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return nil, err
		}
		if attempt == c.opts.MaxRetries {
			break
		}
		if c.log != nil {
			c.log.Warn("retrying provider request",
				slog.String("endpoint", endpoint),
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay),
				slog.Any("error", err),
			)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/%s?%s", c.opts.BaseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/xml")

	if c.log != nil && c.log.Enabled(ctx, slog.LevelDebug) {
		c.log.Debug("provider request",
			slog.String("endpoint", endpoint),
			slog.String("url", fmt.Sprintf("%s/%s?%s", c.opts.BaseURL, endpoint, redact(params).Encode())),
		)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, &TransportError{Op: endpoint, Err: fmt.Errorf("read response body: %w", err)}
	}

	if classification := classifyStatus(resp.StatusCode); classification != nil {
		return nil, classification
	}
	return body, nil
}
