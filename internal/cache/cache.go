package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Get looks up key and returns its payload. A missing or expired entry is
// reported as ok=false, not an error; an expired entry is opportunistically
// deleted.
func (s *Store) Get(ctx context.Context, key string) (payload []byte, ok bool, err error) {
	ctx = ensureContext(ctx)
	var (
		expiresAtRaw string
	)
	row := s.db.QueryRowContext(ctx, `SELECT payload, expires_at FROM cache_entries WHERE key = ?`, key)
	if err := row.Scan(&payload, &expiresAtRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	expiresAt, err := time.Parse(time.RFC3339Nano, expiresAtRaw)
	if err != nil {
		return nil, false, fmt.Errorf("parse cache expiry: %w", err)
	}
	if time.Now().UTC().After(expiresAt) {
		_, _ = s.execWithRetry(ctx, `DELETE FROM cache_entries WHERE key = ?`, key)
		return nil, false, nil
	}
	return payload, true, nil
}

// Put writes or replaces the cached payload for key with the given platform
// tag and TTL (DefaultTTL if zero).
func (s *Store) Put(ctx context.Context, key, platform string, payload []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	now := time.Now().UTC()
	_, err := s.execWithRetry(ctx,
		`INSERT INTO cache_entries (key, platform, payload, cached_at, expires_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET
             platform = excluded.platform,
             payload = excluded.payload,
             cached_at = excluded.cached_at,
             expires_at = excluded.expires_at`,
		key, platform, payload,
		now.Format(time.RFC3339Nano),
		now.Add(ttl).Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Clear removes every entry, regardless of platform or expiry. This is the
// wholesale invalidation exposed by the operator's "cache clear" command.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM cache_entries`)
	if err != nil {
		return 0, fmt.Errorf("cache clear: %w", err)
	}
	return res.RowsAffected()
}

// ClearPlatform removes only entries tagged with platform.
func (s *Store) ClearPlatform(ctx context.Context, platform string) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM cache_entries WHERE platform = ?`, platform)
	if err != nil {
		return 0, fmt.Errorf("cache clear platform: %w", err)
	}
	return res.RowsAffected()
}

// PurgeExpired deletes entries whose TTL has already elapsed, for periodic
// maintenance outside the read path.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM cache_entries WHERE expires_at < ?`, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("cache purge expired: %w", err)
	}
	return res.RowsAffected()
}

// Stats summarizes the cache for a run's diagnostic output.
type Stats struct {
	TotalEntries   int
	ExpiredEntries int
}

// Stats reports the current entry counts.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	var stats Stats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM cache_entries`).Scan(&stats.TotalEntries); err != nil {
		return Stats{}, fmt.Errorf("cache stats: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM cache_entries WHERE expires_at < ?`,
		time.Now().UTC().Format(time.RFC3339Nano)).Scan(&stats.ExpiredEntries); err != nil {
		return Stats{}, fmt.Errorf("cache stats: %w", err)
	}
	return stats, nil
}
