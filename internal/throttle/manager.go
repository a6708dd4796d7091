package throttle

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"
)

// RateLimit bounds the number of calls an endpoint may make within a
// trailing window.
type RateLimit struct {
	Calls  int
	Window time.Duration
}

// maxBackoffMultiplier caps the exponential penalty applied to consecutive
// 429s: 2^(c-1), capped at 8x from the fourth consecutive hit onward.
const maxBackoffMultiplier = 8.0

// backoffMultiplierFor returns 2^(consecutive429-1), capped at
// maxBackoffMultiplier. consecutive429 is always >= 1 when called.
func backoffMultiplierFor(consecutive429 int) float64 {
	m := math.Pow(2, float64(consecutive429-1))
	if m > maxBackoffMultiplier {
		return maxBackoffMultiplier
	}
	return m
}

// Stats summarizes an endpoint's current throttle state, for run summaries
// and diagnostics.
type Stats struct {
	RecentCalls       int
	BackoffRemaining  time.Duration
	BackoffMultiplier float64
	Consecutive429    int
}

type endpointState struct {
	mu                sync.Mutex
	history           []time.Time
	backoffUntil      time.Time
	consecutive429    int
	backoffMultiplier float64
}

// Manager enforces a sliding-window call budget per endpoint, escalates
// backoff on repeated 429s, and caps concurrent in-flight API requests and
// media downloads.
type Manager struct {
	log          *slog.Logger
	defaultLimit RateLimit
	adaptive     bool

	mu        sync.Mutex
	endpoints map[string]*endpointState

	apiSlots   chan struct{}
	mediaSlots chan struct{}

	throttleCB func(active bool)
}

// NewManager builds a Manager with the given default per-endpoint limit.
// maxConcurrent bounds simultaneous API requests; the media download pool is
// sized at 5x that, capped at 30, matching how much headroom image/video
// fetches tolerate compared to metadata calls.
func NewManager(log *slog.Logger, defaultLimit RateLimit, adaptive bool, maxConcurrent int) *Manager {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	mediaConcurrency := maxConcurrent * 5
	if mediaConcurrency > 30 {
		mediaConcurrency = 30
	}
	return &Manager{
		log:          log,
		defaultLimit: defaultLimit,
		adaptive:     adaptive,
		endpoints:    make(map[string]*endpointState),
		apiSlots:     make(chan struct{}, maxConcurrent),
		mediaSlots:   make(chan struct{}, mediaConcurrency),
	}
}

// SetThrottleCallback registers a callback invoked with true when a wait
// begins and false when it ends, so a UI layer can surface throttling
// without polling.
func (m *Manager) SetThrottleCallback(fn func(active bool)) {
	m.mu.Lock()
	m.throttleCB = fn
	m.mu.Unlock()
}

func (m *Manager) notify(active bool) {
	m.mu.Lock()
	cb := m.throttleCB
	m.mu.Unlock()
	if cb != nil {
		cb(active)
	}
}

func (m *Manager) state(endpoint string) *endpointState {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.endpoints[endpoint]
	if !ok {
		st = &endpointState{backoffMultiplier: 1}
		m.endpoints[endpoint] = st
	}
	return st
}

// WaitIfNeeded blocks until endpoint is clear to call: first any active
// backoff period, then the sliding window if it is already at capacity. It
// records the call before returning. The per-endpoint lock is held for the
// full duration, serializing concurrent callers against the same endpoint
// the way the window accounting requires.
func (m *Manager) WaitIfNeeded(ctx context.Context, endpoint string) (time.Duration, error) {
	st := m.state(endpoint)
	st.mu.Lock()
	defer st.mu.Unlock()

	now := time.Now()
	if !st.backoffUntil.IsZero() {
		if now.Before(st.backoffUntil) {
			wait := st.backoffUntil.Sub(now)
			if m.log != nil {
				m.log.Warn("rate limit backoff active", "endpoint", endpoint, "wait", wait)
			}
			m.notify(true)
			if err := SleepWithContext(ctx, wait); err != nil {
				return 0, err
			}
			m.notify(false)
			st.backoffUntil = time.Time{}
			st.history = append(st.history[:0], time.Now())
			return wait, nil
		}
		st.backoffUntil = time.Time{}
	}

	windowStart := now.Add(-m.defaultLimit.Window)
	i := 0
	for i < len(st.history) && st.history[i].Before(windowStart) {
		i++
	}
	st.history = st.history[i:]

	if len(st.history) >= m.defaultLimit.Calls && m.defaultLimit.Calls > 0 {
		oldest := st.history[0]
		wait := oldest.Add(m.defaultLimit.Window).Sub(now)
		if wait > 0 {
			if m.log != nil {
				m.log.Debug("rate limit throttle", "endpoint", endpoint, "wait", wait)
			}
			m.notify(true)
			if err := SleepWithContext(ctx, wait); err != nil {
				return 0, err
			}
			m.notify(false)
			st.history = append(st.history[1:], time.Now())
			return wait, nil
		}
	}

	st.history = append(st.history, time.Now())
	return 0, nil
}

// HandleRateLimit records a 429 response for endpoint and computes the
// backoff period, applying an exponential multiplier keyed to consecutive
// hits (2^(c-1), capped at 8x) plus +/-10% jitter to avoid a thundering-herd
// recovery. retryAfter is the server-provided Retry-After duration; zero or
// negative falls back to 60s. When the manager is adaptive, the call history
// for the endpoint is cleared so the window starts fresh once backoff ends.
func (m *Manager) HandleRateLimit(endpoint string, retryAfter time.Duration) {
	st := m.state(endpoint)
	st.mu.Lock()
	defer st.mu.Unlock()

	if retryAfter <= 0 {
		retryAfter = 60 * time.Second
	}

	st.consecutive429++
	base := backoffMultiplierFor(st.consecutive429)
	jitter := 0.9 + rand.Float64()*0.2
	multiplier := base * jitter
	st.backoffMultiplier = multiplier

	actual := time.Duration(float64(retryAfter) * multiplier)
	st.backoffUntil = time.Now().Add(actual)

	if m.log != nil {
		m.log.Warn("rate limit hit",
			"endpoint", endpoint,
			"backoff", actual,
			"base_multiplier", base,
			"jitter", jitter,
			"consecutive_429s", st.consecutive429,
		)
	}

	if m.adaptive {
		st.history = st.history[:0]
	}
}

// ResetBackoffMultiplier clears the consecutive-429 counter for endpoint
// after a successful call.
func (m *Manager) ResetBackoffMultiplier(endpoint string) {
	st := m.state(endpoint)
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.consecutive429 > 0 {
		if m.log != nil {
			m.log.Info("rate limit backoff reset", "endpoint", endpoint, "previous_multiplier", st.backoffMultiplier)
		}
		st.consecutive429 = 0
		st.backoffMultiplier = 1
	}
}

// Stats reports the current throttle state for endpoint.
func (m *Manager) Stats(endpoint string) Stats {
	st := m.state(endpoint)
	st.mu.Lock()
	defer st.mu.Unlock()
	var remaining time.Duration
	if !st.backoffUntil.IsZero() {
		if r := time.Until(st.backoffUntil); r > 0 {
			remaining = r
		}
	}
	return Stats{
		RecentCalls:       len(st.history),
		BackoffRemaining:  remaining,
		BackoffMultiplier: st.backoffMultiplier,
		Consecutive429:    st.consecutive429,
	}
}

// AcquireAPISlot blocks until a concurrent API request slot is available or
// ctx is cancelled.
func (m *Manager) AcquireAPISlot(ctx context.Context) error {
	select {
	case m.apiSlots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReleaseAPISlot returns a slot acquired via AcquireAPISlot.
func (m *Manager) ReleaseAPISlot() {
	select {
	case <-m.apiSlots:
	default:
	}
}

// AcquireMediaSlot blocks until a concurrent media download slot is
// available or ctx is cancelled.
func (m *Manager) AcquireMediaSlot(ctx context.Context) error {
	select {
	case m.mediaSlots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReleaseMediaSlot returns a slot acquired via AcquireMediaSlot.
func (m *Manager) ReleaseMediaSlot() {
	select {
	case <-m.mediaSlots:
	default:
	}
}
