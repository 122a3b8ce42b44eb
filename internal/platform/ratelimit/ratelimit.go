// Package ratelimit caps ledger writes per actor with a sliding window.
// Redis holds the shared window; an in-memory window takes over while the
// circuit to Redis is open.
package ratelimit

import (
	"context"
	"log/slog"
	"math"
	"time"

	"koe/pkg/platform/circuit"
)

// Result of one rate limit check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the whole number of seconds until the window frees a slot.
func (r Result) RetryAfter(now time.Time) int {
	d := r.ResetAt.Sub(now)
	if d <= 0 {
		return 1
	}
	return int(math.Ceil(d.Seconds()))
}

// Store counts requests in a sliding window and admits at most limit.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

// Limiter checks keys against the primary store, falling back to a local
// window while the primary keeps failing.
type Limiter struct {
	primary  Store
	fallback Store
	breaker  *circuit.Breaker
	limit    int
	window   time.Duration
	logger   *slog.Logger
	clock    func() time.Time
}

type Option func(*Limiter)

func WithFallback(s Store) Option {
	return func(l *Limiter) { l.fallback = s }
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(l *Limiter) { l.breaker = b }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) { l.logger = logger }
}

func WithClock(clock func() time.Time) Option {
	return func(l *Limiter) { l.clock = clock }
}

// New creates a limiter admitting limit requests per window and key.
func New(primary Store, limit int, window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		primary: primary,
		limit:   limit,
		window:  window,
		clock:   time.Now,
		breaker: circuit.New("ratelimit", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(3)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow checks key. degraded is true when the answer came from the
// fallback window.
func (l *Limiter) Allow(ctx context.Context, key string) (res Result, degraded bool, err error) {
	res, err = l.primary.Allow(ctx, key, l.limit, l.window)
	if err != nil {
		if _, change := l.breaker.RecordFailure(); change.Opened {
			l.warn(ctx, "rate limit store unavailable, using local window", "error", err)
		}
	} else if _, change := l.breaker.RecordSuccess(); change.Closed && l.logger != nil {
		l.logger.InfoContext(ctx, "rate limit store recovered")
	}
	if !l.breaker.IsOpen() || l.fallback == nil {
		return res, false, err
	}
	res, err = l.fallback.Allow(ctx, key, l.limit, l.window)
	return res, true, err
}

func (l *Limiter) warn(ctx context.Context, msg string, args ...any) {
	if l.logger != nil {
		l.logger.WarnContext(ctx, msg, args...)
	}
}
