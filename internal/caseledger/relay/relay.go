// Package relay publishes outbox entries to the event bus. Entries are
// claimed with row locks inside a transaction, published one by one and
// marked published or failed before the transaction commits.
package relay

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"koe/internal/caseledger/metrics"
	"koe/internal/caseledger/store/outbox"
	"koe/pkg/platform/circuit"
)

const (
	DefaultBatchSize = 100
	DefaultInterval  = time.Second
	maxRetryDelay    = time.Minute
)

// ErrCircuitOpen is returned by RunOnce while the publisher is considered
// down. Run backs off on it like on any other batch error.
var ErrCircuitOpen = errors.New("relay: publisher circuit open")

// Store is the outbox as seen by the relay.
type Store interface {
	FetchUnpublished(ctx context.Context, limit int) ([]outbox.Entry, error)
	MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	Pending(ctx context.Context) (int, error)
}

// Publisher delivers one entry to the bus.
type Publisher interface {
	Publish(ctx context.Context, e outbox.Entry) error
}

// Tx wraps a batch so that row locks taken by FetchUnpublished are held
// until the batch is marked.
type Tx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type noTx struct{}

func (noTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

// Relay drains the outbox.
type Relay struct {
	store     Store
	publisher Publisher
	tx        Tx
	logger    *slog.Logger
	metrics   *metrics.Metrics
	batchSize int
	clock     func() time.Time
	breaker   *circuit.Breaker
}

type Option func(*Relay)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) { r.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Relay) { r.metrics = m }
}

func WithTx(tx Tx) Option {
	return func(r *Relay) { r.tx = tx }
}

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(r *Relay) { r.clock = clock }
}

// WithBreaker replaces the default publisher circuit breaker.
func WithBreaker(b *circuit.Breaker) Option {
	return func(r *Relay) { r.breaker = b }
}

func New(store Store, publisher Publisher, opts ...Option) *Relay {
	r := &Relay{
		store:     store,
		publisher: publisher,
		tx:        noTx{},
		batchSize: DefaultBatchSize,
		clock:     time.Now,
		breaker:   circuit.New("outbox-publisher"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunOnce relays one batch and returns the number of entries published.
// A failed publish marks that entry failed and moves on; it stays in the
// outbox for the next batch. While the breaker is open a batch is a single
// probe entry, and the batch stops at the first failure.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	published := 0
	limit := r.batchSize
	if r.breaker.IsOpen() {
		limit = 1
	}
	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		entries, err := r.store.FetchUnpublished(ctx, limit)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := r.publisher.Publish(ctx, e); err != nil {
				r.metrics.IncrementRelayed("failed")
				r.logWarn(ctx, "outbox publish failed",
					"outbox_id", e.ID, "event_type", e.EventType, "attempts", e.Attempts+1, "error", err)
				if err := r.store.MarkFailed(ctx, e.ID, err.Error()); err != nil {
					return err
				}
				open, change := r.breaker.RecordFailure()
				if change.Opened {
					r.logWarn(ctx, "outbox publisher circuit opened", "breaker", r.breaker.Name())
				}
				if open {
					return nil
				}
				continue
			}
			if err := r.store.MarkPublished(ctx, e.ID, r.clock().UTC()); err != nil {
				return err
			}
			if _, change := r.breaker.RecordSuccess(); change.Closed && r.logger != nil {
				r.logger.InfoContext(ctx, "outbox publisher circuit closed", "breaker", r.breaker.Name())
			}
			r.metrics.IncrementRelayed("published")
			published++
		}
		return nil
	})
	if err != nil {
		return published, err
	}
	if pending, err := r.store.Pending(ctx); err == nil {
		r.metrics.SetBacklog(pending)
	}
	if r.breaker.IsOpen() {
		return published, ErrCircuitOpen
	}
	return published, nil
}

// Run relays batches every interval until ctx is cancelled. A full batch
// is followed immediately by the next one; errors back off exponentially.
func (r *Relay) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = interval
	retry.MaxInterval = maxRetryDelay
	retry.MaxElapsedTime = 0

	wait := time.Duration(0)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}

		n, err := r.RunOnce(ctx)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil
			}
			wait = retry.NextBackOff()
			r.logWarn(ctx, "outbox relay batch failed", "error", err, "retry_in", wait)
		case n >= r.batchSize:
			retry.Reset()
			wait = 0
		default:
			retry.Reset()
			wait = interval
		}
	}
}

func (r *Relay) logWarn(ctx context.Context, msg string, args ...any) {
	if r.logger != nil {
		r.logger.WarnContext(ctx, msg, args...)
	}
}
