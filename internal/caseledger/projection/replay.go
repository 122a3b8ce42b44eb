package projection

import (
	"context"
	"fmt"

	"koe/internal/caseledger/models"
)

// ReplayPageSize bounds how many events Project reads per page.
const ReplayPageSize = 200

// PageReader reads a case's events in version order.
type PageReader interface {
	// ReadPage returns at most limit events with version > after.
	ReadPage(ctx context.Context, caseID string, after int64, limit int) ([]models.Event, error)
}

// ReplayOption configures Replay and Project.
type ReplayOption func(*replayConfig)

type replayConfig struct {
	onUnknown func(models.Event)
	pageSize  int
}

// WithUnknownHandler is called for each event whose type is outside the
// catalog. Replay continues after it returns.
func WithUnknownHandler(fn func(models.Event)) ReplayOption {
	return func(c *replayConfig) { c.onUnknown = fn }
}

// WithPageSize overrides ReplayPageSize.
func WithPageSize(n int) ReplayOption {
	return func(c *replayConfig) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

func newReplayConfig(opts []ReplayOption) replayConfig {
	cfg := replayConfig{pageSize: ReplayPageSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Replay folds events from the initial state.
func Replay(events []models.Event, opts ...ReplayOption) (State, error) {
	return ReplayFrom(Initial(), events, opts...)
}

// ReplayFrom folds events on top of s.
func ReplayFrom(s State, events []models.Event, opts ...ReplayOption) (State, error) {
	cfg := newReplayConfig(opts)
	return cfg.fold(s, events)
}

func (c replayConfig) fold(s State, events []models.Event) (State, error) {
	var err error
	for _, evt := range events {
		if !evt.Type.IsKnown() && c.onUnknown != nil {
			c.onUnknown(evt)
		}
		if s, err = Fold(s, evt); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Project replays the full log of caseID.
func Project(ctx context.Context, r PageReader, caseID string, opts ...ReplayOption) (State, error) {
	return ProjectFrom(ctx, r, caseID, Initial(), opts...)
}

// ProjectFrom continues a projection from base, reading only events newer
// than base.Version.
func ProjectFrom(ctx context.Context, r PageReader, caseID string, base State, opts ...ReplayOption) (State, error) {
	cfg := newReplayConfig(opts)
	s := base
	for {
		if err := ctx.Err(); err != nil {
			return s, err
		}
		page, err := r.ReadPage(ctx, caseID, s.Version, cfg.pageSize)
		if err != nil {
			return s, fmt.Errorf("read events for %s after %d: %w", caseID, s.Version, err)
		}
		if s, err = cfg.fold(s, page); err != nil {
			return s, err
		}
		if len(page) < cfg.pageSize {
			return s, nil
		}
	}
}
