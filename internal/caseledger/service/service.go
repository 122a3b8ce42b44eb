package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"koe/internal/caseledger/metrics"
	"koe/internal/caseledger/models"
	"koe/internal/caseledger/projection"
	"koe/internal/caseledger/rules"
	"koe/internal/caseledger/store/event"
	"koe/internal/caseledger/store/outbox"
	"koe/internal/caseledger/transition"
	"koe/pkg/requestcontext"
)

// EventStore is the append-only case log.
type EventStore interface {
	Append(ctx context.Context, caseID string, expectedVersion int64, evt models.Event) (models.Event, error)
	ReadAll(ctx context.Context, caseID string) ([]models.Event, error)
	ReadPage(ctx context.Context, caseID string, after int64, limit int) ([]models.Event, error)
	CurrentVersion(ctx context.Context, caseID string) (int64, error)
	ListCases(ctx context.Context, projectID string) ([]event.CaseRef, error)
	Get(ctx context.Context, eventID string) (models.Event, error)
}

// RelationStore is the reverse index between related cases.
type RelationStore interface {
	Record(ctx context.Context, r models.Relation) error
	FindBySource(ctx context.Context, caseID string) ([]models.Relation, error)
	FindByTarget(ctx context.Context, caseID string, kind *models.RelationKind) ([]models.Relation, error)
}

// Outbox receives one entry per appended event for the relay.
type Outbox interface {
	Append(ctx context.Context, e outbox.Entry) error
}

// StateCache holds folded projections keyed by case and version.
type StateCache interface {
	Get(ctx context.Context, caseID string) (projection.State, bool, error)
	Put(ctx context.Context, s projection.State) error
}

// DefaultMaxSubmitAttempts bounds retries after a version conflict.
const DefaultMaxSubmitAttempts = 3

// Service is the case submission surface. It projects the case, asks the
// transition engine whether the event is legal, and appends it together
// with its relations and outbox entry.
type Service struct {
	events      EventStore
	relations   RelationStore
	outbox      Outbox
	tx          LedgerTx
	engine      *transition.Engine
	cache       StateCache
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
	clock       func() time.Time
	maxAttempts int
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithCache enables incremental projection from cached state.
func WithCache(c StateCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithOutbox records an outbox entry for every appended event.
func WithOutbox(o Outbox) Option {
	return func(s *Service) {
		s.outbox = o
	}
}

// WithTx replaces the default in-memory transaction boundary.
func WithTx(tx LedgerTx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

// WithClock fixes the decision time. Without it the request time from the
// context is used.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithTransitionTable replaces the default transition table.
func WithTransitionTable(t transition.Table) Option {
	return func(s *Service) {
		s.engine = transition.New(s.engine.Rules(), transition.WithTable(t))
	}
}

func WithMaxSubmitAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// New constructs a Service.
func New(events EventStore, relations RelationStore, r rules.Rules, opts ...Option) *Service {
	s := &Service{
		events:      events,
		relations:   relations,
		engine:      transition.New(r),
		maxAttempts: DefaultMaxSubmitAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = NewMemoryTx()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("koe/caseledger")
	}
	return s
}

// Rules returns the contract rules in force.
func (s *Service) Rules() rules.Rules {
	return s.engine.Rules()
}

func (s *Service) now(ctx context.Context) time.Time {
	if s.clock != nil {
		return s.clock().UTC()
	}
	return requestcontext.Now(ctx).UTC()
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, event, args...)
	}
}

func (s *Service) logWarn(ctx context.Context, msg string, attributes ...any) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, attributes...)
	}
}
