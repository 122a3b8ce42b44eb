package event

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/lib/pq"

	"koe/internal/caseledger/models"
	txcontext "koe/pkg/platform/tx"
)

// Table names sharing the event schema.
const (
	ClaimsTable     = "case_events"
	ExemptionsTable = "exemption_events"
)

const uniqueViolation = "23505"

var tableName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgresStore persists events in PostgreSQL. Each row carries the
// CloudEvents envelope plus denormalised case id, event type and version.
type PostgresStore struct {
	db    *sql.DB
	table string
}

// PostgresOption configures a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithTable selects the event table, ClaimsTable by default.
func WithTable(name string) PostgresOption {
	return func(s *PostgresStore) { s.table = name }
}

// NewPostgres constructs a PostgreSQL-backed event store.
func NewPostgres(db *sql.DB, opts ...PostgresOption) (*PostgresStore, error) {
	s := &PostgresStore{db: db, table: ClaimsTable}
	for _, opt := range opts {
		opt(s)
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	if !tableName.MatchString(s.table) {
		return nil, fmt.Errorf("invalid event table name %q", s.table)
	}
	return s, nil
}

func (s *PostgresStore) q(ctx context.Context) txcontext.Querier {
	return txcontext.QuerierFrom(ctx, s.db)
}

const eventColumns = `id, specversion, source, type, time, subject, actor, actor_role,
	comment, references_event_id, data, case_id, project_id, event_type, version`

// Append inserts evt as version expectedVersion+1. The insert is guarded by
// the current max version and backed by the (case_id, version) unique
// constraint, so concurrent writers cannot both succeed.
func (s *PostgresStore) Append(ctx context.Context, caseID string, expectedVersion int64, evt models.Event) (models.Event, error) {
	if err := checkAppend(caseID, expectedVersion, evt); err != nil {
		return models.Event{}, err
	}
	if !evt.Type.IsCreation() || expectedVersion > 0 {
		current, err := s.CurrentVersion(ctx, caseID)
		if err != nil {
			return models.Event{}, err
		}
		if current == 0 && !evt.Type.IsCreation() {
			return models.Event{}, ErrUnknownCase
		}
		if evt.Type.IsCreation() {
			return models.Event{}, ErrConcurrencyConflict
		}
	}

	stored := stamp(caseID, expectedVersion, evt)
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s)
		SELECT $1::text, $2::text, $3::text, $4::text, $5::timestamptz, $6::text, $7::text, $8::text,
			$9::text, $10::text, $11::jsonb, $12::text, $13::text, $14::text, $15::bigint
		WHERE (SELECT COALESCE(MAX(version), 0) FROM %[1]s WHERE case_id = $12) = $16::bigint
	`, s.table, eventColumns)
	res, err := s.q(ctx).ExecContext(ctx, query,
		stored.ID,
		stored.SpecVersion,
		stored.Source,
		stored.Type.WireType(),
		stored.Time,
		stored.Subject,
		stored.Actor,
		string(stored.ActorRole),
		nullString(stored.Comment),
		nullString(stored.ReferencesEventID),
		[]byte(stored.Data),
		stored.CaseID,
		stored.ProjectID,
		string(stored.Type),
		stored.Version,
		expectedVersion,
	)
	if err != nil {
		return models.Event{}, s.mapInsertError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Event{}, fmt.Errorf("append event: %w", err)
	}
	if n == 0 {
		return models.Event{}, ErrConcurrencyConflict
	}
	return stored, nil
}

func (s *PostgresStore) mapInsertError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		if pqErr.Constraint == s.table+"_pkey" {
			return ErrDuplicateEvent
		}
		return ErrConcurrencyConflict
	}
	return fmt.Errorf("append event: %w", err)
}

// ReadAll returns the full log of caseID.
func (s *PostgresStore) ReadAll(ctx context.Context, caseID string) ([]models.Event, error) {
	return s.ReadSince(ctx, caseID, 0)
}

// ReadSince returns events with version > version, reading in pages.
func (s *PostgresStore) ReadSince(ctx context.Context, caseID string, version int64) ([]models.Event, error) {
	out := []models.Event{}
	after := version
	for {
		page, err := s.ReadPage(ctx, caseID, after, DefaultPageSize)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < DefaultPageSize {
			return out, nil
		}
		after = page[len(page)-1].Version
	}
}

// ReadPage returns at most limit events with version > after.
func (s *PostgresStore) ReadPage(ctx context.Context, caseID string, after int64, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE case_id = $1 AND version > $2 ORDER BY version ASC LIMIT $3`,
		eventColumns, s.table)
	rows, err := s.q(ctx).QueryContext(ctx, query, caseID, after, limit)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0, limit)
	for rows.Next() {
		evt, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// CurrentVersion returns the highest stored version, 0 for unknown cases.
func (s *PostgresStore) CurrentVersion(ctx context.Context, caseID string) (int64, error) {
	query := fmt.Sprintf(`SELECT COALESCE(MAX(version), 0) FROM %s WHERE case_id = $1`, s.table)
	var v int64
	if err := s.q(ctx).QueryRowContext(ctx, query, caseID).Scan(&v); err != nil {
		return 0, fmt.Errorf("current version: %w", err)
	}
	return v, nil
}

// ListCases returns cases in creation order. An empty projectID lists all
// projects.
func (s *PostgresStore) ListCases(ctx context.Context, projectID string) ([]CaseRef, error) {
	query := fmt.Sprintf(`
		SELECT case_id, project_id, event_type, time FROM %s
		WHERE version = 1 AND ($1 = '' OR project_id = $1)
		ORDER BY time ASC, case_id ASC
	`, s.table)
	if projectID != "" {
		projectID = models.ProjectOrDefault(projectID)
	}
	rows, err := s.q(ctx).QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	refs := []CaseRef{}
	for rows.Next() {
		var (
			ref       CaseRef
			eventType string
		)
		if err := rows.Scan(&ref.CaseID, &ref.ProjectID, &eventType, &ref.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		ref.Kind, _ = models.EventType(eventType).Kind()
		ref.CreatedAt = ref.CreatedAt.UTC()
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cases: %w", err)
	}
	return refs, nil
}

// Get returns a stored event by id.
func (s *PostgresStore) Get(ctx context.Context, eventID string) (models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, eventColumns, s.table)
	evt, err := scanEvent(s.q(ctx).QueryRowContext(ctx, query, eventID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, ErrUnknownEvent
	}
	return evt, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (models.Event, error) {
	var (
		evt        models.Event
		wireType   string
		eventType  string
		actorRole  string
		comment    sql.NullString
		references sql.NullString
		data       []byte
		at         time.Time
	)
	err := row.Scan(
		&evt.ID, &evt.SpecVersion, &evt.Source, &wireType, &at, &evt.Subject,
		&evt.Actor, &actorRole, &comment, &references, &data,
		&evt.CaseID, &evt.ProjectID, &eventType, &evt.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Event{}, err
		}
		return models.Event{}, fmt.Errorf("scan event: %w", err)
	}
	evt.Type = models.EventType(eventType)
	if evt.Type == "" {
		evt.Type = models.ParseWireType(wireType)
	}
	evt.Time = at.UTC()
	evt.ActorRole = models.Role(actorRole)
	evt.Comment = comment.String
	evt.ReferencesEventID = references.String
	evt.Data = json.RawMessage(data)
	return evt, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
