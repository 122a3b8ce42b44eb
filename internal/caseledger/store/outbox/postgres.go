package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"koe/pkg/platform/sentinel"
	txcontext "koe/pkg/platform/tx"
)

// PostgresStore persists entries in the outbox table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed outbox.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) q(ctx context.Context) txcontext.Querier {
	return txcontext.QuerierFrom(ctx, s.db)
}

// Append inserts e. It must run inside the transaction that appends the
// event so both commit together.
func (s *PostgresStore) Append(ctx context.Context, e Entry) error {
	query := `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.q(ctx).ExecContext(ctx, query,
		e.ID, e.AggregateType, e.AggregateID, e.EventType, []byte(e.Payload), e.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// FetchUnpublished locks up to limit unpublished rows, oldest first. Rows
// locked by another relay are skipped, so call it inside a transaction.
func (s *PostgresStore) FetchUnpublished(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at, attempts, COALESCE(last_error, '')
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`
	rows, err := s.q(ctx).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch outbox: %w", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var (
			e       Entry
			payload []byte
		)
		if err := rows.Scan(&e.ID, &e.AggregateType, &e.AggregateID, &e.EventType, &payload,
			&e.CreatedAt, &e.Attempts, &e.LastError); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		e.Payload = payload
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox: %w", err)
	}
	return out, nil
}

// MarkPublished records delivery of id.
func (s *PostgresStore) MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.update(ctx, `UPDATE outbox SET published_at = $2 WHERE id = $1`, id, at.UTC())
}

// MarkFailed counts a failed delivery attempt.
func (s *PostgresStore) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return s.update(ctx, `UPDATE outbox SET attempts = attempts + 1, last_error = $2 WHERE id = $1`, id, reason)
}

// Pending returns the number of unpublished entries.
func (s *PostgresStore) Pending(ctx context.Context) (int, error) {
	var n int
	err := s.q(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM outbox WHERE published_at IS NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count outbox: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) update(ctx context.Context, query string, args ...any) error {
	res, err := s.q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update outbox: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update outbox: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
