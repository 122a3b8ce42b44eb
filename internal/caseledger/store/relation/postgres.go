package relation

import (
	"context"
	"database/sql"
	"fmt"

	"koe/internal/caseledger/models"
	txcontext "koe/pkg/platform/tx"
)

// PostgresStore persists relations in the case_relations table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed relation index.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) q(ctx context.Context) txcontext.Querier {
	return txcontext.QuerierFrom(ctx, s.db)
}

// Record inserts r unless its (source, target, kind) key already exists.
func (s *PostgresStore) Record(ctx context.Context, r models.Relation) error {
	if err := r.Validate(); err != nil {
		return err
	}
	query := `
		INSERT INTO case_relations (source_case_id, target_case_id, kind, event_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (source_case_id, target_case_id, kind) DO NOTHING
	`
	_, err := s.q(ctx).ExecContext(ctx, query,
		r.SourceCaseID, r.TargetCaseID, string(r.Kind), r.EventID, r.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("record relation: %w", err)
	}
	return nil
}

// FindBySource returns the relations originating at caseID.
func (s *PostgresStore) FindBySource(ctx context.Context, caseID string) ([]models.Relation, error) {
	query := `
		SELECT source_case_id, target_case_id, kind, event_id, created_at
		FROM case_relations WHERE source_case_id = $1
		ORDER BY created_at ASC, target_case_id ASC
	`
	return s.query(ctx, query, caseID)
}

// FindByTarget returns the relations pointing at caseID, optionally limited
// to one kind.
func (s *PostgresStore) FindByTarget(ctx context.Context, caseID string, kind *models.RelationKind) ([]models.Relation, error) {
	var k string
	if kind != nil {
		k = string(*kind)
	}
	query := `
		SELECT source_case_id, target_case_id, kind, event_id, created_at
		FROM case_relations WHERE target_case_id = $1 AND ($2 = '' OR kind = $2)
		ORDER BY created_at ASC, source_case_id ASC
	`
	return s.query(ctx, query, caseID, k)
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]models.Relation, error) {
	rows, err := s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find relations: %w", err)
	}
	defer rows.Close()

	out := []models.Relation{}
	for rows.Next() {
		var (
			r    models.Relation
			kind string
		)
		if err := rows.Scan(&r.SourceCaseID, &r.TargetCaseID, &kind, &r.EventID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan relation: %w", err)
		}
		r.Kind = models.RelationKind(kind)
		r.CreatedAt = r.CreatedAt.UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate relations: %w", err)
	}
	return out, nil
}
