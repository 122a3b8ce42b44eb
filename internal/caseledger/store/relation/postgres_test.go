package relation

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"koe/internal/caseledger/models"
)

func TestPostgresRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewPostgres(db)
	at := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (source_case_id, target_case_id, kind) DO NOTHING")).
		WithArgs("X", "A", "acceleration", "evt-1", at).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = store.Record(context.Background(), models.Relation{
		SourceCaseID: "X", TargetCaseID: "A", Kind: models.RelationAcceleration, EventID: "evt-1", CreatedAt: at,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByTarget(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewPostgres(db)
	at := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
	cols := []string{"source_case_id", "target_case_id", "kind", "event_id", "created_at"}

	mock.ExpectQuery(regexp.QuoteMeta("FROM case_relations WHERE target_case_id = $1")).
		WithArgs("A", "change_order").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("EO-1", "A", "change_order", "evt-9", at))

	kind := models.RelationChangeOrder
	got, err := store.FindByTarget(context.Background(), "A", &kind)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.RelationChangeOrder, got[0].Kind)
	assert.Equal(t, "EO-1", got[0].SourceCaseID)

	mock.ExpectQuery(regexp.QuoteMeta("FROM case_relations WHERE target_case_id = $1")).
		WithArgs("A", "").
		WillReturnRows(sqlmock.NewRows(cols))
	got, err = store.FindByTarget(context.Background(), "A", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
