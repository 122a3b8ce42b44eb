package event

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"koe/internal/caseledger/ledgertest"
	"koe/internal/caseledger/models"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store, err := NewPostgres(db)
	require.NoError(t, err)
	return store, mock, db
}

func createdEvent(t *testing.T, caseID string) models.Event {
	t.Helper()
	evt, err := models.NewEvent("evt-1", "", caseID, models.TypeCaseCreated, ledgertest.Epoch,
		ledgertest.Contractor, ledgertest.Created("Piling"))
	require.NoError(t, err)
	return evt
}

func responseEvent(t *testing.T, caseID string) models.Event {
	t.Helper()
	evt, err := models.NewEvent("evt-2", "", caseID, models.TypeBasisResponse, ledgertest.Epoch,
		ledgertest.Owner, ledgertest.BasisApproved())
	require.NoError(t, err)
	return evt
}

const (
	insertPrefix  = "INSERT INTO case_events"
	versionPrefix = "SELECT COALESCE(MAX(version), 0) FROM case_events WHERE case_id = $1"
)

func TestNewPostgres(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewPostgres(nil)
	assert.Error(t, err)

	_, err = NewPostgres(db, WithTable("events; DROP TABLE x"))
	assert.Error(t, err)

	store, err := NewPostgres(db, WithTable(ExemptionsTable))
	require.NoError(t, err)
	assert.Equal(t, ExemptionsTable, store.table)
}

func TestPostgresAppend_Creation(t *testing.T) {
	store, mock, _ := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(insertPrefix)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	stored, err := store.Append(context.Background(), "case-1", 0, createdEvent(t, "case-1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version)
	assert.Equal(t, "case-1", stored.Subject)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAppend_GuardedInsertMissesReportsConflict(t *testing.T) {
	store, mock, _ := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(versionPrefix)).
		WithArgs("case-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(2)))
	mock.ExpectExec(regexp.QuoteMeta(insertPrefix)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := store.Append(context.Background(), "case-1", 1, responseEvent(t, "case-1"))
	assert.ErrorIs(t, err, ErrConcurrencyConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAppend_UnknownCase(t *testing.T) {
	store, mock, _ := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(versionPrefix)).
		WithArgs("case-9").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(0)))

	_, err := store.Append(context.Background(), "case-9", 0, responseEvent(t, "case-9"))
	assert.ErrorIs(t, err, ErrUnknownCase)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAppend_UniqueViolations(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{name: "primary key is a duplicate event", constraint: "case_events_pkey", want: ErrDuplicateEvent},
		{name: "version key is a conflict", constraint: "case_events_case_version_key", want: ErrConcurrencyConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock, _ := newMockStore(t)
			mock.ExpectExec(regexp.QuoteMeta(insertPrefix)).
				WillReturnError(&pq.Error{Code: "23505", Constraint: tt.constraint})

			_, err := store.Append(context.Background(), "case-1", 0, createdEvent(t, "case-1"))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPostgresReadPage(t *testing.T) {
	store, mock, _ := newMockStore(t)
	at := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	cols := []string{"id", "specversion", "source", "type", "time", "subject", "actor", "actor_role",
		"comment", "references_event_id", "data", "case_id", "project_id", "event_type", "version"}

	mock.ExpectQuery(regexp.QuoteMeta("FROM case_events WHERE case_id = $1 AND version > $2 ORDER BY version ASC LIMIT $3")).
		WithArgs("case-1", int64(0), 2).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("evt-1", "1.0", "/projects/default/cases/case-1", "koe.case.created", at, "case-1",
				"te-1", "TE", nil, nil, []byte(`{"title":"Piling"}`), "case-1", "default", "case.created", int64(1)).
			AddRow("evt-2", "1.0", "/projects/default/cases/case-1", "koe.basis.response", at.Add(time.Hour), "case-1",
				"bh-1", "BH", "ok", "evt-1", []byte(`{"outcome":"approved"}`), "case-1", "default", "basis.response", int64(2)))

	events, err := store.ReadPage(context.Background(), "case-1", 0, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.TypeCaseCreated, events[0].Type)
	assert.Empty(t, events[0].Comment)
	assert.Equal(t, "evt-1", events[1].ReferencesEventID)
	assert.Equal(t, models.RoleOwner, events[1].ActorRole)
	assert.Equal(t, int64(2), events[1].Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGet_NotFound(t *testing.T) {
	store, mock, _ := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM case_events WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUnknownEvent)
}
