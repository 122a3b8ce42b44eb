package outbox

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"koe/internal/caseledger/ledgertest"
	"koe/internal/caseledger/models"
	"koe/pkg/platform/sentinel"
)

func TestNewEntry(t *testing.T) {
	log := ledgertest.NewLog(t, "case-1")
	evt := log.Add(models.TypeCaseCreated, ledgertest.Contractor, ledgertest.Created("Piling"))

	entry, err := NewEntry(evt)
	require.NoError(t, err)
	assert.Equal(t, evt.ID, entry.ID.String())
	assert.Equal(t, "claim", entry.AggregateType)
	assert.Equal(t, "case-1", entry.AggregateID)
	assert.Equal(t, "koe.case.created", entry.EventType)

	var envelope models.Event
	require.NoError(t, json.Unmarshal(entry.Payload, &envelope))
	assert.Equal(t, evt.Version, envelope.Version)

	t.Run("non-uuid event ids get a stable derived id", func(t *testing.T) {
		evt.ID = "legacy-1"
		a, err := NewEntry(evt)
		require.NoError(t, err)
		b, err := NewEntry(evt)
		require.NoError(t, err)
		assert.Equal(t, a.ID, b.ID)
	})

	t.Run("case.closed is filed under case", func(t *testing.T) {
		closed := log.Add(models.TypeCaseClosed, ledgertest.Admin, models.CaseClosed{Reason: "done"})
		entry, err := NewEntry(closed)
		require.NoError(t, err)
		assert.Equal(t, "case", entry.AggregateType)
	})
}

func TestInMemoryLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	first := Entry{ID: uuid.New(), EventType: "koe.case.created", CreatedAt: ledgertest.Epoch}
	second := Entry{ID: uuid.New(), EventType: "koe.basis.response", CreatedAt: ledgertest.Epoch.Add(time.Hour)}
	require.NoError(t, store.Append(ctx, first))
	require.NoError(t, store.Append(ctx, second))
	require.NoError(t, store.Append(ctx, first))

	pending, err := store.FetchUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)

	require.NoError(t, store.MarkFailed(ctx, first.ID, "broker down"))
	require.NoError(t, store.MarkPublished(ctx, second.ID, time.Now()))

	pending, err = store.FetchUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].Attempts)
	assert.Equal(t, "broker down", pending[0].LastError)

	n, err := store.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.ErrorIs(t, store.MarkPublished(ctx, uuid.New(), time.Now()), sentinel.ErrNotFound)
}

func TestPostgresFetchUnpublishedSkipsLockedRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewPostgres(db)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE SKIP LOCKED")).
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "aggregate_type", "aggregate_id", "event_type", "payload", "created_at", "attempts", "last_error",
		}).AddRow(id.String(), "claim", "case-1", "koe.case.created", []byte(`{}`), ledgertest.Epoch, 2, "timeout"))

	entries, err := store.FetchUnpublished(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ID)
	assert.Equal(t, 2, entries[0].Attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMarkPublished(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewPostgres(db)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE outbox SET published_at = $2 WHERE id = $1")).
		WithArgs(id.String(), ledgertest.Epoch).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE outbox SET published_at = $2 WHERE id = $1")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.MarkPublished(context.Background(), id, ledgertest.Epoch))
	assert.ErrorIs(t, store.MarkPublished(context.Background(), uuid.New(), ledgertest.Epoch), sentinel.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
