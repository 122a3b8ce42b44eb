package main

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "koe/pkg/domain-errors"
	txcontext "koe/pkg/platform/tx"
)

func TestLedgerPostgresTx(t *testing.T) {
	t.Run("commits and exposes the transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO case_events").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = newLedgerPostgresTx(db).RunInTx(context.Background(), func(ctx context.Context) error {
			_, ok := txcontext.From(ctx)
			assert.True(t, ok)
			_, err := txcontext.QuerierFrom(ctx, db).ExecContext(ctx, "INSERT INTO case_events DEFAULT VALUES")
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("relation insert failed")
		err = newLedgerPostgresTx(db).RunInTx(context.Background(), func(context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancelled context never begins", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err = newLedgerPostgresTx(db).RunInTx(ctx, func(context.Context) error { return nil })
		assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
