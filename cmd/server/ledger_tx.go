package main

import (
	"context"
	"database/sql"
	"time"

	dErrors "koe/pkg/domain-errors"
	txcontext "koe/pkg/platform/tx"
)

const defaultLedgerTxTimeout = 5 * time.Second

// ledgerPostgresTx runs the append, relation and outbox writes of one
// submission in a single database transaction. Stores pick the
// transaction up from the context.
type ledgerPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newLedgerPostgresTx(db *sql.DB) *ledgerPostgresTx {
	return &ledgerPostgresTx{db: db}
}

func (t *ledgerPostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultLedgerTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	return nil
}
