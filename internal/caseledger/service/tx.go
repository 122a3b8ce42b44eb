package service

import (
	"context"
	"sync"
	"time"

	dErrors "koe/pkg/domain-errors"
)

// LedgerTx is the transactional boundary around an append and the relation
// and outbox writes that accompany it. Stores reach the transaction through
// the context passed to fn.
type LedgerTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// numLedgerShards spreads cases across independent locks so writers on
// different cases never contend.
const numLedgerShards = 128

// DefaultTxTimeout is the maximum duration of a ledger transaction.
const DefaultTxTimeout = 5 * time.Second

// MemoryTx serialises writers per case with sharded mutexes. It has no
// rollback: callers validate relations and outbox entries before the
// append so nothing after it can fail.
type MemoryTx struct {
	shards  [numLedgerShards]sync.Mutex
	timeout time.Duration
}

// NewMemoryTx returns a sharded in-memory transaction boundary.
func NewMemoryTx() *MemoryTx {
	return &MemoryTx{timeout: DefaultTxTimeout}
}

func (t *MemoryTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = DefaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	shard := t.selectShard(ctx)
	t.shards[shard].Lock()
	defer t.shards[shard].Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(ctx)
}

// selectShard picks a shard from the case id in context, or shard 0.
func (t *MemoryTx) selectShard(ctx context.Context) int {
	if caseID := TxCaseID(ctx); caseID != "" {
		return int(hashCaseID(caseID) % numLedgerShards)
	}
	return 0
}

// hashCaseID is FNV-1a.
func hashCaseID(s string) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}

type txCaseKey struct{}

// WithTxCase tags ctx with the case a transaction writes to.
func WithTxCase(ctx context.Context, caseID string) context.Context {
	return context.WithValue(ctx, txCaseKey{}, caseID)
}

// TxCaseID returns the case a transaction writes to.
func TxCaseID(ctx context.Context) string {
	caseID, _ := ctx.Value(txCaseKey{}).(string)
	return caseID
}
