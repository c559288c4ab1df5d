package bunrepo

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
)

type idbKey struct{}

// withIDB stores the transactional handle so nested repository calls share it.
func withIDB(ctx context.Context, idb bun.IDB) context.Context {
	return context.WithValue(ctx, idbKey{}, idb)
}

// idbFromContext resolves the active handle, falling back to the pool.
func idbFromContext(ctx context.Context, fallback bun.IDB) bun.IDB {
	if ctx != nil {
		if idb, ok := ctx.Value(idbKey{}).(bun.IDB); ok && idb != nil {
			return idb
		}
	}
	return fallback
}

// TransactionManager runs callbacks inside a bun transaction. Repositories in
// this package pick up the transactional handle from the callback context.
type TransactionManager struct {
	db *bun.DB
}

func NewTransactionManager(db *bun.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

func (m *TransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if fn == nil {
		return nil
	}
	return m.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(withIDB(ctx, tx))
	})
}
