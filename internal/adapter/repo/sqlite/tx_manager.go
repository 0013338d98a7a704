package sqliterepo

import (
	"context"
	"database/sql"
	"errors"
)

type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := ctx.Value(txKey).(*sql.Tx); ok && tx != nil {
		return fn(ctx)
	}
	t.store.mu.RLock()
	db := t.store.db
	t.store.mu.RUnlock()
	if db == nil {
		return errors.New("store is not initialized")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
