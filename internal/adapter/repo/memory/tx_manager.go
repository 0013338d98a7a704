package memory

import "context"

type txKeyType struct{}

var txKey = txKeyType{}

// TxManager holds the store's write lock for the duration of fn. Repos see
// the marker in ctx and skip their own locking.
type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return fn(context.WithValue(ctx, txKey, true))
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey).(bool)
	return v
}

func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) rlock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}
