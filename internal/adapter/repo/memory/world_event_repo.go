package memory

import (
	"context"

	"promptworld/internal/app/ports"
)

type WorldEventRepo struct {
	store *Store
}

func NewWorldEventRepo(store *Store) WorldEventRepo {
	return WorldEventRepo{store: store}
}

func (r WorldEventRepo) Append(ctx context.Context, sessionID string, events []ports.WorldEvent) error {
	if len(events) == 0 {
		return nil
	}
	defer r.store.lock(ctx)()
	r.store.events[sessionID] = append(r.store.events[sessionID], events...)
	return nil
}

// ListBySessionID returns the newest events first.
func (r WorldEventRepo) ListBySessionID(ctx context.Context, sessionID string, limit int) ([]ports.WorldEvent, error) {
	defer r.store.rlock(ctx)()
	events := r.store.events[sessionID]
	if len(events) == 0 {
		return nil, ports.ErrNotFound
	}
	out := make([]ports.WorldEvent, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, events[i])
	}
	return out, nil
}
