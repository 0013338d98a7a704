package sqliterepo

import (
	"context"
	"encoding/json"
	"time"

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
	db, err := r.store.conn(ctx)
	if err != nil {
		return err
	}
	for _, e := range events {
		payload := "{}"
		if len(e.Payload) > 0 {
			b, _ := json.Marshal(e.Payload)
			payload = string(b)
		}
		_, err := db.ExecContext(ctx, `
			INSERT INTO world_events (session_id, type, tick, occurred_at, payload)
			VALUES (?, ?, ?, ?, ?)
		`, sessionID, e.Type, e.Tick, e.OccurredAt.UnixNano(), payload)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r WorldEventRepo) ListBySessionID(ctx context.Context, sessionID string, limit int) ([]ports.WorldEvent, error) {
	db, err := r.store.conn(ctx)
	if err != nil {
		return nil, err
	}
	query := `SELECT type, tick, occurred_at, payload FROM world_events WHERE session_id = ? ORDER BY id DESC`
	args := []any{sessionID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ports.WorldEvent{}
	for rows.Next() {
		var (
			e          ports.WorldEvent
			occurredAt int64
			payload    string
		)
		if err := rows.Scan(&e.Type, &e.Tick, &occurredAt, &payload); err != nil {
			return nil, err
		}
		e.OccurredAt = time.Unix(0, occurredAt).UTC()
		if payload != "" {
			_ = json.Unmarshal([]byte(payload), &e.Payload)
		}
		if len(e.Payload) == 0 {
			e.Payload = nil
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ports.ErrNotFound
	}
	return out, nil
}
