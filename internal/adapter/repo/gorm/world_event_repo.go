package gormrepo

import (
	"context"
	"encoding/json"

	"promptworld/internal/adapter/repo/gorm/model"
	"promptworld/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorldEventRepo struct {
	db *gorm.DB
}

func NewWorldEventRepo(db *gorm.DB) WorldEventRepo {
	return WorldEventRepo{db: db}
}

func (r WorldEventRepo) Append(ctx context.Context, sessionID string, events []ports.WorldEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.WorldEvent, 0, len(events))
	for _, e := range events {
		payload := "{}"
		if len(e.Payload) > 0 {
			b, _ := json.Marshal(e.Payload)
			payload = string(b)
		}
		rows = append(rows, model.WorldEvent{
			SessionID:  sessionID,
			Type:       e.Type,
			Tick:       int32(e.Tick),
			OccurredAt: e.OccurredAt,
			Payload:    payload,
		})
	}
	return getDBFromCtx(ctx, r.db).Create(&rows).Error
}

func (r WorldEventRepo) ListBySessionID(ctx context.Context, sessionID string, limit int) ([]ports.WorldEvent, error) {
	rows := []model.WorldEvent{}
	query := getDBFromCtx(ctx, r.db).
		Where(&model.WorldEvent{SessionID: sessionID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "id"}, Desc: true}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ports.ErrNotFound
	}

	out := make([]ports.WorldEvent, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if row.Payload != "" {
			_ = json.Unmarshal([]byte(row.Payload), &payload)
		}
		if len(payload) == 0 {
			payload = nil
		}
		out = append(out, ports.WorldEvent{
			Type:       row.Type,
			Tick:       int(row.Tick),
			OccurredAt: row.OccurredAt,
			Payload:    payload,
		})
	}
	return out, nil
}
