package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"promptworld/internal/adapter/repo/gorm/model"
	"promptworld/internal/app/ports"
	"promptworld/internal/domain/evaluation"
	"promptworld/internal/domain/schedule"
	"promptworld/internal/domain/world"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EvaluationRunRepo struct {
	db *gorm.DB
}

func NewEvaluationRunRepo(db *gorm.DB) EvaluationRunRepo {
	return EvaluationRunRepo{db: db}
}

func (r EvaluationRunRepo) SaveRun(ctx context.Context, run ports.EvaluationRun) error {
	cfg, err := json.Marshal(run.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	row := model.EvaluationRun{
		RunID:           run.RunID,
		Prompt:          run.Prompt,
		Config:          string(cfg),
		Schedule:        run.Schedule,
		VarySeed:        run.VarySeed,
		Trials:          int32(run.Metrics.Trials),
		SuccessRate:     run.Metrics.SuccessRate,
		AvgStepsSuccess: run.Metrics.AvgStepsSuccess,
		Failures:        int32(run.Metrics.Failures),
		CreatedAt:       run.CreatedAt,
	}
	res := getDBFromCtx(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r EvaluationRunRepo) SaveTrials(ctx context.Context, runID string, trials []evaluation.TrialOutcome) error {
	db := getDBFromCtx(ctx, r.db)
	var count int64
	if err := db.Model(&model.EvaluationRun{}).Where("run_id = ?", runID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ports.ErrNotFound
	}
	if len(trials) == 0 {
		return nil
	}
	rows := make([]model.EvaluationTrial, 0, len(trials))
	for _, t := range trials {
		fired := t.EventsFired
		if fired == nil {
			fired = []schedule.Event{}
		}
		b, _ := json.Marshal(fired)
		rows = append(rows, model.EvaluationTrial{
			RunID:       runID,
			TrialIndex:  int32(t.Index),
			Seed:        t.Seed,
			Outcome:     string(t.Outcome),
			Steps:       int32(t.Steps),
			PlanLength:  int32(t.PlanLength),
			EventsFired: string(b),
		})
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "run_id"}, {Name: "trial_index"}},
		DoUpdates: clause.AssignmentColumns([]string{"seed", "outcome", "steps", "plan_length", "events_fired"}),
	}).CreateInBatches(&rows, 200).Error
}

func (r EvaluationRunRepo) GetRun(ctx context.Context, runID string) (ports.EvaluationRun, error) {
	var row model.EvaluationRun
	err := getDBFromCtx(ctx, r.db).Where("run_id = ?", runID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.EvaluationRun{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.EvaluationRun{}, err
	}
	return toRun(row)
}

func (r EvaluationRunRepo) ListTrials(ctx context.Context, runID string) ([]evaluation.TrialOutcome, error) {
	if _, err := r.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	rows := []model.EvaluationTrial{}
	err := getDBFromCtx(ctx, r.db).
		Where(&model.EvaluationTrial{RunID: runID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "trial_index"}}},
		}).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]evaluation.TrialOutcome, 0, len(rows))
	for _, row := range rows {
		var fired []schedule.Event
		if row.EventsFired != "" {
			_ = json.Unmarshal([]byte(row.EventsFired), &fired)
		}
		if len(fired) == 0 {
			fired = nil
		}
		out = append(out, evaluation.TrialOutcome{
			Index:       int(row.TrialIndex),
			Seed:        row.Seed,
			Outcome:     evaluation.Outcome(row.Outcome),
			Steps:       int(row.Steps),
			PlanLength:  int(row.PlanLength),
			EventsFired: fired,
		})
	}
	return out, nil
}

func (r EvaluationRunRepo) ListRuns(ctx context.Context, limit int) ([]ports.EvaluationRun, error) {
	rows := []model.EvaluationRun{}
	query := getDBFromCtx(ctx, r.db).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "created_at"}, Desc: true}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.EvaluationRun, 0, len(rows))
	for _, row := range rows {
		run, err := toRun(row)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, nil
}

func toRun(row model.EvaluationRun) (ports.EvaluationRun, error) {
	var cfg world.Config
	if err := json.Unmarshal([]byte(row.Config), &cfg); err != nil {
		return ports.EvaluationRun{}, fmt.Errorf("decode config of run %s: %w", row.RunID, err)
	}
	return ports.EvaluationRun{
		RunID:    row.RunID,
		Prompt:   row.Prompt,
		Config:   cfg,
		Schedule: row.Schedule,
		VarySeed: row.VarySeed,
		Metrics: evaluation.Metrics{
			Trials:          int(row.Trials),
			SuccessRate:     row.SuccessRate,
			AvgStepsSuccess: row.AvgStepsSuccess,
			Failures:        int(row.Failures),
		},
		CreatedAt: row.CreatedAt,
	}, nil
}
