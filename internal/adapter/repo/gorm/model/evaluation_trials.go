package model

const TableNameEvaluationTrial = "evaluation_trials"

type EvaluationTrial struct {
	RunID       string `gorm:"column:run_id;type:text;primaryKey" json:"run_id"`
	TrialIndex  int32  `gorm:"column:trial_index;type:integer;primaryKey" json:"trial_index"`
	Seed        int64  `gorm:"column:seed;type:bigint;not null" json:"seed"`
	Outcome     string `gorm:"column:outcome;type:text;not null" json:"outcome"`
	Steps       int32  `gorm:"column:steps;type:integer;not null" json:"steps"`
	PlanLength  int32  `gorm:"column:plan_length;type:integer;not null" json:"plan_length"`
	EventsFired string `gorm:"column:events_fired;type:jsonb;not null" json:"events_fired"`
}

func (*EvaluationTrial) TableName() string {
	return TableNameEvaluationTrial
}
