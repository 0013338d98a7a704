package model

import "time"

const TableNameEvaluationRun = "evaluation_runs"

type EvaluationRun struct {
	RunID           string    `gorm:"column:run_id;type:text;primaryKey" json:"run_id"`
	Prompt          string    `gorm:"column:prompt;type:text;not null" json:"prompt"`
	Config          string    `gorm:"column:config;type:jsonb;not null" json:"config"`
	Schedule        string    `gorm:"column:schedule;type:text;not null" json:"schedule"`
	VarySeed        bool      `gorm:"column:vary_seed;type:boolean;not null" json:"vary_seed"`
	Trials          int32     `gorm:"column:trials;type:integer;not null" json:"trials"`
	SuccessRate     float64   `gorm:"column:success_rate;type:double precision;not null" json:"success_rate"`
	AvgStepsSuccess *float64  `gorm:"column:avg_steps_success;type:double precision" json:"avg_steps_success"`
	Failures        int32     `gorm:"column:failures;type:integer;not null" json:"failures"`
	CreatedAt       time.Time `gorm:"column:created_at;type:timestamp with time zone;not null" json:"created_at"`
}

func (*EvaluationRun) TableName() string {
	return TableNameEvaluationRun
}
