package model

import "time"

const TableNameWorldEvent = "world_events"

type WorldEvent struct {
	ID         int64     `gorm:"column:id;type:bigint;primaryKey;autoIncrement:true" json:"id"`
	SessionID  string    `gorm:"column:session_id;type:text;not null" json:"session_id"`
	Type       string    `gorm:"column:type;type:text;not null" json:"type"`
	Tick       int32     `gorm:"column:tick;type:integer;not null" json:"tick"`
	OccurredAt time.Time `gorm:"column:occurred_at;type:timestamp with time zone;not null" json:"occurred_at"`
	Payload    string    `gorm:"column:payload;type:jsonb;not null" json:"payload"`
}

func (*WorldEvent) TableName() string {
	return TableNameWorldEvent
}
