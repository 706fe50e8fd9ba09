package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoryUnit is one stored cabinet. Config, cutlist and rendered rows are
// kept as JSON documents so stored units render exactly as they did when
// they were appended.
type HistoryUnit struct {
	ID          uuid.UUID `gorm:"type:text;primaryKey"`
	Seq         int       `gorm:"not null;uniqueIndex"`
	CabinetType string    `gorm:"type:text;not null;index"`
	Config      []byte    `gorm:"type:blob;not null"`
	CutList     []byte    `gorm:"type:blob;not null"`
	Rows        []byte    `gorm:"type:blob;not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (HistoryUnit) TableName() string { return "history_units" }
