package models

import "time"

// Preference is a persisted display setting keyed by name.
type Preference struct {
	Key       string    `gorm:"column:name;type:text;primaryKey"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Preference) TableName() string { return "preferences" }
