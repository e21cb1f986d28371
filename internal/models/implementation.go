package models

import "time"

// Implementation is an append-only record of work performed against a
// feature. Rows are never mutated after creation.
type Implementation struct {
	ID            string     `gorm:"primaryKey;size:64" json:"id"`
	FeatureID     string     `gorm:"size:64;index;not null" json:"feature_id"`
	FilesAffected StringList `gorm:"type:text" json:"files_affected"`
	PatternsUsed  StringList `gorm:"type:text" json:"patterns_used"`
	Notes         string     `gorm:"type:text" json:"notes"`
	Implementer   string     `gorm:"size:128" json:"implementer"`
	CreatedAt     time.Time  `json:"created_at"`
}
