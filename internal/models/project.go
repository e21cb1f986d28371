package models

import "time"

// Project is the top-level container scoping features, blockers, and
// implementations to one user-owned workspace. The ID is a slug derived
// from the name at creation time and never changes afterward.
type Project struct {
	ID               string     `gorm:"primaryKey;size:64" json:"id"`
	UserID           string     `gorm:"size:128;index;not null" json:"-"`
	Name             string     `gorm:"size:50;not null" json:"name"`
	Description      string     `gorm:"type:text" json:"description"`
	TechStack        StringList `gorm:"type:text" json:"tech_stack"`
	ArchitectureType string     `gorm:"size:64" json:"architecture_type"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// FeatureCount is filled by list queries, not stored.
	FeatureCount int `gorm:"->;-:migration" json:"feature_count"`
}
