package models

import "time"

// Feature statuses and priorities. Status and priority columns always hold
// one of these values; writers validate before insert.
const (
	StatusPlanned    = "planned"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusBlocked    = "blocked"

	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// FeatureStatuses lists all valid statuses in display order.
var FeatureStatuses = []string{StatusPlanned, StatusInProgress, StatusCompleted, StatusBlocked}

// FeaturePriorities lists all valid priorities from least to most urgent.
var FeaturePriorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Feature is a unit of planned or completed project work.
//
// Dependencies hold IDs of other features. The schema does not enforce that
// they exist — a dangling reference is tolerated and filtered out by
// consumers that render the dependency graph.
type Feature struct {
	ID           string     `gorm:"primaryKey;size:64" json:"id"`
	ProjectID    string     `gorm:"size:64;index;not null" json:"project_id"`
	UserID       string     `gorm:"size:128;index" json:"-"`
	Name         string     `gorm:"size:200;not null" json:"name"`
	Description  string     `gorm:"type:text" json:"description"`
	Status       string     `gorm:"size:16;default:planned;index" json:"status"`
	Priority     string     `gorm:"size:16;default:medium" json:"priority"`
	Category     string     `gorm:"size:64" json:"category"`
	Dependencies StringList `gorm:"type:text" json:"dependencies"`
	Tags         StringList `gorm:"type:text" json:"tags"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ValidStatus reports whether s is one of the enumerated feature statuses.
func ValidStatus(s string) bool {
	for _, v := range FeatureStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ValidPriority reports whether p is one of the enumerated priorities.
func ValidPriority(p string) bool {
	for _, v := range FeaturePriorities {
		if p == v {
			return true
		}
	}
	return false
}
