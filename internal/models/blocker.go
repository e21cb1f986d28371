package models

import "time"

// Blocker resolution states.
const (
	BlockerOpen       = "open"
	BlockerInProgress = "in-progress"
	BlockerResolved   = "resolved"
)

// Blocker is an impediment reported against a feature. The status enum is
// authoritative; ResolvedAt is stamped when status becomes resolved. A
// blocker is active while status != resolved.
type Blocker struct {
	ID          string     `gorm:"primaryKey;size:64" json:"id"`
	FeatureID   string     `gorm:"size:64;index;not null" json:"feature_id"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Severity    string     `gorm:"size:16;default:medium" json:"severity"`
	Status      string     `gorm:"size:16;default:open;index" json:"status"`
	Resolution  string     `gorm:"type:text" json:"resolution"`
	CreatedAt   time.Time  `json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at"`
}

// Active reports whether the blocker still blocks its feature.
func (b Blocker) Active() bool {
	return b.Status != BlockerResolved
}

// ValidSeverity reports whether s is a valid blocker severity. Severities
// share the priority scale.
func ValidSeverity(s string) bool {
	return ValidPriority(s)
}

// ValidBlockerStatus reports whether s is a valid blocker status.
func ValidBlockerStatus(s string) bool {
	return s == BlockerOpen || s == BlockerInProgress || s == BlockerResolved
}
