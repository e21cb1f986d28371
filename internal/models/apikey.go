package models

import "time"

// APIKey is a long-lived bearer credential for programmatic access. Only a
// bcrypt hash of the secret is stored; the plaintext is shown once at
// creation and is unrecoverable afterward. Revoked is monotonic —
// false to true only.
type APIKey struct {
	ID         string     `gorm:"primaryKey;size:64" json:"id"`
	UserID     string     `gorm:"size:128;index;not null" json:"-"`
	KeyHash    string     `gorm:"size:128;not null;index" json:"-"`
	Label      string     `gorm:"size:100;not null" json:"label"`
	PlanTier   string     `gorm:"size:32;default:free" json:"plan_tier"`
	Revoked    bool       `gorm:"default:false" json:"revoked"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
}
