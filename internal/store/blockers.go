package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zulandar/architectflow/internal/models"
	"gorm.io/gorm"
)

// severityRank orders blockers critical first.
const severityRank = "CASE severity WHEN 'critical' THEN 1 WHEN 'high' THEN 2 WHEN 'medium' THEN 3 WHEN 'low' THEN 4 ELSE 5 END"

// BlockerRow is a blocker joined with its owning feature's name.
type BlockerRow struct {
	models.Blocker
	FeatureName string `json:"feature_name"`
}

// ListBlockers returns blockers with their feature names, optionally scoped
// to one project. Resolved blockers are excluded unless includeResolved is
// set. Ordered by severity (critical first) then recency.
func (s *Store) ListBlockers(projectID string, includeResolved bool) ([]BlockerRow, error) {
	rows := []BlockerRow{}
	q := s.db.Model(&models.Blocker{}).
		Select("blockers.*, features.name AS feature_name").
		Joins("LEFT JOIN features ON features.id = blockers.feature_id")
	if projectID != "" {
		q = q.Where("features.project_id = ?", projectID)
	}
	if !includeResolved {
		q = q.Where("blockers.status <> ?", models.BlockerResolved)
	}
	err := q.Order(severityRank + ", blockers.created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("store: list blockers: %w", err)
	}
	return rows, nil
}

// CreateBlockerInput holds the caller-supplied fields for a new blocker.
type CreateBlockerInput struct {
	FeatureID   string
	Description string
	Severity    string
}

// CreateBlocker records an impediment against an existing feature.
func (s *Store) CreateBlocker(in CreateBlockerInput) (*models.Blocker, error) {
	if in.Description == "" {
		return nil, fmt.Errorf("store: blocker description is required: %w", ErrValidation)
	}
	if in.Severity == "" {
		in.Severity = models.PriorityMedium
	}
	if !models.ValidSeverity(in.Severity) {
		return nil, fmt.Errorf("store: blocker severity %q: %w", in.Severity, ErrValidation)
	}

	var count int64
	if err := s.db.Model(&models.Feature{}).
		Where("id = ?", in.FeatureID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("store: check feature %s: %w", in.FeatureID, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("store: feature %s: %w", in.FeatureID, ErrNotFound)
	}

	b := models.Blocker{
		ID:          uuid.NewString(),
		FeatureID:   in.FeatureID,
		Description: in.Description,
		Severity:    in.Severity,
		Status:      models.BlockerOpen,
	}
	if err := s.db.Create(&b).Error; err != nil {
		return nil, fmt.Errorf("store: create blocker for %s: %w", in.FeatureID, err)
	}
	return &b, nil
}

// ResolveBlocker marks a blocker resolved, stamping the resolution time and
// optional notes. Returns whether the row changed; resolving an already
// resolved blocker is a no-op that reports false.
func (s *Store) ResolveBlocker(blockerID, notes string) (bool, error) {
	var b models.Blocker
	err := s.db.Where("id = ?", blockerID).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("store: blocker %s: %w", blockerID, ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("store: get blocker %s: %w", blockerID, err)
	}

	now := time.Now().UTC()
	res := s.db.Model(&models.Blocker{}).
		Where("id = ? AND status <> ?", blockerID, models.BlockerResolved).
		Updates(map[string]interface{}{
			"status":      models.BlockerResolved,
			"resolution":  notes,
			"resolved_at": now,
		})
	if res.Error != nil {
		return false, fmt.Errorf("store: resolve blocker %s: %w", blockerID, res.Error)
	}
	return res.RowsAffected > 0, nil
}
