package store

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/zulandar/architectflow/internal/models"
)

// historyPageSize caps the implementation history returned in one call.
const historyPageSize = 50

// ImplementationRow is an implementation joined with its feature's name.
type ImplementationRow struct {
	models.Implementation
	FeatureName string `json:"feature_name"`
}

// ListImplementations returns the implementation history, newest first,
// optionally scoped to one project and capped at historyPageSize rows.
func (s *Store) ListImplementations(projectID string) ([]ImplementationRow, error) {
	rows := []ImplementationRow{}
	q := s.db.Model(&models.Implementation{}).
		Select("implementations.*, features.name AS feature_name").
		Joins("LEFT JOIN features ON features.id = implementations.feature_id")
	if projectID != "" {
		q = q.Where("features.project_id = ?", projectID)
	}
	err := q.Order("implementations.created_at DESC").
		Limit(historyPageSize).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("store: list implementations: %w", err)
	}
	return rows, nil
}

// RecordImplementationInput holds the fields for a new implementation record.
type RecordImplementationInput struct {
	FeatureID     string
	FilesAffected []string
	PatternsUsed  []string
	Notes         string
	Implementer   string
}

// RecordImplementation appends an immutable record of work performed
// against an existing feature. Records are never updated afterward.
func (s *Store) RecordImplementation(in RecordImplementationInput) (*models.Implementation, error) {
	if len(in.FilesAffected) == 0 {
		return nil, fmt.Errorf("store: implementation needs at least one affected file: %w", ErrValidation)
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

	impl := models.Implementation{
		ID:            uuid.NewString(),
		FeatureID:     in.FeatureID,
		FilesAffected: models.StringList(in.FilesAffected),
		PatternsUsed:  models.StringList(in.PatternsUsed),
		Notes:         in.Notes,
		Implementer:   in.Implementer,
	}
	if err := s.db.Create(&impl).Error; err != nil {
		return nil, fmt.Errorf("store: record implementation for %s: %w", in.FeatureID, err)
	}
	return &impl, nil
}
