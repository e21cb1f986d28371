package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/zulandar/architectflow/internal/models"
	"gorm.io/gorm"
)

// priorityRank orders features critical first. Both backends accept the
// same CASE expression.
const priorityRank = "CASE priority WHEN 'critical' THEN 1 WHEN 'high' THEN 2 WHEN 'medium' THEN 3 WHEN 'low' THEN 4 ELSE 5 END"

// ListFeatures returns all features, optionally scoped to one project,
// ordered by priority (critical first) with recency as the tiebreak.
func (s *Store) ListFeatures(projectID string) ([]models.Feature, error) {
	features := []models.Feature{}
	q := s.db.Model(&models.Feature{})
	if projectID != "" {
		q = q.Where("project_id = ?", projectID)
	}
	err := q.Order(priorityRank + ", updated_at DESC").Find(&features).Error
	if err != nil {
		return nil, fmt.Errorf("store: list features: %w", err)
	}
	return features, nil
}

// ListFeaturesByStatus returns features with exactly the given status, in
// the same order as ListFeatures. An unknown status matches nothing.
func (s *Store) ListFeaturesByStatus(status, projectID string) ([]models.Feature, error) {
	features := []models.Feature{}
	q := s.db.Model(&models.Feature{}).Where("status = ?", status)
	if projectID != "" {
		q = q.Where("project_id = ?", projectID)
	}
	err := q.Order(priorityRank + ", updated_at DESC").Find(&features).Error
	if err != nil {
		return nil, fmt.Errorf("store: list features by status %q: %w", status, err)
	}
	return features, nil
}

// CreateFeatureInput holds the caller-supplied fields for a new feature.
type CreateFeatureInput struct {
	ProjectID    string
	Name         string
	Description  string
	Status       string
	Priority     string
	Category     string
	Dependencies []string
	Tags         []string
}

// CreateFeature inserts a feature under an existing project. Status and
// priority default to planned/medium and must be enumerated values.
func (s *Store) CreateFeature(userID string, in CreateFeatureInput) (*models.Feature, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("store: feature name is required: %w", ErrValidation)
	}
	if in.Status == "" {
		in.Status = models.StatusPlanned
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !models.ValidStatus(in.Status) {
		return nil, fmt.Errorf("store: feature status %q: %w", in.Status, ErrValidation)
	}
	if !models.ValidPriority(in.Priority) {
		return nil, fmt.Errorf("store: feature priority %q: %w", in.Priority, ErrValidation)
	}

	var count int64
	if err := s.db.Model(&models.Project{}).
		Where("id = ? AND user_id = ?", in.ProjectID, userID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("store: check project %s: %w", in.ProjectID, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("store: project %s: %w", in.ProjectID, ErrNotFound)
	}

	f := models.Feature{
		ID:           uuid.NewString(),
		ProjectID:    in.ProjectID,
		UserID:       userID,
		Name:         in.Name,
		Description:  in.Description,
		Status:       in.Status,
		Priority:     in.Priority,
		Category:     in.Category,
		Dependencies: models.StringList(in.Dependencies),
		Tags:         models.StringList(in.Tags),
	}
	if err := s.db.Create(&f).Error; err != nil {
		return nil, fmt.Errorf("store: create feature %q: %w", in.Name, err)
	}
	return &f, nil
}

// FeatureDetails is a feature plus its full implementation history and its
// currently active blockers.
type FeatureDetails struct {
	models.Feature
	Implementations []models.Implementation `json:"implementations"`
	Blockers        []models.Blocker        `json:"blockers"`
}

// GetFeatureWithDetails returns the feature, its implementations (newest
// first), and its active blockers (newest first).
func (s *Store) GetFeatureWithDetails(featureID string) (*FeatureDetails, error) {
	var f models.Feature
	err := s.db.Where("id = ?", featureID).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("store: feature %s: %w", featureID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get feature %s: %w", featureID, err)
	}

	details := FeatureDetails{
		Feature:         f,
		Implementations: []models.Implementation{},
		Blockers:        []models.Blocker{},
	}
	if err := s.db.Where("feature_id = ?", featureID).
		Order("created_at DESC").
		Find(&details.Implementations).Error; err != nil {
		return nil, fmt.Errorf("store: implementations for %s: %w", featureID, err)
	}
	if err := s.db.Where("feature_id = ? AND status <> ?", featureID, models.BlockerResolved).
		Order("created_at DESC").
		Find(&details.Blockers).Error; err != nil {
		return nil, fmt.Errorf("store: blockers for %s: %w", featureID, err)
	}
	return &details, nil
}
