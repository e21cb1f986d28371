package store

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zulandar/architectflow/internal/models"
	"gorm.io/gorm"
)

// CreateProjectInput holds the caller-supplied fields for a new project.
type CreateProjectInput struct {
	Name             string
	Description      string
	TechStack        []string
	ArchitectureType string
}

// Slugify derives a project identifier from its name: lowercase, runs of
// non-alphanumeric characters collapsed to single hyphens, leading and
// trailing hyphens trimmed. The derivation is deterministic, so two names
// that normalize the same way collide on the uniqueness constraint.
func Slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}
	slug := b.String()
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}

// ListProjects returns all projects owned by userID, each annotated with a
// live feature count, most recently updated first.
func (s *Store) ListProjects(userID string) ([]models.Project, error) {
	projects := []models.Project{}
	err := s.db.Model(&models.Project{}).
		Select("projects.*, COUNT(features.id) AS feature_count").
		Joins("LEFT JOIN features ON features.project_id = projects.id").
		Where("projects.user_id = ?", userID).
		Group("projects.id").
		Order("projects.updated_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("store: list projects for %s: %w", userID, err)
	}
	return projects, nil
}

// GetProject returns one project owned by userID, with its feature count.
func (s *Store) GetProject(userID, projectID string) (*models.Project, error) {
	var p models.Project
	err := s.db.Model(&models.Project{}).
		Select("projects.*, COUNT(features.id) AS feature_count").
		Joins("LEFT JOIN features ON features.project_id = projects.id").
		Where("projects.id = ? AND projects.user_id = ?", projectID, userID).
		Group("projects.id").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("store: project %s: %w", projectID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get project %s: %w", projectID, err)
	}
	return &p, nil
}

// CreateProject validates the name, derives the slug identifier, and inserts
// the row. A duplicate slug surfaces as ErrConflict via the backend's
// uniqueness constraint — there is no pre-check, so concurrent creates
// cannot race past it.
func (s *Store) CreateProject(userID string, in CreateProjectInput) (*models.Project, error) {
	if n := utf8.RuneCountInString(in.Name); n < 3 || n > 50 {
		return nil, fmt.Errorf("store: project name must be 3-50 characters: %w", ErrValidation)
	}
	id := Slugify(in.Name)
	if id == "" {
		return nil, fmt.Errorf("store: project name %q yields an empty identifier: %w", in.Name, ErrValidation)
	}

	p := models.Project{
		ID:               id,
		UserID:           userID,
		Name:             in.Name,
		Description:      in.Description,
		TechStack:        models.StringList(in.TechStack),
		ArchitectureType: in.ArchitectureType,
	}
	if err := s.db.Create(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("store: project %q: %w", id, ErrConflict)
		}
		return nil, fmt.Errorf("store: create project %q: %w", id, err)
	}
	return &p, nil
}

// DeleteProject removes a project and everything under it inside one
// transaction, in referential order: implementations, then blockers, then
// features, then the project row. Reports whether a project was removed.
func (s *Store) DeleteProject(userID, projectID string) (bool, error) {
	deleted := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		featureIDs := func() *gorm.DB {
			return tx.Model(&models.Feature{}).
				Select("id").
				Where("project_id = ? AND user_id = ?", projectID, userID)
		}

		if err := tx.Where("feature_id IN (?)", featureIDs()).
			Delete(&models.Implementation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("feature_id IN (?)", featureIDs()).
			Delete(&models.Blocker{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ? AND user_id = ?", projectID, userID).
			Delete(&models.Feature{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ? AND user_id = ?", projectID, userID).
			Delete(&models.Project{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("store: delete project %s: %w", projectID, err)
	}
	return deleted, nil
}
