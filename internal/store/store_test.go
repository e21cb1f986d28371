package store

import (
	"testing"

	"github.com/zulandar/architectflow/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(
		&models.Project{},
		&models.Feature{},
		&models.Blocker{},
		&models.Implementation{},
		&models.APIKey{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return gdb
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(openTestDB(t))
}

// mustProject creates a project or fails the test.
func mustProject(t *testing.T, s *Store, userID, name string) *models.Project {
	t.Helper()
	p, err := s.CreateProject(userID, CreateProjectInput{Name: name})
	if err != nil {
		t.Fatalf("create project %q: %v", name, err)
	}
	return p
}

// mustFeature creates a feature or fails the test.
func mustFeature(t *testing.T, s *Store, userID string, in CreateFeatureInput) *models.Feature {
	t.Helper()
	f, err := s.CreateFeature(userID, in)
	if err != nil {
		t.Fatalf("create feature %q: %v", in.Name, err)
	}
	return f
}
