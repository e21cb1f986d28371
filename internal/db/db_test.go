package db

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/zulandar/architectflow/internal/config"
	"github.com/zulandar/architectflow/internal/models"
)

func TestOpenEmbedded_CreatesAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	gdb, err := OpenEmbedded(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for _, m := range AllModels() {
		if !gdb.Migrator().HasTable(m) {
			t.Errorf("missing table for %T", m)
		}
	}

	// Migration is idempotent.
	if err := AutoMigrate(gdb); err != nil {
		t.Errorf("second migrate: %v", err)
	}
}

func TestOpenEmbedded_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	gdb, err := OpenEmbedded(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := gdb.Create(&models.Project{ID: "demo", Name: "Demo", UserID: "alice"}).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}

	reopened, err := OpenEmbedded(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	var count int64
	if err := reopened.Model(&models.Project{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("got %d projects after reopen, want 1", count)
	}
}

func TestOpen_BackendSelection(t *testing.T) {
	t.Run("embedded by default", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Database.Backend = "auto"
		cfg.Database.Path = filepath.Join(t.TempDir(), "auto.db")

		if _, err := Open(cfg); err != nil {
			t.Fatalf("open: %v", err)
		}
	})

	t.Run("hosted without URL not configured", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Database.Backend = "hosted"

		_, err := Open(cfg)
		if !errors.Is(err, ErrNotConfigured) {
			t.Errorf("error = %v, want ErrNotConfigured", err)
		}
	})
}

func TestOpenHosted_BadDSN(t *testing.T) {
	_, err := OpenHosted("this is not a dsn ://")
	if err == nil {
		t.Fatal("expected a parse error for a malformed DSN")
	}
}
