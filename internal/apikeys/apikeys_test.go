package apikeys

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/zulandar/architectflow/internal/models"
	"github.com/zulandar/architectflow/internal/store"
	"golang.org/x/crypto/bcrypt"
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
	if err := gdb.AutoMigrate(&models.APIKey{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return gdb
}

var hexSecret = regexp.MustCompile(`^[0-9a-f]{40}$`)

func TestCreate_SecretShape(t *testing.T) {
	gdb := openTestDB(t)

	created, err := Create(gdb, "alice", "ci key", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !hexSecret.MatchString(created.Key) {
		t.Errorf("Key = %q, want 40 lowercase hex characters", created.Key)
	}
	if created.PlanTier != DefaultPlanTier {
		t.Errorf("PlanTier = %q, want %q", created.PlanTier, DefaultPlanTier)
	}
	if created.ID == "" {
		t.Error("ID should be set")
	}
}

func TestCreate_StoresHashNotSecret(t *testing.T) {
	gdb := openTestDB(t)

	created, err := Create(gdb, "alice", "ci key", "pro")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var row models.APIKey
	if err := gdb.Where("id = ?", created.ID).First(&row).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if row.KeyHash == created.Key {
		t.Fatal("plaintext secret persisted instead of a hash")
	}
	if !strings.HasPrefix(row.KeyHash, "$2") {
		t.Errorf("KeyHash = %q, want a bcrypt hash", row.KeyHash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(row.KeyHash), []byte(created.Key)); err != nil {
		t.Errorf("stored hash does not match the returned secret: %v", err)
	}
	if row.PlanTier != "pro" {
		t.Errorf("PlanTier = %q, want pro", row.PlanTier)
	}
}

func TestCreate_LabelValidation(t *testing.T) {
	gdb := openTestDB(t)

	tests := []struct {
		name  string
		label string
	}{
		{"empty", ""},
		{"too long", strings.Repeat("x", 101)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Create(gdb, "alice", tt.label, "")
			if !errors.Is(err, store.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}

	if _, err := Create(gdb, "alice", strings.Repeat("y", 100), ""); err != nil {
		t.Errorf("100-char label: %v", err)
	}
}

func TestList_NeverExposesSecret(t *testing.T) {
	gdb := openTestDB(t)

	created, err := Create(gdb, "alice", "ci key", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := Create(gdb, "bob", "bob key", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	keys, err := List(gdb, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("got %d keys, want only alice's 1", len(keys))
	}
	k := keys[0]
	if k.ID != created.ID || k.Label != "ci key" {
		t.Errorf("listed key = %+v, want the created one", k)
	}
	if k.Revoked {
		t.Error("fresh key listed as revoked")
	}
	if k.LastUsed != nil {
		t.Error("fresh key has a last-used time")
	}
}

func TestRevoke_Terminal(t *testing.T) {
	gdb := openTestDB(t)

	created, err := Create(gdb, "alice", "ci key", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	changed, err := Revoke(gdb, "alice", created.ID)
	if err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if !changed {
		t.Error("first revoke changed = false, want true")
	}

	changed, err = Revoke(gdb, "alice", created.ID)
	if err != nil {
		t.Fatalf("second revoke: %v", err)
	}
	if changed {
		t.Error("second revoke changed = true, want false")
	}

	keys, err := List(gdb, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(keys) != 1 || !keys[0].Revoked {
		t.Error("revoked key should stay listed with Revoked = true")
	}
}

func TestRevoke_WrongUser(t *testing.T) {
	gdb := openTestDB(t)

	created, err := Create(gdb, "alice", "ci key", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	changed, err := Revoke(gdb, "bob", created.ID)
	if err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if changed {
		t.Error("non-owner revoke changed = true, want false")
	}
}

func TestValidateKeyHash(t *testing.T) {
	gdb := openTestDB(t)

	created, err := Create(gdb, "alice", "ci key", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	var row models.APIKey
	if err := gdb.Where("id = ?", created.ID).First(&row).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}

	userID, err := ValidateKeyHash(gdb, row.KeyHash)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if userID != "alice" {
		t.Errorf("userID = %q, want alice", userID)
	}

	keys, err := List(gdb, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if keys[0].LastUsed == nil {
		t.Error("validation should stamp the last-used time")
	}

	if _, err := ValidateKeyHash(gdb, "no-such-hash"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown hash: error = %v, want ErrNotFound", err)
	}

	if _, err := Revoke(gdb, "alice", created.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := ValidateKeyHash(gdb, row.KeyHash); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("revoked key: error = %v, want ErrNotFound", err)
	}
}
