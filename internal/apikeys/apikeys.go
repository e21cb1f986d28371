// Package apikeys manages the credential lifecycle for programmatic access,
// independent of interactive login. Secrets are hashed with bcrypt at rest;
// the plaintext is returned exactly once at creation.
package apikeys

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/zulandar/architectflow/internal/models"
	"github.com/zulandar/architectflow/internal/store"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// secretBytes yields a 40-character hex secret.
const secretBytes = 20

// DefaultPlanTier is used when the caller supplies none.
const DefaultPlanTier = "free"

// CreatedKey is the one-time creation result. Key holds the plaintext
// secret and is unrecoverable after this value is discarded.
type CreatedKey struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	PlanTier  string    `json:"planTier"`
	CreatedAt time.Time `json:"createdAt"`
}

// KeyInfo is the listable view of a key — never the secret or its hash.
type KeyInfo struct {
	ID        string     `json:"id"`
	Label     string     `json:"label"`
	PlanTier  string     `json:"planTier"`
	Revoked   bool       `json:"revoked"`
	LastUsed  *time.Time `json:"lastUsed"`
	CreatedAt time.Time  `json:"createdAt"`
}

// generateSecret returns a fresh random secret and its bcrypt hash.
func generateSecret() (secret, hash string, err error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("apikeys: generate secret: %w", err)
	}
	secret = hex.EncodeToString(buf)

	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("apikeys: hash secret: %w", err)
	}
	return secret, string(h), nil
}

// Create generates a key for userID and persists only its hash. The
// returned plaintext secret is shown once; losing it means revoking and
// reissuing.
func Create(gdb *gorm.DB, userID, label, planTier string) (*CreatedKey, error) {
	if n := utf8.RuneCountInString(label); n < 1 || n > 100 {
		return nil, fmt.Errorf("apikeys: label must be 1-100 characters: %w", store.ErrValidation)
	}
	if planTier == "" {
		planTier = DefaultPlanTier
	}

	secret, hash, err := generateSecret()
	if err != nil {
		return nil, err
	}

	key := models.APIKey{
		ID:       uuid.NewString(),
		UserID:   userID,
		KeyHash:  hash,
		Label:    label,
		PlanTier: planTier,
		Revoked:  false,
	}
	if err := gdb.Create(&key).Error; err != nil {
		return nil, fmt.Errorf("apikeys: create key for %s: %w", userID, err)
	}

	return &CreatedKey{
		ID:        key.ID,
		Key:       secret,
		Label:     key.Label,
		PlanTier:  key.PlanTier,
		CreatedAt: key.CreatedAt,
	}, nil
}

// List returns all keys owned by userID, newest first.
func List(gdb *gorm.DB, userID string) ([]KeyInfo, error) {
	var keys []models.APIKey
	if err := gdb.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&keys).Error; err != nil {
		return nil, fmt.Errorf("apikeys: list keys for %s: %w", userID, err)
	}

	out := make([]KeyInfo, len(keys))
	for i, k := range keys {
		out[i] = KeyInfo{
			ID:        k.ID,
			Label:     k.Label,
			PlanTier:  k.PlanTier,
			Revoked:   k.Revoked,
			LastUsed:  k.LastUsedAt,
			CreatedAt: k.CreatedAt,
		}
	}
	return out, nil
}

// Revoke marks a key revoked if it belongs to userID and is not already
// revoked. Returns whether a row changed; revocation is terminal, so a
// second call reports false. Callers cannot distinguish "not owned" from
// "already revoked" — both collapse to false.
func Revoke(gdb *gorm.DB, userID, keyID string) (bool, error) {
	res := gdb.Model(&models.APIKey{}).
		Where("id = ? AND user_id = ? AND revoked = ?", keyID, userID, false).
		Update("revoked", true)
	if res.Error != nil {
		return false, fmt.Errorf("apikeys: revoke key %s: %w", keyID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ValidateKeyHash looks up a non-revoked key by its stored hash, stamps its
// last-used time, and returns the owning user id. This is the verification
// path for external credential-bearing clients.
func ValidateKeyHash(gdb *gorm.DB, keyHash string) (string, error) {
	var key models.APIKey
	err := gdb.Where("key_hash = ? AND revoked = ?", keyHash, false).First(&key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("apikeys: no key for hash: %w", store.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("apikeys: look up key: %w", err)
	}

	now := time.Now().UTC()
	if err := gdb.Model(&models.APIKey{}).
		Where("id = ?", key.ID).
		Update("last_used_at", now).Error; err != nil {
		return "", fmt.Errorf("apikeys: stamp last use of %s: %w", key.ID, err)
	}
	return key.UserID, nil
}
