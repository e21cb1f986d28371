// Package store is the single point of truth for reading and writing
// ArchitectFlow entities. It runs the same parameterized queries against
// either backend (embedded SQLite or hosted MySQL) through one GORM handle;
// both backends produce behaviorally identical results.
package store

import "gorm.io/gorm"

// Store executes entity queries against the active backend.
type Store struct {
	db *gorm.DB
}

// New wraps an open GORM handle.
func New(gdb *gorm.DB) *Store {
	return &Store{db: gdb}
}
