package store

import (
	"fmt"

	"github.com/Niftys/ebiddle/internal/models"
)

// Store persists daily snapshots and run logs. The refresh orchestrator is
// the only writer of snapshots and primary run logs; the completion monitor
// writes backup-keyed run logs only.
type Store interface {
	// PutSnapshot fully replaces the snapshot for (date, category). It sets
	// the item count and creation time; it never merges with a prior write.
	PutSnapshot(date, category string, items []models.Item) error
	// GetSnapshot returns exists=false (not an error) when no snapshot has
	// been written for the key yet.
	GetSnapshot(date, category string) (*models.CategorySnapshot, bool, error)

	PutRunLog(key string, runLog *models.RunLog) error
	GetRunLog(key string) (*models.RunLog, bool, error)
}

// StoreError wraps a persistence failure with the failed operation.
type StoreError struct {
	Op  string
	Err error
}

func (e StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e StoreError) Unwrap() error {
	return e.Err
}
