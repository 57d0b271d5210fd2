package models

import "time"

// CategorySnapshot is the persisted unit: one category's item list for one
// calendar date. Writes fully replace the prior row for the same key.
type CategorySnapshot struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Date      string    `json:"date" gorm:"size:10;uniqueIndex:idx_snapshot_key;not null"`
	Category  string    `json:"category" gorm:"size:32;uniqueIndex:idx_snapshot_key;not null"`
	Items     []Item    `json:"items" gorm:"serializer:json"`
	ItemCount int       `json:"itemCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// CategoryResult is one entry in a run's results array.
type CategoryResult struct {
	Category      string `json:"category"`
	ItemCount     int    `json:"itemCount"`
	TotalPoolSize int    `json:"totalPoolSize,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Run trigger values.
const (
	TriggerScheduled     = "scheduled"
	TriggerManualAPICall = "manual_api_call"
	TriggerBackupScript  = "backup_script"
)

// RunLog records one refresh attempt. The primary run for a date is stored
// under LogKey == date; backup attempts use BackupLogKey(date) so they never
// collide with the primary entry.
type RunLog struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	LogKey    string           `json:"logKey" gorm:"size:24;uniqueIndex;not null"`
	Date      string           `json:"date" gorm:"size:10;index;not null"`
	Timestamp time.Time        `json:"timestamp"`
	StartTime time.Time        `json:"startTime"`
	EndTime   time.Time        `json:"endTime"`
	Duration  float64          `json:"duration"`
	Results   []CategoryResult `json:"results" gorm:"serializer:json"`
	Success   bool             `json:"success"`
	Trigger   string           `json:"trigger" gorm:"size:24"`
	Error     string           `json:"error,omitempty"`
	// OriginalStatus is set on backup entries only and records why the
	// monitor decided to re-trigger ("missing_or_failed").
	OriginalStatus string `json:"originalStatus,omitempty"`
}

// BackupLogKey returns the run-log key used for a date's backup attempt.
func BackupLogKey(date string) string {
	return date + "_backup"
}
