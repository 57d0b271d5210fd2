package store

import (
	"errors"
	"time"

	"github.com/Niftys/ebiddle/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists snapshots and run logs in MySQL.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) PutSnapshot(date, category string, items []models.Item) error {
	snapshot := models.CategorySnapshot{
		Date:      date,
		Category:  category,
		Items:     cleanItems(items),
		ItemCount: len(items),
		CreatedAt: time.Now(),
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{"items", "item_count", "created_at"}),
	}).Create(&snapshot).Error
	if err != nil {
		return StoreError{Op: "put snapshot", Err: err}
	}
	return nil
}

func (s *GormStore) GetSnapshot(date, category string) (*models.CategorySnapshot, bool, error) {
	var snapshot models.CategorySnapshot
	err := s.db.Where("date = ? AND category = ?", date, category).First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, StoreError{Op: "get snapshot", Err: err}
	}
	return &snapshot, true, nil
}

func (s *GormStore) PutRunLog(key string, runLog *models.RunLog) error {
	record := *runLog
	record.ID = 0
	record.LogKey = key

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "log_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"date", "timestamp", "start_time", "end_time", "duration",
			"results", "success", "trigger", "error", "original_status",
		}),
	}).Create(&record).Error
	if err != nil {
		return StoreError{Op: "put run log", Err: err}
	}
	return nil
}

func (s *GormStore) GetRunLog(key string) (*models.RunLog, bool, error) {
	var runLog models.RunLog
	err := s.db.Where("log_key = ?", key).First(&runLog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, StoreError{Op: "get run log", Err: err}
	}
	return &runLog, true, nil
}

// cleanItems drops empty image slots so absent fields are not persisted.
// Scalar fields rely on omitempty in the JSON serialization.
func cleanItems(items []models.Item) []models.Item {
	cleaned := make([]models.Item, 0, len(items))
	for _, item := range items {
		images := make([]string, 0, len(item.Images))
		for _, img := range item.Images {
			if img != "" {
				images = append(images, img)
			}
		}
		if len(images) == 0 {
			item.Images = nil
			item.Image = ""
		} else {
			item.Images = images
			item.Image = images[0]
		}
		cleaned = append(cleaned, item)
	}
	return cleaned
}
