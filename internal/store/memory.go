package store

import (
	"sync"
	"time"

	"github.com/Niftys/ebiddle/internal/models"
)

// MemoryStore is an in-memory Store used in tests and local development.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]models.CategorySnapshot
	runLogs   map[string]models.RunLog
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string]models.CategorySnapshot),
		runLogs:   make(map[string]models.RunLog),
	}
}

func snapshotKey(date, category string) string {
	return date + "/" + category
}

func (s *MemoryStore) PutSnapshot(date, category string, items []models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cleaned := cleanItems(items)
	s.snapshots[snapshotKey(date, category)] = models.CategorySnapshot{
		Date:      date,
		Category:  category,
		Items:     cleaned,
		ItemCount: len(cleaned),
		CreatedAt: time.Now(),
	}
	return nil
}

func (s *MemoryStore) GetSnapshot(date, category string) (*models.CategorySnapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.snapshots[snapshotKey(date, category)]
	if !ok {
		return nil, false, nil
	}
	cp := snapshot
	cp.Items = append([]models.Item(nil), snapshot.Items...)
	return &cp, true, nil
}

func (s *MemoryStore) PutRunLog(key string, runLog *models.RunLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := *runLog
	record.LogKey = key
	record.Results = append([]models.CategoryResult(nil), runLog.Results...)
	s.runLogs[key] = record
	return nil
}

func (s *MemoryStore) GetRunLog(key string) (*models.RunLog, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runLog, ok := s.runLogs[key]
	if !ok {
		return nil, false, nil
	}
	cp := runLog
	cp.Results = append([]models.CategoryResult(nil), runLog.Results...)
	return &cp, true, nil
}
