package sink

import (
	"context"
	"sync"
)

// MemoryStorage implements the Storage interface in memory. Intended for
// testing.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []*TrainingRecord
}

// NewMemoryStorage creates an in-memory training record backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store persists one training record.
func (s *MemoryStorage) Store(ctx context.Context, record *TrainingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recordCopy := *record
	s.records = append(s.records, &recordCopy)
	return nil
}

// Count returns the number of stored records, optionally filtered by biome.
func (s *MemoryStorage) Count(ctx context.Context, biomeID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if biomeID == "" {
		return int64(len(s.records)), nil
	}
	var n int64
	for _, r := range s.records {
		if r.BiomeID == biomeID {
			n++
		}
	}
	return n, nil
}

// Records returns a copy of all stored records, for tests.
func (s *MemoryStorage) Records() []*TrainingRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*TrainingRecord, len(s.records))
	for i, r := range s.records {
		recordCopy := *r
		out[i] = &recordCopy
	}
	return out
}

// Close releases nothing for the memory backend.
func (s *MemoryStorage) Close() error {
	return nil
}
