package audit

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage implements the Storage interface with an in-memory slice.
// Intended for testing and for deployments that do not need a durable
// archive.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries []*Entry
}

// NewMemoryStorage creates an in-memory archive backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Append persists one entry.
func (s *MemoryStorage) Append(ctx context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryCopy := *entry
	s.entries = append(s.entries, &entryCopy)
	return nil
}

// List retrieves entries matching the query in id order.
func (s *MemoryStorage) List(ctx context.Context, query *Query) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*Entry
	for _, e := range s.entries {
		if !matchesQuery(e, query) {
			continue
		}
		entryCopy := *e
		results = append(results, &entryCopy)
	}

	if query != nil {
		if query.Offset > 0 {
			if query.Offset >= len(results) {
				return []*Entry{}, nil
			}
			results = results[query.Offset:]
		}
		if query.Limit > 0 && query.Limit < len(results) {
			results = results[:query.Limit]
		}
	}
	return results, nil
}

// Count returns the number of entries matching the query.
func (s *MemoryStorage) Count(ctx context.Context, query *Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, e := range s.entries {
		if matchesQuery(e, query) {
			n++
		}
	}
	return n, nil
}

// Prune removes entries older than the cutoff.
func (s *MemoryStorage) Prune(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	var removed int64
	for _, e := range s.entries {
		if e.Timestamp.Before(before) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return removed, nil
}

// Close releases nothing for the memory backend.
func (s *MemoryStorage) Close() error {
	return nil
}

func matchesQuery(e *Entry, q *Query) bool {
	if q == nil {
		return true
	}
	if q.BuyerID != "" && e.BuyerID != q.BuyerID {
		return false
	}
	if q.BiomeID != "" && e.BiomeID != q.BiomeID {
		return false
	}
	if q.Status != "" && e.Status != q.Status {
		return false
	}
	if q.StartTime != nil && e.Timestamp.Before(*q.StartTime) {
		return false
	}
	if q.EndTime != nil && e.Timestamp.After(*q.EndTime) {
		return false
	}
	return true
}
