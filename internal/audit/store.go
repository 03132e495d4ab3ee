package audit

import (
	"sync"

	"github.com/linkmaxxer/gatekeeper/internal/models"
)

// Store keeps an append-only, in-memory record of grants for the lifetime
// of the process. It backs the operator API and the single-reissue policy.
type Store struct {
	mu      sync.RWMutex
	records []models.GrantRecord
	latest  map[int64]int
}

func NewStore() *Store {
	return &Store{latest: make(map[int64]int)}
}

// Append adds a grant record. Records are never updated or removed.
func (s *Store) Append(rec models.GrantRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	s.latest[rec.UserID] = len(s.records) - 1
}

// LatestByUser returns the most recent grant recorded for a user.
func (s *Store) LatestByUser(userID int64) (models.GrantRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.latest[userID]
	if !ok {
		return models.GrantRecord{}, false
	}
	return s.records[idx], true
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(limit int) []models.GrantRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.records) {
		limit = len(s.records)
	}
	out := make([]models.GrantRecord, 0, limit)
	for i := len(s.records) - 1; i >= len(s.records)-limit; i-- {
		out = append(out, s.records[i])
	}
	return out
}
