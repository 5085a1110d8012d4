package memory

import (
	"context"
	"sync"

	"timed-quiz/internal/domain"
)

// LeaderboardStore keeps the leaderboard in process memory; it is lost on exit.
type LeaderboardStore struct {
	limit   int
	mu      sync.RWMutex
	entries []domain.LeaderboardEntry
}

func NewLeaderboardStore(limit int) *LeaderboardStore {
	if limit <= 0 {
		limit = domain.MaxLeaderboardEntries
	}
	return &LeaderboardStore{limit: limit}
}

func (s *LeaderboardStore) Load(_ context.Context) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.LeaderboardEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *LeaderboardStore) Save(_ context.Context, entry domain.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = domain.InsertLeaderboardEntry(s.entries, entry, s.limit)
	return nil
}

func (s *LeaderboardStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}
