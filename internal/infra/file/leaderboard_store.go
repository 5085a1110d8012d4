package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"timed-quiz/internal/domain"
)

// LeaderboardStore keeps the leaderboard as a JSON array in a single file.
// Writes go to a temp file that is renamed over the target.
type LeaderboardStore struct {
	path  string
	limit int
	mu    sync.Mutex
}

func NewLeaderboardStore(path string, limit int) *LeaderboardStore {
	if path == "" {
		path = "leaderboard.json"
	}
	if limit <= 0 {
		limit = domain.MaxLeaderboardEntries
	}
	return &LeaderboardStore{path: path, limit: limit}
}

func (s *LeaderboardStore) Load(_ context.Context) ([]domain.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *LeaderboardStore) Save(_ context.Context, entry domain.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	return s.write(domain.InsertLeaderboardEntry(entries, entry, s.limit))
}

func (s *LeaderboardStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear leaderboard: %w", err)
	}
	return nil
}

func (s *LeaderboardStore) read() ([]domain.LeaderboardEntry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.LeaderboardEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	return domain.RankLeaderboard(entries, s.limit), nil
}

func (s *LeaderboardStore) write(entries []domain.LeaderboardEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".leaderboard-*.json")
	if err != nil {
		return fmt.Errorf("write leaderboard: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write leaderboard: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write leaderboard: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write leaderboard: %w", err)
	}
	return nil
}
