package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"timed-quiz/internal/domain"
)

const maxTxRetries = 5

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// LeaderboardStore keeps the ranked list as one JSON value under key.
// Save is an optimistic WATCH/MULTI transaction so concurrent games don't lose entries.
type LeaderboardStore struct {
	client redis.UniversalClient
	key    string
	limit  int
}

func NewLeaderboardStore(client redis.UniversalClient, key string, limit int) *LeaderboardStore {
	if key == "" {
		key = "quiz:leaderboard"
	}
	if limit <= 0 {
		limit = domain.MaxLeaderboardEntries
	}
	return &LeaderboardStore{client: client, key: key, limit: limit}
}

func (s *LeaderboardStore) Load(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	return s.load(ctx, s.client)
}

func (s *LeaderboardStore) load(ctx context.Context, c getter) ([]domain.LeaderboardEntry, error) {
	data, err := c.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.LeaderboardEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}
	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	return entries, nil
}

func (s *LeaderboardStore) Save(ctx context.Context, entry domain.LeaderboardEntry) error {
	txf := func(tx *redis.Tx) error {
		entries, err := s.load(ctx, tx)
		if err != nil {
			return err
		}
		data, err := json.Marshal(domain.InsertLeaderboardEntry(entries, entry, s.limit))
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, s.key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("save leaderboard: %w", err)
		}
		return nil
	}
	return fmt.Errorf("save leaderboard: %w", redis.TxFailedErr)
}

func (s *LeaderboardStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear leaderboard: %w", err)
	}
	return nil
}
