package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"timed-quiz/internal/domain"
)

// LeaderboardStore persists the leaderboard in the leaderboard_entries table.
type LeaderboardStore struct {
	pool  *pgxpool.Pool
	limit int
}

func NewLeaderboardStore(pool *pgxpool.Pool, limit int) *LeaderboardStore {
	if limit <= 0 {
		limit = domain.MaxLeaderboardEntries
	}
	return &LeaderboardStore{pool: pool, limit: limit}
}

func (s *LeaderboardStore) Load(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT name, score, total, recorded_at
		FROM leaderboard_entries
		ORDER BY score DESC, recorded_at ASC, id ASC
		LIMIT $1`, s.limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LeaderboardEntry, 0, s.limit)
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.Name, &e.Score, &e.Total, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Save inserts the entry and deletes everything outside the top limit in one transaction.
func (s *LeaderboardStore) Save(ctx context.Context, entry domain.LeaderboardEntry) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO leaderboard_entries (name, score, total, recorded_at) VALUES ($1, $2, $3, $4)`,
			entry.Name, entry.Score, entry.Total, entry.Timestamp.UTC()); err != nil {
			return fmt.Errorf("insert leaderboard entry: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			DELETE FROM leaderboard_entries WHERE id NOT IN (
				SELECT id FROM leaderboard_entries
				ORDER BY score DESC, recorded_at ASC, id ASC
				LIMIT $1
			)`, s.limit); err != nil {
			return fmt.Errorf("truncate leaderboard: %w", err)
		}
		return nil
	})
}

func (s *LeaderboardStore) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM leaderboard_entries`); err != nil {
		return fmt.Errorf("clear leaderboard: %w", err)
	}
	return nil
}

func (s *LeaderboardStore) inTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
