package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"timed-quiz/internal/domain"
)

// LeaderboardStore is a local, single-file leaderboard.
type LeaderboardStore struct {
	db    *sql.DB
	limit int
}

func NewLeaderboardStore(path string, limit int) (*LeaderboardStore, error) {
	if strings.TrimSpace(path) == "" {
		path = "leaderboard.db"
	}
	if limit <= 0 {
		limit = domain.MaxLeaderboardEntries
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &LeaderboardStore{db: db, limit: limit}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *LeaderboardStore) Close() error {
	return s.db.Close()
}

func (s *LeaderboardStore) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS leaderboard_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			score INTEGER NOT NULL,
			total INTEGER NOT NULL,
			recorded_at_unix_nano INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_leaderboard_rank ON leaderboard_entries(score DESC, recorded_at_unix_nano ASC);`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *LeaderboardStore) Load(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, score, total, recorded_at_unix_nano
		FROM leaderboard_entries
		ORDER BY score DESC, recorded_at_unix_nano ASC, id ASC
		LIMIT ?`, s.limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LeaderboardEntry, 0, s.limit)
	for rows.Next() {
		var (
			e        domain.LeaderboardEntry
			unixNano int64
		)
		if err := rows.Scan(&e.Name, &e.Score, &e.Total, &unixNano); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		e.Timestamp = time.Unix(0, unixNano).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *LeaderboardStore) Save(ctx context.Context, entry domain.LeaderboardEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO leaderboard_entries (name, score, total, recorded_at_unix_nano) VALUES (?, ?, ?, ?)`,
		entry.Name, entry.Score, entry.Total, entry.Timestamp.UnixNano()); err != nil {
		return fmt.Errorf("insert leaderboard entry: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM leaderboard_entries WHERE id NOT IN (
			SELECT id FROM leaderboard_entries
			ORDER BY score DESC, recorded_at_unix_nano ASC, id ASC
			LIMIT ?
		)`, s.limit); err != nil {
		return fmt.Errorf("truncate leaderboard: %w", err)
	}
	return tx.Commit()
}

func (s *LeaderboardStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM leaderboard_entries`); err != nil {
		return fmt.Errorf("clear leaderboard: %w", err)
	}
	return nil
}
