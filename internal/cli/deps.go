package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"timed-quiz/internal/app"
	"timed-quiz/internal/config"
	"timed-quiz/internal/infra/file"
	"timed-quiz/internal/infra/memory"
	pginfra "timed-quiz/internal/infra/postgres"
	redisinfra "timed-quiz/internal/infra/redis"
	"timed-quiz/internal/infra/remote"
	"timed-quiz/internal/infra/sqlite"
	"timed-quiz/internal/telemetry"
)

// deps opens shared clients lazily and closes them together.
type deps struct {
	cfg     config.Config
	redis   *redis.Client
	pool    *pgxpool.Pool
	closers []func()
}

func newDeps(cfg config.Config) *deps {
	return &deps{cfg: cfg}
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

func (d *deps) redisClient() (*redis.Client, error) {
	if d.redis != nil {
		return d.redis, nil
	}
	if d.cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis addr not configured")
	}
	d.redis = redis.NewClient(&redis.Options{
		Addr:     d.cfg.Redis.Addr,
		Password: d.cfg.Redis.Password,
		DB:       d.cfg.Redis.DB,
	})
	telemetry.MonitorRedis(d.redis)
	d.closers = append(d.closers, func() { _ = d.redis.Close() })
	return d.redis, nil
}

func (d *deps) pgPool(ctx context.Context) (*pgxpool.Pool, error) {
	if d.pool != nil {
		return d.pool, nil
	}
	if d.cfg.Postgres.URL == "" {
		return nil, fmt.Errorf("postgres url not configured")
	}
	pool, err := pgxpool.Connect(ctx, d.cfg.Postgres.URL)
	if err != nil {
		return nil, err
	}
	d.pool = pool
	d.closers = append(d.closers, pool.Close)
	return pool, nil
}

func (d *deps) questionLoader(ctx context.Context) (memory.QuestionLoader, error) {
	switch d.cfg.Quiz.Backend {
	case "", "file":
		return file.NewQuestionLoader(d.cfg.Quiz.Dir), nil
	case "http":
		return remote.NewQuestionLoader(d.cfg.Quiz.BaseURL, nil)
	case "postgres":
		pool, err := d.pgPool(ctx)
		if err != nil {
			return nil, err
		}
		return pginfra.NewQuestionLoader(pool), nil
	default:
		return nil, fmt.Errorf("unknown question backend %q", d.cfg.Quiz.Backend)
	}
}

// questionRepository caches the configured loader in redis when redis is configured,
// in process memory otherwise.
func (d *deps) questionRepository(ctx context.Context) (app.QuestionRepository, error) {
	loader, err := d.questionLoader(ctx)
	if err != nil {
		return nil, err
	}
	ttl := config.TTLDuration(d.cfg.Quiz.CacheTTL, 10*time.Minute)
	if d.cfg.Redis.Addr != "" {
		client, err := d.redisClient()
		if err != nil {
			return nil, err
		}
		return redisinfra.NewQuestionRepository(client, loader, ttl), nil
	}
	return memory.NewQuestionRepository(loader, ttl), nil
}

func (d *deps) leaderboardStore(ctx context.Context) (app.LeaderboardStore, error) {
	limit := d.cfg.Leaderboard.Limit
	switch d.cfg.Leaderboard.Backend {
	case "", "file":
		return file.NewLeaderboardStore(d.cfg.Leaderboard.Path, limit), nil
	case "memory":
		return memory.NewLeaderboardStore(limit), nil
	case "sqlite":
		store, err := sqlite.NewLeaderboardStore(d.cfg.Leaderboard.Path, limit)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, func() { _ = store.Close() })
		return store, nil
	case "redis":
		client, err := d.redisClient()
		if err != nil {
			return nil, err
		}
		return redisinfra.NewLeaderboardStore(client, d.cfg.Leaderboard.Key, limit), nil
	case "postgres":
		pool, err := d.pgPool(ctx)
		if err != nil {
			return nil, err
		}
		return pginfra.NewLeaderboardStore(pool, limit), nil
	default:
		return nil, fmt.Errorf("unknown leaderboard backend %q", d.cfg.Leaderboard.Backend)
	}
}

// optionalLeaderboard opens the configured store for gameplay. A store that cannot be opened
// is logged and counted, and games run without saving scores.
func (d *deps) optionalLeaderboard(ctx context.Context) app.LeaderboardStore {
	store, err := d.leaderboardStore(ctx)
	if err != nil {
		telemetry.LeaderboardUnavailable.Inc()
		slog.WarnContext(ctx, "leaderboard unavailable, scores will not be saved",
			"backend", d.cfg.Leaderboard.Backend,
			"error", err,
		)
		return nil
	}
	return store
}

func (d *deps) gameConfig() app.Config {
	return app.Config{
		SetID:        d.cfg.Quiz.Source,
		TimeLimit:    d.cfg.Quiz.TimeLimit,
		TickInterval: config.TTLDuration(d.cfg.Quiz.Tick, time.Second),
	}
}
