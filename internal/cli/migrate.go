package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"timed-quiz/internal/config"
	"timed-quiz/internal/domain"
	"timed-quiz/internal/infra/file"
	pginfra "timed-quiz/internal/infra/postgres"
	pgmigrations "timed-quiz/internal/infra/postgres/migrations"
)

// NewMigrateCmd applies database migrations and optionally seeds a question set.
func NewMigrateCmd(configPath *string) *cobra.Command {
	var seed string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *configPath, seed)
		},
	}
	cmd.Flags().StringVar(&seed, "seed", "", "question file to upload as quiz.source after migrating")
	return cmd
}

func runMigrations(ctx context.Context, configPath, seed string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}
	if seed == "" {
		return nil
	}
	return seedQuestions(ctx, cfg, seed)
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		slog.Info("migrations up to date")
		return nil
	}
	slog.Info("migrations applied", "group", group.String())
	return nil
}

func seedQuestions(ctx context.Context, cfg config.Config, path string) error {
	// operator-supplied local path, not a set ID
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	questions, err := file.DecodeQuestions(path, data)
	if err != nil {
		return err
	}
	if err := domain.ValidateQuestions(questions); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	d := newDeps(cfg)
	defer d.Close()
	pool, err := d.pgPool(ctx)
	if err != nil {
		return err
	}
	if err := pginfra.NewQuestionLoader(pool).SaveQuestions(ctx, cfg.Quiz.Source, questions); err != nil {
		return err
	}
	slog.Info("question set seeded", "set", cfg.Quiz.Source, "questions", len(questions))
	return nil
}
