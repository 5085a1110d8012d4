package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the schema for question sets and the leaderboard.
var Migrations = migrate.NewMigrations()
