package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

//go:embed 0001_create_attempt_tables.sql
var createAttemptTablesSQL string

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(createAttemptTablesSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(`
				DROP TABLE IF EXISTS attempt_answers;
				DROP TABLE IF EXISTS quiz_attempts;
				DROP TABLE IF EXISTS question_answers;
				DROP TABLE IF EXISTS quiz_questions;
				DROP TABLE IF EXISTS quizzes;
			`)
			return err
		},
	)
}
