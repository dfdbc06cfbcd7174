package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/hieudo2808/lms-project-sub000/internal/config"
	"github.com/hieudo2808/lms-project-sub000/internal/domain"
)

// NewSeedCmd inserts the demo quiz so the service is usable right after migrate.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo quiz into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	quiz := demoQuiz()
	if err := SeedQuiz(ctx, db, quiz); err != nil {
		return err
	}
	log.Printf("seeded quiz %s (%d questions)", quiz.ID, len(quiz.Questions))
	return nil
}

// SeedQuiz upserts a quiz definition into the authoring tables. Shared with
// the integration tests.
func SeedQuiz(ctx context.Context, db *bun.DB, quiz domain.Quiz) error {
	if _, err := db.ExecContext(ctx,
		`INSERT INTO quizzes (id, title, passing_score, time_limit_minutes, max_attempts, published)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			passing_score = EXCLUDED.passing_score,
			time_limit_minutes = EXCLUDED.time_limit_minutes,
			max_attempts = EXCLUDED.max_attempts,
			published = EXCLUDED.published`,
		quiz.ID, quiz.Title, quiz.PassingScore, quiz.TimeLimitMinutes, quiz.MaxAttempts, quiz.Published,
	); err != nil {
		return fmt.Errorf("seed quiz: %w", err)
	}

	for _, q := range quiz.Questions {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO quiz_questions (id, quiz_id, type, prompt, points, explanation, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (id) DO UPDATE SET
				type = EXCLUDED.type,
				prompt = EXCLUDED.prompt,
				points = EXCLUDED.points,
				explanation = EXCLUDED.explanation,
				position = EXCLUDED.position`,
			q.ID, quiz.ID, string(q.Type), q.Prompt, q.Points, q.Explanation, q.Position,
		); err != nil {
			return fmt.Errorf("seed question %s: %w", q.ID, err)
		}
		for _, opt := range q.Answers {
			if _, err := db.ExecContext(ctx,
				`INSERT INTO question_answers (id, question_id, text, is_correct, position)
				 VALUES (?, ?, ?, ?, ?)
				 ON CONFLICT (id) DO UPDATE SET
					text = EXCLUDED.text,
					is_correct = EXCLUDED.is_correct,
					position = EXCLUDED.position`,
				opt.ID, q.ID, opt.Text, opt.Correct, opt.Position,
			); err != nil {
				return fmt.Errorf("seed answer option %s: %w", opt.ID, err)
			}
		}
	}
	return nil
}
