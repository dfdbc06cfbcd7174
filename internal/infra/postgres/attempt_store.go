package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/hieudo2808/lms-project-sub000/internal/domain"
)

// AttemptStore is the bun-backed attempt ledger and answer upsert store.
//
// Atomicity model: attempt-number assignment relies on the UNIQUE
// (user_id, quiz_id, number) constraint surfacing ErrDuplicateAttempt for the
// service-level retry. SaveAnswer and Grade run in transactions that take a
// FOR UPDATE row lock on the attempt, so a submit can never land on an
// attempt that a concurrent finish already graded.
type AttemptStore struct {
	db *bun.DB
}

func NewAttemptStore(db *bun.DB) *AttemptStore {
	return &AttemptStore{db: db}
}

func (s *AttemptStore) Insert(ctx context.Context, attempt *domain.Attempt) error {
	_, err := s.db.NewInsert().Model(rowFromAttempt(*attempt)).Exec(ctx)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateAttempt
	}
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

func (s *AttemptStore) Get(ctx context.Context, attemptID uuid.UUID) (domain.Attempt, error) {
	var row attemptRow
	err := s.db.NewSelect().Model(&row).Where("id = ?", attemptID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("get attempt: %w", err)
	}
	return row.toDomain(), nil
}

func (s *AttemptStore) Stats(ctx context.Context, userID, quizID uuid.UUID) (int, int, error) {
	var count, highest int
	err := s.db.NewSelect().
		Model((*attemptRow)(nil)).
		ColumnExpr("count(*)").
		ColumnExpr("coalesce(max(number), 0)").
		Where("user_id = ?", userID).
		Where("quiz_id = ?", quizID).
		Scan(ctx, &count, &highest)
	if err != nil {
		return 0, 0, fmt.Errorf("attempt stats: %w", err)
	}
	return count, highest, nil
}

func (s *AttemptStore) List(ctx context.Context, userID, quizID uuid.UUID) ([]domain.Attempt, error) {
	var rows []attemptRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Where("quiz_id = ?", quizID).
		Order("number DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	attempts := make([]domain.Attempt, 0, len(rows))
	for _, row := range rows {
		attempts = append(attempts, row.toDomain())
	}
	return attempts, nil
}

func (s *AttemptStore) SaveAnswer(ctx context.Context, rec *domain.AnswerRecord) error {
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := lockActiveAttempt(ctx, tx, rec.AttemptID); err != nil {
			return err
		}
		_, err := tx.NewInsert().
			Model(rowFromAnswer(*rec)).
			On("CONFLICT (attempt_id, question_id) DO UPDATE").
			Set("selected_answer_ids = EXCLUDED.selected_answer_ids").
			Set("free_text = EXCLUDED.free_text").
			Set("is_correct = EXCLUDED.is_correct").
			Set("points_earned = EXCLUDED.points_earned").
			Set("answered_at = EXCLUDED.answered_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("upsert answer: %w", err)
		}
		return nil
	})
}

func (s *AttemptStore) Answers(ctx context.Context, attemptID uuid.UUID) ([]domain.AnswerRecord, error) {
	var rows []answerRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("attempt_id = ?", attemptID).
		Order("answered_at", "question_id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	records := make([]domain.AnswerRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toDomain())
	}
	return records, nil
}

func (s *AttemptStore) Grade(ctx context.Context, attemptID uuid.UUID, grade func(domain.Attempt, []domain.AnswerRecord) (domain.Attempt, error)) (domain.Attempt, error) {
	var graded domain.Attempt
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var row attemptRow
		err := tx.NewSelect().Model(&row).Where("id = ?", attemptID).For("UPDATE").Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrAttemptNotFound
		}
		if err != nil {
			return fmt.Errorf("lock attempt: %w", err)
		}

		var answerRows []answerRow
		if err := tx.NewSelect().Model(&answerRows).Where("attempt_id = ?", attemptID).Scan(ctx); err != nil {
			return fmt.Errorf("load answers: %w", err)
		}
		answers := make([]domain.AnswerRecord, 0, len(answerRows))
		for _, a := range answerRows {
			answers = append(answers, a.toDomain())
		}

		graded, err = grade(row.toDomain(), answers)
		if err != nil {
			return err
		}
		if _, err := tx.NewUpdate().Model(rowFromAttempt(graded)).WherePK().Exec(ctx); err != nil {
			return fmt.Errorf("update attempt: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Attempt{}, err
	}
	return graded, nil
}

func (s *AttemptStore) Expire(ctx context.Context, attemptID uuid.UUID) (domain.Attempt, error) {
	var expired domain.Attempt
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var row attemptRow
		err := tx.NewSelect().Model(&row).Where("id = ?", attemptID).For("UPDATE").Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrAttemptNotFound
		}
		if err != nil {
			return fmt.Errorf("lock attempt: %w", err)
		}
		if row.Status != string(domain.AttemptInProgress) {
			return domain.ErrAttemptNotActive
		}
		row.Status = string(domain.AttemptExpired)
		if _, err := tx.NewUpdate().Model(&row).WherePK().Exec(ctx); err != nil {
			return fmt.Errorf("update attempt: %w", err)
		}
		expired = row.toDomain()
		return nil
	})
	if err != nil {
		return domain.Attempt{}, err
	}
	return expired, nil
}

func lockActiveAttempt(ctx context.Context, tx bun.Tx, attemptID uuid.UUID) error {
	var row attemptRow
	err := tx.NewSelect().Model(&row).Where("id = ?", attemptID).For("UPDATE").Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrAttemptNotFound
	}
	if err != nil {
		return fmt.Errorf("lock attempt: %w", err)
	}
	if row.Status != string(domain.AttemptInProgress) {
		return domain.ErrAttemptNotActive
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == "23505"
}
