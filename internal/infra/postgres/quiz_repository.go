package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/hieudo2808/lms-project-sub000/internal/domain"
)

// QuizRepository reads quiz definitions from the course-authoring tables.
// Every call hits Postgres: the correctness flags feeding the scoring
// snapshot must never come from a cache that authoring writes could have
// outrun.
type QuizRepository struct {
	pool *pgxpool.Pool
}

func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID uuid.UUID) (domain.Quiz, error) {
	var quiz domain.Quiz
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, passing_score, time_limit_minutes, max_attempts, published
		 FROM quizzes WHERE id=$1`, quizID).
		Scan(&quiz.ID, &quiz.Title, &quiz.PassingScore, &quiz.TimeLimitMinutes, &quiz.MaxAttempts, &quiz.Published)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}

	questions, err := r.loadQuestions(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	quiz.Questions = questions
	return quiz, nil
}

func (r *QuizRepository) loadQuestions(ctx context.Context, quizID uuid.UUID) ([]domain.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, quiz_id, type, prompt, points, explanation, position
		 FROM quiz_questions WHERE quiz_id=$1 ORDER BY position`, quizID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Type, &q.Prompt, &q.Points, &q.Explanation, &q.Position); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		index[q.ID] = len(questions)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	optionRows, err := r.pool.Query(ctx,
		`SELECT a.id, a.question_id, a.text, a.is_correct, a.position
		 FROM question_answers a
		 JOIN quiz_questions q ON q.id = a.question_id
		 WHERE q.quiz_id=$1
		 ORDER BY q.position, a.position`, quizID)
	if err != nil {
		return nil, fmt.Errorf("load answer options: %w", err)
	}
	defer optionRows.Close()

	for optionRows.Next() {
		var opt domain.AnswerOption
		var questionID uuid.UUID
		if err := optionRows.Scan(&opt.ID, &questionID, &opt.Text, &opt.Correct, &opt.Position); err != nil {
			return nil, fmt.Errorf("scan answer option: %w", err)
		}
		if i, ok := index[questionID]; ok {
			questions[i].Answers = append(questions[i].Answers, opt)
		}
	}
	if err := optionRows.Err(); err != nil {
		return nil, fmt.Errorf("load answer options: %w", err)
	}
	return questions, nil
}
