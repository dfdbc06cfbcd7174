package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/hieudo2808/lms-project-sub000/internal/domain"
)

type attemptRow struct {
	bun.BaseModel `bun:"table:quiz_attempts"`

	ID          uuid.UUID  `bun:"id,pk,type:uuid"`
	UserID      uuid.UUID  `bun:"user_id,type:uuid,notnull"`
	QuizID      uuid.UUID  `bun:"quiz_id,type:uuid,notnull"`
	Number      int        `bun:"number,notnull"`
	Status      string     `bun:"status,notnull"`
	TotalScore  int        `bun:"total_score"`
	MaxScore    int        `bun:"max_score"`
	Percentage  float64    `bun:"percentage"`
	Passed      bool       `bun:"passed"`
	StartedAt   time.Time  `bun:"started_at,notnull"`
	SubmittedAt *time.Time `bun:"submitted_at"`
}

type answerRow struct {
	bun.BaseModel `bun:"table:attempt_answers"`

	ID                uuid.UUID   `bun:"id,pk,type:uuid"`
	AttemptID         uuid.UUID   `bun:"attempt_id,type:uuid,notnull"`
	QuestionID        uuid.UUID   `bun:"question_id,type:uuid,notnull"`
	SelectedAnswerIDs []uuid.UUID `bun:"selected_answer_ids,type:jsonb"`
	FreeText          string      `bun:"free_text"`
	Correct           bool        `bun:"is_correct"`
	PointsEarned      int         `bun:"points_earned"`
	AnsweredAt        time.Time   `bun:"answered_at,notnull"`
}

func rowFromAttempt(a domain.Attempt) *attemptRow {
	return &attemptRow{
		ID:          a.ID,
		UserID:      a.UserID,
		QuizID:      a.QuizID,
		Number:      a.Number,
		Status:      string(a.Status),
		TotalScore:  a.TotalScore,
		MaxScore:    a.MaxScore,
		Percentage:  a.Percentage,
		Passed:      a.Passed,
		StartedAt:   a.StartedAt,
		SubmittedAt: a.SubmittedAt,
	}
}

func (r attemptRow) toDomain() domain.Attempt {
	return domain.Attempt{
		ID:          r.ID,
		UserID:      r.UserID,
		QuizID:      r.QuizID,
		Number:      r.Number,
		Status:      domain.AttemptStatus(r.Status),
		TotalScore:  r.TotalScore,
		MaxScore:    r.MaxScore,
		Percentage:  r.Percentage,
		Passed:      r.Passed,
		StartedAt:   r.StartedAt,
		SubmittedAt: r.SubmittedAt,
	}
}

func rowFromAnswer(rec domain.AnswerRecord) *answerRow {
	return &answerRow{
		ID:                rec.ID,
		AttemptID:         rec.AttemptID,
		QuestionID:        rec.QuestionID,
		SelectedAnswerIDs: rec.SelectedAnswerIDs,
		FreeText:          rec.FreeText,
		Correct:           rec.Correct,
		PointsEarned:      rec.PointsEarned,
		AnsweredAt:        rec.AnsweredAt,
	}
}

func (r answerRow) toDomain() domain.AnswerRecord {
	return domain.AnswerRecord{
		ID:                r.ID,
		AttemptID:         r.AttemptID,
		QuestionID:        r.QuestionID,
		SelectedAnswerIDs: r.SelectedAnswerIDs,
		FreeText:          r.FreeText,
		Correct:           r.Correct,
		PointsEarned:      r.PointsEarned,
		AnsweredAt:        r.AnsweredAt,
	}
}
