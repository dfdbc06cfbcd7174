package domain

import (
	"time"

	"github.com/google/uuid"
)

// AttemptView is the response shape for a freshly started attempt.
type AttemptView struct {
	ID               uuid.UUID     `json:"id"`
	QuizID           uuid.UUID     `json:"quizId"`
	Number           int           `json:"number"`
	Status           AttemptStatus `json:"status"`
	MaxScore         int           `json:"maxScore"`
	TimeLimitMinutes int           `json:"timeLimitMinutes"`
	StartedAt        time.Time     `json:"startedAt"`
}

// AnswerAck acknowledges a submission without revealing correctness or points.
// Grading feedback is withheld until the attempt is finished.
type AnswerAck struct {
	AttemptID  uuid.UUID `json:"attemptId"`
	QuestionID uuid.UUID `json:"questionId"`
	AnsweredAt time.Time `json:"answeredAt"`
}

// AnswerResultView is the per-question slice of a graded attempt. Correct and
// PointsEarned stay nil until the attempt reaches a graded state.
type AnswerResultView struct {
	QuestionID        uuid.UUID   `json:"questionId"`
	Prompt            string      `json:"prompt,omitempty"`
	Points            int         `json:"points"`
	SelectedAnswerIDs []uuid.UUID `json:"selectedAnswerIds,omitempty"`
	FreeText          string      `json:"freeText,omitempty"`
	Correct           *bool       `json:"correct,omitempty"`
	PointsEarned      *int        `json:"pointsEarned,omitempty"`
	Explanation       string      `json:"explanation,omitempty"`
}

// AttemptResultView is the full attempt record exposed to its owner.
type AttemptResultView struct {
	ID          uuid.UUID          `json:"id"`
	QuizID      uuid.UUID          `json:"quizId"`
	Number      int                `json:"number"`
	Status      AttemptStatus      `json:"status"`
	TotalScore  int                `json:"totalScore"`
	MaxScore    int                `json:"maxScore"`
	Percentage  float64            `json:"percentage"`
	Passed      bool               `json:"passed"`
	StartedAt   time.Time          `json:"startedAt"`
	SubmittedAt *time.Time         `json:"submittedAt,omitempty"`
	Answers     []AnswerResultView `json:"answers"`
}

// NewAttemptView shapes the start response.
func NewAttemptView(a Attempt, quiz Quiz) AttemptView {
	return AttemptView{
		ID:               a.ID,
		QuizID:           a.QuizID,
		Number:           a.Number,
		Status:           a.Status,
		MaxScore:         a.MaxScore,
		TimeLimitMinutes: quiz.TimeLimitMinutes,
		StartedAt:        a.StartedAt,
	}
}

// NewAnswerAck shapes the submit receipt.
func NewAnswerAck(rec AnswerRecord) AnswerAck {
	return AnswerAck{
		AttemptID:  rec.AttemptID,
		QuestionID: rec.QuestionID,
		AnsweredAt: rec.AnsweredAt,
	}
}

// BuildResultView joins an attempt with its answers and the quiz's question
// metadata. Correctness, points and explanations are revealed only once the
// attempt is graded.
func BuildResultView(a Attempt, quiz Quiz, answers []AnswerRecord) AttemptResultView {
	view := AttemptResultView{
		ID:          a.ID,
		QuizID:      a.QuizID,
		Number:      a.Number,
		Status:      a.Status,
		TotalScore:  a.TotalScore,
		MaxScore:    a.MaxScore,
		Percentage:  a.Percentage,
		Passed:      a.Passed,
		StartedAt:   a.StartedAt,
		SubmittedAt: a.SubmittedAt,
		Answers:     make([]AnswerResultView, 0, len(answers)),
	}

	graded := a.Status == AttemptGraded
	for _, rec := range answers {
		entry := AnswerResultView{
			QuestionID:        rec.QuestionID,
			SelectedAnswerIDs: rec.SelectedAnswerIDs,
			FreeText:          rec.FreeText,
		}
		if q, ok := quiz.FindQuestion(rec.QuestionID); ok {
			entry.Prompt = q.Prompt
			entry.Points = q.Points
			if graded {
				entry.Explanation = q.Explanation
			}
		}
		if graded {
			correct := rec.Correct
			earned := rec.PointsEarned
			entry.Correct = &correct
			entry.PointsEarned = &earned
		}
		view.Answers = append(view.Answers, entry)
	}
	return view
}
