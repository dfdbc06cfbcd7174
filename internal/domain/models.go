package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuestionType enumerates the supported question kinds.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionMultipleSelect QuestionType = "multiple_select"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionShortAnswer    QuestionType = "short_answer"
)

// AutoGradable reports whether correctness can be derived from stored answer
// flags. Short answers always go to manual review.
func (t QuestionType) AutoGradable() bool {
	return t != QuestionShortAnswer
}

// AttemptStatus tracks an attempt through its lifecycle.
// in_progress is the only live state; graded and expired are terminal.
type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptGraded     AttemptStatus = "graded"
	AttemptExpired    AttemptStatus = "expired"
)

// Terminal reports whether the attempt can no longer change.
func (s AttemptStatus) Terminal() bool {
	return s == AttemptGraded || s == AttemptExpired
}

// AnswerOption is one candidate choice of a question. Correct is never
// serialized toward clients.
type AnswerOption struct {
	ID       uuid.UUID `json:"id"`
	Text     string    `json:"text"`
	Correct  bool      `json:"-"`
	Position int       `json:"position"`
}

// Question models a single quiz question with its ordered candidate answers.
type Question struct {
	ID          uuid.UUID      `json:"id"`
	QuizID      uuid.UUID      `json:"quizId"`
	Type        QuestionType   `json:"type"`
	Prompt      string         `json:"prompt"`
	Points      int            `json:"points"`
	Explanation string         `json:"explanation,omitempty"`
	Position    int            `json:"position"`
	Answers     []AnswerOption `json:"answers"`
}

// Quiz is the definition read from course authoring: metadata plus the
// ordered question list. This service never mutates it.
type Quiz struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	PassingScore     int        `json:"passingScore"`
	TimeLimitMinutes int        `json:"timeLimitMinutes"`
	MaxAttempts      int        `json:"maxAttempts"`
	Published        bool       `json:"published"`
	Questions        []Question `json:"questions"`
}

// MaxScore sums the point values of the quiz's current questions.
func (q Quiz) MaxScore() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

// FindQuestion looks up a question by ID within this quiz.
func (q Quiz) FindQuestion(questionID uuid.UUID) (Question, bool) {
	for i := range q.Questions {
		if q.Questions[i].ID == questionID {
			return q.Questions[i], true
		}
	}
	return Question{}, false
}

// Attempt is one ledger row per (user, quiz, number). MaxScore is snapshotted
// at start time and never recomputed from the live quiz.
type Attempt struct {
	ID          uuid.UUID     `json:"id"`
	UserID      uuid.UUID     `json:"userId"`
	QuizID      uuid.UUID     `json:"quizId"`
	Number      int           `json:"number"`
	Status      AttemptStatus `json:"status"`
	TotalScore  int           `json:"totalScore"`
	MaxScore    int           `json:"maxScore"`
	Percentage  float64       `json:"percentage"`
	Passed      bool          `json:"passed"`
	StartedAt   time.Time     `json:"startedAt"`
	SubmittedAt *time.Time    `json:"submittedAt,omitempty"`
}

// AnswerRecord is the single submission row per (attempt, question).
// Resubmission overwrites it in place.
type AnswerRecord struct {
	ID                uuid.UUID   `json:"id"`
	AttemptID         uuid.UUID   `json:"attemptId"`
	QuestionID        uuid.UUID   `json:"questionId"`
	SelectedAnswerIDs []uuid.UUID `json:"selectedAnswerIds,omitempty"`
	FreeText          string      `json:"freeText,omitempty"`
	Correct           bool        `json:"correct"`
	PointsEarned      int         `json:"pointsEarned"`
	AnsweredAt        time.Time   `json:"answeredAt"`
}
