package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestGradeSubmissionSingleChoice(t *testing.T) {
	q := mcQuestion(5)
	right := q.Answers[1].ID
	wrong := q.Answers[0].ID

	correct, points := GradeSubmission(q, []uuid.UUID{right}, "")
	if !correct || points != 5 {
		t.Fatalf("expected full credit, got correct=%v points=%d", correct, points)
	}

	correct, points = GradeSubmission(q, []uuid.UUID{wrong}, "")
	if correct || points != 0 {
		t.Fatalf("expected no credit, got correct=%v points=%d", correct, points)
	}
}

func TestGradeSubmissionNoSelection(t *testing.T) {
	q := mcQuestion(5)
	if correct, points := GradeSubmission(q, nil, ""); correct || points != 0 {
		t.Fatalf("expected no credit without a selection, got correct=%v points=%d", correct, points)
	}
}

func TestGradeSubmissionUnknownOption(t *testing.T) {
	q := mcQuestion(5)
	if correct, points := GradeSubmission(q, []uuid.UUID{uuid.New()}, ""); correct || points != 0 {
		t.Fatalf("expected unknown option to grade incorrect, got correct=%v points=%d", correct, points)
	}
}

func TestGradeSubmissionShortAnswerNeverAutoScored(t *testing.T) {
	q := Question{ID: uuid.New(), Type: QuestionShortAnswer, Points: 10}
	for _, text := range []string{"", "anything", "the exactly right answer"} {
		if correct, points := GradeSubmission(q, nil, text); correct || points != 0 {
			t.Fatalf("short answer %q: expected (false, 0), got (%v, %d)", text, correct, points)
		}
	}
}

func TestGradeSubmissionMultipleSelect(t *testing.T) {
	q := Question{
		ID:     uuid.New(),
		Type:   QuestionMultipleSelect,
		Points: 10,
		Answers: []AnswerOption{
			{ID: uuid.New(), Correct: true},
			{ID: uuid.New()},
			{ID: uuid.New(), Correct: true},
		},
	}
	both := []uuid.UUID{q.Answers[0].ID, q.Answers[2].ID}
	one := []uuid.UUID{q.Answers[0].ID}
	extra := []uuid.UUID{q.Answers[0].ID, q.Answers[1].ID, q.Answers[2].ID}

	if correct, points := GradeSubmission(q, both, ""); !correct || points != 10 {
		t.Fatalf("exact correct set: got (%v, %d)", correct, points)
	}
	if correct, _ := GradeSubmission(q, one, ""); correct {
		t.Fatalf("partial selection must not earn credit")
	}
	if correct, _ := GradeSubmission(q, extra, ""); correct {
		t.Fatalf("superset selection must not earn credit")
	}
	// duplicates of a correct option do not change the selected set
	dup := []uuid.UUID{q.Answers[0].ID, q.Answers[0].ID, q.Answers[2].ID}
	if correct, points := GradeSubmission(q, dup, ""); !correct || points != 10 {
		t.Fatalf("duplicated selection: got (%v, %d)", correct, points)
	}
}

func TestAggregate(t *testing.T) {
	answers := []AnswerRecord{
		{PointsEarned: 5},
		{PointsEarned: 0},
		{PointsEarned: 10},
	}
	total, pct := Aggregate(answers, 20)
	if total != 15 {
		t.Fatalf("expected total 15, got %d", total)
	}
	if pct != 75 {
		t.Fatalf("expected 75%%, got %v", pct)
	}
}

func TestAggregateZeroMaxScore(t *testing.T) {
	total, pct := Aggregate([]AnswerRecord{{PointsEarned: 3}}, 0)
	if total != 3 || pct != 0 {
		t.Fatalf("zero max score must yield 0%%, got total=%d pct=%v", total, pct)
	}
}

func TestIsPassed(t *testing.T) {
	if !IsPassed(60, 60) {
		t.Fatalf("threshold is inclusive")
	}
	if IsPassed(59.999, 60) {
		t.Fatalf("below threshold must fail")
	}
	if !IsPassed(0, 0) {
		t.Fatalf("zero threshold always passes")
	}
}

func mcQuestion(points int) Question {
	return Question{
		ID:     uuid.New(),
		Type:   QuestionMultipleChoice,
		Points: points,
		Answers: []AnswerOption{
			{ID: uuid.New(), Text: "wrong"},
			{ID: uuid.New(), Text: "right", Correct: true},
		},
	}
}
