package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hieudo2808/lms-project-sub000/internal/domain"
)

func newAttempt(userID, quizID uuid.UUID, number int) *domain.Attempt {
	return &domain.Attempt{
		ID:        uuid.New(),
		UserID:    userID,
		QuizID:    quizID,
		Number:    number,
		Status:    domain.AttemptInProgress,
		MaxScore:  20,
		StartedAt: time.Now(),
	}
}

func TestInsertRejectsDuplicateNumber(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	userID, quizID := uuid.New(), uuid.New()

	if err := store.Insert(ctx, newAttempt(userID, quizID, 1)); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := store.Insert(ctx, newAttempt(userID, quizID, 1)); !errors.Is(err, domain.ErrDuplicateAttempt) {
		t.Fatalf("expected ErrDuplicateAttempt, got %v", err)
	}
	// same number is fine for a different user or quiz
	if err := store.Insert(ctx, newAttempt(uuid.New(), quizID, 1)); err != nil {
		t.Fatalf("other user insert: %v", err)
	}
	if err := store.Insert(ctx, newAttempt(userID, uuid.New(), 1)); err != nil {
		t.Fatalf("other quiz insert: %v", err)
	}
}

func TestStatsCountsAndHighestNumber(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	userID, quizID := uuid.New(), uuid.New()

	for _, n := range []int{1, 2, 5} {
		if err := store.Insert(ctx, newAttempt(userID, quizID, n)); err != nil {
			t.Fatalf("insert %d: %v", n, err)
		}
	}
	store.Insert(ctx, newAttempt(uuid.New(), quizID, 9))

	count, highest, err := store.Stats(ctx, userID, quizID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if count != 3 || highest != 5 {
		t.Fatalf("expected count=3 highest=5, got count=%d highest=%d", count, highest)
	}
}

func TestSaveAnswerUpsertsByQuestion(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	attempt := newAttempt(uuid.New(), uuid.New(), 1)
	if err := store.Insert(ctx, attempt); err != nil {
		t.Fatalf("insert: %v", err)
	}

	questionID := uuid.New()
	first := &domain.AnswerRecord{
		ID:                uuid.New(),
		AttemptID:         attempt.ID,
		QuestionID:        questionID,
		SelectedAnswerIDs: []uuid.UUID{uuid.New()},
		AnsweredAt:        time.Now(),
	}
	if err := store.SaveAnswer(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := &domain.AnswerRecord{
		ID:                uuid.New(),
		AttemptID:         attempt.ID,
		QuestionID:        questionID,
		SelectedAnswerIDs: []uuid.UUID{uuid.New()},
		Correct:           true,
		PointsEarned:      5,
		AnsweredAt:        time.Now().Add(time.Second),
	}
	if err := store.SaveAnswer(ctx, second); err != nil {
		t.Fatalf("resave: %v", err)
	}

	answers, err := store.Answers(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("answers: %v", err)
	}
	if len(answers) != 1 {
		t.Fatalf("expected one row per question, got %d", len(answers))
	}
	if answers[0].ID != first.ID {
		t.Fatalf("upsert must keep the original row identity")
	}
	if answers[0].PointsEarned != 5 {
		t.Fatalf("upsert must take the latest values, got %+v", answers[0])
	}
}

func TestSaveAnswerRefusesTerminalAttempt(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	attempt := newAttempt(uuid.New(), uuid.New(), 1)
	if err := store.Insert(ctx, attempt); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := store.Grade(ctx, attempt.ID, func(a domain.Attempt, _ []domain.AnswerRecord) (domain.Attempt, error) {
		a.Status = domain.AttemptGraded
		return a, nil
	}); err != nil {
		t.Fatalf("grade: %v", err)
	}

	err := store.SaveAnswer(ctx, &domain.AnswerRecord{
		ID:         uuid.New(),
		AttemptID:  attempt.ID,
		QuestionID: uuid.New(),
		AnsweredAt: time.Now(),
	})
	if !errors.Is(err, domain.ErrAttemptNotActive) {
		t.Fatalf("expected ErrAttemptNotActive, got %v", err)
	}
}

func TestGradePropagatesCallbackError(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	attempt := newAttempt(uuid.New(), uuid.New(), 1)
	if err := store.Insert(ctx, attempt); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if _, err := store.Grade(ctx, attempt.ID, func(a domain.Attempt, _ []domain.AnswerRecord) (domain.Attempt, error) {
		return a, domain.ErrAttemptNotActive
	}); !errors.Is(err, domain.ErrAttemptNotActive) {
		t.Fatalf("expected callback error, got %v", err)
	}

	// a failed grade must leave the attempt untouched
	got, err := store.Get(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.AttemptInProgress {
		t.Fatalf("attempt mutated by failed grade: %s", got.Status)
	}
}

func TestExpireOnlyInProgress(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	attempt := newAttempt(uuid.New(), uuid.New(), 1)
	if err := store.Insert(ctx, attempt); err != nil {
		t.Fatalf("insert: %v", err)
	}

	expired, err := store.Expire(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if expired.Status != domain.AttemptExpired {
		t.Fatalf("expected expired, got %s", expired.Status)
	}
	if _, err := store.Expire(ctx, attempt.ID); !errors.Is(err, domain.ErrAttemptNotActive) {
		t.Fatalf("expected ErrAttemptNotActive on re-expire, got %v", err)
	}
	if _, err := store.Expire(ctx, uuid.New()); !errors.Is(err, domain.ErrAttemptNotFound) {
		t.Fatalf("expected ErrAttemptNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	userID, quizID := uuid.New(), uuid.New()
	for _, n := range []int{2, 1, 3} {
		if err := store.Insert(ctx, newAttempt(userID, quizID, n)); err != nil {
			t.Fatalf("insert %d: %v", n, err)
		}
	}

	attempts, err := store.List(ctx, userID, quizID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(attempts) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(attempts))
	}
	for i, a := range attempts {
		if a.Number != 3-i {
			t.Fatalf("expected numbers 3,2,1, got %d at %d", a.Number, i)
		}
	}
}
