package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hieudo2808/lms-project-sub000/internal/domain"
)

// startMaxRetries bounds the retry loop over attempt-number collisions before
// surfacing ErrConflict to the caller.
const startMaxRetries = 3

// QuizRepository loads quiz definitions (questions and answers in display
// order). Implementations must read fresh: correctness flags may never be
// served stale relative to an attempt start.
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID uuid.UUID) (domain.Quiz, error)
}

// AttemptStore persists the attempt ledger and its answer rows. Operations
// are transactional: SaveAnswer and Grade row-lock the attempt and re-check
// its status so no write can land on a finished attempt.
type AttemptStore interface {
	Insert(ctx context.Context, attempt *domain.Attempt) error
	Get(ctx context.Context, attemptID uuid.UUID) (domain.Attempt, error)
	Stats(ctx context.Context, userID, quizID uuid.UUID) (count, highest int, err error)
	List(ctx context.Context, userID, quizID uuid.UUID) ([]domain.Attempt, error)
	SaveAnswer(ctx context.Context, rec *domain.AnswerRecord) error
	Answers(ctx context.Context, attemptID uuid.UUID) ([]domain.AnswerRecord, error)
	Grade(ctx context.Context, attemptID uuid.UUID, grade func(domain.Attempt, []domain.AnswerRecord) (domain.Attempt, error)) (domain.Attempt, error)
	Expire(ctx context.Context, attemptID uuid.UUID) (domain.Attempt, error)
}

// ResultCache serves terminal attempt results. Only graded/expired attempts
// are cacheable; they never change once written.
type ResultCache interface {
	GetResult(ctx context.Context, attemptID uuid.UUID, load func(context.Context) (domain.AttemptResultView, error)) (domain.AttemptResultView, error)
}

// AttemptService orchestrates the attempt lifecycle: start, answer
// submission, finish. It owns the state machine; scoring itself stays in the
// pure functions of the domain package.
type AttemptService struct {
	store   AttemptStore
	quizzes QuizRepository
	results ResultCache
	hub     *EventHub
	now     func() time.Time
	newID   func() uuid.UUID
}

func NewAttemptService(store AttemptStore, quizzes QuizRepository, results ResultCache, hub *EventHub) *AttemptService {
	return &AttemptService{
		store:   store,
		quizzes: quizzes,
		results: results,
		hub:     hub,
		now:     time.Now,
		newID:   uuid.New,
	}
}

// NewAttemptServiceWithClock is test-only for deterministic timestamps.
func NewAttemptServiceWithClock(store AttemptStore, quizzes QuizRepository, results ResultCache, hub *EventHub, now func() time.Time) *AttemptService {
	s := NewAttemptService(store, quizzes, results, hub)
	s.now = now
	return s
}

// StartAttempt opens a new in-progress attempt for the user.
//
// The attempt number is the highest prior number plus one. Concurrent starts
// race on that computation; the unique (user, quiz, number) constraint in the
// store detects the loser, which retries with a recomputed number. MaxScore
// is snapshotted here and never recomputed from the live quiz.
func (s *AttemptService) StartAttempt(ctx context.Context, userID, quizID uuid.UUID) (domain.AttemptView, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.AttemptView{}, err
	}
	if !quiz.Published {
		return domain.AttemptView{}, domain.ErrQuizNotPublished
	}

	for i := 0; i < startMaxRetries; i++ {
		count, highest, err := s.store.Stats(ctx, userID, quizID)
		if err != nil {
			return domain.AttemptView{}, err
		}
		if quiz.MaxAttempts > 0 && count >= quiz.MaxAttempts {
			return domain.AttemptView{}, domain.ErrAttemptLimitExceeded
		}

		attempt := &domain.Attempt{
			ID:        s.newID(),
			UserID:    userID,
			QuizID:    quizID,
			Number:    highest + 1,
			Status:    domain.AttemptInProgress,
			MaxScore:  quiz.MaxScore(),
			StartedAt: s.now(),
		}
		err = s.store.Insert(ctx, attempt)
		if errors.Is(err, domain.ErrDuplicateAttempt) {
			continue
		}
		if err != nil {
			return domain.AttemptView{}, err
		}

		s.publish(AttemptEvent{
			Type:      EventAttemptStarted,
			QuizID:    quizID,
			AttemptID: attempt.ID,
			UserID:    userID,
			Number:    attempt.Number,
			At:        attempt.StartedAt,
		})
		return domain.NewAttemptView(*attempt, quiz), nil
	}
	return domain.AttemptView{}, domain.ErrConflict
}

// SubmitAnswer grades one question submission and upserts the answer row.
// Resubmission overwrites the prior row for the same question. The returned
// ack deliberately omits correctness and points.
func (s *AttemptService) SubmitAnswer(ctx context.Context, userID, attemptID, questionID uuid.UUID, selected []uuid.UUID, freeText string) (domain.AnswerAck, error) {
	attempt, err := s.ownedAttempt(ctx, userID, attemptID)
	if err != nil {
		return domain.AnswerAck{}, err
	}
	if attempt.Status != domain.AttemptInProgress {
		return domain.AnswerAck{}, domain.ErrAttemptNotActive
	}

	quiz, err := s.quizzes.GetQuiz(ctx, attempt.QuizID)
	if err != nil {
		return domain.AnswerAck{}, err
	}
	question, ok := quiz.FindQuestion(questionID)
	if !ok {
		// Cross-quiz submission defense: the question must belong to the
		// attempt's own quiz.
		return domain.AnswerAck{}, domain.ErrQuestionNotFound
	}

	// Only the field relevant to the question type is persisted.
	if question.Type == domain.QuestionShortAnswer {
		selected = nil
	} else {
		freeText = ""
	}

	correct, points := domain.GradeSubmission(question, selected, freeText)
	rec := &domain.AnswerRecord{
		ID:                s.newID(),
		AttemptID:         attemptID,
		QuestionID:        questionID,
		SelectedAnswerIDs: selected,
		FreeText:          freeText,
		Correct:           correct,
		PointsEarned:      points,
		AnsweredAt:        s.now(),
	}
	if err := s.store.SaveAnswer(ctx, rec); err != nil {
		return domain.AnswerAck{}, err
	}

	s.publish(AttemptEvent{
		Type:       EventAnswerSubmitted,
		QuizID:     attempt.QuizID,
		AttemptID:  attemptID,
		UserID:     userID,
		Number:     attempt.Number,
		QuestionID: &questionID,
		At:         rec.AnsweredAt,
	})
	return domain.NewAnswerAck(*rec), nil
}

// FinishAttempt grades the attempt and transitions it to its terminal state.
// The total is recomputed from the persisted answer rows inside the store's
// grading transaction; no running counter is trusted. A second finish fails
// with ErrAttemptNotActive.
func (s *AttemptService) FinishAttempt(ctx context.Context, userID, attemptID uuid.UUID) (domain.AttemptResultView, error) {
	attempt, err := s.ownedAttempt(ctx, userID, attemptID)
	if err != nil {
		return domain.AttemptResultView{}, err
	}
	if attempt.Status != domain.AttemptInProgress {
		return domain.AttemptResultView{}, domain.ErrAttemptNotActive
	}

	quiz, err := s.quizzes.GetQuiz(ctx, attempt.QuizID)
	if err != nil {
		return domain.AttemptResultView{}, err
	}

	graded, err := s.store.Grade(ctx, attemptID, func(cur domain.Attempt, answers []domain.AnswerRecord) (domain.Attempt, error) {
		if cur.Status != domain.AttemptInProgress {
			return cur, domain.ErrAttemptNotActive
		}
		total, percentage := domain.Aggregate(answers, cur.MaxScore)
		cur.TotalScore = total
		cur.Percentage = percentage
		cur.Passed = domain.IsPassed(percentage, quiz.PassingScore)
		cur.Status = domain.AttemptGraded
		submittedAt := s.now()
		cur.SubmittedAt = &submittedAt
		return cur, nil
	})
	if err != nil {
		return domain.AttemptResultView{}, err
	}

	answers, err := s.store.Answers(ctx, attemptID)
	if err != nil {
		return domain.AttemptResultView{}, err
	}

	s.publish(AttemptEvent{
		Type:       EventAttemptGraded,
		QuizID:     graded.QuizID,
		AttemptID:  graded.ID,
		UserID:     graded.UserID,
		Number:     graded.Number,
		TotalScore: &graded.TotalScore,
		Percentage: &graded.Percentage,
		Passed:     &graded.Passed,
		At:         s.now(),
	})
	return domain.BuildResultView(graded, quiz, answers), nil
}

// ListMyAttempts returns the caller's attempts for a quiz, newest attempt
// number first. Correctness and points appear only on graded attempts.
func (s *AttemptService) ListMyAttempts(ctx context.Context, userID, quizID uuid.UUID) ([]domain.AttemptResultView, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.store.List(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}

	views := make([]domain.AttemptResultView, 0, len(attempts))
	for _, attempt := range attempts {
		answers, err := s.store.Answers(ctx, attempt.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, domain.BuildResultView(attempt, quiz, answers))
	}
	return views, nil
}

// AttemptResult returns a single attempt for its owner. Terminal results are
// served through the result cache when one is configured; they are immutable
// once written.
func (s *AttemptService) AttemptResult(ctx context.Context, userID, attemptID uuid.UUID) (domain.AttemptResultView, error) {
	attempt, err := s.ownedAttempt(ctx, userID, attemptID)
	if err != nil {
		return domain.AttemptResultView{}, err
	}
	quiz, err := s.quizzes.GetQuiz(ctx, attempt.QuizID)
	if err != nil {
		return domain.AttemptResultView{}, err
	}

	load := func(ctx context.Context) (domain.AttemptResultView, error) {
		answers, err := s.store.Answers(ctx, attemptID)
		if err != nil {
			return domain.AttemptResultView{}, err
		}
		return domain.BuildResultView(attempt, quiz, answers), nil
	}

	if attempt.Status.Terminal() && s.results != nil {
		return s.results.GetResult(ctx, attemptID, load)
	}
	return load(ctx)
}

// ExpireAttempt is the external expiry trigger: it transitions an in-progress
// attempt to expired without grading it. When to invoke it (sweep, cutoff,
// grace period) is a policy decision that lives outside this service.
func (s *AttemptService) ExpireAttempt(ctx context.Context, attemptID uuid.UUID) (domain.AttemptResultView, error) {
	expired, err := s.store.Expire(ctx, attemptID)
	if err != nil {
		return domain.AttemptResultView{}, err
	}
	quiz, err := s.quizzes.GetQuiz(ctx, expired.QuizID)
	if err != nil {
		return domain.AttemptResultView{}, err
	}
	answers, err := s.store.Answers(ctx, attemptID)
	if err != nil {
		return domain.AttemptResultView{}, err
	}

	s.publish(AttemptEvent{
		Type:      EventAttemptExpired,
		QuizID:    expired.QuizID,
		AttemptID: expired.ID,
		UserID:    expired.UserID,
		Number:    expired.Number,
		At:        s.now(),
	})
	return domain.BuildResultView(expired, quiz, answers), nil
}

func (s *AttemptService) ownedAttempt(ctx context.Context, userID, attemptID uuid.UUID) (domain.Attempt, error) {
	attempt, err := s.store.Get(ctx, attemptID)
	if err != nil {
		return domain.Attempt{}, err
	}
	if attempt.UserID != userID {
		return domain.Attempt{}, domain.ErrAttemptAccessDenied
	}
	return attempt, nil
}

func (s *AttemptService) publish(ev AttemptEvent) {
	if s.hub != nil {
		s.hub.Publish(ev)
	}
}
