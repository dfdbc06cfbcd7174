package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/hieudo2808/lms-project-sub000/internal/domain"
)

// AttemptStore is an in-memory implementation of app.AttemptStore. A single
// mutex gives it the same atomicity the Postgres store gets from transactions
// and row locks: inserts collide on (user, quiz, number), answer upserts
// re-check the attempt status, and grading reads its answers under the lock.
type AttemptStore struct {
	mu       sync.Mutex
	attempts map[uuid.UUID]domain.Attempt
	answers  map[uuid.UUID]map[uuid.UUID]domain.AnswerRecord
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{
		attempts: make(map[uuid.UUID]domain.Attempt),
		answers:  make(map[uuid.UUID]map[uuid.UUID]domain.AnswerRecord),
	}
}

func (s *AttemptStore) Insert(_ context.Context, attempt *domain.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.attempts {
		if existing.UserID == attempt.UserID && existing.QuizID == attempt.QuizID && existing.Number == attempt.Number {
			return domain.ErrDuplicateAttempt
		}
	}
	s.attempts[attempt.ID] = *attempt
	return nil
}

func (s *AttemptStore) Get(_ context.Context, attemptID uuid.UUID) (domain.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if attempt, ok := s.attempts[attemptID]; ok {
		return attempt, nil
	}
	return domain.Attempt{}, domain.ErrAttemptNotFound
}

func (s *AttemptStore) Stats(_ context.Context, userID, quizID uuid.UUID) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count, highest := 0, 0
	for _, attempt := range s.attempts {
		if attempt.UserID == userID && attempt.QuizID == quizID {
			count++
			if attempt.Number > highest {
				highest = attempt.Number
			}
		}
	}
	return count, highest, nil
}

func (s *AttemptStore) List(_ context.Context, userID, quizID uuid.UUID) ([]domain.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var attempts []domain.Attempt
	for _, attempt := range s.attempts {
		if attempt.UserID == userID && attempt.QuizID == quizID {
			attempts = append(attempts, attempt)
		}
	}
	sort.Slice(attempts, func(i, j int) bool {
		return attempts[i].Number > attempts[j].Number
	})
	return attempts, nil
}

func (s *AttemptStore) SaveAnswer(_ context.Context, rec *domain.AnswerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempt, ok := s.attempts[rec.AttemptID]
	if !ok {
		return domain.ErrAttemptNotFound
	}
	if attempt.Status != domain.AttemptInProgress {
		return domain.ErrAttemptNotActive
	}

	byQuestion, ok := s.answers[rec.AttemptID]
	if !ok {
		byQuestion = make(map[uuid.UUID]domain.AnswerRecord)
		s.answers[rec.AttemptID] = byQuestion
	}
	// Upsert keeps the original row identity on overwrite.
	if existing, ok := byQuestion[rec.QuestionID]; ok {
		rec.ID = existing.ID
	}
	byQuestion[rec.QuestionID] = *rec
	return nil
}

func (s *AttemptStore) Answers(_ context.Context, attemptID uuid.UUID) ([]domain.AnswerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answersLocked(attemptID), nil
}

func (s *AttemptStore) Grade(_ context.Context, attemptID uuid.UUID, grade func(domain.Attempt, []domain.AnswerRecord) (domain.Attempt, error)) (domain.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempt, ok := s.attempts[attemptID]
	if !ok {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	graded, err := grade(attempt, s.answersLocked(attemptID))
	if err != nil {
		return domain.Attempt{}, err
	}
	s.attempts[attemptID] = graded
	return graded, nil
}

func (s *AttemptStore) Expire(_ context.Context, attemptID uuid.UUID) (domain.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempt, ok := s.attempts[attemptID]
	if !ok {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	if attempt.Status != domain.AttemptInProgress {
		return domain.Attempt{}, domain.ErrAttemptNotActive
	}
	attempt.Status = domain.AttemptExpired
	s.attempts[attemptID] = attempt
	return attempt, nil
}

func (s *AttemptStore) answersLocked(attemptID uuid.UUID) []domain.AnswerRecord {
	byQuestion := s.answers[attemptID]
	records := make([]domain.AnswerRecord, 0, len(byQuestion))
	for _, rec := range byQuestion {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].AnsweredAt.Equal(records[j].AnsweredAt) {
			return records[i].AnsweredAt.Before(records[j].AnsweredAt)
		}
		return records[i].QuestionID.String() < records[j].QuestionID.String()
	})
	return records
}
