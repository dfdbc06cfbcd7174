package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/hieudo2808/lms-project-sub000/internal/domain"
)

// QuizRepository serves quiz definitions from an in-memory map (tests and
// no-database demo mode). Deliberately uncached and unexpiring: reads always
// reflect the latest SetQuiz, mirroring the fresh-read contract of the
// Postgres loader.
type QuizRepository struct {
	mu      sync.RWMutex
	quizzes map[uuid.UUID]domain.Quiz
}

func NewQuizRepository(quizzes map[uuid.UUID]domain.Quiz) *QuizRepository {
	if quizzes == nil {
		quizzes = make(map[uuid.UUID]domain.Quiz)
	}
	return &QuizRepository{quizzes: quizzes}
}

func (r *QuizRepository) GetQuiz(_ context.Context, quizID uuid.UUID) (domain.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if quiz, ok := r.quizzes[quizID]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

// SetQuiz inserts or replaces a definition. Used by seeding and by tests that
// simulate authoring edits mid-attempt.
func (r *QuizRepository) SetQuiz(quiz domain.Quiz) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quizzes[quiz.ID] = quiz
}
