package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz definition could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates the question does not belong to the attempt's quiz.
	ErrQuestionNotFound = errors.New("question not found in quiz")
	// ErrAttemptNotFound indicates no ledger row exists for the attempt ID.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrQuizNotPublished is returned when starting an attempt on an unpublished quiz.
	ErrQuizNotPublished = errors.New("quiz is not published")
	// ErrAttemptLimitExceeded is returned when the per-quiz attempt cap is reached.
	ErrAttemptLimitExceeded = errors.New("attempt limit exceeded")
	// ErrAttemptNotActive is returned for any transition on a non in-progress attempt.
	ErrAttemptNotActive = errors.New("attempt is not active")
	// ErrAttemptAccessDenied is returned when the attempt belongs to another user.
	ErrAttemptAccessDenied = errors.New("attempt belongs to another user")
	// ErrDuplicateAttempt signals a (user, quiz, number) collision between concurrent starts.
	ErrDuplicateAttempt = errors.New("attempt number already taken")
	// ErrConflict surfaces when bounded retries over ErrDuplicateAttempt are exhausted.
	ErrConflict = errors.New("conflicting concurrent operation")
)
