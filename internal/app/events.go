package app

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Attempt event types pushed to monitoring subscribers. answer_submitted
// carries the question ID but never correctness; mid-attempt feedback must
// not leak through the feed either.
const (
	EventAttemptStarted  = "attempt_started"
	EventAnswerSubmitted = "answer_submitted"
	EventAttemptGraded   = "attempt_graded"
	EventAttemptExpired  = "attempt_expired"
)

// AttemptEvent is one lifecycle notification for a quiz's monitoring feed.
// Score fields are set only on attempt_graded.
type AttemptEvent struct {
	Type       string     `json:"type"`
	QuizID     uuid.UUID  `json:"quizId"`
	AttemptID  uuid.UUID  `json:"attemptId"`
	UserID     uuid.UUID  `json:"userId"`
	Number     int        `json:"number"`
	QuestionID *uuid.UUID `json:"questionId,omitempty"`
	TotalScore *int       `json:"totalScore,omitempty"`
	Percentage *float64   `json:"percentage,omitempty"`
	Passed     *bool      `json:"passed,omitempty"`
	At         time.Time  `json:"at"`
}

// EventHub fans attempt events out to per-quiz subscribers (instructor
// dashboards, admin tooling). Publishing never blocks the lifecycle path.
type EventHub struct {
	mu    sync.RWMutex
	feeds map[uuid.UUID]map[chan AttemptEvent]struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{feeds: make(map[uuid.UUID]map[chan AttemptEvent]struct{})}
}

// Subscribe returns a channel receiving events for one quiz. The caller must
// invoke the returned cancel function to avoid leaks.
func (h *EventHub) Subscribe(quizID uuid.UUID) (<-chan AttemptEvent, func()) {
	ch := make(chan AttemptEvent, 16)

	h.mu.Lock()
	subs, ok := h.feeds[quizID]
	if !ok {
		subs = make(map[chan AttemptEvent]struct{})
		h.feeds[quizID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if subs, ok := h.feeds[quizID]; ok {
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(h.feeds, quizID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber of its quiz. Slow consumers
// lose their oldest buffered event rather than stalling the publisher.
func (h *EventHub) Publish(ev AttemptEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.feeds[ev.QuizID] {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}
