package app

import (
	"testing"

	"github.com/google/uuid"
)

func TestHubDeliversToQuizSubscribersOnly(t *testing.T) {
	hub := NewEventHub()
	quizA := uuid.New()
	quizB := uuid.New()

	chA, cancelA := hub.Subscribe(quizA)
	defer cancelA()
	chB, cancelB := hub.Subscribe(quizB)
	defer cancelB()

	hub.Publish(AttemptEvent{Type: EventAttemptStarted, QuizID: quizA, AttemptID: uuid.New()})

	select {
	case ev := <-chA:
		if ev.Type != EventAttemptStarted || ev.QuizID != quizA {
			t.Fatalf("unexpected event: %+v", ev)
		}
	default:
		t.Fatalf("subscriber of quiz A received nothing")
	}
	select {
	case ev := <-chB:
		t.Fatalf("subscriber of quiz B received foreign event: %+v", ev)
	default:
	}
}

func TestHubCancelStopsDelivery(t *testing.T) {
	hub := NewEventHub()
	quizID := uuid.New()

	ch, cancel := hub.Subscribe(quizID)
	cancel()
	cancel() // repeat cancel is a no-op

	hub.Publish(AttemptEvent{Type: EventAttemptStarted, QuizID: quizID})

	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after cancel")
	}
}

func TestHubDropsOldestWhenSubscriberStalls(t *testing.T) {
	hub := NewEventHub()
	quizID := uuid.New()

	ch, cancel := hub.Subscribe(quizID)
	defer cancel()

	// overflow the buffer; Publish must not block and the newest events win
	for i := 0; i < 40; i++ {
		hub.Publish(AttemptEvent{Type: EventAnswerSubmitted, QuizID: quizID, Number: i})
	}

	var last int
	for {
		select {
		case ev := <-ch:
			last = ev.Number
			continue
		default:
		}
		break
	}
	if last != 39 {
		t.Fatalf("expected the newest event to survive, last seen number %d", last)
	}
}
