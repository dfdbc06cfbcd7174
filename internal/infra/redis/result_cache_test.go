package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hieudo2808/lms-project-sub000/internal/domain"
)

func TestResultCacheLoadsOnceThenServesCached(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	cache := NewResultCache(newClient(mr), time.Minute)
	attemptID := uuid.New()
	view := sampleResult(attemptID)

	calls := 0
	load := func(context.Context) (domain.AttemptResultView, error) {
		calls++
		return view, nil
	}

	got, err := cache.GetResult(context.Background(), attemptID, load)
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected loader called once, got %d", calls)
	}
	if got.TotalScore != view.TotalScore || got.Status != view.Status {
		t.Fatalf("cached view mismatch: %+v", got)
	}

	// Second call hits the cache, loader not incremented.
	got, err = cache.GetResult(context.Background(), attemptID, load)
	if err != nil {
		t.Fatalf("get result again: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", calls)
	}
	if got.Percentage != view.Percentage || !got.Passed {
		t.Fatalf("cached view lost fields: %+v", got)
	}
}

func TestResultCacheLoaderErrorNotCached(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	cache := NewResultCache(newClient(mr), time.Minute)
	attemptID := uuid.New()

	boom := errors.New("store down")
	calls := 0
	if _, err := cache.GetResult(context.Background(), attemptID, func(context.Context) (domain.AttemptResultView, error) {
		calls++
		return domain.AttemptResultView{}, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}

	// a failed load leaves nothing behind; the next call loads again
	if _, err := cache.GetResult(context.Background(), attemptID, func(context.Context) (domain.AttemptResultView, error) {
		calls++
		return sampleResult(attemptID), nil
	}); err != nil {
		t.Fatalf("get after failure: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected a fresh load after a failed one, calls=%d", calls)
	}
}

func TestResultCacheEntriesExpire(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	cache := NewResultCache(newClient(mr), time.Minute)
	attemptID := uuid.New()

	calls := 0
	load := func(context.Context) (domain.AttemptResultView, error) {
		calls++
		return sampleResult(attemptID), nil
	}
	if _, err := cache.GetResult(context.Background(), attemptID, load); err != nil {
		t.Fatalf("get result: %v", err)
	}

	// jitter adds at most 10%, so two minutes is past any expiry
	mr.FastForward(2 * time.Minute)

	if _, err := cache.GetResult(context.Background(), attemptID, load); err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected reload after ttl, calls=%d", calls)
	}
}

func sampleResult(attemptID uuid.UUID) domain.AttemptResultView {
	submitted := time.Now().UTC().Truncate(time.Second)
	return domain.AttemptResultView{
		ID:          attemptID,
		QuizID:      uuid.New(),
		Number:      1,
		Status:      domain.AttemptGraded,
		TotalScore:  15,
		MaxScore:    15,
		Percentage:  100,
		Passed:      true,
		StartedAt:   submitted.Add(-time.Minute),
		SubmittedAt: &submitted,
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
