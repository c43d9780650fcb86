package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"quiz-live-service/internal/domain"
	"quiz-live-service/internal/infra/memory"
)

func TestContentCacheCachesQuestions(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	inner := &countingStore{ContentStore: memory.NewContentStore(
		[]domain.Presentation{{ID: 1, Title: "Demo", Status: domain.StatusWaiting}},
		[]domain.Question{sampleQuestion()},
	)}
	cache := NewContentCache(newClient(mr), inner, time.Minute)
	ctx := context.Background()

	q, err := cache.Question(ctx, 10)
	if err != nil {
		t.Fatalf("question: %v", err)
	}
	if inner.questionCalls != 1 {
		t.Fatalf("expected inner called once, got %d", inner.questionCalls)
	}
	if len(q.Options) != 2 || q.TimeLimitSeconds != 20 {
		t.Fatalf("unexpected question %+v", q)
	}

	// Second read hits the cache; correctness flags must survive the trip.
	q, err = cache.Question(ctx, 10)
	if err != nil {
		t.Fatalf("question 2: %v", err)
	}
	if inner.questionCalls != 1 {
		t.Fatalf("expected cache hit, inner calls=%d", inner.questionCalls)
	}
	if correct := q.CorrectOption(); correct == nil || correct.ID != 101 {
		t.Fatalf("expected cached question to keep correct option, got %+v", correct)
	}
}

func TestContentCachePassesThroughPresentation(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	inner := memory.NewContentStore(
		[]domain.Presentation{{ID: 1, Title: "Demo", Status: domain.StatusWaiting}},
		nil,
	)
	cache := NewContentCache(newClient(mr), inner, time.Minute)
	ctx := context.Background()

	if err := cache.SetStatus(ctx, 1, domain.StatusActive); err != nil {
		t.Fatalf("set status: %v", err)
	}
	p, err := cache.Presentation(ctx, 1)
	if err != nil {
		t.Fatalf("presentation: %v", err)
	}
	if p.Status != domain.StatusActive {
		t.Fatalf("expected status write to pass through, got %s", p.Status)
	}
}

type countingStore struct {
	*memory.ContentStore
	questionCalls int
}

func (s *countingStore) Question(ctx context.Context, id int64) (domain.Question, error) {
	s.questionCalls++
	return s.ContentStore.Question(ctx, id)
}

func sampleQuestion() domain.Question {
	return domain.Question{
		ID:               10,
		PresentationID:   1,
		Content:          domain.QuestionContent{Text: "What is 2 + 2?"},
		TimeLimitSeconds: 20,
		Options: []domain.Option{
			{ID: 100, QuestionID: 10, Text: "3", IsCorrect: false},
			{ID: 101, QuestionID: 10, Text: "4", IsCorrect: true},
		},
	}
}
