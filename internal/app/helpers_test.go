package app_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"quiz-live-service/internal/app"
	"quiz-live-service/internal/domain"
	"quiz-live-service/internal/infra/memory"
)

// captureBroadcaster records events instead of fanning them out.
type captureBroadcaster struct {
	mu     sync.Mutex
	events []capturedEvent
}

type capturedEvent struct {
	presentationID int64
	event          domain.Event
}

func (b *captureBroadcaster) Broadcast(presentationID int64, event domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, capturedEvent{presentationID: presentationID, event: event})
}

func (b *captureBroadcaster) all() []capturedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]capturedEvent, len(b.events))
	copy(out, b.events)
	return out
}

func (b *captureBroadcaster) named(name string) []domain.Event {
	var out []domain.Event
	for _, e := range b.all() {
		if e.event.EventName() == name {
			out = append(out, e.event)
		}
	}
	return out
}

// failingCache simulates an unavailable leaderboard cache.
type failingCache struct{}

var errCacheDown = errors.New("cache unavailable")

func (failingCache) AddScore(context.Context, int64, string, int, time.Duration) error {
	return errCacheDown
}
func (failingCache) Scores(context.Context, int64) (map[string]int, error) {
	return nil, errCacheDown
}
func (failingCache) Clear(context.Context, int64) error { return errCacheDown }

type fixture struct {
	content      *memory.ContentStore
	state        *memory.SessionState
	guard        *memory.AnswerGuard
	participants *memory.ParticipantStore
	bcast        *captureBroadcaster
	leaderboard  *app.LeaderboardService
	control      *app.SessionControl
	answers      *app.AnswerService
}

// newFixture wires the services over memory infra with one waiting
// presentation (ID 1) holding a 20-second question (ID 10, correct option
// 101) and a second question (ID 11) with no correct option.
func newFixture(cache app.LeaderboardCache) *fixture {
	content := memory.NewContentStore(
		[]domain.Presentation{
			{ID: 1, Title: "Demo night", AdminCode: "secret", Status: domain.StatusWaiting},
			{ID: 2, Title: "Other deck", AdminCode: "other", Status: domain.StatusActive},
		},
		[]domain.Question{
			{
				ID:               10,
				PresentationID:   1,
				Content:          domain.QuestionContent{Text: "What is 2 + 2?"},
				TimeLimitSeconds: 20,
				Options: []domain.Option{
					{ID: 100, QuestionID: 10, Text: "3", IsCorrect: false},
					{ID: 101, QuestionID: 10, Text: "4", IsCorrect: true},
					{ID: 102, QuestionID: 10, Text: "5", IsCorrect: false},
				},
			},
			{
				ID:               11,
				PresentationID:   1,
				Content:          domain.QuestionContent{Text: "No right answer"},
				TimeLimitSeconds: 30,
				Options: []domain.Option{
					{ID: 110, QuestionID: 11, Text: "A", IsCorrect: false},
					{ID: 111, QuestionID: 11, Text: "B", IsCorrect: false},
				},
			},
			{
				ID:               20,
				PresentationID:   2,
				Content:          domain.QuestionContent{Text: "Belongs elsewhere"},
				TimeLimitSeconds: 15,
				Options: []domain.Option{
					{ID: 200, QuestionID: 20, Text: "Yes", IsCorrect: true},
				},
			},
		},
	)

	f := &fixture{
		content:      content,
		state:        memory.NewSessionState(),
		guard:        memory.NewAnswerGuard(),
		participants: memory.NewParticipantStore(),
		bcast:        &captureBroadcaster{},
	}
	if cache == nil {
		cache = memory.NewLeaderboardCache()
	}
	f.leaderboard = app.NewLeaderboardService(f.participants, cache, f.bcast, 24*time.Hour, 10)
	f.control = app.NewSessionControl(content, f.state, f.guard, f.leaderboard, f.bcast, 10*time.Minute)
	f.answers = app.NewAnswerService(content, f.state, f.guard, f.leaderboard, 15*time.Minute)
	return f
}

func (f *fixture) join(ctx context.Context, id, name string) domain.Participant {
	p := domain.Participant{ID: id, PresentationID: 1, DisplayName: name, UpdatedAt: time.Now()}
	_ = f.participants.Create(ctx, p)
	return p
}
