package memory

import (
	"context"
	"sync"
	"time"

	"quiz-live-service/internal/domain"
)

// AnswerGuard is an in-process implementation of app.AnswerGuard. The
// check-and-set happens under one lock, so concurrent duplicates cannot both
// win.
type AnswerGuard struct {
	clock func() time.Time

	mu       sync.Mutex
	receipts map[guardKey]receiptSet
}

type guardKey struct {
	presentationID int64
	questionID     int64
}

type receiptSet struct {
	choices   map[string]int64
	expiresAt time.Time
}

func NewAnswerGuard() *AnswerGuard {
	return &AnswerGuard{
		clock:    time.Now,
		receipts: make(map[guardKey]receiptSet),
	}
}

// NewAnswerGuardWithClock allows deterministic expiry in tests.
func NewAnswerGuardWithClock(clock func() time.Time) *AnswerGuard {
	g := NewAnswerGuard()
	g.clock = clock
	return g
}

func (g *AnswerGuard) Record(_ context.Context, presentationID, questionID int64, participantID string, optionID int64, ttl time.Duration) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := guardKey{presentationID: presentationID, questionID: questionID}
	now := g.clock()
	set, ok := g.receipts[key]
	if !ok || !set.expiresAt.After(now) {
		set = receiptSet{
			choices:   make(map[string]int64),
			expiresAt: now.Add(ttl),
		}
		g.receipts[key] = set
	}
	if _, exists := set.choices[participantID]; exists {
		return domain.ErrDuplicateAnswer
	}
	set.choices[participantID] = optionID
	return nil
}

func (g *AnswerGuard) Choices(_ context.Context, presentationID, questionID int64) (map[string]int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := guardKey{presentationID: presentationID, questionID: questionID}
	set, ok := g.receipts[key]
	if !ok || !set.expiresAt.After(g.clock()) {
		return map[string]int64{}, nil
	}
	out := make(map[string]int64, len(set.choices))
	for participantID, optionID := range set.choices {
		out[participantID] = optionID
	}
	return out, nil
}
