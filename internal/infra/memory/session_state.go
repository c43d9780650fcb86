package memory

import (
	"context"
	"sync"
	"time"

	"quiz-live-service/internal/domain"
)

// SessionState is an in-process implementation of app.SessionState. The
// mutex makes every marker read a single consistent snapshot.
type SessionState struct {
	clock func() time.Time

	mu      sync.Mutex
	markers map[int64]markerEntry
}

type markerEntry struct {
	marker    domain.ActiveQuestion
	expiresAt time.Time
}

func NewSessionState() *SessionState {
	return &SessionState{
		clock:   time.Now,
		markers: make(map[int64]markerEntry),
	}
}

// NewSessionStateWithClock allows deterministic expiry in tests.
func NewSessionStateWithClock(clock func() time.Time) *SessionState {
	s := NewSessionState()
	s.clock = clock
	return s
}

func (s *SessionState) SetActiveQuestion(_ context.Context, presentationID int64, aq domain.ActiveQuestion, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers[presentationID] = markerEntry{
		marker:    aq,
		expiresAt: s.clock().Add(ttl),
	}
	return nil
}

func (s *SessionState) ActiveQuestion(_ context.Context, presentationID int64) (domain.ActiveQuestion, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.markers[presentationID]
	if !ok {
		return domain.ActiveQuestion{}, false, nil
	}
	if !entry.expiresAt.After(s.clock()) {
		delete(s.markers, presentationID)
		return domain.ActiveQuestion{}, false, nil
	}
	return entry.marker, true, nil
}

func (s *SessionState) ClearActiveQuestion(_ context.Context, presentationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.markers, presentationID)
	return nil
}
