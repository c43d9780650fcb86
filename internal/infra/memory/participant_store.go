package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"quiz-live-service/internal/domain"
)

// ParticipantStore is an in-process implementation of app.ParticipantStore,
// used by app tests and by the server's demo mode when no Postgres is
// configured. AddScore serializes on the store lock, matching the atomic
// increment the SQL version gets from a single UPDATE.
type ParticipantStore struct {
	clock func() time.Time

	mu           sync.Mutex
	participants map[string]domain.Participant
}

func NewParticipantStore() *ParticipantStore {
	return &ParticipantStore{
		clock:        time.Now,
		participants: make(map[string]domain.Participant),
	}
}

func (s *ParticipantStore) Participant(_ context.Context, id string) (domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[id]
	if !ok {
		return domain.Participant{}, domain.ErrParticipantNotFound
	}
	return p, nil
}

func (s *ParticipantStore) Create(_ context.Context, p domain.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.participants[p.ID] = p
	return nil
}

func (s *ParticipantStore) AddScore(_ context.Context, id string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[id]
	if !ok {
		return 0, domain.ErrParticipantNotFound
	}
	p.Score += delta
	p.UpdatedAt = s.clock()
	s.participants[id] = p
	return p.Score, nil
}

func (s *ParticipantStore) SetScore(_ context.Context, id string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[id]
	if !ok {
		return domain.ErrParticipantNotFound
	}
	p.Score = score
	p.UpdatedAt = s.clock()
	s.participants[id] = p
	return nil
}

func (s *ParticipantStore) TopByScore(_ context.Context, presentationID int64, limit int) ([]domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Participant, 0)
	for _, p := range s.participants {
		if p.PresentationID == presentationID && p.Score > 0 {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *ParticipantStore) CountWithHigherScore(_ context.Context, presentationID int64, score int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, p := range s.participants {
		if p.PresentationID == presentationID && p.Score > score {
			count++
		}
	}
	return count, nil
}

func (s *ParticipantStore) DeleteInactiveBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, p := range s.participants {
		if p.UpdatedAt.Before(cutoff) {
			delete(s.participants, id)
			deleted++
		}
	}
	return deleted, nil
}
