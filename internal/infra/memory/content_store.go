package memory

import (
	"context"
	"sync"

	"quiz-live-service/internal/domain"
)

// ContentStore is a static, map-backed implementation of app.ContentStore
// (useful for tests and the demo server). Only presentation status is
// mutable, mirroring what the engine itself writes.
type ContentStore struct {
	mu            sync.RWMutex
	presentations map[int64]domain.Presentation
	questions     map[int64]domain.Question
}

func NewContentStore(presentations []domain.Presentation, questions []domain.Question) *ContentStore {
	s := &ContentStore{
		presentations: make(map[int64]domain.Presentation, len(presentations)),
		questions:     make(map[int64]domain.Question, len(questions)),
	}
	for _, p := range presentations {
		s.presentations[p.ID] = p
	}
	for _, q := range questions {
		s.questions[q.ID] = q
	}
	return s
}

func (s *ContentStore) Presentation(_ context.Context, id int64) (domain.Presentation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.presentations[id]
	if !ok {
		return domain.Presentation{}, domain.ErrPresentationNotFound
	}
	return p, nil
}

func (s *ContentStore) Question(_ context.Context, id int64) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return q, nil
}

func (s *ContentStore) SetStatus(_ context.Context, presentationID int64, status domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.presentations[presentationID]
	if !ok {
		return domain.ErrPresentationNotFound
	}
	p.Status = status
	s.presentations[presentationID] = p
	return nil
}
