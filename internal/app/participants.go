package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"quiz-live-service/internal/domain"
)

// ParticipantService creates audience members and resolves their opaque
// tokens. Tokens are UUIDs: globally unique and not guessable in sequence.
type ParticipantService struct {
	store   ParticipantStore
	content ContentStore
	newID   func() string
	now     func() time.Time
}

func NewParticipantService(store ParticipantStore, content ContentStore) *ParticipantService {
	return &ParticipantService{
		store:   store,
		content: content,
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// Join registers a new participant with a zero score in the presentation.
func (s *ParticipantService) Join(ctx context.Context, presentationID int64, displayName string) (domain.Participant, error) {
	if _, err := s.content.Presentation(ctx, presentationID); err != nil {
		return domain.Participant{}, err
	}
	p := domain.Participant{
		ID:             s.newID(),
		PresentationID: presentationID,
		DisplayName:    displayName,
		Score:          0,
		UpdatedAt:      s.now().UTC(),
	}
	if err := s.store.Create(ctx, p); err != nil {
		return domain.Participant{}, err
	}
	return p, nil
}

// Resolve maps a participant token back to its record.
func (s *ParticipantService) Resolve(ctx context.Context, participantID string) (domain.Participant, error) {
	return s.store.Participant(ctx, participantID)
}

// Cleanup deletes participants untouched for the retention window and
// returns how many rows went away.
func (s *ParticipantService) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	return s.store.DeleteInactiveBefore(ctx, s.now().Add(-retention))
}
