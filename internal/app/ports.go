package app

import (
	"context"
	"time"

	"quiz-live-service/internal/domain"
)

// ParticipantStore is the durable, authoritative home of participant scores.
type ParticipantStore interface {
	Participant(ctx context.Context, id string) (domain.Participant, error)
	Create(ctx context.Context, p domain.Participant) error
	// AddScore atomically increments a participant's score and returns the
	// new total. Implementations must not read-then-write.
	AddScore(ctx context.Context, id string, delta int) (int, error)
	// SetScore overwrites a score; used only by cache-to-store repair.
	SetScore(ctx context.Context, id string, score int) error
	// TopByScore returns participants with score > 0 ordered by score
	// descending, ties broken by ascending participant ID.
	TopByScore(ctx context.Context, presentationID int64, limit int) ([]domain.Participant, error)
	CountWithHigherScore(ctx context.Context, presentationID int64, score int) (int, error)
	// DeleteInactiveBefore removes participants untouched since cutoff and
	// reports how many were deleted.
	DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ContentStore resolves presentation and question content. Authoring lives
// elsewhere; this engine only reads it, plus flips presentation status.
type ContentStore interface {
	Presentation(ctx context.Context, id int64) (domain.Presentation, error)
	// Question returns the question with its options populated.
	Question(ctx context.Context, id int64) (domain.Question, error)
	SetStatus(ctx context.Context, presentationID int64, status domain.Status) error
}

// SessionState holds the per-presentation active-question marker. Reads must
// observe the marker at a single consistent instant.
type SessionState interface {
	SetActiveQuestion(ctx context.Context, presentationID int64, aq domain.ActiveQuestion, ttl time.Duration) error
	// ActiveQuestion returns the marker and whether one exists.
	ActiveQuestion(ctx context.Context, presentationID int64) (domain.ActiveQuestion, bool, error)
	ClearActiveQuestion(ctx context.Context, presentationID int64) error
}

// AnswerGuard enforces at-most-one accepted answer per participant and
// question, and retains the chosen option for tallying.
type AnswerGuard interface {
	// Record stores the participant's choice as a single atomic
	// check-and-set. It returns domain.ErrDuplicateAnswer if a receipt
	// already exists, even under concurrent submissions.
	Record(ctx context.Context, presentationID, questionID int64, participantID string, optionID int64, ttl time.Duration) error
	// Choices returns every recorded participant-to-option pairing for a
	// question.
	Choices(ctx context.Context, presentationID, questionID int64) (map[string]int64, error)
}

// LeaderboardCache is the fast, derived score index. It is never
// authoritative; every method may fail without affecting correctness.
type LeaderboardCache interface {
	AddScore(ctx context.Context, presentationID int64, participantID string, delta int, ttl time.Duration) error
	Scores(ctx context.Context, presentationID int64) (map[string]int, error)
	Clear(ctx context.Context, presentationID int64) error
}

// Broadcaster fans an event out to every subscriber of a presentation's
// topic. Delivery order must match call order within one presentation.
type Broadcaster interface {
	Broadcast(presentationID int64, event domain.Event)
}
