package app

import (
	"context"
	"time"

	"quiz-live-service/internal/domain"
)

// SessionControl drives a presentation through its lifecycle and manages the
// question open/closed sub-state held in the active-question marker.
type SessionControl struct {
	content      ContentStore
	state        SessionState
	guard        AnswerGuard
	leaderboard  *LeaderboardService
	bcast        Broadcaster
	markerWindow time.Duration
	now          func() time.Time
}

func NewSessionControl(content ContentStore, state SessionState, guard AnswerGuard, leaderboard *LeaderboardService, bcast Broadcaster, markerWindow time.Duration) *SessionControl {
	return &SessionControl{
		content:      content,
		state:        state,
		guard:        guard,
		leaderboard:  leaderboard,
		bcast:        bcast,
		markerWindow: markerWindow,
		now:          time.Now,
	}
}

// WithClock is test-only for deterministic timestamps.
func (c *SessionControl) WithClock(now func() time.Time) *SessionControl {
	c.now = now
	return c
}

// StartQuestion opens a question for answers. A waiting presentation
// transitions to active; the marker records the authoritative start time
// with an expiry of at least the question's own limit, so a crashed operator
// cannot leave a question open at the data layer forever.
func (c *SessionControl) StartQuestion(ctx context.Context, presentationID, questionID int64) error {
	pres, err := c.content.Presentation(ctx, presentationID)
	if err != nil {
		return err
	}
	question, err := c.content.Question(ctx, questionID)
	if err != nil {
		return err
	}
	if question.PresentationID != pres.ID {
		return domain.ErrQuestionMismatch
	}
	if !pres.IsWaiting() && !pres.IsActive() {
		return domain.ErrPresentationNotStartable
	}

	if pres.IsWaiting() {
		if err := c.content.SetStatus(ctx, pres.ID, domain.StatusActive); err != nil {
			return err
		}
	}

	startedAt := c.now().UTC()
	ttl := c.markerWindow
	if limit := time.Duration(question.TimeLimitSeconds) * time.Second; ttl < limit {
		ttl = limit
	}
	marker := domain.ActiveQuestion{QuestionID: question.ID, StartedAt: startedAt}
	if err := c.state.SetActiveQuestion(ctx, pres.ID, marker, ttl); err != nil {
		return err
	}

	c.bcast.Broadcast(pres.ID, domain.NewQuestionStartedEvent(question, startedAt))
	return nil
}

// EndQuestion closes a question: it tallies the recorded choices, clears the
// marker, reveals the correct option, and pushes a fresh leaderboard.
// Ending a question that was never started is a no-op on the marker but
// still requires a correct option to exist.
func (c *SessionControl) EndQuestion(ctx context.Context, presentationID, questionID int64) error {
	question, err := c.content.Question(ctx, questionID)
	if err != nil {
		return err
	}
	if question.PresentationID != presentationID {
		return domain.ErrQuestionMismatch
	}
	correct := question.CorrectOption()
	if correct == nil {
		return domain.ErrNoCorrectOption
	}

	choices, err := c.guard.Choices(ctx, presentationID, question.ID)
	if err != nil {
		return err
	}
	stats := tallyChoices(question, choices, correct.ID)

	if err := c.state.ClearActiveQuestion(ctx, presentationID); err != nil {
		return err
	}

	c.bcast.Broadcast(presentationID, domain.QuestionEndedEvent{
		QuestionID:      question.ID,
		CorrectOptionID: correct.ID,
		Statistics:      stats,
	})
	return c.leaderboard.BroadcastLeaderboard(ctx, presentationID)
}

// UpdateStatus is an administrative override: any of the four states can be
// forced without the usual transition guards.
func (c *SessionControl) UpdateStatus(ctx context.Context, presentationID int64, status domain.Status) error {
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}
	if _, err := c.content.Presentation(ctx, presentationID); err != nil {
		return err
	}
	return c.content.SetStatus(ctx, presentationID, status)
}

// CurrentQuestion exposes the marker so late joiners can reconstruct the
// same view as clients present from the start.
func (c *SessionControl) CurrentQuestion(ctx context.Context, presentationID int64) (domain.ActiveQuestion, bool, error) {
	return c.state.ActiveQuestion(ctx, presentationID)
}

func tallyChoices(question domain.Question, choices map[string]int64, correctOptionID int64) domain.QuestionStatistics {
	counts := make(map[int64]int, len(question.Options))
	correctAnswers := 0
	for _, optionID := range choices {
		counts[optionID]++
		if optionID == correctOptionID {
			correctAnswers++
		}
	}

	stats := domain.QuestionStatistics{
		TotalAnswers:   len(choices),
		CorrectAnswers: correctAnswers,
		Options:        make([]domain.OptionCount, 0, len(question.Options)),
	}
	for _, opt := range question.Options {
		stats.Options = append(stats.Options, domain.OptionCount{
			OptionID:  opt.ID,
			Text:      opt.Text,
			IsCorrect: opt.IsCorrect,
			Count:     counts[opt.ID],
		})
	}
	return stats
}
