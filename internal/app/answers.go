package app

import (
	"context"
	"log"
	"time"

	"quiz-live-service/internal/domain"
)

// AnswerOutcome is what a participant learns right after submitting.
type AnswerOutcome struct {
	IsCorrect       bool  `json:"is_correct"`
	PointsEarned    int   `json:"points_earned"`
	CorrectOptionID int64 `json:"correct_option_id"`
}

// AnswerService admits at most one answer per participant and question,
// scores it, and routes the points into the leaderboard.
type AnswerService struct {
	content     ContentStore
	state       SessionState
	guard       AnswerGuard
	leaderboard *LeaderboardService
	receiptTTL  time.Duration
}

func NewAnswerService(content ContentStore, state SessionState, guard AnswerGuard, leaderboard *LeaderboardService, receiptTTL time.Duration) *AnswerService {
	return &AnswerService{
		content:     content,
		state:       state,
		guard:       guard,
		leaderboard: leaderboard,
		receiptTTL:  receiptTTL,
	}
}

// Submit validates the submission against the open question window, records
// the receipt atomically before any scoring side effect, and awards points
// for a correct choice.
//
// elapsedSeconds is client-reported and trusted as-is; scoring clamps it to
// the question's window. Reconciling against the marker's start time would
// harden this but changes perceived fairness for laggy clients.
func (s *AnswerService) Submit(ctx context.Context, participant domain.Participant, questionID, optionID int64, elapsedSeconds float64) (AnswerOutcome, error) {
	question, err := s.content.Question(ctx, questionID)
	if err != nil {
		return AnswerOutcome{}, err
	}
	option := findOption(question, optionID)
	if option == nil {
		return AnswerOutcome{}, domain.ErrOptionNotFound
	}

	active, ok, err := s.state.ActiveQuestion(ctx, participant.PresentationID)
	if err != nil {
		return AnswerOutcome{}, err
	}
	if !ok || active.QuestionID != question.ID {
		return AnswerOutcome{}, domain.ErrQuestionNotActive
	}

	// Receipt first: a racing duplicate must lose here, before any points
	// are applied.
	if err := s.guard.Record(ctx, participant.PresentationID, question.ID, participant.ID, option.ID, s.receiptTTL); err != nil {
		return AnswerOutcome{}, err
	}

	outcome := AnswerOutcome{IsCorrect: option.IsCorrect}
	if correct := question.CorrectOption(); correct != nil {
		outcome.CorrectOptionID = correct.ID
	}

	if option.IsCorrect {
		points := domain.Points(true, elapsedSeconds, question.TimeLimitSeconds)
		if _, err := s.leaderboard.AddPoints(ctx, participant.ID, participant.PresentationID, points); err != nil {
			// The receipt already exists, so the participant is marked as
			// answered but holds no points. That must never pass silently.
			log.Printf("ALERT: scoring failed after receipt, participant=%s question=%d: %v", participant.ID, question.ID, err)
			return AnswerOutcome{}, err
		}
		outcome.PointsEarned = points
		if err := s.leaderboard.BroadcastLeaderboard(ctx, participant.PresentationID); err != nil {
			// Points are durable; a failed fan-out read only delays viewers.
			log.Printf("leaderboard broadcast failed after scoring: %v", err)
		}
	}
	return outcome, nil
}

func findOption(q domain.Question, optionID int64) *domain.Option {
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			return &q.Options[i]
		}
	}
	return nil
}
