package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-live-service/internal/domain"
)

// SessionState stores the active-question marker as a single JSON value
// under presentation:{id}:current_question. GET, SET, and DEL each touch one
// key in one command, so a reader always sees the marker whole or not at
// all. The TTL bounds how long a crashed operator can leave a question open.
type SessionState struct {
	client *redis.Client
}

func NewSessionState(client *redis.Client) *SessionState {
	return &SessionState{client: client}
}

func (s *SessionState) SetActiveQuestion(ctx context.Context, presentationID int64, aq domain.ActiveQuestion, ttl time.Duration) error {
	data, err := json.Marshal(aq)
	if err != nil {
		return fmt.Errorf("marshal marker: %w", err)
	}
	if err := s.client.Set(ctx, currentQuestionKey(presentationID), data, ttl).Err(); err != nil {
		return fmt.Errorf("set marker: %w", err)
	}
	return nil
}

func (s *SessionState) ActiveQuestion(ctx context.Context, presentationID int64) (domain.ActiveQuestion, bool, error) {
	raw, err := s.client.Get(ctx, currentQuestionKey(presentationID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ActiveQuestion{}, false, nil
	}
	if err != nil {
		return domain.ActiveQuestion{}, false, fmt.Errorf("get marker: %w", err)
	}
	var aq domain.ActiveQuestion
	if err := json.Unmarshal(raw, &aq); err != nil {
		return domain.ActiveQuestion{}, false, fmt.Errorf("unmarshal marker: %w", err)
	}
	return aq, true, nil
}

func (s *SessionState) ClearActiveQuestion(ctx context.Context, presentationID int64) error {
	if err := s.client.Del(ctx, currentQuestionKey(presentationID)).Err(); err != nil {
		return fmt.Errorf("clear marker: %w", err)
	}
	return nil
}

func currentQuestionKey(presentationID int64) string {
	return fmt.Sprintf("presentation:%d:current_question", presentationID)
}
