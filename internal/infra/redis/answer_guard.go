package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-live-service/internal/domain"
)

// AnswerGuard records accepted answers in a per-question hash:
// HSETNX answers:{presentationID}:{questionID} {participantID} {optionID}.
// HSETNX is the atomic check-and-set, so of N racing submissions from one
// participant exactly one wins. Storing the option ID (not a bare flag) is
// what makes per-option tallies possible at question end.
type AnswerGuard struct {
	client *redis.Client
}

func NewAnswerGuard(client *redis.Client) *AnswerGuard {
	return &AnswerGuard{client: client}
}

func (g *AnswerGuard) Record(ctx context.Context, presentationID, questionID int64, participantID string, optionID int64, ttl time.Duration) error {
	key := answersKey(presentationID, questionID)
	set, err := g.client.HSetNX(ctx, key, participantID, strconv.FormatInt(optionID, 10)).Result()
	if err != nil {
		return fmt.Errorf("record answer: %w", err)
	}
	if !set {
		return domain.ErrDuplicateAnswer
	}
	if ttl > 0 {
		// Refreshing on each accepted answer keeps the hash alive past the
		// longest question window.
		_ = g.client.Expire(ctx, key, ttl).Err()
	}
	return nil
}

func (g *AnswerGuard) Choices(ctx context.Context, presentationID, questionID int64) (map[string]int64, error) {
	fields, err := g.client.HGetAll(ctx, answersKey(presentationID, questionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	choices := make(map[string]int64, len(fields))
	for participantID, raw := range fields {
		optionID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		choices[participantID] = optionID
	}
	return choices, nil
}

func answersKey(presentationID, questionID int64) string {
	return fmt.Sprintf("answers:%d:%d", presentationID, questionID)
}
