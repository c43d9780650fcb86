package redis

import (
	"context"
	"fmt"

	"time"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache keeps a per-presentation sorted set of scores:
// ZINCRBY leaderboard:{presentationID} {delta} {participantID}. It is a
// derived index rebuildable from the participant store, so every failure
// here is survivable.
type LeaderboardCache struct {
	client *redis.Client
}

func NewLeaderboardCache(client *redis.Client) *LeaderboardCache {
	return &LeaderboardCache{client: client}
}

func (c *LeaderboardCache) AddScore(ctx context.Context, presentationID int64, participantID string, delta int, ttl time.Duration) error {
	key := leaderboardKey(presentationID)
	pipe := c.client.TxPipeline()
	pipe.ZIncrBy(ctx, key, float64(delta), participantID)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("leaderboard cache add: %w", err)
	}
	return nil
}

func (c *LeaderboardCache) Scores(ctx context.Context, presentationID int64) (map[string]int, error) {
	members, err := c.client.ZRangeWithScores(ctx, leaderboardKey(presentationID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard cache read: %w", err)
	}
	scores := make(map[string]int, len(members))
	for _, m := range members {
		participantID, ok := m.Member.(string)
		if !ok {
			continue
		}
		scores[participantID] = int(m.Score)
	}
	return scores, nil
}

func (c *LeaderboardCache) Clear(ctx context.Context, presentationID int64) error {
	if err := c.client.Del(ctx, leaderboardKey(presentationID)).Err(); err != nil {
		return fmt.Errorf("leaderboard cache clear: %w", err)
	}
	return nil
}

func leaderboardKey(presentationID int64) string {
	return fmt.Sprintf("leaderboard:%d", presentationID)
}
