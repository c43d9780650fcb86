package memory

import (
	"context"
	"sync"
	"time"
)

// LeaderboardCache is an in-process implementation of app.LeaderboardCache.
// Like the Redis one it is a disposable, derived index; expiry is honored so
// tests exercise the same refresh-on-write behavior.
type LeaderboardCache struct {
	clock func() time.Time

	mu     sync.Mutex
	boards map[int64]boardEntry
}

type boardEntry struct {
	scores    map[string]int
	expiresAt time.Time
}

func NewLeaderboardCache() *LeaderboardCache {
	return &LeaderboardCache{
		clock:  time.Now,
		boards: make(map[int64]boardEntry),
	}
}

func (c *LeaderboardCache) AddScore(_ context.Context, presentationID int64, participantID string, delta int, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	board, ok := c.boards[presentationID]
	if !ok || !board.expiresAt.After(now) {
		board = boardEntry{scores: make(map[string]int)}
	}
	board.scores[participantID] += delta
	board.expiresAt = now.Add(ttl)
	c.boards[presentationID] = board
	return nil
}

func (c *LeaderboardCache) Scores(_ context.Context, presentationID int64) (map[string]int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	board, ok := c.boards[presentationID]
	if !ok || !board.expiresAt.After(c.clock()) {
		return map[string]int{}, nil
	}
	out := make(map[string]int, len(board.scores))
	for id, score := range board.scores {
		out[id] = score
	}
	return out, nil
}

func (c *LeaderboardCache) Clear(_ context.Context, presentationID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.boards, presentationID)
	return nil
}
