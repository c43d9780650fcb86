package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quiz-live-service/internal/app"
	"quiz-live-service/internal/domain"
)

// ContentCache wraps a ContentStore and caches question payloads (options
// included) as JSON under question:{id}. Submissions hammer the same
// question for its whole window, so this takes that read off the database;
// singleflight keeps a cold key from stampeding the loader.
//
// Presentation reads and status writes pass straight through: status is the
// one piece of content this engine mutates.
type ContentCache struct {
	client *redis.Client
	inner  app.ContentStore
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewContentCache(client *redis.Client, inner app.ContentStore, ttl time.Duration) *ContentCache {
	return &ContentCache{
		client: client,
		inner:  inner,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *ContentCache) Presentation(ctx context.Context, id int64) (domain.Presentation, error) {
	return c.inner.Presentation(ctx, id)
}

func (c *ContentCache) SetStatus(ctx context.Context, presentationID int64, status domain.Status) error {
	return c.inner.SetStatus(ctx, presentationID, status)
}

func (c *ContentCache) Question(ctx context.Context, id int64) (domain.Question, error) {
	key := questionKey(id)

	if q, ok := c.readCached(ctx, key); ok {
		return q, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if q, ok := c.readCached(ctx, key); ok {
			return q, nil
		}

		question, err := c.inner.Question(ctx, id)
		if err != nil {
			return domain.Question{}, err
		}

		if data, err := json.Marshal(cachedQuestion(question)); err == nil {
			_ = c.client.Set(ctx, key, data, c.ttlWithJitter()).Err()
		}
		return question, nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

func (c *ContentCache) readCached(ctx context.Context, key string) (domain.Question, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return domain.Question{}, false
	}
	var cached questionPayload
	if err := json.Unmarshal(raw, &cached); err != nil {
		return domain.Question{}, false
	}
	return cached.toDomain(), true
}

// questionPayload is the cache wire form; domain.Question has no JSON tags
// on its identity fields, so the cache keeps its own.
type questionPayload struct {
	ID               int64                  `json:"id"`
	PresentationID   int64                  `json:"presentation_id"`
	GroupName        string                 `json:"group_name,omitempty"`
	Content          domain.QuestionContent `json:"content"`
	TimeLimitSeconds int                    `json:"time_limit_seconds"`
	Order            int                    `json:"order"`
	Options          []domain.Option        `json:"options"`
}

func cachedQuestion(q domain.Question) questionPayload {
	return questionPayload{
		ID:               q.ID,
		PresentationID:   q.PresentationID,
		GroupName:        q.GroupName,
		Content:          q.Content,
		TimeLimitSeconds: q.TimeLimitSeconds,
		Order:            q.Order,
		Options:          q.Options,
	}
}

func (p questionPayload) toDomain() domain.Question {
	return domain.Question{
		ID:               p.ID,
		PresentationID:   p.PresentationID,
		GroupName:        p.GroupName,
		Content:          p.Content,
		TimeLimitSeconds: p.TimeLimitSeconds,
		Order:            p.Order,
		Options:          p.Options,
	}
}

func questionKey(id int64) string {
	return fmt.Sprintf("question:%d", id)
}

func (c *ContentCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
