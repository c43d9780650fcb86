package app

import (
	"context"
	"log"
	"time"

	"quiz-live-service/internal/domain"
)

// DefaultBroadcastLimit is how many rows a leaderboard broadcast carries
// unless configured otherwise.
const DefaultBroadcastLimit = 10

// LeaderboardService orchestrates the durable score store and the derived
// cache. The store is authoritative; cache failures are logged and swallowed
// so an absent or flaky cache can never lose points.
type LeaderboardService struct {
	store    ParticipantStore
	cache    LeaderboardCache
	bcast    Broadcaster
	cacheTTL time.Duration
	limit    int
}

func NewLeaderboardService(store ParticipantStore, cache LeaderboardCache, bcast Broadcaster, cacheTTL time.Duration, broadcastLimit int) *LeaderboardService {
	if broadcastLimit <= 0 {
		broadcastLimit = DefaultBroadcastLimit
	}
	return &LeaderboardService{
		store:    store,
		cache:    cache,
		bcast:    bcast,
		cacheTTL: cacheTTL,
		limit:    broadcastLimit,
	}
}

// AddPoints atomically increments the participant's durable score and
// returns the new total, then best-effort mirrors the delta into the cache.
func (s *LeaderboardService) AddPoints(ctx context.Context, participantID string, presentationID int64, points int) (int, error) {
	total, err := s.store.AddScore(ctx, participantID, points)
	if err != nil {
		return 0, err
	}
	if err := s.cache.AddScore(ctx, presentationID, participantID, points, s.cacheTTL); err != nil {
		log.Printf("leaderboard cache update failed, continuing with store: %v", err)
	}
	return total, nil
}

// TopParticipants reads the durable store directly and assigns dense ranks
// 1..N. Ties carry distinct ranks in ascending participant-ID order.
func (s *LeaderboardService) TopParticipants(ctx context.Context, presentationID int64, limit int) ([]domain.LeaderboardRow, error) {
	if limit <= 0 {
		limit = s.limit
	}
	participants, err := s.store.TopByScore(ctx, presentationID, limit)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.LeaderboardRow, 0, len(participants))
	for i, p := range participants {
		rows = append(rows, domain.LeaderboardRow{
			Rank:          i + 1,
			ParticipantID: p.ID,
			DisplayName:   p.DisplayName,
			Score:         p.Score,
		})
	}
	return rows, nil
}

// ParticipantRank returns a participant's rank and score within the given
// presentation. Rank is the count of strictly higher scores plus one, an
// O(N) query bounded by a single presentation's audience.
func (s *LeaderboardService) ParticipantRank(ctx context.Context, participantID string, presentationID int64) (rank, score int, err error) {
	p, err := s.store.Participant(ctx, participantID)
	if err != nil {
		return 0, 0, err
	}
	if p.PresentationID != presentationID {
		return 0, 0, domain.ErrParticipantNotFound
	}
	higher, err := s.store.CountWithHigherScore(ctx, presentationID, p.Score)
	if err != nil {
		return 0, 0, err
	}
	return higher + 1, p.Score, nil
}

// BroadcastLeaderboard recomputes the top-N and emits it on the
// presentation's topic.
func (s *LeaderboardService) BroadcastLeaderboard(ctx context.Context, presentationID int64) error {
	rows, err := s.TopParticipants(ctx, presentationID, s.limit)
	if err != nil {
		return err
	}
	s.bcast.Broadcast(presentationID, domain.LeaderboardUpdatedEvent{Leaderboard: rows})
	return nil
}

// SyncToStore writes the cache's scores back into the durable store. It is
// an operational repair for suspected divergence, never part of the hot
// path.
func (s *LeaderboardService) SyncToStore(ctx context.Context, presentationID int64) error {
	scores, err := s.cache.Scores(ctx, presentationID)
	if err != nil {
		return err
	}
	for participantID, score := range scores {
		if err := s.store.SetScore(ctx, participantID, score); err != nil {
			return err
		}
	}
	return nil
}

// Clear drops the presentation's cache entry. The durable store keeps the
// scores.
func (s *LeaderboardService) Clear(ctx context.Context, presentationID int64) error {
	return s.cache.Clear(ctx, presentationID)
}
