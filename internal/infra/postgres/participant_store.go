package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-live-service/internal/domain"
)

// ParticipantStore is the durable, authoritative home of scores. The
// increment happens inside a single UPDATE, so concurrent AddScore calls for
// one participant serialize on the row with no lost updates.
type ParticipantStore struct {
	pool *pgxpool.Pool
}

func NewParticipantStore(pool *pgxpool.Pool) *ParticipantStore {
	return &ParticipantStore{pool: pool}
}

func (s *ParticipantStore) Participant(ctx context.Context, id string) (domain.Participant, error) {
	var p domain.Participant
	err := s.pool.QueryRow(ctx,
		`SELECT id, presentation_id, display_name, score, updated_at FROM participants WHERE id=$1`, id,
	).Scan(&p.ID, &p.PresentationID, &p.DisplayName, &p.Score, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Participant{}, domain.ErrParticipantNotFound
	}
	if err != nil {
		return domain.Participant{}, fmt.Errorf("load participant: %w", err)
	}
	return p, nil
}

func (s *ParticipantStore) Create(ctx context.Context, p domain.Participant) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO participants (id, presentation_id, display_name, score, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, now(), now())`,
		p.ID, p.PresentationID, p.DisplayName, p.Score,
	)
	if err != nil {
		return fmt.Errorf("create participant: %w", err)
	}
	return nil
}

func (s *ParticipantStore) AddScore(ctx context.Context, id string, delta int) (int, error) {
	var total int
	err := s.pool.QueryRow(ctx,
		`UPDATE participants SET score = score + $2, updated_at = now() WHERE id=$1 RETURNING score`,
		id, delta,
	).Scan(&total)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrParticipantNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("add score: %w", err)
	}
	return total, nil
}

func (s *ParticipantStore) SetScore(ctx context.Context, id string, score int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE participants SET score = $2, updated_at = now() WHERE id=$1`, id, score,
	)
	if err != nil {
		return fmt.Errorf("set score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

func (s *ParticipantStore) TopByScore(ctx context.Context, presentationID int64, limit int) ([]domain.Participant, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, presentation_id, display_name, score, updated_at
		 FROM participants
		 WHERE presentation_id=$1 AND score > 0
		 ORDER BY score DESC, id ASC
		 LIMIT $2`,
		presentationID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top participants: %w", err)
	}
	defer rows.Close()

	var out []domain.Participant
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.ID, &p.PresentationID, &p.DisplayName, &p.Score, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *ParticipantStore) CountWithHigherScore(ctx context.Context, presentationID int64, score int) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM participants WHERE presentation_id=$1 AND score > $2`,
		presentationID, score,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count higher scores: %w", err)
	}
	return count, nil
}

func (s *ParticipantStore) DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM participants WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete inactive participants: %w", err)
	}
	return tag.RowsAffected(), nil
}
