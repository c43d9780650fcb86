package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-live-service/internal/domain"
)

// ContentStore reads presentations and questions from Postgres. Question
// content lives in a JSONB column ({text, image_url?}); options come from
// their own table in insertion order.
type ContentStore struct {
	pool *pgxpool.Pool
}

func NewContentStore(pool *pgxpool.Pool) *ContentStore {
	return &ContentStore{pool: pool}
}

func (s *ContentStore) Presentation(ctx context.Context, id int64) (domain.Presentation, error) {
	var (
		p           domain.Presentation
		userID      sql.NullInt64
		description sql.NullString
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, title, description, admin_code, status FROM presentations WHERE id=$1`, id,
	).Scan(&p.ID, &userID, &p.Title, &description, &p.AdminCode, &p.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Presentation{}, domain.ErrPresentationNotFound
	}
	if err != nil {
		return domain.Presentation{}, fmt.Errorf("load presentation: %w", err)
	}
	if userID.Valid {
		p.UserID = &userID.Int64
	}
	p.Description = description.String
	return p, nil
}

func (s *ContentStore) Question(ctx context.Context, id int64) (domain.Question, error) {
	var (
		q         domain.Question
		rawContent []byte
		groupName sql.NullString
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, presentation_id, group_name, content, time_limit_seconds, "order" FROM questions WHERE id=$1`, id,
	).Scan(&q.ID, &q.PresentationID, &groupName, &rawContent, &q.TimeLimitSeconds, &q.Order)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("load question: %w", err)
	}
	q.GroupName = groupName.String
	if err := json.Unmarshal(rawContent, &q.Content); err != nil {
		return domain.Question{}, fmt.Errorf("unmarshal question content: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, question_id, text, is_correct FROM options WHERE question_id=$1 ORDER BY id`, id,
	)
	if err != nil {
		return domain.Question{}, fmt.Errorf("load options: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var opt domain.Option
		if err := rows.Scan(&opt.ID, &opt.QuestionID, &opt.Text, &opt.IsCorrect); err != nil {
			return domain.Question{}, fmt.Errorf("scan option: %w", err)
		}
		q.Options = append(q.Options, opt)
	}
	return q, rows.Err()
}

func (s *ContentStore) SetStatus(ctx context.Context, presentationID int64, status domain.Status) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE presentations SET status=$2, updated_at=now() WHERE id=$1`, presentationID, status,
	)
	if err != nil {
		return fmt.Errorf("set presentation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPresentationNotFound
	}
	return nil
}
