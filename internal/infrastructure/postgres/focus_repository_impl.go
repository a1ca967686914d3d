package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/adhd-helper/internal/domain/entity"
	"github.com/oksasatya/adhd-helper/internal/domain/repository"
)

const focusColumns = `id::text, user_id::text, start_time, end_time, duration_minutes, session_type, productivity_rating, notes, created_at, updated_at`

type FocusSessionRepository struct {
	db DBTX
}

func NewFocusSessionRepository(db DBTX) *FocusSessionRepository {
	return &FocusSessionRepository{db: db}
}

func scanFocus(row pgx.Row) (*entity.FocusSession, error) {
	var s entity.FocusSession
	if err := row.Scan(&s.ID, &s.UserID, &s.StartTime, &s.EndTime, &s.DurationMinutes, &s.SessionType,
		&s.ProductivityRating, &s.Notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *FocusSessionRepository) Create(ctx context.Context, s *entity.FocusSession) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO focus_sessions (user_id, start_time, duration_minutes, session_type)
		VALUES ($1, COALESCE($2, now()), $3, $4)
		RETURNING id::text, start_time, created_at
	`, s.UserID, nullTime(s.StartTime), s.DurationMinutes, s.SessionType)
	if err := row.Scan(&s.ID, &s.StartTime, &s.CreatedAt); err != nil {
		return fmt.Errorf("insert focus session: %w", err)
	}
	return nil
}

func (r *FocusSessionRepository) Get(ctx context.Context, userID, id string) (*entity.FocusSession, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanFocus(r.db.QueryRow(ctx,
		`SELECT `+focusColumns+` FROM focus_sessions WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *FocusSessionRepository) Current(ctx context.Context, userID string) (*entity.FocusSession, error) {
	return scanFocus(r.db.QueryRow(ctx, `
		SELECT `+focusColumns+` FROM focus_sessions
		WHERE user_id = $1 AND end_time IS NULL
		ORDER BY start_time DESC
		LIMIT 1
	`, userID))
}

func (r *FocusSessionRepository) List(ctx context.Context, userID string, tr repository.TimeRange, p repository.Page) ([]entity.FocusSession, error) {
	q, args := rangeQuery(`SELECT `+focusColumns+` FROM focus_sessions WHERE user_id = $1`, "start_time", userID, tr)
	q += ` ORDER BY start_time DESC` + pageClause(p)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list focus sessions: %w", err)
	}
	defer rows.Close()

	out := make([]entity.FocusSession, 0)
	for rows.Next() {
		s, err := scanFocus(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *FocusSessionRepository) Update(ctx context.Context, s *entity.FocusSession) error {
	row := r.db.QueryRow(ctx, `
		UPDATE focus_sessions
		SET end_time = $1, productivity_rating = $2, notes = $3, updated_at = now()
		WHERE id = $4 AND user_id = $5
		RETURNING updated_at
	`, s.EndTime, s.ProductivityRating, s.Notes, s.ID, s.UserID)
	if err := row.Scan(&s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("update focus session: %w", err)
	}
	return nil
}

var _ repository.FocusSessionRepository = (*FocusSessionRepository)(nil)
