package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/adhd-helper/internal/domain/entity"
	"github.com/oksasatya/adhd-helper/internal/domain/repository"
)

const emotionColumns = `id::text, user_id::text, emotion_level, emotion_type, note, ai_analysis, recorded_at, created_at, updated_at`

type EmotionRepository struct {
	db DBTX
}

func NewEmotionRepository(db DBTX) *EmotionRepository {
	return &EmotionRepository{db: db}
}

func scanEmotion(row pgx.Row) (*entity.EmotionRecord, error) {
	var e entity.EmotionRecord
	if err := row.Scan(&e.ID, &e.UserID, &e.EmotionLevel, &e.EmotionType, &e.Note,
		&e.AIAnalysis, &e.RecordedAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	if e.AIAnalysis == nil {
		e.AIAnalysis = map[string]any{}
	}
	return &e, nil
}

func (r *EmotionRepository) Create(ctx context.Context, e *entity.EmotionRecord) error {
	if e.AIAnalysis == nil {
		e.AIAnalysis = map[string]any{}
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO emotion_records (user_id, emotion_level, emotion_type, note, ai_analysis, recorded_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, now()))
		RETURNING id::text, recorded_at, created_at
	`, e.UserID, e.EmotionLevel, e.EmotionType, e.Note, e.AIAnalysis, nullTime(e.RecordedAt))
	if err := row.Scan(&e.ID, &e.RecordedAt, &e.CreatedAt); err != nil {
		return fmt.Errorf("insert emotion record: %w", err)
	}
	return nil
}

func (r *EmotionRepository) Get(ctx context.Context, userID, id string) (*entity.EmotionRecord, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	e, err := scanEmotion(r.db.QueryRow(ctx,
		`SELECT `+emotionColumns+` FROM emotion_records WHERE id = $1 AND user_id = $2`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return e, err
}

func (r *EmotionRepository) List(ctx context.Context, userID string, tr repository.TimeRange, p repository.Page) ([]entity.EmotionRecord, error) {
	q, args := rangeQuery(`SELECT `+emotionColumns+` FROM emotion_records WHERE user_id = $1`, "recorded_at", userID, tr)
	q += ` ORDER BY recorded_at DESC` + pageClause(p)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list emotion records: %w", err)
	}
	defer rows.Close()

	out := make([]entity.EmotionRecord, 0)
	for rows.Next() {
		e, err := scanEmotion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *EmotionRepository) Update(ctx context.Context, e *entity.EmotionRecord) error {
	row := r.db.QueryRow(ctx, `
		UPDATE emotion_records
		SET emotion_level = $1, emotion_type = $2, note = $3, updated_at = now()
		WHERE id = $4 AND user_id = $5
		RETURNING updated_at
	`, e.EmotionLevel, e.EmotionType, e.Note, e.ID, e.UserID)
	if err := row.Scan(&e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("update emotion record: %w", err)
	}
	return nil
}

func (r *EmotionRepository) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `DELETE FROM emotion_records WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete emotion record: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *EmotionRepository) SetAnalysis(ctx context.Context, id string, analysis map[string]any) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `UPDATE emotion_records SET ai_analysis = $1 WHERE id = $2`, analysis, id)
	if err != nil {
		return fmt.Errorf("set emotion analysis: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// rangeQuery appends optional time bounds on column to base, whose only
// placeholder is $1 = userID.
func rangeQuery(base, column, userID string, tr repository.TimeRange) (string, []any) {
	var sb strings.Builder
	sb.WriteString(base)
	args := []any{userID}
	if tr.From != nil {
		args = append(args, *tr.From)
		sb.WriteString(" AND " + column + " >= $" + strconv.Itoa(len(args)))
	}
	if tr.To != nil {
		args = append(args, *tr.To)
		sb.WriteString(" AND " + column + " <= $" + strconv.Itoa(len(args)))
	}
	return sb.String(), args
}

var _ repository.EmotionRepository = (*EmotionRepository)(nil)
