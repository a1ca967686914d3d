package postgres

import (
	"context"
	"fmt"

	"github.com/oksasatya/adhd-helper/internal/domain/entity"
	"github.com/oksasatya/adhd-helper/internal/domain/repository"
)

type FeedbackRepository struct {
	db DBTX
}

func NewFeedbackRepository(db DBTX) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(ctx context.Context, f *entity.AIFeedback) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO ai_feedbacks (user_id, feedback_text, feedback_type, sentiment_score, ai_metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text, created_at
	`, f.UserID, f.FeedbackText, f.FeedbackType, f.SentimentScore, f.AIMetadata)
	if err := row.Scan(&f.ID, &f.CreatedAt); err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (r *FeedbackRepository) ListRecent(ctx context.Context, userID string, limit int) ([]entity.AIFeedback, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	rows, err := r.db.Query(ctx, `
		SELECT id::text, user_id::text, feedback_text, feedback_type, sentiment_score, ai_metadata, created_at
		FROM ai_feedbacks
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list feedbacks: %w", err)
	}
	defer rows.Close()

	out := make([]entity.AIFeedback, 0)
	for rows.Next() {
		var f entity.AIFeedback
		if err := rows.Scan(&f.ID, &f.UserID, &f.FeedbackText, &f.FeedbackType, &f.SentimentScore, &f.AIMetadata, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

var _ repository.FeedbackRepository = (*FeedbackRepository)(nil)
