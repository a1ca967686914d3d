package repository

import (
	"context"
	"time"

	"github.com/oksasatya/adhd-helper/internal/domain/entity"
)

// Page bounds list queries. Limit is clamped to 1..100 unless it is NoLimit.
type Page struct {
	Skip  int
	Limit int
}

// NoLimit returns every matching row; aggregations use it.
const NoLimit = -1

var All = Page{Limit: NoLimit}

// TimeRange filters on the resource's primary timestamp. Nil bounds are open.
type TimeRange struct {
	From *time.Time
	To   *time.Time
}

// Every method is scoped by userID; a row owned by someone else is ErrNotFound.

type EmotionRepository interface {
	Create(ctx context.Context, e *entity.EmotionRecord) error
	Get(ctx context.Context, userID, id string) (*entity.EmotionRecord, error)
	List(ctx context.Context, userID string, r TimeRange, p Page) ([]entity.EmotionRecord, error)
	Update(ctx context.Context, e *entity.EmotionRecord) error
	Delete(ctx context.Context, userID, id string) error
	// SetAnalysis stores the sentiment result produced by the analysis worker.
	SetAnalysis(ctx context.Context, id string, analysis map[string]any) error
}

type FocusSessionRepository interface {
	Create(ctx context.Context, s *entity.FocusSession) error
	Get(ctx context.Context, userID, id string) (*entity.FocusSession, error)
	// Current returns the most recently started open session, or ErrNotFound.
	Current(ctx context.Context, userID string) (*entity.FocusSession, error)
	List(ctx context.Context, userID string, r TimeRange, p Page) ([]entity.FocusSession, error)
	Update(ctx context.Context, s *entity.FocusSession) error
}

type TodoRepository interface {
	Create(ctx context.Context, t *entity.TodoItem) error
	Get(ctx context.Context, userID, id string) (*entity.TodoItem, error)
	// List orders open items first, then by priority desc, then newest first.
	List(ctx context.Context, userID string, completed *bool, p Page) ([]entity.TodoItem, error)
	Update(ctx context.Context, t *entity.TodoItem) error
	Delete(ctx context.Context, userID, id string) error
}

type FeedbackRepository interface {
	Create(ctx context.Context, f *entity.AIFeedback) error
	ListRecent(ctx context.Context, userID string, limit int) ([]entity.AIFeedback, error)
}
