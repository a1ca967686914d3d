package application

import (
	"time"

	"github.com/oksasatya/adhd-helper/internal/domain/entity"
)

// Client-facing projections of the resource entities.

type EmotionView struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	EmotionLevel int            `json:"emotion_level"`
	EmotionType  string         `json:"emotion_type"`
	Note         *string        `json:"note"`
	RecordedAt   time.Time      `json:"recorded_at"`
	AIAnalysis   map[string]any `json:"ai_analysis"`
	CreatedAt    time.Time      `json:"created_at"`
}

func NewEmotionView(e *entity.EmotionRecord) EmotionView {
	analysis := e.AIAnalysis
	if analysis == nil {
		analysis = map[string]any{}
	}
	return EmotionView{
		ID:           e.ID,
		UserID:       e.UserID,
		EmotionLevel: e.EmotionLevel,
		EmotionType:  e.EmotionType,
		Note:         e.Note,
		RecordedAt:   e.RecordedAt,
		AIAnalysis:   analysis,
		CreatedAt:    e.CreatedAt,
	}
}

type FocusView struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	StartTime          time.Time  `json:"start_time"`
	EndTime            *time.Time `json:"end_time"`
	DurationMinutes    int        `json:"duration_minutes"`
	SessionType        string     `json:"session_type"`
	ProductivityRating *int       `json:"productivity_rating"`
	Notes              *string    `json:"notes"`
	CreatedAt          time.Time  `json:"created_at"`
}

func NewFocusView(s *entity.FocusSession) FocusView {
	return FocusView{
		ID:                 s.ID,
		UserID:             s.UserID,
		StartTime:          s.StartTime,
		EndTime:            s.EndTime,
		DurationMinutes:    s.DurationMinutes,
		SessionType:        s.SessionType,
		ProductivityRating: s.ProductivityRating,
		Notes:              s.Notes,
		CreatedAt:          s.CreatedAt,
	}
}

type TodoView struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    int        `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewTodoView(t *entity.TodoItem) TodoView {
	return TodoView{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
	}
}

type FeedbackView struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	FeedbackText   string    `json:"feedback_text"`
	FeedbackType   string    `json:"feedback_type"`
	SentimentScore *float64  `json:"sentiment_score"`
	AIMetadata     *string   `json:"ai_metadata"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewFeedbackView(f *entity.AIFeedback) FeedbackView {
	return FeedbackView{
		ID:             f.ID,
		UserID:         f.UserID,
		FeedbackText:   f.FeedbackText,
		FeedbackType:   f.FeedbackType,
		SentimentScore: f.SentimentScore,
		AIMetadata:     f.AIMetadata,
		CreatedAt:      f.CreatedAt,
	}
}

func mapViews[E any, V any](items []E, fn func(*E) V) []V {
	out := make([]V, 0, len(items))
	for i := range items {
		out = append(out, fn(&items[i]))
	}
	return out
}

func EmotionViews(items []entity.EmotionRecord) []EmotionView { return mapViews(items, NewEmotionView) }
func FocusViews(items []entity.FocusSession) []FocusView      { return mapViews(items, NewFocusView) }
func TodoViews(items []entity.TodoItem) []TodoView            { return mapViews(items, NewTodoView) }
func FeedbackViews(items []entity.AIFeedback) []FeedbackView  { return mapViews(items, NewFeedbackView) }
