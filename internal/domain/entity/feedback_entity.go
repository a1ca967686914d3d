package entity

import "time"

const (
	FeedbackDailySummary        = "daily_summary"
	FeedbackWeeklyReport        = "weekly_report"
	FeedbackEmotionAnalysis     = "emotion_analysis"
	FeedbackProductivityInsight = "productivity_insight"
	FeedbackCustom              = "custom"
)

type AIFeedback struct {
	ID             string
	UserID         string
	FeedbackText   string
	FeedbackType   string
	SentimentScore *float64
	AIMetadata     *string
	CreatedAt      time.Time
}
