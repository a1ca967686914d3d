package entity

import "time"

// Known emotion types. Clients may send others; these drive the UI palette.
const (
	EmotionHappy      = "happy"
	EmotionSad        = "sad"
	EmotionAnxious    = "anxious"
	EmotionCalm       = "calm"
	EmotionExcited    = "excited"
	EmotionFrustrated = "frustrated"
	EmotionContent    = "content"
)

type EmotionRecord struct {
	ID           string
	UserID       string
	EmotionLevel int
	EmotionType  string
	Note         *string
	AIAnalysis   map[string]any
	RecordedAt   time.Time
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
