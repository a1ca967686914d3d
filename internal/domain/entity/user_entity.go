package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// PasswordHash holds the bcrypt hash, never the raw password.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Timezone     string
	IsActive     bool
	IsVerified   bool
	Settings     UserSettings
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSettings is the per-user AI configuration persisted as JSON.
type UserSettings struct {
	OpenAIAPIKey        string `json:"openai_api_key,omitempty"`
	EnableAIAnalysis    *bool  `json:"enable_ai_analysis,omitempty"`
	AIFeedbackFrequency string `json:"ai_feedback_frequency,omitempty"`
}

// AIAnalysisEnabled defaults to true when the user never set it.
func (s UserSettings) AIAnalysisEnabled() bool {
	return s.EnableAIAnalysis == nil || *s.EnableAIAnalysis
}

func (s UserSettings) FeedbackFrequency() string {
	if s.AIFeedbackFrequency == "" {
		return "daily"
	}
	return s.AIFeedbackFrequency
}

const DefaultTimezone = "Asia/Seoul"
