// Package ai declares the ports to external language-model providers.
package ai

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidAPIKey is returned when the provider rejects the caller's key.
	ErrInvalidAPIKey = errors.New("invalid api key")
	// ErrRateLimited is returned when the provider throttles the caller.
	ErrRateLimited = errors.New("provider rate limit exceeded")
	// ErrUnavailable wraps transport and server-side failures.
	ErrUnavailable = errors.New("ai provider unavailable")
)

// Sentiment is a five-point star rating of a short text.
type Sentiment struct {
	Score      int       `json:"sentiment_score"`
	Confidence float64   `json:"confidence"`
	Inference  string    `json:"emotion_inference"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// Map is the shape stored in emotion_records.ai_analysis.
func (s Sentiment) Map() map[string]any {
	return map[string]any{
		"sentiment_score":   s.Score,
		"confidence":        s.Confidence,
		"emotion_inference": s.Inference,
		"analyzed_at":       s.AnalyzedAt.UTC().Format(time.RFC3339),
	}
}

// InferenceForStars maps a 1..5 star rating to a label.
func InferenceForStars(stars int) string {
	switch stars {
	case 1:
		return "very_negative"
	case 2:
		return "negative"
	case 4:
		return "positive"
	case 5:
		return "very_positive"
	}
	return "neutral"
}

type SentimentAnalyzer interface {
	// Analyze returns ok=false when the text is empty or no analyzer is configured.
	Analyze(ctx context.Context, text string) (s Sentiment, ok bool, err error)
}

type FeedbackGenerator interface {
	Generate(ctx context.Context, apiKey, system, prompt string) (string, error)
	// CheckKey performs a minimal completion to prove apiKey works.
	CheckKey(ctx context.Context, apiKey string) error
}
