package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adhd-helper/internal/domain/ai"
	"github.com/oksasatya/adhd-helper/internal/domain/entity"
	"github.com/oksasatya/adhd-helper/internal/domain/repository"
	"github.com/oksasatya/adhd-helper/pkg/helpers"
)

const (
	maskedAPIKey      = "**********"
	maxFeedbackRunes  = 2000
	feedbackWindow    = 7
	coachSystemPrompt = "You are a supportive ADHD coach. Give short, concrete, kind feedback in Korean."
)

type SettingsStore interface {
	UpdateSettings(ctx context.Context, id string, settings entity.UserSettings) error
}

// SettingsView never exposes the stored key.
type SettingsView struct {
	OpenAIAPIKey        *string `json:"openai_api_key"`
	EnableAIAnalysis    bool    `json:"enable_ai_analysis"`
	AIFeedbackFrequency string  `json:"ai_feedback_frequency"`
}

// SettingsPatch merges only the non-nil fields.
type SettingsPatch struct {
	OpenAIAPIKey        *string
	EnableAIAnalysis    *bool
	AIFeedbackFrequency *string
}

type GeneratedFeedback struct {
	Feedback    string    `json:"feedback"`
	GeneratedAt time.Time `json:"generated_at"`
}

type KeyCheck struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

type AIService struct {
	Settings  SettingsStore
	Emotions  repository.EmotionRepository
	Sessions  repository.FocusSessionRepository
	Todos     repository.TodoRepository
	Feedbacks repository.FeedbackRepository
	Analyzer  ai.SentimentAnalyzer
	Generator ai.FeedbackGenerator
	Logger    *logrus.Logger
	now       func() time.Time
}

func NewAIService(settings SettingsStore, emotions repository.EmotionRepository, sessions repository.FocusSessionRepository,
	todos repository.TodoRepository, feedbacks repository.FeedbackRepository, analyzer ai.SentimentAnalyzer,
	generator ai.FeedbackGenerator, logger *logrus.Logger) *AIService {
	return &AIService{
		Settings:  settings,
		Emotions:  emotions,
		Sessions:  sessions,
		Todos:     todos,
		Feedbacks: feedbacks,
		Analyzer:  analyzer,
		Generator: generator,
		Logger:    logger,
		now:       time.Now,
	}
}

func (s *AIService) GetSettings(u *entity.User) SettingsView {
	v := SettingsView{
		EnableAIAnalysis:    u.Settings.AIAnalysisEnabled(),
		AIFeedbackFrequency: u.Settings.FeedbackFrequency(),
	}
	if u.Settings.OpenAIAPIKey != "" {
		masked := maskedAPIKey
		v.OpenAIAPIKey = &masked
	}
	return v
}

func (s *AIService) UpdateSettings(ctx context.Context, u *entity.User, patch SettingsPatch) error {
	next := u.Settings
	if patch.OpenAIAPIKey != nil {
		next.OpenAIAPIKey = *patch.OpenAIAPIKey
	}
	if patch.EnableAIAnalysis != nil {
		enabled := *patch.EnableAIAnalysis
		next.EnableAIAnalysis = &enabled
	}
	if patch.AIFeedbackFrequency != nil {
		next.AIFeedbackFrequency = *patch.AIFeedbackFrequency
	}
	if err := s.Settings.UpdateSettings(ctx, u.ID, next); err != nil {
		return notFound(err)
	}
	u.Settings = next
	return nil
}

// AnalyzeText returns an empty map when nothing could be analyzed.
func (s *AIService) AnalyzeText(ctx context.Context, text string) (map[string]any, error) {
	if s.Analyzer == nil {
		return map[string]any{}, nil
	}
	res, ok, err := s.Analyzer.Analyze(ctx, text)
	if err != nil {
		return nil, mapAIError(err)
	}
	if !ok {
		return map[string]any{}, nil
	}
	return res.Map(), nil
}

func (s *AIService) GenerateFeedback(ctx context.Context, u *entity.User, feedbackType string) (GeneratedFeedback, error) {
	key := u.Settings.OpenAIAPIKey
	if key == "" {
		return GeneratedFeedback{}, ErrAIKeyMissing
	}
	if feedbackType == "" {
		feedbackType = entity.FeedbackDailySummary
	}

	now := s.now()
	from := helpers.DaysAgo(now, feedbackWindow)
	window := repository.TimeRange{From: &from}
	emotions, err := s.Emotions.List(ctx, u.ID, window, repository.All)
	if err != nil {
		return GeneratedFeedback{}, err
	}
	sessions, err := s.Sessions.List(ctx, u.ID, window, repository.All)
	if err != nil {
		return GeneratedFeedback{}, err
	}
	todos, err := s.Todos.List(ctx, u.ID, nil, repository.All)
	if err != nil {
		return GeneratedFeedback{}, err
	}

	prompt := buildFeedbackPrompt(u, emotions, sessions, todos, feedbackType, now)
	text, err := s.Generator.Generate(ctx, key, coachSystemPrompt, prompt)
	if err != nil {
		helpers.LogWarn(s.Logger, "feedback generation failed", err, logrus.Fields{"user_id": u.ID})
		return GeneratedFeedback{}, mapAIError(err)
	}
	if strings.TrimSpace(text) == "" {
		return GeneratedFeedback{}, ErrAIUnavailable
	}

	meta, _ := json.Marshal(map[string]any{
		"generated_at": now.UTC().Format(time.RFC3339),
		"requested_by": "user",
	})
	metaStr := string(meta)
	fb := &entity.AIFeedback{
		UserID:       u.ID,
		FeedbackText: truncateRunes(text, maxFeedbackRunes),
		FeedbackType: feedbackType,
		AIMetadata:   &metaStr,
	}
	if err := s.Feedbacks.Create(ctx, fb); err != nil {
		return GeneratedFeedback{}, err
	}
	return GeneratedFeedback{Feedback: text, GeneratedAt: now.UTC()}, nil
}

func (s *AIService) Feedbacks(ctx context.Context, userID string, limit int) ([]entity.AIFeedback, error) {
	return s.Feedbacks.ListRecent(ctx, userID, limit)
}

// TestAPIKey never fails; problems are reported in the result.
func (s *AIService) TestAPIKey(ctx context.Context, key string) KeyCheck {
	if strings.TrimSpace(key) == "" {
		return KeyCheck{Valid: false, Message: "API key is empty"}
	}
	err := s.Generator.CheckKey(ctx, key)
	switch {
	case err == nil:
		return KeyCheck{Valid: true, Message: "API key is valid"}
	case errors.Is(err, ai.ErrInvalidAPIKey):
		return KeyCheck{Valid: false, Message: "API key is invalid"}
	default:
		return KeyCheck{Valid: false, Message: "error: " + err.Error()}
	}
}

func mapAIError(err error) error {
	switch {
	case errors.Is(err, ai.ErrInvalidAPIKey):
		return ErrAIKeyInvalid
	case errors.Is(err, ai.ErrRateLimited):
		return ErrAIRateLimited
	case errors.Is(err, ai.ErrUnavailable):
		return errors.Join(ErrAIUnavailable, err)
	}
	return err
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func summarizeEmotions(records []entity.EmotionRecord) string {
	if len(records) == 0 {
		return "- no emotion records"
	}
	st := SummarizeEmotions(records, feedbackWindow)
	types := make([]string, 0, len(st.EmotionDistribution))
	for t := range st.EmotionDistribution {
		types = append(types, t)
	}
	sort.Strings(types)
	dist := make([]string, 0, len(types))
	for _, t := range types {
		dist = append(dist, fmt.Sprintf("%s=%d", t, st.EmotionDistribution[t]))
	}
	return fmt.Sprintf("- %d emotion records\n- average level: %.1f/10\n- most common: %s (%d times)\n- distribution: %s",
		st.TotalRecords, st.AverageLevel, *st.MostCommonEmotion, st.EmotionDistribution[*st.MostCommonEmotion], strings.Join(dist, ", "))
}

func summarizeFocus(sessions []entity.FocusSession) string {
	if len(sessions) == 0 {
		return "- no focus sessions"
	}
	st := SummarizeFocus(sessions, feedbackWindow)
	return fmt.Sprintf("- %d focus sessions (%d finished)\n- total focus time: %d minutes\n- average productivity: %.1f/5",
		len(sessions), st.TotalSessions, st.TotalMinutes, st.AverageProductivity)
}

func summarizeTodos(todos []entity.TodoItem, now time.Time) string {
	if len(todos) == 0 {
		return "- no todos"
	}
	st := SummarizeTodos(todos, now)
	return fmt.Sprintf("- %d todos\n- completed: %d\n- pending: %d (overdue: %d)\n- completion rate: %.1f%%",
		st.Total, st.Completed, st.Pending, st.Overdue, st.CompletionRate)
}

func buildFeedbackPrompt(u *entity.User, emotions []entity.EmotionRecord, sessions []entity.FocusSession,
	todos []entity.TodoItem, feedbackType string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User: %s\nLocal time: %s\n\n", u.Name, helpers.FormatLocal(now, helpers.UserLocation(u.Timezone)))
	fmt.Fprintf(&b, "[Emotions, last %d days]\n%s\n\n", feedbackWindow, summarizeEmotions(emotions))
	fmt.Fprintf(&b, "[Focus and productivity]\n%s\n\n", summarizeFocus(sessions))
	fmt.Fprintf(&b, "[Todos]\n%s\n\n", summarizeTodos(todos, now))

	switch feedbackType {
	case entity.FeedbackDailySummary:
		b.WriteString("Write a warm, constructive wrap-up of today. Include what went well, one thing to improve, and one or two practical tips for tomorrow.")
	case entity.FeedbackWeeklyReport:
		b.WriteString("Write a weekly report: the overall pattern of the week, how mood and productivity relate, and concrete suggestions for next week.")
	case entity.FeedbackEmotionAnalysis:
		b.WriteString("Focus on the emotional pattern. Name what might be driving it and suggest one coping strategy.")
	case entity.FeedbackProductivityInsight:
		b.WriteString("Focus on focus sessions and todos. Point out the most effective habit and one bottleneck.")
	default:
		b.WriteString("Give brief personalized encouragement based on the data above.")
	}
	b.WriteString(" Keep it short and clear for a reader with ADHD.")
	return b.String()
}
