package application

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adhd-helper/internal/domain/entity"
	"github.com/oksasatya/adhd-helper/pkg/helpers"
)

const (
	DefaultStatsDays = 7
	MaxStatsDays     = 90

	statsEmotion = "emotion"
	statsFocus   = "focus"
	statsTodo    = "todo"
)

// StatsCache memoizes summaries per user and kind. Implementations must be
// safe for concurrent use.
type StatsCache interface {
	Load(ctx context.Context, userID, kind, variant string, dest any) (bool, error)
	Store(ctx context.Context, userID, kind, variant string, v any) error
	Invalidate(ctx context.Context, userID, kind string) error
}

type EmotionStats struct {
	TotalRecords        int            `json:"total_records"`
	AverageLevel        float64        `json:"average_level"`
	MostCommonEmotion   *string        `json:"most_common_emotion"`
	EmotionDistribution map[string]int `json:"emotion_distribution"`
	PeriodDays          int            `json:"period_days"`
}

type FocusStats struct {
	TotalSessions       int     `json:"total_sessions"`
	TotalMinutes        int     `json:"total_minutes"`
	AverageDuration     float64 `json:"average_duration"`
	AverageProductivity float64 `json:"average_productivity"`
	PeriodDays          int     `json:"period_days"`
}

type TodoStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	Overdue        int     `json:"overdue"`
	CompletionRate float64 `json:"completion_rate"`
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// SummarizeEmotions ties on the most common type go to the one seen first.
func SummarizeEmotions(records []entity.EmotionRecord, days int) EmotionStats {
	st := EmotionStats{EmotionDistribution: map[string]int{}, PeriodDays: days}
	if len(records) == 0 {
		return st
	}
	var order []string
	sum := 0
	for _, r := range records {
		sum += r.EmotionLevel
		if _, seen := st.EmotionDistribution[r.EmotionType]; !seen {
			order = append(order, r.EmotionType)
		}
		st.EmotionDistribution[r.EmotionType]++
	}
	best := order[0]
	for _, t := range order[1:] {
		if st.EmotionDistribution[t] > st.EmotionDistribution[best] {
			best = t
		}
	}
	st.TotalRecords = len(records)
	st.AverageLevel = round(float64(sum)/float64(len(records)), 2)
	st.MostCommonEmotion = &best
	return st
}

// SummarizeFocus only counts sessions that have ended.
func SummarizeFocus(sessions []entity.FocusSession, days int) FocusStats {
	st := FocusStats{PeriodDays: days}
	rated, ratingSum := 0, 0
	for _, s := range sessions {
		if !s.Ended() {
			continue
		}
		st.TotalSessions++
		st.TotalMinutes += s.DurationMinutes
		if s.ProductivityRating != nil && *s.ProductivityRating > 0 {
			rated++
			ratingSum += *s.ProductivityRating
		}
	}
	if st.TotalSessions > 0 {
		st.AverageDuration = round(float64(st.TotalMinutes)/float64(st.TotalSessions), 1)
	}
	if rated > 0 {
		st.AverageProductivity = round(float64(ratingSum)/float64(rated), 2)
	}
	return st
}

func SummarizeTodos(todos []entity.TodoItem, now time.Time) TodoStats {
	var st TodoStats
	st.Total = len(todos)
	for i := range todos {
		if todos[i].Completed {
			st.Completed++
		} else if todos[i].Overdue(now) {
			st.Overdue++
		}
	}
	st.Pending = st.Total - st.Completed
	if st.Total > 0 {
		st.CompletionRate = round(float64(st.Completed)/float64(st.Total)*100, 1)
	}
	return st
}

// cachedStats serves from c when possible and stores fresh results. Cache
// failures degrade to recomputation.
func cachedStats[T any](ctx context.Context, c StatsCache, logger *logrus.Logger, userID, kind string, days int, compute func() (T, error)) (T, error) {
	variant := strconv.Itoa(days)
	if c != nil {
		var hit T
		ok, err := c.Load(ctx, userID, kind, variant, &hit)
		if err != nil {
			helpers.LogWarn(logger, "stats cache load failed", err, logrus.Fields{"user_id": userID, "kind": kind})
		} else if ok {
			return hit, nil
		}
	}
	v, err := compute()
	if err != nil {
		return v, err
	}
	if c != nil {
		if err := c.Store(ctx, userID, kind, variant, v); err != nil {
			helpers.LogWarn(logger, "stats cache store failed", err, logrus.Fields{"user_id": userID, "kind": kind})
		}
	}
	return v, nil
}

func invalidateStats(ctx context.Context, c StatsCache, logger *logrus.Logger, userID, kind string) {
	if c == nil {
		return
	}
	if err := c.Invalidate(ctx, userID, kind); err != nil {
		helpers.LogWarn(logger, "stats cache invalidate failed", err, logrus.Fields{"user_id": userID, "kind": kind})
	}
}
