package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/adhd-helper/internal/domain/entity"
)

func intp(v int) *int              { return &v }
func strp(v string) *string        { return &v }
func boolp(v bool) *bool           { return &v }
func timep(t time.Time) *time.Time { return &t }

func TestSummarizeEmotions(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		st := SummarizeEmotions(nil, 7)
		assert.Equal(t, 0, st.TotalRecords)
		assert.Nil(t, st.MostCommonEmotion)
		assert.Empty(t, st.EmotionDistribution)
		assert.Equal(t, 7, st.PeriodDays)
	})

	t.Run("distribution and average", func(t *testing.T) {
		st := SummarizeEmotions([]entity.EmotionRecord{
			{EmotionType: "calm", EmotionLevel: 5},
			{EmotionType: "anxious", EmotionLevel: 2},
			{EmotionType: "anxious", EmotionLevel: 3},
		}, 14)
		assert.Equal(t, 3, st.TotalRecords)
		assert.Equal(t, 3.33, st.AverageLevel)
		require.NotNil(t, st.MostCommonEmotion)
		assert.Equal(t, "anxious", *st.MostCommonEmotion)
		assert.Equal(t, map[string]int{"calm": 1, "anxious": 2}, st.EmotionDistribution)
		assert.Equal(t, 14, st.PeriodDays)
	})

	t.Run("tie goes to first seen", func(t *testing.T) {
		st := SummarizeEmotions([]entity.EmotionRecord{
			{EmotionType: "happy", EmotionLevel: 8},
			{EmotionType: "sad", EmotionLevel: 2},
		}, 7)
		assert.Equal(t, "happy", *st.MostCommonEmotion)
	})
}

func TestSummarizeFocus_OnlyEndedSessions(t *testing.T) {
	end := fixedNow
	st := SummarizeFocus([]entity.FocusSession{
		{DurationMinutes: 25, EndTime: &end, ProductivityRating: intp(4)},
		{DurationMinutes: 50, EndTime: &end, ProductivityRating: intp(5)},
		{DurationMinutes: 10, EndTime: &end},
		{DurationMinutes: 90},
	}, 7)

	assert.Equal(t, 3, st.TotalSessions)
	assert.Equal(t, 85, st.TotalMinutes)
	assert.Equal(t, 28.3, st.AverageDuration)
	assert.Equal(t, 4.5, st.AverageProductivity)
}

func TestSummarizeFocus_Empty(t *testing.T) {
	assert.Equal(t, FocusStats{PeriodDays: 30}, SummarizeFocus(nil, 30))
}

func TestSummarizeTodos(t *testing.T) {
	past := fixedNow.Add(-time.Hour)
	future := fixedNow.Add(time.Hour)
	st := SummarizeTodos([]entity.TodoItem{
		{Completed: true, DueDate: &past},
		{DueDate: &past},
		{DueDate: &future},
	}, fixedNow)

	assert.Equal(t, TodoStats{Total: 3, Completed: 1, Pending: 2, Overdue: 1, CompletionRate: 33.3}, st)
	assert.Equal(t, TodoStats{}, SummarizeTodos(nil, fixedNow))
}
