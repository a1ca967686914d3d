package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/adhd-helper/internal/domain/ai"
	"github.com/oksasatya/adhd-helper/internal/domain/entity"
)

func TestAnalysisProcessor(t *testing.T) {
	ctx := context.Background()
	repo := newMemEmotions()
	rec := &entity.EmotionRecord{UserID: "user-1", EmotionLevel: 3, EmotionType: "anxious"}
	require.NoError(t, repo.Create(ctx, rec))
	job := AnalysisJob{EmotionID: rec.ID, UserID: "user-1", Text: "deadline tomorrow"}
	sentiment := ai.Sentiment{Score: 2, Confidence: 0.61, Inference: "negative", AnalyzedAt: fixedNow}

	t.Run("stores analysis", func(t *testing.T) {
		p := NewAnalysisProcessor(repo, stubAnalyzer{res: sentiment, ok: true}, nil)
		require.NoError(t, p.Process(ctx, job))
		assert.Equal(t, sentiment.Map(), repo.analysis[rec.ID])
	})

	t.Run("nothing to analyze", func(t *testing.T) {
		p := NewAnalysisProcessor(repo, stubAnalyzer{}, nil)
		assert.NoError(t, p.Process(ctx, job))
	})

	t.Run("transient provider errors retry", func(t *testing.T) {
		for _, cause := range []error{ai.ErrUnavailable, ai.ErrRateLimited} {
			p := NewAnalysisProcessor(repo, stubAnalyzer{err: cause}, nil)
			err := p.Process(ctx, job)
			assert.ErrorIs(t, err, ErrRetryLater)
			assert.ErrorIs(t, err, cause)
		}
	})

	t.Run("bad key is permanent", func(t *testing.T) {
		p := NewAnalysisProcessor(repo, stubAnalyzer{err: ai.ErrInvalidAPIKey}, nil)
		err := p.Process(ctx, job)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrRetryLater)
	})

	t.Run("deleted record is dropped", func(t *testing.T) {
		p := NewAnalysisProcessor(repo, stubAnalyzer{res: sentiment, ok: true}, nil)
		assert.NoError(t, p.Process(ctx, AnalysisJob{EmotionID: "emotion-missing", Text: "x"}))
	})

	t.Run("job without id is permanent", func(t *testing.T) {
		p := NewAnalysisProcessor(repo, stubAnalyzer{res: sentiment, ok: true}, nil)
		err := p.Process(ctx, AnalysisJob{Text: "x"})
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrRetryLater))
	})
}
