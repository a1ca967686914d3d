package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adhd-helper/internal/domain/ai"
	"github.com/oksasatya/adhd-helper/internal/domain/repository"
)

// AnalysisJob asks the worker to run sentiment analysis on an emotion note.
type AnalysisJob struct {
	EmotionID string `json:"emotion_id"`
	UserID    string `json:"user_id"`
	Text      string `json:"text"`
}

// ErrRetryLater marks a job failure that should be redelivered.
var ErrRetryLater = errors.New("retry later")

type AnalysisProcessor struct {
	Repo     repository.EmotionRepository
	Analyzer ai.SentimentAnalyzer
	Logger   *logrus.Logger
}

func NewAnalysisProcessor(repo repository.EmotionRepository, analyzer ai.SentimentAnalyzer, logger *logrus.Logger) *AnalysisProcessor {
	return &AnalysisProcessor{Repo: repo, Analyzer: analyzer, Logger: logger}
}

// Process stores the analysis on the record. Errors wrapping ErrRetryLater are
// transient; any other error means the job can never succeed.
func (p *AnalysisProcessor) Process(ctx context.Context, job AnalysisJob) error {
	if job.EmotionID == "" {
		return errors.New("analysis job without emotion id")
	}
	s, ok, err := p.Analyzer.Analyze(ctx, job.Text)
	if err != nil {
		if errors.Is(err, ai.ErrUnavailable) || errors.Is(err, ai.ErrRateLimited) {
			return errors.Join(ErrRetryLater, err)
		}
		return err
	}
	if !ok {
		return nil
	}
	if err := p.Repo.SetAnalysis(ctx, job.EmotionID, s.Map()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// deleted before the worker got to it
			if p.Logger != nil {
				p.Logger.WithField("emotion_id", job.EmotionID).Info("emotion record gone, dropping analysis")
			}
			return nil
		}
		return errors.Join(ErrRetryLater, err)
	}
	return nil
}
