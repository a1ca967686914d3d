package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adhd-helper/internal/domain/entity"
	"github.com/oksasatya/adhd-helper/internal/domain/repository"
	"github.com/oksasatya/adhd-helper/pkg/helpers"
)

// EmotionIndex is the full-text index of emotion notes.
type EmotionIndex interface {
	Index(ctx context.Context, e *entity.EmotionRecord) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, userID, q string, size int) ([]map[string]any, error)
}

// JobPublisher enqueues a JSON job.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type EmotionInput struct {
	EmotionLevel int
	EmotionType  string
	Note         *string
	RecordedAt   *time.Time
}

// EmotionPatch updates only the non-nil fields.
type EmotionPatch struct {
	EmotionLevel *int
	EmotionType  *string
	Note         *string
}

type EmotionService struct {
	Repo   repository.EmotionRepository
	Index  EmotionIndex // optional
	Jobs   JobPublisher // optional
	Cache  StatsCache   // optional
	Logger *logrus.Logger
	now    func() time.Time
}

func NewEmotionService(repo repository.EmotionRepository, index EmotionIndex, jobs JobPublisher, cache StatsCache, logger *logrus.Logger) *EmotionService {
	return &EmotionService{Repo: repo, Index: index, Jobs: jobs, Cache: cache, Logger: logger, now: time.Now}
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *EmotionService) Create(ctx context.Context, u *entity.User, in EmotionInput) (*entity.EmotionRecord, error) {
	e := &entity.EmotionRecord{
		UserID:       u.ID,
		EmotionLevel: in.EmotionLevel,
		EmotionType:  in.EmotionType,
		Note:         in.Note,
		AIAnalysis:   map[string]any{},
	}
	if in.RecordedAt != nil {
		e.RecordedAt = *in.RecordedAt
	}
	if err := s.Repo.Create(ctx, e); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, e)
	if e.Note != nil && *e.Note != "" && u.Settings.AIAnalysisEnabled() {
		s.enqueueAnalysis(ctx, e)
	}
	return e, nil
}

func (s *EmotionService) Get(ctx context.Context, userID, id string) (*entity.EmotionRecord, error) {
	e, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

func (s *EmotionService) List(ctx context.Context, userID string, tr repository.TimeRange, p repository.Page) ([]entity.EmotionRecord, error) {
	return s.Repo.List(ctx, userID, tr, p)
}

func (s *EmotionService) Update(ctx context.Context, userID, id string, patch EmotionPatch) (*entity.EmotionRecord, error) {
	e, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return nil, notFound(err)
	}
	if patch.EmotionLevel != nil {
		e.EmotionLevel = *patch.EmotionLevel
	}
	if patch.EmotionType != nil {
		e.EmotionType = *patch.EmotionType
	}
	if patch.Note != nil {
		e.Note = patch.Note
	}
	if err := s.Repo.Update(ctx, e); err != nil {
		return nil, notFound(err)
	}
	s.afterWrite(ctx, e)
	return e, nil
}

func (s *EmotionService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return notFound(err)
	}
	invalidateStats(ctx, s.Cache, s.Logger, userID, statsEmotion)
	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil {
			helpers.LogWarn(s.Logger, "emotion unindex failed", err, logrus.Fields{"emotion_id": id})
		}
	}
	return nil
}

// Stats summarizes the last days days; out-of-range values fall back to the default window.
func (s *EmotionService) Stats(ctx context.Context, userID string, days int) (EmotionStats, error) {
	days = helpers.ClampDays(days, DefaultStatsDays, MaxStatsDays)
	return cachedStats(ctx, s.Cache, s.Logger, userID, statsEmotion, days, func() (EmotionStats, error) {
		from := helpers.DaysAgo(s.now(), days)
		records, err := s.Repo.List(ctx, userID, repository.TimeRange{From: &from}, repository.All)
		if err != nil {
			return EmotionStats{}, err
		}
		return SummarizeEmotions(records, days), nil
	})
}

// Search matches notes and types in the full-text index; without one it finds nothing.
func (s *EmotionService) Search(ctx context.Context, userID, q string, size int) ([]map[string]any, error) {
	if s.Index == nil || q == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	return s.Index.Search(ctx, userID, q, size)
}

func (s *EmotionService) afterWrite(ctx context.Context, e *entity.EmotionRecord) {
	invalidateStats(ctx, s.Cache, s.Logger, e.UserID, statsEmotion)
	if s.Index != nil {
		if err := s.Index.Index(ctx, e); err != nil {
			helpers.LogWarn(s.Logger, "emotion index failed", err, logrus.Fields{"emotion_id": e.ID})
		}
	}
}

func (s *EmotionService) enqueueAnalysis(ctx context.Context, e *entity.EmotionRecord) {
	if s.Jobs == nil {
		return
	}
	job := AnalysisJob{EmotionID: e.ID, UserID: e.UserID, Text: *e.Note}
	if err := s.Jobs.PublishJSON(ctx, job); err != nil {
		helpers.LogWarn(s.Logger, "enqueue emotion analysis failed", err, logrus.Fields{"emotion_id": e.ID})
	}
}
