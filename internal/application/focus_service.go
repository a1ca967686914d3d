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

const DefaultFocusMinutes = 25

type FocusInput struct {
	DurationMinutes *int
	SessionType     string
	StartTime       *time.Time
}

type FocusService struct {
	Repo   repository.FocusSessionRepository
	Cache  StatsCache // optional
	Logger *logrus.Logger
	now    func() time.Time
}

func NewFocusService(repo repository.FocusSessionRepository, cache StatsCache, logger *logrus.Logger) *FocusService {
	return &FocusService{Repo: repo, Cache: cache, Logger: logger, now: time.Now}
}

func (s *FocusService) Start(ctx context.Context, userID string, in FocusInput) (*entity.FocusSession, error) {
	fs := &entity.FocusSession{
		UserID:          userID,
		DurationMinutes: DefaultFocusMinutes,
		SessionType:     in.SessionType,
	}
	if in.DurationMinutes != nil {
		fs.DurationMinutes = *in.DurationMinutes
	}
	if fs.SessionType == "" {
		fs.SessionType = entity.SessionPomodoro
	}
	if in.StartTime != nil {
		fs.StartTime = *in.StartTime
	}
	if err := s.Repo.Create(ctx, fs); err != nil {
		return nil, err
	}
	return fs, nil
}

// Current returns nil without error when no session is open.
func (s *FocusService) Current(ctx context.Context, userID string) (*entity.FocusSession, error) {
	fs, err := s.Repo.Current(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return fs, err
}

// End closes an open session now. Rating and notes replace the stored values.
func (s *FocusService) End(ctx context.Context, userID, id string, rating *int, notes *string) (*entity.FocusSession, error) {
	fs, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return nil, notFound(err)
	}
	if fs.Ended() {
		return nil, ErrSessionAlreadyEnded
	}
	now := s.now().UTC()
	fs.EndTime = &now
	fs.ProductivityRating = rating
	fs.Notes = notes
	if err := s.Repo.Update(ctx, fs); err != nil {
		return nil, notFound(err)
	}
	invalidateStats(ctx, s.Cache, s.Logger, userID, statsFocus)
	return fs, nil
}

func (s *FocusService) List(ctx context.Context, userID string, tr repository.TimeRange, p repository.Page) ([]entity.FocusSession, error) {
	return s.Repo.List(ctx, userID, tr, p)
}

func (s *FocusService) Stats(ctx context.Context, userID string, days int) (FocusStats, error) {
	days = helpers.ClampDays(days, DefaultStatsDays, MaxStatsDays)
	return cachedStats(ctx, s.Cache, s.Logger, userID, statsFocus, days, func() (FocusStats, error) {
		from := helpers.DaysAgo(s.now(), days)
		sessions, err := s.Repo.List(ctx, userID, repository.TimeRange{From: &from}, repository.All)
		if err != nil {
			return FocusStats{}, err
		}
		return SummarizeFocus(sessions, days), nil
	})
}
