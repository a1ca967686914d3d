package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adhd-helper/internal/domain/entity"
	"github.com/oksasatya/adhd-helper/internal/domain/repository"
)

type TodoInput struct {
	Title       string
	Description *string
	Priority    *int
	DueDate     *time.Time
}

// TodoPatch updates only the non-nil fields.
type TodoPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *int
	DueDate     *time.Time
}

type TodoService struct {
	Repo   repository.TodoRepository
	Cache  StatsCache // optional
	Logger *logrus.Logger
	now    func() time.Time
}

func NewTodoService(repo repository.TodoRepository, cache StatsCache, logger *logrus.Logger) *TodoService {
	return &TodoService{Repo: repo, Cache: cache, Logger: logger, now: time.Now}
}

func (s *TodoService) Create(ctx context.Context, userID string, in TodoInput) (*entity.TodoItem, error) {
	t := &entity.TodoItem{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    1,
		DueDate:     in.DueDate,
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, err
	}
	invalidateStats(ctx, s.Cache, s.Logger, userID, statsTodo)
	return t, nil
}

func (s *TodoService) List(ctx context.Context, userID string, completed *bool, p repository.Page) ([]entity.TodoItem, error) {
	return s.Repo.List(ctx, userID, completed, p)
}

func (s *TodoService) Update(ctx context.Context, userID, id string, patch TodoPatch) (*entity.TodoItem, error) {
	t, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return nil, notFound(err)
	}
	if patch.Completed != nil {
		t.SetCompleted(*patch.Completed, s.now().UTC())
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = patch.Description
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		t.DueDate = patch.DueDate
	}
	if err := s.Repo.Update(ctx, t); err != nil {
		return nil, notFound(err)
	}
	invalidateStats(ctx, s.Cache, s.Logger, userID, statsTodo)
	return t, nil
}

func (s *TodoService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return notFound(err)
	}
	invalidateStats(ctx, s.Cache, s.Logger, userID, statsTodo)
	return nil
}

// Stats covers every todo the user has; the cache variant is fixed.
func (s *TodoService) Stats(ctx context.Context, userID string) (TodoStats, error) {
	return cachedStats(ctx, s.Cache, s.Logger, userID, statsTodo, 0, func() (TodoStats, error) {
		todos, err := s.Repo.List(ctx, userID, nil, repository.All)
		if err != nil {
			return TodoStats{}, err
		}
		return SummarizeTodos(todos, s.now()), nil
	})
}
