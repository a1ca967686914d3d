//go:build integration

package postgres

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/oksasatya/adhd-helper/internal/domain/entity"
	"github.com/oksasatya/adhd-helper/internal/domain/repository"
	"github.com/oksasatya/adhd-helper/pkg/helpers"
)

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("adhd_helper_test"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dir, err := filepath.Abs("../../../db/migrations")
	require.NoError(t, err)
	require.NoError(t, RunMigrations(dsn, dir, helpers.NewDiscardLogger()))
	// a second run is a no-op
	require.NoError(t, RunMigrations(dsn, dir, nil))

	pool, err := NewPool(ctx, dsn, 4, 1, time.Hour)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func insertUser(t *testing.T, repo *UserRepository, email string) *entity.User {
	t.Helper()
	u := &entity.User{
		Email:        email,
		PasswordHash: "$2a$04$hash",
		Name:         "Min",
		Timezone:     entity.DefaultTimezone,
		IsActive:     true,
	}
	require.NoError(t, repo.Insert(context.Background(), u))
	return u
}

func TestRepositories_Integration(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	users := NewUserRepository(pool)

	t.Run("users", func(t *testing.T) {
		u := insertUser(t, users, "min@example.com")
		assert.NotEmpty(t, u.ID)
		assert.False(t, u.CreatedAt.IsZero())

		dup := &entity.User{Email: "min@example.com", PasswordHash: "x", Name: "Other", Timezone: "UTC", IsActive: true}
		assert.ErrorIs(t, users.Insert(ctx, dup), repository.ErrDuplicateEmail)

		got, err := users.FindByEmail(ctx, "min@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, "$2a$04$hash", got.PasswordHash)

		_, err = users.FindByEmail(ctx, "MIN@example.com")
		assert.ErrorIs(t, err, repository.ErrNotFound)

		_, err = users.FindByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, repository.ErrNotFound)

		off := false
		require.NoError(t, users.UpdateSettings(ctx, u.ID, entity.UserSettings{
			OpenAIAPIKey:        "sk-test",
			EnableAIAnalysis:    &off,
			AIFeedbackFrequency: "weekly",
		}))
		got, err = users.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "sk-test", got.Settings.OpenAIAPIKey)
		assert.False(t, got.Settings.AIAnalysisEnabled())
		assert.Equal(t, "weekly", got.Settings.FeedbackFrequency())
	})

	t.Run("emotions are scoped by owner", func(t *testing.T) {
		owner := insertUser(t, users, "owner@example.com")
		other := insertUser(t, users, "other@example.com")
		repo := NewEmotionRepository(pool)

		note := "long day"
		e := &entity.EmotionRecord{UserID: owner.ID, EmotionLevel: 4, EmotionType: entity.EmotionAnxious, Note: &note}
		require.NoError(t, repo.Create(ctx, e))
		assert.False(t, e.RecordedAt.IsZero())

		_, err := repo.Get(ctx, other.ID, e.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		require.NoError(t, repo.SetAnalysis(ctx, e.ID, map[string]any{"label": "negative"}))
		got, err := repo.Get(ctx, owner.ID, e.ID)
		require.NoError(t, err)
		assert.Equal(t, "negative", got.AIAnalysis["label"])

		from := time.Now().Add(-time.Hour)
		list, err := repo.List(ctx, owner.ID, repository.TimeRange{From: &from}, repository.Page{Limit: 10})
		require.NoError(t, err)
		assert.Len(t, list, 1)

		assert.ErrorIs(t, repo.Delete(ctx, other.ID, e.ID), repository.ErrNotFound)
		require.NoError(t, repo.Delete(ctx, owner.ID, e.ID))
	})

	t.Run("focus current session", func(t *testing.T) {
		u := insertUser(t, users, "focus@example.com")
		repo := NewFocusSessionRepository(pool)

		_, err := repo.Current(ctx, u.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		s := &entity.FocusSession{UserID: u.ID, DurationMinutes: 25, SessionType: entity.SessionPomodoro}
		require.NoError(t, repo.Create(ctx, s))

		cur, err := repo.Current(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, s.ID, cur.ID)

		end := time.Now().UTC()
		cur.EndTime = &end
		require.NoError(t, repo.Update(ctx, cur))
		_, err = repo.Current(ctx, u.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("todos list open first by priority", func(t *testing.T) {
		u := insertUser(t, users, "todo@example.com")
		repo := NewTodoRepository(pool)

		for _, td := range []struct {
			title    string
			priority int
		}{{"low", 1}, {"high", 5}, {"done", 5}} {
			item := &entity.TodoItem{UserID: u.ID, Title: td.title, Priority: td.priority}
			require.NoError(t, repo.Create(ctx, item))
			if td.title == "done" {
				item.SetCompleted(true, time.Now().UTC())
				require.NoError(t, repo.Update(ctx, item))
			}
		}

		list, err := repo.List(ctx, u.ID, nil, repository.Page{})
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{"high", "low", "done"}, []string{list[0].Title, list[1].Title, list[2].Title})
		assert.NotNil(t, list[2].CompletedAt)

		open := false
		list, err = repo.List(ctx, u.ID, &open, repository.Page{})
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("feedbacks newest first", func(t *testing.T) {
		u := insertUser(t, users, "ai@example.com")
		repo := NewFeedbackRepository(pool)
		for _, text := range []string{"first", "second"} {
			require.NoError(t, repo.Create(ctx, &entity.AIFeedback{UserID: u.ID, FeedbackText: text, FeedbackType: entity.FeedbackDailySummary}))
			time.Sleep(10 * time.Millisecond)
		}
		list, err := repo.ListRecent(ctx, u.ID, 1)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "second", list[0].FeedbackText)
	})
}
