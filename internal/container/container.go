// Package container builds the object graph shared by the HTTP server and the
// background worker. Optional infrastructure is left nil when not configured,
// and the services fall back to their degraded behaviour.
package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adhd-helper/config"
	"github.com/oksasatya/adhd-helper/internal/application"
	"github.com/oksasatya/adhd-helper/internal/domain/ai"
	"github.com/oksasatya/adhd-helper/internal/infrastructure/aiclient"
	"github.com/oksasatya/adhd-helper/internal/infrastructure/cache"
	pginfra "github.com/oksasatya/adhd-helper/internal/infrastructure/postgres"
	"github.com/oksasatya/adhd-helper/internal/infrastructure/search"
	gcsinfra "github.com/oksasatya/adhd-helper/internal/infrastructure/storage"
	handlers "github.com/oksasatya/adhd-helper/internal/interface/http"
	"github.com/oksasatya/adhd-helper/pkg/helpers"
)

// Container holds the process-wide clients. Only Config, Logger, PG and JWT are required.
type Container struct {
	Config    *config.Config
	Logger    *logrus.Logger
	PG        *pgxpool.Pool
	Redis     *redis.Client
	RabbitPub *helpers.RabbitPublisher
	ES        *elasticsearch.Client
	GCS       *storage.Client
	JWT       *helpers.JWTManager
}

// App is the wired HTTP surface.
type App struct {
	Resolver *application.IdentityResolver
	Redis    *redis.Client
	Config   *config.Config

	Auth    *handlers.AuthHandler
	Emotion *handlers.EmotionHandler
	Focus   *handlers.FocusHandler
	Todo    *handlers.TodoHandler
	AI      *handlers.AIHandler
	User    *handlers.UserHandler
}

func (c *Container) statsCache() application.StatsCache {
	if c.Redis == nil {
		return nil
	}
	return cache.NewRedisStats(c.Redis, c.Config.StatsCacheTTL)
}

func (c *Container) emotionIndex() application.EmotionIndex {
	if c.ES == nil {
		return nil
	}
	return search.NewEmotionIndex(c.ES, c.Config.ESEmotionsIndex)
}

func (c *Container) jobs() application.JobPublisher {
	if c.RabbitPub == nil {
		return nil
	}
	return c.RabbitPub
}

func (c *Container) exportStore() application.ObjectUploader {
	if c.GCS == nil || c.Config.GCSBucket == "" {
		return nil
	}
	return gcsinfra.NewExportStore(c.GCS, c.Config.GCSBucket, c.Config.ExportURLTTL)
}

// Analyzer is shared by the analyze-emotion endpoint and the analysis worker.
func (c *Container) Analyzer() ai.SentimentAnalyzer {
	return aiclient.NewHuggingFace(c.Config.HuggingFaceModelURL, c.Config.HuggingFaceAPIKey)
}

// AnalysisProcessor is what the worker runs for each queued job.
func (c *Container) AnalysisProcessor() *application.AnalysisProcessor {
	return application.NewAnalysisProcessor(pginfra.NewEmotionRepository(c.PG), c.Analyzer(), c.Logger)
}

// Build wires repositories, services and handlers.
func (c *Container) Build() *App {
	users := pginfra.NewUserRepository(c.PG)
	emotions := pginfra.NewEmotionRepository(c.PG)
	sessions := pginfra.NewFocusSessionRepository(c.PG)
	todos := pginfra.NewTodoRepository(c.PG)
	feedbacks := pginfra.NewFeedbackRepository(c.PG)
	stats := c.statsCache()

	hasher := helpers.NewPasswordHasher(c.Config.BcryptCost)
	authSvc := application.NewAuthService(users, hasher, c.JWT, c.Config.EnforceTokenType, c.Logger)
	resolver := application.NewIdentityResolver(users, c.JWT, c.Config.EnforceTokenType, c.Logger)

	emotionSvc := application.NewEmotionService(emotions, c.emotionIndex(), c.jobs(), stats, c.Logger)
	focusSvc := application.NewFocusService(sessions, stats, c.Logger)
	todoSvc := application.NewTodoService(todos, stats, c.Logger)
	aiSvc := application.NewAIService(users, emotions, sessions, todos, feedbacks, c.Analyzer(), aiclient.NewOpenAI(c.Config.OpenAIModel), c.Logger)
	userSvc := application.NewUserService(emotions, sessions, todos, feedbacks, c.exportStore(), c.Logger)

	return &App{
		Resolver: resolver,
		Redis:    c.Redis,
		Config:   c.Config,
		Auth:     handlers.NewAuthHandler(authSvc, c.Logger),
		Emotion:  handlers.NewEmotionHandler(emotionSvc, c.Logger),
		Focus:    handlers.NewFocusHandler(focusSvc, c.Logger),
		Todo:     handlers.NewTodoHandler(todoSvc, c.Logger),
		AI:       handlers.NewAIHandler(aiSvc, c.Logger),
		User:     handlers.NewUserHandler(userSvc, c.Logger),
	}
}
