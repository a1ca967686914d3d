package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adhd-helper/config"
	"github.com/oksasatya/adhd-helper/internal/container"
	pginfra "github.com/oksasatya/adhd-helper/internal/infrastructure/postgres"
	"github.com/oksasatya/adhd-helper/internal/interface/middleware"
	"github.com/oksasatya/adhd-helper/internal/router"
	"github.com/oksasatya/adhd-helper/pkg/helpers"
	"github.com/oksasatya/adhd-helper/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	jwtManager, err := helpers.NewJWTManager(cfg.SecretKey, cfg.Algorithm, cfg.AccessTTL, cfg.RefreshTTL)
	if err != nil {
		log.Fatalf("failed to init token codec: %v", err)
	}

	c := &container.Container{Config: cfg, Logger: logger, PG: pool, JWT: jwtManager}
	connectOptional(ctx, c)
	defer closeOptional(c)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	router.RegisterHealth(r)
	reg := router.NewRegistry(r)
	router.InitModules(reg, c.Build())
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// connectOptional attaches the infrastructure that is configured and reachable.
// Anything missing leaves its feature degraded rather than stopping startup.
func connectOptional(ctx context.Context, c *container.Container) {
	cfg, logger := c.Config, c.Logger

	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := helpers.PingRedis(ctx, rdb); err != nil {
			logger.WithError(err).Warn("redis unavailable; stats cache and AI rate limit disabled")
			_ = rdb.Close()
		} else {
			c.Redis = rdb
		}
	}

	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQAnalysisQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; emotion analysis jobs disabled")
		} else {
			c.RabbitPub = pub
		}
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; emotion search disabled")
		} else {
			c.ES = es
		}
	}

	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Warn("gcs unavailable; data export disabled")
		} else {
			c.GCS = gcs
		}
	}

	logger.WithFields(logrus.Fields{
		"redis":         c.Redis != nil,
		"rabbitmq":      c.RabbitPub != nil,
		"elasticsearch": c.ES != nil,
		"gcs":           c.GCS != nil,
	}).Info("optional infrastructure")
}

func closeOptional(c *container.Container) {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	c.RabbitPub.Close()
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
}
