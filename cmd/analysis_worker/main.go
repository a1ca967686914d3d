package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adhd-helper/config"
	"github.com/oksasatya/adhd-helper/internal/application"
	"github.com/oksasatya/adhd-helper/internal/container"
	pginfra "github.com/oksasatya/adhd-helper/internal/infrastructure/postgres"
	"github.com/oksasatya/adhd-helper/pkg/helpers"
)

const prefetch = 16

// errDeliveriesClosed means the broker connection or channel went away.
var errDeliveriesClosed = errors.New("amqp delivery channel closed")

func main() {
	if err := run(); err != nil {
		log.Printf("analysis worker stopped: %v", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-analysis-worker", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQAnalysisQueue == "" {
		return errors.New("RabbitMQ not configured")
	}
	if cfg.HuggingFaceModelURL == "" {
		logger.Warn("HUGGINGFACE_MODEL_URL is empty; analysis worker disabled")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	consumer, msgs, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQAnalysisQueue, prefetch)
	if err != nil {
		return fmt.Errorf("amqp consume: %w", err)
	}
	defer consumer.Close()

	c := &container.Container{Config: cfg, Logger: logger, PG: pool}
	proc := c.AnalysisProcessor()

	logger.WithField("queue", cfg.RabbitMQAnalysisQueue).Info("analysis worker listening")
	err = consume(ctx, msgs, func(msg amqp.Delivery) { handle(ctx, proc, logger, msg) })
	if err != nil {
		logger.WithError(err).Error("analysis worker lost its broker connection")
		return err
	}
	logger.Info("shutting down...")
	return nil
}

// consume feeds deliveries to fn one at a time until ctx is cancelled (nil) or
// the delivery channel closes (errDeliveriesClosed).
func consume(ctx context.Context, msgs <-chan amqp.Delivery, fn func(amqp.Delivery)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errDeliveriesClosed
			}
			fn(msg)
		}
	}
}

// handle acks processed jobs, requeues transient failures and drops the rest.
func handle(ctx context.Context, proc *application.AnalysisProcessor, logger *logrus.Logger, msg amqp.Delivery) {
	var job application.AnalysisJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		logger.WithError(err).Warn("bad analysis message")
		_ = msg.Nack(false, false)
		return
	}

	c, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	err := proc.Process(c, job)
	switch {
	case err == nil:
		_ = msg.Ack(false)
	case errors.Is(err, application.ErrRetryLater):
		logger.WithError(err).WithField("emotion_id", job.EmotionID).Warn("analysis failed, requeueing")
		// back off a little so a throttled provider is not hammered
		time.Sleep(time.Second)
		_ = msg.Nack(false, true)
	default:
		logger.WithError(err).WithField("emotion_id", job.EmotionID).Error("analysis failed permanently")
		_ = msg.Nack(false, false)
	}
}
