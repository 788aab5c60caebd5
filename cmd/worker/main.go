// Package main runs the background worker: the mail relay and the tender status scheduler.
package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/artograd/backend/config"
	"github.com/artograd/backend/internal/authz"
	"github.com/artograd/backend/internal/emaillogs"
	"github.com/artograd/backend/internal/tenders"
	"github.com/artograd/backend/internal/worker"
	"github.com/artograd/backend/pkg/database"
	"github.com/artograd/backend/pkg/queue"
	"github.com/artograd/backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		newLogger("info").Fatal("load config", zap.Error(err))
	}
	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var sender worker.Sender
	if cfg.AWS.MailQueueURL != "" {
		awsCfg, err := cfg.AWS.Load(ctx, logger)
		if err != nil {
			logger.Fatal("aws", zap.Error(err))
		}
		sender = worker.NewSQSSender(sqs.NewFromConfig(awsCfg), cfg.AWS.MailQueueURL, logger)
	} else {
		logger.Warn("SQS_MAIL_QUEUE_URL not set, emails are only logged")
		sender = worker.NewLogSender(logger)
	}

	authorizer, err := authz.NewAuthorizer(logger)
	if err != nil {
		logger.Fatal("authz", zap.Error(err))
	}
	// Status runs never look up profiles.
	tenderSvc := tenders.NewService(tenders.NewRepository(pool), authorizer, nil, logger)

	jobQueue := queue.NewQueue(rdb.Client, logger)
	relay := worker.NewMailRelay(jobQueue, sender, logger).WithRecorder(emaillogs.NewRepository(pool))
	scheduler := worker.NewStatusScheduler(tenderSvc, cfg.Jobs.TenderStatusInterval, logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	for i := 0; i < max(cfg.Jobs.Concurrency, 1); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			relay.Run(workerCtx)
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		scheduler.Run(workerCtx)
	}()
	logger.Info("worker started",
		zap.Int("mail_relays", max(cfg.Jobs.Concurrency, 1)),
		zap.Duration("status_interval", cfg.Jobs.TenderStatusInterval),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	wg.Wait()
	logger.Info("worker stopped")
}

func newLogger(level string) *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		config.Level = lvl
	}
	logger, _ := config.Build()
	return logger
}
