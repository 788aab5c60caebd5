// Package main runs the Artograd HTTP API with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/artograd/backend/config"
	"github.com/artograd/backend/internal/artobjects"
	"github.com/artograd/backend/internal/auth"
	"github.com/artograd/backend/internal/authz"
	"github.com/artograd/backend/internal/cities"
	"github.com/artograd/backend/internal/contacts"
	"github.com/artograd/backend/internal/emaillogs"
	"github.com/artograd/backend/internal/expenses"
	"github.com/artograd/backend/internal/identity"
	"github.com/artograd/backend/internal/middleware"
	"github.com/artograd/backend/internal/notifications"
	"github.com/artograd/backend/internal/sequence"
	"github.com/artograd/backend/internal/team"
	"github.com/artograd/backend/internal/tenders"
	"github.com/artograd/backend/internal/uploads"
	"github.com/artograd/backend/internal/users"
	"github.com/artograd/backend/internal/whitelist"
	"github.com/artograd/backend/internal/workupdates"
	"github.com/artograd/backend/pkg/database"
	"github.com/artograd/backend/pkg/queue"
	"github.com/artograd/backend/pkg/redis"
	"github.com/artograd/backend/pkg/response"
	"github.com/artograd/backend/pkg/storage"
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

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	awsCfg, err := cfg.AWS.Load(ctx, logger)
	if err != nil {
		logger.Fatal("aws", zap.Error(err))
	}

	authorizer, err := authz.NewAuthorizer(logger)
	if err != nil {
		logger.Fatal("authz", zap.Error(err))
	}

	whitelistSvc := whitelist.NewService(whitelist.NewRepository(pool), authorizer, logger)

	var (
		resolver    auth.Resolver
		directory   identity.Directory
		authHandler *auth.Handler
	)
	switch cfg.Auth.Mode {
	case config.AuthModeCognito:
		verifier, err := auth.NewCognitoVerifier(ctx, cfg.Auth.Issuer())
		if err != nil {
			logger.Fatal("cognito", zap.Error(err))
		}
		resolver = verifier
		directory = identity.NewCognito(awsCfg, cfg.Auth.UserPoolID, logger)
		logger.Info("auth mode: cognito", zap.String("issuer", cfg.Auth.Issuer()))
	case config.AuthModeLocal:
		issuer := auth.NewLocalIssuer(cfg.Auth.LocalSecret, cfg.Auth.LocalExpireHours)
		local := identity.NewLocalDirectory(pool)
		resolver = issuer
		directory = local
		authHandler = auth.NewHandler(local, issuer, logger).WithWhitelist(whitelistSvc)
		logger.Warn("auth mode: local, tokens are issued by this server")
	}
	profiles := identity.NewProfiles(directory, logger)

	jobQueue := queue.NewQueue(rdb.Client, logger)
	s3Client := storage.NewS3(awsCfg, storage.S3Config{
		Region:    cfg.AWS.Region,
		Bucket:    cfg.AWS.UploadsBucket,
		CDNDomain: cfg.AWS.CDNDomain,
		PathStyle: cfg.AWS.Endpoint != "",
	}, logger)

	renderer, err := notifications.NewRenderer()
	if err != nil {
		logger.Fatal("email templates", zap.Error(err))
	}

	tenderRepo := tenders.NewRepository(pool)
	tenderSvc := tenders.NewService(tenderRepo, authorizer, profiles, logger)
	artObjectSvc := artobjects.NewService(artobjects.NewRepository(pool), tenderRepo,
		sequence.NewGenerator(pool), profiles, authorizer, logger)
	contactSvc := contacts.NewService(contacts.NewRepository(pool), authorizer, logger)
	userSvc := users.NewService(directory, authorizer, logger, tenderSvc, artObjectSvc)
	notificationSvc := notifications.NewService(tenderRepo, contactSvc, profiles, jobQueue, renderer,
		notifications.Platform{Name: cfg.Platform.Name, Link: cfg.Platform.Link}, authorizer, logger).
		WithDeliveryLog(emaillogs.NewRepository(pool))

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Identify(resolver, logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	if authHandler != nil {
		authHandler.RegisterRoutes(router)
	}
	tenders.NewHandler(tenderSvc, logger).RegisterRoutes(router)
	artobjects.NewHandler(artObjectSvc, logger).RegisterRoutes(router)
	expenses.NewHandler(expenses.NewService(expenses.NewRepository(pool), artObjectSvc, authorizer, logger), logger).RegisterRoutes(router)
	workupdates.NewHandler(workupdates.NewService(workupdates.NewRepository(pool), artObjectSvc, authorizer, logger), logger).RegisterRoutes(router)
	contacts.NewHandler(contactSvc, logger).RegisterRoutes(router)
	users.NewHandler(userSvc, logger).RegisterRoutes(router)
	notifications.NewHandler(notificationSvc, logger).RegisterRoutes(router)
	uploads.NewHandler(uploads.NewService(s3Client, authorizer, logger), logger).RegisterRoutes(router)
	team.NewHandler(team.NewService(team.NewRepository(pool), authorizer, logger), logger).RegisterRoutes(router)
	whitelist.NewHandler(whitelistSvc, logger).RegisterRoutes(router)
	cities.NewHandler(cities.NewService(cities.NewRepository(pool), rdb, logger), logger).RegisterRoutes(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
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
