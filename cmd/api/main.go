package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/theetaz/complaint-service/internal/api/http"
	"github.com/theetaz/complaint-service/internal/api/http/handlers"
	"github.com/theetaz/complaint-service/internal/auth"
	"github.com/theetaz/complaint-service/internal/config"
	"github.com/theetaz/complaint-service/internal/events"
	"github.com/theetaz/complaint-service/internal/observability"
	"github.com/theetaz/complaint-service/internal/persistence"
	"github.com/theetaz/complaint-service/internal/repository"
	"github.com/theetaz/complaint-service/internal/service"
	"github.com/theetaz/complaint-service/internal/storage"
	"github.com/theetaz/complaint-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var imageStore service.ImageUploader
	if cfg.AWS.Bucket != "" {
		store, err := storage.NewImageStore(ctx, cfg.AWS)
		if err != nil {
			logger.Fatal("failed to init image store", zap.Error(err))
		}
		imageStore = store
	} else {
		logger.Warn("AWS_S3_BUCKET_NAME not provided; image uploads disabled")
	}

	tokenManager, err := auth.NewTokenManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.JWTAlgorithm,
		cfg.Auth.AccessTokenTTLMinutes,
		cfg.Auth.RefreshTokenTTLMinutes,
	)
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}
	resetCodec := auth.NewResetTokenCodec(cfg.Auth.JWTSecret)

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	complaintRepo := repository.NewComplaintRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		Users:      userRepo,
		Tokens:     tokenManager,
		Resets:     resetCodec,
		Dispatcher: dispatcher,
		Limiter:    redis,
	})
	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost)
	complaintService := service.NewComplaintService(complaintRepo, imageStore, dispatcher)

	gate := auth.NewCredentialGate(tokenManager)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:       handlers.NewAuthHandler(authService, userService),
		Users:      handlers.NewUsersHandler(userService),
		Complaints: handlers.NewComplaintsHandler(complaintService),
		Gate:       gate,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
