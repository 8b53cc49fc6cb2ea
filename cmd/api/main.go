package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/resolution-service/internal/api/http"
	"github.com/spec-kit/resolution-service/internal/api/http/handlers"
	"github.com/spec-kit/resolution-service/internal/auth"
	"github.com/spec-kit/resolution-service/internal/config"
	"github.com/spec-kit/resolution-service/internal/events"
	"github.com/spec-kit/resolution-service/internal/observability"
	"github.com/spec-kit/resolution-service/internal/persistence"
	"github.com/spec-kit/resolution-service/internal/repository"
	"github.com/spec-kit/resolution-service/internal/service"
	"github.com/spec-kit/resolution-service/internal/worker"
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

	claims := persistence.NewClaimStore(redis.ClientHandle(), 24*time.Hour)
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	operatorRepo := repository.NewOperatorRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	complaintRepo := repository.NewComplaintRepository(pool)
	attemptRepo := repository.NewPickupAttemptRepository(pool)
	refundRepo := repository.NewRefundRequestRepository(pool)
	couponRepo := repository.NewCouponRepository(pool)
	evidenceRepo := repository.NewEvidenceRepository(pool)
	historyRepo := repository.NewComplaintHistoryRepository(pool)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:     userRepo,
		OperatorRepo: operatorRepo,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, operatorRepo)

	incentiveService := service.NewIncentiveService(couponRepo, claims, logger, cfg.Workflow)
	resolutionService := service.NewResolutionService(cfg.Workflow, service.ResolutionDependencies{
		ComplaintRepo: complaintRepo,
		AttemptRepo:   attemptRepo,
		RefundRepo:    refundRepo,
		OrderRepo:     orderRepo,
		EvidenceRepo:  evidenceRepo,
		HistoryRepo:   historyRepo,
		Incentives:    incentiveService,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Logger:        logger,
	})
	refundService := service.NewRefundService(refundRepo, incentiveService, claims, dispatcher, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:              handlers.NewAuthHandler(authService),
		Complaints:        handlers.NewComplaintsHandler(resolutionService),
		OperatorWorkflows: handlers.NewOperatorComplaintsHandler(resolutionService),
		Refunds:           handlers.NewRefundsHandler(refundService),
		AuthMiddleware:    authMiddleware,
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
