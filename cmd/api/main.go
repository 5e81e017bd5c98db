package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	_ "time/tzdata"

	httptransport "github.com/spec-kit/printshop-service/internal/api/http"
	"github.com/spec-kit/printshop-service/internal/api/http/handlers"
	"github.com/spec-kit/printshop-service/internal/cache"
	"github.com/spec-kit/printshop-service/internal/clock"
	"github.com/spec-kit/printshop-service/internal/config"
	"github.com/spec-kit/printshop-service/internal/events"
	"github.com/spec-kit/printshop-service/internal/jobcode"
	"github.com/spec-kit/printshop-service/internal/observability"
	"github.com/spec-kit/printshop-service/internal/persistence"
	"github.com/spec-kit/printshop-service/internal/pricing"
	"github.com/spec-kit/printshop-service/internal/realtime"
	"github.com/spec-kit/printshop-service/internal/repository"
	"github.com/spec-kit/printshop-service/internal/service"
	"github.com/spec-kit/printshop-service/internal/storage"
	"github.com/spec-kit/printshop-service/internal/worker"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, cfg.App.Name, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	tables, err := pricing.LoadTables(cfg.Pricing.TablesPath)
	if err != nil {
		logger.Fatal("failed to load pricing tables", zap.Error(err))
	}
	engine, err := pricing.NewEngine(tables)
	if err != nil {
		logger.Fatal("invalid pricing tables", zap.Error(err))
	}

	store, err := newFileStore(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to init upload storage", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	clk := clock.New(cfg.Intake.TimeZone)

	pool := pg.PoolHandle()
	clientRepo := repository.NewClientRepository(pool)
	jobRepo := repository.NewJobRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	codes := jobcode.NewGenerator(jobRepo, jobcode.Options{
		Window:      cfg.Intake.CodeWindow(),
		MaxAttempts: cfg.Intake.CodeMaxAttempts,
		OnAttempts:  metrics.ObserveCodeAttempts,
	})

	dispatcher := events.NewInMemoryDispatcher()
	hub := realtime.NewHub(redis.Handle(), realtime.Options{
		Channel: cfg.Realtime.Channel,
		Backlog: cfg.Realtime.SubscriberBacklog,
	}, logger)
	reportCache := cache.New(redis.Handle(), cfg.Analytics.CacheTTL(), logger)

	clientService := service.NewClientService(service.ClientDependencies{
		ClientRepo: clientRepo,
		Clock:      clk,
		Logger:     logger,
	})
	jobService := service.NewJobService(service.JobDependencies{
		JobRepo:       jobRepo,
		ClientService: clientService,
		Pricing:       engine,
		Codes:         codes,
		Store:         store,
		Dispatcher:    dispatcher,
		Clock:         clk,
		Metrics:       metrics,
		Logger:        logger,
	})
	analyticsService := service.NewAnalyticsService(service.AnalyticsDependencies{
		StatsRepo:  statsRepo,
		ClientRepo: clientRepo,
		Cache:      reportCache,
		Metrics:    metrics,
		Logger:     logger,
	})
	exportService := service.NewExportService(jobService, logger)
	notificationService := service.NewNotificationService(dispatcher, hub, reportCache, logger)

	worker.StartNotificationWorker(ctx, notificationService, hub, logger)

	app := fiber.New(fiber.Config{
		AppName:           cfg.App.Name,
		BodyLimit:         cfg.App.BodyLimitBytes,
		StreamRequestBody: true,
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:         logger,
		Metrics:        metrics,
		Timeout:        cfg.App.RequestTimeout(),
		AllowedOrigins: cfg.App.AllowedOrigins,
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Files:     handlers.NewFilesHandler(jobService, exportService),
		Clients:   handlers.NewClientsHandler(clientService),
		Dashboard: handlers.NewDashboardHandler(analyticsService),
		Events:    handlers.NewEventsHandler(hub, cfg.Realtime.KeepAlive(), logger),
		Uploads:   handlers.NewUploadsHandler(store),
		Metrics:   metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	hub.Close()
	_ = app.Shutdown()
}

func newFileStore(ctx context.Context, cfg config.StorageConfig) (storage.FileStore, error) {
	if cfg.Driver == "minio" {
		return storage.NewMinIOStore(ctx, storage.MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
		})
	}
	return storage.NewLocalStore(cfg.UploadsDir)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
