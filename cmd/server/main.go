package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/joho/godotenv"

	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/events"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdout := logging.Setup(cfg.AppEnv)

	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, pgLogHandler)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetentionDays, cleanupDone)

	// Inventory cache (Redis, optional)
	var inventoryCache *cache.InventoryCache
	var redisKV *cache.RedisKV
	if cfg.RedisAddr != "" {
		redisKV = cache.NewRedisKV(cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB))
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := redisKV.Ping(pingCtx); err != nil {
			slog.Warn("redis unreachable, inventory cache will miss until it recovers", "addr", cfg.RedisAddr, "error", err)
		} else {
			slog.Info("redis connected", "addr", cfg.RedisAddr)
		}
		cancel()
		inventoryCache = cache.NewInventoryCache(redisKV, cfg.InventoryCacheTTL)
	}

	// Domain events (Kafka, optional)
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		slog.Info("kafka publisher enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	// Services
	ledger := services.NewInventoryLedger(db, inventoryCache)
	requestService := services.NewRequestService(db, ledger, publisher)
	donationService := services.NewDonationService(db, ledger, publisher)
	directoryService := services.NewDirectoryService(db)
	accountService := services.NewAccountService(db, services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTAccessExpiry))
	reportService := services.NewReportService(ledger, requestService)

	// Handlers
	accountHandler := handlers.NewAccountHandler(accountService)
	requestHandler := handlers.NewRequestHandler(requestService)
	inventoryHandler := handlers.NewInventoryHandler(ledger)
	donationHandler := handlers.NewDonationHandler(donationService)
	directoryHandler := handlers.NewDirectoryHandler(directoryService)
	reportHandler := handlers.NewReportHandler(reportService)
	healthHandler := handlers.NewHealthHandler(db)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${locals:requestid} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, accountHandler, requestHandler, inventoryHandler, donationHandler, directoryHandler, reportHandler, healthHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	if err := publisher.Close(); err != nil {
		slog.Error("event publisher close error", "error", err)
	}
	if redisKV != nil {
		if err := redisKV.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
