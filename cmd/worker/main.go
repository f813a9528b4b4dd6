package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"bridgeway_site_echo/internal/config"
	"bridgeway_site_echo/internal/content"
	"bridgeway_site_echo/internal/logging"
	"bridgeway_site_echo/internal/news"
	"bridgeway_site_echo/internal/services"
	"bridgeway_site_echo/internal/tasks"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	db, err := services.InitDB(cfg.DatabaseURL, cfg.IsProduction(), logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := services.AutoMigrate(db, logger); err != nil {
		logger.Fatal("failed to run database migrations", zap.Error(err))
	}

	site, err := content.Load()
	if err != nil {
		logger.Fatal("failed to load site content", zap.Error(err))
	}

	// The worker must warm the same cache the server reads, so without Redis
	// the refresh task only exercises the proxies.
	var cache news.Cache
	var lock tasks.Locker
	if cfg.RedisURL != "" {
		redisCache, err := services.NewRedisCache(cfg.RedisURL, logger)
		if err != nil {
			logger.Warn("redis unavailable, news refresh will not be shared", zap.Error(err))
		} else {
			defer redisCache.Close()
			cache = redisCache
			lock = redisCache
		}
	}

	fetcher := news.NewHTTPFetcher(cfg.News.ProxyBaseURL, cfg.News.NoembedBaseURL, cfg.News.FetchTimeout)
	newsService := news.NewService(site.NewsSources(), fetcher, cache, news.Options{
		CacheTTL:     cfg.News.CacheTTL,
		FetchTimeout: cfg.News.FetchTimeout,
		Concurrency:  cfg.News.Concurrency,
	}, logger.Named("news"))

	deps := tasks.Deps{
		Logger:           logger.Named("tasks"),
		News:             newsService,
		CoordinatorEmail: cfg.CoordinatorEmail,
	}
	email := services.NewEmailService(cfg.SMTP)
	if email.Configured() {
		deps.Mailer = email
	} else {
		logger.Warn("SMTP not configured, volunteer enquiry notifications are disabled")
	}

	registry := tasks.NewRegistry()
	tasks.DefineTasks(registry, deps)

	// Create context that cancels on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if created, err := tasks.RefreshNewsTask.Ensure(ctx, db, time.Now()); err != nil {
		logger.Error("failed to schedule news refresh", zap.Error(err))
	} else if created {
		logger.Info("scheduled recurring news refresh", zap.String("rule", tasks.DefaultNewsRefreshRule))
	}

	logger.Info("worker started",
		zap.Duration("interval", cfg.Worker.Interval),
		zap.Strings("tasks", registry.Names()))

	runner := tasks.NewRunner(db, registry, logger.Named("worker"), lock)
	runner.Run(ctx, cfg.Worker.Interval)

	logger.Info("worker stopped")
}
