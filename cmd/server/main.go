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

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bridgeway_site_echo/internal/config"
	"bridgeway_site_echo/internal/content"
	"bridgeway_site_echo/internal/handlers"
	"bridgeway_site_echo/internal/i18n"
	"bridgeway_site_echo/internal/logging"
	sitemw "bridgeway_site_echo/internal/middleware"
	"bridgeway_site_echo/internal/news"
	"bridgeway_site_echo/internal/render"
	"bridgeway_site_echo/internal/services"
	"bridgeway_site_echo/internal/testimonials"
	"bridgeway_site_echo/web"
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

	site, err := content.Load()
	if err != nil {
		logger.Fatal("failed to load site content", zap.Error(err))
	}
	bundle, err := i18n.Load()
	if err != nil {
		logger.Fatal("failed to load translations", zap.Error(err))
	}

	checks := make(map[string]handlers.Checker)

	// Redis is optional; news metadata falls back to an in-process cache
	var cache news.Cache
	if cfg.RedisURL != "" {
		redisCache, err := services.NewRedisCache(cfg.RedisURL, logger)
		if err != nil {
			logger.Warn("redis unavailable, using in-memory news cache", zap.Error(err))
		} else {
			defer redisCache.Close()
			cache = redisCache
			checks["redis"] = redisCache.Ping
		}
	}

	// Database is optional; without it volunteer enquiries are not stored
	var db *gorm.DB
	var store handlers.EnquiryStore
	if cfg.DatabaseURL != "" {
		db, err = services.InitDB(cfg.DatabaseURL, cfg.IsProduction(), logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		if err := services.AutoMigrate(db, logger); err != nil {
			logger.Fatal("failed to run database migrations", zap.Error(err))
		}
		store = services.NewEnquiryStore(db)
		checks["database"] = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	} else {
		logger.Warn("DATABASE_URL not set, volunteer enquiries will not be stored")
	}

	fetcher := news.NewHTTPFetcher(cfg.News.ProxyBaseURL, cfg.News.NoembedBaseURL, cfg.News.FetchTimeout)
	newsService := news.NewService(site.NewsSources(), fetcher, cache, news.Options{
		CacheTTL:       cfg.News.CacheTTL,
		FetchTimeout:   cfg.News.FetchTimeout,
		Concurrency:    cfg.News.Concurrency,
		FailureBackoff: cfg.News.FailureBackoff,
	}, logger.Named("news"))

	quotes := testimonials.NewLoader(web.Static(), "data/testimonials.json", cfg.TestimonialsURL, logger.Named("testimonials"))

	renderer, err := render.NewTemplateRenderer(web.Templates(), render.Options{
		Site:            site,
		Bundle:          bundle,
		DefaultTheme:    cfg.ThemeDefault,
		TranslateWidget: cfg.TranslateWidgetEnabled,
	})
	if err != nil {
		logger.Fatal("failed to parse templates", zap.Error(err))
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.HTTPErrorHandler = sitemw.NewErrorHandler(logger)

	// Middleware
	e.Pre(middleware.RemoveTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
	}))
	e.Use(sitemw.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.Gzip())
	e.Use(sitemw.Theme(cfg.ThemeDefault))
	e.Use(sitemw.Locale(bundle, cfg.IsProduction()))

	handlers.Register(e, handlers.Deps{
		Site:             site,
		News:             newsService,
		Testimonials:     quotes,
		Store:            store,
		CoordinatorEmail: cfg.CoordinatorEmail,
		SecureCookies:    cfg.IsProduction(),
		Static:           web.Static(),
		Checks:           checks,
		Logger:           logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
