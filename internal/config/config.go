package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Env      string
	Port     string
	AppURL   string
	LogLevel string

	DatabaseURL string
	RedisURL    string

	ThemeDefault           string
	TranslateWidgetEnabled bool
	TestimonialsURL        string

	News   NewsConfig
	SMTP   SMTPConfig
	Worker WorkerConfig

	CoordinatorEmail string
}

// NewsConfig holds settings for the news metadata scraper
type NewsConfig struct {
	ProxyBaseURL   string
	NoembedBaseURL string
	CacheTTL       time.Duration
	FetchTimeout   time.Duration
	Concurrency    int
	FailureBackoff time.Duration
}

// SMTPConfig holds outgoing mail settings
type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

// WorkerConfig holds scheduled task worker settings
type WorkerConfig struct {
	Interval time.Duration
}

// Load reads configuration from the environment, applying defaults.
// Call godotenv.Load before this if a .env file should be honoured.
func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnv("PORT", "8080"),
		AppURL:   getEnv("APP_URL", "http://localhost:8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		ThemeDefault:    strings.ToLower(getEnv("THEME_DEFAULT", "light")),
		TestimonialsURL: os.Getenv("TESTIMONIALS_URL"),

		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnv("SMTP_PORT", "587"),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     getEnv("EMAIL_FROM", "website@bridgeway.org.au"),
		},

		CoordinatorEmail: getEnv("VOLUNTEER_COORDINATOR_EMAIL", "volunteer@bridgeway.org.au"),
	}

	var err error
	if cfg.TranslateWidgetEnabled, err = getBool("TRANSLATE_WIDGET_ENABLED", true); err != nil {
		return nil, err
	}

	cfg.News = NewsConfig{
		ProxyBaseURL:   strings.TrimRight(getEnv("NEWS_PROXY_BASE_URL", "https://r.jina.ai"), "/"),
		NoembedBaseURL: strings.TrimRight(getEnv("NEWS_NOEMBED_BASE_URL", "https://noembed.com"), "/"),
	}
	if cfg.News.CacheTTL, err = getDuration("NEWS_CACHE_TTL", 6*time.Hour); err != nil {
		return nil, err
	}
	if cfg.News.FetchTimeout, err = getDuration("NEWS_FETCH_TIMEOUT", 8*time.Second); err != nil {
		return nil, err
	}
	if cfg.News.Concurrency, err = getInt("NEWS_FETCH_CONCURRENCY", 4); err != nil {
		return nil, err
	}
	if cfg.News.FailureBackoff, err = getDuration("NEWS_FAILURE_BACKOFF", 2*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Worker.Interval, err = getDuration("WORKER_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether the app runs with ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT %q: %w", c.Port, err)
	}
	if c.ThemeDefault != "light" && c.ThemeDefault != "dark" {
		return fmt.Errorf("invalid THEME_DEFAULT %q: must be light or dark", c.ThemeDefault)
	}
	if c.News.Concurrency < 1 {
		return fmt.Errorf("NEWS_FETCH_CONCURRENCY must be at least 1, got %d", c.News.Concurrency)
	}
	if c.News.FetchTimeout <= 0 {
		return fmt.Errorf("NEWS_FETCH_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
