package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Service
	HTTPAddr string
	LogLevel slog.Level

	// Providers
	PrimaryBaseURL   string
	FuturesBaseURL   string
	SecondaryBaseURL string
	ProviderTimeout  time.Duration
	CandleLimit      int
	ContextEnabled   bool

	// Circuit breakers
	BreakerMaxFailures int
	BreakerReset       time.Duration

	// Cache (empty RedisAddr disables it)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Alerts (no webhook or Telegram bot configured = log only)
	WebhookURL       string
	TelegramBaseURL  string
	TelegramBotToken string
	TelegramChatID   string

	// Symbols
	SymbolMapFile string
	Symbols       *SymbolMap
}

// Load reads .env (if present) and the environment, applying defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		LogLevel: parseLevel(getEnv("LOG_LEVEL", "info")),

		PrimaryBaseURL:   getEnv("PRIMARY_BASE_URL", "https://api.binance.com"),
		FuturesBaseURL:   getEnv("FUTURES_BASE_URL", "https://fapi.binance.com"),
		SecondaryBaseURL: getEnv("SECONDARY_BASE_URL", "https://api.coingecko.com/api/v3"),
		ProviderTimeout:  time.Duration(getEnvInt("PROVIDER_TIMEOUT_SEC", 10)) * time.Second,
		CandleLimit:      getEnvInt("CANDLE_LIMIT", 300),
		ContextEnabled:   getEnvBool("CONTEXT_ENABLED", true),

		BreakerMaxFailures: getEnvInt("BREAKER_MAX_FAILURES", 5),
		BreakerReset:       time.Duration(getEnvInt("BREAKER_RESET_SEC", 30)) * time.Second,

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      time.Duration(getEnvInt("CACHE_TTL_SEC", 60)) * time.Second,

		WebhookURL:       getEnv("WEBHOOK_URL", ""),
		TelegramBaseURL:  getEnv("TELEGRAM_BASE_URL", "https://api.telegram.org"),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),

		SymbolMapFile: getEnv("SYMBOL_MAP_FILE", ""),
	}

	symbols := DefaultSymbolMap()
	if cfg.SymbolMapFile != "" {
		loaded, err := LoadSymbolMap(cfg.SymbolMapFile)
		if err != nil {
			return nil, err
		}
		symbols = loaded
	}
	cfg.Symbols = symbols

	return cfg, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("skipping invalid integer env value", "key", key, "value", v)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("skipping invalid boolean env value", "key", key, "value", v)
		return fallback
	}
	return b
}
