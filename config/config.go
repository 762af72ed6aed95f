package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as server settings, upstream providers and the Redis cache.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	LLM_PROVIDER=claude
//	ANTHROPIC_API_KEY=sk-ant-...
//	MARKET_PROVIDER=yahoo
//	NEWS_PROVIDER=newsapi
//	NEWSAPI_KEY=...
//	REDIS_HOST=localhost
//	REDIS_PORT=6379
type Config struct {
	Server    ServerConfig    // HTTP server configuration
	Log       LogConfig       // Logger settings
	LLM       LLMConfig       // Narrative generation backend
	Market    MarketConfig    // Price and fundamentals source
	News      NewsConfig      // News source
	Redis     RedisConfig     // Optional cache
	Scheduler SchedulerConfig // Cache warmer
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string        // The TCP port the HTTP server will listen on (e.g., "8080")
	RequestTimeout time.Duration // Upper bound for one analysis request
	RateLimitRPS   float64       // Requests per second per client IP, 0 disables limiting
	RateLimitBurst int
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string
	Pretty bool
}

// LLMConfig selects the LLM backend and its credentials.
type LLMConfig struct {
	Provider        string // claude | gemini | openai
	MaxTokens       int
	AnthropicAPIKey string
	AnthropicModel  string
	GeminiAPIKey    string
	GeminiModel     string
	OpenAIAPIKey    string
	OpenAIModel     string
}

// MarketConfig selects the market data provider.
type MarketConfig struct {
	Provider        string // yahoo | eodhd | alpaca | csv
	DataDir         string // csv only
	EODHDAPIKey     string
	EODHDExchange   string
	EODHDRateLimit  int
	AlpacaKeyID     string
	AlpacaSecretKey string
}

// NewsConfig selects the news provider.
type NewsConfig struct {
	Provider   string // newsapi | eodhd
	NewsAPIKey string
}

// RedisConfig defines connection details for Redis. An empty Host disables caching.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Addr     string
	CacheTTL time.Duration
}

// Enabled reports whether a Redis host is configured.
func (r RedisConfig) Enabled() bool { return r.Host != "" }

// SchedulerConfig drives the cache warmer.
type SchedulerConfig struct {
	Watchlist []string
	WarmCron  string
}

// Supported provider names.
var (
	LLMProviders    = []string{"claude", "gemini", "openai"}
	MarketProviders = []string{"yahoo", "eodhd", "alpaca", "csv"}
	NewsProviders   = []string{"newsapi", "eodhd"}
)

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
// All services should import this package and read from AppConfig instead of
// reloading environment variables directly.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or a provider name is unknown,
//     validateConfig() will terminate the app with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("REQUEST_TIMEOUT", "120s")
	viper.SetDefault("RATE_LIMIT_RPS", 5)
	viper.SetDefault("RATE_LIMIT_BURST", 10)

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", false)

	viper.SetDefault("LLM_PROVIDER", "claude")
	viper.SetDefault("LLM_MAX_TOKENS", 4000)
	viper.SetDefault("ANTHROPIC_MODEL", "claude-3-7-sonnet-20250219")
	viper.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o-mini")

	viper.SetDefault("MARKET_PROVIDER", "yahoo")
	viper.SetDefault("EODHD_EXCHANGE", "US")
	viper.SetDefault("EODHD_RATE_LIMIT", 10)

	viper.SetDefault("NEWS_PROVIDER", "newsapi")

	viper.SetDefault("REDIS_PORT", 6379)
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_TTL", "15m")

	viper.SetDefault("WARM_CRON", "@every 30m")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	// Populate global config instance
	AppConfig = Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			RequestTimeout: viper.GetDuration("REQUEST_TIMEOUT"),
			RateLimitRPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst: viper.GetInt("RATE_LIMIT_BURST"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Pretty: viper.GetBool("LOG_PRETTY"),
		},
		LLM: LLMConfig{
			Provider:        strings.ToLower(viper.GetString("LLM_PROVIDER")),
			MaxTokens:       viper.GetInt("LLM_MAX_TOKENS"),
			AnthropicAPIKey: viper.GetString("ANTHROPIC_API_KEY"),
			AnthropicModel:  viper.GetString("ANTHROPIC_MODEL"),
			GeminiAPIKey:    viper.GetString("GEMINI_API_KEY"),
			GeminiModel:     viper.GetString("GEMINI_MODEL"),
			OpenAIAPIKey:    viper.GetString("OPENAI_API_KEY"),
			OpenAIModel:     viper.GetString("OPENAI_MODEL"),
		},
		Market: MarketConfig{
			Provider:        strings.ToLower(viper.GetString("MARKET_PROVIDER")),
			DataDir:         viper.GetString("MARKET_DATA_DIR"),
			EODHDAPIKey:     viper.GetString("EODHD_API_KEY"),
			EODHDExchange:   viper.GetString("EODHD_EXCHANGE"),
			EODHDRateLimit:  viper.GetInt("EODHD_RATE_LIMIT"),
			AlpacaKeyID:     viper.GetString("APCA_API_KEY_ID"),
			AlpacaSecretKey: viper.GetString("APCA_API_SECRET_KEY"),
		},
		News: NewsConfig{
			Provider:   strings.ToLower(viper.GetString("NEWS_PROVIDER")),
			NewsAPIKey: viper.GetString("NEWSAPI_KEY"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			CacheTTL: viper.GetDuration("CACHE_TTL"),
		},
		Scheduler: SchedulerConfig{
			Watchlist: splitList(viper.GetString("WATCHLIST")),
			WarmCron:  viper.GetString("WARM_CRON"),
		},
	}

	if AppConfig.Redis.Enabled() {
		AppConfig.Redis.Addr = fmt.Sprintf("%s:%d", AppConfig.Redis.Host, AppConfig.Redis.Port)
	}

	// Validate critical fields
	validateConfig()
}

// splitList parses a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// problems lists every missing or invalid setting of c.
// LLM keys are checked when the backend is built, so report mode runs without them.
func (c Config) problems() []string {
	var missing []string

	if c.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if !oneOf(c.LLM.Provider, LLMProviders) {
		missing = append(missing, fmt.Sprintf("LLM_PROVIDER (one of %v)", LLMProviders))
	}
	if !oneOf(c.Market.Provider, MarketProviders) {
		missing = append(missing, fmt.Sprintf("MARKET_PROVIDER (one of %v)", MarketProviders))
	}
	if !oneOf(c.News.Provider, NewsProviders) {
		missing = append(missing, fmt.Sprintf("NEWS_PROVIDER (one of %v)", NewsProviders))
	}
	if c.Market.Provider == "csv" && c.Market.DataDir == "" {
		missing = append(missing, "MARKET_DATA_DIR")
	}
	if (c.Market.Provider == "eodhd" || c.News.Provider == "eodhd") && c.Market.EODHDAPIKey == "" {
		missing = append(missing, "EODHD_API_KEY")
	}
	if c.Redis.Enabled() && c.Redis.Port == 0 {
		missing = append(missing, "REDIS_PORT")
	}

	return missing
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
//
// This avoids unexpected runtime failures due to incomplete configuration.
func validateConfig() {
	if missing := AppConfig.problems(); len(missing) > 0 {
		log.Fatalf("❌ Missing or invalid environment variables: %v\n", missing)
	}
}
