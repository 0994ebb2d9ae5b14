package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/AlibekovAA/user-api/internal/common/constants"
)

var (
	ErrMissingRequiredEnv = errors.New("missing required environment variable")
	ErrInvalidConfigFile  = errors.New("invalid config file")
)

type UsersConfig struct {
	HTTPPort                string
	DatabaseURL             string
	RequestTimeout          time.Duration
	MaxListLimit            int
	CircuitBreakerThreshold int32
	CircuitBreakerTimeout   time.Duration
	CircuitBreakerReset     time.Duration
	RateLimitRPS            float64
	RateLimitBurst          int
	WriteRateLimitRPS       float64
	WriteRateLimitBurst     int
	TrustProxyHeaders       bool
	SentryDSN               string
	SentryEnvironment       string
	LogDir                  string
	LogLevel                string
}

// fileConfig mirrors UsersConfig for the optional TOML file. Durations are strings
// in time.ParseDuration syntax.
type fileConfig struct {
	HTTPPort       string `toml:"http_port"`
	DatabaseURL    string `toml:"database_url"`
	RequestTimeout string `toml:"request_timeout"`
	MaxListLimit   int    `toml:"max_list_limit"`

	CircuitBreaker struct {
		Threshold int32  `toml:"threshold"`
		Timeout   string `toml:"timeout"`
		Reset     string `toml:"reset"`
	} `toml:"circuit_breaker"`

	RateLimit struct {
		RPS        float64 `toml:"rps"`
		Burst      int     `toml:"burst"`
		WriteRPS   float64 `toml:"write_rps"`
		WriteBurst int     `toml:"write_burst"`

		// Enable only behind a proxy that overwrites X-Real-IP / X-Forwarded-For.
		TrustProxyHeaders bool `toml:"trust_proxy_headers"`
	} `toml:"rate_limit"`

	Sentry struct {
		DSN         string `toml:"dsn"`
		Environment string `toml:"environment"`
	} `toml:"sentry"`

	Log struct {
		Dir   string `toml:"dir"`
		Level string `toml:"level"`
	} `toml:"log"`
}

func DefaultUsersConfig() UsersConfig {
	return UsersConfig{
		HTTPPort:                constants.DefaultUsersHTTPPort,
		RequestTimeout:          constants.DefaultUsersRequestTimeout,
		MaxListLimit:            constants.MaxListLimit,
		CircuitBreakerThreshold: constants.DefaultCircuitBreakerThreshold,
		CircuitBreakerTimeout:   constants.DefaultCircuitBreakerTimeout,
		CircuitBreakerReset:     constants.DefaultCircuitBreakerReset,
		RateLimitRPS:            constants.DefaultRateLimitRequestsPerSecond,
		RateLimitBurst:          constants.DefaultRateLimitBurst,
		WriteRateLimitRPS:       constants.DefaultWriteRateLimitRequestsPerSecond,
		WriteRateLimitBurst:     constants.DefaultWriteRateLimitBurst,
		SentryEnvironment:       constants.DefaultSentryEnvironment,
		LogDir:                  constants.DefaultLogDir,
		LogLevel:                "info",
	}
}

// LoadUsersConfig applies defaults, then the TOML file at path (if any), then the
// environment. DATABASE_URL must be set by one of the two sources.
func LoadUsersConfig(path string) (UsersConfig, error) {
	cfg := DefaultUsersConfig()

	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return UsersConfig{}, err
		}
	}

	cfg.HTTPPort = getEnv("USERS_HTTP_PORT", cfg.HTTPPort)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.RequestTimeout = getDurationEnv("USERS_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.MaxListLimit = getIntEnv("USERS_MAX_LIST_LIMIT", cfg.MaxListLimit)
	cfg.CircuitBreakerThreshold = int32(getIntEnv("USERS_CIRCUIT_BREAKER_THRESHOLD", int(cfg.CircuitBreakerThreshold)))
	cfg.CircuitBreakerTimeout = getDurationEnv("USERS_CIRCUIT_BREAKER_TIMEOUT", cfg.CircuitBreakerTimeout)
	cfg.CircuitBreakerReset = getDurationEnv("USERS_CIRCUIT_BREAKER_RESET", cfg.CircuitBreakerReset)
	cfg.RateLimitRPS = getFloatEnv("USERS_RATE_LIMIT_RPS", cfg.RateLimitRPS)
	cfg.RateLimitBurst = getIntEnv("USERS_RATE_LIMIT_BURST", cfg.RateLimitBurst)
	cfg.WriteRateLimitRPS = getFloatEnv("USERS_WRITE_RATE_LIMIT_RPS", cfg.WriteRateLimitRPS)
	cfg.WriteRateLimitBurst = getIntEnv("USERS_WRITE_RATE_LIMIT_BURST", cfg.WriteRateLimitBurst)
	cfg.TrustProxyHeaders = getBoolEnv("USERS_TRUST_PROXY_HEADERS", cfg.TrustProxyHeaders)
	cfg.SentryDSN = getEnv("SENTRY_DSN", cfg.SentryDSN)
	cfg.SentryEnvironment = getEnv("SENTRY_ENVIRONMENT", cfg.SentryEnvironment)
	cfg.LogDir = getEnv("LOG_DIR", cfg.LogDir)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	if cfg.DatabaseURL == "" {
		return UsersConfig{}, fmt.Errorf("%w: %s", ErrMissingRequiredEnv, "DATABASE_URL")
	}
	if cfg.MaxListLimit <= 0 {
		cfg.MaxListLimit = constants.MaxListLimit
	}

	return cfg, nil
}

func applyFile(cfg *UsersConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfigFile, path, err)
	}

	setString(&cfg.HTTPPort, fc.HTTPPort)
	setString(&cfg.DatabaseURL, fc.DatabaseURL)
	setString(&cfg.SentryDSN, fc.Sentry.DSN)
	setString(&cfg.SentryEnvironment, fc.Sentry.Environment)
	setString(&cfg.LogDir, fc.Log.Dir)
	setString(&cfg.LogLevel, fc.Log.Level)

	if fc.MaxListLimit > 0 {
		cfg.MaxListLimit = fc.MaxListLimit
	}
	if fc.CircuitBreaker.Threshold > 0 {
		cfg.CircuitBreakerThreshold = fc.CircuitBreaker.Threshold
	}
	if fc.RateLimit.RPS > 0 {
		cfg.RateLimitRPS = fc.RateLimit.RPS
	}
	if fc.RateLimit.Burst > 0 {
		cfg.RateLimitBurst = fc.RateLimit.Burst
	}
	if fc.RateLimit.WriteRPS > 0 {
		cfg.WriteRateLimitRPS = fc.RateLimit.WriteRPS
	}
	if fc.RateLimit.WriteBurst > 0 {
		cfg.WriteRateLimitBurst = fc.RateLimit.WriteBurst
	}
	if fc.RateLimit.TrustProxyHeaders {
		cfg.TrustProxyHeaders = true
	}

	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"request_timeout", fc.RequestTimeout, &cfg.RequestTimeout},
		{"circuit_breaker.timeout", fc.CircuitBreaker.Timeout, &cfg.CircuitBreakerTimeout},
		{"circuit_breaker.reset", fc.CircuitBreaker.Reset, &cfg.CircuitBreakerReset},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%w: %s: %s: %v", ErrInvalidConfigFile, path, d.key, err)
		}
		*d.dst = parsed
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getFloatEnv(key string, fallback float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getBoolEnv(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
