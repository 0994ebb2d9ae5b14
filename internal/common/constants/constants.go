package constants

import "time"

const (
	DateLayout = "2006-01-02"

	DefaultListOffset     = 0
	MaxListLimit          = 1000
	DefaultMaxRequestSize = 1 << 20

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second
	DBReadyTimeout        = 2 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultUsersHTTPPort       = "8080"
	DefaultUsersRequestTimeout = 5 * time.Second

	DefaultCircuitBreakerThreshold = 50
	DefaultCircuitBreakerTimeout   = 10 * time.Second
	DefaultCircuitBreakerReset     = 10 * time.Second

	DefaultRateLimitRequestsPerSecond      = 50
	DefaultRateLimitBurst                  = 100
	DefaultWriteRateLimitRequestsPerSecond = 10
	DefaultWriteRateLimitBurst             = 20
	RateLimitCleanupInterval               = 5 * time.Minute

	DefaultSentryEnvironment = "development"
	SentryFlushTimeout       = 2 * time.Second

	DefaultLogDir    = ""
	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28

	HealthcheckTimeout = 3 * time.Second
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
