package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/user-api/internal/common/constants"
	"github.com/AlibekovAA/user-api/internal/common/logger"
)

func NewPool(ctx context.Context, log *logger.Logger, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	cfg.MaxConns = constants.DBPoolMaxConns
	cfg.MinConns = constants.DBPoolMinConns
	cfg.MaxConnLifetime = constants.DBPoolConnMaxLifetime
	cfg.MaxConnIdleTime = constants.DBPoolConnMaxIdleTime
	cfg.HealthCheckPeriod = constants.DBPoolHealthCheck
	cfg.ConnConfig.ConnectTimeout = constants.DBPoolConnectTimeout
	cfg.ConnConfig.RuntimeParams = map[string]string{
		"application_name": "user-api",
	}

	var lastErr error
	for attempt := 1; attempt <= constants.DBPoolMaxAttempts; attempt++ {
		pool, err := pgxpool.ConnectConfig(ctx, cfg)
		if err == nil {
			log.Infof("database connection pool initialized: max=%d, min=%d", cfg.MaxConns, cfg.MinConns)
			return pool, nil
		}
		lastErr = err

		log.Warnf("failed to connect to database (attempt %d/%d): %v", attempt, constants.DBPoolMaxAttempts, err)

		if attempt == constants.DBPoolMaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("database connect cancelled: %w", ctx.Err())
		case <-time.After(constants.DBPoolRetryDelay):
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", constants.DBPoolMaxAttempts, lastErr)
}
