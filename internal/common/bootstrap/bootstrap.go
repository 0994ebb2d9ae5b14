package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/user-api/internal/common/clock"
	"github.com/AlibekovAA/user-api/internal/common/config"
	"github.com/AlibekovAA/user-api/internal/common/constants"
	"github.com/AlibekovAA/user-api/internal/common/db"
	"github.com/AlibekovAA/user-api/internal/common/errreport"
	"github.com/AlibekovAA/user-api/internal/common/idgen"
	"github.com/AlibekovAA/user-api/internal/common/logger"
	userrepo "github.com/AlibekovAA/user-api/internal/user/repository"
	userservice "github.com/AlibekovAA/user-api/internal/user/service"
)

const serviceName = "users"

type App struct {
	Log         *logger.Logger
	Pool        *pgxpool.Pool
	Reporter    errreport.Reporter
	UserRepo    userrepo.Repository
	UserService *userservice.UserService
	Config      config.UsersConfig
}

// NewUsersApp loads configuration and connects to the database. Pool metrics
// are collected until ctx is cancelled.
func NewUsersApp(ctx context.Context, configPath string) (*App, error) {
	cfg, err := config.LoadUsersConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.LogDir, serviceName, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	reporter := errreport.New(cfg.SentryDSN, cfg.SentryEnvironment, log)

	pool, err := db.NewPool(ctx, log, cfg.DatabaseURL)
	if err != nil {
		_ = log.Close()
		return nil, err
	}

	db.StartPoolMetrics(ctx, pool, constants.DBPoolMetricsInterval)

	userRepo := userrepo.NewPgRepository(pool)
	userService := userservice.NewUserService(
		userservice.UserServiceDeps{
			Repo:        userRepo,
			IDGenerator: idgen.NewUUIDGenerator(),
			Clock:       clock.NewRealClock(),
			Log:         log,
		},
		userservice.UserServiceConfig{
			MaxListLimit:            cfg.MaxListLimit,
			CircuitBreakerThreshold: cfg.CircuitBreakerThreshold,
			CircuitBreakerTimeout:   cfg.CircuitBreakerTimeout,
			CircuitBreakerReset:     cfg.CircuitBreakerReset,
			Retry:                   db.DefaultRetryConfig,
		},
	)

	return &App{
		Log:         log,
		Pool:        pool,
		Reporter:    reporter,
		UserRepo:    userRepo,
		UserService: userService,
		Config:      cfg,
	}, nil
}

func (a *App) Close() {
	a.Reporter.Flush(constants.SentryFlushTimeout)
	a.Pool.Close()
	_ = a.Log.Close()
}
