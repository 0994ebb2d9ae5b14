package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/AlibekovAA/user-api/internal/common/bootstrap"
	"github.com/AlibekovAA/user-api/internal/common/constants"
	commonhttp "github.com/AlibekovAA/user-api/internal/common/http"
	srv "github.com/AlibekovAA/user-api/internal/common/server"
	userhttp "github.com/AlibekovAA/user-api/internal/user/http"
)

const serviceName = "users"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to an optional TOML config file",
		EnvVars: []string{"USERS_CONFIG"},
	}
}

func main() {
	app := &cli.App{
		Name:     serviceName,
		Usage:    "user management REST API",
		Flags:    []cli.Flag{configFlag()},
		Action:   serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server",
				Flags:  []cli.Flag{configFlag()},
				Action: serve,
			},
			{
				Name:  "healthcheck",
				Usage: "probe a running server's liveness endpoint",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Value: "http://127.0.0.1:" + constants.DefaultUsersHTTPPort,
						Usage: "base URL of the server",
					},
				},
				Action: healthcheck,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func serve(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewUsersApp(ctx, c.String("config"))
	if err != nil {
		return err
	}
	defer app.Close()

	log := app.Log
	cfg := app.Config

	usersHandler := userhttp.NewHandler(app.UserService, cfg, log, app.Reporter)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.HandleFunc("/ready", commonhttp.ReadinessHandler(log, app.Pool, constants.DBReadyTimeout))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/users", usersHandler)
	mux.Handle("/users/", usersHandler)

	rateLimiter := commonhttp.NewMethodRateLimiter(
		cfg.RateLimitRPS,
		cfg.RateLimitBurst,
		cfg.WriteRateLimitRPS,
		cfg.WriteRateLimitBurst,
		"/health", "/ready", "/metrics",
	).TrustProxyHeaders(cfg.TrustProxyHeaders)
	baseHandler := commonhttp.BuildBaseHandler(serviceName, log, app.Reporter, mux)
	finalHandler := rateLimiter.Middleware(baseHandler)

	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), finalHandler)

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Infof("%s service: stopping rate limiter", serviceName)
			rateLimiter.Stop()
			return nil
		},
	}

	return srv.Run(ctx, server, log, serviceName, shutdownHooks...)
}

func healthcheck(c *cli.Context) error {
	ctx, cancel := context.WithTimeout(c.Context, constants.HealthcheckTimeout)
	defer cancel()

	url := strings.TrimRight(c.String("addr"), "/") + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: status %d", resp.StatusCode)
	}
	return nil
}
