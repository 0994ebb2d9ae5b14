package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/AlibekovAA/user-api/internal/common/constants"
	"github.com/AlibekovAA/user-api/internal/common/logger"
)

type ShutdownHook func(ctx context.Context) error

// Run serves until ctx is cancelled or the listener fails, then drains: keep-alives
// are disabled, hooks run within DrainTimeout and the server gets ShutdownTimeout
// to finish in-flight requests.
func Run(ctx context.Context, server *http.Server, log *logger.Logger, serviceName string, hooks ...ShutdownHook) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("%s service listening on %s", serviceName, server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start %s service: %w", serviceName, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		log.Infof("shutting down %s service...", serviceName)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer shutdownCancel()

		drainCtx, drainCancel := context.WithTimeout(shutdownCtx, constants.DrainTimeout)
		defer drainCancel()

		server.SetKeepAlivesEnabled(false)

		for i, hook := range hooks {
			if err := hook(drainCtx); err != nil {
				log.Errorf("%s service: shutdown hook %d failed: %v", serviceName, i, err)
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("%s service forced to shutdown: %v", serviceName, err)
			return err
		}
		log.Infof("%s service stopped gracefully", serviceName)
		return nil
	})

	return g.Wait()
}
