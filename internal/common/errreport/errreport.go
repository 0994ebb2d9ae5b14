// Package errreport forwards server-side failures to Sentry.
package errreport

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/AlibekovAA/user-api/internal/common/constants"
	"github.com/AlibekovAA/user-api/internal/common/logger"
)

type Reporter interface {
	CaptureException(ctx context.Context, err error)
	Flush(timeout time.Duration) bool
}

// Nop drops every report. Used when no DSN is configured and in tests.
type Nop struct{}

func (Nop) CaptureException(context.Context, error) {}
func (Nop) Flush(time.Duration) bool                { return true }

type SentryReporter struct{}

// New returns a Sentry-backed reporter, or Nop when dsn is empty or Sentry fails
// to initialize.
func New(dsn, environment string, log *logger.Logger) Reporter {
	if dsn == "" {
		log.Info("SENTRY_DSN not set, error reporting disabled")
		return Nop{}
	}

	if environment == "" {
		environment = constants.DefaultSentryEnvironment
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		AttachStacktrace: true,
	})
	if err != nil {
		log.Errorf("sentry initialization failed: %v", err)
		return Nop{}
	}

	log.Infof("sentry initialized: environment=%s", environment)
	return &SentryReporter{}
}

func (s *SentryReporter) CaptureException(ctx context.Context, err error) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		if ctx != nil {
			if traceID, ok := ctx.Value(constants.TraceIDKey).(string); ok && traceID != "" {
				scope.SetTag("trace_id", traceID)
			}
		}
		sentry.CaptureException(err)
	})
}

func (s *SentryReporter) Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}
