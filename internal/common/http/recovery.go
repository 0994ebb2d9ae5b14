package http

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/AlibekovAA/user-api/internal/common/errreport"
	"github.com/AlibekovAA/user-api/internal/common/logger"
	"github.com/AlibekovAA/user-api/internal/observability/metrics"
)

func RecoveryMiddleware(serviceName string, log *logger.Logger, reporter errreport.Reporter) func(next http.Handler) http.Handler {
	if reporter == nil {
		reporter = errreport.Nop{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Criticalf("panic recovered: %v\n%s", rec, debug.Stack())
					metrics.PanicsRecoveredTotal.WithLabelValues(serviceName).Inc()
					reporter.CaptureException(r.Context(), fmt.Errorf("panic: %v", rec))
					WriteErrorEnvelope(w, http.StatusInternalServerError, CodeInternal, "internal server error", nil, TraceIDFromContext(r.Context()))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
