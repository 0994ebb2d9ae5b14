package http

import (
	"context"
	"net/http"
	"time"

	"github.com/AlibekovAA/user-api/internal/common/logger"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthHandler(log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			WriteErrorEnvelope(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed", nil, "")
			return
		}
		log.Debug("health check request")
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadinessHandler reports 503 until the database answers a ping within timeout.
func ReadinessHandler(log *logger.Logger, db Pinger, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			WriteErrorEnvelope(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed", nil, "")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			log.WithFields(r.Context(), logger.Fields{
				"action": "readiness_failed",
			}).Warnf("readiness check failed: %v", err)
			WriteErrorEnvelope(w, http.StatusServiceUnavailable, CodeNotReady, "database unavailable", nil, TraceIDFromContext(r.Context()))
			return
		}

		WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
