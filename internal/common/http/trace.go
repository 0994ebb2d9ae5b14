package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/AlibekovAA/user-api/internal/common/constants"
)

const traceIDHeader = "X-Trace-ID"

const maxTraceIDLength = 128

func TraceIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" || len(traceID) > maxTraceIDLength {
			traceID = uuid.NewString()
		}

		w.Header().Set(traceIDHeader, traceID)

		ctx := context.WithValue(r.Context(), constants.TraceIDKey, traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
