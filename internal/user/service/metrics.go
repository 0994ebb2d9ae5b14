package service

import "github.com/AlibekovAA/user-api/internal/observability/metrics"

const (
	resultSuccess     = "success"
	resultNotFound    = "not_found"
	resultInvalid     = "invalid"
	resultUnavailable = "unavailable"
	resultCanceled    = "canceled"
	resultError       = "error"
)

func recordOperation(operation, result string) {
	metrics.UserOperationsTotal.WithLabelValues(operation, result).Inc()
}

func incrementUsersCreated() {
	metrics.UsersCreatedTotal.Inc()
}

func incrementUsersDeleted() {
	metrics.UsersDeletedTotal.Inc()
}
