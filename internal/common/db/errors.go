package db

import (
	"errors"
	"fmt"
	"time"

	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/user-api/internal/observability/metrics"
)

// HandleQueryError records the statement duration and converts pgx.ErrNoRows into
// notFoundErr. Any other error is counted and wrapped with the operation name.
func HandleQueryError(err error, notFoundErr error, operation, table string, startTime time.Time) error {
	MeasureQueryDuration(operation, table, startTime)

	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFoundErr
	}
	recordError(err, operation, table)
	return fmt.Errorf("failed to %s: %w", operation, err)
}

func HandleExecError(err error, operation, table string, startTime time.Time) error {
	MeasureQueryDuration(operation, table, startTime)

	if err == nil {
		return nil
	}
	recordError(err, operation, table)
	return fmt.Errorf("failed to %s: %w", operation, err)
}

// RecordScanError counts a failure that happened after the statement succeeded,
// such as a row that could not be decoded.
func RecordScanError(err error, operation, table string) error {
	recordError(err, operation, table)
	return fmt.Errorf("failed to %s: %w", operation, err)
}

func MeasureQueryDuration(operation, table string, startTime time.Time) {
	metrics.DBQueryDurationSeconds.WithLabelValues(operation, table).Observe(time.Since(startTime).Seconds())
}

func recordError(err error, operation, table string) {
	metrics.DBQueryErrors.WithLabelValues(operation, table, fmt.Sprintf("%T", err)).Inc()
}
