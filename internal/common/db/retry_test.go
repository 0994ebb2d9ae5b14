package db

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/user-api/internal/common/logger"
)

func testRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"no rows", pgx.ErrNoRows, false},
		{"deadline", context.DeadlineExceeded, false},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryableError(tt.err); got != tt.want {
				t.Errorf("IsRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryWithBackoff_RetriesTransientErrors(t *testing.T) {
	log := logger.NewWithWriter(&bytes.Buffer{}, "test", "error")
	attempts := 0

	err := RetryWithBackoff(context.Background(), log, testRetryConfig(), func() error {
		attempts++
		if attempts < 3 {
			return &pgconn.PgError{Code: "40001"}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryWithBackoff_StopsOnPermanentError(t *testing.T) {
	log := logger.NewWithWriter(&bytes.Buffer{}, "test", "error")
	permanent := errors.New("syntax error")
	attempts := 0

	err := RetryWithBackoff(context.Background(), log, testRetryConfig(), func() error {
		attempts++
		return permanent
	})

	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestRetryWithBackoff_GivesUpAfterMaxAttempts(t *testing.T) {
	log := logger.NewWithWriter(&bytes.Buffer{}, "test", "error")
	attempts := 0

	err := RetryWithBackoff(context.Background(), log, testRetryConfig(), func() error {
		attempts++
		return &pgconn.PgError{Code: "08006"}
	})

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		t.Fatalf("expected wrapped PgError, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	log := logger.NewWithWriter(&bytes.Buffer{}, "test", "error")
	ctx, cancel := context.WithCancel(context.Background())
	cfg := testRetryConfig()
	cfg.InitialDelay = time.Hour

	attempts := 0
	err := RetryWithBackoff(ctx, log, cfg, func() error {
		attempts++
		cancel()
		return &pgconn.PgError{Code: "40P01"}
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}
