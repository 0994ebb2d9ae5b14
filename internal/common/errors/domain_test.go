package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestDomainError_WithCause_KeepsIdentity(t *testing.T) {
	cause := errors.New("connection reset")
	err := ErrStorageFailure.WithCause(cause)

	if !errors.Is(err, ErrStorageFailure) {
		t.Fatalf("expected errors.Is to match ErrStorageFailure")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable through Unwrap")
	}
	if err.Error() != "storage operation failed: connection reset" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if ErrStorageFailure.Unwrap() != nil {
		t.Errorf("WithCause must not mutate the sentinel")
	}
}

func TestDomainError_DifferentCodesDoNotMatch(t *testing.T) {
	if errors.Is(ErrStorageFailure, ErrInternalError) {
		t.Fatal("errors with different codes must not match")
	}
}

func TestAsDomainError_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("list users: %w", ErrCircuitOpen)

	de, ok := AsDomainError(wrapped)
	if !ok {
		t.Fatal("expected domain error")
	}
	if de.HTTPStatus() != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", de.HTTPStatus())
	}
	if de.Category() != CategoryExternal {
		t.Errorf("expected EXTERNAL, got %s", de.Category())
	}
}

func TestDomainError_WithTraceID(t *testing.T) {
	de := ErrInvalidPayload.WithTraceID("abc")
	if de.TraceID() != "abc" {
		t.Errorf("expected trace id abc, got %q", de.TraceID())
	}
	if ErrInvalidPayload.TraceID() != "" {
		t.Error("WithTraceID must not mutate the sentinel")
	}
	if IsDomainError(errors.New("plain")) {
		t.Error("plain error reported as domain error")
	}
}
