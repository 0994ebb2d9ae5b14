package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/user-api/internal/common/errors"
)

var (
	ErrUserNotFound = commonerrors.NewDomainError(
		"USER_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"user not found",
	)

	ErrNameRequired = commonerrors.NewDomainError(
		"NAME_REQUIRED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"name is required",
	)

	ErrDateOfBirthRequired = commonerrors.NewDomainError(
		"DATE_OF_BIRTH_REQUIRED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"dateOfBirth is required",
	)

	ErrLimitRequired = commonerrors.NewDomainError(
		"LIMIT_REQUIRED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"limit query parameter is required",
	)

	ErrInvalidLimit = commonerrors.NewDomainError(
		"INVALID_LIMIT",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"limit must be a positive integer",
	)

	ErrInvalidOffset = commonerrors.NewDomainError(
		"INVALID_OFFSET",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"offset must be a non-negative integer",
	)

	ErrValidation = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"validation failed",
	)

	// ErrRequestCanceled carries the non-standard 499 used for client-closed requests.
	ErrRequestCanceled = commonerrors.NewDomainError(
		"REQUEST_CANCELED",
		commonerrors.CategoryCanceled,
		499,
		"request canceled by client",
	)

	ErrServiceUnavailable = commonerrors.NewDomainError(
		"SERVICE_UNAVAILABLE",
		commonerrors.CategoryExternal,
		http.StatusServiceUnavailable,
		"service temporarily unavailable",
	)
)
