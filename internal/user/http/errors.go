package http

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/user-api/internal/common/errors"
	commonhttp "github.com/AlibekovAA/user-api/internal/common/http"
)

var ErrRequestTooLarge = commonerrors.NewDomainError(
	commonhttp.CodeRequestTooLarge,
	commonerrors.CategoryValidation,
	http.StatusRequestEntityTooLarge,
	"request body too large",
)
