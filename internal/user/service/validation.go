package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type inputValidator struct {
	validate *validator.Validate
}

func newInputValidator() inputValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic(fmt.Sprintf("register notblank validation: %v", err))
	}
	return inputValidator{validate: v}
}

// Struct validates s and converts the first failing field into a domain error.
func (iv inputValidator) Struct(s any) error {
	err := iv.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return ErrValidation.WithCause(err)
	}

	switch verrs[0].Field() {
	case "Name":
		return ErrNameRequired
	case "Limit":
		return ErrInvalidLimit
	case "Offset":
		return ErrInvalidOffset
	default:
		return ErrValidation.WithCause(err)
	}
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
