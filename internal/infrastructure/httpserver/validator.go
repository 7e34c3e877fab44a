package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/storelaunch/storelaunch/internal/infrastructure/httpserver/helpers"
)

// RequestValidator adapts go-playground/validator to echo's Validator
// interface so request structs are checked against their validate tags.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

func (v *RequestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// validationFail maps a validation error to a 400 envelope with field-level
// details.
func validationFail(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return helpers.Fail(c, http.StatusBadRequest, "Validation failed")
	}

	details := make([]helpers.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, helpers.FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: fieldErrorMessage(fe),
		})
	}
	return helpers.FailWithDetails(c, http.StatusBadRequest, "Validation failed", details)
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "hostname_rfc1123":
		return "must contain only letters, digits and hyphens"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
