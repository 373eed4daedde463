package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "github.com/SuperSnake427/DosecheckDashboard/internal/errors"
)

// RequestValidator validates request structs and query parameters and
// answers failures with RFC 7807 responses.
type RequestValidator struct {
	validator    *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewRequestValidator creates a new request validator
func NewRequestValidator(logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *RequestValidator {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &RequestValidator{
		validator:    v,
		logger:       logger.With(slog.String("component", "request_validator")),
		errorHandler: errorHandler,
	}
}

// ValidateStruct checks the validate tags of v. On failure it writes the
// problem response and returns false.
func (rv *RequestValidator) ValidateStruct(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := rv.validator.Struct(v)
	if err == nil {
		return true
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		rv.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
		return false
	}

	details := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	rv.logger.DebugContext(r.Context(), "request validation failed", slog.Any("errors", details))
	rv.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
		http.StatusBadRequest, "VALIDATION_FAILED", details[0].Message, details))
	return false
}

// ValidateBool parses a boolean query parameter, defaulting when absent.
func (rv *RequestValidator) ValidateBool(w http.ResponseWriter, r *http.Request, param string, defaultValue bool) (bool, bool) {
	value := r.URL.Query().Get(param)
	if value == "" {
		return defaultValue, true
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		rv.errorHandler.HandleError(w, r, apierrors.ErrValidation(param, fmt.Sprintf("%s must be true or false", param)))
		return false, false
	}
	return b, true
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}
