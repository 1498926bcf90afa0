package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"learnhub-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and reports every failing field.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperror.Validation(err.Error())
	}

	fields := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			fields[field] = fmt.Sprintf("%s is required", e.Field())
		case "oneof":
			fields[field] = fmt.Sprintf("%s must be one of [%s]", e.Field(), e.Param())
		case "min", "gte":
			fields[field] = fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
		case "max", "lte":
			fields[field] = fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
		default:
			fields[field] = fmt.Sprintf("%s is invalid", e.Field())
		}
	}

	return apperror.Validation("Validation failed").WithData(fields)
}
