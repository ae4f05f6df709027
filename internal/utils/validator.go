// internal/utils/validator.go
package utils

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/javajoker/commodity-admin/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("sortable_column", validateSortableColumn)
	validate.RegisterValidation("dashboard_tab", validateDashboardTab)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateSortableColumn(fl validator.FieldLevel) bool {
	return models.IsSortableColumn(fl.Field().String())
}

func validateDashboardTab(fl validator.FieldLevel) bool {
	return models.Tab(fl.Field().String()).Valid()
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "sortable_column":
		return "Only name and category columns can be sorted"
	case "dashboard_tab":
		return "Unknown dashboard tab"
	default:
		return e.Field() + " is invalid"
	}
}
