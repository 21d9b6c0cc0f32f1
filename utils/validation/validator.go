package validation

import (
	"fmt"
	"strings"

	"github.com/MertKocakaplan/aceit-sub001/planner"
	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator with the custom tags the
// planner domain needs: `datekey` for YYYY-MM-DD fields and `clocktime`
// for HH:MM fields.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterValidation("datekey", func(fl validator.FieldLevel) bool {
		_, err := planner.ParseDateKey(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("clocktime", func(fl validator.FieldLevel) bool {
		_, err := planner.ParseClock(fl.Field().String())
		return err == nil
	})

	return &Validator{validate: v}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationErrors converts validation errors to a per-field map
func FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			field := strings.ToLower(e.Field())
			switch e.Tag() {
			case "required":
				errors[field] = fmt.Sprintf("%s is required", e.Field())
			case "email":
				errors[field] = "Invalid email format"
			case "datekey":
				errors[field] = fmt.Sprintf("%s must be a YYYY-MM-DD date", e.Field())
			case "clocktime":
				errors[field] = fmt.Sprintf("%s must be an HH:MM time", e.Field())
			case "min":
				errors[field] = fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
			case "max":
				errors[field] = fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
			case "gte":
				errors[field] = fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
			case "lte":
				errors[field] = fmt.Sprintf("%s must be less than or equal to %s", e.Field(), e.Param())
			default:
				errors[field] = fmt.Sprintf("%s is invalid", e.Field())
			}
		}
	}

	return errors
}
