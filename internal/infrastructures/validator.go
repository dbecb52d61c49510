package infrastructures

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/stamply/stamply-core/internal/app/errors"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// Validate checks struct tags and returns a validation error carrying one
// message per failing field, so the envelope's errors array is usable by
// form UIs.
func (v *Validator) Validate(i interface{}) error {
	if i == nil {
		return errors.NewBadRequestError("Invalid request body")
	}

	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		messages := make([]string, len(fieldErrs))
		for idx, fe := range fieldErrs {
			messages[idx] = fieldErrorMessage(fe)
		}
		return errors.NewValidationError("Validation failed", messages)
	}

	return errors.NewBadRequestError(err.Error())
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed validation on '%s'", fe.Field(), fe.Tag())
	}
}
