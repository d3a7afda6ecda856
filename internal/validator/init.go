package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	// Initialize validation
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Board cells are indexed 0-8, row-major.
	_ = validate.RegisterValidation("cell", func(fl validator.FieldLevel) bool {
		v := fl.Field().Int()
		return v >= 0 && v <= 8
	})
}

func GetValidator() *validator.Validate {
	return validate
}
