package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	// Initialize validation
	validate = validator.New(validator.WithRequiredStructEnabled())

	_ = validate.RegisterValidation("boardsize", func(fl validator.FieldLevel) bool {
		size := fl.Field().Int()
		return size >= 3 && size <= 5
	})
	_ = validate.RegisterValidation("gamemode", func(fl validator.FieldLevel) bool {
		mode := fl.Field().String()
		return mode == "pvp" || mode == "ai"
	})
	_ = validate.RegisterValidation("mark", func(fl validator.FieldLevel) bool {
		mark := fl.Field().String()
		return mark == "X" || mark == "O"
	})
}

func GetValidator() *validator.Validate {
	return validate
}
