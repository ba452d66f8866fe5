package validator

import (
	"time"

	"belezure-api/pkg/taxid"

	"github.com/go-playground/validator/v10"
)

// TimeOfDayLayout parses slot labels; the hour may have one digit
const TimeOfDayLayout = "15:04"

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	// Registration can only fail on programmer error, so panicking at start-up is fine.
	if err := v.RegisterValidation("cpf", validateCPF); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("hhmm", validateHHMM); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("notblank", validateNotBlank); err != nil {
		panic(err)
	}
	return &CustomValidator{
		validator: v,
	}
}

func validateCPF(fl validator.FieldLevel) bool {
	return taxid.ValidCPF(fl.Field().String())
}

func validateHHMM(fl validator.FieldLevel) bool {
	_, err := time.Parse(TimeOfDayLayout, fl.Field().String())
	return err == nil
}

func validateNotBlank(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
	}
	return false
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// ValidateVar validates a single value against a tag expression.
func (cv *CustomValidator) ValidateVar(field interface{}, tag string) error {
	return cv.validator.Var(field, tag)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required", "notblank":
				errors[field] = field + " is required"
			case "required_if":
				errors[field] = field + " is required for this user type"
			case "email":
				errors[field] = field + " must be a valid email address"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = field + " must be less than or equal to " + e.Param()
			case "oneof":
				errors[field] = field + " must be one of: " + e.Param()
			case "cpf":
				errors[field] = field + " must be a valid CPF"
			case "hhmm":
				errors[field] = field + " must be a time in HH:MM format"
			case "datetime":
				errors[field] = field + " must be a date in YYYY-MM-DD format"
			case "uuid":
				errors[field] = field + " must be a valid id"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}
