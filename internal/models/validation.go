package models

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// pancardPattern matches the Indian PAN card format: five letters,
// four digits, one letter.
var pancardPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag name.
	_ = v.RegisterValidation("pancard", func(fl validator.FieldLevel) bool {
		return pancardPattern.MatchString(fl.Field().String())
	})
	return v
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ValidateRequest checks a request struct against its validate tags.
// It is shared by the client (pre-flight, before any network call) and
// the stub server, so both sides reject the same payloads.
func ValidateRequest(obj any) []ValidationError {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	var validationErrors []ValidationError
	for _, err := range err.(validator.ValidationErrors) {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: getErrorMsg(err),
			Type:    err.Tag(),
		})
	}
	return validationErrors
}

func getErrorMsg(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "len":
		return "Value must be exactly " + err.Param() + " characters"
	case "numeric":
		return "Value must be numeric"
	case "oneof":
		return "Value must be one of: " + err.Param()
	case "pancard":
		return "Invalid PAN card format"
	case "nefield":
		return "Value must differ from " + err.Param()
	case "gt":
		return "Value must be greater than " + err.Param()
	case "gte":
		return "Value must be greater than or equal to " + err.Param()
	default:
		return "Invalid value"
	}
}
