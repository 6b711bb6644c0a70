package middleware

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// fieldLabels maps request struct fields to the labels shown on the forms.
var fieldLabels = map[string]string{
	"RollNumber": "Roll number",
	"FirstName":  "First name",
	"LastName":   "Last name",
	"CourseIDs":  "Courses",
}

// BindingError converts a gin binding failure into a validation error
// carrying one message per offending field.
func BindingError(err error) error {
	return apperrors.NewValidationError("The submitted form is invalid.", ValidationMessages(err))
}

// ValidationMessages returns human readable messages keyed by field name.
// Errors that are not validator errors (for example a non-numeric course id)
// are reported under "form".
func ValidationMessages(err error) map[string]interface{} {
	messages := map[string]interface{}{}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			messages[e.Field()] = formatValidationError(e)
		}
		return messages
	}

	if err != nil {
		messages["form"] = err.Error()
	}
	return messages
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	label, ok := fieldLabels[e.Field()]
	if !ok {
		label = e.Field()
	}

	switch e.Tag() {
	case "required":
		return label + " is required"
	case "max":
		return label + " must be at most " + e.Param() + " characters"
	case "min":
		return label + " must be at least " + e.Param()
	case "gt":
		return label + " must be greater than " + e.Param()
	case "dive":
		return label + " contains an invalid value"
	default:
		return label + " validation failed: " + strings.ToLower(e.Tag())
	}
}
