package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Column limits of the schema
const (
	RollNumberMaxLength  = 50
	NameMaxLength        = 100
	CourseCodeMaxLength  = 20
	DescriptionMaxLength = 255
)

// CourseCodePattern accepts codes such as MATH101 or CS-201.
var CourseCodePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// StringValidation checks a single form value.
type StringValidation struct {
	Label    string
	Value    string
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new, required string validation
func NewStringValidation(label, value string) *StringValidation {
	return &StringValidation{
		Label:    label,
		Value:    value,
		Required: true,
	}
}

// WithMaxLength sets maximum length in characters
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate returns a message describing the first failed rule, or "" when
// the value is acceptable.
func (v *StringValidation) Validate() string {
	if v.Value == "" {
		if v.Required {
			return v.Label + " is required"
		}
		// Skip other validations for empty optional values
		return ""
	}

	if v.MaxLen > 0 && utf8.RuneCountInString(v.Value) > v.MaxLen {
		return fmt.Sprintf("%s must be at most %d characters", v.Label, v.MaxLen)
	}

	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return v.Label + " has an invalid format"
	}

	return ""
}

// Collect runs every validation and returns the failures keyed by field name.
func Collect(fields map[string]*StringValidation) map[string]interface{} {
	details := map[string]interface{}{}
	for field, v := range fields {
		if msg := v.Validate(); msg != "" {
			details[field] = msg
		}
	}
	return details
}
