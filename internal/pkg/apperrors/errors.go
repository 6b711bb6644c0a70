package apperrors

import "errors"

// Common errors
var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrValidationFailed      = errors.New("validation failed")
	// ErrConstraintViolation is returned when the store rejects a write
	// because a referenced row does not exist.
	ErrConstraintViolation = errors.New("constraint violation")
)

// Student errors
var (
	ErrStudentNotFound     = NewCustomError(ErrResourceNotFound, "student not found")
	ErrDuplicateRollNumber = NewCustomError(ErrResourceAlreadyExists, "Roll number already exists!")
)

// Course errors
var (
	ErrCourseNotFound      = NewCustomError(ErrResourceNotFound, "course not found")
	ErrDuplicateCourseCode = NewCustomError(ErrResourceAlreadyExists, "Course code already exists!")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// NewValidationError reports field-level problems with submitted input.
// details maps a form field name to a human readable message.
func NewValidationError(message string, details map[string]interface{}) *CustomError {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Details: details,
	}
}

// UserMessage returns the message meant for end users, if err carries one.
func UserMessage(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return ""
}
