package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

// ErrorTemplate is the view every failed request renders.
const ErrorTemplate = "error.html"

// --- Central Error Handling ---

// HandleError maps err to a status code and renders the error view.
// A duplicate roll number is not an HTTP failure: the page is served with
// 200 and the message the form submitter should see.
func HandleError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong while processing your request."
	var details map[string]interface{}

	switch {
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		status = http.StatusOK
		message = apperrors.UserMessage(err)
	case errors.Is(err, apperrors.ErrResourceNotFound):
		status = http.StatusNotFound
		message = "The requested record was not found."
		if msg := apperrors.UserMessage(err); msg != "" {
			message = msg
		}
	case errors.Is(err, apperrors.ErrValidationFailed):
		status = http.StatusBadRequest
		message = "The submitted form is invalid."
		var ce *apperrors.CustomError
		if errors.As(err, &ce) {
			if ce.Message != "" {
				message = ce.Message
			}
			details = ce.Details
		}
	case errors.Is(err, apperrors.ErrConstraintViolation):
		message = "The request references a record that does not exist."
	}

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).
		Str("requestId", RequestID(c)).
		Int("status", status).
		Msg("Request failed")

	RenderError(c, status, message, details)
}

// RenderError renders the error view with the given status and message.
func RenderError(c *gin.Context, status int, message string, details map[string]interface{}) {
	c.HTML(status, ErrorTemplate, gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
		"Details": details,
	})
	c.Abort()
}

// NoRoute renders the not found page for unknown paths.
func NoRoute(c *gin.Context) {
	RenderError(c, http.StatusNotFound, "The requested page was not found.", nil)
}
