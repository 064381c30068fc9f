package response

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	appErrors "github.com/coursehub-dev/coursehub-api/pkg/errors"
)

// Envelope is the uniform response contract: every success carries
// {success, message, data} and every failure {success, message, stack?,
// errorMessages}.
type Envelope struct {
	Success       bool           `json:"success"`
	Message       string         `json:"message"`
	Data          interface{}    `json:"data,omitempty"`
	Stack         string         `json:"stack,omitempty"`
	ErrorMessages []ErrorMessage `json:"errorMessages,omitempty"`
}

// ErrorMessage pinpoints a single failure, optionally scoped to a field path.
type ErrorMessage struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

// JSON sends a success envelope.
func JSON(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Error converts err into the failure envelope. Field-level validation
// failures are expanded into one entry per offending field; the wrapped
// cause is exposed as "stack" outside release mode.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)

	envelope := Envelope{
		Success:       false,
		Message:       appErr.Message,
		ErrorMessages: errorMessages(appErr),
	}
	if gin.Mode() != gin.ReleaseMode && appErr.Err != nil {
		envelope.Stack = appErr.Err.Error()
	}

	c.JSON(appErr.Status, envelope)
}

func errorMessages(appErr *appErrors.Error) []ErrorMessage {
	var fieldErrs validator.ValidationErrors
	if errors.As(appErr.Err, &fieldErrs) {
		messages := make([]ErrorMessage, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			messages = append(messages, ErrorMessage{
				Path:    []string{strings.ToLower(fe.Field())},
				Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
			})
		}
		return messages
	}

	return []ErrorMessage{{Path: []string{}, Message: appErr.Message}}
}
