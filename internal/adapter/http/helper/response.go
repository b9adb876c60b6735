package helper

import (
	"errors"
	"log/slog"
	"net/http"

	"lovemap/internal/adapter/http/validation"
	"lovemap/internal/core/domain"
	"lovemap/internal/core/model/response"

	"github.com/gin-gonic/gin"
)

func SendSuccess(c *gin.Context, statusCode int, data any, message ...string) {
	response := response.SuccessResponse{
		Data: data,
	}

	if len(message) > 0 && message[0] != "" {
		response.Message = message[0]
	}

	c.JSON(statusCode, response)
}

func SendError(c *gin.Context, statusCode int, code string, errors []response.ValidationError, details ...any) {
	errorResponse := response.ErrorResponse{
		Error: response.ResponseError{
			Code:   code,
			Errors: errors,
		},
	}

	if len(details) > 0 {
		errorResponse.Error.Details = details[0]
	}

	c.JSON(statusCode, errorResponse)
}

func SendValidationError(c *gin.Context, err error) {
	validationErrors := validation.FormatValidationErrors(err)

	if len(validationErrors) == 0 {
		SendBadRequestError(c, "body", err.Error())
		return
	}

	SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErrors)
}

func SendInternalError(c *gin.Context, message string, details ...any) {
	SendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", single("server", message), details...)
}

func SendUnauthorizedError(c *gin.Context, message string) {
	SendError(c, http.StatusUnauthorized, "UNAUTHORIZED", single("auth", message))
}

func SendBadRequestError(c *gin.Context, field string, message string) {
	SendError(c, http.StatusBadRequest, "BAD_REQUEST", single(field, message))
}

func SendNotFoundError(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, "NOT_FOUND", single("resource", message))
}

func SendConflictError(c *gin.Context, field string, message string) {
	SendError(c, http.StatusConflict, "CONFLICT", single(field, message))
}

// SendDomainError maps the core's sentinel errors onto HTTP statuses.
// Anything unrecognised is logged and reported as a 500 without details.
func SendDomainError(c *gin.Context, err error, resource string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		SendNotFoundError(c, resource+" not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		SendConflictError(c, resource, resource+" already exists")
	case errors.Is(err, domain.ErrInvalidLocation):
		SendBadRequestError(c, "location", err.Error())
	case errors.Is(err, domain.ErrInvalidRecord):
		SendBadRequestError(c, resource, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		SendUnauthorizedError(c, "Invalid email or password")
	default:
		c.Error(err)
		slog.ErrorContext(c.Request.Context(), "Unhandled error", "error", err, "resource", resource)
		SendInternalError(c, "Internal server error")
	}
}

func single(field, message string) []response.ValidationError {
	return []response.ValidationError{{Field: field, Message: message}}
}
