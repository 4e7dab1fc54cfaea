package handler

import (
	"errors"
	"net/http"

	domainerr "github.com/amirhossein-jamali/migrate-views/internal/domain/error"
	coreport "github.com/amirhossein-jamali/migrate-views/internal/domain/port/core"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// statusFor maps domain errors to HTTP status codes and client-safe messages
func statusFor(err error) (int, string) {
	switch {
	case domainerr.IsNotFoundError(err):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, domainerr.ErrAccessDenied):
		return http.StatusForbidden, "Access denied"
	case errors.Is(err, domainerr.ErrViewInvalid):
		return http.StatusUnprocessableEntity, "View failed validation"
	case errors.Is(err, domainerr.ErrInvalidPage):
		return http.StatusBadRequest, "Invalid page number"
	case errors.Is(err, domainerr.ErrInvalidIdentifier), errors.Is(err, domainerr.ErrInvalidDefinition):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, domainerr.ErrDatabaseConnection), errors.Is(err, domainerr.ErrMapTableUnavailable):
		return http.StatusServiceUnavailable, "Service unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// respondError writes the error response of err; server-side failures are logged
func respondError(c *gin.Context, logger coreport.Logger, operation string, err error) {
	statusCode, message := statusFor(err)

	if statusCode >= http.StatusInternalServerError {
		logger.Error("Error "+operation, map[string]any{
			"path":       c.Request.URL.Path,
			"error":      err.Error(),
			"error_code": domainerr.ErrorCode(err),
		})
	}
	_ = c.Error(err)

	resp := dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: message,
	}
	var validation *domainerr.ValidationError
	if errors.As(err, &validation) {
		resp.Details = validation.Errors
	}
	c.JSON(statusCode, resp)
}
