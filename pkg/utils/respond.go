package utils

import (
	"errors"
	"net/http"

	"ride-hailing/internal/models"

	"github.com/labstack/echo/v4"
)

// Stable machine-readable error codes returned to clients. Clients branch on
// these, never on the message text.
const (
	CodeBadInput     = "bad_input"
	CodeNotFound     = "not_found"
	CodeConflict     = "conflict"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeTransient    = "transient"
	CodeInternal     = "internal_error"
)

// RespondWithJSON writes payload with the given status.
func RespondWithJSON(c echo.Context, status int, payload interface{}) error {
	return c.JSON(status, payload)
}

// RespondWithError writes a structured error body.
func RespondWithError(c echo.Context, status int, code, message string) error {
	return c.JSON(status, models.ErrorResponse{Code: code, Message: message})
}

// HandleServiceError maps service-level sentinel errors onto HTTP statuses
// and stable codes. Unknown errors are logged and surfaced as 500 without
// leaking internals.
func HandleServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, models.ErrValidation):
		return RespondWithError(c, http.StatusBadRequest, CodeBadInput, err.Error())
	case errors.Is(err, models.ErrNotFound):
		return RespondWithError(c, http.StatusNotFound, CodeNotFound, "Resource not found")
	case errors.Is(err, models.ErrRideConflict):
		return RespondWithError(c, http.StatusConflict, CodeConflict, "Ride is not in the expected state")
	case errors.Is(err, models.ErrConflict):
		return RespondWithError(c, http.StatusConflict, CodeConflict, "Resource already exists")
	case errors.Is(err, models.ErrInvalidCredentials):
		return RespondWithError(c, http.StatusUnauthorized, CodeUnauthorized, "Invalid email or password")
	case errors.Is(err, models.ErrCaptainSuspended):
		return RespondWithError(c, http.StatusForbidden, CodeForbidden, "Account is suspended")
	case errors.Is(err, models.ErrForbidden):
		return RespondWithError(c, http.StatusForbidden, CodeForbidden, "Not permitted")
	case errors.Is(err, models.ErrTransient):
		return RespondWithError(c, http.StatusServiceUnavailable, CodeTransient, "Temporary failure, please retry")
	default:
		c.Logger().Error("unhandled service error: ", err)
		return RespondWithError(c, http.StatusInternalServerError, CodeInternal, "Internal server error")
	}
}
