package utils

import (
	"net/http"

	"ride-hailing/internal/models"

	"github.com/labstack/echo/v4"
)

// ExtractActor returns the authenticated actor's id and role, as set by the
// JWT middleware. Ride operations receive this id; they never touch tokens.
// A missing id yields a non-nil *echo.HTTPError so the caller's error return
// short-circuits the handler; the response is written by echo's error
// handler, not here.
func ExtractActor(c echo.Context) (string, string, error) {
	actorID, ok := c.Get("actorID").(string)
	if !ok || actorID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized,
			models.ErrorResponse{Code: CodeUnauthorized, Message: "Missing authentication"})
	}
	role, _ := c.Get("actorRole").(string)
	return actorID, role, nil
}
