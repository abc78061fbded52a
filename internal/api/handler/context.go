package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-tracker/internal/api/middleware"
)

// ctxUserID extracts the authenticated user ID injected by the Auth
// middleware. An empty value means the middleware did not run on this
// route; fail fast with 401 rather than querying with a blank owner.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.UserIDKey).(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}
