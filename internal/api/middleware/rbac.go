package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/taskflow-api/internal/core/domain"
)

// RequireAdmin gates a route to admin identities. Members get
// domain.ErrForbidden, which the error handler renders as 403. It must run
// after Auth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := c.Get(IdentityKey).(domain.Identity)
			if !ok || !identity.Authenticated() {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}
			if !identity.IsAdmin {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
