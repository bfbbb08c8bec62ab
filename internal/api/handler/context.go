package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/taskflow-api/internal/api/middleware"
	"github.com/taskflow/taskflow-api/internal/core/domain"
)

// identityFrom extracts the identity injected by the Auth middleware. A
// missing or empty identity means the route was mounted without Auth.
func identityFrom(c echo.Context) (domain.Identity, error) {
	identity, _ := c.Get(middleware.IdentityKey).(domain.Identity)
	if !identity.Authenticated() {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity, nil
}

func tokenFrom(c echo.Context) string {
	token, _ := c.Get(middleware.TokenKey).(string)
	return token
}
