package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identitylab/identity-service/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any handler logic: a non-empty role
// proves the middleware ran for this request.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	username, _ := c.Get("username").(string)
	role, _ := c.Get("role").(string)
	if username == "" || role == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return &domain.Identity{Username: username, Role: role}, nil
}
