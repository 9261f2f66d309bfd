package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identitylab/identity-service/internal/core/domain"
)

// RBAC enforces role-based access control on routes behind Auth. The request
// passes when the identity's role satisfies any of requiredRoles (ADMIN
// subsumes USER, see domain.RoleSatisfies).
func RBAC(requiredRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			for _, want := range requiredRoles {
				if domain.RoleSatisfies(role, want) {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
