package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HomeHandler serves the public greeting and the role-gated probe pages.
type HomeHandler struct{}

func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Greeting handles GET / — public, no auth required.
func (h *HomeHandler) Greeting(c echo.Context) error {
	return c.String(http.StatusOK, "Welcome to the Home page....")
}

// AfterAuthAll handles GET /afterauthall — any authenticated identity.
func (h *HomeHandler) AfterAuthAll(c echo.Context) error {
	return c.String(http.StatusOK, "Authenticated")
}

// AfterAuthUser handles GET /user — requires the USER role.
func (h *HomeHandler) AfterAuthUser(c echo.Context) error {
	return c.String(http.StatusOK, "Authenticated User")
}

// AfterAuthAdmin handles GET /admin — requires the ADMIN role.
func (h *HomeHandler) AfterAuthAdmin(c echo.Context) error {
	return c.String(http.StatusOK, "Authenticated Admin")
}

// Me handles GET /me — echoes the authenticated identity back to the caller.
func (h *HomeHandler) Me(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identity)
}
